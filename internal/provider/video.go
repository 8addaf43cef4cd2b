// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/civic-search/internal/httputil"
	"github.com/pdiddy/civic-search/internal/logging"
	"github.com/pdiddy/civic-search/internal/region"
	"github.com/pdiddy/civic-search/internal/score"
	"github.com/pdiddy/civic-search/pkg/types"
)

const videoBase = 45.0

// VideoFetcher queries a YouTube Data API compatible search endpoint and
// enriches hits with view, like and comment counts from the videos endpoint.
type VideoFetcher struct {
	Client      *http.Client
	Config      types.ProviderConfig
	UserAgent   string
	CountryCode string
	Classifier  *region.Classifier
	Enhancer    Enhancer
	Logger      *zap.Logger
}

// Name returns the provider ID.
func (f *VideoFetcher) Name() string { return "videos" }

// Kind returns types.KindVideo.
func (f *VideoFetcher) Kind() types.Kind { return types.KindVideo }

// Ready reports whether the provider is enabled and has an API key.
func (f *VideoFetcher) Ready() error {
	if !f.Config.Enabled {
		return ErrDisabled
	}
	if f.Config.APIKey == "" || f.Config.BaseURL == "" {
		return ErrNotConfigured
	}
	return nil
}

// Profile gives videos a flat base; engagement carries the difference.
func (f *VideoFetcher) Profile() Profile {
	return Profile{Base: FlatBase(videoBase), Recency: score.DefaultRecency}
}

// Fetch runs the search and, best effort, the statistics lookup.
func (f *VideoFetcher) Fetch(ctx context.Context, p Params) ([]types.ContentItem, error) {
	q := f.Enhancer.Enhance(p)
	params := url.Values{
		"part":       {"snippet"},
		"type":       {"video"},
		"q":          {q},
		"maxResults": {strconv.Itoa(min(p.MaxResults, 50))},
		"key":        {f.Config.APIKey},
	}
	if p.Language != "" {
		params.Set("relevanceLanguage", p.Language)
	}
	if p.Local && f.CountryCode != "" {
		params.Set("regionCode", f.CountryCode)
	}

	var sr videoSearchResponse
	if err := f.get(ctx, "/search", params, &sr); err != nil {
		return nil, fmt.Errorf("video search: %w", err)
	}

	var (
		items []types.ContentItem
		ids   []string
	)
	for _, hit := range sr.Items {
		if hit.ID.VideoID == "" {
			continue
		}
		items = append(items, f.normalizeVideo(hit, p.Category))
		ids = append(ids, hit.ID.VideoID)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	stats, err := f.statistics(ctx, ids)
	if err != nil {
		// Results without engagement still beat fallback content.
		logging.OrNop(f.Logger).Debug("Video statistics unavailable", zap.Error(err))
		return items, nil
	}
	for i, id := range ids {
		if s, ok := stats[id]; ok {
			items[i].Engagement = s.engagement()
		}
	}
	return items, nil
}

func (f *VideoFetcher) statistics(ctx context.Context, ids []string) (map[string]videoStatistics, error) {
	params := url.Values{
		"part": {"statistics"},
		"id":   {strings.Join(ids, ",")},
		"key":  {f.Config.APIKey},
	}
	var vr videoListResponse
	if err := f.get(ctx, "/videos", params, &vr); err != nil {
		return nil, err
	}
	out := make(map[string]videoStatistics, len(vr.Items))
	for _, v := range vr.Items {
		out[v.ID] = v.Statistics
	}
	return out, nil
}

func (f *VideoFetcher) get(ctx context.Context, path string, params url.Values, dst any) error {
	reqURL := strings.TrimRight(f.Config.BaseURL, "/") + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, f.Client, req, f.Config.MaxRetries, f.Logger)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

func (f *VideoFetcher) normalizeVideo(hit videoSearchItem, category string) types.ContentItem {
	sn := hit.Snippet
	it := types.ContentItem{
		ID:         hit.ID.VideoID,
		Kind:       types.KindVideo,
		Title:      sn.Title,
		Summary:    sn.Description,
		SourceName: sn.ChannelTitle,
		URL:        "https://www.youtube.com/watch?v=" + url.QueryEscape(hit.ID.VideoID),
	}
	if category != "" {
		it.Tags = []string{category}
	}
	if t, err := time.Parse(time.RFC3339, sn.PublishedAt); err == nil {
		it.Timestamp = t
	}
	if f.Classifier != nil {
		it.Region = f.Classifier.Classify(sn.Title, sn.Description, sn.ChannelTitle, sn.ChannelID)
	}
	return it
}

// Video API JSON structures. Statistics arrive as decimal strings.
type videoSearchResponse struct {
	Items []videoSearchItem `json:"items"`
}

type videoSearchItem struct {
	ID struct {
		VideoID string `json:"videoId"`
	} `json:"id"`
	Snippet videoSnippet `json:"snippet"`
}

type videoSnippet struct {
	PublishedAt  string `json:"publishedAt"`
	ChannelID    string `json:"channelId"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ChannelTitle string `json:"channelTitle"`
}

type videoListResponse struct {
	Items []struct {
		ID         string          `json:"id"`
		Statistics videoStatistics `json:"statistics"`
	} `json:"items"`
}

type videoStatistics struct {
	ViewCount    string `json:"viewCount"`
	LikeCount    string `json:"likeCount"`
	CommentCount string `json:"commentCount"`
}

func (s videoStatistics) engagement() types.Engagement {
	return types.Engagement{
		Views:    parseCount(s.ViewCount),
		Likes:    parseCount(s.LikeCount),
		Comments: parseCount(s.CommentCount),
	}
}

// parseCount returns nil for hidden or malformed counters.
func parseCount(s string) *int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}
