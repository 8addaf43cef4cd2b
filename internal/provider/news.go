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

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/civic-search/internal/httputil"
	"github.com/pdiddy/civic-search/internal/logging"
	"github.com/pdiddy/civic-search/internal/region"
	"github.com/pdiddy/civic-search/internal/score"
	"github.com/pdiddy/civic-search/pkg/types"
)

// News publisher trust tiers.
const (
	newsBaseTrusted = 60.0
	newsBaseKnown   = 50.0
	newsBaseOther   = 40.0
)

var newsRecency = score.RecencyProfile{Fresh: 15, Recent: 8, Week: 3}

// NewsFetcher queries a NewsAPI-compatible /everything endpoint.
type NewsFetcher struct {
	Client     *http.Client
	Config     types.ProviderConfig
	UserAgent  string
	Classifier *region.Classifier
	Enhancer   Enhancer
	Logger     *zap.Logger
}

// Name returns the provider ID.
func (f *NewsFetcher) Name() string { return "news" }

// Kind returns types.KindNews.
func (f *NewsFetcher) Kind() types.Kind { return types.KindNews }

// Ready reports whether the provider is enabled and has an API key.
func (f *NewsFetcher) Ready() error {
	if !f.Config.Enabled {
		return ErrDisabled
	}
	if f.Config.APIKey == "" || f.Config.BaseURL == "" {
		return ErrNotConfigured
	}
	return nil
}

// Profile scores articles by publisher trust tier.
func (f *NewsFetcher) Profile() Profile {
	return Profile{
		Base: func(it types.ContentItem) float64 {
			switch {
			case f.Classifier != nil && f.Classifier.Trusted(it):
				return newsBaseTrusted
			case it.SourceName != "" && hasSourceID(it.Tags):
				return newsBaseKnown
			default:
				return newsBaseOther
			}
		},
		Recency: newsRecency,
	}
}

// sourceTagPrefix marks the tag carrying the upstream source ID. Only
// sources registered with the upstream have one.
const sourceTagPrefix = "source:"

func hasSourceID(tags []string) bool {
	for _, t := range tags {
		if strings.HasPrefix(t, sourceTagPrefix) {
			return true
		}
	}
	return false
}

// Fetch queries the news API.
func (f *NewsFetcher) Fetch(ctx context.Context, p Params) ([]types.ContentItem, error) {
	q := f.Enhancer.Enhance(p)
	params := url.Values{
		"q":        {q},
		"pageSize": {strconv.Itoa(min(p.MaxResults, 100))},
		"sortBy":   {"relevancy"},
	}
	if p.Language != "" {
		params.Set("language", p.Language)
	}
	reqURL := strings.TrimRight(f.Config.BaseURL, "/") + "/everything?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.UserAgent)
	req.Header.Set("X-Api-Key", f.Config.APIKey)

	resp, err := httputil.DoWithRetry(ctx, f.Client, req, f.Config.MaxRetries, f.Logger)
	if err != nil {
		return nil, fmt.Errorf("news API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news API returned HTTP %d", resp.StatusCode)
	}

	var nr newsResponse
	if err := json.NewDecoder(resp.Body).Decode(&nr); err != nil {
		return nil, fmt.Errorf("parsing news response: %w", err)
	}
	if nr.Status != "ok" {
		return nil, fmt.Errorf("news API error %s: %s", nr.Code, nr.Message)
	}

	logging.OrNop(f.Logger).Debug("News API answered",
		zap.String("query", q),
		zap.Int("total_results", nr.TotalResults),
		zap.Int("articles", len(nr.Articles)),
	)

	var items []types.ContentItem
	for _, a := range nr.Articles {
		if it, ok := f.normalizeArticle(a, p.Category); ok {
			items = append(items, it)
		}
	}
	return items, nil
}

// normalizeArticle maps one article to a ContentItem. Articles without a
// title or URL, and upstream "[Removed]" placeholders, are dropped.
func (f *NewsFetcher) normalizeArticle(a newsArticle, category string) (types.ContentItem, bool) {
	title := strings.TrimSpace(a.Title)
	if title == "" || a.URL == "" || title == "[Removed]" {
		return types.ContentItem{}, false
	}
	it := types.ContentItem{
		ID:         uuid.NewSHA1(uuid.NameSpaceURL, []byte(a.URL)).String(),
		Kind:       types.KindNews,
		Title:      title,
		Summary:    a.Description,
		Body:       stripTruncationMarker(a.Content),
		SourceName: a.Source.Name,
		URL:        a.URL,
	}
	if a.Source.ID != "" {
		it.Tags = append(it.Tags, sourceTagPrefix+a.Source.ID)
	}
	if category != "" {
		it.Tags = append(it.Tags, category)
	}
	if t, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
		it.Timestamp = t
	}
	if f.Classifier != nil {
		it.Region = f.Classifier.Classify(a.Title, a.Description, a.Source.Name, a.URL)
	}
	return it, true
}

// stripTruncationMarker removes the "[+1234 chars]" suffix the upstream
// appends to truncated content.
func stripTruncationMarker(s string) string {
	if i := strings.LastIndex(s, "[+"); i >= 0 && strings.HasSuffix(s, "chars]") {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// News API JSON structures.
type newsResponse struct {
	Status       string        `json:"status"`
	Code         string        `json:"code"`
	Message      string        `json:"message"`
	TotalResults int           `json:"totalResults"`
	Articles     []newsArticle `json:"articles"`
}

type newsArticle struct {
	Source      newsSource `json:"source"`
	Author      string     `json:"author"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	URL         string     `json:"url"`
	PublishedAt string     `json:"publishedAt"`
	Content     string     `json:"content"`
}

type newsSource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
