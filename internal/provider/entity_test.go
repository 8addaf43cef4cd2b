// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/civic-search/internal/region"
	"github.com/pdiddy/civic-search/internal/store"
	"github.com/pdiddy/civic-search/pkg/types"
)

type fakeSearcher struct {
	entities []store.Entity
	err      error
	limit    int
}

func (s *fakeSearcher) Search(_ context.Context, kind types.Kind, _ string, limit int) ([]store.Entity, error) {
	s.limit = limit
	var out []store.Entity
	for _, e := range s.entities {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out, s.err
}

func TestEntityFetcher_ReadyWithoutStore(t *testing.T) {
	f := NewEntityFetcher(types.KindPost, nil, nil)
	assert.ErrorIs(t, f.Ready(), ErrNotConfigured)
	assert.Equal(t, "posts", f.Name())
	assert.Equal(t, types.KindPost, f.Kind())
}

func TestEntityFetcher_FetchPosts(t *testing.T) {
	s := &fakeSearcher{entities: []store.Entity{
		{ID: "p1", Kind: types.KindPost, Title: "Reforma no bairro", Body: "Reunião na praça", Likes: 30, Region: types.RegionLocal},
		{ID: "p2", Kind: types.KindPost, Title: "Reforma da Previdência no Brasil"},
		{ID: "u1", Kind: types.KindUser, Title: "Maria"},
	}}
	f := NewEntityFetcher(types.KindPost, s, region.NewClassifier(types.DefaultConfig().Region))

	items, err := f.Fetch(context.Background(), Params{Query: "reforma", MaxResults: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, s.limit)
	require.Len(t, items, 2)

	assert.Equal(t, "Comunidade", items[0].SourceName)
	assert.Equal(t, "/posts/p1", items[0].URL)
	assert.Equal(t, types.RegionLocal, items[0].Region)
	assert.Equal(t, int64(30), *items[0].Engagement.Likes)

	// No stored region: classified from the text.
	assert.Equal(t, types.RegionLocal, items[1].Region)
}

func TestEntityFetcher_CategoryFilter(t *testing.T) {
	s := &fakeSearcher{entities: []store.Entity{
		{ID: "p1", Kind: types.KindPost, Title: "Reforma", Tags: []string{"Economia"}},
		{ID: "p2", Kind: types.KindPost, Title: "Reforma", Tags: []string{"cultura"}},
	}}
	f := NewEntityFetcher(types.KindPost, s, nil)

	items, err := f.Fetch(context.Background(), Params{Query: "reforma", Category: "economia", MaxResults: 2})
	require.NoError(t, err)
	assert.Equal(t, 6, s.limit)
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ID)
}

func TestEntityFetcher_Users(t *testing.T) {
	s := &fakeSearcher{entities: []store.Entity{
		{ID: "u1", Kind: types.KindUser, Title: "maria", DisplayName: "Maria Souza", Handle: "@maria", Body: "Professora", Verified: true},
	}}
	f := NewEntityFetcher(types.KindUser, s, nil)

	items, err := f.Fetch(context.Background(), Params{Query: "maria", MaxResults: 5})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Maria Souza", items[0].Title)
	assert.Equal(t, "Professora", items[0].Summary)
	assert.Equal(t, "/users/maria", items[0].URL)
	assert.Equal(t, "Perfis", items[0].SourceName)
	assert.True(t, items[0].Verified)
}

func TestEntityFetcher_StoreError(t *testing.T) {
	f := NewEntityFetcher(types.KindPost, &fakeSearcher{err: errors.New("disk I/O")}, nil)
	_, err := f.Fetch(context.Background(), Params{Query: "x", MaxResults: 1})
	assert.Error(t, err)
}

func TestEntityProvider_OverStore(t *testing.T) {
	st, err := store.Open(types.StoreConfig{Path: ":memory:", Enabled: true})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Upsert(context.Background(), []store.Entity{
		{ID: "p1", Kind: types.KindPost, Title: "Reforma agrária", Public: true, CreatedAt: testNow.Add(-2 * time.Hour)},
	}))

	g := NewGuard(NewEntityFetcher(types.KindPost, st, nil), NewTemplateGenerator(fixedNow), GuardOptions{Now: fixedNow})
	items := g.Search(context.Background(), Params{Query: "reforma", MaxResults: 5})
	require.Len(t, items, 1)
	assert.Equal(t, "posts:p1", items[0].ID)
	assert.False(t, items[0].Synthetic)
	// Base 50, title 10, fresh 10.
	assert.Equal(t, 70.0, items[0].RelevanceScore)
}
