// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/civic-search/internal/store"
	"github.com/pdiddy/civic-search/pkg/types"
)

type mockSuggestions struct {
	users   []store.Entity
	tags    []store.TagCount
	userErr error
}

func (m *mockSuggestions) Identities(_ context.Context, _ string, _ int) ([]store.Entity, error) {
	return m.users, m.userErr
}

func (m *mockSuggestions) Tags(_ context.Context, _ string, _ int) ([]store.TagCount, error) {
	return m.tags, nil
}

func byType(s []types.Suggestion) map[string][]string {
	out := map[string][]string{}
	for _, x := range s {
		out[x.Type] = append(out[x.Type], x.Value)
	}
	return out
}

func TestSuggest_ShortQuery(t *testing.T) {
	s := NewService(types.DefaultConfig(), &mockAggregator{}, &mockSuggestions{}, nil)
	for _, q := range []string{"", " ", "s", " ç "} {
		got := s.Suggest(context.Background(), q)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	}
}

func TestSuggest_AllSources(t *testing.T) {
	src := &mockSuggestions{
		users: []store.Entity{{ID: "u1", Handle: "@sandra", DisplayName: "Sandra Lima", Verified: true}},
		tags:  []store.TagCount{{Tag: "saude", Count: 4}},
	}
	s := NewService(types.DefaultConfig(), &mockAggregator{}, src, nil)

	got := s.Suggest(context.Background(), "sa")
	require.Len(t, got, 3)

	assert.Equal(t, types.Suggestion{
		Type: SuggestionUser, Value: "@sandra",
		Metadata: map[string]string{"id": "u1", "display_name": "Sandra Lima", "verified": "true"},
	}, got[0])
	assert.Equal(t, types.Suggestion{
		Type: SuggestionTag, Value: "#saude", Metadata: map[string]string{"count": "4"},
	}, got[1])
	assert.Equal(t, types.Suggestion{
		Type: SuggestionCategory, Value: "Saúde", Metadata: map[string]string{"key": "saude"},
	}, got[2])
}

func TestSuggest_FailingSourceSkipped(t *testing.T) {
	src := &mockSuggestions{
		userErr: errors.New("database locked"),
		tags:    []store.TagCount{{Tag: "educacao", Count: 1}},
	}
	s := NewService(types.DefaultConfig(), &mockAggregator{}, src, nil)

	got := byType(s.Suggest(context.Background(), "educ"))
	assert.Empty(t, got[SuggestionUser])
	assert.Equal(t, []string{"#educacao"}, got[SuggestionTag])
	assert.Equal(t, []string{"Educação"}, got[SuggestionCategory])
}

func TestSuggest_PerSourceCap(t *testing.T) {
	cfg := types.DefaultConfig()
	cfg.Search.SuggestionsPerSource = 1
	src := &mockSuggestions{
		users: []store.Entity{{ID: "u1", Handle: "@ana"}, {ID: "u2", Handle: "@anabela"}},
	}
	s := NewService(cfg, &mockAggregator{}, src, nil)

	got := byType(s.Suggest(context.Background(), "an"))
	assert.Equal(t, []string{"@ana"}, got[SuggestionUser])
}

func TestSuggest_WithoutStoreServesCategories(t *testing.T) {
	s := NewService(types.DefaultConfig(), &mockAggregator{}, nil, nil)
	got := byType(s.Suggest(context.Background(), "ECONO"))
	assert.Equal(t, []string{"Economia"}, got[SuggestionCategory])
	assert.Len(t, got, 1)
}

func TestSuggest_OverStore(t *testing.T) {
	st, err := store.Open(types.StoreConfig{Path: ":memory:", Enabled: true})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Upsert(context.Background(), []store.Entity{
		{ID: "u1", Kind: types.KindUser, Handle: "@mariana", DisplayName: "Mariana Costa", Public: true, CreatedAt: testNow},
		{ID: "p1", Kind: types.KindPost, Title: "Mutirão", Tags: []string{"mariana"}, Public: true, CreatedAt: testNow},
	}))

	s := NewService(types.DefaultConfig(), &mockAggregator{}, st, nil)
	got := byType(s.Suggest(context.Background(), "mari"))
	assert.Equal(t, []string{"@mariana"}, got[SuggestionUser])
	assert.Equal(t, []string{"#mariana"}, got[SuggestionTag])
}
