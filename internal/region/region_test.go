// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package region

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/civic-search/pkg/types"
)

func testClassifier() *Classifier {
	return NewClassifier(types.DefaultConfig().Region)
}

// --- Classify ---

func TestClassify(t *testing.T) {
	c := testClassifier()
	tests := []struct {
		name  string
		texts []string
		want  types.Region
	}{
		{"local keyword", []string{"Votação no Senado Federal"}, types.RegionLocal},
		{"local accent-free", []string{"eleicoes em sao paulo"}, types.RegionLocal},
		{"local domain", []string{"Notícia", "https://www.camara.leg.br/noticias"}, types.RegionLocal},
		{"short word alone", []string{"Fila do SUS aumenta"}, types.RegionLocal},
		{"short word inside longer word", []string{"Suspense in Hollywood"}, types.RegionInternational},
		{"regional", []string{"Eleições na Argentina"}, types.RegionRegional},
		{"regional domain", []string{"https://www.clarin.com.ar/politica"}, types.RegionRegional},
		{"local wins over regional", []string{"Brasil e Argentina no Mercosul"}, types.RegionLocal},
		{"international", []string{"European Parliament vote"}, types.RegionInternational},
		{"empty", nil, types.RegionInternational},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.texts...))
		})
	}
}

func TestTrusted(t *testing.T) {
	c := testClassifier()
	assert.True(t, c.Trusted(types.ContentItem{SourceName: "Agência Brasil"}))
	assert.True(t, c.Trusted(types.ContentItem{SourceName: "agencia brasil"}))
	assert.True(t, c.Trusted(types.ContentItem{URL: "https://g1.globo.com/economia/x.ghtml"}))
	assert.False(t, c.Trusted(types.ContentItem{SourceName: "Blog do Zé", URL: "https://blog.example.com"}))
}

// --- Prioritize ---

func item(id string, r types.Region, source string, score float64) types.ContentItem {
	return types.ContentItem{ID: id, Region: r, SourceName: source, RelevanceScore: score}
}

func ids(items []types.ContentItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestIsLocal(t *testing.T) {
	p := NewPrioritizer(testClassifier(), "local")
	assert.True(t, p.IsLocal(""))
	assert.True(t, p.IsLocal("LOCAL"))
	assert.False(t, p.IsLocal("world"))
}

func TestBucketOf(t *testing.T) {
	p := NewPrioritizer(testClassifier(), "local")
	assert.Equal(t, BucketPriority, p.BucketOf(item("a", types.RegionLocal, "G1", 0)))
	assert.Equal(t, BucketLocal, p.BucketOf(item("b", types.RegionLocal, "Blog", 0)))
	assert.Equal(t, BucketRegional, p.BucketOf(item("c", types.RegionRegional, "G1", 0)))
	assert.Equal(t, BucketInternational, p.BucketOf(item("d", types.RegionInternational, "", 0)))
	assert.Equal(t, "priority", BucketPriority.String())
	assert.Equal(t, "international", BucketInternational.String())
}

func TestPrioritize_BucketOrder(t *testing.T) {
	p := NewPrioritizer(testClassifier(), "local")
	items := []types.ContentItem{
		item("intl-high", types.RegionInternational, "Reuters", 99),
		item("local-low", types.RegionLocal, "Blog", 10),
		item("regional", types.RegionRegional, "Clarín", 80),
		item("priority", types.RegionLocal, "G1", 20),
		item("local-high", types.RegionLocal, "Blog", 60),
	}

	out := p.Prioritize(items, "local")
	assert.Equal(t, []string{"priority", "local-high", "local-low", "regional", "intl-high"}, ids(out))

	// Buckets are non-decreasing and scores descend within a bucket.
	for i := 1; i < len(out); i++ {
		bi, bj := p.BucketOf(out[i-1]), p.BucketOf(out[i])
		require.LessOrEqual(t, bi, bj)
		if bi == bj {
			assert.GreaterOrEqual(t, out[i-1].RelevanceScore, out[i].RelevanceScore)
		}
	}

	// Input untouched.
	assert.Equal(t, "intl-high", items[0].ID)
}

func TestPrioritize_NonLocalSortsByScore(t *testing.T) {
	p := NewPrioritizer(testClassifier(), "local")
	items := []types.ContentItem{
		item("local", types.RegionLocal, "G1", 20),
		item("intl", types.RegionInternational, "", 90),
		item("regional", types.RegionRegional, "", 50),
	}
	out := p.Prioritize(items, "world")
	assert.Equal(t, []string{"intl", "regional", "local"}, ids(out))
}

func TestPrioritize_Idempotent(t *testing.T) {
	p := NewPrioritizer(testClassifier(), "local")
	now := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	items := []types.ContentItem{
		{ID: "b", Region: types.RegionLocal, RelevanceScore: 50, Timestamp: now},
		{ID: "a", Region: types.RegionLocal, RelevanceScore: 50, Timestamp: now},
		{ID: "c", Region: types.RegionRegional, RelevanceScore: 70},
	}
	once := p.Prioritize(items, "local")
	twice := p.Prioritize(once, "local")
	assert.Equal(t, once, twice)
	assert.Equal(t, []string{"a", "b", "c"}, ids(once))
}

// --- Affinity ---

func TestApplyAffinity(t *testing.T) {
	items := []types.ContentItem{
		item("l", types.RegionLocal, "", 50),
		item("r", types.RegionRegional, "", 50),
		item("i", types.RegionInternational, "", 50),
		item("max", types.RegionLocal, "", 98),
	}
	ApplyAffinity(items)
	assert.Equal(t, 55.0, items[0].RelevanceScore)
	assert.Equal(t, 52.0, items[1].RelevanceScore)
	assert.Equal(t, 50.0, items[2].RelevanceScore)
	assert.Equal(t, 100.0, items[3].RelevanceScore)
}
