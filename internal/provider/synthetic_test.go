// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/civic-search/pkg/types"
)

func TestTemplateGenerator_Deterministic(t *testing.T) {
	g := NewTemplateGenerator(fixedNow)
	p := Params{Query: "transporte"}

	a := g.Generate(types.KindVideo, p, 5)
	b := g.Generate(types.KindVideo, p, 5)
	assert.Equal(t, a, b)

	require.Len(t, a, 5)
	assert.Equal(t, "synthetic-video-0", a[0].ID)
	assert.Equal(t, "Debate ao vivo: transporte", a[0].Title)
	assert.Equal(t, testNow.Add(-time.Hour), a[0].Timestamp)
	assert.Equal(t, types.RegionLocal, a[0].Region)
	assert.Equal(t, types.RegionRegional, a[1].Region)
	assert.Equal(t, types.RegionInternational, a[2].Region)
	assert.Equal(t, "/search?q=transporte&type=video", a[0].URL)
}

func TestTemplateGenerator_ClampsCount(t *testing.T) {
	g := NewTemplateGenerator(fixedNow)
	assert.Len(t, g.Generate(types.KindNews, Params{Query: "x"}, 0), 1)
	assert.Len(t, g.Generate(types.KindNews, Params{Query: "x"}, 100), maxSynthetic)
}

func TestTemplateGenerator_UserHandles(t *testing.T) {
	items := NewTemplateGenerator(fixedNow).Generate(types.KindUser, Params{Query: "saúde"}, 2)
	assert.Equal(t, "@civico_1", items[0].Handle)
	assert.Equal(t, "@civico_2", items[1].Handle)
}

func TestTemplateGenerator_UnknownKind(t *testing.T) {
	items := NewTemplateGenerator(fixedNow).Generate(types.Kind("event"), Params{Query: "feira"}, 1)
	require.Len(t, items, 1)
	assert.Equal(t, "Conteúdo relacionado a feira", items[0].Title)
	assert.Equal(t, "Civic Search", items[0].SourceName)
}

func TestRandomGenerator_SeedReproducible(t *testing.T) {
	p := Params{Query: "educação"}
	a := NewRandomGenerator(42, fixedNow).Generate(types.KindPost, p, 6)
	b := NewRandomGenerator(42, fixedNow).Generate(types.KindPost, p, 6)
	assert.Equal(t, a, b)

	seen := map[string]bool{}
	for _, it := range a {
		assert.False(t, seen[it.ID], "duplicate id %s", it.ID)
		seen[it.ID] = true
		assert.True(t, it.Region.Valid())
		assert.True(t, it.Timestamp.Before(testNow))
	}
}

func TestRandomGenerator_RepeatableAcrossCalls(t *testing.T) {
	g := NewRandomGenerator(42, fixedNow)
	p := Params{Query: "reforma"}

	first := g.Generate(types.KindNews, p, 4)
	second := g.Generate(types.KindNews, p, 4)
	assert.Equal(t, first, second)
}

func TestRandomGenerator_PositionStableAcrossDepth(t *testing.T) {
	g := NewRandomGenerator(42, fixedNow)
	p := Params{Query: "reforma"}

	shallow := g.Generate(types.KindPost, p, 2)
	deep := g.Generate(types.KindPost, p, 6)
	require.Len(t, deep, 6)
	assert.Equal(t, shallow, deep[:2])
}

func TestRandomGenerator_VariesByQuery(t *testing.T) {
	g := NewRandomGenerator(42, fixedNow)
	a := g.Generate(types.KindVideo, Params{Query: "saúde"}, 8)
	b := g.Generate(types.KindVideo, Params{Query: "transporte"}, 8)

	var sameTimestamps int
	for i := range a {
		if a[i].Timestamp.Equal(b[i].Timestamp) {
			sameTimestamps++
		}
	}
	assert.Less(t, sameTimestamps, len(a))
}
