// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/civic-search/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.StoreConfig{Path: filepath.Join(t.TempDir(), "civic.db"), Enabled: true})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleEntities() []Entity {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []Entity{
		{
			ID: "p1", Kind: types.KindPost, Title: "Reforma tributária em debate",
			Body: "Discussão sobre a reforma no Congresso Nacional", Handle: "@maria",
			Tags: []string{"Reforma", "impostos"}, Public: true, Likes: 40, CreatedAt: base,
		},
		{
			ID: "p2", Kind: types.KindPost, Title: "Mutirão de limpeza no bairro",
			Body: "Voluntários para a praça", Handle: "@joao",
			Tags: []string{"bairro"}, Public: true, CreatedAt: base.Add(time.Hour),
		},
		{
			ID: "p3", Kind: types.KindPost, Title: "Rascunho sobre a REFORMA",
			Body: "privado", Tags: []string{"reforma"}, Public: false, CreatedAt: base.Add(2 * time.Hour),
		},
		{
			ID: "p4", Kind: types.KindPost, Title: "Reforma agrária: audiência pública",
			Tags: []string{"reforma", "campo"}, Public: true, CreatedAt: base.Add(3 * time.Hour),
		},
		{
			ID: "u1", Kind: types.KindUser, Title: "Maria Souza", Handle: "@maria",
			DisplayName: "Maria Souza", Public: true, Verified: true, CreatedAt: base,
		},
		{
			ID: "u2", Kind: types.KindUser, Title: "Mariana Lima", Handle: "@marilima",
			DisplayName: "Mariana Lima", Public: true, CreatedAt: base,
		},
		{
			ID: "u3", Kind: types.KindUser, Title: "Ana Maria", Handle: "@anam",
			DisplayName: "Ana Maria", Public: true, CreatedAt: base,
		},
	}
}

// --- Search ---

func TestSearchSubstringPublicOnly(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Upsert(ctx, sampleEntities()))

	got, err := s.Search(ctx, types.KindPost, "reforma", 10)
	require.NoError(t, err)

	ids := entityIDs(got)
	assert.Equal(t, []string{"p4", "p1"}, ids, "private p3 excluded, newest first")
	assert.Equal(t, []string{"impostos", "reforma"}, got[1].Tags)
	assert.True(t, got[1].Public)
	assert.Equal(t, int64(40), got[1].Likes)
}

func TestSearchIgnoresAccentsAndCase(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Upsert(ctx, sampleEntities()))

	got, err := s.Search(ctx, types.KindPost, "REFORMA AGRARIA", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"p4"}, entityIDs(got))
}

func TestSearchEscapesLikeWildcards(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Upsert(ctx, sampleEntities()))

	got, err := s.Search(ctx, types.KindPost, "%", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearchEmptyQueryAndLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Upsert(ctx, sampleEntities()))

	got, err := s.Search(ctx, types.KindPost, "   ", 10)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = s.Search(ctx, types.KindPost, "reforma", 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestUpsertReplaces(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Upsert(ctx, sampleEntities()))

	updated := sampleEntities()[1]
	updated.Title = "Mutirão adiado"
	updated.Tags = []string{"adiado"}
	require.NoError(t, s.Upsert(ctx, []Entity{updated}))

	got, err := s.Search(ctx, types.KindPost, "mutirão", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Mutirão adiado", got[0].Title)

	tags, err := s.Tags(ctx, "bairro", 5)
	require.NoError(t, err)
	assert.Empty(t, tags, "old tags removed")
}

func TestUpsertRejectsMissingID(t *testing.T) {
	s := openTestStore(t)
	err := s.Upsert(context.Background(), []Entity{{Kind: types.KindPost, Title: "x"}})
	assert.Error(t, err)
}

// --- Suggestion lookups ---

func TestIdentitiesPrefixFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Upsert(ctx, sampleEntities()))

	got, err := s.Identities(ctx, "@mari", 5)
	require.NoError(t, err)
	ids := entityIDs(got)
	require.Len(t, ids, 3)
	assert.ElementsMatch(t, []string{"u1", "u2"}, ids[:2], "handle prefix matches first")
	assert.Equal(t, "u3", ids[2])
}

func TestTagsMostUsedFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Upsert(ctx, sampleEntities()))

	got, err := s.Tags(ctx, "#re", 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, TagCount{Tag: "reforma", Count: 2}, got[0], "private entity not counted")
}

func TestCount(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Upsert(ctx, sampleEntities()))

	got, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, got[types.KindPost])
	assert.Equal(t, 3, got[types.KindUser])
}

// --- Seed files ---

func TestSeedRoundTripAndImport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, WriteSeedFile(path, sampleEntities()))

	s := openTestStore(t)
	n, err := s.Import(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	got, err := s.Search(context.Background(), types.KindUser, "souza", 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Verified)
}

func TestImportMissingFile(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Import(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestOpenInMemory(t *testing.T) {
	s, err := Open(types.StoreConfig{Path: ":memory:"})
	require.NoError(t, err)
	defer s.Close()
	assert.NoError(t, s.Ping(context.Background()))
}

func entityIDs(es []Entity) []string {
	ids := make([]string, len(es))
	for i, e := range es {
		ids[i] = e.ID
	}
	return ids
}
