// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math/rand"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/civic-search/pkg/types"
)

// Generator produces plausible stand-in items when a source is unavailable.
// Implementations must be safe for concurrent use.
type Generator interface {
	Generate(kind types.Kind, p Params, n int) []types.ContentItem
}

// maxSynthetic caps one fallback batch.
const maxSynthetic = 25

var titleTemplates = map[types.Kind][]string{
	types.KindNews: {
		"%s: o que muda para os cidadãos",
		"Entenda a proposta sobre %s",
		"%s avança no debate público",
		"Especialistas analisam %s",
		"Governo e sociedade discutem %s",
	},
	types.KindVideo: {
		"Debate ao vivo: %s",
		"%s explicado em 5 minutos",
		"Audiência pública sobre %s",
		"Cidadãos comentam %s",
	},
	types.KindPost: {
		"Discussão da comunidade sobre %s",
		"Proposta cidadã: %s",
		"Enquete: qual sua opinião sobre %s?",
	},
	types.KindUser: {
		"Participante interessado em %s",
		"Grupo de estudos: %s",
	},
}

var summaryTemplates = map[types.Kind]string{
	types.KindNews:  "Resumo do noticiário recente sobre %s e seus impactos.",
	types.KindVideo: "Vídeo com análises e depoimentos sobre %s.",
	types.KindPost:  "Membros da plataforma compartilham opiniões sobre %s.",
	types.KindUser:  "Perfil que acompanha discussões sobre %s.",
}

var sourceNames = map[types.Kind]string{
	types.KindNews:  "Resumo Cívico",
	types.KindVideo: "Canal Cívico",
	types.KindPost:  "Comunidade",
	types.KindUser:  "Perfis",
}

var syntheticRegions = []types.Region{types.RegionLocal, types.RegionRegional, types.RegionInternational}

// TemplateGenerator produces the same items for the same kind, query and
// count. Timestamps step back one hour per item from Now.
type TemplateGenerator struct {
	Now func() time.Time
}

// NewTemplateGenerator returns a deterministic generator. A nil now uses
// time.Now.
func NewTemplateGenerator(now func() time.Time) *TemplateGenerator {
	if now == nil {
		now = time.Now
	}
	return &TemplateGenerator{Now: now}
}

// Generate returns n fallback items (at most 25).
func (g *TemplateGenerator) Generate(kind types.Kind, p Params, n int) []types.ContentItem {
	n = clampCount(n)
	now := g.Now()
	out := make([]types.ContentItem, n)
	for i := range out {
		out[i] = templateItem(kind, p.Query, i)
		out[i].Timestamp = now.Add(-time.Duration(i+1) * time.Hour)
		out[i].Region = syntheticRegions[i%len(syntheticRegions)]
		out[i].Engagement = types.Engagement{
			Views: types.Count(int64(100 * (n - i))),
			Likes: types.Count(int64(5 * (n - i))),
		}
	}
	return out
}

// RandomGenerator varies timestamps, regions and engagement so demo content
// looks live. Each item is drawn from its own source seeded by the
// generator seed, kind, query and position, so the same request always
// yields the same items and position i is the same item at every page depth.
type RandomGenerator struct {
	seed int64
	now  func() time.Time
}

// NewRandomGenerator returns a generator seeded with seed. A zero seed uses
// the clock, which is stable for the life of the process.
func NewRandomGenerator(seed int64, now func() time.Time) *RandomGenerator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if now == nil {
		now = time.Now
	}
	return &RandomGenerator{seed: seed, now: now}
}

// Generate returns n fallback items (at most 25).
func (g *RandomGenerator) Generate(kind types.Kind, p Params, n int) []types.ContentItem {
	n = clampCount(n)
	now := g.now()

	out := make([]types.ContentItem, n)
	for i := range out {
		rnd := g.itemRand(kind, p.Query, i)
		out[i] = templateItem(kind, p.Query, rnd.Intn(len(titles(kind))))
		out[i].ID = fmt.Sprintf("synthetic-%s-%d", kind, i)
		out[i].Timestamp = now.Add(-time.Duration(rnd.Intn(14*24)+1) * time.Hour)
		out[i].Region = syntheticRegions[rnd.Intn(len(syntheticRegions))]
		out[i].Engagement = types.Engagement{
			Views:    types.Count(int64(rnd.Intn(5000))),
			Likes:    types.Count(int64(rnd.Intn(200))),
			Comments: types.Count(int64(rnd.Intn(40))),
		}
	}
	return out
}

func (g *RandomGenerator) itemRand(kind types.Kind, query string, i int) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(kind))
	h.Write([]byte{0})
	h.Write([]byte(strings.ToLower(strings.TrimSpace(query))))
	var idx [8]byte
	binary.BigEndian.PutUint64(idx[:], uint64(i))
	h.Write(idx[:])
	return rand.New(rand.NewSource(g.seed ^ int64(h.Sum64())))
}

func clampCount(n int) int {
	if n < 1 {
		return 1
	}
	if n > maxSynthetic {
		return maxSynthetic
	}
	return n
}

func titles(kind types.Kind) []string {
	if t, ok := titleTemplates[kind]; ok {
		return t
	}
	return []string{"Conteúdo relacionado a %s"}
}

func templateItem(kind types.Kind, query string, i int) types.ContentItem {
	t := titles(kind)
	subject := strings.TrimSpace(query)
	summary, ok := summaryTemplates[kind]
	if !ok {
		summary = "Conteúdo sugerido sobre %s."
	}
	source, ok := sourceNames[kind]
	if !ok {
		source = "Civic Search"
	}
	it := types.ContentItem{
		ID:         fmt.Sprintf("synthetic-%s-%d", kind, i),
		Kind:       kind,
		Title:      fmt.Sprintf(t[i%len(t)], subject),
		Summary:    fmt.Sprintf(summary, subject),
		SourceName: source,
		URL:        "/search?" + url.Values{"q": {subject}, "type": {string(kind)}}.Encode(),
		Tags:       []string{"sugerido", string(kind)},
	}
	if kind == types.KindUser {
		it.Handle = fmt.Sprintf("@civico_%d", i+1)
	}
	return it
}
