// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"sort"
	"strings"

	"github.com/pdiddy/civic-search/internal/normalize"
)

// Category is a browsable topic. Key is the folded lookup key; Label is the
// display name used in suggestions.
type Category struct {
	Key   string
	Label string
}

// categories lists the topics the enhancement tables understand.
var categories = []Category{
	{Key: "politica", Label: "Política"},
	{Key: "economia", Label: "Economia"},
	{Key: "saude", Label: "Saúde"},
	{Key: "educacao", Label: "Educação"},
	{Key: "seguranca", Label: "Segurança"},
	{Key: "meio ambiente", Label: "Meio ambiente"},
	{Key: "transporte", Label: "Transporte"},
	{Key: "cultura", Label: "Cultura"},
}

// Categories returns the known categories sorted by label.
func Categories() []Category {
	out := append([]Category(nil), categories...)
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// newsExpansions maps a category to the keywords appended to news queries.
var newsExpansions = map[string]string{
	"politica":      "governo congresso eleições",
	"economia":      "economia mercado inflação emprego",
	"saude":         "saúde SUS hospitais vacinação",
	"educacao":      "educação escolas universidades ENEM",
	"seguranca":     "segurança pública polícia violência",
	"meio ambiente": "meio ambiente clima desmatamento",
	"transporte":    "transporte público mobilidade urbana",
	"cultura":       "cultura arte patrimônio",
}

// videoExpansions are shorter: video search ranks long queries poorly.
var videoExpansions = map[string]string{
	"politica":      "debate político",
	"economia":      "economia explicada",
	"saude":         "saúde pública",
	"educacao":      "educação pública",
	"seguranca":     "segurança pública",
	"meio ambiente": "meio ambiente",
	"transporte":    "mobilidade urbana",
	"cultura":       "cultura brasileira",
}

// Enhancer appends category and locale context to a raw query before it is
// sent upstream.
type Enhancer struct {
	// Expansions maps folded category keys to expansion phrases. Unmapped
	// categories pass through unchanged.
	Expansions map[string]string

	// Qualifier is appended for local requests unless the query already
	// mentions it.
	Qualifier string
}

// Enhance returns the upstream query for p.
func (e Enhancer) Enhance(p Params) string {
	parts := []string{strings.TrimSpace(p.Query)}
	if p.Category != "" {
		if exp, ok := e.Expansions[normalize.Fold(p.Category)]; ok {
			parts = append(parts, exp)
		}
	}
	if p.Local && e.Qualifier != "" && !normalize.Contains(p.Query, e.Qualifier) {
		parts = append(parts, e.Qualifier)
	}
	return strings.Join(parts, " ")
}
