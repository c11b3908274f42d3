package search

import "strings"

// synonymPairs is the fixed bidirectional substitution table. Both directions
// of every pair are applied when expanding a query.
var synonymPairs = [][2]string{
	{"park", "nature reserve"},
	{"mountain", "peak"},
	{"mountain", "range"},
	{"lake", "reservoir"},
	{"forest", "woods"},
	{"hill", "ridge"},
	{"beach", "coast"},
	{"valley", "canyon"},
	{"desert", "dunes"},
	{"observatory", "planetarium"},
}

// ExpandSynonyms returns a deduplicated set of query variants, original
// first. Matching is case-insensitive; substitution happens on a lowercased
// copy so variants are stable regardless of input casing. Pure, no I/O.
func ExpandSynonyms(query string) []string {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	lower := strings.ToLower(query)
	variants := []string{query}
	seen := map[string]bool{lower: true}

	add := func(v string) {
		if !seen[v] {
			seen[v] = true
			variants = append(variants, v)
		}
	}

	for _, pair := range synonymPairs {
		if strings.Contains(lower, pair[0]) {
			add(strings.ReplaceAll(lower, pair[0], pair[1]))
		}
		if strings.Contains(lower, pair[1]) {
			add(strings.ReplaceAll(lower, pair[1], pair[0]))
		}
	}

	return variants
}
