package catalog

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// FilterByCategory returns the stores that belong to c, preserving order.
func FilterByCategory(stores []Store, c Category) []Store {
	var out []Store
	for _, s := range stores {
		if s.InCategory(c) {
			out = append(out, s)
		}
	}
	return out
}

// CashbackStores returns stores offering cashback, highest percentage first.
func CashbackStores(stores []Store) []Store {
	var out []Store
	for _, s := range stores {
		if s.HasCashback() {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Cashback > out[j].Cashback
	})
	return out
}

// Search ranks stores against a free-text query. Exact substring hits on the
// name come first, then hits on category or description, then names with a
// word within a small edit distance of a query word.
func Search(stores []Store, query string) []Store {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return append([]Store(nil), stores...)
	}

	type hit struct {
		store Store
		score int
	}
	var hits []hit
	terms := strings.Fields(query)
	for _, s := range stores {
		if score, ok := matchScore(s, query, terms); ok {
			hits = append(hits, hit{store: s, score: score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score < hits[j].score
	})

	out := make([]Store, len(hits))
	for i, h := range hits {
		out[i] = h.store
	}
	return out
}

func matchScore(s Store, query string, terms []string) (int, bool) {
	name := strings.ToLower(s.Name)
	if strings.Contains(name, query) {
		return 0, true
	}
	if strings.Contains(strings.ToLower(s.Category), query) ||
		strings.Contains(strings.ToLower(s.Description), query) {
		return 1, true
	}

	best := -1
	for _, term := range terms {
		limit := typoBudget(term)
		if limit == 0 {
			continue
		}
		for _, word := range strings.Fields(name) {
			d := levenshtein.ComputeDistance(term, word)
			if d <= limit && (best < 0 || d < best) {
				best = d
			}
		}
	}
	if best < 0 {
		return 0, false
	}
	return 2 + best, true
}

// typoBudget allows one typo from four runes and two from eight.
func typoBudget(term string) int {
	n := utf8.RuneCountInString(term)
	switch {
	case n >= 8:
		return 2
	case n >= 4:
		return 1
	default:
		return 0
	}
}
