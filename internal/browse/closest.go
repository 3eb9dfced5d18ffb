package browse

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jask/holocron/internal/catalog"
)

// Closest returns the item whose name best matches query, ignoring case.
// A name starting with the query beats any edit distance; ties keep the
// earlier item.
func Closest(items []catalog.Item, query string) (catalog.Item, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || len(items) == 0 {
		return catalog.Item{}, false
	}
	best, bestDist := -1, 0
	for i, it := range items {
		name := strings.ToLower(it.Name)
		if strings.HasPrefix(name, q) {
			return it, true
		}
		d := levenshtein.ComputeDistance(name, q)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return items[best], true
}
