package typeahead

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// MaxSuggestions caps the number of suggestions shown at once.
const MaxSuggestions = 10

// normalize trims and lowercases a query or label for matching.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// matchLabel reports whether the normalized query appears in label, ignoring
// case. An empty query matches nothing.
func matchLabel(label, query string) bool {
	if query == "" {
		return false
	}
	return strings.Contains(strings.ToLower(label), query)
}

// search returns up to limit items whose label contains query and whose key
// is not excluded, ordered by label and then key.
func search(items []Item, query string, exclude map[string]struct{}, limit int) []Item {
	q := normalize(query)
	var out []Item
	for _, it := range items {
		if _, ok := exclude[it.Key]; ok {
			continue
		}
		if matchLabel(it.Label, q) {
			out = append(out, it)
		}
	}
	col := collate.New(language.English, collate.Loose)
	sort.SliceStable(out, func(i, j int) bool {
		if n := col.CompareString(out[i].Label, out[j].Label); n != 0 {
			return n < 0
		}
		if out[i].Label != out[j].Label {
			return out[i].Label < out[j].Label
		}
		return out[i].Key < out[j].Key
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
