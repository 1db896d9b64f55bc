package board

import "strings"

// Criteria selects a subset of records. Unset fields impose no constraint.
type Criteria struct {
	// Players matches records where any participant is any of these players.
	Players []int64
	// Classes matches records where any participant has any of these classes,
	// compared after NormalizeClass.
	Classes []string
	// Meta and Category match raw values exactly.
	Meta     string
	Category string
	// PB, when set, matches records whose PB flag equals *PB.
	PB *bool
}

// Active reports whether any predicate is set.
func (c Criteria) Active() bool {
	return len(c.Players) > 0 || len(c.Classes) > 0 || c.Meta != "" || c.Category != "" || c.PB != nil
}

// NormalizeClass trims and lowercases a class name for matching.
func NormalizeClass(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// matchingRecords returns the ids of records with at least one player record
// satisfying match.
func matchingRecords(prs []PlayerRecord, match func(PlayerRecord) bool) map[int64]struct{} {
	ids := make(map[int64]struct{})
	for _, pr := range prs {
		if match(pr) {
			ids[pr.RecordID] = struct{}{}
		}
	}
	return ids
}

// Filter returns the records satisfying every active predicate in c, in their
// original order.
func Filter(records []Record, prs []PlayerRecord, c Criteria) []Record {
	var byPlayer, byClass map[int64]struct{}
	if len(c.Players) > 0 {
		want := make(map[int64]struct{}, len(c.Players))
		for _, id := range c.Players {
			want[id] = struct{}{}
		}
		byPlayer = matchingRecords(prs, func(pr PlayerRecord) bool {
			_, ok := want[pr.PlayerID]
			return ok
		})
	}
	if len(c.Classes) > 0 {
		want := make(map[string]struct{}, len(c.Classes))
		for _, cl := range c.Classes {
			if n := NormalizeClass(cl); n != "" {
				want[n] = struct{}{}
			}
		}
		if len(want) > 0 {
			byClass = matchingRecords(prs, func(pr PlayerRecord) bool {
				_, ok := want[NormalizeClass(pr.Class)]
				return ok
			})
		}
	}

	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if byPlayer != nil {
			if _, ok := byPlayer[rec.ID]; !ok {
				continue
			}
		}
		if byClass != nil {
			if _, ok := byClass[rec.ID]; !ok {
				continue
			}
		}
		if c.Meta != "" && rec.Meta != c.Meta {
			continue
		}
		if c.Category != "" && rec.Category != c.Category {
			continue
		}
		if c.PB != nil && rec.PB != *c.PB {
			continue
		}
		out = append(out, rec)
	}
	return out
}
