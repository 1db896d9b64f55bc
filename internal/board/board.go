package board

import "strings"

// Result is the output of one pipeline run.
type Result struct {
	// Matched is the number of records that passed the filter.
	Matched int
	Table   Table
}

// Build runs Filter, Join, Sort and Render over d.
func Build(d *Dataset, c Criteria, opts Options) Result {
	quests, players := d.Indexes()
	recs := Filter(d.Records, d.PlayerRecords, c)
	rows := Join(recs, d.PlayerRecords, quests, players)
	Sort(rows)
	return Result{Matched: len(recs), Table: Render(rows, opts)}
}

// distinct returns the unique non-empty values of f over items, collated.
func distinct[T any](items []T, f func(T) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, it := range items {
		v := f(it)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	col := NewCollator()
	sortStrings(col, out)
	return out
}

// Metas lists the distinct meta values of d's records.
func (d *Dataset) Metas() []string {
	return distinct(d.Records, func(r Record) string { return r.Meta })
}

// Categories lists the distinct category values of d's records.
func (d *Dataset) Categories() []string {
	return distinct(d.Records, func(r Record) string { return r.Category })
}

// Classes lists the distinct classes of d's player records, keyed by their
// normalized form. The label is the first spelling seen.
func (d *Dataset) Classes() map[string]string {
	out := make(map[string]string)
	for _, pr := range d.PlayerRecords {
		k := NormalizeClass(pr.Class)
		if k == "" {
			continue
		}
		if _, ok := out[k]; !ok {
			out[k] = strings.TrimSpace(pr.Class)
		}
	}
	return out
}
