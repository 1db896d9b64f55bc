package board

import (
	"math"
	"sort"
	"strings"

	"github.com/jmoiron/psoboard/internal/board/cellfmt"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// GroupSep joins the parts of a group key. Parts are not escaped, so a meta or
// category containing GroupSep can make two distinct groups share a key.
const GroupSep = "||"

// GroupKey identifies the leaderboard section a row belongs to.
func GroupKey(r Row) string {
	return strings.Join([]string{r.Quest, r.Record.Meta, r.Record.Category, cellfmt.PB(r.Record.PB)}, GroupSep)
}

// GroupLabel is the human readable form of a row's group.
func GroupLabel(r Row) string {
	return strings.Join([]string{r.Quest, r.Record.Meta, r.Record.Category, cellfmt.PB(r.Record.PB)}, " · ")
}

// Collator compares strings in a locale-aware way, falling back to byte order
// when the locale considers two strings equal so that the result is a total
// order. A Collator must not be shared between goroutines.
type Collator struct {
	c *collate.Collator
}

// NewCollator returns a Collator for English text that ignores case and
// diacritics on the first pass.
func NewCollator() *Collator {
	return &Collator{c: collate.New(language.English, collate.Loose)}
}

// Compare returns -1, 0 or 1. It is 0 only when a == b.
func (c *Collator) Compare(a, b string) int {
	if n := c.c.CompareString(a, b); n != 0 {
		return n
	}
	return strings.Compare(a, b)
}

// compareTime orders finite times ascending with NaN last.
func compareTime(a, b float64) int {
	an, bn := math.IsNaN(a), math.IsNaN(b)
	switch {
	case an && bn:
		return 0
	case an:
		return 1
	case bn:
		return -1
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Sort orders rows in place: by group key, then by record (rank, time, id)
// so a record's rows stay together, then by participant (player record id,
// player name).
func Sort(rows []Row) {
	col := NewCollator()
	sort.SliceStable(rows, func(i, j int) bool {
		return compareRows(col, rows[i], rows[j]) < 0
	})
}

func compareRows(col *Collator, a, b Row) int {
	if n := col.Compare(GroupKey(a), GroupKey(b)); n != 0 {
		return n
	}
	if n := compareInt(a.Record.Rank, b.Record.Rank); n != 0 {
		return n
	}
	if n := compareTime(a.Record.Time, b.Record.Time); n != 0 {
		return n
	}
	if n := compareInt(a.Record.ID, b.Record.ID); n != 0 {
		return n
	}
	if n := compareInt(a.PlayerRecordID, b.PlayerRecordID); n != 0 {
		return n
	}
	return col.Compare(a.Player, b.Player)
}

// sortStrings sorts ss in collation order.
func sortStrings(col *Collator, ss []string) {
	sort.SliceStable(ss, func(i, j int) bool { return col.Compare(ss[i], ss[j]) < 0 })
}
