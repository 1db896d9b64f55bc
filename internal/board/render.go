package board

import "github.com/jmoiron/psoboard/internal/board/cellfmt"

// Columns are the fixed table headings, in display order.
var Columns = []string{"Quest", "Meta", "Category", "PB", "Time", "Rank", "Player", "Class", "POV"}

// Placed is a row annotated with its position in the grouped output.
type Placed struct {
	Row           Row
	GroupKey      string
	FirstInGroup  bool
	FirstInRecord bool
}

// Fold annotates sorted rows with group and record boundaries. It is the only
// place that tracks the previously seen row.
func Fold(rows []Row) []Placed {
	out := make([]Placed, 0, len(rows))
	var (
		lastGroup  string
		lastRecord int64
	)
	for i, r := range rows {
		key := GroupKey(r)
		p := Placed{Row: r, GroupKey: key}
		p.FirstInGroup = i == 0 || key != lastGroup
		p.FirstInRecord = p.FirstInGroup || r.Record.ID != lastRecord
		lastGroup, lastRecord = key, r.Record.ID
		out = append(out, p)
	}
	return out
}

// RowKind distinguishes group dividers from data rows.
type RowKind int

const (
	DataRow RowKind = iota
	DividerRow
)

// Cell is one table cell. HTML holds pre-escaped markup; it is only set for
// the POV column.
type Cell struct {
	Text string
	HTML string
}

// TableRow is either a divider, which carries the group label when labels are
// enabled, or a data row with one cell per column.
type TableRow struct {
	Kind          RowKind
	GroupKey      string
	Label         string
	FirstInRecord bool
	Cells         []Cell
}

// Table is the structured form of a rendered leaderboard.
type Table struct {
	Header []string
	Rows   []TableRow
	// Records is the number of distinct records rendered.
	Records int
	// Truncated is set when Options.Limit cut records off.
	Truncated bool
}

// Options control rendering.
type Options struct {
	// GroupLabels renders the group label text in divider rows.
	GroupLabels bool
	// Limit caps the number of records rendered; 0 means no limit. A record's
	// rows are never split.
	Limit int
}

// Render builds a table from sorted rows.
func Render(rows []Row, opts Options) Table {
	t := Table{Header: append([]string(nil), Columns...)}
	for _, p := range Fold(rows) {
		if p.FirstInRecord {
			if opts.Limit > 0 && t.Records >= opts.Limit {
				t.Truncated = true
				break
			}
			t.Records++
		}
		if p.FirstInGroup {
			div := TableRow{Kind: DividerRow, GroupKey: p.GroupKey}
			if opts.GroupLabels {
				div.Label = GroupLabel(p.Row)
			}
			t.Rows = append(t.Rows, div)
		}
		t.Rows = append(t.Rows, dataRow(p))
	}
	return t
}

func dataRow(p Placed) TableRow {
	r := p.Row
	cells := make([]Cell, len(Columns))
	if p.FirstInRecord {
		cells[0] = Cell{Text: r.Quest}
		cells[1] = Cell{Text: r.Record.Meta}
		cells[2] = Cell{Text: r.Record.Category}
		cells[3] = Cell{Text: cellfmt.PB(r.Record.PB)}
		cells[4] = Cell{Text: cellfmt.Time(r.Record.Time)}
		cells[5] = Cell{Text: formatRank(r.Record.Rank)}
	}
	cells[6] = Cell{Text: r.Player}
	cells[7] = Cell{Text: r.Class}
	cells[8] = Cell{Text: r.POV, HTML: cellfmt.POV(r.POV)}
	return TableRow{Kind: DataRow, GroupKey: p.GroupKey, FirstInRecord: p.FirstInRecord, Cells: cells}
}
