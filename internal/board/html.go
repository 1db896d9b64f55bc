package board

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/jmoiron/psoboard/internal/board/cellfmt"
)

func formatRank(rank int64) string {
	return strconv.FormatInt(rank, 10)
}

// WriteHTML writes t as a table element. All text is escaped.
func (t Table) WriteHTML(w io.Writer) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(`<table class="leaderboard">`)
	bw.WriteString("<thead><tr>")
	for _, h := range t.Header {
		bw.WriteString("<th>")
		bw.WriteString(cellfmt.Escape(h))
		bw.WriteString("</th>")
	}
	bw.WriteString("</tr></thead>\n<tbody>\n")
	span := strconv.Itoa(len(t.Header))
	for _, r := range t.Rows {
		switch r.Kind {
		case DividerRow:
			bw.WriteString(`<tr class="group-divider"><td colspan="` + span + `">`)
			bw.WriteString(cellfmt.Escape(r.Label))
			bw.WriteString("</td></tr>\n")
		default:
			if r.FirstInRecord {
				bw.WriteString(`<tr class="record-first">`)
			} else {
				bw.WriteString(`<tr class="record-cont">`)
			}
			for _, c := range r.Cells {
				bw.WriteString("<td>")
				if c.HTML != "" {
					bw.WriteString(c.HTML)
				} else {
					bw.WriteString(cellfmt.Escape(c.Text))
				}
				bw.WriteString("</td>")
			}
			bw.WriteString("</tr>\n")
		}
	}
	bw.WriteString("</tbody></table>\n")
	return bw.Flush()
}

// HTML returns the markup written by WriteHTML.
func (t Table) HTML() string {
	var sb strings.Builder
	// strings.Builder never fails a write
	_ = t.WriteHTML(&sb)
	return sb.String()
}
