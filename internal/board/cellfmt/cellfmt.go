// Package cellfmt formats leaderboard values for display in table cells.
package cellfmt

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// Remaining is appended to negative (countdown) times.
const Remaining = "Remaining"

// Escape replaces the five HTML-significant characters in s with entities.
func Escape(s string) string {
	if !strings.ContainsAny(s, `&<>"'`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&#39;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Time formats signed seconds as minutes'seconds, eg. 454 -> 7'34. Negative
// values are shown by magnitude followed by Remaining; NaN, infinities and
// magnitudes outside the int64 range format as "". Fractional seconds are
// truncated.
func Time(secs float64) string {
	abs := math.Abs(secs)
	if math.IsNaN(secs) || abs >= math.MaxInt64 {
		return ""
	}
	neg := secs < 0
	total := int64(math.Floor(abs))
	s := fmt.Sprintf("%d'%02d", total/60, total%60)
	if neg {
		s += " " + Remaining
	}
	return s
}

// PB renders a personal-best flag.
func PB(pb bool) string {
	if pb {
		return "PB"
	}
	return "No-PB"
}

var linkRe = regexp.MustCompile(`(?i)^https?://\S+$`)

// IsLink reports whether a POV value should be rendered as a link.
func IsLink(pov string) bool {
	return linkRe.MatchString(strings.TrimSpace(pov))
}

// POV renders a point-of-view value as escaped HTML: an external link when
// it is an http(s) url, otherwise plain text.
func POV(pov string) string {
	if !IsLink(pov) {
		return Escape(pov)
	}
	u := strings.TrimSpace(pov)
	return `<a href="` + Escape(u) + `" target="_blank" rel="noopener noreferrer">` + Escape(u) + `</a>`
}
