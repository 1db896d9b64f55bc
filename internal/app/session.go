package app

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jmoiron/psoboard/internal/board"
	"github.com/jmoiron/psoboard/internal/typeahead"
)

// widgetParams names the query parameters that carry one typeahead widget's
// selection and events.
type widgetParams struct {
	selected string
	query    string
	pick     string
	enter    string
	escape   string
	blur     string
	remove   string
}

var (
	playerParams = widgetParams{selected: "player", query: "pq", pick: "pick", enter: "penter", escape: "pesc", blur: "pblur", remove: "premove"}
	classParams  = widgetParams{selected: "class", query: "cq", pick: "cpick", enter: "center", escape: "cesc", blur: "cblur", remove: "cremove"}
)

// Session is the filter state of one page view. It is rebuilt from the
// request url on every request and never stored.
type Session struct {
	lb *Leaderboard

	Players *typeahead.Widget
	Classes *typeahead.Widget

	Meta     string
	Category string
	PB       *bool
	Options  board.Options

	defaults board.Options
}

// Field is a name/value pair rendered as a hidden form input.
type Field struct {
	Name, Value string
}

// NewSession parses the selection in q. Typeahead events are applied
// separately with Apply.
func NewSession(lb *Leaderboard, q url.Values, defaults board.Options) *Session {
	s := &Session{
		lb:       lb,
		Players:  typeahead.New(lb.playerItems, playerKeys(q[playerParams.selected])...),
		Classes:  typeahead.New(lb.classItems, normalizeAll(q[classParams.selected])...),
		Meta:     q.Get("meta"),
		Category: q.Get("category"),
		Options:  defaults,
		defaults: defaults,
	}
	if v, err := strconv.ParseBool(q.Get("pb")); err == nil {
		s.PB = &v
	}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n >= 0 {
		s.Options.Limit = n
	}
	if v, err := strconv.ParseBool(q.Get("labels")); err == nil {
		s.Options.GroupLabels = v
	}
	return s
}

// playerKeys drops selected players that are not numeric ids, which no
// filter could match.
func playerKeys(ss []string) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if _, err := strconv.ParseInt(s, 10, 64); err == nil {
			out = append(out, s)
		}
	}
	return out
}

func normalizeAll(ss []string) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		out = append(out, board.NormalizeClass(s))
	}
	return out
}

// Apply feeds the typeahead events in q to both widgets. It reports whether
// a selection changed, in which case the caller should redirect to URL().
func (s *Session) Apply(q url.Values) bool {
	changed := applyEvents(s.Players, q, playerParams)
	if applyEvents(s.Classes, q, classParams) {
		changed = true
	}
	return changed
}

func applyEvents(w *typeahead.Widget, q url.Values, p widgetParams) bool {
	changed := false
	if key := q.Get(p.remove); key != "" {
		changed = w.Remove(key)
	}
	if q.Has(p.query) {
		w.Input(q.Get(p.query))
	}
	switch {
	case q.Get(p.pick) != "":
		if w.Click(q.Get(p.pick)) {
			changed = true
		}
	case q.Has(p.enter):
		if w.Enter() {
			changed = true
		}
	case q.Has(p.escape):
		w.Escape()
	case q.Has(p.blur):
		w.Blur()
	}
	return changed
}

// Criteria converts the selection into filter predicates.
func (s *Session) Criteria() board.Criteria {
	c := board.Criteria{
		Classes:  s.Classes.Selected(),
		Meta:     s.Meta,
		Category: s.Category,
		PB:       s.PB,
	}
	for _, k := range s.Players.Selected() {
		id, _ := strconv.ParseInt(k, 10, 64)
		c.Players = append(c.Players, id)
	}
	return c
}

// Query returns the canonical query string for the current selection.
func (s *Session) Query() url.Values {
	v := url.Values{}
	for _, k := range s.Players.Selected() {
		v.Add(playerParams.selected, k)
	}
	for _, k := range s.Classes.Selected() {
		v.Add(classParams.selected, k)
	}
	if s.Meta != "" {
		v.Set("meta", s.Meta)
	}
	if s.Category != "" {
		v.Set("category", s.Category)
	}
	if s.PB != nil {
		v.Set("pb", strconv.FormatBool(*s.PB))
	}
	if s.Options.Limit != s.defaults.Limit {
		v.Set("limit", strconv.Itoa(s.Options.Limit))
	}
	if s.Options.GroupLabels != s.defaults.GroupLabels {
		v.Set("labels", strconv.FormatBool(s.Options.GroupLabels))
	}
	return v
}

func link(v url.Values) string {
	if len(v) == 0 {
		return "/"
	}
	return "/?" + v.Encode()
}

// URL links to the current selection.
func (s *Session) URL() string { return link(s.Query()) }

func (s *Session) params(kind string) (*typeahead.Widget, widgetParams) {
	if kind == "class" {
		return s.Classes, classParams
	}
	return s.Players, playerParams
}

// RemoveURL links to the selection with key removed from the kind ("player"
// or "class") widget.
func (s *Session) RemoveURL(kind, key string) string {
	_, p := s.params(kind)
	v := s.Query()
	v.Set(p.remove, key)
	return link(v)
}

// PickURL links to a click on the suggestion key for the current query.
func (s *Session) PickURL(kind, key string) string {
	w, p := s.params(kind)
	v := s.Query()
	v.Set(p.query, w.Query())
	v.Set(p.pick, key)
	return link(v)
}

// CloseURL links to an escape event, closing the suggestions of kind.
func (s *Session) CloseURL(kind string) string {
	w, p := s.params(kind)
	v := s.Query()
	v.Set(p.query, w.Query())
	v.Set(p.escape, "1")
	return link(v)
}

// BlurURL links to a click outside the widget of kind, which closes its
// suggestions.
func (s *Session) BlurURL(kind string) string {
	w, p := s.params(kind)
	v := s.Query()
	v.Set(p.query, w.Query())
	v.Set(p.blur, "1")
	return link(v)
}

// Hidden returns the selection as form fields, leaving out the fields a
// form sets itself.
func (s *Session) Hidden(exclude ...string) []Field {
	skip := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		skip[e] = true
	}
	var out []Field
	v := s.Query()
	for _, name := range []string{"player", "class", "meta", "category", "pb", "limit", "labels"} {
		if skip[name] {
			continue
		}
		for _, val := range v[name] {
			out = append(out, Field{Name: name, Value: val})
		}
	}
	return out
}

// PBValue is the pb filter as a form value: "", "true" or "false".
func (s *Session) PBValue() string {
	if s.PB == nil {
		return ""
	}
	return strconv.FormatBool(*s.PB)
}

func labels(items []typeahead.Item) string {
	ls := make([]string, 0, len(items))
	for _, it := range items {
		ls = append(ls, it.Label)
	}
	return strings.Join(ls, ", ")
}

// Summary describes the active filters.
func (s *Session) Summary() []string {
	var parts []string
	if chips := s.PlayerChips(); len(chips) > 0 {
		parts = append(parts, "players: "+labels(chips))
	}
	if chips := s.Classes.Chips(); len(chips) > 0 {
		parts = append(parts, "class: "+labels(chips))
	}
	if s.Meta != "" {
		parts = append(parts, "meta: "+s.Meta)
	}
	if s.Category != "" {
		parts = append(parts, "category: "+s.Category)
	}
	if s.PB != nil {
		if *s.PB {
			parts = append(parts, "PB only")
		} else {
			parts = append(parts, "No-PB only")
		}
	}
	return parts
}

// PlayerChips are the selected players, with ids that are not in the dataset
// labeled the way the table labels them.
func (s *Session) PlayerChips() []typeahead.Item {
	chips := s.Players.Chips()
	for i, c := range chips {
		if c.Label != c.Key {
			continue
		}
		if id, err := strconv.ParseInt(c.Key, 10, 64); err == nil {
			chips[i].Label = s.lb.PlayerName(id)
		}
	}
	return chips
}

// Status is the one line summary shown above the table.
func (s *Session) Status(matched int) string {
	noun := "records"
	if matched == 1 {
		noun = "record"
	}
	parts := append([]string{humanize.Comma(int64(matched)) + " " + noun}, s.Summary()...)
	return strings.Join(parts, " · ")
}
