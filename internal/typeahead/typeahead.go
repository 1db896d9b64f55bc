// Package typeahead implements a multi-select search-and-chip widget as a
// small state machine, independent of any UI toolkit.
//
// A Widget starts Idle. Typing a non-empty query moves it to Suggesting,
// where up to MaxSuggestions unselected matches are offered. Clicking a
// suggestion or pressing Enter commits an item as a chip, clears the query
// and leaves the widget Committed, which shows no suggestions just like Idle.
// Escape and Blur close the suggestions without touching the selection.
package typeahead

// Item is a selectable entry. Key is opaque to the widget; Label is what the
// user searches and sees.
type Item struct {
	Key   string
	Label string
}

// State is the widget's display state.
type State int

const (
	Idle State = iota
	Suggesting
	Committed
)

func (s State) String() string {
	switch s {
	case Suggesting:
		return "suggesting"
	case Committed:
		return "committed"
	}
	return "idle"
}

// Widget is a multi-select typeahead over a fixed set of items.
type Widget struct {
	items  []Item
	labels map[string]string

	selected map[string]struct{}
	// order keeps chips in the order they were added
	order []string

	query string
	state State
}

// New returns an idle widget over items with the given keys preselected.
func New(items []Item, selected ...string) *Widget {
	w := &Widget{
		items:    items,
		labels:   make(map[string]string, len(items)),
		selected: make(map[string]struct{}),
	}
	for _, it := range items {
		w.labels[it.Key] = it.Label
	}
	for _, k := range selected {
		w.add(k)
	}
	return w
}

// State returns the current state.
func (w *Widget) State() State { return w.state }

// Query returns the current input text.
func (w *Widget) Query() string { return w.query }

// add inserts key into the selection; it reports false for duplicates.
func (w *Widget) add(key string) bool {
	if key == "" {
		return false
	}
	if _, ok := w.selected[key]; ok {
		return false
	}
	w.selected[key] = struct{}{}
	w.order = append(w.order, key)
	return true
}

func (w *Widget) commit(key string) bool {
	changed := w.add(key)
	w.query = ""
	w.state = Committed
	return changed
}

// Input sets the query text. A non-empty query opens suggestions; an empty
// one closes them.
func (w *Widget) Input(q string) {
	w.query = q
	if normalize(q) == "" {
		w.state = Idle
		return
	}
	w.state = Suggesting
}

// Suggestions returns the items offered for the current query. It is empty
// unless the widget is Suggesting.
func (w *Widget) Suggestions() []Item {
	if w.state != Suggesting {
		return nil
	}
	return search(w.items, w.query, w.selected, MaxSuggestions)
}

// Click commits a suggested item. Keys that are not currently suggested are
// ignored. It reports whether the selection changed.
func (w *Widget) Click(key string) bool {
	for _, it := range w.Suggestions() {
		if it.Key == key {
			return w.commit(key)
		}
	}
	return false
}

// Enter commits the first suggestion, if any. It reports whether the
// selection changed.
func (w *Widget) Enter() bool {
	sugg := w.Suggestions()
	if len(sugg) == 0 {
		return false
	}
	return w.commit(sugg[0].Key)
}

// Escape closes the suggestions.
func (w *Widget) Escape() { w.state = Idle }

// Blur handles a pointer interaction outside the input and suggestions; it
// closes the suggestions.
func (w *Widget) Blur() { w.state = Idle }

// Remove deletes key from the selection. Suggestions are not reopened. It
// reports whether the selection changed.
func (w *Widget) Remove(key string) bool {
	if _, ok := w.selected[key]; !ok {
		return false
	}
	delete(w.selected, key)
	for i, k := range w.order {
		if k == key {
			w.order = append(w.order[:i:i], w.order[i+1:]...)
			break
		}
	}
	if w.state == Committed {
		w.state = Idle
	}
	return true
}

// Has reports whether key is selected.
func (w *Widget) Has(key string) bool {
	_, ok := w.selected[key]
	return ok
}

// Selected returns the selected keys in the order they were added.
func (w *Widget) Selected() []string {
	return append([]string(nil), w.order...)
}

// Chips returns the selected items in the order they were added. Keys with no
// known item use the key as label.
func (w *Widget) Chips() []Item {
	out := make([]Item, 0, len(w.order))
	for _, k := range w.order {
		label, ok := w.labels[k]
		if !ok {
			label = k
		}
		out = append(out, Item{Key: k, Label: label})
	}
	return out
}
