package typeahead

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func people() []Item {
	return []Item{
		{Key: "1", Label: "Alice"},
		{Key: "2", Label: "Alan"},
		{Key: "3", Label: "Bob"},
	}
}

func TestSuggestionsSortedByLabel(t *testing.T) {
	w := New(people())
	require.Equal(t, Idle, w.State())
	require.Empty(t, w.Suggestions())

	w.Input("al")
	require.Equal(t, Suggesting, w.State())
	require.Equal(t, []Item{{Key: "2", Label: "Alan"}, {Key: "1", Label: "Alice"}}, w.Suggestions())

	w.Input("  AL ")
	require.Len(t, w.Suggestions(), 2)
}

func TestSuggestionsCapped(t *testing.T) {
	var items []Item
	for i := 0; i < 50; i++ {
		items = append(items, Item{Key: fmt.Sprint(i), Label: fmt.Sprintf("player %02d", i)})
	}
	w := New(items)
	w.Input("player")
	sugg := w.Suggestions()
	require.Len(t, sugg, MaxSuggestions)
	require.Equal(t, "player 00", sugg[0].Label)
	require.Equal(t, "player 09", sugg[9].Label)
}

func TestEmptyInputIsIdle(t *testing.T) {
	w := New(people())
	w.Input("al")
	w.Input("   ")
	require.Equal(t, Idle, w.State())
	require.Empty(t, w.Suggestions())
}

func TestClickCommits(t *testing.T) {
	w := New(people())
	w.Input("al")
	require.True(t, w.Click("1"))
	require.Equal(t, Committed, w.State())
	require.Empty(t, w.Query())
	require.Empty(t, w.Suggestions())
	require.Equal(t, []string{"1"}, w.Selected())

	// selected items are no longer suggested
	w.Input("al")
	require.Equal(t, []Item{{Key: "2", Label: "Alan"}}, w.Suggestions())

	// a key that is not on offer is ignored
	require.False(t, w.Click("3"))
	require.Equal(t, Suggesting, w.State())
}

func TestEnterCommitsFirstMatch(t *testing.T) {
	w := New(people())
	w.Input("al")
	require.True(t, w.Enter())
	require.Equal(t, []string{"2"}, w.Selected())

	w.Input("zzz")
	require.False(t, w.Enter())
	require.Equal(t, Suggesting, w.State())
	require.Equal(t, []string{"2"}, w.Selected())
}

func TestEscapeAndBlurKeepSelection(t *testing.T) {
	w := New(people(), "3")
	w.Input("al")
	w.Escape()
	require.Equal(t, Idle, w.State())
	require.Empty(t, w.Suggestions())
	require.Equal(t, []string{"3"}, w.Selected())

	w.Input("a")
	w.Blur()
	require.Equal(t, Idle, w.State())
	require.Equal(t, []string{"3"}, w.Selected())
}

func TestRemoveChip(t *testing.T) {
	w := New(people(), "1", "3")
	require.True(t, w.Remove("1"))
	require.False(t, w.Remove("1"))
	require.Equal(t, Idle, w.State())
	require.Equal(t, []Item{{Key: "3", Label: "Bob"}}, w.Chips())
	require.False(t, w.Has("1"))
}

func TestDuplicateAddIsNoop(t *testing.T) {
	w := New(people(), "1", "1")
	require.Equal(t, []string{"1"}, w.Selected())
}

func TestChipsUnknownKey(t *testing.T) {
	w := New(people(), "42")
	require.Equal(t, []Item{{Key: "42", Label: "42"}}, w.Chips())
}
