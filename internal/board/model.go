// Package board joins, filters, groups, sorts and renders leaderboard data.
//
// Everything in this package is a pure transform over immutable inputs; the
// loading of datasets and any selection state live with the caller.
package board

import "fmt"

const (
	// UnknownQuest is displayed when a record's quest_id does not resolve.
	UnknownQuest = "(unknown quest)"
	// NoPlayers is the participant label of a record without player records.
	NoPlayers = "(no players)"
)

// Quest is a quest definition, looked up by ID.
type Quest struct {
	ID   int64
	Name string
}

// Player is a participant identity, looked up by ID.
type Player struct {
	ID   int64
	Name string
}

// Record is one ranked, timed run of a quest.
type Record struct {
	ID       int64
	QuestID  int64
	Meta     string
	Category string
	PB       bool
	// Time is in seconds. Negative values are countdowns; NaN means unknown.
	Time float64
	Rank int64
}

// PlayerRecord is one participant's role within a Record.
type PlayerRecord struct {
	ID       int64
	RecordID int64
	PlayerID int64
	Class    string
	// POV is a url or free text describing the participant's point of view.
	POV string
}

// Dataset holds the four collections a leaderboard is built from. It is
// loaded once and treated as read-only.
type Dataset struct {
	Quests        []Quest
	Players       []Player
	Records       []Record
	PlayerRecords []PlayerRecord
}

// Indexes builds the quest and player lookups for d.
func (d *Dataset) Indexes() (map[int64]Quest, map[int64]Player) {
	return QuestIndex(d.Quests), PlayerIndex(d.Players)
}

// unknownPlayer is the label of a player record whose player_id does not resolve.
func unknownPlayer(id int64) string {
	return fmt.Sprintf("(unknown player %d)", id)
}
