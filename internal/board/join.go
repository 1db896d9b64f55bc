package board

import "sort"

// Row is one (record, participant) pairing with its display names resolved.
type Row struct {
	Record Record
	// Quest is the resolved quest name, or UnknownQuest.
	Quest string

	// PlayerRecordID is 0 for the placeholder row of a record without players.
	PlayerRecordID int64
	PlayerID       int64
	// Player is the resolved player name, NoPlayers, or an unknown player label.
	Player string
	Class  string
	POV    string
}

// QuestName resolves a quest id against quests, falling back to UnknownQuest.
func QuestName(quests map[int64]Quest, id int64) string {
	if q, ok := quests[id]; ok && q.Name != "" {
		return q.Name
	}
	return UnknownQuest
}

// PlayerName resolves a player id against players, falling back to an
// "(unknown player N)" label.
func PlayerName(players map[int64]Player, id int64) string {
	if p, ok := players[id]; ok && p.Name != "" {
		return p.Name
	}
	return unknownPlayer(id)
}

// participants groups player records by record id, each group ordered by
// player record id.
func participants(prs []PlayerRecord) map[int64][]PlayerRecord {
	byRecord := make(map[int64][]PlayerRecord)
	for _, pr := range prs {
		byRecord[pr.RecordID] = append(byRecord[pr.RecordID], pr)
	}
	for _, group := range byRecord {
		sort.SliceStable(group, func(i, j int) bool { return group[i].ID < group[j].ID })
	}
	return byRecord
}

// Join produces one Row per (record, participant) pair, in record order.
// A record with no participants yields exactly one placeholder Row.
func Join(records []Record, prs []PlayerRecord, quests map[int64]Quest, players map[int64]Player) []Row {
	byRecord := participants(prs)
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		quest := QuestName(quests, rec.QuestID)
		group := byRecord[rec.ID]
		if len(group) == 0 {
			rows = append(rows, Row{Record: rec, Quest: quest, Player: NoPlayers})
			continue
		}
		for _, pr := range group {
			rows = append(rows, Row{
				Record:         rec,
				Quest:          quest,
				PlayerRecordID: pr.ID,
				PlayerID:       pr.PlayerID,
				Player:         PlayerName(players, pr.PlayerID),
				Class:          pr.Class,
				POV:            pr.POV,
			})
		}
	}
	return rows
}
