package board

// Index maps each item to its key. When keys repeat, the last item wins.
func Index[K comparable, T any](items []T, key func(T) K) map[K]T {
	m := make(map[K]T, len(items))
	for _, it := range items {
		m[key(it)] = it
	}
	return m
}

// QuestIndex maps quest ids to quests.
func QuestIndex(quests []Quest) map[int64]Quest {
	return Index(quests, func(q Quest) int64 { return q.ID })
}

// PlayerIndex maps player ids to players.
func PlayerIndex(players []Player) map[int64]Player {
	return Index(players, func(p Player) int64 { return p.ID })
}
