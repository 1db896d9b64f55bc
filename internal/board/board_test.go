package board

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

// fixture is a small league with solo runs, team runs, an orphan record and
// dangling foreign keys.
func fixture() *Dataset {
	return &Dataset{
		Quests: []Quest{
			{ID: 1, Name: "Maximum Attack"},
			{ID: 2, Name: "Towards the Future"},
		},
		Players: []Player{
			{ID: 10, Name: "Alice"},
			{ID: 11, Name: "Bob"},
			{ID: 12, Name: "Carol"},
		},
		Records: []Record{
			{ID: 100, QuestID: 1, Meta: "4p", Category: "any%", PB: true, Time: 454, Rank: 1},
			{ID: 101, QuestID: 1, Meta: "4p", Category: "any%", PB: true, Time: 500, Rank: 2},
			{ID: 102, QuestID: 2, Meta: "solo", Category: "nm", PB: false, Time: 300, Rank: 1},
			{ID: 103, QuestID: 99, Meta: "solo", Category: "nm", PB: true, Time: -60, Rank: 1},
			{ID: 104, QuestID: 2, Meta: "solo", Category: "nm", PB: false, Time: math.NaN(), Rank: 2},
		},
		PlayerRecords: []PlayerRecord{
			// team run: alice as hunter, bob as ranger; ids out of order
			{ID: 2, RecordID: 100, PlayerID: 11, Class: "RAcast", POV: "https://example.com/bob"},
			{ID: 1, RecordID: 100, PlayerID: 10, Class: " HUmar ", POV: "https://example.com/alice"},
			// alice as force, carol as hunter
			{ID: 3, RecordID: 101, PlayerID: 10, Class: "FOnewm", POV: "twitch"},
			{ID: 4, RecordID: 101, PlayerID: 12, Class: "humar"},
			{ID: 5, RecordID: 102, PlayerID: 12, Class: "FOnewm"},
			{ID: 6, RecordID: 103, PlayerID: 77, Class: "HUcast"},
		},
	}
}

func joinAll(d *Dataset) []Row {
	q, p := d.Indexes()
	return Join(d.Records, d.PlayerRecords, q, p)
}

func rowsFor(rows []Row, recordID int64) []Row {
	var out []Row
	for _, r := range rows {
		if r.Record.ID == recordID {
			out = append(out, r)
		}
	}
	return out
}

func TestIndexLastWins(t *testing.T) {
	idx := QuestIndex([]Quest{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}, {ID: 1, Name: "c"}})
	require.Len(t, idx, 2)
	require.Equal(t, "c", idx[1].Name)
}

func TestJoinNoParticipants(t *testing.T) {
	rows := joinAll(fixture())
	orphan := rowsFor(rows, 104)
	require.Len(t, orphan, 1)
	require.Equal(t, NoPlayers, orphan[0].Player)
	require.Empty(t, orphan[0].Class)
	require.Empty(t, orphan[0].POV)
	require.Equal(t, "Towards the Future", orphan[0].Quest)
}

func TestJoinTeamPreservesRecord(t *testing.T) {
	d := fixture()
	rows := rowsFor(joinAll(d), 100)
	require.Len(t, rows, 2)
	for _, r := range rows {
		require.Equal(t, d.Records[0].ID, r.Record.ID)
		require.Equal(t, d.Records[0].Time, r.Record.Time)
		require.Equal(t, d.Records[0].Meta, r.Record.Meta)
	}
	// ordered by player record id, not input order
	require.Equal(t, "Alice", rows[0].Player)
	require.Equal(t, "Bob", rows[1].Player)
}

func TestJoinSentinels(t *testing.T) {
	rows := rowsFor(joinAll(fixture()), 103)
	require.Len(t, rows, 1)
	require.Equal(t, UnknownQuest, rows[0].Quest)
	require.Equal(t, "(unknown player 77)", rows[0].Player)
}

func ids(recs []Record) []int64 {
	out := make([]int64, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	d := fixture()
	yes, no := true, false

	cases := []struct {
		name string
		c    Criteria
		want []int64
	}{
		{"empty", Criteria{}, []int64{100, 101, 102, 103, 104}},
		{"player", Criteria{Players: []int64{10}}, []int64{100, 101}},
		{"any player", Criteria{Players: []int64{11, 12}}, []int64{100, 101, 102}},
		{"class normalized", Criteria{Classes: []string{"  HUMAR"}}, []int64{100, 101}},
		{"blank class ignored", Criteria{Classes: []string{"  "}}, []int64{100, 101, 102, 103, 104}},
		// alice is in 101 but as a force; carol is the hunter
		{"player and class", Criteria{Players: []int64{10}, Classes: []string{"humar"}}, []int64{100, 101}},
		{"player and other class", Criteria{Players: []int64{11}, Classes: []string{"fonewm"}}, nil},
		{"meta exact", Criteria{Meta: "solo"}, []int64{102, 103, 104}},
		{"meta is not normalized", Criteria{Meta: "Solo"}, nil},
		{"category", Criteria{Category: "any%"}, []int64{100, 101}},
		{"pb", Criteria{PB: &yes}, []int64{100, 101, 103}},
		{"no pb", Criteria{PB: &no, Meta: "solo"}, []int64{102, 104}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Filter(d.Records, d.PlayerRecords, tc.c)
			if tc.want == nil {
				require.Empty(t, got)
				return
			}
			require.Equal(t, tc.want, ids(got))
		})
	}
}

func TestCriteriaActive(t *testing.T) {
	require.False(t, Criteria{}.Active())
	require.True(t, Criteria{Meta: "4p"}.Active())
}

func TestSortGroupsContiguous(t *testing.T) {
	rows := joinAll(fixture())
	Sort(rows)

	seen := make(map[string]bool)
	last := ""
	for _, r := range rows {
		k := GroupKey(r)
		if k != last {
			require.False(t, seen[k], "group %q split", k)
			seen[k] = true
			last = k
		}
	}

	var order []int64
	for _, r := range rows {
		if r.Record.ID == 103 {
			continue
		}
		if len(order) == 0 || order[len(order)-1] != r.Record.ID {
			order = append(order, r.Record.ID)
		}
	}
	// within Towards the Future the NaN time record ranks 2nd anyway
	require.Equal(t, []int64{100, 101, 102, 104}, order)
}

func TestSortTieBreakDeterministic(t *testing.T) {
	var d Dataset
	d.Quests = []Quest{{ID: 1, Name: "Q"}}
	for i := int64(1); i <= 20; i++ {
		d.Records = append(d.Records, Record{ID: i, QuestID: 1, Meta: "m", Category: "c", Time: 100, Rank: 1})
		d.PlayerRecords = append(d.PlayerRecords,
			PlayerRecord{ID: 100 + 2*i, RecordID: i, PlayerID: 1},
			PlayerRecord{ID: 100 + 2*i - 1, RecordID: i, PlayerID: 2},
		)
	}

	base := joinAll(&d)
	Sort(base)
	for i := 1; i < len(base); i++ {
		a, b := base[i-1], base[i]
		if a.Record.ID == b.Record.ID {
			require.Less(t, a.PlayerRecordID, b.PlayerRecordID)
		} else {
			require.Less(t, a.Record.ID, b.Record.ID)
		}
	}

	rng := rand.New(rand.NewSource(7))
	for n := 0; n < 10; n++ {
		rows := append([]Row(nil), base...)
		rng.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })
		Sort(rows)
		require.Equal(t, base, rows)
	}
}

func TestSortNaNLast(t *testing.T) {
	rows := []Row{
		{Record: Record{ID: 1, Time: math.NaN()}, Quest: "Q"},
		{Record: Record{ID: 2, Time: 10}, Quest: "Q"},
	}
	Sort(rows)
	require.Equal(t, int64(2), rows[0].Record.ID)
}

func TestFold(t *testing.T) {
	rows := joinAll(fixture())
	Sort(rows)
	placed := Fold(rows)
	require.Len(t, placed, len(rows))

	groups, records := 0, 0
	for _, p := range placed {
		if p.FirstInGroup {
			groups++
			require.True(t, p.FirstInRecord)
		}
		if p.FirstInRecord {
			records++
		}
	}
	require.Equal(t, 3, groups)
	require.Equal(t, 5, records)
}

func TestRenderSuppressesRepeatedFields(t *testing.T) {
	rows := rowsFor(joinAll(fixture()), 100)
	Sort(rows)
	table := Render(rows, Options{GroupLabels: true})

	require.Equal(t, Columns, table.Header)
	require.Len(t, table.Rows, 3)
	require.Equal(t, DividerRow, table.Rows[0].Kind)
	require.Equal(t, "Maximum Attack · 4p · any% · PB", table.Rows[0].Label)

	first, second := table.Rows[1], table.Rows[2]
	require.Equal(t, "Maximum Attack", first.Cells[0].Text)
	require.Equal(t, "7'34", first.Cells[4].Text)
	require.Equal(t, "1", first.Cells[5].Text)
	for i := 0; i < 6; i++ {
		require.Empty(t, second.Cells[i].Text, "column %s", Columns[i])
	}
	require.Equal(t, "Bob", second.Cells[6].Text)
}

func TestRenderLimitKeepsTeams(t *testing.T) {
	all := joinAll(fixture())
	var rows []Row
	for _, id := range []int64{100, 101, 102} {
		rows = append(rows, rowsFor(all, id)...)
	}
	Sort(rows)
	table := Render(rows, Options{Limit: 2})
	require.Equal(t, 2, table.Records)
	require.True(t, table.Truncated)

	// 100 and 101 are both two player teams
	data := 0
	for _, r := range table.Rows {
		if r.Kind == DataRow {
			data++
			require.Equal(t, "Maximum Attack||4p||any%||PB", r.GroupKey)
		}
	}
	require.Equal(t, 4, data)
}

func TestRenderWithoutLabels(t *testing.T) {
	rows := joinAll(fixture())
	Sort(rows)
	table := Render(rows, Options{})
	for _, r := range table.Rows {
		if r.Kind == DividerRow {
			require.Empty(t, r.Label)
			require.NotEmpty(t, r.GroupKey)
		}
	}
}

func TestHTMLEscaping(t *testing.T) {
	d := &Dataset{
		Quests:        []Quest{{ID: 1, Name: "Q"}},
		Players:       []Player{{ID: 1, Name: "O'Brien <3>"}},
		Records:       []Record{{ID: 1, QuestID: 1, Meta: `"m"`, Category: "a&b", Time: 61}},
		PlayerRecords: []PlayerRecord{{ID: 1, RecordID: 1, PlayerID: 1, POV: "<script>"}},
	}
	html := Build(d, Criteria{}, Options{GroupLabels: true}).Table.HTML()
	require.Contains(t, html, "<td>O&#39;Brien &lt;3&gt;</td>")
	require.Contains(t, html, "<td>&quot;m&quot;</td>")
	require.Contains(t, html, "<td>a&amp;b</td>")
	require.Contains(t, html, "<td>&lt;script&gt;</td>")
	require.NotContains(t, html, "<script>")
}

func TestHTMLStructure(t *testing.T) {
	html := Build(fixture(), Criteria{}, Options{GroupLabels: true}).Table.HTML()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	var heads []string
	doc.Find("thead th").Each(func(_ int, s *goquery.Selection) {
		heads = append(heads, s.Text())
	})
	require.Equal(t, Columns, heads)

	require.Equal(t, 3, doc.Find("tr.group-divider").Length())
	require.Equal(t, 5, doc.Find("tr.record-first").Length())
	require.Equal(t, 2, doc.Find("tr.record-cont").Length())

	links := doc.Find(`td a[href^="https://"]`)
	require.Equal(t, 2, links.Length())
	href, _ := links.First().Attr("href")
	require.Equal(t, "https://example.com/alice", href)
	require.Equal(t, "noopener noreferrer", links.First().AttrOr("rel", ""))
}

func TestBuildIdempotent(t *testing.T) {
	d := fixture()
	c := Criteria{Classes: []string{"humar"}}
	a := Build(d, c, Options{GroupLabels: true})
	b := Build(d, c, Options{GroupLabels: true})
	require.Equal(t, 2, a.Matched)
	require.Equal(t, a.Table.HTML(), b.Table.HTML())
}

func TestDistinctValues(t *testing.T) {
	d := fixture()
	require.Equal(t, []string{"4p", "solo"}, d.Metas())
	require.Equal(t, []string{"any%", "nm"}, d.Categories())
	classes := d.Classes()
	require.Equal(t, "HUmar", classes["humar"])
	require.Len(t, classes, 4)
}
