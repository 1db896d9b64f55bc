package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/psoboard/internal/board"
	"github.com/jmoiron/psoboard/internal/typeahead"
	"golang.org/x/sync/errgroup"
)

// The four resources a leaderboard is built from, relative to the source.
const (
	RecordsFile       = "records.json"
	QuestsFile        = "quests.json"
	PlayerRecordsFile = "player_records.json"
	PlayersFile       = "players.json"
)

// ErrLoad is returned (wrapped) when any dataset fails to load.
var ErrLoad = errors.New("load failed")

// Source fetches a named resource.
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
	String() string
}

// DirSource reads resources from a directory.
type DirSource struct {
	Root string
}

func (d DirSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(filepath.Join(d.Root, name))
}

func (d DirSource) String() string { return d.Root }

// HTTPSource fetches resources relative to a base url.
type HTTPSource struct {
	Base   *url.URL
	Client *http.Client
}

func (h HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	u := *h.Base
	u.Path = path.Join(u.Path, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: %s", u.String(), res.Status)
	}
	return io.ReadAll(res.Body)
}

func (h HTTPSource) String() string { return h.Base.String() }

// NewSource returns an HTTPSource for http(s) urls and a DirSource otherwise.
func NewSource(loc string) (Source, error) {
	if strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://") {
		u, err := url.Parse(loc)
		if err != nil {
			return nil, fmt.Errorf("parse data url: %w", err)
		}
		return HTTPSource{Base: u}, nil
	}
	abs, err := filepath.Abs(loc)
	if err != nil {
		return nil, fmt.Errorf("resolve dir: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("invalid directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", abs)
	}
	return DirSource{Root: abs}, nil
}

// LoadDataset fetches all four resources in parallel. Any failure cancels the
// others and is returned wrapped in ErrLoad; no partial dataset is returned.
func LoadDataset(ctx context.Context, src Source) (*board.Dataset, error) {
	var raw [4][]byte
	names := [4]string{QuestsFile, PlayersFile, RecordsFile, PlayerRecordsFile}

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			b, err := src.Fetch(gctx, name)
			if err != nil {
				return fmt.Errorf("%w: %s: %w", ErrLoad, name, err)
			}
			raw[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &board.Dataset{
		Quests:        decodeQuests(raw[0]),
		Players:       decodePlayers(raw[1]),
		Records:       decodeRecords(raw[2]),
		PlayerRecords: decodePlayerRecords(raw[3]),
	}, nil
}

func decodeQuests(data []byte) []board.Quest {
	var out []board.Quest
	objects(data, func(m M) {
		out = append(out, board.Quest{ID: m.GetID("id"), Name: m.GetString("name")})
	})
	return out
}

func decodePlayers(data []byte) []board.Player {
	var out []board.Player
	objects(data, func(m M) {
		out = append(out, board.Player{ID: m.GetID("id"), Name: m.GetString("name")})
	})
	return out
}

func decodeRecords(data []byte) []board.Record {
	var out []board.Record
	objects(data, func(m M) {
		out = append(out, board.Record{
			ID:       m.GetID("id"),
			QuestID:  m.GetID("quest_id"),
			Meta:     m.GetString("meta"),
			Category: m.GetString("category"),
			PB:       m.GetBool("pb"),
			Time:     m.GetFloat("time"),
			Rank:     m.GetID("rank"),
		})
	})
	return out
}

func decodePlayerRecords(data []byte) []board.PlayerRecord {
	var out []board.PlayerRecord
	objects(data, func(m M) {
		out = append(out, board.PlayerRecord{
			ID:       m.GetID("id"),
			RecordID: m.GetID("record_id"),
			PlayerID: m.GetID("player_id"),
			Class:    m.GetString("pso_class"),
			POV:      m.GetString("pov"),
		})
	})
	return out
}

// Leaderboard is a loaded dataset plus the lookups the UI needs.
type Leaderboard struct {
	Dataset *board.Dataset
	Source  string
	Loaded  time.Time

	// Metas and Categories are the choices offered by the exact-match filters.
	Metas      []string
	Categories []string

	// playerItems and classItems feed the typeahead widgets.
	playerItems []typeahead.Item
	classItems  []typeahead.Item

	players map[int64]board.Player
}

// NewLeaderboard loads a dataset from src and indexes it.
func NewLeaderboard(ctx context.Context, src Source) (*Leaderboard, error) {
	ds, err := LoadDataset(ctx, src)
	if err != nil {
		slog.Error("error loading leaderboard", "source", src.String(), "error", err)
		return nil, err
	}
	lb := FromDataset(ds)
	lb.Source = src.String()
	slog.Debug("leaderboard loaded", "source", lb.Source,
		"quests", len(ds.Quests), "players", len(ds.Players),
		"records", len(ds.Records), "player_records", len(ds.PlayerRecords))
	return lb, nil
}

// FromDataset indexes an already loaded dataset.
func FromDataset(ds *board.Dataset) *Leaderboard {
	lb := &Leaderboard{
		Dataset:    ds,
		Loaded:     time.Now(),
		Metas:      ds.Metas(),
		Categories: ds.Categories(),
		players:    board.PlayerIndex(ds.Players),
	}

	seen := make(map[int64]struct{}, len(ds.Players))
	for _, p := range ds.Players {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		lb.playerItems = append(lb.playerItems, typeahead.Item{
			Key:   strconv.FormatInt(p.ID, 10),
			Label: board.PlayerName(lb.players, p.ID),
		})
	}
	for key, label := range ds.Classes() {
		lb.classItems = append(lb.classItems, typeahead.Item{Key: key, Label: label})
	}
	// map iteration order is random; widgets sort suggestions themselves
	// but keep items stable for anything that lists them
	sort.Slice(lb.classItems, func(i, j int) bool { return lb.classItems[i].Key < lb.classItems[j].Key })
	return lb
}

// PlayerName resolves a player id for display.
func (lb *Leaderboard) PlayerName(id int64) string {
	return board.PlayerName(lb.players, id)
}
