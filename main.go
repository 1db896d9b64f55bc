package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/jmoiron/psoboard/internal/app"
	"github.com/jmoiron/psoboard/internal/board"
	"github.com/jmoiron/psoboard/internal/config"
	"github.com/lmittmann/tint"
	flag "github.com/spf13/pflag"
)

// version is set at build time via -ldflags; defaults to dev.
var version = "dev"

func main() {
	var (
		envFile     string
		showVersion bool
		verbose     int
		quit        bool
		out         string

		players  []string
		classes  []string
		meta     string
		category string
		pb       string
	)

	// the dotenv file has to be read before flag defaults are computed
	envFile = os.Getenv("PSOBOARD_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	cfg, err := config.Load(envFile)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address for the web UI (host:port)")
	flag.IntVar(&cfg.Limit, "limit", cfg.Limit, "maximum number of records to render; 0 for no limit")
	flag.BoolVar(&cfg.GroupLabels, "labels", cfg.GroupLabels, "show group labels in divider rows")
	flag.DurationVar(&cfg.FetchTimeout, "timeout", cfg.FetchTimeout, "timeout for loading the datasets")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.CountVarP(&verbose, "verbose", "v", "increase verbosity; repeat for more detail")
	flag.BoolVarP(&quit, "quit", "q", false, "load the datasets, then exit without serving")
	flag.StringVarP(&out, "out", "o", "", "write a static page to this file instead of serving")
	flag.StringSliceVar(&players, "player", nil, "static page: player ids to filter by")
	flag.StringSliceVar(&classes, "class", nil, "static page: classes to filter by")
	flag.StringVar(&meta, "meta", "", "static page: meta to filter by")
	flag.StringVar(&category, "category", "", "static page: category to filter by")
	flag.StringVar(&pb, "pb", "", "static page: filter by personal best (true or false)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: psoboard [options] [<data-dir-or-url>]\n\n")
		fmt.Fprintf(os.Stderr, "The data location may also be set with PSOBOARD_DATA.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showVersion {
		fmt.Println(version)
		return
	}

	level := slog.LevelInfo
	if verbose > 0 {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level})))

	switch {
	case flag.NArg() == 1:
		cfg.Data = flag.Arg(0)
	case flag.NArg() > 1 || cfg.Data == "":
		flag.Usage()
		os.Exit(2)
	}

	src, err := app.NewSource(cfg.Data)
	if err != nil {
		log.Fatalf("data: %v", err)
	}
	slog.Debug("config", "addr", cfg.Addr, "data", src.String(), "limit", cfg.Limit,
		"labels", cfg.GroupLabels, "timeout", cfg.FetchTimeout, "verbosity", verbose)
	fmt.Printf("psoboard %s\n", version)

	defaults := board.Options{GroupLabels: cfg.GroupLabels, Limit: cfg.Limit}
	a, err := app.New(context.Background(), src, defaults, cfg.FetchTimeout, verbose)
	if err != nil {
		log.Fatalf("init: %v", err)
	}

	if lb := a.Leaderboard(); lb != nil {
		ds := lb.Dataset
		log.Printf("load summary: %d records, %d player records, %d quests, %d players",
			len(ds.Records), len(ds.PlayerRecords), len(ds.Quests), len(ds.Players))
	}

	if out != "" || quit {
		if err := a.Err(); err != nil {
			log.Fatalf("%s %v", app.LoadFailed, err)
		}
	}
	if quit {
		log.Printf("initialized successfully; quitting (--quit)")
		return
	}

	if out != "" {
		q := url.Values{"player": players, "class": classes}
		if meta != "" {
			q.Set("meta", meta)
		}
		if category != "" {
			q.Set("category", category)
		}
		if pb != "" {
			if _, err := strconv.ParseBool(pb); err != nil {
				log.Fatalf("invalid --pb %q: %v", pb, err)
			}
			q.Set("pb", pb)
		}
		if err := writePage(a, out, q); err != nil {
			log.Fatalf("write %s: %v", out, err)
		}
		log.Printf("wrote %s", out)
		return
	}

	log.Printf("listening on http://%s", cfg.Addr)
	if err := httpListenAndServe(cfg.Addr, a.Router()); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func writePage(a *app.App, path string, q url.Values) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := a.WritePage(f, q); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// httpListenAndServe exists to facilitate testing/mocking if desired.
var httpListenAndServe = func(addr string, h http.Handler) error {
	return http.ListenAndServe(addr, h)
}
