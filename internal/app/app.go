package app

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-sprout/sprout"
	sproutstrings "github.com/go-sprout/sprout/registry/strings"
	"github.com/jmoiron/psoboard/internal/board"
	"github.com/jmoiron/psoboard/internal/typeahead"
)

// LoadFailed is the status line shown when the datasets could not be loaded.
const LoadFailed = "Failed to load leaderboard data."

type App struct {
	Source   Source
	Defaults board.Options
	Timeout  time.Duration
	Verbose  int

	mu      sync.RWMutex
	lb      *Leaderboard
	loadErr error

	tpl *template.Template
	css template.CSS
}

//go:embed templates/*.gohtml static/*
var templatesFS embed.FS

// New loads the leaderboard from src and parses templates. A load failure is
// not returned: the app keeps serving and shows the failure instead. Use Err
// to inspect it.
func New(ctx context.Context, src Source, defaults board.Options, timeout time.Duration, verbose int) (*App, error) {
	a := &App{Source: src, Defaults: defaults, Timeout: timeout, Verbose: verbose}

	sub, _ := fs.Sub(templatesFS, "templates")
	tpl, err := template.New("base").Funcs(templateFuncs()).ParseFS(sub, "*.gohtml")
	if err != nil {
		return nil, err
	}
	a.tpl = tpl

	css, err := fs.ReadFile(templatesFS, "static/board.css")
	if err != nil {
		return nil, err
	}
	a.css = template.CSS(css)

	a.reload(ctx)
	return a, nil
}

// templateFuncs returns the sprout string helpers plus the humanized
// formatters used by the templates.
func templateFuncs() template.FuncMap {
	sh := sprout.New(
		sprout.WithLogger(slog.Default()),
		sprout.WithRegistries(sproutstrings.NewRegistry()),
	)
	funcs := sh.Build()
	funcs["ago"] = func(t time.Time) string { return humanize.Time(t) }
	funcs["comma"] = func(n int) string { return humanize.Comma(int64(n)) }
	return template.FuncMap(funcs)
}

// reload refetches the datasets. On failure the previous leaderboard is
// dropped so no stale data is shown next to the error.
func (a *App) reload(ctx context.Context) error {
	if a.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}
	lb, err := NewLeaderboard(ctx, a.Source)
	a.mu.Lock()
	a.lb, a.loadErr = lb, err
	a.mu.Unlock()
	return err
}

func (a *App) snapshot() (*Leaderboard, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lb, a.loadErr
}

// Err returns the error of the last load, if any.
func (a *App) Err() error {
	_, err := a.snapshot()
	return err
}

// Leaderboard returns the loaded leaderboard, or nil after a failed load.
func (a *App) Leaderboard() *Leaderboard {
	lb, _ := a.snapshot()
	return lb
}

func (a *App) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if a.Verbose > 0 {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	// Static assets
	mime.AddExtensionType(".css", "text/css")
	staticFS, _ := fs.Sub(templatesFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	r.Get("/", a.index)
	r.Get("/table", a.table)
	r.Post("/reload", a.reloadHandler)

	return r
}

// render executes a template into a buffer so that template errors can
// still produce a clean 500.
func (a *App) render(w http.ResponseWriter, code int, name string, data any) {
	var buf bytes.Buffer
	if err := a.tpl.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("error rendering template", "template", name, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}

// widgetView is the template data for one typeahead widget.
type widgetView struct {
	Kind        string
	Title       string
	QueryParam  string
	EnterParam  string
	Query       string
	State       string
	Chips       []typeahead.Item
	Suggestions []typeahead.Item
	Hidden      []Field
	Session     *Session
}

func newWidgetView(s *Session, kind, title string) widgetView {
	w, p := s.params(kind)
	chips := w.Chips()
	if kind == "player" {
		chips = s.PlayerChips()
	}
	return widgetView{
		Kind:        kind,
		Title:       title,
		QueryParam:  p.query,
		EnterParam:  p.enter,
		Query:       w.Query(),
		State:       w.State().String(),
		Chips:       chips,
		Suggestions: w.Suggestions(),
		Hidden:      s.Hidden(),
		Session:     s,
	}
}

// errorData returns template data for the load failure state.
func errorData(err error) map[string]any {
	return map[string]any{
		"Title":  "psoboard",
		"Status": LoadFailed,
		"Error":  err.Error(),
	}
}

// pageData runs the pipeline for s and returns the template data.
func (a *App) pageData(lb *Leaderboard, s *Session) map[string]any {
	c := s.Criteria()
	res := board.Build(lb.Dataset, c, s.Options)
	return map[string]any{
		"Title":      "psoboard",
		"Filtered":   c.Active(),
		"Status":     s.Status(res.Matched),
		"Table":      template.HTML(res.Table.HTML()),
		"Truncated":  res.Table.Truncated,
		"Shown":      res.Table.Records,
		"Session":    s,
		"Metas":      lb.Metas,
		"Categories": lb.Categories,
		"Source":     lb.Source,
		"Loaded":     lb.Loaded,
		"Typeaheads": []widgetView{
			newWidgetView(s, "player", "Players"),
			newWidgetView(s, "class", "Classes"),
		},
	}
}

// index handles GET "/".
func (a *App) index(w http.ResponseWriter, r *http.Request) {
	lb, err := a.snapshot()
	if err != nil {
		a.render(w, http.StatusServiceUnavailable, "index.gohtml", errorData(err))
		return
	}
	q := r.URL.Query()
	s := NewSession(lb, q, a.Defaults)
	if s.Apply(q) {
		http.Redirect(w, r, s.URL(), http.StatusSeeOther)
		return
	}
	a.render(w, http.StatusOK, "index.gohtml", a.pageData(lb, s))
}

// table handles GET "/table" and renders only the status line and table.
func (a *App) table(w http.ResponseWriter, r *http.Request) {
	lb, err := a.snapshot()
	if err != nil {
		a.render(w, http.StatusServiceUnavailable, "table.gohtml", errorData(err))
		return
	}
	s := NewSession(lb, r.URL.Query(), a.Defaults)
	a.render(w, http.StatusOK, "table.gohtml", a.pageData(lb, s))
}

// reloadHandler handles POST "/reload" by refetching the datasets.
func (a *App) reloadHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.reload(r.Context()); err != nil {
		slog.Warn("reload failed", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// WritePage writes a standalone page for the selection in q, with styles
// inlined and without the interactive filters.
func (a *App) WritePage(w io.Writer, q url.Values) error {
	lb, err := a.snapshot()
	if err != nil {
		return err
	}
	if lb == nil {
		return errors.New("no leaderboard loaded")
	}
	s := NewSession(lb, q, a.Defaults)
	data := a.pageData(lb, s)
	data["Static"] = true
	data["InlineCSS"] = a.css
	if err := a.tpl.ExecuteTemplate(w, "index.gohtml", data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}
