// Package server exposes the engine as the JSON API consumed by the
// in-browser dev tools, plus a websocket feed of file changes.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yacobolo/themesync"
	"github.com/yacobolo/themesync/internal/csspatch"
	"github.com/yacobolo/themesync/internal/logger"
	tserrors "github.com/yacobolo/themesync/pkg/errors"
)

// Prefix is the mount point of every route
const Prefix = "/api/devtools"

// maxBodyBytes caps request bodies
const maxBodyBytes = 1 << 20

var errProduction = tserrors.ErrProduction

// Options configures a Server
type Options struct {
	Watch    bool          // Broadcast file changes on /events
	Debounce time.Duration // Watch debounce; default themesync.DefaultDebounce
}

// Server handles the dev tools API
type Server struct {
	engine   *themesync.Engine
	log      *logger.Logger
	opts     Options
	hub      *Hub
	upgrader websocket.Upgrader
}

// New creates a Server backed by engine
func New(engine *themesync.Engine, log *logger.Logger, opts Options) *Server {
	return &Server{
		engine: engine,
		log:    log,
		opts:   opts,
		hub:    NewHub(),
		upgrader: websocket.Upgrader{
			// The dev server and the app run on different local ports
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Hub returns the event hub
func (s *Server) Hub() *Hub {
	return s.hub
}

// Register mounts the routes on mux. In production every route but
// /health is refused before its body is read.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc(Prefix+"/health", s.handleHealth)
	mux.HandleFunc(Prefix+"/tokens", s.refuseInProduction(s.handleTokens))
	mux.HandleFunc(Prefix+"/semantic", s.refuseInProduction(s.handleSemantic))
	mux.HandleFunc(Prefix+"/css", s.refuseInProduction(s.handleCSS))
	mux.HandleFunc(Prefix+"/themes", s.refuseInProduction(s.handleThemes))
	mux.HandleFunc(Prefix+"/themes/current", s.refuseInProduction(s.handleCurrentTheme))
	mux.HandleFunc(Prefix+"/themes/switch", s.refuseInProduction(s.handleSwitch))
	mux.HandleFunc(Prefix+"/audit", s.refuseInProduction(s.handleAudit))
	mux.HandleFunc(Prefix+"/components", s.refuseInProduction(s.handleComponents))
	mux.HandleFunc(Prefix+"/export", s.refuseInProduction(s.handleExport))
	mux.HandleFunc(Prefix+"/events", s.refuseInProduction(s.handleEvents))
}

// Handler returns the routes wrapped in request logging
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.Register(mux)
	return s.logRequests(mux)
}

// Serve listens on addr until ctx is done, then shuts down gracefully.
// With Options.Watch set it also feeds /events from the engine watcher.
func (s *Server) Serve(ctx context.Context, addr string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if s.opts.Watch {
		go func() {
			err := s.engine.Watch(ctx, themesync.WatchOptions{Debounce: s.opts.Debounce}, func(batch []themesync.FileEvent) {
				ev := Event{Type: "change", Files: batch, At: time.Now()}
				if len(batch) > 0 {
					ev.Theme = batch[0].Theme
				}
				s.hub.Broadcast(ev)
			})
			if err != nil {
				s.log.Error(err, "watcher stopped")
			}
		}()
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", map[string]any{"addr": addr, "prefix": Prefix})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// decode reads a JSON body into v, answering 400 itself on failure
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			s.badRequest(w, "request body is empty")
		} else {
			s.badRequest(w, fmt.Sprintf("invalid JSON body: %v", err))
		}
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.ok(w, "ok", map[string]any{"production": s.engine.Config().Production()})
}

type tokensBody struct {
	Theme string `json:"theme"`
	csspatch.TokenChanges
	DryRun bool `json:"dryRun"`
}

func (s *Server) handleTokens(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		snap, err := s.engine.ReadTokens(r.URL.Query().Get("theme"))
		if err != nil {
			s.fail(w, err)
			return
		}
		s.ok(w, "", snap)

	case http.MethodPost:
		var body tokensBody
		if !s.decode(w, r, &body) {
			return
		}
		write := s.engine.WriteTokens
		if body.DryRun {
			write = s.engine.PreviewTokens
		}
		res, err := write(body.Theme, body.TokenChanges)
		if err != nil {
			s.fail(w, err)
			return
		}
		s.ok(w, fmt.Sprintf("Updated %d tokens", res.Updated), res)

	default:
		s.methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

type semanticBody struct {
	Theme    string            `json:"theme"`
	Mappings map[string]string `json:"mappings"`
}

func (s *Server) handleSemantic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, http.MethodPost)
		return
	}
	var body semanticBody
	if !s.decode(w, r, &body) {
		return
	}
	res, err := s.engine.WriteSemantic(body.Theme, body.Mappings)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, fmt.Sprintf("Updated %d semantic tokens", res.Updated), res)
}

type cssBody struct {
	Theme string `json:"theme"`
	themesync.CSSChanges
}

// handleCSS answers 200 once the request passed validation and the
// write-lock; per-file failures are reported in data.files and clear success
func (s *Server) handleCSS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, http.MethodPost)
		return
	}
	var body cssBody
	if !s.decode(w, r, &body) {
		return
	}
	res, err := s.engine.WriteCSS(body.Theme, body.CSSChanges)
	if err != nil {
		s.fail(w, err)
		return
	}

	failed := res.Failed()
	env := Envelope{
		Success: failed == 0,
		Message: fmt.Sprintf("Wrote %d of %d files", len(res.Files)-failed, len(res.Files)),
		Data:    res,
	}
	if failed > 0 {
		env.Error = &ErrorBody{Kind: "io", Details: fmt.Sprintf("%d files failed", failed)}
	}
	s.writeJSON(w, http.StatusOK, env)
}

type createBody struct {
	ID   string `json:"id"`
	From string `json:"from"`
}

func (s *Server) handleThemes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		themes, err := s.engine.ListThemes()
		if err != nil {
			s.fail(w, err)
			return
		}
		s.ok(w, "", themes)

	case http.MethodPost:
		var body createBody
		if !s.decode(w, r, &body) {
			return
		}
		created, err := s.engine.CreateTheme(body.ID, body.From)
		if err != nil {
			s.fail(w, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, Envelope{Success: true, Message: "Created " + created.PackageName, Data: created})

	default:
		s.methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleCurrentTheme(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, http.MethodGet)
		return
	}
	current, err := s.engine.CurrentTheme()
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, "", current)
}

type switchBody struct {
	Package string `json:"package"`
}

func (s *Server) handleSwitch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, http.MethodPost)
		return
	}
	var body switchBody
	if !s.decode(w, r, &body) {
		return
	}
	res, err := s.engine.SwitchTheme(body.Package)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, fmt.Sprintf("Switched to %s", res.Current), res)
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, http.MethodGet)
		return
	}
	q := r.URL.Query()

	var cfg themesync.AuditConfig
	if v := q.Get("maxIssues"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.badRequest(w, "maxIssues must be a non-negative integer")
			return
		}
		cfg.MaxIssuesPerLinter = n
	}
	if v := q.Get("skipInfo"); v != "" {
		skip, err := strconv.ParseBool(v)
		if err != nil {
			s.badRequest(w, "skipInfo must be a boolean")
			return
		}
		cfg.SkipInfo = skip
	}

	res, err := s.engine.Audit(q.Get("theme"), cfg)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, fmt.Sprintf("%d issues", len(res.Issues)), res)
}

type componentsData struct {
	Components any                 `json:"components"`
	Stats      themesync.ScanStats `json:"stats"`
}

func (s *Server) handleComponents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, http.MethodGet)
		return
	}
	components, stats, err := s.engine.DiscoverComponents(r.URL.Query().Get("theme"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, "", componentsData{Components: components, Stats: stats})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, http.MethodGet)
		return
	}
	export, err := s.engine.ExportTheme(r.URL.Query().Get("theme"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, "", export)
}
