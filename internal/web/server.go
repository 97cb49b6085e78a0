// Package web serves the interactive chart dashboard.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/habitdash/internal/dashboard"
	"github.com/KaramelBytes/habitdash/internal/dataset"
	"github.com/KaramelBytes/habitdash/internal/web/notifier"
)

// reloadDelay coalesces the burst of write events an editor or copy emits.
const reloadDelay = 250 * time.Millisecond

// Config holds configuration for the dashboard server.
type Config struct {
	Dashboard *dashboard.Dashboard
	// DataPath is re-read when Watch is set.
	DataPath      string
	Options       dashboard.Options
	Addr          string
	Watch         bool
	SessionSecret string
	Logger        *slog.Logger
}

// Server is the dashboard HTTP server.
type Server struct {
	current      atomic.Pointer[dashboard.Dashboard]
	sessionStore *sessions.CookieStore
	notifier     *notifier.Notifier
	cfg          Config
	logger       *slog.Logger
}

// NewServer creates a server around an already built dashboard.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Dashboard == nil {
		return nil, errors.New("web: dashboard is required")
	}
	if cfg.SessionSecret == "" {
		return nil, errors.New("web: session secret is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.MaxAge(86400 * 30)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.SameSite = http.SameSiteLaxMode

	s := &Server{
		sessionStore: store,
		notifier:     notifier.New(),
		cfg:          cfg,
		logger:       cfg.Logger,
	}
	s.current.Store(cfg.Dashboard)
	return s, nil
}

// Load returns the dashboard currently being served.
func (s *Server) Load() *dashboard.Dashboard { return s.current.Load() }

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		requestLogger(s.logger),
		middleware.Recoverer,
		middleware.Compress(5),
	)
	SetupRoutes(r, NewHandlers(s, s.sessionStore, s.notifier, s.logger, s.cfg.Watch))
	return r
}

// Serve listens on cfg.Addr and blocks until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	s.logger.Info("starting dashboard server", "addr", "http://"+ln.Addr().String(), "rows", s.Load().Rows)

	eg, egctx := errgroup.WithContext(ctx)
	srv := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.cfg.Watch {
		eg.Go(func() error {
			return s.watchData(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Debug("shutting down dashboard server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// Reload rebuilds the dashboard from DataPath and swaps it in. On failure the
// previous dashboard stays live.
func (s *Server) Reload() error {
	raw, err := dataset.Load(s.cfg.DataPath)
	if err != nil {
		return err
	}
	opt := s.cfg.Options
	opt.Source = s.Load().Source
	d, err := dashboard.Build(raw, opt)
	if err != nil {
		return err
	}
	s.current.Store(d)
	s.notifier.Broadcast()
	s.logger.Info("dashboard rebuilt", "rows", d.Rows, "build", d.BuildID)
	return nil
}

// watchData watches the directory holding DataPath, since editors often
// replace files rather than write them in place.
func (s *Server) watchData(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	target, err := filepath.Abs(s.cfg.DataPath)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		s.logger.Error("failed to watch data file", "path", target, "error", err)
		<-ctx.Done()
		return nil
	}
	s.logger.Debug("watching data file", "path", target)

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if name, _ := filepath.Abs(event.Name); name != target {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(reloadDelay, func() {
				if err := s.Reload(); err != nil {
					s.logger.Error("reload failed, keeping previous dashboard", "error", err)
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

// requestLogger logs one line per request through slog.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
