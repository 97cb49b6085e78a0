// Package greeting serves the standalone home page that greets a fixed user.
package greeting

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"
)

// DefaultAddr is where the page is served unless configured otherwise.
const DefaultAddr = "127.0.0.1:8080"

const (
	pageTitle = "Домашняя страница"
	username  = "Ученик Яндекс.Лицея"
)

var indexTmpl = template.Must(template.New("index").Parse(`<!doctype html>
<html lang="ru">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<h1>Привет, {{.Username}}!</h1>
</body>
</html>
`))

// Index renders the greeting page.
func Index(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct{ Title, Username string }{pageTitle, username}
	if err := indexTmpl.Execute(w, data); err != nil {
		slog.Error("render greeting", "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
	}
}

// Router returns the greeting routes: "/" and "/index" serve the same page.
func Router() http.Handler {
	r := chi.NewMux()
	r.Use(middleware.Recoverer)
	r.Get("/", Index)
	r.Get("/index", Index)
	return r
}

// Serve listens on addr and blocks until ctx is cancelled.
func Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	logger.Info("starting greeting server", "addr", "http://"+ln.Addr().String())

	eg, egctx := errgroup.WithContext(ctx)
	srv := &http.Server{
		Handler:           Router(),
		ReadHeaderTimeout: 10 * time.Second,
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
		return srv.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}
