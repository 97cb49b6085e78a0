package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/KaramelBytes/habitdash/internal/dashboard"
	"github.com/KaramelBytes/habitdash/internal/web/notifier"
)

const sessionName = "habitdash"

// Current yields the dashboard to render; it may change between requests.
type Current interface {
	Load() *dashboard.Dashboard
}

// Handlers serves the dashboard page and its SSE endpoints.
type Handlers struct {
	current      Current
	sessionStore sessions.Store
	notifier     *notifier.Notifier
	logger       *slog.Logger
	watch        bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(current Current, sessionStore sessions.Store, notify *notifier.Notifier, logger *slog.Logger, watch bool) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		current:      current,
		sessionStore: sessionStore,
		notifier:     notify,
		logger:       logger,
		watch:        watch,
	}
}

func toggleKey(id dashboard.GroupID) string { return "show:" + string(id) }

// session returns the visitor's session and the toggles stored in it. A
// cookie that fails to decode yields a fresh session.
func (h *Handlers) session(r *http.Request) (*sessions.Session, dashboard.Toggles) {
	sess, err := h.sessionStore.Get(r, sessionName)
	if err != nil {
		h.logger.Debug("discarding unreadable session", "error", err)
	}
	t := dashboard.Toggles{}
	for _, id := range dashboard.Order {
		if on, ok := sess.Values[toggleKey(id)].(bool); ok && on {
			t[id] = true
		}
	}
	return sess, t
}

// DashboardPage renders the full page with the visitor's active groups.
func (h *Handlers) DashboardPage(w http.ResponseWriter, r *http.Request) {
	_, t := h.session(r)
	v := newPageView(h.current.Load(), t, true, h.watch)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageComponent(v).Render(r.Context(), w); err != nil {
		h.logger.Error("render dashboard", "error", err)
		http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
	}
}

// ToggleGroup flips one group for this visitor and patches the sidebar and
// content in place.
func (h *Handlers) ToggleGroup(w http.ResponseWriter, r *http.Request) {
	id, err := dashboard.ParseGroupID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	sess, t := h.session(r)
	t = t.Flip(id)
	sess.Values[toggleKey(id)] = t[id]
	// The cookie must be written before the SSE stream sends headers.
	if err := sess.Save(r, w); err != nil {
		h.logger.Error("save session", "error", err)
		http.Error(w, "failed to save session", http.StatusInternalServerError)
		return
	}
	h.logger.Debug("group toggled", "group", id, "on", t[id])

	v := newPageView(h.current.Load(), t, true, h.watch)
	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(sidebarComponent(v)); err != nil {
		h.logger.Error("patch sidebar", "error", err)
		_ = sse.ConsoleError(err)
		return
	}
	if err := sse.PatchElementTempl(contentComponent(v)); err != nil {
		h.logger.Error("patch content", "error", err)
		_ = sse.ConsoleError(err)
		return
	}
	if err := sse.ExecuteScript("habitdash.render()"); err != nil {
		h.logger.Debug("execute render script", "error", err)
	}
}

// Updates is the long-lived SSE stream that reloads the page after the
// dashboard has been rebuilt from a changed data file.
func (h *Handlers) Updates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)
	updates := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			if err := sse.ExecuteScript("window.location.reload()"); err != nil {
				if !errors.Is(err, ctx.Err()) {
					h.logger.Debug("push reload", "error", err)
				}
				return
			}
		}
	}
}

// SetupRoutes registers the dashboard routes on router.
func SetupRoutes(router chi.Router, h *Handlers) {
	router.Get("/", h.DashboardPage)
	router.Post("/groups/{id}/toggle", h.ToggleGroup)
	if h.watch {
		router.Get("/updates", h.Updates)
	}
}
