package websocket

import (
	"net/http"

	"github.com/wricardo/raiinet/game/engine"
	"github.com/wricardo/raiinet/game/service"
)

// Handler serves the spectator feed at /ws?session=ID&viewer=P1|P2|none
type Handler struct {
	hub         *Hub
	svc         service.GameService
	playerViews bool
}

// HandlerOption configures a Handler
type HandlerOption func(*Handler)

// WithPlayerViews lets clients ask for viewer=P1 or viewer=P2. Without it the feed
// only serves the spectator view.
func WithPlayerViews(allow bool) HandlerOption {
	return func(h *Handler) {
		h.playerViews = allow
	}
}

// NewHandler creates a handler that looks sessions up through svc
func NewHandler(hub *Hub, svc service.GameService, opts ...HandlerOption) *Handler {
	h := &Handler{hub: hub, svc: svc}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ParseViewer reads a viewer query value. An empty value is a spectator. Seated
// viewers are refused with 403 unless allowPlayers is set.
func ParseViewer(value string, allowPlayers bool) (engine.PlayerID, int, error) {
	var viewer engine.PlayerID
	if err := viewer.UnmarshalText([]byte(value)); err != nil {
		return engine.PlayerNone, http.StatusBadRequest, err
	}
	if viewer != engine.PlayerNone && !allowPlayers {
		return engine.PlayerNone, http.StatusForbidden, ErrPlayerViewsDisabled
	}
	return viewer, http.StatusOK, nil
}

// ServeHTTP validates the session and viewer, then hands the connection to the hub
// with the current view as its first message
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session query parameter is required", http.StatusBadRequest)
		return
	}

	viewer, status, err := ParseViewer(r.URL.Query().Get("viewer"), h.playerViews)
	if err != nil {
		http.Error(w, err.Error(), status)
		return
	}

	info, err := h.svc.GetSession(r.Context(), sessionID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	view, err := h.svc.GetView(r.Context(), info.ID, viewer)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.hub.ServeWS(w, r, info.ID, viewer, &Message{
		SessionID: info.ID,
		Event:     EventInitialState,
		View:      view,
	})
}
