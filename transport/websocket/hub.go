package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/wricardo/raiinet/game/engine"
	"github.com/wricardo/raiinet/game/service"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Snapshots queued between the service and the hub loop
	publishBuffer = 64
)

// ErrPlayerViewsDisabled is returned for viewer=P1|P2 when only the spectator view is served
var ErrPlayerViewsDisabled = errors.New("player views are disabled; connect as a spectator")

// Message events
const (
	EventInitialState = "initial_state"
	EventStateUpdate  = "state_update"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// spectator feed is read-only and served on a local address
		return true
	},
}

// Message is what a connected client receives
type Message struct {
	SessionID string              `json:"session_id"`
	Event     string              `json:"event"`
	View      *engine.GameView    `json:"view,omitempty"`
	Events    []service.GameEvent `json:"events,omitempty"`
}

// Client is one websocket connection watching a session as viewer
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
	viewer    engine.PlayerID
}

// Hub fans snapshots out to the clients of each session. All client
// bookkeeping happens on the Run goroutine.
type Hub struct {
	// Registered clients by session ID
	sessions map[string]map[*Client]bool

	publish    chan service.Snapshot
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	logger zerolog.Logger
}

var _ service.Broadcaster = (*Hub)(nil)

// Option configures a Hub
type Option func(*Hub)

// WithLogger sets the hub logger
func WithLogger(l zerolog.Logger) Option {
	return func(h *Hub) {
		h.logger = l
	}
}

// NewHub creates a new WebSocket hub
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		sessions:   make(map[string]map[*Client]bool),
		publish:    make(chan service.Snapshot, publishBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run starts the hub's event loop and returns when ctx is done
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case snapshot := <-h.publish:
			h.broadcastSnapshot(snapshot)

		case <-ctx.Done():
			for _, clients := range h.sessions {
				for client := range clients {
					h.unregisterClient(client)
				}
			}
			return
		}
	}
}

// Publish queues a snapshot for broadcast. It never blocks: the service calls
// it while holding its lock, so a full queue drops the snapshot.
func (h *Hub) Publish(snapshot service.Snapshot) {
	select {
	case h.publish <- snapshot:
	default:
		h.logger.Warn().Str("session", snapshot.SessionID).Msg("publish queue full, snapshot dropped")
	}
}

// ServeWS upgrades the request and registers a client. initial, if not nil,
// is queued before any broadcast reaches the client.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string, viewer engine.PlayerID, initial *Message) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, 256),
		sessionID: sessionID,
		viewer:    viewer,
	}

	if initial != nil {
		if data, err := json.Marshal(initial); err == nil {
			client.send <- data
		} else {
			h.logger.Error().Err(err).Msg("failed to marshal initial state")
		}
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// registerClient adds a client to a session
func (h *Hub) registerClient(client *Client) {
	if h.sessions[client.sessionID] == nil {
		h.sessions[client.sessionID] = make(map[*Client]bool)
	}
	h.sessions[client.sessionID][client] = true

	h.logger.Debug().
		Str("session", client.sessionID).
		Stringer("viewer", client.viewer).
		Int("clients", len(h.sessions[client.sessionID])).
		Msg("client registered")
}

// unregisterClient removes a client from a session
func (h *Hub) unregisterClient(client *Client) {
	clients, ok := h.sessions[client.sessionID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}

	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.sessions, client.sessionID)
	}

	h.logger.Debug().
		Str("session", client.sessionID).
		Int("remaining", len(clients)).
		Msg("client unregistered")
}

// broadcastSnapshot sends each client of the session the view for its viewer
func (h *Hub) broadcastSnapshot(s service.Snapshot) {
	clients, ok := h.sessions[s.SessionID]
	if !ok {
		return
	}

	encoded := make(map[engine.PlayerID][]byte, len(s.Views))
	for client := range clients {
		data, ok := encoded[client.viewer]
		if !ok {
			view, found := s.Views[client.viewer]
			if !found {
				continue
			}
			var err error
			data, err = json.Marshal(Message{
				SessionID: s.SessionID,
				Event:     EventStateUpdate,
				View:      &view,
				Events:    s.Events,
			})
			if err != nil {
				h.logger.Error().Err(err).Msg("failed to marshal snapshot")
				return
			}
			encoded[client.viewer] = data
		}

		select {
		case client.send <- data:
		default:
			// Client's send channel is full, drop it
			h.unregisterClient(client)
		}
	}
}

// clientCount reports the clients of a session. Only safe on the Run goroutine or before Run starts.
func (h *Hub) clientCount(sessionID string) int {
	return len(h.sessions[sessionID])
}

// readPump discards client input and unregisters the client when the connection drops
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn().Err(err).Str("session", c.sessionID).Msg("websocket error")
			}
			break
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
