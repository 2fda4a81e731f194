package server

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/nba-edge/internal/metrics"
	"github.com/yourusername/nba-edge/internal/models"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512

	// Buffer size for outbound messages
	sendBufferSize = 64
)

// DashboardMessage is the envelope pushed to connected dashboards.
type DashboardMessage struct {
	Type      string         `json:"type"`
	Report    *models.Report `json:"report,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// dashboardClient is one connected dashboard websocket.
type dashboardClient struct {
	id   string
	conn *websocket.Conn
	send chan DashboardMessage
	hub  *Hub
}

// Hub maintains the set of connected dashboards and pushes every
// completed analysis report to them.
type Hub struct {
	clientsMu sync.RWMutex
	clients   map[*dashboardClient]bool

	broadcast  chan DashboardMessage
	register   chan *dashboardClient
	unregister chan *dashboardClient

	logger *logrus.Logger
}

// NewHub creates a dashboard hub.
func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		clients:    make(map[*dashboardClient]bool),
		broadcast:  make(chan DashboardMessage, 256),
		register:   make(chan *dashboardClient),
		unregister: make(chan *dashboardClient),
		logger:     logger,
	}
}

// Run drives the hub until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case c := <-h.register:
			h.registerClient(c)

		case c := <-h.unregister:
			h.unregisterClient(c)

		case msg := <-h.broadcast:
			h.broadcastMessage(msg)
		}
	}
}

// BroadcastReport pushes a completed analysis to every dashboard. Drops
// the message when the broadcast buffer is full rather than blocking
// the analysis path.
func (h *Hub) BroadcastReport(report *models.Report) {
	msg := DashboardMessage{
		Type:      "analysis",
		Report:    report,
		Timestamp: time.Now().UTC(),
	}
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("Dashboard broadcast buffer full, dropping report")
	}
}

// ClientCount returns the number of connected dashboards.
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// Attach upgrades nothing itself; the HTTP handler hands an upgraded
// connection here and the hub owns it from then on.
func (h *Hub) Attach(ctx context.Context, conn *websocket.Conn) {
	c := &dashboardClient{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan DashboardMessage, sendBufferSize),
		hub:  h,
	}
	h.register <- c

	go c.writePump(ctx)
	go c.readPump()
}

func (h *Hub) registerClient(c *dashboardClient) {
	h.clientsMu.Lock()
	h.clients[c] = true
	count := len(h.clients)
	h.clientsMu.Unlock()

	metrics.ConnectedDashboards.Set(float64(count))
	h.logger.WithFields(logrus.Fields{
		"client_id": c.id,
		"total":     count,
	}).Info("Dashboard connected")
}

func (h *Hub) unregisterClient(c *dashboardClient) {
	h.clientsMu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	count := len(h.clients)
	h.clientsMu.Unlock()

	metrics.ConnectedDashboards.Set(float64(count))
	h.logger.WithFields(logrus.Fields{
		"client_id": c.id,
		"total":     count,
	}).Info("Dashboard disconnected")
}

func (h *Hub) broadcastMessage(msg DashboardMessage) {
	h.clientsMu.RLock()
	clients := make([]*dashboardClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- msg:
		default:
			// Slow consumer; disconnect it rather than backing up.
			h.logger.WithField("client_id", c.id).Warn("Dashboard buffer full, disconnecting")
			go func(c *dashboardClient) { h.unregister <- c }(c)
		}
	}
}

func (h *Hub) shutdown() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
	metrics.ConnectedDashboards.Set(0)
}

// readPump discards inbound frames and watches for close.
func (c *dashboardClient) readPump() {
	defer func() {
		c.hub.unregister <- c
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
				c.hub.logger.WithField("client_id", c.id).WithError(err).Debug("Dashboard closed unexpectedly")
			}
			return
		}
	}
}

// writePump pushes messages and pings to the dashboard connection.
func (c *dashboardClient) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.hub.logger.WithField("client_id", c.id).WithError(err).Debug("Dashboard write failed")
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
