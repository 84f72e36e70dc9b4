// Package session implements the connection registry, websocket transport,
// and command dispatcher that sit on top of internal/game. The Hub/Client
// read-pump/write-pump shape and keepalive constants are grounded on the
// gorilla/websocket servers elsewhere in the reference pack (poker and
// tic-tac-toe game servers built on the same library).
package session

import (
	"encoding/json"
	"net/http"
	"time"

	"cosmossdk.io/log"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client is one websocket connection. It is the unit of identity the roster
// and dispatcher key their bookkeeping on.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	log  log.Logger
}

func newClient(hub *Hub, conn *websocket.Conn, logger log.Logger) *Client {
	return &Client{hub: hub, conn: conn, send: make(chan []byte, 32), log: logger}
}

// writeJSON enqueues a message for the client's write pump. It never blocks
// indefinitely: a client whose send buffer is full is disconnected rather
// than stalling the broadcaster.
func (c *Client) writeJSON(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		c.log.Error("marshal outbound message", "err", err)
		return
	}
	select {
	case c.send <- b:
	default:
		c.hub.unregister <- c
	}
}

func (c *Client) readPump(onMessage func(*Client, []byte), onClose func(*Client)) {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
		onClose(c)
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		onMessage(c, data)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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

// Hub owns the set of live connections and serializes register/unregister
// against the concurrent read pumps.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	log        log.Logger
}

func newHub(logger log.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        logger,
	}
}

// Run processes register/unregister events until stop is closed. onUnregister
// lets the owning Session react to a connection going away (roster cleanup,
// teardown).
func (h *Hub) Run(stop <-chan struct{}, onUnregister func(*Client)) {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				onUnregister(c)
			}
		case <-stop:
			return
		}
	}
}

// Broadcast sends v to every live client.
func (h *Hub) Broadcast(v any) {
	for c := range h.clients {
		c.writeJSON(v)
	}
}

// Upgrade promotes an HTTP request to a websocket connection and registers
// the resulting client with the hub.
func (h *Hub) Upgrade(w http.ResponseWriter, r *http.Request) (*Client, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	c := newClient(h, conn, h.log)
	h.register <- c
	return c, nil
}
