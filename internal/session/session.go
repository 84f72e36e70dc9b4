package session

import (
	"encoding/json"
	"net/http"
	"sync"

	"cosmossdk.io/log"
	deadlock "github.com/sasha-s/go-deadlock"

	"companion/internal/game"
)

// Session is one server process's worth of state: the connection registry,
// the seated-player roster, the authoritative game engine (nil before the
// first start_game), and the bounded log stream replayed on connect.
//
// The single mutex guarding all of it follows onchainpoker's OCPApp: one
// critical section per incoming command, no finer-grained locking. go-deadlock
// is a drop-in sync.Mutex replacement that additionally detects inconsistent
// lock ordering in tests and during development.
type Session struct {
	mu deadlock.Mutex

	hub    *Hub
	roster *roster
	logs   *logRing
	engine *game.Engine

	log      log.Logger
	commands map[string]handlerFunc

	stop     chan struct{}
	stopOnce sync.Once
}

type handlerFunc func(s *Session, c *Client, raw json.RawMessage) error

// New builds a Session with its command table installed and its hub running
// in the background.
func New(logger log.Logger) *Session {
	s := &Session{
		hub:    newHub(logger),
		roster: newRoster(),
		logs:   newLogRing(),
		log:    logger,
		stop:   make(chan struct{}),
	}
	s.installCommands()
	go s.hub.Run(s.stop, s.handleUnregister)
	return s
}

// Stop halts the hub's event loop. Safe to call more than once.
func (s *Session) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// ServeGame upgrades an HTTP request at /game into a websocket connection
// and runs its pumps until the connection closes.
func (s *Session) ServeGame(w http.ResponseWriter, r *http.Request) {
	c, err := s.hub.Upgrade(w, r)
	if err != nil {
		s.log.Error("websocket upgrade failed", "err", err)
		return
	}
	go c.writePump()
	c.readPump(s.handleMessage, func(*Client) {})
}

// handleUnregister reacts to a connection going away: it unseats the player
// if seated, and tears the whole session down if nobody remains.
func (s *Session) handleUnregister(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name, seated := s.roster.nameOf(c); seated {
		s.roster.unseat(c)
		if s.engine != nil {
			s.engine.History.RemovePlayer(name)
		}
		s.broadcastHelloLocked()
	}
	if len(s.hub.clients) == 0 {
		s.teardownLocked()
	}
}

// teardownLocked clears game, roster, and logs. Caller must hold s.mu.
func (s *Session) teardownLocked() {
	s.engine = nil
	s.roster.reset()
	s.logs.reset()
}

// handleMessage decodes and dispatches one inbound frame. A panic inside a
// handler is recovered here so one bad command cannot take down the
// connection or the process; it is logged and reported back as a protocol
// error instead.
func (s *Session) handleMessage(c *Client, data []byte) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("command handler panicked", "recover", r)
			c.writeJSON(errorReply("internal error"))
		}
	}()

	action, raw, err := decodeEnvelope(data)
	if err != nil {
		c.writeJSON(errorReply("malformed request"))
		return
	}

	handler, ok := s.commands[action]
	if !ok {
		c.writeJSON(errorReply("unknown action: " + action))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := handler(s, c, raw); err != nil {
		c.writeJSON(errorReply(err.Error()))
	}
}
