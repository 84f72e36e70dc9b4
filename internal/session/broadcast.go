package session

import (
	"fmt"

	"companion/internal/game"
	"companion/internal/wire"
)

func newEngineFromState(state *game.State) *game.Engine {
	return game.NewEngine(state)
}

// broadcastHelloLocked announces the current roster to every connection.
// Caller must hold s.mu.
func (s *Session) broadcastHelloLocked() {
	s.hub.Broadcast(wire.NewHello(s.engine != nil, s.roster.names(), s.roster.colours()))
}

// broadcastUpdateLocked sends every seated player their own can_undo/can_redo
// alongside the shared game_data. Caller must hold s.mu.
func (s *Session) broadcastUpdateLocked() {
	if s.engine == nil {
		return
	}
	info := s.engine.UpdateInfo()
	for _, sc := range s.roster.seatedClients() {
		name, ok := s.roster.nameOf(sc)
		if !ok {
			continue
		}
		sc.writeJSON(wire.NewUpdate(info, s.engine.History.CanUndo(name), s.engine.History.CanRedo(name)))
	}
}

// logSeatedLocked formats messageFmt (which must contain exactly one %s for
// the actor's name), broadcasts it to every seated player, and appends it to
// the replay ring. Caller must hold s.mu.
func (s *Session) logSeatedLocked(player string, messageFmt string, cv wire.CardView) {
	var colour string
	if c, ok := s.roster.connOf(player); ok {
		colour, _ = s.roster.colourOf(c)
	}
	message := fmt.Sprintf(messageFmt, player)
	var cardPtr *wire.CardView
	if cv.Face != "" || cv.Back != "" {
		cv2 := cv
		cardPtr = &cv2
	}
	msg := wire.NewLogMessage(message, cardPtr, colour)
	s.logs.push(msg)
	for _, sc := range s.roster.seatedClients() {
		sc.writeJSON(msg)
	}
}
