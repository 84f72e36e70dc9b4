package session

import (
	"encoding/json"
	"fmt"

	"companion/internal/card"
	"companion/internal/catalog"
	"companion/internal/companionerr"
	"companion/internal/deckfactory"
	"companion/internal/wire"
)

func decodeEnvelope(data []byte) (action string, payload json.RawMessage, err error) {
	var env wire.CommandEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", nil, err
	}
	if env.Action == "" {
		return "", nil, companionerr.New(companionerr.KindProtocolError, "missing action")
	}
	return env.Action, env.Payload, nil
}

func errorReply(msg string) wire.ErrorReply { return wire.NewErrorReply(msg) }

func cardView(c card.Card, state wire.CardViewState, identifier string) wire.CardView {
	return wire.NewCardView(c.Face, c.Back, state, identifier, c.Number, c.Counters)
}

func codexState(flipped bool) wire.CardViewState {
	if flipped {
		return wire.StateFlippedCodex
	}
	return wire.StateUnflippedCodex
}

func (s *Session) installCommands() {
	s.commands = map[string]handlerFunc{
		wire.ActionStartGame:             (*Session).cmdStartGame,
		wire.ActionConnect:               (*Session).cmdConnect,
		wire.ActionReconnect:             (*Session).cmdReconnect,
		wire.ActionDraw:                  (*Session).cmdDraw,
		wire.ActionResolveEvent:          (*Session).cmdResolveEvent,
		wire.ActionViewDiscard:           (*Session).cmdViewDiscard,
		wire.ActionViewCodex:             (*Session).cmdViewCodex,
		wire.ActionViewArchive:           (*Session).cmdViewArchive,
		wire.ActionAddCodex:              (*Session).cmdAddCodex,
		wire.ActionFlipCodex:             (*Session).cmdFlipCodex,
		wire.ActionRemoveCodex:           (*Session).cmdRemoveCodex,
		wire.ActionViewAttachedCodex:     (*Session).cmdViewAttachedCodex,
		wire.ActionAddCounterCodex:       (*Session).cmdAddCounterCodex,
		wire.ActionRemoveCounterCodex:    (*Session).cmdRemoveCounterCodex,
		wire.ActionDrawTerror:            (*Session).cmdDrawTerror,
		wire.ActionAddDeck:               (*Session).cmdAddDeck,
		wire.ActionSpreadClue:            (*Session).cmdSpreadClue,
		wire.ActionSpreadDoom:            (*Session).cmdSpreadDoom,
		wire.ActionSpreadTerror:          (*Session).cmdSpreadTerror,
		wire.ActionPlaceTerror:           (*Session).cmdPlaceTerror,
		wire.ActionGateBurst:             (*Session).cmdGateBurst,
		wire.ActionHeadline:              (*Session).cmdHeadline,
		wire.ActionViewRumor:             (*Session).cmdViewRumor,
		wire.ActionRemoveRumor:           (*Session).cmdRemoveRumor,
		wire.ActionAddCounterRumor:       (*Session).cmdAddCounterRumor,
		wire.ActionRemoveCounterRumor:    (*Session).cmdRemoveCounterRumor,
		wire.ActionUndo:                  (*Session).cmdUndo,
		wire.ActionRedo:                  (*Session).cmdRedo,
	}
}

// requireSeated resolves the acting player's name, failing ProtocolError if
// the connection has not successfully joined a game.
func (s *Session) requireSeated(c *Client) (string, error) {
	name, ok := s.roster.nameOf(c)
	if !ok {
		return "", companionerr.New(companionerr.KindProtocolError, "not seated in a game")
	}
	return name, nil
}

func (s *Session) requireEngine() error {
	if s.engine == nil {
		return companionerr.New(companionerr.KindInvalidOp, "no game in progress")
	}
	return nil
}

// --- lifecycle -------------------------------------------------------------

func (s *Session) cmdStartGame(c *Client, raw json.RawMessage) error {
	var p wire.StartGamePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return companionerr.New(companionerr.KindProtocolError, "malformed start_game payload")
	}

	state, err := deckfactory.Build(catalog.Scenario(p.Scenario), p.Expansions)
	if err != nil {
		return err
	}

	for _, sc := range s.roster.seatedClients() {
		sc.writeJSON(wire.NewBoot())
	}
	s.roster.reset()
	s.logs.reset()
	s.engine = newEngineFromState(state)
	s.roster.seat(c, p.PlayerName, p.PlayerColour)
	s.engine.History.AddPlayer(p.PlayerName)

	c.writeJSON(wire.NewAck("game started"))
	s.broadcastHelloLocked()
	s.broadcastUpdateLocked()
	return nil
}

func (s *Session) cmdConnect(c *Client, raw json.RawMessage) error {
	if err := s.requireEngine(); err != nil {
		return err
	}
	var p wire.ConnectPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return companionerr.New(companionerr.KindProtocolError, "malformed connect payload")
	}
	if s.roster.nameTaken(p.PlayerName) {
		return companionerr.New(companionerr.KindInvalidOp, "That name has already been chosen.")
	}
	if s.roster.colourTaken(p.PlayerColour) {
		return companionerr.New(companionerr.KindInvalidOp, "That colour has already been chosen.")
	}
	s.roster.seat(c, p.PlayerName, p.PlayerColour)
	s.engine.History.AddPlayer(p.PlayerName)

	c.writeJSON(wire.NewAllLogs(s.logs.all()))
	s.broadcastHelloLocked()
	s.broadcastUpdateLocked()
	return nil
}

func (s *Session) cmdReconnect(c *Client, raw json.RawMessage) error {
	name, err := s.requireSeated(c)
	if err != nil {
		return err
	}
	colour, _ := s.roster.colourOf(c)
	c.writeJSON(wire.NewReconnectReply(name, colour))
	return nil
}

// --- mutating commands ------------------------------------------------------

func (s *Session) cmdDraw(c *Client, raw json.RawMessage) error {
	player, perr := s.requireSeated(c)
	if perr != nil {
		return perr
	}
	if err := s.requireEngine(); err != nil {
		return err
	}
	var p wire.DeckPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return companionerr.New(companionerr.KindProtocolError, "malformed draw payload")
	}
	nb := card.Neighbourhood(p.Deck)
	drawn, ticket, err := s.engine.DrawFromNeighbourhood(player, nb)
	if err != nil {
		return err
	}

	state := wire.StateFaceBack
	if drawn.IsEvent {
		state = wire.StateEvent
	}
	c.writeJSON(wire.NewViewerReply("", p.Deck, []wire.CardView{cardView(drawn, state, ticket)}))
	s.logSeatedLocked(player, fmt.Sprintf("%%s drew a card from %s", p.Deck), cardView(drawn, wire.StateBackFace, ""))
	s.broadcastUpdateLocked()
	return nil
}

func (s *Session) cmdResolveEvent(c *Client, raw json.RawMessage) error {
	player, perr := s.requireSeated(c)
	if perr != nil {
		return perr
	}
	if err := s.requireEngine(); err != nil {
		return err
	}
	var p wire.ResolveEventPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return companionerr.New(companionerr.KindProtocolError, "malformed resolve_event payload")
	}
	if err := s.engine.ResolvePending(player, p.Identifier, p.Passed); err != nil {
		return err
	}
	c.writeJSON(wire.NewAck("event resolved"))
	s.broadcastUpdateLocked()
	return nil
}

func (s *Session) cmdDrawTerror(c *Client, raw json.RawMessage) error {
	player, perr := s.requireSeated(c)
	if perr != nil {
		return perr
	}
	if err := s.requireEngine(); err != nil {
		return err
	}
	var p wire.DeckPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return companionerr.New(companionerr.KindProtocolError, "malformed draw_terror payload")
	}
	drawn, err := s.engine.DrawTerrorFromNeighbourhood(player, card.Neighbourhood(p.Deck))
	if err != nil {
		return err
	}
	c.writeJSON(wire.NewViewerReply("", p.Deck, []wire.CardView{cardView(drawn, wire.StateFaceBack, "")}))
	s.logSeatedLocked(player, fmt.Sprintf("%%s drew terror from %s", p.Deck), cardView(drawn, wire.StateFaceBack, ""))
	s.broadcastUpdateLocked()
	return nil
}

func (s *Session) cmdAddDeck(c *Client, raw json.RawMessage) error {
	player, perr := s.requireSeated(c)
	if perr != nil {
		return perr
	}
	if err := s.requireEngine(); err != nil {
		return err
	}
	var p wire.DeckPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return companionerr.New(companionerr.KindProtocolError, "malformed add_deck payload")
	}
	doom, err := s.engine.AddNeighbourhood(player, card.Neighbourhood(p.Deck))
	if err != nil {
		return err
	}
	msg := fmt.Sprintf("%%s added the %s neighbourhood", p.Deck)
	if doom > 0 {
		msg = fmt.Sprintf("%%s added the %s neighbourhood (add %d doom)", p.Deck, doom)
	}
	c.writeJSON(wire.NewAck("neighbourhood added"))
	s.logSeatedLocked(player, msg, wire.CardView{})
	s.broadcastUpdateLocked()
	return nil
}

func (s *Session) cmdSpreadDoom(c *Client, raw json.RawMessage) error {
	return s.withEmptyDeckFallback(c, raw, "%s spread doom", func(player string) (card.Card, error) {
		return s.engine.SpreadDoom(player)
	})
}

func (s *Session) cmdSpreadClue(c *Client, raw json.RawMessage) error {
	return s.withEmptyDeckFallback(c, raw, "%s spread a clue", func(player string) (card.Card, error) {
		return s.engine.SpreadClue(player)
	})
}

// withEmptyDeckFallback runs op and handles the shared EmptyDeck contract:
// a reshuffle has already happened by the time op returns the error, so the
// caller gets a non-fatal viewer_reply instead of an error reply.
func (s *Session) withEmptyDeckFallback(c *Client, raw json.RawMessage, logFmt string, op func(player string) (card.Card, error)) error {
	player, perr := s.requireSeated(c)
	if perr != nil {
		return perr
	}
	if err := s.requireEngine(); err != nil {
		return err
	}
	drawn, err := op(player)
	if err != nil {
		if companionerr.Is(err, companionerr.KindEmptyDeck) {
			c.writeJSON(wire.NewViewerReply("", "", nil))
			s.logSeatedLocked(player, "%s triggered a reshuffle; apply the empty-deck fallback", wire.CardView{})
			s.broadcastUpdateLocked()
			return nil
		}
		return err
	}
	c.writeJSON(wire.NewAck("done"))
	s.logSeatedLocked(player, logFmt, cardView(drawn, wire.StateFaceBack, ""))
	s.broadcastUpdateLocked()
	return nil
}

func (s *Session) cmdSpreadTerror(c *Client, raw json.RawMessage) error {
	player, perr := s.requireSeated(c)
	if perr != nil {
		return perr
	}
	if err := s.requireEngine(); err != nil {
		return err
	}
	result, err := s.engine.SpreadTerror(player, s.engine.State.Scenario)
	if err != nil {
		return err
	}
	c.writeJSON(wire.NewAck("terror spread"))
	s.logSeatedLocked(player, "%s spread terror", wire.CardView{})
	_ = result
	s.broadcastUpdateLocked()
	return nil
}

func (s *Session) cmdPlaceTerror(c *Client, raw json.RawMessage) error {
	player, perr := s.requireSeated(c)
	if perr != nil {
		return perr
	}
	if err := s.requireEngine(); err != nil {
		return err
	}
	var p wire.DeckPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return companionerr.New(companionerr.KindProtocolError, "malformed place_terror payload")
	}
	if err := s.engine.PlaceTerror(player, card.Neighbourhood(p.Deck)); err != nil {
		return err
	}
	c.writeJSON(wire.NewAck("terror placed"))
	s.logSeatedLocked(player, fmt.Sprintf("%%s placed terror on %s", p.Deck), wire.CardView{})
	s.broadcastUpdateLocked()
	return nil
}

func (s *Session) cmdGateBurst(c *Client, raw json.RawMessage) error {
	player, perr := s.requireSeated(c)
	if perr != nil {
		return perr
	}
	if err := s.requireEngine(); err != nil {
		return err
	}
	drawn, err := s.engine.GateBurst(player)
	if err != nil {
		return err
	}
	if drawn == nil {
		c.writeJSON(wire.NewViewerReply("", "", nil))
		s.logSeatedLocked(player, "%s triggered a gate burst with an empty event deck", wire.CardView{})
		s.broadcastUpdateLocked()
		return nil
	}
	c.writeJSON(wire.NewAck("gate burst resolved"))
	s.logSeatedLocked(player, "%s triggered a gate burst", cardView(*drawn, wire.StateFaceBack, ""))
	s.broadcastUpdateLocked()
	return nil
}

func (s *Session) cmdHeadline(c *Client, raw json.RawMessage) error {
	player, perr := s.requireSeated(c)
	if perr != nil {
		return perr
	}
	if err := s.requireEngine(); err != nil {
		return err
	}
	drawn, err := s.engine.DrawHeadline(player)
	if err != nil {
		if companionerr.Is(err, companionerr.KindEmptyDeck) {
			c.writeJSON(wire.NewViewerReply("", "", nil))
			s.logSeatedLocked(player, "%s tried to draw a headline but the pile is empty", wire.CardView{})
			return nil
		}
		return err
	}
	c.writeJSON(wire.NewAck("headline drawn"))
	s.logSeatedLocked(player, "%s drew a headline", cardView(drawn, wire.StateFaceBack, ""))
	s.broadcastUpdateLocked()
	return nil
}

func (s *Session) cmdAddCodex(c *Client, raw json.RawMessage) error {
	player, perr := s.requireSeated(c)
	if perr != nil {
		return perr
	}
	if err := s.requireEngine(); err != nil {
		return err
	}
	var p wire.CodexPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return companionerr.New(companionerr.KindProtocolError, "malformed add_codex payload")
	}
	if err := s.engine.AddFromArchive(player, p.Codex); err != nil {
		return err
	}
	c.writeJSON(wire.NewAck("codex added"))
	s.logSeatedLocked(player, fmt.Sprintf("%%s added codex card %d", p.Codex), wire.CardView{})
	s.broadcastUpdateLocked()
	return nil
}

func (s *Session) cmdRemoveCodex(c *Client, raw json.RawMessage) error {
	player, perr := s.requireSeated(c)
	if perr != nil {
		return perr
	}
	if err := s.requireEngine(); err != nil {
		return err
	}
	var p wire.CodexPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return companionerr.New(companionerr.KindProtocolError, "malformed remove_codex payload")
	}
	if err := s.engine.ReturnToArchive(player, p.Codex); err != nil {
		return err
	}
	c.writeJSON(wire.NewAck("codex removed"))
	s.logSeatedLocked(player, fmt.Sprintf("%%s returned codex card %d to the archive", p.Codex), wire.CardView{})
	s.broadcastUpdateLocked()
	return nil
}

func (s *Session) cmdFlipCodex(c *Client, raw json.RawMessage) error {
	player, perr := s.requireSeated(c)
	if perr != nil {
		return perr
	}
	if err := s.requireEngine(); err != nil {
		return err
	}
	var p wire.CodexPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return companionerr.New(companionerr.KindProtocolError, "malformed flip_codex payload")
	}
	if err := s.engine.FlipCodex(player, p.Codex); err != nil {
		return err
	}
	c.writeJSON(wire.NewAck("codex flipped"))
	s.logSeatedLocked(player, fmt.Sprintf("%%s flipped codex card %d", p.Codex), wire.CardView{})
	s.broadcastUpdateLocked()
	return nil
}

func (s *Session) cmdAddCounterCodex(c *Client, raw json.RawMessage) error {
	return s.modifyCodexCounter(c, raw, 1)
}

func (s *Session) cmdRemoveCounterCodex(c *Client, raw json.RawMessage) error {
	return s.modifyCodexCounter(c, raw, -1)
}

func (s *Session) modifyCodexCounter(c *Client, raw json.RawMessage, delta int) error {
	player, perr := s.requireSeated(c)
	if perr != nil {
		return perr
	}
	if err := s.requireEngine(); err != nil {
		return err
	}
	var p wire.CodexPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return companionerr.New(companionerr.KindProtocolError, "malformed codex counter payload")
	}
	if err := s.engine.ModifyCounterOnCodex(player, p.Codex, delta); err != nil {
		return err
	}
	c.writeJSON(wire.NewAck("codex counter updated"))
	s.broadcastUpdateLocked()
	return nil
}

func (s *Session) cmdAddCounterRumor(c *Client, raw json.RawMessage) error {
	return s.modifyRumorCounter(c, 1)
}

func (s *Session) cmdRemoveCounterRumor(c *Client, raw json.RawMessage) error {
	return s.modifyRumorCounter(c, -1)
}

func (s *Session) modifyRumorCounter(c *Client, delta int) error {
	player, perr := s.requireSeated(c)
	if perr != nil {
		return perr
	}
	if err := s.requireEngine(); err != nil {
		return err
	}
	if err := s.engine.ModifyCounterOnRumor(player, delta); err != nil {
		return err
	}
	c.writeJSON(wire.NewAck("rumor counter updated"))
	s.broadcastUpdateLocked()
	return nil
}

func (s *Session) cmdRemoveRumor(c *Client, raw json.RawMessage) error {
	player, perr := s.requireSeated(c)
	if perr != nil {
		return perr
	}
	if err := s.requireEngine(); err != nil {
		return err
	}
	if err := s.engine.ClearRumor(player); err != nil {
		return err
	}
	c.writeJSON(wire.NewAck("rumor cleared"))
	s.broadcastUpdateLocked()
	return nil
}

func (s *Session) cmdUndo(c *Client, raw json.RawMessage) error {
	player, perr := s.requireSeated(c)
	if perr != nil {
		return perr
	}
	if err := s.requireEngine(); err != nil {
		return err
	}
	if err := s.engine.History.Undo(player); err != nil {
		return err
	}
	c.writeJSON(wire.NewAck("undone"))
	s.broadcastUpdateLocked()
	return nil
}

func (s *Session) cmdRedo(c *Client, raw json.RawMessage) error {
	player, perr := s.requireSeated(c)
	if perr != nil {
		return perr
	}
	if err := s.requireEngine(); err != nil {
		return err
	}
	if err := s.engine.History.Redo(player); err != nil {
		return err
	}
	c.writeJSON(wire.NewAck("redone"))
	s.broadcastUpdateLocked()
	return nil
}

// --- pure read commands ------------------------------------------------------

func (s *Session) cmdViewDiscard(c *Client, raw json.RawMessage) error {
	if err := s.requireEngine(); err != nil {
		return err
	}
	views := make([]wire.CardView, 0, s.engine.State.EventDiscard.Len())
	for _, card := range s.engine.State.EventDiscard.Cards {
		views = append(views, cardView(card, wire.StateFaceBack, ""))
	}
	c.writeJSON(wire.NewViewerReply(wire.ActionViewDiscard, "", views))
	return nil
}

func (s *Session) cmdViewCodex(c *Client, raw json.RawMessage) error {
	if err := s.requireEngine(); err != nil {
		return err
	}
	cards := s.engine.GetCodex()
	views := make([]wire.CardView, 0, len(cards))
	for _, card := range cards {
		views = append(views, cardView(card, codexState(card.IsFlipped), ""))
	}
	c.writeJSON(wire.NewViewerReply(wire.ActionViewCodex, "", views))
	return nil
}

func (s *Session) cmdViewArchive(c *Client, raw json.RawMessage) error {
	if err := s.requireEngine(); err != nil {
		return err
	}
	cards := s.engine.GetArchive()
	views := make([]wire.CardView, 0, len(cards))
	for _, card := range cards {
		views = append(views, cardView(card, wire.StateArchive, ""))
	}
	c.writeJSON(wire.NewViewerReply(wire.ActionViewArchive, "", views))
	return nil
}

func (s *Session) cmdViewAttachedCodex(c *Client, raw json.RawMessage) error {
	if err := s.requireEngine(); err != nil {
		return err
	}
	var p wire.DeckPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return companionerr.New(companionerr.KindProtocolError, "malformed view_attached_codex payload")
	}
	nb := card.Neighbourhood(p.Deck)
	pile, ok := s.engine.State.Neighbourhoods[nb]
	if !ok {
		return companionerr.Newf(companionerr.KindNotFound, "neighbourhood %q not present", nb)
	}
	var views []wire.CardView
	if pile.AttachedCodex != nil {
		views = []wire.CardView{cardView(*pile.AttachedCodex, codexState(pile.AttachedCodex.IsFlipped), "")}
	}
	c.writeJSON(wire.NewViewerReply(wire.ActionViewAttachedCodex, p.Deck, views))
	return nil
}

func (s *Session) cmdViewRumor(c *Client, raw json.RawMessage) error {
	if err := s.requireEngine(); err != nil {
		return err
	}
	var views []wire.CardView
	if top, ok := s.engine.State.Rumor.PeekTop(); ok {
		views = []wire.CardView{cardView(top, wire.StateRumor, "")}
	}
	c.writeJSON(wire.NewViewerReply(wire.ActionViewRumor, "", views))
	return nil
}
