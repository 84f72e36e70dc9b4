// Package wire defines the JSON-over-websocket envelope, per-action client
// payloads, and server reply/broadcast message shapes. The two-stage
// envelope decode (outer Action + raw inner payload) follows the same
// dispatch-on-type-tag-before-parsing-the-body shape as codec.TxEnvelope.
package wire

import "encoding/json"

// CommandEnvelope is the shape of every client→server message: a mandatory
// action name and an action-specific payload decoded separately.
type CommandEnvelope struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the action field and keeps the original bytes around
// so the dispatcher can re-decode the payload into the right struct once it
// knows the action.
func (e *CommandEnvelope) UnmarshalJSON(data []byte) error {
	var probe struct {
		Action string `json:"action"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	e.Action = probe.Action
	e.Payload = append(json.RawMessage(nil), data...)
	return nil
}

// Client action names, enumerated.
const (
	ActionStartGame     = "start_game"
	ActionConnect       = "connect"
	ActionReconnect     = "reconnect"
	ActionDraw          = "draw"
	ActionResolveEvent  = "resolve_event"
	ActionViewDiscard   = "view_discard"
	ActionViewCodex     = "view_codex"
	ActionViewArchive   = "view_archive"
	ActionAddCodex      = "add_codex"
	ActionFlipCodex     = "flip_codex"
	ActionRemoveCodex   = "remove_codex"
	ActionViewAttachedCodex  = "view_attached_codex"
	ActionAddCounterCodex    = "add_counter_codex"
	ActionRemoveCounterCodex = "remove_counter_codex"
	ActionDrawTerror    = "draw_terror"
	ActionAddDeck       = "add_deck"
	ActionSpreadClue    = "spread_clue"
	ActionSpreadDoom    = "spread_doom"
	ActionSpreadTerror  = "spread_terror"
	ActionPlaceTerror   = "place_terror"
	ActionGateBurst     = "gate_burst"
	ActionHeadline      = "headline"
	ActionViewRumor     = "view_rumor"
	ActionRemoveRumor   = "remove_rumor"
	ActionAddCounterRumor    = "add_counter_rumor"
	ActionRemoveCounterRumor = "remove_counter_rumor"
	ActionUndo = "undo"
	ActionRedo = "redo"
)

// Server action names, enumerated.
const (
	ActionAck            = "ack"
	ActionError          = "error"
	ActionHello          = "hello"
	ActionReconnectReply = "reconnect_reply"
	ActionUpdate         = "update"
	ActionViewerReply    = "viewer_reply"
	ActionLog            = "log"
	ActionAllLogs        = "all_logs"
	ActionBoot           = "boot"
)

// StartGamePayload is the body of a start_game command.
type StartGamePayload struct {
	Scenario     string `json:"scenario"`
	Expansions   int    `json:"expansions"`
	PlayerName   string `json:"player_name"`
	PlayerColour string `json:"player_colour"`
}

// ConnectPayload is the body of a connect command.
type ConnectPayload struct {
	PlayerName   string `json:"player_name"`
	PlayerColour string `json:"player_colour"`
}

// DeckPayload is the body for actions keyed on a single neighbourhood name.
type DeckPayload struct {
	Deck string `json:"deck"`
}

// ResolveEventPayload is the body of resolve_event.
type ResolveEventPayload struct {
	Identifier string `json:"identifier"`
	Passed     bool   `json:"passed"`
}

// CodexPayload is the body for codex-number-keyed actions.
type CodexPayload struct {
	Codex int `json:"codex"`
}
