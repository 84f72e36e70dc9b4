package wire

import "strings"

// CardViewState tells the client how to render a card it cannot fully see.
type CardViewState string

const (
	StateFaceBack       CardViewState = "face_back"
	StateBackFace       CardViewState = "back_face"
	StateEvent          CardViewState = "event"
	StateArchive        CardViewState = "archive"
	StateUnflippedCodex CardViewState = "un_flipped_codex"
	StateFlippedCodex   CardViewState = "flipped_codex"
	StateRumor          CardViewState = "rumor"
)

// CardView is the canonical card projection sent over the wire.
type CardView struct {
	Face       string        `json:"face"`
	Back       string        `json:"back"`
	State      CardViewState `json:"state"`
	Identifier string        `json:"identifier,omitempty"`
	Number     int           `json:"number,omitempty"`
	Counters   int           `json:"counters,omitempty"`
}

// NewCardView builds a CardView from a card's fields, choosing state per the
// caller-supplied context. face/back are lowercased as the wire contract
// requires.
func NewCardView(face, back string, state CardViewState, identifier string, number, counters int) CardView {
	return CardView{
		Face:       strings.ToLower(face),
		Back:       strings.ToLower(back),
		State:      state,
		Identifier: identifier,
		Number:     number,
		Counters:   counters,
	}
}

// Ack is an acknowledgement reply to the sender only.
type Ack struct {
	Action  string `json:"action"`
	Message string `json:"message"`
}

// NewAck builds an Ack message.
func NewAck(message string) Ack {
	return Ack{Action: ActionAck, Message: message}
}

// ErrorReply is an error reply to the sender only.
type ErrorReply struct {
	Action  string `json:"action"`
	Message string `json:"message"`
}

// NewErrorReply builds an ErrorReply message.
func NewErrorReply(message string) ErrorReply {
	return ErrorReply{Action: ActionError, Message: message}
}

// Boot tells a connection it has been disconnected by a new start_game.
type Boot struct {
	Action string `json:"action"`
}

// NewBoot builds a Boot message.
func NewBoot() Boot {
	return Boot{Action: ActionBoot}
}

// Hello is broadcast on any roster change.
type Hello struct {
	Action        string   `json:"action"`
	GameAvailable bool     `json:"game_available"`
	TakenNames    []string `json:"taken_names,omitempty"`
	TakenColours  []string `json:"taken_colours,omitempty"`
}

// NewHello builds a Hello message.
func NewHello(gameAvailable bool, takenNames, takenColours []string) Hello {
	return Hello{Action: ActionHello, GameAvailable: gameAvailable, TakenNames: takenNames, TakenColours: takenColours}
}

// ReconnectReply answers a reconnect command.
type ReconnectReply struct {
	Action string `json:"action"`
	Name   string `json:"name"`
	Colour string `json:"colour"`
}

// NewReconnectReply builds a ReconnectReply message.
func NewReconnectReply(name, colour string) ReconnectReply {
	return ReconnectReply{Action: ActionReconnectReply, Name: name, Colour: colour}
}

// Update is broadcast after every mutation; can_undo/can_redo are computed
// per recipient by the caller before marshaling.
type Update struct {
	Action   string `json:"action"`
	GameData any    `json:"game_data"`
	CanUndo  bool   `json:"can_undo"`
	CanRedo  bool   `json:"can_redo"`
}

// NewUpdate builds an Update message.
func NewUpdate(gameData any, canUndo, canRedo bool) Update {
	return Update{Action: ActionUpdate, GameData: gameData, CanUndo: canUndo, CanRedo: canRedo}
}

// ViewerReply is a targeted reply carrying zero or more card views.
type ViewerReply struct {
	Action  string     `json:"action"`
	Trigger string     `json:"trigger,omitempty"`
	Deck    string     `json:"deck,omitempty"`
	Cards   []CardView `json:"cards"`
}

// NewViewerReply builds a ViewerReply message.
func NewViewerReply(trigger, deckName string, cards []CardView) ViewerReply {
	if cards == nil {
		cards = []CardView{}
	}
	return ViewerReply{Action: ActionViewerReply, Trigger: trigger, Deck: deckName, Cards: cards}
}

// LogMessage is broadcast to seated players after a mutation. Message is the
// final text, with the acting player's name already filled in by the server.
type LogMessage struct {
	Action  string    `json:"action"`
	Message string    `json:"message"`
	Card    *CardView `json:"card,omitempty"`
	Colour  string    `json:"colour"`
}

// NewLogMessage builds a LogMessage.
func NewLogMessage(message string, card *CardView, colour string) LogMessage {
	return LogMessage{Action: ActionLog, Message: message, Card: card, Colour: colour}
}

// AllLogs replies with the full log stream on successful connect.
type AllLogs struct {
	Action string       `json:"action"`
	Logs   []LogMessage `json:"logs"`
}

// NewAllLogs builds an AllLogs message.
func NewAllLogs(logs []LogMessage) AllLogs {
	if logs == nil {
		logs = []LogMessage{}
	}
	return AllLogs{Action: ActionAllLogs, Logs: logs}
}
