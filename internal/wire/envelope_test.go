package wire

import (
	"encoding/json"
	"testing"
)

func TestCommandEnvelopeDecodesActionAndKeepsPayload(t *testing.T) {
	raw := []byte(`{"action":"draw","deck":"Downtown"}`)
	var env CommandEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatal(err)
	}
	if env.Action != "draw" {
		t.Fatalf("expected action=draw, got %q", env.Action)
	}
	var p DeckPayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		t.Fatal(err)
	}
	if p.Deck != "Downtown" {
		t.Fatalf("expected deck=Downtown, got %q", p.Deck)
	}
}

func TestCommandEnvelopeRejectsInvalidJSON(t *testing.T) {
	var env CommandEnvelope
	if err := json.Unmarshal([]byte(`not json`), &env); err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
}

func TestNewCardViewLowercasesFaceBack(t *testing.T) {
	cv := NewCardView("FACE-1", "BACK-1", StateFaceBack, "", 0, 0)
	if cv.Face != "face-1" || cv.Back != "back-1" {
		t.Fatalf("expected lowercased identifiers, got %+v", cv)
	}
}
