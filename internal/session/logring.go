package session

import "companion/internal/wire"

// logRingCapacity bounds the replayed log stream sent to a newly connected
// player. Unbounded growth over a long session would otherwise make
// all_logs arbitrarily large; 200 entries comfortably covers a session's
// scrollback without needing persistence.
const logRingCapacity = 200

// logRing is a bounded FIFO of broadcast log messages.
type logRing struct {
	entries []wire.LogMessage
}

func newLogRing() *logRing {
	return &logRing{entries: make([]wire.LogMessage, 0, logRingCapacity)}
}

func (l *logRing) push(msg wire.LogMessage) {
	l.entries = append(l.entries, msg)
	if len(l.entries) > logRingCapacity {
		l.entries = l.entries[len(l.entries)-logRingCapacity:]
	}
}

func (l *logRing) all() []wire.LogMessage {
	out := make([]wire.LogMessage, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *logRing) reset() {
	l.entries = l.entries[:0]
}
