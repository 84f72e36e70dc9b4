// Package history implements the per-label snapshot timeline and per-player
// change-log that together give each seated player independent undo/redo
// over the shared game state, without letting one player's undo reach
// through a label another player has since touched.
//
// Snapshots are stored as opaque values produced by a Snapshotter, which owns
// how a label's value is deep-copied. Rather than one clone of the whole
// state, each label gets its own independent timeline.
package history

import "companion/internal/companionerr"

// Label identifies one piece of mutable state with its own undo timeline.
type Label string

// Snapshotter reads and restores the current value held under a label. The
// history engine never inspects the value itself; it only asks the owner to
// snapshot and restore it.
type Snapshotter interface {
	// Snapshot returns a deep copy of the current value at label.
	Snapshot(label Label) any
	// Restore installs snapshot as the current value at label.
	Restore(label Label, snapshot any)
}

// labelTimeline is T[L]/i[L]: a list of immutable snapshots and a cursor.
type labelTimeline struct {
	snapshots []any
	cursor    int
}

// Engine owns every label's timeline and every player's change-log.
type Engine struct {
	store     Snapshotter
	timelines map[Label]*labelTimeline
	changes   map[string][]map[Label]bool // C[p]
	cursor    map[string]int              // j[p], -1 means nothing to undo
}

// NewEngine builds an engine backed by store. Each label in labels starts a
// timeline with its current value as snapshot zero.
func NewEngine(store Snapshotter, labels []Label) *Engine {
	e := &Engine{
		store:     store,
		timelines: make(map[Label]*labelTimeline, len(labels)),
		changes:   make(map[string][]map[Label]bool),
		cursor:    make(map[string]int),
	}
	for _, l := range labels {
		e.timelines[l] = &labelTimeline{snapshots: []any{store.Snapshot(l)}, cursor: 0}
	}
	return e
}

// AddPlayer registers a seated player with an empty change-log.
func (e *Engine) AddPlayer(player string) {
	if _, ok := e.cursor[player]; ok {
		return
	}
	e.changes[player] = nil
	e.cursor[player] = -1
}

// RemovePlayer drops a player's change-log entirely (on disconnect/reset).
func (e *Engine) RemovePlayer(player string) {
	delete(e.changes, player)
	delete(e.cursor, player)
}

// recordLabel appends a fresh snapshot of label and truncates its forward
// history.
func (e *Engine) recordLabel(label Label) {
	t, ok := e.timelines[label]
	if !ok {
		t = &labelTimeline{snapshots: []any{e.store.Snapshot(label)}, cursor: 0}
		e.timelines[label] = t
		return
	}
	t.snapshots = append(t.snapshots[:t.cursor+1], e.store.Snapshot(label))
	t.cursor++
}

// Record applies a mutation's label set touched by player: it snapshots
// every touched label, truncates every other player's forward change-log,
// and appends the change-set to player's own log.
func (e *Engine) Record(player string, touched []Label) {
	for _, l := range touched {
		e.recordLabel(l)
	}
	for q, j := range e.cursor {
		if q == player {
			continue
		}
		if j+1 < len(e.changes[q]) {
			e.changes[q] = e.changes[q][:j+1]
		}
	}
	set := make(map[Label]bool, len(touched))
	for _, l := range touched {
		set[l] = true
	}
	log := e.changes[player]
	if j := e.cursor[player]; j+1 < len(log) {
		log = log[:j+1]
	}
	log = append(log, set)
	e.changes[player] = log
	e.cursor[player] = len(log) - 1
}

// CanUndo reports whether player may undo their most recent action: it must
// exist, and it must not share a label with any other player's current
// change-set (the non-interference rule).
func (e *Engine) CanUndo(player string) bool {
	j, ok := e.cursor[player]
	if !ok || j < 0 {
		return false
	}
	mine := e.changes[player][j]
	for q, jq := range e.cursor {
		if q == player || jq < 0 {
			continue
		}
		theirs := e.changes[q][jq]
		for l := range mine {
			if theirs[l] {
				return false
			}
		}
	}
	return true
}

// CanRedo reports whether player has a forward change-set to redo.
func (e *Engine) CanRedo(player string) bool {
	j, ok := e.cursor[player]
	if !ok {
		return false
	}
	return j+1 < len(e.changes[player])
}

// Undo rolls back player's most recent change-set, one label at a time.
func (e *Engine) Undo(player string) error {
	if !e.CanUndo(player) {
		return companionerr.New(companionerr.KindInvalidOp, "undo not available")
	}
	j := e.cursor[player]
	for l := range e.changes[player][j] {
		e.undoLabel(l)
	}
	e.cursor[player] = j - 1
	return nil
}

// Redo replays player's next change-set, one label at a time.
func (e *Engine) Redo(player string) error {
	if !e.CanRedo(player) {
		return companionerr.New(companionerr.KindInvalidOp, "redo not available")
	}
	j := e.cursor[player] + 1
	for l := range e.changes[player][j] {
		e.redoLabel(l)
	}
	e.cursor[player] = j
	return nil
}

func (e *Engine) undoLabel(label Label) {
	t, ok := e.timelines[label]
	if !ok || t.cursor == 0 {
		return
	}
	t.cursor--
	e.store.Restore(label, t.snapshots[t.cursor])
}

func (e *Engine) redoLabel(label Label) {
	t, ok := e.timelines[label]
	if !ok || t.cursor+1 >= len(t.snapshots) {
		return
	}
	t.cursor++
	e.store.Restore(label, t.snapshots[t.cursor])
}
