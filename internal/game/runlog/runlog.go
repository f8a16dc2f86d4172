// Package runlog keeps the append-only record of resolved encounters for a
// play session. Downstream consumers (analytics, narrative generation) read
// the event sequence as-is; persistence is their concern, not this
// package's.
package runlog

import (
	"time"

	"github.com/cory-johannsen/lantern/internal/game/encounter"
)

// Event is one resolved encounter. Past events are never mutated or deleted.
type Event struct {
	// Seq is the strictly increasing sequence index assigned at append time,
	// counting from zero after any reset.
	Seq int
	// X, Y locate the encounter's cell.
	X int
	Y int
	// Type is the encounter type that was resolved.
	Type encounter.Type
	// EncounterID is the resolved record's unique ID.
	EncounterID string
	// Outcome is the human-readable outcome text.
	Outcome string
	// HpDelta is the HP change applied by the resolution.
	HpDelta int
	// Reward is the reward granted by the resolution.
	Reward encounter.Reward
	// PlayerDied reports whether the resolution killed the player.
	PlayerDied bool
	// At is the wall-clock append time.
	At time.Time
}

// Log is the append-only event sequence for a session. Log is not safe for
// concurrent use; the core is single-threaded by design and the owning run
// controller serializes access.
type Log struct {
	events []Event
	next   int
}

// New creates an empty Log.
func New() *Log {
	return &Log{}
}

// Record appends ev, assigning it the next sequence index, and returns that
// index. The caller's Seq and At values are overwritten.
//
// Postcondition: returned index == previous index + 1, or 0 for the first
// append after New or Clear.
func (l *Log) Record(ev Event) int {
	ev.Seq = l.next
	ev.At = time.Now()
	l.events = append(l.events, ev)
	l.next++
	return ev.Seq
}

// Events returns a copy of the full event sequence in append order.
func (l *Log) Events() []Event {
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// Len returns the number of recorded events.
func (l *Log) Len() int {
	return len(l.events)
}

// Clear discards all events and resets the sequence to zero.
func (l *Log) Clear() {
	l.events = nil
	l.next = 0
}
