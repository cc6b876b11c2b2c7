package game

import "github.com/milk9111/rigidtris/physics"

// EventKind identifies lifecycle events.
type EventKind string

const (
	EventPieceSpawned  EventKind = "piece_spawned"
	EventPieceLocked   EventKind = "piece_locked"
	EventLinesCleared  EventKind = "lines_cleared"
	EventPiecePruned   EventKind = "piece_pruned"
	EventGameOver      EventKind = "game_over"
	EventLevelAdvanced EventKind = "level_advanced"
	EventRestarted     EventKind = "restarted"
)

// Event is a lifecycle event payload. Data holds one of the *Event structs
// below, matching Kind.
type Event struct {
	Kind EventKind
	Data any
}

type PieceSpawnedEvent struct {
	ID        physics.BodyID
	Archetype Archetype
	Color     Color
	Position  physics.Vec
}

// PieceLockedEvent is emitted when the active piece leaves player control,
// either by settling or by being released.
type PieceLockedEvent struct {
	ID       physics.BodyID
	Released bool
}

type LinesClearedEvent struct {
	Points []physics.Vec
	Bodies int
	Score  int
}

type PruneReason string

const (
	PruneFellOut PruneReason = "fell_out"
	PruneEmpty   PruneReason = "empty"
)

type PiecePrunedEvent struct {
	ID     physics.BodyID
	Reason PruneReason
}

type GameOverEvent struct {
	Score int
	Level int
}

type LevelAdvancedEvent struct {
	From  int
	To    int
	Score int
}

type RestartedEvent struct {
	Level int
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(kind EventKind, data any) {
	if q == nil {
		return
	}
	q.items = append(q.items, Event{Kind: kind, Data: data})
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}
