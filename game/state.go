package game

import "github.com/milk9111/rigidtris/physics"

type State int

const (
	Playing State = iota
	Paused
	GameOver
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case GameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// SpawnSchedule is the countdown to the next spawn. An idle schedule and one
// that is due this tick are different states, not sentinel values.
type SpawnSchedule struct {
	scheduled bool
	frames    int
}

func Idle() SpawnSchedule { return SpawnSchedule{} }

// Scheduled arms a spawn n ticks from now. Scheduled(0) spawns on the next
// countdown tick.
func Scheduled(n int) SpawnSchedule {
	if n < 0 {
		n = 0
	}
	return SpawnSchedule{scheduled: true, frames: n}
}

// Remaining reports the ticks left and whether a spawn is armed at all.
func (s SpawnSchedule) Remaining() (int, bool) {
	return s.frames, s.scheduled
}

func (s SpawnSchedule) Armed() bool { return s.scheduled }

// Tick counts one tick down and reports whether the spawn is due. A due
// schedule becomes idle.
func (s *SpawnSchedule) Tick() bool {
	if !s.scheduled {
		return false
	}
	if s.frames > 0 {
		s.frames--
	}
	if s.frames > 0 {
		return false
	}
	*s = Idle()
	return true
}

// Counters are the per-level frame counters of the lock controller.
type Counters struct {
	TouchingFrames            int
	PendingSpawn              SpawnSchedule
	SpawnCollisionCheckFrames int
	LastSpawned               physics.BodyID
}

func initialCounters() Counters {
	return Counters{PendingSpawn: Scheduled(0)}
}

// Stats counts lifecycle events since the controller was created.
type Stats struct {
	Spawns    int
	Locks     int
	Lines     int
	Fragments int
	Fallen    int
	Anomalies int
	GameOvers int
}
