// Package game is the tetromino lifecycle and line-clear engine: spawning,
// lock delay, row scanning, fragmentation, scoring and level progression on
// top of a physics.World.
package game

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/milk9111/rigidtris/levels"
	"github.com/milk9111/rigidtris/physics"
	"github.com/milk9111/rigidtris/prefabs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	ErrNoWorld    = errors.New("game: no world constructor")
	ErrNoLevels   = errors.New("game: no levels")
	ErrLevelIndex = errors.New("game: level index out of range")
)

// Controls are the player inputs for one tick. Horizontal and Rotate are in
// [-1, 1]; Release hands the active piece over to the stack immediately.
type Controls struct {
	Horizontal float64
	Rotate     float64
	Release    bool
}

type Options struct {
	// NewWorld builds an empty world for a level. It is called on start,
	// on every level change and on restart.
	NewWorld   func() physics.World
	Levels     []*levels.Level
	LevelIndex int
	// Spec defaults to prefabs.DefaultGameSpec when left zero.
	Spec prefabs.GameSpec
	// Rand defaults to a randomly seeded source.
	Rand *rand.Rand
	// Logger defaults to the global zerolog logger.
	Logger *zerolog.Logger
}

// Controller owns one play session and runs a tick per frame.
type Controller struct {
	newWorld func() physics.World
	levels   []*levels.Level
	levelIdx int
	spec     prefabs.GameSpec
	log      zerolog.Logger

	world    physics.World
	terrain  physics.Body
	state    State
	score    int
	tick     uint64
	pieces   *Pieces
	active   *Piece
	controls Controls
	counters Counters
	lastScan ScanResult
	stats    Stats
	events   EventQueue

	spawner    *Spawner
	scanner    LineScanner
	fragmenter BodyFragmenter
	scheduler  *Scheduler
}

func NewController(opts Options) (*Controller, error) {
	if opts.NewWorld == nil {
		return nil, ErrNoWorld
	}
	if len(opts.Levels) == 0 {
		return nil, ErrNoLevels
	}
	if opts.LevelIndex < 0 || opts.LevelIndex >= len(opts.Levels) {
		return nil, fmt.Errorf("%w: %d of %d", ErrLevelIndex, opts.LevelIndex, len(opts.Levels))
	}
	for i, lvl := range opts.Levels {
		if err := lvl.Validate(); err != nil {
			return nil, fmt.Errorf("game: level %d: %w", i, err)
		}
	}

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	logger := log.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	c := &Controller{
		newWorld: opts.NewWorld,
		levels:   opts.Levels,
		levelIdx: opts.LevelIndex,
		log:      logger.With().Str("component", "game").Logger(),
		pieces:   NewPieces(),
		spawner:  NewSpawner(rng),
		scheduler: NewScheduler(
			ControlSystem{},
			StepSystem{},
			&LockController{},
			ClearSystem{},
			PruneSystem{},
			ProgressSystem{},
		),
	}
	spec := opts.Spec
	if spec == (prefabs.GameSpec{}) {
		spec = prefabs.DefaultGameSpec()
	}
	c.SetSpec(spec)

	if err := c.loadLevel(); err != nil {
		return nil, err
	}
	c.log.Info().Str("level", c.Level().Name).Msg("game started")
	return c, nil
}

// Tick runs one frame of the lifecycle. It does nothing unless Playing.
// Errors come from the world failing to allocate bodies and are fatal.
func (c *Controller) Tick(ctl Controls) error {
	if c.state != Playing {
		return nil
	}
	c.tick++
	c.controls = ctl
	c.lastScan = ScanResult{}
	return c.scheduler.Update(c)
}

// TogglePause switches between Playing and Paused. It has no effect once
// the game is over.
func (c *Controller) TogglePause() {
	switch c.state {
	case Playing:
		c.setState(Paused)
	case Paused:
		c.setState(Playing)
	}
}

// Restart reloads the current level with a zero score and fresh counters.
func (c *Controller) Restart() error {
	c.score = 0
	if err := c.loadLevel(); err != nil {
		return err
	}
	c.lastScan = ScanResult{}
	c.setState(Playing)
	c.events.Push(EventRestarted, RestartedEvent{Level: c.levelIdx})
	c.log.Info().Str("level", c.Level().Name).Msg("restarted")
	return nil
}

// SetSpec replaces the tunables. Out-of-range values are clamped.
func (c *Controller) SetSpec(spec prefabs.GameSpec) {
	spec, clamped := spec.Clamp()
	if len(clamped) > 0 {
		c.log.Warn().Strs("fields", clamped).Msg("clamped game tunables")
	}
	c.spec = spec
}

func (c *Controller) Spec() prefabs.GameSpec { return c.spec }
func (c *Controller) State() State { return c.state }
func (c *Controller) Score() int { return c.score }
func (c *Controller) Frame() uint64 { return c.tick }
func (c *Controller) LevelIndex() int { return c.levelIdx }
func (c *Controller) Level() *levels.Level { return c.levels[c.levelIdx] }
func (c *Controller) World() physics.World { return c.world }
func (c *Controller) Terrain() physics.Body { return c.terrain }
func (c *Controller) Pieces() []*Piece { return c.pieces.All() }
func (c *Controller) PieceCount() int { return c.pieces.Len() }
func (c *Controller) Active() *Piece { return c.active }
func (c *Controller) LastScan() ScanResult { return c.lastScan }
func (c *Controller) Counters() Counters { return c.counters }
func (c *Controller) Stats() Stats { return c.stats }
func (c *Controller) Events() []Event { return c.events.Drain() }

func (c *Controller) setState(s State) {
	if c.state == s {
		return
	}
	c.log.Info().Str("from", c.state.String()).Str("to", s.String()).Msg("state changed")
	c.state = s
}

func (c *Controller) gameOver() {
	c.stats.GameOvers++
	c.setState(GameOver)
	c.events.Push(EventGameOver, GameOverEvent{Score: c.score, Level: c.levelIdx})
}

func (c *Controller) addPiece(p *Piece) {
	p.born = c.tick
	c.pieces.Add(p)
}

// loadLevel swaps in a fresh world with the current level's terrain and
// resets the pieces and counters. The score is left alone.
func (c *Controller) loadLevel() error {
	if closer, ok := c.world.(interface{ Close() }); ok {
		closer.Close()
	}

	lvl := c.Level()
	world := c.newWorld()
	terrain, err := world.CreateBody(physics.BodyDef{Kind: physics.Static})
	if err != nil {
		return fmt.Errorf("game: load level %q: %w", lvl.Name, err)
	}
	points := make([]physics.Vec, 0, len(lvl.TerrainPoints))
	for _, p := range lvl.TerrainPoints {
		points = append(points, physics.Vec{X: p.X, Y: p.Y})
	}
	if err := terrain.AttachChain(points, false, materialFrom(c.spec)); err != nil {
		return fmt.Errorf("game: load level %q: %w", lvl.Name, err)
	}

	c.world = world
	c.terrain = terrain
	c.pieces.Clear()
	c.active = nil
	c.counters = initialCounters()
	return nil
}
