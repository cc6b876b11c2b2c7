package game

import (
	"github.com/milk9111/rigidtris/common"
	"github.com/milk9111/rigidtris/physics"
)

// System is one phase of a tick.
type System interface {
	Update(c *Controller) error
}

// Scheduler runs the tick phases in order. It stops early once the game
// leaves the Playing state or a phase fails.
type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	copied := append([]System(nil), systems...)
	return &Scheduler{systems: copied}
}

func (s *Scheduler) Update(c *Controller) error {
	for _, system := range s.systems {
		if c.state != Playing {
			return nil
		}
		if err := system.Update(c); err != nil {
			return err
		}
	}
	return nil
}

// ControlSystem drives the active piece from the current controls.
type ControlSystem struct{}

func (ControlSystem) Update(c *Controller) error {
	if c.active == nil {
		return nil
	}
	ctl := c.controls
	body := c.active.Body
	// Speeds are tuned in meters per second.
	vx := ctl.Horizontal * c.spec.ControlSpeed * common.PixelsPerMeter
	vy := -c.spec.FallSpeed * common.PixelsPerMeter
	body.ApplyImpulseForVelocity(vx, vy)
	if ctl.Rotate != 0 {
		body.Rotate(ctl.Rotate * c.spec.RotateStep)
	}
	return nil
}

// StepSystem advances the simulation. Every later phase reads post-step state.
type StepSystem struct{}

func (StepSystem) Update(c *Controller) error {
	c.world.Step()
	return nil
}

// ClearSystem scans for full rows, fragments every hit body once and scores
// one point per cleared square.
type ClearSystem struct{}

func (ClearSystem) Update(c *Controller) error {
	lvl := c.Level()
	res := c.scanner.Scan(c.world, lvl.ScanArea, lvl.LineMinBlocks, c.spec)
	c.lastScan = res
	if len(res.ClearedPoints) == 0 && len(res.Bodies) == 0 {
		return nil
	}

	mat := materialFrom(c.spec)
	for _, body := range res.Bodies {
		piece, ok := c.pieces.Get(body.ID())
		if !ok {
			c.log.Warn().Uint64("body", uint64(body.ID())).Msg("cleared row hit an untracked body")
			continue
		}
		wasActive := c.active == piece
		frags, err := c.fragmenter.Fragment(c.world, c.pieces, piece, mat, c.tick)
		if err != nil {
			return err
		}
		c.stats.Fragments += len(frags)
		if wasActive {
			c.dropActive()
		}
	}

	c.score += len(res.ClearedPoints)
	c.stats.Lines += res.ClearedRows
	c.events.Push(EventLinesCleared, LinesClearedEvent{
		Points: append([]physics.Vec(nil), res.ClearedPoints...),
		Bodies: len(res.Bodies),
		Score:  c.score,
	})
	c.log.Debug().
		Int("points", len(res.ClearedPoints)).
		Int("rows", res.ClearedRows).
		Int("bodies", len(res.Bodies)).
		Int("score", c.score).
		Msg("lines cleared")
	return nil
}

// PruneSystem drops pieces that fell below the level or lost every square.
// Pieces added during this tick are left for the next one.
type PruneSystem struct{}

func (PruneSystem) Update(c *Controller) error {
	type prune struct {
		piece  *Piece
		reason PruneReason
	}
	var doomed []prune
	for _, p := range c.pieces.All() {
		if p.born == c.tick {
			continue
		}
		switch {
		case len(p.Body.Shapes()) == 0:
			doomed = append(doomed, prune{p, PruneEmpty})
		case p.Body.Position().Y < c.spec.KillY:
			doomed = append(doomed, prune{p, PruneFellOut})
		}
	}

	for _, d := range doomed {
		id := d.piece.ID()
		switch d.reason {
		case PruneEmpty:
			c.stats.Anomalies++
			c.log.Warn().Uint64("body", uint64(id)).Uint64("tick", c.tick).Msg("pruned piece with no shapes left")
		case PruneFellOut:
			c.stats.Fallen++
		}
		if c.active == d.piece {
			c.dropActive()
		}
		c.pieces.Remove(id)
		d.piece.Body.Destroy()
		c.events.Push(EventPiecePruned, PiecePrunedEvent{ID: id, Reason: d.reason})
	}
	return nil
}

// ProgressSystem moves to the next level once its target score is reached.
// The last level plays on indefinitely.
type ProgressSystem struct{}

func (ProgressSystem) Update(c *Controller) error {
	if c.score < c.Level().TargetScore || c.levelIdx+1 >= len(c.levels) {
		return nil
	}
	from := c.levelIdx
	c.levelIdx++
	if err := c.loadLevel(); err != nil {
		return err
	}
	c.events.Push(EventLevelAdvanced, LevelAdvancedEvent{From: from, To: c.levelIdx, Score: c.score})
	c.log.Info().
		Str("level", c.Level().Name).
		Int("score", c.score).
		Msg("level advanced")
	return nil
}
