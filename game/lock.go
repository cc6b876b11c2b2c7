package game

// LockController freezes the active piece once it has touched the ground or
// the stack for LockDelayFrames consecutive ticks, counts down to the next
// spawn, and ends the run when a new piece has no room to appear.
type LockController struct{}

func (l *LockController) Update(c *Controller) error {
	spec := c.spec
	cnt := &c.counters
	spawned := false

	switch {
	case c.active != nil:
		switch {
		case c.controls.Release:
			c.lockActive(true)
		case c.active.Body.Collided():
			cnt.TouchingFrames++
			if cnt.TouchingFrames >= spec.LockDelayFrames {
				// A small push down keeps the piece from drifting sideways
				// after control ends.
				c.active.Body.ApplyImpulse(0, spec.LockImpulse)
				c.lockActive(false)
			}
		default:
			cnt.TouchingFrames = 0
		}
	case cnt.PendingSpawn.Tick():
		piece, err := c.spawner.Spawn(c.world, spec)
		if err != nil {
			return err
		}
		c.addPiece(piece)
		c.active = piece
		spawned = true
		cnt.TouchingFrames = 0
		cnt.LastSpawned = piece.ID()
		cnt.SpawnCollisionCheckFrames = spec.SpawnCollisionCheckFrames
		c.stats.Spawns++
		c.events.Push(EventPieceSpawned, PieceSpawnedEvent{
			ID:        piece.ID(),
			Archetype: piece.Archetype,
			Color:     piece.Color,
			Position:  piece.Body.Position(),
		})
		c.log.Debug().
			Uint64("body", uint64(piece.ID())).
			Str("archetype", piece.Archetype.String()).
			Float64("angle", piece.Body.Angle()).
			Msg("piece spawned")
	}

	// A new body reports contact only after it has been stepped, so the
	// window starts on the tick after the spawn.
	if !spawned && cnt.SpawnCollisionCheckFrames > 0 && cnt.LastSpawned != 0 {
		if p, ok := c.pieces.Get(cnt.LastSpawned); ok && p.Body.Collided() {
			c.gameOver()
			return nil
		}
		cnt.SpawnCollisionCheckFrames--
		if cnt.SpawnCollisionCheckFrames == 0 {
			cnt.LastSpawned = 0
		}
	}
	return nil
}

// lockActive ends player control of the active piece and arms the next spawn.
func (c *Controller) lockActive(released bool) {
	id := c.active.ID()
	c.stats.Locks++
	c.events.Push(EventPieceLocked, PieceLockedEvent{ID: id, Released: released})
	c.log.Debug().
		Uint64("body", uint64(id)).
		Bool("released", released).
		Uint64("tick", c.tick).
		Msg("piece locked")
	c.dropActive()
}

// dropActive clears the active piece, for whatever reason, and arms the next
// spawn.
func (c *Controller) dropActive() {
	c.active = nil
	c.counters.TouchingFrames = 0
	c.counters.PendingSpawn = Scheduled(c.spec.SpawnDelayFrames)
}
