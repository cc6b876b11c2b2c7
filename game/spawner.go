package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/milk9111/rigidtris/common"
	"github.com/milk9111/rigidtris/physics"
	"github.com/milk9111/rigidtris/prefabs"
)

// Spawner creates new tetrominoes above the play area.
type Spawner struct {
	rng *rand.Rand
}

func NewSpawner(rng *rand.Rand) *Spawner {
	return &Spawner{rng: rng}
}

// Spawn picks a random archetype and quarter-turn, and creates its body at a
// jittered position near the top center of the screen. Allocation failures
// from the world are returned unchanged in meaning.
func (s *Spawner) Spawn(world physics.World, spec prefabs.GameSpec) (*Piece, error) {
	arch := Spawnable[s.rng.IntN(len(Spawnable))]
	jitter := spec.SpawnJitter * (2*s.rng.Float64() - 1)
	pos := physics.Vec{
		X: common.BaseWidth/2 + jitter,
		Y: common.BaseHeight - spec.SpawnHeightOffset,
	}
	angle := float64(90 * s.rng.IntN(4))

	body, err := world.CreateBody(physics.BodyDef{
		Kind:       physics.Dynamic,
		Position:   pos,
		AllowSleep: true,
	})
	if err != nil {
		return nil, fmt.Errorf("game: spawn %s: %w", arch, err)
	}
	if err := body.AttachBoxes(arch.Boxes(spec.SquareSize), materialFrom(spec)); err != nil {
		body.Destroy()
		return nil, fmt.Errorf("game: spawn %s: %w", arch, err)
	}
	body.SetAngle(angle)

	return &Piece{
		Body:      body,
		Archetype: arch,
		Color:     arch.Color(),
	}, nil
}

func materialFrom(spec prefabs.GameSpec) physics.Material {
	return physics.Material{
		Density:     spec.Material.Density,
		Friction:    spec.Material.Friction,
		Restitution: spec.Material.Restitution,
	}
}
