package game

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/milk9111/rigidtris/levels"
	"github.com/milk9111/rigidtris/physics"
	"github.com/milk9111/rigidtris/prefabs"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSpaceController runs a controller on a real Chipmunk space and returns
// the space of its current level.
func newSpaceController(t *testing.T, spec prefabs.GameSpec) (*Controller, *physics.Space) {
	t.Helper()
	var space *physics.Space
	logger := zerolog.Nop()
	c, err := NewController(Options{
		NewWorld: func() physics.World {
			space = physics.NewSpace()
			return space
		},
		Levels: []*levels.Level{testLevel("test", 1000, 6)},
		Spec:   spec,
		Rand:   rand.New(rand.NewPCG(1, 2)),
		Logger: &logger,
	})
	require.NoError(t, err)
	return c, space
}

func TestBlockedSpawnEndsGame(t *testing.T) {
	for _, window := range []int{1, 2, 3} {
		t.Run(fmt.Sprintf("window_%d", window), func(t *testing.T) {
			spec := prefabs.DefaultGameSpec()
			spec.SpawnCollisionCheckFrames = window
			c, space := newSpaceController(t, spec)

			block, err := space.CreateBody(physics.BodyDef{
				Kind:     physics.Static,
				Position: physics.Vec{X: 640, Y: 620},
			})
			require.NoError(t, err)
			require.NoError(t, block.AttachBoxes([]physics.Box{{HalfW: 200, HalfH: 100}}, materialFrom(spec)))

			require.NoError(t, c.Tick(Controls{}))
			require.NotNil(t, c.Active())
			assert.Equal(t, Playing, c.State(), "the spawn tick has not stepped the piece yet")

			require.NoError(t, c.Tick(Controls{}))
			assert.Equal(t, GameOver, c.State())
			assert.Equal(t, 1, c.Stats().GameOvers)
		})
	}
}

func TestOpenSpawnKeepsPlaying(t *testing.T) {
	c, _ := newSpaceController(t, prefabs.DefaultGameSpec())
	for i := 0; i < 5; i++ {
		require.NoError(t, c.Tick(Controls{}))
	}
	assert.Equal(t, Playing, c.State())
	assert.Equal(t, 0, c.Stats().GameOvers)
	assert.Equal(t, 0, c.Counters().SpawnCollisionCheckFrames)
}
