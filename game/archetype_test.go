package game

import (
	"math/rand/v2"
	"testing"

	"github.com/milk9111/rigidtris/physics"
	"github.com/milk9111/rigidtris/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchetypeBoxes(t *testing.T) {
	for _, a := range []Archetype{ArchetypeT, ArchetypeO, ArchetypeL, ArchetypeJ, ArchetypeI, ArchetypeS, ArchetypeZ} {
		t.Run(a.String(), func(t *testing.T) {
			boxes := a.Boxes(20)
			require.Len(t, boxes, 4)
			seen := map[physics.Vec]bool{}
			for _, b := range boxes {
				assert.Equal(t, 10.0, b.HalfW)
				assert.Equal(t, 10.0, b.HalfH)
				at := physics.Vec{X: b.X, Y: b.Y}
				assert.False(t, seen[at], "overlapping square at %v", at)
				seen[at] = true
			}
		})
	}
	assert.Nil(t, Archetype(42).Boxes(20))
}

func TestArchetypeOffsets(t *testing.T) {
	centers := func(boxes []physics.Box) []physics.Vec {
		out := make([]physics.Vec, len(boxes))
		for i, b := range boxes {
			out[i] = physics.Vec{X: b.X, Y: b.Y}
		}
		return out
	}
	assert.Equal(t, []physics.Vec{{X: 0, Y: 0}, {X: -20, Y: 0}, {X: 20, Y: 0}, {X: 0, Y: 20}}, centers(ArchetypeT.Boxes(20)))
	assert.Equal(t, []physics.Vec{{X: 0, Y: -30}, {X: 0, Y: 30}, {X: 0, Y: 10}, {X: 0, Y: -10}}, centers(ArchetypeI.Boxes(20)))
	assert.Equal(t, []physics.Vec{{X: -10, Y: -10}, {X: 10, Y: -10}, {X: -10, Y: 10}, {X: 10, Y: 10}}, centers(ArchetypeO.Boxes(20)))
}

func TestArchetypeColors(t *testing.T) {
	assert.Equal(t, Violet, ArchetypeT.Color())
	assert.Equal(t, Orange, ArchetypeO.Color())
	assert.Equal(t, Blue, ArchetypeL.Color())
	assert.Equal(t, Green, ArchetypeJ.Color())
	assert.Equal(t, Yellow, ArchetypeI.Color())
	assert.Equal(t, Red, ArchetypeS.Color())
	assert.Equal(t, Red, ArchetypeZ.Color())

	assert.Equal(t, uint8(120), Violet.RGBA().A)
	assert.Equal(t, "violet", Violet.String())
	assert.Equal(t, "?", Archetype(42).String())
}

func TestSpawnerPlacesPieces(t *testing.T) {
	w := &fakeWorld{}
	spec := prefabs.DefaultGameSpec()
	s := NewSpawner(rand.New(rand.NewPCG(3, 4)))

	seen := map[Archetype]bool{}
	for i := 0; i < 200; i++ {
		p, err := s.Spawn(w, spec)
		require.NoError(t, err)
		b := p.Body.(*fakeBody)

		assert.Contains(t, Spawnable[:], p.Archetype)
		assert.Equal(t, p.Archetype.Color(), p.Color)
		assert.False(t, p.Fragment)
		assert.True(t, b.sleepy)
		assert.Equal(t, physics.Dynamic, b.kind)
		assert.Len(t, b.shapes, 4)
		assert.InDelta(t, 640, b.pos.X, 50)
		assert.Equal(t, 620.0, b.pos.Y)
		assert.Contains(t, []float64{0, 90, 180, 270}, b.angle)
		seen[p.Archetype] = true
	}
	assert.Len(t, seen, len(Spawnable))
}

func TestSpawnerAllocationFailure(t *testing.T) {
	w := &fakeWorld{failCreate: true}
	s := NewSpawner(rand.New(rand.NewPCG(3, 4)))

	_, err := s.Spawn(w, prefabs.DefaultGameSpec())

	assert.ErrorIs(t, err, errAlloc)
}
