package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMaterial = Material{Density: 1, Friction: 0.5, Restitution: 0.1}

func newBox(t *testing.T, s *Space, x, y float64, boxes ...Box) Body {
	t.Helper()
	b, err := s.CreateBody(BodyDef{Kind: Dynamic, Position: Vec{X: x, Y: y}, AllowSleep: true})
	require.NoError(t, err)
	if len(boxes) == 0 {
		boxes = []Box{{HalfW: 10, HalfH: 10}}
	}
	require.NoError(t, b.AttachBoxes(boxes, testMaterial))
	return b
}

func newGround(t *testing.T, s *Space) Body {
	t.Helper()
	g, err := s.CreateBody(BodyDef{Kind: Static})
	require.NoError(t, err)
	require.NoError(t, g.AttachChain([]Vec{{X: -500, Y: 0}, {X: 1500, Y: 0}}, false, testMaterial))
	return g
}

func TestSpaceBodyFalls(t *testing.T) {
	s := NewSpace()
	b := newBox(t, s, 100, 300)

	for i := 0; i < 30; i++ {
		s.Step()
	}

	assert.Less(t, b.Position().Y, 300.0)
	assert.Less(t, b.Velocity().Y, 0.0)
	assert.False(t, b.Collided())
}

func TestSpaceContactOnLanding(t *testing.T) {
	s := NewSpace()
	newGround(t, s)
	b := newBox(t, s, 100, 40)

	touched := false
	for i := 0; i < 180 && !touched; i++ {
		s.Step()
		touched = b.Collided()
	}
	assert.True(t, touched, "box should land on the ground")
	assert.Greater(t, b.Position().Y, 0.0)
}

func TestSpaceCreateBodyCarriesVelocity(t *testing.T) {
	s := NewSpace()
	b, err := s.CreateBody(BodyDef{
		Kind:            Dynamic,
		Position:        Vec{X: 10, Y: 20},
		Velocity:        Vec{X: 30, Y: -40},
		AngularVelocity: 90,
	})
	require.NoError(t, err)
	require.NoError(t, b.AttachBoxes([]Box{{HalfW: 10, HalfH: 10}}, testMaterial))

	assert.InDelta(t, 10, b.Position().X, 1e-9)
	assert.InDelta(t, 20, b.Position().Y, 1e-9)
	assert.InDelta(t, 30, b.Velocity().X, 1e-9)
	assert.InDelta(t, -40, b.Velocity().Y, 1e-9)
	assert.InDelta(t, 90, b.AngularVelocity(), 1e-9)
}

func TestSpaceShapesAreLocal(t *testing.T) {
	s := NewSpace()
	boxes := []Box{
		{X: -20, Y: 0, HalfW: 10, HalfH: 10},
		{X: 0, Y: 0, HalfW: 10, HalfH: 10},
		{X: 20, Y: 0, HalfW: 10, HalfH: 10},
		{X: 0, Y: 20, HalfW: 10, HalfH: 10},
	}
	b := newBox(t, s, 400, 400, boxes...)

	shapes := b.Shapes()
	require.Len(t, shapes, 4)
	for i, box := range boxes {
		assert.Equal(t, ShapeInfo{X: box.X, Y: box.Y, HalfW: box.HalfW, HalfH: box.HalfH}, shapes[i])
	}
	// Shifting the center of gravity must not move the origin.
	assert.InDelta(t, 400, b.Position().X, 1e-9)
	assert.InDelta(t, 400, b.Position().Y, 1e-9)
}

func TestSpaceAttachErrors(t *testing.T) {
	s := NewSpace()
	b, err := s.CreateBody(BodyDef{Kind: Dynamic})
	require.NoError(t, err)

	assert.ErrorIs(t, b.AttachBoxes([]Box{{HalfW: 0, HalfH: 5}}, testMaterial), ErrInvalidShape)
	assert.ErrorIs(t, b.AttachChain([]Vec{{X: 1, Y: 1}}, false, testMaterial), ErrInvalidShape)

	b.Destroy()
	assert.ErrorIs(t, b.AttachBoxes([]Box{{HalfW: 5, HalfH: 5}}, testMaterial), ErrBodyDestroyed)
}

func TestSpaceDestroy(t *testing.T) {
	s := NewSpace()
	b := newBox(t, s, 0, 100)
	require.Equal(t, 1, s.BodyCount())

	b.Destroy()
	b.Destroy()

	assert.True(t, b.Destroyed())
	assert.Empty(t, b.Shapes())
	assert.False(t, b.Collided())
	assert.Equal(t, 0, s.BodyCount())
}

func TestSpaceClose(t *testing.T) {
	s := NewSpace()
	newGround(t, s)
	newBox(t, s, 0, 100)

	s.Close()

	assert.Equal(t, 0, s.BodyCount())
	_, err := s.CreateBody(BodyDef{Kind: Dynamic})
	assert.ErrorIs(t, err, ErrWorldClosed)
	assert.True(t, s.Raycast(RowQuery{X1: -100, X2: 100, Y: 100}).Empty())
}

func TestSpaceApplyImpulseForVelocity(t *testing.T) {
	s := NewSpace()
	b := newBox(t, s, 0, 100)

	b.ApplyImpulseForVelocity(64, -12)

	assert.InDelta(t, 64, b.Velocity().X, 1e-6)
	assert.InDelta(t, -12, b.Velocity().Y, 1e-6)
}

func TestSpaceRotateIsCapped(t *testing.T) {
	s := NewSpace()
	b := newBox(t, s, 0, 100)

	b.Rotate(90)
	assert.InDelta(t, maxRotateStep, b.AngularVelocity(), 1e-6)

	b.Rotate(-90)
	b.Rotate(-90)
	assert.InDelta(t, -maxRotateStep, b.AngularVelocity(), 1e-6)
}

func TestSpaceRaycastClearsRow(t *testing.T) {
	s := NewSpace()
	var bodies []Body
	for i := 0; i < 8; i++ {
		bodies = append(bodies, newBox(t, s, 100+20*float64(i), 50))
	}
	other := newBox(t, s, 100, 200)

	res := s.Raycast(RowQuery{X1: 0, X2: 600, Y: 50})

	assert.Len(t, res.AllHits, 8)
	assert.Len(t, res.ClearedPoints, 8)
	assert.Len(t, res.BodiesToSplit, 8)
	for _, b := range bodies {
		assert.Empty(t, b.Shapes())
		assert.False(t, b.Destroyed())
	}
	assert.Len(t, other.Shapes(), 1)
}

func TestSpaceRaycastDedupesBodies(t *testing.T) {
	s := NewSpace()
	pair := []Box{
		{X: -10, Y: 0, HalfW: 10, HalfH: 10},
		{X: 10, Y: 0, HalfW: 10, HalfH: 10},
		{X: 0, Y: 20, HalfW: 10, HalfH: 10},
	}
	for i := 0; i < 4; i++ {
		newBox(t, s, 100+40*float64(i), 50, pair...)
	}

	res := s.Raycast(RowQuery{X1: 0, X2: 600, Y: 50})

	assert.Len(t, res.ClearedPoints, 8)
	require.Len(t, res.BodiesToSplit, 4)
	seen := map[BodyID]bool{}
	for _, b := range res.BodiesToSplit {
		assert.False(t, seen[b.ID()])
		seen[b.ID()] = true
		assert.Len(t, b.Shapes(), 1)
	}
}

func TestSpaceRaycastSparseRow(t *testing.T) {
	s := NewSpace()
	for i := 0; i < 5; i++ {
		newBox(t, s, 100+20*float64(i), 50)
	}

	res := s.Raycast(RowQuery{X1: 0, X2: 600, Y: 50})

	assert.Empty(t, res.ClearedPoints)
	assert.Empty(t, res.BodiesToSplit)
}
