package game

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/milk9111/rigidtris/levels"
	"github.com/milk9111/rigidtris/physics"
	"github.com/milk9111/rigidtris/prefabs"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var errAlloc = errors.New("fake: out of bodies")

// fakeWorld is a scripted physics.World. Bodies never move on their own;
// tests set positions, contact flags and row results directly.
type fakeWorld struct {
	nextID     physics.BodyID
	bodies     []*fakeBody
	steps      int
	queries    []physics.RowQuery
	raycast    func(q physics.RowQuery) physics.RowResult
	failCreate bool
	// maxBodies, when non-zero, makes CreateBody fail once that many bodies
	// exist.
	maxBodies int
	closed     bool
	// spawnContact makes every dynamic body report contact after each step,
	// the way a body overlapping the stack does.
	spawnContact bool
}

func (w *fakeWorld) CreateBody(def physics.BodyDef) (physics.Body, error) {
	if w.failCreate || (w.maxBodies > 0 && len(w.bodies) >= w.maxBodies) {
		return nil, errAlloc
	}
	w.nextID++
	b := &fakeBody{
		id:     w.nextID,
		kind:   def.Kind,
		pos:    def.Position,
		vel:    def.Velocity,
		angVel: def.AngularVelocity,
		sleepy: def.AllowSleep,
	}
	w.bodies = append(w.bodies, b)
	return b, nil
}

func (w *fakeWorld) Step() {
	w.steps++
	if !w.spawnContact {
		return
	}
	for _, b := range w.bodies {
		if b.kind == physics.Dynamic {
			b.collided = true
		}
	}
}

func (w *fakeWorld) Raycast(q physics.RowQuery) physics.RowResult {
	w.queries = append(w.queries, q)
	if w.raycast == nil {
		return physics.RowResult{}
	}
	return w.raycast(q)
}

func (w *fakeWorld) Close() { w.closed = true }

func (w *fakeWorld) dynamicCount() int {
	n := 0
	for _, b := range w.bodies {
		if b.kind == physics.Dynamic {
			n++
		}
	}
	return n
}

type fakeBody struct {
	id       physics.BodyID
	kind     physics.BodyKind
	pos      physics.Vec
	angle    float64
	vel      physics.Vec
	angVel   float64
	sleepy   bool
	shapes   []physics.ShapeInfo
	chain    []physics.Vec
	collided bool

	destroyCalls int
	impulses     []physics.Vec
	velTargets   []physics.Vec
	rotations    []float64
}

func (b *fakeBody) ID() physics.BodyID { return b.id }
func (b *fakeBody) Kind() physics.BodyKind { return b.kind }
func (b *fakeBody) Position() physics.Vec { return b.pos }
func (b *fakeBody) Angle() float64 { return b.angle }
func (b *fakeBody) SetAngle(deg float64) { b.angle = deg }
func (b *fakeBody) Velocity() physics.Vec { return b.vel }
func (b *fakeBody) AngularVelocity() float64 { return b.angVel }
func (b *fakeBody) Collided() bool { return b.collided && !b.Destroyed() }
func (b *fakeBody) Awake() bool { return !b.Destroyed() }
func (b *fakeBody) Destroyed() bool { return b.destroyCalls > 0 }
func (b *fakeBody) Rotate(deg float64) { b.rotations = append(b.rotations, deg) }
func (b *fakeBody) ApplyImpulse(ix, iy float64) { b.impulses = append(b.impulses, physics.Vec{X: ix, Y: iy}) }

func (b *fakeBody) ApplyImpulseForVelocity(vx, vy float64) {
	b.velTargets = append(b.velTargets, physics.Vec{X: vx, Y: vy})
}

func (b *fakeBody) Shapes() []physics.ShapeInfo {
	if b.Destroyed() {
		return nil
	}
	return append([]physics.ShapeInfo(nil), b.shapes...)
}

func (b *fakeBody) AttachBoxes(boxes []physics.Box, mat physics.Material) error {
	for _, box := range boxes {
		if box.HalfW <= 0 || box.HalfH <= 0 {
			return physics.ErrInvalidShape
		}
		b.shapes = append(b.shapes, physics.ShapeInfo{X: box.X, Y: box.Y, HalfW: box.HalfW, HalfH: box.HalfH})
	}
	return nil
}

func (b *fakeBody) AttachChain(points []physics.Vec, loop bool, mat physics.Material) error {
	if len(points) < 2 {
		return physics.ErrInvalidShape
	}
	b.chain = append(b.chain, points...)
	return nil
}

func (b *fakeBody) Destroy() { b.destroyCalls++ }

func testLevel(name string, target, minBlocks int) *levels.Level {
	return &levels.Level{
		Name:          name,
		TargetScore:   target,
		LineMinBlocks: minBlocks,
		TerrainPoints: []levels.Point{{X: 200, Y: 820}, {X: 200, Y: 100}, {X: 1080, Y: 100}, {X: 1080, Y: 820}},
		ScanArea:      levels.Rect{X: 200, Y: 100, W: 880, H: 500},
	}
}

type harness struct {
	c      *Controller
	worlds []*fakeWorld
}

func (h *harness) world() *fakeWorld { return h.worlds[len(h.worlds)-1] }

func newHarness(t *testing.T, spec prefabs.GameSpec, lvls ...*levels.Level) *harness {
	t.Helper()
	if len(lvls) == 0 {
		lvls = []*levels.Level{testLevel("test", 1000, 6)}
	}
	h := &harness{}
	logger := zerolog.Nop()
	c, err := NewController(Options{
		NewWorld: func() physics.World {
			w := &fakeWorld{}
			h.worlds = append(h.worlds, w)
			return w
		},
		Levels: lvls,
		Spec:   spec,
		Rand:   rand.New(rand.NewPCG(1, 2)),
		Logger: &logger,
	})
	require.NoError(t, err)
	h.c = c
	return h
}

func (h *harness) tick(t *testing.T, ctl Controls) {
	t.Helper()
	require.NoError(t, h.c.Tick(ctl))
}

func (h *harness) ticks(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		h.tick(t, Controls{})
	}
}

func (h *harness) activeBody(t *testing.T) *fakeBody {
	t.Helper()
	a := h.c.Active()
	require.NotNil(t, a, "expected an active piece")
	return a.Body.(*fakeBody)
}
