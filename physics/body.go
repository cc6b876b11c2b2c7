package physics

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/rigidtris/common"
)

// maxRotateStep limits how far Rotate may push the angular velocity per call.
const maxRotateStep = 5.0

type rigidBody struct {
	id         BodyID
	kind       BodyKind
	world      *Space
	body       *cp.Body
	allowSleep bool

	shapes    []*cp.Shape
	touching  bool
	destroyed bool
}

func (b *rigidBody) ID() BodyID     { return b.id }
func (b *rigidBody) Kind() BodyKind { return b.kind }

func (b *rigidBody) Position() Vec {
	if b.destroyed {
		return Vec{}
	}
	p := b.body.Position()
	return Vec{X: p.X, Y: p.Y}
}

func (b *rigidBody) Angle() float64 {
	if b.destroyed {
		return 0
	}
	return common.RadToDeg(b.body.Angle())
}

func (b *rigidBody) SetAngle(deg float64) {
	if b.destroyed {
		return
	}
	b.body.SetAngle(common.DegToRad(deg))
}

func (b *rigidBody) Velocity() Vec {
	if b.destroyed {
		return Vec{}
	}
	v := b.body.Velocity()
	return Vec{X: v.X, Y: v.Y}
}

func (b *rigidBody) AngularVelocity() float64 {
	if b.destroyed {
		return 0
	}
	return common.RadToDeg(b.body.AngularVelocity())
}

func (b *rigidBody) Shapes() []ShapeInfo {
	if b.destroyed || b.world == nil {
		return nil
	}
	out := make([]ShapeInfo, 0, len(b.shapes))
	for _, shape := range b.shapes {
		meta, ok := b.world.shapes[shape]
		if !ok || meta.chain {
			continue
		}
		out = append(out, ShapeInfo{X: meta.box.X, Y: meta.box.Y, HalfW: meta.box.HalfW, HalfH: meta.box.HalfH})
	}
	return out
}

func (b *rigidBody) Collided() bool { return !b.destroyed && b.touching }

func (b *rigidBody) Awake() bool {
	if b.destroyed || b.kind == Static {
		return false
	}
	return !b.body.IsSleeping()
}

// AttachBoxes adds one box shape per entry. Chipmunk derives mass, moment
// and center of gravity from the full set of boxes on the body.
func (b *rigidBody) AttachBoxes(boxes []Box, mat Material) error {
	if b.destroyed {
		return fmt.Errorf("physics: attach boxes: %w", ErrBodyDestroyed)
	}
	for _, box := range boxes {
		if box.HalfW <= 0 || box.HalfH <= 0 {
			return fmt.Errorf("physics: attach boxes: %w: half extents %.2fx%.2f", ErrInvalidShape, box.HalfW, box.HalfH)
		}
	}

	for _, box := range boxes {
		bb := cp.BB{
			L: box.X - box.HalfW,
			B: box.Y - box.HalfH,
			R: box.X + box.HalfW,
			T: box.Y + box.HalfH,
		}
		shape := cp.NewBox2(b.body, bb, 0)
		shape.SetFriction(mat.Friction)
		shape.SetElasticity(mat.Restitution)
		shape.SetCollisionType(collisionTypePiece)
		shape.SetFilter(pieceFilter())

		meta := &shapeMeta{owner: b, box: box, density: mat.Density}
		b.world.space.AddShape(shape)
		if b.kind == Dynamic {
			shape.SetMass(meta.mass())
		}
		b.world.shapes[shape] = meta
		b.shapes = append(b.shapes, shape)
	}
	return nil
}

// AttachChain adds a segment between each pair of consecutive points, plus
// a closing segment when loop is set.
func (b *rigidBody) AttachChain(points []Vec, loop bool, mat Material) error {
	if b.destroyed {
		return fmt.Errorf("physics: attach chain: %w", ErrBodyDestroyed)
	}
	if len(points) < 2 {
		return fmt.Errorf("physics: attach chain: %w: %d points", ErrInvalidShape, len(points))
	}

	n := len(points) - 1
	if loop && len(points) > 2 {
		n = len(points)
	}
	for i := 0; i < n; i++ {
		a := points[i]
		c := points[(i+1)%len(points)]
		shape := cp.NewSegment(b.body, cp.Vector{X: a.X, Y: a.Y}, cp.Vector{X: c.X, Y: c.Y}, 0)
		shape.SetFriction(mat.Friction)
		shape.SetElasticity(mat.Restitution)
		shape.SetCollisionType(collisionTypeGround)
		shape.SetFilter(groundFilter())

		b.world.space.AddShape(shape)
		b.world.shapes[shape] = &shapeMeta{owner: b, chain: true}
		b.shapes = append(b.shapes, shape)
	}
	return nil
}

// ApplyImpulseForVelocity applies the impulse that would bring the body to
// the target velocity in one step.
func (b *rigidBody) ApplyImpulseForVelocity(vx, vy float64) {
	if b.destroyed || b.kind != Dynamic {
		return
	}
	v := b.body.Velocity()
	m := b.body.Mass()
	b.applyImpulse(cp.Vector{X: m * (vx - v.X), Y: m * (vy - v.Y)})
}

func (b *rigidBody) ApplyImpulse(ix, iy float64) {
	if b.destroyed || b.kind != Dynamic {
		return
	}
	b.applyImpulse(cp.Vector{X: ix, Y: iy})
}

// applyImpulse applies j at the center of gravity.
func (b *rigidBody) applyImpulse(j cp.Vector) {
	m := b.body.Mass()
	if m <= 0 {
		return
	}
	b.body.Activate()
	v := b.body.Velocity().Add(j.Mult(1 / m))
	b.body.SetVelocity(v.X, v.Y)
}

// Rotate steers the body towards angle+deg. The change in angular velocity
// is capped per call so a held key turns the piece smoothly.
func (b *rigidBody) Rotate(deg float64) {
	if b.destroyed || b.kind != Dynamic {
		return
	}
	angle := b.body.Angle()
	w := b.body.AngularVelocity()
	next := angle + w*common.FixedStep
	total := angle + common.DegToRad(deg) - next
	for total < -math.Pi {
		total += 2 * math.Pi
	}
	for total > math.Pi {
		total -= 2 * math.Pi
	}
	limit := common.DegToRad(maxRotateStep)
	desired := common.Clamp(total/common.FixedStep, -limit, limit)

	b.body.Activate()
	b.body.SetAngularVelocity(w + desired)
}

func (b *rigidBody) Destroy() {
	if b.destroyed {
		return
	}
	b.destroyed = true
	if b.world == nil {
		return
	}
	for _, shape := range b.shapes {
		b.world.removeShape(shape)
	}
	b.shapes = nil
	if b.world.space != nil {
		b.world.space.RemoveBody(b.body)
	}
	b.world.bodies.Del(b.id)
}

func (b *rigidBody) Destroyed() bool { return b.destroyed }

// detach removes one shape from the body without destroying it.
func (b *rigidBody) detach(shape *cp.Shape) {
	for i, s := range b.shapes {
		if s == shape {
			b.shapes = append(b.shapes[:i], b.shapes[i+1:]...)
			break
		}
	}
	b.world.removeShape(shape)
	b.updateMass()
}

// updateMass keeps a body with no boxes left simulable. Chipmunk leaves it
// with zero mass otherwise.
func (b *rigidBody) updateMass() {
	if b.kind != Dynamic || b.body.Mass() > 0 {
		return
	}
	b.body.SetMass(1)
	b.body.SetMoment(1)
}

// mass is per square meter so pieces weigh about the same as in a
// meter-scaled world.
func (m *shapeMeta) mass() float64 {
	density := m.density
	if density <= 0 {
		density = 1
	}
	area := (2 * m.box.HalfW) * (2 * m.box.HalfH)
	return density * area / (common.PixelsPerMeter * common.PixelsPerMeter)
}
