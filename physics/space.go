package physics

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/kamstrup/intmap"
	"github.com/milk9111/rigidtris/common"
)

const (
	collisionTypePiece cp.CollisionType = iota + 1
	collisionTypeGround
)

const (
	categoryPiece  uint = 1 << 0
	categoryGround uint = 1 << 2
	categoryAll         = ^uint(0)

	noGroup uint = 0
)

const (
	linearDamping  = 0.2
	angularDamping = 0.6

	sleepTimeThreshold = 0.5
	spaceIterations    = 20
)

// Space is a World backed by a Chipmunk2D space.
type Space struct {
	space  *cp.Space
	step   float64
	nextID BodyID
	closed bool

	bodies *intmap.Map[BodyID, *rigidBody]
	shapes map[*cp.Shape]*shapeMeta
}

type shapeMeta struct {
	owner   *rigidBody
	box     Box
	density float64
	chain   bool
}

// NewSpace creates an empty Chipmunk world with the game's gravity.
func NewSpace() *Space {
	space := cp.NewSpace()
	space.Iterations = spaceIterations
	space.SetGravity(cp.Vector{X: 0, Y: common.Gravity})
	space.SleepTimeThreshold = sleepTimeThreshold

	s := &Space{
		space:  space,
		step:   common.FixedStep,
		bodies: intmap.New[BodyID, *rigidBody](64),
		shapes: make(map[*cp.Shape]*shapeMeta),
	}
	s.setupHandlers()
	return s
}

// BodyCount reports the number of live bodies.
func (s *Space) BodyCount() int {
	if s == nil {
		return 0
	}
	return s.bodies.Len()
}

// Close destroys every body. The space cannot be used afterwards.
func (s *Space) Close() {
	if s == nil || s.closed {
		return
	}
	owners := make(map[*rigidBody]struct{})
	for _, meta := range s.shapes {
		owners[meta.owner] = struct{}{}
	}
	for b := range owners {
		b.Destroy()
	}
	s.closed = true
}

func (s *Space) CreateBody(def BodyDef) (Body, error) {
	if s == nil || s.space == nil || s.closed {
		return nil, fmt.Errorf("physics: create body: %w", ErrWorldClosed)
	}

	var cpBody *cp.Body
	switch def.Kind {
	case Static:
		cpBody = cp.NewStaticBody()
	case Dynamic:
		// Mass and moment are set once shapes are attached.
		cpBody = cp.NewBody(1, 1)
		cpBody.SetVelocityUpdateFunc(dampedVelocityUpdate)
	default:
		return nil, fmt.Errorf("physics: create body: unknown kind %d", def.Kind)
	}
	cpBody.SetPosition(cp.Vector{X: def.Position.X, Y: def.Position.Y})

	s.nextID++
	b := &rigidBody{
		id:         s.nextID,
		kind:       def.Kind,
		world:      s,
		body:       cpBody,
		allowSleep: def.AllowSleep,
	}
	if def.Kind == Dynamic {
		cpBody.SetVelocity(def.Velocity.X, def.Velocity.Y)
		cpBody.SetAngularVelocity(common.DegToRad(def.AngularVelocity))
	}
	s.space.AddBody(cpBody)
	s.bodies.Put(b.id, b)
	return b, nil
}

// Step advances the space by one fixed step. Contact flags are cleared
// first so Collided reflects only this step.
func (s *Space) Step() {
	if s == nil || s.space == nil || s.closed {
		return
	}
	for _, meta := range s.shapes {
		meta.owner.touching = false
		if meta.owner.kind == Dynamic && !meta.owner.allowSleep {
			meta.owner.body.Activate()
		}
	}
	s.space.Step(s.step)
}

// Draw renders the space with a Chipmunk debug drawer.
func (s *Space) Draw(drawer cp.Drawer) {
	if s == nil || s.space == nil || drawer == nil {
		return
	}
	cp.DrawSpace(s.space, drawer)
}

func (s *Space) setupHandlers() {
	touch := func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*Space)
		if !ok || world == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		if meta, ok := world.shapes[shapeA]; ok {
			meta.owner.touching = true
		}
		if meta, ok := world.shapes[shapeB]; ok {
			meta.owner.touching = true
		}
		return true
	}

	pieceGround := s.space.NewCollisionHandler(collisionTypePiece, collisionTypeGround)
	pieceGround.UserData = s
	pieceGround.PreSolveFunc = touch

	piecePiece := s.space.NewCollisionHandler(collisionTypePiece, collisionTypePiece)
	piecePiece.UserData = s
	piecePiece.PreSolveFunc = touch
}

func (s *Space) removeShape(shape *cp.Shape) {
	if s == nil || shape == nil {
		return
	}
	if _, ok := s.shapes[shape]; !ok {
		return
	}
	if s.space != nil {
		s.space.RemoveShape(shape)
	}
	delete(s.shapes, shape)
}

func dampedVelocityUpdate(body *cp.Body, gravity cp.Vector, damping float64, dt float64) {
	cp.BodyUpdateVelocity(body, gravity, damping, dt)
	v := body.Velocity()
	lin := 1.0 / (1.0 + dt*linearDamping)
	body.SetVelocity(v.X*lin, v.Y*lin)
	body.SetAngularVelocity(body.AngularVelocity() / (1.0 + dt*angularDamping))
}

func pieceFilter() cp.ShapeFilter {
	return cp.NewShapeFilter(noGroup, categoryPiece, categoryPiece|categoryGround)
}

func groundFilter() cp.ShapeFilter {
	return cp.NewShapeFilter(noGroup, categoryGround, categoryPiece)
}

func rayFilter() cp.ShapeFilter {
	return cp.NewShapeFilter(noGroup, categoryAll, categoryPiece)
}
