// Package physics is the rigid-body collaborator used by the game core. The
// core only sees the World and Body interfaces; Space is the Chipmunk2D
// implementation used by the hosts.
package physics

import "errors"

var (
	ErrBodyDestroyed = errors.New("physics: body destroyed")
	ErrInvalidShape  = errors.New("physics: invalid shape")
	ErrWorldClosed   = errors.New("physics: world closed")
)

// Vec is a point or vector in world units. The y axis points up.
type Vec struct {
	X float64
	Y float64
}

// BodyID identifies a body for the lifetime of its World. IDs are never reused.
type BodyID uint64

type BodyKind int

const (
	Static BodyKind = iota
	Dynamic
)

func (k BodyKind) String() string {
	switch k {
	case Static:
		return "static"
	case Dynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

// BodyDef describes a body to create. AngularVelocity is in degrees per second.
type BodyDef struct {
	Kind            BodyKind
	Position        Vec
	AllowSleep      bool
	Velocity        Vec
	AngularVelocity float64
}

type Material struct {
	Density     float64
	Friction    float64
	Restitution float64
}

// Box is an axis-aligned box in body-local coordinates.
type Box struct {
	X     float64
	Y     float64
	HalfW float64
	HalfH float64
}

// ShapeInfo describes one remaining sub-shape of a body: its local offset
// from the body origin and its half extents.
type ShapeInfo struct {
	X     float64
	Y     float64
	HalfW float64
	HalfH float64
}

// RowQuery is a horizontal scan from (X1, Y) to (X2, Y).
type RowQuery struct {
	X1                  float64
	X2                  float64
	Y                   float64
	MinHits             int
	VerticalTolerance   float64
	HorizontalTolerance float64
}

// RowResult is the classification of one scanned row. BodiesToSplit holds
// each affected body once.
type RowResult struct {
	AllHits       []Vec
	ClearedPoints []Vec
	BodiesToSplit []Body
}

// Empty reports whether the row produced no hits at all.
func (r RowResult) Empty() bool {
	return len(r.AllHits) == 0 && len(r.ClearedPoints) == 0 && len(r.BodiesToSplit) == 0
}

// World is the simulation seen by the game core.
type World interface {
	CreateBody(def BodyDef) (Body, error)
	// Step advances the simulation by one fixed timestep.
	Step()
	// Raycast classifies a horizontal row. It is a command as well as a
	// query: shapes that form a dense enough band are removed from their
	// bodies before it returns, and the result is the only record of what
	// was removed.
	Raycast(q RowQuery) RowResult
}

// Body is a rigid body owned by a World. Angles are in degrees.
type Body interface {
	ID() BodyID
	Kind() BodyKind
	Position() Vec
	Angle() float64
	SetAngle(deg float64)
	Velocity() Vec
	AngularVelocity() float64
	Shapes() []ShapeInfo
	// Collided reports whether the body touched terrain or another piece
	// during the most recent step.
	Collided() bool
	Awake() bool

	AttachBoxes(boxes []Box, mat Material) error
	AttachChain(points []Vec, loop bool, mat Material) error

	ApplyImpulseForVelocity(vx, vy float64)
	ApplyImpulse(ix, iy float64)
	Rotate(deg float64)

	Destroy()
	Destroyed() bool
}
