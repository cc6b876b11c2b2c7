package game

import (
	"image/color"

	"github.com/milk9111/rigidtris/physics"
)

// Archetype is one of the fixed tetromino shapes.
type Archetype int

const (
	ArchetypeT Archetype = iota
	ArchetypeO
	ArchetypeL
	ArchetypeJ
	ArchetypeI
	ArchetypeS
	ArchetypeZ
)

// Spawnable lists the archetypes the spawner picks from, in draw order.
var Spawnable = [...]Archetype{ArchetypeT, ArchetypeO, ArchetypeL, ArchetypeJ, ArchetypeI}

func (a Archetype) String() string {
	switch a {
	case ArchetypeT:
		return "T"
	case ArchetypeO:
		return "O"
	case ArchetypeL:
		return "L"
	case ArchetypeJ:
		return "J"
	case ArchetypeI:
		return "I"
	case ArchetypeS:
		return "S"
	case ArchetypeZ:
		return "Z"
	default:
		return "?"
	}
}

// shapeTable builds the unit squares of each archetype, as offsets from the
// body origin for a given square size. Adding an archetype means adding a
// constant and an entry here.
var shapeTable = map[Archetype]func(size float64) []physics.Box{
	ArchetypeT: func(s float64) []physics.Box {
		return []physics.Box{square(0, 0, s), square(-s, 0, s), square(s, 0, s), square(0, s, s)}
	},
	ArchetypeO: func(s float64) []physics.Box {
		h := s / 2
		return []physics.Box{square(-h, -h, s), square(h, -h, s), square(-h, h, s), square(h, h, s)}
	},
	ArchetypeL: func(s float64) []physics.Box {
		return []physics.Box{square(-s, 0, s), square(0, 0, s), square(s, 0, s), square(s, s, s)}
	},
	ArchetypeJ: func(s float64) []physics.Box {
		return []physics.Box{square(-s, 0, s), square(s, 0, s), square(-s, s, s), square(0, 0, s)}
	},
	ArchetypeI: func(s float64) []physics.Box {
		h := s / 2
		return []physics.Box{square(0, -h-s, s), square(0, h+s, s), square(0, h, s), square(0, -h, s)}
	},
	ArchetypeS: func(s float64) []physics.Box {
		return []physics.Box{square(0, 0, s), square(-s, 0, s), square(0, s, s), square(s, s, s)}
	},
	ArchetypeZ: func(s float64) []physics.Box {
		return []physics.Box{square(0, 0, s), square(s, 0, s), square(0, s, s), square(-s, s, s)}
	},
}

// Boxes returns the archetype's squares for the given square size, or nil
// for an unknown archetype.
func (a Archetype) Boxes(size float64) []physics.Box {
	build, ok := shapeTable[a]
	if !ok {
		return nil
	}
	return build(size)
}

func square(x, y, size float64) physics.Box {
	return physics.Box{X: x, Y: y, HalfW: size / 2, HalfH: size / 2}
}

// Color tags a piece for rendering.
type Color int

const (
	Violet Color = iota
	Orange
	Blue
	Green
	Yellow
	Red
)

var archetypeColors = map[Archetype]Color{
	ArchetypeT: Violet,
	ArchetypeO: Orange,
	ArchetypeL: Blue,
	ArchetypeJ: Green,
	ArchetypeI: Yellow,
	ArchetypeS: Red,
	ArchetypeZ: Red,
}

var pastel = map[Color]color.NRGBA{
	Violet: {R: 200, G: 160, B: 220, A: 120},
	Yellow: {R: 253, G: 253, B: 150, A: 120},
	Orange: {R: 255, G: 204, B: 153, A: 120},
	Blue:   {R: 173, G: 216, B: 230, A: 120},
	Red:    {R: 255, G: 153, B: 153, A: 120},
	Green:  {R: 153, G: 255, B: 153, A: 120},
}

// Color returns the color paired with the archetype.
func (a Archetype) Color() Color {
	return archetypeColors[a]
}

func (c Color) String() string {
	switch c {
	case Violet:
		return "violet"
	case Orange:
		return "orange"
	case Blue:
		return "blue"
	case Green:
		return "green"
	case Yellow:
		return "yellow"
	case Red:
		return "red"
	default:
		return "unknown"
	}
}

// RGBA returns the translucent pastel tint used for the color.
func (c Color) RGBA() color.NRGBA {
	if p, ok := pastel[c]; ok {
		return p
	}
	return color.NRGBA{R: 255, G: 255, B: 255, A: 120}
}
