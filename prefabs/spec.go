package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	GameSpecFile    = "game.yaml"
	PaletteSpecFile = "palette.yaml"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type MaterialSpec struct {
	Density     float64 `yaml:"density"`
	Friction    float64 `yaml:"friction"`
	Restitution float64 `yaml:"restitution"`
}

// GameSpec holds every gameplay tunable of the lifecycle engine.
type GameSpec struct {
	LockDelayFrames           int          `yaml:"lock_delay_frames"`
	SpawnDelayFrames          int          `yaml:"spawn_delay_frames"`
	SpawnCollisionCheckFrames int          `yaml:"spawn_collision_check_frames"`
	NumRays                   int          `yaml:"num_rays"`
	VerticalTolerance         float64      `yaml:"vertical_tolerance"`
	HorizontalTolerance       float64      `yaml:"horizontal_tolerance"`
	KillY                     float64      `yaml:"kill_y"`
	SquareSize                float64      `yaml:"square_size"`
	SpawnJitter               float64      `yaml:"spawn_jitter"`
	SpawnHeightOffset         float64      `yaml:"spawn_height_offset"`
	ControlSpeed              float64      `yaml:"control_speed"`
	FallSpeed                 float64      `yaml:"fall_speed"`
	LockImpulse               float64      `yaml:"lock_impulse"`
	RotateStep                float64      `yaml:"rotate_step"`
	Material                  MaterialSpec `yaml:"material"`
}

func DefaultGameSpec() GameSpec {
	return GameSpec{
		LockDelayFrames:           8,
		SpawnDelayFrames:          45,
		SpawnCollisionCheckFrames: 2,
		NumRays:                   20,
		VerticalTolerance:         6,
		HorizontalTolerance:       32 * 1.2,
		KillY:                     -100,
		SquareSize:                20,
		SpawnJitter:               50,
		SpawnHeightOffset:         100,
		ControlSpeed:              10,
		FallSpeed:                 2.4,
		LockImpulse:               -20,
		RotateStep:                90,
		Material: MaterialSpec{
			Density:     1,
			Friction:    0.5,
			Restitution: 0.1,
		},
	}
}

// LoadGameSpec reads game.yaml on top of the defaults and clamps the result.
// The names of clamped fields are returned with it.
func LoadGameSpec() (GameSpec, []string, error) {
	spec := DefaultGameSpec()
	data, err := Load(GameSpecFile)
	if err != nil {
		return spec, nil, fmt.Errorf("prefabs: load %s: %w", GameSpecFile, err)
	}
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return DefaultGameSpec(), nil, fmt.Errorf("prefabs: unmarshal %s: %w", GameSpecFile, err)
	}
	spec, clamped := spec.Clamp()
	return spec, clamped, nil
}

// Clamp forces every field into its valid range. Out-of-range values are
// never rejected; the names of the fields that changed are reported.
func (s GameSpec) Clamp() (GameSpec, []string) {
	var changed []string
	ci := func(name string, v *int, lo, hi int) {
		if *v < lo {
			*v = lo
			changed = append(changed, name)
		} else if *v > hi {
			*v = hi
			changed = append(changed, name)
		}
	}
	cf := func(name string, v *float64, lo, hi float64) {
		if *v < lo {
			*v = lo
			changed = append(changed, name)
		} else if *v > hi {
			*v = hi
			changed = append(changed, name)
		}
	}

	ci("lock_delay_frames", &s.LockDelayFrames, 1, 120)
	ci("spawn_delay_frames", &s.SpawnDelayFrames, 0, 600)
	ci("spawn_collision_check_frames", &s.SpawnCollisionCheckFrames, 1, 60)
	ci("num_rays", &s.NumRays, 1, 200)
	cf("vertical_tolerance", &s.VerticalTolerance, 0.1, 100)
	cf("horizontal_tolerance", &s.HorizontalTolerance, 1, 500)
	cf("kill_y", &s.KillY, -10000, 0)
	cf("square_size", &s.SquareSize, 4, 128)
	cf("spawn_jitter", &s.SpawnJitter, 0, 600)
	cf("spawn_height_offset", &s.SpawnHeightOffset, 0, 720)
	cf("control_speed", &s.ControlSpeed, 0, 100)
	cf("fall_speed", &s.FallSpeed, 0, 100)
	cf("lock_impulse", &s.LockImpulse, -1000, 0)
	cf("rotate_step", &s.RotateStep, 0, 180)
	cf("material.density", &s.Material.Density, 0.01, 100)
	cf("material.friction", &s.Material.Friction, 0, 2)
	cf("material.restitution", &s.Material.Restitution, 0, 1)

	return s, changed
}

// PaletteSpec holds the colors used by the renderer.
type PaletteSpec struct {
	Background *YAMLColor            `yaml:"background"`
	Terrain    *YAMLColor            `yaml:"terrain"`
	HUD        *YAMLColor            `yaml:"hud"`
	Flash      *YAMLColor            `yaml:"flash"`
	Pieces     map[string]*YAMLColor `yaml:"pieces"`
}

func LoadPaletteSpec() (*PaletteSpec, error) {
	spec, err := LoadSpec[PaletteSpec](PaletteSpecFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// Piece returns the color for a piece color tag, or fallback when the
// palette does not name it.
func (p *PaletteSpec) Piece(name string, fallback color.Color) color.Color {
	if p == nil {
		return fallback
	}
	if c, ok := p.Pieces[name]; ok && c != nil && c.Color != nil {
		return c.Color
	}
	return fallback
}

// Or returns the wrapped color, or fallback when unset.
func (c *YAMLColor) Or(fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
