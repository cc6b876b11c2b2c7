// Package levels holds the static level data: terrain outline, scan area,
// target score and the minimum run length for a line clear.
package levels

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed *.yaml
var LevelsFS embed.FS

// DefaultLineMinBlocks is used when a level does not set line_min_blocks.
const DefaultLineMinBlocks = 6

var (
	ErrNotFound = errors.New("levels: not found")
	ErrInvalid  = errors.New("levels: invalid level")
)

type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type Rect struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

type Level struct {
	Name          string  `yaml:"name"`
	TargetScore   int     `yaml:"target_score"`
	LineMinBlocks int     `yaml:"line_min_blocks"`
	TerrainPoints []Point `yaml:"terrain_points"`
	ScanArea      Rect    `yaml:"scan_area"`
}

// Load reads a level by file name. A copy under levels/ on disk takes
// precedence over the embedded one.
func Load(name string) (*Level, error) {
	clean := cleanLevelPath(name)
	data, err := os.ReadFile(diskLevelPath(clean))
	if err != nil {
		data, err = LevelsFS.ReadFile(clean)
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("levels: load %s: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("levels: load %s: %w", name, err)
	}
	return Parse(clean, data)
}

// Parse decodes and validates one level document.
func Parse(name string, data []byte) (*Level, error) {
	var lvl Level
	if err := yaml.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("levels: unmarshal %s: %w", name, err)
	}
	if lvl.LineMinBlocks <= 0 {
		lvl.LineMinBlocks = DefaultLineMinBlocks
	}
	if err := lvl.Validate(); err != nil {
		return nil, fmt.Errorf("levels: %s: %w", name, err)
	}
	return &lvl, nil
}

// Names lists the embedded level files in play order.
func Names() ([]string, error) {
	names, err := fs.Glob(LevelsFS, "*.yaml")
	if err != nil {
		return nil, fmt.Errorf("levels: list: %w", err)
	}
	slices.Sort(names)
	return names, nil
}

// Index returns the play-order position of the named level file.
func Index(name string) (int, error) {
	names, err := Names()
	if err != nil {
		return -1, err
	}
	i := slices.Index(names, cleanLevelPath(name))
	if i < 0 {
		return -1, fmt.Errorf("levels: index %s: %w", name, ErrNotFound)
	}
	return i, nil
}

// All loads every level in play order.
func All() ([]*Level, error) {
	names, err := Names()
	if err != nil {
		return nil, err
	}
	out := make([]*Level, 0, len(names))
	for _, name := range names {
		lvl, err := Load(name)
		if err != nil {
			return nil, err
		}
		out = append(out, lvl)
	}
	return out, nil
}

func (l *Level) Validate() error {
	switch {
	case l == nil:
		return fmt.Errorf("%w: nil", ErrInvalid)
	case strings.TrimSpace(l.Name) == "":
		return fmt.Errorf("%w: missing name", ErrInvalid)
	case l.TargetScore <= 0:
		return fmt.Errorf("%w: target_score must be positive", ErrInvalid)
	case len(l.TerrainPoints) < 2:
		return fmt.Errorf("%w: terrain needs at least 2 points, got %d", ErrInvalid, len(l.TerrainPoints))
	case l.ScanArea.W <= 0 || l.ScanArea.H <= 0:
		return fmt.Errorf("%w: scan area %.0fx%.0f", ErrInvalid, l.ScanArea.W, l.ScanArea.H)
	}
	return nil
}

// RowY returns the height of scan row i out of n.
func (r Rect) RowY(i, n int) float64 {
	if n <= 0 {
		return r.Y
	}
	return r.Y + (r.H/float64(n))*float64(i)
}

func cleanLevelPath(path string) string {
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "levels/"); ok {
		s = after
	}
	if filepath.Ext(s) == "" {
		s += ".yaml"
	}
	return s
}

func diskLevelPath(clean string) string {
	return filepath.Join("levels", filepath.FromSlash(clean))
}
