package game

import (
	"github.com/kamstrup/intmap"
	"github.com/milk9111/rigidtris/levels"
	"github.com/milk9111/rigidtris/physics"
	"github.com/milk9111/rigidtris/prefabs"
)

// ScanResult is the aggregate of one tick's row scans. It is rebuilt every
// tick and only kept for scoring, effects and the debug overlay.
type ScanResult struct {
	// Rows holds the height of every issued scan row.
	Rows          []float64
	AllHits       []physics.Vec
	ClearedPoints []physics.Vec
	// ClearedRows counts the rows that contributed cleared points.
	ClearedRows int
	// Bodies holds every body hit by a cleared row, once.
	Bodies []physics.Body
}

// LineScanner fans horizontal row scans across a level's scan area.
type LineScanner struct{}

// Scan runs every row before anything is fragmented, so a body crossing
// several cleared rows loses all of their squares and is split once.
func (LineScanner) Scan(world physics.World, area levels.Rect, minHits int, spec prefabs.GameSpec) ScanResult {
	n := spec.NumRays
	res := ScanResult{Rows: make([]float64, 0, n)}
	seen := intmap.New[physics.BodyID, struct{}](16)

	for i := 0; i < n; i++ {
		y := area.RowY(i, n)
		res.Rows = append(res.Rows, y)

		row := world.Raycast(physics.RowQuery{
			X1:                  area.X,
			X2:                  area.X + area.W,
			Y:                   y,
			MinHits:             minHits,
			VerticalTolerance:   spec.VerticalTolerance,
			HorizontalTolerance: spec.HorizontalTolerance,
		})
		if row.Empty() {
			continue
		}

		res.AllHits = append(res.AllHits, row.AllHits...)
		if len(row.ClearedPoints) > 0 {
			res.ClearedRows++
			res.ClearedPoints = append(res.ClearedPoints, row.ClearedPoints...)
		}
		for _, body := range row.BodiesToSplit {
			if body == nil {
				continue
			}
			if _, ok := seen.Get(body.ID()); ok {
				continue
			}
			seen.Put(body.ID(), struct{}{})
			res.Bodies = append(res.Bodies, body)
		}
	}
	return res
}
