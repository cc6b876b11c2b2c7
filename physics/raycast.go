package physics

import (
	"cmp"
	"math"
	"slices"

	"github.com/jakecoffman/cp"
	"github.com/kamstrup/intmap"
	"github.com/milk9111/rigidtris/common"
)

const (
	// maxRowHits caps how many shapes a single row scan considers.
	maxRowHits = 50

	DefaultMinHits             = 6
	DefaultVerticalTolerance   = 6.0
	DefaultHorizontalTolerance = 32.0 * 1.2
)

// settledSpeed is the fastest a body may move and still count towards a
// cleared row, in world units per second.
const settledSpeed = 0.01 * common.PixelsPerMeter

// rowHit is one shape crossed by a row scan.
type rowHit struct {
	pos   Vec
	speed float64
	body  BodyID
	shape *cp.Shape
}

// Raycast scans the row from (X1, Y) to (X2, Y). Shapes forming the largest
// dense, settled run are removed from their bodies before it returns; the
// result is the only record of that removal.
func (s *Space) Raycast(q RowQuery) RowResult {
	if s == nil || s.space == nil || s.closed {
		return RowResult{}
	}
	q = withRowDefaults(q)

	hits := make([]rowHit, 0, maxRowHits)
	start := cp.Vector{X: q.X1, Y: q.Y}
	end := cp.Vector{X: q.X2, Y: q.Y}
	s.space.SegmentQuery(start, end, 0, rayFilter(), func(shape *cp.Shape, point, normal cp.Vector, alpha float64, data interface{}) {
		if len(hits) >= maxRowHits {
			return
		}
		meta, ok := s.shapes[shape]
		if !ok || meta.chain || meta.owner.destroyed {
			return
		}
		owner := meta.owner
		pos := owner.Position()
		x, y := common.LocalToWorld(pos.X, pos.Y, owner.Angle(), meta.box.X, meta.box.Y)
		v := owner.Velocity()
		hits = append(hits, rowHit{
			pos:   Vec{X: x, Y: y},
			speed: cp.Vector{X: v.X, Y: v.Y}.Length(),
			body:  owner.id,
			shape: shape,
		})
	}, nil)

	allHits, cleared := classifyRow(hits, q)
	result := RowResult{AllHits: allHits}
	if len(cleared) == 0 {
		return result
	}

	// The space is locked during the query, so removal happens afterwards.
	seen := intmap.New[BodyID, struct{}](len(cleared))
	for _, hit := range cleared {
		result.ClearedPoints = append(result.ClearedPoints, hit.pos)
		meta, ok := s.shapes[hit.shape]
		if !ok {
			continue
		}
		owner := meta.owner
		owner.detach(hit.shape)
		if _, dup := seen.Get(owner.id); dup {
			continue
		}
		seen.Put(owner.id, struct{}{})
		result.BodiesToSplit = append(result.BodiesToSplit, owner)
	}
	return result
}

func withRowDefaults(q RowQuery) RowQuery {
	if q.MinHits <= 0 {
		q.MinHits = DefaultMinHits
	}
	if q.VerticalTolerance <= 0 {
		q.VerticalTolerance = DefaultVerticalTolerance
	}
	if q.HorizontalTolerance <= 0 {
		q.HorizontalTolerance = DefaultHorizontalTolerance
	}
	return q
}

// classifyRow picks the hits that make up a cleared row. allHits holds the
// centroid of every settled hit; cleared is the largest run of settled hits
// that share a height and sit close together, or nil if that run is shorter
// than q.MinHits.
func classifyRow(hits []rowHit, q RowQuery) (allHits []Vec, cleared []rowHit) {
	if len(hits) < q.MinHits {
		return nil, nil
	}

	candidates := make([]rowHit, 0, len(hits))
	var totalY float64
	for _, hit := range hits {
		if hit.speed > settledSpeed {
			continue
		}
		allHits = append(allHits, hit.pos)
		candidates = append(candidates, hit)
		totalY += hit.pos.Y
	}
	if len(candidates) < q.MinHits {
		return allHits, nil
	}

	avgY := totalY / float64(len(candidates))
	aligned := candidates[:0:0]
	for _, hit := range candidates {
		if math.Abs(hit.pos.Y-avgY) < q.VerticalTolerance {
			aligned = append(aligned, hit)
		}
	}
	if len(aligned) < q.MinHits {
		return allHits, nil
	}

	slices.SortStableFunc(aligned, func(a, b rowHit) int {
		return cmp.Compare(a.pos.X, b.pos.X)
	})

	bestStart, bestLen, groupStart := 0, 0, 0
	for i := 1; i <= len(aligned); i++ {
		if i == len(aligned) || aligned[i].pos.X-aligned[i-1].pos.X > q.HorizontalTolerance {
			if n := i - groupStart; n > bestLen {
				bestStart, bestLen = groupStart, n
			}
			groupStart = i
		}
	}
	if bestLen < q.MinHits {
		return allHits, nil
	}
	return allHits, aligned[bestStart : bestStart+bestLen]
}
