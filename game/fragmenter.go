package game

import (
	"fmt"

	"github.com/milk9111/rigidtris/common"
	"github.com/milk9111/rigidtris/physics"
)

// BodyFragmenter breaks a partially cleared piece into one free body per
// remaining square so the stack above a cleared row tumbles instead of
// hanging in place.
type BodyFragmenter struct{}

// Fragment replaces piece in pieces with its fragments. Each fragment starts
// at its square's world position with the original body's angle and
// velocities. The original body is destroyed. A piece with no squares left
// is only destroyed and removed. On error the piece is left as it was and no
// fragment survives in the world.
func (BodyFragmenter) Fragment(world physics.World, pieces *Pieces, piece *Piece, mat physics.Material, tick uint64) ([]*Piece, error) {
	body := piece.Body
	pos := body.Position()
	angle := body.Angle()
	vel := body.Velocity()
	spin := body.AngularVelocity()

	var fragments []*Piece
	for _, shape := range body.Shapes() {
		x, y := common.LocalToWorld(pos.X, pos.Y, angle, shape.X, shape.Y)
		frag, err := world.CreateBody(physics.BodyDef{
			Kind:            physics.Dynamic,
			Position:        physics.Vec{X: x, Y: y},
			AllowSleep:      true,
			Velocity:        vel,
			AngularVelocity: spin,
		})
		if err != nil {
			destroyPieces(fragments)
			return nil, fmt.Errorf("game: fragment body %d: %w", body.ID(), err)
		}
		box := physics.Box{HalfW: shape.HalfW, HalfH: shape.HalfH}
		if err := frag.AttachBoxes([]physics.Box{box}, mat); err != nil {
			frag.Destroy()
			destroyPieces(fragments)
			return nil, fmt.Errorf("game: fragment body %d: %w", body.ID(), err)
		}
		frag.SetAngle(angle)

		fragments = append(fragments, &Piece{
			Body:      frag,
			Archetype: piece.Archetype,
			Color:     piece.Color,
			Fragment:  true,
			born:      tick,
		})
	}

	body.Destroy()
	pieces.Remove(body.ID())
	for _, f := range fragments {
		pieces.Add(f)
	}
	return fragments, nil
}

func destroyPieces(pieces []*Piece) {
	for _, p := range pieces {
		p.Body.Destroy()
	}
}
