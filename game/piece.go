package game

import (
	"github.com/kamstrup/intmap"
	"github.com/milk9111/rigidtris/physics"
)

// Piece is one tracked body: a spawned tetromino or a fragment of one.
type Piece struct {
	Body      physics.Body
	Archetype Archetype
	Color     Color
	Fragment  bool

	// born is the tick the piece entered the collection.
	born uint64
}

func (p *Piece) ID() physics.BodyID {
	if p == nil || p.Body == nil {
		return 0
	}
	return p.Body.ID()
}

// Pieces is the insertion-ordered collection of every tracked piece, active
// or settled, indexed by body id.
type Pieces struct {
	items []*Piece
	index *intmap.Map[physics.BodyID, int]
}

func NewPieces() *Pieces {
	return &Pieces{index: intmap.New[physics.BodyID, int](64)}
}

// Add appends a piece. A piece whose body is already tracked is ignored.
func (ps *Pieces) Add(p *Piece) bool {
	if p == nil || p.Body == nil {
		return false
	}
	id := p.ID()
	if _, ok := ps.index.Get(id); ok {
		return false
	}
	ps.index.Put(id, len(ps.items))
	ps.items = append(ps.items, p)
	return true
}

func (ps *Pieces) Get(id physics.BodyID) (*Piece, bool) {
	i, ok := ps.index.Get(id)
	if !ok {
		return nil, false
	}
	return ps.items[i], true
}

func (ps *Pieces) Contains(id physics.BodyID) bool {
	_, ok := ps.index.Get(id)
	return ok
}

// Remove drops a piece while keeping the order of the rest.
func (ps *Pieces) Remove(id physics.BodyID) bool {
	i, ok := ps.index.Get(id)
	if !ok {
		return false
	}
	ps.index.Del(id)
	copy(ps.items[i:], ps.items[i+1:])
	ps.items[len(ps.items)-1] = nil
	ps.items = ps.items[:len(ps.items)-1]
	for j := i; j < len(ps.items); j++ {
		ps.index.Put(ps.items[j].ID(), j)
	}
	return true
}

func (ps *Pieces) Len() int { return len(ps.items) }

// All returns a snapshot safe to iterate while the collection changes.
func (ps *Pieces) All() []*Piece {
	out := make([]*Piece, len(ps.items))
	copy(out, ps.items)
	return out
}

func (ps *Pieces) Clear() {
	ps.items = nil
	ps.index = intmap.New[physics.BodyID, int](64)
}
