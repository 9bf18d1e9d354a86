package model

import (
	"fmt"
	"math"
)

const (
	// DefaultBoardSize is the side length of the standard square board.
	DefaultBoardSize = 100.0

	// MinComponentSpacing is the smallest center distance two components may
	// have. Anything closer is rejected at board construction so the tracer
	// never has to break a tie between overlapping components.
	MinComponentSpacing = 0.5
)

// Board is an immutable snapshot of a component arrangement. The propagation
// engine reads it for the duration of one pass; editors build a fresh board
// (or clone and modify) rather than mutating one in flight.
type Board struct {
	Width      float64
	Height     float64
	components []Component
	byID       map[string]Component
}

// NewBoard validates and snapshots a component arrangement. It rejects
// non-positive dimensions, duplicate IDs, out-of-bounds positions, and
// components closer together than MinComponentSpacing.
func NewBoard(width, height float64, components ...Component) (*Board, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("board dimensions must be positive, got %gx%g", width, height)
	}
	b := &Board{
		Width:  width,
		Height: height,
		byID:   make(map[string]Component, len(components)),
	}
	for _, c := range components {
		if c == nil {
			return nil, fmt.Errorf("nil component in board")
		}
		if c.ID() == "" {
			return nil, fmt.Errorf("component of kind %s has no id", c.Kind())
		}
		if _, dup := b.byID[c.ID()]; dup {
			return nil, fmt.Errorf("duplicate component id %q", c.ID())
		}
		p := c.Position()
		if p.X < 0 || p.X > width || p.Y < 0 || p.Y > height {
			return nil, fmt.Errorf("component %s out of bounds at (%.1f, %.1f)", c.ID(), p.X, p.Y)
		}
		for _, other := range b.components {
			if Distance(p, other.Position()) < MinComponentSpacing {
				return nil, fmt.Errorf("components %s and %s overlap at (%.1f, %.1f)", other.ID(), c.ID(), p.X, p.Y)
			}
		}
		b.components = append(b.components, c)
		b.byID[c.ID()] = c
	}
	return b, nil
}

// NewDefaultBoard returns an empty standard-size board.
func NewDefaultBoard() *Board {
	b, _ := NewBoard(DefaultBoardSize, DefaultBoardSize)
	return b
}

// Components returns the snapshot in declaration order. Callers must treat
// the slice and its elements as read-only.
func (b *Board) Components() []Component {
	return b.components
}

// Component looks a component up by ID.
func (b *Board) Component(id string) (Component, bool) {
	c, ok := b.byID[id]
	return c, ok
}

// Emitters returns every emitter on the board in declaration order.
func (b *Board) Emitters() []*Emitter {
	var out []*Emitter
	for _, c := range b.components {
		if e, ok := c.(*Emitter); ok {
			out = append(out, e)
		}
	}
	return out
}

// Detectors returns every sensor and coincidence counter on the board.
func (b *Board) Detectors() []Component {
	var out []Component
	for _, c := range b.components {
		switch c.Kind() {
		case KindSensor, KindCoincidenceCounter:
			out = append(out, c)
		}
	}
	return out
}

// Adjustables returns the unlocked components whose primary angle can be
// tuned, in declaration order.
func (b *Board) Adjustables() []Adjustable {
	var out []Adjustable
	for _, c := range b.components {
		if a, ok := c.(Adjustable); ok && !c.IsLocked() {
			out = append(out, a)
		}
	}
	return out
}

// Clone returns a deep copy whose components can be mutated without touching
// the original snapshot.
func (b *Board) Clone() *Board {
	clone := &Board{
		Width:      b.Width,
		Height:     b.Height,
		components: make([]Component, len(b.components)),
		byID:       make(map[string]Component, len(b.components)),
	}
	for i, c := range b.components {
		cc := c.Clone()
		clone.components[i] = cc
		clone.byID[cc.ID()] = cc
	}
	return clone
}

// Distance returns the Euclidean distance between two board points.
func Distance(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}
