package manager

import (
	"snake-arcade/game/types"
)

// GridSpace holds the board bounds and answers occupancy questions.
// It keeps no state besides the grid size.
type GridSpace struct {
	size int
}

func NewGridSpace(size int) *GridSpace {
	return &GridSpace{size: size}
}

func (g *GridSpace) Size() int {
	return g.size
}

// Cells returns the number of cells on the board
func (g *GridSpace) Cells() int {
	return g.size * g.size
}

// Center returns the starting cell for a fresh snake
func (g *GridSpace) Center() types.Cell {
	return types.Cell{X: g.size / 2, Y: g.size / 2}
}

// InBounds reports whether 1 <= x,y <= size
func (g *GridSpace) InBounds(c types.Cell) bool {
	return c.X >= 1 && c.X <= g.size && c.Y >= 1 && c.Y <= g.size
}

// IsOccupied reports whether c appears in any of the supplied sets.
// Linear scans are fine at this board size.
func (g *GridSpace) IsOccupied(c types.Cell, sets ...[]types.Cell) bool {
	for _, set := range sets {
		for _, p := range set {
			if p == c {
				return true
			}
		}
	}
	return false
}

// Collide classifies a candidate head against the walls and the body.
// body must be the snake as it is before the move.
func (g *GridSpace) Collide(pos types.Cell, body []types.Cell) types.CollisionType {
	if !g.InBounds(pos) {
		return types.WallCollision
	}
	if g.IsOccupied(pos, body) {
		return types.SelfCollision
	}
	return types.NoCollision
}
