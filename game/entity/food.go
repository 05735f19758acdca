package entity

import (
	"snake-arcade/game/types"

	"github.com/google/uuid"
)

// Food value categories, used by renderers to pick a visual
const (
	FoodSmall = 1
	FoodMid   = 2
	FoodBig   = 3
)

// Food is a consumable item on the board
type Food struct {
	ID    uuid.UUID
	Cell  types.Cell
	Value int
}

func NewFood(cell types.Cell, value int) Food {
	return Food{
		ID:    uuid.New(),
		Cell:  cell,
		Value: value,
	}
}

// Category names the visual bucket of the food value
func (f Food) Category() string {
	switch f.Value {
	case FoodSmall:
		return "small"
	case FoodMid:
		return "mid"
	default:
		return "big"
	}
}

// FoodCells extracts the occupied cells of a food list
func FoodCells(foods []Food) []types.Cell {
	cells := make([]types.Cell, len(foods))
	for i, f := range foods {
		cells[i] = f.Cell
	}
	return cells
}
