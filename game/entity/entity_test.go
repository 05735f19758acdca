package entity

import (
	"testing"

	"snake-arcade/game/types"
)

func TestSnakeMoveAndTrim(t *testing.T) {
	s := NewSnake(types.Cell{X: 5, Y: 5})
	s.Move(types.Cell{X: 6, Y: 5})
	s.Move(types.Cell{X: 7, Y: 5})

	if s.Len() != 3 || s.GetHead() != (types.Cell{X: 7, Y: 5}) || s.Body[2] != (types.Cell{X: 5, Y: 5}) {
		t.Fatalf("body = %v", s.Body)
	}
	s.RemoveTail()
	if s.Len() != 2 || s.Body[1] != (types.Cell{X: 6, Y: 5}) {
		t.Fatalf("tail not removed: %v", s.Body)
	}

	cells := s.Cells()
	cells[0] = types.Cell{}
	if s.GetHead() != (types.Cell{X: 7, Y: 5}) {
		t.Fatal("Cells leaked the backing array")
	}
}

func TestFoodCategory(t *testing.T) {
	for v, want := range map[int]string{FoodSmall: "small", FoodMid: "mid", FoodBig: "big"} {
		if got := NewFood(types.Cell{X: 1, Y: 1}, v).Category(); got != want {
			t.Errorf("value %d category %q, want %q", v, got, want)
		}
	}
	a, b := NewFood(types.Cell{X: 1, Y: 1}, 1), NewFood(types.Cell{X: 1, Y: 1}, 1)
	if a.ID == b.ID {
		t.Error("foods share an id")
	}
}
