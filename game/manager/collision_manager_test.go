package manager

import (
	"testing"

	"snake-arcade/game/types"
)

func TestInBounds(t *testing.T) {
	g := NewGridSpace(18)
	tests := []struct {
		cell types.Cell
		want bool
	}{
		{types.Cell{X: 1, Y: 1}, true},
		{types.Cell{X: 18, Y: 18}, true},
		{types.Cell{X: 9, Y: 9}, true},
		{types.Cell{X: 0, Y: 5}, false},
		{types.Cell{X: 5, Y: 0}, false},
		{types.Cell{X: 19, Y: 9}, false},
		{types.Cell{X: 9, Y: 19}, false},
	}
	for _, tt := range tests {
		if got := g.InBounds(tt.cell); got != tt.want {
			t.Errorf("InBounds(%v) = %v, want %v", tt.cell, got, tt.want)
		}
	}
}

func TestIsOccupied(t *testing.T) {
	g := NewGridSpace(18)
	snake := []types.Cell{{X: 3, Y: 3}, {X: 3, Y: 4}}
	food := []types.Cell{{X: 7, Y: 7}}

	if !g.IsOccupied(types.Cell{X: 3, Y: 4}, snake, food) {
		t.Error("snake cell reported free")
	}
	if !g.IsOccupied(types.Cell{X: 7, Y: 7}, snake, food) {
		t.Error("food cell reported free")
	}
	if g.IsOccupied(types.Cell{X: 8, Y: 8}, snake, food) {
		t.Error("free cell reported occupied")
	}
	if g.IsOccupied(types.Cell{X: 3, Y: 3}) {
		t.Error("no sets should mean nothing is occupied")
	}
}

func TestCollide(t *testing.T) {
	g := NewGridSpace(18)
	body := []types.Cell{{X: 5, Y: 5}, {X: 4, Y: 5}, {X: 3, Y: 5}}

	tests := []struct {
		name string
		pos  types.Cell
		want types.CollisionType
	}{
		{"free", types.Cell{X: 6, Y: 5}, types.NoCollision},
		{"wall", types.Cell{X: 19, Y: 5}, types.WallCollision},
		{"body", types.Cell{X: 4, Y: 5}, types.SelfCollision},
		{"tail is still occupied", types.Cell{X: 3, Y: 5}, types.SelfCollision},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.Collide(tt.pos, body); got != tt.want {
				t.Errorf("Collide(%v) = %v, want %v", tt.pos, got, tt.want)
			}
		})
	}
}

func TestCenter(t *testing.T) {
	g := NewGridSpace(18)
	if c := g.Center(); c != (types.Cell{X: 9, Y: 9}) {
		t.Errorf("center = %v, want (9,9)", c)
	}
	if g.Cells() != 324 {
		t.Errorf("cells = %d, want 324", g.Cells())
	}
}
