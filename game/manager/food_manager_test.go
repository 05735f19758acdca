package manager

import (
	"errors"
	"math"
	"testing"

	"snake-arcade/game/entity"
	"snake-arcade/game/types"
)

func fullBoard(size int) []types.Cell {
	cells := make([]types.Cell, 0, size*size)
	for y := 1; y <= size; y++ {
		for x := 1; x <= size; x++ {
			cells = append(cells, types.Cell{X: x, Y: y})
		}
	}
	return cells
}

func TestPlaceAvoidsSnakeAndFood(t *testing.T) {
	grid := NewGridSpace(10)
	fm := NewFoodManager(grid, FoodConfig{Seed: 1})

	// leave exactly ten free cells in the bottom row
	snake := fullBoard(10)[:90]
	for i := 0; i < 10; i++ {
		f, err := fm.Place(1, snake)
		if err != nil {
			t.Fatalf("place %d: %v", i, err)
		}
		if f.Cell.Y != 10 {
			t.Fatalf("food placed on the snake at %v", f.Cell)
		}
	}

	seen := make(map[types.Cell]bool)
	for _, f := range fm.Foods() {
		if seen[f.Cell] {
			t.Fatalf("two foods share %v", f.Cell)
		}
		seen[f.Cell] = true
	}
}

func TestPlaceFailsOnFullBoard(t *testing.T) {
	grid := NewGridSpace(10)
	fm := NewFoodManager(grid, FoodConfig{Seed: 1})

	_, err := fm.Place(2, fullBoard(10))
	if !errors.Is(err, ErrPlacementFailure) {
		t.Fatalf("err = %v, want ErrPlacementFailure", err)
	}
	if fm.Len() != 0 {
		t.Fatalf("food list changed on failure: %+v", fm.Foods())
	}
}

func TestFullBoardSkipsSampling(t *testing.T) {
	full := NewFoodManager(NewGridSpace(10), FoodConfig{Seed: 3})
	fresh := NewFoodManager(NewGridSpace(10), FoodConfig{Seed: 3})

	if _, err := full.Place(1, fullBoard(10)); !errors.Is(err, ErrPlacementFailure) {
		t.Fatalf("err = %v, want ErrPlacementFailure", err)
	}
	// no random cells were drawn, so both generators are still in step
	for i := 0; i < 10; i++ {
		if a, b := full.DrawValue(), fresh.DrawValue(); a != b {
			t.Fatalf("draw %d: %d vs %d", i, a, b)
		}
	}
}

func TestAttemptBudgetFloor(t *testing.T) {
	fm := NewFoodManager(NewGridSpace(10), FoodConfig{MaxAttempts: 5})
	if fm.maxAttempts != MinPlacementAttempts {
		t.Fatalf("maxAttempts = %d, want %d", fm.maxAttempts, MinPlacementAttempts)
	}
}

func TestDrawValueDistribution(t *testing.T) {
	fm := NewFoodManager(NewGridSpace(18), FoodConfig{Seed: 99})
	const draws = 20000
	counts := map[int]int{}
	for i := 0; i < draws; i++ {
		counts[fm.DrawValue()]++
	}

	for _, w := range DefaultValueWeights {
		got := float64(counts[w.Value]) / draws
		if math.Abs(got-w.Weight) > 0.02 {
			t.Errorf("value %d frequency %.3f, want about %.2f", w.Value, got, w.Weight)
		}
	}
	if len(counts) != 3 {
		t.Errorf("unexpected values drawn: %v", counts)
	}
}

func TestCustomWeights(t *testing.T) {
	fm := NewFoodManager(NewGridSpace(18), FoodConfig{
		Seed:    5,
		Weights: ValueWeights{{Value: 3, Weight: 1}, {Value: 1, Weight: 0}},
	})
	for i := 0; i < 100; i++ {
		if v := fm.DrawValue(); v != 3 {
			t.Fatalf("drew %d with all weight on 3", v)
		}
	}
}

func TestConsume(t *testing.T) {
	fm := NewFoodManager(NewGridSpace(18), FoodConfig{Seed: 1})
	fm.AddFood(entity.NewFood(types.Cell{X: 2, Y: 3}, 2))
	fm.AddFood(entity.NewFood(types.Cell{X: 4, Y: 4}, 1))

	if _, ok := fm.Consume(types.Cell{X: 9, Y: 9}); ok {
		t.Fatal("consumed food from an empty cell")
	}
	f, ok := fm.Consume(types.Cell{X: 2, Y: 3})
	if !ok || f.Value != 2 {
		t.Fatalf("consume = %+v %v", f, ok)
	}
	if fm.Len() != 1 {
		t.Fatalf("len = %d, want 1", fm.Len())
	}
	if _, ok := fm.Consume(types.Cell{X: 2, Y: 3}); ok {
		t.Fatal("food consumed twice")
	}
}

func TestReplenish(t *testing.T) {
	fm := NewFoodManager(NewGridSpace(18), FoodConfig{Seed: 1})
	snake := []types.Cell{{X: 9, Y: 9}}

	if err := fm.Replenish(4, snake, 3); err != nil {
		t.Fatal(err)
	}
	foods := fm.Foods()
	if len(foods) != 4 {
		t.Fatalf("len = %d, want 4", len(foods))
	}
	if foods[0].Value != 3 {
		t.Errorf("first replacement value = %d, want 3", foods[0].Value)
	}

	ids := make(map[string]bool)
	for _, f := range foods {
		if ids[f.ID.String()] {
			t.Fatalf("duplicate id %s", f.ID)
		}
		ids[f.ID.String()] = true
	}

	// already full: nothing to do
	if err := fm.Replenish(4, snake, 1); err != nil || fm.Len() != 4 {
		t.Fatalf("replenish on a full list: len %d err %v", fm.Len(), err)
	}
}

func TestResetRefillsBoard(t *testing.T) {
	fm := NewFoodManager(NewGridSpace(18), FoodConfig{Seed: 1})
	fm.AddFood(entity.NewFood(types.Cell{X: 1, Y: 1}, 1))
	if err := fm.Reset(2, []types.Cell{{X: 9, Y: 9}}); err != nil {
		t.Fatal(err)
	}
	if fm.Len() != 2 {
		t.Fatalf("len = %d, want 2", fm.Len())
	}
}

func TestSeededPlacementIsReproducible(t *testing.T) {
	a := NewFoodManager(NewGridSpace(18), FoodConfig{Seed: 77})
	b := NewFoodManager(NewGridSpace(18), FoodConfig{Seed: 77})
	snake := []types.Cell{{X: 9, Y: 9}}
	a.Replenish(3, snake, 0)
	b.Replenish(3, snake, 0)

	fa, fb := a.Foods(), b.Foods()
	for i := range fa {
		if fa[i].Cell != fb[i].Cell || fa[i].Value != fb[i].Value {
			t.Fatalf("seeded managers diverged: %+v vs %+v", fa, fb)
		}
	}
}

func TestParseValueWeights(t *testing.T) {
	w, err := ParseValueWeights(DefaultValueWeights.String())
	if err != nil {
		t.Fatal(err)
	}
	if w.String() != "1:0.6,2:0.3,3:0.1" {
		t.Fatalf("weights = %v", w)
	}

	w, err = ParseValueWeights(" 3:2 , 1:0 ")
	if err != nil {
		t.Fatal(err)
	}
	fm := NewFoodManager(NewGridSpace(18), FoodConfig{Seed: 4, Weights: w})
	for i := 0; i < 50; i++ {
		if v := fm.DrawValue(); v != 3 {
			t.Fatalf("drew %d with all weight on 3", v)
		}
	}

	for _, bad := range []string{"", "0:1", "1:x", "2:-0.5", "2:1,2:1", "1:0,2:0"} {
		if _, err := ParseValueWeights(bad); err == nil {
			t.Errorf("accepted %q", bad)
		}
	}
}
