package manager

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"snake-arcade/game/entity"
	"snake-arcade/game/types"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
)

// MinPlacementAttempts is the floor for the rejection-sampling budget
const MinPlacementAttempts = 300

// ErrPlacementFailure is returned when no free cell was found within the attempt budget
var ErrPlacementFailure = errors.New("food placement failed")

// ValueWeight is one entry of the food value distribution
type ValueWeight struct {
	Value  int
	Weight float64
}

// ValueWeights is the weighted policy used to pick a food value
type ValueWeights []ValueWeight

// DefaultValueWeights gives 60% value 1, 30% value 2, 10% value 3
var DefaultValueWeights = ValueWeights{
	{Value: entity.FoodSmall, Weight: 0.6},
	{Value: entity.FoodMid, Weight: 0.3},
	{Value: entity.FoodBig, Weight: 0.1},
}

func (w ValueWeights) total() float64 {
	var sum float64
	for _, v := range w {
		if v.Weight > 0 {
			sum += v.Weight
		}
	}
	return sum
}

// String renders the weights as value:weight pairs, the format ParseValueWeights reads
func (w ValueWeights) String() string {
	parts := make([]string, len(w))
	for i, v := range w {
		parts[i] = fmt.Sprintf("%d:%g", v.Value, v.Weight)
	}
	return strings.Join(parts, ",")
}

// ParseValueWeights reads a list such as "1:0.6,2:0.3,3:0.1". Values must be
// food values, weights must not be negative and at least one must be positive.
func ParseValueWeights(s string) (ValueWeights, error) {
	var weights ValueWeights
	seen := make(map[int]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, w, ok := strings.Cut(part, ":")
		if !ok {
			return nil, errors.Errorf("food weight %q: want value:weight", part)
		}
		value, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, errors.Wrapf(err, "food weight %q", part)
		}
		if value < entity.FoodSmall || value > entity.FoodBig {
			return nil, errors.Errorf("food value %d outside [%d, %d]", value, entity.FoodSmall, entity.FoodBig)
		}
		if seen[value] {
			return nil, errors.Errorf("food value %d listed twice", value)
		}
		seen[value] = true
		weight, err := strconv.ParseFloat(strings.TrimSpace(w), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "food weight %q", part)
		}
		if weight < 0 {
			return nil, errors.Errorf("food value %d has negative weight %g", value, weight)
		}
		weights = append(weights, ValueWeight{Value: value, Weight: weight})
	}
	if weights.total() <= 0 {
		return nil, errors.Errorf("food weights %q: no positive weight", s)
	}
	return weights, nil
}

// FoodConfig tunes placement and value policy
type FoodConfig struct {
	MaxAttempts int
	Weights     ValueWeights
	Seed        uint64 // 0 seeds from the clock
}

type FoodManager struct {
	grid        *GridSpace
	foodList    []entity.Food
	rng         *rand.Rand
	weights     ValueWeights
	maxAttempts int
}

func NewFoodManager(grid *GridSpace, cfg FoodConfig) *FoodManager {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	weights := cfg.Weights
	if weights.total() <= 0 {
		weights = DefaultValueWeights
	}
	attempts := cfg.MaxAttempts
	if attempts < MinPlacementAttempts {
		attempts = MinPlacementAttempts
	}
	return &FoodManager{
		grid:        grid,
		foodList:    make([]entity.Food, 0),
		rng:         rand.New(rand.NewSource(seed)),
		weights:     weights,
		maxAttempts: attempts,
	}
}

// DrawValue picks a food value from the weighted distribution
func (fm *FoodManager) DrawValue() int {
	r := fm.rng.Float64() * fm.weights.total()
	for _, w := range fm.weights {
		if w.Weight <= 0 {
			continue
		}
		if r < w.Weight {
			return w.Value
		}
		r -= w.Weight
	}
	return fm.weights[len(fm.weights)-1].Value
}

// Place samples random cells until one is free of the snake and other food.
// The food is added to the active list on success.
func (fm *FoodManager) Place(value int, snake []types.Cell) (entity.Food, error) {
	occupied := entity.FoodCells(fm.foodList)
	if len(snake)+len(occupied) >= fm.grid.Cells() {
		return entity.Food{}, errors.Wrapf(ErrPlacementFailure, "value %d: no free cell", value)
	}
	size := fm.grid.Size()
	for tries := 0; tries < fm.maxAttempts; tries++ {
		pos := types.Cell{
			X: fm.rng.Intn(size) + 1,
			Y: fm.rng.Intn(size) + 1,
		}
		if fm.grid.IsOccupied(pos, snake, occupied) {
			continue
		}
		food := entity.NewFood(pos, value)
		fm.foodList = append(fm.foodList, food)
		return food, nil
	}
	return entity.Food{}, errors.Wrapf(ErrPlacementFailure, "value %d after %d attempts", value, fm.maxAttempts)
}

// Consume removes and returns the food at cell, if any
func (fm *FoodManager) Consume(cell types.Cell) (entity.Food, bool) {
	for i, f := range fm.foodList {
		if f.Cell == cell {
			fm.foodList = append(fm.foodList[:i], fm.foodList[i+1:]...)
			return f, true
		}
	}
	return entity.Food{}, false
}

// Replenish places food until count items are active. When first is a valid
// value it is used for the first new item, the rest are drawn at random.
// It stops at the first placement failure and returns it.
func (fm *FoodManager) Replenish(count int, snake []types.Cell, first int) error {
	for len(fm.foodList) < count {
		value := first
		if value <= 0 {
			value = fm.DrawValue()
		}
		first = 0
		if _, err := fm.Place(value, snake); err != nil {
			return err
		}
	}
	return nil
}

// Reset clears the board and places a fresh set of count items
func (fm *FoodManager) Reset(count int, snake []types.Cell) error {
	fm.foodList = fm.foodList[:0]
	return fm.Replenish(count, snake, 0)
}

// Foods returns a copy of the active food list
func (fm *FoodManager) Foods() []entity.Food {
	foods := make([]entity.Food, len(fm.foodList))
	copy(foods, fm.foodList)
	return foods
}

func (fm *FoodManager) Len() int {
	return len(fm.foodList)
}

// AddFood puts an item on the board without any occupancy check
func (fm *FoodManager) AddFood(food entity.Food) {
	fm.foodList = append(fm.foodList, food)
}
