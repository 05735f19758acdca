package ai

import (
	"snake-arcade/game"
	"snake-arcade/game/entity"
	"snake-arcade/game/manager"
	"snake-arcade/game/types"
	"snake-arcade/qlearning"
)

// Observation is what an autopilot sees of the board before choosing a move
type Observation struct {
	Heading      types.Direction
	FoodDir      [2]int  // sign of the offset from head to the nearest food
	FoodDistance int     // Manhattan distance to the nearest food, -1 when there is none
	Dangers      [4]bool // moving up, right, down, left would be fatal
}

// Observe reads the sensors from a snapshot
func Observe(s game.Snapshot) Observation {
	head := s.Head()
	obs := Observation{
		Heading:      CurrentDirection(s),
		FoodDistance: -1,
	}

	if food, ok := nearestFood(head, s.Foods); ok {
		obs.FoodDir = [2]int{sign(food.Cell.X - head.X), sign(food.Cell.Y - head.Y)}
		obs.FoodDistance = manhattanDistance(head, food.Cell)
	}

	grid := manager.NewGridSpace(s.GridSize)
	for i, d := range []types.Direction{types.UP, types.RIGHT, types.DOWN, types.LEFT} {
		next := head.Add(d.ToHeading())
		obs.Dangers[i] = grid.Collide(next, s.Snake) != types.NoCollision
	}
	return obs
}

// CurrentDirection reads the committed heading as a cardinal direction.
// A snake that has not moved yet is treated as facing right.
func CurrentDirection(s game.Snapshot) types.Direction {
	if d := types.DirectionOf(s.Heading); d != types.NONE {
		return d
	}
	return types.RIGHT
}

func nearestFood(head types.Cell, foods []entity.Food) (entity.Food, bool) {
	best := -1
	var found entity.Food
	for _, f := range foods {
		d := manhattanDistance(head, f.Cell)
		// ties go to the more valuable item
		if best < 0 || d < best || (d == best && f.Value > found.Value) {
			best = d
			found = f
		}
	}
	return found, best >= 0
}

// DirectionalInfo returns a value in [-1, 1] for moving along vec from the
// head: -1 is an immediate collision, 1 is food on the next cell, and the
// values in between mix food proximity with how close the next obstacle is.
func DirectionalInfo(s game.Snapshot, vec types.Heading) float64 {
	head := s.Head()
	next := head.Add(vec)
	grid := manager.NewGridSpace(s.GridSize)

	if grid.Collide(next, s.Snake) != types.NoCollision {
		return -1.0
	}

	var danger float64
	if dist := obstacleDistance(grid, s.Snake, next, vec); dist > 0 {
		danger = -1.0 / float64(dist)
	}

	food, ok := nearestFood(head, s.Foods)
	if !ok {
		return danger
	}
	if next == food.Cell {
		return 1.0
	}

	nextDist := manhattanDistance(next, food.Cell)
	curDist := manhattanDistance(head, food.Cell)
	switch {
	case nextDist < curDist:
		return max(danger, 0.5)
	case nextDist > curDist:
		return min(danger, -0.3)
	}
	return danger
}

// obstacleDistance counts the free steps from start along vec before
// hitting a wall or the body
func obstacleDistance(grid *manager.GridSpace, body []types.Cell, start types.Cell, vec types.Heading) int {
	pos := start
	for steps := 1; steps <= grid.Size(); steps++ {
		pos = pos.Add(vec)
		if grid.Collide(pos, body) != types.NoCollision {
			return steps
		}
	}
	return 0
}

// StateInfo samples the five directions an autopilot can reason about
// relative to the current heading.
func StateInfo(s game.Snapshot) (front, left, right, frontLeft, frontRight float64) {
	cur := CurrentDirection(s)
	fwd := cur.ToHeading()
	l := cur.TurnLeft().ToHeading()
	r := cur.TurnRight().ToHeading()

	front = DirectionalInfo(s, fwd)
	left = DirectionalInfo(s, l)
	right = DirectionalInfo(s, r)
	frontLeft = DirectionalInfo(s, types.Heading{X: fwd.X + l.X, Y: fwd.Y + l.Y})
	frontRight = DirectionalInfo(s, types.Heading{X: fwd.X + r.X, Y: fwd.Y + r.Y})
	return
}

// Features encodes the board for the DQN: danger to the left, ahead and to
// the right, one flag per relative food side (ahead, left, right, behind),
// then the five graded StateInfo readings.
func Features(s game.Snapshot) []float64 {
	obs := Observe(s)
	cur := obs.Heading
	features := make([]float64, qlearning.InputFeatures)
	features[7], features[8], features[9], features[10], features[11] = StateInfo(s)

	features[0] = b2f(obs.Dangers[dangerIndex(cur.TurnLeft())])
	features[1] = b2f(obs.Dangers[dangerIndex(cur)])
	features[2] = b2f(obs.Dangers[dangerIndex(cur.TurnRight())])

	if obs.FoodDistance < 0 {
		return features
	}
	fwd := cur.ToHeading()
	l := cur.TurnLeft().ToHeading()
	dx, dy := obs.FoodDir[0], obs.FoodDir[1]
	ahead := dx*fwd.X + dy*fwd.Y
	side := dx*l.X + dy*l.Y
	features[3] = b2f(ahead > 0)
	features[4] = b2f(side > 0)
	features[5] = b2f(side < 0)
	features[6] = b2f(ahead < 0)
	return features
}

func dangerIndex(d types.Direction) int {
	switch d {
	case types.UP:
		return 0
	case types.RIGHT:
		return 1
	case types.DOWN:
		return 2
	default:
		return 3
	}
}

func manhattanDistance(a, b types.Cell) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
