package game

import (
	"errors"
	"log"
	"time"

	"snake-arcade/game/entity"
	"snake-arcade/game/manager"
	"snake-arcade/game/types"
)

// SpeedPolicy controls how the tick rate grows with the score
type SpeedPolicy struct {
	Increment float64 // ticks/s added at every threshold
	Max       float64 // hard cap, keeps the tick interval away from zero
	Every     int     // score multiple that triggers an increment
}

// DefaultSpeedPolicy adds one tick/s every 5 points up to 20 ticks/s
var DefaultSpeedPolicy = SpeedPolicy{Increment: 1, Max: 20, Every: 5}

// Config describes a board variant
type Config struct {
	GridSize   int
	Difficulty types.Difficulty
	Speed      SpeedPolicy
	Food       manager.FoodConfig
}

func DefaultConfig() Config {
	return Config{
		GridSize:   types.DefaultGridSize,
		Difficulty: types.Medium,
		Speed:      DefaultSpeedPolicy,
		Food: manager.FoodConfig{
			MaxAttempts: manager.MinPlacementAttempts,
			Weights:     manager.DefaultValueWeights,
		},
	}
}

// Snapshot is a read-only copy of the simulation state
type Snapshot struct {
	GridSize   int
	Snake      []types.Cell
	Foods      []entity.Food
	Heading    types.Heading
	Score      int
	HighScore  int
	Speed      float64
	Phase      types.Phase
	Difficulty types.Difficulty
	Epoch      uint64
	Ticks      uint64
	StartTime  time.Time
	EndTime    time.Time
}

// Head returns the first snake segment
func (s Snapshot) Head() types.Cell {
	if len(s.Snake) == 0 {
		return types.Cell{}
	}
	return s.Snake[0]
}

// Engine owns the snake, heading, score and speed and advances them one
// tick at a time. It is not safe for concurrent use; the frame loop and the
// input handlers share one goroutine.
type Engine struct {
	cfg   Config
	grid  *manager.GridSpace
	foods *manager.FoodManager
	now   func() time.Time

	snake      *entity.Snake
	pending    types.Heading
	hasPending bool
	score      int
	speed      float64
	phase      types.Phase
	highScore  int
	epoch      uint64
	ticks      uint64
	startTime  time.Time
	endTime    time.Time
}

func NewEngine(cfg Config) *Engine {
	if cfg.GridSize < types.MinGridSize {
		cfg.GridSize = types.DefaultGridSize
	}
	if cfg.Speed.Every <= 0 {
		cfg.Speed.Every = DefaultSpeedPolicy.Every
	}
	grid := manager.NewGridSpace(cfg.GridSize)
	e := &Engine{
		cfg:   cfg,
		grid:  grid,
		foods: manager.NewFoodManager(grid, cfg.Food),
		now:   time.Now,
	}
	e.Reset()
	return e
}

// Reset discards the current run and builds a fresh idle state. Any tick
// scheduled against the previous epoch is invalidated.
func (e *Engine) Reset() {
	preset := e.cfg.Difficulty.Preset()
	e.snake = entity.NewSnake(e.grid.Center())
	e.pending = types.None
	e.hasPending = false
	e.score = 0
	e.speed = preset.BaseSpeed
	e.phase = types.Idle
	e.ticks = 0
	e.startTime = time.Time{}
	e.endTime = time.Time{}
	e.epoch++

	if err := e.foods.Reset(preset.FoodCount, e.snake.Body); err != nil {
		log.Printf("reset: %v", err)
	}
}

// SetDifficulty switches preset and resets the run
func (e *Engine) SetDifficulty(d types.Difficulty) {
	e.cfg.Difficulty = d
	e.Reset()
}

// SetHighScore seeds the in-memory high score, usually from the store
func (e *Engine) SetHighScore(score int) {
	if score > e.highScore {
		e.highScore = score
	}
}

// SetHeading buffers a heading for the next tick. Zero headings and the
// exact reverse of the committed heading are ignored. An accepted heading
// starts an idle run.
func (e *Engine) SetHeading(h types.Heading) bool {
	if !h.IsUnit() || e.phase == types.Over {
		return false
	}
	if h == e.snake.Heading.Inverse() {
		return false
	}
	e.pending = h
	e.hasPending = true
	if e.phase == types.Idle {
		e.begin()
	}
	return true
}

func (e *Engine) begin() {
	e.phase = types.Running
	if e.startTime.IsZero() {
		e.startTime = e.now()
	}
}

// Start begins an idle run without a heading
func (e *Engine) Start() {
	if e.phase == types.Idle {
		e.begin()
	}
}

func (e *Engine) Pause() {
	if e.phase == types.Running {
		e.phase = types.Paused
	}
}

func (e *Engine) Resume() {
	if e.phase == types.Paused {
		e.phase = types.Running
	}
}

func (e *Engine) TogglePause() {
	switch e.phase {
	case types.Running:
		e.Pause()
	case types.Paused:
		e.Resume()
	}
}

// Apply routes a normalized input command
func (e *Engine) Apply(cmd types.Command) {
	switch cmd {
	case types.CmdUp, types.CmdDown, types.CmdLeft, types.CmdRight:
		e.SetHeading(cmd.Direction().ToHeading())
	case types.CmdStart:
		if e.phase == types.Over {
			e.Reset()
		}
		e.Start()
	case types.CmdPause:
		e.TogglePause()
	case types.CmdRestart:
		e.Reset()
		e.Start()
	}
}

// TickEpoch runs a tick only if no reset happened since epoch was observed
func (e *Engine) TickEpoch(epoch uint64) (types.Outcome, bool) {
	if epoch != e.epoch {
		return types.Outcome{}, false
	}
	return e.Tick(), true
}

// Tick advances the simulation by one step. Collision is always resolved
// against the body as it was before the move.
func (e *Engine) Tick() types.Outcome {
	if e.phase != types.Running {
		return types.Outcome{Kind: types.OutcomeIdle, Head: e.snake.GetHead()}
	}

	if e.hasPending {
		if e.pending != e.snake.Heading.Inverse() {
			e.snake.Heading = e.pending
		}
		e.hasPending = false
	}

	heading := e.snake.Heading
	if heading.IsZero() {
		return types.Outcome{Kind: types.OutcomeIdle, Head: e.snake.GetHead()}
	}
	e.ticks++

	newHead := e.snake.GetHead().Add(heading)
	if collision := e.grid.Collide(newHead, e.snake.Body); collision != types.NoCollision {
		e.phase = types.Over
		e.endTime = e.now()
		if e.score > e.highScore {
			e.highScore = e.score
		}
		return types.Outcome{Kind: types.OutcomeDied, Head: newHead, Collision: collision}
	}

	e.snake.Move(newHead)

	food, ate := e.foods.Consume(newHead)
	if !ate {
		e.snake.RemoveTail()
		e.replenish(0)
		return types.Outcome{Kind: types.OutcomeMoved, Head: newHead}
	}

	e.score += food.Value
	e.replenish(food.Value)
	if e.score%e.cfg.Speed.Every == 0 {
		e.speed = e.nextSpeed()
	}
	return types.Outcome{Kind: types.OutcomeAte, Value: food.Value, Head: newHead}
}

func (e *Engine) nextSpeed() float64 {
	next := e.speed + e.cfg.Speed.Increment
	limit := e.cfg.Speed.Max
	if base := e.cfg.Difficulty.Preset().BaseSpeed; limit < base {
		limit = base
	}
	if next > limit {
		next = limit
	}
	return next
}

// replenish tops the board up to the preset count. A placement failure
// leaves the board short; the next tick tries again.
func (e *Engine) replenish(first int) {
	want := e.cfg.Difficulty.Preset().FoodCount
	if e.foods.Len() >= want {
		return
	}
	if err := e.foods.Replenish(want, e.snake.Body, first); err != nil {
		if errors.Is(err, manager.ErrPlacementFailure) {
			log.Printf("tick %d: %v (%d/%d food active)", e.ticks, err, e.foods.Len(), want)
			return
		}
		log.Printf("tick %d: replenish: %v", e.ticks, err)
	}
}

// State returns a snapshot for renderers and listeners
func (e *Engine) State() Snapshot {
	return Snapshot{
		GridSize:   e.grid.Size(),
		Snake:      e.snake.Cells(),
		Foods:      e.foods.Foods(),
		Heading:    e.snake.Heading,
		Score:      e.score,
		HighScore:  e.highScore,
		Speed:      e.speed,
		Phase:      e.phase,
		Difficulty: e.cfg.Difficulty,
		Epoch:      e.epoch,
		Ticks:      e.ticks,
		StartTime:  e.startTime,
		EndTime:    e.endTime,
	}
}

func (e *Engine) Phase() types.Phase {
	return e.phase
}

func (e *Engine) Speed() float64 {
	return e.speed
}

func (e *Engine) Score() int {
	return e.score
}

func (e *Engine) Epoch() uint64 {
	return e.epoch
}

// Foods exposes the food manager, mainly so scenarios can stage the board
func (e *Engine) Foods() *manager.FoodManager {
	return e.foods
}
