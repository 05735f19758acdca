package ai

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"snake-arcade/game/types"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
)

// fileMutex serializes Q-table files shared by several agents
var fileMutex sync.Mutex

type Action int

const (
	Up Action = iota
	Right
	Down
	Left
)

// Direction maps the action onto a steering direction
func (a Action) Direction() types.Direction {
	switch a {
	case Up:
		return types.UP
	case Right:
		return types.RIGHT
	case Down:
		return types.DOWN
	default:
		return types.LEFT
	}
}

// ActionFor is the inverse of Action.Direction
func ActionFor(d types.Direction) Action {
	switch d {
	case types.UP:
		return Up
	case types.RIGHT:
		return Right
	case types.DOWN:
		return Down
	default:
		return Left
	}
}

// QTable maps a state key to the value of each of the four actions
type QTable map[string]map[Action]float64

type QLearning struct {
	ID           string
	QTable       QTable
	LearningRate float64
	Discount     float64
	Epsilon      float64
	TotalReward  float64
	GamesPlayed  int

	rng *rand.Rand
	mu  sync.RWMutex
}

// NewQLearning creates an agent. A non-nil parent table is copied with a
// random mutation of up to mutationRate times each value.
func NewQLearning(id string, parent QTable, mutationRate float64, seed uint64) *QLearning {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	q := &QLearning{
		ID:           id,
		QTable:       make(QTable),
		LearningRate: 0.1,
		Discount:     0.9,
		Epsilon:      0.1,
		rng:          rand.New(rand.NewSource(seed)),
	}
	if parent != nil {
		q.QTable = q.createMutatedTable(parent, mutationRate)
	}
	return q
}

func (q *QLearning) createMutatedTable(parent QTable, mutationRate float64) QTable {
	table := make(QTable, len(parent))
	for state, actions := range parent {
		table[state] = make(map[Action]float64, len(actions))
		for action, value := range actions {
			mutation := (q.rng.Float64()*2 - 1) * mutationRate * math.Abs(value)
			table[state][action] = value + mutation
		}
	}
	return table
}

// StateKey encodes the food side and the four danger flags
func StateKey(obs Observation) string {
	return fmt.Sprintf("%d,%d|%d%d%d%d",
		obs.FoodDir[0], obs.FoodDir[1],
		boolToInt(obs.Dangers[0]), boolToInt(obs.Dangers[1]),
		boolToInt(obs.Dangers[2]), boolToInt(obs.Dangers[3]))
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// GetAction picks an action epsilon-greedily. The reverse of the current
// heading is never chosen since the engine would ignore it.
func (q *QLearning) GetAction(obs Observation) Action {
	reverse := ActionFor(obs.Heading).Opposite()
	if q.rng.Float64() < q.Epsilon {
		for {
			if a := Action(q.rng.Intn(4)); a != reverse {
				return a
			}
		}
	}
	return q.BestAction(obs)
}

// Opposite returns the action pointing the other way
func (a Action) Opposite() Action {
	return (a + 2) % 4
}

// BestAction returns the highest valued action for obs, skipping the reverse
func (q *QLearning) BestAction(obs Observation) Action {
	q.mu.Lock()
	defer q.mu.Unlock()

	values := q.ensure(StateKey(obs))
	reverse := ActionFor(obs.Heading).Opposite()

	best := ActionFor(obs.Heading)
	bestValue := math.Inf(-1)
	for a := Up; a <= Left; a++ {
		if a == reverse {
			continue
		}
		if values[a] > bestValue {
			bestValue = values[a]
			best = a
		}
	}
	return best
}

func (q *QLearning) ensure(key string) map[Action]float64 {
	values, ok := q.QTable[key]
	if !ok {
		values = make(map[Action]float64, 4)
		for a := Up; a <= Left; a++ {
			values[a] = 0
		}
		q.QTable[key] = values
	}
	return values
}

// Reward scores a transition: food and death dominate, otherwise the agent
// is nudged toward the nearest food.
func Reward(prev, next Observation, outcome types.Outcome) float64 {
	switch outcome.Kind {
	case types.OutcomeDied:
		return -1.0
	case types.OutcomeAte:
		return 1.0
	}
	if prev.FoodDistance < 0 || next.FoodDistance < 0 {
		return 0
	}
	switch change := next.FoodDistance - prev.FoodDistance; {
	case change < 0:
		return 0.5
	case change > 0:
		return -0.3
	}
	return 0
}

// Update applies one Q-learning step and returns the reward used
func (q *QLearning) Update(prev Observation, action Action, next Observation, outcome types.Outcome) float64 {
	reward := Reward(prev, next, outcome)

	q.mu.Lock()
	defer q.mu.Unlock()

	values := q.ensure(StateKey(prev))
	maxNext := 0.0
	if outcome.Kind != types.OutcomeDied {
		maxNext = math.Inf(-1)
		for _, v := range q.ensure(StateKey(next)) {
			maxNext = max(maxNext, v)
		}
	}

	current := values[action]
	values[action] = current + q.LearningRate*(reward+q.Discount*maxNext-current)
	q.TotalReward += reward
	return reward
}

// Snapshot returns a deep copy of the table, safe to hand to another agent
func (q *QLearning) Snapshot() QTable {
	q.mu.RLock()
	defer q.mu.RUnlock()

	table := make(QTable, len(q.QTable))
	for state, actions := range q.QTable {
		table[state] = make(map[Action]float64, len(actions))
		for a, v := range actions {
			table[state][a] = v
		}
	}
	return table
}

// GetQTableFilename returns the table file of one agent
func GetQTableFilename(dataDir, id string) string {
	return filepath.Join(dataDir, "qtables", "qtable_"+id+".json")
}

// SaveQTable writes the live table, replacing whatever is on disk
func (q *QLearning) SaveQTable(filename string) error {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return errors.Wrap(err, "create q-table directory")
	}

	q.mu.RLock()
	data, err := json.MarshalIndent(q.QTable, "", "  ")
	q.mu.RUnlock()
	if err != nil {
		return errors.Wrap(err, "encode q-table")
	}
	return errors.Wrapf(os.WriteFile(filename, data, 0644), "write %s", filename)
}

// LoadQTable merges a saved table into the agent. Entries the agent already
// knows are averaged with the saved ones; a fresh agent just takes the file.
func (q *QLearning) LoadQTable(filename string) error {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	data, err := os.ReadFile(filename)
	if err != nil {
		return errors.Wrapf(err, "read %s", filename)
	}

	table := make(QTable)
	if err := json.Unmarshal(data, &table); err != nil {
		return errors.Wrapf(err, "decode %s", filename)
	}

	q.mergeQTables(table)
	return nil
}

func (q *QLearning) mergeQTables(other QTable) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for state, actions := range other {
		if _, ok := q.QTable[state]; !ok {
			q.QTable[state] = make(map[Action]float64)
		}
		for action, value := range actions {
			if current, ok := q.QTable[state][action]; ok {
				q.QTable[state][action] = (current + value) / 2
			} else {
				q.QTable[state][action] = value
			}
		}
	}
}
