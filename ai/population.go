package ai

import (
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"snake-arcade/game"
	"snake-arcade/game/types"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
)

const (
	DefaultGenerationSize = 20
	MutationRate          = 0.01 // relative mutation applied to inherited tables
	PopulationFile        = "qtable.json"
)

type scoredAgent struct {
	agent *QLearning
	score int
}

// Population plays one tabular agent at a time. Each new agent inherits a
// mutated copy of the best table seen so far in its generation; when a
// generation is complete the two best agents are bred into the next one.
type Population struct {
	dataDir    string
	size       int
	rng        *rand.Rand
	current    *QLearning
	results    []scoredAgent
	episode    int // score of the running episode
	best       scoredAgent
	Generation int
}

// NewPopulation starts from the table saved in dataDir if there is one
func NewPopulation(dataDir string, size int, seed uint64) *Population {
	if size <= 0 {
		size = DefaultGenerationSize
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	p := &Population{
		dataDir: dataDir,
		size:    size,
		rng:     rand.New(rand.NewSource(seed)),
	}

	p.current = p.spawn(nil)
	if dataDir != "" {
		if err := p.current.LoadQTable(p.path()); err != nil && !os.IsNotExist(errors.Cause(err)) {
			log.Printf("autopilot: %v", err)
		}
	}
	return p
}

func (p *Population) path() string {
	return filepath.Join(p.dataDir, PopulationFile)
}

func (p *Population) spawn(parent QTable) *QLearning {
	return NewQLearning(uuid.New().String(), parent, MutationRate, p.rng.Uint64())
}

// Current returns the agent playing the running episode
func (p *Population) Current() *QLearning {
	return p.current
}

func (p *Population) Decide(s game.Snapshot) types.Direction {
	return p.current.GetAction(Observe(s)).Direction()
}

func (p *Population) Observe(prev game.Snapshot, action types.Direction, next game.Snapshot, outcome types.Outcome) {
	p.current.Update(Observe(prev), ActionFor(action), Observe(next), outcome)
	p.episode = next.Score
}

// EndEpisode scores the current agent and replaces it
func (p *Population) EndEpisode() {
	p.current.GamesPlayed++
	done := scoredAgent{agent: p.current, score: p.episode}
	p.results = append(p.results, done)
	if p.best.agent == nil || done.score >= p.best.score {
		p.best = done
	}
	p.episode = 0

	if len(p.results) < p.size {
		p.current = p.spawn(p.best.agent.Snapshot())
		return
	}

	sort.SliceStable(p.results, func(i, j int) bool {
		return p.results[i].score > p.results[j].score
	})
	mother, father := p.results[0].agent, p.results[0].agent
	if len(p.results) > 1 {
		father = p.results[1].agent
	}
	p.current = Breed(mother, father, p.rng.Uint64())
	p.results = p.results[:0]
	p.best = scoredAgent{}
	p.Generation++
}

// Save writes the table of the best agent of the current generation
func (p *Population) Save() error {
	if p.dataDir == "" {
		return nil
	}
	agent := p.best.agent
	if agent == nil {
		agent = p.current
	}
	return agent.SaveQTable(p.path())
}

// Breed mixes two parents: every state-action value comes from one parent
// picked at random, then the child table is mutated.
func Breed(mother, father *QLearning, seed uint64) *QLearning {
	rng := rand.New(rand.NewSource(seed))
	a, b := mother.Snapshot(), father.Snapshot()

	mixed := make(QTable, len(a))
	for state, actions := range a {
		mixed[state] = make(map[Action]float64, len(actions))
		for action, v := range actions {
			mixed[state][action] = v
		}
	}
	for state, actions := range b {
		if _, ok := mixed[state]; !ok {
			mixed[state] = make(map[Action]float64, len(actions))
		}
		for action, v := range actions {
			if _, ok := mixed[state][action]; !ok || rng.Intn(2) == 0 {
				mixed[state][action] = v
			}
		}
	}
	return NewQLearning(uuid.New().String(), mixed, MutationRate, rng.Uint64())
}
