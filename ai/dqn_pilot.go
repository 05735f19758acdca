package ai

import (
	"log"
	"path/filepath"

	"snake-arcade/game"
	"snake-arcade/game/types"
	"snake-arcade/qlearning"
)

// Relative actions understood by the DQN
const (
	TurnLeft = iota
	Straight
	TurnRight
)

// DQNPilot steers with a qlearning.Agent using actions relative to the
// current heading.
type DQNPilot struct {
	agent *qlearning.Agent
	path  string
}

// NewDQNPilot loads weights from dataDir when present
func NewDQNPilot(dataDir string, seed uint64) *DQNPilot {
	p := &DQNPilot{
		agent: qlearning.NewAgent(qlearning.LearningRate, qlearning.Gamma, seed),
	}
	if dataDir != "" {
		p.path = filepath.Join(dataDir, qlearning.WeightsFile)
		if err := p.agent.LoadWeights(p.path); err != nil {
			log.Printf("autopilot: %v", err)
		}
	}
	return p
}

func (p *DQNPilot) Agent() *qlearning.Agent {
	return p.agent
}

func (p *DQNPilot) Decide(s game.Snapshot) types.Direction {
	return relativeToAbsolute(CurrentDirection(s), p.agent.GetAction(Features(s)))
}

func (p *DQNPilot) Observe(prev game.Snapshot, action types.Direction, next game.Snapshot, outcome types.Outcome) {
	rel := absoluteToRelative(CurrentDirection(prev), action)
	reward := dqnReward(prev, next, outcome)
	done := outcome.Kind == types.OutcomeDied
	if err := p.agent.Update(Features(prev), rel, reward, Features(next), done); err != nil {
		log.Printf("autopilot: training step failed: %v", err)
	}
}

func (p *DQNPilot) EndEpisode() {
	p.agent.IncrementEpisode()
}

func (p *DQNPilot) Save() error {
	if p.path == "" {
		return nil
	}
	return p.agent.SaveWeights(p.path)
}

func relativeToAbsolute(cur types.Direction, action int) types.Direction {
	switch action {
	case TurnLeft:
		return cur.TurnLeft()
	case TurnRight:
		return cur.TurnRight()
	default:
		return cur
	}
}

func absoluteToRelative(cur, dir types.Direction) int {
	switch dir {
	case cur.TurnLeft():
		return TurnLeft
	case cur.TurnRight():
		return TurnRight
	default:
		return Straight
	}
}

// dqnReward: death is expensive, food pays more as the snake grows, and
// every step costs a little so the agent does not circle forever.
func dqnReward(prev, next game.Snapshot, outcome types.Outcome) float64 {
	switch outcome.Kind {
	case types.OutcomeDied:
		return -2.0
	case types.OutcomeAte:
		return 5.0 + float64(next.Score)*0.2
	}

	reward := -0.005
	before, after := Observe(prev), Observe(next)
	if before.FoodDistance >= 0 && after.FoodDistance >= 0 {
		switch {
		case after.FoodDistance < before.FoodDistance:
			reward += 0.1
		case after.FoodDistance > before.FoodDistance:
			reward -= 0.1
		}
	}
	return reward
}
