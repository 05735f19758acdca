package ai

import (
	"log"

	"snake-arcade/game"
	"snake-arcade/game/types"
)

// Pilot is an autopilot input source. It chooses a direction from a
// snapshot and learns from the tick that followed.
type Pilot interface {
	Decide(s game.Snapshot) types.Direction
	Observe(prev game.Snapshot, action types.Direction, next game.Snapshot, outcome types.Outcome)
	EndEpisode()
	Save() error
}

// Driver steers a game.Game with a Pilot through the same command path a
// human uses. Subscribe it to the game so it can learn from outcomes.
type Driver struct {
	pilot     Pilot
	learn     bool
	decided   bool
	lastTicks uint64
	lastEpoch uint64
	prev      game.Snapshot
	action    types.Direction
}

func NewDriver(pilot Pilot, learn bool) *Driver {
	return &Driver{pilot: pilot, learn: learn}
}

// Steer is called once per frame before the game is advanced. It makes at
// most one decision per tick and restarts finished runs.
func (d *Driver) Steer(g *game.Game) {
	s := g.Snapshot()
	switch s.Phase {
	case types.Paused:
		return
	case types.Over:
		g.Restart()
		d.decided = false
		return
	}
	if d.decided && s.Epoch == d.lastEpoch && s.Ticks == d.lastTicks {
		return
	}

	dir := d.pilot.Decide(s)
	g.Apply(types.CommandFor(dir))
	d.prev = g.Snapshot()
	d.action = dir
	d.lastTicks = s.Ticks
	d.lastEpoch = s.Epoch
	d.decided = true
}

// OnOutcome implements game.Listener
func (d *Driver) OnOutcome(outcome types.Outcome, next game.Snapshot) {
	if !d.decided || next.Epoch != d.prev.Epoch {
		return
	}
	if d.learn {
		d.pilot.Observe(d.prev, d.action, next, outcome)
	}
	if outcome.Kind != types.OutcomeDied {
		return
	}
	d.pilot.EndEpisode()
	if !d.learn {
		return
	}
	if err := d.pilot.Save(); err != nil {
		log.Printf("autopilot: save failed: %v", err)
	}
}
