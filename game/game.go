package game

import (
	"time"

	"snake-arcade/game/types"

	"github.com/google/uuid"
)

// Listener is notified after every tick that did something. Renderers pull
// snapshots instead; listeners are for audio cues, persistence and the like.
type Listener interface {
	OnOutcome(outcome types.Outcome, state Snapshot)
}

// ListenerFunc adapts a function to Listener
type ListenerFunc func(outcome types.Outcome, state Snapshot)

func (f ListenerFunc) OnOutcome(outcome types.Outcome, state Snapshot) {
	f(outcome, state)
}

// Scoreboard receives finished runs
type Scoreboard interface {
	RecordGame(score int, startTime, endTime time.Time) bool
}

// PersistOnDeath returns a listener that hands every finished run to sb
func PersistOnDeath(sb Scoreboard) Listener {
	return ListenerFunc(func(o types.Outcome, s Snapshot) {
		if o.Kind != types.OutcomeDied {
			return
		}
		sb.RecordGame(s.Score, s.StartTime, s.EndTime)
	})
}

// Game is one play session: an engine, the pacer driving it, and the
// collaborators reacting to its outcomes.
type Game struct {
	UUID      string
	engine    *Engine
	pacer     *Pacer
	listeners []Listener
}

func NewGame(cfg Config) *Game {
	engine := NewEngine(cfg)
	return &Game{
		UUID:   uuid.New().String(),
		engine: engine,
		pacer:  NewPacer(engine),
	}
}

func (g *Game) Subscribe(l Listener) {
	g.listeners = append(g.listeners, l)
}

// Frame is called once per rendered frame with a monotonic timestamp
func (g *Game) Frame(now time.Duration) (types.Outcome, bool) {
	outcome, ticked := g.pacer.Sample(now)
	if !ticked || outcome.Kind == types.OutcomeIdle {
		return outcome, ticked
	}
	state := g.engine.State()
	for _, l := range g.listeners {
		l.OnOutcome(outcome, state)
	}
	return outcome, ticked
}

// Apply forwards an input command to the engine
func (g *Game) Apply(cmd types.Command) {
	g.engine.Apply(cmd)
}

// SetDifficulty resets the session with another preset
func (g *Game) SetDifficulty(d types.Difficulty) {
	g.engine.SetDifficulty(d)
}

func (g *Game) Restart() {
	g.engine.Apply(types.CmdRestart)
}

func (g *Game) Snapshot() Snapshot {
	return g.engine.State()
}

func (g *Game) Engine() *Engine {
	return g.engine
}

func (g *Game) Pacer() *Pacer {
	return g.pacer
}
