package game

import (
	"time"

	"snake-arcade/game/types"
)

// Pacer turns a stream of frame timestamps into engine ticks at the rate
// given by the engine speed. It ticks at most once per sample; missed
// intervals are dropped instead of replayed.
type Pacer struct {
	engine  *Engine
	last    time.Duration
	epoch   uint64
	started bool
}

func NewPacer(engine *Engine) *Pacer {
	return &Pacer{engine: engine}
}

// Interval is the time between two ticks at the current speed
func (p *Pacer) Interval() time.Duration {
	speed := p.engine.Speed()
	if speed <= 0 {
		return time.Second
	}
	return time.Duration(float64(time.Second) / speed)
}

// Sample feeds one monotonic timestamp. It returns the tick outcome and
// true when a tick ran.
func (p *Pacer) Sample(now time.Duration) (types.Outcome, bool) {
	if epoch := p.engine.Epoch(); !p.started || epoch != p.epoch {
		// fresh run: nothing scheduled before the reset may fire
		p.started = true
		p.epoch = epoch
		p.last = now
		return types.Outcome{}, false
	}

	if p.engine.Phase() == types.Paused {
		p.last = now
		return types.Outcome{}, false
	}

	if now-p.last < p.Interval() {
		return types.Outcome{}, false
	}
	p.last = now
	return p.engine.Tick(), true
}

