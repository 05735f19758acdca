package term

import (
	"sync"
	"time"

	"snake-arcade/game"
	"snake-arcade/game/types"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/pkg/errors"
)

const sampleRate = beep.SampleRate(44100)

type cue struct {
	freq     float64
	duration time.Duration
}

var cues = map[types.OutcomeKind]cue{
	types.OutcomeAte:  {freq: 880, duration: 60 * time.Millisecond},
	types.OutcomeDied: {freq: 110, duration: 350 * time.Millisecond},
}

// Audio plays sine-tone cues through the beep speaker. Moves are silent in
// the terminal; a tick every few dozen milliseconds is just noise.
type Audio struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	muted       bool
	initialized bool
}

func NewAudio(muted bool) *Audio {
	return &Audio{mixer: &beep.Mixer{}, muted: muted}
}

// Initialize opens the speaker. The game runs fine without it.
func (a *Audio) Initialize() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return errors.Wrap(err, "init speaker")
	}
	speaker.Play(a.mixer)
	a.initialized = true
	return nil
}

func (a *Audio) OnOutcome(outcome types.Outcome, _ game.Snapshot) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.initialized || a.muted {
		return
	}
	c, ok := cues[outcome.Kind]
	if !ok {
		return
	}
	sine, err := generators.SineTone(sampleRate, c.freq)
	if err != nil {
		return
	}
	speaker.Lock()
	a.mixer.Add(beep.Take(sampleRate.N(c.duration), sine))
	speaker.Unlock()
}

func (a *Audio) ToggleMute() {
	a.mu.Lock()
	a.muted = !a.muted
	a.mu.Unlock()
}

func (a *Audio) Muted() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.muted
}

func (a *Audio) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	a.initialized = false
}
