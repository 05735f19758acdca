package ui

import (
	"encoding/binary"
	"math"

	"snake-arcade/game"
	"snake-arcade/game/types"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const sampleRate = 44100

// Audio plays one synthesized cue per tick outcome. It implements
// game.Listener; muting only silences playback.
type Audio struct {
	ready bool
	muted bool
	cues  map[types.OutcomeKind]rl.Sound
}

// NewAudio opens the audio device. Without a device the listener stays silent.
func NewAudio(muted bool) *Audio {
	a := &Audio{muted: muted, cues: make(map[types.OutcomeKind]rl.Sound)}
	rl.InitAudioDevice()
	if !rl.IsAudioDeviceReady() {
		return a
	}
	a.ready = true
	a.cues[types.OutcomeMoved] = tone(220, 0.03, 0.15)
	a.cues[types.OutcomeAte] = tone(660, 0.09, 0.5)
	a.cues[types.OutcomeDied] = tone(110, 0.4, 0.6)
	return a
}

// tone synthesizes a mono 16-bit sine with a linear fade out
func tone(freq, seconds, volume float64) rl.Sound {
	n := int(seconds * sampleRate)
	data := make([]byte, n*2)
	for i := 0; i < n; i++ {
		env := 1 - float64(i)/float64(n)
		v := math.Sin(2*math.Pi*freq*float64(i)/sampleRate) * volume * env
		binary.LittleEndian.PutUint16(data[i*2:], uint16(int16(v*math.MaxInt16)))
	}
	wave := rl.NewWave(uint32(n), sampleRate, 16, 1, data)
	return rl.LoadSoundFromWave(wave)
}

func (a *Audio) OnOutcome(outcome types.Outcome, _ game.Snapshot) {
	if !a.ready || a.muted {
		return
	}
	if s, ok := a.cues[outcome.Kind]; ok {
		rl.PlaySound(s)
	}
}

func (a *Audio) ToggleMute() {
	a.muted = !a.muted
}

func (a *Audio) Muted() bool {
	return a.muted
}

func (a *Audio) Close() {
	if !a.ready {
		return
	}
	for _, s := range a.cues {
		rl.UnloadSound(s)
	}
	rl.CloseAudioDevice()
	a.ready = false
}
