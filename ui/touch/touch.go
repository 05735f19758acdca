// Package touch turns pointer gestures into game commands. It has no
// raylib dependency so the thresholds can be tested headless.
package touch

import (
	"snake-arcade/game/types"
)

// SwipeThreshold is the minimum drag distance, in pixels, that counts as a swipe
const SwipeThreshold = 20

type Point struct {
	X, Y float32
}

// Classify maps a drag vector onto a direction. The dominant axis wins;
// drags shorter than threshold on both axes are ignored.
func Classify(dx, dy, threshold float32) (types.Direction, bool) {
	ax, ay := abs(dx), abs(dy)
	if ax <= threshold && ay <= threshold {
		return types.NONE, false
	}
	if ax >= ay {
		if dx > 0 {
			return types.RIGHT, true
		}
		return types.LEFT, true
	}
	if dy > 0 {
		return types.DOWN, true
	}
	return types.UP, true
}

// Swipe tracks one press-drag-release gesture
type Swipe struct {
	Threshold float32
	start     Point
	active    bool
}

func NewSwipe() *Swipe {
	return &Swipe{Threshold: SwipeThreshold}
}

func (s *Swipe) Press(p Point) {
	s.start = p
	s.active = true
}

// Release ends the gesture and reports the swipe direction, if any
func (s *Swipe) Release(p Point) (types.Direction, bool) {
	if !s.active {
		return types.NONE, false
	}
	s.active = false
	return Classify(p.X-s.start.X, p.Y-s.start.Y, s.Threshold)
}

func (s *Swipe) Cancel() {
	s.active = false
}

// Button is an on-screen control
type Button struct {
	X, Y, W, H float32
	Label      string
	Cmd        types.Command
}

func (b Button) Contains(p Point) bool {
	return p.X >= b.X && p.X < b.X+b.W && p.Y >= b.Y && p.Y < b.Y+b.H
}

// Hit returns the command of the first button under p
func Hit(buttons []Button, p Point) (types.Command, bool) {
	for _, b := range buttons {
		if b.Contains(p) {
			return b.Cmd, true
		}
	}
	return types.CmdNone, false
}

// Pad lays out a cross of arrow buttons plus a pause button in its centre.
// x, y is the top-left corner and size the side of one button.
func Pad(x, y, size float32) []Button {
	return []Button{
		{X: x + size, Y: y, W: size, H: size, Label: "^", Cmd: types.CmdUp},
		{X: x, Y: y + size, W: size, H: size, Label: "<", Cmd: types.CmdLeft},
		{X: x + size, Y: y + size, W: size, H: size, Label: "||", Cmd: types.CmdPause},
		{X: x + 2*size, Y: y + size, W: size, H: size, Label: ">", Cmd: types.CmdRight},
		{X: x + size, Y: y + 2*size, W: size, H: size, Label: "v", Cmd: types.CmdDown},
	}
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
