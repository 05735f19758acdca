package ui

import (
	"snake-arcade/game/types"
	"snake-arcade/ui/touch"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Event is one normalized input from the window
type Event struct {
	Cmd           types.Command
	SetDifficulty bool
	Difficulty    types.Difficulty
	ToggleMute    bool
}

var keyCommands = []struct {
	keys []int32
	cmd  types.Command
}{
	{[]int32{rl.KeyUp, rl.KeyW}, types.CmdUp},
	{[]int32{rl.KeyDown, rl.KeyS}, types.CmdDown},
	{[]int32{rl.KeyLeft, rl.KeyA}, types.CmdLeft},
	{[]int32{rl.KeyRight, rl.KeyD}, types.CmdRight},
	{[]int32{rl.KeySpace, rl.KeyEnter}, types.CmdStart},
	{[]int32{rl.KeyP}, types.CmdPause},
	{[]int32{rl.KeyR}, types.CmdRestart},
}

var difficultyKeys = map[int32]types.Difficulty{
	rl.KeyOne:   types.Easy,
	rl.KeyTwo:   types.Medium,
	rl.KeyThree: types.Hard,
}

// Input polls keyboard, mouse and touch once per frame
type Input struct {
	swipe *touch.Swipe
}

func NewInput() *Input {
	return &Input{swipe: touch.NewSwipe()}
}

// Poll returns the events of this frame. buttons are the on-screen
// controls laid out by the renderer.
func (in *Input) Poll(buttons []touch.Button) []Event {
	var events []Event
	for _, kc := range keyCommands {
		for _, k := range kc.keys {
			if rl.IsKeyPressed(k) {
				events = append(events, Event{Cmd: kc.cmd})
				break
			}
		}
	}
	for k, d := range difficultyKeys {
		if rl.IsKeyPressed(k) {
			events = append(events, Event{SetDifficulty: true, Difficulty: d})
		}
	}
	if rl.IsKeyPressed(rl.KeyM) {
		events = append(events, Event{ToggleMute: true})
	}

	pos := rl.GetMousePosition()
	p := touch.Point{X: pos.X, Y: pos.Y}
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		if cmd, ok := touch.Hit(buttons, p); ok {
			events = append(events, Event{Cmd: cmd})
			in.swipe.Cancel()
		} else {
			in.swipe.Press(p)
		}
	}
	if rl.IsMouseButtonReleased(rl.MouseButtonLeft) {
		if d, ok := in.swipe.Release(p); ok {
			events = append(events, Event{Cmd: types.CommandFor(d)})
		}
	}
	return events
}
