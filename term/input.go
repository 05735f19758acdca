package term

import (
	"snake-arcade/game/types"

	"github.com/gdamore/tcell/v2"
)

// Event is one normalized terminal input
type Event struct {
	Cmd           types.Command
	SetDifficulty bool
	Difficulty    types.Difficulty
	ToggleMute    bool
	Quit          bool
}

var keyCommands = map[tcell.Key]types.Command{
	tcell.KeyUp:    types.CmdUp,
	tcell.KeyDown:  types.CmdDown,
	tcell.KeyLeft:  types.CmdLeft,
	tcell.KeyRight: types.CmdRight,
	tcell.KeyEnter: types.CmdStart,
}

var runeCommands = map[rune]types.Command{
	'w': types.CmdUp,
	's': types.CmdDown,
	'a': types.CmdLeft,
	'd': types.CmdRight,
	'k': types.CmdUp,
	'j': types.CmdDown,
	'h': types.CmdLeft,
	'l': types.CmdRight,
	' ': types.CmdStart,
	'p': types.CmdPause,
	'r': types.CmdRestart,
}

var runeDifficulty = map[rune]types.Difficulty{
	'1': types.Easy,
	'2': types.Medium,
	'3': types.Hard,
}

// Translate maps a key press onto an Event
func Translate(ev *tcell.EventKey) (Event, bool) {
	return translate(ev.Key(), ev.Rune())
}

func translate(key tcell.Key, r rune) (Event, bool) {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return Event{Quit: true}, true
	case tcell.KeyRune:
	default:
		if cmd, ok := keyCommands[key]; ok {
			return Event{Cmd: cmd}, true
		}
		return Event{}, false
	}

	if r >= 'A' && r <= 'Z' {
		r += 'a' - 'A'
	}
	if cmd, ok := runeCommands[r]; ok {
		return Event{Cmd: cmd}, true
	}
	if d, ok := runeDifficulty[r]; ok {
		return Event{SetDifficulty: true, Difficulty: d}, true
	}
	switch r {
	case 'm':
		return Event{ToggleMute: true}, true
	case 'q':
		return Event{Quit: true}, true
	}
	return Event{}, false
}
