package term

import (
	"fmt"

	"snake-arcade/game"
	"snake-arcade/game/types"

	"github.com/gdamore/tcell/v2"
)

var (
	borderStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	bodyStyle   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	headStyle   = tcell.StyleDefault.Foreground(tcell.ColorLime).Bold(true)
	textStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	dimStyle    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	foodStyles  = map[string]tcell.Style{
		"small": tcell.StyleDefault.Foreground(tcell.ColorRed),
		"mid":   tcell.StyleDefault.Foreground(tcell.ColorOrange),
		"big":   tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true),
	}
	foodRunes = map[string]rune{"small": '·', "mid": 'o', "big": '@'}
)

// View carries what the status lines show besides the snapshot
type View struct {
	Muted     bool
	Autopilot string
}

// Renderer draws the board with two terminal columns per cell so it looks square
type Renderer struct {
	screen tcell.Screen
}

func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{screen: screen}
}

// cellPos maps a 1-indexed board cell to the left column and row on screen
func cellPos(c types.Cell) (int, int) {
	return 1 + (c.X-1)*2, c.Y
}

func (r *Renderer) Draw(s game.Snapshot, v View) {
	r.screen.Clear()
	n := s.GridSize
	right := n*2 + 1

	for x := 0; x <= right; x++ {
		r.screen.SetContent(x, 0, '─', nil, borderStyle)
		r.screen.SetContent(x, n+1, '─', nil, borderStyle)
	}
	for y := 0; y <= n+1; y++ {
		r.screen.SetContent(0, y, '│', nil, borderStyle)
		r.screen.SetContent(right, y, '│', nil, borderStyle)
	}
	r.screen.SetContent(0, 0, '┌', nil, borderStyle)
	r.screen.SetContent(right, 0, '┐', nil, borderStyle)
	r.screen.SetContent(0, n+1, '└', nil, borderStyle)
	r.screen.SetContent(right, n+1, '┘', nil, borderStyle)

	for _, f := range s.Foods {
		x, y := cellPos(f.Cell)
		r.screen.SetContent(x, y, foodRunes[f.Category()], nil, foodStyles[f.Category()])
	}
	for i := len(s.Snake) - 1; i >= 0; i-- {
		x, y := cellPos(s.Snake[i])
		style := bodyStyle
		if i == 0 {
			style = headStyle
		}
		r.screen.SetContent(x, y, '█', nil, style)
		r.screen.SetContent(x+1, y, '█', nil, style)
	}

	status := fmt.Sprintf("Score %d  High %d  Speed %.1f  %s", s.Score, s.HighScore, s.Speed, s.Difficulty)
	r.text(0, n+2, status, textStyle)
	line := phaseLine(s)
	if v.Autopilot != "" {
		line += "  [autopilot " + v.Autopilot + "]"
	}
	if v.Muted {
		line += "  [muted]"
	}
	r.text(0, n+3, line, dimStyle)
	r.text(0, n+4, "arrows/wasd/hjkl steer  space start  p pause  r restart  1-3 level  m mute  q quit", dimStyle)

	r.screen.Show()
}

func phaseLine(s game.Snapshot) string {
	switch s.Phase {
	case types.Idle:
		return "press space or an arrow to start"
	case types.Paused:
		return "paused"
	case types.Over:
		return fmt.Sprintf("game over with %d points, r to restart", s.Score)
	}
	return "running"
}

func (r *Renderer) text(x, y int, s string, style tcell.Style) {
	for _, ch := range s {
		r.screen.SetContent(x, y, ch, nil, style)
		x++
	}
}
