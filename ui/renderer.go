package ui

import (
	"fmt"

	"snake-arcade/game"
	"snake-arcade/game/entity"
	"snake-arcade/game/types"
	"snake-arcade/stats"
	"snake-arcade/ui/touch"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	borderPadding = 10
	graphHeight   = 120
	maxGraphGames = 200
)

var (
	foodColors = map[string]rl.Color{
		"small": rl.Red,
		"mid":   rl.Orange,
		"big":   rl.Gold,
	}
	snakeColor = rl.Color{R: 60, G: 200, B: 90, A: 255}
	headColor  = rl.Color{R: 120, G: 255, B: 140, A: 255}
)

// View carries what the HUD shows besides the simulation snapshot
type View struct {
	Muted     bool
	Autopilot string
	Stats     *stats.GameStats
}

type Renderer struct {
	cellSize        int32
	screenWidth     int32
	screenHeight    int32
	panelWidth      int32
	totalGridWidth  int32
	totalGridHeight int32
	offsetX         int32
	offsetY         int32
	buttons         []touch.Button
}

func NewRenderer() *Renderer {
	r := &Renderer{}
	r.UpdateDimensions(types.DefaultGridSize)
	return r
}

// UpdateDimensions recomputes the layout for the current window size
func (r *Renderer) UpdateDimensions(gridSize int) {
	r.screenWidth = int32(rl.GetScreenWidth())
	r.screenHeight = int32(rl.GetScreenHeight())
	r.panelWidth = max(r.screenWidth/4, 200)

	availableWidth := r.screenWidth - r.panelWidth - borderPadding*2
	availableHeight := r.screenHeight - graphHeight - borderPadding*3
	r.cellSize = max(min(availableWidth, availableHeight)/int32(gridSize), 4)

	r.totalGridWidth = r.cellSize * int32(gridSize)
	r.totalGridHeight = r.cellSize * int32(gridSize)
	r.offsetX = borderPadding
	r.offsetY = borderPadding

	size := float32(r.panelWidth-2*borderPadding) / 3
	padX := float32(r.screenWidth - r.panelWidth + borderPadding)
	padY := float32(r.offsetY+r.totalGridHeight) - 3*size
	r.buttons = touch.Pad(padX, padY, size)
}

// Buttons returns the on-screen controls of the last layout
func (r *Renderer) Buttons() []touch.Button {
	return r.buttons
}

// cellPos converts a 1-indexed board cell into window coordinates
func (r *Renderer) cellPos(c types.Cell) (int32, int32) {
	return r.offsetX + int32(c.X-1)*r.cellSize, r.offsetY + int32(c.Y-1)*r.cellSize
}

func (r *Renderer) Draw(s game.Snapshot, v View) {
	r.UpdateDimensions(s.GridSize)
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	rl.DrawRectangle(r.offsetX-1, r.offsetY-1, r.totalGridWidth+2, r.totalGridHeight+2, rl.DarkGray)
	rl.DrawRectangle(r.offsetX, r.offsetY, r.totalGridWidth, r.totalGridHeight, rl.Black)

	for _, f := range s.Foods {
		r.drawFood(f)
	}
	r.drawSnake(s)
	r.drawPanel(s, v)
	r.drawButtons()
	r.drawOverlay(s)
	if v.Stats != nil {
		r.drawStatsGraph(v.Stats)
	}

	rl.EndDrawing()
}

func (r *Renderer) drawFood(f entity.Food) {
	x, y := r.cellPos(f.Cell)
	half := r.cellSize / 2
	radius := float32(r.cellSize) * (0.25 + 0.08*float32(f.Value))
	rl.DrawCircle(x+half, y+half, radius, foodColors[f.Category()])
}

func (r *Renderer) drawSnake(s game.Snapshot) {
	for i := len(s.Snake) - 1; i >= 0; i-- {
		x, y := r.cellPos(s.Snake[i])
		color := snakeColor
		if i == 0 {
			color = headColor
		}
		rl.DrawRectangle(x+1, y+1, r.cellSize-2, r.cellSize-2, color)
	}
	if len(s.Snake) == 0 || s.Heading.IsZero() {
		return
	}

	// direction indicator on the head
	headX, headY := r.cellPos(s.Head())
	cs := float32(r.cellSize)
	hx, hy := float32(headX), float32(headY)
	half := cs / 2
	var a, b, c rl.Vector2
	switch types.DirectionOf(s.Heading) {
	case types.RIGHT:
		a, b, c = rl.Vector2{X: hx + cs, Y: hy + half}, rl.Vector2{X: hx + half, Y: hy}, rl.Vector2{X: hx + half, Y: hy + cs}
	case types.LEFT:
		a, b, c = rl.Vector2{X: hx, Y: hy + half}, rl.Vector2{X: hx + half, Y: hy + cs}, rl.Vector2{X: hx + half, Y: hy}
	case types.DOWN:
		a, b, c = rl.Vector2{X: hx + half, Y: hy + cs}, rl.Vector2{X: hx + cs, Y: hy + half}, rl.Vector2{X: hx, Y: hy + half}
	default:
		a, b, c = rl.Vector2{X: hx + half, Y: hy}, rl.Vector2{X: hx, Y: hy + half}, rl.Vector2{X: hx + cs, Y: hy + half}
	}
	rl.DrawTriangle(a, b, c, rl.Yellow)
}

func (r *Renderer) drawPanel(s game.Snapshot, v View) {
	panelX := r.screenWidth - r.panelWidth
	rl.DrawRectangle(panelX, 0, r.panelWidth, r.screenHeight, rl.DarkGray)

	fontSize := min(r.screenHeight/30, r.panelWidth/10)
	lineHeight := fontSize + 6
	x, y := panelX+borderPadding, int32(borderPadding)

	line := func(text string, color rl.Color) {
		rl.DrawText(text, x, y, fontSize, color)
		y += lineHeight
	}
	line(fmt.Sprintf("Score: %d", s.Score), rl.White)
	line(fmt.Sprintf("High: %d", s.HighScore), rl.Gold)
	line(fmt.Sprintf("Speed: %.1f/s", s.Speed), rl.LightGray)
	line(fmt.Sprintf("Difficulty: %s", s.Difficulty), rl.LightGray)
	line(fmt.Sprintf("Length: %d", len(s.Snake)), rl.LightGray)
	if v.Autopilot != "" {
		line(fmt.Sprintf("Autopilot: %s", v.Autopilot), rl.SkyBlue)
	}
	if v.Muted {
		line("Sound: off", rl.Gray)
	} else {
		line("Sound: on", rl.Gray)
	}

	if v.Stats != nil {
		y += lineHeight / 2
		line(fmt.Sprintf("Games: %d", v.Stats.GetGamesPlayed()), rl.White)
		line(fmt.Sprintf("Avg: %.1f", v.Stats.GetAverageScore()), rl.Green)
		line(fmt.Sprintf("Median: %.1f", v.Stats.GetMedianScore()), rl.Green)
		line(fmt.Sprintf("Best: %d", v.Stats.GetMaxScore()), rl.Gold)
		line(fmt.Sprintf("Avg time: %.1fs", v.Stats.GetAverageDuration()), rl.Purple)
		line(fmt.Sprintf("Longest: %.1fs", v.Stats.GetMaxDuration()), rl.Purple)
	}

	y += lineHeight / 2
	small := max(fontSize*2/3, 10)
	for _, help := range []string{"Arrows/WASD steer", "Space start  P pause", "R restart  M mute", "1/2/3 difficulty"} {
		rl.DrawText(help, x, y, small, rl.Gray)
		y += small + 4
	}
}

func (r *Renderer) drawButtons() {
	for _, b := range r.buttons {
		rec := rl.Rectangle{X: b.X + 2, Y: b.Y + 2, Width: b.W - 4, Height: b.H - 4}
		rl.DrawRectangleRec(rec, rl.Fade(rl.LightGray, 0.3))
		fs := int32(b.H / 3)
		tw := rl.MeasureText(b.Label, fs)
		rl.DrawText(b.Label, int32(b.X+b.W/2)-tw/2, int32(b.Y+b.H/2)-fs/2, fs, rl.White)
	}
}

func (r *Renderer) drawOverlay(s game.Snapshot) {
	var text string
	switch s.Phase {
	case types.Idle:
		text = "Press Space or an arrow to start"
	case types.Paused:
		text = "Paused"
	case types.Over:
		text = fmt.Sprintf("Game Over! Score %d  (R to restart)", s.Score)
	default:
		return
	}
	fontSize := max(r.cellSize, 16)
	tw := rl.MeasureText(text, fontSize)
	x := r.offsetX + (r.totalGridWidth-tw)/2
	y := r.offsetY + r.totalGridHeight/2 - fontSize/2
	rl.DrawRectangle(x-8, y-8, tw+16, fontSize+16, rl.Fade(rl.Black, 0.7))
	rl.DrawText(text, x, y, fontSize, rl.White)
}

// drawStatsGraph plots the recent history: single games as bars, grouped
// records as a min-max range with the average marked.
func (r *Renderer) drawStatsGraph(gs *stats.GameStats) {
	width := r.screenWidth - r.panelWidth - borderPadding*2
	graphY := r.screenHeight - graphHeight - borderPadding
	rl.DrawRectangle(borderPadding, graphY, width, graphHeight, rl.Fade(rl.DarkGray, 0.5))

	records := gs.GetStats()
	if len(records) > maxGraphGames {
		records = records[len(records)-maxGraphGames:]
	}
	if len(records) == 0 {
		return
	}

	maxScore := 1
	for _, g := range records {
		maxScore = max(maxScore, g.MaxScore)
	}
	scaleY := float32(graphHeight-10) / float32(maxScore)
	barWidth := max(float32(width)/float32(len(records))-1, 1)
	bottom := float32(graphY + graphHeight)

	for i, g := range records {
		x := float32(borderPadding) + float32(i)*(barWidth+1)
		if g.CompressionIndex == 0 {
			h := float32(g.Score) * scaleY
			rl.DrawRectangleRec(rl.Rectangle{X: x, Y: bottom - h, Width: barWidth, Height: h}, rl.Green)
			continue
		}
		top := bottom - float32(g.MaxScore)*scaleY
		low := bottom - float32(g.MinScore)*scaleY
		rl.DrawRectangleRec(rl.Rectangle{X: x, Y: top, Width: barWidth, Height: low - top}, rl.Fade(rl.Green, 0.4))
		avg := bottom - float32(g.AverageScore)*scaleY
		rl.DrawRectangleRec(rl.Rectangle{X: x, Y: avg, Width: barWidth, Height: 2}, rl.Lime)
	}
}
