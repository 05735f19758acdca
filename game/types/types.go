package types

import (
	"fmt"
	"strings"
)

// Cell is a 1-indexed grid coordinate
type Cell struct {
	X, Y int
}

// Add returns the cell one step away along h
func (c Cell) Add(h Heading) Cell {
	return Cell{X: c.X + h.X, Y: c.Y + h.Y}
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Heading is a unit movement vector. The zero value means "not yet moving".
type Heading struct {
	X, Y int
}

var (
	None  = Heading{0, 0}
	Up    = Heading{0, -1}
	Down  = Heading{0, 1}
	Left  = Heading{-1, 0}
	Right = Heading{1, 0}
)

// IsZero reports whether h is the no-op heading
func (h Heading) IsZero() bool {
	return h.X == 0 && h.Y == 0
}

// Inverse returns the opposite heading
func (h Heading) Inverse() Heading {
	return Heading{X: -h.X, Y: -h.Y}
}

// IsUnit reports whether h is one of the four cardinal headings
func (h Heading) IsUnit() bool {
	return (h.X == 0) != (h.Y == 0) && h.X*h.X+h.Y*h.Y == 1
}

// Direction is a normalized input direction
type Direction int

const (
	NONE Direction = iota
	UP
	RIGHT
	DOWN
	LEFT
)

// ToHeading converts a Direction into a movement vector
func (d Direction) ToHeading() Heading {
	switch d {
	case UP:
		return Up
	case RIGHT:
		return Right
	case DOWN:
		return Down
	case LEFT:
		return Left
	default:
		return None
	}
}

// TurnLeft returns the direction after a 90° counter-clockwise rotation
func (d Direction) TurnLeft() Direction {
	switch d {
	case UP:
		return LEFT
	case RIGHT:
		return UP
	case DOWN:
		return RIGHT
	case LEFT:
		return DOWN
	default:
		return d
	}
}

// TurnRight returns the direction after a 90° clockwise rotation
func (d Direction) TurnRight() Direction {
	switch d {
	case UP:
		return RIGHT
	case RIGHT:
		return DOWN
	case DOWN:
		return LEFT
	case LEFT:
		return UP
	default:
		return d
	}
}

func (d Direction) String() string {
	switch d {
	case UP:
		return "up"
	case RIGHT:
		return "right"
	case DOWN:
		return "down"
	case LEFT:
		return "left"
	default:
		return "none"
	}
}

// DirectionOf maps a heading back onto a Direction
func DirectionOf(h Heading) Direction {
	switch h {
	case Up:
		return UP
	case Right:
		return RIGHT
	case Down:
		return DOWN
	case Left:
		return LEFT
	default:
		return NONE
	}
}

// Command is a normalized input event. Devices translate their own
// gestures and keys into commands before handing them to the game.
type Command int

const (
	CmdNone Command = iota
	CmdUp
	CmdDown
	CmdLeft
	CmdRight
	CmdStart
	CmdPause
	CmdRestart
)

// CommandFor returns the steering command for d
func CommandFor(d Direction) Command {
	switch d {
	case UP:
		return CmdUp
	case DOWN:
		return CmdDown
	case LEFT:
		return CmdLeft
	case RIGHT:
		return CmdRight
	default:
		return CmdNone
	}
}

// Direction returns the steering direction carried by c, or NONE for control commands
func (c Command) Direction() Direction {
	switch c {
	case CmdUp:
		return UP
	case CmdDown:
		return DOWN
	case CmdLeft:
		return LEFT
	case CmdRight:
		return RIGHT
	default:
		return NONE
	}
}

// Phase is the lifecycle stage of a run
type Phase int

const (
	Idle Phase = iota
	Running
	Paused
	Over
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Over:
		return "over"
	default:
		return "unknown"
	}
}

// OutcomeKind classifies what a tick did
type OutcomeKind int

const (
	OutcomeIdle OutcomeKind = iota
	OutcomeMoved
	OutcomeAte
	OutcomeDied
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeIdle:
		return "idle-tick"
	case OutcomeMoved:
		return "moved"
	case OutcomeAte:
		return "ate"
	case OutcomeDied:
		return "died"
	default:
		return "unknown"
	}
}

// CollisionType represents the type of collision
type CollisionType int

const (
	NoCollision CollisionType = iota
	WallCollision
	SelfCollision
)

func (c CollisionType) String() string {
	switch c {
	case WallCollision:
		return "wall"
	case SelfCollision:
		return "self"
	default:
		return "none"
	}
}

// Outcome is the result of a single tick
type Outcome struct {
	Kind      OutcomeKind
	Value     int // food value when Kind == OutcomeAte
	Head      Cell
	Collision CollisionType
}

func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeAte:
		return fmt.Sprintf("ate(%d)", o.Value)
	case OutcomeDied:
		return fmt.Sprintf("died(%s)", o.Collision)
	default:
		return o.Kind.String()
	}
}

// Difficulty selects one of the fixed presets
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

// Preset holds the tuning values for a difficulty
type Preset struct {
	BaseSpeed float64 // ticks per second
	FoodCount int
}

var presets = map[Difficulty]Preset{
	Easy:   {BaseSpeed: 5, FoodCount: 2},
	Medium: {BaseSpeed: 7, FoodCount: 3},
	Hard:   {BaseSpeed: 10, FoodCount: 4},
}

// Preset returns the tuning values for d. Unknown values fall back to Medium.
func (d Difficulty) Preset() Preset {
	if p, ok := presets[d]; ok {
		return p
	}
	return presets[Medium]
}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return "unknown"
	}
}

// ParseDifficulty accepts "easy", "medium" or "hard" (case-insensitive)
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium", "":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return Medium, fmt.Errorf("unknown difficulty %q", s)
}

// Game constants
const (
	DefaultGridSize = 18
	MinGridSize     = 10
	MaxGridSize     = 60
)
