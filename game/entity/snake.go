package entity

import (
	"snake-arcade/game/types"
)

// Snake is the player body, head first
type Snake struct {
	Body    []types.Cell
	Heading types.Heading
}

func NewSnake(start types.Cell) *Snake {
	return &Snake{
		Body:    []types.Cell{start},
		Heading: types.None,
	}
}

// Move prepends the new head. The tail is kept until RemoveTail is called.
func (s *Snake) Move(newHead types.Cell) {
	s.Body = append(s.Body, types.Cell{})
	copy(s.Body[1:], s.Body)
	s.Body[0] = newHead
}

func (s *Snake) RemoveTail() {
	if len(s.Body) > 0 {
		s.Body = s.Body[:len(s.Body)-1]
	}
}

func (s *Snake) GetHead() types.Cell {
	return s.Body[0]
}

func (s *Snake) Len() int {
	return len(s.Body)
}

// Cells returns a copy of the body
func (s *Snake) Cells() []types.Cell {
	body := make([]types.Cell, len(s.Body))
	copy(body, s.Body)
	return body
}
