package tetris

import "slices"

const (
	Width  = 10
	Height = 20
)

// Stack is the playfield. 20 rows x 10 columns.
// Rows are 0 > 19 top to bottom and columns are 0 > 9 left to right.
// An empty Shape is an empty cell, otherwise it holds the shape that
// was locked there and that decides the color it is rendered with.
type Stack [Height][Width]Shape

func emptyStack() Stack {
	return Stack{}
}

// collides reports whether t would overlap a wall, the floor or a locked
// cell when its bounding box is placed at x, y. Cells above the top of
// the stack never collide with anything but the side walls.
func (s *Stack) collides(t *Tetromino, x, y int) bool {
	grid := t.Grid()
	for ir, r := range grid {
		for ic, c := range r {
			if !c {
				continue
			}
			col := x + ic
			row := y + ir
			if col < 0 || col >= Width || row >= Height {
				return true
			}
			if row >= 0 && s[row][col] != "" {
				return true
			}
		}
	}
	return false
}

// place locks t onto the stack at x, y. Cells that are still above the
// stack are dropped.
func (s *Stack) place(t *Tetromino, x, y int) {
	grid := t.Grid()
	for ir, r := range grid {
		for ic, c := range r {
			if !c {
				continue
			}
			col := x + ic
			row := y + ir
			if row >= 0 && row < Height && col >= 0 && col < Width {
				s[row][col] = t.Shape
			}
		}
	}
}

// fullRows returns the complete rows scanning from the bottom up.
func (s *Stack) fullRows() []int {
	var rows []int
	for row := Height - 1; row >= 0; row-- {
		if !slices.Contains(s[row][:], "") {
			rows = append(rows, row)
		}
	}
	return rows
}

// removeRows collapses the given rows one at a time from the top down:
// every row above a removed one moves down by one and the top row is
// emptied.
func (s *Stack) removeRows(rows []int) {
	sorted := slices.Clone(rows)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	for _, row := range sorted {
		if row < 0 || row >= Height {
			continue
		}
		for r := row; r > 0; r-- {
			s[r] = s[r-1]
		}
		s[0] = [Width]Shape{}
	}
}
