package tetris

import "strings"

type Shape string

const (
	I Shape = "I"
	J Shape = "J"
	L Shape = "L"
	O Shape = "O"
	S Shape = "S"
	Z Shape = "Z"
	T Shape = "T"
)

// Shapes lists the seven tetrominoes in the order they are drafted from.
var Shapes = []Shape{I, O, T, S, Z, J, L}

const (
	spawnX = Width/2 - 2
	spawnY = -1
)

type Tetromino struct {
	Shape    Shape
	Rotation int
	X        int
	Y        int
	GhostY   int
}

// rotations holds the 4x4 occupancy matrix of every orientation.
// Rows go top to bottom and columns left to right, the same way
// they are laid onto the stack.
var rotations = map[Shape][][4][4]bool{
	/*
		.	0 1 2 3		.	0 1 2 3		.	0 1 2 3		.	0 1 2 3
		0	. . . .		0	. . X .		0	. . . .		0	. X . .
		1	X X X X		1	. . X .		1	. . . .		1	. X . .
		2	. . . .		2	. . X .		2	X X X X		2	. X . .
		3	. . . .		3	. . X .		3	. . . .		3	. X . .
	*/
	I: {
		matrix("....", "XXXX", "....", "...."),
		matrix("..X.", "..X.", "..X.", "..X."),
		matrix("....", "....", "XXXX", "...."),
		matrix(".X..", ".X..", ".X..", ".X.."),
	},
	O: {
		matrix("....", ".XX.", ".XX.", "...."),
	},
	T: {
		matrix("....", ".X..", "XXX.", "...."),
		matrix("....", ".X..", ".XX.", ".X.."),
		matrix("....", "....", "XXX.", ".X.."),
		matrix("....", ".X..", "XX..", ".X.."),
	},
	S: {
		matrix("....", ".XX.", "XX..", "...."),
		matrix("....", ".X..", ".XX.", "..X."),
		matrix("....", "....", ".XX.", "XX.."),
		matrix("....", "X...", "XX..", ".X.."),
	},
	Z: {
		matrix("....", "XX..", ".XX.", "...."),
		matrix("....", "..X.", ".XX.", ".X.."),
		matrix("....", "....", "XX..", ".XX."),
		matrix("....", ".X..", "XX..", "X..."),
	},
	J: {
		matrix("....", "X...", "XXX.", "...."),
		matrix("....", ".XX.", ".X..", ".X.."),
		matrix("....", "....", "XXX.", "..X."),
		matrix("....", ".X..", ".X..", "XX.."),
	},
	L: {
		matrix("....", "..X.", "XXX.", "...."),
		matrix("....", ".X..", ".X..", ".XX."),
		matrix("....", "....", "XXX.", "X..."),
		matrix("....", "XX..", ".X..", ".X.."),
	},
}

func matrix(rows ...string) [4][4]bool {
	var m [4][4]bool
	for r, row := range rows {
		for c, v := range strings.Split(row, "") {
			m[r][c] = v == "X"
		}
	}
	return m
}

func newTetromino(s Shape) *Tetromino {
	return &Tetromino{
		Shape: s,
		X:     spawnX,
		Y:     spawnY,
	}
}

// Grid returns the occupancy matrix of the current rotation.
func (t *Tetromino) Grid() [4][4]bool {
	return rotations[t.Shape][t.Rotation]
}

// Preview returns the matrix of the spawn orientation, used to show
// the next and held pieces regardless of how they were rotated.
func (t *Tetromino) Preview() [4][4]bool {
	return rotations[t.Shape][0]
}

// rotate moves the rotation index by dir. It does not check for
// collisions, the caller must roll it back when the result is illegal.
func (t *Tetromino) rotate(dir int) {
	n := len(rotations[t.Shape])
	t.Rotation = ((t.Rotation+dir)%n + n) % n
}

func (t *Tetromino) copy() *Tetromino {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
