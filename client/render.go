package client

import (
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/edevardHvide/tetris-play/leaderboard"
	"github.com/edevardHvide/tetris-play/tetris"
)

const (
	// ASCII colors.
	Cyan    = "36"
	Blue    = "34"
	Orange  = "38;5;214"
	Yellow  = "33"
	Green   = "32"
	Red     = "31"
	Magenta = "35"
	White   = "37"

	resetPos  = "\033[H"  // Reset cursor position to 0,0
	clearLine = "\033[K"  // Clear from the cursor to the end of the line
	bold      = "\033[1m" // Bold text
	reset     = "\033[0m" // Reset text attributes

	emptyCell = "  "
	ghostCell = "[]"
	sideWidth = 24
)

//go:embed "layout.tmpl"
var layout string

var colorMap = map[tetris.Shape]string{
	tetris.I: Cyan,
	tetris.J: Blue,
	tetris.L: Orange,
	tetris.O: Yellow,
	tetris.S: Green,
	tetris.Z: Red,
	tetris.T: Magenta,
}

var popupColor = map[tetris.PopupKind]string{
	tetris.PointsPopup:     Yellow,
	tetris.MultiplierPopup: Magenta,
	tetris.LevelUpPopup:    Cyan,
}

func cell(color string) string {
	return fmt.Sprintf("\x1b[7m\x1b[%sm[]\x1b[0m", color)
}

type templateData struct {
	*tetris.Frame
	NoGhost bool
}

// Render draws frames onto a raw terminal. It implements tetris.Presenter.
type Render struct {
	writer   io.Writer
	logger   *slog.Logger
	template *template.Template
	noGhost  bool
}

func NewRender(w io.Writer, l *slog.Logger, noGhost bool) (*Render, error) {
	tmpl, err := loadTemplate()
	if err != nil {
		return nil, fmt.Errorf("failed to load template: %w", err)
	}
	return &Render{
		writer:   w,
		logger:   l,
		template: tmpl,
		noGhost:  noGhost,
	}, nil
}

func (r *Render) Render(f *tetris.Frame) {
	if f == nil || f.Tetris == nil {
		return
	}
	// the frame is built in memory and written at once to avoid flickering.
	var b strings.Builder
	b.WriteString(resetPos)
	if err := r.template.Execute(&b, &templateData{Frame: f, NoGhost: r.noGhost}); err != nil {
		r.logger.Error("unable to execute template", slog.String("error", err.Error()))
		return
	}
	if _, err := io.WriteString(r.writer, b.String()); err != nil {
		r.logger.Error("unable to write frame", slog.String("error", err.Error()))
	}
}

func loadTemplate() (*template.Template, error) {
	funcMap := template.FuncMap{
		"board": board,
		"side":  side,
	}

	// we use the console raw so new lines don't automatically transform into carriage return
	// to fix that we add a carriage return to every new line in the layout.
	l := strings.ReplaceAll(layout, "\n", clearLine+"\r\n")
	l = strings.ReplaceAll(l, "Terminal Tetris", bold+"Terminal Tetris"+reset)
	return template.New("layout").Funcs(funcMap).Parse(l)
}

// board returns the 20 rows of the playfield, top to bottom, each of them
// 20 columns wide once printed.
func board(td *templateData) []string {
	rows := make([]string, tetris.Height)
	if td == nil || td.Frame == nil || td.Tetris == nil {
		for y := range rows {
			rows[y] = strings.Repeat(emptyCell, tetris.Width)
		}
		return rows
	}
	t := td.Tetris

	cells := [tetris.Height][tetris.Width]string{}
	for y := range tetris.Height {
		for x := range tetris.Width {
			cells[y][x] = emptyCell
			if c, ok := colorMap[t.Stack[y][x]]; ok {
				cells[y][x] = cell(c)
			}
		}
	}
	for _, y := range t.FlashRows {
		if y < 0 || y >= tetris.Height {
			continue
		}
		for x := range tetris.Width {
			cells[y][x] = cell(White)
		}
	}

	if p := t.Tetromino; p != nil {
		grid := p.Grid()
		if !td.NoGhost {
			drawPiece(&cells, grid, p.X, p.GhostY, ghostCell)
		}
		drawPiece(&cells, grid, p.X, p.Y, cell(colorMap[p.Shape]))
	}

	for y := range cells {
		rows[y] = strings.Join(cells[y][:], "")
	}

	for _, p := range t.Popups {
		if p.Remaining <= 0 {
			continue
		}
		row := min(max(p.Row, 0), tetris.Height-1)
		rows[row] = banner(p.Text, popupColor[p.Kind])
	}

	switch t.State {
	case tetris.Paused:
		overlay(rows, "", "PAUSED", "", "p to resume", "")
	case tetris.AwaitingName:
		overlay(rows, nameInput(td.Frame)...)
	case tetris.ReadyToRestart:
		overlay(rows, leaderboardLines(td.Highscores)...)
	}
	return rows
}

// drawPiece skips the cells that are still above the stack.
func drawPiece(cells *[tetris.Height][tetris.Width]string, grid [4][4]bool, x, y int, c string) {
	for iy, row := range grid {
		for ix, v := range row {
			if !v {
				continue
			}
			cy, cx := y+iy, x+ix
			if cy < 0 || cy >= tetris.Height || cx < 0 || cx >= tetris.Width {
				continue
			}
			cells[cy][cx] = c
		}
	}
}

// center pads s with spaces to the width of the board.
func center(s string) string {
	width := tetris.Width * 2
	n := utf8.RuneCountInString(s)
	if n >= width {
		return string([]rune(s)[:width])
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-n-left)
}

func banner(s, color string) string {
	return bold + "\x1b[" + color + "m" + center(s) + reset
}

// overlay writes lines over the middle of the board.
func overlay(rows []string, lines ...string) {
	top := (len(rows) - len(lines)) / 2
	for i, l := range lines {
		if r := top + i; r >= 0 && r < len(rows) {
			rows[r] = "\x1b[7m" + center(l) + reset
		}
	}
}

func nameInput(f *tetris.Frame) []string {
	lines := []string{"", "GAME OVER", "", fmt.Sprintf("Score %d", f.Score)}
	if f.NewHighscore {
		lines = append(lines, "NEW HIGHSCORE!")
	}
	return append(lines,
		"",
		"Enter your name:",
		f.PlayerName+"_",
		"",
		"enter to confirm",
		"",
	)
}

func leaderboardLines(entries []leaderboard.Entry) []string {
	lines := []string{"", "HIGHSCORES", ""}
	if len(entries) == 0 {
		lines = append(lines, "no scores yet")
	}
	for i, e := range entries {
		lines = append(lines, fmt.Sprintf("%d %-10s %7d", i+1, e.Name, e.Score))
	}
	return append(lines, "", "any key to restart", "")
}

// preview returns the two middle rows of the spawn orientation of t, which
// is where every tetromino has its cells.
func preview(t *tetris.Tetromino) []string {
	if t == nil {
		return []string{strings.Repeat(emptyCell, 4), strings.Repeat(emptyCell, 4)}
	}
	grid := t.Preview()
	var rendered []string
	for i := 1; i <= 2; i++ {
		row := []string{emptyCell, emptyCell, emptyCell, emptyCell}
		for iv, v := range grid[i] {
			if v {
				row[iv] = cell(colorMap[t.Shape])
			}
		}
		rendered = append(rendered, strings.Join(row, ""))
	}
	return rendered
}

// side returns the panel printed to the right of every row of the board.
func side(td *templateData) []string {
	lines := make([]string, tetris.Height)
	if td == nil || td.Frame == nil || td.Tetris == nil {
		return lines
	}
	t := td.Tetris
	next := preview(t.NextTetromino)
	held := preview(t.Held)
	stat := func(name string, v int) string {
		return fmt.Sprintf("%-12s%*d", name, sideWidth-12, v)
	}

	copy(lines, []string{
		"Next",
		next[0],
		next[1],
		"",
		"Hold",
		held[0],
		held[1],
		"",
		stat("Score", t.Score),
		stat("Level", t.Level),
		stat("Lines", t.LinesClear),
		stat("Multiplier", t.Multiplier),
		"",
		"←/→/↓  move",
		"↑      rotate",
		"space  drop",
		"c      hold",
		"p      pause",
		"esc    quit",
	})
	return lines
}
