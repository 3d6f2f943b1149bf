// Package tetris contains the logic of the game: the stack, the
// tetrominoes, scoring, combos, hold and the loop that drives them.
package tetris

import (
	"math/rand/v2"
	"slices"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/edevardHvide/tetris-play/leaderboard"
	"github.com/google/uuid"
)

type State int

const (
	Falling        State = iota // a piece is under the player's control.
	Clearing                    // full rows are flashing before they are removed.
	Paused                      // every timer is frozen until unpaused.
	AwaitingName                // the game is over and the player types a name.
	ReadyToRestart              // the score was recorded, any key starts over.
)

func (s State) String() string {
	switch s {
	case Falling:
		return "falling"
	case Clearing:
		return "clearing"
	case Paused:
		return "paused"
	case AwaitingName:
		return "awaiting_name"
	case ReadyToRestart:
		return "ready_to_restart"
	}
	return "unknown"
}

const (
	initialDropInterval = time.Second
	minDropInterval     = 100 * time.Millisecond
	dropDecay           = 0.9995
	levelStep           = 50 * time.Millisecond
	linesPerLevel       = 10

	flashDuration = 500 * time.Millisecond
	comboWindow   = 5 * time.Second

	maxNameLength = 10
	anonymous     = "Anonymous"

	popupRise = 500 * time.Millisecond
)

// lineScores is the base score by number of rows cleared at once.
var lineScores = [5]int{0, 100, 300, 500, 800}

// Effects receives the sound cues of the game. Implementations must not
// fail loudly: a missing audio device degrades to silence.
type Effects interface {
	LineClear()
	MultiplierUp()
}

type noEffects struct{}

func (noEffects) LineClear()    {}
func (noEffects) MultiplierUp() {}

// Tetris is one game session. It is created on start or restart and
// thrown away as a whole, never reset field by field.
type Tetris struct {
	ID string

	Stack         Stack
	Tetromino     *Tetromino
	NextTetromino *Tetromino
	Held          *Tetromino

	Score      int
	Level      int
	LinesClear int
	Multiplier int

	FlashRows  []int
	Popups     []Popup
	State      State
	PlayerName string

	dropInterval time.Duration
	lastDrop     time.Time
	lastClear    time.Time
	flashStart   time.Time
	holdUsed     bool
	resumeState  State
	pausedAt     time.Time

	clock   Clock
	effects Effects
	rng     *rand.Rand
}

func newTetris(clock Clock, fx Effects, rng *rand.Rand) *Tetris {
	if clock == nil {
		clock = systemClock{}
	}
	if fx == nil {
		fx = noEffects{}
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	t := &Tetris{
		ID:           uuid.NewString(),
		Stack:        emptyStack(),
		Level:        1,
		Multiplier:   1,
		State:        Falling,
		dropInterval: initialDropInterval,
		lastDrop:     clock.Now(),
		clock:        clock,
		effects:      fx,
		rng:          rng,
	}
	t.spawn()
	return t
}

// GameOver reports whether the session has ended.
func (t *Tetris) GameOver() bool {
	return t.State == AwaitingName || t.State == ReadyToRestart
}

func (t *Tetris) randomShape() Shape {
	return Shapes[t.rng.IntN(len(Shapes))]
}

// spawn promotes the next tetromino to current, drafts a new next one and
// checks whether there is room for it. No room means game over.
func (t *Tetris) spawn() {
	if t.NextTetromino != nil {
		t.Tetromino = t.NextTetromino
	} else {
		t.Tetromino = newTetromino(t.randomShape())
	}
	t.NextTetromino = newTetromino(t.randomShape())
	t.Tetromino.X, t.Tetromino.Y = spawnX, spawnY
	t.dropInterval = max(minDropInterval, time.Duration(float64(t.dropInterval)*dropDecay))
	t.holdUsed = false
	if t.Stack.collides(t.Tetromino, t.Tetromino.X, t.Tetromino.Y) {
		t.State = AwaitingName
	}
}

func (t *Tetris) left() {
	if t.State != Falling {
		return
	}
	if !t.Stack.collides(t.Tetromino, t.Tetromino.X-1, t.Tetromino.Y) {
		t.Tetromino.X--
	}
}

func (t *Tetris) right() {
	if t.State != Falling {
		return
	}
	if !t.Stack.collides(t.Tetromino, t.Tetromino.X+1, t.Tetromino.Y) {
		t.Tetromino.X++
	}
}

// down moves the tetromino one row down and reports whether it is still
// falling. When it can't move it is locked onto the stack.
func (t *Tetris) down() bool {
	if t.State != Falling {
		return false
	}
	if !t.Stack.collides(t.Tetromino, t.Tetromino.X, t.Tetromino.Y+1) {
		t.Tetromino.Y++
		return true
	}
	t.lock()
	return false
}

// drop drives the tetromino down until it locks.
func (t *Tetris) drop() {
	for t.down() {
	}
}

// rotate turns the tetromino clockwise and turns it back when the new
// orientation doesn't fit. There are no wall kicks.
func (t *Tetris) rotate() {
	if t.State != Falling {
		return
	}
	t.Tetromino.rotate(1)
	if t.Stack.collides(t.Tetromino, t.Tetromino.X, t.Tetromino.Y) {
		t.Tetromino.rotate(-1)
	}
}

// hold banks the current tetromino, or swaps it with the banked one.
// It can be used once per spawned piece.
func (t *Tetris) hold() {
	if t.State != Falling || t.holdUsed {
		return
	}
	if t.Held == nil {
		t.Held = t.Tetromino
		t.Tetromino = t.NextTetromino
		t.NextTetromino = newTetromino(t.randomShape())
	} else {
		t.Held, t.Tetromino = t.Tetromino, t.Held
	}
	t.Tetromino.X, t.Tetromino.Y = spawnX, spawnY
	t.holdUsed = true
	if t.Stack.collides(t.Tetromino, t.Tetromino.X, t.Tetromino.Y) {
		t.State = AwaitingName
	}
}

func (t *Tetris) lock() {
	t.Stack.place(t.Tetromino, t.Tetromino.X, t.Tetromino.Y)
	now := t.clock.Now()
	rows := t.Stack.fullRows()
	if len(rows) == 0 {
		t.decayCombo(now)
		t.spawn()
		return
	}
	// between the lock and the next spawn there is no tetromino, the
	// flashing rows are still on the stack until the animation ends.
	t.Tetromino = nil
	t.FlashRows = rows
	t.flashStart = now
	t.State = Clearing
	t.scoreLines(len(rows), now)
}

func (t *Tetris) scoreLines(lines int, now time.Time) {
	t.effects.LineClear()

	prev := t.Multiplier
	if now.Sub(t.lastClear) <= comboWindow {
		t.Multiplier++
	} else {
		t.Multiplier = 1
	}
	t.lastClear = now
	if t.Multiplier > prev {
		t.effects.MultiplierUp()
		t.Popups = append(t.Popups, newMultiplierPopup(t.Multiplier, now))
	}

	points := scoreFor(lines, t.Level, t.Multiplier)
	t.Score += points
	t.Popups = append(t.Popups, newPointsPopup(points, now))

	t.LinesClear += lines
	old := t.Level
	t.setLevel()
	if t.Level > old {
		t.dropInterval = levelInterval(t.Level)
		t.Popups = append(t.Popups, newLevelUpPopup(t.Level, now))
	}
}

func scoreFor(lines, level, multiplier int) int {
	if lines < 0 || lines >= len(lineScores) {
		return 0
	}
	return lineScores[lines] * level * multiplier
}

func (t *Tetris) setLevel() {
	t.Level = t.LinesClear/linesPerLevel + 1
}

// levelInterval is the gravity interval right after reaching level.
func levelInterval(level int) time.Duration {
	return max(minDropInterval, initialDropInterval-time.Duration(level-1)*levelStep)
}

func (t *Tetris) decayCombo(now time.Time) {
	if t.Multiplier > 1 && now.Sub(t.lastClear) > comboWindow {
		t.Multiplier = 1
	}
}

// update advances every time based transition: the end of the flash
// animation, gravity, combo decay and pop-up expiry.
func (t *Tetris) update() {
	now := t.clock.Now()
	switch t.State {
	case Clearing:
		if now.Sub(t.flashStart) > flashDuration {
			t.Stack.removeRows(t.FlashRows)
			t.FlashRows = nil
			t.State = Falling
			t.spawn()
			t.lastDrop = now
		}
	case Falling:
		if now.Sub(t.lastDrop) > t.dropInterval {
			t.down()
			t.lastDrop = now
		}
		t.decayCombo(now)
	case Paused:
		return
	}
	t.Popups = slices.DeleteFunc(t.Popups, func(p Popup) bool { return !p.alive(now) })
}

// togglePause freezes the session. On resume every timer is shifted by
// the time spent paused so nothing expires while the game was frozen.
func (t *Tetris) togglePause() {
	now := t.clock.Now()
	switch t.State {
	case Falling, Clearing:
		t.resumeState = t.State
		t.pausedAt = now
		t.State = Paused
	case Paused:
		d := now.Sub(t.pausedAt)
		t.lastDrop = t.lastDrop.Add(d)
		t.flashStart = t.flashStart.Add(d)
		if !t.lastClear.IsZero() {
			t.lastClear = t.lastClear.Add(d)
		}
		for i := range t.Popups {
			t.Popups[i].start = t.Popups[i].start.Add(d)
		}
		t.State = t.resumeState
	}
}

func (t *Tetris) typeRune(r rune) {
	if t.State != AwaitingName {
		return
	}
	if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
		return
	}
	if utf8.RuneCountInString(t.PlayerName) >= maxNameLength {
		return
	}
	t.PlayerName += string(r)
}

func (t *Tetris) backspace() {
	if t.State != AwaitingName || t.PlayerName == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(t.PlayerName)
	t.PlayerName = t.PlayerName[:len(t.PlayerName)-size]
}

// confirmName closes the name input and returns the leaderboard entry of
// this session.
func (t *Tetris) confirmName() (leaderboard.Entry, bool) {
	if t.State != AwaitingName {
		return leaderboard.Entry{}, false
	}
	if t.PlayerName == "" {
		t.PlayerName = anonymous
	}
	t.State = ReadyToRestart
	return leaderboard.Entry{Name: t.PlayerName, Score: t.Score}, true
}

// ghostY returns the row the tetromino would lock at if dropped.
func (t *Tetris) ghostY() int {
	y := t.Tetromino.Y
	for !t.Stack.collides(t.Tetromino, t.Tetromino.X, y+1) {
		y++
	}
	return y
}

// snapshot returns a copy of the session that is safe to hand over to
// the presentation layer.
func (t *Tetris) snapshot() *Tetris {
	now := t.clock.Now()
	if t.State == Paused {
		now = t.pausedAt
	}
	popups := make([]Popup, 0, len(t.Popups))
	for _, p := range t.Popups {
		elapsed := now.Sub(p.start)
		p.Remaining = max(0, p.life-elapsed)
		p.Row -= int(elapsed / popupRise)
		popups = append(popups, p)
	}
	s := &Tetris{
		ID:            t.ID,
		Stack:         t.Stack,
		Tetromino:     t.Tetromino.copy(),
		NextTetromino: t.NextTetromino.copy(),
		Held:          t.Held.copy(),
		Score:         t.Score,
		Level:         t.Level,
		LinesClear:    t.LinesClear,
		Multiplier:    t.Multiplier,
		FlashRows:     slices.Clone(t.FlashRows),
		Popups:        popups,
		State:         t.State,
		PlayerName:    t.PlayerName,
		dropInterval:  t.dropInterval,
	}
	if s.Tetromino != nil {
		s.Tetromino.GhostY = t.ghostY()
	}
	return s
}
