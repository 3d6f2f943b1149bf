package tetris

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/edevardHvide/tetris-play/leaderboard"
)

type Action string

const (
	MoveLeft  Action = "left"      // Moves the Tetromino one step to the left.
	MoveRight Action = "right"     // Moves the Tetromino one step to the right.
	MoveDown  Action = "down"      // Moves the Tetromino one step down.
	DropDown  Action = "drop"      // Drops the Tetromino down the stack.
	Rotate    Action = "rotate"    // Rotates the Tetromino clockwise.
	Hold      Action = "hold"      // Banks or swaps the Tetromino.
	Pause     Action = "pause"     // Toggles pause.
	Restart   Action = "restart"   // Starts a new game once the score is recorded.
	Quit      Action = "quit"      // Ends the loop.
	TypeRune  Action = "type"      // A key with no game action, only useful as a name character.
	Backspace Action = "backspace" // Deletes the last character of the name.
	Confirm   Action = "confirm"   // Submits the name to the leaderboard.
)

// Input is a single key press. Rune carries the typed character, used
// only while the player is entering a name.
type Input struct {
	Action Action
	Rune   rune
}

// Frame is what gets rendered every tick.
type Frame struct {
	*Tetris
	Highscores   []leaderboard.Entry
	NewHighscore bool
}

// Presenter draws frames. It must not block nor fail the loop.
type Presenter interface {
	Render(*Frame)
}

const (
	frameInterval = time.Second / 60
	inputBuffer   = 64
)

type Game struct {
	inputCh chan Input
	doneCh  chan struct{}

	tetris  *Tetris
	scores  []leaderboard.Entry
	store   leaderboard.Store
	render  Presenter
	effects Effects
	clock   Clock
	ticker  Ticker
	rng     *rand.Rand
	logger  *slog.Logger
}

type Options struct {
	Store     leaderboard.Store
	Presenter Presenter
	Effects   Effects
	Logger    *slog.Logger

	// Clock, Ticker and Rand default to the real thing.
	Clock  Clock
	Ticker Ticker
	Rand   *rand.Rand
}

func NewGame(o *Options) *Game {
	g := &Game{
		inputCh: make(chan Input, inputBuffer),
		doneCh:  make(chan struct{}),
		store:   o.Store,
		render:  o.Presenter,
		effects: o.Effects,
		clock:   o.Clock,
		ticker:  o.Ticker,
		rng:     o.Rand,
		logger:  o.Logger,
	}
	if g.store == nil {
		g.store = leaderboard.NewMemoryStore()
	}
	if g.render == nil {
		g.render = discard{}
	}
	if g.clock == nil {
		g.clock = systemClock{}
	}
	if g.ticker == nil {
		g.ticker = newWrappedTicker(time.Hour)
	}
	if g.logger == nil {
		g.logger = slog.New(slog.DiscardHandler)
	}
	return g
}

type discard struct{}

func (discard) Render(*Frame) {}

// Action queues a key press for the next frame. It returns immediately
// once the loop has finished.
func (g *Game) Action(a Action) {
	g.Input(Input{Action: a})
}

func (g *Game) Input(in Input) {
	select {
	case g.inputCh <- in:
	case <-g.doneCh:
	}
}

// Run is the game loop. Every frame it applies the pending inputs in
// order, advances the timers and renders once. It returns when ctx is
// cancelled or a Quit input is received.
func (g *Game) Run(ctx context.Context) {
	defer close(g.doneCh)
	g.scores = g.store.Load()
	g.start()
	g.render.Render(g.Read())

	g.ticker.Reset(frameInterval)
	defer g.ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			g.logger.Debug("game loop cancelled", slog.String("game", g.tetris.ID))
			return
		case <-g.ticker.C():
			if !g.drain() {
				g.logger.Info("quit", slog.String("game", g.tetris.ID))
				return
			}
			g.step(g.tetris.update)
			g.render.Render(g.Read())
		}
	}
}

// drain applies every queued input. It returns false on Quit.
func (g *Game) drain() bool {
	for {
		select {
		case in := <-g.inputCh:
			if in.Action == Quit {
				return false
			}
			g.apply(in)
		default:
			return true
		}
	}
}

func (g *Game) apply(in Input) {
	t := g.tetris
	switch t.State {
	case AwaitingName:
		// keys are typed as they are, 'a' is a letter here and not a move.
		switch {
		case in.Action == Backspace:
			t.backspace()
		case in.Action == Confirm:
			g.submit()
		case in.Rune != 0:
			t.typeRune(in.Rune)
		}
		return
	case ReadyToRestart:
		g.start()
		return
	}

	g.step(func() {
		switch in.Action {
		case MoveLeft:
			t.left()
		case MoveRight:
			t.right()
		case MoveDown:
			t.down()
		case DropDown:
			t.drop()
		case Rotate:
			t.rotate()
		case Hold:
			t.hold()
		case Pause:
			t.togglePause()
		}
	})
}

// step runs fn and logs the state change it caused, if any.
func (g *Game) step(fn func()) {
	prev := g.tetris.State
	fn()
	if cur := g.tetris.State; cur != prev {
		g.logger.Debug("state changed",
			slog.String("game", g.tetris.ID),
			slog.String("from", prev.String()),
			slog.String("to", cur.String()),
		)
		if cur == AwaitingName {
			g.logger.Info("game over",
				slog.String("game", g.tetris.ID),
				slog.Int("score", g.tetris.Score),
				slog.Int("level", g.tetris.Level),
				slog.Int("lines", g.tetris.LinesClear),
			)
		}
	}
}

// start throws the current session away and begins a new one.
func (g *Game) start() {
	g.tetris = newTetris(g.clock, g.effects, g.rng)
	g.logger.Info("game started", slog.String("game", g.tetris.ID))
}

func (g *Game) submit() {
	e, ok := g.tetris.confirmName()
	if !ok {
		return
	}
	g.scores = leaderboard.Add(g.scores, e)
	if err := g.store.Save(g.scores); err != nil {
		g.logger.Error("unable to save highscores", slog.String("error", err.Error()))
		return
	}
	g.logger.Info("highscore recorded",
		slog.String("game", g.tetris.ID),
		slog.String("name", e.Name),
		slog.Int("score", e.Score),
	)
}

// Read returns a copy of the current game that's safe to keep around.
func (g *Game) Read() *Frame {
	t := g.tetris.snapshot()
	return &Frame{
		Tetris:       t,
		Highscores:   slices.Clone(g.scores),
		NewHighscore: t.State == AwaitingName && leaderboard.IsHighscore(g.scores, t.Score),
	}
}
