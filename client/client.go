// Package client is the terminal surface of the game: it turns key presses
// into game inputs and draws frames with ANSI escape codes.
package client

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/edevardHvide/tetris-play/tetris"
	"github.com/eiannone/keyboard"
)

type game interface {
	Input(tetris.Input)
}

type Client struct {
	game   game
	logger *slog.Logger
	kbCh   <-chan keyboard.KeyEvent
}

// New opens the keyboard. Close must be called to give it back.
func New(l *slog.Logger, g game) (*Client, error) {
	kb, err := keyboard.GetKeys(20)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyboard: %w", err)
	}
	return &Client{
		game:   g,
		logger: l,
		kbCh:   kb,
	}, nil
}

func (c *Client) Close() {
	if err := keyboard.Close(); err != nil {
		c.logger.Error("unable to close keyboard", slog.String("error", err.Error()))
	}
}

// Listen forwards key presses to the game until ctx is done, the player
// quits or the keyboard goes away. Quitting is forwarded too.
func (c *Client) Listen(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-c.kbCh:
			if !ok {
				c.logger.Error("keyboard events channel closed unexpectedly")
				c.game.Input(tetris.Input{Action: tetris.Quit})
				return
			}
			if event.Err != nil {
				c.logger.Error("keyboard event error", slog.String("error", event.Err.Error()))
				c.game.Input(tetris.Input{Action: tetris.Quit})
				return
			}
			in, ok := toInput(event)
			if !ok {
				continue
			}
			c.game.Input(in)
			if in.Action == tetris.Quit {
				return
			}
		}
	}
}

// toInput maps a key press to a game input. Printable keys always carry
// their rune so they can be typed as a name.
func toInput(event keyboard.KeyEvent) (tetris.Input, bool) {
	in := tetris.Input{Rune: event.Rune}
	switch {
	case event.Key == keyboard.KeyCtrlC || event.Key == keyboard.KeyEsc:
		in.Action = tetris.Quit
	case event.Key == keyboard.KeyArrowLeft || event.Rune == 'a':
		in.Action = tetris.MoveLeft
	case event.Key == keyboard.KeyArrowRight || event.Rune == 'd':
		in.Action = tetris.MoveRight
	case event.Key == keyboard.KeyArrowDown || event.Rune == 's':
		in.Action = tetris.MoveDown
	case event.Key == keyboard.KeyArrowUp || event.Rune == 'w':
		in.Action = tetris.Rotate
	case event.Key == keyboard.KeySpace:
		in.Action = tetris.DropDown
	case event.Rune == 'c':
		in.Action = tetris.Hold
	case event.Rune == 'p':
		in.Action = tetris.Pause
	case event.Rune == 'r':
		in.Action = tetris.Restart
	case event.Key == keyboard.KeyEnter:
		in.Action = tetris.Confirm
	case event.Key == keyboard.KeyBackspace || event.Key == keyboard.KeyBackspace2:
		in.Action = tetris.Backspace
	case event.Rune != 0:
		in.Action = tetris.TypeRune
	default:
		return tetris.Input{}, false
	}
	return in, true
}
