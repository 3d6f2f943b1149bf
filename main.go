package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/edevardHvide/tetris-play/audio"
	"github.com/edevardHvide/tetris-play/client"
	"github.com/edevardHvide/tetris-play/config"
	"github.com/edevardHvide/tetris-play/tetris"
	"golang.org/x/term"
)

const (
	hideCursor = "\033[2J\033[?25l" // also clear screen
	showCursor = "\033[23;0H\n\r\033[?25h"

	minWidth  = 52
	minHeight = 23
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "tetris: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, cfgErr := config.Load(config.DefaultPath)

	// the terminal is where the game is drawn, logs go to a file.
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("unable to open log file: %w", err)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: cfg.Level()}))
	if cfgErr != nil {
		logger.Warn("using default configuration", slog.String("error", cfgErr.Error()))
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("stdin is not a terminal")
	}
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && (w < minWidth || h < minHeight) {
		logger.Warn("terminal is smaller than the game",
			slog.Int("width", w),
			slog.Int("height", h),
		)
	}

	store, closeStore, err := cfg.BuildStore(logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("unable to close highscores store", slog.String("error", err.Error()))
		}
	}()

	var fx tetris.Effects
	if !cfg.Mute {
		sm := audio.NewSoundManager(logger)
		if err := sm.Initialize(); err != nil {
			logger.Warn("audio disabled", slog.String("error", err.Error()))
		}
		defer sm.Cleanup()
		fx = sm
	}

	render, err := client.NewRender(os.Stdout, logger, cfg.NoGhost)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	game := tetris.NewGame(&tetris.Options{
		Store:     store,
		Presenter: render,
		Effects:   fx,
		Logger:    logger,
	})
	cl, err := client.New(logger, game)
	if err != nil {
		return err
	}
	defer cl.Close()

	fmt.Print(hideCursor)
	defer fmt.Print(showCursor)

	go cl.Listen(ctx)
	game.Run(ctx)
	stop()
	logger.Info("bye")
	return nil
}
