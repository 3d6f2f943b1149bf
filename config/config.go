// Package config reads the optional tetris.json file. Every field has a
// default, so a missing file is a valid configuration.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/edevardHvide/tetris-play/leaderboard"
	"github.com/pixil98/go-errors"
)

const (
	DefaultPath = "tetris.json"

	StoreFile   = "file"
	StoreSQLite = "sqlite"

	defaultFileHighscores   = "tetris_highscores.json"
	defaultSQLiteHighscores = "tetris_highscores.db"
	defaultLogFile          = "tetris.log"
)

type Config struct {
	Highscores string `json:"highscores"`
	Store      string `json:"store"`
	Mute       bool   `json:"mute"`
	NoGhost    bool   `json:"no_ghost"`
	LogFile    string `json:"log_file"`
	LogLevel   string `json:"log_level"`
}

func Default() *Config {
	return &Config{
		Store:    StoreFile,
		LogFile:  defaultLogFile,
		LogLevel: "info",
	}
}

// Load reads the configuration at path on top of the defaults. When the
// file can't be used the defaults are returned along with the reason.
func Load(path string) (*Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return Default(), fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, c); err != nil {
		return Default(), fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := c.validate(); err != nil {
		return Default(), fmt.Errorf("validating %s: %w", path, err)
	}
	return c, nil
}

func (c *Config) validate() error {
	el := errors.NewErrorList()

	switch c.Store {
	case StoreFile, StoreSQLite:
	case "":
		c.Store = StoreFile
	default:
		el.Add(fmt.Errorf("store must be %q or %q, got %q", StoreFile, StoreSQLite, c.Store))
	}
	if c.LogLevel != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
			el.Add(fmt.Errorf("parsing log_level: %w", err))
		}
	}
	if strings.TrimSpace(c.LogFile) == "" {
		el.Add(fmt.Errorf("log_file can't be empty"))
	}

	return el.Err()
}

// Level is the minimum level written to the log file.
func (c *Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// HighscoresPath is the file or database the leaderboard is kept in.
func (c *Config) HighscoresPath() string {
	switch {
	case c.Highscores != "":
		return c.Highscores
	case c.Store == StoreSQLite:
		return defaultSQLiteHighscores
	}
	return defaultFileHighscores
}

// BuildStore returns the leaderboard store and the function that
// releases it.
func (c *Config) BuildStore(l *slog.Logger) (leaderboard.Store, func() error, error) {
	if c.Store == StoreSQLite {
		s, err := leaderboard.OpenSQLite(c.HighscoresPath(), l)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return s, s.Close, nil
	}
	return leaderboard.NewFileStore(c.HighscoresPath(), l), func() error { return nil }, nil
}
