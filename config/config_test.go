package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/edevardHvide/tetris-play/leaderboard"
	"github.com/pixil98/go-testutil"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultPath)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

func TestLoad_MissingFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), DefaultPath))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "config", *c, *Default())
	testutil.AssertEqual(t, "highscores", c.HighscoresPath(), "tetris_highscores.json")
	testutil.AssertEqual(t, "level", c.Level(), slog.LevelInfo)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `{
		"highscores": "scores/board.db",
		"store": "sqlite",
		"mute": true,
		"no_ghost": true,
		"log_file": "debug.log",
		"log_level": "debug"
	}`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "config", *c, Config{
		Highscores: "scores/board.db",
		Store:      StoreSQLite,
		Mute:       true,
		NoGhost:    true,
		LogFile:    "debug.log",
		LogLevel:   "debug",
	})
	testutil.AssertEqual(t, "level", c.Level(), slog.LevelDebug)
}

func TestLoad_PartialFile(t *testing.T) {
	c, err := Load(writeConfig(t, `{"store": "sqlite"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "highscores", c.HighscoresPath(), "tetris_highscores.db")
	testutil.AssertEqual(t, "log file", c.LogFile, "tetris.log")
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"not json", `{store`, "parsing"},
		{"unknown store", `{"store": "redis"}`, "store must be"},
		{"bad log level", `{"log_level": "loud"}`, "log_level"},
		{"empty log file", `{"log_file": " "}`, "log_file can't be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, err := Load(writeConfig(t, tt.data))
			testutil.AssertErrorContains(t, err, tt.want)
			testutil.AssertEqual(t, "falls back to defaults", *c, *Default())
		})
	}
}

func TestValidate_AggregatesErrors(t *testing.T) {
	c := &Config{Store: "redis", LogLevel: "loud", LogFile: ""}
	err := c.validate()
	testutil.AssertErrorContains(t, err, "store must be")
	testutil.AssertErrorContains(t, err, "log_level")
	testutil.AssertErrorContains(t, err, "log_file")
}

func TestBuildStore(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		c := Default()
		c.Highscores = filepath.Join(t.TempDir(), "scores.json")
		s, closer, err := c.BuildStore(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer closer()
		if _, ok := s.(*leaderboard.FileStore); !ok {
			t.Errorf("expected a file store, got %T", s)
		}
	})

	t.Run("sqlite", func(t *testing.T) {
		c := Default()
		c.Store = StoreSQLite
		c.Highscores = filepath.Join(t.TempDir(), "scores.db")
		s, closer, err := c.BuildStore(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer closer()
		if _, ok := s.(*leaderboard.SQLiteStore); !ok {
			t.Errorf("expected a sqlite store, got %T", s)
		}
	})
}
