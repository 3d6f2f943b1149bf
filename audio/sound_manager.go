// Package audio plays the sound cues of the game on the default output
// device. Without a device it stays silent.
package audio

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)

	lineClearVolume    = 0.7
	multiplierUpVolume = 0.6
)

// SoundManager implements tetris.Effects.
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	logger      *slog.Logger
	initialized bool
}

func NewSoundManager(logger *slog.Logger) *SoundManager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SoundManager{
		mixer:  &beep.Mixer{},
		logger: logger,
	}
}

// Initialize opens the speaker. On error the manager keeps working as a
// no-op.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return fmt.Errorf("initializing speaker: %w", err)
	}
	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup stops every sound and releases the speaker.
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	sm.initialized = false
}

func (sm *SoundManager) LineClear() {
	sm.play("line_clear", lineClearSound)
}

func (sm *SoundManager) MultiplierUp() {
	sm.play("multiplier_up", multiplierUpSound)
}

func (sm *SoundManager) play(name string, sound func(beep.SampleRate) beep.Streamer) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	// the mixer is read by the speaker goroutine.
	speaker.Lock()
	sm.mixer.Add(sound(sampleRate))
	speaker.Unlock()
	sm.logger.Debug("sound", slog.String("name", name))
}
