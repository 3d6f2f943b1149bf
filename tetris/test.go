package tetris

import (
	"math/rand/v2"
	"sync"
	"time"
)

// FakeClock is a Clock that only moves when told to.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// MockTicker is a mock implementation of the ticker interface.
type MockTicker struct {
	ch          chan time.Time
	stop, reset bool
	mu          sync.Mutex
}

func NewMockTicker() *MockTicker          { return &MockTicker{ch: make(chan time.Time)} }
func (m *MockTicker) C() <-chan time.Time { return m.ch }

// Tick blocks until the loop has picked the tick up.
func (m *MockTicker) Tick() { m.ch <- time.Now() }

func (m *MockTicker) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stop = true
}

func (m *MockTicker) Reset(time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset = true
}

func (m *MockTicker) IsReset() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reset
}

func (m *MockTicker) IsStop() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stop
}

// NewTestTetris creates a session with a fake clock where both the current
// and the next tetromino are of the given shape.
func NewTestTetris(shape Shape) (*Tetris, *FakeClock) {
	clock := NewFakeClock()
	t := &Tetris{
		ID:            "test",
		Stack:         emptyStack(),
		Tetromino:     newTetromino(shape),
		NextTetromino: newTetromino(shape),
		Level:         1,
		Multiplier:    1,
		State:         Falling,
		dropInterval:  initialDropInterval,
		lastDrop:      clock.Now(),
		clock:         clock,
		effects:       noEffects{},
		rng:           rand.New(rand.NewPCG(1, 2)),
	}
	return t, clock
}
