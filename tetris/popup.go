package tetris

import (
	"fmt"
	"time"
)

type PopupKind int

const (
	PointsPopup PopupKind = iota
	MultiplierPopup
	LevelUpPopup
)

const (
	pointsPopupLife = 1500 * time.Millisecond
	bonusPopupLife  = 2 * time.Second
)

// Popup is a short lived message shown over the board after a clear.
type Popup struct {
	Kind      PopupKind
	Text      string
	Row       int // board row the message is centered on
	Remaining time.Duration

	start time.Time
	life  time.Duration
}

func newPointsPopup(points int, now time.Time) Popup {
	return Popup{Kind: PointsPopup, Text: fmt.Sprintf("+%d", points), Row: Height / 2, start: now, life: pointsPopupLife}
}

func newMultiplierPopup(m int, now time.Time) Popup {
	return Popup{Kind: MultiplierPopup, Text: fmt.Sprintf("MULTIPLIER x%d!", m), Row: Height/2 + 2, start: now, life: bonusPopupLife}
}

func newLevelUpPopup(level int, now time.Time) Popup {
	return Popup{Kind: LevelUpPopup, Text: fmt.Sprintf("LEVEL UP! %d", level), Row: Height/2 - 2, start: now, life: bonusPopupLife}
}

func (p Popup) alive(now time.Time) bool {
	return now.Sub(p.start) < p.life
}
