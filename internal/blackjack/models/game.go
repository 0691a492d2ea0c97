package models

import (
	"time"

	"github.com/google/uuid"
)

// PlayStatus is the lifecycle state of a game. Playing is the only state
// that still accepts hit/stay, the other five are terminal.
type PlayStatus string

const (
	StatusPlaying    PlayStatus = "Playing"
	StatusBust       PlayStatus = "Bust"
	StatusDealerBust PlayStatus = "DealerBust"
	StatusPlayerWins PlayStatus = "PlayerWins"
	StatusDealerWins PlayStatus = "DealerWins"
	StatusDraw       PlayStatus = "Draw"
)

func (s PlayStatus) Terminal() bool {
	return s != StatusPlaying
}

// Outcome is what gets recorded against a device when a game resolves.
type Outcome string

const (
	OutcomeWin  Outcome = "WIN"
	OutcomeLose Outcome = "LOSE"
	OutcomeDraw Outcome = "DRAW"
)

type Game struct {
	ID          int64      `json:"id"`     // Primary key
	Token       uuid.UUID  `json:"token"`  // External handle for the session
	Device      string     `json:"device"` // Owning device hash
	Status      PlayStatus `json:"status"`
	Deck        []string   `json:"deck"` // Remaining shoe, drawn from the end
	PlayerCards []string   `json:"player_cards"`
	DealerCards []string   `json:"dealer_cards"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
