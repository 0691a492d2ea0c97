package comm

import (
	"time"

	"github.com/google/uuid"

	"github.com/nakedmcse/blackjack-go/internal/blackjack/models"
)

// GameEvent is the payload fanned out when a game reaches a terminal
// status. It goes to the NATS subject and to websocket feed clients.
type GameEvent struct {
	Token       uuid.UUID         `json:"token"`
	Device      string            `json:"device"` // device hash, not raw identity
	Status      models.PlayStatus `json:"status"`
	Outcome     models.Outcome    `json:"outcome"`
	PlayerScore int               `json:"player_score"`
	DealerScore int               `json:"dealer_score"`
	ResolvedAt  time.Time         `json:"resolved_at"`
}
