package handlers

import (
	"github.com/google/uuid"

	"github.com/nakedmcse/blackjack-go/internal/blackjack/models"
)

type GameResponse struct {
	Token       uuid.UUID         `json:"token"`
	Device      string            `json:"device"`
	Status      models.PlayStatus `json:"status"`
	Cards       []string          `json:"cards"`
	HandValue   int               `json:"handValue"`
	DealerCards []string          `json:"dealerCards"`
	DealerValue int               `json:"dealerValue"`
	Deck        []string          `json:"deck,omitempty"`
}

type StatsResponse struct {
	Device  string `json:"device,omitempty"`
	Wins    int64  `json:"wins"`
	Loses   int64  `json:"loses"`
	Draws   int64  `json:"draws"`
	WinRate string `json:"winRate"`
}

// buildFromGame shapes a game for the wire. While the game is still
// Playing only the dealer's up card is shown and the dealer value stays
// 0; a finished game reveals everything, remaining deck included.
func (h *Handler) buildFromGame(game *models.Game) GameResponse {
	rsp := GameResponse{
		Token:     game.Token,
		Device:    game.Device,
		Status:    game.Status,
		Cards:     game.PlayerCards,
		HandValue: h.games.Score(game.PlayerCards),
	}

	if game.Status.Terminal() {
		rsp.DealerCards = game.DealerCards
		rsp.DealerValue = h.games.Score(game.DealerCards)
		rsp.Deck = game.Deck
	} else if len(game.DealerCards) > 0 {
		rsp.DealerCards = game.DealerCards[:1]
	}

	return rsp
}
