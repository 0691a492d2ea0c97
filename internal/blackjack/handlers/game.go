package handlers

import (
	"net/http"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/nakedmcse/blackjack-go/internal/blackjack/service"
)

// Deal returns the device's active game, creating one when there is none.
func (h *Handler) Deal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	device := deviceID(r)
	log.Infof("DEAL: %s", device)

	game, err := h.games.GetActiveGame(ctx, device, nil)
	if err != nil {
		h.serverError(w, err)
		return
	}
	if game == nil {
		game, err = h.games.NewGame(ctx, device)
		if err != nil {
			h.serverError(w, err)
			return
		}
	}

	h.CreateResponse(w, Response{Code: http.StatusOK, Data: h.buildFromGame(game)})
}

// Hit draws a card for the player of the active game.
func (h *Handler) Hit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	device := deviceID(r)

	token, ok := h.parseToken(w, r)
	if !ok {
		return
	}

	game, err := h.games.GetActiveGame(ctx, device, token)
	if err != nil {
		h.serverError(w, err)
		return
	}
	if game == nil {
		h.notFound(w)
		return
	}

	game, err = h.games.Hit(ctx, game)
	if err != nil {
		h.serverError(w, err)
		return
	}

	h.CreateResponse(w, Response{Code: http.StatusOK, Data: h.buildFromGame(game)})
}

// Stay ends the player's turn, plays out the dealer and resolves the game.
func (h *Handler) Stay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	device := deviceID(r)

	token, ok := h.parseToken(w, r)
	if !ok {
		return
	}

	game, err := h.games.GetActiveGame(ctx, device, token)
	if err != nil {
		h.serverError(w, err)
		return
	}
	if game == nil {
		h.notFound(w)
		return
	}

	game, playerScore, dealerScore, err := h.games.Stay(ctx, game)
	if err != nil {
		h.serverError(w, err)
		return
	}

	rsp := h.buildFromGame(game)
	rsp.HandValue = playerScore
	rsp.DealerValue = dealerScore
	h.CreateResponse(w, Response{Code: http.StatusOK, Data: rsp})
}

// History lists the device's finished games, fully revealed.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	device := deviceID(r)

	games, err := h.games.GetAllGames(ctx, device)
	if err != nil {
		h.serverError(w, err)
		return
	}

	history := make([]GameResponse, 0, len(games))
	for _, game := range games {
		history = append(history, h.buildFromGame(game))
	}

	h.CreateResponse(w, Response{Code: http.StatusOK, Data: history})
}

// DeviceStats returns the requesting device's win/lose/draw counters.
func (h *Handler) DeviceStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	device := deviceID(r)

	stat, err := h.stats.DeviceStats(ctx, device)
	if err != nil {
		h.serverError(w, err)
		return
	}

	h.CreateResponse(w, Response{Code: http.StatusOK, Data: StatsResponse{
		Device:  stat.Device,
		Wins:    stat.Wins,
		Loses:   stat.Loses,
		Draws:   stat.Draws,
		WinRate: service.WinRate(stat),
	}})
}

// AdminStats returns the counters summed across every device.
func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	stat, err := h.stats.Totals(r.Context())
	if err != nil {
		h.serverError(w, err)
		return
	}

	h.CreateResponse(w, Response{Code: http.StatusOK, Data: StatsResponse{
		Wins:    stat.Wins,
		Loses:   stat.Loses,
		Draws:   stat.Draws,
		WinRate: service.WinRate(stat),
	}})
}

// parseToken reads the optional token query parameter. The bool is false
// when the token was present but malformed; the 400 is already written.
func (h *Handler) parseToken(w http.ResponseWriter, r *http.Request) (*uuid.UUID, bool) {
	raw := r.URL.Query().Get("token")
	if raw == "" {
		return nil, true
	}
	token, err := uuid.Parse(raw)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "invalid token"})
		return nil, false
	}
	return &token, true
}

func (h *Handler) notFound(w http.ResponseWriter) {
	h.CreateResponse(w, Response{Code: http.StatusNotFound, Error: "no active game found"})
}

func (h *Handler) serverError(w http.ResponseWriter, err error) {
	log.Errorf("Error handling request: %v", err)
	h.CreateResponse(w, Response{Code: http.StatusInternalServerError, Error: err.Error()})
}
