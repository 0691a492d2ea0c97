package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"os"

	"github.com/go-chi/jwtauth"

	"github.com/nakedmcse/blackjack-go/internal/blackjack/models"
	"github.com/nakedmcse/blackjack-go/internal/blackjack/service"
)

// StatsProvider serves the read side of the stats counters.
type StatsProvider interface {
	DeviceStats(ctx context.Context, device string) (*models.Stat, error)
	Totals(ctx context.Context) (*models.Stat, error)
}

type Handler struct {
	games     *service.GameService
	stats     StatsProvider
	feed      *Feed
	tokenAuth *jwtauth.JWTAuth
}

func NewHandler(games *service.GameService, stats StatsProvider, feed *Feed) *Handler {
	return &Handler{
		games: games,
		stats: stats,
		feed:  feed,
	}
}

type Response struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error"`
}

func (h *Handler) CreateResponse(w http.ResponseWriter, rsp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rsp.Code)

	json.NewEncoder(w).Encode(rsp)
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	h.CreateResponse(w, Response{
		Message: "blackjack service is running at port " + os.Getenv("GAME_SERVICE_PORT"),
		Code:    200,
		Data:    nil,
	})
}
