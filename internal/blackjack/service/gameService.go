package service

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/nakedmcse/blackjack-go/internal/blackjack/engine"
	"github.com/nakedmcse/blackjack-go/internal/blackjack/models"
	"github.com/nakedmcse/blackjack-go/internal/comm"
)

// GameRepository is the persistence the game engine runs against. A nil
// game with a nil error means "not found".
type GameRepository interface {
	Save(ctx context.Context, game *models.Game) (*models.Game, error)
	FindByDeviceAndStatus(ctx context.Context, device string, status models.PlayStatus) (*models.Game, error)
	FindByTokenAndStatus(ctx context.Context, token uuid.UUID, status models.PlayStatus) (*models.Game, error)
	FindAllByDeviceAndStatusNot(ctx context.Context, device string, status models.PlayStatus) ([]*models.Game, error)
	FindByToken(ctx context.Context, token uuid.UUID) (*models.Game, error)
}

// StatsRecorder receives exactly one outcome per resolved game.
type StatsRecorder interface {
	UpdateStats(ctx context.Context, device string, outcome models.Outcome) error
}

// Notifier receives resolved-game events for fan-out. Notifications are
// best effort and never fail the game operation.
type Notifier interface {
	GameResolved(event comm.GameEvent)
}

// ErrGameOver is returned when hit or stay is called on a terminal game.
var ErrGameOver = errors.New("game already over")

type GameService struct {
	repo      GameRepository
	stats     StatsRecorder
	rng       *rand.Rand
	notifiers []Notifier
}

func NewGameService(repo GameRepository, stats StatsRecorder, rng *rand.Rand, notifiers ...Notifier) *GameService {
	return &GameService{
		repo:      repo,
		stats:     stats,
		rng:       rng,
		notifiers: notifiers,
	}
}

// NewGame builds a fresh shuffled deck, deals two cards each to player
// and dealer (player first, alternating) and persists the new session.
func (s *GameService) NewGame(ctx context.Context, device string) (*models.Game, error) {
	game := &models.Game{
		Token:  uuid.New(),
		Device: device,
		Status: models.StatusPlaying,
		Deck:   engine.NewDeck(),
	}
	engine.Shuffle(game.Deck, s.rng)

	for i := 0; i < 2; i++ {
		if err := draw(game, &game.PlayerCards); err != nil {
			return nil, err
		}
		if err := draw(game, &game.DealerCards); err != nil {
			return nil, err
		}
	}

	log.Infof("DEAL: %s", game.Token)
	return s.repo.Save(ctx, game)
}

// Hit draws one card for the player. A player score above 21 busts the
// game and records the loss immediately.
func (s *GameService) Hit(ctx context.Context, game *models.Game) (*models.Game, error) {
	if game.Status.Terminal() {
		return nil, ErrGameOver
	}

	if err := draw(game, &game.PlayerCards); err != nil {
		return nil, err
	}
	log.Infof("HIT: %s", game.Token)

	if engine.Score(game.PlayerCards) > 21 {
		game.Status = models.StatusBust
		log.Info("BUST")
		return s.resolve(ctx, game, models.OutcomeLose)
	}

	return s.repo.Save(ctx, game)
}

// Stay plays out the dealer, who draws until reaching 17, then compares
// the final scores and resolves the game. The returned ints are the
// player and dealer scores.
func (s *GameService) Stay(ctx context.Context, game *models.Game) (*models.Game, int, int, error) {
	if game.Status.Terminal() {
		return nil, 0, 0, ErrGameOver
	}

	for engine.Score(game.DealerCards) < 17 {
		if err := draw(game, &game.DealerCards); err != nil {
			return nil, 0, 0, err
		}
	}

	playerScore := engine.Score(game.PlayerCards)
	dealerScore := engine.Score(game.DealerCards)

	var outcome models.Outcome
	switch {
	case dealerScore > 21:
		game.Status = models.StatusDealerBust
		outcome = models.OutcomeWin
		log.Info("DEALER BUST")
	case playerScore > dealerScore:
		game.Status = models.StatusPlayerWins
		outcome = models.OutcomeWin
		log.Info("WIN")
	case dealerScore > playerScore:
		game.Status = models.StatusDealerWins
		outcome = models.OutcomeLose
		log.Info("LOSE")
	default:
		game.Status = models.StatusDraw
		outcome = models.OutcomeDraw
		log.Info("DRAW")
	}

	saved, err := s.resolve(ctx, game, outcome)
	if err != nil {
		return nil, 0, 0, err
	}
	return saved, playerScore, dealerScore, nil
}

// GetActiveGame finds the Playing session, by token when one is given,
// otherwise by device. Returns nil when there is none.
func (s *GameService) GetActiveGame(ctx context.Context, device string, token *uuid.UUID) (*models.Game, error) {
	if token != nil {
		return s.repo.FindByTokenAndStatus(ctx, *token, models.StatusPlaying)
	}
	return s.repo.FindByDeviceAndStatus(ctx, device, models.StatusPlaying)
}

// GetGameFromToken finds a session by token regardless of status.
func (s *GameService) GetGameFromToken(ctx context.Context, token uuid.UUID) (*models.Game, error) {
	return s.repo.FindByToken(ctx, token)
}

// GetAllGames returns the device's finished sessions.
func (s *GameService) GetAllGames(ctx context.Context, device string) ([]*models.Game, error) {
	return s.repo.FindAllByDeviceAndStatusNot(ctx, device, models.StatusPlaying)
}

// Score exposes the hand scorer for response shaping.
func (s *GameService) Score(cards []string) int {
	return engine.Score(cards)
}

// resolve records the outcome, persists the terminal game and notifies
// listeners. A stats failure is logged rather than surfaced: the game
// itself has already been decided.
func (s *GameService) resolve(ctx context.Context, game *models.Game, outcome models.Outcome) (*models.Game, error) {
	if err := s.stats.UpdateStats(ctx, game.Device, outcome); err != nil {
		log.Errorf("Error updating stats for device %s: %v", game.Device, err)
	}

	saved, err := s.repo.Save(ctx, game)
	if err != nil {
		return nil, err
	}

	event := comm.GameEvent{
		Token:       saved.Token,
		Device:      saved.Device,
		Status:      saved.Status,
		Outcome:     outcome,
		PlayerScore: engine.Score(saved.PlayerCards),
		DealerScore: engine.Score(saved.DealerCards),
		ResolvedAt:  time.Now(),
	}
	for _, n := range s.notifiers {
		n.GameResolved(event)
	}

	return saved, nil
}

func draw(game *models.Game, hand *[]string) error {
	deck, card, err := engine.Draw(game.Deck)
	if err != nil {
		return err
	}
	game.Deck = deck
	*hand = append(*hand, card)
	return nil
}
