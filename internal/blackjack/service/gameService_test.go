package service

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nakedmcse/blackjack-go/internal/blackjack/models"
	"github.com/nakedmcse/blackjack-go/internal/comm"
)

type fakeRepo struct {
	games  map[uuid.UUID]*models.Game
	nextID int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{games: make(map[uuid.UUID]*models.Game)}
}

func (r *fakeRepo) Save(_ context.Context, game *models.Game) (*models.Game, error) {
	if game.ID == 0 {
		r.nextID++
		game.ID = r.nextID
		game.CreatedAt = time.Now()
	}
	game.UpdatedAt = time.Now()
	r.games[game.Token] = game
	return game, nil
}

func (r *fakeRepo) FindByDeviceAndStatus(_ context.Context, device string, status models.PlayStatus) (*models.Game, error) {
	for _, game := range r.games {
		if game.Device == device && game.Status == status {
			return game, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) FindByTokenAndStatus(_ context.Context, token uuid.UUID, status models.PlayStatus) (*models.Game, error) {
	game, ok := r.games[token]
	if !ok || game.Status != status {
		return nil, nil
	}
	return game, nil
}

func (r *fakeRepo) FindAllByDeviceAndStatusNot(_ context.Context, device string, status models.PlayStatus) ([]*models.Game, error) {
	var games []*models.Game
	for _, game := range r.games {
		if game.Device == device && game.Status != status {
			games = append(games, game)
		}
	}
	return games, nil
}

func (r *fakeRepo) FindByToken(_ context.Context, token uuid.UUID) (*models.Game, error) {
	game, ok := r.games[token]
	if !ok {
		return nil, nil
	}
	return game, nil
}

type statCall struct {
	device  string
	outcome models.Outcome
}

type fakeStats struct {
	calls []statCall
}

func (f *fakeStats) UpdateStats(_ context.Context, device string, outcome models.Outcome) error {
	f.calls = append(f.calls, statCall{device: device, outcome: outcome})
	return nil
}

type fakeNotifier struct {
	events []comm.GameEvent
}

func (f *fakeNotifier) GameResolved(event comm.GameEvent) {
	f.events = append(f.events, event)
}

func newTestService() (*GameService, *fakeRepo, *fakeStats, *fakeNotifier) {
	repo := newFakeRepo()
	stats := &fakeStats{}
	notifier := &fakeNotifier{}
	svc := NewGameService(repo, stats, rand.New(rand.NewSource(1)), notifier)
	return svc, repo, stats, notifier
}

// playingGame builds an in-flight game with a rigged deck. The deck is
// drawn from the end, so the last element is the next card out.
func playingGame(device string, player, dealer, deck []string) *models.Game {
	return &models.Game{
		ID:          1,
		Token:       uuid.New(),
		Device:      device,
		Status:      models.StatusPlaying,
		Deck:        deck,
		PlayerCards: player,
		DealerCards: dealer,
	}
}

func TestNewGameDealsTwoCardsEach(t *testing.T) {
	svc, repo, stats, _ := newTestService()

	game, err := svc.NewGame(context.Background(), "device-1")
	require.NoError(t, err)

	assert.Equal(t, models.StatusPlaying, game.Status)
	assert.Equal(t, "device-1", game.Device)
	assert.NotEqual(t, uuid.Nil, game.Token)
	assert.Len(t, game.PlayerCards, 2)
	assert.Len(t, game.DealerCards, 2)
	assert.Len(t, game.Deck, 48)
	assert.Empty(t, stats.calls)

	saved, err := repo.FindByToken(context.Background(), game.Token)
	require.NoError(t, err)
	assert.Equal(t, game, saved)
}

func TestNewGameUsesAllFiftyTwoCards(t *testing.T) {
	svc, _, _, _ := newTestService()

	game, err := svc.NewGame(context.Background(), "device-1")
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, card := range append(append(append([]string(nil), game.Deck...), game.PlayerCards...), game.DealerCards...) {
		assert.False(t, seen[card], "duplicate card %s", card)
		seen[card] = true
	}
	assert.Len(t, seen, 52)
}

func TestHitBelowBustKeepsPlaying(t *testing.T) {
	svc, _, stats, notifier := newTestService()
	game := playingGame("device-1", []string{"♠2", "♠3"}, []string{"♠K", "♠Q"}, []string{"♥5", "♠4"})

	game, err := svc.Hit(context.Background(), game)
	require.NoError(t, err)

	assert.Equal(t, models.StatusPlaying, game.Status)
	assert.Equal(t, []string{"♠2", "♠3", "♠4"}, game.PlayerCards)
	assert.Len(t, game.Deck, 1)
	assert.Empty(t, stats.calls)
	assert.Empty(t, notifier.events)
}

func TestHitBustRecordsLoss(t *testing.T) {
	svc, _, stats, notifier := newTestService()
	game := playingGame("device-1", []string{"♠K", "♠9"}, []string{"♠5", "♠6"}, []string{"♥2", "♥6"})

	game, err := svc.Hit(context.Background(), game)
	require.NoError(t, err)

	assert.Equal(t, models.StatusBust, game.Status)
	require.Len(t, stats.calls, 1)
	assert.Equal(t, statCall{device: "device-1", outcome: models.OutcomeLose}, stats.calls[0])

	require.Len(t, notifier.events, 1)
	assert.Equal(t, models.OutcomeLose, notifier.events[0].Outcome)
	assert.Equal(t, 25, notifier.events[0].PlayerScore)
}

func TestHitOnFinishedGame(t *testing.T) {
	svc, _, _, _ := newTestService()
	game := playingGame("device-1", []string{"♠K", "♠9"}, []string{"♠5", "♠6"}, []string{"♥2"})
	game.Status = models.StatusBust

	_, err := svc.Hit(context.Background(), game)
	require.ErrorIs(t, err, ErrGameOver)
}

func TestStayDealerBust(t *testing.T) {
	svc, _, stats, notifier := newTestService()
	game := playingGame("device-1", []string{"♠K", "♠2"}, []string{"♠6", "♠10"}, []string{"♥2", "♥K"})

	game, playerScore, dealerScore, err := svc.Stay(context.Background(), game)
	require.NoError(t, err)

	assert.Equal(t, models.StatusDealerBust, game.Status)
	assert.Equal(t, 12, playerScore)
	assert.Equal(t, 26, dealerScore)
	require.Len(t, stats.calls, 1)
	assert.Equal(t, models.OutcomeWin, stats.calls[0].outcome)
	require.Len(t, notifier.events, 1)
	assert.Equal(t, models.StatusDealerBust, notifier.events[0].Status)
}

func TestStayPlayerWins(t *testing.T) {
	svc, _, stats, _ := newTestService()
	game := playingGame("device-1", []string{"♠K", "♠Q"}, []string{"♠10", "♠8"}, []string{"♥2"})

	game, playerScore, dealerScore, err := svc.Stay(context.Background(), game)
	require.NoError(t, err)

	assert.Equal(t, models.StatusPlayerWins, game.Status)
	assert.Equal(t, 20, playerScore)
	assert.Equal(t, 18, dealerScore)
	assert.Len(t, game.Deck, 1, "dealer already stood, no draw")
	require.Len(t, stats.calls, 1)
	assert.Equal(t, models.OutcomeWin, stats.calls[0].outcome)
}

func TestStayDealerWins(t *testing.T) {
	svc, _, stats, _ := newTestService()
	game := playingGame("device-1", []string{"♠K", "♠7"}, []string{"♠10", "♠9"}, []string{"♥2"})

	game, playerScore, dealerScore, err := svc.Stay(context.Background(), game)
	require.NoError(t, err)

	assert.Equal(t, models.StatusDealerWins, game.Status)
	assert.Equal(t, 17, playerScore)
	assert.Equal(t, 19, dealerScore)
	require.Len(t, stats.calls, 1)
	assert.Equal(t, models.OutcomeLose, stats.calls[0].outcome)
}

func TestStayDraw(t *testing.T) {
	svc, _, stats, _ := newTestService()
	game := playingGame("device-1", []string{"♠10", "♠8"}, []string{"♥10", "♥8"}, []string{"♥2"})

	game, playerScore, dealerScore, err := svc.Stay(context.Background(), game)
	require.NoError(t, err)

	assert.Equal(t, models.StatusDraw, game.Status)
	assert.Equal(t, playerScore, dealerScore)
	require.Len(t, stats.calls, 1)
	assert.Equal(t, models.OutcomeDraw, stats.calls[0].outcome)
}

func TestStayDealerDrawsToSeventeen(t *testing.T) {
	svc, _, _, _ := newTestService()
	game := playingGame("device-1", []string{"♠K", "♠Q"}, []string{"♠2", "♠3"}, []string{"♠9", "♥5", "♥4", "♥3"})

	_, _, dealerScore, err := svc.Stay(context.Background(), game)
	require.NoError(t, err)

	// 5 -> 8 -> 12 -> 17, stop
	assert.Equal(t, 17, dealerScore)
	assert.Equal(t, []string{"♠2", "♠3", "♥3", "♥4", "♥5"}, game.DealerCards)
}

func TestStayDealerStandsOnSoftSeventeen(t *testing.T) {
	svc, _, _, _ := newTestService()
	game := playingGame("device-1", []string{"♠K", "♠Q"}, []string{"♠A", "♠6"}, []string{"♥2"})

	_, _, dealerScore, err := svc.Stay(context.Background(), game)
	require.NoError(t, err)

	assert.Equal(t, 17, dealerScore)
	assert.Len(t, game.DealerCards, 2)
}

func TestStayOnFinishedGame(t *testing.T) {
	svc, _, _, _ := newTestService()
	game := playingGame("device-1", []string{"♠K", "♠Q"}, []string{"♠A", "♠6"}, []string{"♥2"})
	game.Status = models.StatusDraw

	_, _, _, err := svc.Stay(context.Background(), game)
	require.ErrorIs(t, err, ErrGameOver)
}

func TestStayAlwaysLeavesDealerDone(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		svc, _, _, _ := newTestService()
		svc.rng = rand.New(rand.NewSource(seed))

		game, err := svc.NewGame(context.Background(), "device-1")
		require.NoError(t, err)

		_, _, dealerScore, err := svc.Stay(context.Background(), game)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, dealerScore, 17, "seed %d", seed)
	}
}

func TestGetActiveGameByDevice(t *testing.T) {
	svc, repo, _, _ := newTestService()
	game := playingGame("device-1", []string{"♠2", "♠3"}, []string{"♠4", "♠5"}, []string{"♥2"})
	_, err := repo.Save(context.Background(), game)
	require.NoError(t, err)

	found, err := svc.GetActiveGame(context.Background(), "device-1", nil)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, game.Token, found.Token)

	found, err = svc.GetActiveGame(context.Background(), "device-2", nil)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestGetActiveGameByTokenExcludesFinished(t *testing.T) {
	svc, repo, _, _ := newTestService()
	game := playingGame("device-1", []string{"♠2", "♠3"}, []string{"♠4", "♠5"}, []string{"♥2"})
	game.Status = models.StatusPlayerWins
	_, err := repo.Save(context.Background(), game)
	require.NoError(t, err)

	found, err := svc.GetActiveGame(context.Background(), "device-1", &game.Token)
	require.NoError(t, err)
	assert.Nil(t, found)

	// still reachable by plain token lookup
	byToken, err := svc.GetGameFromToken(context.Background(), game.Token)
	require.NoError(t, err)
	require.NotNil(t, byToken)
}

func TestBustedGameLeavesHistory(t *testing.T) {
	svc, _, stats, _ := newTestService()
	game := playingGame("device-1", []string{"♠K", "♠9"}, []string{"♠5", "♠6"}, []string{"♥2", "♥6"})

	game, err := svc.Hit(context.Background(), game)
	require.NoError(t, err)
	require.Equal(t, models.StatusBust, game.Status)
	require.Len(t, stats.calls, 1)

	active, err := svc.GetActiveGame(context.Background(), "device-1", nil)
	require.NoError(t, err)
	assert.Nil(t, active, "busted game is no longer active")

	history, err := svc.GetAllGames(context.Background(), "device-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, game.Token, history[0].Token)
}

func TestGetAllGamesExcludesPlaying(t *testing.T) {
	svc, repo, _, _ := newTestService()
	playing := playingGame("device-1", []string{"♠2", "♠3"}, []string{"♠4", "♠5"}, []string{"♥2"})
	_, err := repo.Save(context.Background(), playing)
	require.NoError(t, err)

	finished := playingGame("device-1", []string{"♠K", "♠Q"}, []string{"♠10", "♠8"}, []string{"♥3"})
	finished.Status = models.StatusDraw
	_, err = repo.Save(context.Background(), finished)
	require.NoError(t, err)

	history, err := svc.GetAllGames(context.Background(), "device-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, finished.Token, history[0].Token)
}
