package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nakedmcse/blackjack-go/internal/blackjack/models"
)

const gameColumns = "id, token, device, status, deck, player_cards, dealer_cards, created_at, updated_at"

type GameStore struct {
	db *pgxpool.Pool
}

func NewGameStore(db *pgxpool.Pool) *GameStore {
	return &GameStore{db: db}
}

// Save inserts the game on first save and updates it afterwards.
func (s *GameStore) Save(ctx context.Context, game *models.Game) (*models.Game, error) {
	if game.ID == 0 {
		query := `
			INSERT INTO games (token, device, status, deck, player_cards, dealer_cards)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, updated_at
		`
		err := s.db.QueryRow(ctx, query,
			game.Token, game.Device, game.Status, game.Deck, game.PlayerCards, game.DealerCards,
		).Scan(&game.ID, &game.CreatedAt, &game.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to insert game: %w", err)
		}
		return game, nil
	}

	query := `
		UPDATE games
		SET status = $2, deck = $3, player_cards = $4, dealer_cards = $5, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`
	err := s.db.QueryRow(ctx, query,
		game.ID, game.Status, game.Deck, game.PlayerCards, game.DealerCards,
	).Scan(&game.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update game %s: %w", game.Token, err)
	}
	return game, nil
}

// FindByDeviceAndStatus returns the device's game in the given status, or nil.
func (s *GameStore) FindByDeviceAndStatus(ctx context.Context, device string, status models.PlayStatus) (*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE device = $1 AND status = $2
		LIMIT 1
	`
	return s.findOne(ctx, query, device, status)
}

// FindByTokenAndStatus returns the game with the token in the given status, or nil.
func (s *GameStore) FindByTokenAndStatus(ctx context.Context, token uuid.UUID, status models.PlayStatus) (*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE token = $1 AND status = $2
		LIMIT 1
	`
	return s.findOne(ctx, query, token, status)
}

// FindByToken returns the game with the token regardless of status, or nil.
func (s *GameStore) FindByToken(ctx context.Context, token uuid.UUID) (*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE token = $1
	`
	return s.findOne(ctx, query, token)
}

// FindAllByDeviceAndStatusNot returns the device's games whose status is
// not the given one, newest first.
func (s *GameStore) FindAllByDeviceAndStatusNot(ctx context.Context, device string, status models.PlayStatus) ([]*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE device = $1 AND status <> $2
		ORDER BY created_at DESC
	`
	rows, err := s.db.Query(ctx, query, device, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	var games []*models.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return games, nil
}

func (s *GameStore) findOne(ctx context.Context, query string, args ...any) (*models.Game, error) {
	game, err := scanGame(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Game not found
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return game, nil
}

func scanGame(row pgx.Row) (*models.Game, error) {
	game := &models.Game{}
	err := row.Scan(
		&game.ID,
		&game.Token,
		&game.Device,
		&game.Status,
		&game.Deck,
		&game.PlayerCards,
		&game.DealerCards,
		&game.CreatedAt,
		&game.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return game, nil
}
