package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nakedmcse/blackjack-go/internal/blackjack/models"
)

type StatStore struct {
	db *pgxpool.Pool
}

func NewStatStore(db *pgxpool.Pool) *StatStore {
	return &StatStore{db: db}
}

// UpdateStats bumps the device's counter for the outcome, creating the
// row on first use.
func (s *StatStore) UpdateStats(ctx context.Context, device string, outcome models.Outcome) error {
	var column string
	switch outcome {
	case models.OutcomeWin:
		column = "wins"
	case models.OutcomeLose:
		column = "loses"
	case models.OutcomeDraw:
		column = "draws"
	default:
		return fmt.Errorf("unknown outcome: %s", outcome)
	}

	query := fmt.Sprintf(`
		INSERT INTO stats (device, %[1]s)
		VALUES ($1, 1)
		ON CONFLICT (device)
		DO UPDATE SET %[1]s = stats.%[1]s + 1, updated_at = now()
	`, column)

	if _, err := s.db.Exec(ctx, query, device); err != nil {
		return fmt.Errorf("failed to update stats: %w", err)
	}
	return nil
}

// GetByDevice returns the device's counters, or nil when it never finished a game.
func (s *StatStore) GetByDevice(ctx context.Context, device string) (*models.Stat, error) {
	query := `
		SELECT id, device, wins, loses, draws, created_at, updated_at
		FROM stats
		WHERE device = $1
	`

	stat := &models.Stat{}
	err := s.db.QueryRow(ctx, query, device).Scan(
		&stat.ID,
		&stat.Device,
		&stat.Wins,
		&stat.Loses,
		&stat.Draws,
		&stat.CreatedAt,
		&stat.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Stats not found
		}
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	return stat, nil
}

// GetTotals sums the counters across every device.
func (s *StatStore) GetTotals(ctx context.Context) (*models.Stat, error) {
	query := `
		SELECT
			COALESCE(SUM(wins), 0),
			COALESCE(SUM(loses), 0),
			COALESCE(SUM(draws), 0)
		FROM stats
	`

	stat := &models.Stat{}
	err := s.db.QueryRow(ctx, query).Scan(&stat.Wins, &stat.Loses, &stat.Draws)
	if err != nil {
		return nil, fmt.Errorf("failed to get stat totals: %w", err)
	}
	return stat, nil
}
