package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/nakedmcse/blackjack-go/internal/blackjack/models"
	"github.com/nakedmcse/blackjack-go/internal/blackjack/store"
)

// StatService keeps the per-device win/lose/draw counters. It satisfies
// the StatsRecorder interface consumed by GameService.
type StatService struct {
	statStore *store.StatStore
}

func NewStatService(statStore *store.StatStore) *StatService {
	return &StatService{statStore: statStore}
}

func (s *StatService) UpdateStats(ctx context.Context, device string, outcome models.Outcome) error {
	return s.statStore.UpdateStats(ctx, device, outcome)
}

// DeviceStats returns the device's counters; a device that never
// finished a game gets zeroed counters rather than nil.
func (s *StatService) DeviceStats(ctx context.Context, device string) (*models.Stat, error) {
	stat, err := s.statStore.GetByDevice(ctx, device)
	if err != nil {
		return nil, err
	}
	if stat == nil {
		stat = &models.Stat{Device: device}
	}
	return stat, nil
}

// Totals sums the counters across all devices.
func (s *StatService) Totals(ctx context.Context) (*models.Stat, error) {
	return s.statStore.GetTotals(ctx)
}

// WinRate formats wins as a percentage of finished games, e.g. "42.86".
func WinRate(stat *models.Stat) string {
	total := stat.Wins + stat.Loses + stat.Draws
	if total == 0 {
		return "0.00"
	}
	return decimal.NewFromInt(stat.Wins).
		Div(decimal.NewFromInt(total)).
		Mul(decimal.NewFromInt(100)).
		StringFixed(2)
}
