package service

import (
	"context"

	"folio/internal/modules/session/domain"
	sessionout "folio/internal/modules/session/port/out"
	"folio/internal/platform/clock"
)

type StreakService struct {
	store sessionout.StreakStore
	clock clock.Clock
}

func NewStreakService(store sessionout.StreakStore, clk clock.Clock) *StreakService {
	return &StreakService{store: store, clock: clk}
}

// Record counts a reading session today.
func (s *StreakService) Record(ctx context.Context) (domain.Streak, error) {
	current, err := s.store.LoadStreak(ctx)
	if err != nil {
		return domain.Streak{}, err
	}
	next := current.Record(s.clock.Now())
	if next == current {
		return current, nil
	}
	if err := s.store.SaveStreak(ctx, next); err != nil {
		return domain.Streak{}, err
	}
	return next, nil
}

func (s *StreakService) Current(ctx context.Context) (domain.Streak, error) {
	return s.store.LoadStreak(ctx)
}
