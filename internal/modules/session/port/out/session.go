package out

import (
	"context"
	"time"

	"folio/internal/modules/session/domain"
)

// Library persists what a reading session accumulates.
type Library interface {
	RecordProgress(ctx context.Context, documentID string, page int, openedAt time.Time) error
	RecordTime(ctx context.Context, documentID string, totalSeconds int64) error
}

// StreakStore returns a zero Streak when none has been saved yet.
type StreakStore interface {
	LoadStreak(ctx context.Context) (domain.Streak, error)
	SaveStreak(ctx context.Context, streak domain.Streak) error
}
