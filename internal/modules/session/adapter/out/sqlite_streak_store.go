package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"folio/internal/modules/session/domain"
	sessionout "folio/internal/modules/session/port/out"
	"folio/internal/platform/sqlitedb"
	"folio/internal/platform/tx"
)

const (
	keyStreakCurrent = "streak.current"
	keyStreakLongest = "streak.longest"
	keyStreakLastDay = "streak.last_day"
)

// SQLiteStreakStore keeps the reading streak in the key/value preferences
// table of the shared database.
type SQLiteStreakStore struct {
	db    *sql.DB
	ready atomic.Bool
}

var _ sessionout.StreakStore = (*SQLiteStreakStore)(nil)

func NewSQLiteStreakStore(db *sql.DB) *SQLiteStreakStore {
	return &SQLiteStreakStore{db: db}
}

// Open creates the tables. It runs without a lock and is repeated by every
// method until one call has happened outside a transaction.
func (s *SQLiteStreakStore) Open(ctx context.Context) error {
	if s.ready.Load() {
		return nil
	}
	const ddl = `CREATE TABLE IF NOT EXISTS preferences (key TEXT PRIMARY KEY, value TEXT NOT NULL);`
	if _, err := tx.Executor(ctx, s.db).ExecContext(ctx, ddl); err != nil {
		return sqlitedb.Classify("create preferences table", err)
	}
	if !tx.Active(ctx) {
		s.ready.Store(true)
	}
	return nil
}

func (s *SQLiteStreakStore) LoadStreak(ctx context.Context) (domain.Streak, error) {
	if err := s.Open(ctx); err != nil {
		return domain.Streak{}, err
	}
	var streak domain.Streak
	current, err := s.get(ctx, keyStreakCurrent)
	if err != nil {
		return domain.Streak{}, err
	}
	longest, err := s.get(ctx, keyStreakLongest)
	if err != nil {
		return domain.Streak{}, err
	}
	lastDay, err := s.get(ctx, keyStreakLastDay)
	if err != nil {
		return domain.Streak{}, err
	}
	if current != "" {
		if streak.Current, err = strconv.Atoi(current); err != nil {
			return domain.Streak{}, fmt.Errorf("decode %s: %w", keyStreakCurrent, err)
		}
	}
	if longest != "" {
		if streak.Longest, err = strconv.Atoi(longest); err != nil {
			return domain.Streak{}, fmt.Errorf("decode %s: %w", keyStreakLongest, err)
		}
	}
	if lastDay != "" {
		if streak.LastDay, err = time.Parse(time.DateOnly, lastDay); err != nil {
			return domain.Streak{}, fmt.Errorf("decode %s: %w", keyStreakLastDay, err)
		}
	}
	return streak, nil
}

func (s *SQLiteStreakStore) SaveStreak(ctx context.Context, streak domain.Streak) error {
	if err := s.Open(ctx); err != nil {
		return err
	}
	values := map[string]string{
		keyStreakCurrent: strconv.Itoa(streak.Current),
		keyStreakLongest: strconv.Itoa(streak.Longest),
		keyStreakLastDay: streak.LastDay.UTC().Format(time.DateOnly),
	}
	for _, key := range []string{keyStreakCurrent, keyStreakLongest, keyStreakLastDay} {
		_, err := tx.Executor(ctx, s.db).ExecContext(ctx,
			`INSERT INTO preferences (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
			key, values[key])
		if err != nil {
			return sqlitedb.Classify("save "+key, err)
		}
	}
	return nil
}

func (s *SQLiteStreakStore) get(ctx context.Context, key string) (string, error) {
	var value string
	err := tx.Executor(ctx, s.db).QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", sqlitedb.Classify("load "+key, err)
	}
	return value, nil
}
