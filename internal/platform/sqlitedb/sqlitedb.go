// Package sqlitedb opens the single SQLite database shared by the stores and
// translates driver failures into application errors.
package sqlitedb

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	apperrors "folio/internal/platform/errors"
)

func Open(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w: %v", apperrors.ErrStorageUnavailable, err)
	}
	dsn := "file:" + dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w: %v", apperrors.ErrStorageUnavailable, err)
	}
	// SQLite has a single writer; one connection keeps transactions from
	// tripping over SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	return db, nil
}

// Classify wraps err with the matching application error so callers can test
// for quota and availability failures with errors.Is.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() & 0xff {
		case sqlite3.SQLITE_FULL:
			return fmt.Errorf("%s: %w: %v", op, apperrors.ErrQuotaExceeded, err)
		case sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_IOERR, sqlite3.SQLITE_BUSY, sqlite3.SQLITE_READONLY, sqlite3.SQLITE_LOCKED:
			return fmt.Errorf("%s: %w: %v", op, apperrors.ErrStorageUnavailable, err)
		case sqlite3.SQLITE_CONSTRAINT:
			return fmt.Errorf("%s: %w: %v", op, apperrors.ErrConflict, err)
		case sqlite3.SQLITE_ABORT:
			return fmt.Errorf("%s: %w: %v", op, apperrors.ErrTransactionAborted, err)
		}
	}
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("%s: %w: %v", op, apperrors.ErrStorageUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
