package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"folio/internal/modules/library/domain"
	libraryout "folio/internal/modules/library/port/out"
	apperrors "folio/internal/platform/errors"
	"folio/internal/platform/sqlitedb"
	"folio/internal/platform/tx"
)

// SQLiteStore keeps entry metadata and document bytes in two tables of the
// shared database. Writes join the transaction carried on the context, so a
// metadata and a blob write issued inside tx.Manager.Within commit together.
type SQLiteStore struct {
	db    *sql.DB
	ready atomic.Bool
}

var (
	_ libraryout.EntryStore = (*SQLiteStore)(nil)
	_ libraryout.BlobStore  = (*SQLiteStore)(nil)
)

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Open creates the tables. Bootstrap calls it once before any transaction
// starts; every store method repeats it until one call has run outside a
// transaction. No lock is held across the statement: with a single pooled
// connection, a caller waiting here would block the transaction that owns it.
func (s *SQLiteStore) Open(ctx context.Context) error {
	if s.ready.Load() {
		return nil
	}
	const ddl = `
CREATE TABLE IF NOT EXISTS entries (
  id TEXT PRIMARY KEY,
  display_name TEXT NOT NULL,
  last_page_read INTEGER NOT NULL DEFAULT 1,
  last_opened_at INTEGER NOT NULL,
  added_at INTEGER NOT NULL,
  cover_thumbnail BLOB,
  total_time_seconds INTEGER NOT NULL DEFAULT 0,
  tags TEXT NOT NULL DEFAULT '[]',
  page_count INTEGER NOT NULL DEFAULT 0,
  chapters TEXT NOT NULL DEFAULT '[]'
);
CREATE INDEX IF NOT EXISTS idx_entries_last_opened ON entries(last_opened_at DESC);
CREATE TABLE IF NOT EXISTS document_bytes (
  id TEXT PRIMARY KEY,
  data BLOB NOT NULL
);
`
	if _, err := tx.Executor(ctx, s.db).ExecContext(ctx, ddl); err != nil {
		return sqlitedb.Classify("create library tables", err)
	}
	if !tx.Active(ctx) {
		s.ready.Store(true)
	}
	return nil
}

// InsertEntry adds a new entry. An existing id is reported as
// apperrors.ErrConflict and the stored entry is left untouched.
func (s *SQLiteStore) InsertEntry(ctx context.Context, entry domain.Entry) error {
	if err := s.Open(ctx); err != nil {
		return err
	}
	tags, chapters, err := encodeLists(entry)
	if err != nil {
		return err
	}
	_, err = tx.Executor(ctx, s.db).ExecContext(ctx, `
INSERT INTO entries (id, display_name, last_page_read, last_opened_at, added_at, cover_thumbnail, total_time_seconds, tags, page_count, chapters)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.DisplayName,
		entry.LastPageRead,
		entry.LastOpenedAt.UnixNano(),
		entry.AddedAt.UnixNano(),
		entry.CoverThumbnail,
		entry.TotalTimeSeconds,
		tags,
		entry.PageCount,
		chapters,
	)
	return sqlitedb.Classify("insert entry", err)
}

// SaveEntry rewrites the descriptive columns of an existing entry. Progress,
// reading time and the added date only change through their own methods.
func (s *SQLiteStore) SaveEntry(ctx context.Context, entry domain.Entry) error {
	if err := s.Open(ctx); err != nil {
		return err
	}
	tags, chapters, err := encodeLists(entry)
	if err != nil {
		return err
	}
	res, err := tx.Executor(ctx, s.db).ExecContext(ctx, `
UPDATE entries SET display_name = ?, cover_thumbnail = ?, tags = ?, page_count = ?, chapters = ?
WHERE id = ?`,
		entry.DisplayName,
		entry.CoverThumbnail,
		tags,
		entry.PageCount,
		chapters,
		entry.ID,
	)
	return requireAffected(res, err, "save entry", entry.ID)
}

func encodeLists(entry domain.Entry) (string, string, error) {
	tags, err := json.Marshal(nonNil(entry.Tags))
	if err != nil {
		return "", "", fmt.Errorf("marshal tags: %w", err)
	}
	chapters, err := json.Marshal(toChapterRows(entry.Chapters))
	if err != nil {
		return "", "", fmt.Errorf("marshal chapters: %w", err)
	}
	return string(tags), string(chapters), nil
}

func (s *SQLiteStore) GetEntry(ctx context.Context, id string) (domain.Entry, error) {
	if err := s.Open(ctx); err != nil {
		return domain.Entry{}, err
	}
	row := tx.Executor(ctx, s.db).QueryRowContext(ctx, selectEntry+` WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Entry{}, fmt.Errorf("entry %s: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return domain.Entry{}, sqlitedb.Classify("get entry", err)
	}
	return entry, nil
}

func (s *SQLiteStore) ListEntries(ctx context.Context) ([]domain.Entry, error) {
	if err := s.Open(ctx); err != nil {
		return nil, err
	}
	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx, selectEntry+` ORDER BY last_opened_at DESC, id ASC`)
	if err != nil {
		return nil, sqlitedb.Classify("list entries", err)
	}
	defer rows.Close()

	out := make([]domain.Entry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, sqlitedb.Classify("scan entry", err)
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, sqlitedb.Classify("iterate entries", err)
	}
	return out, nil
}

func (s *SQLiteStore) UpdateProgress(ctx context.Context, id string, page int, openedAt time.Time) error {
	if err := s.Open(ctx); err != nil {
		return err
	}
	res, err := tx.Executor(ctx, s.db).ExecContext(ctx,
		`UPDATE entries SET last_page_read = ?, last_opened_at = ? WHERE id = ?`,
		page, openedAt.UnixNano(), id)
	return requireAffected(res, err, "update progress", id)
}

func (s *SQLiteStore) UpdateReadingTime(ctx context.Context, id string, totalSeconds int64) error {
	if err := s.Open(ctx); err != nil {
		return err
	}
	res, err := tx.Executor(ctx, s.db).ExecContext(ctx,
		`UPDATE entries SET total_time_seconds = ? WHERE id = ?`, totalSeconds, id)
	return requireAffected(res, err, "update reading time", id)
}

func (s *SQLiteStore) DeleteEntry(ctx context.Context, id string) error {
	if err := s.Open(ctx); err != nil {
		return err
	}
	res, err := tx.Executor(ctx, s.db).ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	return requireAffected(res, err, "delete entry", id)
}

func (s *SQLiteStore) PutBytes(ctx context.Context, id string, data []byte) error {
	if err := s.Open(ctx); err != nil {
		return err
	}
	_, err := tx.Executor(ctx, s.db).ExecContext(ctx, `INSERT INTO document_bytes (id, data) VALUES (?, ?)`, id, data)
	return sqlitedb.Classify("put bytes", err)
}

func (s *SQLiteStore) GetBytes(ctx context.Context, id string) ([]byte, error) {
	if err := s.Open(ctx); err != nil {
		return nil, err
	}
	var data []byte
	err := tx.Executor(ctx, s.db).QueryRowContext(ctx, `SELECT data FROM document_bytes WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("bytes %s: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, sqlitedb.Classify("get bytes", err)
	}
	return data, nil
}

func (s *SQLiteStore) DeleteBytes(ctx context.Context, id string) error {
	if err := s.Open(ctx); err != nil {
		return err
	}
	res, err := tx.Executor(ctx, s.db).ExecContext(ctx, `DELETE FROM document_bytes WHERE id = ?`, id)
	return requireAffected(res, err, "delete bytes", id)
}

const selectEntry = `
SELECT id, display_name, last_page_read, last_opened_at, added_at, cover_thumbnail, total_time_seconds, tags, page_count, chapters
FROM entries`

type scanner interface {
	Scan(dest ...any) error
}

type chapterRow struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Page  int    `json:"page"`
}

func scanEntry(row scanner) (domain.Entry, error) {
	var (
		entry             domain.Entry
		lastOpened, added int64
		tagsRaw, chapsRaw string
		thumbnail         []byte
	)
	if err := row.Scan(&entry.ID, &entry.DisplayName, &entry.LastPageRead, &lastOpened, &added,
		&thumbnail, &entry.TotalTimeSeconds, &tagsRaw, &entry.PageCount, &chapsRaw); err != nil {
		return domain.Entry{}, err
	}
	entry.LastOpenedAt = time.Unix(0, lastOpened).UTC()
	entry.AddedAt = time.Unix(0, added).UTC()
	if len(thumbnail) > 0 {
		entry.CoverThumbnail = thumbnail
	}
	if err := json.Unmarshal([]byte(tagsRaw), &entry.Tags); err != nil {
		return domain.Entry{}, fmt.Errorf("decode tags of %s: %w", entry.ID, err)
	}
	rows := []chapterRow{}
	if err := json.Unmarshal([]byte(chapsRaw), &rows); err != nil {
		return domain.Entry{}, fmt.Errorf("decode chapters of %s: %w", entry.ID, err)
	}
	for _, r := range rows {
		entry.Chapters = append(entry.Chapters, domain.Chapter{ID: r.ID, Title: r.Title, Page: r.Page})
	}
	return entry, nil
}

func toChapterRows(chapters []domain.Chapter) []chapterRow {
	out := make([]chapterRow, 0, len(chapters))
	for _, c := range chapters {
		out = append(out, chapterRow{ID: c.ID, Title: c.Title, Page: c.Page})
	}
	return out
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func requireAffected(res sql.Result, err error, op, id string) error {
	if err != nil {
		return sqlitedb.Classify(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return sqlitedb.Classify(op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", op, id, apperrors.ErrNotFound)
	}
	return nil
}
