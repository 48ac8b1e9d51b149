package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"folio/internal/modules/annotation/domain"
	annotationout "folio/internal/modules/annotation/port/out"
	apperrors "folio/internal/platform/errors"
	"folio/internal/platform/sqlitedb"
	"folio/internal/platform/tx"
)

type SQLiteStore struct {
	db    *sql.DB
	ready atomic.Bool
}

var _ annotationout.Store = (*SQLiteStore)(nil)

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Open creates the tables. It runs without a lock and is repeated by every
// method until one call has happened outside a transaction.
func (s *SQLiteStore) Open(ctx context.Context) error {
	if s.ready.Load() {
		return nil
	}
	const ddl = `
CREATE TABLE IF NOT EXISTS bookmarks (
  id TEXT PRIMARY KEY,
  document_id TEXT NOT NULL,
  page INTEGER NOT NULL,
  created_at INTEGER NOT NULL,
  UNIQUE(document_id, page)
);
CREATE TABLE IF NOT EXISTS notes (
  id TEXT PRIMARY KEY,
  document_id TEXT NOT NULL,
  page INTEGER NOT NULL,
  color TEXT NOT NULL,
  text TEXT NOT NULL,
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notes_document ON notes(document_id, page);
`
	if _, err := tx.Executor(ctx, s.db).ExecContext(ctx, ddl); err != nil {
		return sqlitedb.Classify("create annotation tables", err)
	}
	if !tx.Active(ctx) {
		s.ready.Store(true)
	}
	return nil
}

func (s *SQLiteStore) FindBookmark(ctx context.Context, documentID string, page int) (domain.Bookmark, error) {
	if err := s.Open(ctx); err != nil {
		return domain.Bookmark{}, err
	}
	row := tx.Executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT id, document_id, page, created_at FROM bookmarks WHERE document_id = ? AND page = ?`, documentID, page)
	b, err := scanBookmark(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Bookmark{}, fmt.Errorf("bookmark %s p.%d: %w", documentID, page, apperrors.ErrNotFound)
	}
	if err != nil {
		return domain.Bookmark{}, sqlitedb.Classify("find bookmark", err)
	}
	return b, nil
}

func (s *SQLiteStore) PutBookmark(ctx context.Context, b domain.Bookmark) error {
	if err := s.Open(ctx); err != nil {
		return err
	}
	_, err := tx.Executor(ctx, s.db).ExecContext(ctx,
		`INSERT INTO bookmarks (id, document_id, page, created_at) VALUES (?, ?, ?, ?)`,
		b.ID, b.DocumentID, b.Page, b.CreatedAt.UnixNano())
	return sqlitedb.Classify("put bookmark", err)
}

func (s *SQLiteStore) DeleteBookmark(ctx context.Context, id string) error {
	if err := s.Open(ctx); err != nil {
		return err
	}
	res, err := tx.Executor(ctx, s.db).ExecContext(ctx, `DELETE FROM bookmarks WHERE id = ?`, id)
	return requireAffected(res, err, "delete bookmark", id)
}

func (s *SQLiteStore) ListBookmarks(ctx context.Context, documentID string) ([]domain.Bookmark, error) {
	if err := s.Open(ctx); err != nil {
		return nil, err
	}
	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx,
		`SELECT id, document_id, page, created_at FROM bookmarks WHERE document_id = ? ORDER BY page ASC`, documentID)
	if err != nil {
		return nil, sqlitedb.Classify("list bookmarks", err)
	}
	defer rows.Close()
	out := make([]domain.Bookmark, 0)
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, sqlitedb.Classify("scan bookmark", err)
		}
		out = append(out, b)
	}
	return out, sqlitedb.Classify("iterate bookmarks", rows.Err())
}

func (s *SQLiteStore) PutNote(ctx context.Context, n domain.Note) error {
	if err := s.Open(ctx); err != nil {
		return err
	}
	_, err := tx.Executor(ctx, s.db).ExecContext(ctx, `
INSERT INTO notes (id, document_id, page, color, text, created_at) VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET page=excluded.page, color=excluded.color, text=excluded.text;
`, n.ID, n.DocumentID, n.Page, string(n.Color), n.Text, n.CreatedAt.UnixNano())
	return sqlitedb.Classify("put note", err)
}

func (s *SQLiteStore) ListNotes(ctx context.Context, documentID string) ([]domain.Note, error) {
	if err := s.Open(ctx); err != nil {
		return nil, err
	}
	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx, `
SELECT id, document_id, page, color, text, created_at FROM notes
WHERE document_id = ? ORDER BY page ASC, created_at ASC, id ASC`, documentID)
	if err != nil {
		return nil, sqlitedb.Classify("list notes", err)
	}
	defer rows.Close()
	out := make([]domain.Note, 0)
	for rows.Next() {
		var (
			n       domain.Note
			color   string
			created int64
		)
		if err := rows.Scan(&n.ID, &n.DocumentID, &n.Page, &color, &n.Text, &created); err != nil {
			return nil, sqlitedb.Classify("scan note", err)
		}
		n.Color = domain.Color(color)
		n.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, n)
	}
	return out, sqlitedb.Classify("iterate notes", rows.Err())
}

func (s *SQLiteStore) DeleteNote(ctx context.Context, id string) error {
	if err := s.Open(ctx); err != nil {
		return err
	}
	res, err := tx.Executor(ctx, s.db).ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	return requireAffected(res, err, "delete note", id)
}

func (s *SQLiteStore) DeleteForDocument(ctx context.Context, documentID string) error {
	if err := s.Open(ctx); err != nil {
		return err
	}
	exec := tx.Executor(ctx, s.db)
	if _, err := exec.ExecContext(ctx, `DELETE FROM bookmarks WHERE document_id = ?`, documentID); err != nil {
		return sqlitedb.Classify("delete bookmarks", err)
	}
	_, err := exec.ExecContext(ctx, `DELETE FROM notes WHERE document_id = ?`, documentID)
	return sqlitedb.Classify("delete notes", err)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBookmark(row scanner) (domain.Bookmark, error) {
	var (
		b       domain.Bookmark
		created int64
	)
	if err := row.Scan(&b.ID, &b.DocumentID, &b.Page, &created); err != nil {
		return domain.Bookmark{}, err
	}
	b.CreatedAt = time.Unix(0, created).UTC()
	return b, nil
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
