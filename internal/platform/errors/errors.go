package apperrors

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrQuotaExceeded      = errors.New("storage quota exceeded")
	ErrTransactionAborted = errors.New("transaction aborted")
	ErrDocumentUnreadable = errors.New("document unreadable")
	ErrNoOpenDocument     = errors.New("no open document")
)
