package dto

import "time"

type AddNoteInput struct {
	DocumentID string
	Page       int
	Color      string
	Text       string
}

type ToggleBookmarkInput struct {
	DocumentID string
	Page       int
}

type ExportInput struct {
	DocumentID string
	// Path is the file to write. Empty picks a name in the export directory.
	Path string
}

type BookmarkOutput struct {
	ID         string
	DocumentID string
	Page       int
	CreatedAt  time.Time
}

type ToggleBookmarkOutput struct {
	Bookmarked bool
	Bookmark   BookmarkOutput
}

type NoteOutput struct {
	ID         string
	DocumentID string
	Page       int
	Color      string
	Text       string
	CreatedAt  time.Time
}

type ExportOutput struct {
	Path  string
	Notes int
}
