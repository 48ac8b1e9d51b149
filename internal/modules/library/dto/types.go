package dto

import "time"

type RegisterInput struct {
	ID          string
	DisplayName string
	Bytes       []byte
	Tags        []string
	PageCount   int
	Chapters    []ChapterOutput
	Thumbnail   []byte
	AddedAt     time.Time
}

type UpdateEntryInput struct {
	Entry EntryOutput
}

type RecordProgressInput struct {
	ID       string
	Page     int
	OpenedAt time.Time
}

type RecordTimeInput struct {
	ID           string
	TotalSeconds int64
}

type ChapterOutput struct {
	ID    string
	Title string
	Page  int
}

type EntryOutput struct {
	ID               string
	DisplayName      string
	LastPageRead     int
	LastOpenedAt     time.Time
	AddedAt          time.Time
	CoverThumbnail   []byte
	TotalTimeSeconds int64
	Tags             []string
	PageCount        int
	Chapters         []ChapterOutput
}

// Progress is the fraction of pages read, or zero when the page count is unknown.
func (e EntryOutput) Progress() float64 {
	if e.PageCount <= 0 {
		return 0
	}
	p := float64(e.LastPageRead) / float64(e.PageCount)
	if p > 1 {
		return 1
	}
	return p
}
