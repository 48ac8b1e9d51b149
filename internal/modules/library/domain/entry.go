package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Entry is the persisted metadata record of one imported document.
type Entry struct {
	ID               string
	DisplayName      string
	LastPageRead     int
	LastOpenedAt     time.Time
	AddedAt          time.Time
	CoverThumbnail   []byte
	TotalTimeSeconds int64
	Tags             []string
	PageCount        int
	Chapters         []Chapter
}

type Chapter struct {
	ID    string
	Title string
	Page  int
}

func (e Entry) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(e.DisplayName) == "" {
		return fmt.Errorf("display name is required")
	}
	if e.LastPageRead < 1 {
		return fmt.Errorf("last page read must be at least 1")
	}
	if e.TotalTimeSeconds < 0 {
		return fmt.Errorf("total time must be non-negative")
	}
	if e.PageCount < 0 {
		return fmt.Errorf("page count must be non-negative")
	}
	return nil
}

func (e Entry) HasThumbnail() bool {
	return len(e.CoverThumbnail) > 0
}

// NormalizeTags trims, lowercases and deduplicates tags into sorted order.
func NormalizeTags(tags []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// SortByLastOpened orders entries most recently opened first, falling back
// to the id so the order is stable.
func SortByLastOpened(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].LastOpenedAt.Equal(entries[j].LastOpenedAt) {
			return entries[i].LastOpenedAt.After(entries[j].LastOpenedAt)
		}
		return entries[i].ID < entries[j].ID
	})
}
