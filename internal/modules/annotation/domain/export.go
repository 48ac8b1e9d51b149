package domain

import "sort"

// PageNotes groups the notes of one page by color.
type PageNotes struct {
	Page    int
	ByColor map[Color][]Note
}

// GroupNotes orders notes by page, then by color in Colors order, then by
// creation time.
func GroupNotes(notes []Note) []PageNotes {
	sorted := append([]Note(nil), notes...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Page != sorted[j].Page {
			return sorted[i].Page < sorted[j].Page
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	var out []PageNotes
	for _, n := range sorted {
		if len(out) == 0 || out[len(out)-1].Page != n.Page {
			out = append(out, PageNotes{Page: n.Page, ByColor: map[Color][]Note{}})
		}
		last := &out[len(out)-1]
		last.ByColor[n.Color] = append(last.ByColor[n.Color], n)
	}
	return out
}
