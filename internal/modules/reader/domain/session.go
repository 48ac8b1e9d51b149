package domain

type Layout int

const (
	LayoutSingle Layout = iota
	LayoutTwoPage
)

func (l Layout) String() string {
	if l == LayoutTwoPage {
		return "two-page"
	}
	return "single"
}

func ParseLayout(s string) (Layout, bool) {
	switch s {
	case "single", "":
		return LayoutSingle, true
	case "two-page", "two", "double":
		return LayoutTwoPage, true
	}
	return LayoutSingle, false
}

type Chapter struct {
	ID    string
	Title string
	Page  int
}

// OpenSession is the in-memory state of the document being read.
// CurrentPage stays within [1, PageCount].
type OpenSession struct {
	DocumentID  string
	Title       string
	PageCount   int
	CurrentPage int
	Display     Display
	Chapters    []Chapter
}

func NewOpenSession(documentID, title string, pageCount, page int, display Display, chapters []Chapter) OpenSession {
	s := OpenSession{
		DocumentID: documentID,
		Title:      title,
		PageCount:  pageCount,
		Display:    display,
		Chapters:   chapters,
	}
	s.CurrentPage = s.Clamp(page)
	return s
}

func (s OpenSession) Clamp(page int) int {
	if page > s.PageCount {
		page = s.PageCount
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Step is how many pages a turn moves in the current layout.
func (s OpenSession) Step() int {
	if s.Display.Layout == LayoutTwoPage {
		return 2
	}
	return 1
}

// GoTo moves to page, clamped, and reports whether the page changed.
func (s *OpenSession) GoTo(page int) bool {
	page = s.Clamp(page)
	if page == s.CurrentPage {
		return false
	}
	s.CurrentPage = page
	return true
}

func (s *OpenSession) Turn(d Direction) bool {
	switch d {
	case DirectionNext:
		return s.GoTo(s.CurrentPage + s.Step())
	case DirectionPrev:
		return s.GoTo(s.CurrentPage - s.Step())
	}
	return false
}

// SecondPage is the page shown on the second surface in two-page mode.
func (s OpenSession) SecondPage() (int, bool) {
	if s.Display.Layout != LayoutTwoPage || s.CurrentPage+1 > s.PageCount {
		return 0, false
	}
	return s.CurrentPage + 1, true
}

// ChapterAt returns the index of the chapter the current page belongs to, or
// -1 before the first chapter.
func (s OpenSession) ChapterAt() int {
	current := -1
	for i, c := range s.Chapters {
		if c.Page <= s.CurrentPage {
			current = i
		}
	}
	return current
}
