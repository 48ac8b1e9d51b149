package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	annotationdto "folio/internal/modules/annotation/dto"
	documentdto "folio/internal/modules/document/dto"
	librarydto "folio/internal/modules/library/dto"
	narrationdto "folio/internal/modules/narration/dto"
	readerdto "folio/internal/modules/reader/dto"
	sessiondto "folio/internal/modules/session/dto"
	apperrors "folio/internal/platform/errors"
	"folio/internal/ui/components"
	"folio/internal/ui/theme"
	libraryview "folio/internal/ui/views/library"
	readerview "folio/internal/ui/views/reader"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type libraryPort interface {
	List(ctx context.Context) ([]librarydto.EntryOutput, error)
	Get(ctx context.Context, id string) (librarydto.EntryOutput, error)
	Remove(ctx context.Context, id string) error
	Tag(ctx context.Context, id string, tags []string) (librarydto.EntryOutput, error)
}

type importPort interface {
	ImportFile(ctx context.Context, path, name string, tags []string) (documentdto.EntryOutput, error)
}

type sessionPort interface {
	Status() sessiondto.StatusOutput
	Activity()
	Streak(ctx context.Context) (sessiondto.StreakOutput, error)
}

type narrationPort interface {
	Toggle(ctx context.Context) (narrationdto.StatusOutput, error)
	Stop(ctx context.Context) narrationdto.StatusOutput
	Status() narrationdto.StatusOutput
	Completed() <-chan struct{}
}

type annotationPort interface {
	ToggleBookmark(ctx context.Context, documentID string, page int) (annotationdto.ToggleBookmarkOutput, error)
	Bookmarks(ctx context.Context, documentID string) ([]annotationdto.BookmarkOutput, error)
	AddNote(ctx context.Context, documentID string, page int, color, text string) (annotationdto.NoteOutput, error)
	DeleteNote(ctx context.Context, id string) error
	Export(ctx context.Context, documentID, path string) (annotationdto.ExportOutput, error)
	Render(ctx context.Context, documentID string) (string, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabLibrary tabID = iota
	tabReader
	tabCount
)

var tabLabels = [tabCount]string{"Library", "Reader"}

// ─── async messages ───────────────────────────────────────────────────────────

type tickMsg time.Time

type narrationDoneMsg struct{}

type streakLoadedMsg struct {
	streak sessiondto.StreakOutput
	err    error
}

type importedMsg struct {
	entry documentdto.EntryOutput
	err   error
}

type removedMsg struct {
	id  string
	err error
}

type taggedMsg struct {
	entry librarydto.EntryOutput
	err   error
}

type bookmarkMsg struct {
	page      int
	on        bool
	announced bool
	err       error
}

type bookmarksListedMsg struct {
	pages []int
	err   error
}

type notesMsg struct {
	markdown string
	err      error
}

type noteAddedMsg struct {
	note annotationdto.NoteOutput
	err  error
}

type noteDeletedMsg struct{ err error }

type exportedMsg struct {
	out annotationdto.ExportOutput
	err error
}

type narrationMsg struct {
	status narrationdto.StatusOutput
	err    error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab      key.Binding
	Help     key.Binding
	Palette  key.Binding
	Quit     key.Binding
	Enter    key.Binding
	PrevPg   key.Binding
	NextPg   key.Binding
	Chapter  key.Binding
	Theme    key.Binding
	Layout   key.Binding
	Zoom     key.Binding
	View     key.Binding
	Bookmark key.Binding
	Narrate  key.Binding
	Close    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette:  key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "read")),
		PrevPg:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "page")),
		NextPg:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("←/→", "page")),
		Chapter:  key.NewBinding(key.WithKeys("[", "]"), key.WithHelp("[/]", "chapter")),
		Theme:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Layout:   key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "layout")),
		Zoom:     key.NewBinding(key.WithKeys("+", "-"), key.WithHelp("+/-", "zoom")),
		View:     key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "text/page")),
		Bookmark: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "bookmark")),
		Narrate:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "read aloud")),
		Close:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "close")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Enter, k.Close},
		{k.PrevPg, k.NextPg, k.Chapter},
		{k.Theme, k.Layout, k.Zoom, k.View},
		{k.Bookmark, k.Narrate},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the session
// indicators, the global help overlay, and the command palette. All business
// logic is delegated to port interfaces; all rendering is delegated to
// sub-views.
type Model struct {
	library     libraryPort
	importer    importPort
	session     sessionPort
	narration   narrationPort
	annotations annotationPort

	libView  libraryview.Model
	readView readerview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	clock     sessiondto.StatusOutput
	streak    sessiondto.StreakOutput
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(
	library libraryPort,
	importer importPort,
	reader readerview.Port,
	session sessionPort,
	narration narrationPort,
	annotations annotationPort,
) Model {
	return Model{
		library:     library,
		importer:    importer,
		session:     session,
		narration:   narration,
		annotations: annotations,
		libView:     libraryview.New(libraryPortBridge{p: library}),
		readView:    readerview.New(reader),
		activeTab:   tabLibrary,
		keys:        defaultKeys(),
		help:        help.New(),
		palette:     components.NewPalette(),
		status:      "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.libView.Init(),
		m.loadStreakCmd(),
		m.waitNarrationCmd(),
		tick(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all keys while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, cmd
		}
		cmds = append(cmds, cmd)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()

	case tickMsg:
		m.clock = m.session.Status()
		m.readView.SetDeclutter(m.clock.Declutter)
		m.readView.SetNarrating(m.narration.Status().Speaking)
		return m, tick()

	case narrationDoneMsg:
		m.readView.SetNarrating(m.narration.Status().Speaking)
		return m, m.waitNarrationCmd()

	case narrationMsg:
		if errors.Is(msg.err, apperrors.ErrNoOpenDocument) {
			m.status = "no document open"
		} else if msg.status.Speaking {
			m.status = fmt.Sprintf("reading page %d aloud", msg.status.Page)
		} else {
			m.status = "narration stopped"
		}
		m.readView.SetNarrating(msg.status.Speaking)

	case streakLoadedMsg:
		if msg.err == nil {
			m.streak = msg.streak
		}

	case importedMsg:
		if msg.err != nil {
			m.status = "import failed: " + msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("imported %s (%d pages)", msg.entry.DisplayName, msg.entry.PageCount)
		return m, m.libView.Reload()

	case removedMsg:
		if msg.err != nil {
			m.status = "remove failed: " + msg.err.Error()
			return m, nil
		}
		m.status = "removed " + msg.id
		return m, m.libView.Reload()

	case taggedMsg:
		if msg.err != nil {
			m.status = "tag failed: " + msg.err.Error()
			return m, nil
		}
		m.status = "tags: " + strings.Join(msg.entry.Tags, ", ")
		return m, m.libView.Reload()

	case bookmarkMsg:
		if msg.err != nil {
			m.status = "bookmark: " + msg.err.Error()
			return m, nil
		}
		if msg.page == m.readView.Session().CurrentPage {
			m.readView.SetBookmarked(msg.on)
		}
		if msg.announced {
			if msg.on {
				m.status = fmt.Sprintf("bookmarked page %d", msg.page)
			} else {
				m.status = fmt.Sprintf("removed bookmark on page %d", msg.page)
			}
		}

	case bookmarksListedMsg:
		if msg.err != nil {
			m.status = "bookmarks: " + msg.err.Error()
		} else if len(msg.pages) == 0 {
			m.status = "no bookmarks"
		} else {
			pages := make([]string, len(msg.pages))
			for i, p := range msg.pages {
				pages[i] = strconv.Itoa(p)
			}
			m.status = "bookmarks: " + strings.Join(pages, ", ")
		}

	case notesMsg:
		if msg.err != nil {
			m.status = "notes: " + msg.err.Error()
			return m, nil
		}
		m.readView.ShowNotes(msg.markdown)
		m.activeTab = tabReader

	case noteAddedMsg:
		if msg.err != nil {
			m.status = "note: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("%s note on page %d (%s)", msg.note.Color, msg.note.Page, msg.note.ID)
		}

	case noteDeletedMsg:
		if msg.err != nil {
			m.status = "note: " + msg.err.Error()
		} else {
			m.status = "note deleted"
		}

	case exportedMsg:
		if msg.err != nil {
			m.status = "export failed: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("exported %d notes to %s", msg.out.Notes, msg.out.Path)
		}

	case components.PaletteSubmitMsg:
		m.readView.SetOverlay(false)
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.readView.SetOverlay(false)
		m.status = "ready"

	// OpenedMsg is produced by the reader view but bubbles up through the top
	// level so we can auto-switch to the Reader tab and update status.
	case readerview.OpenedMsg:
		if msg.Err != nil {
			m.status = "reader: " + msg.Err.Error()
		} else {
			m.status = fmt.Sprintf("reading %s", msg.Session.Title)
			m.activeTab = tabReader
			cmds = append(cmds, m.loadStreakCmd(), m.libView.Reload(),
				m.bookmarkStateCmd(msg.Session.DocumentID, msg.Session.CurrentPage))
		}
		var cmd tea.Cmd
		m.readView, cmd = m.readView.Update(msg)
		return m, tea.Batch(append(cmds, cmd)...)

	case readerview.SessionMsg:
		if msg.Err != nil {
			m.status = "reader: " + msg.Err.Error()
		} else if msg.Session.CurrentPage != m.readView.Session().CurrentPage {
			cmds = append(cmds, m.bookmarkStateCmd(msg.Session.DocumentID, msg.Session.CurrentPage))
		}
		var cmd tea.Cmd
		m.readView, cmd = m.readView.Update(msg)
		return m, tea.Batch(append(cmds, cmd)...)

	case readerview.ClosedMsg:
		if msg.Err != nil {
			m.status = "close: " + msg.Err.Error()
		} else {
			m.status = "closed"
		}
		var cmd tea.Cmd
		m.readView, cmd = m.readView.Update(msg)
		return m, tea.Batch(cmd, m.libView.Reload())

	case tea.MouseMsg:
		if m.activeTab == tabReader {
			m.session.Activity()
		}

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
				m.readView.SetOverlay(false)
			}
			return m, nil
		}

		// Yield to sub-view when its search filter is active.
		if m.subViewFiltering() {
			break
		}
		if m.activeTab == tabReader {
			m.session.Activity()
		}

		switch msg.String() {
		case "ctrl+c", "q":
			m.narration.Stop(context.Background())
			return m, tea.Sequence(m.readView.Close(), tea.Quit)
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		case "?":
			m.showHelp = !m.showHelp
			m.readView.SetOverlay(m.showHelp)
		case ":":
			m.readView.SetOverlay(true)
			cmds = append(cmds, m.palette.Open())
			return m, tea.Batch(cmds...)
		case "enter":
			if m.activeTab == tabLibrary {
				if id, ok := m.libView.SelectedEntryID(); ok {
					m.narration.Stop(context.Background())
					cmds = append(cmds, m.readView.Open(id))
				}
			}
		case "b":
			if m.activeTab == tabReader {
				return m, m.toggleBookmarkCmd()
			}
		case "n":
			if m.activeTab == tabReader {
				return m, m.toggleNarrationCmd()
			}
		case "x":
			if m.activeTab == tabReader {
				m.narration.Stop(context.Background())
				return m, m.readView.Close()
			}
		}
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabLibrary:
		m.libView, tabCmd = m.libView.Update(msg)
	case tabReader:
		m.readView, tabCmd = m.readView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.activeTab == tabReader && m.clock.Declutter && !m.showHelp && !m.palette.Visible() {
		return m.readView.View()
	}

	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	tabBarH := lipgloss.Height(tabBar)
	statusBarH := lipgloss.Height(statusBar)

	contentH := m.height - tabBarH - statusBarH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabLibrary:
		return m.libView.View()
	case tabReader:
		return m.readView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "folio  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.clock.Active {
		session := (time.Duration(m.clock.SessionSeconds) * time.Second).String()
		left = theme.Hot.Render("● "+session) + "  " + left
	}
	if m.streak.Current > 0 {
		left = theme.Muted.Render(fmt.Sprintf("streak %dd", m.streak.Current)) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)
	rest := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))
	reading := m.readView.Session()

	needDocument := func() bool {
		if !reading.Open {
			m.status = "no document open"
			return false
		}
		return true
	}

	switch parts[0] {
	case "goto", "chapter":
		if len(parts) < 2 {
			m.status = "usage: " + parts[0] + " <n>"
			return m, nil
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil {
			m.status = "not a number: " + parts[1]
			return m, nil
		}
		if !needDocument() {
			return m, nil
		}
		if parts[0] == "chapter" {
			return m, m.readView.JumpToChapter(n)
		}
		return m, m.readView.GoTo(n)

	case "zoom", "spacing":
		if len(parts) < 2 {
			m.status = "usage: " + parts[0] + " <factor>"
			return m, nil
		}
		f, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			m.status = "not a number: " + parts[1]
			return m, nil
		}
		if !needDocument() {
			return m, nil
		}
		if parts[0] == "zoom" {
			return m, m.readView.Apply(readerdto.Zoom(f))
		}
		return m, m.readView.Apply(readerdto.LineSpacing(f))

	case "margins":
		if len(parts) < 2 {
			m.status = "usage: margins <px>"
			return m, nil
		}
		px, err := strconv.Atoi(parts[1])
		if err != nil {
			m.status = "not a number: " + parts[1]
			return m, nil
		}
		if !needDocument() {
			return m, nil
		}
		return m, m.readView.Apply(readerdto.Margins(px))

	case "theme", "layout", "font":
		if len(parts) < 2 {
			m.status = "usage: " + parts[0] + " <value>"
			return m, nil
		}
		if !needDocument() {
			return m, nil
		}
		switch parts[0] {
		case "theme":
			return m, m.readView.Apply(readerdto.Theme(parts[1]))
		case "layout":
			return m, m.readView.Apply(readerdto.Layout(parts[1]))
		default:
			return m, m.readView.Apply(readerdto.FontFamily(parts[1]))
		}

	case "bookmark":
		return m, m.toggleBookmarkCmd()

	case "bookmarks":
		if !needDocument() {
			return m, nil
		}
		return m, m.listBookmarksCmd(reading.DocumentID)

	case "note":
		if len(parts) < 3 {
			m.status = "usage: note <color> <text>"
			return m, nil
		}
		if !needDocument() {
			return m, nil
		}
		text := strings.TrimSpace(strings.TrimPrefix(rest, parts[1]))
		return m, m.addNoteCmd(reading.DocumentID, reading.CurrentPage, parts[1], text)

	case "note:delete":
		if len(parts) < 2 {
			m.status = "usage: note:delete <id>"
			return m, nil
		}
		return m, m.deleteNoteCmd(parts[1])

	case "notes":
		if !needDocument() {
			return m, nil
		}
		return m, m.renderNotesCmd(reading.DocumentID)

	case "notes:export":
		if !needDocument() {
			return m, nil
		}
		return m, m.exportNotesCmd(reading.DocumentID, rest)

	case "narrate":
		return m, m.toggleNarrationCmd()

	case "import":
		if len(parts) < 2 {
			m.status = "usage: import <path> [tags...]"
			return m, nil
		}
		m.status = "importing " + parts[1]
		return m, m.importCmd(parts[1], parts[2:])

	case "tag":
		id, ok := m.libView.SelectedEntryID()
		if !ok {
			m.status = "no entry selected"
			return m, nil
		}
		return m, m.tagCmd(id, parts[1:])

	case "remove":
		id, ok := m.libView.SelectedEntryID()
		if !ok {
			m.status = "no entry selected"
			return m, nil
		}
		var closeCmd tea.Cmd
		if reading.Open && reading.DocumentID == id {
			m.narration.Stop(context.Background())
			closeCmd = m.readView.Close()
		}
		return m, tea.Sequence(closeCmd, m.removeCmd(id))

	case "streak":
		m.status = fmt.Sprintf("streak: %d days (longest %d)", m.streak.Current, m.streak.Longest)
		return m, m.loadStreakCmd()

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// subViewFiltering reports whether the active tab's list filter is open,
// in which case global key bindings must yield to allow free typing.
func (m Model) subViewFiltering() bool {
	if m.activeTab == tabLibrary {
		return m.libView.Filtering()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.libView, _ = m.libView.Update(sz)
	m.readView, _ = m.readView.Update(sz)
}

// ─── async commands ───────────────────────────────────────────────────────────

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) waitNarrationCmd() tea.Cmd {
	done := m.narration.Completed()
	return func() tea.Msg {
		<-done
		return narrationDoneMsg{}
	}
}

func (m Model) toggleNarrationCmd() tea.Cmd {
	if !m.readView.Session().Open {
		return func() tea.Msg { return narrationMsg{status: m.narration.Status()} }
	}
	return func() tea.Msg {
		status, err := m.narration.Toggle(context.Background())
		return narrationMsg{status: status, err: err}
	}
}

func (m Model) loadStreakCmd() tea.Cmd {
	return func() tea.Msg {
		streak, err := m.session.Streak(context.Background())
		return streakLoadedMsg{streak: streak, err: err}
	}
}

func (m Model) importCmd(path string, tags []string) tea.Cmd {
	return func() tea.Msg {
		entry, err := m.importer.ImportFile(context.Background(), path, "", tags)
		return importedMsg{entry: entry, err: err}
	}
}

func (m Model) tagCmd(id string, tags []string) tea.Cmd {
	return func() tea.Msg {
		entry, err := m.library.Tag(context.Background(), id, tags)
		return taggedMsg{entry: entry, err: err}
	}
}

func (m Model) removeCmd(id string) tea.Cmd {
	return func() tea.Msg {
		return removedMsg{id: id, err: m.library.Remove(context.Background(), id)}
	}
}

func (m Model) toggleBookmarkCmd() tea.Cmd {
	s := m.readView.Session()
	if !s.Open {
		return nil
	}
	return func() tea.Msg {
		out, err := m.annotations.ToggleBookmark(context.Background(), s.DocumentID, s.CurrentPage)
		return bookmarkMsg{page: s.CurrentPage, on: out.Bookmarked, announced: true, err: err}
	}
}

func (m Model) bookmarkStateCmd(documentID string, page int) tea.Cmd {
	return func() tea.Msg {
		marks, err := m.annotations.Bookmarks(context.Background(), documentID)
		if err != nil {
			return bookmarkMsg{page: page, err: err}
		}
		for _, b := range marks {
			if b.Page == page {
				return bookmarkMsg{page: page, on: true}
			}
		}
		return bookmarkMsg{page: page}
	}
}

func (m Model) listBookmarksCmd(documentID string) tea.Cmd {
	return func() tea.Msg {
		marks, err := m.annotations.Bookmarks(context.Background(), documentID)
		pages := make([]int, 0, len(marks))
		for _, b := range marks {
			pages = append(pages, b.Page)
		}
		return bookmarksListedMsg{pages: pages, err: err}
	}
}

func (m Model) addNoteCmd(documentID string, page int, color, text string) tea.Cmd {
	return func() tea.Msg {
		note, err := m.annotations.AddNote(context.Background(), documentID, page, color, text)
		return noteAddedMsg{note: note, err: err}
	}
}

func (m Model) deleteNoteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		return noteDeletedMsg{err: m.annotations.DeleteNote(context.Background(), id)}
	}
}

func (m Model) renderNotesCmd(documentID string) tea.Cmd {
	return func() tea.Msg {
		md, err := m.annotations.Render(context.Background(), documentID)
		return notesMsg{markdown: md, err: err}
	}
}

func (m Model) exportNotesCmd(documentID, path string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.annotations.Export(context.Background(), documentID, path)
		return exportedMsg{out: out, err: err}
	}
}

// ─── port bridges ─────────────────────────────────────────────────────────────

type libraryPortBridge struct{ p libraryPort }

func (b libraryPortBridge) List(ctx context.Context) ([]librarydto.EntryOutput, error) {
	return b.p.List(ctx)
}
func (b libraryPortBridge) Get(ctx context.Context, id string) (librarydto.EntryOutput, error) {
	return b.p.Get(ctx, id)
}
