package reader

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	readerdto "folio/internal/modules/reader/dto"
	"folio/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

// Port is the minimal interface this view needs from the reader use-case.
type Port interface {
	Open(ctx context.Context, documentID string) (readerdto.SessionOutput, error)
	Close(ctx context.Context) error
	Next(ctx context.Context) (readerdto.SessionOutput, error)
	Prev(ctx context.Context) (readerdto.SessionOutput, error)
	GoTo(ctx context.Context, page int) (readerdto.SessionOutput, error)
	JumpToChapter(ctx context.Context, index int) (readerdto.SessionOutput, error)
	Apply(ctx context.Context, changes ...readerdto.Change) (readerdto.SessionOutput, error)
	ToggleLayout(ctx context.Context) (readerdto.SessionOutput, error)
	CycleTheme(ctx context.Context) (readerdto.SessionOutput, error)
	ZoomBy(ctx context.Context, delta float64) (readerdto.SessionOutput, error)
	Press(ctx context.Context, column, width int) readerdto.SessionOutput
	Drag(ctx context.Context, column int) readerdto.SessionOutput
	Release(ctx context.Context) (readerdto.SessionOutput, error)
	Leave(ctx context.Context) (readerdto.SessionOutput, error)
	SetOverlay(ctx context.Context, open bool)
	PageText(ctx context.Context) (int, string, error)
	Frames() []readerdto.FrameOutput
}

// ─── messages ────────────────────────────────────────────────────────────────

// OpenedMsg is sent when a document has been opened (or failed to open).
type OpenedMsg struct {
	Session readerdto.SessionOutput
	Text    string
	Frames  []readerdto.FrameOutput
	Err     error
}

// SessionMsg carries the reader state after navigation or a settings change.
type SessionMsg struct {
	Session readerdto.SessionOutput
	Text    string
	Frames  []readerdto.FrameOutput
	Err     error
}

// ClosedMsg is sent once the open document has been closed.
type ClosedMsg struct{ Err error }

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the self-contained Bubble Tea model for the Reader tab.
type Model struct {
	port     Port
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	session readerdto.SessionOutput
	text    string
	frames  []readerdto.FrameOutput
	notes   string
	raster  bool

	declutter  bool
	narrating  bool
	bookmarked bool

	loading bool
	width   int
	height  int
}

// New creates a Reader Model backed by the given port.
func New(port Port) Model {
	vp := viewport.New(0, 0)
	vp.MouseWheelEnabled = false

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	r, _ := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(0),
	)

	return Model{
		port:     port,
		viewport: vp,
		spinner:  sp,
		renderer: r,
	}
}

// Init is a no-op: the reader is idle until Open is called.
func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.refresh()

	case OpenedMsg:
		m.loading = false
		if msg.Err != nil {
			m.viewport.SetContent(theme.Hot.Render("Error: " + msg.Err.Error()))
			return m, nil
		}
		m.notes = ""
		m.apply(msg.Session, msg.Text, msg.Frames)
		m.viewport.GotoTop()

	case SessionMsg:
		if msg.Err == nil {
			m.apply(msg.Session, msg.Text, msg.Frames)
		} else if msg.Session.Open {
			m.session = msg.Session
		}

	case ClosedMsg:
		m.session = readerdto.SessionOutput{}
		m.text, m.frames, m.notes = "", nil, ""
		m.bookmarked, m.narrating, m.declutter = false, false, false
		m.viewport.SetContent("")

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.MouseMsg:
		if cmd := m.mouse(msg); cmd != nil {
			return m, cmd
		}

	case tea.BlurMsg:
		if m.session.Gesture.Active {
			return m, m.stateCmd(m.port.Leave)
		}

	case tea.KeyMsg:
		if m.notes != "" && msg.String() == "esc" {
			m.notes = ""
			m.refresh()
			return m, nil
		}
		// v flips between the page text and the rasterized page.
		if m.session.Open && msg.String() == "v" {
			m.raster = !m.raster
			m.refresh()
			return m, nil
		}
		if cmd := m.key(msg); cmd != nil {
			return m, cmd
		}
	}

	var vCmd tea.Cmd
	m.viewport, vCmd = m.viewport.Update(msg)
	cmds = append(cmds, vCmd)

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Opening document…")
	}
	if m.declutter && m.notes == "" {
		return m.viewportAt(m.height)
	}
	header := m.renderHeader()
	footer := m.renderFooter()
	vpHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if vpHeight < 1 {
		vpHeight = 1
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, m.viewportAt(vpHeight), footer)
}

// Open triggers loading a document. The returned Cmd produces an OpenedMsg.
func (m *Model) Open(documentID string) tea.Cmd {
	m.loading = true
	return tea.Batch(m.openCmd(documentID), m.spinner.Tick)
}

// Close ends the reading session of the open document.
func (m Model) Close() tea.Cmd {
	if !m.session.Open {
		return nil
	}
	return func() tea.Msg {
		return ClosedMsg{Err: m.port.Close(context.Background())}
	}
}

func (m Model) GoTo(page int) tea.Cmd {
	return m.stateCmd(func(ctx context.Context) (readerdto.SessionOutput, error) {
		return m.port.GoTo(ctx, page)
	})
}

// JumpToChapter takes a one-based chapter number.
func (m Model) JumpToChapter(n int) tea.Cmd {
	return m.stateCmd(func(ctx context.Context) (readerdto.SessionOutput, error) {
		return m.port.JumpToChapter(ctx, n-1)
	})
}

func (m Model) Apply(changes ...readerdto.Change) tea.Cmd {
	return m.stateCmd(func(ctx context.Context) (readerdto.SessionOutput, error) {
		return m.port.Apply(ctx, changes...)
	})
}

// SetOverlay tells the reader a modal surface covers it.
func (m Model) SetOverlay(open bool) {
	if m.session.Open {
		m.port.SetOverlay(context.Background(), open)
	}
}

// ShowNotes replaces the page with rendered markdown until esc is pressed.
func (m *Model) ShowNotes(markdown string) {
	m.notes = markdown
	m.refresh()
	m.viewport.GotoTop()
}

func (m *Model) SetDeclutter(on bool) { m.declutter = on }

func (m *Model) SetNarrating(on bool) { m.narrating = on }

func (m *Model) SetBookmarked(on bool) { m.bookmarked = on }

func (m Model) Session() readerdto.SessionOutput { return m.session }

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) key(msg tea.KeyMsg) tea.Cmd {
	if !m.session.Open {
		return nil
	}
	switch msg.String() {
	case "right", "l", " ":
		return m.stateCmd(m.port.Next)
	case "left", "h":
		return m.stateCmd(m.port.Prev)
	case "home":
		return m.GoTo(1)
	case "end":
		return m.GoTo(m.session.PageCount)
	case "]":
		return m.JumpToChapter(m.session.ChapterIndex + 2)
	case "[":
		if m.session.ChapterIndex > 0 {
			return m.JumpToChapter(m.session.ChapterIndex)
		}
		return nil
	case "t":
		return m.stateCmd(m.port.CycleTheme)
	case "L":
		return m.stateCmd(m.port.ToggleLayout)
	case "+", "=":
		return m.stateCmd(func(ctx context.Context) (readerdto.SessionOutput, error) { return m.port.ZoomBy(ctx, 0.25) })
	case "-":
		return m.stateCmd(func(ctx context.Context) (readerdto.SessionOutput, error) { return m.port.ZoomBy(ctx, -0.25) })
	}
	return nil
}

func (m Model) mouse(msg tea.MouseMsg) tea.Cmd {
	if !m.session.Open || m.notes != "" {
		return nil
	}
	ctx := context.Background()
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		session := m.port.Press(ctx, msg.X, m.width)
		return func() tea.Msg { return SessionMsg{Session: session, Text: m.text, Frames: m.frames} }
	case msg.Action == tea.MouseActionMotion && m.session.Gesture.Active:
		session := m.port.Drag(ctx, msg.X)
		return func() tea.Msg { return SessionMsg{Session: session, Text: m.text, Frames: m.frames} }
	case msg.Action == tea.MouseActionRelease && m.session.Gesture.Active:
		return m.stateCmd(m.port.Release)
	}
	return nil
}

func (m *Model) apply(session readerdto.SessionOutput, text string, frames []readerdto.FrameOutput) {
	m.session = session
	m.text = text
	m.frames = frames
	m.refresh()
}

func (m *Model) refresh() {
	if !m.session.Open && m.notes == "" {
		return
	}
	m.viewport.SetContent(m.renderContent())
}

func (m *Model) resize() {
	m.viewport.Width = m.width
	// header ≈ 2 lines, footer = 1 line
	m.viewport.Height = m.height - 3
	if m.viewport.Height < 1 {
		m.viewport.Height = 1
	}
	// Rebuild the glamour renderer so it word-wraps at the new terminal width.
	if r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(m.width),
	); err == nil {
		m.renderer = r
	}
}

// viewportAt renders the viewport content at a temporary height without
// mutating the persisted viewport.Height set by resize().
func (m Model) viewportAt(h int) string {
	vp := m.viewport
	vp.Height = h
	return vp.View()
}

func (m Model) renderHeader() string {
	if !m.session.Open {
		return theme.Title.Render("Reader") +
			theme.Muted.Render("  Open a document from the Library tab (enter)") + "\n"
	}
	s := m.session
	pages := fmt.Sprintf("p.%d/%d", s.CurrentPage, s.PageCount)
	if s.SecondPage > 0 {
		pages = fmt.Sprintf("p.%d-%d/%d", s.CurrentPage, s.SecondPage, s.PageCount)
	}
	parts := []string{
		theme.Title.Render(s.Title),
		theme.Muted.Render(pages),
	}
	if s.ChapterIndex >= 0 && s.ChapterIndex < len(s.Chapters) {
		parts = append(parts, theme.Muted.Render(s.Chapters[s.ChapterIndex].Title))
	}
	if m.bookmarked {
		parts = append(parts, theme.Hot.Render("★"))
	}
	if m.narrating {
		parts = append(parts, theme.Hot.Render("♪ reading aloud"))
	}
	return strings.Join(parts, "  ") + "\n"
}

func (m Model) renderFooter() string {
	if m.notes != "" {
		return theme.Muted.Render("esc: back to page")
	}
	st := m.session.Settings
	info := fmt.Sprintf("%s  %s  zoom %.2f", st.Theme, st.Layout, st.Zoom)
	if g := m.session.Gesture; g.Active && g.Direction != "" {
		info += fmt.Sprintf("  swipe %s %.0f%%", g.Direction, g.Offset*100)
	}
	nav := "  ←/→ page  [/] chapter  t theme  L layout  +/- zoom  v view  b bookmark  n narrate"
	return theme.Muted.Render(info + nav)
}

func (m Model) renderContent() string {
	if m.notes != "" {
		if m.renderer != nil {
			if rendered, err := m.renderer.Render(m.notes); err == nil {
				return rendered
			}
		}
		return m.notes
	}
	if m.raster {
		if out := Raster(m.frames, m.width, m.viewport.Height); out != "" {
			return out
		}
		return theme.Muted.Render("(page not rendered)")
	}
	if strings.TrimSpace(m.text) == "" {
		return theme.Muted.Render("(no text on this page; press v for the page image)")
	}
	return lipgloss.NewStyle().Width(m.width).Render(m.text)
}

func (m Model) openCmd(documentID string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		session, err := m.port.Open(ctx, documentID)
		if err != nil {
			return OpenedMsg{Err: err}
		}
		_, text, _ := m.port.PageText(ctx)
		return OpenedMsg{Session: session, Text: text, Frames: m.port.Frames()}
	}
}

// stateCmd runs op and collects the page text and frames it left behind.
func (m Model) stateCmd(op func(context.Context) (readerdto.SessionOutput, error)) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		session, err := op(ctx)
		if err != nil {
			return SessionMsg{Session: session, Err: err}
		}
		_, text, _ := m.port.PageText(ctx)
		return SessionMsg{Session: session, Text: text, Frames: m.port.Frames()}
	}
}
