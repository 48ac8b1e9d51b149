package library

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	libdto "folio/internal/modules/library/dto"
	"folio/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type LibraryPort interface {
	List(ctx context.Context) ([]libdto.EntryOutput, error)
	Get(ctx context.Context, id string) (libdto.EntryOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type EntriesLoadedMsg struct {
	Entries []libdto.EntryOutput
	Err     error
}

type DetailLoadedMsg struct {
	Detail libdto.EntryOutput
	Err    error
}

// ─── list item ───────────────────────────────────────────────────────────────

type entryItem struct {
	entry libdto.EntryOutput
}

func (i entryItem) Title() string { return i.entry.DisplayName }

func (i entryItem) Description() string {
	desc := fmt.Sprintf("p.%d/%d  %.0f%%", i.entry.LastPageRead, i.entry.PageCount, i.entry.Progress()*100)
	if len(i.entry.Tags) > 0 {
		desc += "  #" + strings.Join(i.entry.Tags, " #")
	}
	return desc
}

func (i entryItem) FilterValue() string {
	return i.entry.DisplayName + " " + strings.Join(i.entry.Tags, " ")
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    LibraryPort
	list    list.Model
	detail  libdto.EntryOutput
	preview viewport.Model
	spinner spinner.Model
	loading bool
	width   int
	height  int
}

func New(port LibraryPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Library"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:    port,
		list:    l,
		preview: vp,
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadEntriesCmd(), m.spinner.Tick)
}

// Reload fetches the entries again, most recently opened first.
func (m Model) Reload() tea.Cmd {
	return m.loadEntriesCmd()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case EntriesLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Library: " + msg.Err.Error()
			return m, nil
		}
		m.list.Title = "Library"
		items := make([]list.Item, len(msg.Entries))
		for i, e := range msg.Entries {
			items[i] = entryItem{entry: e}
		}
		cmds = append(cmds, m.list.SetItems(items))
		if len(msg.Entries) == 0 {
			m.detail = libdto.EntryOutput{}
			m.preview.SetContent(m.renderDetail())
		} else if item, ok := m.list.SelectedItem().(entryItem); ok {
			cmds = append(cmds, m.loadDetailCmd(item.entry.ID))
		}

	case DetailLoadedMsg:
		if msg.Err == nil {
			m.detail = msg.Detail
			m.preview.SetContent(m.renderDetail())
		}

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			if item, ok := m.list.SelectedItem().(entryItem); ok {
				cmds = append(cmds, m.loadDetailCmd(item.entry.ID))
			}
		}

		var vCmd tea.Cmd
		m.preview, vCmd = m.preview.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading library…")
	}

	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.preview.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// SelectedEntryID returns the current selection's entry ID, if any.
func (m Model) SelectedEntryID() (string, bool) {
	if item, ok := m.list.SelectedItem().(entryItem); ok {
		return item.entry.ID, true
	}
	return "", false
}

// Filtering reports whether the list's search filter is currently active.
// The app model checks this to avoid consuming global keys during a search.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.preview.Width = detailW - 4
	m.preview.Height = m.height - 4
}

func (m Model) renderDetail() string {
	d := m.detail
	if d.ID == "" {
		return theme.Muted.Render("Import a PDF with `folio import` or the `import` command")
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(d.DisplayName) + "\n\n")
	sb.WriteString(theme.Muted.Render("id:      ") + d.ID + "\n")
	sb.WriteString(fmt.Sprintf("%s%d / %d (%.1f%%)\n", theme.Muted.Render("page:    "), d.LastPageRead, d.PageCount, d.Progress()*100))
	sb.WriteString(theme.Muted.Render("read:    ") + (time.Duration(d.TotalTimeSeconds) * time.Second).String() + "\n")
	sb.WriteString(theme.Muted.Render("opened:  ") + d.LastOpenedAt.Local().Format("2006-01-02 15:04") + "\n")
	sb.WriteString(theme.Muted.Render("added:   ") + d.AddedAt.Local().Format("2006-01-02") + "\n")
	if len(d.Tags) > 0 {
		sb.WriteString(theme.Muted.Render("tags:    ") + strings.Join(d.Tags, ", ") + "\n")
	}
	if len(d.CoverThumbnail) == 0 {
		sb.WriteString(theme.Muted.Render("cover:   ") + "pending\n")
	}
	if len(d.Chapters) > 0 {
		sb.WriteString("\n" + theme.Title.Render("Chapters") + "\n")
		for i, c := range d.Chapters {
			sb.WriteString(fmt.Sprintf("%3d  %s %s\n", i+1, c.Title, theme.Muted.Render(fmt.Sprintf("p.%d", c.Page))))
		}
	}
	sb.WriteString("\n" + theme.Muted.Render("enter: read  /: filter"))
	return sb.String()
}

func (m Model) loadEntriesCmd() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.port.List(context.Background())
		return EntriesLoadedMsg{Entries: entries, Err: err}
	}
}

func (m Model) loadDetailCmd(id string) tea.Cmd {
	return func() tea.Msg {
		detail, err := m.port.Get(context.Background(), id)
		return DetailLoadedMsg{Detail: detail, Err: err}
	}
}
