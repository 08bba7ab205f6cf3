package build

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

	renderdto "suerga/internal/modules/render/dto"
	trydto "suerga/internal/modules/tryit/dto"
	"suerga/internal/ui/theme"
)

type IndexPort interface {
	List(ctx context.Context) ([]renderdto.IndexEntry, error)
}

// CheckPort verifies the try page of the last build. It may be nil.
type CheckPort interface {
	Check(ctx context.Context) (trydto.CheckOutput, error)
}

type EntriesLoadedMsg struct {
	Entries []renderdto.IndexEntry
	Err     error
}

type CheckLoadedMsg struct {
	Check trydto.CheckOutput
	Err   error
}

type entryItem struct {
	entry renderdto.IndexEntry
}

func (i entryItem) Title() string { return i.entry.Path }
func (i entryItem) Description() string {
	return fmt.Sprintf("%s  %s", i.entry.Kind, humanSize(i.entry.Size))
}
func (i entryItem) FilterValue() string { return i.entry.Path }

type Model struct {
	index    IndexPort
	checks   CheckPort
	list     list.Model
	detail   viewport.Model
	spinner  spinner.Model
	check    *trydto.CheckOutput
	checkErr error
	loading  bool
	width    int
	height   int
}

func New(index IndexPort, checks CheckPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Build"
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

	return Model{index: index, checks: checks, list: l, detail: vp, spinner: sp, loading: true}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadEntriesCmd(), m.spinner.Tick}
	if m.checks != nil {
		cmds = append(cmds, m.loadCheckCmd())
	}
	return tea.Batch(cmds...)
}

// Reload fetches the index and the page check again.
func (m Model) Reload() (Model, tea.Cmd) {
	m.loading = true
	return m, m.Init()
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
			m.list.Title = "Build: " + msg.Err.Error()
			return m, nil
		}
		items := make([]list.Item, len(msg.Entries))
		for i, e := range msg.Entries {
			items[i] = entryItem{entry: e}
		}
		if len(msg.Entries) > 0 {
			m.list.Title = "Build " + shortID(msg.Entries[0].BuildID)
		}
		cmds = append(cmds, m.list.SetItems(items))
		m.detail.SetContent(m.renderDetail())

	case CheckLoadedMsg:
		if msg.Err != nil {
			m.checkErr = msg.Err
		} else {
			check := msg.Check
			m.check = &check
			m.checkErr = nil
		}
		m.detail.SetContent(m.renderDetail())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			m.detail.SetContent(m.renderDetail())
		}

		var vCmd tea.Cmd
		m.detail, vCmd = m.detail.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading build index…")
	}

	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := theme.Detail.
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.detail.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.detail.Width = detailW - 4
	m.detail.Height = m.height - 4
}

func (m Model) renderDetail() string {
	var sb strings.Builder
	sb.WriteString(m.renderCheck())
	item, ok := m.list.SelectedItem().(entryItem)
	if !ok {
		sb.WriteString(theme.Muted.Render("Select an output to see details"))
		return sb.String()
	}
	e := item.entry
	sb.WriteString(theme.Title.Render(e.Path) + "\n\n")
	sb.WriteString(theme.Muted.Render("source: ") + e.Source + "\n")
	sb.WriteString(theme.Muted.Render("kind:   ") + e.Kind + "\n")
	sb.WriteString(theme.Muted.Render("size:   ") + humanSize(e.Size) + "\n")
	sb.WriteString(theme.Muted.Render("sha256: ") + e.SHA256 + "\n")
	sb.WriteString(theme.Muted.Render("build:  ") + e.BuildID + "\n")
	sb.WriteString(theme.Muted.Render("built:  ") + e.BuiltAt.Format(time.RFC3339) + "\n")
	return sb.String()
}

func (m Model) renderCheck() string {
	switch {
	case m.checkErr != nil:
		return theme.Hot.Render("page check: ") + m.checkErr.Error() + "\n\n"
	case m.check == nil:
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(m.check.Page) + "  " + theme.Verdict(m.check.OK) + "\n")
	for _, c := range m.check.Checks {
		line := "  " + theme.Verdict(c.OK) + " " + c.Name
		if !c.OK && c.Details != "" {
			line += theme.Muted.Render(": " + c.Details)
		}
		sb.WriteString(line + "\n")
	}
	return sb.String() + "\n"
}

func (m Model) loadEntriesCmd() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.index.List(context.Background())
		return EntriesLoadedMsg{Entries: entries, Err: err}
	}
}

func (m Model) loadCheckCmd() tea.Cmd {
	return func() tea.Msg {
		check, err := m.checks.Check(context.Background())
		return CheckLoadedMsg{Check: check, Err: err}
	}
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
