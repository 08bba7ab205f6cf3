package app

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"suerga/internal/ui/theme"
	buildview "suerga/internal/ui/views/build"
)

type keyMap struct {
	Reload key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Reload, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Reload, k.Help, k.Quit}}
}

// Model is the report program: the build view plus a help footer.
type Model struct {
	build  buildview.Model
	keys   keyMap
	help   help.Model
	width  int
	height int
}

func New(index buildview.IndexPort, checks buildview.CheckPort) Model {
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(theme.Lavender)
	h.Styles.ShortDesc = theme.Muted
	return Model{build: buildview.New(index, checks), keys: defaultKeys(), help: h}
}

func (m Model) Init() tea.Cmd {
	return m.build.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		var cmd tea.Cmd
		m.build, cmd = m.build.Update(tea.WindowSizeMsg{Width: msg.Width - 4, Height: msg.Height - 4})
		return m, cmd
	case tea.KeyMsg:
		if !m.build.Filtering() {
			switch {
			case key.Matches(msg, m.keys.Quit):
				return m, tea.Quit
			case key.Matches(msg, m.keys.Help):
				m.help.ShowAll = !m.help.ShowAll
				return m, nil
			case key.Matches(msg, m.keys.Reload):
				var cmd tea.Cmd
				m.build, cmd = m.build.Reload()
				return m, cmd
			}
		}
	}
	var cmd tea.Cmd
	m.build, cmd = m.build.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	body := lipgloss.JoinVertical(lipgloss.Left, m.build.View(), m.help.View(m.keys))
	return theme.App.Width(m.width).Render(body)
}
