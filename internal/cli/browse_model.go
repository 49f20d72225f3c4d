package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/xerkit/internal/cli/formatter"
	"github.com/alexanderramin/xerkit/internal/domain"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type browseKeys struct {
	Up       key.Binding
	Down     key.Binding
	Filter   key.Binding
	Critical key.Binding
	Open     key.Binding
	Back     key.Binding
	Quit     key.Binding
}

func defaultBrowseKeys() browseKeys {
	return browseKeys{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Filter:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "find")),
		Critical: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "critical only")),
		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k browseKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Filter, k.Critical, k.Open, k.Back, k.Quit}
}

func (k browseKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// browseModel lists a project's activities with fuzzy find, a critical
// filter and a scrollable detail pane.
type browseModel struct {
	project  *domain.Project
	tasks    []*domain.Task
	cursor   int
	offset   int
	critical bool

	filter    textinput.Model
	filtering bool

	detail     viewport.Model
	showDetail bool

	keys   browseKeys
	help   help.Model
	width  int
	height int
}

func newBrowseModel(p *domain.Project) *browseModel {
	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "activity id or name"

	m := &browseModel{
		project: p,
		filter:  filter,
		detail:  viewport.New(80, 22),
		keys:    defaultBrowseKeys(),
		help:    help.New(),
		width:   80,
		height:  24,
	}
	m.refresh()
	return m
}

func taskCount(tasks []*domain.Task) string {
	if len(tasks) == 1 {
		return "1 activity"
	}
	return fmt.Sprintf("%d activities", len(tasks))
}

// listHeight is the number of task rows that fit below the title, the
// filter line and the table header, above the help line.
func (m *browseModel) listHeight() int {
	return max(m.height-5, 1)
}

func (m *browseModel) refresh() {
	tasks := m.project.Tasks()
	if m.critical {
		tasks = criticalOnly(tasks)
	}
	m.tasks = findTasks(tasks, m.filter.Value())
	m.cursor = min(m.cursor, max(len(m.tasks)-1, 0))
	m.scroll()
}

func (m *browseModel) scroll() {
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
}

func (m *browseModel) selected() *domain.Task {
	if m.cursor < len(m.tasks) {
		return m.tasks[m.cursor]
	}
	return nil
}

func (m *browseModel) Init() tea.Cmd { return nil }

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.detail.Width = msg.Width
		m.detail.Height = max(msg.Height-2, 1)
		m.help.Width = msg.Width
		m.scroll()
		return m, nil
	case tea.KeyMsg:
		switch {
		case m.filtering:
			return m.updateFilter(msg)
		case m.showDetail:
			return m.updateDetail(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m *browseModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.filtering = false
		m.filter.Blur()
		return m, nil
	case tea.KeyEsc:
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.cursor, m.offset = 0, 0
	m.refresh()
	return m, cmd
}

func (m *browseModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Open):
		m.showDetail = false
		return m, nil
	}
	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m *browseModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		return m, m.filter.Focus()
	case key.Matches(msg, m.keys.Critical):
		m.critical = !m.critical
		m.cursor, m.offset = 0, 0
		m.refresh()
	case key.Matches(msg, m.keys.Open):
		if t := m.selected(); t != nil {
			m.detail.SetContent(formatter.FormatTaskDetail(t))
			m.detail.GotoTop()
			m.showDetail = true
		}
	case key.Matches(msg, m.keys.Back):
		if m.filter.Value() != "" {
			m.filter.SetValue("")
			m.refresh()
		}
	}
	m.scroll()
	return m, nil
}

func (m *browseModel) View() string {
	if m.showDetail {
		return m.detail.View() + "\n" + m.help.View(m.keys)
	}

	var b strings.Builder
	status := taskCount(m.tasks)
	if m.critical {
		status += ", critical only"
	}
	b.WriteString(formatter.StyleHeader.Render(m.project.ShortName) + " " + m.project.Name + formatter.Dim("  "+status) + "\n")
	if m.filtering || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
	}
	b.WriteString("\n")

	end := min(m.offset+m.listHeight(), len(m.tasks))
	rows := make([][]string, 0, max(end-m.offset, 0))
	for i := m.offset; i < end; i++ {
		t := m.tasks[i]
		marker, code := " ", t.Code
		if i == m.cursor {
			marker, code = formatter.StyleHeader.Render("›"), formatter.Bold(code)
		}
		rows = append(rows, []string{
			marker,
			formatter.CriticalMark(t.IsCritical()),
			code,
			t.Name,
			formatter.StatusPill(t.Status),
			formatter.FloatStyled(t.TotalFloat()),
		})
	}
	b.WriteString(formatter.RenderTable([]string{"", "", "ID", "NAME", "STATUS", "TF"}, rows))
	if len(m.tasks) == 0 {
		b.WriteString(formatter.Dim("no matching activities") + "\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
