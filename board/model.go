package board

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"task-board-api/models"
)

const requestTimeout = 5 * time.Second

var (
	columnStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Width(30)
	activeColumnStyle = columnStyle.BorderForeground(lipgloss.Color("63"))
	headerStyle       = lipgloss.NewStyle().Bold(true)
	selectedStyle     = lipgloss.NewStyle().Reverse(true)
	dimStyle          = lipgloss.NewStyle().Faint(true)
	errorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

type tasksLoadedMsg struct{ tasks []models.TaskItemDTO }

type taskChangedMsg struct{}

type errMsg struct{ err error }

// Model is the bubbletea model of the board: one column per status.
type Model struct {
	client    *Client
	columns   [3][]models.TaskItemDTO
	col, row  int
	loaded    bool
	err       error
	inputMode bool
	input     string
}

func NewModel(client *Client) *Model {
	return &Model{client: client}
}

// Run starts the board full screen until the user quits.
func Run(ctx context.Context, client *Client) error {
	p := tea.NewProgram(NewModel(client), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return m.load()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tasksLoadedMsg:
		m.setTasks(msg.tasks)
		m.err = nil
		return m, nil
	case taskChangedMsg:
		return m, m.load()
	case errMsg:
		m.err = msg.err
		return m, nil
	case tea.KeyMsg:
		if m.inputMode {
			return m.updateInput(msg)
		}
		return m.updateBoard(msg)
	}
	return m, nil
}

func (m *Model) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "left", "h":
		if m.col > 0 {
			m.col--
			m.clampRow()
		}
	case "right", "l":
		if m.col < len(m.columns)-1 {
			m.col++
			m.clampRow()
		}
	case "up", "k":
		if m.row > 0 {
			m.row--
		}
	case "down", "j":
		if m.row < len(m.columns[m.col])-1 {
			m.row++
		}
	case "r":
		return m, m.load()
	case "n":
		m.inputMode = true
		m.input = ""
	case "enter":
		if t, ok := m.Selected(); ok {
			return m, m.advance(t)
		}
	case "d":
		if t, ok := m.Selected(); ok {
			return m, m.remove(t.ID)
		}
	}
	return m, nil
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.inputMode = false
		m.input = ""
	case tea.KeyEnter:
		title := strings.TrimSpace(m.input)
		m.inputMode = false
		m.input = ""
		if title != "" {
			return m, m.create(title)
		}
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	case tea.KeyCtrlC:
		return m, tea.Quit
	}
	return m, nil
}

// Selected returns the highlighted task, if any.
func (m *Model) Selected() (models.TaskItemDTO, bool) {
	col := m.columns[m.col]
	if m.row < 0 || m.row >= len(col) {
		return models.TaskItemDTO{}, false
	}
	return col[m.row], true
}

func (m *Model) setTasks(tasks []models.TaskItemDTO) {
	var cols [3][]models.TaskItemDTO
	for _, t := range tasks {
		status, err := models.ParseStatus(t.Status)
		if err != nil {
			continue
		}
		cols[status] = append(cols[status], t)
	}
	m.columns = cols
	m.loaded = true
	m.clampRow()
}

func (m *Model) clampRow() {
	if n := len(m.columns[m.col]); m.row >= n {
		m.row = n - 1
	}
	if m.row < 0 {
		m.row = 0
	}
}

func (m *Model) load() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		tasks, err := client.List(ctx)
		if err != nil {
			return errMsg{err}
		}
		return tasksLoadedMsg{tasks}
	}
}

func (m *Model) advance(t models.TaskItemDTO) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		status, err := models.ParseStatus(t.Status)
		if err != nil {
			return errMsg{err}
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if _, err := client.SetStatus(ctx, t.ID, status.Next()); err != nil {
			return errMsg{err}
		}
		return taskChangedMsg{}
	}
}

func (m *Model) remove(id int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := client.Delete(ctx, id); err != nil {
			return errMsg{err}
		}
		return taskChangedMsg{}
	}
}

func (m *Model) create(title string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if _, err := client.Create(ctx, title); err != nil {
			return errMsg{err}
		}
		return taskChangedMsg{}
	}
}

func (m *Model) View() string {
	if !m.loaded && m.err == nil {
		return "Loading task items...\n"
	}

	cols := make([]string, len(m.columns))
	for i, status := range models.Statuses() {
		var b strings.Builder
		b.WriteString(headerStyle.Render(fmt.Sprintf("%s (%d)", status, len(m.columns[i]))))
		b.WriteString("\n\n")
		if len(m.columns[i]) == 0 {
			b.WriteString(dimStyle.Render("nothing here"))
		}
		for j, t := range m.columns[i] {
			line := t.Title
			if t.DueDate != nil {
				line += dimStyle.Render(" due " + *t.DueDate)
			}
			if i == m.col && j == m.row {
				line = selectedStyle.Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		style := columnStyle
		if i == m.col {
			style = activeColumnStyle
		}
		cols[i] = style.Render(b.String())
	}

	var out strings.Builder
	out.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	out.WriteString("\n")
	if m.inputMode {
		out.WriteString("New task: " + m.input + "█\n")
	}
	if m.err != nil {
		out.WriteString(errorStyle.Render("error: "+m.err.Error()) + "\n")
	}
	out.WriteString(dimStyle.Render("←/→ column  ↑/↓ select  enter advance  n new  d delete  r refresh  q quit"))
	out.WriteString("\n")
	return out.String()
}
