// Package tui implements the interactive debug-output viewer: a scrolling,
// pausable list of captured messages rendered with Bubbletea.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	pausedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	pidStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Message is one captured debug-output string as shown in the viewer.
type Message struct {
	PID  uint32
	Text string
}

// captureMsg carries a captured message from the engine's sink goroutine
// into the Bubbletea event loop.
type captureMsg Message

// chromeHeight is the number of rows taken by the header and footer.
const chromeHeight = 2

// Model is the Bubbletea model for the viewer.
type Model struct {
	viewport    viewport.Model
	messages    []Message
	maxMessages int

	total  uint64 // all messages seen, including ones trimmed from the backlog
	paused bool
	ready  bool
	width  int
	height int
}

// NewModel creates a viewer model with the given backlog bound.
func NewModel(maxMessages int) Model {
	return Model{
		maxMessages: maxMessages,
		messages:    make([]Message, 0, min(maxMessages, 256)),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "p":
			m.paused = !m.paused
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, max(msg.Height-chromeHeight, 1))
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = max(msg.Height-chromeHeight, 1)
		}
		m.refreshContent()
		return m, nil

	case captureMsg:
		m.append(Message(msg))
		return m, nil
	}

	// Scrolling keys and mouse wheel go to the viewport.
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// append records a message, trimming the oldest entries once the backlog
// bound is reached. Capture continues while paused; only auto-scroll stops.
func (m *Model) append(msg Message) {
	m.total++
	m.messages = append(m.messages, msg)
	if len(m.messages) > m.maxMessages {
		overflow := len(m.messages) - m.maxMessages
		m.messages = m.messages[overflow:]
	}
	m.refreshContent()
}

func (m *Model) refreshContent() {
	if !m.ready {
		return
	}

	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.renderMessages())
	if !m.paused && (atBottom || m.total == 1) {
		m.viewport.GotoBottom()
	}
}

func (m *Model) renderMessages() string {
	if len(m.messages) == 0 {
		return statusStyle.Render("waiting for debug output...")
	}

	var sb strings.Builder
	for _, msg := range m.messages {
		sb.WriteString(pidStyle.Render(fmt.Sprintf("[%6d]", msg.PID)))
		sb.WriteString(" ")
		sb.WriteString(msg.Text)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "starting viewer..."
	}

	status := statusStyle.Render(fmt.Sprintf("%d captured", m.total))
	if m.paused {
		status = pausedStyle.Render("PAUSED") + " " + status
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render("debugtap"), "  ", status)

	footer := helpStyle.Render("q: quit • p: pause • ↑/↓: scroll")

	return header + "\n" + m.viewport.View() + "\n" + footer
}
