package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"docqa/internal/domain"
)

// QAPort is the TUI-facing subset of the QA service.
type QAPort interface {
	Query(question string, topK int) (domain.Answer, error)
	ClearIndex() error
}

// Model is the Bubble Tea model for the question-answering TUI.
type Model struct {
	service  QAPort
	input    textinput.Model
	viewport viewport.Model
	answer   domain.Answer
	answered bool
	summary  string
	status   string
	ready    bool
}

// New creates a new TUI model instance.
func New(service QAPort, summary string) Model {
	ti := textinput.New()
	ti.Prompt = "? "
	ti.Placeholder = "Ask a question about your document and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{service: service, input: ti, viewport: vp, summary: summary, status: "Ready. Ctrl+X clears the index."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around the answer and question boxes
		_, rh := answerBoxStyle.GetFrameSize()
		_, qh := questionBoxStyle.GetFrameSize()
		totalHeaderLines := 2                                    // header + summary
		totalFooterLines := 1                                    // status
		reserved := totalHeaderLines + totalFooterLines + qh + 1 // 1 spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderAnswer())
		return m, nil
	case tea.KeyMsg:
		// Global quits
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				ans, err := m.service.Query(q, 0)
				if err != nil {
					m.status = "Error: " + err.Error()
					m.answered = false
				} else {
					m.status = fmt.Sprintf("Answer for %q", q)
					m.answer = ans
					m.answered = true
				}
				m.viewport.SetContent(m.renderAnswer())
				m.viewport.GotoTop()
				return m, nil
			}
		case "ctrl+x":
			if err := m.service.ClearIndex(); err != nil {
				m.status = "Error: " + err.Error()
			} else {
				m.status = "Index cleared."
				m.answered = false
				m.viewport.SetContent(m.renderAnswer())
			}
			return m, nil
		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI layout and the current answer.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Document QA")
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.summary)
	input := questionBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	answer := answerBoxStyle.Render(m.viewport.View())
	return header + "\n" + summary + "\n" + answer + "\n" + input + "\n" + status
}

func (m Model) renderAnswer() string {
	if !m.answered {
		return "No answer yet."
	}
	var b strings.Builder
	b.WriteString(answerStyle.Render(m.answer.Answer))
	if len(m.answer.Contexts) > 0 {
		b.WriteString("\n\n")
		b.WriteString(contextHeaderStyle.Render("Retrieved contexts"))
		for i, ctx := range m.answer.Contexts {
			b.WriteString(fmt.Sprintf("\n\n%d. (distance %.4f)\n%s", i+1, m.answer.Distances[i], ctx))
		}
	}
	return b.String()
}

var (
	answerBoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	questionBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	answerStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	contextHeaderStyle = lipgloss.NewStyle().Underline(true)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
