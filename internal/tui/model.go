package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ragpartner/internal/domain"
)

// ServicePort is the TUI-facing subset of the RAG service.
type ServicePort interface {
	AnswerQuery(ctx context.Context, query, namespace string) (domain.Answer, error)
	Documents() []domain.Document
	ActiveDocument() (domain.Document, bool)
	SelectDocument(sourceName string) bool
	RemoveDocument(ctx context.Context, sourceName string) error
}

// Model is the Bubble Tea model for the interactive QA session.
type Model struct {
	service  ServicePort
	input    textinput.Model
	viewport viewport.Model
	answer   domain.Answer
	status   string
	ready    bool
	asked    bool
}

// New creates a new TUI model instance.
func New(service ServicePort) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter (tab: switch document, ctrl+x: delete document)"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{service: service, input: ti, viewport: vp, status: "Ready."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := answerBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // header + document line, status, query frame, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderAnswer())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				m = m.ask(q)
				m.viewport.SetContent(m.renderAnswer())
				return m, nil
			}
		case "tab":
			m.cycleDocument()
			return m, nil
		case "ctrl+x":
			if doc, ok := m.service.ActiveDocument(); ok {
				if err := m.service.RemoveDocument(context.Background(), doc.SourceName); err != nil {
					m.status = "Error: " + err.Error()
				} else {
					m.status = fmt.Sprintf("Deleted %s", doc.SourceName)
					m.cycleDocument()
				}
			}
			return m, nil
		case "up":
			m.viewport.LineUp(1)
			return m, nil
		case "down":
			m.viewport.LineDown(1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) ask(query string) Model {
	doc, ok := m.service.ActiveDocument()
	if !ok {
		m.status = "No document selected. Ingest a document first."
		return m
	}
	start := time.Now()
	answer, err := m.service.AnswerQuery(context.Background(), query, doc.Namespace)
	if err != nil {
		m.status = "Error: " + err.Error()
		return m
	}
	m.answer = answer
	m.asked = true
	m.input.SetValue("")
	m.status = fmt.Sprintf("Answered in %.2fs (%d sources)", time.Since(start).Seconds(), len(answer.Sources))
	return m
}

func (m *Model) cycleDocument() {
	docs := m.service.Documents()
	if len(docs) == 0 {
		m.status = "No documents loaded."
		return
	}
	next := 0
	if active, ok := m.service.ActiveDocument(); ok {
		for i, d := range docs {
			if d.SourceName == active.SourceName {
				next = (i + 1) % len(docs)
				break
			}
		}
	}
	m.service.SelectDocument(docs[next].SourceName)
	m.status = fmt.Sprintf("Chatting with %s", docs[next].SourceName)
}

// View renders the TUI layout and current answer.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("RAG Thought Partner")
	docLine := "No document selected"
	if doc, ok := m.service.ActiveDocument(); ok {
		docLine = "Document: " + doc.SourceName
	}
	docs := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(docLine)
	answer := answerBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + docs + "\n" + answer + "\n" + input + "\n" + status
}

func (m Model) renderAnswer() string {
	if !m.asked {
		return "Ask a question about the selected document."
	}
	var sb strings.Builder
	sb.WriteString(m.answer.Text)
	if len(m.answer.Sources) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(sourceHeaderStyle.Render("Sources"))
		sb.WriteString("\n")
		for _, s := range m.answer.Sources {
			sb.WriteString(fmt.Sprintf("[%d] %s (%s)\n", s.Citation, s.Title, s.SourceName))
			sb.WriteString(snippetStyle.Render(snippet(s.Text, 200)))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func snippet(text string, n int) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) <= n {
		return string(runes)
	}
	return string(runes[:n]) + "..."
}

var (
	answerBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	sourceHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	snippetStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
