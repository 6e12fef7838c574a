// Package tui implements the interactive chat interface on Bubble Tea.
// The model renders whatever the chat session holds; all request
// lifecycle rules (optimistic messages, id adoption, stale-response
// dropping) live in the session, not here.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/hammadmunir959/ragchat-cli/internal/cli/state"
	"github.com/hammadmunir959/ragchat-cli/internal/cli/types"
	"github.com/hammadmunir959/ragchat-cli/internal/cli/ui"
)

// UI configuration constants
const (
	defaultInputWidth     = 100
	defaultViewportWidth  = 100
	defaultViewportHeight = 30
	defaultWindowWidth    = 100
	defaultWindowHeight   = 40
	inputCharLimit        = 4000
	inputHeightReserved   = 2
	statusHeightReserved  = 3
	minContentHeight      = 10
)

// Style definitions
var (
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	boldStyle   = lipgloss.NewStyle().Bold(true)
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
)

// ChatProgram encapsulates the chat TUI program
type ChatProgram struct {
	model chatModel
}

// NewChatProgram creates a chat program over an existing session. A zero
// conversationID starts a new, anonymous chat.
func NewChatProgram(session *state.ChatSession, conversationID int64) *ChatProgram {
	return &ChatProgram{model: initialModel(session, conversationID)}
}

// Run starts the chat TUI program
func (p *ChatProgram) Run() error {
	program := tea.NewProgram(p.model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// chatModel is the Bubble Tea model containing all chat interface state
type chatModel struct {
	session *state.ChatSession

	input       textinput.Model
	contentView viewport.Model
	spin        spinner.Model

	initialID int64

	width  int
	height int
}

func initialModel(session *state.ChatSession, conversationID int64) chatModel {
	input := textinput.New()
	input.Placeholder = "Ask about your documents..."
	input.Focus()
	input.CharLimit = inputCharLimit
	input.Width = defaultInputWidth
	input.Prompt = ""

	contentViewport := viewport.New(defaultViewportWidth, defaultViewportHeight)

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = accentStyle

	return chatModel{
		session:     session,
		input:       input,
		contentView: contentViewport,
		spin:        spin,
		initialID:   conversationID,
		width:       defaultWindowWidth,
		height:      defaultWindowHeight,
	}
}

// Message type definitions
type (
	// sessionSyncMsg signals that the session finished a Select or Send
	// and the transcript should be re-rendered from it.
	sessionSyncMsg struct{}
)

// Init initializes the model (Bubble Tea interface)
func (m chatModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick, m.selectCmd(m.initialID))
}

func (m chatModel) selectCmd(id int64) tea.Cmd {
	session := m.session
	return func() tea.Msg {
		session.Select(context.Background(), id)
		return sessionSyncMsg{}
	}
}

func (m chatModel) sendCmd(text string) tea.Cmd {
	session := m.session
	return func() tea.Msg {
		session.Send(context.Background(), text)
		return sessionSyncMsg{}
	}
}

// Update processes messages and updates the model (Bubble Tea interface)
func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyPress(msg)...)

	case tea.WindowSizeMsg:
		m.handleWindowResize(msg)

	case sessionSyncMsg:
		m.refreshContent()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)
	}

	if m.busy() {
		m.refreshContent()
	} else {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *chatModel) busy() bool {
	phase := m.session.Phase()
	return phase == state.SessionSending || phase == state.SessionLoading
}

// handleKeyPress handles keyboard input
func (m *chatModel) handleKeyPress(msg tea.KeyMsg) []tea.Cmd {
	var cmds []tea.Cmd

	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		cmds = append(cmds, tea.Quit)

	case tea.KeyCtrlN:
		// Start a fresh anonymous chat; any in-flight reply is dropped.
		m.input.Reset()
		cmds = append(cmds, m.selectCmd(0))

	case tea.KeyEnter:
		text := strings.TrimSpace(m.input.Value())
		if text != "" && !m.busy() {
			m.input.Reset()
			cmds = append(cmds, m.sendCmd(text))
		}

	case tea.KeyUp:
		m.contentView.LineUp(1)

	case tea.KeyDown:
		m.contentView.LineDown(1)

	case tea.KeyPgUp:
		m.contentView.ViewUp()

	case tea.KeyPgDown:
		m.contentView.ViewDown()
	}

	return cmds
}

// handleWindowResize handles window size changes
func (m *chatModel) handleWindowResize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height

	contentHeight := msg.Height - inputHeightReserved - statusHeightReserved
	if contentHeight < minContentHeight {
		contentHeight = minContentHeight
	}

	m.contentView.Width = msg.Width
	m.contentView.Height = contentHeight
	m.input.Width = msg.Width - 3

	m.refreshContent()
}

// refreshContent re-renders the transcript from the session
func (m *chatModel) refreshContent() {
	var content strings.Builder

	if m.session.Phase() == state.SessionFailed {
		content.WriteString(errorStyle.Render(fmt.Sprintf("Failed to load conversation: %v", m.session.Err())))
		content.WriteString("\n")
		content.WriteString(dimStyle.Render("Press ctrl+n to start a new chat."))
	} else {
		for i, message := range m.session.Messages() {
			if i > 0 {
				content.WriteString("\n")
			}
			m.renderMessage(&content, message)
		}
	}

	display := content.String()
	if m.width > 0 {
		display = m.wrapText(display, m.width)
	}

	m.contentView.SetContent(display)
	m.contentView.GotoBottom()
}

func (m *chatModel) renderMessage(out *strings.Builder, message types.Message) {
	switch message.Role {
	case types.RoleUser:
		out.WriteString(boldStyle.Render("You"))
	default:
		out.WriteString(accentStyle.Render("Assistant"))
	}
	out.WriteString("\n")
	out.WriteString(message.Content)
	out.WriteString("\n")

	if block := ui.RenderSources(message.Sources); block != "" {
		out.WriteString(block)
		out.WriteString("\n")
	}
}

// wrapText applies auto-wrapping, handling wide character widths
func (m *chatModel) wrapText(text string, maxWidth int) string {
	if maxWidth <= 10 {
		return text
	}

	lines := strings.Split(text, "\n")
	var result strings.Builder

	for i, line := range lines {
		if i > 0 {
			result.WriteString("\n")
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		result.WriteString(m.wrapLine(line, maxWidth))
	}

	return result.String()
}

func (m *chatModel) wrapLine(line string, maxWidth int) string {
	if runewidth.StringWidth(line) <= maxWidth {
		return line
	}

	var result strings.Builder
	var currentLine strings.Builder
	currentWidth := 0

	for _, r := range line {
		runeW := runewidth.RuneWidth(r)

		if currentWidth+runeW > maxWidth && currentWidth > 0 {
			result.WriteString(currentLine.String())
			result.WriteString("\n")
			currentLine.Reset()
			currentWidth = 0
		}

		currentLine.WriteRune(r)
		currentWidth += runeW
	}

	if currentLine.Len() > 0 {
		result.WriteString(currentLine.String())
	}

	return result.String()
}

// View renders the UI (Bubble Tea interface)
func (m chatModel) View() string {
	status := m.statusLine()
	content := m.contentView.View()

	var inputView string
	if m.busy() {
		inputView = m.spin.View() + dimStyle.Render(" waiting for reply...")
	} else {
		inputView = promptStyle.Render("> ") + m.input.View()
	}

	help := ""
	if !m.busy() {
		help = dimStyle.Render("Enter send • ctrl+n new chat • ↑↓ scroll • Esc quit")
	}

	parts := []string{status, "", content, "", inputView}
	if help != "" {
		parts = append(parts, help)
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m chatModel) statusLine() string {
	var label string
	if id := m.session.ConversationID(); id != 0 {
		if title := m.session.Title(); title != "" {
			label = fmt.Sprintf("Conversation #%d · %s", id, title)
		} else {
			label = fmt.Sprintf("Conversation #%d", id)
		}
	} else {
		label = "New chat"
	}

	status := dimStyle.Render(label)
	switch m.session.Phase() {
	case state.SessionLoading:
		status += dimStyle.Render(" • loading history...")
	case state.SessionSending:
		status += dimStyle.Render(" • thinking...")
	}
	return status
}
