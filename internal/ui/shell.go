package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/anthropics/pgp-disc/internal/biz/domain"
	"github.com/anthropics/pgp-disc/internal/biz/repo"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	echoStyle   = lipgloss.NewStyle().Faint(true)
	exitStyle   = lipgloss.NewStyle().Faint(true)
)

type uiEventMsg domain.UIEvent

type uiClosedMsg struct{}

// Model is the interactive shell: a transcript viewport above a prompt line.
// It owns blocking terminal I/O and talks to the dispatch loop only through
// the command and UI-event channels.
type Model struct {
	input    textinput.Model
	viewport viewport.Model
	lines    []string

	ui       <-chan domain.UIEvent
	commands chan<- string

	history     []string
	historyPos  int // len(history) means "past the end", editing a fresh line
	pendingLine string

	historyRepo repo.HistoryRepo
	logger      *zap.Logger

	ready    bool
	quitting bool
}

// NewModel creates the shell model. seedHistory is the persisted command
// history, oldest first.
func NewModel(
	ui <-chan domain.UIEvent,
	commands chan<- string,
	seedHistory []string,
	historyRepo repo.HistoryRepo,
	logger *zap.Logger,
) Model {
	input := textinput.New()
	input.Prompt = promptStyle.Render("pgp-disc> ")
	input.CharLimit = 2000
	input.Focus()

	return Model{
		input:       input,
		viewport:    viewport.New(0, 0),
		ui:          ui,
		commands:    commands,
		history:     seedHistory,
		historyPos:  len(seedHistory),
		historyRepo: historyRepo,
		logger:      logger,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForUIEvent(m.ui))
}

func waitForUIEvent(ch <-chan domain.UIEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return uiClosedMsg{}
		}
		return uiEventMsg(ev)
	}
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 1
		m.ready = true
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD:
			// Behaves as quit; the dispatcher answers with Exit.
			m.commands <- "quit"
			return m, nil

		case tea.KeyEnter:
			return m.submit()

		case tea.KeyUp:
			m.recallPrev()
			return m, nil

		case tea.KeyDown:
			m.recallNext()
			return m, nil

		case tea.KeyTab:
			m.complete()
			return m, nil
		}

	case uiEventMsg:
		return m.applyUIEvent(domain.UIEvent(msg))

	case uiClosedMsg:
		m.quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		return m, nil
	}

	m.history = append(m.history, line)
	m.historyPos = len(m.history)
	if m.historyRepo != nil {
		if err := m.historyRepo.Append(context.Background(), line); err != nil {
			m.logger.Debug("history append failed", zap.Error(err))
		}
	}

	m.lines = append(m.lines, echoStyle.Render("pgp-disc> "+line))
	m.refresh()
	m.input.SetValue("")

	m.commands <- line
	return m, nil
}

func (m Model) applyUIEvent(ev domain.UIEvent) (tea.Model, tea.Cmd) {
	switch ev.Kind {
	case domain.UILine:
		m.lines = append(m.lines, strings.Split(ev.Text, "\n")...)
		m.refresh()

	case domain.UIClear:
		m.lines = nil
		m.refresh()

	case domain.UIExit:
		m.lines = append(m.lines, exitStyle.Render("exiting..."))
		m.refresh()
		m.quitting = true
		return m, tea.Quit
	}

	return m, waitForUIEvent(m.ui)
}

func (m *Model) refresh() {
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	m.viewport.GotoBottom()
}

func (m *Model) recallPrev() {
	if m.historyPos == 0 || len(m.history) == 0 {
		return
	}
	if m.historyPos == len(m.history) {
		m.pendingLine = m.input.Value()
	}
	m.historyPos--
	m.input.SetValue(m.history[m.historyPos])
	m.input.CursorEnd()
}

func (m *Model) recallNext() {
	if m.historyPos >= len(m.history) {
		return
	}
	m.historyPos++
	if m.historyPos == len(m.history) {
		m.input.SetValue(m.pendingLine)
	} else {
		m.input.SetValue(m.history[m.historyPos])
	}
	m.input.CursorEnd()
}

// View implements tea.Model
func (m Model) View() string {
	if !m.ready {
		return ""
	}
	if m.quitting {
		return strings.Join(m.lines, "\n") + "\n"
	}
	return m.viewport.View() + "\n" + m.input.View()
}
