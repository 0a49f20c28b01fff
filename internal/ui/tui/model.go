package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/imamik/modsetup/internal/engine"
)

// maxDiagnostics is how many recent diagnostics stay on screen.
const maxDiagnostics = 4

// chromeHeight is the number of lines around the content viewport.
const chromeHeight = 12

// Model is the Bubble Tea model for the setup screen.
type Model struct {
	Title       string
	Snapshot    engine.Snapshot
	Diagnostics []engine.Event

	keys     KeyMap
	viewport viewport.Model
	markdown *markdownRenderer
	send     func(engine.Intent)
	text     string

	// Animation
	SpinnerFrame int
	StartTime    time.Time

	// UI state
	Width  int
	Height int
	Err    error
	Done   bool
	// Aborted is set when the user quit before the engine stopped.
	Aborted bool
}

// NewModel creates the model. send forwards intents to the engine.
func NewModel(title string, snap engine.Snapshot, send func(engine.Intent)) Model {
	m := Model{
		Title:     title,
		keys:      DefaultKeyMap(),
		viewport:  viewport.New(defaultContentWidth, 12),
		markdown:  newMarkdownRenderer(),
		send:      send,
		StartTime: time.Now(),
	}
	m.applySnapshot(snap)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.Aborted = true
			return m, tea.Quit
		}
		for _, b := range m.keys.bindings() {
			if key.Matches(msg, b.binding) {
				if m.Snapshot.Controls.Enabled(b.intent) && m.send != nil {
					m.send(b.intent)
				}
				return m, nil
			}
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.resize()

	case SnapshotMsg:
		m.applySnapshot(msg.Snapshot)

	case DiagnosticMsg:
		m.Diagnostics = append(m.Diagnostics, msg.Event)
		if len(m.Diagnostics) > maxDiagnostics {
			m.Diagnostics = m.Diagnostics[len(m.Diagnostics)-maxDiagnostics:]
		}

	case TickMsg:
		m.SpinnerFrame++
		return m, tickCmd()

	case ErrMsg:
		m.Err = msg.Err
		return m, tea.Quit

	case DoneMsg:
		m.Done = true
		m.Err = msg.Err
		return m, tea.Quit
	}

	return m, nil
}

// applySnapshot stores the snapshot and refreshes the content when the
// step text changed. Older snapshots are ignored.
func (m *Model) applySnapshot(s engine.Snapshot) {
	if s.Version != 0 && s.Version < m.Snapshot.Version {
		return
	}
	m.Snapshot = s
	if s.Text != m.text || s.Version == 0 {
		m.text = s.Text
		m.viewport.SetContent(m.renderContent(s.Text, m.viewport.Width))
		m.viewport.GotoTop()
	}
}

func (m *Model) resize() {
	width := m.Width - 4
	if width < 20 {
		width = 20
	}
	height := m.Height - chromeHeight
	if height < 3 {
		height = 3
	}
	m.viewport.Width = width
	m.viewport.Height = height
	m.viewport.SetContent(m.renderContent(m.text, width))
}

func (m *Model) renderContent(text string, width int) string {
	if m.markdown == nil {
		m.markdown = newMarkdownRenderer()
	}
	return m.markdown.Render(text, width)
}

func tickCmd() tea.Cmd {
	return tea.Tick(150*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View implements tea.Model.
func (m Model) View() string {
	return renderView(m)
}
