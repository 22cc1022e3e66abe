// ABOUTME: Bubbletea model for the chime-play TUI
// ABOUTME: Sound list with playback state and keyboard transport controls
// Package ui provides the terminal front-end used by chime-play.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Chime-Audio/chime-go/pkg/chime"
	tea "github.com/charmbracelet/bubbletea"
)

// Model represents the TUI state.
type Model struct {
	manager *chime.Manager
	fade    float64
	looping bool

	sounds []string
	cursor int

	width  int
	height int
}

// NewModel builds the TUI over a running manager.
func NewModel(manager *chime.Manager, fade float64, looping bool) Model {
	return Model{
		manager: manager,
		fade:    fade,
		looping: looping,
		sounds:  manager.SoundNames(),
	}
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tickMsg:
		m.sounds = m.manager.SoundNames()
		if m.cursor >= len(m.sounds) && m.cursor > 0 {
			m.cursor = len(m.sounds) - 1
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.sounds)-1 {
			m.cursor++
		}
	case "enter", " ":
		if name := m.selected(); name != "" {
			_ = m.manager.Play(name, m.fade, m.looping, 1.0)
		}
	case "s":
		if name := m.selected(); name != "" {
			m.manager.StopSound(name, m.fade)
		}
	case "a":
		m.manager.StopAll(m.fade)
	case "u":
		if m.manager.IsSuspended() {
			m.manager.ResumeAudio()
		} else {
			m.manager.SuspendAudio()
		}
	case "+", "=":
		m.manager.SetGlobalGain(m.manager.GlobalGain() + 0.1)
	case "-":
		m.manager.SetGlobalGain(m.manager.GlobalGain() - 0.1)
	}
	return m, nil
}

func (m Model) selected() string {
	if m.cursor < 0 || m.cursor >= len(m.sounds) {
		return ""
	}
	return m.sounds[m.cursor]
}

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	state := "running"
	if m.manager.IsSuspended() {
		state = "suspended"
	}
	fmt.Fprintf(&b, "chime · backend %s · gain %.2f · %s\n\n", m.manager.Backend(), m.manager.GlobalGain(), state)

	if len(m.sounds) == 0 {
		b.WriteString("  no sounds loaded\n")
	}
	for i, name := range m.sounds {
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		status := ""
		if n := m.manager.PlayingCount(name); n > 0 {
			status = fmt.Sprintf("  playing ×%d", n)
		}
		if n := m.manager.FadingOutCount(name); n > 0 {
			status += fmt.Sprintf("  fading out ×%d", n)
		} else if n := m.manager.FadingInCount(name); n > 0 {
			status += fmt.Sprintf("  fading in ×%d", n)
		}
		fmt.Fprintf(&b, "%s%s%s\n", marker, name, status)
	}

	b.WriteString("\n[enter] play  [s] stop  [a] stop all  [u] suspend/resume  [+/-] gain  [q] quit\n")
	return b.String()
}
