package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"snip/hotkey"
	"snip/log"
)

// Test mode registers a single chord and counts its fires until quit. Useful
// for checking a chord end to end without the tray app running.

type hotkeyFiredMsg struct{}
type testTickMsg time.Time

var (
	chordStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("120"))
	countStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type testModel struct {
	display  string
	fires    int
	lastFire time.Time
}

func testTick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return testTickMsg(t)
	})
}

func (m testModel) Init() tea.Cmd {
	return testTick()
}

func (m testModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case hotkeyFiredMsg:
		m.fires++
		m.lastFire = time.Now()
	case testTickMsg:
		return m, testTick()
	}
	return m, nil
}

func (m testModel) View() string {
	s := fmt.Sprintf("\n  Listening for %s\n\n", chordStyle.Render(m.display))
	s += fmt.Sprintf("  fires: %s\n", countStyle.Render(fmt.Sprintf("%d", m.fires)))
	if !m.lastFire.IsZero() {
		s += dimStyle.Render(fmt.Sprintf("  last: %s ago\n", time.Since(m.lastFire).Round(time.Second)))
	}
	s += dimStyle.Render("\n  q to quit\n")
	return s
}

func runTestMode(chord string) {
	g, err := hotkey.ParseGesture(chord)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()

	program := tea.NewProgram(testModel{display: g.DisplayString()})

	provider := hotkey.NewProvider(func(fn func()) { fn() })
	defer provider.Close()

	if !provider.Supported() {
		fmt.Fprintln(os.Stderr, "Error: global hotkeys not supported on this platform")
		os.Exit(1)
	}
	if !provider.Register("test_chord", g, func() {
		program.Send(hotkeyFiredMsg{})
	}) {
		fmt.Fprintf(os.Stderr, "Error: could not register %s\n", g.DisplayString())
		os.Exit(1)
	}

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
