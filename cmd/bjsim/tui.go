package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// progressMsg reports realities completed so far; sent on a channel from
// the engine's progress callback into the bubbletea event loop, since
// the model must never be touched from another goroutine directly.
type progressMsg struct {
	completed int
	total     int
}

// doneMsg signals the simulation finished (or was cancelled).
type doneMsg struct{}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	statStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#96CEB4"))
)

// progressModel is a minimal bubbletea model rendering the engine's
// realities-completed progress as a bar, the Monte Carlo analogue of
// internal/display.TUIModel's live table view.
type progressModel struct {
	bar     progress.Model
	events  <-chan progressMsg
	done    <-chan struct{}
	total   int
	current int
	quit    bool
}

func newProgressModel(total int, events <-chan progressMsg, done <-chan struct{}) progressModel {
	return progressModel{
		bar:    progress.New(progress.WithDefaultGradient()),
		events: events,
		done:   done,
		total:  total,
	}
}

func (m progressModel) Init() tea.Cmd {
	return tea.Batch(m.waitForEvent(), m.waitForDone())
}

func (m progressModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return ev
	}
}

func (m progressModel) waitForDone() tea.Cmd {
	return func() tea.Msg {
		<-m.done
		return doneMsg{}
	}
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			m.quit = true
			return m, tea.Quit
		}
	case progressMsg:
		m.current = msg.completed
		m.total = msg.total
		return m, m.waitForEvent()
	case doneMsg:
		m.quit = true
		return m, tea.Quit
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.quit {
		return ""
	}
	pct := 0.0
	if m.total > 0 {
		pct = float64(m.current) / float64(m.total)
	}
	return fmt.Sprintf(
		"%s\n\n%s\n\n%s\n",
		headerStyle.Render("bjsim — simulating"),
		m.bar.ViewAs(pct),
		statStyle.Render(fmt.Sprintf("%d / %d realities completed", m.current, m.total)),
	)
}
