// Package tui provides the Bubble Tea front-end for the snake arcade.
// It handles the terminal UI loop, input mapping, and match scheduling.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a game simulation tick.
// Gen ties the message to the match that scheduled it.
type TickMsg struct {
	At  time.Time
	Gen int
}

// tickCmd schedules the next tick after the game's current interval.
func tickCmd(interval time.Duration, gen int) tea.Cmd {
	if interval <= 0 {
		interval = time.Millisecond
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{At: t, Gen: gen}
	})
}
