package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-snake/internal/core"
)

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct {
	players int
}

// NewKeyMapper creates a key mapper for the given number of players.
// With one player both arrows and WASD steer player 1; with two, WASD
// belongs to player 2.
func NewKeyMapper(players int) *KeyMapper {
	return &KeyMapper{players: players}
}

// MapKey translates a key message to a player and an action.
// Control actions (pause, restart, back) are attributed to player 1.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (player core.PlayerID, action core.Action, isQuit bool) {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return core.Player1, core.ActionQuit, true
	}

	switch key {
	case "up":
		return core.Player1, core.ActionUp, false
	case "down":
		return core.Player1, core.ActionDown, false
	case "left":
		return core.Player1, core.ActionLeft, false
	case "right":
		return core.Player1, core.ActionRight, false
	case "enter":
		return core.Player1, core.ActionConfirm, false
	case "b", "esc":
		return core.Player1, core.ActionBack, false
	case "p", " ":
		return core.Player1, core.ActionPause, false
	case "r":
		return core.Player1, core.ActionRestart, false
	}

	wasd := core.Player1
	if km.players > 1 {
		wasd = core.Player2
	}
	switch key {
	case "w":
		return wasd, core.ActionUp, false
	case "s":
		return wasd, core.ActionDown, false
	case "a":
		return wasd, core.ActionLeft, false
	case "d":
		return wasd, core.ActionRight, false
	}

	return core.Player1, core.ActionNone, false
}

// MapKeyToMultiFrame records a key in the per-player input frame.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToMultiFrame(msg tea.KeyMsg, frame *core.MultiInputFrame) bool {
	player, action, isQuit := km.MapKey(msg)
	if action != core.ActionNone && !isQuit {
		frame.Add(player, action)
	}
	return isQuit
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionLeft
	MenuActionRight
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
	MenuActionScoreboard
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k":
		return MenuActionUp
	case "s", "down", "j":
		return MenuActionDown
	case "a", "left", "h":
		return MenuActionLeft
	case "d", "right", "l":
		return MenuActionRight
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	}

	return MenuActionNone
}
