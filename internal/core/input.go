package core

import "slices"

// Action is what a key press means to a match, independent of the key.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // Steer up
	ActionDown           // Steer down
	ActionLeft           // Steer left
	ActionRight          // Steer right
	ActionConfirm        // Enter - confirm selection in menu
	ActionBack           // B, Escape - go back to menu
	ActionRestart        // R key - restart game after game over
	ActionQuit           // Q, Ctrl+C - exit game/session
	ActionPause          // P - pause/unpause game
)

var actionNames = [...]string{
	ActionNone:    "None",
	ActionUp:      "Up",
	ActionDown:    "Down",
	ActionLeft:    "Left",
	ActionRight:   "Right",
	ActionConfirm: "Confirm",
	ActionBack:    "Back",
	ActionRestart: "Restart",
	ActionQuit:    "Quit",
	ActionPause:   "Pause",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "Unknown"
	}
	return actionNames[a]
}

// IsSteer reports whether the action is one of the four steering actions.
func (a Action) IsSteer() bool {
	return a == ActionUp || a == ActionDown || a == ActionLeft || a == ActionRight
}

// PlayerID identifies an actor slot within a match.
type PlayerID int

const (
	Player1 PlayerID = 1
	Player2 PlayerID = 2
)

// Index returns the zero-based actor index for the player.
func (p PlayerID) Index() int {
	return int(p) - 1
}

// InputFrame holds the actions one player triggered between two ticks,
// in the order they arrived.
type InputFrame struct {
	Actions []Action
}

func NewInputFrame() InputFrame {
	return InputFrame{}
}

// Set appends a; a frame may hold the same action more than once.
func (f *InputFrame) Set(a Action) {
	f.Actions = append(f.Actions, a)
}

func (f InputFrame) Has(a Action) bool {
	return slices.Contains(f.Actions, a)
}

// Clear empties the frame, keeping its capacity.
func (f *InputFrame) Clear() {
	f.Actions = f.Actions[:0]
}

// Clone returns a frame that shares no storage with f.
func (f InputFrame) Clone() InputFrame {
	return InputFrame{Actions: append([]Action(nil), f.Actions...)}
}

// MultiInputFrame collects every player's actions between two ticks.
type MultiInputFrame struct {
	ByPlayer map[PlayerID]InputFrame
}

// NewMultiInputFrame creates an empty multi-input frame.
func NewMultiInputFrame() MultiInputFrame {
	return MultiInputFrame{
		ByPlayer: make(map[PlayerID]InputFrame),
	}
}

// Player returns id's frame, empty if id pressed nothing.
func (m MultiInputFrame) Player(id PlayerID) InputFrame {
	if m.ByPlayer == nil {
		return NewInputFrame()
	}
	return m.ByPlayer[id]
}

// Add appends an action to a player's frame.
func (m *MultiInputFrame) Add(id PlayerID, a Action) {
	if m.ByPlayer == nil {
		m.ByPlayer = make(map[PlayerID]InputFrame)
	}
	frame := m.ByPlayer[id]
	frame.Set(a)
	m.ByPlayer[id] = frame
}

// Has reports whether any player triggered the action.
func (m MultiInputFrame) Has(a Action) bool {
	for _, frame := range m.ByPlayer {
		if frame.Has(a) {
			return true
		}
	}
	return false
}

// Clear empties every player's frame.
func (m *MultiInputFrame) Clear() {
	for id := range m.ByPlayer {
		frame := m.ByPlayer[id]
		frame.Clear()
		m.ByPlayer[id] = frame
	}
}

// Clone deep-copies the frame.
func (m MultiInputFrame) Clone() MultiInputFrame {
	clone := NewMultiInputFrame()
	for id, frame := range m.ByPlayer {
		clone.ByPlayer[id] = frame.Clone()
	}
	return clone
}
