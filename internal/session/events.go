// Package session schedules matches outside of any UI: a Runner owns one
// match, ticks it at the interval the speed model returns, streams frames
// to attached sessions and hands the result to the ledger.
package session

import "github.com/vovakirdan/tui-snake/internal/games/snake"

// SessionID identifies a connected client.
type SessionID string

// EventType identifies the kind of event sent to a session.
type EventType string

const (
	EventFrame  EventType = "frame"
	EventResult EventType = "result"
)

// Event is anything a Runner sends to a session.
type Event interface {
	Type() EventType
}

// FrameEvent carries the full match state after a tick.
type FrameEvent struct {
	Snapshot snake.Snapshot
}

func (FrameEvent) Type() EventType { return EventFrame }

// ResultEvent is sent once when the match reaches a terminal state.
type ResultEvent struct {
	Result      snake.Result
	Submissions []Submission
}

func (ResultEvent) Type() EventType { return EventResult }
