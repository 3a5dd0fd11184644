package session

import (
	"sync"
	"sync/atomic"
)

// SessionHandle receives a match's events. Runners only need this much,
// so a websocket, a Bubble Tea program or a test can all sit behind it.
type SessionHandle interface {
	ID() SessionID

	// Send must not block the tick loop.
	Send(evt Event)

	// Done closes when the viewer goes away.
	Done() <-chan struct{}
}

// ChannelSession queues events on a buffered channel for a transport's
// writer loop. A slow reader loses the oldest frames; the newest state
// always gets through.
type ChannelSession struct {
	id      SessionID
	events  chan Event
	mu      sync.Mutex // serialises Send so drop-and-retry cannot interleave
	closed  bool
	done    chan struct{}
	dropped atomic.Uint64
}

// NewChannelSession creates a session holding up to buffer events.
func NewChannelSession(id SessionID, buffer int) *ChannelSession {
	if buffer < 1 {
		buffer = 64
	}
	return &ChannelSession{
		id:     id,
		events: make(chan Event, buffer),
		done:   make(chan struct{}),
	}
}

func (s *ChannelSession) ID() SessionID { return s.id }

// Send queues evt, evicting the oldest queued event when full.
func (s *ChannelSession) Send(evt Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	for {
		select {
		case s.events <- evt:
			return
		default:
		}
		select {
		case <-s.events:
			s.dropped.Add(1)
		default:
		}
	}
}

// Events is read by the transport's writer loop.
func (s *ChannelSession) Events() <-chan Event { return s.events }

func (s *ChannelSession) Done() <-chan struct{} { return s.done }

// Dropped reports how many events were evicted unread.
func (s *ChannelSession) Dropped() uint64 { return s.dropped.Load() }

// Close ends the session. Later sends are ignored.
func (s *ChannelSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.done)
	}
}
