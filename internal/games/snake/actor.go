package snake

import (
	"time"

	"github.com/vovakirdan/tui-snake/internal/core"
)

// ActorState is the lifecycle state of an actor.
type ActorState int

const (
	// StateAlive actors move every tick.
	StateAlive ActorState = iota
	// StateFrozen actors died and keep their last shape for rendering.
	StateFrozen
)

func (s ActorState) String() string {
	if s == StateFrozen {
		return "frozen"
	}
	return "alive"
}

// Actor is a single snake within a match. Only the match mutates it.
type Actor struct {
	Player  core.PlayerID
	Body    []core.Cell // Head at index 0
	Heading Heading
	Pending Heading // Buffered request, committed at the start of the next tick
	State   ActorState
	Score   int
	DiedAt  time.Time // Zero while alive
	Cause   DeathCause
}

func newActor(player core.PlayerID, spawn Spawn) *Actor {
	return &Actor{
		Player:  player,
		Body:    []core.Cell{spawn.Cell},
		Heading: spawn.Heading,
		Pending: spawn.Heading,
		State:   StateAlive,
	}
}

// Alive reports whether the actor still moves.
func (a *Actor) Alive() bool {
	return a.State == StateAlive
}

// Head returns the head cell.
func (a *Actor) Head() core.Cell {
	return a.Body[0]
}

// Len returns the body length.
func (a *Actor) Len() int {
	return len(a.Body)
}

// RequestHeading buffers h for the next tick. The latest accepted request
// wins. A request for the reverse of the current heading is rejected and
// leaves the pending heading untouched.
func (a *Actor) RequestHeading(h Heading) bool {
	if !a.Alive() || !h.Valid() {
		return false
	}
	if h == a.Heading.Opposite() {
		return false
	}
	a.Pending = h
	return true
}

// Occupies reports whether any body cell equals c.
func (a *Actor) Occupies(c core.Cell) bool {
	for _, seg := range a.Body {
		if seg == c {
			return true
		}
	}
	return false
}

// candidate returns the next head position along the committed heading.
func (a *Actor) candidate() core.Cell {
	dx, dy := a.Heading.Delta()
	return a.Head().Add(dx, dy)
}

func (a *Actor) freeze(now time.Time, cause DeathCause) {
	a.State = StateFrozen
	a.DiedAt = now
	a.Cause = cause
}

// Clone returns a deep copy of the actor.
func (a *Actor) Clone() *Actor {
	c := *a
	c.Body = make([]core.Cell, len(a.Body))
	copy(c.Body, a.Body)
	return &c
}
