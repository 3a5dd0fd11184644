package snake

import "github.com/vovakirdan/tui-snake/internal/core"

// ActorSnapshot is the render state of one actor.
type ActorSnapshot struct {
	Player  core.PlayerID `json:"player"`
	Body    []core.Cell   `json:"body"`
	Heading string        `json:"heading"`
	Alive   bool          `json:"alive"`
	Score   int           `json:"score"`
}

// Snapshot captures the full match state emitted once per tick for
// rendering, streaming and determinism tests.
type Snapshot struct {
	Tick       uint64          `json:"tick"`
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	Category   string          `json:"category"`
	Actors     []ActorSnapshot `json:"actors"`
	Food       *core.Cell      `json:"food,omitempty"`
	IntervalMs int64           `json:"interval_ms"`
	Terminal   bool            `json:"terminal"`
}

// Snapshot returns a copy of the current state.
func (m *Match) Snapshot() Snapshot {
	s := Snapshot{
		Tick:       m.ticks,
		Width:      m.opts.Grid.Width,
		Height:     m.opts.Grid.Height,
		Category:   m.opts.Category,
		IntervalMs: m.interval.Milliseconds(),
		Terminal:   m.terminal,
	}
	for _, a := range m.actors {
		body := make([]core.Cell, len(a.Body))
		copy(body, a.Body)
		s.Actors = append(s.Actors, ActorSnapshot{
			Player:  a.Player,
			Body:    body,
			Heading: a.Heading.String(),
			Alive:   a.Alive(),
			Score:   a.Score,
		})
	}
	if m.hasFood {
		food := m.food
		s.Food = &food
	}
	return s
}
