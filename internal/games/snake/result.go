package snake

import (
	"time"

	"github.com/vovakirdan/tui-snake/internal/core"
)

// ActorResult summarizes one actor at the end of a match.
type ActorResult struct {
	Player   core.PlayerID `json:"player"`
	Score    int           `json:"score"`
	Survival time.Duration `json:"survival_ns"`
	Length   int           `json:"length"`
	Alive    bool          `json:"alive"`
	Cause    string        `json:"cause,omitempty"`
}

// Result is the summary handed off once a match is terminal.
type Result struct {
	Category string        `json:"category"`
	Ticks    uint64        `json:"ticks"`
	Actors   []ActorResult `json:"actors"`
	Winner   core.PlayerID `json:"winner"` // 0 for solo or draw
}

// Duel reports whether the result came from a two-actor match.
func (r Result) Duel() bool {
	return len(r.Actors) > 1
}

// Actor returns the result for a player.
func (r Result) Actor(id core.PlayerID) (ActorResult, bool) {
	for _, a := range r.Actors {
		if a.Player == id {
			return a, true
		}
	}
	return ActorResult{}, false
}

// Result summarizes the match. Before the match is terminal, survivals
// are measured to the latest tick.
func (m *Match) Result() Result {
	res := Result{
		Category: m.opts.Category,
		Ticks:    m.ticks,
		Winner:   m.Winner(),
	}
	for _, a := range m.actors {
		ar := ActorResult{
			Player:   a.Player,
			Score:    a.Score,
			Survival: m.Survival(a.Player),
			Length:   a.Len(),
			Alive:    a.Alive(),
		}
		if !a.Alive() {
			ar.Cause = a.Cause.String()
		}
		res.Actors = append(res.Actors, ar)
	}
	return res
}
