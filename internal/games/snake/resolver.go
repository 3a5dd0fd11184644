package snake

import (
	"strings"

	"github.com/vovakirdan/tui-snake/internal/core"
)

// DeathCause is a set of reasons an actor died on a tick.
// An actor can collect several causes at once.
type DeathCause uint8

const (
	CauseWall DeathCause = 1 << iota
	CauseSelf
	CauseHeadToHead
	CauseBody
)

// Has reports whether c includes cause.
func (c DeathCause) Has(cause DeathCause) bool {
	return c&cause != 0
}

func (c DeathCause) String() string {
	if c == 0 {
		return "none"
	}
	var parts []string
	if c.Has(CauseWall) {
		parts = append(parts, "wall")
	}
	if c.Has(CauseSelf) {
		parts = append(parts, "self")
	}
	if c.Has(CauseHeadToHead) {
		parts = append(parts, "head-to-head")
	}
	if c.Has(CauseBody) {
		parts = append(parts, "body")
	}
	return strings.Join(parts, "+")
}

// Resolve returns which actors die this tick. bodies are the pre-tick bodies
// and candidates the proposed heads, nil for actors that are already dead.
// The result for each actor depends only on the snapshot, never on the order
// actors are listed in.
func Resolve(grid core.Grid, bodies [][]core.Cell, candidates []*core.Cell) []bool {
	causes := ResolveCauses(grid, bodies, candidates)
	dead := make([]bool, len(causes))
	for i, c := range causes {
		dead[i] = c != 0
	}
	return dead
}

// ResolveCauses is Resolve with the reasons for each death.
func ResolveCauses(grid core.Grid, bodies [][]core.Cell, candidates []*core.Cell) []DeathCause {
	causes := make([]DeathCause, len(candidates))

	for i, cand := range candidates {
		if cand == nil {
			continue
		}
		head := *cand

		if !grid.Contains(head) {
			causes[i] |= CauseWall
		}
		if containsCell(tail(bodies[i]), head) {
			causes[i] |= CauseSelf
		}

		for j, other := range candidates {
			if j == i || other == nil {
				continue
			}
			if *other == head {
				causes[i] |= CauseHeadToHead
			}
			if containsCell(tail(bodies[j]), head) {
				causes[i] |= CauseBody
			}
		}
	}

	return causes
}

// tail returns the body without its head cell.
func tail(body []core.Cell) []core.Cell {
	if len(body) <= 1 {
		return nil
	}
	return body[1:]
}

func containsCell(cells []core.Cell, c core.Cell) bool {
	for _, x := range cells {
		if x == c {
			return true
		}
	}
	return false
}
