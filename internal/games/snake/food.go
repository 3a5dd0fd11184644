package snake

import (
	"math/rand"

	"github.com/vovakirdan/tui-snake/internal/core"
)

// foodAttempts bounds rejection sampling per free cell ratio before
// falling back to an exhaustive scan.
const foodAttempts = 64

// placeFood picks a random cell not occupied by any actor.
// It reports false when the grid has no free cell.
func placeFood(rng *rand.Rand, grid core.Grid, actors []*Actor) (core.Cell, bool) {
	occupied := func(c core.Cell) bool {
		for _, a := range actors {
			if a.Occupies(c) {
				return true
			}
		}
		return false
	}

	// Rejection sampling; cheap while the board is mostly empty
	for range foodAttempts {
		c := core.Cell{X: rng.Intn(grid.Width), Y: rng.Intn(grid.Height)}
		if !occupied(c) {
			return c, true
		}
	}

	// Crowded board: collect free cells and pick one
	var free []core.Cell
	for y := range grid.Height {
		for x := range grid.Width {
			c := core.Cell{X: x, Y: y}
			if !occupied(c) {
				free = append(free, c)
			}
		}
	}
	if len(free) == 0 {
		return core.Cell{}, false
	}
	return free[rng.Intn(len(free))], true
}
