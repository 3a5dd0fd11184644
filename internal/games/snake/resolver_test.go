package snake

import (
	"math/rand"
	"testing"

	"github.com/vovakirdan/tui-snake/internal/core"
)

func cellp(x, y int) *core.Cell {
	return &core.Cell{X: x, Y: y}
}

func TestResolveRules(t *testing.T) {
	grid := core.NewGrid(10, 10)

	tests := []struct {
		name       string
		bodies     [][]core.Cell
		candidates []*core.Cell
		want       []DeathCause
	}{
		{
			name:       "free move",
			bodies:     [][]core.Cell{{{X: 5, Y: 5}}},
			candidates: []*core.Cell{cellp(6, 5)},
			want:       []DeathCause{0},
		},
		{
			name:       "wall",
			bodies:     [][]core.Cell{{{X: 0, Y: 0}}},
			candidates: []*core.Cell{cellp(-1, 0)},
			want:       []DeathCause{CauseWall},
		},
		{
			name:       "self including tail",
			bodies:     [][]core.Cell{{{X: 5, Y: 5}, {X: 5, Y: 6}, {X: 4, Y: 6}, {X: 4, Y: 5}}},
			candidates: []*core.Cell{cellp(4, 5)},
			want:       []DeathCause{CauseSelf},
		},
		{
			name:       "own head cell is not an obstacle",
			bodies:     [][]core.Cell{{{X: 5, Y: 5}}},
			candidates: []*core.Cell{cellp(5, 5)},
			want:       []DeathCause{0},
		},
		{
			name: "head to head kills both",
			bodies: [][]core.Cell{
				{{X: 4, Y: 5}},
				{{X: 6, Y: 5}},
			},
			candidates: []*core.Cell{cellp(5, 5), cellp(5, 5)},
			want:       []DeathCause{CauseHeadToHead, CauseHeadToHead},
		},
		{
			name: "head to body kills only the mover",
			bodies: [][]core.Cell{
				{{X: 2, Y: 4}},
				{{X: 3, Y: 5}, {X: 2, Y: 5}, {X: 1, Y: 5}},
			},
			candidates: []*core.Cell{cellp(2, 5), cellp(4, 5)},
			want:       []DeathCause{CauseBody, 0},
		},
		{
			name: "entering a head that is leaving is safe",
			bodies: [][]core.Cell{
				{{X: 4, Y: 5}},
				{{X: 5, Y: 5}},
			},
			candidates: []*core.Cell{cellp(5, 5), cellp(5, 4)},
			want:       []DeathCause{0, 0},
		},
		{
			name: "dead actor is not an obstacle",
			bodies: [][]core.Cell{
				{{X: 2, Y: 4}},
				{{X: 3, Y: 5}, {X: 2, Y: 5}, {X: 1, Y: 5}},
			},
			candidates: []*core.Cell{cellp(2, 5), nil},
			want:       []DeathCause{0, 0},
		},
		{
			name: "both hit walls",
			bodies: [][]core.Cell{
				{{X: 0, Y: 1}},
				{{X: 1, Y: 0}},
			},
			candidates: []*core.Cell{cellp(-1, 1), cellp(1, -1)},
			want:       []DeathCause{CauseWall, CauseWall},
		},
		{
			name: "head to head and body at once",
			bodies: [][]core.Cell{
				{{X: 4, Y: 4}, {X: 4, Y: 3}},
				{{X: 5, Y: 5}, {X: 4, Y: 5}},
			},
			candidates: []*core.Cell{cellp(4, 5), cellp(4, 5)},
			want:       []DeathCause{CauseHeadToHead | CauseBody, CauseHeadToHead | CauseSelf},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveCauses(grid, tc.bodies, tc.candidates)
			if len(got) != len(tc.want) {
				t.Fatalf("got %d causes, expected %d", len(got), len(tc.want))
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("actor %d: cause = %v, expected %v", i, got[i], tc.want[i])
				}
			}

			dead := Resolve(grid, tc.bodies, tc.candidates)
			for i := range dead {
				if dead[i] != (tc.want[i] != 0) {
					t.Errorf("actor %d: dead = %v, expected %v", i, dead[i], tc.want[i] != 0)
				}
			}
		})
	}
}

// randomBody builds a contiguous body walking from a random start cell.
func randomBody(rng *rand.Rand, grid core.Grid, length int) []core.Cell {
	c := core.Cell{X: rng.Intn(grid.Width), Y: rng.Intn(grid.Height)}
	body := []core.Cell{c}
	for len(body) < length {
		h := Heading(1 + rng.Intn(4))
		dx, dy := h.Delta()
		c = c.Add(dx, dy)
		body = append(body, c)
	}
	return body
}

func TestResolvePermutationInvariance(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	grid := core.NewGrid(8, 8)

	for iter := range 2000 {
		n := 2 + rng.Intn(3)
		bodies := make([][]core.Cell, n)
		candidates := make([]*core.Cell, n)
		for i := range n {
			bodies[i] = randomBody(rng, grid, 1+rng.Intn(6))
			if rng.Intn(5) == 0 {
				continue // already dead
			}
			dx, dy := Heading(1 + rng.Intn(4)).Delta()
			c := bodies[i][0].Add(dx, dy)
			candidates[i] = &c
		}

		want := Resolve(grid, bodies, candidates)

		perm := rng.Perm(n)
		pBodies := make([][]core.Cell, n)
		pCands := make([]*core.Cell, n)
		for to, from := range perm {
			pBodies[to] = bodies[from]
			pCands[to] = candidates[from]
		}
		got := Resolve(grid, pBodies, pCands)

		for to, from := range perm {
			if got[to] != want[from] {
				t.Fatalf("iteration %d: actor %d death %v after permutation %v, expected %v",
					iter, from, got[to], perm, want[from])
			}
		}
	}
}

func TestResolveHeadToHeadSymmetry(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	grid := core.NewGrid(12, 12)

	for range 500 {
		target := core.Cell{X: rng.Intn(grid.Width), Y: rng.Intn(grid.Height)}
		a, b := target, target
		candidates := []*core.Cell{&a, &b}
		bodies := [][]core.Cell{
			randomBody(rng, grid, 1+rng.Intn(5)),
			randomBody(rng, grid, 1+rng.Intn(5)),
		}

		dead := Resolve(grid, bodies, candidates)
		if !dead[0] || !dead[1] {
			t.Fatalf("identical candidates %v: dead = %v, expected both", target, dead)
		}
	}
}

func TestDeathCauseString(t *testing.T) {
	tests := []struct {
		cause DeathCause
		want  string
	}{
		{0, "none"},
		{CauseWall, "wall"},
		{CauseHeadToHead | CauseBody, "head-to-head+body"},
	}
	for _, tc := range tests {
		if got := tc.cause.String(); got != tc.want {
			t.Errorf("%d.String() = %q, expected %q", tc.cause, got, tc.want)
		}
	}
}
