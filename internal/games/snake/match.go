package snake

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
)

// ErrInvalidOptions is returned by NewMatch for options that can never
// produce a valid match.
var ErrInvalidOptions = errors.New("snake: invalid match options")

// MaxActors is the largest number of actors a match supports.
const MaxActors = 2

// WinCondition decides when a multi-actor match ends.
type WinCondition string

const (
	WinLastStanding WinCondition = config.WinLastStanding
	WinAllDead      WinCondition = config.WinAllDead
)

// Spawn is an actor's starting cell and heading.
type Spawn struct {
	Cell    core.Cell
	Heading Heading
}

// Options configures a match.
type Options struct {
	Grid         core.Grid
	Spawns       []Spawn // One per actor
	Initial      time.Duration
	Step         time.Duration
	Floor        time.Duration
	Category     string
	WinCondition WinCondition // Ignored for a single actor
	Seed         int64
	Start        time.Time // Zero means time.Now()
}

// OptionsFromConfig builds match options for the given preset and actor count.
func OptionsFromConfig(cfg config.SnakeConfig, difficulty string, players int, seed int64) (Options, error) {
	preset, err := cfg.Preset(difficulty)
	if err != nil {
		return Options{}, err
	}

	var points []config.SpawnPoint
	switch players {
	case 1:
		points = []config.SpawnPoint{cfg.Spawn.Solo}
	case 2:
		points = cfg.Spawn.Duel
	default:
		return Options{}, fmt.Errorf("%w: %d players", ErrInvalidOptions, players)
	}

	spawns := make([]Spawn, 0, len(points))
	for _, p := range points {
		h, err := ParseHeading(p.Heading)
		if err != nil {
			return Options{}, err
		}
		spawns = append(spawns, Spawn{Cell: core.Cell{X: p.X, Y: p.Y}, Heading: h})
	}

	return Options{
		Grid:         core.NewGrid(cfg.Grid.Width, cfg.Grid.Height),
		Spawns:       spawns,
		Initial:      preset.Initial(),
		Step:         preset.Step(),
		Floor:        cfg.Speed.Floor(),
		Category:     preset.Name,
		WinCondition: WinCondition(cfg.Duel.WinCondition),
		Seed:         seed,
	}, nil
}

// Validate checks the options before a match starts.
func (o Options) Validate() error {
	if !o.Grid.Valid() {
		return fmt.Errorf("%w: grid %dx%d", ErrInvalidOptions, o.Grid.Width, o.Grid.Height)
	}
	if len(o.Spawns) == 0 || len(o.Spawns) > MaxActors {
		return fmt.Errorf("%w: %d actors, want 1..%d", ErrInvalidOptions, len(o.Spawns), MaxActors)
	}
	for i, s := range o.Spawns {
		if !s.Heading.Valid() {
			return fmt.Errorf("%w: actor %d has no heading", ErrInvalidOptions, i+1)
		}
		if !o.Grid.Contains(s.Cell) {
			return fmt.Errorf("%w: actor %d spawns outside the grid", ErrInvalidOptions, i+1)
		}
		for j := range i {
			if o.Spawns[j].Cell == s.Cell {
				return fmt.Errorf("%w: actors %d and %d share a spawn cell", ErrInvalidOptions, j+1, i+1)
			}
		}
	}
	if o.Floor <= 0 {
		return fmt.Errorf("%w: floor must be positive", ErrInvalidOptions)
	}
	if o.Initial < o.Floor {
		return fmt.Errorf("%w: initial interval %v below floor %v", ErrInvalidOptions, o.Initial, o.Floor)
	}
	if o.Step < 0 {
		return fmt.Errorf("%w: negative step", ErrInvalidOptions)
	}
	if o.Category == "" {
		return fmt.Errorf("%w: empty category", ErrInvalidOptions)
	}
	if len(o.Spawns) > 1 && o.WinCondition != WinLastStanding && o.WinCondition != WinAllDead {
		return fmt.Errorf("%w: win condition %q", ErrInvalidOptions, o.WinCondition)
	}
	return nil
}

// TickResult reports what one Advance call changed.
type TickResult struct {
	Tick     uint64
	Died     []core.PlayerID
	Ate      []core.PlayerID
	Interval time.Duration // Interval until the next tick
	Terminal bool
}

// Match holds the actors, the food and the tick clock of one game.
// It is not safe for concurrent use; callers serialize ticks.
type Match struct {
	opts     Options
	rng      *rand.Rand
	actors   []*Actor
	food     core.Cell
	hasFood  bool
	ticks    uint64
	interval time.Duration
	start    time.Time
	last     time.Time
	end      time.Time
	terminal bool
}

// NewMatch validates opts and creates a match with single-cell actors
// at their spawn points.
func NewMatch(opts Options) (*Match, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.WinCondition == "" {
		opts.WinCondition = WinLastStanding
	}
	start := opts.Start
	if start.IsZero() {
		start = time.Now()
	}

	m := &Match{
		opts:     opts,
		rng:      rand.New(rand.NewSource(opts.Seed)),
		interval: opts.Initial,
		start:    start,
		last:     start,
	}
	for i, s := range opts.Spawns {
		m.actors = append(m.actors, newActor(core.PlayerID(i+1), s))
	}
	m.food, m.hasFood = placeFood(m.rng, opts.Grid, m.actors)
	return m, nil
}

// Grid returns the playfield.
func (m *Match) Grid() core.Grid { return m.opts.Grid }

// Category returns the score category.
func (m *Match) Category() string { return m.opts.Category }

// Ticks returns the number of ticks advanced.
func (m *Match) Ticks() uint64 { return m.ticks }

// Interval returns the delay until the next tick.
func (m *Match) Interval() time.Duration { return m.interval }

// Terminal reports whether the match is over.
func (m *Match) Terminal() bool { return m.terminal }

// Food returns the food cell, if any.
func (m *Match) Food() (core.Cell, bool) { return m.food, m.hasFood }

// Actors returns copies of all actors in player order.
func (m *Match) Actors() []*Actor {
	out := make([]*Actor, len(m.actors))
	for i, a := range m.actors {
		out[i] = a.Clone()
	}
	return out
}

// Actor returns a copy of the actor for a player, or nil.
func (m *Match) Actor(id core.PlayerID) *Actor {
	i := id.Index()
	if i < 0 || i >= len(m.actors) {
		return nil
	}
	return m.actors[i].Clone()
}

// Steer buffers a heading request for a player. It reports whether the
// request was accepted.
func (m *Match) Steer(id core.PlayerID, h Heading) bool {
	i := id.Index()
	if m.terminal || i < 0 || i >= len(m.actors) {
		return false
	}
	return m.actors[i].RequestHeading(h)
}

// TotalScore is the sum of all actor scores; it drives the shared speed.
func (m *Match) TotalScore() int {
	total := 0
	for _, a := range m.actors {
		total += a.Score
	}
	return total
}

// Advance runs one tick at time now. It is a no-op once the match is terminal.
func (m *Match) Advance(now time.Time) TickResult {
	if m.terminal {
		return TickResult{Tick: m.ticks, Interval: m.interval, Terminal: true}
	}
	m.ticks++
	m.last = now
	res := TickResult{Tick: m.ticks}

	// Commit buffered headings and snapshot candidates and bodies
	bodies := make([][]core.Cell, len(m.actors))
	candidates := make([]*core.Cell, len(m.actors))
	for i, a := range m.actors {
		bodies[i] = a.Body
		if !a.Alive() {
			continue
		}
		a.Heading = a.Pending
		c := a.candidate()
		candidates[i] = &c
	}

	causes := ResolveCauses(m.opts.Grid, bodies, candidates)

	ateFood := false
	for i, a := range m.actors {
		if candidates[i] == nil {
			continue
		}
		if causes[i] != 0 {
			a.freeze(now, causes[i])
			res.Died = append(res.Died, a.Player)
			continue
		}

		head := *candidates[i]
		body := make([]core.Cell, 0, len(a.Body)+1)
		body = append(body, head)
		if m.hasFood && head == m.food {
			a.Score++
			ateFood = true
			res.Ate = append(res.Ate, a.Player)
			body = append(body, a.Body...)
		} else {
			body = append(body, a.Body[:len(a.Body)-1]...)
		}
		a.Body = body
	}

	if ateFood {
		m.food, m.hasFood = placeFood(m.rng, m.opts.Grid, m.actors)
		m.interval = Interval(m.opts.Initial, m.TotalScore(), m.opts.Step, m.opts.Floor)
	}

	if m.isOver() {
		m.terminal = true
		m.end = now
	}

	res.Interval = m.interval
	res.Terminal = m.terminal
	return res
}

func (m *Match) aliveCount() int {
	n := 0
	for _, a := range m.actors {
		if a.Alive() {
			n++
		}
	}
	return n
}

func (m *Match) isOver() bool {
	alive := m.aliveCount()
	if len(m.actors) == 1 || m.opts.WinCondition == WinAllDead {
		return alive == 0
	}
	return alive <= 1
}

// Survival returns how long the actor stayed alive, measured to its death,
// or to the end of the match (or the latest tick) if it is still alive.
func (m *Match) Survival(id core.PlayerID) time.Duration {
	i := id.Index()
	if i < 0 || i >= len(m.actors) {
		return 0
	}
	a := m.actors[i]
	end := m.last
	switch {
	case !a.Alive():
		end = a.DiedAt
	case m.terminal:
		end = m.end
	}
	if d := end.Sub(m.start); d > 0 {
		return d
	}
	return 0
}

// Winner returns the winning player, or 0 for a solo match or a draw.
// A sole survivor wins; otherwise the higher score wins, then the later death.
func (m *Match) Winner() core.PlayerID {
	if len(m.actors) < 2 || !m.terminal {
		return 0
	}

	var survivors []*Actor
	for _, a := range m.actors {
		if a.Alive() {
			survivors = append(survivors, a)
		}
	}
	if len(survivors) == 1 {
		return survivors[0].Player
	}

	a, b := m.actors[0], m.actors[1]
	switch {
	case a.Score > b.Score:
		return a.Player
	case b.Score > a.Score:
		return b.Player
	case a.DiedAt.After(b.DiedAt):
		return a.Player
	case b.DiedAt.After(a.DiedAt):
		return b.Player
	default:
		return 0
	}
}
