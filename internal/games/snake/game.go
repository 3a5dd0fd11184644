// Package snake implements the tick-driven snake engine: actors, the
// collision resolver, the speed model, food placement and the registry
// adapters for the solo and duel modes.
package snake

import (
	"fmt"
	"sync"
	"time"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/registry"
)

// Mode IDs registered with the registry.
const (
	IDSolo = "snake"
	IDDuel = "snake_duel"
)

const hudHeight = 2

var (
	configMu     sync.RWMutex
	activeConfig = config.DefaultSnakeConfig()
)

// SetConfig replaces the configuration used by new matches.
func SetConfig(cfg config.SnakeConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	configMu.Lock()
	activeConfig = cfg
	configMu.Unlock()
	return nil
}

// Config returns the configuration used by new matches.
func Config() config.SnakeConfig {
	configMu.RLock()
	defer configMu.RUnlock()
	return activeConfig
}

// Game adapts a Match to the registry.Game interface.
type Game struct {
	players int
	runtime core.RuntimeConfig
	match   *Match
	paused  bool
	now     func() time.Time
}

// New creates a solo game.
func New() *Game {
	return &Game{players: 1, now: time.Now}
}

// NewDuel creates a two-actor game.
func NewDuel() *Game {
	return &Game{players: 2, now: time.Now}
}

func init() {
	registry.Register(IDSolo, func() registry.Game {
		return New()
	})
	registry.Register(IDDuel, func() registry.Game {
		return NewDuel()
	})
}

// ID returns the mode identifier.
func (g *Game) ID() string {
	if g.players > 1 {
		return IDDuel
	}
	return IDSolo
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.players > 1 {
		return "Snake Duel"
	}
	return "Snake"
}

// Players returns the actor count.
func (g *Game) Players() int {
	return g.players
}

// Reset destroys the current match and starts a new one.
func (g *Game) Reset(cfg core.RuntimeConfig) error {
	opts, err := OptionsFromConfig(Config(), cfg.Difficulty, g.players, cfg.Seed)
	if err != nil {
		return err
	}
	opts.Start = g.now()

	m, err := NewMatch(opts)
	if err != nil {
		return err
	}
	g.runtime = cfg
	g.runtime.Difficulty = opts.Category
	g.match = m
	g.paused = false
	return nil
}

// Step applies control and steering actions, then advances one tick.
func (g *Game) Step(in core.MultiInputFrame) core.StepResult {
	if g.match == nil {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionRestart) && g.match.Terminal() {
		cfg := g.runtime
		cfg.Seed = g.match.rng.Int63()
		g.Reset(cfg) //nolint:errcheck // same config that built the current match
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) && !g.match.Terminal() {
		g.paused = !g.paused
	}
	if g.paused || g.match.Terminal() {
		return core.StepResult{State: g.State()}
	}

	for i := range g.players {
		id := core.PlayerID(i + 1)
		for _, a := range in.Player(id).Actions {
			if h, ok := HeadingFromAction(a); ok {
				g.match.Steer(id, h)
			}
		}
	}

	g.match.Advance(g.now())
	return core.StepResult{State: g.State(), Moved: true}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.match == nil {
		return core.GameState{}
	}
	return core.GameState{
		Score:    g.match.TotalScore(),
		GameOver: g.match.Terminal(),
		Paused:   g.paused,
	}
}

// Interval returns the delay until the next tick.
func (g *Game) Interval() time.Duration {
	if g.match == nil {
		cfg := Config()
		if d, err := cfg.Preset(""); err == nil {
			return d.Initial()
		}
		return time.Duration(cfg.Speed.FloorMs) * time.Millisecond
	}
	return g.match.Interval()
}

// Difficulty returns the preset the current match runs with.
func (g *Game) Difficulty() string {
	return g.runtime.Difficulty
}

// Result returns the match summary.
func (g *Game) Result() Result {
	if g.match == nil {
		return Result{}
	}
	return g.match.Result()
}

// Snapshot returns the current match state.
func (g *Game) Snapshot() Snapshot {
	if g.match == nil {
		return Snapshot{}
	}
	return g.match.Snapshot()
}

// MinScreen returns the smallest screen that fits the board and HUD.
func (g *Game) MinScreen() (w, h int) {
	cfg := Config().Grid
	grid := core.NewGrid(cfg.Width, cfg.Height)
	if g.match != nil {
		grid = g.match.Grid()
	}
	return grid.Width + 2, grid.Height + 2 + hudHeight
}

// Render draws the board, actors, food and overlays.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.match == nil {
		return
	}

	g.renderHUD(dst)

	minW, minH := g.MinScreen()
	if dst.Width() < minW || dst.Height() < minH {
		dst.DrawTextCentered(dst.Height()/2, "Window too small")
		dst.DrawTextCentered(dst.Height()/2+1, fmt.Sprintf("Need %dx%d", minW, minH))
		return
	}

	grid := g.match.Grid()
	offX := (dst.Width() - grid.Width) / 2
	offY := hudHeight + 1
	dst.DrawBox(offX-1, offY-1, grid.Width+2, grid.Height+2, core.ColorGray)

	if food, ok := g.match.Food(); ok {
		dst.SetColored(offX+food.X, offY+food.Y, '*', core.ColorRed)
	}

	// Frozen actors first so live ones draw on top
	actors := g.match.actors
	for _, alivePass := range []bool{false, true} {
		for _, a := range actors {
			if a.Alive() != alivePass {
				continue
			}
			g.renderActor(dst, a, offX, offY)
		}
	}

	switch {
	case g.match.Terminal():
		g.renderOverlay(dst, g.gameOverTitle(), "R restart  B menu")
	case g.paused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	}
}

func (g *Game) renderHUD(dst *core.Screen) {
	var hud string
	if g.players > 1 {
		p1, p2 := g.match.actors[0], g.match.actors[1]
		hud = fmt.Sprintf(" %s | P1: %d  P2: %d | %s | %dms",
			g.Title(), p1.Score, p2.Score, g.match.Category(), g.match.Interval().Milliseconds())
	} else {
		hud = fmt.Sprintf(" %s | Score: %d | %s | %dms",
			g.Title(), g.match.TotalScore(), g.match.Category(), g.match.Interval().Milliseconds())
	}
	dst.DrawText(0, 0, hud)
	for x := range dst.Width() {
		dst.Set(x, 1, '─')
	}
}

func (g *Game) renderActor(dst *core.Screen, a *Actor, offX, offY int) {
	color := actorColor(a.Player)
	if !a.Alive() {
		color = core.ColorGray
	}
	for i := len(a.Body) - 1; i >= 0; i-- {
		seg := a.Body[i]
		r := 'o'
		if i == 0 {
			r = 'O'
			if !a.Alive() {
				r = 'X'
			}
		}
		dst.SetColored(offX+seg.X, offY+seg.Y, r, color)
	}
}

func actorColor(p core.PlayerID) core.Color {
	if p == core.Player2 {
		return core.ColorCyan
	}
	return core.ColorGreen
}

func (g *Game) gameOverTitle() string {
	if g.players == 1 {
		return fmt.Sprintf("Game Over | Score %d", g.match.TotalScore())
	}
	if w := g.match.Winner(); w != 0 {
		return fmt.Sprintf("Player %d wins!", int(w))
	}
	return "Draw"
}

// renderOverlay draws a centered two-line message box.
func (g *Game) renderOverlay(dst *core.Screen, line1, line2 string) {
	boxW := max(len([]rune(line1)), len([]rune(line2))) + 4
	boxH := 5
	boxX := (dst.Width() - boxW) / 2
	boxY := (dst.Height() - boxH) / 2

	for y := boxY + 1; y < boxY+boxH-1; y++ {
		for x := boxX + 1; x < boxX+boxW-1; x++ {
			dst.Set(x, y, ' ')
		}
	}
	dst.DrawBox(boxX, boxY, boxW, boxH, core.ColorBrightWhite)
	dst.DrawTextCentered(boxY+1, line1)
	dst.DrawTextCentered(boxY+3, line2)
}
