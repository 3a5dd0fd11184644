package config

import (
	"fmt"
	"sort"
	"strings"
)

// Preset returns the difficulty with the given name.
// An empty name selects the default preset.
func (c SnakeConfig) Preset(name string) (Difficulty, error) {
	if name == "" {
		name = c.DefaultDifficulty()
	}
	for _, d := range c.Difficulties {
		if d.Name == name {
			return d, nil
		}
	}
	return Difficulty{}, fmt.Errorf("%w: unknown difficulty %q (have %s)",
		ErrInvalidConfig, name, strings.Join(c.DifficultyNames(), ", "))
}

// DefaultDifficulty returns "normal" if defined, else the lowest-ranked preset.
func (c SnakeConfig) DefaultDifficulty() string {
	names := c.DifficultyNames()
	for _, n := range names {
		if n == "normal" {
			return n
		}
	}
	if len(names) == 0 {
		return ""
	}
	return names[len(names)-1]
}

// DifficultyNames returns preset names ordered hardest first.
func (c SnakeConfig) DifficultyNames() []string {
	ds := make([]Difficulty, len(c.Difficulties))
	copy(ds, c.Difficulties)
	sort.SliceStable(ds, func(i, j int) bool {
		return ds[i].Rank > ds[j].Rank
	})
	names := make([]string, len(ds))
	for i, d := range ds {
		names[i] = d.Name
	}
	return names
}

// CategoryRanks maps each preset name to its leaderboard rank.
func (c SnakeConfig) CategoryRanks() map[string]int {
	ranks := make(map[string]int, len(c.Difficulties))
	for _, d := range c.Difficulties {
		ranks[d.Name] = d.Rank
	}
	return ranks
}

// Validate checks the configuration for out-of-range values.
// Invalid configurations are rejected before any match starts.
func (c SnakeConfig) Validate() error {
	if c.Grid.Width <= 0 || c.Grid.Height <= 0 {
		return fmt.Errorf("%w: grid must be positive, got %dx%d", ErrInvalidConfig, c.Grid.Width, c.Grid.Height)
	}
	if c.Speed.FloorMs <= 0 {
		return fmt.Errorf("%w: speed.floor_ms must be positive, got %d", ErrInvalidConfig, c.Speed.FloorMs)
	}
	if len(c.Difficulties) == 0 {
		return fmt.Errorf("%w: at least one difficulty is required", ErrInvalidConfig)
	}

	seen := make(map[string]bool, len(c.Difficulties))
	for _, d := range c.Difficulties {
		if strings.TrimSpace(d.Name) == "" {
			return fmt.Errorf("%w: difficulty name must not be empty", ErrInvalidConfig)
		}
		if seen[d.Name] {
			return fmt.Errorf("%w: duplicate difficulty %q", ErrInvalidConfig, d.Name)
		}
		seen[d.Name] = true
		if d.InitialMs < c.Speed.FloorMs {
			return fmt.Errorf("%w: difficulty %q initial_ms %d is below floor_ms %d",
				ErrInvalidConfig, d.Name, d.InitialMs, c.Speed.FloorMs)
		}
		if d.StepMs < 0 {
			return fmt.Errorf("%w: difficulty %q step_ms must not be negative", ErrInvalidConfig, d.Name)
		}
	}

	if err := c.validateSpawn("spawn.solo", c.Spawn.Solo); err != nil {
		return err
	}
	if len(c.Spawn.Duel) != 2 {
		return fmt.Errorf("%w: spawn.duel needs exactly 2 points, got %d", ErrInvalidConfig, len(c.Spawn.Duel))
	}
	for i, p := range c.Spawn.Duel {
		if err := c.validateSpawn(fmt.Sprintf("spawn.duel[%d]", i), p); err != nil {
			return err
		}
	}
	if c.Spawn.Duel[0].X == c.Spawn.Duel[1].X && c.Spawn.Duel[0].Y == c.Spawn.Duel[1].Y {
		return fmt.Errorf("%w: duel spawn points overlap", ErrInvalidConfig)
	}

	switch c.Duel.WinCondition {
	case WinLastStanding, WinAllDead:
	default:
		return fmt.Errorf("%w: unknown duel.win_condition %q", ErrInvalidConfig, c.Duel.WinCondition)
	}
	return nil
}

func (c SnakeConfig) validateSpawn(field string, p SpawnPoint) error {
	if p.X < 0 || p.X >= c.Grid.Width || p.Y < 0 || p.Y >= c.Grid.Height {
		return fmt.Errorf("%w: %s (%d,%d) outside %dx%d grid", ErrInvalidConfig, field, p.X, p.Y, c.Grid.Width, c.Grid.Height)
	}
	switch p.Heading {
	case "up", "down", "left", "right":
	default:
		return fmt.Errorf("%w: %s has unknown heading %q", ErrInvalidConfig, field, p.Heading)
	}
	return nil
}
