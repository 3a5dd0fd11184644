// Package config provides YAML-based snake configuration loading and
// difficulty preset management.
package config

import (
	"errors"
	"time"
)

// ErrInvalidConfig is returned when a configuration fails validation.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// SnakeConfig contains all configuration for the snake game.
type SnakeConfig struct {
	Grid         GridConfig   `yaml:"grid"`
	Speed        SpeedConfig  `yaml:"speed"`
	Difficulties []Difficulty `yaml:"difficulties"`
	Spawn        SpawnConfig  `yaml:"spawn"`
	Duel         DuelConfig   `yaml:"duel"`
}

// GridConfig defines the playfield dimensions in cells.
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// SpeedConfig holds the global speed bound shared by all presets.
type SpeedConfig struct {
	FloorMs int `yaml:"floor_ms"`
}

// Floor returns the minimum tick interval.
func (s SpeedConfig) Floor() time.Duration {
	return time.Duration(s.FloorMs) * time.Millisecond
}

// Difficulty is a named preset. Its name is also the score category.
type Difficulty struct {
	Name      string `yaml:"name"`
	InitialMs int    `yaml:"initial_ms"` // Tick interval at score zero
	StepMs    int    `yaml:"step_ms"`    // Interval reduction per point scored
	Rank      int    `yaml:"rank"`       // Leaderboard order, higher first
}

// Initial returns the starting tick interval.
func (d Difficulty) Initial() time.Duration {
	return time.Duration(d.InitialMs) * time.Millisecond
}

// Step returns the interval reduction per point.
func (d Difficulty) Step() time.Duration {
	return time.Duration(d.StepMs) * time.Millisecond
}

// SpawnPoint is a starting cell and heading.
type SpawnPoint struct {
	X       int    `yaml:"x"`
	Y       int    `yaml:"y"`
	Heading string `yaml:"heading"` // up, down, left or right
}

// SpawnConfig holds spawn points for each mode.
type SpawnConfig struct {
	Solo SpawnPoint   `yaml:"solo"`
	Duel []SpawnPoint `yaml:"duel"`
}

// Win conditions for two-actor matches.
const (
	WinLastStanding = "last_standing"
	WinAllDead      = "all_dead"
)

// DuelConfig holds two-actor mode settings.
type DuelConfig struct {
	WinCondition string `yaml:"win_condition"`
}
