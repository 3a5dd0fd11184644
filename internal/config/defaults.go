package config

import (
	_ "embed"
)

//go:embed defaults/snake.yaml
var defaultSnakeYAML []byte

// DefaultSnakeConfig returns the built-in snake configuration.
// It matches defaults/snake.yaml and is used if the embedded file fails to parse.
func DefaultSnakeConfig() SnakeConfig {
	return SnakeConfig{
		Grid: GridConfig{
			Width:  30,
			Height: 20,
		},
		Speed: SpeedConfig{
			FloorMs: 50,
		},
		Difficulties: []Difficulty{
			{Name: "easy", InitialMs: 200, StepMs: 2, Rank: 1},
			{Name: "normal", InitialMs: 150, StepMs: 3, Rank: 2},
			{Name: "hard", InitialMs: 100, StepMs: 4, Rank: 3},
		},
		Spawn: SpawnConfig{
			Solo: SpawnPoint{X: 15, Y: 10, Heading: "right"},
			Duel: []SpawnPoint{
				{X: 7, Y: 10, Heading: "right"},
				{X: 22, Y: 10, Heading: "left"},
			},
		},
		Duel: DuelConfig{
			WinCondition: WinLastStanding,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultSnakeYAML
}
