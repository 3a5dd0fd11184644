package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestEmbeddedDefaultMatchesHardcoded(t *testing.T) {
	cfg, err := ParseSnake(DefaultYAML())
	if err != nil {
		t.Fatalf("ParseSnake(embedded) failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultSnakeConfig()) {
		t.Errorf("embedded YAML and DefaultSnakeConfig() differ:\n%+v\n%+v", cfg, DefaultSnakeConfig())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadSnakeCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snake.yaml")
	data := []byte(`
grid:
  width: 40
  height: 25
difficulties:
  - name: insane
    initial_ms: 60
    step_ms: 1
    rank: 9
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadSnake(path)
	if err != nil {
		t.Fatalf("LoadSnake() failed: %v", err)
	}
	if cfg.Grid.Width != 40 || cfg.Grid.Height != 25 {
		t.Errorf("grid = %+v, expected 40x25", cfg.Grid)
	}
	if len(cfg.Difficulties) != 1 || cfg.Difficulties[0].Name != "insane" {
		t.Errorf("difficulties = %+v", cfg.Difficulties)
	}
	// Fields not in the file keep their defaults
	if cfg.Speed.FloorMs != 50 {
		t.Errorf("floor_ms = %d, expected default 50", cfg.Speed.FloorMs)
	}
}

func TestLoadSnakeMissingCustomPath(t *testing.T) {
	if _, err := LoadSnake(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadSnake() with missing custom path should fail")
	}
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SnakeConfig)
	}{
		{"zero grid", func(c *SnakeConfig) { c.Grid.Width = 0 }},
		{"zero floor", func(c *SnakeConfig) { c.Speed.FloorMs = 0 }},
		{"no difficulties", func(c *SnakeConfig) { c.Difficulties = nil }},
		{"initial below floor", func(c *SnakeConfig) { c.Difficulties[0].InitialMs = 10 }},
		{"negative step", func(c *SnakeConfig) { c.Difficulties[0].StepMs = -1 }},
		{"duplicate name", func(c *SnakeConfig) { c.Difficulties[1].Name = c.Difficulties[0].Name }},
		{"empty name", func(c *SnakeConfig) { c.Difficulties[0].Name = " " }},
		{"solo spawn outside", func(c *SnakeConfig) { c.Spawn.Solo.X = 30 }},
		{"bad heading", func(c *SnakeConfig) { c.Spawn.Solo.Heading = "north" }},
		{"one duel spawn", func(c *SnakeConfig) { c.Spawn.Duel = c.Spawn.Duel[:1] }},
		{"overlapping duel spawns", func(c *SnakeConfig) { c.Spawn.Duel[1] = c.Spawn.Duel[0] }},
		{"unknown win condition", func(c *SnakeConfig) { c.Duel.WinCondition = "sudden_death" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultSnakeConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, expected ErrInvalidConfig", err)
			}
		})
	}
}

func TestPresetLookup(t *testing.T) {
	cfg := DefaultSnakeConfig()

	hard, err := cfg.Preset("hard")
	if err != nil {
		t.Fatalf("Preset(hard) failed: %v", err)
	}
	if hard.Initial() != 100*time.Millisecond || hard.Step() != 4*time.Millisecond {
		t.Errorf("hard preset = %v/%v", hard.Initial(), hard.Step())
	}

	def, err := cfg.Preset("")
	if err != nil || def.Name != "normal" {
		t.Errorf("Preset(\"\") = %q, %v; expected normal", def.Name, err)
	}

	if _, err := cfg.Preset("nightmare"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Preset(unknown) = %v, expected ErrInvalidConfig", err)
	}
}

func TestDifficultyNamesHardestFirst(t *testing.T) {
	got := DefaultSnakeConfig().DifficultyNames()
	want := []string{"hard", "normal", "easy"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DifficultyNames() = %v, expected %v", got, want)
	}

	ranks := DefaultSnakeConfig().CategoryRanks()
	if ranks["hard"] <= ranks["normal"] || ranks["normal"] <= ranks["easy"] {
		t.Errorf("CategoryRanks() not ordered: %v", ranks)
	}
}
