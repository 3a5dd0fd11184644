package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadSnake loads and validates the snake configuration.
// Search order: customPath -> ~/.snake/configs/snake.yaml -> ./configs/snake.yaml -> embedded default
func LoadSnake(customPath string) (SnakeConfig, error) {
	cfg, err := loadSnake(customPath)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadSnake(customPath string) (SnakeConfig, error) {
	// Try custom path first
	if customPath != "" {
		cfg, err := readSnake(customPath)
		if err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("snake.yaml"); userCfgPath != "" {
		if cfg, err := readSnake(userCfgPath); err == nil {
			return cfg, nil
		}
	}

	// Try local configs directory
	if cfg, err := readSnake(filepath.Join("configs", "snake.yaml")); err == nil {
		return cfg, nil
	}

	// Use embedded default YAML
	cfg, err := ParseSnake(defaultSnakeYAML)
	if err != nil {
		return DefaultSnakeConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

func readSnake(path string) (SnakeConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SnakeConfig{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := ParseSnake(data)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseSnake decodes YAML on top of the built-in defaults, so a file only
// needs to name the fields it overrides.
func ParseSnake(data []byte) (SnakeConfig, error) {
	cfg := DefaultSnakeConfig()
	var overlay SnakeConfig
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return cfg, err
	}
	if overlay.Grid.Width != 0 || overlay.Grid.Height != 0 {
		cfg.Grid = overlay.Grid
	}
	if overlay.Speed.FloorMs != 0 {
		cfg.Speed = overlay.Speed
	}
	if len(overlay.Difficulties) > 0 {
		cfg.Difficulties = overlay.Difficulties
	}
	if overlay.Spawn.Solo.Heading != "" {
		cfg.Spawn.Solo = overlay.Spawn.Solo
	}
	if len(overlay.Spawn.Duel) > 0 {
		cfg.Spawn.Duel = overlay.Spawn.Duel
	}
	if overlay.Duel.WinCondition != "" {
		cfg.Duel = overlay.Duel
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".snake", "configs", filename)
}
