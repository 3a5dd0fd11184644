package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List modes and difficulties",
	Long:  `Shows the registered game modes and the difficulty presets, hardest first.`,
	Args:  cobra.NoArgs,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	games := registry.List()

	maxIDLen := 2 // "ID" header
	for _, g := range games {
		maxIDLen = max(maxIDLen, len(g.ID))
	}

	fmt.Println("Modes:")
	fmt.Println()
	fmt.Printf("  %-*s  %-7s  %s\n", maxIDLen, "ID", "Players", "Title")
	fmt.Printf("  %-*s  %-7s  %s\n", maxIDLen, "--", "-------", "-----")
	for _, g := range games {
		fmt.Printf("  %-*s  %-7d  %s\n", maxIDLen, g.ID, g.Players, g.Title)
	}

	cfg := snake.Config()
	fmt.Println()
	fmt.Println("Difficulties:")
	fmt.Println()
	fmt.Printf("  %-10s  %-4s  %-10s  %s\n", "Name", "Rank", "Start", "Step")
	fmt.Printf("  %-10s  %-4s  %-10s  %s\n", "----", "----", "-----", "----")
	for _, name := range cfg.DifficultyNames() {
		d, err := cfg.Preset(name)
		if err != nil {
			continue
		}
		marker := ""
		if name == cfg.DefaultDifficulty() {
			marker = " (default)"
		}
		fmt.Printf("  %-10s  %-4d  %-10s  -%s/point%s\n", d.Name, d.Rank, d.Initial(), d.Step(), marker)
	}
	fmt.Printf("\nSpeed floor: %s\n", cfg.Speed.Floor())
	fmt.Println()
	fmt.Println("Run 'snake play --difficulty <name>' to play.")
}
