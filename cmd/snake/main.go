// snake is a tick-driven snake arcade for the terminal, SSH and HTTP.
//
// Usage:
//
//	snake list              - List modes and difficulties
//	snake play              - Play solo (or --duel) in this terminal
//	snake menu              - Pick mode and difficulty interactively
//	snake serve             - Serve over SSH and/or HTTP
//	snake scores            - Show the ranked ledger
//	snake clear-scores      - Wipe the ledger
//
// Global flags:
//
//	--seed <value>        - RNG seed for reproducible food placement
//	--db <path>           - Ledger location
//	--ledger <backend>    - sqlite, file or memory
//	--config <path>       - Custom snake.yaml
//	--difficulty <name>   - Difficulty preset, also the score category
//	--log-level <level>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
)

var (
	flagSeed       int64
	flagDBPath     string
	flagLedger     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
)

// logger is configured in the root command's PersistentPreRunE.
var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "snake",
})

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snake",
	Short: "Snake - a tick-driven snake arcade for your terminal",
	Long: `Snake runs solo and two-player matches in the terminal, over SSH, or
through an HTTP/websocket API, and keeps each player's best result per
difficulty in a shared ledger.

Available commands:
  list          - Show modes and difficulties
  play          - Play a match directly
  menu          - Interactive mode picker
  serve         - Start SSH and/or HTTP servers
  scores        - View the ledger
  clear-scores  - Wipe the ledger

Examples:
  snake play --name alice
  snake play --duel --name alice --name2 bob --difficulty hard
  snake serve --ssh :23234 --http :8080
  snake scores --category hard`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		level, err := log.ParseLevel(flagLogLevel)
		if err != nil {
			return fmt.Errorf("invalid --log-level: %w", err)
		}
		logger.SetLevel(level)
		log.SetDefault(logger)

		cfg, err := config.LoadSnake(flagConfig)
		if err != nil {
			return err
		}
		if flagDifficulty != "" {
			if _, err := cfg.Preset(flagDifficulty); err != nil {
				return err
			}
		}
		return snake.SetConfig(cfg)
	},
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Ledger path (default ~/.snake/scores.db, or scores.json for --ledger file)")
	rootCmd.PersistentFlags().StringVar(&flagLedger, "ledger", "sqlite", "Ledger backend: sqlite, file, memory")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom snake.yaml")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset (see 'snake list')")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(clearCmd)
}
