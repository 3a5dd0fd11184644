package main

import (
	"fmt"
	"os"
	"os/user"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/platform/tui"
	"github.com/vovakirdan/tui-snake/internal/registry"
)

var (
	flagName  string
	flagName2 string
	flagDuel  bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a match",
	Long: `Start a snake match in this terminal.

Controls:
  Arrows       - Steer (player 1)
  WASD         - Steer (player 2 in a duel, player 1 otherwise)
  P/Space      - Pause
  R            - Restart (after game over)
  Esc          - Leave (when paused or over)
  Q/Ctrl+C     - Quit

The result is saved under --name (default: your login name) and the
difficulty as category. In a duel, player 2 is saved under --name2 when set.

Examples:
  snake play
  snake play --difficulty hard --name alice
  snake play --duel --name alice --name2 bob`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagName, "name", "", "Ledger identity for player 1 (default: login name)")
	playCmd.Flags().StringVar(&flagName2, "name2", "", "Ledger identity for player 2 in a duel")
	playCmd.Flags().BoolVar(&flagDuel, "duel", false, "Two players on one keyboard")
}

func runPlay(_ *cobra.Command, _ []string) error {
	gameID := snake.IDSolo
	if flagDuel {
		gameID = snake.IDDuel
	}

	game, err := registry.Create(gameID)
	if err != nil {
		return err
	}

	cfg := runtimeConfig()
	if w, h := game.(*snake.Game).MinScreen(); cfg.ScreenW < w || cfg.ScreenH < h {
		logger.Warn("terminal smaller than the board", "have", fmt.Sprintf("%dx%d", cfg.ScreenW, cfg.ScreenH),
			"need", fmt.Sprintf("%dx%d", w, h))
	}

	h := openLedgerOrMemory()
	defer h.close()

	identities := []string{defaultIdentity(flagName)}
	if flagDuel {
		identities = append(identities, flagName2)
	}

	if err := tui.Run(game, h.submitter(), cfg, identities...); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}

// runtimeConfig builds the runtime config from flags and the terminal size.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.Seed = flagSeed
	cfg.Difficulty = flagDifficulty
	return cfg
}

func defaultIdentity(name string) string {
	if name != "" {
		return name
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return ""
}
