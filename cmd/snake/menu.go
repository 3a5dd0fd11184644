package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/platform/tui"
	"github.com/vovakirdan/tui-snake/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick mode and difficulty interactively",
	Long: `Start in interactive menu mode.

Use Up/Down to pick a mode, Left/Right to pick a difficulty and Enter to
play. Tab opens the scoreboard. After a match you return to the menu.

Examples:
  snake menu
  snake menu --name alice --ledger file`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&flagName, "name", "", "Ledger identity for player 1 (default: login name)")
	menuCmd.Flags().StringVar(&flagName2, "name2", "", "Ledger identity for player 2 in a duel")
}

func runMenu(_ *cobra.Command, _ []string) error {
	h := openLedgerOrMemory()
	defer h.close()
	submitter := h.submitter()

	cfg := runtimeConfig()
	for {
		res, err := tui.RunMenu(cfg)
		if err != nil {
			return err
		}
		cfg = res.Config

		switch res.Choice {
		case tui.ChoiceQuit:
			return nil
		case tui.ChoiceScores:
			goBack, err := tui.RunScoreboard(h.ledger, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				return err
			}
			if !goBack {
				return nil
			}
			continue
		}

		game, err := registry.Create(res.GameID)
		if err != nil {
			logger.Error("cannot create game", "mode", res.GameID, "error", err)
			continue
		}

		identities := []string{defaultIdentity(flagName)}
		if game.Players() > 1 {
			identities = append(identities, flagName2)
		}

		cfg.Seed = flagSeed
		if cfg.Seed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}
		if err := tui.Run(game, submitter, cfg, identities...); err != nil {
			logger.Error("running game", "error", err)
		}
	}
}
