package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var flagYes bool

var clearCmd = &cobra.Command{
	Use:   "clear-scores",
	Short: "Wipe the ledger",
	Long: `Remove every entry from the ledger. Duel history is kept.

Examples:
  snake clear-scores --yes
  snake clear-scores --yes --ledger file --db ./scores.json`,
	Args: cobra.NoArgs,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().BoolVar(&flagYes, "yes", false, "Confirm wiping the ledger")
}

func runClear(cmd *cobra.Command, _ []string) error {
	if !flagYes {
		return errors.New("refusing to clear the ledger without --yes")
	}

	h, err := openLedger()
	if err != nil {
		return err
	}
	defer h.close()

	if err := h.ledger.Clear(context.Background()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Ledger cleared.")
	return nil
}
