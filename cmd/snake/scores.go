package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/ledger"
	"github.com/vovakirdan/tui-snake/internal/platform/tui"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

var (
	flagCategory string
	flagLimit    int
	flagDuels    bool
	flagScoresUI bool
	flagRecover  string
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the ranked ledger",
	Long: `Display the best result per player and difficulty, ordered by
difficulty rank, score and survival time.

Examples:
  snake scores
  snake scores --category hard --limit 5
  snake scores --duels
  snake scores --tui
  snake scores --recover ~/.snake/scores.json.corrupt-1700000000.zst > scores.json`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().StringVar(&flagCategory, "category", "", "Only this difficulty")
	scoresCmd.Flags().IntVar(&flagLimit, "limit", ledger.DefaultLimit, "Maximum entries")
	scoresCmd.Flags().BoolVar(&flagDuels, "duels", false, "Show recent duel history (sqlite ledger only)")
	scoresCmd.Flags().BoolVar(&flagScoresUI, "tui", false, "Open the interactive scoreboard")
	scoresCmd.Flags().StringVar(&flagRecover, "recover", "", "Print the content preserved from a corrupt file ledger")
}

func runScores(_ *cobra.Command, _ []string) error {
	if flagRecover != "" {
		return recoverLedger(flagRecover)
	}

	cfg := snake.Config()
	if flagCategory != "" {
		if _, err := cfg.Preset(flagCategory); err != nil {
			return err
		}
	}

	h, err := openLedger()
	if err != nil {
		return err
	}
	defer h.close()

	if flagScoresUI {
		rc := runtimeConfig()
		_, err := tui.RunScoreboard(h.ledger, rc.ScreenW, rc.ScreenH)
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if flagDuels {
		return printDuels(ctx, h)
	}

	entries, err := h.ledger.Top(ctx, flagLimit, ledger.Filter{
		Category: flagCategory,
		Ranks:    cfg.CategoryRanks(),
	})
	if err != nil {
		logger.Warn("cannot read ledger", "error", err)
		entries = nil
	}

	title := "High Scores"
	if flagCategory != "" {
		title += " - " + flagCategory
	}
	fmt.Println(title)
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'snake play' to set the first high score!")
		return nil
	}

	fmt.Printf("  %-4s  %-20s  %-8s  %-6s  %-9s  %s\n", "Rank", "Player", "Level", "Score", "Survival", "Date")
	fmt.Printf("  %-4s  %-20s  %-8s  %-6s  %-9s  %s\n", "----", "------", "-----", "-----", "--------", "----")
	for i, e := range entries {
		fmt.Printf("  %-4d  %-20s  %-8s  %-6d  %-9s  %s\n",
			i+1, e.Identity, e.Category, e.Score,
			e.Survival.Round(100*time.Millisecond), e.RecordedAt.Local().Format("2006-01-02 15:04"))
	}

	if h.db != nil {
		printStats(ctx, h)
	}
	return nil
}

func printStats(ctx context.Context, h ledgerHandle) {
	stats, err := h.db.Stats(ctx)
	if err != nil || len(stats) == 0 {
		return
	}
	ranks := snake.Config().CategoryRanks()
	cats := make([]string, 0, len(stats))
	for c := range stats {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return ranks[cats[i]] > ranks[cats[j]] })

	fmt.Println()
	for _, c := range cats {
		s := stats[c]
		fmt.Printf("%s: %d players, best %d, average %.1f\n", c, s.Players, s.HighScore, s.AvgScore)
	}
}

func printDuels(ctx context.Context, h ledgerHandle) error {
	if h.db == nil {
		return fmt.Errorf("duel history needs the sqlite ledger (have %q)", flagLedger)
	}
	duels, err := h.db.RecentDuels(ctx, flagLimit)
	if err != nil {
		return err
	}

	fmt.Println("Recent Duels")
	fmt.Println()
	if len(duels) == 0 {
		fmt.Println("No duels recorded yet.")
		return nil
	}

	for _, d := range duels {
		outcome := "draw"
		switch d.Winner {
		case 1:
			outcome = d.Player1 + " wins"
		case 2:
			outcome = d.Player2 + " wins"
		}
		fmt.Printf("  %s  %-8s  %s %d - %d %s  (%s, %d ticks)\n",
			d.CreatedAt.Local().Format("2006-01-02 15:04"), d.Category,
			d.Player1, d.Score1, d.Score2, d.Player2, outcome, d.Ticks)
	}
	return nil
}

func recoverLedger(path string) error {
	path, err := storage.ExpandPath(path)
	if err != nil {
		return err
	}
	data, err := storage.ReadQuarantined(path)
	if err != nil {
		return fmt.Errorf("cannot recover %s: %w", path, err)
	}
	_, err = os.Stdout.Write(data)
	return err
}
