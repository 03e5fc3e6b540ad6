package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper-classic/internal/leaderboard"
	"github.com/vancomm/minesweeper-classic/internal/mines"
)

var (
	scoresDifficulty string
	scoresCount      int
)

func init() {
	scoresCmd := &cobra.Command{
		Use:   "scores",
		Short: "Print the leaderboards",
		Long: `Print the best times for one or every difficulty.

Examples:
  minesweeper scores
  minesweeper scores -d medium -n 3`,
		Annotations: map[string]string{quietAnnotation: ""},
		RunE:        runScores,
	}

	scoresCmd.Flags().StringVarP(&scoresDifficulty, "difficulty", "d", "", "Only this difficulty")
	scoresCmd.Flags().IntVarP(&scoresCount, "number", "n", leaderboard.DefaultTopSize, "Number of records per difficulty")

	rootCmd.AddCommand(scoresCmd)
}

func runScores(cmd *cobra.Command, args []string) error {
	difficulties := mines.Difficulties()
	if scoresDifficulty != "" {
		d, ok := mines.LookupDifficulty(scoresDifficulty)
		if !ok {
			return fmt.Errorf("%w %q", mines.ErrInvalidDifficulty, scoresDifficulty)
		}
		difficulties = []mines.Difficulty{d}
	}

	ctx := cmd.Context()
	scores, closeScores, err := openScores(ctx)
	if err != nil {
		return err
	}
	defer closeScores()

	out := cmd.OutOrStdout()
	for _, d := range difficulties {
		fmt.Fprintf(out, "%s\n", d.Name)
		records, err := scores.Top(ctx, d.Name, scoresCount)
		if err != nil {
			fmt.Fprintf(out, "  unavailable: %s\n", err)
			continue
		}
		if len(records) == 0 {
			fmt.Fprintln(out, "  no records yet")
		}
		for _, r := range records {
			fmt.Fprintf(out, "  %d: %s - %s\n",
				r.Rank, r.At.Local().Format("02/01/2006 15:04:05"), leaderboard.FormatElapsed(r.Elapsed))
		}
	}
	return nil
}
