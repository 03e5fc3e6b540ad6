package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper-classic/internal/game"
	"github.com/vancomm/minesweeper-classic/internal/mines"
	"github.com/vancomm/minesweeper-classic/internal/terminal"
)

var playDifficulty string

func init() {
	playCmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		Long: `Play in the terminal. Commands are read one per line:

  o x y    reveal the cell at column x, row y
  f x y    flag or unflag a cell
  g        redraw the board
  q        quit

After a win or a loss, answer the prompt with y, n or a difficulty
name (easy, medium, hard) to play again at that difficulty.`,
		Annotations: map[string]string{quietAnnotation: ""},
		RunE:        runPlay,
	}

	playCmd.Flags().StringVarP(&playDifficulty, "difficulty", "d", "", "Difficulty: easy, medium or hard (default from config)")

	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	name := playDifficulty
	if name == "" {
		name = cfg.Difficulty
	}
	d, ok := mines.LookupDifficulty(name)
	if !ok {
		return fmt.Errorf("%w %q", mines.ErrInvalidDifficulty, name)
	}

	ctx := cmd.Context()
	var opts []game.Option
	scores, closeScores, err := openScores(ctx)
	if err != nil {
		log.WithError(err).Warn("leaderboard unavailable, times will not be recorded")
	} else {
		defer closeScores()
		opts = append(opts, game.WithRecorder(scores))
	}

	return terminal.New(os.Stdin, os.Stdout, log, opts...).Play(ctx, d)
}
