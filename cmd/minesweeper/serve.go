package main

import (
	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper-classic/internal/app"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Serve games over HTTP and websockets",
		RunE:  runServe,
	})
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	scores, closeScores, err := openScores(ctx)
	if err != nil {
		return err
	}
	defer closeScores()

	a, err := app.New(log, cfg, scores)
	if err != nil {
		return err
	}

	log.Infof("starting up, development = %t", cfg.Development)
	if err := a.Start(ctx); err != nil {
		log.WithError(err).Error("server stopped")
		return err
	}
	log.Info("server stopped")
	return nil
}
