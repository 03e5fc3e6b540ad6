package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper-classic/internal/config"
	"github.com/vancomm/minesweeper-classic/internal/leaderboard"
	"github.com/vancomm/minesweeper-classic/internal/logging"
)

// quietAnnotation marks commands that own the terminal and only want
// warnings on stderr.
const quietAnnotation = "quiet"

var (
	configPath string

	cfg *config.Config
	log = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "minesweeper",
	Short: "Classic minesweeper with per-difficulty leaderboards",
	Long: `Classic minesweeper: reveal every safe cell without hitting a bomb.

Examples:
  minesweeper play -d easy
  minesweeper scores -d hard -n 5
  minesweeper serve --config config.yaml`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (yaml, json or toml)")
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	if cfg, err = config.Load(configPath); err != nil {
		return err
	}

	opts := logging.OptionsFrom(cfg)
	_, opts.Quiet = cmd.Annotations[quietAnnotation]
	if log, err = logging.New(opts); err != nil {
		return err
	}

	log.WithFields(cfg.Fields()).Debug("config")
	return nil
}

// openScores opens the configured leaderboard backend.
func openScores(ctx context.Context) (*leaderboard.Leaderboard, func(), error) {
	store, closeStore, err := leaderboard.OpenStore(ctx, cfg.Leaderboard, log)
	if err != nil {
		return nil, nil, err
	}
	return leaderboard.New(store, log, cfg.Leaderboard.TopSize), closeStore, nil
}

func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
