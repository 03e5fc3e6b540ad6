package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper-classic/internal/database"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply the postgres leaderboard migrations",
		Long: `Apply the postgres leaderboard migrations. The database is taken from
DATABASE_URL or POSTGRES_USER, POSTGRES_PASSWORD (or POSTGRES_PASSWORD_FILE),
POSTGRES_HOST, POSTGRES_PORT, POSTGRES_DB and POSTGRES_SSLMODE.`,
		RunE: runMigrate,
	})
}

func runMigrate(cmd *cobra.Command, args []string) error {
	db, migrator, err := database.ConnectAndMigrate(cmd.Context(), os.LookupEnv)
	if err != nil {
		log.WithError(err).Error("failed to migrate db")
		return err
	}
	defer db.Close()
	defer migrator.Close()

	version, dirty, err := migrator.Version()
	if err != nil {
		log.WithError(err).Error("failed to check migration version")
		return err
	}
	log.WithFields(logrus.Fields{
		"version": version,
		"dirty":   dirty,
	}).Info("migration successful")
	return nil
}
