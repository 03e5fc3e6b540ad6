package leaderboard

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-classic/internal/config"
	"github.com/vancomm/minesweeper-classic/internal/database"
)

// OpenStore builds the backend named by cfg.Backend. The returned close
// function releases its connections.
func OpenStore(
	ctx context.Context, cfg config.Leaderboard, logger logrus.FieldLogger,
) (Store, func(), error) {
	log := logger.WithField("backend", cfg.Backend)

	switch cfg.Backend {
	case "file", "":
		s, err := NewFileStore(cfg.Dir)
		if err != nil {
			return nil, nil, err
		}
		log.WithField("dir", cfg.Dir).Debug("using file leaderboard")
		return s, func() {}, nil

	case "sqlite":
		db, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		s, err := NewSQLiteStore(ctx, db, cfg.SQLiteTable)
		if err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("unable to create sqlite store: %w", err)
		}
		log.WithField("path", cfg.SQLitePath).Debug("using sqlite leaderboard")
		return s, func() { db.Close() }, nil

	case "postgres":
		db, err := database.Connect(ctx, os.LookupEnv)
		if err != nil {
			return nil, nil, err
		}
		log.Debug("using postgres leaderboard")
		return NewPostgresStore(db), db.Close, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("unable to ping redis: %w", err)
		}
		log.WithField("addr", cfg.RedisAddr).Debug("using redis leaderboard")
		return NewRedisStore(client), func() { client.Close() }, nil
	}

	return nil, nil, fmt.Errorf("unknown leaderboard backend %q", cfg.Backend)
}
