package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper-classic/internal/config"
	"github.com/vancomm/minesweeper-classic/internal/handlers"
	"github.com/vancomm/minesweeper-classic/internal/leaderboard"
	"github.com/vancomm/minesweeper-classic/internal/middleware"
	"github.com/vancomm/minesweeper-classic/internal/mines"
)

const shutdownTimeout = 30 * time.Second

type App struct {
	logger logrus.FieldLogger
	config *config.Config
	router *http.ServeMux
	scores *leaderboard.Leaderboard
	game   *handlers.GameHandler
}

// New assembles the server. scores may be nil: games are then not recorded
// and leaderboard queries answer 503.
func New(logger logrus.FieldLogger, cfg *config.Config, scores *leaderboard.Leaderboard) (*App, error) {
	difficulty, ok := mines.LookupDifficulty(cfg.Difficulty)
	if !ok {
		return nil, fmt.Errorf("%w %q", mines.ErrInvalidDifficulty, cfg.Difficulty)
	}

	app := &App{
		logger: logger,
		config: cfg,
		router: http.NewServeMux(),
		scores: scores,
		game: handlers.NewGameHandler(
			logger, scores, config.NewWebSocket(cfg.Development), difficulty,
		),
	}
	app.loadRoutes()
	return app, nil
}

func (a *App) Handler() http.Handler {
	var h http.Handler = a.router
	if base := strings.TrimSuffix(a.config.BasePath, "/"); base != "" {
		h = http.StripPrefix(base, h)
	}
	return middleware.Wrap(
		h,
		middleware.Cors(a.config.Development),
		middleware.Logging(a.logger),
	)
}

// Start serves until ctx is cancelled or the listener fails, then shuts
// the server down gracefully.
func (a *App) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:    a.config.Addr,
		Handler: a.Handler(),
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.WithField("addr", a.config.Addr).Info("server listening")
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("unable to listen and serve: %w", err)
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		a.sweepSessions(gCtx)
		return nil
	})

	return g.Wait()
}

func (a *App) sweepSessions(ctx context.Context) {
	ttl := a.config.SessionTTL
	ticker := time.NewTicker(max(ttl/4, time.Second))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.game.Sweep(ttl)
		}
	}
}
