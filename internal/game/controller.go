package game

import (
	"context"
	"errors"
	"fmt"
	"hash/maphash"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-classic/internal/leaderboard"
	"github.com/vancomm/minesweeper-classic/internal/mines"
)

var (
	ErrNotPlaying        = errors.New("game is not in progress")
	ErrInvalidTransition = errors.New("invalid state transition")
)

type State uint8

const (
	Setup State = iota
	Playing
	Won
	Lost
)

func (s State) String() string {
	switch s {
	case Setup:
		return "setup"
	case Playing:
		return "playing"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

type Outcome uint8

const (
	Continue Outcome = iota
	Victory
	Defeat
)

// Recorder stores a completion time and reports where it ranks.
type Recorder interface {
	Record(ctx context.Context, difficulty string, elapsed time.Duration, at time.Time) (leaderboard.Standing, error)
}

type WinReport struct {
	Difficulty mines.Difficulty
	Elapsed    time.Duration
	At         time.Time
	leaderboard.Standing
	// Err is set when the time could not be recorded. Rank and Top are
	// provisional if the standing was computed but not persisted.
	Err error
}

// Controller drives a single play session. It is not safe for concurrent
// use; callers handle one action at a time.
type Controller struct {
	logger   logrus.FieldLogger
	rnd      mines.RandomSource
	now      func() time.Time
	recorder Recorder
	listener Listener

	state      State
	difficulty mines.Difficulty
	board      *mines.Board
	startedAt  time.Time
	endedAt    time.Time
}

type Option func(*Controller)

func WithRand(r mines.RandomSource) Option {
	return func(c *Controller) { c.rnd = r }
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Controller) { c.logger = logger }
}

func WithRecorder(r Recorder) Option {
	return func(c *Controller) { c.recorder = r }
}

func WithListener(l Listener) Option {
	return func(c *Controller) { c.listener = l }
}

func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func New(opts ...Option) *Controller {
	c := &Controller{
		logger:   logrus.StandardLogger(),
		now:      time.Now,
		listener: NopListener{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rnd == nil {
		c.rnd = NewRand()
	}
	return c
}

func (c *Controller) State() State                 { return c.state }
func (c *Controller) Difficulty() mines.Difficulty { return c.difficulty }

// Board returns the current board, or nil before the first Start and
// after a Restart.
func (c *Controller) Board() *mines.Board { return c.board }

// Elapsed is the play time so far. It stops at the win or loss and is zero
// outside a session.
func (c *Controller) Elapsed() time.Duration {
	switch c.state {
	case Playing:
		return c.now().Sub(c.startedAt)
	case Won, Lost:
		return c.endedAt.Sub(c.startedAt)
	default:
		return 0
	}
}

func (c *Controller) Start(d mines.Difficulty) error {
	if c.state != Setup {
		return fmt.Errorf("%w: start from %s", ErrInvalidTransition, c.state)
	}
	board, err := mines.NewBoard(d, c.rnd)
	if err != nil {
		return err
	}
	c.difficulty = d
	c.board = board
	c.state = Playing
	c.startedAt = c.now()
	c.endedAt = time.Time{}

	c.logger.WithFields(logrus.Fields{
		"difficulty": d.Name,
		"width":      d.Width,
		"height":     d.Height,
		"bombs":      board.BombCount(),
	}).Debug("game started")
	c.listener.Started(d)
	return nil
}

func (c *Controller) Reveal(ctx context.Context, p mines.Position) (Outcome, error) {
	if c.state != Playing {
		return Continue, fmt.Errorf("reveal %s: %w", p, ErrNotPlaying)
	}
	res, err := c.board.Reveal(p)
	if err != nil {
		return Continue, err
	}
	c.emit(res.Changed)

	switch {
	case res.Lost:
		c.stop(Lost)
		c.emit(c.board.RevealAllBombsExcept(p))
		c.logger.WithFields(logrus.Fields{
			"difficulty": c.difficulty.Name,
			"at":         p.String(),
			"elapsed":    c.Elapsed().String(),
		}).Debug("game lost")
		c.listener.Lost(p)
		return Defeat, nil
	case res.Complete:
		c.stop(Won)
		report := c.record(ctx)
		c.logger.WithFields(logrus.Fields{
			"difficulty": c.difficulty.Name,
			"elapsed":    report.Elapsed.String(),
			"rank":       report.Rank,
		}).Debug("game won")
		c.listener.Won(report)
		return Victory, nil
	}
	return Continue, nil
}

func (c *Controller) Flag(p mines.Position) error {
	if c.state != Playing {
		return fmt.Errorf("flag %s: %w", p, ErrNotPlaying)
	}
	changed, err := c.board.Flag(p)
	if err != nil {
		return err
	}
	if changed {
		c.emit([]mines.Position{p})
	}
	return nil
}

func (c *Controller) Restart() error {
	if c.state != Won && c.state != Lost {
		return fmt.Errorf("%w: restart from %s", ErrInvalidTransition, c.state)
	}
	c.state = Setup
	c.board = nil
	c.startedAt = time.Time{}
	c.endedAt = time.Time{}
	return nil
}

func (c *Controller) stop(s State) {
	c.endedAt = c.now()
	c.state = s
}

func (c *Controller) emit(changed []mines.Position) {
	for _, p := range changed {
		cell, err := c.board.Cell(p)
		if err != nil {
			continue
		}
		c.listener.CellChanged(cell)
	}
}

func (c *Controller) record(ctx context.Context) WinReport {
	report := WinReport{
		Difficulty: c.difficulty,
		Elapsed:    c.Elapsed(),
		At:         c.endedAt,
	}
	if c.recorder == nil {
		return report
	}
	standing, err := c.recorder.Record(ctx, c.difficulty.Name, report.Elapsed, report.At)
	report.Standing = standing
	if err != nil {
		report.Err = err
		report.Provisional = true
		c.logger.WithError(err).WithField("difficulty", c.difficulty.Name).
			Warn("unable to record completion time")
	}
	return report
}
