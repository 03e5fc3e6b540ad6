package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

const DefaultTopSize = 10

// Store keeps one ordered list of records per difficulty. Load returns an
// empty list when nothing is stored yet and an error wrapping [ErrCorrupt]
// when the stored data cannot be read back. Persist replaces the whole list
// and returns an error wrapping [ErrPersistence] on failure.
type Store interface {
	Load(ctx context.Context, difficulty string) ([]Record, error)
	Persist(ctx context.Context, difficulty string, records []Record) error
}

// Standing is where a new record landed.
type Standing struct {
	Rank    int      `json:"rank"`
	Entry   Record   `json:"entry"`
	Records []Record `json:"-"`
	Top     []Record `json:"top"`
	// Provisional is set when the ranking was computed but not stored.
	Provisional bool `json:"provisional"`
}

// InTop reports whether the entry is part of Top.
func (s Standing) InTop() bool {
	return s.Rank >= 1 && s.Rank <= len(s.Top)
}

type Leaderboard struct {
	store   Store
	logger  logrus.FieldLogger
	topSize int
}

func New(store Store, logger logrus.FieldLogger, topSize int) *Leaderboard {
	if topSize <= 0 {
		topSize = DefaultTopSize
	}
	return &Leaderboard{
		store:   store,
		logger:  logger,
		topSize: topSize,
	}
}

func (l *Leaderboard) TopSize() int { return l.topSize }

// Record ranks a completion time against the stored list and stores the
// result. When storing fails the standing is still returned, marked
// provisional, together with the error.
func (l *Leaderboard) Record(
	ctx context.Context, difficulty string, elapsed time.Duration, at time.Time,
) (Standing, error) {
	if err := CheckName(difficulty); err != nil {
		return Standing{}, err
	}

	records, err := l.store.Load(ctx, difficulty)
	if err != nil {
		return Standing{}, fmt.Errorf("load leaderboard %s: %w", difficulty, err)
	}

	rank, records := Insert(records, NewRecord(elapsed, at))
	standing := Standing{
		Rank:    rank,
		Entry:   records[rank-1],
		Records: records,
		Top:     TopN(records, l.topSize),
	}

	log := l.logger.WithFields(logrus.Fields{
		"difficulty": difficulty,
		"rank":       rank,
		"elapsed":    FormatElapsed(standing.Entry.Elapsed),
	})

	if err := l.store.Persist(ctx, difficulty, records); err != nil {
		if !errors.Is(err, ErrPersistence) {
			err = fmt.Errorf("%w: %w", ErrPersistence, err)
		}
		standing.Provisional = true
		log.WithError(err).Error("leaderboard not saved")
		return standing, fmt.Errorf("persist leaderboard %s: %w", difficulty, err)
	}

	log.Debug("leaderboard updated")
	return standing, nil
}

// Top returns the n best records for difficulty.
func (l *Leaderboard) Top(ctx context.Context, difficulty string, n int) ([]Record, error) {
	if err := CheckName(difficulty); err != nil {
		return nil, err
	}
	records, err := l.store.Load(ctx, difficulty)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard %s: %w", difficulty, err)
	}
	return TopN(records, n), nil
}
