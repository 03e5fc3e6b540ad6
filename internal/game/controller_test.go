package game

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-classic/internal/leaderboard"
	"github.com/vancomm/minesweeper-classic/internal/mines"
)

// layout turns a row-major bomb map into samples for [mines.NewBoard] with
// a 50% chance: 1 always places a bomb and 100 never does.
type layout struct {
	bombs []bool
	i     int
}

func (l *layout) IntN(int) int {
	bomb := l.bombs[l.i%len(l.bombs)]
	l.i++
	if bomb {
		return 0
	}
	return 99
}

type clock struct{ t time.Time }

func newClock() *clock {
	return &clock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func half(name string, w, h int) mines.Difficulty {
	return mines.Difficulty{Name: name, Width: w, Height: h, MineChance: 50}
}

type recorder struct {
	calls []time.Duration
	err   error
}

func (r *recorder) Record(
	_ context.Context, difficulty string, elapsed time.Duration, at time.Time,
) (leaderboard.Standing, error) {
	r.calls = append(r.calls, elapsed)
	entry := leaderboard.NewRecord(elapsed, at)
	entry.Rank = len(r.calls)
	return leaderboard.Standing{
		Rank:  entry.Rank,
		Entry: entry,
		Top:   []leaderboard.Record{entry},
	}, r.err
}

type events struct {
	started []mines.Difficulty
	changed []mines.Position
	won     []WinReport
	lost    []mines.Position
}

func (e *events) Started(d mines.Difficulty) { e.started = append(e.started, d) }
func (e *events) CellChanged(c mines.Cell)   { e.changed = append(e.changed, c.Pos) }
func (e *events) Won(r WinReport)            { e.won = append(e.won, r) }
func (e *events) Lost(p mines.Position)      { e.lost = append(e.lost, p) }

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func setup(t *testing.T, bombs ...bool) (*Controller, *clock, *recorder, *events) {
	t.Helper()
	clk := newClock()
	rec := &recorder{}
	ev := &events{}
	c := New(
		WithRand(&layout{bombs: bombs}),
		WithClock(clk.now),
		WithLogger(quietLogger()),
		WithRecorder(rec),
		WithListener(ev),
	)
	return c, clk, rec, ev
}

func TestStartBuildsBoard(t *testing.T) {
	c, _, _, ev := setup(t, true, false, false, false)
	assert.Equal(t, Setup, c.State())
	assert.Nil(t, c.Board())

	d := half("t", 2, 2)
	require.NoError(t, c.Start(d))
	assert.Equal(t, Playing, c.State())
	assert.Equal(t, d, c.Difficulty())
	assert.Equal(t, 1, c.Board().BombCount())
	assert.Equal(t, []mines.Difficulty{d}, ev.started)

	err := c.Start(d)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestStartRejectsInvalidDifficulty(t *testing.T) {
	c, _, _, _ := setup(t, false)
	err := c.Start(mines.Difficulty{Name: "bad", Width: 0, Height: 3, MineChance: 10})
	assert.ErrorIs(t, err, mines.ErrInvalidDifficulty)
	assert.Equal(t, Setup, c.State())
}

func TestSingleSafeCellWins(t *testing.T) {
	c, clk, rec, ev := setup(t, false)
	require.NoError(t, c.Start(half("one", 1, 1)))

	clk.advance(1500 * time.Millisecond)
	out, err := c.Reveal(context.Background(), mines.Position{})
	require.NoError(t, err)
	assert.Equal(t, Victory, out)
	assert.Equal(t, Won, c.State())

	require.Len(t, ev.won, 1)
	report := ev.won[0]
	assert.Equal(t, 1500*time.Millisecond, report.Elapsed)
	assert.Equal(t, "one", report.Difficulty.Name)
	assert.Equal(t, 1, report.Rank)
	assert.NoError(t, report.Err)
	assert.False(t, report.Provisional)
	assert.Equal(t, []time.Duration{1500 * time.Millisecond}, rec.calls)
	assert.Equal(t, []mines.Position{{}}, ev.changed)

	clk.advance(time.Hour)
	assert.Equal(t, 1500*time.Millisecond, c.Elapsed(), "clock stops at the win")
}

func TestBombLosesAndRevealsOtherBombs(t *testing.T) {
	// 3x1: bomb, safe, bomb
	c, clk, rec, ev := setup(t, true, false, true)
	require.NoError(t, c.Start(half("t", 3, 1)))

	clk.advance(time.Second)
	out, err := c.Reveal(context.Background(), mines.Position{X: 1})
	require.NoError(t, err)
	assert.Equal(t, Continue, out)

	clk.advance(time.Second)
	out, err = c.Reveal(context.Background(), mines.Position{X: 2})
	require.NoError(t, err)
	assert.Equal(t, Defeat, out)
	assert.Equal(t, Lost, c.State())
	assert.Equal(t, []mines.Position{{X: 2}}, ev.lost)
	assert.Empty(t, ev.won)
	assert.Empty(t, rec.calls)

	assert.ElementsMatch(t,
		[]mines.Position{{X: 1}, {X: 2}, {X: 0}},
		ev.changed,
	)
	exploded, ok := c.Board().Exploded()
	require.True(t, ok)
	assert.Equal(t, mines.Position{X: 2}, exploded)

	clk.advance(time.Minute)
	assert.Equal(t, 2*time.Second, c.Elapsed())

	_, err = c.Reveal(context.Background(), mines.Position{X: 0})
	assert.ErrorIs(t, err, ErrNotPlaying)
	assert.ErrorIs(t, c.Flag(mines.Position{X: 0}), ErrNotPlaying)
}

func TestActionsBeforeStart(t *testing.T) {
	c, _, _, _ := setup(t, false)
	_, err := c.Reveal(context.Background(), mines.Position{})
	assert.ErrorIs(t, err, ErrNotPlaying)
	assert.ErrorIs(t, c.Flag(mines.Position{}), ErrNotPlaying)
	assert.ErrorIs(t, c.Restart(), ErrInvalidTransition)
	assert.Equal(t, time.Duration(0), c.Elapsed())
}

func TestFlagDoesNotComplete(t *testing.T) {
	// 2x1: bomb, safe
	c, _, _, ev := setup(t, true, false)
	require.NoError(t, c.Start(half("t", 2, 1)))

	require.NoError(t, c.Flag(mines.Position{X: 0}))
	assert.Equal(t, Playing, c.State())
	assert.Equal(t, []mines.Position{{X: 0}}, ev.changed)

	out, err := c.Reveal(context.Background(), mines.Position{X: 0})
	require.NoError(t, err)
	assert.Equal(t, Continue, out, "flagged cells cannot be revealed")

	out, err = c.Reveal(context.Background(), mines.Position{X: 1})
	require.NoError(t, err)
	assert.Equal(t, Victory, out)
}

func TestRevealOutOfBounds(t *testing.T) {
	c, _, _, _ := setup(t, false)
	require.NoError(t, c.Start(half("t", 2, 2)))

	_, err := c.Reveal(context.Background(), mines.Position{X: 2, Y: 0})
	assert.ErrorIs(t, err, mines.ErrOutOfBounds)
	assert.ErrorIs(t, c.Flag(mines.Position{X: -1}), mines.ErrOutOfBounds)
	assert.Equal(t, Playing, c.State())
}

func TestRecorderFailureIsProvisional(t *testing.T) {
	c, _, rec, ev := setup(t, false)
	rec.err = errors.New("disk full")
	require.NoError(t, c.Start(half("t", 1, 1)))

	out, err := c.Reveal(context.Background(), mines.Position{})
	require.NoError(t, err, "the win stands even when the time is not saved")
	assert.Equal(t, Victory, out)

	require.Len(t, ev.won, 1)
	assert.Error(t, ev.won[0].Err)
	assert.True(t, ev.won[0].Provisional)
	assert.Equal(t, 1, ev.won[0].Rank)
}

func TestWinWithoutRecorder(t *testing.T) {
	ev := &events{}
	c := New(
		WithRand(&layout{bombs: []bool{false}}),
		WithLogger(quietLogger()),
		WithListener(ev),
	)
	require.NoError(t, c.Start(half("t", 1, 1)))
	out, err := c.Reveal(context.Background(), mines.Position{})
	require.NoError(t, err)
	assert.Equal(t, Victory, out)
	require.Len(t, ev.won, 1)
	assert.Equal(t, 0, ev.won[0].Rank)
}

func TestRestart(t *testing.T) {
	c, clk, _, ev := setup(t, false)
	require.NoError(t, c.Start(half("t", 1, 1)))
	_, err := c.Reveal(context.Background(), mines.Position{})
	require.NoError(t, err)

	require.NoError(t, c.Restart())
	assert.Equal(t, Setup, c.State())
	assert.Nil(t, c.Board())
	assert.Equal(t, time.Duration(0), c.Elapsed())

	require.NoError(t, c.Start(half("again", 1, 1)))
	clk.advance(3 * time.Second)
	assert.Equal(t, 3*time.Second, c.Elapsed())
	assert.Len(t, ev.started, 2)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "playing", Playing.String())
	assert.Equal(t, "State(9)", State(9).String())
}
