package terminal

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-classic/internal/game"
	"github.com/vancomm/minesweeper-classic/internal/leaderboard"
	"github.com/vancomm/minesweeper-classic/internal/mines"
)

// leftBomb puts a bomb in the first cell of every row and nowhere else.
type leftBomb struct {
	width int
	i     int
}

func (l *leftBomb) IntN(int) int {
	first := l.i%l.width == 0
	l.i++
	if first {
		return 0
	}
	return 99
}

var strip = mines.Difficulty{Name: "Strip", Width: 3, Height: 1, MineChance: 50}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func play(t *testing.T, input string, opts ...game.Option) (string, *Terminal) {
	t.Helper()
	var out bytes.Buffer
	opts = append([]game.Option{game.WithRand(&leftBomb{width: strip.Width})}, opts...)
	term := New(strings.NewReader(input), &out, quietLogger(), opts...)
	require.NoError(t, term.Play(context.Background(), strip))
	return out.String(), term
}

func TestPlayWin(t *testing.T) {
	store, err := leaderboard.NewFileStore(t.TempDir())
	require.NoError(t, err)
	scores := leaderboard.New(store, quietLogger(), 10)

	out, term := play(t, "o 2 0\nn\n", game.WithRecorder(scores))
	assert.Contains(t, out, "You Win!")
	assert.Contains(t, out, "Your time was ")
	assert.Contains(t, out, "> 1: ")
	assert.Contains(t, out, "Play again?")
	assert.Equal(t, game.Won, term.Controller().State())

	top, err := scores.Top(context.Background(), "Strip", 10)
	require.NoError(t, err)
	assert.Len(t, top, 1)
}

func TestPlayLoseThenAgain(t *testing.T) {
	out, term := play(t, "o 0 0\nmaybe\ny\nq\n")
	assert.Contains(t, out, "BOOM! You Lost!")
	assert.Equal(t, 2, strings.Count(out, "Play again?"), "unclear answers ask again")
	assert.Equal(t, game.Playing, term.Controller().State())
	assert.Equal(t, strip, term.Controller().Difficulty(), "yes keeps the difficulty")
}

func TestPlayAgainSwitchesDifficulty(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  mines.Difficulty
	}{
		{"name", "o 0 0\neasy\nq\n", mines.Easy},
		{"new command", "n easy\no 0 0\nn hard\nq\n", mines.Hard},
		{"mixed case", "o 0 0\nMedium\nq\n", mines.Medium},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			out, term := play(t, test.input)
			assert.Contains(t, out, "BOOM! You Lost!")
			assert.Equal(t, game.Playing, term.Controller().State())
			assert.Equal(t, test.want, term.Controller().Difficulty())
			assert.Equal(t, test.want.Width, term.Controller().Board().Width())
		})
	}
}

func TestNewMidGameWaitsForTheEnd(t *testing.T) {
	out, term := play(t, "n easy\nq\n")
	assert.Contains(t, out, "finish the current game first")
	assert.Equal(t, strip, term.Controller().Difficulty())
}

func TestPlayReportsBadCommands(t *testing.T) {
	out, term := play(t, "x\no 9 0\nn\n\no 1\nq\n")
	assert.Contains(t, out, "unknown command")
	assert.Contains(t, out, "position out of bounds")
	assert.Contains(t, out, "finish the current game first")
	assert.Contains(t, out, "invalid number of arguments")
	assert.Equal(t, game.Playing, term.Controller().State())
}

func TestPlayStopsAtEndOfInput(t *testing.T) {
	_, term := play(t, "f 0 0\n")
	assert.Equal(t, game.Playing, term.Controller().State())
	assert.Equal(t, 1, term.Controller().Board().FlagCount())
}

func TestBoardRendering(t *testing.T) {
	s := newStyles(lipgloss.NewRenderer(io.Discard))
	b, err := mines.NewBoardFromBombs(3, 2, []mines.Position{{X: 0, Y: 0}})
	require.NoError(t, err)
	_, err = b.Flag(mines.Position{X: 0, Y: 0})
	require.NoError(t, err)
	_, err = b.Reveal(mines.Position{X: 2, Y: 1})
	require.NoError(t, err)

	want := "" +
		"      0  1  2\n" +
		"  0   F  1  .\n" +
		"  1   -  1  .\n"
	assert.Equal(t, want, s.board(b))
}

func records(n int) []leaderboard.Record {
	var list []leaderboard.Record
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := range n {
		_, list = leaderboard.Insert(list, leaderboard.NewRecord(time.Duration(i+1)*time.Second, at))
	}
	return list
}

func TestWinDialogOutsideTop(t *testing.T) {
	s := newStyles(lipgloss.NewRenderer(io.Discard))
	list := records(12)
	report := game.WinReport{
		Elapsed: 12 * time.Second,
		Standing: leaderboard.Standing{
			Rank:    12,
			Entry:   list[11],
			Records: list,
			Top:     leaderboard.TopN(list, 10),
		},
	}

	lines := strings.Split(strings.TrimSpace(s.winDialog(report)), "\n")
	assert.Equal(t, "You Win!", lines[0])
	assert.Equal(t, "Your time was 00:00:12.00", lines[1])
	require.Len(t, lines, 2+1+10+1)
	assert.True(t, strings.HasPrefix(lines[3], "  1: "))
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "> 12: "))
	assert.True(t, strings.HasSuffix(lines[len(lines)-1], " - 00:00:12.00"))
	for _, l := range lines[3:13] {
		assert.False(t, strings.HasPrefix(l, ">"))
	}
}

func TestWinDialogNotes(t *testing.T) {
	s := newStyles(lipgloss.NewRenderer(io.Discard))
	list := records(1)

	provisional := game.WinReport{
		Standing: leaderboard.Standing{Rank: 1, Entry: list[0], Top: list, Provisional: true},
		Err:      leaderboard.ErrPersistence,
	}
	assert.Contains(t, s.winDialog(provisional), "could not be saved")
	assert.Contains(t, s.winDialog(provisional), "> 1: ")

	unavailable := game.WinReport{Err: leaderboard.ErrCorrupt, Standing: leaderboard.Standing{Provisional: true}}
	dialog := s.winDialog(unavailable)
	assert.Contains(t, dialog, "unavailable")
	assert.NotContains(t, dialog, ">")
}
