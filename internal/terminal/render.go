package terminal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vancomm/minesweeper-classic/internal/game"
	"github.com/vancomm/minesweeper-classic/internal/leaderboard"
	"github.com/vancomm/minesweeper-classic/internal/mines"
)

const dateLayout = "02/01/2006 15:04:05"

type styles struct {
	hidden   lipgloss.Style
	flag     lipgloss.Style
	bomb     lipgloss.Style
	exploded lipgloss.Style
	counts   [9]lipgloss.Style
	axis     lipgloss.Style
	title    lipgloss.Style
	win      lipgloss.Style
	lose     lipgloss.Style
	mark     lipgloss.Style
	note     lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}
	return styles{
		hidden:   fg("248"),
		flag:     fg("196").Bold(true),
		bomb:     fg("16").Bold(true),
		exploded: fg("15").Background(lipgloss.Color("9")).Bold(true),
		counts: [9]lipgloss.Style{
			r.NewStyle(),
			fg("21"),  // 1: blue
			fg("28"),  // 2: dark green
			fg("196"), // 3: red
			fg("18"),  // 4: dark blue
			fg("88"),  // 5: maroon
			fg("51"),  // 6: cyan
			fg("16"),  // 7: black
			fg("240"), // 8: dark gray
		},
		axis:  fg("243"),
		title: r.NewStyle().Bold(true),
		win:   fg("10").Bold(true),
		lose:  fg("9").Bold(true),
		mark:  r.NewStyle().Bold(true),
		note:  r.NewStyle().Italic(true),
	}
}

func (s styles) cell(c mines.CellState) string {
	glyph := fmt.Sprintf("%3s", c.String())
	switch {
	case c == mines.Unknown:
		return s.hidden.Render(glyph)
	case c == mines.Marked:
		return s.flag.Render(glyph)
	case c == mines.Mine:
		return s.bomb.Render(glyph)
	case c == mines.ExplodedMine:
		return s.exploded.Render(glyph)
	case c >= 0 && int(c) < len(s.counts):
		return s.counts[c].Render(glyph)
	default:
		return glyph
	}
}

// board draws the grid with x coordinates across the top and y down the
// left side.
func (s styles) board(b *mines.Board) string {
	var sb strings.Builder
	sb.WriteString("    ")
	for x := range b.Width() {
		sb.WriteString(s.axis.Render(fmt.Sprintf("%3d", x)))
	}
	sb.WriteByte('\n')

	grid := b.View()
	for y := range b.Height() {
		sb.WriteString(s.axis.Render(fmt.Sprintf("%3d ", y)))
		for x := range b.Width() {
			sb.WriteString(s.cell(grid[y*b.Width()+x]))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (s styles) status(c *game.Controller) string {
	b := c.Board()
	return s.title.Render(fmt.Sprintf(
		"%s  bombs: %d  flags: %d  time: %s",
		c.Difficulty().Name, b.BombCount(), b.FlagCount(),
		leaderboard.FormatElapsed(c.Elapsed()),
	))
}

func (s styles) record(r leaderboard.Record, current bool) string {
	line := fmt.Sprintf("%d: %s - %s",
		r.Rank, r.At.Local().Format(dateLayout), leaderboard.FormatElapsed(r.Elapsed))
	if current {
		return s.mark.Render("> " + line)
	}
	return "  " + line
}

// winDialog lists the top records with the new one marked, followed by the
// new record on its own when it did not make the top list.
func (s styles) winDialog(r game.WinReport) string {
	var sb strings.Builder
	sb.WriteString(s.win.Render("You Win!"))
	fmt.Fprintf(&sb, "\nYour time was %s\n", leaderboard.FormatElapsed(r.Elapsed))

	if r.Rank > 0 {
		sb.WriteByte('\n')
		for _, rec := range r.Top {
			sb.WriteString(s.record(rec, rec.Rank == r.Rank))
			sb.WriteByte('\n')
		}
		if !r.InTop() {
			sb.WriteString(s.record(r.Entry, true))
			sb.WriteByte('\n')
		}
	}

	switch {
	case r.Err != nil && r.Provisional && r.Rank > 0:
		sb.WriteString(s.note.Render("(the leaderboard could not be saved)"))
		sb.WriteByte('\n')
	case r.Err != nil:
		sb.WriteString(s.note.Render("(the leaderboard is unavailable)"))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (s styles) loseDialog() string {
	return s.lose.Render("BOOM! You Lost!") + "\n"
}
