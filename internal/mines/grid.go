package mines

import (
	"fmt"
	"strconv"
	"strings"
)

type CellState int8

const (
	Unknown      CellState = -2
	Marked       CellState = -1
	Mine         CellState = 64
	ExplodedMine CellState = 65
	/*
	 * Each item of a [Grid] is one of the following values:
	 *
	 * 	- 0 to 8 mean the square is open and has a surrounding mine
	 * 	  count.
	 *
	 * 	- -1 means the square is flagged.
	 *
	 * 	- -2 means the square is still hidden.
	 *
	 * 	- 64 means the square had a mine revealed when the game was
	 * 	  lost.
	 *
	 * 	- 65 means the square had a mine revealed and this was the one
	 * 	  the player hit.
	 */
)

func (s CellState) String() string {
	switch {
	case s == Unknown:
		return "-"
	case s == Marked:
		return "F"
	case s == Mine:
		return "*"
	case s == ExplodedMine:
		return "X"
	case s == 0:
		return "."
	case 0 < s && s <= 8:
		return strconv.Itoa(int(s))
	default:
		return "!"
	}
}

// Grid is the player's view of a board, row-major.
type Grid []CellState

func (g Grid) ToString(width int) string {
	var b strings.Builder
	for y := range len(g) / width {
		for x := range width {
			i := y*width + x
			if x > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprint(&b, g[i].String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (c Cell) State(exploded bool) CellState {
	switch {
	case c.Status == Hidden:
		return Unknown
	case c.Status == Flagged:
		return Marked
	case c.Bomb && exploded:
		return ExplodedMine
	case c.Bomb:
		return Mine
	default:
		return CellState(c.Adjacent)
	}
}

func (b *Board) View() Grid {
	grid := make(Grid, len(b.cells))
	for i, c := range b.cells {
		grid[i] = c.State(b.exploded != nil && *b.exploded == c.Pos)
	}
	return grid
}

// Board implements [fmt.Stringer]
func (b *Board) String() string {
	return b.View().ToString(b.width)
}
