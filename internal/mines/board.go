package mines

import (
	"errors"
	"fmt"
	"iter"
)

var ErrOutOfBounds = errors.New("position out of bounds")

// RandomSource is satisfied by *rand.Rand from math/rand/v2.
type RandomSource interface {
	IntN(n int) int
}

type Board struct {
	width, height int
	cells         []Cell
	exploded      *Position
}

type RevealResult struct {
	Lost     bool
	Complete bool
	// Changed lists every cell whose status changed, in visitation order.
	Changed []Position
}

// NewBoard allocates a board for d and samples every cell independently:
// a cell is a bomb iff a draw from [1, 100] is <= d.MineChance. Cells are
// sampled row by row.
func NewBoard(d Difficulty, r RandomSource) (*Board, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	b := newEmptyBoard(d.Width, d.Height)
	for i := range b.cells {
		b.cells[i].Bomb = r.IntN(100)+1 <= d.MineChance
	}
	return b, nil
}

// NewBoardFromBombs builds a board with bombs exactly at the given positions.
func NewBoardFromBombs(width, height int, bombs []Position) (*Board, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d board", ErrInvalidDifficulty, width, height)
	}
	b := newEmptyBoard(width, height)
	for _, p := range bombs {
		if !b.InBounds(p) {
			return nil, fmt.Errorf("bomb at %s: %w", p, ErrOutOfBounds)
		}
		b.cells[b.index(p)].Bomb = true
	}
	return b, nil
}

func newEmptyBoard(width, height int) *Board {
	b := &Board{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
	}
	for y := range height {
		for x := range width {
			b.cells[y*width+x].Pos = Position{x, y}
		}
	}
	return b
}

func (b *Board) Width() int  { return b.width }
func (b *Board) Height() int { return b.height }

func (b *Board) InBounds(p Position) bool {
	return 0 <= p.X && p.X < b.width && 0 <= p.Y && p.Y < b.height
}

func (b *Board) index(p Position) int {
	return p.Y*b.width + p.X
}

func (b *Board) Cell(p Position) (Cell, error) {
	if !b.InBounds(p) {
		return Cell{}, fmt.Errorf("cell %s: %w", p, ErrOutOfBounds)
	}
	return b.cells[b.index(p)], nil
}

// Exploded returns the bomb the player clicked, if any.
func (b *Board) Exploded() (Position, bool) {
	if b.exploded == nil {
		return Position{}, false
	}
	return *b.exploded, true
}

func (b *Board) BombCount() (n int) {
	for _, c := range b.cells {
		if c.Bomb {
			n++
		}
	}
	return n
}

func (b *Board) FlagCount() (n int) {
	for _, c := range b.cells {
		if c.Status == Flagged {
			n++
		}
	}
	return n
}

// neighbours yields the in-bounds neighbours of p. Each edge is checked on
// its own; a diagonal requires both of its orthogonal checks.
func (b *Board) neighbours(p Position) iter.Seq[Position] {
	return func(yield func(Position) bool) {
		l := p.X > 0
		t := p.Y > 0
		r := p.X < b.width-1
		d := p.Y < b.height-1

		candidates := [...]struct {
			ok bool
			p  Position
		}{
			{l, Position{p.X - 1, p.Y}},
			{t, Position{p.X, p.Y - 1}},
			{r, Position{p.X + 1, p.Y}},
			{d, Position{p.X, p.Y + 1}},
			{l && t, Position{p.X - 1, p.Y - 1}},
			{t && r, Position{p.X + 1, p.Y - 1}},
			{r && d, Position{p.X + 1, p.Y + 1}},
			{d && l, Position{p.X - 1, p.Y + 1}},
		}
		for _, c := range candidates {
			if c.ok && !yield(c.p) {
				return
			}
		}
	}
}

func (b *Board) countAdjacent(p Position) int {
	n := 0
	for q := range b.neighbours(p) {
		if b.cells[b.index(q)].Bomb {
			n++
		}
	}
	return n
}

// Reveal opens p as a direct player click. Revealed and flagged cells are
// left alone. A bomb ends the game; a safe cell with no adjacent bombs
// opens its neighbours, and so on, using a work list so that every
// position is processed at most once.
func (b *Board) Reveal(p Position) (RevealResult, error) {
	var res RevealResult
	if !b.InBounds(p) {
		return res, fmt.Errorf("reveal %s: %w", p, ErrOutOfBounds)
	}

	c := &b.cells[b.index(p)]
	if c.Status != Hidden {
		res.Complete = b.IsComplete()
		return res, nil
	}

	if c.Bomb {
		c.Status = Revealed
		exploded := p
		b.exploded = &exploded
		res.Lost = true
		res.Changed = append(res.Changed, p)
		return res, nil
	}

	queued := make([]bool, len(b.cells))
	queued[b.index(p)] = true
	todo := []Position{p}

	for len(todo) > 0 {
		q := todo[len(todo)-1]
		todo = todo[:len(todo)-1]

		cell := &b.cells[b.index(q)]
		if cell.Status != Hidden {
			continue
		}
		cell.Status = Revealed
		res.Changed = append(res.Changed, q)

		cell.Adjacent = b.countAdjacent(q)
		if cell.Adjacent != 0 {
			continue
		}
		for n := range b.neighbours(q) {
			i := b.index(n)
			if queued[i] || b.cells[i].Status != Hidden {
				continue
			}
			queued[i] = true
			todo = append(todo, n)
		}
	}

	res.Complete = b.IsComplete()
	return res, nil
}

// Flag toggles a hidden cell to flagged and back. Revealed cells are not
// affected.
func (b *Board) Flag(p Position) (changed bool, err error) {
	if !b.InBounds(p) {
		return false, fmt.Errorf("flag %s: %w", p, ErrOutOfBounds)
	}
	c := &b.cells[b.index(p)]
	switch c.Status {
	case Hidden:
		c.Status = Flagged
	case Flagged:
		c.Status = Hidden
	default:
		return false, nil
	}
	return true, nil
}

// IsComplete reports whether every non-bomb cell is revealed. Bombs never
// need to be flagged or revealed.
func (b *Board) IsComplete() bool {
	for _, c := range b.cells {
		if !c.Bomb && c.Status != Revealed {
			return false
		}
	}
	return true
}

// RevealAllBombsExcept shows every bomb other than except, whatever its
// status, and returns the positions it changed.
func (b *Board) RevealAllBombsExcept(except Position) []Position {
	var changed []Position
	for i := range b.cells {
		c := &b.cells[i]
		if !c.Bomb || c.Pos == except || c.Status == Revealed {
			continue
		}
		c.Status = Revealed
		changed = append(changed, c.Pos)
	}
	return changed
}
