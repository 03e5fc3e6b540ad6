package game

import "github.com/vancomm/minesweeper-classic/internal/mines"

// Listener receives render updates from a [Controller]. Methods are called
// synchronously from the action that caused them.
type Listener interface {
	Started(d mines.Difficulty)
	CellChanged(c mines.Cell)
	Won(report WinReport)
	Lost(at mines.Position)
}

// NopListener ignores every event; embed it to implement only some methods.
type NopListener struct{}

func (NopListener) Started(mines.Difficulty) {}
func (NopListener) CellChanged(mines.Cell)   {}
func (NopListener) Won(WinReport)            {}
func (NopListener) Lost(mines.Position)      {}
