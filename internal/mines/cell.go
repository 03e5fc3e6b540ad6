package mines

import "fmt"

type Position struct {
	X int `json:"x" schema:"x,required"`
	Y int `json:"y" schema:"y,required"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.X, p.Y)
}

type Status uint8

const (
	Hidden Status = iota
	Revealed
	Flagged
)

func (s Status) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Revealed:
		return "revealed"
	case Flagged:
		return "flagged"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// Cell is a single board position. Bomb is fixed when the board is built;
// Adjacent is only meaningful once the cell has been revealed.
type Cell struct {
	Pos      Position
	Bomb     bool
	Status   Status
	Adjacent int
}
