package mines

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidDifficulty = errors.New("invalid difficulty")

// Difficulty is a named board size and bomb density. MineChance is the
// percent chance, sampled independently for every cell, that the cell holds
// a bomb.
type Difficulty struct {
	Name       string `json:"name"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	MineChance int    `json:"mine_chance"`
}

var (
	Easy   = Difficulty{Name: "Easy", Width: 10, Height: 10, MineChance: 5}
	Medium = Difficulty{Name: "Medium", Width: 20, Height: 30, MineChance: 10}
	Hard   = Difficulty{Name: "Hard", Width: 50, Height: 70, MineChance: 15}
)

var DefaultDifficulty = Medium

func Difficulties() []Difficulty {
	return []Difficulty{Easy, Medium, Hard}
}

func LookupDifficulty(name string) (Difficulty, bool) {
	for _, d := range Difficulties() {
		if strings.EqualFold(d.Name, strings.TrimSpace(name)) {
			return d, true
		}
	}
	return Difficulty{}, false
}

func (d Difficulty) Validate() error {
	switch {
	case d.Name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidDifficulty)
	case d.Width <= 0:
		return fmt.Errorf("%w: width %d", ErrInvalidDifficulty, d.Width)
	case d.Height <= 0:
		return fmt.Errorf("%w: height %d", ErrInvalidDifficulty, d.Height)
	case d.MineChance < 0 || d.MineChance > 100:
		return fmt.Errorf("%w: mine chance %d%%", ErrInvalidDifficulty, d.MineChance)
	}
	return nil
}

func (d Difficulty) String() string {
	return fmt.Sprintf("%s (%dx%d, %d%%)", d.Name, d.Width, d.Height, d.MineChance)
}
