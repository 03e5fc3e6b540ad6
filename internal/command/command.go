// Package command parses and applies the line-oriented game commands shared
// by the terminal and websocket front ends.
package command

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/vancomm/minesweeper-classic/internal/game"
	"github.com/vancomm/minesweeper-classic/internal/mines"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrArgCount       = errors.New("invalid number of arguments")
	ErrBadArgument    = errors.New("invalid argument")
)

const (
	Get  = "g"
	Open = "o"
	Flag = "f"
	New  = "n"
	Quit = "q"
)

// Maps known commands to the minimum and maximum number of arguments
var commandNargs = map[string][2]int{
	Get:  {0, 0},
	Open: {2, 2},
	Flag: {2, 2},
	New:  {0, 1},
	Quit: {0, 0},
}

type Command struct {
	Name string
	Pos  mines.Position
	// Difficulty is the optional argument of New.
	Difficulty string
}

func (c Command) String() string {
	switch c.Name {
	case Open, Flag:
		return fmt.Sprintf("%s %d %d", c.Name, c.Pos.X, c.Pos.Y)
	case New:
		if c.Difficulty != "" {
			return c.Name + " " + c.Difficulty
		}
	}
	return c.Name
}

func parseXY(twoStrings []string) (p mines.Position, err error) {
	if p.X, err = strconv.Atoi(twoStrings[0]); err != nil {
		return p, fmt.Errorf("%w: x must be an int", ErrBadArgument)
	}
	if p.Y, err = strconv.Atoi(twoStrings[1]); err != nil {
		return p, fmt.Errorf("%w: y must be an int", ErrBadArgument)
	}
	return p, nil
}

func Parse(line string) (Command, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return Command{}, fmt.Errorf("%w: empty line", ErrUnknownCommand)
	}
	name := strings.ToLower(parts[0])
	nargs, ok := commandNargs[name]
	if !ok {
		return Command{}, fmt.Errorf("%w %q", ErrUnknownCommand, parts[0])
	}
	args := parts[1:]
	if len(args) < nargs[0] || len(args) > nargs[1] {
		return Command{}, fmt.Errorf("%w for %q: %d", ErrArgCount, name, len(args))
	}

	cmd := Command{Name: name}
	switch name {
	case Open, Flag:
		p, err := parseXY(args)
		if err != nil {
			return Command{}, err
		}
		cmd.Pos = p
	case New:
		if len(args) == 1 {
			d, ok := mines.LookupDifficulty(args[0])
			if !ok {
				return Command{}, fmt.Errorf("%w: difficulty %q", ErrBadArgument, args[0])
			}
			cmd.Difficulty = d.Name
		}
	}
	return cmd, nil
}

// Execute applies cmd to c. New restarts a finished game and starts another
// one with the requested difficulty, or the current one when none is given.
// Quit is left to the caller.
func Execute(ctx context.Context, c *game.Controller, cmd Command) (game.Outcome, error) {
	switch cmd.Name {
	case Get, Quit:
		return game.Continue, nil
	case Open:
		return c.Reveal(ctx, cmd.Pos)
	case Flag:
		return game.Continue, c.Flag(cmd.Pos)
	case New:
		d, err := nextDifficulty(c, cmd.Difficulty)
		if err != nil {
			return game.Continue, err
		}
		if s := c.State(); s == game.Won || s == game.Lost {
			if err := c.Restart(); err != nil {
				return game.Continue, err
			}
		}
		return game.Continue, c.Start(d)
	}
	return game.Continue, fmt.Errorf("%w %q", ErrUnknownCommand, cmd.Name)
}

func nextDifficulty(c *game.Controller, name string) (mines.Difficulty, error) {
	if name != "" {
		d, ok := mines.LookupDifficulty(name)
		if !ok {
			return d, fmt.Errorf("%w %q", mines.ErrInvalidDifficulty, name)
		}
		return d, nil
	}
	if d := c.Difficulty(); d.Name != "" {
		return d, nil
	}
	return mines.DefaultDifficulty, nil
}

func byPiece(s string, sep string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		i := 0
		found := true
		var piece string
		for found {
			piece, s, found = strings.Cut(s, sep)
			if !yield(i, piece) {
				return
			}
			i += 1
		}
	}
}

// Lines yields the non-blank lines of a command batch.
func Lines(s string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, line := range byPiece(s, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if !yield(line) {
				return
			}
		}
	}
}
