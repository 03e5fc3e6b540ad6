// Package terminal plays minesweeper over a line-oriented text stream.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-classic/internal/command"
	"github.com/vancomm/minesweeper-classic/internal/game"
	"github.com/vancomm/minesweeper-classic/internal/mines"
)

const (
	help        = "commands: o x y (open), f x y (flag), g (redraw), q (quit)"
	againPrompt = "Play again? [y/n/easy/medium/hard] "
)

type Terminal struct {
	game.NopListener

	in     *bufio.Scanner
	out    io.Writer
	styles styles
	ctrl   *game.Controller
	report *game.WinReport
}

// New builds a terminal reading commands from in and drawing to out. opts
// configure the underlying controller; the terminal installs itself as its
// listener.
func New(in io.Reader, out io.Writer, logger logrus.FieldLogger, opts ...game.Option) *Terminal {
	t := &Terminal{
		in:     bufio.NewScanner(in),
		out:    out,
		styles: newStyles(lipgloss.NewRenderer(out)),
	}
	opts = append(opts, game.WithLogger(logger), game.WithListener(t))
	t.ctrl = game.New(opts...)
	return t
}

func (t *Terminal) Started(mines.Difficulty) { t.report = nil }
func (t *Terminal) Won(r game.WinReport)     { t.report = &r }

func (t *Terminal) Controller() *game.Controller { return t.ctrl }

func (t *Terminal) printf(format string, args ...any) {
	fmt.Fprintf(t.out, format, args...)
}

func (t *Terminal) draw() {
	t.printf("%s\n%s", t.styles.status(t.ctrl), t.styles.board(t.ctrl.Board()))
}

func (t *Terminal) readLine(prompt string) (string, bool) {
	t.printf("%s", prompt)
	if !t.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(t.in.Text()), true
}

// playAgain asks until it gets an answer and returns the difficulty of the
// next game. A difficulty name, alone or as "n <difficulty>", switches to
// that profile; a yes keeps the current one. End of input counts as no.
func (t *Terminal) playAgain() (mines.Difficulty, bool) {
	for {
		line, ok := t.readLine(againPrompt)
		if !ok {
			return mines.Difficulty{}, false
		}
		switch strings.ToLower(line) {
		case "y", "yes":
			return t.ctrl.Difficulty(), true
		case "n", "no":
			return mines.Difficulty{}, false
		}
		if d, ok := mines.LookupDifficulty(line); ok {
			return d, true
		}
		if cmd, err := command.Parse(line); err == nil && cmd.Name == command.New && cmd.Difficulty != "" {
			if d, ok := mines.LookupDifficulty(cmd.Difficulty); ok {
				return d, true
			}
		}
	}
}

// Play runs games starting at difficulty d until the player quits,
// declines another game or input ends.
func (t *Terminal) Play(ctx context.Context, d mines.Difficulty) error {
	if err := t.ctrl.Start(d); err != nil {
		return err
	}
	t.printf("%s\n", help)
	t.draw()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, ok := t.readLine("> ")
		if !ok {
			return t.in.Err()
		}
		if line == "" {
			continue
		}

		cmd, err := command.Parse(line)
		if err != nil {
			t.printf("%s\n%s\n", err, help)
			continue
		}
		if cmd.Name == command.Quit {
			return nil
		}

		out, err := command.Execute(ctx, t.ctrl, cmd)
		switch {
		case errors.Is(err, game.ErrInvalidTransition):
			t.printf("finish the current game first; pick a difficulty when it ends\n")
			continue
		case err != nil:
			t.printf("%s\n", err)
			continue
		}

		t.draw()
		switch out {
		case game.Victory:
			t.printf("%s", t.styles.winDialog(*t.report))
		case game.Defeat:
			t.printf("%s", t.styles.loseDialog())
		default:
			continue
		}

		next, again := t.playAgain()
		if !again {
			return nil
		}
		if err := t.ctrl.Restart(); err != nil {
			return err
		}
		if err := t.ctrl.Start(next); err != nil {
			return err
		}
		t.draw()
	}
}
