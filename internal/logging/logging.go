package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"

	"github.com/vancomm/minesweeper-classic/internal/config"
)

type Options struct {
	Development bool
	// File, if set, receives a JSON copy of every entry and is rotated
	// once it grows past MaxSizeMB.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	// Quiet raises the console level to warnings, for interactive front
	// ends that own the terminal.
	Quiet bool
	Out   io.Writer
}

func OptionsFrom(cfg *config.Config) Options {
	return Options{
		Development: cfg.Development,
		File:        cfg.LogFile,
		MaxSizeMB:   5,
		MaxBackups:  3,
		MaxAgeDays:  28,
	}
}

func New(opts Options) (*logrus.Logger, error) {
	log := logrus.New()

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	log.SetOutput(out)

	level := logrus.InfoLevel
	if opts.Development {
		level = logrus.DebugLevel
		log.SetFormatter(&logrus.TextFormatter{ForceColors: true, FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	if opts.Quiet && !opts.Development {
		level = logrus.WarnLevel
	}
	log.SetLevel(level)

	if opts.File != "" {
		hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Level:      logrus.DebugLevel,
			Formatter:  &logrus.JSONFormatter{},
		})
		if err != nil {
			return nil, fmt.Errorf("unable to open log file %s: %w", opts.File, err)
		}
		log.AddHook(hook)
	}

	return log, nil
}
