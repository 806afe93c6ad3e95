package main

import (
	"io"
	"os"
	"time"

	"github.com/alnah/go-mdsite/internal/logging"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time and logger construction.
type Environment struct {
	Now       func() time.Time
	Stdout    io.Writer
	Stderr    io.Writer
	NewLogger func(logging.Config) (logging.Logger, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:       time.Now,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		NewLogger: logging.New,
	}
}
