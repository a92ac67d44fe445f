// Package controller provides output adapters for displaying coverage maps.
package controller

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	m "schemacov.dev/pkg/schemacov/internal/model"
)

// UI defines the interface for reporting build and coverage results.
// Implementations can use different output methods (plain text, styled text).
type UI interface {
	DisplayBuildResults(ctx context.Context, results []m.BuildResult) error
	DisplayCoverage(ctx context.Context, cm m.CoverageMap) error
	DisplayWatchEvent(ctx context.Context, path m.Path, err error)
	DisplayMessage(ctx context.Context, format string, args ...any)
}

// IsTTY reports whether f is an interactive terminal.
func IsTTY(f *os.File) bool {
	if f == nil {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewUI returns the UI writing to cmd. Status lines are colored when styled
// is set.
func NewUI(cmd *cobra.Command, styled bool) UI {
	return NewSimpleUI(cmd, styled)
}
