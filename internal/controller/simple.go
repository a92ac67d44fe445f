package controller

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "schemacov.dev/pkg/schemacov/internal/model"
)

var (
	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF5555"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#50FA7B"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8BE9FD"))
)

// SimpleUI implements UI using cobra Command's output writer.
type SimpleUI struct {
	cmd    *cobra.Command
	styled bool
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command, styled bool) *SimpleUI {
	return &SimpleUI{cmd: cmd, styled: styled}
}

// DisplayBuildResults prints one row per built file and the failures below.
func (s *SimpleUI) DisplayBuildResults(ctx context.Context, results []m.BuildResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sorted := append([]m.BuildResult(nil), results...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	s.printf("\n%s", renderBuildTable(sorted))

	failed := 0

	for _, r := range sorted {
		if r.Err == nil {
			continue
		}

		failed++

		s.printf("%s %s: %v\n", s.style(errorStyle, "error"), relPath(r.Path), r.Err)
	}

	if failed == 0 {
		s.printf("%s\n", s.style(successStyle, fmt.Sprintf("built %d coverage map(s)", len(sorted))))
	}

	return nil
}

func renderBuildTable(results []m.BuildResult) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Statements", "Functions", "Branches"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
	})

	var statements, functions, branches int

	for _, r := range results {
		if r.Err != nil {
			table.Append([]string{relPath(r.Path), "-", "-", "-"})
			continue
		}

		table.Append([]string{
			relPath(r.Path),
			fmt.Sprintf("%d", r.Statements),
			fmt.Sprintf("%d", r.Functions),
			fmt.Sprintf("%d", r.Branches),
		})

		statements += r.Statements
		functions += r.Functions
		branches += r.Branches
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(results)),
		fmt.Sprintf("%d", statements),
		fmt.Sprintf("%d", functions),
		fmt.Sprintf("%d", branches),
	})

	table.Render()

	return tableBuffer.String()
}

// DisplayCoverage prints covered/total counts per file of cm.
func (s *SimpleUI) DisplayCoverage(ctx context.Context, cm m.CoverageMap) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(cm) == 0 {
		s.printf("%s\n", s.style(infoStyle, "no coverage maps found"))
		return nil
	}

	s.printf("\n%s", renderCoverageTable(cm))

	return nil
}

func renderCoverageTable(cm m.CoverageMap) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Statements", "Functions", "Branches"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
	})

	var total m.CoverageSummary

	for _, path := range cm.Paths() {
		sum := cm[path].Summary()
		total.Add(sum)

		table.Append([]string{
			relPath(path),
			formatCounter(sum.Statements),
			formatCounter(sum.Functions),
			formatCounter(sum.Branches),
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(cm)),
		formatCounter(total.Statements),
		formatCounter(total.Functions),
		formatCounter(total.Branches),
	})

	table.Render()

	return tableBuffer.String()
}

func formatCounter(c m.Counter) string {
	return fmt.Sprintf("%d/%d (%.1f%%)", c.Covered, c.Total, c.Percent())
}

// DisplayWatchEvent reports a rebuild triggered by a file change.
func (s *SimpleUI) DisplayWatchEvent(ctx context.Context, path m.Path, err error) {
	if ctx.Err() != nil {
		return
	}

	if err != nil {
		s.printf("%s %s: %v\n", s.style(errorStyle, "rebuild failed"), relPath(path), err)
		return
	}

	s.printf("%s %s\n", s.style(successStyle, "rebuilt"), relPath(path))
}

// DisplayMessage prints an informational line.
func (s *SimpleUI) DisplayMessage(ctx context.Context, format string, args ...any) {
	if ctx.Err() != nil {
		return
	}

	s.printf("%s\n", s.style(infoStyle, fmt.Sprintf(format, args...)))
}

func (s *SimpleUI) style(style lipgloss.Style, text string) string {
	if !s.styled {
		return text
	}

	return style.Render(text)
}

func (s *SimpleUI) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

// relPath shortens path relative to the working directory when possible.
func relPath(path m.Path) string {
	if !filepath.IsAbs(string(path)) {
		return string(path)
	}

	wd, err := filepath.Abs(".")
	if err != nil {
		return string(path)
	}

	rel, err := filepath.Rel(wd, string(path))
	if err != nil || filepath.IsAbs(rel) || len(rel) > 1 && rel[:2] == ".." {
		return string(path)
	}

	return rel
}
