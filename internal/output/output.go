// Package output renders evaluation results for the terminal and for
// markdown export. It is a read-only consumer of eval.Result.
package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"mozart/internal/criteria"
	"mozart/internal/eval"
	"mozart/internal/review"
)

// UI provides colored terminal output.
type UI struct {
	Verbose bool
	Out     io.Writer
	ErrOut  io.Writer
}

// New creates a UI with default stdout/stderr writers.
func New() *UI {
	return &UI{
		Out:    os.Stdout,
		ErrOut: os.Stderr,
	}
}

var (
	infoPrefix    = color.New(color.FgHiBlue).Sprint("i")
	successPrefix = color.New(color.FgHiGreen).Sprint("✓")
	warningPrefix = color.New(color.FgHiYellow).Sprint("⚠")
	errorPrefix   = color.New(color.FgHiRed).Sprint("✗")
	verbosePrefix = color.New(color.FgHiBlue).Sprint("  →")
	cyan          = color.New(color.FgHiCyan).SprintFunc()
	green         = color.New(color.FgHiGreen).SprintFunc()
	yellow        = color.New(color.FgHiYellow).SprintFunc()
	red           = color.New(color.FgHiRed).SprintFunc()
)

// Cyan returns a cyan-colored string.
func Cyan(s string) string { return cyan(s) }

// Green returns a green-colored string.
func Green(s string) string { return green(s) }

// GradeColor returns the grade colored by its meaning.
func GradeColor(g review.Grade) string {
	switch g {
	case review.GradeApprove:
		return green(string(g))
	case review.GradeRevise:
		return yellow(string(g))
	default:
		return string(g)
	}
}

// ScoreColor colors a 0-10 score by band.
func ScoreColor(score float64) string {
	s := fmt.Sprintf("%.1f", score)
	switch {
	case score >= 7:
		return green(s)
	case score >= 4:
		return yellow(s)
	default:
		return red(s)
	}
}

func (u *UI) Info(format string, a ...any) {
	fmt.Fprintf(u.Out, "%s %s\n", infoPrefix, fmt.Sprintf(format, a...))
}

func (u *UI) Success(format string, a ...any) {
	fmt.Fprintf(u.Out, "%s %s\n", successPrefix, fmt.Sprintf(format, a...))
}

func (u *UI) Warning(format string, a ...any) {
	fmt.Fprintf(u.ErrOut, "%s %s\n", warningPrefix, fmt.Sprintf(format, a...))
}

func (u *UI) Error(format string, a ...any) {
	fmt.Fprintf(u.ErrOut, "%s %s\n", errorPrefix, fmt.Sprintf(format, a...))
}

func (u *UI) VerboseLog(format string, a ...any) {
	if u.Verbose {
		fmt.Fprintf(u.Out, "%s %s\n", verbosePrefix, fmt.Sprintf(format, a...))
	}
}

// Table creates a new tablewriter configured with consistent styling.
func (u *UI) Table(headers []string) *tablewriter.Table {
	table := tablewriter.NewTable(u.Out,
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Lines:      tw.LinesNone,
				Separators: tw.SeparatorsNone,
			},
		}),
		tablewriter.WithPadding(tw.Padding{Left: "", Right: "  "}),
	)
	table.Header(headers)
	return table
}

// PrintResult renders the evaluation summary and score table.
func (u *UI) PrintResult(res *eval.Result) {
	u.Success("Evaluation complete (%s mode, run %s)", res.Mode, res.RunID)
	u.Info("Winner: %s", Cyan(string(res.Winner)))
	u.Info("Final grade: %s", GradeColor(res.Final.Grade))

	sel := res.SelectedCriteria
	if sel.IsEmpty() {
		sel = scoredCriteria(res)
	}

	table := u.Table([]string{"Criterion", res.ReviewerA.Name, res.ReviewerB.Name, "Final"})
	for _, key := range sel.Keys() {
		label := key
		if c, ok := criteria.Lookup(key); ok {
			label = c.Label
		}
		table.Append([]string{
			label,
			scoreCell(res.ReviewerA.Record, key),
			scoreCell(res.ReviewerB.Record, key),
			scoreCell(res.Final, key),
		})
	}
	table.Append([]string{
		"Average",
		ScoreColor(res.ReviewerA.Average),
		ScoreColor(res.ReviewerB.Average),
		finalAverageCell(res),
	})
	_ = table.Render()

	if res.Solution != "" {
		fmt.Fprintf(u.Out, "\n%s\n%s\n", Cyan("Solution"), res.Solution)
	}
}

func scoreCell(rec review.Record, key string) string {
	if v, ok := rec.Score(key); ok {
		return ScoreColor(v)
	}
	return "-"
}

func finalAverageCell(res *eval.Result) string {
	if res.Mode == eval.ModeFull {
		return ScoreColor(res.FinalAverage)
	}
	return "-"
}

// scoredCriteria recovers a display ordering for general-review runs from
// whatever keys the reviewers actually scored, catalog order first.
func scoredCriteria(res *eval.Result) criteria.Selection {
	seen := map[string]bool{}
	var extras criteria.Selection
	for _, rec := range []review.Record{res.ReviewerA.Record, res.ReviewerB.Record, res.Final} {
		for key := range rec.Scores {
			norm := criteria.Normalize(key)
			if !seen[norm] {
				seen[norm] = true
				if _, inCatalog := criteria.Lookup(norm); !inCatalog {
					extras = append(extras, norm)
				}
			}
		}
	}

	sort.Strings([]string(extras))

	var ordered criteria.Selection
	for _, c := range criteria.Catalog() {
		if seen[c.Key] {
			ordered = append(ordered, c.Key)
		}
	}
	return append(ordered, extras...)
}

// MaskCredential shortens a credential for display.
func MaskCredential(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + "..." + key[len(key)-4:]
}
