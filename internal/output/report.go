package output

import (
	"fmt"
	"strings"

	"mozart/internal/criteria"
	"mozart/internal/eval"
	"mozart/internal/review"
)

// Report renders an evaluation result as a markdown document: executive
// summary, criteria analysis, comparative score table, per-reviewer
// sections, final judgment, and the generated solution.
func Report(agentName string, res *eval.Result) string {
	var b strings.Builder

	sel := res.SelectedCriteria
	criteriaText := "General review"
	if !sel.IsEmpty() {
		criteriaText = strings.Join(sel.Labels(), ", ")
	}

	fmt.Fprintf(&b, "# %s Code Review Report\n\n", agentName)
	b.WriteString("## Executive Summary\n")
	fmt.Fprintf(&b, "- **Evaluation Mode**: %s\n", res.Mode)
	fmt.Fprintf(&b, "- **Review Criteria**: %s (%d criteria)\n", criteriaText, len(sel))
	fmt.Fprintf(&b, "- **Overall Winner**: %s\n", res.Winner)
	fmt.Fprintf(&b, "- **Final Grade**: %s\n", res.Final.Grade)
	fmt.Fprintf(&b, "- **Run ID**: %s\n", res.RunID)
	fmt.Fprintf(&b, "- **Generated**: %s\n", res.CreatedAt.Format("2006-01-02 15:04:05 UTC"))

	if !sel.IsEmpty() {
		b.WriteString("\n## Evaluation Criteria\n")
		for _, key := range sel {
			if c, ok := criteria.Lookup(key); ok {
				fmt.Fprintf(&b, "- **%s**: %s\n", c.Label, c.Description)
			} else {
				fmt.Fprintf(&b, "- **%s**\n", key)
			}
		}
	}

	b.WriteString("\n## Comparative Scoring\n\n")
	fmt.Fprintf(&b, "| Criterion | %s | %s | Final/Judge |\n", res.ReviewerA.Name, res.ReviewerB.Name)
	b.WriteString("|-----------|------------|------------|-------------|\n")
	for _, key := range sel.Keys() {
		label := key
		if c, ok := criteria.Lookup(key); ok {
			label = c.Label
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", label,
			reportScore(res.ReviewerA.Record, key),
			reportScore(res.ReviewerB.Record, key),
			reportScore(res.Final, key))
	}
	finalAvg := "—"
	if res.Mode == eval.ModeFull {
		finalAvg = fmt.Sprintf("**%.1f/10**", res.FinalAverage)
	}
	fmt.Fprintf(&b, "| **Average** | **%.1f/10** | **%.1f/10** | %s |\n",
		res.ReviewerA.Average, res.ReviewerB.Average, finalAvg)

	writeReviewerSection(&b, res.ReviewerA)
	writeReviewerSection(&b, res.ReviewerB)

	b.WriteString("\n## Final Judgment\n")
	if res.Mode == eval.ModeFull {
		fmt.Fprintf(&b, "**Average Score**: %.1f/10\n", res.FinalAverage)
	}
	if res.Final.Summary != "" {
		fmt.Fprintf(&b, "\n### Assessment\n%s\n", res.Final.Summary)
	}
	if res.Final.Winner != "" && res.Final.Reason != "" {
		fmt.Fprintf(&b, "\n### Winner Determination\n**Winner**: %s\n**Reasoning**: %s\n", res.Final.Winner, res.Final.Reason)
	}
	if len(res.Final.RecommendedChanges) > 0 {
		b.WriteString("\n### Recommended Changes\n")
		for _, change := range head(res.Final.RecommendedChanges, 5) {
			fmt.Fprintf(&b, "- %s\n", change)
		}
	}

	if strings.TrimSpace(res.Solution) != "" {
		fmt.Fprintf(&b, "\n## Generated Solution\n\n```\n%s\n```\n", res.Solution)
	}

	fmt.Fprintf(&b, "\n---\n*Generated by %s*\n", agentName)
	return b.String()
}

func writeReviewerSection(b *strings.Builder, p eval.Participant) {
	fmt.Fprintf(b, "\n## %s\n", p.Name)
	fmt.Fprintf(b, "**Average Score**: %.1f/10\n", p.Average)

	if p.Record.Summary != "" {
		fmt.Fprintf(b, "\n### Analysis Summary\n%s\n", p.Record.Summary)
	}

	if len(p.Record.Issues) > 0 {
		b.WriteString("\n### Key Issues Identified\n")
		for _, issue := range head(p.Record.Issues, 5) {
			severity := strings.ToUpper(defaultStr(issue.Severity, "unknown"))
			kind := defaultStr(issue.Type, "general")
			msg := defaultStr(issue.Message, "No details provided")
			fmt.Fprintf(b, "- **%s - %s**: %s\n", severity, kind, msg)
		}
	}

	if p.Record.Diag != nil {
		fmt.Fprintf(b, "\n### Parse Diagnostic\n%s\n", p.Record.Diag.Message)
	}
}

func reportScore(rec review.Record, key string) string {
	if v, ok := rec.Score(key); ok {
		return fmt.Sprintf("%.1f/10", v)
	}
	return "—"
}

func head[T any](items []T, n int) []T {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

func defaultStr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
