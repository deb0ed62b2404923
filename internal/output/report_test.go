package output

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mozart/internal/criteria"
	"mozart/internal/eval"
	"mozart/internal/review"
)

func sampleResult(t *testing.T) *eval.Result {
	t.Helper()
	sel, err := criteria.NewSelection("correctness", "clarity")
	require.NoError(t, err)

	recA := review.Record{
		Summary: "Looks solid overall",
		Grade:   review.GradeApprove,
		Scores:  map[string]any{"correctness": 8.0, "clarity": 7.0},
		Issues: []review.Issue{
			{Type: "style", Severity: "low", Message: "naming could be clearer"},
		},
	}
	recB := review.Record{
		Summary: "Needs more validation",
		Grade:   review.GradeRevise,
		Scores:  map[string]any{"correctness": 6.0, "clarity": 5.0},
	}

	return &eval.Result{
		RunID:            "01JRUN",
		Mode:             eval.ModeFast,
		SelectedCriteria: sel,
		ReviewerA:        eval.Participant{Name: "Reviewer A", Record: recA, Average: 7.5},
		ReviewerB:        eval.Participant{Name: "Reviewer B", Record: recB, Average: 5.5},
		Final:            recA,
		Winner:           eval.WinnerA,
		Solution:         "use explicit returns",
		CreatedAt:        time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestReport(t *testing.T) {
	res := sampleResult(t)
	md := Report("Mozart", res)

	assert.True(t, strings.HasPrefix(md, "# Mozart Code Review Report"))
	assert.Contains(t, md, "- **Evaluation Mode**: fast")
	assert.Contains(t, md, "- **Overall Winner**: A")
	assert.Contains(t, md, "Correctness, Clarity (2 criteria)")

	// Comparative scoring table.
	assert.Contains(t, md, "| Criterion | Reviewer A | Reviewer B | Final/Judge |")
	assert.Contains(t, md, "| Correctness | 8.0/10 | 6.0/10 | 8.0/10 |")
	assert.Contains(t, md, "| **Average** | **7.5/10** | **5.5/10** |")

	// Per-reviewer sections.
	assert.Contains(t, md, "## Reviewer A")
	assert.Contains(t, md, "Looks solid overall")
	assert.Contains(t, md, "- **LOW - style**: naming could be clearer")
	assert.Contains(t, md, "## Reviewer B")
	assert.Contains(t, md, "Needs more validation")

	// Solution block.
	assert.Contains(t, md, "## Generated Solution")
	assert.Contains(t, md, "use explicit returns")
}

func TestReportFullModeJudgment(t *testing.T) {
	res := sampleResult(t)
	res.Mode = eval.ModeFull
	res.FinalAverage = 6.5
	res.Final.Winner = "B"
	res.Final.Reason = "more thorough security analysis"
	res.Final.RecommendedChanges = []string{"add input validation", "write tests"}

	md := Report("Mozart", res)

	assert.Contains(t, md, "**Average Score**: 6.5/10")
	assert.Contains(t, md, "**Winner**: B")
	assert.Contains(t, md, "**Reasoning**: more thorough security analysis")
	assert.Contains(t, md, "- add input validation")
}

func TestReportGeneralReview(t *testing.T) {
	res := sampleResult(t)
	res.SelectedCriteria = nil

	md := Report("Mozart", res)
	assert.Contains(t, md, "General review (0 criteria)")
	assert.NotContains(t, md, "## Evaluation Criteria\n")
}

func TestReportAbsentScoresRenderedAsDash(t *testing.T) {
	res := sampleResult(t)
	res.ReviewerB.Record.Scores = map[string]any{"correctness": 6.0}

	md := Report("Mozart", res)
	assert.Contains(t, md, "| Clarity | 7.0/10 | — | 7.0/10 |")
}

func TestMaskCredential(t *testing.T) {
	assert.Equal(t, "(not set)", MaskCredential(""))
	assert.Equal(t, "****", MaskCredential("abcd"))
	assert.Equal(t, "sk-a...wxyz", MaskCredential("sk-abcdefwxyz"))
}
