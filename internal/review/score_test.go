package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mozart/internal/criteria"
)

func sel(t *testing.T, names ...string) criteria.Selection {
	t.Helper()
	s, err := criteria.NewSelection(names...)
	require.NoError(t, err)
	return s
}

func TestAverageOverSelection(t *testing.T) {
	rec := Record{Scores: map[string]any{"correctness": 8.0, "clarity": 6.0}}

	avg := Average(rec, sel(t, "correctness", "clarity"))
	assert.Equal(t, 7.0, avg)
}

func TestAverageSkipsAbsentCriteria(t *testing.T) {
	rec := Record{Scores: map[string]any{"correctness": 8.0}}

	// security was requested but not scored: ignored, not treated as zero.
	avg := Average(rec, sel(t, "correctness", "security"))
	assert.Equal(t, 8.0, avg)
}

func TestAverageEmptyScores(t *testing.T) {
	rec := Record{Scores: map[string]any{}}

	assert.Equal(t, 0.0, Average(rec, sel(t, "correctness", "security")))
	assert.Equal(t, 0.0, Average(rec, nil))
}

func TestAverageEmptySelectionUsesAllNumeric(t *testing.T) {
	rec := Record{Scores: map[string]any{
		"correctness": 9.0,
		"clarity":     7.0,
		"notes":       "not a number",
	}}

	avg := Average(rec, nil)
	assert.Equal(t, 8.0, avg)
}

func TestAverageIgnoresNonNumericValues(t *testing.T) {
	rec := Record{Scores: map[string]any{
		"correctness": "high",
		"clarity":     6.0,
	}}

	avg := Average(rec, sel(t, "correctness", "clarity"))
	assert.Equal(t, 6.0, avg)
}

func TestAverageNormalizesSelectionKeys(t *testing.T) {
	rec := Record{Scores: map[string]any{"error_handling": 5.0}}

	avg := Average(rec, sel(t, "Error Handling"))
	assert.Equal(t, 5.0, avg)
}

func TestAverageNoQualifyingEntries(t *testing.T) {
	rec := Record{Scores: map[string]any{"correctness": "n/a"}}

	assert.Equal(t, 0.0, Average(rec, sel(t, "correctness")))
}

func TestRecordScore(t *testing.T) {
	rec := Record{Scores: map[string]any{"error_handling": 4.0}}

	v, ok := rec.Score("Error Handling")
	require.True(t, ok)
	assert.Equal(t, 4.0, v)

	_, ok = rec.Score("security")
	assert.False(t, ok)
}
