package prompt

import (
	"strings"
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

func TestCriticInstructions(t *testing.T) {
	t.Run("embeds selected score keys", func(t *testing.T) {
		system := CriticInstructions(sel(t, "correctness", "Error Handling"))

		assert.Contains(t, system, `"correctness":0-10`)
		assert.Contains(t, system, `"error_handling":0-10`)
		assert.NotContains(t, system, `"security":0-10`)
	})

	t.Run("demands scores for all criteria with scale semantics", func(t *testing.T) {
		system := CriticInstructions(sel(t, "security", "clarity"))

		assert.Contains(t, system, "ALL of these criteria: Security, Clarity")
		assert.Contains(t, system, "0-3=poor, 4-6=adequate, 7-8=good, 9-10=excellent")
		assert.Contains(t, system, "STRICT JSON ONLY")
	})

	t.Run("empty selection falls back to the full catalog schema", func(t *testing.T) {
		system := CriticInstructions(nil)

		for _, c := range criteria.Catalog() {
			assert.Contains(t, system, `"`+c.Key+`":0-10`)
		}
	})
}

func TestJudgeInstructions(t *testing.T) {
	system := JudgeInstructions(sel(t, "correctness"))

	assert.Contains(t, system, `"winner":"A|B|tie"`)
	assert.Contains(t, system, `"reason":""`)
	assert.Contains(t, system, `"top_issues"`)
	assert.Contains(t, system, `"recommended_changes"`)
	assert.Contains(t, system, `"notes"`)
	assert.Contains(t, system, `"correctness":0-10`)
	assert.Contains(t, system, "merges two code reviews")
}

func TestUserPrompt(t *testing.T) {
	t.Run("includes all sections in order", func(t *testing.T) {
		p := UserPrompt("def f(): pass", "review it", "python project", sel(t, "correctness", "clarity"))

		assert.Contains(t, p, "PRIMARY GOAL:")
		assert.Contains(t, p, "review it")
		assert.Contains(t, p, "CONTEXT & CONSTRAINTS:")
		assert.Contains(t, p, "python project")
		assert.Contains(t, p, "EVALUATION CRITERIA:")
		assert.Contains(t, p, "- Correctness: Code accuracy")
		assert.Contains(t, p, "SCORING REQUIREMENTS:")
		assert.Contains(t, p, `"correctness", "clarity"`)
		assert.Contains(t, p, "CONTENT TO REVIEW")
		assert.Contains(t, p, "def f(): pass")
		assert.Contains(t, p, "Return ONLY valid JSON")

		// Content must come after the criteria section.
		assert.Less(t, strings.Index(p, "EVALUATION CRITERIA:"), strings.Index(p, "CONTENT TO REVIEW"))
		assert.Less(t, strings.Index(p, "CONTENT TO REVIEW"), strings.Index(p, "INSTRUCTIONS"))
	})

	t.Run("omits blank goal and context sections entirely", func(t *testing.T) {
		p := UserPrompt("code", "", "  ", sel(t, "logic"))

		assert.NotContains(t, p, "PRIMARY GOAL")
		assert.NotContains(t, p, "CONTEXT & CONSTRAINTS")
	})

	t.Run("empty selection degrades to general review", func(t *testing.T) {
		p := UserPrompt("code", "", "", nil)

		assert.Contains(t, p, "General code review covering all typical code-quality aspects")
		assert.Contains(t, p, "Provide balanced scores considering general code quality factors.")
		assert.NotContains(t, p, "SCORING REQUIREMENTS")
	})
}

func TestMergeRequest(t *testing.T) {
	p := MergeRequest(`{"a":1}`, `{"b":2}`)

	assert.Contains(t, p, "Review A:\n{\"a\":1}")
	assert.Contains(t, p, "Review B:\n{\"b\":2}")
	assert.Contains(t, p, "Merge into final JSON.")
}

func TestSolutionRequest(t *testing.T) {
	p := SolutionRequest("fix it", "legacy code", "WINNING REVIEW", `{"grade":"revise"}`)

	assert.Contains(t, p, "GOAL:\nfix it")
	assert.Contains(t, p, "CONTEXT:\nlegacy code")
	assert.Contains(t, p, "WINNING REVIEW:\n{\"grade\":\"revise\"}")
	assert.Contains(t, p, "Produce the improved final answer/patch now.")
}
