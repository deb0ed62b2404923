// Package prompt builds the instruction and user prompts sent to reviewer
// and judge backends. Every function is a pure function of its inputs so
// the same selection always produces the same prompt.
package prompt

import (
	"fmt"
	"strings"

	"mozart/internal/criteria"
)

// SolutionInstructions is the system prompt for the final solution call.
// The reply is expected as plain text, so no schema is embedded.
const SolutionInstructions = "You are a senior engineer. Given the user's goal, context, and the two reviews (or a merged review), " +
	"produce a single improved final answer or patch. Keep it concise, self-contained, and ready to paste. " +
	"Return plain text (no JSON)."

const scaleLegend = "Use the full 0-10 range: 0-3=poor, 4-6=adequate, 7-8=good, 9-10=excellent."

// CriticInstructions returns the system prompt for an independent reviewer.
// The embedded schema's scores object contains exactly the normalized keys
// of the selection, and the prompt demands a numeric 0-10 score for each.
func CriticInstructions(sel criteria.Selection) string {
	var b strings.Builder

	b.WriteString("You are a principal engineer reviewing another AI assistant's reply.\n")
	b.WriteString("Return STRICT JSON ONLY with this schema:\n")
	b.WriteString("{")
	b.WriteString(`"summary":"",`)
	b.WriteString(`"grade":"approve|revise",`)
	fmt.Fprintf(&b, `"scores":{%s},`, scoresSchema(sel))
	b.WriteString(`"issues":[{"type":"bug|security|style|perf|design","severity":"low|medium|high","msg":"","snippet":""}],`)
	b.WriteString(`"improvements":[],`)
	b.WriteString(`"tests_suggested":[]`)
	b.WriteString("}\n")
	fmt.Fprintf(&b, "IMPORTANT: You must provide numeric scores (0-10) for ALL of these criteria: %s.\n", strings.Join(sel.Labels(), ", "))
	b.WriteString("Each score should reflect how well the reply addresses that specific criterion.\n")
	b.WriteString(scaleLegend + "\n")
	b.WriteString("Consider all criteria equally important unless the context suggests otherwise.")

	return b.String()
}

// JudgeInstructions returns the system prompt for merging two reviews into
// one final report. Same score contract as CriticInstructions, plus the
// winner declaration fields.
func JudgeInstructions(sel criteria.Selection) string {
	var b strings.Builder

	b.WriteString("You are a staff engineer who merges two code reviews into one final, neutral report.\n")
	b.WriteString("Return STRICT JSON ONLY with this schema:\n")
	b.WriteString("{")
	b.WriteString(`"summary":"",`)
	b.WriteString(`"grade":"approve|revise",`)
	b.WriteString(`"winner":"A|B|tie",`)
	b.WriteString(`"reason":"",`)
	fmt.Fprintf(&b, `"scores":{%s},`, scoresSchema(sel))
	b.WriteString(`"top_issues":[{"type":"bug|security|style|perf|design","severity":"low|medium|high","msg":"","snippet":""}],`)
	b.WriteString(`"recommended_changes":[],`)
	b.WriteString(`"tests_suggested":[],`)
	b.WriteString(`"notes":[]`)
	b.WriteString("}\n")
	fmt.Fprintf(&b, "IMPORTANT: Provide balanced scores (0-10) for these criteria: %s.\n", strings.Join(sel.Labels(), ", "))
	b.WriteString("Consider both reviews carefully and merge their insights into comprehensive scores.\n")
	b.WriteString("The winner should be the review with better overall analysis, not just higher scores.")

	return b.String()
}

// scoresSchema renders the scores object body, one "key":0-10 entry per
// selected criterion. Empty selections fall back to the full catalog so the
// schema never renders an empty object.
func scoresSchema(sel criteria.Selection) string {
	if sel.IsEmpty() {
		sel = criteria.FullSelection()
	}
	parts := make([]string, len(sel))
	for i, key := range sel.Keys() {
		parts[i] = fmt.Sprintf(`"%s":0-10`, key)
	}
	return strings.Join(parts, ",")
}

const sectionRule = "============================================================"

// UserPrompt assembles the content prompt shared by both reviewers: the
// optional goal and context sections (omitted entirely when blank), the
// criteria list with descriptions, scoring instructions, the content under
// review, and the closing demand for a JSON-only reply.
func UserPrompt(content, goal, context string, sel criteria.Selection) string {
	var b strings.Builder

	b.WriteString(sectionRule + "\n")
	b.WriteString("REVIEW ASSIGNMENT\n")
	b.WriteString(sectionRule + "\n")

	if goal = strings.TrimSpace(goal); goal != "" {
		b.WriteString("\nPRIMARY GOAL:\n")
		b.WriteString(goal + "\n")
	}
	if context = strings.TrimSpace(context); context != "" {
		b.WriteString("\nCONTEXT & CONSTRAINTS:\n")
		b.WriteString(context + "\n")
	}

	b.WriteString("\nEVALUATION CRITERIA:\n")
	b.WriteString(criteriaList(sel) + "\n")
	b.WriteString("\n" + scoringInstructions(sel) + "\n")

	b.WriteString("\n" + sectionRule + "\n")
	b.WriteString("CONTENT TO REVIEW\n")
	b.WriteString(sectionRule + "\n\n")
	b.WriteString(content + "\n")

	b.WriteString("\n" + sectionRule + "\n")
	b.WriteString("INSTRUCTIONS\n")
	b.WriteString(sectionRule + "\n\n")
	b.WriteString("Evaluate the above content according to the specified criteria.\n")
	b.WriteString("Focus your analysis on the selected evaluation dimensions.\n")
	b.WriteString("Provide specific, actionable feedback in your JSON response.\n")
	b.WriteString("Return ONLY valid JSON - no additional text or explanations.")

	return b.String()
}

// criteriaList renders the selection as a bulleted list with descriptions,
// degrading to a general-review line when the selection is empty.
func criteriaList(sel criteria.Selection) string {
	if sel.IsEmpty() {
		return "General code review covering all typical code-quality aspects"
	}

	lines := make([]string, len(sel))
	for i, key := range sel {
		c, ok := criteria.Lookup(key)
		if !ok {
			c = criteria.Criterion{Label: key, Description: "General assessment"}
		}
		lines[i] = fmt.Sprintf("- %s: %s", c.Label, c.Description)
	}
	return strings.Join(lines, "\n")
}

func scoringInstructions(sel criteria.Selection) string {
	if sel.IsEmpty() {
		return "Provide balanced scores considering general code quality factors."
	}

	keys := sel.Keys()
	quoted := make([]string, len(keys))
	for i, k := range keys {
		quoted[i] = fmt.Sprintf("%q", k)
	}

	var b strings.Builder
	b.WriteString("SCORING REQUIREMENTS:\n")
	fmt.Fprintf(&b, "- Provide numeric scores (0-10) for each criterion: %s\n", strings.Join(quoted, ", "))
	b.WriteString("- Use the full scale: 0-3 (poor), 4-6 (adequate), 7-8 (good), 9-10 (excellent)\n")
	b.WriteString("- Base scores on how well the reply addresses each specific criterion\n")
	b.WriteString("- Consider the context and goals when evaluating each dimension\n")
	b.WriteString("- Be consistent in your scoring methodology")
	return b.String()
}

// MergeRequest builds the user prompt asking the judge to merge two raw
// reviewer outputs into the final JSON record.
func MergeRequest(rawA, rawB string) string {
	return fmt.Sprintf("Review A:\n%s\n\nReview B:\n%s\n\nMerge into final JSON.", rawA, rawB)
}

// SolutionRequest builds the user prompt for the solution call. reviewJSON
// is the winning record in fast mode or the merged record in full mode,
// already serialized.
func SolutionRequest(goal, context, reviewLabel, reviewJSON string) string {
	return fmt.Sprintf("GOAL:\n%s\n\nCONTEXT:\n%s\n\n%s:\n%s\n\nProduce the improved final answer/patch now.",
		goal, context, reviewLabel, reviewJSON)
}
