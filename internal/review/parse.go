package review

import (
	"encoding/json"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

const (
	summaryIncomplete = "Review analysis incomplete"
	summaryUnparsable = "Failed to parse review response"
	summaryProcessing = "Review processing error"
)

// Parse converts raw backend text into a Record. It never fails: malformed
// output is downgraded to a placeholder record carrying a diagnostic, so
// downstream consumers can always rely on Summary, Grade, and Scores being
// set.
//
// Three outcomes:
//  1. The text is a JSON object: its fields are used, with Summary, Grade,
//     and Scores backfilled when absent.
//  2. The text is not valid JSON, even after repair: placeholder record
//     with the decode error and the first 200 characters of the text.
//  3. The text is valid JSON but not an object, or its shape cannot be
//     processed: placeholder record with a 100-character excerpt.
func Parse(raw string) Record {
	text := stripFences(raw)

	fields, err := decodeObject(text)
	if err != nil {
		// Models occasionally emit almost-JSON (trailing commas, single
		// quotes). Repair once before giving up; the repaired text counts
		// only if it decodes to an object. Repair turns plain prose into a
		// JSON string, which must still classify by the original error,
		// not the repaired one.
		if fixed, rerr := jsonrepair.JSONRepair(text); rerr == nil {
			if repaired, derr := decodeObject(fixed); derr == nil {
				return buildRecord(repaired)
			}
		}
		if isSyntax(err) {
			return unparsablePlaceholder(err, text)
		}
		return processingPlaceholder(err, text)
	}

	return buildRecord(fields)
}

// decodeObject decodes text into a field map, requiring a top-level JSON
// object. A syntax failure and a valid-but-not-object failure surface as
// different error types so Parse can distinguish them.
func decodeObject(text string) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func isSyntax(err error) bool {
	switch err.(type) {
	case *json.SyntaxError:
		return true
	}
	// Empty input reports a generic error rather than a SyntaxError.
	return err != nil && strings.Contains(err.Error(), "unexpected end of JSON input")
}

// buildRecord fills a Record from decoded fields. Individual fields that do
// not match the expected shape are dropped rather than failing the whole
// parse; the required trio is backfilled with defaults.
func buildRecord(fields map[string]json.RawMessage) Record {
	rec := Record{
		Summary: summaryIncomplete,
		Grade:   GradeRevise,
		Scores:  map[string]any{},
	}

	if s, ok := decodeString(fields["summary"]); ok {
		rec.Summary = s
	}
	if g, ok := decodeString(fields["grade"]); ok && g != "" {
		rec.Grade = Grade(g)
	}
	if raw, ok := fields["scores"]; ok {
		var scores map[string]any
		if json.Unmarshal(raw, &scores) == nil && scores != nil {
			rec.Scores = scores
		}
	}
	decodeInto(fields["issues"], &rec.Issues)
	decodeInto(fields["improvements"], &rec.Improvements)
	decodeInto(fields["tests_suggested"], &rec.TestsSuggested)

	if w, ok := decodeString(fields["winner"]); ok {
		rec.Winner = w
	}
	if r, ok := decodeString(fields["reason"]); ok {
		rec.Reason = r
	}
	decodeInto(fields["top_issues"], &rec.TopIssues)
	decodeInto(fields["recommended_changes"], &rec.RecommendedChanges)
	decodeInto(fields["notes"], &rec.Notes)

	return rec
}

func decodeString(raw json.RawMessage) (string, bool) {
	if raw == nil {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func decodeInto(raw json.RawMessage, dst any) {
	if raw == nil {
		return
	}
	_ = json.Unmarshal(raw, dst)
}

func unparsablePlaceholder(err error, text string) Record {
	return Record{
		Summary: summaryUnparsable,
		Grade:   GradeRevise,
		Scores:  map[string]any{},
		Diag: &Diagnostic{
			Message: "JSON parse failed: " + err.Error(),
			Raw:     truncate(text, 200),
		},
	}
}

func processingPlaceholder(err error, text string) Record {
	return Record{
		Summary: summaryProcessing,
		Grade:   GradeRevise,
		Scores:  map[string]any{},
		Diag: &Diagnostic{
			Message: "Unexpected error: " + err.Error(),
			Raw:     truncate(text, 100),
		},
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// stripFences removes a surrounding markdown code fence. Models often wrap
// JSON in ```json blocks despite instructions not to.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if lines := strings.SplitN(s, "\n", 2); len(lines) > 1 {
		s = lines[1]
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
