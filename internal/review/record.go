// Package review defines the canonical review record produced by reviewer
// and judge backends, the tolerant parser that builds it from raw model
// output, and score aggregation over criteria selections.
package review

// Grade classifies a review as approving the content or requesting revision.
type Grade string

const (
	GradeApprove Grade = "approve"
	GradeRevise  Grade = "revise"
)

// Issue is a single problem called out by a reviewer.
type Issue struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Message  string `json:"msg"`
	Snippet  string `json:"snippet,omitempty"`
}

// Diagnostic records why a raw response could not be used verbatim. It is
// carried on the record rather than returned as an error so every call site
// still receives a well-formed record.
type Diagnostic struct {
	Message string `json:"message"`
	Raw     string `json:"raw_content"`
}

// Record is one review in canonical form. Summary, Grade, and Scores are
// always present after parsing; the judge-only fields (Winner, Reason,
// TopIssues, RecommendedChanges, Notes) are populated only on merged
// records. A record is never mutated once produced.
type Record struct {
	Summary        string         `json:"summary"`
	Grade          Grade          `json:"grade"`
	Scores         map[string]any `json:"scores"`
	Issues         []Issue        `json:"issues,omitempty"`
	Improvements   []string       `json:"improvements,omitempty"`
	TestsSuggested []string       `json:"tests_suggested,omitempty"`

	// Judge merge fields.
	Winner             string   `json:"winner,omitempty"`
	Reason             string   `json:"reason,omitempty"`
	TopIssues          []Issue  `json:"top_issues,omitempty"`
	RecommendedChanges []string `json:"recommended_changes,omitempty"`
	Notes              []string `json:"notes,omitempty"`

	// Diag is nil iff the raw response parsed cleanly.
	Diag *Diagnostic `json:"parse_error,omitempty"`
}

// Parsed reports whether the record came from a clean parse rather than a
// placeholder.
func (r Record) Parsed() bool { return r.Diag == nil }
