package eval

import (
	"time"

	"mozart/internal/criteria"
	"mozart/internal/review"
)

// Mode selects the evaluation procedure.
type Mode string

const (
	// ModeFast races the two reviewers and picks a winner by average
	// score; no judge merge happens.
	ModeFast Mode = "fast"
	// ModeFull adds an explicit judge merge of both reviews before the
	// solution is produced.
	ModeFull Mode = "full"
)

// ParseMode maps a user-supplied mode name, defaulting to fast.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeFast, "":
		return ModeFast, true
	case ModeFull:
		return ModeFull, true
	default:
		return ModeFast, false
	}
}

// Winner identifies which review prevailed. Fast mode only ever produces
// A or B: an exact average tie resolves to A by policy. Full mode may also
// produce a tie because the judge declares the winner explicitly.
type Winner string

const (
	WinnerA   Winner = "A"
	WinnerB   Winner = "B"
	WinnerTie Winner = "tie"
)

// Participant holds one reviewer's parsed record and its average score
// over the run's selection.
type Participant struct {
	Name    string        `json:"name"`
	Record  review.Record `json:"record"`
	Average float64       `json:"average_score"`
}

// Result is the complete outcome of one evaluation run. It is created once
// per run and never mutated; it is fully JSON-serializable for export.
type Result struct {
	RunID            string             `json:"run_id"`
	Mode             Mode               `json:"mode"`
	SelectedCriteria criteria.Selection `json:"selected_criteria"`
	ReviewerA        Participant        `json:"reviewer_a"`
	ReviewerB        Participant        `json:"reviewer_b"`

	// Final is the winning record in fast mode and the merged record in
	// full mode.
	Final review.Record `json:"final"`
	// FinalAverage is only meaningful in full mode, where the merged
	// record carries its own scores.
	FinalAverage float64 `json:"final_average_score,omitempty"`

	Winner    Winner    `json:"winner"`
	Solution  string    `json:"solution"`
	CreatedAt time.Time `json:"created_at"`
}
