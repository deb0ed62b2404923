// Package eval orchestrates evaluation runs: it fans content out to two
// reviewer backends, scores and compares their reviews, optionally merges
// them through a judge, and requests an improved solution.
package eval

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"mozart/internal/config"
	"mozart/internal/criteria"
	"mozart/internal/prompt"
	"mozart/internal/provider"
	"mozart/internal/review"
)

// ErrRunInFlight is returned when a run is requested while another is
// outstanding. Runs are never queued or merged.
var ErrRunInFlight = errors.New("an evaluation run is already in progress")

// Caller dispatches one chat-completion call. Satisfied by
// *provider.Gateway.
type Caller interface {
	Call(ctx context.Context, providerName string, messages []provider.Message, forceJSON bool, modelOverride string) (string, error)
}

// Request is the input to one evaluation run.
type Request struct {
	Content  string
	Goal     string
	Context  string
	Criteria criteria.Selection
}

// Engine runs evaluations against the configured participants. At most one
// run may be in flight at a time.
type Engine struct {
	cfg    *config.Config
	caller Caller

	mu sync.Mutex // held for the duration of a run
}

// NewEngine creates an engine bound to the given configuration and caller.
func NewEngine(cfg *config.Config, caller Caller) *Engine {
	return &Engine{cfg: cfg, caller: caller}
}

// Run executes the run in the requested mode.
func (e *Engine) Run(ctx context.Context, mode Mode, req Request) (*Result, error) {
	if mode == ModeFull {
		return e.Full(ctx, req)
	}
	return e.Fast(ctx, req)
}

// Fast runs both reviewers, picks the winner by average score over the
// selection, and asks the judge backend for a solution based on the
// winning review alone. An exact tie resolves to reviewer A.
func (e *Engine) Fast(ctx context.Context, req Request) (*Result, error) {
	if !e.mu.TryLock() {
		return nil, ErrRunInFlight
	}
	defer e.mu.Unlock()

	rawA, rawB, err := e.dualReview(ctx, req)
	if err != nil {
		return nil, err
	}

	recA := review.Parse(rawA)
	recB := review.Parse(rawB)
	avgA := review.Average(recA, req.Criteria)
	avgB := review.Average(recB, req.Criteria)

	// Tie-break favors A by policy; see the winner contract in result.go.
	winner := WinnerA
	winning := recA
	if avgB > avgA {
		winner = WinnerB
		winning = recB
	}

	solution, err := e.solve(ctx, req, "WINNING REVIEW", mustJSON(winning))
	if err != nil {
		return nil, err
	}

	return &Result{
		RunID:            ulid.Make().String(),
		Mode:             ModeFast,
		SelectedCriteria: req.Criteria,
		ReviewerA:        Participant{Name: e.cfg.ReviewerA.DisplayName, Record: recA, Average: avgA},
		ReviewerB:        Participant{Name: e.cfg.ReviewerB.DisplayName, Record: recB, Average: avgB},
		Final:            winning,
		Winner:           winner,
		Solution:         solution,
		CreatedAt:        time.Now().UTC(),
	}, nil
}

// Full runs both reviewers, has the judge merge the two raw reviews into
// one final record, then asks the judge for a solution based on the merged
// record. The merge and solution steps are two distinct judge calls.
func (e *Engine) Full(ctx context.Context, req Request) (*Result, error) {
	if !e.mu.TryLock() {
		return nil, ErrRunInFlight
	}
	defer e.mu.Unlock()

	rawA, rawB, err := e.dualReview(ctx, req)
	if err != nil {
		return nil, err
	}

	mergedRaw, err := e.caller.Call(ctx, e.cfg.Judge.Provider, []provider.Message{
		{Role: "system", Content: prompt.JudgeInstructions(req.Criteria)},
		{Role: "user", Content: prompt.MergeRequest(rawA, rawB)},
	}, true, e.cfg.Judge.Model)
	if err != nil {
		return nil, fmt.Errorf("judge merge: %w", err)
	}

	solution, err := e.solve(ctx, req, "MERGED JUDGE JSON", mergedRaw)
	if err != nil {
		return nil, err
	}

	recA := review.Parse(rawA)
	recB := review.Parse(rawB)
	merged := review.Parse(mergedRaw)

	return &Result{
		RunID:            ulid.Make().String(),
		Mode:             ModeFull,
		SelectedCriteria: req.Criteria,
		ReviewerA:        Participant{Name: e.cfg.ReviewerA.DisplayName, Record: recA, Average: review.Average(recA, req.Criteria)},
		ReviewerB:        Participant{Name: e.cfg.ReviewerB.DisplayName, Record: recB, Average: review.Average(recB, req.Criteria)},
		Final:            merged,
		FinalAverage:     review.Average(merged, req.Criteria),
		Winner:           judgeWinner(merged.Winner),
		Solution:         solution,
		CreatedAt:        time.Now().UTC(),
	}, nil
}

// dualReview issues the two reviewer calls concurrently and joins on both.
// The calls share one instruction set and one user prompt; neither reads
// the other's output.
func (e *Engine) dualReview(ctx context.Context, req Request) (rawA, rawB string, err error) {
	system := prompt.CriticInstructions(req.Criteria)
	user := prompt.UserPrompt(req.Content, req.Goal, req.Context, req.Criteria)
	messages := []provider.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var cerr error
		rawA, cerr = e.caller.Call(gctx, e.cfg.ReviewerA.Provider, messages, true, e.cfg.ReviewerA.Model)
		if cerr != nil {
			return fmt.Errorf("reviewer %s: %w", e.cfg.ReviewerA.DisplayName, cerr)
		}
		return nil
	})
	g.Go(func() error {
		var cerr error
		rawB, cerr = e.caller.Call(gctx, e.cfg.ReviewerB.Provider, messages, true, e.cfg.ReviewerB.Model)
		if cerr != nil {
			return fmt.Errorf("reviewer %s: %w", e.cfg.ReviewerB.DisplayName, cerr)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return "", "", err
	}
	return rawA, rawB, nil
}

// solve requests the improved final answer from the judge backend. The
// reply is plain text, so JSON forcing is disabled.
func (e *Engine) solve(ctx context.Context, req Request, reviewLabel, reviewJSON string) (string, error) {
	solution, err := e.caller.Call(ctx, e.cfg.Judge.Provider, []provider.Message{
		{Role: "system", Content: prompt.SolutionInstructions},
		{Role: "user", Content: prompt.SolutionRequest(req.Goal, req.Context, reviewLabel, reviewJSON)},
	}, false, e.cfg.Judge.Model)
	if err != nil {
		return "", fmt.Errorf("solution: %w", err)
	}
	return solution, nil
}

// judgeWinner normalizes the judge's winner declaration. Anything other
// than a clear A or B counts as a tie.
func judgeWinner(s string) Winner {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return WinnerA
	case "B":
		return WinnerB
	default:
		return WinnerTie
	}
}

func mustJSON(rec review.Record) string {
	b, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		// Record contains only JSON-decoded values, so this cannot happen.
		return "{}"
	}
	return string(b)
}
