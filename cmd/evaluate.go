package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"mozart/internal/criteria"
	"mozart/internal/eval"
	"mozart/internal/output"
	"mozart/internal/provider"
)

var (
	evalMode     string
	evalGoal     string
	evalContext  string
	evalCriteria []string
	evalJSON     bool
	evalReport   bool
	evalOut      string
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [file]",
	Short: "Evaluate content with two reviewers and produce an improved answer",
	Long: `Evaluate reads the content under review from a file argument or stdin,
dispatches it to both configured reviewers, and prints the scored result.

Fast mode picks the winner by average score. Full mode adds an explicit
judge call that merges both reviews before the solution is produced.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEvaluate,
}

func init() {
	evaluateCmd.Flags().StringVarP(&evalMode, "mode", "m", "fast", "Evaluation mode: fast or full")
	evaluateCmd.Flags().StringVarP(&evalGoal, "goal", "g", "", "Primary goal of the content under review")
	evaluateCmd.Flags().StringVarP(&evalContext, "context", "c", "", "Context and constraints")
	evaluateCmd.Flags().StringSliceVar(&evalCriteria, "criteria", nil, "Criteria keys to review against (empty = general review)")
	evaluateCmd.Flags().BoolVar(&evalJSON, "json", false, "Print the full result as JSON")
	evaluateCmd.Flags().BoolVar(&evalReport, "report", false, "Print a markdown report")
	evaluateCmd.Flags().StringVarP(&evalOut, "out", "o", "", "Write the output to a file instead of stdout")

	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg, err := getConfig()
	if err != nil {
		return err
	}

	content, err := readContent(args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("nothing to evaluate: provide a file argument or pipe content on stdin")
	}

	sel, err := criteria.NewSelection(evalCriteria...)
	if err != nil {
		return err
	}

	mode, ok := eval.ParseMode(evalMode)
	if !ok {
		return fmt.Errorf("unknown mode %q (want fast or full)", evalMode)
	}

	if sel.IsEmpty() {
		ui.VerboseLog("no criteria selected, running a general review")
	} else {
		ui.VerboseLog("criteria: %s", strings.Join(sel.Keys(), ", "))
	}
	ui.Info("Running %s evaluation (%s vs %s, judge %s)",
		mode, cfg.ReviewerA.DisplayName, cfg.ReviewerB.DisplayName, cfg.Judge.Provider)

	engine := eval.NewEngine(cfg, provider.NewGateway(cfg))
	res, err := engine.Run(context.Background(), mode, eval.Request{
		Content:  content,
		Goal:     evalGoal,
		Context:  evalContext,
		Criteria: sel,
	})
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	return writeResult(cfg.AgentName, res)
}

func readContent(args []string) (string, error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("read content file: %w", err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func writeResult(agentName string, res *eval.Result) error {
	var rendered string
	switch {
	case evalJSON:
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		rendered = string(data) + "\n"
	case evalReport:
		rendered = output.Report(agentName, res)
	}

	if evalOut != "" {
		if rendered == "" {
			rendered = output.Report(agentName, res)
		}
		if err := os.WriteFile(evalOut, []byte(rendered), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		ui.Success("Wrote %s", evalOut)
		return nil
	}

	if rendered != "" {
		fmt.Fprint(ui.Out, rendered)
		return nil
	}

	ui.PrintResult(res)
	return nil
}
