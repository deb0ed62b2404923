package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"mozart/internal/config"
	"mozart/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved provider configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}

		ui.Info("Agent: %s  (timeout %s)", cfg.AgentName, cfg.Timeout)

		backends := ui.Table([]string{"Backend", "Base URL", "Default Model", "Credential", "Flexible"})
		for _, name := range []string{"openai", "deepseek"} {
			b := cfg.Backends[name]
			flexible := ""
			if b.FlexibleFormat {
				flexible = "yes"
			}
			backends.Append([]string{b.Name, b.BaseURL, b.DefaultModel, output.MaskCredential(b.APIKey), flexible})
		}
		if err := backends.Render(); err != nil {
			return err
		}

		fmt.Fprintln(ui.Out)

		participants := ui.Table([]string{"Role", "Backend", "Model"})
		for _, p := range []config.Participant{cfg.ReviewerA, cfg.ReviewerB, cfg.Judge} {
			participants.Append([]string{p.DisplayName, cfg.Resolve(p.Provider).Name, p.Model})
		}
		return participants.Render()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
