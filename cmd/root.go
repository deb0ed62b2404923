package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mozart/internal/config"
	"mozart/internal/output"
)

// Package-level shared dependencies, initialized in cobra.OnInitialize.
var (
	ui *output.UI

	verbose bool

	buildVersion = "dev"
	buildCommit  = "none"
	buildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "mozart",
	Short: "Mozart - dual-reviewer AI evaluation",
	Long: `mozart evaluates a piece of text (typically an AI assistant's reply)
against a selectable set of review criteria. Two independent reviewer
backends score it, an optional judge merges their findings, and a final
improved answer is produced.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
}

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initDeps)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	// Environment first: .env.mozart next to the binary's working
	// directory, then the real environment via viper.
	config.LoadDotenv()
	viper.AutomaticEnv()
	config.SetDefaults(viper.GetViper())
}

func initDeps() {
	ui = output.New()
	ui.Verbose = verbose
}

// getConfig builds and validates the immutable process configuration.
// A missing credential for any referenced backend is fatal here, before
// any evaluation work starts.
func getConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("configuration: %w", err)
	}
	return cfg, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mozart %s (commit %s, built %s)\n", buildVersion, buildCommit, buildDate)
	},
}
