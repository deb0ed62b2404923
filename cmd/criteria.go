package cmd

import (
	"github.com/spf13/cobra"

	"mozart/internal/criteria"
)

var criteriaCmd = &cobra.Command{
	Use:   "criteria",
	Short: "List the available review criteria",
	RunE: func(cmd *cobra.Command, args []string) error {
		table := ui.Table([]string{"Key", "Label", "Description"})
		for _, c := range criteria.Catalog() {
			table.Append([]string{c.Key, c.Label, c.Description})
		}
		return table.Render()
	},
}

func init() {
	rootCmd.AddCommand(criteriaCmd)
}
