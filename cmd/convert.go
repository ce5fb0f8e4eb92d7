package cmd

import (
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input> <output>",
	Short: "Convert between CSV, TSV, XLSX, Markdown and JSON",
	Example: `  insightsheet convert report.xlsx report.csv --sheet Summary
  insightsheet convert legacy.csv legacy.xlsx --encoding windows-1252`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := readTable(args[0])
		if err != nil {
			return err
		}
		return writeTable(cmd.OutOrStdout(), args[1], t)
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
}
