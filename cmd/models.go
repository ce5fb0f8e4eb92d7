package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/insightsheet-cli/internal/ai"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List known models, their context windows and the available providers",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		tw := tablewriter.NewWriter(out)
		tw.SetAutoFormatHeaders(false)
		tw.SetHeader([]string{"model", "context tokens"})
		for _, m := range ai.Models() {
			tw.Append([]string{m.Name, strconv.Itoa(m.ContextTokens)})
		}
		tw.Render()

		defaults := make([]string, 0, 3)
		for _, p := range ai.Providers() {
			defaults = append(defaults, p+"="+ai.DefaultModel(p))
		}
		fmt.Fprintf(out, "providers: %s\n", strings.Join(defaults, ", "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
