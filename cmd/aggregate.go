package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/insightsheet-cli/internal/aggregate"
	"github.com/KaramelBytes/insightsheet-cli/internal/table"
	"github.com/KaramelBytes/insightsheet-cli/internal/utils"
)

var (
	aggCategory string
	aggValue    string
	aggSecond   string
	aggPareto   bool
	aggLimit    int
	aggEnhanced bool
	aggCounts   bool
	aggJSON     bool
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate <file>",
	Short: "Group rows by a category and average a value column (chart data)",
	Example: `  insightsheet aggregate sales.csv --category Region --value Revenue
  insightsheet aggregate sales.csv --category Product --value Revenue --pareto --json
  insightsheet aggregate sales.csv --category Region --counts`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if aggCategory == "" {
			return fmt.Errorf("--category is required")
		}
		if aggValue == "" && !aggCounts {
			return fmt.Errorf("--value is required unless --counts is set")
		}
		t, err := readTable(args[0])
		if err != nil {
			return err
		}
		opt := aggregate.Options{Pareto: aggPareto, Limit: chartLimit(cmd)}

		var points []aggregate.Point
		if aggCounts {
			points, err = aggregate.Counts(t, aggCategory, opt)
		} else {
			points, err = aggregate.Aggregate(t, aggCategory, aggValue, aggSecond, opt)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if aggJSON {
			b, err := utils.PrettyJSON(points)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
			return nil
		}
		renderPoints(out, points)
		return nil
	},
}

// chartLimit resolves --limit, then --enhanced, then chart_limit from config.
func chartLimit(cmd *cobra.Command) int {
	switch {
	case cmd.Flags().Changed("limit"):
		if aggLimit == 0 {
			return -1
		}
		return aggLimit
	case aggEnhanced:
		return aggregate.EnhancedLimit
	case cfg != nil && cfg.ChartLimit > 0:
		return cfg.ChartLimit
	}
	return aggregate.DefaultLimit
}

func renderPoints(w io.Writer, points []aggregate.Point) {
	valueHeader := aggValue
	if aggCounts {
		valueHeader = "count"
	}
	headers := []string{aggCategory, valueHeader}
	if aggSecond != "" && !aggCounts {
		headers = append(headers, aggSecond)
	}
	if aggPareto {
		headers = append(headers, "cumulative %")
	}
	headers = append(headers, "n")

	tw := tablewriter.NewWriter(w)
	tw.SetAutoFormatHeaders(false)
	tw.SetHeader(headers)
	for _, p := range points {
		row := []string{p.Name, table.FormatNumber(p.Value)}
		if aggSecond != "" && !aggCounts {
			s := ""
			if p.Second != nil {
				s = table.FormatNumber(*p.Second)
			}
			row = append(row, s)
		}
		if aggPareto && p.Cumulative != nil {
			row = append(row, table.FormatNumber(*p.Cumulative))
		}
		row = append(row, strconv.Itoa(p.Count))
		tw.Append(row)
	}
	tw.Render()
}

func init() {
	rootCmd.AddCommand(aggregateCmd)
	f := aggregateCmd.Flags()
	f.StringVar(&aggCategory, "category", "", "column to group by")
	f.StringVar(&aggValue, "value", "", "numeric column to average per group")
	f.StringVar(&aggSecond, "second", "", "optional second numeric column")
	f.BoolVar(&aggPareto, "pareto", false, "sort descending and add cumulative percentages")
	f.IntVar(&aggLimit, "limit", aggregate.DefaultLimit, "max groups (0 for no limit)")
	f.BoolVar(&aggEnhanced, "enhanced", false, "use the enhanced view limit of 50 groups")
	f.BoolVar(&aggCounts, "counts", false, "count rows per category instead of averaging")
	f.BoolVar(&aggJSON, "json", false, "print chart points as JSON")
}
