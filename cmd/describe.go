package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/insightsheet-cli/internal/profile"
	"github.com/KaramelBytes/insightsheet-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	descOutputPath string
	descSampleRows int
	descTopValues  int
	descGroupBy    string
	descCorr       bool
	descOutlierThr float64
	descPreview    int
)

var describeCmd = &cobra.Command{
	Use:   "describe <file>",
	Short: "Profile a CSV/TSV/XLSX file and print a Markdown summary",
	Example: `  insightsheet describe sales.csv
  insightsheet describe sales.xlsx --sheet Q1 --group-by Region --correlations
  insightsheet describe sales.csv --preview 10 -o sales.summary.md`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		out := cmd.OutOrStdout()
		t, err := readTable(path)
		if err != nil {
			return err
		}

		opt := profile.DefaultOptions()
		if cmd.Flags().Changed("sample-rows") {
			opt.SampleRows = descSampleRows
		}
		if descTopValues > 0 {
			opt.TopValues = descTopValues
		}
		switch {
		case cmd.Flags().Changed("outlier-threshold"):
			opt.OutlierThreshold = descOutlierThr
		case cfg != nil && cfg.OutlierThreshold > 0:
			opt.OutlierThreshold = cfg.OutlierThreshold
		}
		opt.GroupBy = descGroupBy
		opt.Correlations = descCorr

		rep, err := profile.Build(filepath.Base(path), t, opt)
		if err != nil {
			return err
		}
		md := rep.Markdown()

		if descOutputPath != "" {
			if err := utils.SafeWriteFile(descOutputPath, []byte(md)); err != nil {
				return err
			}
			success(out, "Wrote summary to %s", descOutputPath)
		} else {
			fmt.Fprint(out, md)
		}
		renderPreview(out, t, descPreview)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	f := describeCmd.Flags()
	f.StringVarP(&descOutputPath, "output", "o", "", "write the Markdown summary to this file")
	f.IntVar(&descSampleRows, "sample-rows", 5, "rows to include in the summary (0 disables)")
	f.IntVar(&descTopValues, "top", 5, "top values listed per categorical column")
	f.StringVar(&descGroupBy, "group-by", "", "summarise numeric columns per value of this column")
	f.BoolVar(&descCorr, "correlations", false, "include Pearson correlations between numeric columns")
	f.Float64Var(&descOutlierThr, "outlier-threshold", 1.5, "IQR multiplier for outlier counts (0 disables)")
	f.IntVar(&descPreview, "preview", 0, "also print the first N rows as a table")
}
