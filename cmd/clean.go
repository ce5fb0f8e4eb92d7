package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/insightsheet-cli/internal/history"
	"github.com/KaramelBytes/insightsheet-cli/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	cleanOutputPath string
	cleanAll        bool
	cleanDedupe     bool
	cleanTrim       bool
	cleanInfer      bool
	cleanOutliers   []string
	cleanThreshold  float64
	cleanFill       []string
	cleanUndoLast   int
)

var cleanCmd = &cobra.Command{
	Use:   "clean <file>",
	Short: "Deduplicate, trim, type, de-outlier and fill a table",
	Long: `Apply cleaning operations in a fixed order: dedupe, trim, infer types,
remove outliers, then fill missing values. --all runs the first three.
Without -o the cleaned table is written to stdout as CSV.
--undo-last N rolls back the last N steps before writing, which previews the
table as it stood earlier in the sequence.`,
	Example: `  insightsheet clean raw.csv --all -o clean.csv
  insightsheet clean raw.xlsx --outliers Price --threshold 3 -o clean.xlsx
  insightsheet clean raw.csv --fill Age:median --fill City:forward
  insightsheet clean raw.csv --all --outliers Price --undo-last 1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := cleanRecipe()
		if err != nil {
			return err
		}
		if len(r.Steps) == 0 {
			return fmt.Errorf("no cleaning operation selected (use --all, --dedupe, --trim, --infer, --outliers or --fill)")
		}
		t, err := readTable(args[0])
		if err != nil {
			return err
		}
		limit := history.DefaultLimit
		if cfg != nil && cfg.HistoryLimit > 0 {
			limit = cfg.HistoryLimit
		}
		if cleanUndoLast < 0 || cleanUndoLast > len(r.Steps) {
			return fmt.Errorf("--undo-last must be between 0 and %d", len(r.Steps))
		}
		h := history.New(limit)
		out, rep, err := pipeline.Run(t, r, h)
		if err != nil {
			return err
		}
		status := statusWriter(cmd, cleanOutputPath)
		printSteps(status, rep)
		for i := 0; i < cleanUndoLast; i++ {
			undone, _ := h.Current()
			snap, err := h.Undo()
			if err != nil {
				return fmt.Errorf("undo %s: %w", undone.Label, err)
			}
			fmt.Fprintf(status, "  undid %-10s back to %s (%d rows)\n", undone.Label, snap.Label, snap.Table.Len())
			out = snap.Table
		}
		return writeTable(cmd.OutOrStdout(), cleanOutputPath, out)
	},
}

func cleanRecipe() (pipeline.Recipe, error) {
	r := pipeline.Recipe{Name: "clean"}
	add := func(s pipeline.Step) { r.Steps = append(r.Steps, s) }
	if cleanAll {
		add(pipeline.Step{Op: pipeline.OpCleanAll})
	} else {
		if cleanDedupe {
			add(pipeline.Step{Op: pipeline.OpDedupe})
		}
		if cleanTrim {
			add(pipeline.Step{Op: pipeline.OpTrim})
		}
		if cleanInfer {
			add(pipeline.Step{Op: pipeline.OpInferTypes})
		}
	}
	threshold := cleanThreshold
	if threshold <= 0 && cfg != nil {
		threshold = cfg.OutlierThreshold
	}
	for _, col := range cleanOutliers {
		add(pipeline.Step{Op: pipeline.OpRemoveOutliers, Column: col, Threshold: threshold})
	}
	for _, spec := range cleanFill {
		i := strings.LastIndex(spec, ":")
		if i <= 0 || i == len(spec)-1 {
			return r, fmt.Errorf("invalid --fill %q (want column:strategy)", spec)
		}
		add(pipeline.Step{Op: pipeline.OpFillMissing, Column: spec[:i], Strategy: spec[i+1:]})
	}
	if len(r.Steps) == 0 {
		return r, nil
	}
	return r, r.Validate()
}

// statusWriter keeps stdout clean when the table itself goes there.
func statusWriter(cmd *cobra.Command, outputPath string) io.Writer {
	if outputPath == "" {
		return cmd.ErrOrStderr()
	}
	return cmd.OutOrStdout()
}

func printSteps(w io.Writer, rep *pipeline.Report) {
	for _, s := range rep.Steps {
		if s.Removed > 0 {
			fmt.Fprintf(w, "  %-16s %d rows, %d columns (removed %d)\n", s.Op, s.Rows, s.Columns, s.Removed)
			continue
		}
		fmt.Fprintf(w, "  %-16s %d rows, %d columns\n", s.Op, s.Rows, s.Columns)
	}
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	f := cleanCmd.Flags()
	f.StringVarP(&cleanOutputPath, "output", "o", "", "output file (.csv, .xlsx, .json, .md); stdout CSV if empty")
	f.BoolVar(&cleanAll, "all", false, "dedupe, trim and infer types")
	f.BoolVar(&cleanDedupe, "dedupe", false, "remove exact duplicate rows")
	f.BoolVar(&cleanTrim, "trim", false, "trim surrounding whitespace in text cells")
	f.BoolVar(&cleanInfer, "infer", false, "convert numeric-looking text to numbers")
	f.StringSliceVar(&cleanOutliers, "outliers", nil, "remove IQR outliers in this column (repeatable)")
	f.Float64Var(&cleanThreshold, "threshold", 0, "IQR multiplier for --outliers (default from config, 1.5)")
	f.StringArrayVar(&cleanFill, "fill", nil, "fill missing values, column:strategy with mean|median|mode|forward|backward (repeatable)")
	f.IntVar(&cleanUndoLast, "undo-last", 0, "roll back the last N steps before writing")
}
