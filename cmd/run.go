package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/insightsheet-cli/internal/history"
	"github.com/KaramelBytes/insightsheet-cli/internal/parser"
	"github.com/KaramelBytes/insightsheet-cli/internal/pipeline"
	"github.com/KaramelBytes/insightsheet-cli/internal/utils"
)

var (
	runOutDir    string
	runFormat    string
	runSuffix    string
	runQuiet     bool
	runKeepGoing bool
	runPartial   bool
)

var runCmd = &cobra.Command{
	Use:   "run <recipe.yaml> <files...>",
	Short: "Apply a YAML cleaning recipe to one or more files",
	Long: `Apply a YAML recipe to every input file. Inputs may be glob patterns,
including ** for recursive matches. Results are written to --out-dir as
<name><suffix>.<format>; existing files are never overwritten.`,
	Example: `  insightsheet run recipe.yaml data/*.csv --out-dir cleaned
  insightsheet run recipe.yaml "exports/**/*.xlsx" --out-dir cleaned --format xlsx`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		r, err := pipeline.LoadRecipe(args[0])
		if err != nil {
			return err
		}
		files, err := utils.ExpandGlobs(args[1:], parser.Supported)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		format := strings.TrimPrefix(strings.ToLower(runFormat), ".")
		switch format {
		case "csv", "xlsx", "json", "md":
		default:
			return fmt.Errorf("unsupported --format: %s (use csv, xlsx, json or md)", runFormat)
		}
		limit := history.DefaultLimit
		if cfg != nil && cfg.HistoryLimit > 0 {
			limit = cfg.HistoryLimit
		}

		var failed []string
		total := len(files)
		for i, path := range files {
			if !runQuiet {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			err := runOne(cmd, r, path, format, limit)
			if err == nil {
				continue
			}
			if !runKeepGoing {
				return fmt.Errorf("%s: %w", path, err)
			}
			warn(cmd.ErrOrStderr(), "%s: %v", path, err)
			failed = append(failed, path)
		}
		if len(failed) > 0 {
			return fmt.Errorf("%d of %d files failed", len(failed), total)
		}
		return nil
	},
}

func runOne(cmd *cobra.Command, r pipeline.Recipe, path, format string, limit int) error {
	out := cmd.OutOrStdout()
	t, err := readTable(path)
	if err != nil {
		return err
	}
	h := history.New(limit)
	result, rep, runErr := pipeline.Run(t, r, h)
	if runErr != nil {
		var se *pipeline.StepError
		if !runPartial || !errors.As(runErr, &se) {
			return runErr
		}
		snap, ok := h.Current()
		if !ok {
			return runErr
		}
		warn(cmd.ErrOrStderr(), "%v; writing snapshot %q", runErr, snap.Label)
		result = snap.Table
	}
	slog.Debug("recipe history", "file", path, "snapshots", h.Labels())
	if !runQuiet {
		printSteps(out, rep)
	}
	dest, err := nextFreePath(runOutDir, path, runSuffix, format)
	if err != nil {
		return err
	}
	if err := writeTable(out, dest, result); err != nil {
		return err
	}
	return nil
}

// nextFreePath picks <dir>/<base><suffix>.<ext>, adding __2, __3... on collision.
func nextFreePath(dir, input, suffix, ext string) (string, error) {
	if dir == "" {
		dir = filepath.Dir(input)
	}
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base)) + suffix
	cand := filepath.Join(dir, stem+"."+ext)
	for idx := 2; ; idx++ {
		_, err := os.Stat(cand)
		if os.IsNotExist(err) {
			return cand, nil
		}
		if err != nil {
			return "", err
		}
		cand = filepath.Join(dir, fmt.Sprintf("%s__%d.%s", stem, idx, ext))
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	f := runCmd.Flags()
	f.StringVar(&runOutDir, "out-dir", "", "output directory (default: next to each input)")
	f.StringVar(&runFormat, "format", "csv", "output format: csv|xlsx|json|md")
	f.StringVar(&runSuffix, "suffix", ".clean", "appended to each output file name")
	f.BoolVar(&runQuiet, "quiet", false, "suppress progress and step summaries")
	f.BoolVar(&runKeepGoing, "keep-going", false, "continue with the next file when one fails")
	f.BoolVar(&runPartial, "partial", false, "on a failing step, still write the last good table")
}
