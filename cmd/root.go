package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/insightsheet-cli/internal/config"
	"github.com/KaramelBytes/insightsheet-cli/internal/logging"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Retry/HTTP flags (override config if set)
	flagHTTPTimeoutSec   int
	flagRetryMaxAttempts int
	flagRetryBaseDelayMs int
	flagRetryMaxDelayMs  int

	// Input flags shared by every command that reads a table
	inSheet     string
	inDelimiter string
	inEncoding  string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "insightsheet",
	Short: "InsightSheet CLI: clean, transform and chart spreadsheets",
	Long: `InsightSheet loads CSV, TSV and XLSX files, cleans them (dedupe, trim, type
inference, IQR outliers, missing values), derives new columns, aggregates chart
data and asks an LLM (OpenRouter, Ollama or Gemini) about the dataset.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ~/.insightsheet/config.yaml)")
	pf.BoolVar(&debug, "debug", false, "enable debug logging on stderr")
	pf.IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP client timeout in seconds (overrides config)")
	pf.IntVar(&flagRetryMaxAttempts, "retry-max", 0, "max retry attempts on 429/5xx (overrides config)")
	pf.IntVar(&flagRetryBaseDelayMs, "retry-base-ms", 0, "base retry backoff in ms (overrides config)")
	pf.IntVar(&flagRetryMaxDelayMs, "retry-max-ms", 0, "max retry backoff cap in ms (overrides config)")
	pf.StringVar(&inSheet, "sheet", "", "worksheet name for XLSX input (default: first sheet)")
	pf.StringVar(&inDelimiter, "delimiter", "", "delimiter for text input: ',', ';', '|' or 'tab'")
	pf.StringVar(&inEncoding, "encoding", "", "text input encoding: utf-8, latin1 or windows-1252 (overrides config)")
}

func loadConfig() {
	logging.Install(logging.New(debug))

	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: data commands work without a config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c

	f := rootCmd.PersistentFlags()
	if f.Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		cfg.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
	if f.Changed("retry-max") && flagRetryMaxAttempts > 0 {
		cfg.RetryMaxAttempts = flagRetryMaxAttempts
	}
	if f.Changed("retry-base-ms") && flagRetryBaseDelayMs > 0 {
		cfg.RetryBaseDelayMs = flagRetryBaseDelayMs
	}
	if f.Changed("retry-max-ms") && flagRetryMaxDelayMs > 0 {
		cfg.RetryMaxDelayMs = flagRetryMaxDelayMs
	}
}
