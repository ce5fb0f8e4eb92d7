package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/insightsheet-cli/internal/assist"
	"github.com/KaramelBytes/insightsheet-cli/internal/utils"
)

var (
	sugProvider    string
	sugModel       string
	sugOllamaHost  string
	sugMaxTokens   int
	sugTemp        float64
	sugSampleRows  int
	sugApply       bool
	sugOutputPath  string
	sugPrintPrompt bool
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <file> <instruction>",
	Short: "Ask the LLM to propose a derived column",
	Example: `  insightsheet suggest sales.csv "profit margin as a percentage of revenue"
  insightsheet suggest sales.csv "full customer name" --apply -o out.csv
  insightsheet suggest sales.csv "total cost" --provider ollama --model llama3.1:8b-instruct`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		t, err := readTable(args[0])
		if err != nil {
			return err
		}
		if sugPrintPrompt {
			n := sugSampleRows
			if n <= 0 {
				n = assist.DefaultSampleRows
			}
			prompt, tokens := assist.SuggestPrompt(t, args[1], n)
			fmt.Fprintln(out, prompt)
			fmt.Fprintf(out, "~%d prompt tokens\n", tokens)
			return nil
		}

		rt, provider, err := newRuntime(cfg, runtimeOptions{ProviderFlag: sugProvider, OllamaHost: sugOllamaHost})
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cfg)
		defer cancel()

		s, err := assist.SuggestColumn(ctx, rt, assist.Request{
			Name:        filepath.Base(args[0]),
			Table:       t,
			Prompt:      args[1],
			Model:       selectModel(cfg, provider, sugModel),
			MaxTokens:   selectMaxTokens(cfg, sugMaxTokens),
			Temperature: selectTemperature(cfg, sugTemp, cmd.Flags().Changed("temperature")),
			SampleRows:  sugSampleRows,
		})
		if err != nil {
			return err
		}

		status := statusWriter(cmd, sugOutputPath)
		if !sugApply {
			status = out
		}
		b, err := utils.PrettyJSON(s)
		if err != nil {
			return err
		}
		fmt.Fprintln(status, string(b))
		if debug {
			reportCache(cmd.ErrOrStderr(), rt)
		}
		if !sugApply {
			return nil
		}
		next, err := s.Apply(t)
		if err != nil {
			return err
		}
		success(status, "Added column %q", s.NewColumnName)
		return writeTable(out, sugOutputPath, next)
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)
	f := suggestCmd.Flags()
	f.StringVar(&sugProvider, "provider", "", "openrouter|ollama|gemini (default from config)")
	f.StringVar(&sugModel, "model", "", "model name (default from config or provider)")
	f.StringVar(&sugOllamaHost, "ollama-host", "", "Ollama base URL (default from config)")
	f.IntVar(&sugMaxTokens, "max-tokens", 0, "max tokens in the reply (default from config)")
	f.Float64Var(&sugTemp, "temperature", 0.2, "sampling temperature (default from config)")
	f.IntVar(&sugSampleRows, "sample-rows", assist.DefaultSampleRows, "rows sent as examples")
	f.BoolVar(&sugApply, "apply", false, "apply the suggestion and write the table")
	f.StringVarP(&sugOutputPath, "output", "o", "", "output file for --apply; stdout CSV if empty")
	f.BoolVar(&sugPrintPrompt, "print-prompt", false, "print the prompt without calling the LLM")
}
