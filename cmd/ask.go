package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/insightsheet-cli/internal/ai"
	"github.com/KaramelBytes/insightsheet-cli/internal/assist"
	"github.com/KaramelBytes/insightsheet-cli/internal/utils"
)

var (
	askProvider   string
	askModel      string
	askOllamaHost string
	askMaxTokens  int
	askTemp       float64
	askSampleRows int
	askStream     bool
	askOutputPath string
)

var askCmd = &cobra.Command{
	Use:   "ask <file> <question>",
	Short: "Ask the LLM a question about a dataset",
	Example: `  insightsheet ask sales.csv "Which region has the highest average revenue?"
  insightsheet ask sales.xlsx "Any data quality issues?" --provider gemini --stream`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		t, err := readTable(args[0])
		if err != nil {
			return err
		}
		// Cached runtimes do not stream.
		rt, provider, err := newRuntime(cfg, runtimeOptions{ProviderFlag: askProvider, OllamaHost: askOllamaHost, NoCache: askStream})
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cfg)
		defer cancel()

		req := assist.Request{
			Name:        filepath.Base(args[0]),
			Table:       t,
			Prompt:      args[1],
			Model:       selectModel(cfg, provider, askModel),
			MaxTokens:   selectMaxTokens(cfg, askMaxTokens),
			Temperature: selectTemperature(cfg, askTemp, cmd.Flags().Changed("temperature")),
			SampleRows:  askSampleRows,
		}
		streamed := false
		if askStream {
			if _, ok := rt.(ai.StreamRuntime); ok && askOutputPath == "" {
				streamed = true
				req.OnDelta = func(d string) { fmt.Fprint(out, d) }
			} else if !ok {
				warn(cmd.ErrOrStderr(), "streaming not supported for %s; falling back to non-streaming", provider)
			}
		}

		answer, err := assist.Ask(ctx, rt, req)
		if err != nil {
			return err
		}
		if askOutputPath != "" {
			if err := utils.SafeWriteFile(askOutputPath, []byte(answer+"\n")); err != nil {
				return err
			}
			success(out, "Wrote answer to %s", askOutputPath)
			return nil
		}
		if streamed {
			fmt.Fprintln(out)
		} else {
			fmt.Fprintln(out, answer)
		}
		if debug {
			reportCache(cmd.ErrOrStderr(), rt)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
	f := askCmd.Flags()
	f.StringVar(&askProvider, "provider", "", "openrouter|ollama|gemini (default from config)")
	f.StringVar(&askModel, "model", "", "model name (default from config or provider)")
	f.StringVar(&askOllamaHost, "ollama-host", "", "Ollama base URL (default from config)")
	f.IntVar(&askMaxTokens, "max-tokens", 0, "max tokens in the reply (default from config)")
	f.Float64Var(&askTemp, "temperature", 0.2, "sampling temperature (default from config)")
	f.IntVar(&askSampleRows, "sample-rows", 5, "rows of the dataset included in the profile")
	f.BoolVar(&askStream, "stream", false, "stream the answer as it is generated")
	f.StringVarP(&askOutputPath, "output", "o", "", "write the answer to this file")
}
