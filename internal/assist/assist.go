package assist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/KaramelBytes/insightsheet-cli/internal/ai"
	"github.com/KaramelBytes/insightsheet-cli/internal/profile"
	"github.com/KaramelBytes/insightsheet-cli/internal/table"
	"github.com/KaramelBytes/insightsheet-cli/internal/transform"
)

// DefaultSampleRows is how many rows accompany a suggestion prompt.
const DefaultSampleRows = 5

// Request describes one assistant call against a table.
type Request struct {
	// Name labels the dataset in prompts (usually the file name).
	Name  string
	Table table.Table
	// Prompt is the instruction for SuggestColumn or the question for Ask.
	Prompt      string
	Model       string
	MaxTokens   int
	Temperature float64
	SampleRows  int
	// OnDelta streams partial answers from Ask when the runtime supports it.
	OnDelta func(string)
}

func (r Request) generate(system, user string) ai.GenerateRequest {
	req := ai.Prompt(r.Model, system, user)
	req.MaxTokens = r.MaxTokens
	req.Temperature = r.Temperature
	return req
}

// SuggestColumn asks the runtime for a derived-column proposal and checks it
// against the table's headers before returning it.
func SuggestColumn(ctx context.Context, rt ai.Runtime, r Request) (transform.Suggestion, error) {
	if strings.TrimSpace(r.Prompt) == "" {
		return transform.Suggestion{}, errors.New("instruction cannot be empty")
	}
	n := r.SampleRows
	if n <= 0 {
		n = DefaultSampleRows
	}
	prompt, _ := SuggestPrompt(r.Table, r.Prompt, n)
	resp, err := rt.Generate(ctx, r.generate(suggestSystem, prompt))
	if err != nil {
		return transform.Suggestion{}, fmt.Errorf("suggest column: %w", err)
	}
	s, err := ParseSuggestion(resp.Text())
	if err != nil {
		return transform.Suggestion{}, err
	}
	if err := s.Validate(r.Table.Headers); err != nil {
		return s, fmt.Errorf("suggestion rejected: %w", err)
	}
	return s, nil
}

// ParseSuggestion decodes the first JSON object in reply, tolerating code
// fences and surrounding prose.
func ParseSuggestion(reply string) (transform.Suggestion, error) {
	var s transform.Suggestion
	obj, ok := extractObject(reply)
	if !ok {
		return s, &SuggestionError{Reply: reply, Err: errors.New("no JSON object found")}
	}
	if err := json.Unmarshal([]byte(obj), &s); err != nil {
		return s, &SuggestionError{Reply: reply, Err: err}
	}
	var missing []string
	if s.ColumnA == "" {
		missing = append(missing, "col_a")
	}
	if s.Op == "" {
		missing = append(missing, "op")
	}
	if s.NewColumnName == "" {
		missing = append(missing, "new_column_name")
	}
	if len(missing) > 0 {
		return s, &SuggestionError{Reply: reply, Err: fmt.Errorf("missing fields: %s", strings.Join(missing, ", "))}
	}
	return s, nil
}

// extractObject returns the first balanced {...} span, skipping braces inside
// JSON strings.
func extractObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inStr, esc := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case esc:
			esc = false
		case inStr && c == '\\':
			esc = true
		case c == '"':
			inStr = !inStr
		case inStr:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// Ask answers a free-form question using the table's profile as context.
func Ask(ctx context.Context, rt ai.Runtime, r Request) (string, error) {
	if strings.TrimSpace(r.Prompt) == "" {
		return "", errors.New("question cannot be empty")
	}
	opt := profile.DefaultOptions()
	if r.SampleRows > 0 {
		opt.SampleRows = r.SampleRows
	}
	opt.Correlations = true
	rep, err := profile.Build(r.Name, r.Table, opt)
	if err != nil {
		return "", err
	}
	budget := ai.ContextTokens(r.Model) - r.MaxTokens - 256
	prompt, _ := AskPrompt(rep.Markdown(), r.Prompt, budget)
	req := r.generate(askSystem, prompt)

	if sr, ok := rt.(ai.StreamRuntime); ok && r.OnDelta != nil {
		var sb strings.Builder
		err := sr.GenerateStream(ctx, req, func(d string) {
			sb.WriteString(d)
			r.OnDelta(d)
		})
		if err != nil {
			return "", fmt.Errorf("ask: %w", err)
		}
		return sb.String(), nil
	}
	resp, err := rt.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("ask: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}
