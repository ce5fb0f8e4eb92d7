package ai

import "sort"

// ModelInfo describes a model's context window, used to budget prompts.
type ModelInfo struct {
	Name          string
	ContextTokens int
}

var models = map[string]ModelInfo{
	"openai/gpt-4o-mini":               {Name: "openai/gpt-4o-mini", ContextTokens: 128000},
	"openai/gpt-4.1-mini":              {Name: "openai/gpt-4.1-mini", ContextTokens: 128000},
	"anthropic/claude-3.5-sonnet":      {Name: "anthropic/claude-3.5-sonnet", ContextTokens: 200000},
	"deepseek/deepseek-r1:free":        {Name: "deepseek/deepseek-r1:free", ContextTokens: 128000},
	"meta-llama/llama-3.1-8b-instruct": {Name: "meta-llama/llama-3.1-8b-instruct", ContextTokens: 131072},
	"gemini-2.5-flash":                 {Name: "gemini-2.5-flash", ContextTokens: 1000000},
	"gemini-2.5-pro":                   {Name: "gemini-2.5-pro", ContextTokens: 1000000},
	"llama3:latest":                    {Name: "llama3:latest", ContextTokens: 8192},
	"llama3.1:8b-instruct":             {Name: "llama3.1:8b-instruct", ContextTokens: 8192},
	"mistral:7b-instruct":              {Name: "mistral:7b-instruct", ContextTokens: 8192},
	"phi3:mini-4k-instruct":            {Name: "phi3:mini-4k-instruct", ContextTokens: 4096},
}

// fallbackContextTokens is assumed for models missing from the catalog.
const fallbackContextTokens = 8192

// LookupModel returns ModelInfo and ok flag.
func LookupModel(name string) (ModelInfo, bool) {
	mi, ok := models[name]
	return mi, ok
}

// ContextTokens returns the model's context window, or a conservative default.
func ContextTokens(model string) int {
	if mi, ok := models[model]; ok && mi.ContextTokens > 0 {
		return mi.ContextTokens
	}
	return fallbackContextTokens
}

// DefaultModel is the model used for a provider when none is configured.
func DefaultModel(provider string) string {
	switch provider {
	case ProviderOllama:
		return "llama3.1:8b-instruct"
	case ProviderGemini:
		return "gemini-2.5-flash"
	default:
		return "openai/gpt-4o-mini"
	}
}

// Models lists the built-in catalog sorted by name.
func Models() []ModelInfo {
	out := make([]ModelInfo, 0, len(models))
	for _, mi := range models {
		out = append(out, mi)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
