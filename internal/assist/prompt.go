package assist

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/insightsheet-cli/internal/table"
	"github.com/KaramelBytes/insightsheet-cli/internal/utils"
)

const suggestSystem = "You help users derive new spreadsheet columns. " +
	"Reply with a single JSON object and nothing else."

const askSystem = "You are a data analyst. Answer questions about the dataset described below. " +
	"Be concise and cite column names exactly as written."

// SuggestPrompt renders the column-suggestion prompt and its token estimate.
func SuggestPrompt(t table.Table, instruction string, sampleRows int) (string, int) {
	var sb strings.Builder
	sb.WriteString("[INSTRUCTIONS]\n")
	sb.WriteString(strings.TrimSpace(instruction))
	sb.WriteString("\n\n[COLUMNS]\n")
	for _, h := range t.VisibleHeaders() {
		sb.WriteString("- ")
		sb.WriteString(h)
		sb.WriteString("\n")
	}
	if sampleRows > 0 && len(t.Rows) > 0 {
		sb.WriteString("\n[SAMPLE ROWS]\n")
		for i := 0; i < sampleRows && i < len(t.Rows); i++ {
			cells := make([]string, len(t.Headers))
			for j, v := range t.Rows[i] {
				cells[j] = fmt.Sprintf("%s=%s", t.Headers[j], v.String())
			}
			sb.WriteString(strings.Join(cells, "; "))
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\n[RESPONSE FORMAT]\n")
	sb.WriteString(`{"col_a": "<existing column>", "col_b": "<existing column>", ` +
		`"op": "add|subtract|multiply|divide|percentage|concat", ` +
		`"new_column_name": "<name not in COLUMNS>", "separator": "<only for concat>", ` +
		`"explanation": "<one sentence>"}`)
	sb.WriteString("\n\n[TASK]\nPick the two columns and the operation that best satisfy the instructions.\n")
	prompt := sb.String()
	return prompt, utils.CountTokens(prompt)
}

// AskPrompt renders a question about a dataset profile, trimming the profile
// so the prompt stays within budget tokens.
func AskPrompt(profileMarkdown, question string, budget int) (string, int) {
	var tail strings.Builder
	tail.WriteString("\n[QUESTION]\n")
	tail.WriteString(strings.TrimSpace(question))
	tail.WriteString("\n")

	head := "[DATASET PROFILE]\n"
	room := budget - utils.CountTokens(head) - utils.CountTokens(tail.String())
	body := profileMarkdown
	if budget > 0 && utils.CountTokens(body) > room {
		body = utils.TruncateToTokenLimit(body, room) + "\n(profile truncated)\n"
	}
	prompt := head + body + tail.String()
	return prompt, utils.CountTokens(prompt)
}
