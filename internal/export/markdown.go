package export

import (
	"strings"

	"github.com/KaramelBytes/insightsheet-cli/internal/table"
)

// Markdown renders t as a pipe table. Pipes inside cells are escaped and
// line breaks become spaces.
func Markdown(t table.Table) string {
	var sb strings.Builder
	writeRow := func(cells []string) {
		sb.WriteString("|")
		for _, c := range cells {
			sb.WriteString(" ")
			sb.WriteString(mdCell(c))
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
	}
	writeRow(t.Headers)
	sep := make([]string, len(t.Headers))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(sep)
	cells := make([]string, len(t.Headers))
	for _, r := range t.Rows {
		for j := range cells {
			cells[j] = r[j].String()
		}
		writeRow(cells)
	}
	return sb.String()
}

func mdCell(s string) string {
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
	return strings.ReplaceAll(s, "|", `\|`)
}
