package parser

import (
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/insightsheet-cli/internal/table"
)

// markdownParser reads the first pipe table in a Markdown document.
type markdownParser struct{}

func (markdownParser) CanParse(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

func (markdownParser) Parse(content []byte, opt Options) (table.Table, error) {
	text, err := decodeText(content, opt.Encoding)
	if err != nil {
		return table.Table{}, &ParseError{Format: "markdown", Reason: "decode", Err: err}
	}
	return ParseMarkdownTable(text)
}

// ParseMarkdownTable extracts the first table whose header row is followed by
// a |---| delimiter row. Cells are trimmed and numeric cells become numbers;
// the table ends at the first line that is not a pipe row.
func ParseMarkdownTable(text string) (table.Table, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i := 0; i+1 < len(lines); i++ {
		if !isPipeRow(lines[i]) || !isDelimiterRow(lines[i+1]) {
			continue
		}
		headers := pipeCells(lines[i])
		var rows []table.Row
		for _, ln := range lines[i+2:] {
			if !isPipeRow(ln) {
				break
			}
			cells := pipeCells(ln)
			row := make(table.Row, len(headers))
			for j := range headers {
				if j < len(cells) {
					row[j] = table.Sniff(cells[j])
				} else {
					row[j] = table.String("")
				}
			}
			rows = append(rows, row)
		}
		return table.Table{Headers: headers, Rows: rows}, nil
	}
	return table.Table{}, &ParseError{Format: "markdown", Reason: "no pipe table found"}
}

func isPipeRow(s string) bool {
	return strings.Contains(s, "|")
}

func isDelimiterRow(s string) bool {
	cells := pipeCells(s)
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		c = strings.Trim(c, ":")
		if len(c) < 3 || strings.Trim(c, "-") != "" {
			return false
		}
	}
	return true
}

// pipeCells splits a row on unescaped pipes, dropping the outer borders.
func pipeCells(s string) []string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "|")
	if strings.HasSuffix(s, "|") && !strings.HasSuffix(s, `\|`) {
		s = s[:len(s)-1]
	}
	var (
		cells []string
		cur   strings.Builder
	)
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\\' && i+1 < len(s) && s[i+1] == '|':
			cur.WriteByte('|')
			i++
		case s[i] == '|':
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(s[i])
		}
	}
	return append(cells, strings.TrimSpace(cur.String()))
}
