package parser

import (
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/insightsheet-cli/internal/table"
)

type csvParser struct{}

func (csvParser) CanParse(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".tsv", ".txt":
		return true
	}
	return false
}

func (csvParser) Parse(content []byte, opt Options) (table.Table, error) {
	text, err := decodeText(content, opt.Encoding)
	if err != nil {
		return table.Table{}, &ParseError{Format: "csv", Reason: "decode", Err: err}
	}
	delim := opt.Delimiter
	if delim == 0 {
		delim = ','
	}
	return ParseDelimited(text, delim)
}

// ParseCSV parses comma-separated text. The first non-blank line is the header.
func ParseCSV(text string) (table.Table, error) {
	return ParseDelimited(text, ',')
}

// ParseDelimited parses text split on delim. A leading byte order mark is
// dropped, blank lines are skipped, fields are trimmed, and numeric fields
// become numbers. Quoted fields may contain the delimiter and doubled quotes
// but not line breaks.
// A header with no data rows is a valid, empty table.
func ParseDelimited(text string, delim rune) (table.Table, error) {
	text = strings.TrimPrefix(text, "\ufeff")
	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		ln = strings.TrimSuffix(ln, "\r")
		if strings.TrimSpace(ln) == "" {
			continue
		}
		lines = append(lines, ln)
	}
	if len(lines) == 0 {
		return table.Table{}, &ParseError{Format: "csv", Reason: "no header row"}
	}
	headers := splitFields(lines[0], delim)
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}
	rows := make([]table.Row, 0, len(lines)-1)
	for _, ln := range lines[1:] {
		fields := splitFields(ln, delim)
		row := make(table.Row, len(headers))
		for j := range headers {
			if j < len(fields) {
				row[j] = table.Sniff(strings.TrimSpace(fields[j]))
			} else {
				row[j] = table.String("")
			}
		}
		rows = append(rows, row)
	}
	return table.Table{Headers: headers, Rows: rows}, nil
}

// splitFields scans one line, honouring double-quoted fields.
func splitFields(line string, delim rune) []string {
	var (
		fields   []string
		cur      strings.Builder
		inQuotes bool
	)
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				cur.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case c == delim && !inQuotes:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(c)
		}
	}
	return append(fields, cur.String())
}
