package export

import (
	"bufio"
	"io"
	"strings"

	"github.com/KaramelBytes/insightsheet-cli/internal/table"
)

// CSV serialises t as comma-separated text with a trailing newline.
func CSV(t table.Table) string {
	var sb strings.Builder
	_ = WriteCSV(&sb, t)
	return sb.String()
}

// WriteCSV writes t to w. Fields holding a comma, quote or line break are
// quoted and embedded quotes are doubled. Empty cells are written bare unless
// the record would be a blank line, which readers skip; that field is quoted.
func WriteCSV(w io.Writer, t table.Table) error {
	bw := bufio.NewWriter(w)
	writeLine := func(fields []string) error {
		blank := len(fields) == 1 && strings.TrimSpace(fields[0]) == ""
		for i, f := range fields {
			if i > 0 {
				if err := bw.WriteByte(','); err != nil {
					return err
				}
			}
			q := quote(f)
			if blank {
				q = `"` + f + `"`
			}
			if _, err := bw.WriteString(q); err != nil {
				return err
			}
		}
		return bw.WriteByte('\n')
	}
	if err := writeLine(t.Headers); err != nil {
		return err
	}
	fields := make([]string, len(t.Headers))
	for _, r := range t.Rows {
		for j := range fields {
			fields[j] = r[j].String()
		}
		if err := writeLine(fields); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func quote(s string) string {
	if !strings.ContainsAny(s, ",\"\r\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
