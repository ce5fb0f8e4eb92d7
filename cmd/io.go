package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/KaramelBytes/insightsheet-cli/internal/export"
	"github.com/KaramelBytes/insightsheet-cli/internal/parser"
	"github.com/KaramelBytes/insightsheet-cli/internal/table"
)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
)

func success(w io.Writer, format string, a ...any) {
	okColor.Fprintf(w, "✓ "+format+"\n", a...)
}

func warn(w io.Writer, format string, a ...any) {
	warnColor.Fprintf(w, "⚠ Warning: "+format+"\n", a...)
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case "\t", "tab", `\t`:
		return '\t', nil
	case ";":
		return ';', nil
	case "|", "pipe":
		return '|', nil
	}
	return 0, fmt.Errorf("unsupported --delimiter: %s", s)
}

func inputOptions() (parser.Options, error) {
	delim, err := parseDelimiter(inDelimiter)
	if err != nil {
		return parser.Options{}, err
	}
	opt := parser.Options{Delimiter: delim, Sheet: inSheet, Encoding: inEncoding}
	if opt.Encoding == "" && cfg != nil {
		opt.Encoding = cfg.CSVEncoding
	}
	return opt, nil
}

// readTable parses path with the shared input flags.
func readTable(path string) (table.Table, error) {
	opt, err := inputOptions()
	if err != nil {
		return table.Table{}, err
	}
	t, err := parser.ParseFile(path, opt)
	if err != nil {
		return table.Table{}, err
	}
	slog.Debug("table loaded", "path", path, "rows", t.Len(), "columns", len(t.Headers))
	return t, nil
}

// writeTable writes t to path by extension, or CSV to w when path is empty.
func writeTable(w io.Writer, path string, t table.Table) error {
	if path == "" {
		return export.WriteCSV(w, t)
	}
	if err := export.WriteFile(path, t); err != nil {
		return err
	}
	success(w, "Wrote %d rows × %d columns to %s", t.Len(), len(t.Headers), path)
	return nil
}

// renderPreview prints the first n rows as a terminal table.
func renderPreview(w io.Writer, t table.Table, n int) {
	if n <= 0 || len(t.Headers) == 0 {
		return
	}
	tw := tablewriter.NewWriter(w)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	headers := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		if h == "" {
			h = "(blank)"
		}
		headers[i] = h
	}
	tw.SetHeader(headers)
	for i, r := range t.Rows {
		if i >= n {
			break
		}
		cells := make([]string, len(r))
		for j, v := range r {
			cells[j] = strings.ReplaceAll(v.String(), "\n", " ")
		}
		tw.Append(cells)
	}
	tw.Render()
	if t.Len() > n {
		fmt.Fprintf(w, "… %d more rows\n", t.Len()-n)
	}
}
