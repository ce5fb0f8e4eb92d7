package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/insightsheet-cli/internal/table"
)

// Options tunes how raw bytes become a table.
type Options struct {
	// Delimiter for delimited text. If 0, chosen from the file extension (',' or '\t').
	Delimiter rune
	// Encoding of delimited text: "utf-8" (default), "latin1", "windows-1252".
	Encoding string
	// Sheet selects a workbook sheet by name; empty means the first sheet.
	Sheet string
}

// Parser converts a buffer already read into memory into a Table.
type Parser interface {
	CanParse(filename string) bool
	Parse(content []byte, opt Options) (table.Table, error)
}

var registry []Parser

// Register adds a parser implementation to the registry.
func Register(p Parser) {
	registry = append(registry, p)
}

// ParseBytes selects a parser by filename and parses content.
func ParseBytes(filename string, content []byte, opt Options) (table.Table, error) {
	if opt.Delimiter == 0 && strings.EqualFold(filepath.Ext(filename), ".tsv") {
		opt.Delimiter = '\t'
	}
	for _, p := range registry {
		if p.CanParse(filename) {
			return p.Parse(content, opt)
		}
	}
	return table.Table{}, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(filename))
}

// ParseFile reads path and parses it with the matching parser.
func ParseFile(path string, opt Options) (table.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return table.Table{}, fmt.Errorf("read file: %w", err)
	}
	return ParseBytes(path, data, opt)
}

// Supported reports whether any registered parser accepts filename.
func Supported(filename string) bool {
	for _, p := range registry {
		if p.CanParse(filename) {
			return true
		}
	}
	return false
}

func init() {
	Register(csvParser{})
	Register(xlsxParser{})
	Register(markdownParser{})
}

// ErrUnsupported indicates a format is not supported.
var ErrUnsupported = errors.New("unsupported file format")
