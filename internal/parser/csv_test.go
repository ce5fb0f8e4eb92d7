package parser_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/insightsheet-cli/internal/parser"
	"github.com/KaramelBytes/insightsheet-cli/internal/table"
)

func TestParseCSVQuotedComma(t *testing.T) {
	tb, err := parser.ParseCSV("Name,Age\n\"Doe, John\",30\nJane,25\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Age"}, tb.Headers)
	require.Len(t, tb.Rows, 2)
	assert.Equal(t, table.Row{table.String("Doe, John"), table.Number(30)}, tb.Rows[0])
	assert.Equal(t, table.Row{table.String("Jane"), table.Number(25)}, tb.Rows[1])
}

func TestParseCSVEscapedQuotes(t *testing.T) {
	tb, err := parser.ParseCSV("Quote,N\n\"She said \"\"hi\"\", then left\",1\n")
	require.NoError(t, err)
	assert.Equal(t, table.String(`She said "hi", then left`), tb.Rows[0][0])
}

func TestParseCSVShortRowsAndBlankLines(t *testing.T) {
	tb, err := parser.ParseCSV("A,B,C\r\n\r\n1,x\r\n   \n2,y,3,extra\n")
	require.NoError(t, err)
	require.Len(t, tb.Rows, 2)
	assert.Equal(t, table.String(""), tb.Rows[0][2])
	assert.Len(t, tb.Rows[1], 3)
	assert.Equal(t, table.Number(3), tb.Rows[1][2])
}

func TestParseCSVNumericSniffing(t *testing.T) {
	tb, err := parser.ParseCSV("v\n 12.5 \n12abc\n\n-3e2\n0x1F\n")
	require.NoError(t, err)
	got := make([]table.Value, len(tb.Rows))
	for i, r := range tb.Rows {
		got[i] = r[0]
	}
	assert.Equal(t, []table.Value{
		table.Number(12.5),
		table.String("12abc"),
		table.Number(-300),
		table.String("0x1F"),
	}, got)
}

func TestParseCSVHeaderOnly(t *testing.T) {
	tb, err := parser.ParseCSV("Name,Age\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Age"}, tb.Headers)
	assert.Empty(t, tb.Rows)
}

func TestParseCSVStripsBOM(t *testing.T) {
	tb, err := parser.ParseCSV("\ufeffName,Age\nAnn,30\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Age"}, tb.Headers)
	assert.True(t, tb.Has("Name"))
}

func TestParseCSVEmptyInput(t *testing.T) {
	_, err := parser.ParseCSV(" \n\n")
	var pe *parser.ParseError
	require.ErrorAs(t, err, &pe)
}

func TestParseFileTSVAndBOM(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "scores.tsv")
	content := "\xEF\xBB\xBFteam\tscore\nred\t7\n"
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))

	tb, err := parser.ParseFile(p, parser.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"team", "score"}, tb.Headers)
	assert.Equal(t, table.Number(7), tb.Rows[0][1])
}

func TestParseBytesLatin1(t *testing.T) {
	// "Café" in ISO-8859-1
	content := []byte("name\nCaf\xe9\n")
	tb, err := parser.ParseBytes("menu.csv", content, parser.Options{Encoding: "latin1"})
	require.NoError(t, err)
	assert.Equal(t, table.String("Café"), tb.Rows[0][0])
}

func TestParseBytesUnsupported(t *testing.T) {
	_, err := parser.ParseBytes("notes.docx", []byte("x"), parser.Options{})
	assert.True(t, errors.Is(err, parser.ErrUnsupported))
}
