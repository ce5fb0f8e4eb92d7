package parser_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/insightsheet-cli/internal/parser"
	"github.com/KaramelBytes/insightsheet-cli/internal/table"
)

// workbook builds an in-memory xlsx from cell assignments on Sheet1.
func workbook(t *testing.T, cells map[string]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for axis, v := range cells {
		require.NoError(t, f.SetCellValue("Sheet1", axis, v))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParseSpreadsheetNativeTypes(t *testing.T) {
	data := workbook(t, map[string]any{
		"A1": "Region", "B1": "Units", "C1": "Code",
		"A2": "North", "B2": 42, "C2": "007",
		"A3": "South", "B3": 3.5, "C3": "12",
	})
	tb, err := parser.ParseSpreadsheet(data, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Region", "Units", "Code"}, tb.Headers)
	require.Len(t, tb.Rows, 2)
	assert.Equal(t, table.Number(42), tb.Rows[0][1])
	assert.Equal(t, table.Number(3.5), tb.Rows[1][1])
	// numeric-looking text stays text
	assert.Equal(t, table.String("007"), tb.Rows[0][2])
	assert.Equal(t, table.String("12"), tb.Rows[1][2])
}

func TestParseSpreadsheetBlankHeadersAndRows(t *testing.T) {
	data := workbook(t, map[string]any{
		"A1": "Name", "B1": "   ", "C1": "Score",
		"A2": "ann", "B2": "ignored", "C2": 9,
		"A3": "  ", "B3": "only under blank header",
		"A4": "bob", "C4": 7,
	})
	tb, err := parser.ParseSpreadsheet(data, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Score"}, tb.Headers)
	require.Len(t, tb.Rows, 2)
	assert.Equal(t, table.Row{table.String("ann"), table.Number(9)}, tb.Rows[0])
	assert.Equal(t, table.Row{table.String("bob"), table.Number(7)}, tb.Rows[1])
}

func TestParseSpreadsheetNoHeaders(t *testing.T) {
	data := workbook(t, map[string]any{"A2": "data without header"})
	_, err := parser.ParseSpreadsheet(data, "")
	var pe *parser.ParseError
	require.ErrorAs(t, err, &pe)
	assert.True(t, errors.Is(err, parser.ErrEmptyWorkbook))
}

func TestParseSpreadsheetGarbage(t *testing.T) {
	_, err := parser.ParseSpreadsheet([]byte("not a zip"), "")
	var pe *parser.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "xlsx", pe.Format)
}

func TestParseSpreadsheetSheetSelection(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	_, err := f.NewSheet("Data")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Data", "A1", "k"))
	require.NoError(t, f.SetCellValue("Data", "A2", 1))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	tb, err := parser.ParseBytes("book.xlsx", buf.Bytes(), parser.Options{Sheet: "data"})
	require.NoError(t, err)
	assert.Equal(t, []string{"k"}, tb.Headers)

	_, err = parser.ParseBytes("book.xlsx", buf.Bytes(), parser.Options{Sheet: "missing"})
	var pe *parser.ParseError
	require.ErrorAs(t, err, &pe)
}
