package export_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/insightsheet-cli/internal/export"
	"github.com/KaramelBytes/insightsheet-cli/internal/parser"
	"github.com/KaramelBytes/insightsheet-cli/internal/table"
)

func sample() table.Table {
	return table.New([]string{"Name", "Note", "Age"}, []table.Row{
		{table.String("Doe, John"), table.String(`said "hi"`), table.Number(30)},
		{table.String("Jane"), table.String(""), table.Number(25.5)},
		{table.String("Max"), table.Empty(), table.String("n/a")},
	})
}

func TestCSVQuoting(t *testing.T) {
	got := export.CSV(sample())
	want := "Name,Note,Age\n" +
		"\"Doe, John\",\"said \"\"hi\"\"\",30\n" +
		"Jane,,25.5\n" +
		"Max,,n/a\n"
	assert.Equal(t, want, got)
}

func TestCSVRoundTrip(t *testing.T) {
	src := sample()
	back, err := parser.ParseCSV(export.CSV(src))
	require.NoError(t, err)
	assert.True(t, src.Equal(back), "round trip changed table: %#v", back)
}

func TestCSVSingleColumnEmptyCellsSurvive(t *testing.T) {
	src := table.New([]string{"Note"}, []table.Row{
		{table.String("a")}, {table.String("")}, {table.Empty()}, {table.String("b")},
	})
	out := export.CSV(src)
	assert.Equal(t, "Note\na\n\"\"\n\"\"\nb\n", out)

	back, err := parser.ParseCSV(out)
	require.NoError(t, err)
	require.Len(t, back.Rows, 4)
	assert.True(t, src.Equal(back), "round trip changed table: %#v", back)
}

func TestCSVRoundTripRetypesNumericText(t *testing.T) {
	src := table.New([]string{"zip"}, []table.Row{{table.String("02134")}})
	back, err := parser.ParseCSV(export.CSV(src))
	require.NoError(t, err)
	// numeric-looking text comes back as a number
	assert.Equal(t, table.Number(2134), back.Rows[0][0])
}

func TestXLSXRoundTrip(t *testing.T) {
	src := sample()
	b, err := export.XLSX(src)
	require.NoError(t, err)
	back, err := parser.ParseSpreadsheet(b, export.DefaultSheet)
	require.NoError(t, err)
	assert.Equal(t, src.Headers, back.Headers)
	require.Len(t, back.Rows, 3)
	assert.Equal(t, table.Number(30), back.Rows[0][2])
	assert.Equal(t, table.String("n/a"), back.Rows[2][2])
	assert.Equal(t, table.String(`said "hi"`), back.Rows[0][1])
}

func TestWriteFileJSON(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, export.WriteFile(p, sample()))
	b, err := export.Encode("x.json", sample())
	require.NoError(t, err)
	var recs []map[string]any
	require.NoError(t, json.Unmarshal(b, &recs))
	require.Len(t, recs, 3)
	assert.Equal(t, 30.0, recs[0]["Age"])
	assert.Nil(t, recs[2]["Note"])
}

func TestEncodeUnsupported(t *testing.T) {
	_, err := export.Encode("x.pdf", sample())
	require.Error(t, err)
}

func TestMarkdownRoundTrip(t *testing.T) {
	src := table.New([]string{"Name", "Score"}, []table.Row{
		{table.String("a|b"), table.Number(1.5)},
		{table.String("line\nbreak"), table.Number(2)},
	})
	md := export.Markdown(src)
	assert.Equal(t, "| Name | Score |\n| --- | --- |\n| a\\|b | 1.5 |\n| line break | 2 |\n", md)

	back, err := parser.ParseMarkdownTable(md)
	require.NoError(t, err)
	assert.Equal(t, "a|b", back.Rows[0][0].String())
	assert.Equal(t, table.Number(2), back.Rows[1][1])
}
