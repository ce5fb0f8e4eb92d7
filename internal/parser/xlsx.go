package parser

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/insightsheet-cli/internal/table"
)

type xlsxParser struct{}

func (xlsxParser) CanParse(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}

func (xlsxParser) Parse(content []byte, opt Options) (table.Table, error) {
	return ParseSpreadsheet(content, opt.Sheet)
}

// ParseSpreadsheet reads one sheet of a workbook (the first one when sheet is
// empty). Row 0 supplies the headers; blank header cells drop their column.
// Only cells the workbook stores as numbers become numbers; text that merely
// looks numeric stays text. Rows with no content under any kept column are dropped.
func ParseSpreadsheet(content []byte, sheet string) (table.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return table.Table{}, &ParseError{Format: "xlsx", Reason: "unreadable workbook", Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return table.Table{}, &ParseError{Format: "xlsx", Reason: "no sheets", Err: ErrEmptyWorkbook}
	}
	name := sheets[0]
	if sheet != "" {
		name = ""
		for _, s := range sheets {
			if strings.EqualFold(s, sheet) {
				name = s
				break
			}
		}
		if name == "" {
			return table.Table{}, &ParseError{
				Format: "xlsx",
				Reason: "sheet " + sheet + " not found (available: " + strings.Join(sheets, ", ") + ")",
			}
		}
	}

	raw, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return table.Table{}, &ParseError{Format: "xlsx", Reason: "read rows", Err: err}
	}
	if len(raw) == 0 {
		return table.Table{}, &ParseError{Format: "xlsx", Reason: "no rows", Err: ErrEmptyWorkbook}
	}

	var (
		headers []string
		cols    []int
	)
	for j, cell := range raw[0] {
		h := strings.TrimSpace(cell)
		if h == "" {
			continue
		}
		headers = append(headers, h)
		cols = append(cols, j)
	}
	if len(headers) == 0 {
		return table.Table{}, &ParseError{Format: "xlsx", Reason: "no header cells", Err: ErrEmptyWorkbook}
	}

	rows := make([]table.Row, 0, len(raw)-1)
	for i := 1; i < len(raw); i++ {
		rec := raw[i]
		row := make(table.Row, len(cols))
		blank := true
		for k, j := range cols {
			if j >= len(rec) {
				row[k] = table.String("")
				continue
			}
			v, err := sheetCell(f, name, j, i, rec[j])
			if err != nil {
				return table.Table{}, &ParseError{Format: "xlsx", Reason: "read cell", Err: err}
			}
			if strings.TrimSpace(v.String()) != "" {
				blank = false
			}
			row[k] = v
		}
		if blank {
			continue
		}
		rows = append(rows, row)
	}
	return table.Table{Headers: headers, Rows: rows}, nil
}

// sheetCell converts the raw text of the cell at zero-based (col, row)
// using the cell's stored type.
func sheetCell(f *excelize.File, sheet string, col, row int, raw string) (table.Value, error) {
	if raw == "" {
		return table.String(""), nil
	}
	axis, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return table.Value{}, err
	}
	typ, err := f.GetCellType(sheet, axis)
	if err != nil {
		return table.Value{}, err
	}
	switch typ {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if n, ok := table.CoerceNumeric(raw); ok {
			return table.Number(n), nil
		}
		return table.String(raw), nil
	case excelize.CellTypeBool:
		if raw == "1" || strings.EqualFold(raw, "true") {
			return table.String("TRUE"), nil
		}
		return table.String("FALSE"), nil
	default:
		return table.String(raw), nil
	}
}
