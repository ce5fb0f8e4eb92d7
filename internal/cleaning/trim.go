package cleaning

import (
	"strings"

	"github.com/KaramelBytes/insightsheet-cli/internal/table"
)

// Trim strips leading and trailing whitespace from every string cell.
func Trim(t table.Table) table.Table {
	return t.MapCells(func(v table.Value) table.Value {
		if s, ok := v.Str(); ok {
			return table.String(strings.TrimSpace(s))
		}
		return v
	})
}

// InferTypes converts string cells that are entirely a finite number into numbers.
func InferTypes(t table.Table) table.Table {
	return t.MapCells(func(v table.Value) table.Value {
		if s, ok := v.Str(); ok {
			if f, ok := table.CoerceNumeric(s); ok {
				return table.Number(f)
			}
		}
		return v
	})
}

// CleanAll runs Dedupe, Trim and InferTypes in that order.
// Removed counts the duplicates dropped by the first step.
func CleanAll(t table.Table) Result {
	res := Dedupe(t)
	res.Table = InferTypes(Trim(res.Table))
	return res
}
