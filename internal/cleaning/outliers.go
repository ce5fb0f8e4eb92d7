package cleaning

import (
	"github.com/KaramelBytes/insightsheet-cli/internal/table"
)

// DefaultOutlierThreshold is the conventional Tukey fence multiplier.
const DefaultOutlierThreshold = 1.5

// RemoveOutliers drops rows whose numeric value in col falls outside
// [Q1 - threshold*IQR, Q3 + threshold*IQR]. Rows with a missing or
// non-numeric value in col are kept. A threshold <= 0 means the default.
//
// Fences are recomputed over the survivors until a pass removes nothing, so
// applying RemoveOutliers to its own output is a no-op. Survivors always lie
// within the fences of the original column.
func RemoveOutliers(t table.Table, col string, threshold float64) (Result, error) {
	if _, err := t.MustIndex(col); err != nil {
		return Result{}, err
	}
	if threshold <= 0 {
		threshold = DefaultOutlierThreshold
	}
	res := Result{Table: t.Clone()}
	for {
		vals, _ := res.Table.Column(col)
		b, ok := IQRBounds(numeric(vals), threshold)
		if !ok {
			return res, nil
		}
		pass, err := RemoveOutsideBounds(res.Table, col, b)
		if err != nil {
			return Result{}, err
		}
		if pass.Removed == 0 {
			return res, nil
		}
		res = Result{Table: pass.Table, Removed: res.Removed + pass.Removed}
	}
}

// RemoveOutsideBounds drops rows whose numeric value in col falls outside b.
func RemoveOutsideBounds(t table.Table, col string, b Bounds) (Result, error) {
	idx, err := t.MustIndex(col)
	if err != nil {
		return Result{}, err
	}
	kept := make([]table.Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		if f, ok := r[idx].Float(); ok && !b.Contains(f) {
			continue
		}
		kept = append(kept, append(table.Row(nil), r...))
	}
	return Result{Table: t.WithRows(kept), Removed: len(t.Rows) - len(kept)}, nil
}
