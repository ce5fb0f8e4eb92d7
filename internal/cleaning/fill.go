package cleaning

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/insightsheet-cli/internal/table"
)

// Strategy selects how FillMissing picks a replacement value.
type Strategy string

const (
	FillMean     Strategy = "mean"
	FillMedian   Strategy = "median"
	FillMode     Strategy = "mode"
	FillForward  Strategy = "forward"
	FillBackward Strategy = "backward"
)

// ParseStrategy accepts a strategy name, including ffill/bfill shorthands.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mean", "average", "avg":
		return FillMean, nil
	case "median":
		return FillMedian, nil
	case "mode", "most_frequent":
		return FillMode, nil
	case "forward", "ffill", "forward_fill":
		return FillForward, nil
	case "backward", "bfill", "backward_fill":
		return FillBackward, nil
	}
	return "", fmt.Errorf("unknown fill strategy %q (use mean|median|mode|forward|backward)", s)
}

// FillMissing replaces missing cells in col. Mean and median use the
// column's numeric values, mode the most frequent non-missing value
// (earliest wins ties). Forward and backward fill copy the nearest
// non-missing neighbour and leave cells with no such neighbour missing.
// A column with nothing to fill from is returned unchanged.
func FillMissing(t table.Table, col string, strategy Strategy) (table.Table, error) {
	idx, err := t.MustIndex(col)
	if err != nil {
		return table.Table{}, err
	}
	out := t.Clone()
	vals, _ := t.Column(col)

	switch strategy {
	case FillMean, FillMedian, FillMode:
		fill, ok := fillValue(vals, strategy)
		if !ok {
			return out, nil
		}
		for _, r := range out.Rows {
			if r[idx].IsMissing() {
				r[idx] = fill
			}
		}
	case FillForward:
		var last table.Value
		have := false
		for _, r := range out.Rows {
			if r[idx].IsMissing() {
				if have {
					r[idx] = last
				}
				continue
			}
			last, have = r[idx], true
		}
	case FillBackward:
		var next table.Value
		have := false
		for i := len(out.Rows) - 1; i >= 0; i-- {
			r := out.Rows[i]
			if r[idx].IsMissing() {
				if have {
					r[idx] = next
				}
				continue
			}
			next, have = r[idx], true
		}
	default:
		return table.Table{}, fmt.Errorf("unknown fill strategy %q", strategy)
	}
	return out, nil
}

func fillValue(vals []table.Value, strategy Strategy) (table.Value, bool) {
	switch strategy {
	case FillMean:
		xs := numericPresent(vals)
		if len(xs) == 0 {
			return table.Value{}, false
		}
		var sum float64
		for _, x := range xs {
			sum += x
		}
		return table.Number(sum / float64(len(xs))), true
	case FillMedian:
		xs := numericPresent(vals)
		if len(xs) == 0 {
			return table.Value{}, false
		}
		sort.Float64s(xs)
		n := len(xs)
		if n%2 == 1 {
			return table.Number(xs[n/2]), true
		}
		return table.Number((xs[n/2-1] + xs[n/2]) / 2), true
	default:
		return mode(vals)
	}
}

func numericPresent(vals []table.Value) []float64 {
	xs := make([]float64, 0, len(vals))
	for _, v := range vals {
		if v.IsMissing() {
			continue
		}
		if f, ok := v.Float(); ok {
			xs = append(xs, f)
		}
	}
	return xs
}

func mode(vals []table.Value) (table.Value, bool) {
	type entry struct {
		v     table.Value
		count int
		first int
	}
	counts := map[string]*entry{}
	for i, v := range vals {
		if v.IsMissing() {
			continue
		}
		k := v.Kind().String() + ":" + v.String()
		e, ok := counts[k]
		if !ok {
			e = &entry{v: v, first: i}
			counts[k] = e
		}
		e.count++
	}
	var best *entry
	for _, e := range counts {
		if best == nil || e.count > best.count || (e.count == best.count && e.first < best.first) {
			best = e
		}
	}
	if best == nil {
		return table.Value{}, false
	}
	return best.v, true
}
