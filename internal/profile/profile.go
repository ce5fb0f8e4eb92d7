package profile

import (
	"fmt"
	"math"
	"sort"

	"github.com/KaramelBytes/insightsheet-cli/internal/aggregate"
	"github.com/KaramelBytes/insightsheet-cli/internal/cleaning"
	"github.com/KaramelBytes/insightsheet-cli/internal/table"
)

// Options controls what the profile computes.
type Options struct {
	// SampleRows is how many leading rows to include in the report.
	SampleRows int
	// TopValues is how many frequent values to list per categorical column.
	TopValues int
	// OutlierThreshold is the IQR multiplier for outlier counts; 0 disables.
	OutlierThreshold float64
	// GroupBy summarises numeric columns per value of this column when set.
	GroupBy string
	// Correlations computes Pearson correlations among numeric columns.
	Correlations bool
}

// DefaultOptions returns reasonable defaults for dataset profiling.
func DefaultOptions() Options {
	return Options{
		SampleRows:       5,
		TopValues:        5,
		OutlierThreshold: cleaning.DefaultOutlierThreshold,
	}
}

// Report is a markdown-friendly profile of a table.
type Report struct {
	Name     string
	Rows     int
	Cols     []ColumnSummary
	Samples  [][]string
	Warnings []string
	Groups   []GroupResult
	Corr     []PairCorr
}

// ColumnSummary captures inferred kind and statistics per column.
type ColumnSummary struct {
	Name    string
	Kind    string // numeric|categorical|text|empty
	NonNull int
	Missing int
	Unique  int
	// numeric stats
	Min  float64
	Max  float64
	Mean float64
	Std  float64
	// IQR outliers
	OutliersCount    int
	OutlierThreshold float64
	// NonNumeric counts text cells in an otherwise numeric column.
	NonNumeric   int
	TopValues    []CategoryCount
	ExampleTexts []string
}

type CategoryCount struct {
	Value string
	Count int
}

// GroupResult holds per-group means of every numeric column.
type GroupResult struct {
	Key   string
	Size  int
	Means map[string]float64
}

// PairCorr is a Pearson correlation between two numeric columns.
type PairCorr struct {
	A, B string
	R    float64
	N    int
}

// Build profiles t. name labels the report (usually the file name).
func Build(name string, t table.Table, opt Options) (*Report, error) {
	if opt.SampleRows < 0 {
		opt.SampleRows = 0
	}
	if opt.TopValues <= 0 {
		opt.TopValues = 5
	}
	rep := &Report{Name: name, Rows: len(t.Rows)}

	var numericCols []string
	for j, h := range t.Headers {
		c := summarise(h, j, t, opt)
		if c.Kind == "numeric" {
			numericCols = append(numericCols, h)
			if c.NonNumeric > 0 {
				rep.Warnings = append(rep.Warnings, fmt.Sprintf("column %q is numeric but has %d text cells", h, c.NonNumeric))
			}
		}
		if h == "" {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("column %d has a blank header", j+1))
		}
		rep.Cols = append(rep.Cols, c)
	}

	for i := 0; i < opt.SampleRows && i < len(t.Rows); i++ {
		row := make([]string, len(t.Headers))
		for j, v := range t.Rows[i] {
			row[j] = v.String()
		}
		rep.Samples = append(rep.Samples, row)
	}

	if opt.GroupBy != "" {
		groups, err := groupMeans(t, opt.GroupBy, numericCols)
		if err != nil {
			return nil, err
		}
		rep.Groups = groups
	}
	if opt.Correlations {
		rep.Corr = correlations(t, numericCols)
	}
	return rep, nil
}

func summarise(name string, j int, t table.Table, opt Options) ColumnSummary {
	c := ColumnSummary{Name: name, Min: math.Inf(1), Max: math.Inf(-1)}
	var (
		nums   []float64
		mean   float64
		m2     float64
		counts = map[string]int{}
		order  []string
	)
	for _, r := range t.Rows {
		v := r[j]
		if v.IsMissing() {
			c.Missing++
			continue
		}
		c.NonNull++
		key := v.String()
		if _, ok := counts[key]; !ok {
			order = append(order, key)
		}
		counts[key]++
		x, ok := v.Float()
		if !ok {
			if len(c.ExampleTexts) < 3 {
				c.ExampleTexts = append(c.ExampleTexts, key)
			}
			continue
		}
		nums = append(nums, x)
		// Welford update
		delta := x - mean
		mean += delta / float64(len(nums))
		m2 += delta * (x - mean)
		c.Min = math.Min(c.Min, x)
		c.Max = math.Max(c.Max, x)
	}
	c.Unique = len(counts)

	switch {
	case c.NonNull == 0:
		c.Kind = "empty"
	case len(nums) > 0 && float64(len(nums)) >= 0.9*float64(c.NonNull):
		c.Kind = "numeric"
		c.NonNumeric = c.NonNull - len(nums)
		c.Mean = mean
		if len(nums) > 1 {
			c.Std = math.Sqrt(m2 / float64(len(nums)-1))
		}
		c.ExampleTexts = nil
		if opt.OutlierThreshold > 0 {
			if b, ok := cleaning.IQRBounds(nums, opt.OutlierThreshold); ok {
				c.OutlierThreshold = opt.OutlierThreshold
				for _, x := range nums {
					if !b.Contains(x) {
						c.OutliersCount++
					}
				}
			}
		}
	case c.Unique <= 20 || c.Unique*2 <= c.NonNull:
		c.Kind = "categorical"
		c.ExampleTexts = nil
		c.TopValues = topValues(counts, order, opt.TopValues)
	default:
		c.Kind = "text"
	}
	if c.Kind != "numeric" {
		c.Min, c.Max = 0, 0
	}
	return c
}

func topValues(counts map[string]int, order []string, k int) []CategoryCount {
	out := make([]CategoryCount, 0, len(order))
	for _, v := range order {
		out = append(out, CategoryCount{Value: v, Count: counts[v]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > k {
		out = out[:k]
	}
	return out
}

func groupMeans(t table.Table, by string, numericCols []string) ([]GroupResult, error) {
	sizes, err := aggregate.Counts(t, by, aggregate.Options{Limit: -1})
	if err != nil {
		return nil, err
	}
	groups := make([]GroupResult, len(sizes))
	index := map[string]int{}
	for i, p := range sizes {
		groups[i] = GroupResult{Key: p.FullName, Size: p.Count, Means: map[string]float64{}}
		index[p.FullName] = i
	}
	for _, col := range numericCols {
		if col == by {
			continue
		}
		pts, err := aggregate.Aggregate(t, by, col, "", aggregate.Options{Limit: -1})
		if err != nil {
			return nil, err
		}
		for _, p := range pts {
			groups[index[p.FullName]].Means[col] = p.Value
		}
	}
	return groups, nil
}

func correlations(t table.Table, cols []string) []PairCorr {
	var out []PairCorr
	for a := 0; a < len(cols); a++ {
		for b := a + 1; b < len(cols); b++ {
			ia, ib := t.Index(cols[a]), t.Index(cols[b])
			var n, sx, sy, sxx, syy, sxy float64
			for _, r := range t.Rows {
				x, okx := r[ia].Float()
				y, oky := r[ib].Float()
				if !okx || !oky {
					continue
				}
				n++
				sx += x
				sy += y
				sxx += x * x
				syy += y * y
				sxy += x * y
			}
			if n < 3 {
				continue
			}
			den := math.Sqrt((n*sxx - sx*sx) * (n*syy - sy*sy))
			if den == 0 {
				continue
			}
			out = append(out, PairCorr{A: cols[a], B: cols[b], R: (n*sxy - sx*sy) / den, N: int(n)})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return math.Abs(out[i].R) > math.Abs(out[j].R) })
	return out
}
