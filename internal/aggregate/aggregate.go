package aggregate

import (
	"encoding/json"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/insightsheet-cli/internal/table"
)

const (
	// DefaultLimit caps the number of groups for regular charts.
	DefaultLimit = 10
	// EnhancedLimit is the cap used by the enhanced chart view.
	EnhancedLimit = 50

	labelMax     = 20
	labelKeep    = 17
	countsColumn = "count"
)

// Options controls grouping output.
type Options struct {
	// Limit caps the groups returned; 0 means DefaultLimit, negative means no cap.
	Limit int
	// Pareto sorts groups by value, descending, and adds a cumulative percentage.
	Pareto bool
}

// Point is one chart datum: a category and the mean of its value column(s).
type Point struct {
	// Name is the display label, shortened to 17 characters plus "..." past 20.
	Name string
	// FullName is the untruncated category for tooltips.
	FullName string
	Value    float64
	// Second is the mean of the optional second value column, nil if absent.
	Second *float64
	// Cumulative is set in Pareto mode.
	Cumulative *float64
	Count      int

	valueKey, secondKey string
}

// MarshalJSON emits {name, fullName, <valueCol>, <secondCol>?, cumulativePercentage?}.
func (p Point) MarshalJSON() ([]byte, error) {
	m := map[string]any{"name": p.Name, "fullName": p.FullName}
	key := p.valueKey
	if key == "" {
		key = "value"
	}
	m[key] = p.Value
	if p.Second != nil && p.secondKey != "" {
		m[p.secondKey] = *p.Second
	}
	if p.Cumulative != nil {
		m["cumulativePercentage"] = *p.Cumulative
	}
	return json.Marshal(m)
}

type group struct {
	key           string
	sum, sum2     float64
	count, count2 int
}

// Aggregate groups rows by the trimmed text of categoryCol and averages
// valueCol (and secondCol when non-empty) per group. Rows with a blank
// category or a non-numeric value are skipped. Groups keep first-seen order
// unless opt.Pareto is set; means are rounded to two decimals.
func Aggregate(t table.Table, categoryCol, valueCol, secondCol string, opt Options) ([]Point, error) {
	ci, err := t.MustIndex(categoryCol)
	if err != nil {
		return nil, err
	}
	vi, err := t.MustIndex(valueCol)
	if err != nil {
		return nil, err
	}
	si := -1
	if secondCol != "" {
		if si, err = t.MustIndex(secondCol); err != nil {
			return nil, err
		}
	}

	var order []*group
	byKey := map[string]*group{}
	for _, r := range t.Rows {
		key := strings.TrimSpace(r[ci].String())
		if key == "" {
			continue
		}
		x, ok := r[vi].Float()
		if !ok {
			continue
		}
		g := byKey[key]
		if g == nil {
			g = &group{key: key}
			byKey[key] = g
			order = append(order, g)
		}
		g.sum += x
		g.count++
		if si >= 0 {
			if y, ok := r[si].Float(); ok {
				g.sum2 += y
				g.count2++
			}
		}
	}

	points := make([]Point, 0, len(order))
	for _, g := range order {
		p := Point{
			Name:      Label(g.key),
			FullName:  g.key,
			Value:     Round2(g.sum / float64(g.count)),
			Count:     g.count,
			valueKey:  valueCol,
			secondKey: secondCol,
		}
		if si >= 0 && g.count2 > 0 {
			v := Round2(g.sum2 / float64(g.count2))
			p.Second = &v
		}
		points = append(points, p)
	}
	if opt.Pareto {
		pareto(points)
	}
	return capPoints(points, opt.Limit), nil
}

// Counts returns the number of rows per non-blank category, first-seen order.
func Counts(t table.Table, categoryCol string, opt Options) ([]Point, error) {
	ci, err := t.MustIndex(categoryCol)
	if err != nil {
		return nil, err
	}
	var order []string
	counts := map[string]int{}
	for _, r := range t.Rows {
		key := strings.TrimSpace(r[ci].String())
		if key == "" {
			continue
		}
		if _, ok := counts[key]; !ok {
			order = append(order, key)
		}
		counts[key]++
	}
	points := make([]Point, len(order))
	for i, k := range order {
		points[i] = Point{Name: Label(k), FullName: k, Value: float64(counts[k]), Count: counts[k], valueKey: countsColumn}
	}
	if opt.Pareto {
		pareto(points)
	}
	return capPoints(points, opt.Limit), nil
}

func pareto(points []Point) {
	sort.SliceStable(points, func(i, j int) bool { return points[i].Value > points[j].Value })
	var total float64
	for _, p := range points {
		total += p.Value
	}
	var running float64
	for i := range points {
		running += points[i].Value
		c := 0.0
		if total != 0 {
			c = Round2(running / total * 100)
		}
		points[i].Cumulative = &c
	}
}

func capPoints(points []Point, limit int) []Point {
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit > 0 && len(points) > limit {
		return points[:limit]
	}
	return points
}

// Label shortens categories longer than 20 characters to 17 plus "...".
func Label(s string) string {
	r := []rune(s)
	if len(r) <= labelMax {
		return s
	}
	return string(r[:labelKeep]) + "..."
}

// Round2 rounds half up to two decimals.
func Round2(x float64) float64 {
	return math.Floor(x*100+0.5) / 100
}
