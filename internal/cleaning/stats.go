package cleaning

import (
	"math"
	"sort"

	"github.com/KaramelBytes/insightsheet-cli/internal/table"
)

// numeric collects the numeric readings of vals, skipping everything else.
func numeric(vals []table.Value) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if f, ok := v.Float(); ok {
			out = append(out, f)
		}
	}
	return out
}

// Quantile returns the p-quantile of xs by linear interpolation between the
// ranks around p*(n-1). xs need not be sorted. It returns NaN for no data.
func Quantile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	s := append([]float64(nil), xs...)
	sort.Float64s(s)
	return quantileSorted(s, p)
}

func quantileSorted(s []float64, p float64) float64 {
	pos := p * float64(len(s)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return s[lo]
	}
	frac := pos - float64(lo)
	return s[lo] + (s[hi]-s[lo])*frac
}

// Quartiles returns Q1 and Q3 of xs.
func Quartiles(xs []float64) (q1, q3 float64) {
	if len(xs) == 0 {
		return math.NaN(), math.NaN()
	}
	s := append([]float64(nil), xs...)
	sort.Float64s(s)
	return quantileSorted(s, 0.25), quantileSorted(s, 0.75)
}

// Bounds is the closed interval outside of which a value is an outlier.
type Bounds struct {
	Q1, Q3, IQR float64
	Low, High   float64
}

// IQRBounds computes [Q1 - k*IQR, Q3 + k*IQR] over xs. ok is false for no data.
func IQRBounds(xs []float64, k float64) (Bounds, bool) {
	if len(xs) == 0 {
		return Bounds{}, false
	}
	q1, q3 := Quartiles(xs)
	iqr := q3 - q1
	return Bounds{Q1: q1, Q3: q3, IQR: iqr, Low: q1 - k*iqr, High: q3 + k*iqr}, true
}

// Contains reports whether x lies within the bounds.
func (b Bounds) Contains(x float64) bool { return x >= b.Low && x <= b.High }
