package table

import (
	"math"
	"strconv"
	"strings"
)

// Kind discriminates the Value union.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindString
	KindNumber
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	default:
		return "empty"
	}
}

// Value is a single cell: empty, a string, or a finite number.
// The zero Value is Empty.
type Value struct {
	kind Kind
	str  string
	num  float64
}

// Empty returns the missing-value sentinel.
func Empty() Value { return Value{} }

// String wraps s as a string cell. The empty string is kept as a string;
// IsMissing reports it as missing.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number wraps f as a numeric cell. Non-finite inputs become Empty so that
// NaN and Inf never enter a table.
func Number(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}
	}
	if f == 0 {
		f = 0 // fold -0
	}
	return Value{kind: KindNumber, num: f}
}

func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether the cell counts as missing: Empty or "".
func (v Value) IsMissing() bool {
	return v.kind == KindEmpty || (v.kind == KindString && v.str == "")
}

// Float returns the numeric reading of the cell. Numbers are returned as is,
// strings go through CoerceNumeric, Empty is never numeric.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindString:
		return CoerceNumeric(v.str)
	default:
		return 0, false
	}
}

// Str returns the raw string payload and whether the cell is a string.
func (v Value) Str() (string, bool) {
	return v.str, v.kind == KindString
}

// String renders the cell as text. Numbers use the shortest decimal form
// that round-trips; Empty renders as "".
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return FormatNumber(v.num)
	default:
		return ""
	}
}

// Any returns the cell as a plain Go value: string, float64 or nil.
func (v Value) Any() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	default:
		return nil
	}
}

// Equal compares kind and payload. All missing cells are equal to each other.
func (v Value) Equal(o Value) bool {
	if v.IsMissing() || o.IsMissing() {
		return v.IsMissing() && o.IsMissing()
	}
	if v.kind != o.kind {
		return false
	}
	if v.kind == KindNumber {
		return v.num == o.num
	}
	return v.str == o.str
}

// CoerceNumeric parses raw as a finite decimal number after trimming.
// Hex literals, digit separators and textual Inf/NaN are rejected.
func CoerceNumeric(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if strings.ContainsAny(s, "xX_pP") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Sniff turns raw text into a Number when it coerces, otherwise a String
// holding raw unchanged.
func Sniff(raw string) Value {
	if f, ok := CoerceNumeric(raw); ok {
		return Number(f)
	}
	return String(raw)
}

// FormatNumber prints f without exponent for ordinary magnitudes.
func FormatNumber(f float64) string {
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
