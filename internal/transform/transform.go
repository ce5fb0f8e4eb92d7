package transform

import (
	"errors"
	"strings"

	"github.com/KaramelBytes/insightsheet-cli/internal/table"
)

// Op is a binary operation between two columns.
type Op string

const (
	Add        Op = "add"
	Subtract   Op = "subtract"
	Multiply   Op = "multiply"
	Divide     Op = "divide"
	Percentage Op = "percentage"
	Concat     Op = "concat"
)

var opAliases = map[string]Op{
	"add": Add, "+": Add, "sum": Add, "plus": Add,
	"subtract": Subtract, "-": Subtract, "minus": Subtract, "difference": Subtract,
	"multiply": Multiply, "*": Multiply, "x": Multiply, "times": Multiply, "product": Multiply,
	"divide": Divide, "/": Divide, "ratio": Divide, "div": Divide,
	"percentage": Percentage, "%": Percentage, "percent": Percentage,
	"concat": Concat, "concatenate": Concat, "join": Concat, "combine": Concat,
}

// ParseOp resolves an operation name or symbol.
func ParseOp(s string) (Op, error) {
	if op, ok := opAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return op, nil
	}
	return "", &UnsupportedOperationError{Op: s}
}

// Numeric reports whether op coerces its operands to numbers.
func (op Op) Numeric() bool { return op != Concat }

// Spec describes one derived column.
type Spec struct {
	ColumnA   string
	ColumnB   string
	Op        Op
	NewColumn string
	// Separator joins the operands for Concat.
	Separator string
}

// Validate checks the spec against the headers of the table it will run on.
func (s Spec) Validate(headers []string) error {
	t := table.Table{Headers: headers}
	if _, err := t.MustIndex(s.ColumnA); err != nil {
		return err
	}
	if _, err := t.MustIndex(s.ColumnB); err != nil {
		return err
	}
	if strings.TrimSpace(s.NewColumn) == "" {
		return errors.New("new column name is empty")
	}
	if t.Has(s.NewColumn) {
		return &NameCollisionError{Column: s.NewColumn}
	}
	_, err := ParseOp(string(s.Op))
	return err
}

// Apply returns a copy of t with s.NewColumn appended. A numeric op whose
// operands do not both coerce to numbers, or whose result is not finite
// (division by zero), leaves that row's cell empty.
func Apply(t table.Table, s Spec) (table.Table, error) {
	if err := s.Validate(t.Headers); err != nil {
		return table.Table{}, err
	}
	op, _ := ParseOp(string(s.Op))
	ia, ib := t.Index(s.ColumnA), t.Index(s.ColumnB)
	values := make([]table.Value, len(t.Rows))
	for i, r := range t.Rows {
		values[i] = compute(op, r[ia], r[ib], s.Separator)
	}
	return t.WithColumn(s.NewColumn, values)
}

// ApplyTransform is the positional form of Apply.
func ApplyTransform(t table.Table, colA, colB string, op Op, newColumn, separator string) (table.Table, error) {
	return Apply(t, Spec{ColumnA: colA, ColumnB: colB, Op: op, NewColumn: newColumn, Separator: separator})
}

func compute(op Op, a, b table.Value, sep string) table.Value {
	if op == Concat {
		return table.String(a.String() + sep + b.String())
	}
	x, okA := a.Float()
	y, okB := b.Float()
	if !okA || !okB {
		return table.Empty()
	}
	switch op {
	case Add:
		return table.Number(x + y)
	case Subtract:
		return table.Number(x - y)
	case Multiply:
		return table.Number(x * y)
	case Divide:
		if y == 0 {
			return table.Empty()
		}
		return table.Number(x / y)
	case Percentage:
		if y == 0 {
			return table.Empty()
		}
		return table.Number(x / y * 100)
	}
	return table.Empty()
}
