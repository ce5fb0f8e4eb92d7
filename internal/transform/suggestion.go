package transform

import (
	"github.com/KaramelBytes/insightsheet-cli/internal/table"
)

// Suggestion is the structured column proposal an assistant returns.
type Suggestion struct {
	ColumnA       string `json:"col_a"`
	ColumnB       string `json:"col_b"`
	Op            string `json:"op"`
	NewColumnName string `json:"new_column_name"`
	Separator     string `json:"separator,omitempty"`
	Explanation   string `json:"explanation,omitempty"`
}

// Spec converts the suggestion, resolving op aliases.
func (s Suggestion) Spec() (Spec, error) {
	op, err := ParseOp(s.Op)
	if err != nil {
		return Spec{}, err
	}
	return Spec{
		ColumnA:   s.ColumnA,
		ColumnB:   s.ColumnB,
		Op:        op,
		NewColumn: s.NewColumnName,
		Separator: s.Separator,
	}, nil
}

// Validate checks that both source columns exist and the target does not.
func (s Suggestion) Validate(headers []string) error {
	spec, err := s.Spec()
	if err != nil {
		return err
	}
	return spec.Validate(headers)
}

// Apply validates and applies the suggestion to t.
func (s Suggestion) Apply(t table.Table) (table.Table, error) {
	spec, err := s.Spec()
	if err != nil {
		return table.Table{}, err
	}
	return Apply(t, spec)
}
