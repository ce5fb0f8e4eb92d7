package table

import "fmt"

// ColumnNotFoundError reports an operation that named a column the table does not have.
type ColumnNotFoundError struct {
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column not found: %q", e.Column)
}
