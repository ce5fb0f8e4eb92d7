package transform

import "fmt"

// NameCollisionError is returned when the target column already exists.
// The input table is left untouched.
type NameCollisionError struct {
	Column string
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("column %q already exists", e.Column)
}

// UnsupportedOperationError reports an operation name that is not recognised.
type UnsupportedOperationError struct {
	Op string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("unsupported operation %q (use add|subtract|multiply|divide|percentage|concat)", e.Op)
}
