package parser

import (
	"errors"
	"fmt"
)

// ErrEmptyWorkbook is wrapped by ParseError when a workbook has no sheets or no header cells.
var ErrEmptyWorkbook = errors.New("file is empty / no data found")

// ParseError reports malformed or empty input. No partial table accompanies it.
type ParseError struct {
	Format string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s: %s: %v", e.Format, e.Reason, e.Err)
	}
	return fmt.Sprintf("parse %s: %s", e.Format, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }
