package statement

import (
	"errors"
	"fmt"
)

// Structural failures. A *ParseError wraps exactly one of these.
var (
	ErrUnreadable       = errors.New("unreadable workbook")
	ErrNoSheets         = errors.New("no sheets")
	ErrSheetNotFound    = errors.New("sheet not found")
	ErrInsufficientData = errors.New("insufficient data")
	ErrEmptyHeader      = errors.New("empty header")
	ErrMissingColumns   = errors.New("missing columns")
	ErrNoTransactions   = errors.New("no valid transactions found")
	ErrNothingExtracted = errors.New("no transactions extracted, see warnings")
	ErrUnexpected       = errors.New("unexpected error")
)

// ParseError is a fatal parse failure. Warnings holds the row-level warnings
// gathered before the failure, if any.
type ParseError struct {
	Filename string
	Err      error
	Detail   string
	Warnings []Warning
}

func (e *ParseError) Error() string {
	msg := e.Err.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Filename != "" {
		msg = fmt.Sprintf("%s: %s", e.Filename, msg)
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func newParseError(filename string, err error, detail string) *ParseError {
	return &ParseError{Filename: filename, Err: err, Detail: detail}
}

// sheetError carries a sentinel plus the underlying cause out of readSheet.
type sheetError struct {
	kind  error
	cause error
}

func (e *sheetError) Error() string {
	if e.cause == nil {
		return e.kind.Error()
	}
	return fmt.Sprintf("%s: %v", e.kind, e.cause)
}

func (e *sheetError) Unwrap() error { return e.kind }
