package sheetql

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nao1215/sheetql/domain/model"
)

var (
	// ErrNoSheetSelected indicates an operation needed a sheet before From was called
	ErrNoSheetSelected = errors.New("sheetql: no sheet selected")

	// ErrSheetNotFound indicates the named sheet does not exist in the spreadsheet
	ErrSheetNotFound = errors.New("sheetql: sheet not found")

	// ErrColumnNotFound indicates a column name is not among the current headings
	ErrColumnNotFound = errors.New("sheetql: column not found")

	// ErrNoMatch indicates a strict update matched no rows
	ErrNoMatch = errors.New("sheetql: no rows matched")

	// ErrMalformedMutation indicates a mapping could not be compiled into a predicate or mutation
	ErrMalformedMutation = errors.New("sheetql: malformed mutation")

	// ErrRowNotMaterialized indicates a row without a sheet position was given to a row write
	ErrRowNotMaterialized = errors.New("sheetql: row has no sheet position")

	// ErrInvalidHeaderRow indicates a header row index below 1
	ErrInvalidHeaderRow = errors.New("sheetql: invalid header row")

	// ErrUnsupportedFormat indicates an unsupported dump format or compression
	ErrUnsupportedFormat = errors.New("sheetql: unsupported format")
)

// ErrorContext provides context for where an error occurred
type ErrorContext struct {
	Operation string
	Sheet     string
	Column    string
	Details   string
}

// NewErrorContext creates a new error context
func NewErrorContext(operation, sheet string) *ErrorContext {
	return &ErrorContext{
		Operation: operation,
		Sheet:     sheet,
	}
}

// WithColumn adds column context to the error
func (ec *ErrorContext) WithColumn(column string) *ErrorContext {
	ec.Column = column
	return ec
}

// WithDetails adds details to the error context
func (ec *ErrorContext) WithDetails(details string) *ErrorContext {
	ec.Details = details
	return ec
}

// Error creates a formatted error with context
func (ec *ErrorContext) Error(baseErr error) error {
	parts := []string{fmt.Sprintf("sheetql: %s failed", ec.Operation)}

	if ec.Sheet != "" {
		parts = append(parts, "sheet: "+ec.Sheet)
	}
	if ec.Column != "" {
		parts = append(parts, "column: "+ec.Column)
	}
	if ec.Details != "" {
		parts = append(parts, "details: "+ec.Details)
	}

	context := strings.Join(parts, ", ")
	if baseErr != nil {
		return fmt.Errorf("%s: %w", context, baseErr)
	}
	return fmt.Errorf("%s", context)
}

// malformed wraps a value normalization failure as ErrMalformedMutation.
func malformed(key string, err error) error {
	if errors.Is(err, model.ErrUnsupportedValue) {
		return fmt.Errorf("%w: key %q: %w", ErrMalformedMutation, key, err)
	}
	return err
}
