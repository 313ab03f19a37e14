package errors

import (
	"errors"
	"fmt"
)

// PersistenceErr is the base interface for all persistence errors
type PersistenceErr interface {
	error
	Code() string
}

// InvalidTableError is returned when a table defines no columns
type InvalidTableError struct {
	Table string
}

func (e *InvalidTableError) Error() string {
	return fmt.Sprintf("table '%s' has no column defined", e.Table)
}

func (e *InvalidTableError) Code() string {
	return "INVALID_TABLE"
}

// NewInvalidTableError creates a new InvalidTableError
func NewInvalidTableError(table string) *InvalidTableError {
	return &InvalidTableError{Table: table}
}

// NoUniqueRecordColumnsError is returned when no column set can identify a single row
type NoUniqueRecordColumnsError struct {
	Table string
}

func (e *NoUniqueRecordColumnsError) Error() string {
	return fmt.Sprintf("can not build unique row condition for table '%s'", e.Table)
}

func (e *NoUniqueRecordColumnsError) Code() string {
	return "NO_UNIQUE_RECORD_COLUMNS"
}

// NewNoUniqueRecordColumnsError creates a new NoUniqueRecordColumnsError
func NewNoUniqueRecordColumnsError(table string) *NoUniqueRecordColumnsError {
	return &NoUniqueRecordColumnsError{Table: table}
}

// NonUniqueResultError is returned when a single-row lookup matched several rows
type NonUniqueResultError struct {
	Table string
	Count int
}

func (e *NonUniqueResultError) Error() string {
	return fmt.Sprintf("expected one row from table '%s' but found %d", e.Table, e.Count)
}

func (e *NonUniqueResultError) Code() string {
	return "NON_UNIQUE_RESULT"
}

// NewNonUniqueResultError creates a new NonUniqueResultError
func NewNonUniqueResultError(table string, count int) *NonUniqueResultError {
	return &NonUniqueResultError{Table: table, Count: count}
}

// UnsupportedOperationError is returned by operations that are declared but not implemented
type UnsupportedOperationError struct {
	Operation string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("unsupported operation: %s", e.Operation)
}

func (e *UnsupportedOperationError) Code() string {
	return "UNSUPPORTED_OPERATION"
}

// NewUnsupportedOperationError creates a new UnsupportedOperationError
func NewUnsupportedOperationError(operation string) *UnsupportedOperationError {
	return &UnsupportedOperationError{Operation: operation}
}

// InvalidQueryError is returned when a query's condition or filter is rejected
type InvalidQueryError struct {
	Reason string
	Cause  error
}

func (e *InvalidQueryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid query %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("invalid query %s", e.Reason)
}

func (e *InvalidQueryError) Code() string {
	return "INVALID_QUERY"
}

func (e *InvalidQueryError) Unwrap() error {
	return e.Cause
}

// NewInvalidQueryError creates a new InvalidQueryError
func NewInvalidQueryError(reason string, cause error) *InvalidQueryError {
	return &InvalidQueryError{Reason: reason, Cause: cause}
}

// ParamConversionError is returned when a value can not be converted for a column
type ParamConversionError struct {
	Table  string
	Column string
	Value  interface{}
	Cause  error
}

func (e *ParamConversionError) Error() string {
	return fmt.Sprintf("can not convert value %v for column '%s.%s': %v", e.Value, e.Table, e.Column, e.Cause)
}

func (e *ParamConversionError) Code() string {
	return "PARAM_CONVERSION"
}

func (e *ParamConversionError) Unwrap() error {
	return e.Cause
}

// NewParamConversionError creates a new ParamConversionError
func NewParamConversionError(table, column string, value interface{}, cause error) *ParamConversionError {
	return &ParamConversionError{Table: table, Column: column, Value: value, Cause: cause}
}

// PersistenceError wraps a failure of the underlying connection
type PersistenceError struct {
	Op    string
	Table string
	SQL   string
	Cause error
}

func (e *PersistenceError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("%s on table '%s' failed: %v", e.Op, e.Table, e.Cause)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Cause)
}

func (e *PersistenceError) Code() string {
	return "PERSISTENCE_FAILURE"
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

// NewPersistenceError creates a new PersistenceError
func NewPersistenceError(op, table, sql string, cause error) *PersistenceError {
	return &PersistenceError{Op: op, Table: table, SQL: sql, Cause: cause}
}

// Helper functions for error checking

// IsInvalidTable checks if an error is an InvalidTableError
func IsInvalidTable(err error) bool {
	var target *InvalidTableError
	return errors.As(err, &target)
}

// IsNoUniqueRecordColumns checks if an error is a NoUniqueRecordColumnsError
func IsNoUniqueRecordColumns(err error) bool {
	var target *NoUniqueRecordColumnsError
	return errors.As(err, &target)
}

// IsNonUniqueResult checks if an error is a NonUniqueResultError
func IsNonUniqueResult(err error) bool {
	var target *NonUniqueResultError
	return errors.As(err, &target)
}

// IsUnsupportedOperation checks if an error is an UnsupportedOperationError
func IsUnsupportedOperation(err error) bool {
	var target *UnsupportedOperationError
	return errors.As(err, &target)
}

// IsInvalidQuery checks if an error is an InvalidQueryError
func IsInvalidQuery(err error) bool {
	var target *InvalidQueryError
	return errors.As(err, &target)
}

// IsParamConversion checks if an error is a ParamConversionError
func IsParamConversion(err error) bool {
	var target *ParamConversionError
	return errors.As(err, &target)
}

// IsPersistence checks if an error is a PersistenceError
func IsPersistence(err error) bool {
	var target *PersistenceError
	return errors.As(err, &target)
}

// GetErrorCode returns the error code for an error
// Returns "UNKNOWN_ERROR" if the error doesn't implement PersistenceErr
func GetErrorCode(err error) string {
	var perr PersistenceErr
	if errors.As(err, &perr) {
		return perr.Code()
	}
	return "UNKNOWN_ERROR"
}

// ErrorResponse represents a standardized error payload
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ToResponse converts an error to an ErrorResponse
func ToResponse(err error) ErrorResponse {
	return ErrorResponse{
		Code:    GetErrorCode(err),
		Message: err.Error(),
	}
}
