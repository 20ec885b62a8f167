package errs

import (
	"errors"
	"fmt"
)

// ErrCoercion marks a value that could not be converted to a decimal. It is
// always handled inside the rule evaluators and never returned to callers.
var ErrCoercion = errors.New("value not coercible to decimal")

// NotFoundError reports a missing task or type configuration.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %d", e.Entity, e.ID)
}

func NewNotFound(entity string, id uint) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// ValidationError reports an unsafe or malformed query template. A run that
// hits one never reaches the datasource.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// QueryError wraps a datasource failure during a read, keeping the driver
// message intact.
type QueryError struct {
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query execution failed: %v", e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

func NewQuery(err error) *QueryError {
	return &QueryError{Err: err}
}

// BusinessError is the public wrapper raised out of Execute after the
// failure log entry has been written.
type BusinessError struct {
	Msg string
	Err error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusiness(msg string, err error) *BusinessError {
	return &BusinessError{Msg: msg, Err: err}
}
