package jobly

import jerrors "github.com/jobly/jobly/jobly/errors"

// Re-export error types and functions so callers need a single import.
type Error = jerrors.Error
type ErrorCode = jerrors.ErrorCode

const (
	ErrBadRequest   = jerrors.ErrBadRequest
	ErrUnauthorized = jerrors.ErrUnauthorized
	ErrForbidden    = jerrors.ErrForbidden
	ErrNotFound     = jerrors.ErrNotFound
	ErrBackend      = jerrors.ErrBackend
)

func NewError(code ErrorCode, msg string) *Error          { return jerrors.NewError(code, msg) }
func Wrap(code ErrorCode, msg string, cause error) *Error { return jerrors.Wrap(code, msg, cause) }
func IsCode(err error, code ErrorCode) bool               { return jerrors.IsCode(err, code) }
func CodeOf(err error) ErrorCode                          { return jerrors.CodeOf(err) }
