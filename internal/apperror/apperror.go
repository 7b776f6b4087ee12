package apperror

import "fmt"

// Error is the application error envelope: a user-facing message plus the
// HTTP status it should be served with. Handlers return these instead of
// writing failure responses themselves.
type Error struct {
	Message    string
	StatusCode int
}

func (e *Error) Error() string { return e.Message }

func New(message string, statusCode int) *Error {
	return &Error{Message: message, StatusCode: statusCode}
}

func Newf(statusCode int, format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), StatusCode: statusCode}
}
