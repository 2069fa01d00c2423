// Package apperrors defines the error interface used across the service.
// Errors form trees: a sentinel created with New is a root, children
// created with the sentinel's New method match their ancestors under
// errors.Is. Each error carries an HTTP status code so transport layers
// don't need a separate mapping table.
package apperrors

type Error interface {
	Error() string
	ErrorAll() string
	New(msg string) Error
	Msg(msg string) Error
	MsgErr(msg string, err ...error) Error
	Err(err ...error) Error
	Unwrap() []error
	Is(target error) bool
	SetExpandError(expand bool) Error
	SetStatusCode(code int) Error
	StatusCode() int
}
