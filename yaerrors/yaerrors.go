package yaerrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/YaCodeDev/GoYaHTTP/yalogger"
)

// Package yaerrors provides a coded error type with traceback wrapping. Codes follow
// HTTP status semantics: a failed request surfaces the status it ended with, while
// local failures use the closest matching status (500, 502, 499).
//
// Every exported fallible function in this module returns Error, so callers can both
// read the code and walk the chain with errors.Is / errors.As.
type Error interface {
	error
	Wrap(msg string) Error
	WrapWithLog(msg string, log yalogger.Logger) Error
	Code() int
	Error() string
	Unwrap() error
	UnwrapLastError() string
}

const (
	codeSeparate  = " | "
	errorSeparate = " -> "
)

type yaError struct {
	code      int
	cause     error
	traceback string
}

func newError(code int, cause error, traceback string) *yaError {
	return &yaError{
		code:      code,
		cause:     cause,
		traceback: traceback,
	}
}

// FromError wraps cause with a code and a context message.
//
// Example usage:
//
//	return yaerrors.FromError(http.StatusBadGateway, err, "[HTTP] send failed")
func FromError(code int, cause error, wrap string) Error {
	return newError(code, cause, fmt.Sprintf("%s: %v", wrap, cause))
}

// FromErrorWithLog is FromError that also logs the resulting message at Error level.
func FromErrorWithLog(code int, cause error, wrap string, log yalogger.Logger) Error {
	msg := fmt.Sprintf("%s: %v", wrap, cause)
	log.Error(msg)

	return newError(code, cause, msg)
}

// FromString creates an Error whose cause is a new error carrying msg.
func FromString(code int, msg string) Error {
	return newError(code, errors.New(msg), msg) //nolint:err113
}

// FromStringWithLog is FromString that also logs msg at Error level.
func FromStringWithLog(code int, msg string, log yalogger.Logger) Error {
	log.Error(msg)

	return newError(code, errors.New(msg), msg) //nolint:err113
}

// Error returns the code and traceback, e.g. "502 | [HTTP] GET http://a -> dial tcp: refused".
func (e *yaError) Error() string {
	safetyCheck(&e)

	return fmt.Sprintf("%d%s%s", e.code, codeSeparate, e.traceback)
}

// Unwrap returns the original cause so errors.Is / errors.As can see through Error.
func (e *yaError) Unwrap() error {
	safetyCheck(&e)

	return e.cause
}

// UnwrapLastError returns the outermost message of the traceback.
func (e *yaError) UnwrapLastError() string {
	safetyCheck(&e)

	end := strings.Index(e.traceback, errorSeparate)
	if end == -1 {
		return e.traceback
	}

	return e.traceback[:end]
}

// Wrap prepends msg to the traceback. Call it each time the error crosses a layer.
func (e *yaError) Wrap(msg string) Error {
	safetyCheck(&e)
	e.traceback = fmt.Sprintf("%s%s%s", msg, errorSeparate, e.traceback)

	return e
}

// WrapWithLog is Wrap that also logs msg at Error level.
func (e *yaError) WrapWithLog(msg string, log yalogger.Logger) Error {
	log.Error(msg)

	return e.Wrap(msg)
}

// Code returns the status-like code associated with the error.
func (e *yaError) Code() int {
	safetyCheck(&e)

	return e.code
}

// CodeOf returns the code of the first Error found in err's chain, or
// http.StatusInternalServerError when the chain holds none.
//
// Example usage:
//
//	if yaerrors.CodeOf(err) == http.StatusServiceUnavailable {
//		// try another replica
//	}
func CodeOf(err error) int {
	var coded Error
	if errors.As(err, &coded) {
		return coded.Code()
	}

	return http.StatusInternalServerError
}

// As is a typed shorthand for errors.As.
//
// Example usage:
//
//	if respErr, ok := yaerrors.As[*yahttp.UnsuccessfulResponseError](err); ok {
//		fmt.Println(respErr.StatusCode)
//	}
func As[T error](err error) (T, bool) {
	var target T

	ok := errors.As(err, &target)

	return target, ok
}

// safetyCheck replaces a nil receiver with a teapot error instead of panicking.
func safetyCheck(err **yaError) {
	if *err == nil {
		*err = newError(http.StatusTeapot, ErrTeapot, ErrTeapot.Error())
	}
}
