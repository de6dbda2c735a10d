package bwire

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Code is an error code that mirrors the http status codes. It can be used to create errors to pass around across
// middleware layers to handle errors structurally.
type Code uint16

const (
	CodeUnknown               Code = 0
	CodeBadRequest            Code = 400 // RFC 9110, 15.5.1
	CodeUnauthorized          Code = 401 // RFC 9110, 15.5.2
	CodeForbidden             Code = 403 // RFC 9110, 15.5.4
	CodeNotFound              Code = 404 // RFC 9110, 15.5.5
	CodeMethodNotAllowed      Code = 405 // RFC 9110, 15.5.6
	CodeRequestTimeout        Code = 408 // RFC 9110, 15.5.9
	CodeConflict              Code = 409 // RFC 9110, 15.5.10
	CodeLengthRequired        Code = 411 // RFC 9110, 15.5.12
	CodeRequestEntityTooLarge Code = 413 // RFC 9110, 15.5.14
	CodeUnsupportedMediaType  Code = 415 // RFC 9110, 15.5.16
	CodeUnprocessableEntity   Code = 422 // RFC 9110, 15.5.21
	CodeTooManyRequests       Code = 429 // RFC 6585, 4

	CodeInternalServerError     Code = 500 // RFC 9110, 15.6.1
	CodeNotImplemented          Code = 501 // RFC 9110, 15.6.2
	CodeServiceUnavailable      Code = 503 // RFC 9110, 15.6.4
	CodeHTTPVersionNotSupported Code = 505 // RFC 9110, 15.6.6
)

var reasonPhrases = map[Code]string{
	200: "OK",
	201: "Created",
	202: "Accepted",
	204: "No Content",
	301: "Moved Permanently",
	302: "Found",
	304: "Not Modified",

	CodeBadRequest:            "Bad Request",
	CodeUnauthorized:          "Unauthorized",
	CodeForbidden:             "Forbidden",
	CodeNotFound:              "Not Found",
	CodeMethodNotAllowed:      "Method Not Allowed",
	CodeRequestTimeout:        "Request Timeout",
	CodeConflict:              "Conflict",
	CodeLengthRequired:        "Length Required",
	CodeRequestEntityTooLarge: "Request Entity Too Large",
	CodeUnsupportedMediaType:  "Unsupported Media Type",
	CodeUnprocessableEntity:   "Unprocessable Entity",
	CodeTooManyRequests:       "Too Many Requests",

	CodeInternalServerError:     "Internal Server Error",
	CodeNotImplemented:          "Not Implemented",
	CodeServiceUnavailable:      "Service Unavailable",
	CodeHTTPVersionNotSupported: "HTTP Version Not Supported",
}

// ReasonPhrase returns the standard reason phrase for a status code, or an empty string if it is not known.
func ReasonPhrase(status uint16) string {
	return reasonPhrases[Code(status)]
}

// Error describes an http error.
type Error struct {
	code Code
	err  error
}

// NewError inits a new error given the error code.
func NewError(c Code, underlying error) *Error {
	return &Error{c, underlying}
}

func (e *Error) Code() Code    { return e.code }
func (e *Error) Unwrap() error { return e.err }
func (e *Error) Error() string {
	status := ReasonPhrase(uint16(e.Code()))
	if status == "" {
		status = "Unknown"
	}

	return fmt.Sprintf("%s: %s", status, e.err.Error())
}

// CodeOf returns the error's status code if it is or wraps an [*Error] and
// [CodeUnknown] otherwise.
func CodeOf(err error) Code {
	if herr, ok := asError(err); ok {
		return herr.Code()
	}
	return CodeUnknown
}

// asError uses errors.As to unwrap any error and look for an *Error.
func asError(err error) (*Error, bool) {
	var herr *Error
	ok := errors.As(err, &herr)
	return herr, ok
}

// Errors that occur while turning raw bytes into a [Request].
var (
	ErrNoMethod   = errors.New("no method")
	ErrNoPath     = errors.New("no path")
	ErrNoProtocol = errors.New("no protocol")
)

// RequestParseError is returned when the request line is missing one of its three tokens.
type RequestParseError struct {
	Line string
	err  error
}

func (e *RequestParseError) Error() string {
	return fmt.Sprintf("bwire: parse request line %q: %s", e.Line, e.err)
}

func (e *RequestParseError) Unwrap() error { return e.err }

// Errors that occur while resolving a request with a response.
var (
	ErrAlreadyResolved = errors.New("bwire: request already resolved")
	ErrStatusNotSet    = errors.New("bwire: response status was never set")
	ErrResolveLockBusy = errors.New("bwire: resolve guard is held by another writer")
	ErrNilResponse     = errors.New("bwire: handler returned neither a response nor an error")
)

// Errors that occur while reading a request from a connection.
var (
	ErrRequestTooLarge = errors.New("bwire: request too large")
	ErrEmptyRequest    = errors.New("bwire: connection closed before sending a request")
)

// ErrServerClosed is returned by [Server.Serve] after [Server.Shutdown] was called.
var ErrServerClosed = errors.New("bwire: server closed")

// errorResponse turns a handler or dispatch error into the response that is written in its place.
func errorResponse(err error) *Response {
	code := CodeOf(err)
	if code == CodeUnknown {
		code = CodeInternalServerError
	}

	res := NewResponse(uint16(code), ReasonPhrase(uint16(code)))
	if code < CodeInternalServerError {
		if herr, ok := asError(err); ok && herr.err != nil {
			res.SetBodyString(herr.err.Error())
		}
	}

	return res
}
