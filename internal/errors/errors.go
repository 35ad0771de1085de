package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is the closed set of failure kinds the core can report. Callers
// discriminate on the code, never on message text.
type Code int

const (
	CodeInternal Code = iota
	CodeValidation
	CodeDuplicateTitle
	CodeQuizNotFound
	CodeEmptyBatch
	CodeMalformedAnswers
)

var code2string = map[Code]string{
	CodeInternal:         "internal",
	CodeValidation:       "validation",
	CodeDuplicateTitle:   "duplicate_title",
	CodeQuizNotFound:     "quiz_not_found",
	CodeEmptyBatch:       "empty_batch",
	CodeMalformedAnswers: "malformed_answers",
}

var code2http = map[Code]int{
	CodeInternal:         http.StatusInternalServerError,
	CodeValidation:       http.StatusBadRequest,
	CodeDuplicateTitle:   http.StatusConflict,
	CodeQuizNotFound:     http.StatusNotFound,
	CodeEmptyBatch:       http.StatusBadRequest,
	CodeMalformedAnswers: http.StatusBadRequest,
}

func (c Code) String() string {
	if s, ok := code2string[c]; ok {
		return s
	}
	return "unknown"
}

func (c Code) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	err     error
}

func New(code Code, opts ...Option) *Error {
	e := &Error{
		Code:    code,
		Message: code.String(),
	}

	for _, opt := range opts {
		opt.apply(e)
	}

	return e
}

func (e *Error) Error() string {
	s := fmt.Sprintf("code: %s, message: %s", e.Code, e.Message)
	if e.err != nil {
		s += fmt.Sprintf(", err: %s", e.err)
	}

	return s
}

func (e *Error) Unwrap() error {
	return e.err
}

func (e *Error) HTTPStatusCode() int {
	if c, ok := code2http[e.Code]; ok {
		return c
	}

	return http.StatusInternalServerError
}

// Convert extracts the *Error from err's chain, wrapping unknown errors as internal.
func Convert(err error) *Error {
	var e *Error
	if !errors.As(err, &e) {
		return Internal(err)
	}

	return e
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

func Internal(err error) *Error {
	return New(CodeInternal, WithCause(err))
}

type Option interface {
	apply(*Error)
}

type optionFunc func(*Error)

func (f optionFunc) apply(e *Error) {
	f(e)
}

func WithCause(err error) Option {
	return optionFunc(func(e *Error) {
		e.err = err
	})
}

func WithMessagef(format string, args ...any) Option {
	return optionFunc(func(e *Error) {
		e.Message = fmt.Sprintf(format, args...)
	})
}
