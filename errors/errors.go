package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Stable error codes surfaced to callers. The UI layer keys off these; the
// free-text message is for humans only.
const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeProcessing    = "PROCESSING_ERROR"
	CodeTranscription = "TRANSCRIPTION_ERROR"
	CodeSummarization = "SUMMARIZATION_ERROR"
	CodeCancelled     = "CANCELLED"
	CodeTimeout       = "TIMEOUT"
)

type AppError struct {
	Code    string `json:"code"`
	Message string `json:"error"`
	Op      string `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code, op string, err error, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

func Validation(op string, err error, message string) *AppError {
	return New(CodeValidation, op, err, message)
}

func Processing(op string, err error, message string) *AppError {
	return New(CodeProcessing, op, err, message)
}

func Transcription(op string, err error, message string) *AppError {
	return New(CodeTranscription, op, err, message)
}

func Summarization(op string, err error, message string) *AppError {
	return New(CodeSummarization, op, err, message)
}

func Cancelled(op string, message string) *AppError {
	return New(CodeCancelled, op, nil, message)
}

func Timeout(op string, err error, message string) *AppError {
	return New(CodeTimeout, op, err, message)
}

// Code extracts the stable code from any error. Unknown errors report as
// processing failures so callers always have something actionable.
func Code(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeProcessing
}

func Is(err error, code string) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

func IsValidation(err error) bool { return Is(err, CodeValidation) }
func IsCancelled(err error) bool  { return Is(err, CodeCancelled) }
func IsTimeout(err error) bool    { return Is(err, CodeTimeout) }

// Aggregate collects per-attempt failures from a fallback chain into one
// error listing each cause, e.g. "whisper: timeout; speechsvc: connection
// refused".
type Aggregate struct {
	Op       string
	Failures map[string]error
	order    []string
}

func NewAggregate(op string) *Aggregate {
	return &Aggregate{
		Op:       op,
		Failures: make(map[string]error),
	}
}

func (a *Aggregate) Add(name string, err error) {
	if _, seen := a.Failures[name]; !seen {
		a.order = append(a.order, name)
	}
	a.Failures[name] = err
}

func (a *Aggregate) Len() int {
	return len(a.Failures)
}

func (a *Aggregate) Error() string {
	parts := make([]string, 0, len(a.order))
	for _, name := range a.order {
		parts = append(parts, fmt.Sprintf("%s: %v", name, a.Failures[name]))
	}
	return strings.Join(parts, "; ")
}
