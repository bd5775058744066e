// Package apperr defines the error taxonomy shared by the fetch, pipeline and
// orchestration layers, and maps each kind to a user-facing message and an
// HTTP status.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a failure
type Kind string

const (
	KindUnsupportedSource Kind = "unsupported_source"
	KindSourceUnavailable Kind = "source_unavailable"
	KindExtractionFailed  Kind = "extraction_failed"
	KindEncoderFailed     Kind = "encoder_failed"
	KindFileSystemFailed  Kind = "filesystem_failed"
	KindInvalidRequest    Kind = "invalid_request"
)

// Error is a classified failure. Stage and Diagnostic are set for encoder
// failures; Diagnostic holds the external process output.
type Error struct {
	Kind       Kind
	Stage      string
	Message    string
	Diagnostic string
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Stage != "" {
		b.WriteString(" [")
		b.WriteString(e.Stage)
		b.WriteString("]")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage is the text shown to API callers
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindEncoderFailed:
		diag := strings.TrimSpace(e.Diagnostic)
		if diag == "" && e.Err != nil {
			diag = e.Err.Error()
		}
		return "FFmpeg error: " + diag
	case KindExtractionFailed:
		if e.Err != nil {
			return "Download error: " + e.Err.Error()
		}
	}
	return e.Message
}

// HTTPStatus maps the kind onto a response code
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindEncoderFailed, KindFileSystemFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// New creates a classified error
func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Invalid reports a malformed caller request
func Invalid(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidRequest, Message: fmt.Sprintf(format, args...)}
}

// FileSystem wraps an I/O failure
func FileSystem(message string, err error) *Error {
	return &Error{Kind: KindFileSystemFailed, Message: message, Err: err}
}

// Encoder reports a non-zero exit of the external encoder during stage
func Encoder(stage string, diagnostic string, err error) *Error {
	return &Error{
		Kind:       KindEncoderFailed,
		Stage:      stage,
		Message:    "encoder failed",
		Diagnostic: diagnostic,
		Err:        err,
	}
}

// ClassifyExtraction maps an extractor failure onto the first three kinds by
// inspecting its text
func ClassifyExtraction(err error) *Error {
	if err == nil {
		return nil
	}
	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	text := err.Error()
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(text, "Unsupported"):
		return New(KindUnsupportedSource, "Unsupported URL or video not available", err)
	case strings.Contains(lower, "unavailable") || strings.Contains(lower, "private"):
		return New(KindSourceUnavailable, "Video is unavailable or private", err)
	default:
		return New(KindExtractionFailed, "Extraction failed", err)
	}
}

// KindOf returns the kind of err, or "" when it is not classified
func KindOf(err error) Kind {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind
	}
	return ""
}

// Is reports whether err carries the given kind
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
