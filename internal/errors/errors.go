// Package errors provides structured error types shared across the
// process/metadata/download boundary.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors. Check with errors.Is.
var (
	// ErrSpawnFailed means the child process never started.
	ErrSpawnFailed = errors.New("failed to start process")

	// ErrProcessCrashed means the child exited abnormally (signal/panic),
	// as opposed to a normal exit with a non-zero code.
	ErrProcessCrashed = errors.New("the process crashed")

	// ErrCancelled means the caller aborted the operation before it
	// produced a result.
	ErrCancelled = errors.New("operation cancelled")

	// ErrUnavailable marks a playlist item the extractor could not pull
	// metadata for (geo-blocked, removed, private).
	ErrUnavailable = errors.New("item unavailable")

	// ErrJSONFormat marks a dump line that failed to parse as JSON.
	ErrJSONFormat = errors.New("could not parse JSON")

	// ErrEmptyResult means a probe produced zero usable items.
	ErrEmptyResult = errors.New("empty result")
)

// AppError carries operation context around an underlying error.
type AppError struct {
	Op      string // Operation that failed, e.g. "MetadataCollector.runAsync"
	Err     error  // Underlying error, possibly nil if Message stands alone
	Message string // Consumer-facing message (often the tool's own stderr)
	Code    string // Machine-readable code, e.g. a SpawnErrorKind name
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an AppError wrapping err.
func New(op string, err error) *AppError {
	return &AppError{Op: op, Err: err}
}

// NewWithMessage creates an AppError with a consumer-facing message.
func NewWithMessage(op string, err error, message string) *AppError {
	return &AppError{Op: op, Err: err, Message: message}
}

// NewWithCode creates an AppError carrying a machine-readable code.
func NewWithCode(op, code, message string) *AppError {
	return &AppError{Op: op, Code: code, Message: message}
}

// Wrap wraps err with operation context, returning nil if err is nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &AppError{Op: op, Err: err}
}

// IsCancelled reports whether err is or wraps ErrCancelled.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// IsProcessCrashed reports whether err is or wraps ErrProcessCrashed.
func IsProcessCrashed(err error) bool {
	return errors.Is(err, ErrProcessCrashed)
}

// IsUnavailable reports whether err is or wraps ErrUnavailable.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
