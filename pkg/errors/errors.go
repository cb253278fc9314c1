// Package errors defines the error taxonomy shared by the engine, the CLI and
// the HTTP API. Every failure that reaches a request boundary is one of these
// types so callers can present an actionable message.
package errors

import (
	"errors"
	"fmt"
)

// ErrProduction is returned by every operation when the engine runs in a
// production environment.
var ErrProduction = errors.New("not available in production")

// ErrNoActiveTheme reports that the global stylesheet imports no theme package.
var ErrNoActiveTheme = errors.New("no theme import found")

// NotFoundError reports a missing theme directory, package.json or CSS file.
type NotFoundError struct {
	Kind string // "theme", "file", "package"
	Name string
	Err  error
}

// NewNotFoundError constructs a NotFoundError.
func NewNotFoundError(kind, name string, err error) error {
	return &NotFoundError{Kind: kind, Name: name, Err: err}
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return ""
	}
	if e.Kind != "" {
		return fmt.Sprintf("%s not found: %s", e.Kind, e.Name)
	}
	return fmt.Sprintf("not found: %s", e.Name)
}

// Unwrap exposes the underlying error.
func (e *NotFoundError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// WriteLockedError reports an attempt to write a theme that is not active.
type WriteLockedError struct {
	Theme  string
	Active string
}

// NewWriteLockedError constructs a WriteLockedError.
func NewWriteLockedError(theme, active string) error {
	return &WriteLockedError{Theme: theme, Active: active}
}

func (e *WriteLockedError) Error() string {
	if e == nil {
		return ""
	}
	if e.Active == "" {
		return fmt.Sprintf("theme %q is write-locked: no theme is active", e.Theme)
	}
	return fmt.Sprintf("theme %q is write-locked: active theme is %q", e.Theme, e.Active)
}

// ValidationError captures malformed input rejected before any file I/O.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IOError wraps a disk failure. Backup is the path of the pre-write snapshot,
// if one was taken, so the caller can restore it by hand.
type IOError struct {
	Op     string
	Path   string
	Backup string
	Err    error
}

// NewIOError constructs an IOError.
func NewIOError(op, path, backup string, err error) error {
	return &IOError{Op: op, Path: path, Backup: backup, Err: err}
}

func (e *IOError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap exposes the underlying error.
func (e *IOError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Hint points at the backup file for manual recovery.
func (e *IOError) Hint() string {
	if e == nil || e.Backup == "" {
		return ""
	}
	return fmt.Sprintf("restore from backup %s", e.Backup)
}

// Kind classifies err into the taxonomy name used in API responses.
func Kind(err error) string {
	var (
		notFound *NotFoundError
		locked   *WriteLockedError
		invalid  *ValidationError
		ioErr    *IOError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrProduction):
		return "production"
	case errors.Is(err, ErrNoActiveTheme), errors.As(err, &notFound):
		return "not_found"
	case errors.As(err, &locked):
		return "write_locked"
	case errors.As(err, &invalid):
		return "invalid"
	case errors.As(err, &ioErr):
		return "io"
	default:
		return "internal"
	}
}
