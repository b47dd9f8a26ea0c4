package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/amterp/palette/internal/model"
)

// Standard sentinel errors for type checking
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrTransport    = errors.New("transport error")
)

// NotFoundError indicates a resource doesn't exist.
type NotFoundError struct {
	Resource string // "color", "config"
	ID       string // The identifier that wasn't found
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ValidationReason identifies which rule a new color violated.
type ValidationReason string

const (
	ReasonEmptyName   ValidationReason = "empty_name"
	ReasonNameTooLong ValidationReason = "name_too_long"
	ReasonInvalidHex  ValidationReason = "invalid_hex"
	ReasonDuplicate   ValidationReason = "duplicate"
)

// ValidationError indicates invalid user input.
// For ReasonDuplicate, ByName and ByHex hold the conflicting records.
type ValidationError struct {
	Reason  ValidationReason
	Field   string
	Message string
	ByName  *model.Color
	ByHex   *model.Color
}

func (e *ValidationError) Error() string {
	if e.Reason == ReasonDuplicate {
		return e.duplicateMessage()
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *ValidationError) duplicateMessage() string {
	var lines []string
	if e.ByName != nil {
		lines = append(lines, fmt.Sprintf("Name %q already exists with hex %s", e.ByName.Name, e.ByName.Hex))
	}
	if e.ByHex != nil {
		lines = append(lines, fmt.Sprintf("Hex %s already exists with name %q", e.ByHex.Hex, e.ByHex.Name))
	}
	return "cannot add duplicate color: " + strings.Join(lines, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// TransportError indicates the remote color store was unreachable or
// answered with a non-success status.
type TransportError struct {
	Op         string // "list", "create", "delete", "update"
	Method     string
	URL        string
	StatusCode int // 0 when no response was received
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		msg := fmt.Sprintf("%s %s: HTTP status %d", e.Method, e.URL, e.StatusCode)
		if e.Message != "" {
			msg += ": " + e.Message
		}
		return msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
	}
	return fmt.Sprintf("%s %s failed", e.Method, e.URL)
}

// Unwrap exposes ErrTransport, the underlying network error, and ErrNotFound
// for 404 responses.
func (e *TransportError) Unwrap() []error {
	errs := []error{ErrTransport}
	if e.StatusCode == 404 {
		errs = append(errs, ErrNotFound)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// ErrorKind is a manager-level failure surfaced to the UI.
type ErrorKind string

const (
	KindNone         ErrorKind = ""
	KindFetchFailed  ErrorKind = "fetch_failed"
	KindAddFailed    ErrorKind = "add_failed"
	KindDeleteFailed ErrorKind = "delete_failed"
)

// Message returns the user-facing text for the kind.
func (k ErrorKind) Message() string {
	switch k {
	case KindFetchFailed:
		return "Failed to load colors from server"
	case KindAddFailed:
		return "Failed to add color"
	case KindDeleteFailed:
		return "Failed to delete color"
	}
	return ""
}

// OperationError is a transport failure translated at a specific manager
// operation site.
type OperationError struct {
	Kind ErrorKind
	Err  error
}

func (e *OperationError) Error() string {
	if e.Err == nil {
		return e.Kind.Message()
	}
	return fmt.Sprintf("%s: %v", e.Kind.Message(), e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// Helper constructors for common cases

func ColorNotFound(idOrName string) error {
	return &NotFoundError{Resource: "color", ID: idOrName}
}

func InvalidField(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func EmptyName() error {
	return &ValidationError{Reason: ReasonEmptyName, Field: "name", Message: "color name is required"}
}

func NameTooLong(max int) error {
	return &ValidationError{
		Reason:  ReasonNameTooLong,
		Field:   "name",
		Message: fmt.Sprintf("color name must be at most %d characters", max),
	}
}

func InvalidHex(hex string) error {
	return &ValidationError{
		Reason:  ReasonInvalidHex,
		Field:   "hex",
		Message: fmt.Sprintf("%q is not a valid hex color (e.g., #FF0000)", hex),
	}
}

func Duplicate(byName, byHex *model.Color) error {
	return &ValidationError{Reason: ReasonDuplicate, ByName: byName, ByHex: byHex}
}

// IsNotFound checks if an error is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsTransport checks if an error came from the remote store transport.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// ReasonOf returns the validation reason carried by err, if any.
func ReasonOf(err error) (ValidationReason, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v.Reason, true
	}
	return "", false
}

// KindOf returns the manager error kind carried by err, if any.
func KindOf(err error) ErrorKind {
	var op *OperationError
	if errors.As(err, &op) {
		return op.Kind
	}
	return KindNone
}
