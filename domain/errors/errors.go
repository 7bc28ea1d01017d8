// Package errors provides domain-specific error types for the bridge.
// All error types support error unwrapping via errors.As() and errors.Is().
package errors

import (
	stdErrors "errors"
	"fmt"

	"github.com/reglet-dev/pate/domain/entities"
)

// ErrorDetail is an alias to entities.ErrorDetail for convenience.
type ErrorDetail = entities.ErrorDetail

// ErrNotLoaded is returned by every operation that needs the runtime while
// no runtime is loaded.
var ErrNotLoaded = stdErrors.New("runtime not loaded")

// DetailedError is an interface for custom error types that can convert themselves
// to a structured ErrorDetail. New error types only need to implement this
// interface without modifying ToErrorDetail.
type DetailedError interface {
	error
	ToErrorDetail() *entities.ErrorDetail
}

// ToErrorDetail converts a Go error to our structured ErrorDetail.
// This function recognizes custom error types and categorizes them appropriately.
func ToErrorDetail(err error) *entities.ErrorDetail {
	if err == nil {
		return nil
	}

	var e *entities.ErrorDetail
	if stdErrors.As(err, &e) {
		return e
	}

	var de DetailedError
	if stdErrors.As(err, &de) {
		return de.ToErrorDetail()
	}

	if stdErrors.Is(err, ErrNotLoaded) {
		return &entities.ErrorDetail{Message: err.Error(), Type: "lifecycle", Code: "not_loaded"}
	}

	return &entities.ErrorDetail{
		Message: err.Error(),
		Type:    "internal",
	}
}

// TracebackOf returns the traceback record carried anywhere in err's chain.
func TracebackOf(err error) string {
	var fe *FaultError
	if stdErrors.As(err, &fe) {
		return fe.Traceback
	}
	return ""
}

// FaultError is a captured guest fault together with the traceback record
// built for it.
type FaultError struct {
	Fault       entities.Fault
	Description string
	Traceback   string
}

func (e *FaultError) Error() string {
	summary := e.Fault.Summary()
	switch {
	case summary == "":
		return e.Description
	case e.Description == "":
		return summary
	}
	return fmt.Sprintf("%s: %s", e.Description, summary)
}

// ToErrorDetail implements DetailedError.
func (e *FaultError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{
		Message:   e.Error(),
		Type:      "fault",
		Code:      e.Fault.TypeName,
		Traceback: e.Traceback,
	}
}

// ResolutionError represents a failure to import a module or find an item in
// its namespace.
type ResolutionError struct {
	Err    error
	Module string
	Item   string
}

func (e *ResolutionError) Error() string {
	if e.Item != "" {
		return fmt.Sprintf("failed to resolve %s.%s: %v", e.Module, e.Item, e.Err)
	}
	return fmt.Sprintf("failed to resolve %s: %v", e.Module, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ResolutionError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{
		Message:    e.Error(),
		Type:       "resolution",
		Code:       e.Module,
		Traceback:  TracebackOf(e.Err),
		IsNotFound: true,
	}
}

// CallError represents a function that could not be invoked: its argument
// tuple was missing or the resolved item was not callable.
type CallError struct {
	Err      error
	Module   string
	Function string
	Reason   string
}

func (e *CallError) Error() string {
	return fmt.Sprintf("call %s.%s: %s: %v", e.Module, e.Function, e.Reason, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *CallError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{
		Message:   e.Error(),
		Type:      "call",
		Code:      e.Reason,
		Traceback: TracebackOf(e.Err),
	}
}

// CodecError represents a guest value that does not have the shape the host
// expected.
type CodecError struct {
	Err  error
	Want string
}

func (e *CodecError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode %s: %v", e.Want, e.Err)
	}
	return fmt.Sprintf("decode %s: unexpected guest value", e.Want)
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *CodecError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "codec", Code: e.Want}
}

// LifecycleError represents a failure while loading or unloading the runtime.
type LifecycleError struct {
	Err       error
	Operation string
	Path      string
}

func (e *LifecycleError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Operation, e.Err)
}

func (e *LifecycleError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *LifecycleError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "lifecycle", Code: e.Operation}
}

// ConfigEntryError represents one configuration entry that could not be
// exported or imported. The synchronizer keeps going after it.
type ConfigEntryError struct {
	Err       error
	Operation string
	Group     string
	Key       string
}

func (e *ConfigEntryError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("config %s %s/%s: %v", e.Operation, e.Group, e.Key, e.Err)
	}
	if e.Group != "" {
		return fmt.Sprintf("config %s %s: %v", e.Operation, e.Group, e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Operation, e.Err)
}

func (e *ConfigEntryError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ConfigEntryError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{
		Message:   e.Error(),
		Type:      "config",
		Code:      e.Operation,
		Traceback: TracebackOf(e.Err),
		Details:   map[string]any{"group": e.Group, "key": e.Key},
	}
}

// ConfigError represents a settings validation error.
type ConfigError struct {
	Err   error
	Field string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config validation failed for field '%s': %v", e.Field, e.Err)
	}
	return fmt.Sprintf("config validation failed: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ConfigError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "validation", Code: e.Field}
}

// SchemaError represents a schema generation error.
type SchemaError struct {
	Err  error
	Type string
}

func (e *SchemaError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("schema error for type %s: %v", e.Type, e.Err)
	}
	return fmt.Sprintf("schema error: %v", e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *SchemaError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "validation", Code: "schema"}
}
