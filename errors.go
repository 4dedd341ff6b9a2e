package toolgate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Sentinel errors returned by the Gate.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrNoSettings indicates an operation that needs a settings store on a
	// gate configured without one.
	ErrNoSettings = errors.New("no settings store configured")

	// ErrWatchUnsupported indicates a settings store that cannot stream
	// changes.
	ErrWatchUnsupported = errors.New("settings store does not support watching")
)

// Error kinds categorize errors by their type.
const (
	// KindNotFound represents errors where a tool was not found.
	KindNotFound = "not_found"

	// KindValidation represents errors related to input validation.
	KindValidation = "validation"

	// KindConfiguration represents errors related to configuration.
	KindConfiguration = "configuration"

	// KindSettings represents failures talking to the settings store.
	KindSettings = "settings"

	// KindTimeout represents errors related to operation timeouts.
	KindTimeout = "timeout"
)

// Error is a structured error type that wraps underlying errors with the
// operation that failed and the category of error.
//
// Error supports unwrapping, so errors.Is() and errors.As() see both the
// Error itself and the errors it wraps.
//
//	err := &Error{
//		Op:   "Gate.SetEnabled",
//		Kind: KindNotFound,
//		Err:  catalog.ErrUnknownTool,
//	}
type Error struct {
	// Op is the operation that failed (e.g., "Gate.SyncSettings").
	Op string

	// Kind categorizes the error (e.g., KindNotFound, KindSettings).
	Kind string

	// Err is the underlying error that caused this error.
	Err error

	// Context carries debugging details such as tool ids (optional).
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("toolgate: %s: %s", e.Op, e.Kind)
	}

	if len(e.Context) > 0 {
		return fmt.Sprintf("toolgate: %s (%s): %v [context: %+v]", e.Op, e.Kind, e.Err, e.Context)
	}

	return fmt.Sprintf("toolgate: %s (%s): %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches a target *Error by Kind (and Op, when the target sets one), and
// otherwise delegates to the underlying error.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}

	if t, ok := target.(*Error); ok {
		if t.Kind != "" && e.Kind == t.Kind {
			if t.Op == "" || e.Op == t.Op {
				return true
			}
		}
	}

	return errors.Is(e.Err, target)
}

// WithContext returns a copy of the error with ctx merged into its context.
func (e *Error) WithContext(ctx map[string]any) *Error {
	newErr := *e
	merged := make(map[string]any, len(e.Context)+len(ctx))
	for k, v := range e.Context {
		merged[k] = v
	}
	for k, v := range ctx {
		merged[k] = v
	}
	newErr.Context = merged
	return &newErr
}

// NewNotFoundError creates a new Error with KindNotFound.
func NewNotFoundError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindNotFound, Err: err}
}

// NewValidationError creates a new Error with KindValidation.
func NewValidationError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindValidation, Err: err}
}

// NewConfigurationError creates a new Error with KindConfiguration.
func NewConfigurationError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindConfiguration, Err: err}
}

// NewSettingsError creates a new Error for a settings store failure. Context
// deadlines are reported as KindTimeout.
func NewSettingsError(op string, err error) *Error {
	kind := KindSettings
	if errors.Is(err, context.DeadlineExceeded) {
		kind = KindTimeout
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

// CloseWithLog attempts to close the provided resource and logs any error
// at warning level. If logger is nil, slog.Default() is used.
//
//	defer toolgate.CloseWithLog(store, logger, "settings store")
func CloseWithLog(closer io.Closer, logger *slog.Logger, name string) {
	if closer == nil {
		return
	}

	if logger == nil {
		logger = slog.Default()
	}

	if err := closer.Close(); err != nil {
		logger.Warn("failed to close resource",
			"resource", name,
			"error", err)
	}
}
