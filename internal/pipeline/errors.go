package pipeline

import (
	"errors"
	"fmt"
)

// ConfigError indicates malformed or missing role/task/dependency
// configuration. It is fatal and raised before any unit executes; no partial
// pipeline is ever returned alongside it.
type ConfigError struct {
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pipeline config: %s: %v", e.Reason, e.Err)
	}
	return "pipeline config: " + e.Reason
}

func (e *ConfigError) Unwrap() error { return e.Err }

// newConfigError creates a ConfigError with a formatted reason.
func newConfigError(format string, args ...any) *ConfigError {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// ExecutionError indicates a unit's invocation failed at run time. It is
// fatal to the whole run: remaining units are not executed and no records
// are produced.
type ExecutionError struct {
	Unit string
	Err  error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("pipeline: unit %q failed: %v", e.Unit, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// CapabilityUnavailableError records a task's request for a capability that
// no provider could be initialized for. It is non-fatal: the factory logs it
// and builds the unit without the capability.
type CapabilityUnavailableError struct {
	Unit       string
	Capability string
}

func (e *CapabilityUnavailableError) Error() string {
	return fmt.Sprintf("pipeline: unit %q requested unavailable capability %q", e.Unit, e.Capability)
}

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsExecutionError reports whether err is (or wraps) an ExecutionError,
// returning the failing unit name when it is.
func IsExecutionError(err error) (string, bool) {
	var ee *ExecutionError
	if errors.As(err, &ee) {
		return ee.Unit, true
	}
	return "", false
}
