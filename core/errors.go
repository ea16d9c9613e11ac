package core

import (
	"errors"
	"fmt"
)

// ErrNoSuitableDevice is returned by BuildDevice when no enumerated
// physical device satisfies every required predicate.
var ErrNoSuitableDevice = errors.New("core: no suitable physical device found")

// LoadError means the native graphics entry points could not be
// located or initialised.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string {
	return "core: loading vulkan entry points: " + e.Err.Error()
}

func (e *LoadError) Unwrap() error { return e.Err }

// DriverError wraps a native error code reported by a query or create
// call. Call holds the name of the failed native call.
type DriverError struct {
	Call string
	Err  error
}

func (e *DriverError) Error() string {
	return fmt.Sprintf("core: %s: %s", e.Call, e.Err.Error())
}

func (e *DriverError) Unwrap() error { return e.Err }

// MissingExtensionError means an operation depends on an extension
// that was never requested or is unsupported by the hardware.
type MissingExtensionError struct {
	Name string
}

func (e *MissingExtensionError) Error() string {
	return "core: extension not loaded: " + e.Name
}
