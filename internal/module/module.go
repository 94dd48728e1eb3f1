package module

import "fmt"

// Logger defines the logging interface used by the module engine.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Module is the contract every hardware driver implements.
//
// A module is constructed once at daemon start and exclusively owned by
// the Registry. Init runs once (failure excludes the module, the daemon
// keeps going); Cleanup runs once at shutdown and must swallow its own
// errors. HandleCommand must not block indefinitely: long-running
// effects are delegated to the module's Animator, never executed
// inline.
type Module interface {
	// Name returns the unique module identifier, stable across restarts.
	Name() string

	// Description returns a short human-readable summary.
	Description() string

	// Init acquires and configures the underlying device. Called once.
	Init() error

	// Cleanup releases the device. Called once at shutdown for every
	// module whose Init succeeded. Must not panic.
	Cleanup()

	// HandleCommand dispatches one action. The Registry's per-module
	// lock is held for the full duration of the call.
	HandleCommand(action string, params Params) Response

	// State returns a snapshot of the module's last-known output
	// state. Safe to call at any time under the module lock.
	State() map[string]any

	// Capabilities returns the module's action descriptors in a
	// stable order. Produced on demand, never cached by the engine.
	Capabilities() []Capability
}

// Animated is implemented by modules that run background animations.
// The Registry injects the module's Animator after a successful Init.
type Animated interface {
	SetAnimator(a *Animator)
}

// EventSink receives hardware events emitted by modules (touches,
// expression changes). Implemented by the events system.
type EventSink interface {
	Emit(module, eventType string, data map[string]any)
}

// EventEmitter is implemented by modules that emit hardware events.
// The Registry injects the daemon's event sink after a successful Init.
type EventEmitter interface {
	SetEventSink(sink EventSink)
}

// Capability describes one action a module supports.
type Capability struct {
	Action      string               `json:"action"`
	Description string               `json:"description"`
	Params      map[string]ParamSpec `json:"params,omitempty"`
}

// ParamSpec describes one parameter of a capability.
type ParamSpec struct {
	// Type is the JSON type expected: "string", "int", "float",
	// "bool", "list" or "object".
	Type string `json:"type"`

	Required bool `json:"required,omitempty"`

	// Default applies when the parameter is omitted.
	Default any `json:"default,omitempty"`

	// Min and Max bound numeric parameters when set.
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`

	// Enum lists the allowed values when the parameter is a closed set.
	Enum []string `json:"enum,omitempty"`
}

// Response is the result of exactly one command.
//
// Either Data or Error is set, never both. Results is populated only
// for batch aggregates, where OK is true only if every element's OK is
// true.
type Response struct {
	OK      bool           `json:"ok"`
	Data    map[string]any `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
	Results []Response     `json:"results,omitempty"`
}

// OK returns a success response with optional data.
func OK(data map[string]any) Response {
	return Response{OK: true, Data: data}
}

// Errf returns a failure response with a formatted message.
func Errf(format string, args ...any) Response {
	return Response{OK: false, Error: fmt.Sprintf(format, args...)}
}
