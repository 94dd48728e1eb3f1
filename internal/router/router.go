package router

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dannybabbev/totem/internal/events"
	"github.com/dannybabbev/totem/internal/module"
)

// Logger defines the logging interface used by the router.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Metrics records per-command telemetry. Satisfied by *influxdb.Client.
type Metrics interface {
	WriteCommandMetric(module, action string, duration time.Duration, ok bool)
}

// EventSource serves the events verb. Satisfied by *events.Bus.
type EventSource interface {
	Drain(peek bool) []events.Event
}

// Request is one decoded protocol message.
//
// Exactly one of the shapes applies: a batch (Batch non-nil), a system
// verb (Module empty), the compound totem module, or a single module
// command.
type Request struct {
	Module string        `json:"module,omitempty"`
	Action string        `json:"action,omitempty"`
	Params module.Params `json:"params,omitempty"`
	Batch  []Request     `json:"batch,omitempty"`
}

// Router turns one decoded request into exactly one response, applying
// module resolution, per-module locking and the system verbs.
type Router struct {
	registry *module.Registry
	events   EventSource
	logger   Logger
	metrics  Metrics
}

// New creates a router over the given registry.
//
// Parameters:
//   - registry: The active module set
//   - eventSource: Pending-event source for the events verb; nil
//     disables the verb's data
//   - logger: Router logger; nil for no logging
func New(registry *module.Registry, eventSource EventSource, logger Logger) *Router {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Router{
		registry: registry,
		events:   eventSource,
		logger:   logger,
	}
}

// SetMetrics attaches the telemetry sink for per-command latency.
func (r *Router) SetMetrics(m Metrics) {
	r.metrics = m
}

// HandleRaw decodes one JSON request, routes it and encodes the
// response. A malformed body short-circuits before any module is
// touched. The returned slice is always a valid JSON object.
func (r *Router) HandleRaw(raw []byte) []byte {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		resp := module.Errf("invalid JSON: %v", err)
		return mustMarshal(resp)
	}
	return mustMarshal(r.Dispatch(req))
}

// Dispatch routes one request to its handler.
func (r *Router) Dispatch(req Request) module.Response {
	switch {
	case req.Batch != nil:
		return r.handleBatch(req.Batch)
	case req.Module == "":
		return r.handleSystem(req.Action, req.Params)
	case req.Module == "totem":
		return r.handleCompound(req.Action, req.Params)
	default:
		return r.handleCommand(req.Module, req.Action, req.Params)
	}
}

// handleCommand executes one single module command under that module's
// lock. Any running animation is cancelled and joined first, so the
// synchronous path and the animation path never race on the device.
func (r *Router) handleCommand(name, action string, params module.Params) module.Response {
	entry, err := r.registry.Get(name)
	if err != nil {
		return module.Errf("unknown module '%s'. Available: %s",
			name, strings.Join(r.registry.Names(), ", "))
	}

	start := time.Now()

	entry.Lock()
	defer entry.Unlock()

	if stopped, err := entry.Animator().Stop(); err != nil {
		// The stalled task still owns the device; the command that
		// attempted the pre-emption fails.
		r.logger.Error("animation pre-emption failed",
			"module", name, "animation", stopped, "error", err)
		resp := module.Errf("animation '%s' did not stop, module may be degraded", stopped)
		r.record(name, action, start, resp.OK)
		return resp
	}

	resp := r.invoke(entry.Module(), action, params)
	r.record(name, action, start, resp.OK)
	return resp
}

// invoke calls HandleCommand with panic containment. A panicking module
// produces an error response and never leaves its lock held.
func (r *Router) invoke(m module.Module, action string, params module.Params) (resp module.Response) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("module command panic recovered",
				"module", m.Name(), "action", action, "panic", rec)
			resp = module.Errf("internal error in module '%s': %v", m.Name(), rec)
		}
	}()
	return m.HandleCommand(action, params)
}

// record writes the command latency metric if a sink is attached.
func (r *Router) record(name, action string, start time.Time, ok bool) {
	if r.metrics != nil {
		r.metrics.WriteCommandMetric(name, action, time.Since(start), ok)
	}
}

// handleBatch executes the elements in submission order. Execution
// never short-circuits: an error in element i does not prevent
// elements i+1..n from running. The aggregate ok is true only if every
// element succeeded.
func (r *Router) handleBatch(commands []Request) module.Response {
	results := make([]module.Response, 0, len(commands))
	allOK := true
	for _, cmd := range commands {
		resp := r.Dispatch(cmd)
		if !resp.OK {
			allOK = false
		}
		results = append(results, resp)
	}
	return module.Response{OK: allOK, Results: results}
}

// handleSystem handles the module-less verbs.
func (r *Router) handleSystem(action string, params module.Params) module.Response {
	switch action {
	case "ping":
		return module.OK(map[string]any{"pong": true})

	case "status":
		states := r.registry.States()
		data := make(map[string]any, len(states))
		for name, state := range states {
			data[name] = state
		}
		return module.OK(data)

	case "capabilities":
		caps := make(map[string]any)
		for name, list := range r.registry.Capabilities() {
			entry, err := r.registry.Get(name)
			if err != nil {
				continue
			}
			caps[name] = map[string]any{
				"description": entry.Module().Description(),
				"actions":     list,
			}
		}
		return module.OK(caps)

	case "events":
		if r.events == nil {
			return module.OK(map[string]any{"events": []events.Event{}, "count": 0})
		}
		pending := r.events.Drain(params.Bool("peek", false))
		return module.OK(map[string]any{"events": pending, "count": len(pending)})

	default:
		return module.Errf("unknown system action '%s'", action)
	}
}

// handleCompound handles the virtual "totem" module, whose actions fan
// out to multiple hardware modules in a fixed order.
func (r *Router) handleCompound(action string, params module.Params) module.Response {
	switch action {
	case "express":
		return r.handleExpress(params)
	default:
		return module.Errf("unknown compound action '%s'", action)
	}
}

// handleExpress sets a face expression and writes a message to the
// LCD, always face first, so a status poll mid-sequence observes a
// stable intermediate state. Modules that are not active are skipped.
func (r *Router) handleExpress(params module.Params) module.Response {
	emotion := params.String("emotion", params.String("name", "neutral"))
	message := params.String("message", "")

	allOK := true

	if _, err := r.registry.Get("face"); err == nil {
		resp := r.handleCommand("face", "expression", module.Params{"name": emotion})
		if !resp.OK {
			allOK = false
		}
	}

	if message != "" {
		if _, err := r.registry.Get("lcd"); err == nil {
			line1 := message
			line2 := ""
			// Split on code points so a multi-byte rune at the
			// boundary stays intact.
			if runes := []rune(message); len(runes) > 16 {
				line1 = string(runes[:16])
				if len(runes) > 32 {
					line2 = string(runes[16:32])
				} else {
					line2 = string(runes[16:])
				}
			}
			resp := r.handleCommand("lcd", "write", module.Params{"line1": line1, "line2": line2})
			if !resp.OK {
				allOK = false
			}
		}
	}

	return module.Response{
		OK:   allOK,
		Data: map[string]any{"emotion": emotion, "message": message},
	}
}

// mustMarshal encodes a response. Responses are built from plain maps
// and strings, so encoding cannot fail in practice; if it somehow
// does, a minimal error object goes out instead of nothing.
func mustMarshal(resp module.Response) []byte {
	data, err := json.Marshal(resp)
	if err != nil {
		return []byte(fmt.Sprintf(`{"ok":false,"error":"response encoding failed: %v"}`, err))
	}
	return data
}
