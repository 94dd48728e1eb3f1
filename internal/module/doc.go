// Package module defines the hardware-module contract and the engine
// that owns it: the module registry, per-module locking, and the
// animation task lifecycle.
//
// A Module is one hardware peripheral's control unit. The Registry
// constructs and initializes the static module set at daemon start,
// hands out per-module locks to the router, and performs ordered
// shutdown. The Animator runs at most one cancellable background
// animation task per module; starting a new task or issuing any
// direct command first cancels and joins the running one, so the
// synchronous command path and the animation path never race on the
// device.
//
// Concrete modules live in internal/hardware and satisfy the Module
// interface; the engine never inspects what they draw.
package module
