package module

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// defaultStopGrace is how long Stop waits for a running task to
// acknowledge cancellation before reporting it stuck.
const defaultStopGrace = 2 * time.Second

// AnimationFunc is the body of one animation task. It must poll ctx
// between discrete steps (never mid-step) and return promptly once the
// context is cancelled. Returning before cancellation is a normal
// completion.
type AnimationFunc func(ctx context.Context)

// Animator runs at most one background animation task per module.
//
// Starting a new task first cancels and joins any existing task, so two
// tasks for the same module never run concurrently. Cancellation is
// cooperative and synchronous from the caller's point of view: Stop
// blocks until the old task exits or the grace period elapses.
//
// All methods must be called with the owning module's registry lock
// held; the Animator itself only synchronizes against its own running
// task.
type Animator struct {
	module string
	grace  time.Duration
	logger Logger

	mu      sync.Mutex
	name    string
	cancel  context.CancelFunc
	done    chan struct{}
	stopped string // name of the most recently stopped task
}

// NewAnimator creates an Animator for the named module.
func NewAnimator(module string, logger Logger) *Animator {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Animator{
		module: module,
		grace:  defaultStopGrace,
		logger: logger,
	}
}

// Start launches a new animation task, cancelling and joining any
// running one first.
//
// Parameters:
//   - name: Logical task name, e.g. "thinking"
//   - fn: Task body, driven until completion or cancellation
//
// Returns:
//   - error: If a prior task failed to stop within the grace period.
//     The new task is not started in that case.
func (a *Animator) Start(name string, fn AnimationFunc) error {
	if _, err := a.Stop(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	a.mu.Lock()
	a.name = name
	a.cancel = cancel
	a.done = done
	a.mu.Unlock()

	a.logger.Debug("animation started", "module", a.module, "animation", name)

	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				a.logger.Error("animation panic recovered",
					"module", a.module,
					"animation", name,
					"panic", r,
				)
			}
		}()
		fn(ctx)
	}()

	return nil
}

// Stop cancels the running task, if any, and waits for it to exit.
//
// Returns:
//   - name: The stopped task's name, or "" if nothing was running
//   - error: ErrAnimationStuck if the task ignored cancellation for
//     the whole grace period
func (a *Animator) Stop() (string, error) {
	a.mu.Lock()
	name := a.name
	cancel := a.cancel
	done := a.done
	a.mu.Unlock()

	if cancel == nil {
		return "", nil
	}

	cancel()

	select {
	case <-done:
	case <-time.After(a.grace):
		a.logger.Error("animation did not acknowledge cancellation",
			"module", a.module,
			"animation", name,
			"grace", a.grace,
		)
		return name, fmt.Errorf("%w: %s/%s", ErrAnimationStuck, a.module, name)
	}

	a.mu.Lock()
	a.stopped = name
	a.name = ""
	a.cancel = nil
	a.done = nil
	a.mu.Unlock()

	a.logger.Debug("animation stopped", "module", a.module, "animation", name)
	return name, nil
}

// Running returns the active task's name, if one is running.
//
// A task that completed naturally still counts as running until the
// next Start or Stop observes its exit; callers treat the name as
// advisory.
func (a *Animator) Running() (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.done == nil {
		return "", false
	}
	select {
	case <-a.done:
		return "", false
	default:
		return a.name, true
	}
}

// LastStopped returns the name of the most recently stopped task.
// Used by stop handlers to report what was pre-empted.
func (a *Animator) LastStopped() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stopped
}

// SetGrace overrides the cancellation grace period. Intended for tests.
func (a *Animator) SetGrace(d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.grace = d
}
