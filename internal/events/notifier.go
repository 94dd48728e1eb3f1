package events

import (
	"fmt"
	"os/exec"
	"strings"
)

// Notifier tells an external agent about a hardware event by invoking
// its CLI:
//
//	<binary> system event --text "..." --mode now
//
// Dispatch runs the binary without waiting for it, so a slow agent
// never blocks sensor callbacks.
type Notifier struct {
	binary string
	logger Logger

	// run launches the command and wait reaps it once it exits.
	// Replaceable for tests.
	run  func(cmd *exec.Cmd) error
	wait func(cmd *exec.Cmd) error
}

// NewNotifier creates a notifier for the given agent binary.
//
// Returns nil if the binary cannot be found on PATH; callers treat a
// nil notifier as "notifications disabled".
func NewNotifier(binary string, logger Logger) *Notifier {
	if logger == nil {
		logger = noopLogger{}
	}

	path, err := exec.LookPath(binary)
	if err != nil {
		logger.Warn("notifier binary not found, notifications disabled", "binary", binary)
		return nil
	}

	return &Notifier{
		binary: path,
		logger: logger,
		run:    (*exec.Cmd).Start,
		wait:   (*exec.Cmd).Wait,
	}
}

// Dispatch notifies the agent about one event. Errors are logged, not
// returned; a failed notification never affects the daemon.
func (n *Notifier) Dispatch(e Event) {
	text := describeEvent(e)

	cmd := exec.Command(n.binary, "system", "event", "--text", text, "--mode", "now")
	if err := n.run(cmd); err != nil {
		n.logger.Warn("event notification failed", "event", e.ID, "error", err)
		return
	}
	// Reap the agent once it exits so finished notifications do not
	// accumulate as zombie processes.
	go func() {
		_ = n.wait(cmd) //nolint:errcheck // Agent exit status is its own business
	}()
	n.logger.Debug("event dispatched to agent", "event", e.ID)
}

// describeEvent builds the human-readable notification text.
func describeEvent(e Event) string {
	parts := []string{
		fmt.Sprintf("%s sensor: %s at %s.", e.Module, e.Type, e.Timestamp.Format("2006-01-02T15:04:05Z07:00")),
	}
	if v, ok := e.Data["touch_count"]; ok {
		parts = append(parts, fmt.Sprintf("Touch count: %v.", v))
	}
	if v, ok := e.Data["duration_ms"]; ok {
		parts = append(parts, fmt.Sprintf("Duration: %vms.", v))
	}
	parts = append(parts, "React to this physically -- use totemctl to show a reaction on the face and LCD.")
	return strings.Join(parts, " ")
}
