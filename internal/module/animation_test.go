package module

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestAnimatorStartStop(t *testing.T) {
	a := NewAnimator("face", nil)

	started := make(chan struct{})
	var cancelled atomic.Bool

	err := a.Start("thinking", func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		cancelled.Store(true)
	})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	<-started

	if name, running := a.Running(); !running || name != "thinking" {
		t.Errorf("Running() = %q, %v, want thinking, true", name, running)
	}

	name, err := a.Stop()
	if err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if name != "thinking" {
		t.Errorf("Stop() name = %q, want thinking", name)
	}
	if !cancelled.Load() {
		t.Error("task did not observe cancellation before Stop returned")
	}
	if a.LastStopped() != "thinking" {
		t.Errorf("LastStopped() = %q, want thinking", a.LastStopped())
	}
}

func TestAnimatorStopIdle(t *testing.T) {
	a := NewAnimator("face", nil)

	name, err := a.Stop()
	if err != nil {
		t.Errorf("Stop() on idle animator error = %v", err)
	}
	if name != "" {
		t.Errorf("Stop() on idle animator name = %q, want empty", name)
	}
}

func TestAnimatorStartPreemptsRunning(t *testing.T) {
	a := NewAnimator("face", nil)

	firstExited := make(chan struct{})
	if err := a.Start("first", func(ctx context.Context) {
		<-ctx.Done()
		close(firstExited)
	}); err != nil {
		t.Fatalf("Start(first) error = %v", err)
	}

	secondStarted := make(chan struct{})
	if err := a.Start("second", func(ctx context.Context) {
		close(secondStarted)
		<-ctx.Done()
	}); err != nil {
		t.Fatalf("Start(second) error = %v", err)
	}

	// The first task must have fully exited before the second ran.
	select {
	case <-firstExited:
	default:
		t.Error("second task started before first exited")
	}
	<-secondStarted

	if _, err := a.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
}

func TestAnimatorStuckTask(t *testing.T) {
	a := NewAnimator("face", nil)
	a.SetGrace(50 * time.Millisecond)

	block := make(chan struct{})
	defer close(block)

	if err := a.Start("stuck", func(ctx context.Context) {
		<-block // ignores cancellation
	}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	name, err := a.Stop()
	if !errors.Is(err, ErrAnimationStuck) {
		t.Fatalf("Stop() error = %v, want ErrAnimationStuck", err)
	}
	if name != "stuck" {
		t.Errorf("Stop() name = %q, want stuck", name)
	}
}

func TestAnimatorNaturalCompletion(t *testing.T) {
	a := NewAnimator("face", nil)

	done := make(chan struct{})
	if err := a.Start("once", func(ctx context.Context) {
		close(done)
	}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	<-done

	// Give the goroutine's deferred close a moment.
	deadline := time.After(time.Second)
	for {
		if _, running := a.Running(); !running {
			break
		}
		select {
		case <-deadline:
			t.Fatal("task still reported running after natural completion")
		case <-time.After(5 * time.Millisecond):
		}
	}

	// Starting again after natural completion needs no forced stop.
	if err := a.Start("again", func(ctx context.Context) { <-ctx.Done() }); err != nil {
		t.Fatalf("Start() after completion error = %v", err)
	}
	if _, err := a.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
}

func TestAnimatorPanicContained(t *testing.T) {
	a := NewAnimator("face", nil)

	if err := a.Start("panics", func(ctx context.Context) {
		panic("boom")
	}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// The panic must not leak; the task is joinable.
	if _, err := a.Stop(); err != nil {
		t.Errorf("Stop() after panic error = %v", err)
	}
}
