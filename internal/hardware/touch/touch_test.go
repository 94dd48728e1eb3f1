package touch

import (
	"sync"
	"testing"
	"time"

	"github.com/dannybabbev/totem/internal/module"
)

var (
	_ module.Module       = (*Touch)(nil)
	_ module.EventEmitter = (*Touch)(nil)
)

type captureSink struct {
	mu     sync.Mutex
	types  []string
	datas  []map[string]any
}

func (s *captureSink) Emit(mod, eventType string, data map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.types = append(s.types, mod+"/"+eventType)
	s.datas = append(s.datas, data)
}

func newTestTouch(t *testing.T) (*Touch, *Headless, *captureSink) {
	t.Helper()
	sensor := NewHeadless()
	tm := New(sensor, 17, 200)
	sink := &captureSink{}
	tm.SetEventSink(sink)
	if err := tm.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return tm, sensor, sink
}

func TestTouchAndReleaseEmitEvents(t *testing.T) {
	tm, sensor, sink := newTestTouch(t)

	sensor.Press()
	time.Sleep(20 * time.Millisecond)
	sensor.Release()

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.types) != 2 {
		t.Fatalf("events = %v", sink.types)
	}
	if sink.types[0] != "touch/touched" || sink.types[1] != "touch/released" {
		t.Errorf("events = %v", sink.types)
	}
	if sink.datas[0]["touch_count"] != 1 || sink.datas[0]["pin"] != 17 {
		t.Errorf("touched data = %v", sink.datas[0])
	}
	duration, ok := sink.datas[1]["duration_ms"].(int)
	if !ok || duration < 10 {
		t.Errorf("released duration_ms = %v", sink.datas[1]["duration_ms"])
	}

	state := tm.State()
	if state["is_touched"] != false || state["touch_count"] != 1 {
		t.Errorf("state = %v", state)
	}
	if state["last_touch_time"] == nil || state["last_release_time"] == nil {
		t.Errorf("state = %v", state)
	}
}

func TestRepeatedEdgesIgnored(t *testing.T) {
	tm, sensor, sink := newTestTouch(t)

	// A release with no prior touch, then a double press.
	sensor.Release()
	sensor.Press()
	sensor.Press()

	sink.mu.Lock()
	got := len(sink.types)
	sink.mu.Unlock()
	if got != 1 {
		t.Fatalf("expected a single touched event, got %d", got)
	}
	if tm.State()["touch_count"] != 1 {
		t.Errorf("touch_count = %v", tm.State()["touch_count"])
	}
}

func TestReadReturnsState(t *testing.T) {
	tm, sensor, _ := newTestTouch(t)
	sensor.Press()

	resp := tm.HandleCommand("read", nil)
	if !resp.OK {
		t.Fatalf("read failed: %s", resp.Error)
	}
	if resp.Data["is_touched"] != true || resp.Data["pin"] != 17 {
		t.Errorf("data = %v", resp.Data)
	}
}

func TestConfigClampsDebounce(t *testing.T) {
	tm, sensor, _ := newTestTouch(t)

	resp := tm.HandleCommand("config", module.Params{"debounce_ms": float64(5000)})
	if !resp.OK {
		t.Fatalf("config failed: %s", resp.Error)
	}
	if resp.Data["debounce_ms"] != 2000 {
		t.Errorf("debounce_ms = %v, want clamped 2000", resp.Data["debounce_ms"])
	}
	if sensor.Debounce() != 2*time.Second {
		t.Errorf("sensor debounce = %v", sensor.Debounce())
	}

	// Config with no params just reports the current value.
	resp = tm.HandleCommand("config", nil)
	if !resp.OK || resp.Data["debounce_ms"] != 2000 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestResetCounter(t *testing.T) {
	tm, sensor, _ := newTestTouch(t)

	sensor.Press()
	sensor.Release()
	sensor.Press()
	sensor.Release()
	if tm.State()["touch_count"] != 2 {
		t.Fatalf("touch_count = %v", tm.State()["touch_count"])
	}

	resp := tm.HandleCommand("reset", nil)
	if !resp.OK {
		t.Fatalf("reset failed: %s", resp.Error)
	}
	if tm.State()["touch_count"] != 0 {
		t.Errorf("touch_count = %v after reset", tm.State()["touch_count"])
	}
}

func TestCleanupClosesSensor(t *testing.T) {
	tm, sensor, sink := newTestTouch(t)

	tm.Cleanup()
	if !sensor.Closed() {
		t.Error("sensor not closed")
	}

	sensor.Press()
	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.types) != 0 {
		t.Error("closed sensor should not deliver edges")
	}
}

func TestUnknownAction(t *testing.T) {
	tm, _, _ := newTestTouch(t)

	resp := tm.HandleCommand("calibrate", nil)
	if resp.OK {
		t.Fatal("unknown action should fail")
	}
}
