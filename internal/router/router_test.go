package router

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/dannybabbev/totem/internal/events"
	"github.com/dannybabbev/totem/internal/module"
)

// testModule records commands for assertion.
type testModule struct {
	name     string
	initErr  error
	mu       sync.Mutex
	commands []string
	state    map[string]any
	panicOn  string
	animator *module.Animator
	sequence *[]string // shared across modules to observe cross-module order
	seqMu    *sync.Mutex
}

func newTestModule(name string) *testModule {
	return &testModule{name: name, state: map[string]any{}}
}

func (m *testModule) Name() string        { return m.name }
func (m *testModule) Description() string { return m.name + " test module" }

func (m *testModule) Init() error {
	return m.initErr
}

func (m *testModule) Cleanup() {}

func (m *testModule) HandleCommand(action string, params module.Params) module.Response {
	if action == m.panicOn {
		panic("deliberate test panic")
	}

	m.mu.Lock()
	m.commands = append(m.commands, action)
	m.mu.Unlock()

	if m.sequence != nil {
		m.seqMu.Lock()
		*m.sequence = append(*m.sequence, m.name+":"+action)
		m.seqMu.Unlock()
	}

	switch action {
	case "expression":
		m.mu.Lock()
		m.state["expression"] = params.String("name", "")
		m.mu.Unlock()
		return module.OK(nil)
	case "write":
		m.mu.Lock()
		m.state["line1"] = params.String("line1", "")
		m.state["line2"] = params.String("line2", "")
		m.mu.Unlock()
		return module.OK(nil)
	default:
		return module.Errf("unknown action: %s", action)
	}
}

func (m *testModule) State() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]any, len(m.state))
	for k, v := range m.state {
		out[k] = v
	}
	return out
}

func (m *testModule) Capabilities() []module.Capability {
	return []module.Capability{
		{Action: "expression", Description: "set expression"},
		{Action: "write", Description: "write text"},
	}
}

func (m *testModule) SetAnimator(a *module.Animator) { m.animator = a }

// newTestRouter builds a registry with face and lcd modules plus a bus.
func newTestRouter(t *testing.T) (*Router, *testModule, *testModule, *events.Bus) {
	t.Helper()

	face := newTestModule("face")
	lcd := newTestModule("lcd")

	reg := module.NewRegistry(nil)
	reg.Start(face, lcd)

	bus := events.NewBus(100, time.Second, nil)
	return New(reg, bus, nil), face, lcd, bus
}

func dispatch(t *testing.T, r *Router, raw string) module.Response {
	t.Helper()

	var resp module.Response
	if err := json.Unmarshal(r.HandleRaw([]byte(raw)), &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	return resp
}

func TestPing(t *testing.T) {
	r, _, _, _ := newTestRouter(t)

	resp := dispatch(t, r, `{"action":"ping"}`)
	if !resp.OK {
		t.Fatalf("ping response = %+v", resp)
	}
	if resp.Data["pong"] != true {
		t.Errorf("ping data = %v", resp.Data)
	}
}

func TestUnknownModule(t *testing.T) {
	r, face, _, _ := newTestRouter(t)

	resp := dispatch(t, r, `{"module":"nosuch","action":"expression"}`)
	if resp.OK {
		t.Fatal("unknown module should fail")
	}
	if !strings.Contains(resp.Error, "nosuch") {
		t.Errorf("error does not identify the module: %s", resp.Error)
	}

	// No module's state changed.
	if len(face.commands) != 0 {
		t.Error("command reached a module despite routing error")
	}
}

func TestUnknownAction(t *testing.T) {
	r, _, _, _ := newTestRouter(t)

	resp := dispatch(t, r, `{"module":"face","action":"jump"}`)
	if resp.OK {
		t.Fatal("unknown action should fail")
	}
}

func TestUnknownSystemAction(t *testing.T) {
	r, _, _, _ := newTestRouter(t)

	resp := dispatch(t, r, `{"action":"reboot"}`)
	if resp.OK || !strings.Contains(resp.Error, "reboot") {
		t.Errorf("response = %+v", resp)
	}
}

func TestMalformedJSON(t *testing.T) {
	r, _, _, _ := newTestRouter(t)

	resp := dispatch(t, r, `{"module": face`)
	if resp.OK {
		t.Fatal("malformed body should fail")
	}
	if !strings.Contains(resp.Error, "invalid JSON") {
		t.Errorf("error = %s", resp.Error)
	}
}

func TestCommandAndStatusRoundTrip(t *testing.T) {
	r, _, _, _ := newTestRouter(t)

	resp := dispatch(t, r, `{"module":"face","action":"expression","params":{"name":"happy"}}`)
	if !resp.OK {
		t.Fatalf("expression command failed: %s", resp.Error)
	}

	status := dispatch(t, r, `{"action":"status"}`)
	if !status.OK {
		t.Fatalf("status failed: %s", status.Error)
	}
	face, ok := status.Data["face"].(map[string]any)
	if !ok {
		t.Fatalf("status data = %v", status.Data)
	}
	if face["expression"] != "happy" {
		t.Errorf("status expression = %v, want happy", face["expression"])
	}
}

func TestCapabilities(t *testing.T) {
	failing := newTestModule("sound")
	failing.initErr = errors.New("no audio device")

	reg := module.NewRegistry(nil)
	reg.Start(newTestModule("face"), failing)
	r := New(reg, nil, nil)

	resp := dispatch(t, r, `{"action":"capabilities"}`)
	if !resp.OK {
		t.Fatalf("capabilities failed: %s", resp.Error)
	}
	if _, ok := resp.Data["sound"]; ok {
		t.Error("capabilities listed a module that failed init")
	}

	face, ok := resp.Data["face"].(map[string]any)
	if !ok {
		t.Fatalf("capabilities data = %v", resp.Data)
	}
	if face["description"] != "face test module" {
		t.Errorf("description = %v", face["description"])
	}
	actions, ok := face["actions"].([]any)
	if !ok || len(actions) != 2 {
		t.Errorf("actions = %v", face["actions"])
	}
}

func TestBatchOrderAndNoShortCircuit(t *testing.T) {
	r, _, lcd, _ := newTestRouter(t)

	resp := dispatch(t, r, `{"batch":[
		{"module":"nosuch","action":"x"},
		{"module":"lcd","action":"write","params":{"line1":"hi"}}
	]}`)

	if resp.OK {
		t.Error("aggregate ok should be false when an element fails")
	}
	if len(resp.Results) != 2 {
		t.Fatalf("results length = %d, want 2", len(resp.Results))
	}
	if resp.Results[0].OK {
		t.Error("results[0] should be the failed element")
	}
	if !resp.Results[1].OK {
		t.Errorf("results[1] should have run despite earlier failure: %s", resp.Results[1].Error)
	}
	if len(lcd.commands) != 1 {
		t.Error("second batch element did not execute")
	}
}

func TestBatchAllOK(t *testing.T) {
	r, _, _, _ := newTestRouter(t)

	resp := dispatch(t, r, `{"batch":[
		{"action":"ping"},
		{"module":"face","action":"expression","params":{"name":"sad"}}
	]}`)
	if !resp.OK {
		t.Errorf("aggregate ok = false: %+v", resp)
	}
}

func TestExpressFaceBeforeLCD(t *testing.T) {
	var sequence []string
	var seqMu sync.Mutex

	face := newTestModule("face")
	lcd := newTestModule("lcd")
	face.sequence, face.seqMu = &sequence, &seqMu
	lcd.sequence, lcd.seqMu = &sequence, &seqMu

	reg := module.NewRegistry(nil)
	reg.Start(face, lcd)
	r := New(reg, nil, nil)

	resp := dispatch(t, r, `{"module":"totem","action":"express","params":{"emotion":"happy","message":"Hello from Totem daemon"}}`)
	if !resp.OK {
		t.Fatalf("express failed: %s", resp.Error)
	}

	if len(sequence) != 2 || sequence[0] != "face:expression" || sequence[1] != "lcd:write" {
		t.Errorf("sequence = %v, want face before lcd", sequence)
	}

	// Message split across the two 16-column lines.
	if lcd.state["line1"] != "Hello from Totem" {
		t.Errorf("line1 = %q", lcd.state["line1"])
	}
	if lcd.state["line2"] != " daemon" {
		t.Errorf("line2 = %q", lcd.state["line2"])
	}
	if resp.Data["emotion"] != "happy" {
		t.Errorf("data = %v", resp.Data)
	}
}

func TestExpressSplitsMessageOnRunes(t *testing.T) {
	r, _, lcd, _ := newTestRouter(t)

	// 16th code point is multi-byte; a byte-based split would tear it.
	msg := strings.Repeat("a", 15) + "é tail"
	resp := dispatch(t, r, `{"module":"totem","action":"express","params":{"emotion":"happy","message":"`+msg+`"}}`)
	if !resp.OK {
		t.Fatalf("express failed: %s", resp.Error)
	}

	line1, _ := lcd.state["line1"].(string)
	line2, _ := lcd.state["line2"].(string)
	if line1 != strings.Repeat("a", 15)+"é" {
		t.Errorf("line1 = %q", line1)
	}
	if line2 != " tail" {
		t.Errorf("line2 = %q", line2)
	}
	if !utf8.ValidString(line1) || !utf8.ValidString(line2) {
		t.Errorf("lines are not valid UTF-8: %q %q", line1, line2)
	}

	// Overlong messages drop runes past 32, not bytes past 32.
	long := strings.Repeat("é", 40)
	resp = dispatch(t, r, `{"module":"totem","action":"express","params":{"emotion":"happy","message":"`+long+`"}}`)
	if !resp.OK {
		t.Fatalf("express failed: %s", resp.Error)
	}
	line1, _ = lcd.state["line1"].(string)
	line2, _ = lcd.state["line2"].(string)
	if utf8.RuneCountInString(line1) != 16 || utf8.RuneCountInString(line2) != 16 {
		t.Errorf("rune counts = %d/%d, want 16/16",
			utf8.RuneCountInString(line1), utf8.RuneCountInString(line2))
	}
	if !utf8.ValidString(line1) || !utf8.ValidString(line2) {
		t.Errorf("lines are not valid UTF-8: %q %q", line1, line2)
	}
}

func TestExpressAcceptsNameParam(t *testing.T) {
	r, face, _, _ := newTestRouter(t)

	resp := dispatch(t, r, `{"module":"totem","action":"express","params":{"name":"surprised"}}`)
	if !resp.OK {
		t.Fatalf("express failed: %s", resp.Error)
	}
	if face.state["expression"] != "surprised" {
		t.Errorf("expression = %v", face.state["expression"])
	}
}

func TestEventsVerb(t *testing.T) {
	r, _, _, bus := newTestRouter(t)

	bus.Emit("touch", "released", map[string]any{"duration_ms": 50})

	peek := dispatch(t, r, `{"action":"events","params":{"peek":true}}`)
	if !peek.OK || peek.Data["count"] != float64(1) {
		t.Fatalf("peek response = %+v", peek)
	}

	drain := dispatch(t, r, `{"action":"events"}`)
	if drain.Data["count"] != float64(1) {
		t.Fatalf("drain response = %+v", drain)
	}

	empty := dispatch(t, r, `{"action":"events"}`)
	if empty.Data["count"] != float64(0) {
		t.Errorf("queue should be empty after drain: %+v", empty)
	}
}

func TestCommandPreemptsAnimation(t *testing.T) {
	r, face, _, _ := newTestRouter(t)

	exited := make(chan struct{})
	if err := face.animator.Start("thinking", func(ctx context.Context) {
		<-ctx.Done()
		close(exited)
	}); err != nil {
		t.Fatalf("Start animation: %v", err)
	}

	resp := dispatch(t, r, `{"module":"face","action":"expression","params":{"name":"neutral"}}`)
	if !resp.OK {
		t.Fatalf("command failed: %s", resp.Error)
	}

	// The animation must have fully exited before the command ran.
	select {
	case <-exited:
	default:
		t.Error("animation still running after command completed")
	}
	if _, running := face.animator.Running(); running {
		t.Error("Running() reports an active task after pre-emption")
	}
}

func TestStuckAnimationFailsCommand(t *testing.T) {
	r, face, _, _ := newTestRouter(t)
	face.animator.SetGrace(50 * time.Millisecond)

	block := make(chan struct{})
	defer close(block)
	if err := face.animator.Start("stuck", func(ctx context.Context) {
		<-block
	}); err != nil {
		t.Fatalf("Start animation: %v", err)
	}

	resp := dispatch(t, r, `{"module":"face","action":"expression","params":{"name":"neutral"}}`)
	if resp.OK {
		t.Fatal("command should fail when the animation cannot be stopped")
	}
	if !strings.Contains(resp.Error, "stuck") {
		t.Errorf("error = %s", resp.Error)
	}

	// The handler must not have run.
	if len(face.commands) != 0 {
		t.Error("handler ran despite failed pre-emption")
	}
}

func TestModulePanicContained(t *testing.T) {
	r, face, _, _ := newTestRouter(t)
	face.panicOn = "explode"

	resp := dispatch(t, r, `{"module":"face","action":"explode"}`)
	if resp.OK {
		t.Fatal("panicking handler should produce an error response")
	}
	if !strings.Contains(resp.Error, "face") {
		t.Errorf("error = %s", resp.Error)
	}

	// The lock was released; the module still serves commands.
	again := dispatch(t, r, `{"module":"face","action":"expression","params":{"name":"happy"}}`)
	if !again.OK {
		t.Errorf("module unusable after panic: %s", again.Error)
	}
}

type fakeMetrics struct {
	mu      sync.Mutex
	records []string
}

func (f *fakeMetrics) WriteCommandMetric(module, action string, _ time.Duration, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, module+"/"+action)
}

func TestMetricsRecorded(t *testing.T) {
	r, _, _, _ := newTestRouter(t)
	m := &fakeMetrics{}
	r.SetMetrics(m)

	dispatch(t, r, `{"module":"face","action":"expression","params":{"name":"happy"}}`)

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.records) != 1 || m.records[0] != "face/expression" {
		t.Errorf("records = %v", m.records)
	}
}
