package sound

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dannybabbev/totem/internal/module"
)

var _ module.Module = (*Sound)(nil)

type fakePlayer struct {
	mu      sync.Mutex
	playing bool
	file    string
	volume  float64
	loop    bool
	master  float64
	pauses  int
	resumes int
}

func (p *fakePlayer) Play(file string, volume float64, loop bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = true
	p.file = file
	p.volume = volume
	p.loop = loop
	return nil
}

func (p *fakePlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = false
	p.file = ""
}

func (p *fakePlayer) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pauses++
	return nil
}

func (p *fakePlayer) Resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resumes++
	return nil
}

func (p *fakePlayer) SetVolume(v float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.master = v
	return nil
}

func (p *fakePlayer) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

func testWav(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chime.wav")
	if err := os.WriteFile(path, []byte("RIFF"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPlayUsesMasterVolume(t *testing.T) {
	player := &fakePlayer{}
	s := New(player, 80)
	file := testWav(t)

	resp := s.HandleCommand("play", module.Params{"file": file})
	if !resp.OK {
		t.Fatalf("play failed: %s", resp.Error)
	}
	if player.volume != 0.8 {
		t.Errorf("volume = %v, want 0.8", player.volume)
	}
	if resp.Data["looping"] != false {
		t.Errorf("data = %v", resp.Data)
	}

	state := s.State()
	if state["playing"] != true || state["current_file"] != file {
		t.Errorf("state = %v", state)
	}
}

func TestPlayExplicitVolumeAndLoop(t *testing.T) {
	player := &fakePlayer{}
	s := New(player, 80)

	resp := s.HandleCommand("play", module.Params{
		"file": testWav(t), "volume": 2.5, "loop": true,
	})
	if !resp.OK {
		t.Fatalf("play failed: %s", resp.Error)
	}
	if player.volume != 1.0 {
		t.Errorf("volume = %v, want clamped 1.0", player.volume)
	}
	if !player.loop {
		t.Error("loop not passed through")
	}
}

func TestPlayMissingFile(t *testing.T) {
	s := New(&fakePlayer{}, 80)

	resp := s.HandleCommand("play", module.Params{"file": "/nope/missing.wav"})
	if resp.OK {
		t.Fatal("missing file should fail")
	}
	if !strings.Contains(resp.Error, "file not found") {
		t.Errorf("error = %s", resp.Error)
	}

	resp = s.HandleCommand("play", nil)
	if resp.OK {
		t.Fatal("missing param should fail")
	}
}

func TestStopResetsState(t *testing.T) {
	player := &fakePlayer{}
	s := New(player, 80)
	s.HandleCommand("play", module.Params{"file": testWav(t)})

	resp := s.HandleCommand("stop", nil)
	if !resp.OK {
		t.Fatalf("stop failed: %s", resp.Error)
	}
	state := s.State()
	if state["playing"] != false || state["current_file"] != nil {
		t.Errorf("state = %v", state)
	}
}

func TestVolumeClamped(t *testing.T) {
	player := &fakePlayer{}
	s := New(player, 80)

	resp := s.HandleCommand("volume", module.Params{"level": float64(150)})
	if !resp.OK {
		t.Fatalf("volume failed: %s", resp.Error)
	}
	if resp.Data["volume"] != 100 {
		t.Errorf("volume = %v, want 100", resp.Data["volume"])
	}
	if player.master != 1.0 {
		t.Errorf("player master = %v", player.master)
	}

	resp = s.HandleCommand("volume", nil)
	if resp.OK {
		t.Fatal("missing level should fail")
	}
}

func TestPauseResumeFlow(t *testing.T) {
	player := &fakePlayer{}
	s := New(player, 80)

	// Nothing playing yet.
	if resp := s.HandleCommand("pause", nil); resp.OK {
		t.Fatal("pause with no playback should fail")
	}
	if resp := s.HandleCommand("resume", nil); resp.OK {
		t.Fatal("resume with no pause should fail")
	}

	s.HandleCommand("play", module.Params{"file": testWav(t)})

	resp := s.HandleCommand("pause", nil)
	if !resp.OK {
		t.Fatalf("pause failed: %s", resp.Error)
	}
	if player.pauses != 1 {
		t.Errorf("pauses = %d", player.pauses)
	}
	if s.State()["playing"] != false || s.State()["paused"] != true {
		t.Errorf("state = %v", s.State())
	}

	// Double pause is rejected.
	if resp := s.HandleCommand("pause", nil); resp.OK {
		t.Fatal("second pause should fail")
	}

	resp = s.HandleCommand("resume", nil)
	if !resp.OK {
		t.Fatalf("resume failed: %s", resp.Error)
	}
	if player.resumes != 1 {
		t.Errorf("resumes = %d", player.resumes)
	}
	if s.State()["paused"] != false {
		t.Errorf("state = %v", s.State())
	}
}

func TestUnknownAction(t *testing.T) {
	s := New(&fakePlayer{}, 80)

	resp := s.HandleCommand("whistle", nil)
	if resp.OK {
		t.Fatal("unknown action should fail")
	}
}

func TestExecPlayerLifecycle(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}

	p := NewExecPlayer("sleep")
	if err := p.Play("5", 1.0, false); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if !p.Playing() {
		t.Fatal("should be playing")
	}
	if err := p.Pause(); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if err := p.Resume(); err != nil {
		t.Fatalf("Resume: %v", err)
	}

	p.Stop()
	deadline := time.Now().Add(2 * time.Second)
	for p.Playing() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if p.Playing() {
		t.Fatal("still playing after stop")
	}
	if err := p.Pause(); err == nil {
		t.Fatal("pause after stop should fail")
	}
}

func TestExecPlayerNaturalExit(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}

	p := NewExecPlayer("sleep")
	if err := p.Play("0.05", 1.0, false); err != nil {
		t.Fatalf("Play: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for p.Playing() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if p.Playing() {
		t.Fatal("player did not notice process exit")
	}
}
