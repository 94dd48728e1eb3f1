package sound

import (
	"errors"
	"os/exec"
	"sync"
	"syscall"
)

// ErrNotPlaying is returned by process controls when no playback is
// active.
var ErrNotPlaying = errors.New("sound: not playing")

// Player drives actual audio output.
//
// Volume is advisory: backends that cannot adjust a live stream apply
// it on the next Play.
type Player interface {
	// Play starts the file, replacing any current playback.
	Play(file string, volume float64, loop bool) error

	// Stop ends playback. Safe to call when idle.
	Stop()

	// Pause suspends the current playback.
	Pause() error

	// Resume continues a paused playback.
	Resume() error

	// SetVolume adjusts the master volume (0.0-1.0).
	SetVolume(v float64) error

	// Playing reports whether a playback is active (paused counts).
	Playing() bool
}

// ExecPlayer plays audio by running an external player binary once per
// file. Looping respawns the process when it exits; pause and resume
// use job-control signals.
type ExecPlayer struct {
	binary string

	mu  sync.Mutex
	gen int
	cmd *exec.Cmd
}

// NewExecPlayer creates a player around the given binary, e.g. "aplay".
func NewExecPlayer(binary string) *ExecPlayer {
	return &ExecPlayer{binary: binary}
}

// Play implements Player. The volume argument is ignored: command-line
// players take their level from the system mixer.
func (p *ExecPlayer) Play(file string, _ float64, loop bool) error {
	p.Stop()

	p.mu.Lock()
	defer p.mu.Unlock()

	p.gen++
	cmd := exec.Command(p.binary, file)
	if err := cmd.Start(); err != nil {
		return err
	}
	p.cmd = cmd
	go p.supervise(cmd, file, loop, p.gen)
	return nil
}

// supervise reaps the player process and respawns it while looping.
func (p *ExecPlayer) supervise(cmd *exec.Cmd, file string, loop bool, gen int) {
	for {
		cmd.Wait() //nolint:errcheck // non-zero exit just ends playback

		p.mu.Lock()
		if p.gen != gen {
			// Superseded by a later Play or Stop.
			p.mu.Unlock()
			return
		}
		if !loop {
			p.cmd = nil
			p.mu.Unlock()
			return
		}
		cmd = exec.Command(p.binary, file)
		if err := cmd.Start(); err != nil {
			p.cmd = nil
			p.mu.Unlock()
			return
		}
		p.cmd = cmd
		p.mu.Unlock()
	}
}

// Stop implements Player.
func (p *ExecPlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.gen++
	if p.cmd != nil && p.cmd.Process != nil {
		p.cmd.Process.Kill() //nolint:errcheck // process may have exited
	}
	p.cmd = nil
}

// Pause implements Player by suspending the player process.
func (p *ExecPlayer) Pause() error {
	return p.signal(syscall.SIGSTOP)
}

// Resume implements Player by continuing the player process.
func (p *ExecPlayer) Resume() error {
	return p.signal(syscall.SIGCONT)
}

func (p *ExecPlayer) signal(sig syscall.Signal) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cmd == nil || p.cmd.Process == nil {
		return ErrNotPlaying
	}
	return p.cmd.Process.Signal(sig)
}

// SetVolume implements Player. External players have no live volume
// control, so this is a no-op.
func (p *ExecPlayer) SetVolume(float64) error { return nil }

// Playing implements Player.
func (p *ExecPlayer) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cmd != nil
}
