package sound

import (
	"os"
	"sync"

	"github.com/dannybabbev/totem/internal/module"
)

// Sound is the audio playback module.
type Sound struct {
	player Player

	mu      sync.Mutex
	volume  int // master volume percentage
	file    string
	paused  bool
	looping bool
}

// New creates the sound module.
//
// Parameters:
//   - player: Playback backend. nil selects an ExecPlayer for "aplay".
//   - volume: Initial master volume percentage (0-100).
func New(player Player, volume int) *Sound {
	if player == nil {
		player = NewExecPlayer("aplay")
	}
	return &Sound{
		player: player,
		volume: clamp(volume, 0, 100),
	}
}

// Name implements module.Module.
func (s *Sound) Name() string { return "sound" }

// Description implements module.Module.
func (s *Sound) Description() string {
	return "Audio playback via external player (WAV/OGG/MP3)"
}

// Init implements module.Module. The player binary is only exec'd on
// the first play, so there is nothing to probe here.
func (s *Sound) Init() error { return nil }

// Cleanup stops any running playback.
func (s *Sound) Cleanup() {
	s.player.Stop()
}

// State implements module.Module.
func (s *Sound) State() map[string]any {
	playing := s.player.Playing()

	s.mu.Lock()
	defer s.mu.Unlock()

	var file any
	if s.file != "" {
		file = s.file
	}
	return map[string]any{
		"volume":       s.volume,
		"playing":      playing && !s.paused,
		"paused":       s.paused,
		"current_file": file,
	}
}

// Capabilities implements module.Module.
func (s *Sound) Capabilities() []module.Capability {
	return []module.Capability{
		{
			Action:      "play",
			Description: "Play an audio file (WAV, OGG, or MP3)",
			Params: map[string]module.ParamSpec{
				"file":   {Type: "string", Required: true},
				"volume": {Type: "float", Min: fptr(0), Max: fptr(1)},
				"loop":   {Type: "bool", Default: false},
			},
		},
		{
			Action:      "stop",
			Description: "Stop all audio playback",
		},
		{
			Action:      "volume",
			Description: "Set master volume level",
			Params: map[string]module.ParamSpec{
				"level": {Type: "int", Required: true, Min: fptr(0), Max: fptr(100)},
			},
		},
		{
			Action:      "pause",
			Description: "Pause current playback",
		},
		{
			Action:      "resume",
			Description: "Resume paused playback",
		},
	}
}

// HandleCommand implements module.Module.
func (s *Sound) HandleCommand(action string, params module.Params) module.Response {
	switch action {
	case "play":
		return s.cmdPlay(params)
	case "stop":
		return s.cmdStop(params)
	case "volume":
		return s.cmdVolume(params)
	case "pause":
		return s.cmdPause(params)
	case "resume":
		return s.cmdResume(params)
	default:
		return module.Errf("unknown sound action: %s", action)
	}
}

func (s *Sound) cmdPlay(params module.Params) module.Response {
	file, err := params.RequireString("file")
	if err != nil {
		return module.Errf("%v", err)
	}
	if info, err := os.Stat(file); err != nil || info.IsDir() {
		return module.Errf("file not found: %s", file)
	}

	s.mu.Lock()
	master := float64(s.volume) / 100
	s.mu.Unlock()

	volume := master
	if params.Has("volume") {
		volume = clampF(params.Float("volume", master), 0, 1)
	}
	loop := params.Bool("loop", false)

	if err := s.player.Play(file, volume, loop); err != nil {
		return module.Errf("play failed: %v", err)
	}

	s.mu.Lock()
	s.file = file
	s.paused = false
	s.looping = loop
	s.mu.Unlock()

	return module.OK(map[string]any{
		"file":    file,
		"volume":  volume,
		"looping": loop,
	})
}

func (s *Sound) cmdStop(_ module.Params) module.Response {
	s.player.Stop()

	s.mu.Lock()
	s.file = ""
	s.paused = false
	s.looping = false
	s.mu.Unlock()

	return module.OK(nil)
}

func (s *Sound) cmdVolume(params module.Params) module.Response {
	level, err := params.RequireInt("level")
	if err != nil {
		return module.Errf("%v", err)
	}
	level = clamp(level, 0, 100)

	if err := s.player.SetVolume(float64(level) / 100); err != nil {
		return module.Errf("volume failed: %v", err)
	}

	s.mu.Lock()
	s.volume = level
	s.mu.Unlock()

	return module.OK(map[string]any{"volume": level})
}

func (s *Sound) cmdPause(_ module.Params) module.Response {
	s.mu.Lock()
	paused := s.paused
	s.mu.Unlock()

	if paused || !s.player.Playing() {
		return module.Errf("nothing is currently playing")
	}
	if err := s.player.Pause(); err != nil {
		return module.Errf("pause failed: %v", err)
	}

	s.mu.Lock()
	s.paused = true
	s.mu.Unlock()

	return module.OK(map[string]any{"paused": true})
}

func (s *Sound) cmdResume(_ module.Params) module.Response {
	s.mu.Lock()
	paused := s.paused
	s.mu.Unlock()

	if !paused {
		return module.Errf("nothing is currently paused")
	}
	if err := s.player.Resume(); err != nil {
		return module.Errf("resume failed: %v", err)
	}

	s.mu.Lock()
	s.paused = false
	s.mu.Unlock()

	return module.OK(map[string]any{"paused": false})
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func fptr(v float64) *float64 { return &v }
