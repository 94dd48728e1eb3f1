package face

import (
	"context"
	"math/rand"
	"time"

	"github.com/dannybabbev/totem/internal/module"
)

// animationNames lists the built-in animations in display order.
var animationNames = []string{"thinking", "speaking", "listening", "sleeping", "idle_blink"}

// seqFrame is one frame of a custom animation sequence.
type seqFrame struct {
	frame Frame
	delay time.Duration
}

// withLimit bounds the animation to the requested duration. A limit of
// zero or less means loop until cancelled.
func withLimit(ctx context.Context, limit time.Duration) (context.Context, context.CancelFunc) {
	if limit <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, limit)
}

// pause sleeps between frames, returning false once the context is done.
func pause(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// show renders one animation frame, dropping display errors so a flaky
// backend cannot kill the task mid-loop.
func (f *Face) show(frame Frame) {
	if err := f.render(frame); err != nil {
		f.logger.Debug("animation frame dropped", "module", "face", "error", err)
	}
}

// animThinking spins a line through four orientations.
func (f *Face) animThinking(limit time.Duration) module.AnimationFunc {
	steps := [][][4]int{
		{{3, 1, 3, 6}, {4, 1, 4, 6}}, // vertical
		{{1, 6, 6, 1}},               // diagonal /
		{{1, 3, 6, 3}, {1, 4, 6, 4}}, // horizontal
		{{1, 1, 6, 6}},               // diagonal \
	}
	return func(ctx context.Context) {
		ctx, cancel := withLimit(ctx, limit)
		defer cancel()
		for {
			for _, lines := range steps {
				var frame Frame
				for _, l := range lines {
					frame.Line(l[0], l[1], l[2], l[3])
				}
				f.show(frame)
				if !pause(ctx, 100*time.Millisecond) {
					return
				}
			}
		}
	}
}

// animSpeaking flaps the mouth between open and closed at a jittered
// cadence, which reads far more natural than a fixed beat.
func (f *Face) animSpeaking(limit time.Duration) module.AnimationFunc {
	return func(ctx context.Context) {
		ctx, cancel := withLimit(ctx, limit)
		defer cancel()
		for {
			f.show(TalkOpen)
			if !pause(ctx, jitter(100, 300)) {
				return
			}
			f.show(TalkClosed)
			if !pause(ctx, jitter(50, 200)) {
				return
			}
		}
	}
}

// animListening pulses a ring around the centre of the panel.
func (f *Face) animListening(limit time.Duration) module.AnimationFunc {
	sizes := []int{1, 2, 3, 3, 2, 1}
	return func(ctx context.Context) {
		ctx, cancel := withLimit(ctx, limit)
		defer cancel()
		for {
			for _, size := range sizes {
				var frame Frame
				frame.Ellipse(3-size, 3-size, 4+size, 4+size, false)
				f.show(frame)
				if !pause(ctx, 150*time.Millisecond) {
					return
				}
			}
		}
	}
}

// animSleeping floats a "z" up and across the panel.
func (f *Face) animSleeping(limit time.Duration) module.AnimationFunc {
	positions := [][2]int{{5, 3}, {3, 2}, {2, 1}, {1, 0}}
	return func(ctx context.Context) {
		ctx, cancel := withLimit(ctx, limit)
		defer cancel()
		for {
			for _, pos := range positions {
				var frame Frame
				frame.Glyph(pos[0], pos[1], 'z')
				f.show(frame)
				if !pause(ctx, 400*time.Millisecond) {
					return
				}
			}
		}
	}
}

// animIdleBlink holds the neutral face and blinks at random intervals.
func (f *Face) animIdleBlink(limit time.Duration) module.AnimationFunc {
	return func(ctx context.Context) {
		ctx, cancel := withLimit(ctx, limit)
		defer cancel()
		for {
			f.show(Neutral)
			if !pause(ctx, jitter(2000, 5000)) {
				return
			}
			f.show(Blink)
			if !pause(ctx, 150*time.Millisecond) {
				return
			}
		}
	}
}

// animSequence plays caller-supplied frames, optionally looping.
func (f *Face) animSequence(frames []seqFrame, loop bool) module.AnimationFunc {
	return func(ctx context.Context) {
		for {
			for _, fr := range frames {
				f.show(fr.frame)
				if !pause(ctx, fr.delay) {
					return
				}
			}
			if !loop {
				return
			}
		}
	}
}

// jitter returns a random duration between lo and hi milliseconds.
func jitter(lo, hi int) time.Duration {
	ms := lo + rand.Intn(hi-lo+1)
	return time.Duration(ms) * time.Millisecond
}
