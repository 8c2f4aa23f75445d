package hub75

import (
	"fmt"
	"time"
)

// Effect selects how an animation transitions between adjacent source
// frames.
type Effect int

const (
	// EffectNone shows each source frame as-is for an equal share of
	// the animation's duration.
	EffectNone Effect = iota
	// EffectSlide pushes the next frame in from the right.
	EffectSlide
	// EffectFade blends linearly from the current frame to the next.
	EffectFade
	// EffectWipe reveals the next frame column by column, left to right.
	EffectWipe
)

// String returns the effect name.
func (e Effect) String() string {
	switch e {
	case EffectNone:
		return "none"
	case EffectSlide:
		return "slide"
	case EffectFade:
		return "fade"
	case EffectWipe:
		return "wipe"
	default:
		return fmt.Sprintf("effect(%d)", int(e))
	}
}

// ParseEffect maps an effect name to its Effect value.
func ParseEffect(name string) (Effect, error) {
	switch name {
	case "none":
		return EffectNone, nil
	case "slide":
		return EffectSlide, nil
	case "fade":
		return EffectFade, nil
	case "wipe":
		return EffectWipe, nil
	default:
		return EffectNone, fmt.Errorf("hub75: unknown effect %q", name)
	}
}

// AnimationStatus is what Next tells the caller to do.
type AnimationStatus int

const (
	// AnimationWait means no new frame is due; pause briefly and poll again.
	AnimationWait AnimationStatus = iota
	// AnimationApply means the returned frame should go on the display.
	AnimationApply
	// AnimationDone means the animation's duration has elapsed. Terminal.
	AnimationDone
)

// fadeLevels is the blend quantization of EffectFade: enough steps for
// smooth fades at panel color depths without re-applying on every poll.
const fadeLevels = 16

// Animation produces successive display frames from a fixed set of
// source frames as a pure function of elapsed time. It holds only the
// start time and the last applied step — no timers, no goroutines —
// so the caller fully controls pacing by polling Next, and a restart
// is just a new start time.
type Animation struct {
	frames   []*FrameBuffer
	effect   Effect
	duration time.Duration
	start    time.Time
	lastStep int
}

// NewAnimation validates and builds an animation over the given source
// frames. The source frames are not copied and must stay unchanged for
// the animation's lifetime. Construction is the only failure point:
// Next cannot fail.
func NewAnimation(frames []*FrameBuffer, effect Effect, duration time.Duration, start time.Time) (*Animation, error) {
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}
	if duration <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrDuration, duration)
	}
	w, h := frames[0].Width(), frames[0].Height()
	for i, f := range frames {
		if f == nil || f.Width() != w || f.Height() != h {
			return nil, fmt.Errorf("%w: frame %d", ErrFrameSize, i)
		}
	}
	return &Animation{
		frames:   frames,
		effect:   effect,
		duration: duration,
		start:    start,
		lastStep: -1,
	}, nil
}

// Restart rewinds the animation to begin at now.
func (a *Animation) Restart(now time.Time) {
	a.start = now
	a.lastStep = -1
}

// Duration returns the total animation duration.
func (a *Animation) Duration() time.Duration { return a.duration }

// segments returns how many timeline segments the effect divides the
// duration into. EffectNone shows each frame in its own segment; the
// transition effects spend each segment morphing between two adjacent
// frames.
func (a *Animation) segments() int {
	if a.effect == EffectNone {
		return len(a.frames)
	}
	if len(a.frames) < 2 {
		return 1
	}
	return len(a.frames) - 1
}

// stepsPerSegment returns the effect's step granularity within one
// segment; crossing a step boundary is what makes Next emit a frame.
func (a *Animation) stepsPerSegment() int {
	switch a.effect {
	case EffectSlide, EffectWipe:
		return a.frames[0].Width()
	case EffectFade:
		return fadeLevels
	default:
		return 1
	}
}

// Next reports the animation state at the given instant. Once elapsed
// time reaches the duration it returns AnimationDone with no frame.
// Otherwise it returns AnimationApply with a freshly composed frame if
// a step boundary was crossed since the last call, or AnimationWait if
// the frame on the display is still current.
func (a *Animation) Next(now time.Time) (AnimationStatus, *FrameBuffer) {
	elapsed := now.Sub(a.start)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed >= a.duration {
		return AnimationDone, nil
	}

	total := a.segments() * a.stepsPerSegment()
	step := int(int64(elapsed) * int64(total) / int64(a.duration))
	if step >= total {
		step = total - 1
	}
	if step == a.lastStep {
		return AnimationWait, nil
	}
	a.lastStep = step
	return AnimationApply, a.compose(step)
}

// compose builds the display frame for one timeline step.
func (a *Animation) compose(step int) *FrameBuffer {
	per := a.stepsPerSegment()
	seg := step / per
	if a.effect == EffectNone {
		return a.frames[seg].Clone()
	}

	cur := a.frames[seg]
	next := cur
	if seg+1 < len(a.frames) {
		next = a.frames[seg+1]
	}
	k := step % per

	out := cur.Clone()
	switch a.effect {
	case EffectSlide:
		slide(out, cur, next, k)
	case EffectFade:
		fade(out, cur, next, k, per)
	case EffectWipe:
		wipe(out, cur, next, k)
	}
	return out
}

// slide shifts the current frame left by k columns and fills the freed
// right-hand columns with the left edge of the next frame.
func slide(out, cur, next *FrameBuffer, k int) {
	w, h := out.Width(), out.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			src := x + k
			if src < w {
				out.SetPixel(x, y, cur.Pixel(src, y))
			} else {
				out.SetPixel(x, y, next.Pixel(src-w, y))
			}
		}
	}
}

// fade blends out = cur*(levels-k)/levels + next*k/levels per channel,
// rounding to nearest.
func fade(out, cur, next *FrameBuffer, k, levels int) {
	w, h := out.Width(), out.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := cur.Pixel(x, y)
			n := next.Pixel(x, y)
			out.SetPixel(x, y, Color{
				R: blend(c.R, n.R, k, levels),
				G: blend(c.G, n.G, k, levels),
				B: blend(c.B, n.B, k, levels),
			})
		}
	}
}

func blend(c, n uint8, k, levels int) uint8 {
	return uint8((int(c)*(levels-k) + int(n)*k + levels/2) / levels)
}

// wipe reveals the next frame on the k leftmost columns.
func wipe(out, cur, next *FrameBuffer, k int) {
	w, h := out.Width(), out.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < k {
				out.SetPixel(x, y, next.Pixel(x, y))
			} else {
				out.SetPixel(x, y, cur.Pixel(x, y))
			}
		}
	}
}
