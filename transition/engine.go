// Package transition moves displayed element style towards resolved style
// over time and samples keyframe animations.
package transition

import (
	"math"

	"uicss/css"
	"uicss/style"
	"uicss/tree"
)

type Phase uint8

const (
	Idle Phase = iota
	Transitioning
)

func (p Phase) String() string {
	if p == Transitioning {
		return "transitioning"
	}
	return "idle"
}

type element struct {
	phase     Phase
	target    style.Style
	displayed style.Style
	from      style.Style
	spec      style.TransitionSpec
	start     float64

	anim      string
	animStart float64
}

// Engine keeps per element transition state. It is not safe for concurrent
// use, frames are expected to be produced by a single goroutine.
type Engine struct {
	elements map[tree.Handle]*element
}

func NewEngine() *Engine {
	return &Engine{elements: make(map[tree.Handle]*element)}
}

// Step advances element to time now given its freshly resolved style. It
// returns style to display and whether it differs from the one returned by
// previous step.
//
// When resolved style changes and it carries a transition spec, transition
// starts from what is currently displayed, so changes in the middle of a
// transition continue smoothly. Without spec resolved style is applied
// immediately.
func (e *Engine) Step(id tree.Handle, resolved style.Style, now float64) (style.Style, bool) {
	el, ok := e.elements[id]
	if !ok {
		e.elements[id] = &element{target: resolved, displayed: resolved}
		return resolved, true
	}
	prev := el.displayed

	if !resolved.Equal(el.target) {
		el.target = resolved
		spec := resolved.Transition
		if spec == nil || spec.Properties == style.PropNone || (spec.Duration <= 0 && spec.Delay <= 0) {
			el.phase = Idle
			el.displayed = resolved
		} else {
			el.phase = Transitioning
			el.from = el.displayed
			el.spec = *spec
			el.start = now
		}
	}

	if el.phase == Transitioning {
		t := 1.0
		if el.spec.Duration > 0 {
			t = (now - el.start - el.spec.Delay) / el.spec.Duration
		} else if now-el.start < el.spec.Delay {
			t = 0
		}
		switch {
		case t >= 1:
			el.phase = Idle
			el.displayed = el.target
		case t <= 0:
			el.displayed = Blend(el.from, el.target, 0, el.spec.Properties)
		default:
			el.displayed = Blend(el.from, el.target, Apply(el.spec.Timing, t), el.spec.Properties)
		}
	}
	return el.displayed, !el.displayed.Equal(prev)
}

// Phase reports transition state of an element.
func (e *Engine) Phase(id tree.Handle) Phase {
	if el, ok := e.elements[id]; ok {
		return el.phase
	}
	return Idle
}

// Displayed returns last displayed style of an element.
func (e *Engine) Displayed(id tree.Handle) (style.Style, bool) {
	el, ok := e.elements[id]
	if !ok {
		return style.Style{}, false
	}
	return el.displayed, true
}

// Playback is keyframe animation state at a given moment.
type Playback uint8

const (
	Stopped Playback = iota
	// Pending animation waits for its delay to pass.
	Pending
	Running
)

func (p Playback) String() string {
	switch p {
	case Pending:
		return "pending"
	case Running:
		return "running"
	}
	return "stopped"
}

// PlaybackAt reports animation state at elapsed seconds since animation
// start. Infinite animations never stop.
func PlaybackAt(frames []css.Keyframe, spec style.AnimationSpec, elapsed float64) Playback {
	if len(frames) == 0 || spec.Duration <= 0 {
		return Stopped
	}
	local := elapsed - spec.Delay
	if local < 0 {
		return Pending
	}
	if !math.IsInf(spec.Iterations, 1) && local/spec.Duration >= spec.Iterations {
		return Stopped
	}
	return Running
}

// Animate samples keyframe animation of an element. Animation clock starts
// when animation name is seen for the first time and restarts when the name
// changes. Returned style is empty unless animation is running, pending
// animation still needs frames to start.
func (e *Engine) Animate(id tree.Handle, spec *style.AnimationSpec, frames []css.Keyframe, now float64) (style.Style, Playback) {
	el, ok := e.elements[id]
	if !ok {
		el = &element{}
		e.elements[id] = el
	}
	if spec == nil || spec.Name == "" {
		el.anim = ""
		return style.Style{}, Stopped
	}
	if el.anim != spec.Name {
		el.anim, el.animStart = spec.Name, now
	}
	elapsed := now - el.animStart
	if p := PlaybackAt(frames, *spec, elapsed); p != Running {
		return style.Style{}, p
	}
	overlay, _ := Sample(frames, *spec, elapsed)
	return overlay, Running
}

// Forget drops element state.
func (e *Engine) Forget(id tree.Handle) {
	delete(e.elements, id)
}

// Sample computes animation style at elapsed seconds since animation start.
// False is returned before delay is over, after the last iteration and when
// there is nothing to animate.
func Sample(frames []css.Keyframe, spec style.AnimationSpec, elapsed float64) (style.Style, bool) {
	if PlaybackAt(frames, spec, elapsed) != Running {
		return style.Style{}, false
	}
	iter := (elapsed - spec.Delay) / spec.Duration
	n := math.Floor(iter)
	p := iter - n

	var reversed bool
	switch spec.Direction {
	case style.DirectionReverse:
		reversed = true
	case style.DirectionAlternate:
		reversed = int64(n)%2 == 1
	case style.DirectionAlternateReverse:
		reversed = int64(n)%2 == 0
	}
	if reversed {
		p = 1 - p
	}
	return sampleFrames(frames, spec.Timing, p), true
}

// sampleFrames blends keyframes surrounding progress p, timing function is
// applied to each keyframe interval.
func sampleFrames(frames []css.Keyframe, tm style.Timing, p float64) style.Style {
	if p <= frames[0].Progress {
		return frames[0].Style
	}
	last := frames[len(frames)-1]
	if p >= last.Progress {
		return last.Style
	}
	for i := 1; i < len(frames); i++ {
		a, b := frames[i-1], frames[i]
		if p > b.Progress {
			continue
		}
		span := b.Progress - a.Progress
		if span <= 0 {
			return b.Style
		}
		return Blend(a.Style, b.Style, Apply(tm, (p-a.Progress)/span), style.PropAll)
	}
	return last.Style
}
