// Package styling runs per frame style pass over element tree: it resolves
// cascade for elements whose inputs changed, propagates inherited values and
// moves displayed style through transitions and animations.
package styling

import (
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"uicss/cache"
	"uicss/cascade"
	"uicss/css"
	"uicss/style"
	"uicss/transition"
	"uicss/tree"
)

// Observer is notified when displayed style of an element changes.
type Observer interface {
	StyleChanged(h tree.Handle, displayed style.Style)
}

// ObserverFunc adapts function to Observer.
type ObserverFunc func(h tree.Handle, displayed style.Style)

func (f ObserverFunc) StyleChanged(h tree.Handle, displayed style.Style) {
	f(h, displayed)
}

// Snapshot is the outcome of the last frame for a single element. Resolved
// and Displayed include values inherited from parent displayed style.
// Animating is also set while animation waits for its delay.
type Snapshot struct {
	Resolved      style.Style `yaml:"resolved"`
	Displayed     style.Style `yaml:"displayed"`
	Transitioning bool        `yaml:"transitioning,omitempty"`
	Animating     bool        `yaml:"animating,omitempty"`
}

type Options struct {
	Viewport style.Viewport
	Clock    transition.Clock
	Observer Observer
	// DefaultTransition is used for elements which style does not specify
	// transition, nil disables implicit transitions.
	DefaultTransition *style.TransitionSpec
	Log               *zap.Logger
}

// System owns everything needed to produce styles for a tree. It is driven
// from a single goroutine, only the cache may be shared.
type System struct {
	log      *zap.Logger
	tree     *tree.Tree
	cache    *cache.Cache
	resolver *cascade.Resolver
	engine   *transition.Engine
	clock    transition.Clock
	observer Observer
	viewport style.Viewport
	defTrans *style.TransitionSpec

	tracked   map[tree.Handle][]uuid.UUID
	inline    map[tree.Handle]*style.Style
	own       map[tree.Handle]style.Style // cascade result without inherited values
	snapshots map[tree.Handle]Snapshot
	dirty     map[tree.Handle]struct{}
	all       bool
}

func New(t *tree.Tree, c *cache.Cache, opts Options) *System {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	clock := opts.Clock
	if clock == nil {
		clock = transition.SystemClock()
	}
	if c == nil {
		c = cache.New(nil, log)
	}
	return &System{
		log:       log.Named("styling"),
		tree:      t,
		cache:     c,
		resolver:  cascade.NewResolver(),
		engine:    transition.NewEngine(),
		clock:     clock,
		observer:  opts.Observer,
		viewport:  opts.Viewport,
		defTrans:  opts.DefaultTransition,
		tracked:   make(map[tree.Handle][]uuid.UUID),
		inline:    make(map[tree.Handle]*style.Style),
		own:       make(map[tree.Handle]style.Style),
		snapshots: make(map[tree.Handle]Snapshot),
		dirty:     make(map[tree.Handle]struct{}),
		all:       true,
	}
}

func (s *System) Tree() *tree.Tree {
	return s.tree
}

func (s *System) Cache() *cache.Cache {
	return s.cache
}

// SetViewport changes media query environment, every element is resolved
// again on the next frame.
func (s *System) SetViewport(vp style.Viewport) {
	if vp != s.viewport {
		s.viewport = vp
		s.all = true
	}
}

// Dispatch applies pseudo-state event. Element and its subtree are resolved
// again on the next frame since descendant selectors may depend on ancestor
// state.
func (s *System) Dispatch(ev tree.Event) bool {
	if !s.tree.Apply(ev) {
		return false
	}
	s.markSubtree(ev.Target)
	return true
}

// Notify forwards asset notification to the cache.
func (s *System) Notify(ev cache.Event) {
	s.cache.Notify(ev)
}

// Tick produces frame at the current clock time.
func (s *System) Tick() int {
	return s.Frame(s.clock.Now())
}

// Frame runs a single style pass and returns number of elements which
// displayed style changed.
func (s *System) Frame(now float64) int {
	for _, h := range s.cache.TakeDirty() {
		s.markSubtree(h)
	}

	var (
		changed  int
		resolved int
		// parents with changed displayed style, their children inherit again
		moved = make(map[tree.Handle]struct{})
	)
	s.tree.Walk(func(h tree.Handle, e *tree.Element) bool {
		if !slices.Equal(s.tracked[h], e.Sheets) {
			s.tracked[h] = slices.Clone(e.Sheets)
			s.cache.Track(h, e.Sheets)
			s.dirty[h] = struct{}{}
		}
		if !sameInline(s.inline[h], e.Inline) {
			s.inline[h] = cloneInline(e.Inline)
			s.dirty[h] = struct{}{}
		}

		prev, seen := s.snapshots[h]
		_, isDirty := s.dirty[h]
		_, parentMoved := moved[e.Parent()]
		if seen && !s.all && !isDirty && !parentMoved && !prev.Transitioning && !prev.Animating {
			return true
		}

		own, ok := s.own[h]
		if !ok || s.all || isDirty {
			own = s.resolver.Resolve(s.tree, h, s.sheets(e))
			s.own[h] = own
			resolved++
		}

		// inherited values are not part of transition target, they follow
		// parent displayed style directly
		target := own
		if target.Transition == nil && s.defTrans != nil {
			target.Transition = s.defTrans
		}
		displayed, _ := s.engine.Step(h, target, now)
		snap := Snapshot{
			Resolved:      own,
			Transitioning: s.engine.Phase(h) == transition.Transitioning,
		}

		var frames []css.Keyframe
		if own.Animation != nil {
			frames, _ = s.keyframes(e, own.Animation.Name)
		}
		overlay, playback := s.engine.Animate(h, own.Animation, frames, now)
		if playback == transition.Running {
			displayed.Merge(&overlay)
		}
		// pending animation keeps element stepping until its delay is over
		snap.Animating = playback != transition.Stopped

		if parent, ok := s.snapshots[e.Parent()]; ok {
			cascade.Inherit(&snap.Resolved, &parent.Displayed)
			cascade.Inherit(&displayed, &parent.Displayed)
		}
		snap.Displayed = displayed
		s.snapshots[h] = snap

		if !seen || !prev.Displayed.Equal(displayed) {
			moved[h] = struct{}{}
			changed++
			if s.observer != nil {
				s.observer.StyleChanged(h, displayed)
			}
		}
		return true
	})
	clear(s.dirty)
	s.all = false

	if resolved > 0 || changed > 0 {
		s.log.Debug("Frame done", zap.Float64("now", now), zap.Int("resolved", resolved), zap.Int("changed", changed))
	}
	return changed
}

// sheets returns currently available element sheets in cascade order with
// rules outside of viewport media queries removed. Missing assets are
// skipped, they show up after the cache reports them loaded.
func (s *System) sheets(e *tree.Element) []*css.Stylesheet {
	res := make([]*css.Stylesheet, 0, len(e.Sheets))
	for _, id := range e.Sheets {
		sheet, ok := s.cache.Sheet(id)
		if !ok {
			continue
		}
		res = append(res, sheet.Filtered(s.viewport))
	}
	return res
}

// keyframes looks animation up in element sheets, later sheets win.
func (s *System) keyframes(e *tree.Element, name string) ([]css.Keyframe, bool) {
	for i := len(e.Sheets) - 1; i >= 0; i-- {
		sheet, ok := s.cache.Sheet(e.Sheets[i])
		if !ok {
			continue
		}
		if frames, ok := sheet.Animation(name); ok {
			return frames, true
		}
	}
	return nil, false
}

func (s *System) markSubtree(h tree.Handle) {
	e := s.tree.Get(h)
	if e == nil {
		return
	}
	s.dirty[h] = struct{}{}
	for _, c := range e.Children() {
		s.markSubtree(c)
	}
}

// Snapshot returns result of the last frame for element.
func (s *System) Snapshot(h tree.Handle) (Snapshot, bool) {
	snap, ok := s.snapshots[h]
	return snap, ok
}

// Busy reports whether any element is still transitioning or animating, so
// host may stop producing frames when nothing moves.
func (s *System) Busy() bool {
	for _, snap := range s.snapshots {
		if snap.Transitioning || snap.Animating {
			return true
		}
	}
	return false
}

// Reset drops all per element state, next frame starts from scratch without
// transitions.
func (s *System) Reset() {
	for h := range s.snapshots {
		s.engine.Forget(h)
	}
	clear(s.snapshots)
	clear(s.tracked)
	clear(s.inline)
	clear(s.own)
	clear(s.dirty)
	s.all = true
}

func sameInline(tracked, current *style.Style) bool {
	if tracked == nil || current == nil {
		return tracked == current
	}
	return tracked.Equal(*current)
}

// cloneInline keeps a copy, inline style may be changed in place.
func cloneInline(st *style.Style) *style.Style {
	if st == nil {
		return nil
	}
	c := st.Clone()
	return &c
}
