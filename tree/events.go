package tree

import "fmt"

// Flag names one bit of PseudoState.
type Flag uint8

const (
	FlagHovered Flag = iota
	FlagFocused
	FlagDisabled
	FlagReadOnly
	FlagChecked
	FlagInvalid
	FlagOpen
)

var flagNames = [...]string{"hovered", "focused", "disabled", "readonly", "checked", "invalid", "open"}

func (f Flag) String() string {
	if int(f) < len(flagNames) {
		return flagNames[f]
	}
	return fmt.Sprintf("flag(%d)", f)
}

// ParseFlag is reverse of Flag.String.
func ParseFlag(s string) (Flag, bool) {
	for i, n := range flagNames {
		if n == s {
			return Flag(i), true
		}
	}
	return 0, false
}

// Event is an input notification changing pseudo-state of one element.
type Event struct {
	Target Handle
	Flag   Flag
	On     bool
}

func Hover(h Handle, on bool) Event   { return Event{Target: h, Flag: FlagHovered, On: on} }
func Focus(h Handle, on bool) Event   { return Event{Target: h, Flag: FlagFocused, On: on} }
func Disable(h Handle, on bool) Event { return Event{Target: h, Flag: FlagDisabled, On: on} }
func Check(h Handle, on bool) Event   { return Event{Target: h, Flag: FlagChecked, On: on} }

func SetReadOnly(h Handle, on bool) Event { return Event{Target: h, Flag: FlagReadOnly, On: on} }
func Invalidate(h Handle, on bool) Event  { return Event{Target: h, Flag: FlagInvalid, On: on} }
func Open(h Handle, on bool) Event        { return Event{Target: h, Flag: FlagOpen, On: on} }

// Apply changes pseudo-state and reports whether anything changed. Disabling
// an element also takes focus away from it.
func (t *Tree) Apply(ev Event) bool {
	e := t.Get(ev.Target)
	if e == nil {
		return false
	}
	before := e.state
	s := &e.state
	switch ev.Flag {
	case FlagHovered:
		s.Hovered = ev.On
	case FlagFocused:
		s.Focused = ev.On && !s.Disabled
	case FlagDisabled:
		s.Disabled = ev.On
		if ev.On {
			s.Focused = false
		}
	case FlagReadOnly:
		s.ReadOnly = ev.On
	case FlagChecked:
		s.Checked = ev.On
	case FlagInvalid:
		s.Invalid = ev.On
	case FlagOpen:
		s.Open = ev.On
	default:
		return false
	}
	return before != e.state
}
