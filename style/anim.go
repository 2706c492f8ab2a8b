package style

import (
	"fmt"
	"math"
	"strings"
)

type TimingKind uint8

const (
	TimingLinear TimingKind = iota
	TimingEase
	TimingEaseIn
	TimingEaseOut
	TimingEaseInOut
	TimingCubicBezier
)

var timingNames = keywords{"linear", "ease", "ease-in", "ease-out", "ease-in-out", "cubic-bezier"}

func (k TimingKind) String() string { return timingNames.name(uint8(k)) }

// Timing selects easing function. Control points are only meaningful for
// cubic-bezier.
type Timing struct {
	Kind           TimingKind
	X1, Y1, X2, Y2 float64
}

func (t Timing) String() string {
	if t.Kind == TimingCubicBezier {
		return fmt.Sprintf("cubic-bezier(%s, %s, %s, %s)", formatFloat(t.X1), formatFloat(t.Y1), formatFloat(t.X2), formatFloat(t.Y2))
	}
	return t.Kind.String()
}

func (t Timing) MarshalYAML() (any, error) {
	return t.String(), nil
}

// ParseTimingName handles keyword timing functions.
func ParseTimingName(s string) (Timing, bool) {
	k, ok := timingNames.parse(s)
	if !ok || TimingKind(k) == TimingCubicBezier {
		return Timing{}, false
	}
	return Timing{Kind: TimingKind(k)}, true
}

// Property is a set of properties a transition applies to.
type Property uint32

const (
	PropColor Property = 1 << iota
	PropBackground
	PropTransform
	PropWidth
	PropHeight
	PropMargin
	PropPadding
	PropBorderColor
	PropBorderRadius
	PropBorderWidth
	PropBoxShadow
	PropFontSize
	PropOffsets

	PropNone Property = 0
	PropAll  Property = 1<<iota - 1
)

var propertyNames = map[string]Property{
	"all":              PropAll,
	"none":             PropNone,
	"color":            PropColor,
	"background":       PropBackground,
	"background-color": PropBackground,
	"transform":        PropTransform,
	"width":            PropWidth,
	"min-width":        PropWidth,
	"max-width":        PropWidth,
	"height":           PropHeight,
	"min-height":       PropHeight,
	"max-height":       PropHeight,
	"margin":           PropMargin,
	"padding":          PropPadding,
	"border-color":     PropBorderColor,
	"border-radius":    PropBorderRadius,
	"border-width":     PropBorderWidth,
	"box-shadow":       PropBoxShadow,
	"font-size":        PropFontSize,
	"left":             PropOffsets,
	"top":              PropOffsets,
	"right":            PropOffsets,
	"bottom":           PropOffsets,
}

// ParseProperty maps single transition-property name into a set.
func ParseProperty(s string) (Property, bool) {
	p, ok := propertyNames[strings.ToLower(strings.TrimSpace(s))]
	return p, ok
}

func (p Property) Has(o Property) bool {
	return p&o == o
}

func (p Property) String() string {
	switch p {
	case PropAll:
		return "all"
	case PropNone:
		return "none"
	}
	var names []string
	for _, n := range []string{"color", "background", "transform", "width", "height", "margin", "padding",
		"border-color", "border-radius", "border-width", "box-shadow", "font-size", "left"} {
		if p.Has(propertyNames[n]) {
			names = append(names, n)
		}
	}
	return strings.Join(names, ", ")
}

func (p Property) MarshalYAML() (any, error) {
	return p.String(), nil
}

// TransitionSpec describes how element moves from one resolved style to the
// next. Durations are in seconds.
type TransitionSpec struct {
	Properties Property `yaml:"properties"`
	Duration   float64  `yaml:"duration"`
	Delay      float64  `yaml:"delay"`
	Timing     Timing   `yaml:"timing"`
}

// DefaultTransition is used for values not given in transition shorthand.
func DefaultTransition() TransitionSpec {
	return TransitionSpec{
		Properties: PropAll,
		Duration:   0.3,
		Timing:     Timing{Kind: TimingEaseInOut},
	}
}

type Direction uint8

const (
	DirectionNormal Direction = iota
	DirectionReverse
	DirectionAlternate
	DirectionAlternateReverse
)

var directionNames = keywords{"normal", "reverse", "alternate", "alternate-reverse"}

func (d Direction) String() string            { return directionNames.name(uint8(d)) }
func (d Direction) MarshalYAML() (any, error) { return d.String(), nil }

func ParseDirection(s string) (Direction, bool) {
	v, ok := directionNames.parse(s)
	return Direction(v), ok
}

// AnimationSpec references keyframes by name. Iterations may be +Inf.
type AnimationSpec struct {
	Name       string    `yaml:"name"`
	Duration   float64   `yaml:"duration"`
	Delay      float64   `yaml:"delay"`
	Timing     Timing    `yaml:"timing"`
	Iterations float64   `yaml:"iterations"`
	Direction  Direction `yaml:"direction"`
}

func DefaultAnimation() AnimationSpec {
	return AnimationSpec{
		Duration:   0,
		Timing:     Timing{Kind: TimingEase},
		Iterations: 1,
	}
}

func (a AnimationSpec) Infinite() bool {
	return math.IsInf(a.Iterations, 1)
}
