package css

import (
	"fmt"
	"slices"
	"sort"

	"uicss/style"
)

// Declaration keeps normal and !important values of a rule separately, the
// cascade applies them at different steps.
type Declaration struct {
	Normal    style.Style `yaml:"normal,omitempty"`
	Important style.Style `yaml:"important,omitempty"`
}

func (d *Declaration) IsEmpty() bool {
	return d.Normal.IsEmpty() && d.Important.IsEmpty()
}

// Merge lays both parts of o over d.
func (d *Declaration) Merge(o *Declaration) {
	d.Normal.Merge(&o.Normal)
	d.Important.Merge(&o.Important)
}

// Rule is a single selector with its declarations. Grouped selectors produce
// one rule per selector.
type Rule struct {
	Selector    string      `yaml:"selector"`
	Declaration Declaration `yaml:"declaration"`
	// Order is position in source, later rules win specificity ties.
	Order int `yaml:"order"`
	// Media is enclosing @media condition, nil outside of @media blocks.
	Media *style.MediaQuery `yaml:"media,omitempty"`
}

// Keyframe is one step of @keyframes, progress is in 0..1 range.
type Keyframe struct {
	Progress float64     `yaml:"progress"`
	Style    style.Style `yaml:"style"`
}

// Stylesheet is the result of parsing. Rules are kept in source order.
type Stylesheet struct {
	Rules     []Rule                `yaml:"rules"`
	Keyframes map[string][]Keyframe `yaml:"keyframes,omitempty"`
	Vars      map[string]string     `yaml:"vars,omitempty"`
	Warnings  []string              `yaml:"-"`
}

func newStylesheet() *Stylesheet {
	return &Stylesheet{
		Keyframes: make(map[string][]Keyframe),
		Vars:      make(map[string]string),
	}
}

// RulesBySelector returns all rules with given selector in source order.
func (s *Stylesheet) RulesBySelector(sel string) []Rule {
	var res []Rule
	for _, r := range s.Rules {
		if r.Selector == sel {
			res = append(res, r)
		}
	}
	return res
}

// Lookup returns combined declaration for selector, later rules laid over
// earlier ones.
func (s *Stylesheet) Lookup(sel string) (Declaration, bool) {
	var (
		res   Declaration
		found bool
	)
	for _, r := range s.Rules {
		if r.Selector == sel {
			res.Merge(&r.Declaration)
			found = true
		}
	}
	return res, found
}

// Selectors lists distinct selectors in order of first appearance.
func (s *Stylesheet) Selectors() []string {
	var res []string
	for _, r := range s.Rules {
		if !slices.Contains(res, r.Selector) {
			res = append(res, r.Selector)
		}
	}
	return res
}

// Filtered returns sheet without rules whose @media condition does not hold
// for the viewport. Sheet is returned as is when nothing is dropped.
func (s *Stylesheet) Filtered(vp style.Viewport) *Stylesheet {
	if s == nil {
		return nil
	}
	keep := true
	for _, r := range s.Rules {
		if !r.Media.Matches(vp) {
			keep = false
			break
		}
	}
	if keep {
		return s
	}
	res := *s
	res.Rules = make([]Rule, 0, len(s.Rules))
	for _, r := range s.Rules {
		if r.Media.Matches(vp) {
			res.Rules = append(res.Rules, r)
		}
	}
	return &res
}

// Animation returns keyframes by name sorted by progress.
func (s *Stylesheet) Animation(name string) ([]Keyframe, bool) {
	if s == nil {
		return nil, false
	}
	kf, ok := s.Keyframes[name]
	return kf, ok && len(kf) > 0
}

func (s *Stylesheet) addKeyframes(name string, frames []Keyframe) {
	sort.SliceStable(frames, func(i, j int) bool { return frames[i].Progress < frames[j].Progress })
	s.Keyframes[name] = frames
}

// ErrorKind classifies non fatal parsing problems.
type ErrorKind int

const (
	MalformedRule ErrorKind = iota
	MalformedDeclaration
	UnsupportedValue
	UnknownProperty
)

func (k ErrorKind) String() string {
	switch k {
	case MalformedRule:
		return "malformed rule"
	case MalformedDeclaration:
		return "malformed declaration"
	case UnsupportedValue:
		return "unsupported value"
	case UnknownProperty:
		return "unknown property"
	}
	return fmt.Sprintf("error kind %d", int(k))
}

// ParseError describes a single skipped piece of stylesheet. Parsing always
// continues after it.
type ParseError struct {
	Kind     ErrorKind
	Source   string
	Selector string
	Property string
	Err      error
}

func (e *ParseError) Error() string {
	msg := e.Kind.String()
	if e.Source != "" {
		msg += " in " + e.Source
	}
	if e.Selector != "" {
		msg += " [" + e.Selector + "]"
	}
	if e.Property != "" {
		msg += " " + e.Property
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
