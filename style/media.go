package style

import (
	"strings"
)

// mediaEpsilon softens bounds so that fractional window sizes do not flicker
// around breakpoints.
const mediaEpsilon = 0.5

type Viewport struct {
	Width  float64
	Height float64
}

func (v Viewport) Landscape() bool {
	return v.Width >= v.Height
}

type MediaKind uint8

const (
	MediaAll MediaKind = iota
	MediaMinWidth
	MediaMaxWidth
	MediaMinHeight
	MediaMaxHeight
	MediaOrientation
	MediaNot
	MediaAnd
	MediaOr
)

// MediaQuery is a condition tree for @media blocks. Landscape is only used
// with orientation.
type MediaQuery struct {
	Kind      MediaKind
	Value     float64
	Landscape bool
	Args      []*MediaQuery
}

// Matches evaluates condition against viewport, nil query always matches.
func (q *MediaQuery) Matches(vp Viewport) bool {
	if q == nil {
		return true
	}
	switch q.Kind {
	case MediaAll:
		return true
	case MediaMinWidth:
		return vp.Width+mediaEpsilon >= q.Value
	case MediaMaxWidth:
		return vp.Width-mediaEpsilon <= q.Value
	case MediaMinHeight:
		return vp.Height+mediaEpsilon >= q.Value
	case MediaMaxHeight:
		return vp.Height-mediaEpsilon <= q.Value
	case MediaOrientation:
		return vp.Landscape() == q.Landscape
	case MediaNot:
		return len(q.Args) == 1 && !q.Args[0].Matches(vp)
	case MediaAnd:
		for _, a := range q.Args {
			if !a.Matches(vp) {
				return false
			}
		}
		return true
	case MediaOr:
		for _, a := range q.Args {
			if a.Matches(vp) {
				return true
			}
		}
		return false
	}
	return false
}

// CacheKey renders canonical form of the condition, equal conditions produce
// equal keys.
func (q *MediaQuery) CacheKey() string {
	if q == nil {
		return "all"
	}
	switch q.Kind {
	case MediaMinWidth:
		return "min-width:" + formatFloat(q.Value)
	case MediaMaxWidth:
		return "max-width:" + formatFloat(q.Value)
	case MediaMinHeight:
		return "min-height:" + formatFloat(q.Value)
	case MediaMaxHeight:
		return "max-height:" + formatFloat(q.Value)
	case MediaOrientation:
		if q.Landscape {
			return "orientation:landscape"
		}
		return "orientation:portrait"
	case MediaNot:
		if len(q.Args) == 1 {
			return "not(" + q.Args[0].CacheKey() + ")"
		}
	case MediaAnd, MediaOr:
		keys := make([]string, 0, len(q.Args))
		for _, a := range q.Args {
			keys = append(keys, a.CacheKey())
		}
		op := "and"
		if q.Kind == MediaOr {
			op = "or"
		}
		return op + "(" + strings.Join(keys, ",") + ")"
	}
	return "all"
}

func (q *MediaQuery) String() string {
	return q.CacheKey()
}
