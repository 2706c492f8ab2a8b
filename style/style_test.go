package style_test

import (
	"math"
	"testing"

	"uicss/style"
)

func TestMerge_DoesNotClearUnsetFields(t *testing.T) {
	base := style.Style{Width: style.Ptr(style.Px(100))}
	red := style.RGBA(255, 0, 0, 255)

	base.Merge(&style.Style{Color: &red})

	if base.Width == nil || *base.Width != style.Px(100) {
		t.Fatalf("width was cleared by merge: %v", base.Width)
	}
	if base.Color == nil || *base.Color != red {
		t.Fatalf("expected color to be set, got %v", base.Color)
	}
}

func TestMerge_LaterWins(t *testing.T) {
	s := style.Style{Width: style.Ptr(style.Px(1))}
	s.Merge(&style.Style{Width: style.Ptr(style.Percent(50))})
	if *s.Width != style.Percent(50) {
		t.Errorf("expected 50%%, got %v", *s.Width)
	}
}

func TestMerge_NilIsNoop(t *testing.T) {
	s := style.Style{ZIndex: style.Ptr(3)}
	s.Merge(nil)
	if *s.ZIndex != 3 {
		t.Errorf("nil merge changed style")
	}
}

func TestMerge_CalcAndValueExcludeEachOther(t *testing.T) {
	s := style.Style{Width: style.Ptr(style.Px(10))}

	calc := style.CalcBinary(style.CalcSub, style.CalcLen(style.Percent(100)), style.CalcLen(style.Px(20)))
	s.Merge(&style.Style{WidthCalc: calc})
	if s.Width != nil {
		t.Errorf("plain width should be cleared by calc, got %v", *s.Width)
	}
	if s.WidthCalc != calc {
		t.Errorf("calc width not set")
	}

	s.Merge(&style.Style{Width: style.Ptr(style.Px(30))})
	if s.WidthCalc != nil {
		t.Errorf("calc width should be cleared by plain value")
	}
	if *s.Width != style.Px(30) {
		t.Errorf("expected 30px, got %v", *s.Width)
	}
}

func TestMerge_TransformComponentsAreIncremental(t *testing.T) {
	s := style.Style{Transform: &style.Transform{TranslateX: style.Ptr(style.Px(5))}}
	original := s.Transform

	s.Merge(&style.Style{Transform: &style.Transform{Rotate: style.Ptr(45.0)}})

	if s.Transform.TranslateX == nil || *s.Transform.TranslateX != style.Px(5) {
		t.Errorf("translate lost on merge")
	}
	if s.Transform.Rotate == nil || *s.Transform.Rotate != 45 {
		t.Errorf("rotate not merged")
	}
	if original.Rotate != nil {
		t.Errorf("merge modified transform in place")
	}
}

func TestEqualAndEmpty(t *testing.T) {
	a := style.Style{Color: style.Ptr(style.White)}
	b := style.Style{Color: style.Ptr(style.White)}
	if !a.Equal(b) {
		t.Errorf("styles with same values must be equal")
	}
	if a.IsEmpty() {
		t.Errorf("style with color is not empty")
	}
	if !(style.Style{}).IsEmpty() {
		t.Errorf("zero style must be empty")
	}
}

func TestExpandRect(t *testing.T) {
	a, b, c, d := style.Px(1), style.Px(2), style.Px(3), style.Px(4)
	tests := []struct {
		name string
		in   []style.Val
		want style.Rect
	}{
		{"one", []style.Val{a}, style.Rect{Top: a, Right: a, Bottom: a, Left: a}},
		{"two", []style.Val{a, b}, style.Rect{Top: a, Right: b, Bottom: a, Left: b}},
		{"three", []style.Val{a, b, c}, style.Rect{Top: a, Right: b, Bottom: c, Left: b}},
		{"four", []style.Val{a, b, c, d}, style.Rect{Top: a, Right: b, Bottom: c, Left: d}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := style.ExpandRect(tt.in)
			if !ok || got != tt.want {
				t.Errorf("ExpandRect(%v) = %v, %v; want %v", tt.in, got, ok, tt.want)
			}
		})
	}
	if _, ok := style.ExpandRect(nil); ok {
		t.Errorf("empty input must be rejected")
	}
	if _, ok := style.ExpandRect([]style.Val{a, b, c, d, a}); ok {
		t.Errorf("five values must be rejected")
	}
}

func TestExpandRadius_ThreeValues(t *testing.T) {
	a, b, c := style.Px(1), style.Px(2), style.Px(3)
	got, ok := style.ExpandRadius([]style.Val{a, b, c})
	want := style.Radius{TopLeft: a, TopRight: b, BottomRight: c, BottomLeft: b}
	if !ok || got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseFontWeight(t *testing.T) {
	tests := []struct {
		in   string
		want style.FontWeight
		ok   bool
	}{
		{"bold", style.WeightBold, true},
		{"Normal", style.WeightNormal, true},
		{"extra-light", style.WeightExtraLight, true},
		{"600", style.WeightSemiBold, true},
		{"650", 0, false},
		{"1000", 0, false},
		{"fat", 0, false},
	}
	for _, tt := range tests {
		got, ok := style.ParseFontWeight(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseFontWeight(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFontVal_Px(t *testing.T) {
	if got := (style.FontVal{Unit: style.FontRem, Size: 2}).Px(16); got != 32 {
		t.Errorf("2rem at 16px root = %v, want 32", got)
	}
	if got := (style.FontVal{Unit: style.FontPx, Size: 14}).Px(16); got != 14 {
		t.Errorf("14px = %v, want 14", got)
	}
}

func TestCalc_Eval(t *testing.T) {
	ctx := style.CalcContext{ParentSize: 200, ViewportW: 1000, ViewportH: 500, RootFontSize: 10}

	tests := []struct {
		name string
		expr *style.CalcExpr
		want float64
		ok   bool
	}{
		{"percent minus px", style.CalcBinary(style.CalcSub, style.CalcLen(style.Percent(50)), style.CalcLen(style.Px(20))), 80, true},
		{"viewport", style.CalcLen(style.Vw(10)), 100, true},
		{"rem", style.CalcBinary(style.CalcMul, style.CalcLen(style.Rem(2)), style.CalcNum(3)), 60, true},
		{"div", style.CalcBinary(style.CalcDiv, style.CalcLen(style.Vh(100)), style.CalcNum(4)), 125, true},
		{"div by zero", style.CalcBinary(style.CalcDiv, style.CalcLen(style.Px(10)), style.CalcNum(0)), 0, false},
		{"nested div by zero", style.CalcBinary(style.CalcAdd, style.CalcNum(1),
			style.CalcBinary(style.CalcDiv, style.CalcNum(1), style.CalcBinary(style.CalcSub, style.CalcNum(2), style.CalcNum(2)))), 0, false},
		{"min", &style.CalcExpr{Op: style.CalcMin, Args: []*style.CalcExpr{style.CalcLen(style.Px(30)), style.CalcLen(style.Percent(10))}}, 20, true},
		{"max", &style.CalcExpr{Op: style.CalcMax, Args: []*style.CalcExpr{style.CalcLen(style.Px(30)), style.CalcLen(style.Percent(10))}}, 30, true},
		{"sin", &style.CalcExpr{Op: style.CalcSin, Args: []*style.CalcExpr{style.CalcNum(math.Pi / 2)}}, 1, true},
		{"auto", style.CalcLen(style.Auto()), 0, false},
		{"malformed", &style.CalcExpr{Op: style.CalcAdd}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.expr.Eval(ctx)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	var nilExpr *style.CalcExpr
	if _, ok := nilExpr.Eval(ctx); ok {
		t.Errorf("nil expression must not evaluate")
	}
}

func TestCalc_String(t *testing.T) {
	e := style.CalcBinary(style.CalcSub, style.CalcLen(style.Percent(100)), style.CalcLen(style.Px(20)))
	if got := e.String(); got != "calc((100% - 20px))" {
		t.Errorf("got %q", got)
	}
}

func TestMediaQuery_Matches(t *testing.T) {
	minW := &style.MediaQuery{Kind: style.MediaMinWidth, Value: 600}
	maxW := &style.MediaQuery{Kind: style.MediaMaxWidth, Value: 600}
	land := &style.MediaQuery{Kind: style.MediaOrientation, Landscape: true}

	tests := []struct {
		name string
		q    *style.MediaQuery
		vp   style.Viewport
		want bool
	}{
		{"nil", nil, style.Viewport{}, true},
		{"min width above", minW, style.Viewport{Width: 800, Height: 600}, true},
		{"min width within epsilon", minW, style.Viewport{Width: 599.6, Height: 600}, true},
		{"min width below", minW, style.Viewport{Width: 500, Height: 600}, false},
		{"max width below", maxW, style.Viewport{Width: 500, Height: 600}, true},
		{"max width above", maxW, style.Viewport{Width: 601, Height: 600}, false},
		{"landscape", land, style.Viewport{Width: 800, Height: 600}, true},
		{"portrait", land, style.Viewport{Width: 600, Height: 800}, false},
		{"not", &style.MediaQuery{Kind: style.MediaNot, Args: []*style.MediaQuery{land}}, style.Viewport{Width: 600, Height: 800}, true},
		{"and", &style.MediaQuery{Kind: style.MediaAnd, Args: []*style.MediaQuery{minW, land}}, style.Viewport{Width: 800, Height: 600}, true},
		{"and fails", &style.MediaQuery{Kind: style.MediaAnd, Args: []*style.MediaQuery{minW, land}}, style.Viewport{Width: 800, Height: 900}, false},
		{"or", &style.MediaQuery{Kind: style.MediaOr, Args: []*style.MediaQuery{maxW, land}}, style.Viewport{Width: 800, Height: 600}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.q.Matches(tt.vp); got != tt.want {
				t.Errorf("Matches(%v) = %v, want %v", tt.vp, got, tt.want)
			}
		})
	}
}

func TestMediaQuery_CacheKey(t *testing.T) {
	a := &style.MediaQuery{Kind: style.MediaAnd, Args: []*style.MediaQuery{
		{Kind: style.MediaMinWidth, Value: 600},
		{Kind: style.MediaOrientation},
	}}
	b := &style.MediaQuery{Kind: style.MediaAnd, Args: []*style.MediaQuery{
		{Kind: style.MediaMinWidth, Value: 600},
		{Kind: style.MediaOrientation},
	}}
	if a.CacheKey() != b.CacheKey() {
		t.Errorf("equal queries must have equal keys: %q vs %q", a.CacheKey(), b.CacheKey())
	}
	if got := a.CacheKey(); got != "and(min-width:600,orientation:portrait)" {
		t.Errorf("unexpected key %q", got)
	}
	var none *style.MediaQuery
	if none.CacheKey() != "all" {
		t.Errorf("nil query key should be 'all'")
	}
}

func TestKeywordsRoundTrip(t *testing.T) {
	if d, ok := style.ParseDisplay("inline-block"); !ok || d.String() != "inline-block" {
		t.Errorf("display parse failed: %v %v", d, ok)
	}
	if _, ok := style.ParseDisplay("table"); ok {
		t.Errorf("unsupported display accepted")
	}
	if f, ok := style.ParseGridAutoFlow("row   dense"); !ok || f != style.GridFlowRowDense {
		t.Errorf("grid-auto-flow parse failed: %v %v", f, ok)
	}
	if p, ok := style.ParseProperty("background-color"); !ok || p != style.PropBackground {
		t.Errorf("property parse failed")
	}
	if !style.PropAll.Has(style.PropTransform) {
		t.Errorf("all must include transform")
	}
}
