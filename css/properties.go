package css

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2/css"

	"uicss/style"
)

// propertyFunc converts declaration value into style field(s). On error the
// style must be left untouched.
type propertyFunc func(s *style.Style, v *value) error

// properties maps property name to its converter.
var properties map[string]propertyFunc

func init() {
	properties = map[string]propertyFunc{
		"width":      dimension(func(s *style.Style) (**style.Val, **style.CalcExpr) { return &s.Width, &s.WidthCalc }),
		"height":     dimension(func(s *style.Style) (**style.Val, **style.CalcExpr) { return &s.Height, &s.HeightCalc }),
		"min-width":  dimension(func(s *style.Style) (**style.Val, **style.CalcExpr) { return &s.MinWidth, &s.MinWidthCalc }),
		"min-height": dimension(func(s *style.Style) (**style.Val, **style.CalcExpr) { return &s.MinHeight, &s.MinHeightCalc }),
		"max-width":  dimension(func(s *style.Style) (**style.Val, **style.CalcExpr) { return &s.MaxWidth, &s.MaxWidthCalc }),
		"max-height": dimension(func(s *style.Style) (**style.Val, **style.CalcExpr) { return &s.MaxHeight, &s.MaxHeightCalc }),

		"left":         length(func(s *style.Style) **style.Val { return &s.Left }),
		"top":          length(func(s *style.Style) **style.Val { return &s.Top }),
		"right":        length(func(s *style.Style) **style.Val { return &s.Right }),
		"bottom":       length(func(s *style.Style) **style.Val { return &s.Bottom }),
		"flex-basis":   length(func(s *style.Style) **style.Val { return &s.FlexBasis }),
		"row-gap":      length(func(s *style.Style) **style.Val { return &s.RowGap }),
		"column-gap":   length(func(s *style.Style) **style.Val { return &s.ColumnGap }),
		"scroll-width": length(func(s *style.Style) **style.Val { return &s.ScrollWidth }),

		"margin":       box(func(s *style.Style) **style.Rect { return &s.Margin }),
		"padding":      box(func(s *style.Style) **style.Rect { return &s.Padding }),
		"border-width": box(func(s *style.Style) **style.Rect { return &s.BorderWidth }),

		"margin-top":     side(func(s *style.Style) **style.Rect { return &s.Margin }, sideTop),
		"margin-right":   side(func(s *style.Style) **style.Rect { return &s.Margin }, sideRight),
		"margin-bottom":  side(func(s *style.Style) **style.Rect { return &s.Margin }, sideBottom),
		"margin-left":    side(func(s *style.Style) **style.Rect { return &s.Margin }, sideLeft),
		"padding-top":    side(func(s *style.Style) **style.Rect { return &s.Padding }, sideTop),
		"padding-right":  side(func(s *style.Style) **style.Rect { return &s.Padding }, sideRight),
		"padding-bottom": side(func(s *style.Style) **style.Rect { return &s.Padding }, sideBottom),
		"padding-left":   side(func(s *style.Style) **style.Rect { return &s.Padding }, sideLeft),

		"color":            colorProp(func(s *style.Style) **style.Color { return &s.Color }),
		"border-color":     colorProp(func(s *style.Style) **style.Color { return &s.BorderColor }),
		"background":       background,
		"background-color": backgroundColor,
		"background-image": background,
		"border":           border,
		"border-radius":    borderRadius,
		"box-shadow":       boxShadow,

		"font-size":   fontSize,
		"font-family": fontFamily,
		"font-weight": fontWeight,

		"display":         keyword(style.ParseDisplay, func(s *style.Style) **style.Display { return &s.Display }),
		"position":        keyword(style.ParsePosition, func(s *style.Style) **style.Position { return &s.Position }),
		"box-sizing":      keyword(style.ParseBoxSizing, func(s *style.Style) **style.BoxSizing { return &s.BoxSizing }),
		"overflow-x":      keyword(style.ParseOverflow, func(s *style.Style) **style.Overflow { return &s.OverflowX }),
		"overflow-y":      keyword(style.ParseOverflow, func(s *style.Style) **style.Overflow { return &s.OverflowY }),
		"flex-direction":  keyword(style.ParseFlexDirection, func(s *style.Style) **style.FlexDirection { return &s.FlexDirection }),
		"flex-wrap":       keyword(style.ParseFlexWrap, func(s *style.Style) **style.FlexWrap { return &s.FlexWrap }),
		"justify-content": keyword(style.ParseJustifyContent, func(s *style.Style) **style.JustifyContent { return &s.JustifyContent }),
		"align-items":     keyword(style.ParseAlignItems, func(s *style.Style) **style.AlignItems { return &s.AlignItems }),
		"text-wrap":       keyword(style.ParseTextWrap, func(s *style.Style) **style.TextWrap { return &s.TextWrap }),
		"grid-auto-flow":  keyword(style.ParseGridAutoFlow, func(s *style.Style) **style.GridAutoFlow { return &s.GridAutoFlow }),
		"pointer-events":  keyword(style.ParsePointerEvents, func(s *style.Style) **style.PointerEvents { return &s.PointerEvents }),
		"overflow":        overflow,

		"flex-grow":   number(func(s *style.Style) **float64 { return &s.FlexGrow }),
		"flex-shrink": number(func(s *style.Style) **float64 { return &s.FlexShrink }),
		"gap":         gap,
		"z-index":     zIndex,

		"grid-row":              raw(func(s *style.Style) **string { return &s.GridRow }),
		"grid-column":           raw(func(s *style.Style) **string { return &s.GridColumn }),
		"grid-template-rows":    raw(func(s *style.Style) **string { return &s.GridTemplateRows }),
		"grid-template-columns": raw(func(s *style.Style) **string { return &s.GridTemplateColumns }),
		"grid-auto-rows":        raw(func(s *style.Style) **string { return &s.GridAutoRows }),

		"transform": transform,

		"transition":                 transition,
		"transition-property":        transitionProperty,
		"transition-duration":        transitionTime(func(t *style.TransitionSpec, v float64) { t.Duration = v }),
		"transition-delay":           transitionTime(func(t *style.TransitionSpec, v float64) { t.Delay = v }),
		"transition-timing-function": transitionTiming,

		"animation":                 animation,
		"animation-name":            animationName,
		"animation-duration":        animationTime(func(a *style.AnimationSpec, v float64) { a.Duration = v }),
		"animation-delay":           animationTime(func(a *style.AnimationSpec, v float64) { a.Delay = v }),
		"animation-timing-function": animationTiming,
		"animation-iteration-count": animationIterations,
		"animation-direction":       animationDirection,
	}
}

// IsSupported reports whether property name has a converter.
func IsSupported(name string) bool {
	_, ok := properties[strings.ToLower(name)]
	return ok
}

// applyProperty converts single declaration into s.
func applyProperty(s *style.Style, name string, v *value) error {
	fn, ok := properties[name]
	if !ok {
		return errUnknownProperty
	}
	return fn(s, v)
}

func dimension(field func(*style.Style) (**style.Val, **style.CalcExpr)) propertyFunc {
	return func(s *style.Style, v *value) error {
		val, expr, err := parseDim(v)
		if err != nil {
			return err
		}
		dst, dstCalc := field(s)
		*dst, *dstCalc = val, expr
		return nil
	}
}

func length(field func(*style.Style) **style.Val) propertyFunc {
	return func(s *style.Style, v *value) error {
		p, err := v.single()
		if err != nil {
			return err
		}
		val, err := parseLength(p)
		if err != nil {
			return err
		}
		*field(s) = &val
		return nil
	}
}

func box(field func(*style.Style) **style.Rect) propertyFunc {
	return func(s *style.Style, v *value) error {
		vals, err := parseLengths(v.parts)
		if err != nil {
			return err
		}
		r, ok := style.ExpandRect(vals)
		if !ok {
			return errValueCount
		}
		*field(s) = &r
		return nil
	}
}

type sideKind int

const (
	sideTop sideKind = iota
	sideRight
	sideBottom
	sideLeft
)

// side updates one side of a box property. Other sides keep values set
// earlier in the same block and are zero otherwise.
func side(field func(*style.Style) **style.Rect, which sideKind) propertyFunc {
	return func(s *style.Style, v *value) error {
		p, err := v.single()
		if err != nil {
			return err
		}
		val, err := parseLength(p)
		if err != nil {
			return err
		}
		dst := field(s)
		var r style.Rect
		if *dst != nil {
			r = **dst
		}
		switch which {
		case sideTop:
			r.Top = val
		case sideRight:
			r.Right = val
		case sideBottom:
			r.Bottom = val
		case sideLeft:
			r.Left = val
		}
		*dst = &r
		return nil
	}
}

func colorProp(field func(*style.Style) **style.Color) propertyFunc {
	return func(s *style.Style, v *value) error {
		p, err := v.single()
		if err != nil {
			return err
		}
		c, err := parseColor(p)
		if err != nil {
			return err
		}
		*field(s) = &c
		return nil
	}
}

func keyword[T any](parse func(string) (T, bool), field func(*style.Style) **T) propertyFunc {
	return func(s *style.Style, v *value) error {
		val, ok := parse(v.keyword())
		if !ok {
			return fmt.Errorf("unsupported keyword '%s'", v.raw)
		}
		*field(s) = &val
		return nil
	}
}

func number(field func(*style.Style) **float64) propertyFunc {
	return func(s *style.Style, v *value) error {
		p, err := v.single()
		if err != nil {
			return err
		}
		if len(p) != 1 {
			return fmt.Errorf("not a number '%s'", p)
		}
		n, err := parseNumberToken(p[0])
		if err != nil {
			return err
		}
		*field(s) = &n
		return nil
	}
}

func raw(field func(*style.Style) **string) propertyFunc {
	return func(s *style.Style, v *value) error {
		if v.raw == "" {
			return errEmptyValue
		}
		r := v.raw
		*field(s) = &r
		return nil
	}
}

func background(s *style.Style, v *value) error {
	if len(v.parts) == 0 {
		return errEmptyValue
	}
	bg := &style.Background{}
	for _, p := range v.parts {
		switch {
		case p.first().TokenType == css.URLToken:
			bg.Image = unquote(strings.TrimSuffix(strings.TrimPrefix(string(p.first().Data), "url("), ")"))
		case p.isFunc("url"):
			if args := p.args(); len(args) == 1 && len(args[0]) == 1 {
				bg.Image = unquote(string(args[0][0].Data))
			}
		case p.isFunc("linear-gradient", "radial-gradient", "conic-gradient", "repeating-linear-gradient", "repeating-radial-gradient"):
			bg.Gradient = p.String()
		case isColor(p):
			c, _ := parseColor(p)
			bg.Color = &c
		default:
			return fmt.Errorf("unsupported background component '%s'", p)
		}
	}
	s.Background = bg
	return nil
}

func backgroundColor(s *style.Style, v *value) error {
	p, err := v.single()
	if err != nil {
		return err
	}
	c, err := parseColor(p)
	if err != nil {
		return err
	}
	s.Background = &style.Background{Color: &c}
	return nil
}

var borderStyles = map[string]bool{
	"none": true, "hidden": true, "solid": true, "dashed": true, "dotted": true,
	"double": true, "groove": true, "ridge": true, "inset": true, "outset": true,
}

// border accepts "WIDTH COLOR", line style keyword is tolerated and ignored.
func border(s *style.Style, v *value) error {
	if len(v.parts) == 0 || len(v.parts) > 3 {
		return errValueCount
	}
	var (
		width *style.Val
		color *style.Color
	)
	for _, p := range v.parts {
		if w, err := parseLength(p); err == nil && width == nil {
			width = &w
			continue
		}
		if len(p) == 1 && p[0].TokenType == css.IdentToken && borderStyles[strings.ToLower(string(p[0].Data))] {
			continue
		}
		c, err := parseColor(p)
		if err != nil || color != nil {
			return fmt.Errorf("unsupported border component '%s'", p)
		}
		color = &c
	}
	if width != nil {
		r := style.UniformRect(*width)
		s.BorderWidth = &r
	}
	if color != nil {
		s.BorderColor = color
	}
	return nil
}

func borderRadius(s *style.Style, v *value) error {
	vals, err := parseLengths(v.parts)
	if err != nil {
		return err
	}
	r, ok := style.ExpandRadius(vals)
	if !ok {
		return errValueCount
	}
	s.BorderRadius = &r
	return nil
}

// boxShadow takes 1 to 4 lengths with optional leading or trailing color. Single length
// is used for all of offsets, blur and spread.
func boxShadow(s *style.Style, v *value) error {
	if v.keyword() == "none" {
		s.BoxShadow = &style.BoxShadow{}
		return nil
	}
	parts := v.parts
	if len(v.groups) > 1 {
		// only first shadow is supported
		parts = v.groups[0]
	}
	var (
		lens  []style.Val
		color = style.Transparent
	)
	for i, p := range parts {
		if l, err := parseLength(p); err == nil {
			lens = append(lens, l)
			continue
		}
		if i != 0 && i != len(parts)-1 {
			return fmt.Errorf("unsupported box-shadow component '%s'", p)
		}
		c, err := parseColor(p)
		if err != nil {
			return err
		}
		color = c
	}
	bs := &style.BoxShadow{Color: color}
	switch len(lens) {
	case 1:
		bs.X, bs.Y, bs.Blur, bs.Spread = lens[0], lens[0], lens[0], lens[0]
	case 2, 3, 4:
		bs.X, bs.Y = lens[0], lens[1]
		if len(lens) > 2 {
			bs.Blur = lens[2]
		}
		if len(lens) > 3 {
			bs.Spread = lens[3]
		}
	default:
		return errValueCount
	}
	s.BoxShadow = bs
	return nil
}

func fontSize(s *style.Style, v *value) error {
	p, err := v.single()
	if err != nil {
		return err
	}
	if len(p) == 1 && p[0].TokenType == css.DimensionToken {
		num, unit := parseDimension(string(p[0].Data))
		switch unit {
		case "px":
			s.FontSize = &style.FontVal{Unit: style.FontPx, Size: num}
			return nil
		case "rem", "em":
			s.FontSize = &style.FontVal{Unit: style.FontRem, Size: num}
			return nil
		}
	}
	return fmt.Errorf("unsupported font size '%s'", p)
}

func fontFamily(s *style.Style, v *value) error {
	if len(v.groups) == 0 {
		return errEmptyValue
	}
	names := make([]string, 0, len(v.groups))
	for _, g := range v.groups {
		var parts []string
		for _, p := range g {
			parts = append(parts, p.String())
		}
		names = append(names, unquote(strings.Join(parts, " ")))
	}
	family := strings.Join(names, ", ")
	s.FontFamily = &family
	return nil
}

func fontWeight(s *style.Style, v *value) error {
	w, ok := style.ParseFontWeight(v.raw)
	if !ok {
		return fmt.Errorf("unsupported font weight '%s'", v.raw)
	}
	s.FontWeight = &w
	return nil
}

func overflow(s *style.Style, v *value) error {
	if len(v.parts) != 1 && len(v.parts) != 2 {
		return errValueCount
	}
	x, ok := style.ParseOverflow(v.parts[0].String())
	if !ok {
		return fmt.Errorf("unsupported overflow '%s'", v.parts[0])
	}
	y := x
	if len(v.parts) == 2 {
		if y, ok = style.ParseOverflow(v.parts[1].String()); !ok {
			return fmt.Errorf("unsupported overflow '%s'", v.parts[1])
		}
	}
	s.OverflowX, s.OverflowY = &x, &y
	return nil
}

func gap(s *style.Style, v *value) error {
	vals, err := parseLengths(v.parts)
	if err != nil {
		return err
	}
	switch len(vals) {
	case 1:
		s.RowGap, s.ColumnGap = &vals[0], &vals[0]
	case 2:
		s.RowGap, s.ColumnGap = &vals[0], &vals[1]
	default:
		return errValueCount
	}
	return nil
}

func zIndex(s *style.Style, v *value) error {
	p, err := v.single()
	if err != nil {
		return err
	}
	if len(p) != 1 || p[0].TokenType != css.NumberToken {
		return fmt.Errorf("z-index must be an integer, got '%s'", p)
	}
	n, err := strconv.Atoi(string(p[0].Data))
	if err != nil {
		return fmt.Errorf("z-index must be an integer, got '%s'", p)
	}
	s.ZIndex = &n
	return nil
}

func transform(s *style.Style, v *value) error {
	t, err := parseTransform(v)
	if err != nil {
		return err
	}
	s.Transform = t
	return nil
}

// currentTransition returns a copy of transition spec declared earlier in the
// same block, or defaults.
func currentTransition(s *style.Style) style.TransitionSpec {
	if s.Transition != nil {
		return *s.Transition
	}
	return style.DefaultTransition()
}

func currentAnimation(s *style.Style) style.AnimationSpec {
	if s.Animation != nil {
		return *s.Animation
	}
	return style.DefaultAnimation()
}

// transition handles shorthand: comma separated groups of
// "property duration [timing] [delay]". Properties of all groups are joined,
// times and timing are taken from the first group.
func transition(s *style.Style, v *value) error {
	if len(v.groups) == 0 {
		return errEmptyValue
	}
	spec := style.DefaultTransition()
	props := style.PropNone
	for i, g := range v.groups {
		var (
			times     int
			gotProp   bool
			groupProp = style.PropAll
		)
		for _, p := range g {
			switch {
			case isTime(p):
				t, _ := parseTime(p)
				if i == 0 {
					if times == 0 {
						spec.Duration = t
					} else {
						spec.Delay = t
					}
				}
				times++
			case isTiming(p):
				tm, _ := parseTiming(p)
				if i == 0 {
					spec.Timing = tm
				}
			default:
				prop, ok := style.ParseProperty(p.String())
				if !ok || gotProp {
					return fmt.Errorf("unsupported transition component '%s'", p)
				}
				groupProp, gotProp = prop, true
			}
		}
		if times > 2 {
			return errValueCount
		}
		props |= groupProp
	}
	spec.Properties = props
	s.Transition = &spec
	return nil
}

func transitionProperty(s *style.Style, v *value) error {
	if len(v.groups) == 0 {
		return errEmptyValue
	}
	props := style.PropNone
	for _, g := range v.groups {
		if len(g) != 1 {
			return errValueCount
		}
		prop, ok := style.ParseProperty(g[0].String())
		if !ok {
			return fmt.Errorf("unsupported transition property '%s'", g[0])
		}
		props |= prop
	}
	spec := currentTransition(s)
	spec.Properties = props
	s.Transition = &spec
	return nil
}

func transitionTime(set func(*style.TransitionSpec, float64)) propertyFunc {
	return func(s *style.Style, v *value) error {
		if len(v.parts) == 0 {
			return errEmptyValue
		}
		t, err := parseTime(v.parts[0])
		if err != nil {
			return err
		}
		spec := currentTransition(s)
		set(&spec, t)
		s.Transition = &spec
		return nil
	}
}

func transitionTiming(s *style.Style, v *value) error {
	if len(v.parts) == 0 {
		return errEmptyValue
	}
	tm, err := parseTiming(v.parts[0])
	if err != nil {
		return err
	}
	spec := currentTransition(s)
	spec.Timing = tm
	s.Transition = &spec
	return nil
}

// animation handles shorthand "name duration [timing] [delay] [count]
// [direction]", only first comma group is used.
func animation(s *style.Style, v *value) error {
	if len(v.groups) == 0 {
		return errEmptyValue
	}
	spec := style.DefaultAnimation()
	times := 0
	for _, p := range v.groups[0] {
		switch {
		case isTime(p):
			t, _ := parseTime(p)
			if times == 0 {
				spec.Duration = t
			} else {
				spec.Delay = t
			}
			times++
		case isTiming(p):
			spec.Timing, _ = parseTiming(p)
		default:
			if n, ok := parseIterations(p); ok {
				spec.Iterations = n
				continue
			}
			if d, ok := style.ParseDirection(p.String()); ok && p.String() != "normal" {
				spec.Direction = d
				continue
			}
			if len(p) != 1 || (p[0].TokenType != css.IdentToken && p[0].TokenType != css.StringToken) || spec.Name != "" {
				return fmt.Errorf("unsupported animation component '%s'", p)
			}
			spec.Name = unquote(string(p[0].Data))
		}
	}
	if spec.Name == "" || times > 2 {
		return fmt.Errorf("malformed animation '%s'", v.raw)
	}
	s.Animation = &spec
	return nil
}

func parseIterations(p part) (float64, bool) {
	if len(p) != 1 {
		return 0, false
	}
	switch p[0].TokenType {
	case css.IdentToken:
		if strings.EqualFold(string(p[0].Data), "infinite") {
			return math.Inf(1), true
		}
	case css.NumberToken:
		if n, err := parseNumberToken(p[0]); err == nil && n >= 0 {
			return n, true
		}
	}
	return 0, false
}

func animationName(s *style.Style, v *value) error {
	p, err := v.single()
	if err != nil {
		return err
	}
	spec := currentAnimation(s)
	spec.Name = unquote(p.String())
	s.Animation = &spec
	return nil
}

func animationTime(set func(*style.AnimationSpec, float64)) propertyFunc {
	return func(s *style.Style, v *value) error {
		p, err := v.single()
		if err != nil {
			return err
		}
		t, err := parseTime(p)
		if err != nil {
			return err
		}
		spec := currentAnimation(s)
		set(&spec, t)
		s.Animation = &spec
		return nil
	}
}

func animationTiming(s *style.Style, v *value) error {
	p, err := v.single()
	if err != nil {
		return err
	}
	tm, err := parseTiming(p)
	if err != nil {
		return err
	}
	spec := currentAnimation(s)
	spec.Timing = tm
	s.Animation = &spec
	return nil
}

func animationIterations(s *style.Style, v *value) error {
	p, err := v.single()
	if err != nil {
		return err
	}
	n, ok := parseIterations(p)
	if !ok {
		return fmt.Errorf("unsupported iteration count '%s'", p)
	}
	spec := currentAnimation(s)
	spec.Iterations = n
	s.Animation = &spec
	return nil
}

func animationDirection(s *style.Style, v *value) error {
	d, ok := style.ParseDirection(v.raw)
	if !ok {
		return fmt.Errorf("unsupported animation direction '%s'", v.raw)
	}
	spec := currentAnimation(s)
	spec.Direction = d
	s.Animation = &spec
	return nil
}
