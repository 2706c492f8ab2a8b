package style

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Unit of a dimension value.
type Unit uint8

const (
	UnitPx Unit = iota
	UnitPercent
	UnitVw
	UnitVh
	UnitRem
	UnitAuto
)

var unitSuffix = [...]string{"px", "%", "vw", "vh", "rem", "auto"}

func (u Unit) String() string {
	if int(u) < len(unitSuffix) {
		return unitSuffix[u]
	}
	return "unit(" + strconv.Itoa(int(u)) + ")"
}

// Val is a single dimension: amount tagged with its unit. Auto ignores the
// amount.
type Val struct {
	Unit   Unit
	Amount float64
}

func Px(v float64) Val      { return Val{Unit: UnitPx, Amount: v} }
func Percent(v float64) Val { return Val{Unit: UnitPercent, Amount: v} }
func Vw(v float64) Val      { return Val{Unit: UnitVw, Amount: v} }
func Vh(v float64) Val      { return Val{Unit: UnitVh, Amount: v} }
func Rem(v float64) Val     { return Val{Unit: UnitRem, Amount: v} }
func Auto() Val             { return Val{Unit: UnitAuto} }

func (v Val) String() string {
	if v.Unit == UnitAuto {
		return "auto"
	}
	return formatFloat(v.Amount) + v.Unit.String()
}

// Resolve converts the value into pixels. Auto has no pixel value.
func (v Val) Resolve(ctx CalcContext) (float64, bool) {
	switch v.Unit {
	case UnitPx:
		return v.Amount, true
	case UnitPercent:
		return v.Amount / 100 * ctx.ParentSize, true
	case UnitVw:
		return v.Amount / 100 * ctx.ViewportW, true
	case UnitVh:
		return v.Amount / 100 * ctx.ViewportH, true
	case UnitRem:
		return v.Amount * ctx.rootFont(), true
	}
	return 0, false
}

func (v Val) MarshalYAML() (any, error) {
	return v.String(), nil
}

// Color is straight (not premultiplied) 8 bit RGBA.
type Color struct {
	R, G, B, A uint8
}

var (
	Transparent = Color{}
	Black       = Color{A: 0xff}
	White       = Color{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

func RGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func (c Color) MarshalYAML() (any, error) {
	return c.String(), nil
}

// Rect holds four sides of a box property (margin, padding, border width).
type Rect struct {
	Top, Right, Bottom, Left Val
}

// UniformRect returns rect with all sides set to v.
func UniformRect(v Val) Rect {
	return Rect{Top: v, Right: v, Bottom: v, Left: v}
}

// ExpandRect applies the usual 1 to 4 values box expansion.
func ExpandRect(vals []Val) (Rect, bool) {
	switch len(vals) {
	case 1:
		return UniformRect(vals[0]), true
	case 2:
		return Rect{Top: vals[0], Right: vals[1], Bottom: vals[0], Left: vals[1]}, true
	case 3:
		return Rect{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[1]}, true
	case 4:
		return Rect{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}, true
	}
	return Rect{}, false
}

func (r Rect) String() string {
	return strings.Join([]string{r.Top.String(), r.Right.String(), r.Bottom.String(), r.Left.String()}, " ")
}

func (r Rect) MarshalYAML() (any, error) {
	return r.String(), nil
}

// Radius holds four corner radii.
type Radius struct {
	TopLeft, TopRight, BottomRight, BottomLeft Val
}

// ExpandRadius applies border-radius 1 to 4 values expansion.
func ExpandRadius(vals []Val) (Radius, bool) {
	switch len(vals) {
	case 1:
		return Radius{vals[0], vals[0], vals[0], vals[0]}, true
	case 2:
		return Radius{TopLeft: vals[0], TopRight: vals[1], BottomRight: vals[0], BottomLeft: vals[1]}, true
	case 3:
		return Radius{TopLeft: vals[0], TopRight: vals[1], BottomRight: vals[2], BottomLeft: vals[1]}, true
	case 4:
		return Radius{TopLeft: vals[0], TopRight: vals[1], BottomRight: vals[2], BottomLeft: vals[3]}, true
	}
	return Radius{}, false
}

func (r Radius) String() string {
	return strings.Join([]string{r.TopLeft.String(), r.TopRight.String(), r.BottomRight.String(), r.BottomLeft.String()}, " ")
}

func (r Radius) MarshalYAML() (any, error) {
	return r.String(), nil
}

type BoxShadow struct {
	X      Val   `yaml:"x"`
	Y      Val   `yaml:"y"`
	Blur   Val   `yaml:"blur"`
	Spread Val   `yaml:"spread"`
	Color  Color `yaml:"color"`
}

// Transform is a sparse 2D transform, components merge independently.
// Rotation is kept in degrees.
type Transform struct {
	TranslateX *Val     `yaml:"translate_x,omitempty"`
	TranslateY *Val     `yaml:"translate_y,omitempty"`
	ScaleX     *float64 `yaml:"scale_x,omitempty"`
	ScaleY     *float64 `yaml:"scale_y,omitempty"`
	Rotate     *float64 `yaml:"rotate,omitempty"`
}

func (t *Transform) IsEmpty() bool {
	return t == nil || (t.TranslateX == nil && t.TranslateY == nil && t.ScaleX == nil && t.ScaleY == nil && t.Rotate == nil)
}

// merge returns a new transform with components of o laid over t.
func (t *Transform) merge(o *Transform) *Transform {
	res := &Transform{}
	if t != nil {
		*res = *t
	}
	if o.TranslateX != nil {
		res.TranslateX = o.TranslateX
	}
	if o.TranslateY != nil {
		res.TranslateY = o.TranslateY
	}
	if o.ScaleX != nil {
		res.ScaleX = o.ScaleX
	}
	if o.ScaleY != nil {
		res.ScaleY = o.ScaleY
	}
	if o.Rotate != nil {
		res.Rotate = o.Rotate
	}
	return res
}

type FontUnit uint8

const (
	FontPx FontUnit = iota
	FontRem
)

// FontVal is a font size in pixels or root relative units.
type FontVal struct {
	Unit FontUnit
	Size float64
}

// DefaultFontSize is used when nothing is specified anywhere up the tree.
var DefaultFontSize = FontVal{Unit: FontPx, Size: 12}

// Px returns font size in pixels for the given root font size.
func (f FontVal) Px(root float64) float64 {
	if f.Unit == FontRem {
		return f.Size * root
	}
	return f.Size
}

func (f FontVal) String() string {
	if f.Unit == FontRem {
		return formatFloat(f.Size) + "rem"
	}
	return formatFloat(f.Size) + "px"
}

func (f FontVal) MarshalYAML() (any, error) {
	return f.String(), nil
}

// FontWeight is numeric CSS weight 100..900.
type FontWeight int

const (
	WeightThin       FontWeight = 100
	WeightExtraLight FontWeight = 200
	WeightLight      FontWeight = 300
	WeightNormal     FontWeight = 400
	WeightMedium     FontWeight = 500
	WeightSemiBold   FontWeight = 600
	WeightBold       FontWeight = 700
	WeightExtraBold  FontWeight = 800
	WeightBlack      FontWeight = 900
)

var fontWeightNames = map[string]FontWeight{
	"thin":        WeightThin,
	"hairline":    WeightThin,
	"extra-light": WeightExtraLight,
	"ultra-light": WeightExtraLight,
	"light":       WeightLight,
	"normal":      WeightNormal,
	"regular":     WeightNormal,
	"medium":      WeightMedium,
	"semi-bold":   WeightSemiBold,
	"demi-bold":   WeightSemiBold,
	"bold":        WeightBold,
	"extra-bold":  WeightExtraBold,
	"ultra-bold":  WeightExtraBold,
	"black":       WeightBlack,
	"heavy":       WeightBlack,
	// relative keywords have no parent context here
	"bolder":  WeightBold,
	"lighter": WeightLight,
}

// ParseFontWeight accepts names and multiples of 100 in 100..900.
func ParseFontWeight(s string) (FontWeight, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if w, ok := fontWeightNames[s]; ok {
		return w, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 100 || n > 900 || n%100 != 0 {
		return 0, false
	}
	return FontWeight(n), true
}

type Background struct {
	Color    *Color `yaml:"color,omitempty"`
	Image    string `yaml:"image,omitempty"`
	Gradient string `yaml:"gradient,omitempty"`
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
