package transition

import (
	"math"

	"uicss/style"
)

// Blend interpolates from towards to at eased progress t. Only properties in
// props are interpolated, everything else and values which cannot be
// interpolated (missing on one side, different units, calc() expressions)
// take the value of to.
func Blend(from, to style.Style, t float64, props style.Property) style.Style {
	res := to
	if t >= 1 {
		return res
	}

	if props.Has(style.PropColor) {
		res.Color = blendColorPtr(from.Color, to.Color, t)
	}
	if props.Has(style.PropBackground) {
		res.Background = blendBackground(from.Background, to.Background, t)
	}
	if props.Has(style.PropTransform) {
		res.Transform = blendTransform(from.Transform, to.Transform, t)
	}
	if props.Has(style.PropWidth) {
		res.Width = blendValPtr(from.Width, to.Width, t)
		res.MinWidth = blendValPtr(from.MinWidth, to.MinWidth, t)
		res.MaxWidth = blendValPtr(from.MaxWidth, to.MaxWidth, t)
	}
	if props.Has(style.PropHeight) {
		res.Height = blendValPtr(from.Height, to.Height, t)
		res.MinHeight = blendValPtr(from.MinHeight, to.MinHeight, t)
		res.MaxHeight = blendValPtr(from.MaxHeight, to.MaxHeight, t)
	}
	if props.Has(style.PropMargin) {
		res.Margin = blendRectPtr(from.Margin, to.Margin, t)
	}
	if props.Has(style.PropPadding) {
		res.Padding = blendRectPtr(from.Padding, to.Padding, t)
	}
	if props.Has(style.PropBorderWidth) {
		res.BorderWidth = blendRectPtr(from.BorderWidth, to.BorderWidth, t)
	}
	if props.Has(style.PropBorderColor) {
		res.BorderColor = blendColorPtr(from.BorderColor, to.BorderColor, t)
	}
	if props.Has(style.PropBorderRadius) {
		res.BorderRadius = blendRadiusPtr(from.BorderRadius, to.BorderRadius, t)
	}
	if props.Has(style.PropBoxShadow) {
		res.BoxShadow = blendShadowPtr(from.BoxShadow, to.BoxShadow, t)
	}
	if props.Has(style.PropFontSize) {
		res.FontSize = blendFontPtr(from.FontSize, to.FontSize, t)
	}
	if props.Has(style.PropOffsets) {
		res.Left = blendValPtr(from.Left, to.Left, t)
		res.Top = blendValPtr(from.Top, to.Top, t)
		res.Right = blendValPtr(from.Right, to.Right, t)
		res.Bottom = blendValPtr(from.Bottom, to.Bottom, t)
	}
	return res
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func lerpByte(a, b uint8, t float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(255, lerp(float64(a), float64(b), t)))))
}

// BlendColor interpolates every channel including alpha.
func BlendColor(a, b style.Color, t float64) style.Color {
	return style.RGBA(lerpByte(a.R, b.R, t), lerpByte(a.G, b.G, t), lerpByte(a.B, b.B, t), lerpByte(a.A, b.A, t))
}

// BlendVal interpolates values with the same unit, otherwise b wins.
func BlendVal(a, b style.Val, t float64) style.Val {
	if a.Unit != b.Unit || b.Unit == style.UnitAuto {
		return b
	}
	return style.Val{Unit: b.Unit, Amount: lerp(a.Amount, b.Amount, t)}
}

func blendColorPtr(a, b *style.Color, t float64) *style.Color {
	if a == nil || b == nil {
		return b
	}
	c := BlendColor(*a, *b, t)
	return &c
}

func blendValPtr(a, b *style.Val, t float64) *style.Val {
	if a == nil || b == nil {
		return b
	}
	v := BlendVal(*a, *b, t)
	return &v
}

func blendRect(a, b style.Rect, t float64) style.Rect {
	return style.Rect{
		Top:    BlendVal(a.Top, b.Top, t),
		Right:  BlendVal(a.Right, b.Right, t),
		Bottom: BlendVal(a.Bottom, b.Bottom, t),
		Left:   BlendVal(a.Left, b.Left, t),
	}
}

func blendRectPtr(a, b *style.Rect, t float64) *style.Rect {
	if a == nil || b == nil {
		return b
	}
	r := blendRect(*a, *b, t)
	return &r
}

func blendRadiusPtr(a, b *style.Radius, t float64) *style.Radius {
	if a == nil || b == nil {
		return b
	}
	return &style.Radius{
		TopLeft:     BlendVal(a.TopLeft, b.TopLeft, t),
		TopRight:    BlendVal(a.TopRight, b.TopRight, t),
		BottomRight: BlendVal(a.BottomRight, b.BottomRight, t),
		BottomLeft:  BlendVal(a.BottomLeft, b.BottomLeft, t),
	}
}

func blendShadowPtr(a, b *style.BoxShadow, t float64) *style.BoxShadow {
	if a == nil || b == nil {
		return b
	}
	return &style.BoxShadow{
		X:      BlendVal(a.X, b.X, t),
		Y:      BlendVal(a.Y, b.Y, t),
		Blur:   BlendVal(a.Blur, b.Blur, t),
		Spread: BlendVal(a.Spread, b.Spread, t),
		Color:  BlendColor(a.Color, b.Color, t),
	}
}

func blendFontPtr(a, b *style.FontVal, t float64) *style.FontVal {
	if a == nil || b == nil || a.Unit != b.Unit {
		return b
	}
	return &style.FontVal{Unit: b.Unit, Size: lerp(a.Size, b.Size, t)}
}

func blendBackground(a, b *style.Background, t float64) *style.Background {
	if a == nil || b == nil || a.Color == nil || b.Color == nil {
		return b
	}
	res := *b
	res.Color = blendColorPtr(a.Color, b.Color, t)
	return &res
}

// blendTransform interpolates each component present in b, component missing
// in a starts from identity.
func blendTransform(a, b *style.Transform, t float64) *style.Transform {
	if b == nil {
		return nil
	}
	if a == nil {
		a = &style.Transform{}
	}
	zero := style.Px(0)
	res := &style.Transform{}
	if b.TranslateX != nil {
		res.TranslateX = blendValPtr(orDefault(a.TranslateX, zero), b.TranslateX, t)
	}
	if b.TranslateY != nil {
		res.TranslateY = blendValPtr(orDefault(a.TranslateY, zero), b.TranslateY, t)
	}
	if b.ScaleX != nil {
		res.ScaleX = style.Ptr(lerp(*orDefault(a.ScaleX, 1.0), *b.ScaleX, t))
	}
	if b.ScaleY != nil {
		res.ScaleY = style.Ptr(lerp(*orDefault(a.ScaleY, 1.0), *b.ScaleY, t))
	}
	if b.Rotate != nil {
		res.Rotate = style.Ptr(lerp(*orDefault(a.Rotate, 0.0), *b.Rotate, t))
	}
	return res
}

func orDefault[T any](v *T, def T) *T {
	if v != nil {
		return v
	}
	return &def
}
