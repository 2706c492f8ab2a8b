// Package style defines the sparse style record produced by stylesheet
// parsing and consumed by cascade, inheritance and transitions.
//
// Every field of Style is optional, nil means "not specified here". Values
// pointed to are treated as immutable: code that needs a different value
// allocates a new one, so copying a Style by value is always safe.
package style

import (
	"reflect"
)

type Style struct {
	Width     *Val `yaml:"width,omitempty"`
	Height    *Val `yaml:"height,omitempty"`
	MinWidth  *Val `yaml:"min_width,omitempty"`
	MinHeight *Val `yaml:"min_height,omitempty"`
	MaxWidth  *Val `yaml:"max_width,omitempty"`
	MaxHeight *Val `yaml:"max_height,omitempty"`

	WidthCalc     *CalcExpr `yaml:"width_calc,omitempty"`
	HeightCalc    *CalcExpr `yaml:"height_calc,omitempty"`
	MinWidthCalc  *CalcExpr `yaml:"min_width_calc,omitempty"`
	MinHeightCalc *CalcExpr `yaml:"min_height_calc,omitempty"`
	MaxWidthCalc  *CalcExpr `yaml:"max_width_calc,omitempty"`
	MaxHeightCalc *CalcExpr `yaml:"max_height_calc,omitempty"`

	Margin      *Rect      `yaml:"margin,omitempty"`
	Padding     *Rect      `yaml:"padding,omitempty"`
	BorderWidth *Rect      `yaml:"border_width,omitempty"`
	BoxSizing   *BoxSizing `yaml:"box_sizing,omitempty"`
	Position    *Position  `yaml:"position,omitempty"`
	Left        *Val       `yaml:"left,omitempty"`
	Top         *Val       `yaml:"top,omitempty"`
	Right       *Val       `yaml:"right,omitempty"`
	Bottom      *Val       `yaml:"bottom,omitempty"`

	Color        *Color      `yaml:"color,omitempty"`
	Background   *Background `yaml:"background,omitempty"`
	BorderColor  *Color      `yaml:"border_color,omitempty"`
	BorderRadius *Radius     `yaml:"border_radius,omitempty"`
	BoxShadow    *BoxShadow  `yaml:"box_shadow,omitempty"`
	FontSize     *FontVal    `yaml:"font_size,omitempty"`
	FontFamily   *string     `yaml:"font_family,omitempty"`
	FontWeight   *FontWeight `yaml:"font_weight,omitempty"`

	Display             *Display        `yaml:"display,omitempty"`
	FlexDirection       *FlexDirection  `yaml:"flex_direction,omitempty"`
	FlexWrap            *FlexWrap       `yaml:"flex_wrap,omitempty"`
	FlexGrow            *float64        `yaml:"flex_grow,omitempty"`
	FlexShrink          *float64        `yaml:"flex_shrink,omitempty"`
	FlexBasis           *Val            `yaml:"flex_basis,omitempty"`
	JustifyContent      *JustifyContent `yaml:"justify_content,omitempty"`
	AlignItems          *AlignItems     `yaml:"align_items,omitempty"`
	RowGap              *Val            `yaml:"row_gap,omitempty"`
	ColumnGap           *Val            `yaml:"column_gap,omitempty"`
	GridRow             *string         `yaml:"grid_row,omitempty"`
	GridColumn          *string         `yaml:"grid_column,omitempty"`
	GridTemplateRows    *string         `yaml:"grid_template_rows,omitempty"`
	GridTemplateColumns *string         `yaml:"grid_template_columns,omitempty"`
	GridAutoRows        *string         `yaml:"grid_auto_rows,omitempty"`
	GridAutoFlow        *GridAutoFlow   `yaml:"grid_auto_flow,omitempty"`
	OverflowX           *Overflow       `yaml:"overflow_x,omitempty"`
	OverflowY           *Overflow       `yaml:"overflow_y,omitempty"`
	TextWrap            *TextWrap       `yaml:"text_wrap,omitempty"`

	ZIndex        *int            `yaml:"z_index,omitempty"`
	PointerEvents *PointerEvents  `yaml:"pointer_events,omitempty"`
	ScrollWidth   *Val            `yaml:"scroll_width,omitempty"`
	Transform     *Transform      `yaml:"transform,omitempty"`
	Transition    *TransitionSpec `yaml:"transition,omitempty"`
	Animation     *AnimationSpec  `yaml:"animation,omitempty"`
}

// Ptr is a small helper to take address of a literal.
func Ptr[T any](v T) *T {
	return &v
}

// Merge lays every field set in o over s. Unset fields in o never clear
// anything. A dimension and its calc() form exclude each other, whichever is
// merged last wins.
func (s *Style) Merge(o *Style) {
	if o == nil {
		return
	}

	mergeDim(&s.Width, &s.WidthCalc, o.Width, o.WidthCalc)
	mergeDim(&s.Height, &s.HeightCalc, o.Height, o.HeightCalc)
	mergeDim(&s.MinWidth, &s.MinWidthCalc, o.MinWidth, o.MinWidthCalc)
	mergeDim(&s.MinHeight, &s.MinHeightCalc, o.MinHeight, o.MinHeightCalc)
	mergeDim(&s.MaxWidth, &s.MaxWidthCalc, o.MaxWidth, o.MaxWidthCalc)
	mergeDim(&s.MaxHeight, &s.MaxHeightCalc, o.MaxHeight, o.MaxHeightCalc)

	set(&s.Margin, o.Margin)
	set(&s.Padding, o.Padding)
	set(&s.BorderWidth, o.BorderWidth)
	set(&s.BoxSizing, o.BoxSizing)
	set(&s.Position, o.Position)
	set(&s.Left, o.Left)
	set(&s.Top, o.Top)
	set(&s.Right, o.Right)
	set(&s.Bottom, o.Bottom)

	set(&s.Color, o.Color)
	set(&s.Background, o.Background)
	set(&s.BorderColor, o.BorderColor)
	set(&s.BorderRadius, o.BorderRadius)
	set(&s.BoxShadow, o.BoxShadow)
	set(&s.FontSize, o.FontSize)
	set(&s.FontFamily, o.FontFamily)
	set(&s.FontWeight, o.FontWeight)

	set(&s.Display, o.Display)
	set(&s.FlexDirection, o.FlexDirection)
	set(&s.FlexWrap, o.FlexWrap)
	set(&s.FlexGrow, o.FlexGrow)
	set(&s.FlexShrink, o.FlexShrink)
	set(&s.FlexBasis, o.FlexBasis)
	set(&s.JustifyContent, o.JustifyContent)
	set(&s.AlignItems, o.AlignItems)
	set(&s.RowGap, o.RowGap)
	set(&s.ColumnGap, o.ColumnGap)
	set(&s.GridRow, o.GridRow)
	set(&s.GridColumn, o.GridColumn)
	set(&s.GridTemplateRows, o.GridTemplateRows)
	set(&s.GridTemplateColumns, o.GridTemplateColumns)
	set(&s.GridAutoRows, o.GridAutoRows)
	set(&s.GridAutoFlow, o.GridAutoFlow)
	set(&s.OverflowX, o.OverflowX)
	set(&s.OverflowY, o.OverflowY)
	set(&s.TextWrap, o.TextWrap)

	set(&s.ZIndex, o.ZIndex)
	set(&s.PointerEvents, o.PointerEvents)
	set(&s.ScrollWidth, o.ScrollWidth)
	if !o.Transform.IsEmpty() {
		s.Transform = s.Transform.merge(o.Transform)
	}
	set(&s.Transition, o.Transition)
	set(&s.Animation, o.Animation)
}

func set[T any](dst **T, src *T) {
	if src != nil {
		*dst = src
	}
}

func mergeDim(dst **Val, dstCalc **CalcExpr, src *Val, srcCalc *CalcExpr) {
	switch {
	case srcCalc != nil:
		*dstCalc, *dst = srcCalc, nil
	case src != nil:
		*dst, *dstCalc = src, nil
	}
}

// Equal compares values, not pointers.
func (s Style) Equal(o Style) bool {
	return reflect.DeepEqual(s, o)
}

func (s Style) IsEmpty() bool {
	return s.Equal(Style{})
}

// Clone returns independent copy of the style. Since pointed to values are
// never modified in place this is a shallow copy.
func (s Style) Clone() Style {
	return s
}
