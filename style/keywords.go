package style

import "strings"

// keywords maps enumeration values to their CSS spelling, index is the value.
type keywords []string

func (k keywords) name(v uint8) string {
	if int(v) < len(k) {
		return k[v]
	}
	return "unknown"
}

func (k keywords) parse(s string) (uint8, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range k {
		if n == s {
			return uint8(i), true
		}
	}
	return 0, false
}

type Display uint8

const (
	DisplayFlex Display = iota
	DisplayBlock
	DisplayGrid
	DisplayInline
	DisplayInlineBlock
	DisplayNone
)

var displayNames = keywords{"flex", "block", "grid", "inline", "inline-block", "none"}

func (v Display) String() string            { return displayNames.name(uint8(v)) }
func (v Display) MarshalYAML() (any, error) { return v.String(), nil }

func ParseDisplay(s string) (Display, bool) {
	v, ok := displayNames.parse(s)
	return Display(v), ok
}

type Position uint8

const (
	PositionRelative Position = iota
	PositionAbsolute
	PositionFixed
	PositionStatic
	PositionSticky
)

var positionNames = keywords{"relative", "absolute", "fixed", "static", "sticky"}

func (v Position) String() string            { return positionNames.name(uint8(v)) }
func (v Position) MarshalYAML() (any, error) { return v.String(), nil }

func ParsePosition(s string) (Position, bool) {
	v, ok := positionNames.parse(s)
	return Position(v), ok
}

type BoxSizing uint8

const (
	BoxSizingBorderBox BoxSizing = iota
	BoxSizingContentBox
)

var boxSizingNames = keywords{"border-box", "content-box"}

func (v BoxSizing) String() string            { return boxSizingNames.name(uint8(v)) }
func (v BoxSizing) MarshalYAML() (any, error) { return v.String(), nil }

func ParseBoxSizing(s string) (BoxSizing, bool) {
	v, ok := boxSizingNames.parse(s)
	return BoxSizing(v), ok
}

type Overflow uint8

const (
	OverflowVisible Overflow = iota
	OverflowHidden
	OverflowScroll
	OverflowAuto
	OverflowClip
)

var overflowNames = keywords{"visible", "hidden", "scroll", "auto", "clip"}

func (v Overflow) String() string            { return overflowNames.name(uint8(v)) }
func (v Overflow) MarshalYAML() (any, error) { return v.String(), nil }

func ParseOverflow(s string) (Overflow, bool) {
	v, ok := overflowNames.parse(s)
	return Overflow(v), ok
}

type FlexDirection uint8

const (
	FlexRow FlexDirection = iota
	FlexColumn
	FlexRowReverse
	FlexColumnReverse
)

var flexDirectionNames = keywords{"row", "column", "row-reverse", "column-reverse"}

func (v FlexDirection) String() string            { return flexDirectionNames.name(uint8(v)) }
func (v FlexDirection) MarshalYAML() (any, error) { return v.String(), nil }

func ParseFlexDirection(s string) (FlexDirection, bool) {
	v, ok := flexDirectionNames.parse(s)
	return FlexDirection(v), ok
}

type FlexWrap uint8

const (
	FlexNoWrap FlexWrap = iota
	FlexWrapOn
	FlexWrapReverse
)

var flexWrapNames = keywords{"nowrap", "wrap", "wrap-reverse"}

func (v FlexWrap) String() string            { return flexWrapNames.name(uint8(v)) }
func (v FlexWrap) MarshalYAML() (any, error) { return v.String(), nil }

func ParseFlexWrap(s string) (FlexWrap, bool) {
	v, ok := flexWrapNames.parse(s)
	return FlexWrap(v), ok
}

type JustifyContent uint8

const (
	JustifyStart JustifyContent = iota
	JustifyEnd
	JustifyFlexStart
	JustifyFlexEnd
	JustifyCenter
	JustifySpaceBetween
	JustifySpaceAround
	JustifySpaceEvenly
	JustifyStretch
)

var justifyNames = keywords{"start", "end", "flex-start", "flex-end", "center", "space-between", "space-around", "space-evenly", "stretch"}

func (v JustifyContent) String() string            { return justifyNames.name(uint8(v)) }
func (v JustifyContent) MarshalYAML() (any, error) { return v.String(), nil }

func ParseJustifyContent(s string) (JustifyContent, bool) {
	v, ok := justifyNames.parse(s)
	return JustifyContent(v), ok
}

type AlignItems uint8

const (
	AlignStart AlignItems = iota
	AlignEnd
	AlignFlexStart
	AlignFlexEnd
	AlignCenter
	AlignBaseline
	AlignStretch
)

var alignNames = keywords{"start", "end", "flex-start", "flex-end", "center", "baseline", "stretch"}

func (v AlignItems) String() string            { return alignNames.name(uint8(v)) }
func (v AlignItems) MarshalYAML() (any, error) { return v.String(), nil }

func ParseAlignItems(s string) (AlignItems, bool) {
	v, ok := alignNames.parse(s)
	return AlignItems(v), ok
}

type TextWrap uint8

const (
	TextWrapWrap TextWrap = iota
	TextWrapNoWrap
	TextWrapBalance
	TextWrapPretty
	TextWrapStable
)

var textWrapNames = keywords{"wrap", "nowrap", "balance", "pretty", "stable"}

func (v TextWrap) String() string            { return textWrapNames.name(uint8(v)) }
func (v TextWrap) MarshalYAML() (any, error) { return v.String(), nil }

func ParseTextWrap(s string) (TextWrap, bool) {
	v, ok := textWrapNames.parse(s)
	return TextWrap(v), ok
}

type GridAutoFlow uint8

const (
	GridFlowRow GridAutoFlow = iota
	GridFlowColumn
	GridFlowRowDense
	GridFlowColumnDense
)

var gridAutoFlowNames = keywords{"row", "column", "row dense", "column dense"}

func (v GridAutoFlow) String() string            { return gridAutoFlowNames.name(uint8(v)) }
func (v GridAutoFlow) MarshalYAML() (any, error) { return v.String(), nil }

func ParseGridAutoFlow(s string) (GridAutoFlow, bool) {
	v, ok := gridAutoFlowNames.parse(strings.Join(strings.Fields(s), " "))
	return GridAutoFlow(v), ok
}

// PointerEvents of none makes element transparent for picking.
type PointerEvents uint8

const (
	PointerAuto PointerEvents = iota
	PointerNone
)

var pointerEventsNames = keywords{"auto", "none"}

func (v PointerEvents) String() string            { return pointerEventsNames.name(uint8(v)) }
func (v PointerEvents) MarshalYAML() (any, error) { return v.String(), nil }

func ParsePointerEvents(s string) (PointerEvents, bool) {
	v, ok := pointerEventsNames.parse(s)
	return PointerEvents(v), ok
}
