package cascade_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"uicss/cascade"
	"uicss/css"
	"uicss/style"
	"uicss/tree"
)

func sheet(t *testing.T, text string) *css.Stylesheet {
	t.Helper()
	s, err := css.NewParser(zap.NewNop()).Parse([]byte(text), "test.css")
	require.NoError(t, err)
	return s
}

func red() style.Color   { return style.RGBA(255, 0, 0, 255) }
func green() style.Color { return style.RGBA(0, 128, 0, 255) }
func blue() style.Color  { return style.RGBA(0, 0, 255, 255) }

func single(tag string, classes ...string) (*tree.Tree, tree.Handle) {
	tr := tree.New()
	root := tr.Add(tree.Nil, tree.Element{Tag: "div", ID: "root"})
	return tr, tr.Add(root, tree.Element{Tag: tag, Classes: classes})
}

func TestResolve_SpecificityWins(t *testing.T) {
	tr, h := single("button", "primary")
	// higher specificity first in source still wins
	s := sheet(t, `
		#root .primary { color: blue }
		button.primary { color: green }
		.primary { color: red }
		button { color: red }
	`)
	got := cascade.NewResolver().Resolve(tr, h, []*css.Stylesheet{s})
	require.NotNil(t, got.Color)
	assert.Equal(t, blue(), *got.Color)
}

func TestResolve_LaterWinsTies(t *testing.T) {
	tr, h := single("button", "a", "b")
	s := sheet(t, `.a { color: red; width: 1px } .b { color: green }`)
	got := cascade.NewResolver().Resolve(tr, h, []*css.Stylesheet{s})
	assert.Equal(t, green(), *got.Color)
	assert.Equal(t, style.Px(1), *got.Width)

	// the same across sheets, later sheet wins
	first := sheet(t, `.a { color: red }`)
	second := sheet(t, `.b { color: blue }`)
	got = cascade.NewResolver().Resolve(tr, h, []*css.Stylesheet{first, second})
	assert.Equal(t, blue(), *got.Color)
	got = cascade.NewResolver().Resolve(tr, h, []*css.Stylesheet{second, first})
	assert.Equal(t, red(), *got.Color)
}

func TestResolve_Important(t *testing.T) {
	tr, h := single("button", "primary")
	tr.SetInline(h, &style.Style{Color: style.Ptr(red()), Width: style.Ptr(style.Px(9))})
	s := sheet(t, `
		button { color: green !important; width: 5px !important }
		#root .primary { color: blue }
	`)
	got := cascade.NewResolver().Resolve(tr, h, []*css.Stylesheet{s})
	// inline is applied after base important
	assert.Equal(t, red(), *got.Color)
	assert.Equal(t, style.Px(9), *got.Width)

	tr.SetInline(h, nil)
	got = cascade.NewResolver().Resolve(tr, h, []*css.Stylesheet{s})
	assert.Equal(t, green(), *got.Color)
}

func TestResolve_InlineBeforePseudo(t *testing.T) {
	tr, h := single("button", "primary")
	tr.SetInline(h, &style.Style{Color: style.Ptr(red()), Height: style.Ptr(style.Px(3))})
	s := sheet(t, `.primary:hover { color: blue } .primary { height: 10px }`)
	r := cascade.NewResolver()

	got := r.Resolve(tr, h, []*css.Stylesheet{s})
	assert.Equal(t, red(), *got.Color)
	assert.Equal(t, style.Px(3), *got.Height)

	tr.Apply(tree.Hover(h, true))
	got = r.Resolve(tr, h, []*css.Stylesheet{s})
	assert.Equal(t, blue(), *got.Color, "hover rule must override inline style")
	assert.Equal(t, style.Px(3), *got.Height)
}

func TestResolve_PseudoGroupAfterBase(t *testing.T) {
	tr, h := single("button", "primary")
	tr.Apply(tree.Focus(h, true))
	// base rule with much higher specificity still loses to pseudo rule
	s := sheet(t, `button:focus { width: 2px } #root button.primary { width: 1px }`)
	got := cascade.NewResolver().Resolve(tr, h, []*css.Stylesheet{s})
	assert.Equal(t, style.Px(2), *got.Width)
}

func TestResolve_DisabledGating(t *testing.T) {
	tr, h := single("button", "primary")
	s := sheet(t, `
		.primary { color: red }
		.primary:hover { color: green }
		.primary:disabled { color: blue }
	`)
	r := cascade.NewResolver()

	tr.Apply(tree.Hover(h, true))
	assert.Equal(t, green(), *r.Resolve(tr, h, []*css.Stylesheet{s}).Color)

	tr.Apply(tree.Disable(h, true))
	assert.Equal(t, blue(), *r.Resolve(tr, h, []*css.Stylesheet{s}).Color)

	tr.Apply(tree.Disable(h, false))
	assert.Equal(t, green(), *r.Resolve(tr, h, []*css.Stylesheet{s}).Color)
}

func TestResolve_Idempotent(t *testing.T) {
	tr, h := single("button", "primary")
	tr.Apply(tree.Hover(h, true))
	s := sheet(t, `
		.primary { width: 10px; margin: 1px 2px; transition: color 1s }
		.primary:hover { color: red !important; transform: scale(1.1) }
		div .primary { padding: 4px }
	`)
	r := cascade.NewResolver()
	sheets := []*css.Stylesheet{s}
	first := r.Resolve(tr, h, sheets)
	for range 3 {
		assert.True(t, first.Equal(r.Resolve(tr, h, sheets)))
	}
	assert.True(t, first.Equal(cascade.NewResolver().Resolve(tr, h, sheets)))
}

func TestResolve_NoMatches(t *testing.T) {
	tr, h := single("span")
	s := sheet(t, `.other { color: red }`)
	got := cascade.NewResolver().Resolve(tr, h, []*css.Stylesheet{s, nil})
	assert.True(t, got.IsEmpty())
	assert.True(t, cascade.NewResolver().Resolve(tr, tree.Handle(77), []*css.Stylesheet{s}).IsEmpty())
}

func TestResolver_Matches(t *testing.T) {
	tr, h := single("button", "primary")
	tr.Apply(tree.Hover(h, true))
	s := sheet(t, `.primary:hover { color: red } #root button { color: red } .primary { color: red } span { color: red }`)
	got := cascade.NewResolver().Matches(tr, h, []*css.Stylesheet{s})
	require.Len(t, got, 3)
	assert.Equal(t, ".primary", got[0].Selector)
	assert.Equal(t, "#root button", got[1].Selector)
	assert.Equal(t, ".primary:hover", got[2].Selector)
	assert.True(t, got[2].Pseudo)
}

func TestInherit(t *testing.T) {
	family := "Sans"
	weight := style.WeightBold
	parent := style.Style{
		Color:      style.Ptr(red()),
		FontSize:   &style.FontVal{Unit: style.FontPx, Size: 20},
		FontFamily: &family,
		FontWeight: &weight,
		Width:      style.Ptr(style.Px(100)),
	}

	child := style.Style{Color: style.Ptr(blue())}
	cascade.Inherit(&child, &parent)
	assert.Equal(t, blue(), *child.Color, "own value must be kept")
	assert.Equal(t, 20.0, child.FontSize.Size)
	assert.Equal(t, "Sans", *child.FontFamily)
	assert.Equal(t, style.WeightBold, *child.FontWeight)
	assert.Nil(t, child.Width, "width is not inheritable")

	empty := style.Style{}
	cascade.Inherit(&empty, nil)
	assert.True(t, empty.IsEmpty())
}
