// Package cascade computes element style from matching stylesheet rules and
// propagates inherited values from the parent.
package cascade

import (
	"slices"
	"sync"

	"uicss/css"
	"uicss/selector"
	"uicss/style"
	"uicss/tree"
)

// Resolver is safe for concurrent use, it only memoizes parsed selectors.
type Resolver struct {
	mu     sync.RWMutex
	chains map[string]selector.Chain
}

func NewResolver() *Resolver {
	return &Resolver{chains: make(map[string]selector.Chain)}
}

func (r *Resolver) chain(sel string) selector.Chain {
	r.mu.RLock()
	c, ok := r.chains[sel]
	r.mu.RUnlock()
	if ok {
		return c
	}
	c = selector.Parse(sel)
	r.mu.Lock()
	r.chains[sel] = c
	r.mu.Unlock()
	return c
}

type match struct {
	decl        *css.Declaration
	specificity int
	index       int
}

// Match is a rule which applies to element, exposed for diagnostics.
type Match struct {
	Selector    string
	Specificity int
	Pseudo      bool
}

func (r *Resolver) collect(t *tree.Tree, h tree.Handle, sheets []*css.Stylesheet) (base, pseudo []match) {
	index := 0
	for _, sheet := range sheets {
		if sheet == nil {
			continue
		}
		for i := range sheet.Rules {
			rule := &sheet.Rules[i]
			c := r.chain(rule.Selector)
			if selector.Matches(c, t, h) {
				m := match{decl: &rule.Declaration, specificity: c.Specificity(), index: index}
				if c.HasPseudo() {
					pseudo = append(pseudo, m)
				} else {
					base = append(base, m)
				}
			}
			index++
		}
	}
	order := func(a, b match) int {
		if a.specificity != b.specificity {
			return a.specificity - b.specificity
		}
		return a.index - b.index
	}
	slices.SortStableFunc(base, order)
	slices.SortStableFunc(pseudo, order)
	return base, pseudo
}

// Resolve computes style of element h. Sheets are in cascade order, rules of
// later sheets win ties with earlier ones. Groups are applied as base normal,
// base important, inline, pseudo normal and pseudo important, each sorted by
// specificity then source position.
func (r *Resolver) Resolve(t *tree.Tree, h tree.Handle, sheets []*css.Stylesheet) style.Style {
	var res style.Style
	e := t.Get(h)
	if e == nil {
		return res
	}
	base, pseudo := r.collect(t, h, sheets)
	for _, m := range base {
		res.Merge(&m.decl.Normal)
	}
	for _, m := range base {
		res.Merge(&m.decl.Important)
	}
	res.Merge(e.Inline)
	for _, m := range pseudo {
		res.Merge(&m.decl.Normal)
	}
	for _, m := range pseudo {
		res.Merge(&m.decl.Important)
	}
	return res
}

// Matches lists rules applying to element in the order they are merged.
func (r *Resolver) Matches(t *tree.Tree, h tree.Handle, sheets []*css.Stylesheet) []Match {
	var res []Match
	for _, sheet := range sheets {
		if sheet == nil {
			continue
		}
		for _, rule := range sheet.Rules {
			c := r.chain(rule.Selector)
			if selector.Matches(c, t, h) {
				res = append(res, Match{Selector: rule.Selector, Specificity: c.Specificity(), Pseudo: c.HasPseudo()})
			}
		}
	}
	slices.SortStableFunc(res, func(a, b Match) int {
		switch {
		case a.Pseudo != b.Pseudo && a.Pseudo:
			return 1
		case a.Pseudo != b.Pseudo:
			return -1
		}
		return a.Specificity - b.Specificity
	})
	return res
}

// Inherit fills inheritable fields (color, font size, family and weight) not
// set on the element from parent displayed style.
func Inherit(resolved *style.Style, parent *style.Style) {
	if resolved == nil || parent == nil {
		return
	}
	if resolved.Color == nil {
		resolved.Color = parent.Color
	}
	if resolved.FontSize == nil {
		resolved.FontSize = parent.FontSize
	}
	if resolved.FontFamily == nil {
		resolved.FontFamily = parent.FontFamily
	}
	if resolved.FontWeight == nil {
		resolved.FontWeight = parent.FontWeight
	}
}
