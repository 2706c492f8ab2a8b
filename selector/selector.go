// Package selector matches stylesheet selectors against elements of the tree.
//
// Supported are descendant chains of compound selectors made of universal,
// type, id, class and pseudo-class parts, e.g. "div.panel .item:hover".
package selector

import (
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"uicss/tree"
)

type PseudoClass uint8

const (
	PseudoHover PseudoClass = iota
	PseudoFocus
	PseudoReadOnly
	PseudoDisabled
	PseudoChecked
	PseudoInvalid
	PseudoOpen
)

var pseudoNames = [...]string{"hover", "focus", "read-only", "disabled", "checked", "invalid", "open"}

func (p PseudoClass) String() string {
	if int(p) < len(pseudoNames) {
		return pseudoNames[p]
	}
	return "unknown"
}

func parsePseudo(s string) (PseudoClass, bool) {
	s = strings.ToLower(s)
	for i, n := range pseudoNames {
		if n == s {
			return PseudoClass(i), true
		}
	}
	return 0, false
}

// satisfied checks pseudo-class against element state. Disabled element is
// never hovered, focused or checked.
func (p PseudoClass) satisfied(s tree.PseudoState) bool {
	switch p {
	case PseudoHover:
		return s.Hovered && !s.Disabled
	case PseudoFocus:
		return s.Focused && !s.Disabled
	case PseudoReadOnly:
		return s.ReadOnly
	case PseudoDisabled:
		return s.Disabled
	case PseudoChecked:
		return s.Checked && !s.Disabled
	case PseudoInvalid:
		return s.Invalid
	case PseudoOpen:
		return s.Open
	}
	return false
}

// Compound is a single element test, all present parts must hold.
type Compound struct {
	Universal bool
	Tag       string
	ID        string
	Classes   []string
	Pseudo    []PseudoClass
	// Invalid compound (unknown pseudo-class or unsupported syntax) never
	// matches.
	Invalid bool
	// unknown counts pseudo-classes which were not recognized, they still
	// contribute to specificity.
	unknown int
}

// matches requires every part of the compound (tag, id, each class and
// pseudo-class) to hold for the element.
func (c *Compound) matches(e *tree.Element) bool {
	if c.Invalid {
		return false
	}
	if c.Tag != "" && !strings.EqualFold(c.Tag, e.Tag) {
		return false
	}
	if c.ID != "" && c.ID != e.ID {
		return false
	}
	for _, cl := range c.Classes {
		if !e.HasClass(cl) {
			return false
		}
	}
	st := e.State()
	for _, p := range c.Pseudo {
		if !p.satisfied(st) {
			return false
		}
	}
	return true
}

func (c *Compound) specificity() int {
	n := 0
	if c.ID != "" {
		n += 100
	}
	n += 10 * len(c.Classes)
	if c.Tag != "" || c.Universal {
		n++
	}
	return n + len(c.Pseudo) + c.unknown
}

// Chain is a descendant selector, outermost compound first.
type Chain []Compound

// Parse splits selector into compounds. It never fails: unsupported syntax
// produces compounds which do not match anything.
func Parse(sel string) Chain {
	var (
		chain Chain
		cur   Compound
		dirty bool
	)
	flush := func() {
		if dirty {
			chain = append(chain, cur)
		}
		cur, dirty = Compound{}, false
	}

	toks := lex(sel)
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		switch t.TokenType {
		case css.WhitespaceToken:
			flush()
			continue
		case css.IdentToken:
			cur.Tag = string(t.Data)
		case css.HashToken:
			cur.ID = strings.TrimPrefix(string(t.Data), "#")
		case css.DelimToken:
			switch {
			case string(t.Data) == "*":
				cur.Universal = true
			case string(t.Data) == "." && i+1 < len(toks) && toks[i+1].TokenType == css.IdentToken:
				i++
				cur.Classes = append(cur.Classes, string(toks[i].Data))
			default:
				cur.Invalid = true
			}
		case css.ColonToken:
			if i+1 < len(toks) && toks[i+1].TokenType == css.IdentToken {
				i++
				if p, ok := parsePseudo(string(toks[i].Data)); ok {
					cur.Pseudo = append(cur.Pseudo, p)
				} else {
					cur.unknown++
					cur.Invalid = true
				}
			} else {
				// pseudo-elements and functional pseudo-classes
				cur.unknown++
				cur.Invalid = true
			}
		default:
			cur.Invalid = true
		}
		dirty = true
	}
	flush()
	return chain
}

func lex(sel string) []css.Token {
	l := css.NewLexer(parse.NewInputString(strings.TrimSpace(sel)))
	var res []css.Token
	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			return res
		case css.CommentToken:
			continue
		case css.FunctionToken:
			// skip arguments of functional notation, the compound is unmatchable anyway
			res = append(res, css.Token{TokenType: tt, Data: append([]byte(nil), data...)})
			for depth := 1; depth > 0; {
				tt, _ = l.Next()
				switch tt {
				case css.ErrorToken:
					return res
				case css.FunctionToken, css.LeftParenthesisToken:
					depth++
				case css.RightParenthesisToken:
					depth--
				}
			}
			continue
		}
		res = append(res, css.Token{TokenType: tt, Data: append([]byte(nil), data...)})
	}
}

// HasPseudo reports whether any compound carries a pseudo-class. Such rules
// are applied after base rules.
func (c Chain) HasPseudo() bool {
	for i := range c {
		if len(c[i].Pseudo) > 0 || c[i].unknown > 0 {
			return true
		}
	}
	return false
}

// Specificity sums compound weights over the chain.
func (c Chain) Specificity() int {
	n := 0
	for i := range c {
		n += c[i].specificity()
	}
	return n
}

func (c Chain) String() string {
	parts := make([]string, 0, len(c))
	for _, cp := range c {
		var sb strings.Builder
		if cp.Universal {
			sb.WriteByte('*')
		}
		sb.WriteString(cp.Tag)
		if cp.ID != "" {
			sb.WriteString("#" + cp.ID)
		}
		for _, cl := range cp.Classes {
			sb.WriteString("." + cl)
		}
		for _, p := range cp.Pseudo {
			sb.WriteString(":" + p.String())
		}
		parts = append(parts, sb.String())
	}
	return strings.Join(parts, " ")
}

// Specificity ranks selector string, id counts 100, class 10, type or
// universal 1 and each pseudo-class adds 1.
func Specificity(sel string) int {
	return Parse(sel).Specificity()
}

// Matches tests chain against element h. Innermost compound must match the
// element itself, the rest is matched against its ancestors. Running out of
// ancestors is simply no match.
func Matches(c Chain, t *tree.Tree, h tree.Handle) bool {
	if len(c) == 0 {
		return false
	}
	e := t.Get(h)
	if e == nil || !c[len(c)-1].matches(e) {
		return false
	}
	cur := h
	for i := len(c) - 2; i >= 0; i-- {
		for {
			p, ok := t.Parent(cur)
			if !ok {
				return false
			}
			cur = p
			if c[i].matches(t.Get(cur)) {
				break
			}
		}
	}
	return true
}
