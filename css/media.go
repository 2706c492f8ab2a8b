package css

import (
	"fmt"
	"strings"

	"github.com/tdewolff/parse/v2/css"

	"uicss/style"
)

// parseMediaQuery converts @media prelude into condition tree. Supported are
// media types all, screen and print, features min/max-width, min/max-height
// and orientation, combined with "and", "not", "only", "or" and commas.
// Empty prelude matches everything and yields nil.
func parseMediaQuery(tokens []css.Token) (*style.MediaQuery, error) {
	mp := &mediaParser{}
	for _, t := range tokens {
		if t.TokenType != css.WhitespaceToken {
			mp.toks = append(mp.toks, t)
		}
	}
	if len(mp.toks) == 0 {
		return nil, nil
	}
	q, err := mp.list()
	if err != nil {
		return nil, err
	}
	if mp.pos != len(mp.toks) {
		return nil, fmt.Errorf("unexpected '%s' in media query", mp.peek().Data)
	}
	return q, nil
}

// andMedia combines enclosing and nested @media conditions.
func andMedia(outer, inner *style.MediaQuery) *style.MediaQuery {
	switch {
	case outer == nil:
		return inner
	case inner == nil:
		return outer
	}
	return &style.MediaQuery{Kind: style.MediaAnd, Args: []*style.MediaQuery{outer, inner}}
}

type mediaParser struct {
	toks []css.Token
	pos  int
}

func (m *mediaParser) peek() css.Token {
	if m.pos < len(m.toks) {
		return m.toks[m.pos]
	}
	return css.Token{TokenType: css.ErrorToken}
}

func (m *mediaParser) ident(name string) bool {
	t := m.peek()
	return t.TokenType == css.IdentToken && strings.EqualFold(string(t.Data), name)
}

func (m *mediaParser) list() (*style.MediaQuery, error) {
	var args []*style.MediaQuery
	for {
		q, err := m.query()
		if err != nil {
			return nil, err
		}
		args = append(args, q)
		if m.peek().TokenType == css.CommaToken || m.ident("or") {
			m.pos++
			continue
		}
		break
	}
	if len(args) == 1 {
		return args[0], nil
	}
	return &style.MediaQuery{Kind: style.MediaOr, Args: args}, nil
}

func (m *mediaParser) query() (*style.MediaQuery, error) {
	negate := false
	if m.ident("not") {
		negate = true
		m.pos++
	}
	if m.ident("only") {
		m.pos++
	}

	var args []*style.MediaQuery
	if t := m.peek(); t.TokenType == css.IdentToken {
		switch strings.ToLower(string(t.Data)) {
		case "all", "screen":
		case "print":
			args = append(args, &style.MediaQuery{Kind: style.MediaNot, Args: []*style.MediaQuery{{Kind: style.MediaAll}}})
		default:
			return nil, fmt.Errorf("unsupported media type '%s'", t.Data)
		}
		m.pos++
	} else {
		c, err := m.condition()
		if err != nil {
			return nil, err
		}
		args = append(args, c)
	}
	for m.ident("and") {
		m.pos++
		c, err := m.condition()
		if err != nil {
			return nil, err
		}
		args = append(args, c)
	}

	var q *style.MediaQuery
	switch len(args) {
	case 0:
		q = &style.MediaQuery{Kind: style.MediaAll}
	case 1:
		q = args[0]
	default:
		q = &style.MediaQuery{Kind: style.MediaAnd, Args: args}
	}
	if negate {
		q = &style.MediaQuery{Kind: style.MediaNot, Args: []*style.MediaQuery{q}}
	}
	return q, nil
}

func (m *mediaParser) condition() (*style.MediaQuery, error) {
	if m.ident("not") {
		m.pos++
		c, err := m.condition()
		if err != nil {
			return nil, err
		}
		return &style.MediaQuery{Kind: style.MediaNot, Args: []*style.MediaQuery{c}}, nil
	}
	if m.peek().TokenType != css.LeftParenthesisToken {
		return nil, fmt.Errorf("expected '(' in media query, got '%s'", m.peek().Data)
	}
	m.pos++

	name := m.peek()
	if name.TokenType != css.IdentToken {
		return nil, fmt.Errorf("expected media feature, got '%s'", name.Data)
	}
	m.pos++
	feature := strings.ToLower(string(name.Data))

	if m.peek().TokenType == css.RightParenthesisToken {
		// boolean feature test, e.g. (color)
		m.pos++
		return &style.MediaQuery{Kind: style.MediaAll}, nil
	}
	if m.peek().TokenType != css.ColonToken {
		return nil, fmt.Errorf("expected ':' after media feature '%s'", feature)
	}
	m.pos++
	val := m.peek()
	m.pos++
	if m.peek().TokenType != css.RightParenthesisToken {
		return nil, fmt.Errorf("expected ')' after media feature '%s'", feature)
	}
	m.pos++

	q := &style.MediaQuery{}
	switch feature {
	case "min-width":
		q.Kind = style.MediaMinWidth
	case "max-width":
		q.Kind = style.MediaMaxWidth
	case "min-height":
		q.Kind = style.MediaMinHeight
	case "max-height":
		q.Kind = style.MediaMaxHeight
	case "orientation":
		switch strings.ToLower(string(val.Data)) {
		case "landscape":
			return &style.MediaQuery{Kind: style.MediaOrientation, Landscape: true}, nil
		case "portrait":
			return &style.MediaQuery{Kind: style.MediaOrientation}, nil
		}
		return nil, fmt.Errorf("unsupported orientation '%s'", val.Data)
	default:
		return nil, fmt.Errorf("unsupported media feature '%s'", feature)
	}
	l, err := parseLengthToken(val)
	if err != nil {
		return nil, err
	}
	switch l.Unit {
	case style.UnitPx:
		q.Value = l.Amount
	case style.UnitRem:
		q.Value = l.Amount * style.DefaultFontSize.Size
	default:
		return nil, fmt.Errorf("unsupported media feature value '%s'", val.Data)
	}
	return q, nil
}
