package css

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"uicss/style"
)

var (
	errUnknownProperty     = errors.New("unknown property")
	errUnresolvedVar       = errors.New("unresolved variable")
	errUnsupportedSelector = errors.New("unsupported selector")
)

// Parser parses CSS stylesheets into structured rules.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// sheetParser keeps state of a single Parse call.
type sheetParser struct {
	log    *zap.Logger
	parser *css.Parser
	sheet  *Stylesheet
	source string
	order  int
	errs   error
}

// Parse parses CSS text into a Stylesheet. Source identifies what is being
// parsed in errors and logs.
//
// Returned sheet is never nil and has every rule which could be parsed.
// Returned error lists pieces which were skipped (see ParseError) and is
// advisory.
func (p *Parser) Parse(data []byte, source string) (*Stylesheet, error) {
	sheet := newStylesheet()
	p.log.Debug("Parsing CSS", zap.String("source", source), zap.Int("bytes", len(data)))

	// variables may be declared anywhere in the sheet, collect them first
	p.collectVars(data, sheet)

	st := &sheetParser{
		log:    p.log,
		parser: css.NewParser(parse.NewInput(bytes.NewReader(data)), false),
		sheet:  sheet,
		source: source,
	}
	st.ruleList(nil, false)

	p.log.Debug("Parsed CSS",
		zap.String("source", source),
		zap.Int("rules", len(sheet.Rules)),
		zap.Int("keyframes", len(sheet.Keyframes)),
		zap.Int("vars", len(sheet.Vars)),
		zap.Int("warnings", len(sheet.Warnings)))
	return sheet, st.errs
}

// ParseInline parses body of a style attribute. Important declarations are
// laid over normal ones.
func (p *Parser) ParseInline(text string) (style.Style, error) {
	st := &sheetParser{
		log:    p.log,
		parser: css.NewParser(parse.NewInputString(text), true),
		sheet:  newStylesheet(),
		source: "inline",
	}
	var decl Declaration
	for {
		gt, _, data := st.parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if !st.parser.HasParseError() {
				res := decl.Normal
				res.Merge(&decl.Important)
				return res, st.errs
			}
			st.fail(MalformedDeclaration, "", "", st.parser.Err())
		case css.DeclarationGrammar:
			st.declaration(&decl, "", string(data), st.parser.Values())
		}
	}
}

func (p *Parser) collectVars(data []byte, sheet *Stylesheet) {
	parser := css.NewParser(parse.NewInput(bytes.NewReader(data)), false)
	root := false
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if !parser.HasParseError() {
				return
			}
		case css.BeginRulesetGrammar:
			root = false
			for _, sel := range splitSelectors(parser.Values()) {
				if sel == ":root" {
					root = true
				}
			}
		case css.EndRulesetGrammar:
			root = false
		case css.CustomPropertyGrammar:
			if !root {
				p.log.Debug("Ignoring custom property outside of :root", zap.String("name", string(data)))
				continue
			}
			if vals := parser.Values(); len(vals) > 0 {
				sheet.Vars[string(data)] = strings.TrimSpace(string(vals[0].Data))
			}
		}
	}
}

// fail records skipped piece of the stylesheet.
func (st *sheetParser) fail(kind ErrorKind, sel, prop string, err error) {
	pe := &ParseError{Kind: kind, Source: st.source, Selector: sel, Property: prop, Err: err}
	st.sheet.Warnings = append(st.sheet.Warnings, pe.Error())
	st.errs = multierr.Append(st.errs, pe)
	st.log.Debug("Skipping CSS",
		zap.Stringer("kind", kind),
		zap.String("selector", sel),
		zap.String("property", prop),
		zap.Error(err))
}

// ruleList reads rules until end of input or, when nested, until end of the
// enclosing @-rule. Returns false on end of input.
func (st *sheetParser) ruleList(media *style.MediaQuery, nested bool) bool {
	for {
		gt, _, data := st.parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if !st.parser.HasParseError() {
				return false
			}
			st.fail(MalformedRule, "", "", st.parser.Err())

		case css.EndAtRuleGrammar:
			if nested {
				return true
			}

		case css.BeginAtRuleGrammar:
			atRule := strings.ToLower(string(data))
			switch atRule {
			case "@media":
				q, err := parseMediaQuery(st.parser.Values())
				if err != nil {
					st.fail(MalformedRule, atRule, "", err)
					st.skipAtRuleBlock()
					continue
				}
				if !st.ruleList(andMedia(media, q), true) {
					return false
				}
			case "@keyframes", "@-webkit-keyframes", "@-moz-keyframes":
				st.keyframes(st.parser.Values())
			default:
				st.log.Debug("Skipping @-rule", zap.String("rule", atRule))
				st.skipAtRuleBlock()
			}

		case css.AtRuleGrammar:
			// simple @-rule without block (e.g. @import)
			st.log.Debug("Skipping @-rule", zap.String("rule", string(data)))

		case css.BeginRulesetGrammar:
			st.ruleset(splitSelectors(st.parser.Values()), media)
		}
	}
}

// ruleset reads declarations of a rule and stores one rule per selector.
func (st *sheetParser) ruleset(selectors []string, media *style.MediaQuery) {
	joined := strings.Join(selectors, ", ")
	decl := st.block(joined)

	for _, sel := range selectors {
		if !supportedSelector(sel) {
			st.fail(MalformedRule, sel, "", errUnsupportedSelector)
			continue
		}
		if decl.IsEmpty() {
			continue
		}
		st.sheet.Rules = append(st.sheet.Rules, Rule{
			Selector:    sel,
			Declaration: decl,
			Order:       st.order,
			Media:       media,
		})
		st.order++
	}
}

// block parses declarations until the end of current ruleset.
func (st *sheetParser) block(sel string) Declaration {
	var decl Declaration
	for {
		gt, _, data := st.parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if !st.parser.HasParseError() {
				return decl
			}
			st.fail(MalformedDeclaration, sel, "", st.parser.Err())
		case css.EndRulesetGrammar:
			return decl
		case css.DeclarationGrammar:
			st.declaration(&decl, sel, string(data), st.parser.Values())
		case css.CustomPropertyGrammar:
			// already collected by the first pass
		case css.BeginAtRuleGrammar:
			st.log.Debug("Skipping nested @-rule", zap.String("rule", string(data)), zap.String("selector", sel))
			st.skipAtRuleBlock()
		}
	}
}

// declaration converts a single property into decl. Declaration which cannot
// be converted leaves decl unchanged.
func (st *sheetParser) declaration(decl *Declaration, sel, prop string, values []css.Token) {
	prop = strings.ToLower(prop)
	toks, important := splitImportant(values)

	dst := &decl.Normal
	if important {
		dst = &decl.Important
	}
	if _, ok := properties[prop]; !ok {
		st.fail(UnknownProperty, sel, prop, errUnknownProperty)
		return
	}
	toks, err := st.substitute(toks)
	if err != nil {
		st.fail(UnsupportedValue, sel, prop, err)
		return
	}
	if len(toks) == 0 {
		st.fail(MalformedDeclaration, sel, prop, errEmptyValue)
		return
	}
	res := *dst
	if err := applyProperty(&res, prop, newValue(toks)); err != nil {
		st.fail(UnsupportedValue, sel, prop, err)
		return
	}
	*dst = res
}

// substitute replaces var() references with variable values. References are
// resolved once, variable values are not expanded further.
func (st *sheetParser) substitute(toks []css.Token) ([]css.Token, error) {
	res := make([]css.Token, 0, len(toks))
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if t.TokenType != css.FunctionToken || !strings.EqualFold(string(t.Data), "var(") {
			res = append(res, t)
			continue
		}
		var (
			name  string
			depth = 1
		)
		for i++; i < len(toks) && depth > 0; i++ {
			switch toks[i].TokenType {
			case css.FunctionToken, css.LeftParenthesisToken:
				depth++
			case css.RightParenthesisToken:
				depth--
			case css.CustomPropertyNameToken, css.IdentToken:
				if name == "" && depth == 1 {
					name = string(toks[i].Data)
				}
			}
		}
		i--
		if !strings.HasPrefix(name, "--") {
			name = "--" + name
		}
		val, ok := st.sheet.Vars[name]
		if !ok {
			return nil, fmt.Errorf("%w '%s'", errUnresolvedVar, name)
		}
		res = append(res, tokenize(val)...)
	}
	return res, nil
}

// keyframes reads @keyframes block.
func (st *sheetParser) keyframes(values []css.Token) {
	var name string
	for _, t := range values {
		if t.TokenType == css.IdentToken || t.TokenType == css.StringToken {
			name = unquote(string(t.Data))
			break
		}
	}

	var frames []Keyframe
	for {
		gt, _, data := st.parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if !st.parser.HasParseError() {
				st.storeKeyframes(name, frames)
				return
			}
			st.fail(MalformedRule, "@keyframes "+name, "", st.parser.Err())
		case css.EndAtRuleGrammar:
			st.storeKeyframes(name, frames)
			return
		case css.BeginAtRuleGrammar:
			st.log.Debug("Skipping nested @-rule", zap.String("rule", string(data)), zap.String("keyframes", name))
			st.skipAtRuleBlock()
		case css.BeginRulesetGrammar:
			sels := splitSelectors(st.parser.Values())
			decl := st.block(name + " " + strings.Join(sels, ", "))
			for _, sel := range sels {
				progress, err := parseProgress(sel)
				if err != nil {
					st.fail(MalformedRule, "@keyframes "+name+" "+sel, "", err)
					continue
				}
				frames = append(frames, Keyframe{Progress: progress, Style: decl.Normal})
			}
		}
	}
}

func (st *sheetParser) storeKeyframes(name string, frames []Keyframe) {
	if name == "" {
		st.fail(MalformedRule, "@keyframes", "", errors.New("missing animation name"))
		return
	}
	st.sheet.addKeyframes(name, frames)
}

// parseProgress converts keyframe selector to 0..1 range.
func parseProgress(sel string) (float64, error) {
	switch strings.ToLower(sel) {
	case "from":
		return 0, nil
	case "to":
		return 1, nil
	}
	num, err := strconv.ParseFloat(strings.TrimSuffix(sel, "%"), 64)
	if err != nil || !strings.HasSuffix(sel, "%") || num < 0 || num > 100 {
		return 0, fmt.Errorf("bad keyframe selector '%s'", sel)
	}
	return num / 100, nil
}

// skipAtRuleBlock skips tokens until the matching end of an @-rule block.
func (st *sheetParser) skipAtRuleBlock() {
	depth := 1
	for depth > 0 {
		gt, _, _ := st.parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if !st.parser.HasParseError() {
				return
			}
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}

// splitSelectors builds selector strings from ruleset prelude, grouped
// selectors are split by comma.
func splitSelectors(values []css.Token) []string {
	var (
		res   []string
		sb    strings.Builder
		depth int
	)
	flush := func() {
		if s := strings.Join(strings.Fields(sb.String()), " "); s != "" {
			res = append(res, s)
		}
		sb.Reset()
	}
	for _, t := range values {
		switch t.TokenType {
		case css.FunctionToken, css.LeftParenthesisToken:
			depth++
		case css.RightParenthesisToken:
			depth--
		case css.CommaToken:
			if depth == 0 {
				flush()
				continue
			}
		case css.WhitespaceToken:
			sb.WriteByte(' ')
			continue
		}
		sb.Write(t.Data)
	}
	flush()
	return res
}

// supportedSelector rejects combinators other than descendant and attribute
// selectors.
func supportedSelector(sel string) bool {
	return !strings.ContainsAny(sel, ">+~[")
}

// splitImportant strips trailing "!important" and surrounding whitespace.
func splitImportant(values []css.Token) ([]css.Token, bool) {
	toks := trimSpace(values)
	n := len(toks)
	if n >= 2 &&
		toks[n-1].TokenType == css.IdentToken && strings.EqualFold(string(toks[n-1].Data), "important") &&
		toks[n-2].TokenType == css.DelimToken && string(toks[n-2].Data) == "!" {
		return trimSpace(toks[:n-2]), true
	}
	return toks, false
}

func trimSpace(toks []css.Token) []css.Token {
	for len(toks) > 0 && toks[0].TokenType == css.WhitespaceToken {
		toks = toks[1:]
	}
	for len(toks) > 0 && toks[len(toks)-1].TokenType == css.WhitespaceToken {
		toks = toks[:len(toks)-1]
	}
	return toks
}
