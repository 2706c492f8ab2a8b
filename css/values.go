package css

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"golang.org/x/image/colornames"

	"uicss/style"
)

var (
	errEmptyValue   = errors.New("empty value")
	errValueCount   = errors.New("unexpected number of values")
	errNotDimension = errors.New("not a dimension")
	errNotColor     = errors.New("not a color")
)

// part is a single whitespace separated component of a declaration value. A
// function call with all of its arguments is one part.
type part []css.Token

func (p part) first() css.Token {
	if len(p) == 0 {
		return css.Token{TokenType: css.ErrorToken}
	}
	return p[0]
}

func (p part) String() string {
	var sb strings.Builder
	for i, t := range p {
		if t.TokenType == css.WhitespaceToken {
			if i > 0 && i < len(p)-1 {
				sb.WriteByte(' ')
			}
			continue
		}
		sb.Write(t.Data)
	}
	return sb.String()
}

func (p part) isFunc(names ...string) bool {
	t := p.first()
	if t.TokenType != css.FunctionToken {
		return false
	}
	name := strings.ToLower(strings.TrimSuffix(string(t.Data), "("))
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func (p part) funcName() string {
	return strings.ToLower(strings.TrimSuffix(string(p.first().Data), "("))
}

// args splits function call part into comma separated argument token lists
// (whitespace removed at nesting level 1).
func (p part) args() [][]css.Token {
	if len(p) < 2 {
		return nil
	}
	inner := p[1:]
	if last := inner[len(inner)-1]; last.TokenType == css.RightParenthesisToken {
		inner = inner[:len(inner)-1]
	}
	var (
		res   [][]css.Token
		cur   []css.Token
		depth int
	)
	for _, t := range inner {
		switch t.TokenType {
		case css.FunctionToken, css.LeftParenthesisToken:
			depth++
		case css.RightParenthesisToken:
			depth--
		case css.CommaToken:
			if depth == 0 {
				res = append(res, cur)
				cur = nil
				continue
			}
		case css.WhitespaceToken:
			if depth == 0 {
				continue
			}
		}
		cur = append(cur, t)
	}
	if len(cur) > 0 || len(res) > 0 {
		res = append(res, cur)
	}
	return res
}

// value is a declaration value prepared for property converters.
type value struct {
	raw   string
	parts []part
	// groups are parts split by top level commas
	groups [][]part
}

func newValue(tokens []css.Token) *value {
	v := &value{}
	var (
		cur   part
		group []part
		depth int
	)
	flush := func() {
		if len(cur) > 0 {
			v.parts = append(v.parts, cur)
			group = append(group, cur)
			cur = nil
		}
	}
	for _, t := range tokens {
		switch t.TokenType {
		case css.FunctionToken, css.LeftParenthesisToken:
			depth++
		case css.RightParenthesisToken:
			if depth > 0 {
				depth--
			}
		case css.WhitespaceToken:
			if depth == 0 {
				flush()
				continue
			}
		case css.CommaToken:
			if depth == 0 {
				flush()
				v.groups = append(v.groups, group)
				group = nil
				continue
			}
		}
		cur = append(cur, t)
	}
	flush()
	if len(group) > 0 || len(v.groups) > 0 {
		v.groups = append(v.groups, group)
	}

	strs := make([]string, 0, len(v.parts))
	for _, p := range v.parts {
		strs = append(strs, p.String())
	}
	v.raw = strings.Join(strs, " ")
	return v
}

func (v *value) single() (part, error) {
	if len(v.parts) != 1 {
		if len(v.parts) == 0 {
			return nil, errEmptyValue
		}
		return nil, errValueCount
	}
	return v.parts[0], nil
}

func (v *value) keyword() string {
	return strings.ToLower(v.raw)
}

// tokenize runs lexer over a standalone value string, used for var()
// substitution.
func tokenize(s string) []css.Token {
	l := css.NewLexer(parse.NewInputString(s))
	var res []css.Token
	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			return res
		case css.CommentToken:
			continue
		}
		res = append(res, css.Token{TokenType: tt, Data: append([]byte(nil), data...)})
	}
}

// parseDimension extracts numeric value and unit from dimension token.
func parseDimension(s string) (float64, string) {
	numEnd := 0
	for i, r := range s {
		if unicode.IsDigit(r) || r == '.' || r == '-' || r == '+' {
			numEnd = i + 1
		} else if (r == 'e' || r == 'E') && i+1 < len(s) && (unicode.IsDigit(rune(s[i+1])) || s[i+1] == '-') && numEnd > 0 {
			numEnd = i + 1
		} else {
			break
		}
	}
	if numEnd == 0 {
		return 0, ""
	}
	num, err := strconv.ParseFloat(s[:numEnd], 64)
	if err != nil {
		return 0, ""
	}
	return num, strings.ToLower(s[numEnd:])
}

func parseNumberToken(t css.Token) (float64, error) {
	if t.TokenType != css.NumberToken {
		return 0, fmt.Errorf("not a number '%s'", t.Data)
	}
	return strconv.ParseFloat(string(t.Data), 64)
}

// parseLengthToken handles px, %, vw, vh, rem, auto and unitless zero.
func parseLengthToken(t css.Token) (style.Val, error) {
	switch t.TokenType {
	case css.DimensionToken:
		num, unit := parseDimension(string(t.Data))
		switch unit {
		case "px":
			return style.Px(num), nil
		case "vw":
			return style.Vw(num), nil
		case "vh":
			return style.Vh(num), nil
		case "rem":
			return style.Rem(num), nil
		}
		return style.Val{}, fmt.Errorf("unsupported unit '%s'", unit)
	case css.PercentageToken:
		num, err := strconv.ParseFloat(strings.TrimSuffix(string(t.Data), "%"), 64)
		if err != nil {
			return style.Val{}, err
		}
		return style.Percent(num), nil
	case css.NumberToken:
		num, err := strconv.ParseFloat(string(t.Data), 64)
		if err != nil {
			return style.Val{}, err
		}
		if num != 0 {
			return style.Val{}, fmt.Errorf("unitless non-zero length '%s'", t.Data)
		}
		return style.Px(0), nil
	case css.IdentToken:
		if strings.EqualFold(string(t.Data), "auto") {
			return style.Auto(), nil
		}
	}
	return style.Val{}, fmt.Errorf("%w: '%s'", errNotDimension, t.Data)
}

func parseLength(p part) (style.Val, error) {
	if len(p) != 1 {
		return style.Val{}, fmt.Errorf("%w: '%s'", errNotDimension, p)
	}
	return parseLengthToken(p[0])
}

func parseLengths(parts []part) ([]style.Val, error) {
	res := make([]style.Val, 0, len(parts))
	for _, p := range parts {
		v, err := parseLength(p)
		if err != nil {
			return nil, err
		}
		res = append(res, v)
	}
	return res, nil
}

// parseDim accepts either plain length or calc() expression.
func parseDim(v *value) (*style.Val, *style.CalcExpr, error) {
	p, err := v.single()
	if err != nil {
		return nil, nil, err
	}
	if p.isFunc("calc", "min", "max") {
		expr, err := parseCalc(p)
		if err != nil {
			return nil, nil, err
		}
		return nil, expr, nil
	}
	val, err := parseLength(p)
	if err != nil {
		return nil, nil, err
	}
	return &val, nil, nil
}

func parseTime(p part) (float64, error) {
	if len(p) != 1 {
		return 0, fmt.Errorf("not a time '%s'", p)
	}
	t := p[0]
	switch t.TokenType {
	case css.DimensionToken:
		num, unit := parseDimension(string(t.Data))
		switch unit {
		case "s":
			return num, nil
		case "ms":
			return num / 1000, nil
		}
	case css.NumberToken:
		if num, err := parseNumberToken(t); err == nil && num == 0 {
			return 0, nil
		}
	}
	return 0, fmt.Errorf("not a time '%s'", p)
}

func isTime(p part) bool {
	_, err := parseTime(p)
	return err == nil
}

// parseAngle returns angle in degrees.
func parseAngle(toks []css.Token) (float64, error) {
	if len(toks) != 1 {
		return 0, fmt.Errorf("not an angle '%s'", part(toks))
	}
	t := toks[0]
	switch t.TokenType {
	case css.DimensionToken:
		num, unit := parseDimension(string(t.Data))
		switch unit {
		case "deg":
			return num, nil
		case "rad":
			return num * 180 / math.Pi, nil
		case "turn":
			return num * 360, nil
		case "grad":
			return num * 0.9, nil
		}
	case css.NumberToken:
		if num, err := parseNumberToken(t); err == nil && num == 0 {
			return 0, nil
		}
	}
	return 0, fmt.Errorf("not an angle '%s'", t.Data)
}

// parseColor handles hex, rgb(), rgba(), named colors, transparent and none.
func parseColor(p part) (style.Color, error) {
	t := p.first()
	switch {
	case t.TokenType == css.HashToken && len(p) == 1:
		return parseHexColor(string(t.Data))
	case p.isFunc("rgb", "rgba"):
		return parseRGBFunc(p)
	case t.TokenType == css.IdentToken && len(p) == 1:
		name := strings.ToLower(string(t.Data))
		if name == "transparent" || name == "none" {
			return style.Transparent, nil
		}
		if c, ok := colornames.Map[name]; ok {
			return style.RGBA(c.R, c.G, c.B, c.A), nil
		}
	}
	return style.Color{}, fmt.Errorf("%w: '%s'", errNotColor, p)
}

func isColor(p part) bool {
	_, err := parseColor(p)
	return err == nil
}

func parseHexColor(s string) (style.Color, error) {
	h := strings.TrimPrefix(s, "#")
	for _, r := range h {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return style.Color{}, fmt.Errorf("%w: '%s'", errNotColor, s)
		}
	}
	nibble := func(i int) uint8 {
		v, _ := strconv.ParseUint(h[i:i+1], 16, 8)
		return uint8(v) * 0x11
	}
	byteAt := func(i int) uint8 {
		v, _ := strconv.ParseUint(h[i:i+2], 16, 8)
		return uint8(v)
	}
	switch len(h) {
	case 3:
		return style.RGBA(nibble(0), nibble(1), nibble(2), 0xff), nil
	case 4:
		return style.RGBA(nibble(0), nibble(1), nibble(2), nibble(3)), nil
	case 6:
		return style.RGBA(byteAt(0), byteAt(2), byteAt(4), 0xff), nil
	case 8:
		return style.RGBA(byteAt(0), byteAt(2), byteAt(4), byteAt(6)), nil
	}
	return style.Color{}, fmt.Errorf("%w: '%s'", errNotColor, s)
}

func parseRGBFunc(p part) (style.Color, error) {
	args := p.args()
	if len(args) != 3 && len(args) != 4 {
		return style.Color{}, fmt.Errorf("%w: '%s'", errNotColor, p)
	}
	var ch [4]uint8
	ch[3] = 0xff
	for i, a := range args {
		if len(a) != 1 {
			return style.Color{}, fmt.Errorf("%w: '%s'", errNotColor, p)
		}
		var (
			num float64
			err error
		)
		switch a[0].TokenType {
		case css.NumberToken:
			num, err = parseNumberToken(a[0])
			// alpha given as fraction
			if i == 3 && num <= 1 {
				num *= 255
			}
		case css.PercentageToken:
			num, err = strconv.ParseFloat(strings.TrimSuffix(string(a[0].Data), "%"), 64)
			num = num * 255 / 100
		default:
			err = fmt.Errorf("%w: '%s'", errNotColor, p)
		}
		if err != nil {
			return style.Color{}, err
		}
		ch[i] = uint8(math.Round(math.Max(0, math.Min(255, num))))
	}
	return style.RGBA(ch[0], ch[1], ch[2], ch[3]), nil
}

// parseCalc builds expression tree from calc(), min() or max() part.
func parseCalc(p part) (*style.CalcExpr, error) {
	var toks []css.Token
	for _, t := range p {
		if t.TokenType != css.WhitespaceToken {
			toks = append(toks, t)
		}
	}
	cp := &calcParser{toks: toks}
	expr, err := cp.factor()
	if err != nil {
		return nil, err
	}
	if cp.pos != len(cp.toks) {
		return nil, fmt.Errorf("trailing tokens in '%s'", p)
	}
	return expr, nil
}

type calcParser struct {
	toks []css.Token
	pos  int
}

func (c *calcParser) peek() css.Token {
	if c.pos < len(c.toks) {
		return c.toks[c.pos]
	}
	return css.Token{TokenType: css.ErrorToken}
}

func (c *calcParser) delim() byte {
	if t := c.peek(); t.TokenType == css.DelimToken && len(t.Data) == 1 {
		return t.Data[0]
	}
	return 0
}

func (c *calcParser) expr() (*style.CalcExpr, error) {
	left, err := c.term()
	if err != nil {
		return nil, err
	}
	for {
		var op style.CalcOp
		switch c.delim() {
		case '+':
			op = style.CalcAdd
		case '-':
			op = style.CalcSub
		default:
			return left, nil
		}
		c.pos++
		right, err := c.term()
		if err != nil {
			return nil, err
		}
		left = style.CalcBinary(op, left, right)
	}
}

func (c *calcParser) term() (*style.CalcExpr, error) {
	left, err := c.factor()
	if err != nil {
		return nil, err
	}
	for {
		var op style.CalcOp
		switch c.delim() {
		case '*':
			op = style.CalcMul
		case '/':
			op = style.CalcDiv
		default:
			return left, nil
		}
		c.pos++
		right, err := c.factor()
		if err != nil {
			return nil, err
		}
		left = style.CalcBinary(op, left, right)
	}
}

func (c *calcParser) closing() error {
	if c.peek().TokenType != css.RightParenthesisToken {
		return fmt.Errorf("expected ')' in calc expression")
	}
	c.pos++
	return nil
}

func (c *calcParser) factor() (*style.CalcExpr, error) {
	t := c.peek()
	c.pos++
	switch t.TokenType {
	case css.NumberToken:
		n, err := parseNumberToken(t)
		if err != nil {
			return nil, err
		}
		return style.CalcNum(n), nil
	case css.DimensionToken:
		if deg, err := parseAngle([]css.Token{t}); err == nil {
			return style.CalcNum(deg * math.Pi / 180), nil
		}
		v, err := parseLengthToken(t)
		if err != nil {
			return nil, err
		}
		return style.CalcLen(v), nil
	case css.PercentageToken:
		v, err := parseLengthToken(t)
		if err != nil {
			return nil, err
		}
		return style.CalcLen(v), nil
	case css.LeftParenthesisToken:
		e, err := c.expr()
		if err != nil {
			return nil, err
		}
		return e, c.closing()
	case css.FunctionToken:
		name := strings.ToLower(strings.TrimSuffix(string(t.Data), "("))
		var op style.CalcOp
		switch name {
		case "calc":
			e, err := c.expr()
			if err != nil {
				return nil, err
			}
			return e, c.closing()
		case "min":
			op = style.CalcMin
		case "max":
			op = style.CalcMax
		case "sin":
			op = style.CalcSin
		default:
			return nil, fmt.Errorf("unsupported function '%s' in calc expression", name)
		}
		res := &style.CalcExpr{Op: op}
		for {
			arg, err := c.expr()
			if err != nil {
				return nil, err
			}
			res.Args = append(res.Args, arg)
			if c.peek().TokenType == css.CommaToken {
				c.pos++
				continue
			}
			break
		}
		if op == style.CalcSin && len(res.Args) != 1 {
			return nil, fmt.Errorf("sin() takes single argument")
		}
		return res, c.closing()
	}
	return nil, fmt.Errorf("unexpected '%s' in calc expression", t.Data)
}

// parseTransform reads sequence of transform functions.
func parseTransform(v *value) (*style.Transform, error) {
	if v.keyword() == "none" {
		return &style.Transform{
			TranslateX: style.Ptr(style.Px(0)),
			TranslateY: style.Ptr(style.Px(0)),
			ScaleX:     style.Ptr(1.0),
			ScaleY:     style.Ptr(1.0),
			Rotate:     style.Ptr(0.0),
		}, nil
	}
	if len(v.parts) == 0 {
		return nil, errEmptyValue
	}
	res := &style.Transform{}
	for _, p := range v.parts {
		if p.first().TokenType != css.FunctionToken {
			return nil, fmt.Errorf("unexpected '%s' in transform", p)
		}
		args := p.args()
		lengths := func(lo, hi int) ([]style.Val, error) {
			if len(args) < lo || len(args) > hi {
				return nil, errValueCount
			}
			out := make([]style.Val, 0, len(args))
			for _, a := range args {
				if len(a) != 1 {
					return nil, errNotDimension
				}
				v, err := parseLengthToken(a[0])
				if err != nil {
					return nil, err
				}
				out = append(out, v)
			}
			return out, nil
		}
		numbers := func(lo, hi int) ([]float64, error) {
			if len(args) < lo || len(args) > hi {
				return nil, errValueCount
			}
			out := make([]float64, 0, len(args))
			for _, a := range args {
				if len(a) != 1 {
					return nil, fmt.Errorf("not a number")
				}
				n, err := parseNumberToken(a[0])
				if err != nil {
					return nil, err
				}
				out = append(out, n)
			}
			return out, nil
		}

		switch p.funcName() {
		case "translate":
			vals, err := lengths(1, 2)
			if err != nil {
				return nil, err
			}
			res.TranslateX = &vals[0]
			res.TranslateY = style.Ptr(style.Px(0))
			if len(vals) == 2 {
				res.TranslateY = &vals[1]
			}
		case "translatex":
			vals, err := lengths(1, 1)
			if err != nil {
				return nil, err
			}
			res.TranslateX = &vals[0]
		case "translatey":
			vals, err := lengths(1, 1)
			if err != nil {
				return nil, err
			}
			res.TranslateY = &vals[0]
		case "scale":
			nums, err := numbers(1, 2)
			if err != nil {
				return nil, err
			}
			res.ScaleX, res.ScaleY = &nums[0], &nums[0]
			if len(nums) == 2 {
				res.ScaleY = &nums[1]
			}
		case "scalex":
			nums, err := numbers(1, 1)
			if err != nil {
				return nil, err
			}
			res.ScaleX = &nums[0]
		case "scaley":
			nums, err := numbers(1, 1)
			if err != nil {
				return nil, err
			}
			res.ScaleY = &nums[0]
		case "rotate":
			if len(args) != 1 {
				return nil, errValueCount
			}
			deg, err := parseAngle(args[0])
			if err != nil {
				return nil, err
			}
			res.Rotate = &deg
		default:
			return nil, fmt.Errorf("unsupported transform function '%s'", p.funcName())
		}
	}
	return res, nil
}

// parseTiming handles keywords and cubic-bezier().
func parseTiming(p part) (style.Timing, error) {
	if p.isFunc("cubic-bezier") {
		args := p.args()
		if len(args) != 4 {
			return style.Timing{}, errValueCount
		}
		var pts [4]float64
		for i, a := range args {
			if len(a) != 1 {
				return style.Timing{}, fmt.Errorf("bad cubic-bezier argument")
			}
			n, err := parseNumberToken(a[0])
			if err != nil {
				return style.Timing{}, err
			}
			pts[i] = n
		}
		if pts[0] < 0 || pts[0] > 1 || pts[2] < 0 || pts[2] > 1 {
			return style.Timing{}, fmt.Errorf("cubic-bezier x values must be in [0, 1]")
		}
		return style.Timing{Kind: style.TimingCubicBezier, X1: pts[0], Y1: pts[1], X2: pts[2], Y2: pts[3]}, nil
	}
	if len(p) == 1 && p[0].TokenType == css.IdentToken {
		if tm, ok := style.ParseTimingName(string(p[0].Data)); ok {
			return tm, nil
		}
	}
	return style.Timing{}, fmt.Errorf("unsupported timing function '%s'", p)
}

func isTiming(p part) bool {
	_, err := parseTiming(p)
	return err == nil
}

// unquote removes surrounding quotes from a string.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return s
	}
	if (s[0] == '"' && s[len(s)-1] == '"') ||
		(s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
