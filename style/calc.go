package style

import (
	"math"
	"strings"
)

// CalcContext carries what is needed to turn relative units into pixels.
type CalcContext struct {
	ParentSize   float64
	ViewportW    float64
	ViewportH    float64
	RootFontSize float64
}

func (c CalcContext) rootFont() float64 {
	if c.RootFontSize > 0 {
		return c.RootFontSize
	}
	return DefaultFontSize.Size
}

type CalcOp uint8

const (
	CalcLength CalcOp = iota // leaf holding Val
	CalcNumber               // leaf holding unitless number (angles are stored in radians)
	CalcAdd
	CalcSub
	CalcMul
	CalcDiv
	CalcMin
	CalcMax
	CalcSin
)

// CalcExpr is calc() expression tree.
type CalcExpr struct {
	Op     CalcOp
	Length Val
	Number float64
	Args   []*CalcExpr
}

func CalcLen(v Val) *CalcExpr     { return &CalcExpr{Op: CalcLength, Length: v} }
func CalcNum(n float64) *CalcExpr { return &CalcExpr{Op: CalcNumber, Number: n} }
func CalcBinary(op CalcOp, a, b *CalcExpr) *CalcExpr {
	return &CalcExpr{Op: op, Args: []*CalcExpr{a, b}}
}

// Eval computes expression in pixels. It reports false for division by zero,
// non finite results and malformed trees.
func (e *CalcExpr) Eval(ctx CalcContext) (float64, bool) {
	if e == nil {
		return 0, false
	}
	var res float64
	switch e.Op {
	case CalcLength:
		return e.Length.Resolve(ctx)
	case CalcNumber:
		res = e.Number
	case CalcAdd, CalcSub, CalcMul, CalcDiv:
		if len(e.Args) != 2 {
			return 0, false
		}
		a, ok := e.Args[0].Eval(ctx)
		if !ok {
			return 0, false
		}
		b, ok := e.Args[1].Eval(ctx)
		if !ok {
			return 0, false
		}
		switch e.Op {
		case CalcAdd:
			res = a + b
		case CalcSub:
			res = a - b
		case CalcMul:
			res = a * b
		case CalcDiv:
			if b == 0 {
				return 0, false
			}
			res = a / b
		}
	case CalcMin, CalcMax:
		if len(e.Args) == 0 {
			return 0, false
		}
		for i, arg := range e.Args {
			v, ok := arg.Eval(ctx)
			if !ok {
				return 0, false
			}
			if i == 0 || (e.Op == CalcMin && v < res) || (e.Op == CalcMax && v > res) {
				res = v
			}
		}
	case CalcSin:
		if len(e.Args) != 1 {
			return 0, false
		}
		v, ok := e.Args[0].Eval(ctx)
		if !ok {
			return 0, false
		}
		res = math.Sin(v)
	default:
		return 0, false
	}
	if math.IsNaN(res) || math.IsInf(res, 0) {
		return 0, false
	}
	return res, true
}

func (e *CalcExpr) String() string {
	if e == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("calc(")
	e.write(&sb)
	sb.WriteByte(')')
	return sb.String()
}

func (e *CalcExpr) write(sb *strings.Builder) {
	switch e.Op {
	case CalcLength:
		sb.WriteString(e.Length.String())
	case CalcNumber:
		sb.WriteString(formatFloat(e.Number))
	case CalcAdd, CalcSub, CalcMul, CalcDiv:
		sb.WriteByte('(')
		e.Args[0].write(sb)
		sb.WriteString([...]string{" + ", " - ", " * ", " / "}[e.Op-CalcAdd])
		e.Args[1].write(sb)
		sb.WriteByte(')')
	case CalcMin, CalcMax, CalcSin:
		sb.WriteString([...]string{"min(", "max(", "sin("}[e.Op-CalcMin])
		for i, a := range e.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			a.write(sb)
		}
		sb.WriteByte(')')
	}
}

func (e *CalcExpr) MarshalYAML() (any, error) {
	return e.String(), nil
}
