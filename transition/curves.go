package transition

import (
	"math"

	"uicss/style"
)

// Curve maps linear progress in [0, 1] to eased progress.
type Curve func(t float64) float64

// CurveFor returns easing function for timing.
func CurveFor(tm style.Timing) Curve {
	switch tm.Kind {
	case style.TimingLinear:
		return linear
	case style.TimingEase:
		return ease
	case style.TimingEaseIn:
		return easeIn
	case style.TimingEaseOut:
		return easeOut
	case style.TimingEaseInOut:
		return easeInOut
	case style.TimingCubicBezier:
		return CubicBezier(tm.X1, tm.Y1, tm.X2, tm.Y2)
	}
	return linear
}

// Apply eases progress clamped to [0, 1].
func Apply(tm style.Timing, t float64) float64 {
	return CurveFor(tm)(clampUnit(t))
}

func linear(t float64) float64 {
	return t
}

func ease(t float64) float64 {
	return t * t * (3 - 2*t)
}

func easeIn(t float64) float64 {
	return t * t
}

func easeOut(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

func easeInOut(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - math.Pow(-2*t+2, 2)/2
}

// CubicBezier returns easing function matching CSS cubic-bezier(). Curve
// starts at (0,0) and ends at (1,1).
func CubicBezier(x1, y1, x2, y2 float64) Curve {
	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}

		u := t
		// Newton-Raphson converges quickly for most values
		for range 8 {
			x := sampleCurve(x1, x2, u) - t
			if math.Abs(x) < 1e-7 {
				return sampleCurve(y1, y2, clampUnit(u))
			}
			dx := sampleCurveDerivative(x1, x2, u)
			if math.Abs(dx) < 1e-7 {
				break
			}
			u -= x / dx
		}

		// bisection for what Newton could not solve
		lo, hi := 0.0, 1.0
		u = clampUnit(u)
		for range 20 {
			x := sampleCurve(x1, x2, u) - t
			if math.Abs(x) < 1e-7 {
				break
			}
			if x > 0 {
				hi = u
			} else {
				lo = u
			}
			u = (lo + hi) * 0.5
		}
		return sampleCurve(y1, y2, u)
	}
}

func sampleCurve(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*t*a + 3*inv*t*t*b + t*t*t
}

func sampleCurveDerivative(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*a + 6*inv*t*(b-a) + 3*t*t*(1-b)
}

func clampUnit(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
