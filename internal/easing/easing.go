package easing

import "math"

// Func remaps normalized animation progress in [0,1] to an eased fraction.
// Every function returns 0 at t=0 and 1 at t=1.
type Func func(t float64) float64

// Linear returns progress unchanged.
func Linear(t float64) float64 { return t }

func easeInQuad(t float64) float64  { return t * t }
func easeOutQuad(t float64) float64 { return 1 - (1-t)*(1-t) }

func easeInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - math.Pow(-2*t+2, 2)/2
}

func easeInCubic(t float64) float64  { return t * t * t }
func easeOutCubic(t float64) float64 { return 1 - math.Pow(1-t, 3) }

func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

func easeInSine(t float64) float64  { return 1 - math.Cos(t*math.Pi/2) }
func easeOutSine(t float64) float64 { return math.Sin(t * math.Pi / 2) }

func easeInOutSine(t float64) float64 {
	return -(math.Cos(math.Pi*t) - 1) / 2
}

func easeInExpo(t float64) float64 {
	if t <= 0 {
		return 0
	}
	return math.Pow(2, 10*t-10)
}

func easeOutExpo(t float64) float64 {
	if t >= 1 {
		return 1
	}
	return 1 - math.Pow(2, -10*t)
}

func easeInOutExpo(t float64) float64 {
	switch {
	case t <= 0:
		return 0
	case t >= 1:
		return 1
	case t < 0.5:
		return math.Pow(2, 20*t-10) / 2
	default:
		return (2 - math.Pow(2, -20*t+10)) / 2
	}
}

func easeOutBack(t float64) float64 {
	const c1 = 1.70158
	const c3 = c1 + 1
	return 1 + c3*math.Pow(t-1, 3) + c1*math.Pow(t-1, 2)
}

func easeOutElastic(t float64) float64 {
	switch {
	case t <= 0:
		return 0
	case t >= 1:
		return 1
	}
	const c4 = 2 * math.Pi / 3
	return math.Pow(2, -10*t)*math.Sin((t*10-0.75)*c4) + 1
}

func easeOutBounce(t float64) float64 {
	const n1 = 7.5625
	const d1 = 2.75
	switch {
	case t < 1/d1:
		return n1 * t * t
	case t < 2/d1:
		t -= 1.5 / d1
		return n1*t*t + 0.75
	case t < 2.5/d1:
		t -= 2.25 / d1
		return n1*t*t + 0.9375
	default:
		t -= 2.625 / d1
		return n1*t*t + 0.984375
	}
}

var table = map[string]Func{
	"linear":         Linear,
	"easeInQuad":     easeInQuad,
	"easeOutQuad":    easeOutQuad,
	"easeInOutQuad":  easeInOutQuad,
	"easeInCubic":    easeInCubic,
	"easeOutCubic":   easeOutCubic,
	"easeInOutCubic": easeInOutCubic,
	"easeInSine":     easeInSine,
	"easeOutSine":    easeOutSine,
	"easeInOutSine":  easeInOutSine,
	"easeInExpo":     easeInExpo,
	"easeOutExpo":    easeOutExpo,
	"easeInOutExpo":  easeInOutExpo,
	"easeOutBack":    easeOutBack,
	"easeOutElastic": easeOutElastic,
	"easeOutBounce":  easeOutBounce,
}

// Resolve returns the easing function registered under name.
// Unknown or empty names fall back to Linear, never nil.
func Resolve(name string) Func {
	if f, ok := table[name]; ok {
		return f
	}
	return Linear
}

// Known reports whether name is a registered easing function.
func Known(name string) bool {
	_, ok := table[name]
	return ok
}

// Names returns all registered easing names (unordered).
func Names() []string {
	names := make([]string, 0, len(table))
	for n := range table {
		names = append(names, n)
	}
	return names
}
