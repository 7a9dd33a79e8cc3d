package timeline

import (
	"fmt"
	"image/color"
	"math"
)

// ValueKind discriminates the payload carried by a Value.
type ValueKind int

const (
	KindNumber ValueKind = iota
	KindString
	KindArray
)

// Value is a single keyframe payload: a number, a string (hash-prefixed
// hex strings interpolate as colors), or a numeric array.
type Value struct {
	Kind ValueKind
	Num  float64
	Str  string
	Arr  []float64
}

// Number wraps a float into a numeric Value.
func Number(v float64) Value { return Value{Kind: KindNumber, Num: v} }

// String wraps a string into a string Value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Array wraps a numeric tuple into an array Value.
func Array(vs ...float64) Value { return Value{Kind: KindArray, Arr: vs} }

// FromAny converts a decoded YAML scalar or sequence into a Value.
func FromAny(raw any) (Value, error) {
	switch v := raw.(type) {
	case int:
		return Number(float64(v)), nil
	case int64:
		return Number(float64(v)), nil
	case float32:
		return Number(float64(v)), nil
	case float64:
		return Number(v), nil
	case string:
		return String(v), nil
	case []any:
		arr := make([]float64, len(v))
		for i, el := range v {
			ev, err := FromAny(el)
			if err != nil {
				return Value{}, err
			}
			if ev.Kind != KindNumber {
				return Value{}, fmt.Errorf("array element %d is not a number", i)
			}
			arr[i] = ev.Num
		}
		return Value{Kind: KindArray, Arr: arr}, nil
	case []float64:
		return Value{Kind: KindArray, Arr: v}, nil
	default:
		return Value{}, fmt.Errorf("unsupported keyframe value type %T", raw)
	}
}

// Interp blends two keyframe values at progress p in [0,1]. Numbers
// interpolate linearly, hex color strings blend per RGB channel,
// equal-length arrays blend element-wise. Non-interpolable pairs snap
// at the halfway point.
func Interp(a, b Value, p float64) Value {
	switch {
	case a.Kind == KindNumber && b.Kind == KindNumber:
		return Number(lerp(a.Num, b.Num, p))
	case a.Kind == KindString && b.Kind == KindString:
		ca, aok := ParseHexColor(a.Str)
		cb, bok := ParseHexColor(b.Str)
		if aok && bok {
			return String(FormatHexColor(color.RGBA{
				R: blendChannel(ca.R, cb.R, p),
				G: blendChannel(ca.G, cb.G, p),
				B: blendChannel(ca.B, cb.B, p),
				A: 255,
			}))
		}
	case a.Kind == KindArray && b.Kind == KindArray && len(a.Arr) == len(b.Arr):
		out := make([]float64, len(a.Arr))
		for i := range out {
			out[i] = lerp(a.Arr[i], b.Arr[i], p)
		}
		return Value{Kind: KindArray, Arr: out}
	}
	if p < 0.5 {
		return a
	}
	return b
}

// ParseHexColor parses "#rgb", "#rrggbb" or "#rrggbbaa" into an RGBA
// color. The boolean is false for anything else.
func ParseHexColor(s string) (color.RGBA, bool) {
	if len(s) == 0 || s[0] != '#' {
		return color.RGBA{}, false
	}
	hex := s[1:]
	digit := func(c byte) (uint8, bool) {
		switch {
		case c >= '0' && c <= '9':
			return c - '0', true
		case c >= 'a' && c <= 'f':
			return c - 'a' + 10, true
		case c >= 'A' && c <= 'F':
			return c - 'A' + 10, true
		}
		return 0, false
	}
	pair := func(i int) (uint8, bool) {
		hi, ok1 := digit(hex[i])
		lo, ok2 := digit(hex[i+1])
		return hi<<4 | lo, ok1 && ok2
	}
	switch len(hex) {
	case 3:
		r, ok1 := digit(hex[0])
		g, ok2 := digit(hex[1])
		b, ok3 := digit(hex[2])
		if !ok1 || !ok2 || !ok3 {
			return color.RGBA{}, false
		}
		return color.RGBA{R: r * 17, G: g * 17, B: b * 17, A: 255}, true
	case 6, 8:
		r, ok1 := pair(0)
		g, ok2 := pair(2)
		b, ok3 := pair(4)
		a := uint8(255)
		ok4 := true
		if len(hex) == 8 {
			a, ok4 = pair(6)
		}
		if !ok1 || !ok2 || !ok3 || !ok4 {
			return color.RGBA{}, false
		}
		return color.RGBA{R: r, G: g, B: b, A: a}, true
	}
	return color.RGBA{}, false
}

// FormatHexColor renders a color as "#rrggbb".
func FormatHexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func blendChannel(a, b uint8, p float64) uint8 {
	return uint8(math.Round(lerp(float64(a), float64(b), p)))
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
