package timeline

import (
	"image/color"
	"testing"
)

func TestInterpNumbers(t *testing.T) {
	tests := []struct {
		a, b, p  float64
		expected float64
	}{
		{0, 1, 0.5, 0.5},
		{0, 500, 0.5, 250},
		{10, 20, 0, 10},
		{10, 20, 1, 20},
		{-5, 5, 0.25, -2.5},
	}

	for _, tt := range tests {
		got := Interp(Number(tt.a), Number(tt.b), tt.p)
		if got.Kind != KindNumber {
			t.Fatalf("Interp(%v,%v) returned kind %v, expected number", tt.a, tt.b, got.Kind)
		}
		if got.Num != tt.expected {
			t.Errorf("Interp(%v,%v,%v) = %v, expected %v", tt.a, tt.b, tt.p, got.Num, tt.expected)
		}
	}
}

func TestInterpColors(t *testing.T) {
	got := Interp(String("#000000"), String("#ffffff"), 0.5)
	if got.Str != "#808080" {
		t.Errorf("Expected #808080 at midpoint, got %s", got.Str)
	}

	got = Interp(String("#ff0000"), String("#0000ff"), 0.0)
	if got.Str != "#ff0000" {
		t.Errorf("Expected start color at p=0, got %s", got.Str)
	}

	got = Interp(String("#ff0000"), String("#0000ff"), 1.0)
	if got.Str != "#0000ff" {
		t.Errorf("Expected end color at p=1, got %s", got.Str)
	}
}

func TestInterpArrays(t *testing.T) {
	got := Interp(Array(0, 10), Array(10, 20), 0.5)
	if got.Kind != KindArray || len(got.Arr) != 2 {
		t.Fatalf("Expected 2-element array, got %+v", got)
	}
	if got.Arr[0] != 5 || got.Arr[1] != 15 {
		t.Errorf("Expected [5 15], got %v", got.Arr)
	}
}

func TestInterpMismatchedSnaps(t *testing.T) {
	a := Number(1)
	b := String("#ff0000")

	if got := Interp(a, b, 0.49); got.Kind != KindNumber || got.Num != 1 {
		t.Errorf("Expected first value below midpoint, got %+v", got)
	}
	if got := Interp(a, b, 0.5); got.Kind != KindString {
		t.Errorf("Expected second value at midpoint, got %+v", got)
	}

	// Arrays of different lengths are not interpolable either.
	if got := Interp(Array(1), Array(1, 2), 0.9); len(got.Arr) != 2 {
		t.Errorf("Expected snap to second array, got %v", got.Arr)
	}

	// Non-color strings snap instead of blending.
	if got := Interp(String("left"), String("right"), 0.7); got.Str != "right" {
		t.Errorf("Expected snap to 'right', got %s", got.Str)
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in       string
		expected color.RGBA
		ok       bool
	}{
		{"#000000", color.RGBA{0, 0, 0, 255}, true},
		{"#ffffff", color.RGBA{255, 255, 255, 255}, true},
		{"#FF8000", color.RGBA{255, 128, 0, 255}, true},
		{"#f80", color.RGBA{255, 136, 0, 255}, true},
		{"#11223344", color.RGBA{17, 34, 51, 68}, true},
		{"ffffff", color.RGBA{}, false},
		{"#xyz", color.RGBA{}, false},
		{"", color.RGBA{}, false},
		{"#12345", color.RGBA{}, false},
	}

	for _, tt := range tests {
		got, ok := ParseHexColor(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseHexColor(%q) ok = %v, expected %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && got != tt.expected {
			t.Errorf("ParseHexColor(%q) = %+v, expected %+v", tt.in, got, tt.expected)
		}
	}
}

func TestFromAny(t *testing.T) {
	v, err := FromAny(42)
	if err != nil || v.Num != 42 {
		t.Errorf("FromAny(42) = %+v, %v", v, err)
	}

	v, err = FromAny("#aabbcc")
	if err != nil || v.Str != "#aabbcc" {
		t.Errorf("FromAny(string) = %+v, %v", v, err)
	}

	v, err = FromAny([]any{1, 2.5})
	if err != nil || v.Kind != KindArray || v.Arr[1] != 2.5 {
		t.Errorf("FromAny(array) = %+v, %v", v, err)
	}

	if _, err = FromAny([]any{"nope"}); err == nil {
		t.Error("Expected error for non-numeric array element")
	}
	if _, err = FromAny(map[string]any{}); err == nil {
		t.Error("Expected error for unsupported type")
	}
}
