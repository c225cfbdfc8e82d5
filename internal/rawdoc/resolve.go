package rawdoc

import (
	"math"
	"strconv"
	"strings"
)

const maxExactInt = 1 << 53

// Lookup returns the first non-null value found along paths.
func Lookup(src Value, paths FieldPath) (Value, bool) {
	for _, p := range paths {
		if v, ok := At(src, p); ok {
			return v, true
		}
	}
	return Value{}, false
}

// Resolve walks paths in order and returns the first value that conv accepts.
// A value of the wrong shape counts as missing and the next path is tried.
// When nothing matches, fallback is returned.
func Resolve[T any](src Value, paths FieldPath, fallback T, conv func(Value) (T, bool)) T {
	for _, p := range paths {
		v, ok := At(src, p)
		if !ok {
			continue
		}
		if out, ok := conv(v); ok {
			return out
		}
	}
	return fallback
}

// ToFloat accepts JSON numbers and numeric strings.
func ToFloat(v Value) (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.n, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// ToInt accepts anything ToFloat does and truncates toward zero. Magnitudes beyond
// the exactly representable float64 integers are rejected.
func ToInt(v Value) (int, bool) {
	f, ok := ToFloat(v)
	if !ok || math.Abs(f) > maxExactInt {
		return 0, false
	}
	return int(math.Trunc(f)), true
}

// ToString accepts strings, numbers and booleans.
func ToString(v Value) (string, bool) {
	switch v.kind {
	case KindString:
		return v.s, true
	case KindNumber:
		return strconv.FormatFloat(v.n, 'f', -1, 64), true
	case KindBool:
		return strconv.FormatBool(v.b), true
	}
	return "", false
}

// ToBool accepts booleans and the strings strconv.ParseBool understands.
func ToBool(v Value) (bool, bool) {
	switch v.kind {
	case KindBool:
		return v.b, true
	case KindString:
		b, err := strconv.ParseBool(strings.TrimSpace(v.s))
		if err != nil {
			return false, false
		}
		return b, true
	}
	return false, false
}

// ToFloats converts an array into numbers. Elements that are not numeric become 0
// so positions stay aligned with sibling arrays.
func ToFloats(v Value) ([]float64, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	out := make([]float64, len(v.arr))
	for i, e := range v.arr {
		if f, ok := ToFloat(e); ok {
			out[i] = f
		}
	}
	return out, true
}

// ToStrings keeps the array elements that convert to strings.
func ToStrings(v Value) ([]string, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	out := make([]string, 0, len(v.arr))
	for _, e := range v.arr {
		if s, ok := ToString(e); ok {
			out = append(out, s)
		}
	}
	return out, true
}

func toObject(v Value) (Value, bool) { return v, v.kind == KindObject }

func toItems(v Value) ([]Value, bool) { return v.Array() }

func Float(src Value, paths FieldPath, fallback float64) float64 {
	return Resolve(src, paths, fallback, ToFloat)
}

// FloatPtr resolves an optional number; nil means no path held one.
func FloatPtr(src Value, paths FieldPath) *float64 {
	return Resolve[*float64](src, paths, nil, func(v Value) (*float64, bool) {
		f, ok := ToFloat(v)
		if !ok {
			return nil, false
		}
		return &f, true
	})
}

func Int(src Value, paths FieldPath, fallback int) int {
	return Resolve(src, paths, fallback, ToInt)
}

func String(src Value, paths FieldPath, fallback string) string {
	return Resolve(src, paths, fallback, ToString)
}

func Bool(src Value, paths FieldPath, fallback bool) bool {
	return Resolve(src, paths, fallback, ToBool)
}

// Floats resolves a numeric array, defaulting to an empty, non-nil slice.
func Floats(src Value, paths FieldPath) []float64 {
	return Resolve(src, paths, []float64{}, ToFloats)
}

// Strings resolves a string array, defaulting to an empty, non-nil slice.
func Strings(src Value, paths FieldPath) []string {
	return Resolve(src, paths, []string{}, ToStrings)
}

// Items resolves an array and returns its elements, or an empty slice.
func Items(src Value, paths FieldPath) []Value {
	return Resolve(src, paths, []Value{}, toItems)
}

// ObjectAt resolves the first object found along paths.
func ObjectAt(src Value, paths FieldPath) (Value, bool) {
	obj := Resolve(src, paths, Value{}, toObject)
	return obj, obj.kind == KindObject
}

// Section resolves the first value along paths that is an array or an object.
func Section(src Value, paths FieldPath) (Value, bool) {
	sec := Resolve(src, paths, Value{}, func(v Value) (Value, bool) {
		return v, v.kind == KindArray || v.kind == KindObject
	})
	return sec, !sec.IsNull()
}
