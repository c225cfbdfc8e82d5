package rawdoc

import (
	"bytes"
	"fmt"
	"math"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	json "github.com/goccy/go-json"
	hjson "github.com/hjson/hjson-go/v4"
)

// Parse decodes a strict JSON document.
func Parse(data []byte) (Value, error) {
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return Value{}, fmt.Errorf("failed to decode document: %w", err)
	}
	return FromAny(decoded), nil
}

// ParseLenient decodes data as JSON and, when that fails, retries after running it
// through json-repair (trailing commas, single quotes, truncated objects, markdown fences).
// Only damaged objects and arrays are repaired: input with no opening bracket, markup
// such as an HTML error page, or a repair that yields a scalar is rejected.
func ParseLenient(data []byte) (Value, error) {
	v, err := Parse(data)
	if err == nil {
		return v, nil
	}
	if reason := unrepairable(data); reason != "" {
		return Value{}, fmt.Errorf("document is not valid JSON (%s): %w", reason, err)
	}
	repaired, repairErr := jsonrepair.RepairJSON(string(data))
	if repairErr != nil {
		return Value{}, fmt.Errorf("document is not valid JSON and could not be repaired: %w", err)
	}
	v, err = Parse([]byte(repaired))
	if err != nil {
		return Value{}, fmt.Errorf("repaired document is still invalid: %w", err)
	}
	if k := v.Kind(); k != KindObject && k != KindArray {
		return Value{}, fmt.Errorf("repaired document is a %s, not an object or array", k)
	}
	return v, nil
}

// unrepairable reports why data cannot be a damaged JSON object or array, or "".
func unrepairable(data []byte) string {
	text := bytes.TrimSpace(data)
	if len(text) == 0 {
		return "empty input"
	}
	if text[0] == '<' {
		return "markup"
	}
	open := bytes.IndexAny(text, "{[")
	if open < 0 {
		return "no object or array"
	}
	if closing := bytes.IndexAny(text, "}]"); closing >= 0 && closing < open {
		return "closing bracket before opening one"
	}
	return ""
}

// ParseHJSON decodes a human-written Hjson document (comments, unquoted keys, optional commas).
func ParseHJSON(data []byte) (Value, error) {
	var decoded any
	if err := hjson.Unmarshal(data, &decoded); err != nil {
		return Value{}, fmt.Errorf("failed to decode hjson document: %w", err)
	}
	// Round-trip through JSON so ordered maps and number types collapse to plain values.
	out, err := json.Marshal(decoded)
	if err != nil {
		return Value{}, fmt.Errorf("failed to re-encode hjson document: %w", err)
	}
	return Parse(out)
}

// FromAny converts a decoded Go value into a Value. Types that are not plain JSON
// are encoded and decoded again; anything that cannot be encoded becomes null.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Value{}
	case Value:
		return t
	case bool:
		return BoolValue(t)
	case float64:
		return NumberValue(t)
	case float32:
		return NumberValue(float64(t))
	case int:
		return NumberValue(float64(t))
	case int64:
		return NumberValue(float64(t))
	case int32:
		return NumberValue(float64(t))
	case uint64:
		return NumberValue(float64(t))
	case interface{ Float64() (float64, error) }:
		f, err := t.Float64()
		if err != nil || math.IsNaN(f) {
			return Value{}
		}
		return NumberValue(f)
	case string:
		return StringValue(t)
	case []any:
		arr := make([]Value, len(t))
		for i, e := range t {
			arr[i] = FromAny(e)
		}
		return Value{kind: KindArray, arr: arr}
	case map[string]any:
		obj := make(map[string]Value, len(t))
		for k, e := range t {
			obj[k] = FromAny(e)
		}
		return Value{kind: KindObject, obj: obj}
	}

	data, err := json.Marshal(x)
	if err != nil {
		return Value{}
	}
	v, err := Parse(data)
	if err != nil {
		return Value{}
	}
	return v
}

// MarshalJSON encodes v with object keys in sorted order.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
