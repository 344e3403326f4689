package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// ValueKind identifies the concrete type held by a Value
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// Value is a schema-flexible JSON value. Graph properties arrive as arbitrary
// nested JSON from the store, so Value keeps the full structure as a tagged
// union instead of an untyped map, preserving round-trip fidelity.
type Value struct {
	kind ValueKind
	b    bool
	num  float64
	str  string
	arr  []Value
	obj  map[string]Value
}

// NullValue returns the null Value
func NullValue() Value {
	return Value{kind: KindNull}
}

// BoolValue returns a boolean Value
func BoolValue(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// NumberValue returns a numeric Value
func NumberValue(n float64) Value {
	return Value{kind: KindNumber, num: n}
}

// StringValue returns a string Value
func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

// ArrayValue returns an array Value
func ArrayValue(values ...Value) Value {
	return Value{kind: KindArray, arr: values}
}

// ObjectValue returns an object Value
func ObjectValue(fields map[string]Value) Value {
	return Value{kind: KindObject, obj: fields}
}

// Kind returns the kind tag of the value
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsNull reports whether the value is null
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Bool returns the boolean content and whether the value is a boolean
func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// Number returns the numeric content and whether the value is a number
func (v Value) Number() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// String returns the string content and whether the value is a string
func (v Value) String() (string, bool) {
	return v.str, v.kind == KindString
}

// Array returns the array content and whether the value is an array
func (v Value) Array() ([]Value, bool) {
	return v.arr, v.kind == KindArray
}

// Object returns the object content and whether the value is an object
func (v Value) Object() (map[string]Value, bool) {
	return v.obj, v.kind == KindObject
}

// Get returns the field of an object value by key
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	val, ok := v.obj[key]
	return val, ok
}

// Text renders the value as plain text. Strings are returned without quotes,
// everything else as compact JSON.
func (v Value) Text() string {
	if v.kind == KindString {
		return v.str
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// MarshalJSON implements json.Marshaler
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindNumber:
		// Render integers without exponent or trailing zeros
		return []byte(strconv.FormatFloat(v.num, 'f', -1, 64)), nil
	case KindString:
		return json.Marshal(v.str)
	case KindArray:
		if v.arr == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.arr)
	case KindObject:
		if len(v.obj) == 0 {
			return []byte("{}"), nil
		}
		// Deterministic key order for stable output
		keys := make([]string, 0, len(v.obj))
		for k := range v.obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		buf := []byte{'{'}
		for i, k := range keys {
			if i > 0 {
				buf = append(buf, ',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			vb, err := json.Marshal(v.obj[k])
			if err != nil {
				return nil, err
			}
			buf = append(buf, kb...)
			buf = append(buf, ':')
			buf = append(buf, vb...)
		}
		return append(buf, '}'), nil
	default:
		return nil, fmt.Errorf("unknown value kind %d", v.kind)
	}
}

// UnmarshalJSON implements json.Unmarshaler
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&raw); err != nil {
		return err
	}

	parsed, err := valueFromInterface(raw)
	if err != nil {
		return err
	}

	*v = parsed
	return nil
}

// valueFromInterface converts a decoded JSON interface tree into a Value
func valueFromInterface(raw interface{}) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return NullValue(), nil
	case bool:
		return BoolValue(t), nil
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %w", t.String(), err)
		}
		return NumberValue(n), nil
	case float64:
		return NumberValue(t), nil
	case string:
		return StringValue(t), nil
	case []interface{}:
		arr := make([]Value, len(t))
		for i, item := range t {
			val, err := valueFromInterface(item)
			if err != nil {
				return Value{}, err
			}
			arr[i] = val
		}
		return ArrayValue(arr...), nil
	case map[string]interface{}:
		obj := make(map[string]Value, len(t))
		for k, item := range t {
			val, err := valueFromInterface(item)
			if err != nil {
				return Value{}, err
			}
			obj[k] = val
		}
		return ObjectValue(obj), nil
	default:
		return Value{}, errors.New("unsupported JSON value type")
	}
}
