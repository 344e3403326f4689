package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueConstructorsAndAccessors(t *testing.T) {
	t.Run("Null value", func(t *testing.T) {
		v := NullValue()
		assert.Equal(t, KindNull, v.Kind())
		assert.True(t, v.IsNull())
	})

	t.Run("Bool value", func(t *testing.T) {
		v := BoolValue(true)
		assert.Equal(t, KindBool, v.Kind())
		b, ok := v.Bool()
		assert.True(t, ok)
		assert.True(t, b)

		_, ok = v.Number()
		assert.False(t, ok, "Expected Number accessor to reject a bool value")
	})

	t.Run("Number value", func(t *testing.T) {
		v := NumberValue(42.5)
		n, ok := v.Number()
		assert.True(t, ok)
		assert.Equal(t, 42.5, n)
	})

	t.Run("String value", func(t *testing.T) {
		v := StringValue("hello")
		s, ok := v.String()
		assert.True(t, ok)
		assert.Equal(t, "hello", s)
	})

	t.Run("Array value", func(t *testing.T) {
		v := ArrayValue(NumberValue(1), NumberValue(2))
		arr, ok := v.Array()
		assert.True(t, ok)
		assert.Len(t, arr, 2)
	})

	t.Run("Object value and Get", func(t *testing.T) {
		v := ObjectValue(map[string]Value{"name": StringValue("Ada")})
		name, ok := v.Get("name")
		assert.True(t, ok)
		s, _ := name.String()
		assert.Equal(t, "Ada", s)

		_, ok = v.Get("missing")
		assert.False(t, ok)

		_, ok = StringValue("not an object").Get("name")
		assert.False(t, ok, "Expected Get on a non-object to report missing")
	})
}

func TestValueText(t *testing.T) {
	t.Run("String renders without quotes", func(t *testing.T) {
		assert.Equal(t, "plain text", StringValue("plain text").Text())
	})

	t.Run("Number renders without exponent", func(t *testing.T) {
		assert.Equal(t, "42", NumberValue(42).Text())
		assert.Equal(t, "42.5", NumberValue(42.5).Text())
	})

	t.Run("Object renders as compact JSON with sorted keys", func(t *testing.T) {
		v := ObjectValue(map[string]Value{
			"b": NumberValue(2),
			"a": NumberValue(1),
		})
		assert.Equal(t, `{"a":1,"b":2}`, v.Text())
	})
}

func TestValueJSONRoundTrip(t *testing.T) {
	t.Run("Unmarshal preserves all kinds", func(t *testing.T) {
		input := `{"null":null,"bool":true,"num":3.5,"str":"s","arr":[1,"two"],"obj":{"nested":false}}`

		var v Value
		err := json.Unmarshal([]byte(input), &v)
		require.NoError(t, err)
		require.Equal(t, KindObject, v.Kind())

		null, _ := v.Get("null")
		assert.True(t, null.IsNull())

		num, _ := v.Get("num")
		n, ok := num.Number()
		assert.True(t, ok)
		assert.Equal(t, 3.5, n)

		arr, _ := v.Get("arr")
		items, ok := arr.Array()
		require.True(t, ok)
		require.Len(t, items, 2)

		obj, _ := v.Get("obj")
		nested, ok := obj.Get("nested")
		require.True(t, ok)
		b, _ := nested.Bool()
		assert.False(t, b)
	})

	t.Run("Marshal then unmarshal is stable", func(t *testing.T) {
		original := ObjectValue(map[string]Value{
			"scores": ArrayValue(NumberValue(1), NumberValue(2)),
			"name":   StringValue("Ada"),
		})

		data, err := json.Marshal(original)
		require.NoError(t, err)
		assert.Equal(t, `{"name":"Ada","scores":[1,2]}`, string(data))

		var decoded Value
		require.NoError(t, json.Unmarshal(data, &decoded))
		redata, err := json.Marshal(decoded)
		require.NoError(t, err)
		assert.Equal(t, string(data), string(redata), "Expected deterministic output across round trips")
	})

	t.Run("Unmarshal rejects invalid JSON", func(t *testing.T) {
		var v Value
		err := json.Unmarshal([]byte(`{"broken":`), &v)
		assert.Error(t, err)
	})
}
