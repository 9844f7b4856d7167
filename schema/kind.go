package schema

import (
	"encoding/json"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Kind is a type name in the schema vocabulary.
type Kind string

const (
	String  Kind = "string"
	Number  Kind = "number"
	Boolean Kind = "boolean"
	Object  Kind = "object"
	Array   Kind = "array"
	// Any disables type checking for a field.
	Any Kind = "any"

	// Null and Unknown are only ever reported by KindOf.
	Null    Kind = "null"
	Unknown Kind = "unknown"
)

// Declarable reports whether k may appear as a field's declared type.
func (k Kind) Declarable() bool {
	switch k {
	case String, Number, Boolean, Object, Array, Any:
		return true
	}
	return false
}

// Accepts reports whether v satisfies k.
func (k Kind) Accepts(v interface{}) bool {
	return k == Any || KindOf(v) == k
}

// KindOf reports the schema kind of a decoded value. Arrays are never
// reported as objects.
func KindOf(v interface{}) Kind {
	switch v.(type) {
	case nil:
		return Null
	case string:
		return String
	case bool:
		return Boolean
	case float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, json.Number:
		return Number
	case map[string]interface{}:
		return Object
	case []interface{}:
		return Array
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return String
	case reflect.Bool:
		return Boolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return Number
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return Object
		}
	case reflect.Slice, reflect.Array:
		return Array
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return Null
		}
		return KindOf(rv.Elem().Interface())
	}
	return Unknown
}

// ObjectOf returns v as a generic object when its kind is Object.
func ObjectOf(v interface{}) (map[string]interface{}, bool) {
	if m, ok := v.(map[string]interface{}); ok {
		return m, true
	}
	if KindOf(v) != Object {
		return nil, false
	}
	rv := reflect.Indirect(reflect.ValueOf(v))
	out := make(map[string]interface{}, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// ArrayOf returns v as a generic slice when its kind is Array.
func ArrayOf(v interface{}) ([]interface{}, bool) {
	if a, ok := v.([]interface{}); ok {
		return a, true
	}
	if KindOf(v) != Array {
		return nil, false
	}
	rv := reflect.Indirect(reflect.ValueOf(v))
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// SortedKeys returns the keys of obj in lexical order.
func SortedKeys(obj map[string]interface{}) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Lookup follows a dotted path into v. Numeric segments index into arrays.
// A missing or non-traversable intermediate segment reports false; a path
// that ends on an explicit null reports (nil, true).
func Lookup(v interface{}, path string) (interface{}, bool) {
	cur := v
	for _, seg := range strings.Split(path, ".") {
		if cur == nil {
			return nil, false
		}
		next, ok := member(cur, seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

func member(v interface{}, key string) (interface{}, bool) {
	if obj, ok := ObjectOf(v); ok {
		val, found := obj[key]
		return val, found
	}
	if arr, ok := ArrayOf(v); ok {
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= len(arr) {
			return nil, false
		}
		return arr[i], true
	}
	return nil, false
}

// CloneJSON deep-copies the objects and arrays of a decoded value. Scalars
// are shared.
func CloneJSON(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = CloneJSON(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = CloneJSON(val)
		}
		return out
	}
	return v
}

// Falsy reports whether v is null, an empty string, false or numeric zero.
func Falsy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case float64:
		return t == 0 || t != t
	case json.Number:
		f, err := t.Float64()
		return err == nil && f == 0
	}
	if KindOf(v) == Number {
		return reflect.ValueOf(v).IsZero()
	}
	return false
}
