// internal/clientutils/values.go
package clientutils

import (
	"math"
	"reflect"
	"strings"

	"github.com/spf13/cast"
)

// A field value is either a scalar (string, bool, number or nil) or an
// ordered list of scalars. Values exported from the script runtime already
// have this shape, so the helpers below accept any.

// Truthy reports the truthiness of a field value: nil, false, "", numeric
// zero and NaN are false, everything else (lists included) is true.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0 && !math.IsNaN(x)
	case float32:
		return x != 0 && !math.IsNaN(float64(x))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return cast.ToFloat64(x) != 0
	default:
		return true
	}
}

// isList reports whether v is a slice or array (but not a byte string).
func isList(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.([]byte); ok {
		return false
	}
	k := reflect.TypeOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}

// scalarString converts a scalar to the string a script engine would compare
// against an attribute value.
func scalarString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		if math.IsNaN(x) {
			return "NaN"
		}
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return s
}

// Scalars normalizes a value to a list: lists are converted element-wise,
// scalars are wrapped.
func Scalars(v any) []string {
	if !isList(v) {
		return []string{scalarString(v)}
	}
	rv := reflect.ValueOf(v)
	out := make([]string, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = scalarString(rv.Index(i).Interface())
	}
	return out
}

// Stringify converts a value for a text slot. Lists are joined with commas,
// the way a script engine stringifies an array.
func Stringify(v any) string {
	if isList(v) {
		return strings.Join(Scalars(v), ",")
	}
	return scalarString(v)
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
