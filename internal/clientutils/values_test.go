package clientutils_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xkilldash9x/pageutils/internal/clientutils"
)

func TestTruthy(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"nil", nil, false},
		{"false", false, false},
		{"true", true, true},
		{"empty string", "", false},
		{"string", "no", true},
		{"string zero", "0", true},
		{"float zero", 0.0, false},
		{"NaN", math.NaN(), false},
		{"float", 0.5, true},
		{"int zero", 0, false},
		{"int", -3, true},
		{"uint", uint8(1), true},
		{"empty list", []any{}, true},
		{"list", []string{"a"}, true},
		{"map", map[string]any{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, clientutils.Truthy(tt.value))
		})
	}
}

func TestScalars(t *testing.T) {
	assert.Equal(t, []string{"a"}, clientutils.Scalars("a"))
	assert.Equal(t, []string{"a", "c"}, clientutils.Scalars([]string{"a", "c"}))
	assert.Equal(t, []string{"x", "1", "true", "2.5"}, clientutils.Scalars([]any{"x", 1, true, 2.5}))
	assert.Equal(t, []string{"3"}, clientutils.Scalars(int64(3)))
	assert.Equal(t, []string{}, clientutils.Scalars([]any{}))
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "b", clientutils.Stringify("b"))
	assert.Equal(t, "", clientutils.Stringify(nil))
	assert.Equal(t, "42", clientutils.Stringify(42))
	assert.Equal(t, "1.5", clientutils.Stringify(1.5))
	assert.Equal(t, "false", clientutils.Stringify(false))
	assert.Equal(t, "NaN", clientutils.Stringify(math.NaN()))
	assert.Equal(t, "a,b", clientutils.Stringify([]any{"a", "b"}))
}
