package coercer

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInt(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	tests := []struct {
		name string
		raw  any
		want int64
	}{
		{"plain string", "1200", 1200},
		{"padded", "  42 ", 42},
		{"fraction truncates", "12.7", 12},
		{"thousands", "1,234,567", 1234567},
		{"garbage", "abc", 0},
		{"mixed", "12abc", 0},
		{"empty", "", 0},
		{"nil", nil, 0},
		{"float64", 99.0, 99},
		{"int", 7, 7},
		{"json number", json.Number("300"), 300},
		{"negative clamps", "-15", 0},
		{"nan", math.NaN(), 0},
		{"inf string", "Inf", 0},
		{"bool", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Int(tt.raw))
		})
	}
}

func TestIntKeepsNegativesWhenNotClamping(t *testing.T) {
	c := NewTypeCoercer(CoercionConfig{})
	assert.Equal(t, int64(-15), c.Int("-15"))
}

func TestFloat(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	assert.Equal(t, 4.25, c.Float("4.25"))
	assert.Equal(t, 4.25, c.Float("4.25%"))
	assert.Equal(t, 0.0, c.Float("n/a"))
	assert.Equal(t, 0.0, c.Float(nil))
	assert.Equal(t, 3.5, c.Float(float32(3.5)))
	assert.Equal(t, 0.0, c.Float(math.Inf(1)))
}

func TestCount(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	assert.Equal(t, int64(60), c.Count("60"))
	assert.Equal(t, int64(60), c.Count(60))
	assert.Equal(t, int64(60), c.Count(60.0))
	assert.Equal(t, int64(0), c.Count("-60"))
	assert.Equal(t, int64(0), c.Count("6.5"))
	assert.Equal(t, int64(0), c.Count(6.5))
	assert.Equal(t, int64(0), c.Count("1e3"))
	assert.Equal(t, int64(0), c.Count("abc"))
	assert.Equal(t, int64(0), c.Count(""))
	assert.Equal(t, int64(0), c.Count(nil))
}

func TestCategory(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	assert.Equal(t, "TikTok", c.Category(" TikTok ", "Unknown"))
	assert.Equal(t, "Unknown", c.Category("", "Unknown"))
	assert.Equal(t, "Unknown", c.Category("   ", "Unknown"))
	assert.Equal(t, "Unknown", c.Category(nil, "Unknown"))
	assert.Equal(t, "Unknown", c.Category(false, "Unknown"))
	assert.Equal(t, "Unknown", c.Category(0.0, "Unknown"))
	assert.Equal(t, "2024", c.Category(2024.0, "Unknown"))
	assert.Equal(t, "#General", c.Category(nil, "#General"))
}

func TestPresent(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	assert.True(t, c.Present("abc"))
	assert.True(t, c.Present(0))
	assert.True(t, c.Present(0.0))
	assert.False(t, c.Present(nil))
	assert.False(t, c.Present(""))
	assert.False(t, c.Present("  "))
}
