package coercer

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// TypeCoercer turns loosely-typed cell values into typed fields.
// Every method is total: bad input degrades to a zero or default value, never to an error.
type TypeCoercer struct {
	config CoercionConfig
}

// CoercionConfig defines the coercion rules
type CoercionConfig struct {
	StripPercent   bool `json:"strip_percent"`   // accept "4.2%" as 4.2
	StripThousands bool `json:"strip_thousands"` // accept "1,234" as 1234
	ClampNegative  bool `json:"clamp_negative"`  // counts below zero become zero
}

// DefaultCoercionConfig returns sensible defaults
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		StripPercent:   true,
		StripThousands: true,
		ClampNegative:  true,
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	return &TypeCoercer{config: config}
}

var (
	thousandsPattern = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)
	digitsPattern    = regexp.MustCompile(`^\d+$`)
)

// Present reports whether a field carries a value at all. Blank strings count as absent.
func (c *TypeCoercer) Present(raw any) bool {
	if raw == nil {
		return false
	}
	if s, ok := raw.(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return true
}

// Int coerces raw to a whole number, truncating fractions. Unparseable input yields 0.
func (c *TypeCoercer) Int(raw any) int64 {
	f, ok := c.number(raw)
	if !ok {
		return 0
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		return 0
	}
	n := int64(f)
	if n < 0 && c.config.ClampNegative {
		return 0
	}
	return n
}

// Float coerces raw to a finite float. Unparseable input yields 0.
func (c *TypeCoercer) Float(raw any) float64 {
	f, ok := c.number(raw)
	if !ok {
		return 0
	}
	return f
}

// Count accepts only plain non-negative integers, the way the calculator inputs do.
// "12", 12 and 12.0 are accepted; "12.5", "-3", "1e3" and "abc" yield 0.
func (c *TypeCoercer) Count(raw any) int64 {
	switch v := raw.(type) {
	case string:
		s := strings.TrimSpace(v)
		if !digitsPattern.MatchString(s) {
			return 0
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		f, ok := c.number(raw)
		if !ok || f < 0 || f != math.Trunc(f) || f > math.MaxInt64 {
			return 0
		}
		return int64(f)
	}
}

// Category returns the trimmed string form of raw, or def when raw is absent, blank or falsy.
func (c *TypeCoercer) Category(raw any, def string) string {
	switch v := raw.(type) {
	case nil:
		return def
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
		return def
	case bool:
		if !v {
			return def
		}
		return "true"
	}
	if f, ok := c.number(raw); ok {
		if f == 0 {
			return def
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	if s := strings.TrimSpace(toString(raw)); s != "" {
		return s
	}
	return def
}

// number extracts a finite float from any supported representation.
func (c *TypeCoercer) number(raw any) (float64, bool) {
	var f float64
	switch v := raw.(type) {
	case nil:
		return 0, false
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int8:
		f = float64(v)
	case int16:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint:
		f = float64(v)
	case uint8:
		f = float64(v)
	case uint16:
		f = float64(v)
	case uint32:
		f = float64(v)
	case uint64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, ok := c.parseNumeric(v)
		if !ok {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseNumeric parses a numeric string, tolerating a trailing percent sign and thousands separators.
func (c *TypeCoercer) parseNumeric(strVal string) (float64, bool) {
	cleanVal := strings.TrimSpace(strVal)
	if cleanVal == "" {
		return 0, false
	}
	if c.config.StripPercent {
		cleanVal = strings.TrimSpace(strings.TrimSuffix(cleanVal, "%"))
	}
	if c.config.StripThousands && thousandsPattern.MatchString(cleanVal) {
		cleanVal = strings.ReplaceAll(cleanVal, ",", "")
	}
	val, err := strconv.ParseFloat(cleanVal, 64)
	if err != nil {
		return 0, false
	}
	return val, true
}

// toString converts interface{} to string safely
func toString(val any) string {
	if val == nil {
		return ""
	}
	switch v := val.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
