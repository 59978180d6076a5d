package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// conforms reports whether value has the shape declared by spec.Kind. The
// returned message explains a mismatch.
func conforms(spec FieldSpec, value any) (bool, string) {
	if value == nil {
		return true, ""
	}
	switch spec.Kind {
	case KindText:
		if _, ok := value.(string); !ok {
			return false, fmt.Sprintf("expected text, got %T", value)
		}
	case KindInteger:
		if _, ok := AsInt64(value); !ok {
			return false, fmt.Sprintf("expected integer, got %s", describe(value))
		}
	case KindBoolean:
		if _, ok := value.(bool); !ok {
			return false, fmt.Sprintf("expected boolean, got %T", value)
		}
	case KindDate:
		switch v := value.(type) {
		case time.Time:
		case string:
			if v == "" {
				break
			}
			if _, err := time.Parse(DateLayout, v); err != nil {
				return false, fmt.Sprintf("expected date in %s layout, got %q", DateLayout, v)
			}
		default:
			return false, fmt.Sprintf("expected date, got %T", value)
		}
	case KindSelect:
		s, ok := value.(string)
		if !ok {
			return false, fmt.Sprintf("expected one of [%s], got %T", strings.Join(spec.Choices, ", "), value)
		}
		if s != "" && !spec.HasChoice(s) {
			return false, fmt.Sprintf("%q is not one of [%s]", s, strings.Join(spec.Choices, ", "))
		}
	}
	return true, ""
}

// AsInt64 converts integral numeric values (including JSON-decoded float64 and
// json.Number) to int64. Strings are never parsed.
func AsInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		if v > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case float32:
		return floatToInt(float64(v))
	case float64:
		return floatToInt(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, true
		}
		if f, err := v.Float64(); err == nil {
			return floatToInt(f)
		}
	}
	return 0, false
}

func floatToInt(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// IsEmpty reports whether value counts as "not set" for required checks.
// Zero integers and false booleans are real values, not empty ones.
func IsEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case time.Time:
		return v.IsZero()
	default:
		return false
	}
}

func describe(value any) string {
	switch v := value.(type) {
	case string:
		return fmt.Sprintf("string %q", v)
	case float32, float64:
		return fmt.Sprintf("non-integral number %v", v)
	default:
		return fmt.Sprintf("%T", value)
	}
}
