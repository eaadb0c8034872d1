package config

import (
	"fmt"
	"strconv"
)

// ThresholdMode distinguishes the three threshold states
type ThresholdMode int

const (
	ThresholdDefault ThresholdMode = iota
	ThresholdDisabled
	ThresholdValue
)

// Threshold is a rule limit that is either the rule default, disabled, or an
// explicit value. The zero value is the default.
type Threshold struct {
	Mode  ThresholdMode
	Value int
}

// DefaultThreshold uses the rule's own default
func DefaultThreshold() Threshold { return Threshold{Mode: ThresholdDefault} }

// DisabledThreshold turns the rule off
func DisabledThreshold() Threshold { return Threshold{Mode: ThresholdDisabled} }

// ValueThreshold sets an explicit limit
func ValueThreshold(n int) Threshold { return Threshold{Mode: ThresholdValue, Value: n} }

// Resolve returns the effective limit; ok is false when the rule is disabled
func (t Threshold) Resolve(def int) (limit int, ok bool) {
	switch t.Mode {
	case ThresholdDisabled:
		return 0, false
	case ThresholdValue:
		return t.Value, true
	default:
		return def, true
	}
}

func (t Threshold) String() string {
	switch t.Mode {
	case ThresholdDisabled:
		return "false"
	case ThresholdValue:
		return strconv.Itoa(t.Value)
	default:
		return "true"
	}
}

// ParseThreshold converts a decoded TOML value: false disables, true keeps
// the default, a non-negative integer sets the limit.
func ParseThreshold(v any) (Threshold, error) {
	switch x := v.(type) {
	case bool:
		if x {
			return DefaultThreshold(), nil
		}
		return DisabledThreshold(), nil
	case int64:
		if x < 0 {
			return Threshold{}, fmt.Errorf("threshold must not be negative, got %d", x)
		}
		return ValueThreshold(int(x)), nil
	case int:
		if x < 0 {
			return Threshold{}, fmt.Errorf("threshold must not be negative, got %d", x)
		}
		return ValueThreshold(x), nil
	}
	return Threshold{}, fmt.Errorf("expected a boolean or an integer, got %T", v)
}
