package errors

import (
	"math"
	"strconv"
	"strings"
)

// ValidateFinite validates that a named numeric parameter of an operation is
// a finite number. NaN and infinities are rejected with INVALID_PARAMETER.
func ValidateFinite(op, param string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidParameter, "%s: parameter %q must be finite, got %v", op, param, v)
	}
	return nil
}

// ValidatePositive validates that a named numeric parameter is finite and
// strictly greater than zero.
func ValidatePositive(op, param string, v float64) error {
	if err := ValidateFinite(op, param, v); err != nil {
		return err
	}
	if v <= 0 {
		return New(ErrCodeInvalidParameter, "%s: parameter %q must be positive, got %v", op, param, v)
	}
	return nil
}

// ValidateNonNegative validates that a named numeric parameter is finite
// and not below zero.
func ValidateNonNegative(op, param string, v float64) error {
	if err := ValidateFinite(op, param, v); err != nil {
		return err
	}
	if v < 0 {
		return New(ErrCodeInvalidParameter, "%s: parameter %q must not be negative, got %v", op, param, v)
	}
	return nil
}

// ValidateCount validates that a repetition count is within a sane range.
// Counts are capped to keep a single invocation from exploding memory.
func ValidateCount(op, param string, n, max int) error {
	if n < 1 {
		return New(ErrCodeInvalidParameter, "%s: parameter %q must be at least 1, got %d", op, param, n)
	}
	if max > 0 && n > max {
		return New(ErrCodeInvalidParameter, "%s: parameter %q must be at most %d, got %d", op, param, max, n)
	}
	return nil
}

// ParseNumber parses a beatmap-style numeric string. Besides plain decimals
// it accepts fractions ("1/4"), mixed fractions ("1 1/2") and percentages
// ("150%"), matching the notation mappers use for beat positions.
func ParseNumber(val string) (float64, error) {
	val = strings.TrimSpace(val)
	if val == "" {
		return 0, New(ErrCodeInvalidInput, "value empty")
	}
	if num, denom, ok := strings.Cut(val, "/"); ok {
		d, err := strconv.ParseFloat(strings.TrimSpace(denom), 64)
		if err != nil || d == 0 {
			return 0, New(ErrCodeInvalidInput, "invalid denominator in %q", val)
		}
		if integer, frac, mixed := strings.Cut(strings.TrimSpace(num), " "); mixed {
			// mixed fraction, e.g. "1 1/2" -> 1.5
			i, err := strconv.ParseFloat(integer, 64)
			if err != nil {
				return 0, New(ErrCodeInvalidInput, "invalid integer part in %q", val)
			}
			n, err := strconv.ParseFloat(strings.TrimSpace(frac), 64)
			if err != nil {
				return 0, New(ErrCodeInvalidInput, "invalid fraction part in %q", val)
			}
			sign := 1.0
			if math.Signbit(i) {
				sign = -1
			}
			return i + sign*(n/d), nil
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
		if err != nil {
			return 0, New(ErrCodeInvalidInput, "invalid numerator in %q", val)
		}
		return n / d, nil
	}
	if pct, ok := strings.CutSuffix(val, "%"); ok {
		v, err := strconv.ParseFloat(pct, 64)
		if err != nil {
			return 0, New(ErrCodeInvalidInput, "invalid percentage %q", val)
		}
		return v / 100, nil
	}
	v, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, New(ErrCodeInvalidInput, "invalid number %q", val)
	}
	return v, nil
}

// ParseVector parses an "x,y,t" triple using ParseNumber for each component.
func ParseVector(val string) (x, y, t float64, err error) {
	parts := strings.Split(val, ",")
	if len(parts) != 3 {
		return 0, 0, 0, New(ErrCodeInvalidInput, "must be in the form x,y,t: %q", val)
	}
	if x, err = ParseNumber(parts[0]); err != nil {
		return 0, 0, 0, Wrap(ErrCodeInvalidInput, err, "error parsing x")
	}
	if y, err = ParseNumber(parts[1]); err != nil {
		return 0, 0, 0, Wrap(ErrCodeInvalidInput, err, "error parsing y")
	}
	if t, err = ParseNumber(parts[2]); err != nil {
		return 0, 0, 0, Wrap(ErrCodeInvalidInput, err, "error parsing t")
	}
	return x, y, t, nil
}
