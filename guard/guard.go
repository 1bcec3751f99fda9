// Package guard provides argument precondition checks shared across the
// library. Every check returns nil when the precondition holds and an
// error naming the offending parameter when it does not.
package guard

import (
	"cmp"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Error kinds; returned errors wrap exactly one of these.
var (
	ErrArgumentNull        = errors.New("argument is nil")
	ErrArgumentOutOfRange  = errors.New("argument out of range")
	ErrDestinationTooShort = errors.New("destination is too short")
	ErrConditionFalse      = errors.New("condition failed")
)

// NotNull fails when value is nil, including typed nil pointers, slices,
// maps, channels and funcs hiding inside a non-nil interface.
func NotNull(value any, parameterName string) error {
	if value == nil {
		return fmt.Errorf("%w: %s", ErrArgumentNull, parameterName)
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		if rv.IsNil() {
			return fmt.Errorf("%w: %s", ErrArgumentNull, parameterName)
		}
	}
	return nil
}

// NotNullOrWhiteSpace fails when value is empty or consists only of
// whitespace.
func NotNullOrWhiteSpace(value, parameterName string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s must not be empty or whitespace", ErrArgumentNull, parameterName)
	}
	return nil
}

// MustBeLessThan fails unless value < max.
func MustBeLessThan[T cmp.Ordered](value, max T, parameterName string) error {
	if value >= max {
		return fmt.Errorf("%w: %s (%v) must be less than %v", ErrArgumentOutOfRange, parameterName, value, max)
	}
	return nil
}

// MustBeLessThanOrEqualTo fails unless value <= max.
func MustBeLessThanOrEqualTo[T cmp.Ordered](value, max T, parameterName string) error {
	if value > max {
		return fmt.Errorf("%w: %s (%v) must be less than or equal to %v", ErrArgumentOutOfRange, parameterName, value, max)
	}
	return nil
}

// MustBeGreaterThan fails unless value > min.
func MustBeGreaterThan[T cmp.Ordered](value, min T, parameterName string) error {
	if value <= min {
		return fmt.Errorf("%w: %s (%v) must be greater than %v", ErrArgumentOutOfRange, parameterName, value, min)
	}
	return nil
}

// MustBeGreaterThanOrEqualTo fails unless value >= min.
func MustBeGreaterThanOrEqualTo[T cmp.Ordered](value, min T, parameterName string) error {
	if value < min {
		return fmt.Errorf("%w: %s (%v) must be greater than or equal to %v", ErrArgumentOutOfRange, parameterName, value, min)
	}
	return nil
}

// MustBeBetweenOrEqualTo fails unless min <= value <= max.
func MustBeBetweenOrEqualTo[T cmp.Ordered](value, min, max T, parameterName string) error {
	if value < min || value > max {
		return fmt.Errorf("%w: %s (%v) must be between %v and %v inclusive", ErrArgumentOutOfRange, parameterName, value, min, max)
	}
	return nil
}

// IsTrue fails with message unless condition is true.
func IsTrue(condition bool, parameterName, message string) error {
	if !condition {
		return fmt.Errorf("%w: %s: %s", ErrConditionFalse, parameterName, message)
	}
	return nil
}

// IsFalse fails with message unless condition is false.
func IsFalse(condition bool, parameterName, message string) error {
	if condition {
		return fmt.Errorf("%w: %s: %s", ErrConditionFalse, parameterName, message)
	}
	return nil
}

// DestinationShouldNotBeTooShort fails when destination holds fewer than
// minLength elements.
func DestinationShouldNotBeTooShort[T any](destination []T, minLength int, parameterName string) error {
	if len(destination) < minLength {
		return fmt.Errorf("%w: %s holds %d elements, need %d", ErrDestinationTooShort, parameterName, len(destination), minLength)
	}
	return nil
}
