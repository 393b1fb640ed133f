package internal

import (
	"fmt"
	"reflect"
)

// ValidateKey rejects keys that would panic or make no sense as map keys.
// Only interface-typed K can hit either case, possibly through an
// interface nested inside an array or struct key.
func ValidateKey[K comparable](key K) error {
	v := any(key)
	if v == nil {
		return fmt.Errorf("key cannot be nil")
	}
	// checks dynamic values, not just the static type
	if !reflect.ValueOf(v).Comparable() {
		return fmt.Errorf("invalid key: %T holds a value that is not comparable", v)
	}

	return nil
}
