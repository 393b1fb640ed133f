package cache

import "errors"

var (
	ErrInvalidCapacity = errors.New("cache: capacity must be positive")
	ErrUnknownPolicy   = errors.New("cache: unknown eviction policy")
)
