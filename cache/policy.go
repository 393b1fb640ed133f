package cache

import (
	"fmt"
	"strings"
)

// Policy decides which entry is discarded when a full cache receives a new key.
type Policy int

const (
	// FIFO evicts the longest-resident entry.
	FIFO Policy = iota
	// LIFO evicts the most recently inserted entry.
	LIFO
	// RandomReplacement evicts a uniformly random entry.
	RandomReplacement
)

func (p Policy) String() string {
	switch p {
	case FIFO:
		return "fifo"
	case LIFO:
		return "lifo"
	case RandomReplacement:
		return "rr"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy maps a policy name (fifo, lifo, rr or random) to a Policy.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "fifo":
		return FIFO, nil
	case "lifo":
		return LIFO, nil
	case "rr", "random":
		return RandomReplacement, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}
