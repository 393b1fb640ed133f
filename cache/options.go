package cache

import (
	"math/rand/v2"

	"go.uber.org/zap"
)

type options struct {
	logger *zap.SugaredLogger
	rng    *rand.Rand
}

// Option configures a Cache at construction.
type Option func(*options)

// WithLogger sets the logger used for eviction and rejection events.
// The default discards everything.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithRand sets the randomness source of the RandomReplacement policy.
// Other policies ignore it.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) {
		if rng != nil {
			o.rng = rng
		}
	}
}

func defaultOptions() options {
	return options{
		logger: zap.NewNop().Sugar(),
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}
