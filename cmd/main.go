package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	"github.com/evanjt06/evictcache/cache"
	"github.com/evanjt06/evictcache/internal"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
)

type options struct {
	capacity int
	policy   cache.Policy
	trace    string
	generate int
	seed     uint64
	verbose  bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var (
		opts       options
		policyName string
	)

	fs := flag.NewFlagSet("evictcache", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&opts.capacity, "capacity", 3, "maximum number of entries")
	fs.StringVar(&policyName, "policy", "fifo", "eviction policy: fifo, lifo or rr")
	fs.StringVar(&opts.trace, "trace", "", "JSON lines workload file, - for stdin")
	fs.IntVar(&opts.generate, "generate", 0, "replay a synthetic workload of n keys instead of a trace")
	fs.Uint64Var(&opts.seed, "seed", 0, "seed for the rr policy, 0 picks one at random")
	fs.BoolVar(&opts.verbose, "verbose", false, "log every cache operation")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	var err error
	if opts.capacity < 1 {
		err = multierr.Append(err, fmt.Errorf("-capacity must be positive, got %d", opts.capacity))
	}
	policy, perr := cache.ParsePolicy(policyName)
	if perr != nil {
		err = multierr.Append(err, perr)
	}
	opts.policy = policy
	switch {
	case opts.trace == "" && opts.generate <= 0:
		err = multierr.Append(err, errors.New("one of -trace or -generate is required"))
	case opts.trace != "" && opts.generate > 0:
		err = multierr.Append(err, errors.New("-trace and -generate are mutually exclusive"))
	}
	return opts, err
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			for _, e := range multierr.Errors(err) {
				fmt.Fprintf(stderr, "evictcache: %v\n", e)
			}
		}
		return 2
	}

	level := zapcore.InfoLevel
	if opts.verbose {
		level = zapcore.DebugLevel
	}
	logger := internal.NewLogger(zapcore.AddSync(stderr), level)
	defer logger.Sync() // flush logs

	cacheOpts := []cache.Option{cache.WithLogger(logger)}
	if opts.seed != 0 {
		cacheOpts = append(cacheOpts, cache.WithRand(rand.New(rand.NewPCG(opts.seed, opts.seed))))
	}

	c, err := cache.New[string, string](opts.capacity, opts.policy, cacheOpts...)
	if err != nil {
		logger.Errorw("Failed to create cache", "error", err)
		return 1
	}

	var evicted []string
	c.OnEvict(func(key, _ string) {
		evicted = append(evicted, key)
	})

	var ops []Op
	if opts.generate > 0 {
		ops = generateWorkload(opts.generate)
	} else {
		var r io.Reader = stdin
		if opts.trace != "-" {
			f, err := os.Open(opts.trace)
			if err != nil {
				logger.Errorw("Failed to open trace", "path", opts.trace, "error", err)
				return 1
			}
			defer f.Close()
			r = f
		}

		var skipped error
		ops, skipped, err = readTrace(r)
		if err != nil {
			logger.Errorw("Failed to read trace", "path", opts.trace, "error", err)
			return 1
		}
		for _, e := range multierr.Errors(skipped) {
			logger.Warnw("Skipped trace line", "error", e)
		}
	}

	logger.Infow("Replaying workload",
		"ops", len(ops),
		"capacity", opts.capacity,
		"policy", opts.policy,
	)
	replay(c, ops, stdout)

	fmt.Fprintf(stdout, "evicted: %v\n", evicted)
	c.Print(stdout)
	return 0
}
