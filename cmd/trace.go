package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/evanjt06/evictcache/cache"
	"github.com/lithammer/shortuuid/v4"
	"go.uber.org/multierr"
)

const (
	opSet = "set"
	opGet = "get"
)

// Op is one line of a workload trace.
type Op struct {
	Op    string `json:"op"`
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
}

// readTrace decodes one Op per line. Malformed lines are skipped and
// reported together in skipped; err is only set when reading fails.
func readTrace(r io.Reader) (ops []Op, skipped error, err error) {
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var op Op
		if uerr := json.Unmarshal(line, &op); uerr != nil {
			skipped = multierr.Append(skipped, fmt.Errorf("line %d: %w", lineno, uerr))
			continue
		}

		switch op.Op {
		case opSet, opGet:
			ops = append(ops, op)
		default:
			skipped = multierr.Append(skipped, fmt.Errorf("line %d: unknown op %q", lineno, op.Op))
		}
	}
	return ops, skipped, scanner.Err()
}

// generateWorkload inserts n fresh keys and then reads all of them back,
// so the reads show which keys the policy kept.
func generateWorkload(n int) []Op {
	keys := make([]string, n)
	ops := make([]Op, 0, 2*n)
	for i := range keys {
		keys[i] = shortuuid.New()
		ops = append(ops, Op{Op: opSet, Key: keys[i], Value: strconv.Itoa(i)})
	}
	for _, key := range keys {
		ops = append(ops, Op{Op: opGet, Key: key})
	}
	return ops
}

// replay applies ops to c, printing the outcome of every get and of every
// rejected set.
func replay(c *cache.Cache[string, string], ops []Op, w io.Writer) {
	for _, op := range ops {
		switch op.Op {
		case opSet:
			if !c.Set(op.Key, op.Value) {
				fmt.Fprintf(w, "set %s: rejected\n", op.Key)
			}
		case opGet:
			if v, ok := c.Get(op.Key); ok {
				fmt.Fprintf(w, "get %s: hit %s\n", op.Key, v)
			} else {
				fmt.Fprintf(w, "get %s: miss\n", op.Key)
			}
		}
	}
}
