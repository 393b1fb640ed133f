package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/evanjt06/evictcache/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

const scenarioTrace = `{"op":"set","key":"1","value":"one"}
{"op":"set","key":"2","value":"two"}
{"op":"set","key":"3","value":"three"}
{"op":"set","key":"4","value":"four"}
{"op":"get","key":"1"}
{"op":"get","key":"2"}
{"op":"get","key":"3"}
{"op":"get","key":"4"}
`

func runWith(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunFIFOScenario(t *testing.T) {
	code, out, _ := runWith(t, scenarioTrace, "-policy", "fifo", "-trace", "-")
	require.Equal(t, 0, code)

	assert.Contains(t, out, "get 1: miss\n")
	assert.Contains(t, out, "get 2: hit two\n")
	assert.Contains(t, out, "get 3: hit three\n")
	assert.Contains(t, out, "get 4: hit four\n")
	assert.Contains(t, out, "evicted: [1]\n")
}

func TestRunLIFOScenario(t *testing.T) {
	code, out, _ := runWith(t, scenarioTrace, "-policy", "lifo", "-trace", "-")
	require.Equal(t, 0, code)

	assert.Contains(t, out, "get 3: miss\n")
	assert.Contains(t, out, "get 2: hit two\n")
	assert.Contains(t, out, "evicted: [3]\n")
	assert.True(t, strings.HasSuffix(out, "Key: 1, Value: one\nKey: 2, Value: two\nKey: 4, Value: four\n"))
}

func TestRunRandomScenarioFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(scenarioTrace), 0o644))

	code, out, _ := runWith(t, "", "-policy", "rr", "-seed", "99", "-trace", path)
	require.Equal(t, 0, code)

	assert.Equal(t, 1, strings.Count(out, ": miss\n"))
	assert.Contains(t, out, "get 4: hit four\n")
}

func TestRunGenerate(t *testing.T) {
	code, out, _ := runWith(t, "", "-capacity", "2", "-generate", "5")
	require.Equal(t, 0, code)

	assert.Equal(t, 3, strings.Count(out, ": miss\n"))
	assert.Equal(t, 2, strings.Count(out, ": hit "))
	assert.Equal(t, 2, strings.Count(out, "Key: "))
}

func TestRunSkipsMalformedLines(t *testing.T) {
	trace := "{\"op\":\"set\",\"key\":\"a\",\"value\":\"1\"}\nnot json\n{\"op\":\"del\",\"key\":\"a\"}\n{\"op\":\"get\",\"key\":\"a\"}\n"
	code, out, logs := runWith(t, trace, "-trace", "-")
	require.Equal(t, 0, code)

	assert.Contains(t, out, "get a: hit 1\n")
	assert.Equal(t, 2, strings.Count(logs, "Skipped trace line"))
}

func TestRunRejectsBadFlags(t *testing.T) {
	code, _, errs := runWith(t, "", "-capacity", "0", "-policy", "lru")
	assert.Equal(t, 2, code)
	assert.Contains(t, errs, "-capacity must be positive")
	assert.Contains(t, errs, "unknown eviction policy")
	assert.Contains(t, errs, "one of -trace or -generate is required")
}

func TestParseFlagsKeepsPolicy(t *testing.T) {
	var stderr bytes.Buffer
	opts, err := parseFlags([]string{"-policy", "RR", "-generate", "3"}, &stderr)
	require.NoError(t, err)
	assert.Equal(t, cache.RandomReplacement, opts.policy)

	opts, err = parseFlags([]string{"-generate", "3"}, &stderr)
	require.NoError(t, err)
	assert.Equal(t, cache.FIFO, opts.policy)

	_, err = parseFlags([]string{"-policy", "mru", "-generate", "3"}, &stderr)
	require.ErrorIs(t, err, cache.ErrUnknownPolicy)
}

func TestRunMissingTraceFile(t *testing.T) {
	code, _, logs := runWith(t, "", "-trace", filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.Equal(t, 1, code)
	assert.Contains(t, logs, "Failed to open trace")
}

func TestReadTrace(t *testing.T) {
	ops, skipped, err := readTrace(strings.NewReader("\n{\"op\":\"get\",\"key\":\"x\"}\n{bad\n{\"op\":\"put\"}\n"))
	require.NoError(t, err)
	require.Equal(t, []Op{{Op: opGet, Key: "x"}}, ops)

	errs := multierr.Errors(skipped)
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Error(), "line 3")
	assert.Contains(t, errs[1].Error(), `line 4: unknown op "put"`)
}

func TestGenerateWorkloadKeysAreDistinct(t *testing.T) {
	ops := generateWorkload(50)
	require.Len(t, ops, 100)

	seen := make(map[string]bool)
	for _, op := range ops[:50] {
		assert.Equal(t, opSet, op.Op)
		assert.False(t, seen[op.Key], "duplicate key %s", op.Key)
		seen[op.Key] = true
	}
	for _, op := range ops[50:] {
		assert.Equal(t, opGet, op.Op)
		assert.True(t, seen[op.Key])
	}
}

func TestReplay(t *testing.T) {
	c, err := cache.New[string, string](1, cache.FIFO)
	require.NoError(t, err)

	var out bytes.Buffer
	replay(c, []Op{
		{Op: opSet, Key: "a", Value: "1"},
		{Op: opSet, Key: "b", Value: "2"},
		{Op: opGet, Key: "a"},
		{Op: opGet, Key: "b"},
	}, &out)

	assert.Equal(t, "get a: miss\nget b: hit 2\n", out.String())
}
