package log

import (
	"maps"
	"slices"
)

// Namespaces used across nsqlitec.
const (
	NsSQL   = "sql"
	NsCLI   = "cli"
	NsBench = "bench"
)

// KV is a set of key-value pairs attached to a log record.
type KV map[string]any

// kvToArgs flattens the first KV into slog arguments, ordered by key.
// Any extra KV is ignored.
func kvToArgs(keyVals ...KV) []any {
	args := []any{}
	if len(keyVals) == 0 {
		return args
	}

	kv := keyVals[0]
	for _, key := range slices.Sorted(maps.Keys(kv)) {
		args = append(args, key, kv[key])
	}

	return args
}

// kvToArgsNs works like kvToArgs but always starts with the "ns" key.
func kvToArgsNs(namespace string, keyVals ...KV) []any {
	return append([]any{"ns", namespace}, kvToArgs(keyVals...)...)
}
