package util

import "strings"

// MatchPrefix returns a glob for SCAN MATCH that selects exactly the keys
// starting with prefix. Glob metacharacters inside prefix are escaped.
func MatchPrefix(prefix string) string {
	var b strings.Builder
	b.Grow(len(prefix) + 2)
	for i := 0; i < len(prefix); i++ {
		switch c := prefix[i]; c {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('*')
	return b.String()
}

// Chunk splits keys into consecutive slices of at most n elements.
// The returned slices share the backing array of keys.
func Chunk(keys []string, n int) [][]string {
	if n <= 0 {
		n = len(keys)
	}
	if len(keys) == 0 {
		return nil
	}
	out := make([][]string, 0, (len(keys)+n-1)/n)
	for len(keys) > n {
		out = append(out, keys[:n:n])
		keys = keys[n:]
	}
	return append(out, keys)
}
