package store

// appendBounded appends v to s, evicting the oldest entry once the
// window capacity is reached. The returned slice is always at most max
// long; entries stay in chronological order.
func appendBounded[T any](s []T, v T, max int) []T {
	s = append(s, v)
	if max > 0 && len(s) > max {
		s = s[len(s)-max:]
	}
	return s
}

// newestFirst returns up to limit entries from the tail of a
// chronological slice, newest first. The result is a copy.
func newestFirst[T any](s []T, limit int) []T {
	if limit <= 0 || limit > len(s) {
		limit = len(s)
	}
	out := make([]T, 0, limit)
	for i := len(s) - 1; i >= len(s)-limit; i-- {
		out = append(out, s[i])
	}
	return out
}
