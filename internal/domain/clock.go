package domain

import "time"

// Clock supplies wall-clock time to the engine. Production code uses
// time.Now; tests substitute a fixed or stepped clock to exercise
// expiration paths deterministically.
type Clock func() time.Time

// SystemClock is the default Clock backed by time.Now.
func SystemClock() time.Time {
	return time.Now()
}
