package utils

import "time"

// Truncate cuts s to at most n bytes. Used to keep error-response bodies
// readable in log lines.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// SleepEvery pauses for d once per n iterations (i is zero-based). The
// store rate-limits bursts of batch writes, so pipelines pace themselves
// after a fixed number of batches.
func SleepEvery(i, n int, d time.Duration) {
	if n > 0 && i%n == n-1 {
		time.Sleep(d)
	}
}
