package retry

import "time"

// Backoff returns the delay before the given attempt. The delay doubles with
// each attempt (base * 2^attempt) and is clamped to max when max is positive.
func Backoff(attempt int, base, max time.Duration) time.Duration {
	d := base << attempt
	if max > 0 && d > max {
		return max
	}
	return d
}
