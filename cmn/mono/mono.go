// Package mono provides a monotonic clock reading for measuring elapsed
// time without being perturbed by wall-clock adjustments. No other
// package in this module imports it.
package mono

import "time"

var start = time.Now()

// NanoTime returns nanoseconds elapsed since package init, monotonic.
func NanoTime() int64 { return int64(time.Since(start)) }
