// Package clock abstracts the wall clock so output timestamps can be pinned
// in tests. The selection engine never reads the clock; only the CLI stamps
// its JSON envelopes and session summaries with it.
package clock

import "time"

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system time.
type RealClock struct{}

// Now returns the current system time in UTC.
func (RealClock) Now() time.Time {
	return time.Now().UTC()
}

// Fixed is a Clock that always reports the same instant.
type Fixed time.Time

// Now returns the fixed instant.
func (f Fixed) Now() time.Time {
	return time.Time(f)
}

// Ensure both clocks implement Clock.
var (
	_ Clock = RealClock{}
	_ Clock = Fixed{}
)
