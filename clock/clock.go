// Package clock isolates wall-clock arithmetic so token and cache expiry
// logic can be tested against a fixed time source.
package clock

import "time"

// Clock is the time source injected into every component that does expiry
// arithmetic.
type Clock interface {
	// Now returns the current time in UTC.
	Now() time.Time
	// Add returns now plus d.
	Add(d time.Duration) time.Time
	// IsBefore reports whether t is earlier than now, i.e. already expired.
	IsBefore(t time.Time) bool
	// SecondsUntil returns the whole seconds from now until t. Negative if
	// t is in the past.
	SecondsUntil(t time.Time) int64
}

type systemClock struct{}

// New returns a Clock backed by the system time.
func New() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

func (c systemClock) Add(d time.Duration) time.Time {
	return c.Now().Add(d)
}

func (c systemClock) IsBefore(t time.Time) bool {
	return t.Before(c.Now())
}

func (c systemClock) SecondsUntil(t time.Time) int64 {
	return int64(t.Sub(c.Now()).Seconds())
}

// Fixed is a Clock pinned to a settable instant, for tests.
type Fixed struct {
	Current time.Time
}

func (f *Fixed) Now() time.Time {
	return f.Current
}

func (f *Fixed) Add(d time.Duration) time.Time {
	return f.Current.Add(d)
}

func (f *Fixed) IsBefore(t time.Time) bool {
	return t.Before(f.Current)
}

func (f *Fixed) SecondsUntil(t time.Time) int64 {
	return int64(t.Sub(f.Current).Seconds())
}

// Advance moves the fixed clock forward by d.
func (f *Fixed) Advance(d time.Duration) {
	f.Current = f.Current.Add(d)
}
