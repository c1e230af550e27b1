// Package clock stamps order mutations with a local wall-clock time for display.
package clock

import "time"

const Layout = "15:04:05"

// Clock returns the current time. Tests swap it for a fixed one.
type Clock func() time.Time

func System() Clock {
	return time.Now
}

// Fixed always reports t.
func Fixed(t time.Time) Clock {
	return func() time.Time { return t }
}

// Stamp formats the current local time as HH:MM:SS.
func (c Clock) Stamp() string {
	if c == nil {
		c = time.Now
	}
	return c().Local().Format(Layout)
}
