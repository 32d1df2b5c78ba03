package clock

import "time"

func Now() time.Time {
	return time.Now().UTC()
}

// Clock is injected wherever a timestamp ends up in stored state.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return Now()
}

// Fixed always returns the same instant.
type Fixed time.Time

func (f Fixed) Now() time.Time {
	return time.Time(f)
}
