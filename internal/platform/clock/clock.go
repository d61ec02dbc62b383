package clock

import "time"

const DateLayout = "2006-01-02"

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Fixed always reports the same instant.
type Fixed time.Time

func (f Fixed) Now() time.Time {
	return time.Time(f)
}

// Today formats the clock's current local date as YYYY-MM-DD.
func Today(c Clock) string {
	return c.Now().Local().Format(DateLayout)
}
