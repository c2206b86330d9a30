package clock

import (
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/gamifylife/internal/constants"
)

// Clock supplies the current calendar day as a YYYY-MM-DD string.
type Clock interface {
	Today() string
}

// SystemClock reads the wall clock in a fixed timezone.
type SystemClock struct {
	loc *time.Location
	now func() time.Time
}

// NewSystemClock returns a clock for the given IANA timezone ("" or "Local" for the system zone).
func NewSystemClock(timezone string) (*SystemClock, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return &SystemClock{loc: loc, now: time.Now}, nil
}

func (c *SystemClock) Today() string {
	return c.now().In(c.loc).Format(constants.DateFormat)
}

// FixedClock returns a settable day. It is safe for concurrent use.
type FixedClock struct {
	mu  sync.Mutex
	day time.Time
}

// NewFixedClock panics if day is not a valid YYYY-MM-DD string; it is meant for tests and tooling.
func NewFixedClock(day string) *FixedClock {
	t, err := ParseDay(day)
	if err != nil {
		panic(err)
	}
	return &FixedClock{day: t}
}

func (c *FixedClock) Today() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.day.Format(constants.DateFormat)
}

// Advance moves the clock forward (or backward, for negative n) by n days.
func (c *FixedClock) Advance(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.day = c.day.AddDate(0, 0, n)
}

// Set moves the clock to the given day.
func (c *FixedClock) Set(day string) error {
	t, err := ParseDay(day)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.day = t
	c.mu.Unlock()
	return nil
}

// ParseDay parses a YYYY-MM-DD string as midnight UTC.
func ParseDay(day string) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, day)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", day, err)
	}
	return t, nil
}

// DaysBetween returns the absolute number of whole calendar days between two day strings.
func DaysBetween(from, to string) (int, error) {
	a, err := ParseDay(from)
	if err != nil {
		return 0, err
	}
	b, err := ParseDay(to)
	if err != nil {
		return 0, err
	}
	diff := b.Sub(a)
	if diff < 0 {
		diff = -diff
	}
	return int(diff.Hours() / 24), nil
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}
