package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidInterval = errors.New("interval end must be after start")
	ErrInvalidClock    = errors.New("invalid clock time, expected HH:MM")
	ErrCrossesMidnight = errors.New("interval must not cross midnight")
	ErrInvalidDay      = errors.New("invalid day of week")
)

// Interval is a half-open [Start, End) span within a single day,
// expressed in minutes since midnight. Two intervals that merely
// touch (a.End == b.Start) do not overlap.
type Interval struct {
	Start int
	End   int
}

func NewInterval(start, end int) (Interval, error) {
	if start < 0 || end > 24*60 {
		return Interval{}, ErrInvalidInterval
	}
	if end <= start {
		return Interval{}, ErrInvalidInterval
	}
	return Interval{Start: start, End: end}, nil
}

// NewIntervalFromClock builds an interval from "HH:MM" (or "HH:MM:SS",
// as Postgres renders TIME columns) strings.
func NewIntervalFromClock(start, end string) (Interval, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Interval{}, err
	}
	return NewInterval(s, e)
}

// NewIntervalFromSpan builds an interval from a timestamp and a duration
// in minutes. The wall-clock position is taken in UTC, so timestamps
// carrying different offsets land on one canonical timeline. Spans that
// run past midnight are rejected so that every booking stays on one
// ledger day.
func NewIntervalFromSpan(t time.Time, minutes int) (Interval, error) {
	if minutes <= 0 {
		return Interval{}, ErrInvalidInterval
	}
	t = t.UTC()
	start := t.Hour()*60 + t.Minute()
	end := start + minutes
	if end > 24*60 {
		return Interval{}, ErrCrossesMidnight
	}
	return NewInterval(start, end)
}

func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && other.Start < i.End
}

// Contains reports whether other lies entirely within i.
func (i Interval) Contains(other Interval) bool {
	return i.Start <= other.Start && other.End <= i.End
}

func (i Interval) Minutes() int {
	return i.End - i.Start
}

// StartClock renders the start as "HH:MM" for persistence and messages.
func (i Interval) StartClock() string {
	return clock(i.Start)
}

func (i Interval) EndClock() string {
	return clock(i.End)
}

func (i Interval) String() string {
	return clock(i.Start) + "-" + clock(i.End)
}

func clock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ParseClock parses "HH:MM" or "HH:MM:SS" into minutes since midnight.
func ParseClock(s string) (int, error) {
	var h, m int
	var sec int
	switch strings.Count(s, ":") {
	case 1:
		if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
			return 0, ErrInvalidClock
		}
	case 2:
		if _, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil {
			return 0, ErrInvalidClock
		}
	default:
		return 0, ErrInvalidClock
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return 0, ErrInvalidClock
	}
	if h == 24 && (m != 0 || sec != 0) {
		return 0, ErrInvalidClock
	}
	return h*60 + m, nil
}

var days = map[string]bool{
	"monday":    true,
	"tuesday":   true,
	"wednesday": true,
	"thursday":  true,
	"friday":    true,
	"saturday":  true,
	"sunday":    true,
}

// NormalizeDay lowercases and validates a day-of-week name.
func NormalizeDay(day string) (string, error) {
	d := strings.ToLower(strings.TrimSpace(day))
	if !days[d] {
		return "", ErrInvalidDay
	}
	return d, nil
}

// Weekday returns the ledger day-of-week key for a timestamp.
func Weekday(t time.Time) string {
	return strings.ToLower(t.Weekday().String())
}
