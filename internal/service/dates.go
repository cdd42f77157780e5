package service

import (
	"errors"
	"time"
)

// dayBounds parses a YYYY-MM-DD date and returns the [00:00, 23:59:59.999999999]
// UTC window for that day. An empty string means today.
func dayBounds(date string) (time.Time, time.Time, error) {
	var day time.Time
	if date == "" {
		now := time.Now().UTC()
		day = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	} else {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		day = parsed
	}
	start := day
	end := day.Add(24*time.Hour - time.Nanosecond)
	return start, end, nil
}

// rangeBounds resolves a [from, to] pair of YYYY-MM-DD dates into a single
// window. Empty from means today; empty to means same day as from. A window
// that ends before it starts is an error.
func rangeBounds(from, to string) (time.Time, time.Time, error) {
	start, _, err := dayBounds(from)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if to == "" {
		to = from
	}
	_, end, err := dayBounds(to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, errors.New("to anterior a from")
	}
	return start, end, nil
}
