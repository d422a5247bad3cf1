package prep

import (
	"errors"
	"fmt"
	"time"
)

// ErrBadDate signals a date string in neither supported layout.
var ErrBadDate = errors.New("prep: unparseable date")

var dateLayouts = []string{"01-02-2006", "2006-01-02"}

// ParseDate parses a date in month-day-year or ISO layout.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, s)
}

// DaysBetween returns the whole days from d1 to d2, negative when d2
// precedes d1.
func DaysBetween(d1, d2 string) (int, error) {
	t1, err := ParseDate(d1)
	if err != nil {
		return 0, err
	}
	t2, err := ParseDate(d2)
	if err != nil {
		return 0, err
	}
	return int(t2.Sub(t1).Hours() / 24), nil
}
