package calendar

import (
	"fmt"
	"time"

	"github.com/fastygo/taskboard/domain"
)

// MonthLayout is the YYYY-MM form accepted on the command line and the view server.
const MonthLayout = "2006-01"

// NextMonth returns the first day of the following month.
func NextMonth(t time.Time) time.Time {
	return FirstOfMonth(t).AddDate(0, 1, 0)
}

func PrevMonth(t time.Time) time.Time {
	return FirstOfMonth(t).AddDate(0, -1, 0)
}

// ParseMonth reads YYYY-MM in loc. An empty value selects now's month.
func ParseMonth(value string, now time.Time, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	if value == "" {
		return FirstOfMonth(now.In(loc)), nil
	}
	t, err := time.ParseInLocation(MonthLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q, expected YYYY-MM", value)
	}
	return t, nil
}

// ParseDay reads YYYY-MM-DD in loc.
func ParseDay(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(domain.DateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return t, nil
}
