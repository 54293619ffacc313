package transport

import (
	"fmt"
	"strings"
	"time"

	"github.com/fastygo/taskboard/domain"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	domain.DateLayout,
}

// ParseTime accepts the timestamp shapes the backend emits. Date-only
// values are read as midnight UTC.
func ParseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", value)
}
