package parse

import (
	"fmt"
	"strings"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Date normalizes a raw date string to canonical YYYY-MM-DD form.
func Date(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", fmt.Errorf("unable to parse date %q: expected YYYY-MM-DD", raw)
	}
	return t.Format(dateLayout), nil
}

// TimeOfDay normalizes a raw time-of-day string to HH:MM precision.
// Seconds, when present, are stripped; slot times are keyed at minute
// granularity.
func TimeOfDay(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range []string{timeLayout, "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(timeLayout), nil
		}
	}
	return "", fmt.Errorf("unable to parse time %q: expected HH:MM", raw)
}
