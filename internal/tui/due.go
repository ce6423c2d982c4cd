package tui

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	errEmptyDue  = errors.New("due time is empty")
	clockPattern = regexp.MustCompile(`^(\d{1,2})[h:](\d{2})?$`)
)

// ParseDue reads a due time typed by the user, relative to now. Accepted
// forms: a wall clock time today ("18:30", "18h30", "18h"), a duration
// ("45m", "+1h", "1h30m"), a date and time ("2026-10-20 09:00") or RFC 3339.
func ParseDue(input string, now time.Time) (time.Time, error) {
	value := strings.ToLower(strings.TrimSpace(input))
	if value == "" {
		return time.Time{}, errEmptyDue
	}
	loc := now.Location()

	if m := clockPattern.FindStringSubmatch(value); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if hour > 23 || minute > 59 {
			return time.Time{}, fmt.Errorf("invalid clock time %q", input)
		}
		return time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, loc), nil
	}

	if d, err := time.ParseDuration(strings.TrimPrefix(value, "+")); err == nil {
		return now.Add(d), nil
	}

	if t, err := time.Parse(time.RFC3339, strings.ToUpper(value)); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", value, loc); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("unrecognized due time %q", input)
}
