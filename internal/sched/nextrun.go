package sched

import (
	"fmt"
	"strings"
	"time"
)

// NextRun computes the first instant strictly after now that matches the
// schedule expression. Two grammars are accepted, both UTC:
//
//	"HH:MM"           daily
//	"<Weekday> HH:MM" weekly, e.g. "Mon 09:00"
func NextRun(schedule string, now time.Time) (time.Time, error) {
	now = now.UTC()
	parts := strings.Fields(strings.TrimSpace(schedule))

	switch len(parts) {
	case 1:
		t, err := parseClock(parts[0])
		if err != nil {
			return time.Time{}, err
		}
		candidate := time.Date(now.Year(), now.Month(), now.Day(), t.hour, t.minute, 0, 0, time.UTC)
		if candidate.After(now) {
			return candidate, nil
		}
		return candidate.AddDate(0, 0, 1), nil

	case 2:
		day, err := parseWeekday(parts[0])
		if err != nil {
			return time.Time{}, err
		}
		t, err := parseClock(parts[1])
		if err != nil {
			return time.Time{}, err
		}
		daysAhead := (int(day) - int(now.Weekday()) + 7) % 7
		candidate := time.Date(now.Year(), now.Month(), now.Day(), t.hour, t.minute, 0, 0, time.UTC).
			AddDate(0, 0, daysAhead)
		if !candidate.After(now) {
			candidate = candidate.AddDate(0, 0, 7)
		}
		return candidate, nil

	default:
		return time.Time{}, fmt.Errorf("invalid schedule %q", schedule)
	}
}

type clock struct {
	hour, minute int
}

func parseClock(s string) (clock, error) {
	var c clock
	if _, err := fmt.Sscanf(s, "%d:%d", &c.hour, &c.minute); err != nil {
		return clock{}, fmt.Errorf("invalid time %q", s)
	}
	if c.hour < 0 || c.hour > 23 || c.minute < 0 || c.minute > 59 {
		return clock{}, fmt.Errorf("invalid time %q", s)
	}
	return c, nil
}

func parseWeekday(s string) (time.Weekday, error) {
	switch strings.ToLower(s) {
	case "sun", "sunday":
		return time.Sunday, nil
	case "mon", "monday":
		return time.Monday, nil
	case "tue", "tuesday":
		return time.Tuesday, nil
	case "wed", "wednesday":
		return time.Wednesday, nil
	case "thu", "thursday":
		return time.Thursday, nil
	case "fri", "friday":
		return time.Friday, nil
	case "sat", "saturday":
		return time.Saturday, nil
	}
	return 0, fmt.Errorf("invalid weekday %q", s)
}
