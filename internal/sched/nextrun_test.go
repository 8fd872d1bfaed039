package sched

import (
	"testing"
	"time"
)

func TestNextRunDaily(t *testing.T) {
	// Wednesday 2024-01-03.
	base := time.Date(2024, 1, 3, 13, 59, 0, 0, time.UTC)

	next, err := NextRun("14:00", base)
	if err != nil {
		t.Fatalf("NextRun failed: %v", err)
	}
	want := time.Date(2024, 1, 3, 14, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("Expected %v, got %v", want, next)
	}

	later := time.Date(2024, 1, 3, 14, 1, 0, 0, time.UTC)
	next, err = NextRun("14:00", later)
	if err != nil {
		t.Fatalf("NextRun failed: %v", err)
	}
	want = time.Date(2024, 1, 4, 14, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("Expected next day %v, got %v", want, next)
	}
}

func TestNextRunDailyExactlyNow(t *testing.T) {
	base := time.Date(2024, 1, 3, 14, 0, 0, 0, time.UTC)

	next, err := NextRun("14:00", base)
	if err != nil {
		t.Fatalf("NextRun failed: %v", err)
	}
	want := time.Date(2024, 1, 4, 14, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("Schedule at the current instant must land tomorrow; got %v", next)
	}
}

func TestNextRunWeekly(t *testing.T) {
	// Wednesday.
	base := time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC)

	next, err := NextRun("Mon 09:00", base)
	if err != nil {
		t.Fatalf("NextRun failed: %v", err)
	}
	want := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("Expected next Monday %v, got %v", want, next)
	}
	if next.Weekday() != time.Monday {
		t.Errorf("Expected a Monday, got %v", next.Weekday())
	}
}

func TestNextRunWeeklySameDay(t *testing.T) {
	// Wednesday before and after the scheduled time.
	before := time.Date(2024, 1, 3, 8, 0, 0, 0, time.UTC)
	after := time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC)

	next, err := NextRun("Wed 09:00", before)
	if err != nil {
		t.Fatalf("NextRun failed: %v", err)
	}
	if !next.Equal(time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected today, got %v", next)
	}

	next, err = NextRun("Wed 09:00", after)
	if err != nil {
		t.Fatalf("NextRun failed: %v", err)
	}
	if !next.Equal(time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected next week, got %v", next)
	}
}

func TestNextRunFullWeekdayNames(t *testing.T) {
	base := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)

	abbrev, err := NextRun("Fri 18:30", base)
	if err != nil {
		t.Fatalf("NextRun failed: %v", err)
	}
	full, err := NextRun("Friday 18:30", base)
	if err != nil {
		t.Fatalf("NextRun failed: %v", err)
	}
	if !abbrev.Equal(full) {
		t.Errorf("Abbreviated and full weekday disagree: %v vs %v", abbrev, full)
	}
}

func TestNextRunInvalid(t *testing.T) {
	base := time.Now().UTC()

	for _, schedule := range []string{"", "25:00", "12:75", "Funday 09:00", "Mon 09:00 extra", "nonsense"} {
		if _, err := NextRun(schedule, base); err == nil {
			t.Errorf("Expected error for schedule %q", schedule)
		}
	}
}
