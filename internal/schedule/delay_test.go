package schedule

import (
	"errors"
	"testing"
	"time"
)

func TestFromMinutes(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 30, 0, 0, time.Local)

	tests := []struct {
		minutes   int
		wantDelay time.Duration
		wantLabel string
	}{
		{0, 0, "14:30"},
		{1, time.Minute, "14:31"},
		{90, 90 * time.Minute, "16:00"},
	}

	for _, tt := range tests {
		delay, label, err := fromMinutesAt(tt.minutes, now)
		if err != nil {
			t.Fatalf("fromMinutesAt(%d): %v", tt.minutes, err)
		}
		if delay != tt.wantDelay {
			t.Errorf("fromMinutesAt(%d) delay = %v, want %v", tt.minutes, delay, tt.wantDelay)
		}
		if label != tt.wantLabel {
			t.Errorf("fromMinutesAt(%d) label = %q, want %q", tt.minutes, label, tt.wantLabel)
		}
	}
}

func TestFromMinutesNegative(t *testing.T) {
	_, _, err := FromMinutes(-1)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("FromMinutes(-1) err = %v, want ErrInvalidInput", err)
	}
}

func TestFromClockTimeFuture(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	delay, label, err := fromClockTimeAt("10:30", now)
	if err != nil {
		t.Fatal(err)
	}
	if delay != 90*time.Minute {
		t.Errorf("delay = %v, want 90m", delay)
	}
	if label != "10:30" {
		t.Errorf("label = %q, want 10:30", label)
	}
}

func TestFromClockTimePastRollsToTomorrow(t *testing.T) {
	now := time.Date(2026, 3, 10, 23, 0, 0, 0, time.Local)
	delay, _, err := fromClockTimeAt("08:00", now)
	if err != nil {
		t.Fatal(err)
	}
	if delay <= 0 {
		t.Fatalf("delay = %v, want positive", delay)
	}
	if delay != 9*time.Hour {
		t.Errorf("delay = %v, want 9h (tomorrow 08:00)", delay)
	}
}

func TestFromClockTimeInvalid(t *testing.T) {
	for _, hhmm := range []string{"", "8", "8am", "24:00", "12:60", "-1:00", "aa:bb"} {
		if _, _, err := FromClockTime(hhmm); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("FromClockTime(%q) err = %v, want ErrInvalidInput", hhmm, err)
		}
	}
}

func TestToMonthDayTime(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	delay, label, err := toMonthDayTimeAt(2026, 3, 11, "09:00", now)
	if err != nil {
		t.Fatal(err)
	}
	if delay != 24*time.Hour {
		t.Errorf("delay = %v, want 24h", delay)
	}
	if label != "2026-03-11 09:00" {
		t.Errorf("label = %q", label)
	}
}

func TestToMonthDayTimeRejectsBadDay(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)

	// September has 30 days.
	if _, _, err := toMonthDayTimeAt(2026, 9, 31, "09:00", now); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("day 31 in September: err = %v, want ErrInvalidInput", err)
	}
	// 2026 is not a leap year.
	if _, _, err := toMonthDayTimeAt(2026, 2, 29, "09:00", now); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Feb 29 2026: err = %v, want ErrInvalidInput", err)
	}
	// 2028 is.
	if _, _, err := toMonthDayTimeAt(2028, 2, 29, "09:00", now); err != nil {
		t.Errorf("Feb 29 2028: unexpected err %v", err)
	}
}

func TestToMonthDayTimeRejectsPast(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	if _, _, err := toMonthDayTimeAt(2026, 3, 9, "09:00", now); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("past date: err = %v, want ErrInvalidInput", err)
	}
	if _, _, err := toMonthDayTimeAt(2026, 3, 10, "09:00", now); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("exact now: err = %v, want ErrInvalidInput", err)
	}
}
