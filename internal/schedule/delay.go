package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidInput is returned for malformed or out-of-range delay arguments.
// Callers get it synchronously, before anything is scheduled.
var ErrInvalidInput = fmt.Errorf("invalid schedule input")

// FromMinutes converts a relative minute offset into a countdown duration
// and a human-readable HH:MM label of the fire time.
func FromMinutes(minutes int) (time.Duration, string, error) {
	return fromMinutesAt(minutes, time.Now())
}

func fromMinutesAt(minutes int, now time.Time) (time.Duration, string, error) {
	if minutes < 0 {
		return 0, "", fmt.Errorf("%w: minutes must be >= 0, got %d", ErrInvalidInput, minutes)
	}
	fireAt := now.Add(time.Duration(minutes) * time.Minute)
	return fireAt.Sub(now), fireAt.Format("15:04"), nil
}

// FromClockTime converts a "HH:MM" 24h string into a countdown until today
// at that time. A time that has already passed rolls to the same time
// tomorrow, so the result is never negative.
func FromClockTime(hhmm string) (time.Duration, string, error) {
	return fromClockTimeAt(hhmm, time.Now())
}

func fromClockTimeAt(hhmm string, now time.Time) (time.Duration, string, error) {
	hour, minute, err := parseClock(hhmm)
	if err != nil {
		return 0, "", err
	}
	fireAt := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !fireAt.After(now) {
		fireAt = fireAt.AddDate(0, 0, 1)
	}
	return fireAt.Sub(now), fireAt.Format("15:04"), nil
}

// ToMonthDayTime converts a (year, month, day, HH:MM) tuple into a countdown
// until that instant and a "YYYY-MM-DD HH:MM" label. The day must exist in
// the given month and the instant must be strictly in the future.
func ToMonthDayTime(year, month, day int, hhmm string) (time.Duration, string, error) {
	return toMonthDayTimeAt(year, month, day, hhmm, time.Now())
}

func toMonthDayTimeAt(year, month, day int, hhmm string, now time.Time) (time.Duration, string, error) {
	if month < 1 || month > 12 {
		return 0, "", fmt.Errorf("%w: month must be 1-12, got %d", ErrInvalidInput, month)
	}
	if day < 1 || day > daysInMonth(year, month) {
		return 0, "", fmt.Errorf("%w: day %d does not exist in %04d-%02d", ErrInvalidInput, day, year, month)
	}
	hour, minute, err := parseClock(hhmm)
	if err != nil {
		return 0, "", err
	}
	fireAt := time.Date(year, time.Month(month), day, hour, minute, 0, 0, now.Location())
	if !fireAt.After(now) {
		return 0, "", fmt.Errorf("%w: %s is not in the future", ErrInvalidInput, fireAt.Format("2006-01-02 15:04"))
	}
	return fireAt.Sub(now), fireAt.Format("2006-01-02 15:04"), nil
}

func parseClock(hhmm string) (hour, minute int, err error) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: time must be HH:MM, got %q", ErrInvalidInput, hhmm)
	}
	hour, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	minute, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return 0, 0, fmt.Errorf("%w: time must be HH:MM, got %q", ErrInvalidInput, hhmm)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q is not a valid 24h time", ErrInvalidInput, hhmm)
	}
	return hour, minute, nil
}

func daysInMonth(year, month int) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
