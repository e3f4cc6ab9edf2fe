package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"shule_ride/internal/models"
)

// MaxBookingSpanDays caps how far a single booking may stretch.
const MaxBookingSpanDays = 180

// DateOnly truncates a timestamp to its calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ISOWeekday returns the ISO weekday number for t (Mon=1 .. Sun=7).
func ISOWeekday(t time.Time) int {
	if wd := int(t.Weekday()); wd != 0 {
		return wd
	}
	return 7
}

// ParseDaysOfWeek parses a comma-separated weekday string such as "1,3,5"
// into ISO weekday numbers. Junk tokens, codes outside 1-7, duplicates
// and empty input are all rejected.
func ParseDaysOfWeek(s string) ([]int, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	seen := make(map[int]bool, len(parts))
	var days []int
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("%w: days_of_week contains %q", ErrValidation, p)
		}
		if n < 1 || n > 7 {
			return nil, fmt.Errorf("%w: day %d is outside 1-7", ErrValidation, n)
		}
		if seen[n] {
			return nil, fmt.Errorf("%w: duplicate day %d in days_of_week", ErrValidation, n)
		}
		seen[n] = true
		days = append(days, n)
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("%w: days_of_week must contain at least one day", ErrValidation)
	}
	return days, nil
}

// ValidateBooking checks the date window, weekday pattern and service
// type of a booking request. The caller supplies today so the clock stays
// controllable.
func ValidateBooking(startDate, endDate, today time.Time, daysOfWeek, serviceType string) error {
	start := DateOnly(startDate)
	end := DateOnly(endDate)
	if start.Before(DateOnly(today)) {
		return fmt.Errorf("%w: start_date cannot be in the past", ErrValidation)
	}
	if end.Before(start) {
		return fmt.Errorf("%w: end_date cannot be before start_date", ErrValidation)
	}
	if int(end.Sub(start).Hours()/24) > MaxBookingSpanDays {
		return fmt.Errorf("%w: booking cannot span more than %d days", ErrValidation, MaxBookingSpanDays)
	}
	if _, err := ParseDaysOfWeek(daysOfWeek); err != nil {
		return err
	}
	switch serviceType {
	case models.ServiceMorning, models.ServiceEvening, models.ServiceBoth:
	default:
		return fmt.Errorf("%w: service_type must be 'morning', 'evening' or 'both'", ErrValidation)
	}
	return nil
}
