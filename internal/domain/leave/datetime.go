package leave

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	minutesPerDay = 24 * 60
)

// PartOfDayConfig holds the fixed start times used for half-day requests that
// Sage reports without explicit times.
type PartOfDayConfig struct {
	FirstPartStart  string
	SecondPartStart string
	DefaultHours    decimal.Decimal
}

func DefaultPartOfDayConfig() PartOfDayConfig {
	return PartOfDayConfig{
		FirstPartStart:  "09:00",
		SecondPartStart: "14:00",
		DefaultHours:    decimal.NewFromInt(4),
	}
}

// ApplyPartOfDay fills the missing times of first/second part-of-day
// requests. StartTime defaults to the configured part start when Sage sent
// none. EndTime is StartTime plus Hours, or plus cfg.DefaultHours when Hours
// is null.
func ApplyPartOfDay(lr *LeaveRequest, cfg PartOfDayConfig) error {
	if lr.HasTimes() {
		return nil
	}

	start := lr.StartTime
	switch {
	case !lr.FirstPartOfDay && !lr.SecondPartOfDay:
		return nil
	case start != "":
	case lr.FirstPartOfDay:
		start = cfg.FirstPartStart
	default:
		start = cfg.SecondPartStart
	}

	hours := cfg.DefaultHours
	if lr.Hours.Valid {
		hours = lr.Hours.Decimal
	}

	end, err := AddHours(start, hours)
	if err != nil {
		return fmt.Errorf("leave request %d: %w", lr.ID, err)
	}

	lr.StartTime = start
	lr.EndTime = end
	return nil
}

// AddHours adds a possibly fractional number of hours to an "HH:MM" time of
// day, wrapping at midnight. Fractions are rounded to the nearest minute.
func AddHours(hhmm string, hours decimal.Decimal) (string, error) {
	t, err := time.Parse(TimeLayout, hhmm)
	if err != nil {
		return "", fmt.Errorf("invalid time of day %q: %w", hhmm, err)
	}

	minutes := hours.Mul(decimal.NewFromInt(60)).Round(0).IntPart()
	total := (int64(t.Hour()*60+t.Minute()) + minutes) % minutesPerDay
	if total < 0 {
		total += minutesPerDay
	}

	return fmt.Sprintf("%02d:%02d", total/60, total%60), nil
}

// DateTimes returns the absolute start and end of a leave request in loc.
// Whole-day requests resolve to midnight of their start and end dates.
func DateTimes(lr LeaveRequest, loc *time.Location) (start, end time.Time, err error) {
	if lr.HasTimes() {
		start, err = time.ParseInLocation(DateLayout+"T"+TimeLayout, lr.StartDate+"T"+lr.StartTime, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("leave request %d start: %w", lr.ID, err)
		}
		end, err = time.ParseInLocation(DateLayout+"T"+TimeLayout, lr.EndDate+"T"+lr.EndTime, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("leave request %d end: %w", lr.ID, err)
		}
		return start, end, nil
	}

	start, err = time.ParseInLocation(DateLayout, lr.StartDate, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("leave request %d start: %w", lr.ID, err)
	}
	end, err = time.ParseInLocation(DateLayout, lr.EndDate, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("leave request %d end: %w", lr.ID, err)
	}
	return start, end, nil
}

// DateTimesEqual compares two instants down to the minute, as seen in loc.
func DateTimesEqual(a, b time.Time, loc *time.Location) bool {
	a, b = a.In(loc), b.In(loc)
	return a.Year() == b.Year() &&
		a.Month() == b.Month() &&
		a.Day() == b.Day() &&
		a.Hour() == b.Hour() &&
		a.Minute() == b.Minute()
}

// AllDayEndDate returns the exclusive end date calendars expect for an all-day
// event, i.e. the day after EndDate.
func AllDayEndDate(lr LeaveRequest) (string, error) {
	end, err := time.Parse(DateLayout, lr.EndDate)
	if err != nil {
		return "", fmt.Errorf("leave request %d end date: %w", lr.ID, err)
	}
	return end.AddDate(0, 0, 1).Format(DateLayout), nil
}
