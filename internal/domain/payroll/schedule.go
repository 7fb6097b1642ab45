package payroll

import (
	"fmt"
	"time"
)

// Schedule generates contiguous fixed-length pay periods from an anchor date.
type Schedule struct {
	Anchor            time.Time
	LengthDays        int
	InvoiceOffsetDays int
	PayOffsetDays     int
}

func NewSchedule(anchor time.Time, lengthDays, invoiceOffsetDays, payOffsetDays int) (Schedule, error) {
	s := Schedule{
		Anchor:            Day(anchor),
		LengthDays:        lengthDays,
		InvoiceOffsetDays: invoiceOffsetDays,
		PayOffsetDays:     payOffsetDays,
	}
	if err := s.Validate(); err != nil {
		return Schedule{}, err
	}
	return s, nil
}

func (s Schedule) Validate() error {
	if s.Anchor.IsZero() {
		return fmt.Errorf("%w: anchor date is required", ErrInvalidSchedule)
	}
	if s.LengthDays < 1 {
		return fmt.Errorf("%w: period length must be at least one day", ErrInvalidSchedule)
	}
	if s.InvoiceOffsetDays < 0 || s.PayOffsetDays < 0 {
		return fmt.Errorf("%w: date offsets must not be negative", ErrInvalidSchedule)
	}
	return nil
}

// Period returns the i-th period counted from the anchor.
func (s Schedule) Period(i int) Period {
	start := s.Anchor.AddDate(0, 0, i*s.LengthDays)
	end := start.AddDate(0, 0, s.LengthDays-1)
	return Period{
		Start:          start,
		End:            end,
		InvoiceDate:    end.AddDate(0, 0, s.InvoiceOffsetDays),
		ChatterPayDate: end.AddDate(0, 0, s.PayOffsetDays),
	}
}

// Periods returns the first n periods in order.
func (s Schedule) Periods(n int) ([]Period, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: negative period count", ErrInvalidSchedule)
	}
	if n > MaxPeriods {
		return nil, fmt.Errorf("%w: at most %d periods can be generated", ErrInvalidSchedule, MaxPeriods)
	}
	out := make([]Period, n)
	for i := range out {
		out[i] = s.Period(i)
	}
	return out, nil
}

// PeriodsThrough returns every period from the anchor up to and including
// the one containing last, capped at MaxPeriods. At least one period is
// always returned.
func (s Schedule) PeriodsThrough(last time.Time) ([]Period, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	n := min(max(s.IndexOf(last)+1, 1), MaxPeriods)
	return s.Periods(n)
}

// IndexOf returns the index of the period containing day, or -1 when day is
// before the anchor.
func (s Schedule) IndexOf(day time.Time) int {
	days := daysBetween(s.Anchor, Day(day))
	if days < 0 {
		return -1
	}
	return days / s.LengthDays
}

// PeriodStarting returns the period whose first day is start.
func (s Schedule) PeriodStarting(start time.Time) (Period, error) {
	if err := s.Validate(); err != nil {
		return Period{}, err
	}
	start = Day(start)
	days := daysBetween(s.Anchor, start)
	if days < 0 || days%s.LengthDays != 0 {
		return Period{}, ErrPeriodNotFound
	}
	return s.Period(days / s.LengthDays), nil
}

// Day truncates t to midnight UTC of its own calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts calendar days; time.Duration saturates past ~292 years.
func daysBetween(from, to time.Time) int {
	return int((Day(to).Unix() - Day(from).Unix()) / secondsPerDay)
}
