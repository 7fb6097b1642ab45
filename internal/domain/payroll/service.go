package payroll

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"cnct/internal/domain/sales"

	"github.com/shopspring/decimal"
)

type Service struct {
	Store    sales.StoreAPI
	Schedule Schedule
	Now      func() time.Time
}

func NewService(store sales.StoreAPI, schedule Schedule) *Service {
	return &Service{Store: store, Schedule: schedule, Now: time.Now}
}

// ListPeriods returns the first count periods with their status at now. A
// non-positive count lists every period through the one containing now.
func (s *Service) ListPeriods(now time.Time, count int) ([]PeriodWithStatus, error) {
	var (
		periods []Period
		err     error
	)
	if count > 0 {
		periods, err = s.Schedule.Periods(count)
	} else {
		periods, err = s.Schedule.PeriodsThrough(now)
	}
	if err != nil {
		return nil, err
	}
	out := make([]PeriodWithStatus, 0, len(periods))
	for _, p := range periods {
		out = append(out, PeriodWithStatus{Period: p, Status: Status(p, now)})
	}
	return out, nil
}

// Summary aggregates every stored entry over the periods from the anchor
// through the later of now and the newest entry, capped at MaxPeriods.
// Entries dated past the last generated period are reported as unassigned.
func (s *Service) Summary(ctx context.Context, now time.Time) (Result, error) {
	entries, err := s.Store.ListAll(ctx)
	if err != nil {
		return Result{}, err
	}
	last := Day(now)
	for _, e := range entries {
		if e.Date.After(last) {
			last = e.Date
		}
	}
	periods, err := s.Schedule.PeriodsThrough(last)
	if err != nil {
		return Result{}, err
	}
	return Aggregate(entries, periods, now), nil
}

// SetGroupPercentage overwrites the pay percentage of every entry of
// chatterName dated within the period starting on periodStart, then returns
// the re-aggregated period group.
func (s *Service) SetGroupPercentage(ctx context.Context, periodStart time.Time, chatterName string, pct decimal.Decimal) (PeriodGroup, error) {
	if pct.IsNegative() {
		return PeriodGroup{}, &sales.ValidationError{Issues: []sales.FieldIssue{{Field: "percentage", Reason: "must not be negative"}}}
	}
	period, err := s.Schedule.PeriodStarting(periodStart)
	if err != nil {
		return PeriodGroup{}, err
	}

	entries, err := s.Store.ListAll(ctx)
	if err != nil {
		return PeriodGroup{}, err
	}
	var ids []string
	for _, e := range entries {
		if e.ChatterName == chatterName && period.Contains(e.Date) {
			ids = append(ids, e.ID)
		}
	}
	if len(ids) == 0 {
		return PeriodGroup{}, ErrNoEntries
	}

	if err := s.applyPercentage(ctx, ids, pct); err != nil {
		return PeriodGroup{}, err
	}
	slog.InfoContext(ctx, "pay percentage updated",
		"periodStart", period.Start.Format(sales.DateLayout),
		"chatter", chatterName,
		"percentage", pct.String(),
		"entries", len(ids))

	return s.PeriodGroup(ctx, period.Start)
}

func (s *Service) applyPercentage(ctx context.Context, ids []string, pct decimal.Decimal) error {
	if batch, ok := s.Store.(sales.BatchPercentageUpdater); ok {
		return batch.UpdatePercentages(ctx, ids, pct)
	}
	partial := &PartialUpdateError{Updated: []string{}, Failed: map[string]error{}}
	for _, id := range ids {
		if err := s.Store.UpdatePercentage(ctx, id, pct); err != nil {
			slog.WarnContext(ctx, "pay percentage update failed", "id", id, "err", err)
			partial.Failed[id] = err
			continue
		}
		partial.Updated = append(partial.Updated, id)
	}
	if len(partial.Failed) > 0 {
		return partial
	}
	return nil
}

// PeriodGroup aggregates the single period starting on start.
func (s *Service) PeriodGroup(ctx context.Context, start time.Time) (PeriodGroup, error) {
	period, err := s.Schedule.PeriodStarting(start)
	if err != nil {
		return PeriodGroup{}, err
	}
	entries, err := s.Store.ListAll(ctx)
	if err != nil {
		return PeriodGroup{}, err
	}
	res := Aggregate(entries, []Period{period}, s.CurrentTime())
	if len(res.Groups) != 1 {
		return PeriodGroup{}, errors.New("aggregate returned no group")
	}
	return res.Groups[0], nil
}

func (s *Service) CurrentTime() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
