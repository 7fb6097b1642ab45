package payroll

import (
	"time"

	"cnct/internal/domain/sales"

	"github.com/shopspring/decimal"
)

// Status classifies a period against the calendar date of now.
func Status(p Period, now time.Time) string {
	today := Day(now)
	switch {
	case today.Before(Day(p.Start)):
		return StatusInactive
	case today.After(Day(p.End)):
		return StatusPaid
	default:
		return StatusActive
	}
}

// Contains reports whether day falls within the period, both ends inclusive.
func (p Period) Contains(day time.Time) bool {
	day = Day(day)
	return !day.Before(Day(p.Start)) && !day.After(Day(p.End))
}

// Aggregate buckets entries into periods and groups each period's entries by
// exact chatter name. It has no side effects; entries are processed in date
// order so the output is deterministic regardless of input order.
func Aggregate(entries []sales.Entry, periods []Period, now time.Time) Result {
	sorted := append([]sales.Entry(nil), entries...)
	sales.SortByDate(sorted)

	groups := make([]PeriodGroup, len(periods))
	byName := make([]map[string]int, len(periods))
	for i, p := range periods {
		groups[i] = PeriodGroup{
			PayPeriod:     PeriodWithStatus{Period: p, Status: Status(p, now)},
			ChatterGroups: []ChatterGroup{},
			TotalPay:      decimal.Zero,
		}
		byName[i] = map[string]int{}
	}

	unassigned := []EntryLine{}
	for _, e := range sorted {
		line := EntryLine{Entry: e, Pay: e.Commission()}
		pi := locate(periods, e.Date)
		if pi < 0 {
			unassigned = append(unassigned, line)
			continue
		}
		pg := &groups[pi]
		gi, ok := byName[pi][e.ChatterName]
		if !ok {
			gi = len(pg.ChatterGroups)
			byName[pi][e.ChatterName] = gi
			pg.ChatterGroups = append(pg.ChatterGroups, ChatterGroup{
				ChatterName:   e.ChatterName,
				Entries:       []EntryLine{},
				TotalNetSales: decimal.Zero,
				TotalPay:      decimal.Zero,
			})
		}
		cg := &pg.ChatterGroups[gi]
		cg.Entries = append(cg.Entries, line)
		cg.TotalNetSales = cg.TotalNetSales.Add(e.NetSale)
		cg.TotalPay = cg.TotalPay.Add(line.Pay)
		pg.TotalPay = pg.TotalPay.Add(line.Pay)
	}

	for i := range groups {
		for j := range groups[i].ChatterGroups {
			groups[i].ChatterGroups[j].resolvePercentage()
		}
	}
	return Result{Groups: groups, Unassigned: unassigned}
}

// locate returns the first period containing day, or -1.
func locate(periods []Period, day time.Time) int {
	for i, p := range periods {
		if p.Contains(day) {
			return i
		}
	}
	return -1
}

func (g *ChatterGroup) resolvePercentage() {
	g.PayPercentage = decimal.NullDecimal{}
	g.PercentageMixed = false
	for i, line := range g.Entries {
		if i == 0 {
			g.PayPercentage = decimal.NewNullDecimal(line.PayPercentage)
			continue
		}
		if !line.PayPercentage.Equal(g.PayPercentage.Decimal) {
			g.PayPercentage = decimal.NullDecimal{}
			g.PercentageMixed = true
			return
		}
	}
}

// PercentageLabel renders the group's effective percentage for display.
func (g ChatterGroup) PercentageLabel() string {
	if g.PercentageMixed {
		return PercentageMixedLabel
	}
	if !g.PayPercentage.Valid {
		return ""
	}
	return g.PayPercentage.Decimal.String() + "%"
}

// TotalPay sums the pay of every assigned and unassigned entry.
func (r Result) TotalPay() decimal.Decimal {
	total := decimal.Zero
	for _, g := range r.Groups {
		total = total.Add(g.TotalPay)
	}
	for _, line := range r.Unassigned {
		total = total.Add(line.Pay)
	}
	return total
}

// Group returns the period group starting on start.
func (r Result) Group(start time.Time) (PeriodGroup, bool) {
	for _, g := range r.Groups {
		if Day(g.PayPeriod.Start).Equal(Day(start)) {
			return g, true
		}
	}
	return PeriodGroup{}, false
}
