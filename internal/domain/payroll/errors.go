package payroll

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrPeriodNotFound  = errors.New("pay period not found")
	ErrInvalidSchedule = errors.New("invalid pay period schedule")
	ErrNoEntries       = errors.New("no entries for chatter in pay period")
)

// PartialUpdateError reports a retroactive percentage edit that was applied
// to some entries but not all of them.
type PartialUpdateError struct {
	Updated []string
	Failed  map[string]error
}

func (e *PartialUpdateError) Error() string {
	total := len(e.Updated) + len(e.Failed)
	return fmt.Sprintf("percentage update applied to %d of %d entries", len(e.Updated), total)
}

func (e *PartialUpdateError) FailedIDs() []string {
	ids := make([]string, 0, len(e.Failed))
	for id := range e.Failed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
