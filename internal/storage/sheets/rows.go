package sheets

import (
	"fmt"
	"strings"
	"time"

	"cnct/internal/domain/sales"

	"github.com/shopspring/decimal"
)

// Column layout of the sales sheet, A through L.
const (
	colID = iota
	colEmail
	colChatter
	colTimezone
	colDate
	colModels
	colShiftTime
	colWasItCover
	colWhoCovered
	colTotalNetSale
	colPayPercentage
	colCreatedAt
	columnCount
)

const percentageColumn = "K"

var headerRow = []any{
	"ID", "Email", "Chatter Name", "Timezone", "Date", "Models Worked On", "Shift Time",
	"Was It Cover", "Who Covered", "Total Net Sale", "Pay Percentage", "Created At",
}

func entryToRow(e sales.Entry) []any {
	return []any{
		e.ID,
		e.Email,
		e.ChatterName,
		e.Timezone,
		e.Date.Format(sales.DateLayout),
		e.ModelsWorkedOn,
		e.ShiftTime,
		e.WasItCover,
		e.WhoCovered,
		e.TotalNetSale,
		e.PayPercentage.String(),
		e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// rowToEntry converts one sheet row. ok is false for blank or cleared rows.
func rowToEntry(row []any) (sales.Entry, bool, error) {
	cols := make([]string, columnCount)
	for i := 0; i < len(row) && i < columnCount; i++ {
		cols[i] = strings.TrimSpace(fmt.Sprint(row[i]))
	}
	if cols[colID] == "" {
		return sales.Entry{}, false, nil
	}
	day, err := sales.ParseDay(cols[colDate])
	if err != nil {
		return sales.Entry{}, false, fmt.Errorf("row %s: bad date %q", cols[colID], cols[colDate])
	}
	e := sales.Entry{
		ID:             cols[colID],
		Email:          cols[colEmail],
		ChatterName:    cols[colChatter],
		Timezone:       cols[colTimezone],
		Date:           day,
		ModelsWorkedOn: cols[colModels],
		ShiftTime:      cols[colShiftTime],
		WasItCover:     cols[colWasItCover],
		WhoCovered:     cols[colWhoCovered],
		TotalNetSale:   cols[colTotalNetSale],
		NetSale:        sales.ParseAmount(cols[colTotalNetSale]),
		PayPercentage:  sales.DefaultPayPercentage,
	}
	if pct, err := decimal.NewFromString(strings.TrimSuffix(cols[colPayPercentage], "%")); err == nil {
		e.PayPercentage = pct
	}
	if t, err := time.Parse(time.RFC3339, cols[colCreatedAt]); err == nil {
		e.CreatedAt = t
	}
	return e, true, nil
}
