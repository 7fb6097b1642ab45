package payroll

import (
	"encoding/json"
	"time"

	"cnct/internal/domain/sales"

	"github.com/shopspring/decimal"
)

type periodJSON struct {
	Start          string `json:"start"`
	End            string `json:"end"`
	InvoiceDate    string `json:"invoiceDate"`
	ChatterPayDate string `json:"chatterPayDate"`
}

func (p Period) wire() periodJSON {
	return periodJSON{
		Start:          sales.FormatDay(p.Start),
		End:            sales.FormatDay(p.End),
		InvoiceDate:    sales.FormatDay(p.InvoiceDate),
		ChatterPayDate: sales.FormatDay(p.ChatterPayDate),
	}
}

func (j periodJSON) period() (Period, error) {
	var (
		p   Period
		err error
	)
	for _, f := range []struct {
		dst   *time.Time
		value string
	}{
		{&p.Start, j.Start},
		{&p.End, j.End},
		{&p.InvoiceDate, j.InvoiceDate},
		{&p.ChatterPayDate, j.ChatterPayDate},
	} {
		if *f.dst, err = sales.ParseOptionalDay(f.value); err != nil {
			return Period{}, err
		}
	}
	return p, nil
}

func (p Period) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.wire())
}

func (p *Period) UnmarshalJSON(data []byte) error {
	var j periodJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	v, err := j.period()
	if err != nil {
		return err
	}
	*p = v
	return nil
}

type periodStatusJSON struct {
	periodJSON
	Status string `json:"status"`
}

func (p PeriodWithStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(periodStatusJSON{periodJSON: p.Period.wire(), Status: p.Status})
}

func (p *PeriodWithStatus) UnmarshalJSON(data []byte) error {
	var j periodStatusJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	period, err := j.period()
	if err != nil {
		return err
	}
	*p = PeriodWithStatus{Period: period, Status: j.Status}
	return nil
}

type entryLineJSON struct {
	sales.EntryJSON
	Pay decimal.Decimal `json:"pay"`
}

func (l EntryLine) MarshalJSON() ([]byte, error) {
	return json.Marshal(entryLineJSON{EntryJSON: l.Entry.JSON(), Pay: l.Pay})
}

func (l *EntryLine) UnmarshalJSON(data []byte) error {
	var j entryLineJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	entry, err := j.EntryJSON.Entry()
	if err != nil {
		return err
	}
	*l = EntryLine{Entry: entry, Pay: j.Pay}
	return nil
}
