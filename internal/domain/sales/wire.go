package sales

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// FormatDay renders a calendar date as YYYY-MM-DD; the zero time renders empty.
func FormatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// ParseOptionalDay is ParseDay that maps an empty value to the zero time.
func ParseOptionalDay(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return ParseDay(value)
}

// EntryJSON is the wire form of Entry. Date travels as a calendar day so
// clients never shift it by their own UTC offset.
type EntryJSON struct {
	ID             string          `json:"id"`
	Email          string          `json:"email"`
	ChatterName    string          `json:"chatterName"`
	Timezone       string          `json:"timezone"`
	Date           string          `json:"date"`
	ModelsWorkedOn string          `json:"modelsWorkedOn"`
	ShiftTime      string          `json:"shiftTime"`
	WasItCover     string          `json:"wasItCover"`
	WhoCovered     string          `json:"whoCovered"`
	TotalNetSale   string          `json:"totalNetSale"`
	NetSale        decimal.Decimal `json:"netSale"`
	PayPercentage  decimal.Decimal `json:"payPercentage"`
	CreatedAt      time.Time       `json:"createdAt"`
}

func (e Entry) JSON() EntryJSON {
	return EntryJSON{
		ID:             e.ID,
		Email:          e.Email,
		ChatterName:    e.ChatterName,
		Timezone:       e.Timezone,
		Date:           FormatDay(e.Date),
		ModelsWorkedOn: e.ModelsWorkedOn,
		ShiftTime:      e.ShiftTime,
		WasItCover:     e.WasItCover,
		WhoCovered:     e.WhoCovered,
		TotalNetSale:   e.TotalNetSale,
		NetSale:        e.NetSale,
		PayPercentage:  e.PayPercentage,
		CreatedAt:      e.CreatedAt,
	}
}

func (j EntryJSON) Entry() (Entry, error) {
	date, err := ParseOptionalDay(j.Date)
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		ID:             j.ID,
		Email:          j.Email,
		ChatterName:    j.ChatterName,
		Timezone:       j.Timezone,
		Date:           date,
		ModelsWorkedOn: j.ModelsWorkedOn,
		ShiftTime:      j.ShiftTime,
		WasItCover:     j.WasItCover,
		WhoCovered:     j.WhoCovered,
		TotalNetSale:   j.TotalNetSale,
		NetSale:        j.NetSale,
		PayPercentage:  j.PayPercentage,
		CreatedAt:      j.CreatedAt,
	}, nil
}

func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.JSON())
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var j EntryJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	entry, err := j.Entry()
	if err != nil {
		return err
	}
	*e = entry
	return nil
}
