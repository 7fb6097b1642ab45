package sales

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	msgRequired        = "is required"
	msgInvalidDate     = "must be a date in YYYY-MM-DD format"
	msgInvalidTimezone = "must be one of EST, CST, MST, PST"
	msgInvalidCover    = "must be Yes or No"
	msgNegativePercent = "must not be negative"
)

var issueMessages = map[string]string{
	"email.required":        msgRequired,
	"date.required":         msgRequired,
	"date.datetime":         msgInvalidDate,
	"timezone.oneof":        msgInvalidTimezone,
	"wasItCover.oneof":      msgInvalidCover,
	"totalNetSale.required": msgRequired,
	"payPercentage.gte":     msgNegativePercent,
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Normalize trims every free-text field of the input.
func (in Input) Normalize() Input {
	in.Email = strings.TrimSpace(in.Email)
	in.ChatterName = strings.TrimSpace(in.ChatterName)
	in.Timezone = strings.TrimSpace(in.Timezone)
	in.Date = strings.TrimSpace(in.Date)
	in.ModelsWorkedOn = strings.TrimSpace(in.ModelsWorkedOn)
	in.ShiftTime = strings.TrimSpace(in.ShiftTime)
	in.WasItCover = strings.TrimSpace(in.WasItCover)
	in.WhoCovered = strings.TrimSpace(in.WhoCovered)
	in.TotalNetSale = strings.TrimSpace(in.TotalNetSale)
	return in
}

// Validate reports every field problem at once.
func (in Input) Validate() error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Issues: []FieldIssue{{Field: "input", Reason: err.Error()}}}
	}
	issues := make([]FieldIssue, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := issueMessages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = "is invalid"
		}
		issues = append(issues, FieldIssue{Field: fe.Field(), Reason: msg})
	}
	return &ValidationError{Issues: issues}
}

// NewEntry validates the input and builds an entry without ID or CreatedAt.
// A missing pay percentage becomes DefaultPayPercentage.
func NewEntry(in Input) (Entry, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return Entry{}, err
	}
	day, err := ParseDay(in.Date)
	if err != nil {
		return Entry{}, &ValidationError{Issues: []FieldIssue{{Field: "date", Reason: msgInvalidDate}}}
	}
	pct := DefaultPayPercentage
	if in.PayPercentage != nil {
		pct = decimal.NewFromFloat(*in.PayPercentage)
	}
	return Entry{
		Email:          in.Email,
		ChatterName:    in.ChatterName,
		Timezone:       in.Timezone,
		Date:           day,
		ModelsWorkedOn: in.ModelsWorkedOn,
		ShiftTime:      in.ShiftTime,
		WasItCover:     in.WasItCover,
		WhoCovered:     in.WhoCovered,
		TotalNetSale:   in.TotalNetSale,
		NetSale:        ParseAmount(in.TotalNetSale),
		PayPercentage:  pct,
	}, nil
}

// ParseDay parses a YYYY-MM-DD calendar date as UTC midnight.
func ParseDay(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(value), time.UTC)
}

// ParseAmount reads a typed money amount leniently. Thousands separators,
// dollar signs and spaces are ignored; anything unparsable or negative is zero.
func ParseAmount(value string) decimal.Decimal {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ',', '$', ' ', '\t':
			return -1
		}
		return r
	}, value)
	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Commission is the pay owed for the entry: net sale times percentage over 100.
func (e Entry) Commission() decimal.Decimal {
	return e.NetSale.Mul(e.PayPercentage).Div(decimal.NewFromInt(100))
}
