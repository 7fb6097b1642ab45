package payroll

const (
	StatusInactive = "Inactive Pay Period"
	StatusActive   = "Active Pay Period"
	StatusPaid     = "Chatters Paid"

	DefaultLengthDays        = 14
	DefaultInvoiceOffsetDays = 1
	DefaultPayOffsetDays     = 2

	PercentageMixedLabel = "mixed"

	// MaxPeriods bounds any generated schedule (twenty years of fortnights).
	MaxPeriods = 520

	secondsPerDay = 24 * 60 * 60
)
