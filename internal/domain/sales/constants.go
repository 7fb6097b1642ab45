package sales

import "github.com/shopspring/decimal"

const DateLayout = "2006-01-02"

const (
	CoverYes = "Yes"
	CoverNo  = "No"
)

var DefaultPayPercentage = decimal.NewFromInt(7)

var Timezones = []string{"EST", "CST", "MST", "PST"}

var ChatterNames = []string{
	"Cado", "Janko", "Moot", "Stefq", "Dayo", "Angel", "Christine",
	"Death", "Eryx", "Gem", "Mei", "Raluca", "Rommel",
}

var ModelNames = []string{
	"Alexis", "Miaa", "Bella", "Ellie", "Sasha", "Hunkmo", "Shrimp",
	"Laura", "Mia", "Ava", "Kira", "Carina", "Evelyn", "Tina",
}

func DefaultOptions() Options {
	return Options{
		ChatterNames: append([]string(nil), ChatterNames...),
		Models:       append([]string(nil), ModelNames...),
		Timezones:    append([]string(nil), Timezones...),
		CoverValues:  []string{CoverYes, CoverNo},
	}
}
