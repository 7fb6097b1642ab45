package invoice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ParseTemplate reads newline-delimited "Key: Value" lines. Unknown keys are
// ignored and missing ones default to empty or zero; it never fails.
//
// The single resulting item uses Net Sales/Tips (falling back to Total
// Sales) as net sales, Inflow/VV FEES (falling back to Total Sales minus
// Net Pay) as fees, and Net Pay as the amount.
func ParseTemplate(text string) Template {
	fields := map[string]string{}
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		fields[key] = value
	}

	totalSales, _ := parseNumber(fields[keyTotalSales])
	netPay, _ := parseNumber(fields[keyNetPay])
	netSalesTips, ok := parseNumber(fields[keyNetSalesTips])
	if !ok || netSalesTips.IsZero() {
		netSalesTips = totalSales
	}
	fees, ok := parseNumber(fields[keyInflowFees])
	if !ok || fees.IsZero() {
		fees = totalSales.Sub(netPay)
	}

	return Template{
		BillTo:        fields[keyBillTo],
		InvoiceNumber: fields[keyInvoiceNumber],
		DateStart:     FormatTemplateDate(fields[keyStartDate]),
		DateEnd:       FormatTemplateDate(fields[keyEndDate]),
		DueDate:       FormatTemplateDate(fields[keyDueDate]),
		TotalSales:    totalSales,
		NetPay:        netPay,
		NetSalesTips:  netSalesTips,
		InflowFees:    fees,
		Items: []Item{{
			ID:          uuid.NewString(),
			Description: TemplateItemDescription,
			NetSales:    netSalesTips,
			Fees:        fees,
			Amount:      netPay,
		}},
	}
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// parseNumber strips thousands separators and a leading dollar sign, then
// reads the longest numeric prefix, so "1,234 USD" is 1234. ok is false when
// no number leads the value, in which case zero is returned.
func parseNumber(value string) (decimal.Decimal, bool) {
	value = strings.TrimSpace(strings.ReplaceAll(value, ",", ""))
	value = strings.TrimSpace(strings.TrimPrefix(value, "$"))
	prefix := leadingNumber.FindString(value)
	if prefix == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(prefix)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// FormatTemplateDate converts D/M/YYYY to YYYY-MM-DD. Values in any other
// shape are returned trimmed and unchanged.
func FormatTemplateDate(value string) string {
	value = strings.TrimSpace(value)
	parts := strings.Split(value, "/")
	if len(parts) != 3 {
		return value
	}
	d, errD := strconv.Atoi(strings.TrimSpace(parts[0]))
	m, errM := strconv.Atoi(strings.TrimSpace(parts[1]))
	y, errY := strconv.Atoi(strings.TrimSpace(parts[2]))
	if errD != nil || errM != nil || errY != nil {
		return value
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, m, d)
}
