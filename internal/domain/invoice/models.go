package invoice

import "github.com/shopspring/decimal"

type Item struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	NetSales    decimal.Decimal `json:"netSales"`
	Fees        decimal.Decimal `json:"fees"`
	Amount      decimal.Decimal `json:"amount"`
}

type Totals struct {
	NetSalesTotal decimal.Decimal `json:"netSalesTotal"`
	TotalToPay    decimal.Decimal `json:"totalToPay"`
}

// Invoice carries everything the PDF needs. Dates are display strings.
type Invoice struct {
	InvoiceNumber string `json:"invoiceNumber"`
	DateStart     string `json:"dateStart"`
	DateEnd       string `json:"dateEnd"`
	DueDate       string `json:"dueDate"`
	BillTo        string `json:"billTo"`
	Items         []Item `json:"items"`
	Notes         string `json:"notes"`
}

// Template is the result of parsing a pasted Key: Value blob.
type Template struct {
	BillTo        string          `json:"billTo"`
	InvoiceNumber string          `json:"invoiceNumber"`
	DateStart     string          `json:"dateStart"`
	DateEnd       string          `json:"dateEnd"`
	DueDate       string          `json:"dueDate"`
	TotalSales    decimal.Decimal `json:"totalSales"`
	NetPay        decimal.Decimal `json:"netPay"`
	NetSalesTips  decimal.Decimal `json:"netSalesTips"`
	InflowFees    decimal.Decimal `json:"inflowFees"`
	Items         []Item          `json:"items"`
}
