package payroll

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"cnct/internal/domain/sales"

	"github.com/xuri/excelize/v2"
)

const (
	registerSheet = "Register"
	entriesSheet  = "Entries"
)

// ExportRegister writes one period's chatter groups and entries as an XLSX
// workbook.
func (s *Service) ExportRegister(ctx context.Context, start time.Time) ([]byte, error) {
	group, err := s.PeriodGroup(ctx, start)
	if err != nil {
		return nil, err
	}
	return RegisterWorkbook(group)
}

func RegisterWorkbook(group PeriodGroup) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", registerSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(entriesSheet); err != nil {
		return nil, err
	}

	p := group.PayPeriod
	meta := [][]any{
		{"Pay Period", fmt.Sprintf("%s to %s", p.Start.Format(sales.DateLayout), p.End.Format(sales.DateLayout))},
		{"Status", p.Status},
		{"Invoice Date", p.InvoiceDate.Format(sales.DateLayout)},
		{"Chatter Pay Date", p.ChatterPayDate.Format(sales.DateLayout)},
		{},
		{"Chatter", "Entries", "Net Sales", "Pay %", "Total Pay"},
	}
	for i, row := range meta {
		if err := setRow(f, registerSheet, i+1, row); err != nil {
			return nil, err
		}
	}
	row := len(meta) + 1
	for _, cg := range group.ChatterGroups {
		values := []any{
			cg.ChatterName,
			len(cg.Entries),
			cg.TotalNetSales.Round(2).InexactFloat64(),
			cg.PercentageLabel(),
			cg.TotalPay.Round(2).InexactFloat64(),
		}
		if err := setRow(f, registerSheet, row, values); err != nil {
			return nil, err
		}
		row++
	}
	if err := setRow(f, registerSheet, row, []any{"Total", nil, nil, nil, group.TotalPay.Round(2).InexactFloat64()}); err != nil {
		return nil, err
	}

	header := []any{"Date", "Chatter", "Email", "Models", "Shift", "Cover", "Who Covered", "Net Sale", "Pay %", "Pay"}
	if err := setRow(f, entriesSheet, 1, header); err != nil {
		return nil, err
	}
	row = 2
	for _, cg := range group.ChatterGroups {
		for _, line := range cg.Entries {
			values := []any{
				line.Date.Format(sales.DateLayout),
				line.ChatterName,
				line.Email,
				line.ModelsWorkedOn,
				line.ShiftTime,
				line.WasItCover,
				line.WhoCovered,
				line.NetSale.InexactFloat64(),
				line.PayPercentage.String(),
				line.Pay.Round(2).InexactFloat64(),
			}
			if err := setRow(f, entriesSheet, row, values); err != nil {
				return nil, err
			}
			row++
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	if len(values) == 0 {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
