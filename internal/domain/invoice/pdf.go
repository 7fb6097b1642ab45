package invoice

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

type PDFOptions struct {
	CompanyName string
	LogoPath    string
}

var bandColor = [3]int{173, 216, 230}

// RenderPDF writes the invoice as an A4 document: header band, details,
// bill-to box, item table with totals footer, and a notes band. The footer
// totals come from ComputeTotals.
func RenderPDF(w io.Writer, inv Invoice, opts PDFOptions) error {
	company := opts.CompanyName
	if company == "" {
		company = "CONNECT CHATTING LLC"
	}
	notes := inv.Notes
	if strings.TrimSpace(notes) == "" {
		notes = DefaultNotes
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageWidth, _ := pdf.GetPageSize()

	pdf.SetFillColor(bandColor[0], bandColor[1], bandColor[2])
	pdf.Rect(0, 0, pageWidth, 30, "F")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Text(10, 15, "CLIENT INVOICE")
	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(10, 25, tr(company))

	if opts.LogoPath != "" {
		imageType := strings.TrimPrefix(strings.ToUpper(filepath.Ext(opts.LogoPath)), ".")
		pdf.ImageOptions(opts.LogoPath, pageWidth-30, 5, 20, 20, false,
			gofpdf.ImageOptions{ImageType: imageType, ReadDpi: true}, 0, "")
	}

	pdf.SetFont("Helvetica", "", 10)
	x := pageWidth - 70
	pdf.Text(x, 40, tr("INVOICE #: "+inv.InvoiceNumber))
	pdf.Text(x, 47, tr("INVOICE DATE START: "+inv.DateStart))
	pdf.Text(x, 54, tr("INVOICE DATE END: "+inv.DateEnd))
	pdf.Text(x, 61, tr("INVOICE DUE DATE: "+inv.DueDate))

	pdf.Rect(10, 35, 90, 30, "D")
	pdf.Text(12, 42, "BILL TO:")
	pdf.SetXY(12, 45)
	pdf.MultiCell(80, 5, tr(inv.BillTo), "", "L", false)

	widths := []float64{pageWidth - 20 - 3*40, 40, 40, 40}
	pdf.SetXY(10, 75)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.1)
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range []string{"DESCRIPTION", "NET SALES/TIPS", "INFLOW/VV FEES", "AMOUNT"} {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range inv.Items {
		pdf.CellFormat(widths[0], 8, tr(item.Description), "1", 0, "L", true, 0, "")
		pdf.CellFormat(widths[1], 8, Money(item.NetSales), "1", 0, "R", true, 0, "")
		pdf.CellFormat(widths[2], 8, Money(item.Fees), "1", 0, "R", true, 0, "")
		pdf.CellFormat(widths[3], 8, Money(item.Amount), "1", 0, "R", true, 0, "")
		pdf.Ln(-1)
	}

	totals := ComputeTotals(inv.Items)
	pdf.SetFillColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 10)
	for _, row := range [][2]string{
		{"NET SALES TOTAL", Money(totals.NetSalesTotal)},
		{"TOTAL TO PAY", Money(totals.TotalToPay)},
	} {
		pdf.CellFormat(widths[0], 8, "", "1", 0, "L", true, 0, "")
		pdf.CellFormat(widths[1], 8, row[0], "1", 0, "L", true, 0, "")
		pdf.CellFormat(widths[2], 8, "", "1", 0, "L", true, 0, "")
		pdf.CellFormat(widths[3], 8, row[1], "1", 0, "R", true, 0, "")
		pdf.Ln(-1)
	}

	finalY := pdf.GetY()
	pdf.SetFillColor(bandColor[0], bandColor[1], bandColor[2])
	pdf.Rect(0, finalY+10, pageWidth, 30, "F")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(10, finalY+20, "NOTES:")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(10, finalY+23)
	pdf.MultiCell(pageWidth-20, 5, tr(notes), "", "L", false)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render invoice pdf: %w", err)
	}
	return pdf.Output(w)
}
