package orders

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// Receipt renders an order as a printable PDF: header, date, status,
// total, then one row per snapshot line.
func Receipt(o Order, items []OrderItem) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Order %s", o.ID), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 14, fmt.Sprintf("Order #%s", o.ID), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 7, fmt.Sprintf("Date: %s", o.OrderDate.Format("2006-01-02")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Status: %s", o.Status), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Total: %s", o.Total().StringFixed(2)), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 9, "Items", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for _, it := range items {
		line := fmt.Sprintf("- %dx %s (%s each)", it.Quantity, it.Name, it.Price().StringFixed(2))
		pdf.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
