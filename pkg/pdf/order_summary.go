package pdf

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// OrderLine is a rendered row on the order summary.
type OrderLine struct {
	ProductName string
	Metal       string
	Size        string
	Quantity    int
	Price       decimal.Decimal
}

// OrderSummary is the data rendered into the customer PDF.
type OrderSummary struct {
	OrderNumber   string
	CustomerName  string
	CustomerEmail string
	PlacedAt      string
	Lines         []OrderLine
	DiscountTotal decimal.Decimal
	TotalPrice    decimal.Decimal
}

// RenderOrderSummary produces the PDF bytes for an order.
func RenderOrderSummary(summary OrderSummary) ([]byte, error) {
	if summary.OrderNumber == "" {
		return nil, errors.New("order number is required")
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle("Order "+summary.OrderNumber, false)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 18)
	doc.Cell(0, 12, "Aurelia Jewels")
	doc.Ln(14)

	doc.SetFont("Helvetica", "", 11)
	doc.Cell(0, 7, fmt.Sprintf("Order #%s", summary.OrderNumber))
	doc.Ln(7)
	if summary.PlacedAt != "" {
		doc.Cell(0, 7, fmt.Sprintf("Placed: %s", summary.PlacedAt))
		doc.Ln(7)
	}
	if summary.CustomerName != "" {
		doc.Cell(0, 7, fmt.Sprintf("Customer: %s (%s)", summary.CustomerName, summary.CustomerEmail))
		doc.Ln(7)
	}
	doc.Ln(4)

	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(70, 8, "Item", "1", 0, "L", false, 0, "")
	doc.CellFormat(35, 8, "Metal", "1", 0, "L", false, 0, "")
	doc.CellFormat(25, 8, "Size", "1", 0, "L", false, 0, "")
	doc.CellFormat(15, 8, "Qty", "1", 0, "R", false, 0, "")
	doc.CellFormat(35, 8, "Price", "1", 0, "R", false, 0, "")
	doc.Ln(8)

	doc.SetFont("Helvetica", "", 10)
	for _, line := range summary.Lines {
		doc.CellFormat(70, 8, line.ProductName, "1", 0, "L", false, 0, "")
		doc.CellFormat(35, 8, line.Metal, "1", 0, "L", false, 0, "")
		doc.CellFormat(25, 8, line.Size, "1", 0, "L", false, 0, "")
		doc.CellFormat(15, 8, fmt.Sprintf("%d", line.Quantity), "1", 0, "R", false, 0, "")
		doc.CellFormat(35, 8, line.Price.StringFixed(2), "1", 0, "R", false, 0, "")
		doc.Ln(8)
	}

	doc.Ln(4)
	doc.SetFont("Helvetica", "B", 11)
	if summary.DiscountTotal.Sign() > 0 {
		doc.Cell(0, 7, fmt.Sprintf("Discount: -%s", summary.DiscountTotal.StringFixed(2)))
		doc.Ln(7)
	}
	doc.Cell(0, 7, fmt.Sprintf("Total: %s", summary.TotalPrice.StringFixed(2)))

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering order pdf: %w", err)
	}
	return buf.Bytes(), nil
}
