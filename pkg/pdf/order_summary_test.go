package pdf

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
)

func TestRenderOrderSummary(t *testing.T) {
	data, err := RenderOrderSummary(OrderSummary{
		OrderNumber:   "0001",
		CustomerName:  "A Customer",
		CustomerEmail: "c@example.com",
		PlacedAt:      "2026-08-01",
		Lines: []OrderLine{
			{ProductName: "Solitaire Ring", Metal: "Rose Gold", Size: "6", Quantity: 1, Price: decimal.NewFromInt(1200)},
		},
		TotalPrice: decimal.NewFromInt(1200),
	})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("expected PDF output, got %q", data[:8])
	}
}

func TestRenderOrderSummaryRequiresOrderNumber(t *testing.T) {
	if _, err := RenderOrderSummary(OrderSummary{}); err == nil {
		t.Fatal("expected missing order number to fail")
	}
}
