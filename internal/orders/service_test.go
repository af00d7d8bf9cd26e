package orders

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/aurelia-jewels/aurelia-backend/pkg/db/models"
)

func TestFormatOrderNumber(t *testing.T) {
	cases := map[int64]string{
		1:     "0001",
		10:    "0010",
		999:   "0999",
		1000:  "1000",
		10000: "10000",
	}
	for seq, want := range cases {
		assert.Equal(t, want, FormatOrderNumber(seq))
	}
}

func TestComputeTotals(t *testing.T) {
	discount := decimal.NewFromInt(50)
	lines := []models.OrderDetail{
		{Price: decimal.NewFromInt(1000), Quantity: 2},
		{Price: decimal.NewFromInt(300), Quantity: 1, Discount: &discount},
	}

	discountTotal, totalPrice := computeTotals(lines)
	assert.True(t, discountTotal.Equal(decimal.NewFromInt(50)), "discount %v", discountTotal)
	assert.True(t, totalPrice.Equal(decimal.NewFromInt(2250)), "total %v", totalPrice)
}

func TestComputeTotalsNeverNegative(t *testing.T) {
	discount := decimal.NewFromInt(500)
	lines := []models.OrderDetail{
		{Price: decimal.NewFromInt(100), Quantity: 1, Discount: &discount},
	}

	_, totalPrice := computeTotals(lines)
	assert.True(t, totalPrice.Equal(decimal.Zero))
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	if _, err := NewService(nil, nil, nil, nil, nil); err == nil {
		t.Fatal("expected error for missing repository")
	}
}
