package catalog

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/aurelia-jewels/aurelia-backend/pkg/db/models"
	pkgerrors "github.com/aurelia-jewels/aurelia-backend/pkg/errors"
	"github.com/aurelia-jewels/aurelia-backend/pkg/types"
)

func stringPtr(s string) *string { return &s }

func TestValidateListedPrices(t *testing.T) {
	regular := decimal.NewFromInt(100)
	sale := decimal.NewFromInt(200)

	err := validateListedPrices(&regular, &sale)
	if err == nil {
		t.Fatal("expected error when sale price exceeds regular price")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	sale = decimal.NewFromInt(80)
	if err := validateListedPrices(&regular, &sale); err != nil {
		t.Fatalf("expected sale below regular to pass, got %v", err)
	}
	equal := decimal.NewFromInt(100)
	if err := validateListedPrices(&regular, &equal); err != nil {
		t.Fatalf("expected equal prices to pass, got %v", err)
	}
	if err := validateListedPrices(nil, &sale); err != nil {
		t.Fatalf("expected missing regular price to pass, got %v", err)
	}
	if err := validateListedPrices(&regular, nil); err != nil {
		t.Fatalf("expected missing sale price to pass, got %v", err)
	}
}

func TestApplyProductUpdatesCannotInvertPrices(t *testing.T) {
	regular := decimal.NewFromInt(100)
	sale := decimal.NewFromInt(150)
	product := &models.Product{RegularPrice: &regular}

	applyProductUpdates(product, UpdateProductInput{SalePrice: &sale})
	if err := validateListedPrices(product.RegularPrice, product.SalePrice); err == nil {
		t.Fatal("expected partial update inverting the price pair to be rejected")
	}
}

func TestFilterProductTreeByMaxSalePrice(t *testing.T) {
	max := decimal.NewFromInt(100)
	product := models.Product{
		Name:          "Aria Solitaire",
		HasVariations: true,
		Variations: []models.ProductVariation{
			variationWith(types.MetalVariation{
				Metal:     "Yellow Gold",
				RingSizes: []types.RingSize{{Size: "6", SalePrice: decimal.NewFromInt(500)}},
			}),
		},
	}

	if _, keep := filterProductTree(&product, ListFilter{MaxSalePrice: &max}); keep {
		t.Fatal("expected product priced at 500 to be dropped by maxPrice=100")
	}

	max = decimal.NewFromInt(600)
	variations, keep := filterProductTree(&product, ListFilter{MaxSalePrice: &max})
	if !keep {
		t.Fatal("expected product priced at 500 kept by maxPrice=600")
	}
	derived := ComputeDerived(variations)
	if !derived.PriceRange.Min.Equal(decimal.NewFromInt(500)) || !derived.PriceRange.Max.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("unexpected price range %+v", derived.PriceRange)
	}
}

func TestFilterProductTreeKeepsFlatProducts(t *testing.T) {
	max := decimal.NewFromInt(100)
	price := decimal.NewFromInt(80)
	product := models.Product{Name: "Plain Band", SalePrice: &price}

	// flat products are price-filtered in SQL; the tree stage must not drop them
	if _, keep := filterProductTree(&product, ListFilter{MaxSalePrice: &max}); !keep {
		t.Fatal("expected flat product to survive the tree stage")
	}
}

func boolPtr(b bool) *bool { return &b }

func TestApplyProductUpdates(t *testing.T) {
	price := decimal.NewFromInt(2500)
	product := &models.Product{
		Name:         "Old Ring",
		SKU:          "SKU-1",
		CategoryName: "Rings",
		InStock:      true,
	}

	applyProductUpdates(product, UpdateProductInput{
		Name:         stringPtr("New Ring"),
		InStock:      boolPtr(false),
		RegularPrice: &price,
	})

	if product.Name != "New Ring" {
		t.Fatalf("expected updated name, got %q", product.Name)
	}
	if product.SKU != "SKU-1" {
		t.Fatalf("expected sku untouched, got %q", product.SKU)
	}
	if product.InStock {
		t.Fatal("expected in_stock cleared")
	}
	if product.RegularPrice == nil || !product.RegularPrice.Equal(price) {
		t.Fatalf("expected regular price %v, got %v", price, product.RegularPrice)
	}
}

func TestOrphanedImages(t *testing.T) {
	before := []string{"/images/a.jpg", "/images/b.jpg", "/images/c.jpg"}
	after := []string{"/images/b.jpg"}

	orphans := orphanedImages(before, after)
	if len(orphans) != 2 {
		t.Fatalf("expected 2 orphans, got %v", orphans)
	}
	if orphans[0] != "/images/a.jpg" || orphans[1] != "/images/c.jpg" {
		t.Fatalf("unexpected orphans %v", orphans)
	}

	if got := orphanedImages(after, after); len(got) != 0 {
		t.Fatalf("expected no orphans, got %v", got)
	}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	if _, err := NewService(nil, nil, nil, nil); err == nil {
		t.Fatal("expected error for missing repository")
	}
}
