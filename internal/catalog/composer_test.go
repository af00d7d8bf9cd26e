package catalog

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/aurelia-jewels/aurelia-backend/pkg/errors"
)

const sampleVariations = `[
	{
		"metalVariations": [
			{
				"metal": "Yellow Gold",
				"quantity": "5",
				"diamondShape": [{"name": "Round", "image": "/images/round.png"}],
				"shank": [{"name": "Plain", "image": "/images/plain.png"}],
				"ringSizes": [
					{"productSize": "6", "regularPrice": "1499.50", "salePrice": "1299.00", "quantity": "2"},
					{"productSize": "7", "regularPrice": 1599.5, "salePrice": 1399, "quantity": 3}
				]
			}
		]
	}
]`

func TestParseVariationsCoercesStringNumbers(t *testing.T) {
	inputs, err := ParseVariations(sampleVariations)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(inputs) != 1 || len(inputs[0].MetalVariations) != 1 {
		t.Fatalf("unexpected shape: %+v", inputs)
	}

	branch := inputs[0].MetalVariations[0]
	if int(branch.Quantity) != 5 {
		t.Fatalf("expected quantity 5, got %d", int(branch.Quantity))
	}
	if got := branch.RingSizes[0].RegularPrice.decimal(); !got.Equal(decimal.RequireFromString("1499.50")) {
		t.Fatalf("expected 1499.50, got %v", got)
	}
	if got := branch.RingSizes[1].SalePrice.decimal(); !got.Equal(decimal.NewFromInt(1399)) {
		t.Fatalf("expected 1399, got %v", got)
	}
}

func TestParseVariationsDoubleEncoded(t *testing.T) {
	wrapped, err := json.Marshal(sampleVariations)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	inputs, err := ParseVariations(string(wrapped))
	if err != nil {
		t.Fatalf("parse double-encoded: %v", err)
	}
	if len(inputs) != 1 {
		t.Fatalf("expected 1 variation, got %d", len(inputs))
	}
}

func TestParseVariationsRejectsNonArray(t *testing.T) {
	if _, err := ParseVariations(`{"metal": "gold"}`); err == nil {
		t.Fatal("expected error for non-array payload")
	} else if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	if _, err := ParseVariations(`not json`); err == nil {
		t.Fatal("expected error for garbage payload")
	}
}

func TestParseVariationsEmpty(t *testing.T) {
	inputs, err := ParseVariations("  ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if inputs != nil {
		t.Fatalf("expected nil inputs, got %+v", inputs)
	}
}

func TestImageFieldKey(t *testing.T) {
	if got := ImageFieldKey("Rose Gold"); got != "images_Rose_Gold" {
		t.Fatalf("expected images_Rose_Gold, got %q", got)
	}
	if got := ImageFieldKey(" Platinum "); got != "images_Platinum" {
		t.Fatalf("expected images_Platinum, got %q", got)
	}
}

func TestApplyUploadedImages(t *testing.T) {
	inputs := []VariationInput{
		{MetalVariations: []MetalVariationInput{
			{Metal: "Rose Gold", Images: []string{"/images/existing.jpg"}},
			{Metal: "Platinum"},
		}},
	}
	uploads := map[string][]string{
		"images_Rose_Gold": {"/images/new1.jpg", "/images/new2.jpg"},
		"images_Platinum":  {"/images/plat.jpg"},
	}

	ApplyUploadedImages(inputs, uploads)

	rose := inputs[0].MetalVariations[0]
	if len(rose.Images) != 3 || rose.Images[2] != "/images/new2.jpg" {
		t.Fatalf("expected appended rose gold images, got %v", rose.Images)
	}
	plat := inputs[0].MetalVariations[1]
	if len(plat.Images) != 1 || plat.Images[0] != "/images/plat.jpg" {
		t.Fatalf("expected platinum image, got %v", plat.Images)
	}
}

func TestBuildReconcilePlan(t *testing.T) {
	keep := uuid.New()
	drop := uuid.New()

	inputs := []VariationInput{
		{ID: keep.String(), MetalVariations: []MetalVariationInput{{Metal: "Yellow Gold"}}},
		{MetalVariations: []MetalVariationInput{{Metal: "Platinum"}}},
		{ID: uuid.New().String(), MetalVariations: []MetalVariationInput{{Metal: "Silver"}}},
	}

	plan := buildReconcilePlan([]uuid.UUID{keep, drop}, inputs)

	if len(plan.updates) != 1 {
		t.Fatalf("expected 1 update, got %d", len(plan.updates))
	}
	if _, ok := plan.updates[keep]; !ok {
		t.Fatalf("expected update for %s", keep)
	}
	// id-less entry and the unknown id both insert
	if len(plan.inserts) != 2 {
		t.Fatalf("expected 2 inserts, got %d", len(plan.inserts))
	}
	if len(plan.deletes) != 1 || plan.deletes[0] != drop {
		t.Fatalf("expected %s deleted, got %v", drop, plan.deletes)
	}
}

func TestToMetalVariations(t *testing.T) {
	inputs := []MetalVariationInput{
		{
			Metal:         "  Yellow Gold ",
			Quantity:      flexInt(4),
			Images:        []string{"/images/a.jpg"},
			DiamondShapes: []NamedImageInput{{Name: "Round", Image: "/images/r.png"}},
			RingSizes: []RingSizeInput{
				{Size: "6", RegularPrice: flexDecimal(decimal.NewFromInt(100)), SalePrice: flexDecimal(decimal.NewFromInt(90)), Quantity: flexInt(1)},
			},
		},
	}

	doc := toMetalVariations(inputs)
	if doc[0].Metal != "Yellow Gold" {
		t.Fatalf("expected trimmed metal, got %q", doc[0].Metal)
	}
	if doc[0].Quantity != 4 {
		t.Fatalf("expected quantity 4, got %d", doc[0].Quantity)
	}
	if !doc[0].RingSizes[0].SalePrice.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("expected sale price 90, got %v", doc[0].RingSizes[0].SalePrice)
	}
}
