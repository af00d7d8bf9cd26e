package catalog

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/aurelia-jewels/aurelia-backend/pkg/db/models"
	"github.com/aurelia-jewels/aurelia-backend/pkg/types"
)

func variationWith(branches ...types.MetalVariation) models.ProductVariation {
	return models.ProductVariation{MetalVariations: types.MetalVariations(branches)}
}

func TestAvailableMetalsFirstSeenOrder(t *testing.T) {
	variations := []models.ProductVariation{
		variationWith(
			types.MetalVariation{Metal: "Yellow Gold"},
			types.MetalVariation{Metal: "Rose Gold"},
		),
		variationWith(
			types.MetalVariation{Metal: "Rose Gold"},
			types.MetalVariation{Metal: "Platinum"},
			types.MetalVariation{Metal: "  "},
		),
	}

	metals := AvailableMetals(variations)
	expected := []string{"Yellow Gold", "Rose Gold", "Platinum"}
	if len(metals) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, metals)
	}
	for i, want := range expected {
		if metals[i] != want {
			t.Fatalf("expected %q at %d, got %q", want, i, metals[i])
		}
	}
}

func TestAvailableRingSizesDeduped(t *testing.T) {
	variations := []models.ProductVariation{
		variationWith(types.MetalVariation{
			Metal: "Yellow Gold",
			RingSizes: []types.RingSize{
				{Size: "6"}, {Size: "7"},
			},
		}),
		variationWith(types.MetalVariation{
			Metal: "Rose Gold",
			RingSizes: []types.RingSize{
				{Size: "7"}, {Size: "8"}, {Size: ""},
			},
		}),
	}

	sizes := AvailableRingSizes(variations)
	expected := []string{"6", "7", "8"}
	if len(sizes) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, sizes)
	}
	for i, want := range expected {
		if sizes[i] != want {
			t.Fatalf("expected %q at %d, got %q", want, i, sizes[i])
		}
	}
}

func TestComputePriceRange(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		pr := ComputePriceRange(nil)
		if !pr.Min.Equal(decimal.Zero) || !pr.Max.Equal(decimal.Zero) {
			t.Fatalf("expected zero range, got %v-%v", pr.Min, pr.Max)
		}
	})

	t.Run("spansAllBranches", func(t *testing.T) {
		variations := []models.ProductVariation{
			variationWith(types.MetalVariation{
				Metal: "Yellow Gold",
				RingSizes: []types.RingSize{
					{Size: "6", SalePrice: decimal.NewFromInt(1200)},
					{Size: "7", SalePrice: decimal.NewFromInt(1350)},
				},
			}),
			variationWith(types.MetalVariation{
				Metal: "Platinum",
				RingSizes: []types.RingSize{
					{Size: "6", SalePrice: decimal.NewFromInt(2100)},
				},
			}),
		}

		pr := ComputePriceRange(variations)
		if !pr.Min.Equal(decimal.NewFromInt(1200)) {
			t.Fatalf("expected min 1200, got %v", pr.Min)
		}
		if !pr.Max.Equal(decimal.NewFromInt(2100)) {
			t.Fatalf("expected max 2100, got %v", pr.Max)
		}
	})
}

func TestThumbnailPicksFirstImage(t *testing.T) {
	variations := []models.ProductVariation{
		variationWith(types.MetalVariation{
			Metal:  "Yellow Gold",
			Images: []string{"/images/a.jpg", "/images/b.jpg"},
		}),
		variationWith(types.MetalVariation{
			Metal:  "Rose Gold",
			Images: []string{"/images/c.jpg"},
		}),
	}

	if got := Thumbnail(variations); got != "/images/a.jpg" {
		t.Fatalf("expected first image, got %q", got)
	}
	if got := Thumbnail(nil); got != "" {
		t.Fatalf("expected empty thumbnail, got %q", got)
	}
	if got := Thumbnail([]models.ProductVariation{variationWith(types.MetalVariation{Metal: "Silver"})}); got != "" {
		t.Fatalf("expected empty thumbnail for imageless first branch, got %q", got)
	}
}

func TestFilterVariationsByMetals(t *testing.T) {
	variations := []models.ProductVariation{
		variationWith(
			types.MetalVariation{Metal: "Yellow Gold"},
			types.MetalVariation{Metal: "Platinum"},
		),
		variationWith(types.MetalVariation{Metal: "Rose Gold"}),
	}

	filtered := FilterVariationsByMetals(variations, []string{"platinum"})
	if len(filtered) != 1 {
		t.Fatalf("expected 1 variation, got %d", len(filtered))
	}
	if len(filtered[0].MetalVariations) != 1 || filtered[0].MetalVariations[0].Metal != "Platinum" {
		t.Fatalf("expected only the platinum branch, got %+v", filtered[0].MetalVariations)
	}

	if got := FilterVariationsByMetals(variations, nil); len(got) != 2 {
		t.Fatalf("expected empty filter to keep everything, got %d", len(got))
	}
}

func TestFilterVariationsByDiamondShapes(t *testing.T) {
	variations := []models.ProductVariation{
		variationWith(types.MetalVariation{
			Metal:         "Yellow Gold",
			DiamondShapes: []types.NamedImage{{Name: "Round"}, {Name: "Oval"}},
		}),
		variationWith(types.MetalVariation{
			Metal:         "Rose Gold",
			DiamondShapes: []types.NamedImage{{Name: "Pear"}},
		}),
	}

	filtered := FilterVariationsByDiamondShapes(variations, []string{"Oval"})
	if len(filtered) != 1 {
		t.Fatalf("expected 1 variation, got %d", len(filtered))
	}
	if filtered[0].MetalVariations[0].Metal != "Yellow Gold" {
		t.Fatalf("expected yellow gold branch, got %+v", filtered[0].MetalVariations)
	}
}

func TestFilterVariationsBySalePrice(t *testing.T) {
	variations := []models.ProductVariation{
		variationWith(types.MetalVariation{
			Metal:     "Yellow Gold",
			RingSizes: []types.RingSize{{Size: "6", SalePrice: decimal.NewFromInt(500)}},
		}),
		variationWith(types.MetalVariation{
			Metal: "Rose Gold",
			RingSizes: []types.RingSize{
				{Size: "6", SalePrice: decimal.NewFromInt(80)},
				{Size: "7", SalePrice: decimal.NewFromInt(900)},
			},
		}),
	}

	max := decimal.NewFromInt(100)
	filtered := FilterVariationsBySalePrice(variations, nil, &max)
	if len(filtered) != 1 {
		t.Fatalf("expected 1 variation, got %d", len(filtered))
	}
	if filtered[0].MetalVariations[0].Metal != "Rose Gold" {
		t.Fatalf("expected rose gold branch, got %+v", filtered[0].MetalVariations)
	}

	min := decimal.NewFromInt(600)
	filtered = FilterVariationsBySalePrice(variations, &min, nil)
	if len(filtered) != 1 || filtered[0].MetalVariations[0].Metal != "Rose Gold" {
		t.Fatalf("expected only the rose gold branch above 600, got %+v", filtered)
	}

	min, max = decimal.NewFromInt(400), decimal.NewFromInt(600)
	filtered = FilterVariationsBySalePrice(variations, &min, &max)
	if len(filtered) != 1 || filtered[0].MetalVariations[0].Metal != "Yellow Gold" {
		t.Fatalf("expected only the yellow gold branch in [400,600], got %+v", filtered)
	}

	if got := FilterVariationsBySalePrice(variations, nil, nil); len(got) != 2 {
		t.Fatalf("expected open bounds to keep everything, got %d", len(got))
	}
}

func TestNarrowSelections(t *testing.T) {
	variations := []models.ProductVariation{
		variationWith(types.MetalVariation{
			Metal:         "Yellow Gold",
			DiamondShapes: []types.NamedImage{{Name: "Round"}, {Name: "Oval"}},
			Shanks:        []types.NamedImage{{Name: "Plain"}, {Name: "Pave"}},
		}),
	}

	narrowed := NarrowSelections(variations, "round", "pave")
	branch := narrowed[0].MetalVariations[0]
	if len(branch.DiamondShapes) != 1 || branch.DiamondShapes[0].Name != "Round" {
		t.Fatalf("expected only round shape, got %+v", branch.DiamondShapes)
	}
	if len(branch.Shanks) != 1 || branch.Shanks[0].Name != "Pave" {
		t.Fatalf("expected only pave shank, got %+v", branch.Shanks)
	}

	untouched := NarrowSelections(variations, "", "")
	if len(untouched[0].MetalVariations[0].DiamondShapes) != 2 {
		t.Fatalf("expected blank filters to leave the tree untouched")
	}
}

func TestCollectImages(t *testing.T) {
	variations := []models.ProductVariation{
		variationWith(types.MetalVariation{Metal: "Yellow Gold", Images: []string{"/images/a.jpg"}}),
		variationWith(types.MetalVariation{Metal: "Rose Gold", Images: []string{"/images/b.jpg", "/images/c.jpg"}}),
	}

	images := CollectImages(variations)
	if len(images) != 3 {
		t.Fatalf("expected 3 images, got %v", images)
	}
}
