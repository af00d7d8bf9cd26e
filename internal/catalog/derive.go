package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/aurelia-jewels/aurelia-backend/pkg/db/models"
	"github.com/aurelia-jewels/aurelia-backend/pkg/types"
)

// Derived holds the computed read-model fields for a product's
// variation tree. Every function here is a plain traversal with a
// defined result on empty input, so list and detail paths agree.
type Derived struct {
	AvailableMetals    []string         `json:"availableMetals"`
	AvailableRingSizes []string         `json:"availableRingSizes"`
	PriceRange         types.PriceRange `json:"priceRange"`
	Thumbnail          string           `json:"thumbnail"`
}

// ComputeDerived runs all traversals over the loaded variation rows.
func ComputeDerived(variations []models.ProductVariation) Derived {
	return Derived{
		AvailableMetals:    AvailableMetals(variations),
		AvailableRingSizes: AvailableRingSizes(variations),
		PriceRange:         ComputePriceRange(variations),
		Thumbnail:          Thumbnail(variations),
	}
}

// AvailableMetals collects distinct metal names in first-seen order.
func AvailableMetals(variations []models.ProductVariation) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, v := range variations {
		for _, mv := range v.MetalVariations {
			name := strings.TrimSpace(mv.Metal)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

// AvailableRingSizes collects distinct ring sizes in first-seen order.
func AvailableRingSizes(variations []models.ProductVariation) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, v := range variations {
		for _, mv := range v.MetalVariations {
			for _, rs := range mv.RingSizes {
				size := strings.TrimSpace(rs.Size)
				if size == "" || seen[size] {
					continue
				}
				seen[size] = true
				out = append(out, size)
			}
		}
	}
	return out
}

// ComputePriceRange returns the global min/max sale price across all
// nested ring sizes. No ring sizes at all yields {0, 0}.
func ComputePriceRange(variations []models.ProductVariation) types.PriceRange {
	var (
		min, max decimal.Decimal
		found    bool
	)
	for _, v := range variations {
		for _, mv := range v.MetalVariations {
			for _, rs := range mv.RingSizes {
				if !found {
					min, max = rs.SalePrice, rs.SalePrice
					found = true
					continue
				}
				if rs.SalePrice.LessThan(min) {
					min = rs.SalePrice
				}
				if rs.SalePrice.GreaterThan(max) {
					max = rs.SalePrice
				}
			}
		}
	}
	if !found {
		return types.PriceRange{Min: decimal.Zero, Max: decimal.Zero}
	}
	return types.PriceRange{Min: min, Max: max}
}

// Thumbnail is the first image of the first metal branch of the first
// variation, or empty when no image exists anywhere before that point.
func Thumbnail(variations []models.ProductVariation) string {
	if len(variations) == 0 {
		return ""
	}
	first := variations[0].MetalVariations
	if len(first) == 0 || len(first[0].Images) == 0 {
		return ""
	}
	return first[0].Images[0]
}

// FilterVariationsByMetals drops metal branches whose metal is not in
// the requested set and then drops variations left with no branches.
// An empty filter set keeps everything.
func FilterVariationsByMetals(variations []models.ProductVariation, metals []string) []models.ProductVariation {
	if len(metals) == 0 {
		return variations
	}
	want := lowerSet(metals)
	out := make([]models.ProductVariation, 0, len(variations))
	for _, v := range variations {
		kept := make(types.MetalVariations, 0, len(v.MetalVariations))
		for _, mv := range v.MetalVariations {
			if want[strings.ToLower(strings.TrimSpace(mv.Metal))] {
				kept = append(kept, mv)
			}
		}
		if len(kept) > 0 {
			v.MetalVariations = kept
			out = append(out, v)
		}
	}
	return out
}

// FilterVariationsByDiamondShapes keeps metal branches offering at least
// one of the requested shapes. An empty filter set keeps everything.
func FilterVariationsByDiamondShapes(variations []models.ProductVariation, shapes []string) []models.ProductVariation {
	if len(shapes) == 0 {
		return variations
	}
	want := lowerSet(shapes)
	out := make([]models.ProductVariation, 0, len(variations))
	for _, v := range variations {
		kept := make(types.MetalVariations, 0, len(v.MetalVariations))
		for _, mv := range v.MetalVariations {
			for _, ds := range mv.DiamondShapes {
				if want[strings.ToLower(strings.TrimSpace(ds.Name))] {
					kept = append(kept, mv)
					break
				}
			}
		}
		if len(kept) > 0 {
			v.MetalVariations = kept
			out = append(out, v)
		}
	}
	return out
}

// FilterVariationsBySalePrice keeps metal branches with at least one ring
// size whose sale price falls inside [min, max] and then drops variations
// left with no branches. Nil bounds are open ended.
func FilterVariationsBySalePrice(variations []models.ProductVariation, min, max *decimal.Decimal) []models.ProductVariation {
	if min == nil && max == nil {
		return variations
	}
	out := make([]models.ProductVariation, 0, len(variations))
	for _, v := range variations {
		kept := make(types.MetalVariations, 0, len(v.MetalVariations))
		for _, mv := range v.MetalVariations {
			for _, rs := range mv.RingSizes {
				if min != nil && rs.SalePrice.LessThan(*min) {
					continue
				}
				if max != nil && rs.SalePrice.GreaterThan(*max) {
					continue
				}
				kept = append(kept, mv)
				break
			}
		}
		if len(kept) > 0 {
			v.MetalVariations = kept
			out = append(out, v)
		}
	}
	return out
}

// NarrowSelections trims nested diamond shapes and shanks down to the
// exact names requested, for the single-product detail view. Blank
// filters leave the lists untouched.
func NarrowSelections(variations []models.ProductVariation, diamondShape, shankType string) []models.ProductVariation {
	diamondShape = strings.TrimSpace(diamondShape)
	shankType = strings.TrimSpace(shankType)
	if diamondShape == "" && shankType == "" {
		return variations
	}

	out := make([]models.ProductVariation, 0, len(variations))
	for _, v := range variations {
		branches := make(types.MetalVariations, 0, len(v.MetalVariations))
		for _, mv := range v.MetalVariations {
			if diamondShape != "" {
				mv.DiamondShapes = filterNamed(mv.DiamondShapes, diamondShape)
			}
			if shankType != "" {
				mv.Shanks = filterNamed(mv.Shanks, shankType)
			}
			branches = append(branches, mv)
		}
		v.MetalVariations = branches
		out = append(out, v)
	}
	return out
}

// CollectImages gathers every image path stored in the tree, used when
// deleting a product or replacing a variation's files.
func CollectImages(variations []models.ProductVariation) []string {
	var out []string
	for _, v := range variations {
		for _, mv := range v.MetalVariations {
			out = append(out, mv.Images...)
		}
	}
	return out
}

func filterNamed(entries []types.NamedImage, name string) []types.NamedImage {
	out := make([]types.NamedImage, 0, len(entries))
	for _, e := range entries {
		if strings.EqualFold(strings.TrimSpace(e.Name), name) {
			out = append(out, e)
		}
	}
	return out
}

func lowerSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			set[v] = true
		}
	}
	return set
}
