package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aurelia-jewels/aurelia-backend/pkg/db/models"
	"github.com/aurelia-jewels/aurelia-backend/pkg/types"
)

// VariationDTO is a variation row as returned to clients.
type VariationDTO struct {
	ID              uuid.UUID             `json:"id"`
	MetalVariations types.MetalVariations `json:"metalVariations"`
}

// ProductDTO is the product read model, base fields plus the derived
// fields computed from the variation tree.
type ProductDTO struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	SKU           string           `json:"sku"`
	Description   *string          `json:"description,omitempty"`
	CategoryName  string           `json:"categoryName"`
	Subcategory   *string          `json:"subcategory,omitempty"`
	Gender        *string          `json:"gender,omitempty"`
	InStock       bool             `json:"inStock"`
	BestSelling   bool             `json:"bestSelling"`
	Discount      *decimal.Decimal `json:"discount,omitempty"`
	RegularPrice  *decimal.Decimal `json:"regularPrice,omitempty"`
	SalePrice     *decimal.Decimal `json:"salePrice,omitempty"`
	Quantity      int              `json:"quantity"`
	HasVariations bool             `json:"hasVariations"`
	Variations    []VariationDTO   `json:"variations"`

	AvailableMetals    []string         `json:"availableMetals"`
	AvailableRingSizes []string         `json:"availableRingSizes"`
	PriceRange         types.PriceRange `json:"priceRange"`
	Thumbnail          string           `json:"thumbnail"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProductDetailDTO extends the read model with selection facets used by
// the configurator on the product page.
type ProductDetailDTO struct {
	ProductDTO
	AvailableDiamondShapes []string            `json:"availableDiamondShapes"`
	AvailableShankTypes    []string            `json:"availableShankTypes"`
	RingSizesByMetal       map[string][]string `json:"ringSizesByMetal"`
}

// NewProductDTO builds the read model from a product and its (possibly
// already filtered) variation rows.
func NewProductDTO(product *models.Product, variations []models.ProductVariation) *ProductDTO {
	derived := ComputeDerived(variations)

	dtoVariations := make([]VariationDTO, 0, len(variations))
	for _, v := range variations {
		dtoVariations = append(dtoVariations, VariationDTO{ID: v.ID, MetalVariations: v.MetalVariations})
	}

	return &ProductDTO{
		ID:                 product.ID,
		Name:               product.Name,
		SKU:                product.SKU,
		Description:        product.Description,
		CategoryName:       product.CategoryName,
		Subcategory:        product.Subcategory,
		Gender:             product.Gender,
		InStock:            product.InStock,
		BestSelling:        product.BestSelling,
		Discount:           product.Discount,
		RegularPrice:       product.RegularPrice,
		SalePrice:          product.SalePrice,
		Quantity:           product.Quantity,
		HasVariations:      product.HasVariations,
		Variations:         dtoVariations,
		AvailableMetals:    derived.AvailableMetals,
		AvailableRingSizes: derived.AvailableRingSizes,
		PriceRange:         derived.PriceRange,
		Thumbnail:          derived.Thumbnail,
		CreatedAt:          product.CreatedAt,
		UpdatedAt:          product.UpdatedAt,
	}
}

// NewProductDetailDTO adds the selection facets for the detail view.
func NewProductDetailDTO(product *models.Product, variations []models.ProductVariation) *ProductDetailDTO {
	base := NewProductDTO(product, variations)

	shapeSeen := make(map[string]bool)
	shankSeen := make(map[string]bool)
	shapes := []string{}
	shanks := []string{}
	sizesByMetal := make(map[string][]string)

	for _, v := range variations {
		for _, mv := range v.MetalVariations {
			for _, ds := range mv.DiamondShapes {
				if ds.Name != "" && !shapeSeen[ds.Name] {
					shapeSeen[ds.Name] = true
					shapes = append(shapes, ds.Name)
				}
			}
			for _, sh := range mv.Shanks {
				if sh.Name != "" && !shankSeen[sh.Name] {
					shankSeen[sh.Name] = true
					shanks = append(shanks, sh.Name)
				}
			}
			for _, rs := range mv.RingSizes {
				if rs.Size == "" || containsString(sizesByMetal[mv.Metal], rs.Size) {
					continue
				}
				sizesByMetal[mv.Metal] = append(sizesByMetal[mv.Metal], rs.Size)
			}
		}
	}

	return &ProductDetailDTO{
		ProductDTO:             *base,
		AvailableDiamondShapes: shapes,
		AvailableShankTypes:    shanks,
		RingSizesByMetal:       sizesByMetal,
	}
}

func containsString(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
