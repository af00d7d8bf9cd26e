package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aurelia-jewels/aurelia-backend/pkg/types"
)

// Product is a catalog listing. Variation rows hang off it when
// HasVariations is set; the base price fields apply otherwise.
type Product struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string             `gorm:"column:name;not null;uniqueIndex"`
	SKU           string             `gorm:"column:sku;not null;uniqueIndex"`
	Description   *string            `gorm:"column:description"`
	CategoryName  string             `gorm:"column:category_name;index"`
	Subcategory   *string            `gorm:"column:subcategory"`
	Gender        *string            `gorm:"column:gender"`
	InStock       bool               `gorm:"column:in_stock;not null;default:true"`
	BestSelling   bool               `gorm:"column:best_selling;not null;default:false"`
	Discount      *decimal.Decimal   `gorm:"column:discount;type:numeric(10,2)"`
	RegularPrice  *decimal.Decimal   `gorm:"column:regular_price;type:numeric(12,2)"`
	SalePrice     *decimal.Decimal   `gorm:"column:sale_price;type:numeric(12,2)"`
	Quantity      int                `gorm:"column:quantity;not null;default:0"`
	HasVariations bool               `gorm:"column:has_variations;not null;default:false"`
	Variations    []ProductVariation `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductVariation is one branch of a product's selection tree. The
// nested metal variations live in a single JSONB document so the tree
// round-trips exactly as submitted.
type ProductVariation struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID       uuid.UUID             `gorm:"column:product_id;type:uuid;not null;index:product_variations_product_id_idx"`
	Position        int                   `gorm:"column:position;not null;default:0"`
	MetalVariations types.MetalVariations `gorm:"column:metal_variations;type:jsonb;not null;default:'[]'"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
