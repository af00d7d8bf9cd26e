package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WishlistItem is a saved product selection. Uniqueness covers the full
// selection tuple so the same product can be saved in different metals.
type WishlistItem struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AccountID    uuid.UUID        `gorm:"column:account_id;type:uuid;not null;index:wishlist_items_account_id_idx;uniqueIndex:wishlist_items_selection_key"`
	ProductID    uuid.UUID        `gorm:"column:product_id;type:uuid;not null;uniqueIndex:wishlist_items_selection_key"`
	Metal        string           `gorm:"column:metal;not null;default:'';uniqueIndex:wishlist_items_selection_key"`
	Size         string           `gorm:"column:size;not null;default:'';uniqueIndex:wishlist_items_selection_key"`
	DiamondShape string           `gorm:"column:diamond_shape;not null;default:'';uniqueIndex:wishlist_items_selection_key"`
	ShankType    string           `gorm:"column:shank_type;not null;default:'';uniqueIndex:wishlist_items_selection_key"`
	Price        *decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
}
