package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/aurelia-jewels/aurelia-backend/pkg/types"
)

// Review is customer feedback on a product.
type Review struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID        `gorm:"column:product_id;type:uuid;not null;index:reviews_product_id_idx"`
	AccountID uuid.UUID        `gorm:"column:account_id;type:uuid;not null"`
	Rating    int              `gorm:"column:rating;not null"`
	Message   *string          `gorm:"column:message"`
	Images    types.StringList `gorm:"column:images;type:jsonb;not null;default:'[]'"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
