package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/aurelia-jewels/aurelia-backend/pkg/types"
)

// Category groups products and carries its own styles and subcategories.
type Category struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string              `gorm:"column:name;not null;uniqueIndex"`
	Image         *string             `gorm:"column:image"`
	Styles        types.Styles        `gorm:"column:styles;type:jsonb;not null;default:'[]'"`
	Subcategories types.Subcategories `gorm:"column:subcategories;type:jsonb;not null;default:'[]'"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
