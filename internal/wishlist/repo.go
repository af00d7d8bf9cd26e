package wishlist

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aurelia-jewels/aurelia-backend/pkg/db/models"
)

// Repository encapsulates wishlist persistence. Entries are unique on
// the full selection tuple, enforced by the table's composite index.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Add inserts a wishlist entry; returns the rows affected so callers can
// detect a duplicate selection (0 rows).
func (r *Repository) Add(ctx context.Context, item *models.WishlistItem) (int64, error) {
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO wishlist_items (account_id, product_id, metal, size, diamond_shape, shank_type, price)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (account_id, product_id, metal, size, diamond_shape, shank_type) DO NOTHING`,
		item.AccountID, item.ProductID, item.Metal, item.Size, item.DiamondShape, item.ShankType, item.Price,
	)
	return result.RowsAffected, result.Error
}

func (r *Repository) Remove(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.WishlistItem{}, "id = ?", id)
	return result.RowsAffected, result.Error
}

func (r *Repository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	if err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Repository) ListAll(ctx context.Context) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
