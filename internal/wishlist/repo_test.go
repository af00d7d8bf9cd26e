package wishlist

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/aurelia-jewels/aurelia-backend/pkg/db/models"
)

func setupWishlistTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:wishlist_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS wishlist_items (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
  account_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  metal TEXT NOT NULL DEFAULT '',
  size TEXT NOT NULL DEFAULT '',
  diamond_shape TEXT NOT NULL DEFAULT '',
  shank_type TEXT NOT NULL DEFAULT '',
  price NUMERIC,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  UNIQUE (account_id, product_id, metal, size, diamond_shape, shank_type)
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func TestAddDuplicateSelectionIgnored(t *testing.T) {
	db := setupWishlistTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	item := &models.WishlistItem{
		AccountID:    uuid.New(),
		ProductID:    uuid.New(),
		Metal:        "Rose Gold",
		Size:         "6",
		DiamondShape: "Round",
	}

	affected, err := repo.Add(ctx, item)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = repo.Add(ctx, item)
	require.NoError(t, err)
	assert.Zero(t, affected)

	// a different metal is a different selection
	other := *item
	other.Metal = "Platinum"
	affected, err = repo.Add(ctx, &other)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	items, err := repo.ListByAccount(ctx, item.AccountID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestRemoveMissingItem(t *testing.T) {
	db := setupWishlistTestDB(t)
	repo := NewRepository(db)

	affected, err := repo.Remove(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Zero(t, affected)
}
