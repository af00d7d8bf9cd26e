package attributes

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aurelia-jewels/aurelia-backend/pkg/db/models"
)

// Repository persists the three selectable attribute sets: metals,
// diamond shapes and shanks.
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

func (r *Repository) CreateMetal(ctx context.Context, metal *models.Metal) (*models.Metal, error) {
	if err := r.db.WithContext(ctx).Create(metal).Error; err != nil {
		return nil, err
	}
	return metal, nil
}

func (r *Repository) ListMetals(ctx context.Context) ([]models.Metal, error) {
	var metals []models.Metal
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&metals).Error; err != nil {
		return nil, err
	}
	return metals, nil
}

func (r *Repository) DeleteMetal(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Metal{}, "id = ?", id)
	return result.RowsAffected, result.Error
}

func (r *Repository) CreateDiamondShape(ctx context.Context, shape *models.DiamondShape) (*models.DiamondShape, error) {
	if err := r.db.WithContext(ctx).Create(shape).Error; err != nil {
		return nil, err
	}
	return shape, nil
}

func (r *Repository) ListDiamondShapes(ctx context.Context) ([]models.DiamondShape, error) {
	var shapes []models.DiamondShape
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&shapes).Error; err != nil {
		return nil, err
	}
	return shapes, nil
}

func (r *Repository) FindDiamondShape(ctx context.Context, id uuid.UUID) (*models.DiamondShape, error) {
	var shape models.DiamondShape
	if err := r.db.WithContext(ctx).First(&shape, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &shape, nil
}

func (r *Repository) DeleteDiamondShape(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.DiamondShape{}, "id = ?", id)
	return result.RowsAffected, result.Error
}

func (r *Repository) CreateShank(ctx context.Context, shank *models.Shank) (*models.Shank, error) {
	if err := r.db.WithContext(ctx).Create(shank).Error; err != nil {
		return nil, err
	}
	return shank, nil
}

func (r *Repository) ListShanks(ctx context.Context) ([]models.Shank, error) {
	var shanks []models.Shank
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&shanks).Error; err != nil {
		return nil, err
	}
	return shanks, nil
}

func (r *Repository) FindShank(ctx context.Context, id uuid.UUID) (*models.Shank, error) {
	var shank models.Shank
	if err := r.db.WithContext(ctx).First(&shank, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &shank, nil
}

func (r *Repository) DeleteShank(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Shank{}, "id = ?", id)
	return result.RowsAffected, result.Error
}
