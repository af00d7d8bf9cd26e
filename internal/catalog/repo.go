package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aurelia-jewels/aurelia-backend/pkg/db/models"
	"github.com/aurelia-jewels/aurelia-backend/pkg/pagination"
)

// Repository wires together product and variation persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the product without variations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDWithVariations loads the product and its variation rows in
// stored order.
func (r *Repository) FindByIDWithVariations(ctx context.Context, id uuid.UUID) (*models.Product, []models.ProductVariation, error) {
	product, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	variations, err := r.ListVariations(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return product, variations, nil
}

// CreateProduct inserts the product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct saves all product columns.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes the product; variations cascade.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

// DeleteProducts removes many products at once.
func (r *Repository) DeleteProducts(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id IN ?", ids).Error
}

// ListVariations returns variation rows for a product in position order.
func (r *Repository) ListVariations(ctx context.Context, productID uuid.UUID) ([]models.ProductVariation, error) {
	var variations []models.ProductVariation
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("position ASC").Order("created_at ASC").
		Find(&variations).Error; err != nil {
		return nil, err
	}
	return variations, nil
}

// CreateVariation inserts a variation row.
func (r *Repository) CreateVariation(ctx context.Context, variation *models.ProductVariation) (*models.ProductVariation, error) {
	if err := r.db.WithContext(ctx).Create(variation).Error; err != nil {
		return nil, err
	}
	return variation, nil
}

// UpdateVariationDocument replaces the stored metal variations of a row.
func (r *Repository) UpdateVariationDocument(ctx context.Context, id uuid.UUID, doc any, position int) error {
	return r.db.WithContext(ctx).
		Model(&models.ProductVariation{}).
		Where("id = ?", id).
		Updates(map[string]any{"metal_variations": doc, "position": position}).
		Error
}

// DeleteVariationsByID removes specific variation rows.
func (r *Repository) DeleteVariationsByID(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Delete(&models.ProductVariation{}, "id IN ?", ids).Error
}

// ListFilter carries the catalog listing filters. Scalar filters run in
// SQL; Metals and DiamondShapes are applied in memory on the trees.
type ListFilter struct {
	Category      string
	Subcategory   string
	Name          string
	Gender        string
	InStock       *bool
	BestSelling   *bool
	HasVariations *bool
	MaxSalePrice  *decimal.Decimal
	MinSalePrice  *decimal.Decimal
	Metals        []string
	DiamondShapes []string
	Cursor        string
	Limit         int
}

// ProductPage is one page of listed products.
type ProductPage struct {
	Products   []models.Product
	NextCursor string
	Total      int64
}

// ListProducts applies the scalar filters with cursor pagination and
// preloads variation rows for the in-memory stage.
func (r *Repository) ListProducts(ctx context.Context, filter ListFilter) (*ProductPage, error) {
	normalizedLimit := pagination.NormalizeLimit(filter.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(filter.Limit)

	decodedCursor, err := pagination.ParseCursor(strings.TrimSpace(filter.Cursor))
	if err != nil {
		return nil, err
	}

	base := r.applyScalarFilters(r.db.WithContext(ctx).Model(&models.Product{}), filter)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	query := base.Session(&gorm.Session{}).
		Preload("Variations", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC").Order("created_at ASC")
		})

	if decodedCursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	var products []models.Product
	if err := query.
		Order("created_at DESC").Order("id DESC").
		Limit(limitWithBuffer).
		Find(&products).Error; err != nil {
		return nil, err
	}

	nextCursor := ""
	if len(products) > normalizedLimit {
		products = products[:normalizedLimit]
		last := products[len(products)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	return &ProductPage{Products: products, NextCursor: nextCursor, Total: total}, nil
}

func (r *Repository) applyScalarFilters(query *gorm.DB, filter ListFilter) *gorm.DB {
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("category_name = ?", category)
	}
	if sub := strings.TrimSpace(filter.Subcategory); sub != "" {
		query = query.Where("subcategory = ?", sub)
	}
	if name := strings.TrimSpace(filter.Name); name != "" {
		query = query.Where("name ILIKE ?", "%"+name+"%")
	}
	if gender := strings.TrimSpace(filter.Gender); gender != "" {
		query = query.Where("gender = ?", gender)
	}
	if filter.InStock != nil {
		query = query.Where("in_stock = ?", *filter.InStock)
	}
	if filter.BestSelling != nil {
		query = query.Where("best_selling = ?", *filter.BestSelling)
	}
	if filter.HasVariations != nil {
		query = query.Where("has_variations = ?", *filter.HasVariations)
	}
	if filter.MaxSalePrice != nil {
		// variation products are price-checked in memory on the tree
		query = query.Where("has_variations = true OR sale_price <= ?", *filter.MaxSalePrice)
	}
	if filter.MinSalePrice != nil {
		query = query.Where("has_variations = true OR sale_price >= ?", *filter.MinSalePrice)
	}
	return query
}

// ListTrending returns in-stock products by most recent activity.
func (r *Repository) ListTrending(ctx context.Context, limit int) ([]models.Product, error) {
	return r.listSimple(ctx, limit, "in_stock = true", "updated_at DESC")
}

// ListBestSelling returns flagged products, newest first.
func (r *Repository) ListBestSelling(ctx context.Context, limit int) ([]models.Product, error) {
	return r.listSimple(ctx, limit, "best_selling = true", "created_at DESC")
}

// ListOnSale returns products with a discount or a cut sale price.
func (r *Repository) ListOnSale(ctx context.Context, limit int) ([]models.Product, error) {
	return r.listSimple(ctx, limit,
		"discount IS NOT NULL OR (sale_price IS NOT NULL AND regular_price IS NOT NULL AND sale_price < regular_price)",
		"created_at DESC")
}

// ListLatestByCategory returns the newest products in a category.
func (r *Repository) ListLatestByCategory(ctx context.Context, category string, limit int) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Preload("Variations", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC").Order("created_at ASC")
		}).
		Where("category_name = ?", category).
		Order("created_at DESC").
		Limit(pagination.NormalizeLimit(limit)).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *Repository) listSimple(ctx context.Context, limit int, condition, order string) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Preload("Variations", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC").Order("created_at ASC")
		}).
		Where(condition).
		Order(order).
		Limit(pagination.NormalizeLimit(limit)).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
