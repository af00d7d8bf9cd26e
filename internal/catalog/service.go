package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aurelia-jewels/aurelia-backend/pkg/db"
	"github.com/aurelia-jewels/aurelia-backend/pkg/db/models"
	pkgerrors "github.com/aurelia-jewels/aurelia-backend/pkg/errors"
	"github.com/aurelia-jewels/aurelia-backend/pkg/logger"
)

// Service exposes catalog management and browsing operations.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	GetProduct(ctx context.Context, productID uuid.UUID, opts DetailOptions) (*ProductDetailDTO, error)
	ListProducts(ctx context.Context, filter ListFilter) (*ProductListResult, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	DeleteProducts(ctx context.Context, ids []uuid.UUID) error
	ListTrending(ctx context.Context, limit int) ([]ProductDTO, error)
	ListBestSelling(ctx context.Context, limit int) ([]ProductDTO, error)
	ListOnSale(ctx context.Context, limit int) ([]ProductDTO, error)
	ListLatestByCategory(ctx context.Context, category string, limit int) ([]ProductDTO, error)
}

// Upload is one file received with a multipart catalog payload.
type Upload struct {
	Filename string
	Reader   io.Reader
}

// CreateProductInput holds the coerced payload to create a product.
type CreateProductInput struct {
	Name          string
	SKU           string
	Description   *string
	CategoryName  string
	Subcategory   *string
	Gender        *string
	InStock       bool
	BestSelling   bool
	Discount      *decimal.Decimal
	RegularPrice  *decimal.Decimal
	SalePrice     *decimal.Decimal
	Quantity      int
	HasVariations bool
	VariationsRaw string
	Uploads       map[string][]Upload
}

// UpdateProductInput holds optional mutation values for a product. The
// variations payload, when present, replaces the stored tree via the
// reconcile pass.
type UpdateProductInput struct {
	Name          *string
	SKU           *string
	Description   *string
	CategoryName  *string
	Subcategory   *string
	Gender        *string
	InStock       *bool
	BestSelling   *bool
	Discount      *decimal.Decimal
	RegularPrice  *decimal.Decimal
	SalePrice     *decimal.Decimal
	Quantity      *int
	HasVariations *bool
	VariationsRaw *string
	Uploads       map[string][]Upload
}

// DetailOptions narrows the selection tree returned by GetProduct.
type DetailOptions struct {
	DiamondShape string
	ShankType    string
}

// ProductListResult is a cursor page of listed products.
type ProductListResult struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"nextCursor,omitempty"`
	Total      int64        `json:"total"`
}

type imageStore interface {
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
	Remove(ctx context.Context, publicPath string) error
}

// service implements the catalog service.
type service struct {
	repo     *Repository
	dbClient *db.Client
	images   imageStore
	logg     *logger.Logger
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, dbClient *db.Client, images imageStore, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if images == nil {
		return nil, fmt.Errorf("image store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, dbClient: dbClient, images: images, logg: logg}, nil
}

// validateListedPrices guards the top-level price pair; variation ring
// sizes carry their own prices and are not cross-checked here.
func validateListedPrices(regular, sale *decimal.Decimal) error {
	if regular != nil && sale != nil && sale.GreaterThan(*regular) {
		return pkgerrors.New(pkgerrors.CodeValidation, "Sale price cannot exceed regular price")
	}
	return nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if err := validateListedPrices(input.RegularPrice, input.SalePrice); err != nil {
		return nil, err
	}

	var inputs []VariationInput
	if input.HasVariations {
		parsed, err := ParseVariations(input.VariationsRaw)
		if err != nil {
			return nil, err
		}
		inputs = parsed
	}

	savedPaths, uploadsByField, err := s.saveUploads(ctx, input.Uploads)
	if err != nil {
		return nil, err
	}
	ApplyUploadedImages(inputs, uploadsByField)

	product := &models.Product{
		Name:          input.Name,
		SKU:           input.SKU,
		Description:   input.Description,
		CategoryName:  input.CategoryName,
		Subcategory:   input.Subcategory,
		Gender:        input.Gender,
		InStock:       input.InStock,
		BestSelling:   input.BestSelling,
		Discount:      input.Discount,
		RegularPrice:  input.RegularPrice,
		SalePrice:     input.SalePrice,
		Quantity:      input.Quantity,
		HasVariations: input.HasVariations,
	}

	var variations []models.ProductVariation
	txErr := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		created, err := txRepo.CreateProduct(ctx, product)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create product")
		}
		for i, in := range inputs {
			variation := &models.ProductVariation{
				ProductID:       created.ID,
				Position:        i,
				MetalVariations: toMetalVariations(in.MetalVariations),
			}
			if _, err := txRepo.CreateVariation(ctx, variation); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create product variation")
			}
			variations = append(variations, *variation)
		}
		return nil
	})
	if txErr != nil {
		s.removeImages(ctx, savedPaths)
		if db.IsUniqueViolation(txErr, "") {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "Product with this name or SKU already exists")
		}
		return nil, txErr
	}

	ctx = s.logg.WithField(ctx, "product_id", product.ID.String())
	s.logg.Info(ctx, "catalog.product.created")
	return NewProductDTO(product, variations), nil
}

func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, existing, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	applyProductUpdates(product, input)
	if err := validateListedPrices(product.RegularPrice, product.SalePrice); err != nil {
		return nil, err
	}

	var inputs []VariationInput
	reconcile := false
	if input.VariationsRaw != nil {
		parsed, err := ParseVariations(*input.VariationsRaw)
		if err != nil {
			return nil, err
		}
		inputs = parsed
		reconcile = true
	}
	// turning variations off drops the whole tree
	if input.HasVariations != nil && !*input.HasVariations {
		inputs = nil
		reconcile = true
	}

	savedPaths, uploadsByField, err := s.saveUploads(ctx, input.Uploads)
	if err != nil {
		return nil, err
	}
	ApplyUploadedImages(inputs, uploadsByField)

	previousImages := CollectImages(existing)

	var variations []models.ProductVariation
	txErr := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.UpdateProduct(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
		}

		if reconcile {
			existingIDs := make([]uuid.UUID, 0, len(existing))
			for _, row := range existing {
				existingIDs = append(existingIDs, row.ID)
			}
			plan := buildReconcilePlan(existingIDs, inputs)

			if err := txRepo.DeleteVariationsByID(ctx, plan.deletes); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product variations")
			}
			for i, in := range inputs {
				doc := toMetalVariations(in.MetalVariations)
				if id, err := uuid.Parse(in.ID); err == nil {
					if _, ok := plan.updates[id]; ok {
						if err := txRepo.UpdateVariationDocument(ctx, id, doc, i); err != nil {
							return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product variation")
						}
						continue
					}
				}
				variation := &models.ProductVariation{ProductID: product.ID, Position: i, MetalVariations: doc}
				if _, err := txRepo.CreateVariation(ctx, variation); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create product variation")
				}
			}
		}

		refreshed, err := txRepo.ListVariations(ctx, product.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list product variations")
		}
		variations = refreshed
		return nil
	})
	if txErr != nil {
		s.removeImages(ctx, savedPaths)
		if db.IsUniqueViolation(txErr, "") {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "Product with this name or SKU already exists")
		}
		return nil, txErr
	}

	if reconcile {
		s.removeImages(ctx, orphanedImages(previousImages, CollectImages(variations)))
	}

	ctx = s.logg.WithField(ctx, "product_id", product.ID.String())
	s.logg.Info(ctx, "catalog.product.updated")
	return NewProductDTO(product, variations), nil
}

func (s *service) GetProduct(ctx context.Context, productID uuid.UUID, opts DetailOptions) (*ProductDetailDTO, error) {
	product, variations, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if opts.DiamondShape != "" || opts.ShankType != "" {
		variations = NarrowSelections(variations, opts.DiamondShape, opts.ShankType)
	}
	return NewProductDetailDTO(product, variations), nil
}

func (s *service) ListProducts(ctx context.Context, filter ListFilter) (*ProductListResult, error) {
	page, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}

	result := &ProductListResult{Products: []ProductDTO{}, NextCursor: page.NextCursor, Total: page.Total}
	for i := range page.Products {
		product := page.Products[i]
		variations, keep := filterProductTree(&product, filter)
		if !keep {
			continue
		}
		result.Products = append(result.Products, *NewProductDTO(&product, variations))
	}
	return result, nil
}

// filterProductTree applies the list filter stages that need the
// variation tree rather than product columns. A variation product
// whose tree empties out under the filter is dropped entirely.
func filterProductTree(product *models.Product, filter ListFilter) ([]models.ProductVariation, bool) {
	variations := product.Variations

	if len(filter.Metals) > 0 {
		variations = FilterVariationsByMetals(variations, filter.Metals)
		if product.HasVariations && len(variations) == 0 {
			return nil, false
		}
	}
	if len(filter.DiamondShapes) > 0 {
		variations = FilterVariationsByDiamondShapes(variations, filter.DiamondShapes)
		if product.HasVariations && len(variations) == 0 {
			return nil, false
		}
	}
	if filter.MinSalePrice != nil || filter.MaxSalePrice != nil {
		variations = FilterVariationsBySalePrice(variations, filter.MinSalePrice, filter.MaxSalePrice)
		if product.HasVariations && len(variations) == 0 {
			return nil, false
		}
	}
	return variations, true
}

func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	product, variations, err := s.loadProduct(ctx, productID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteProduct(ctx, product.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	s.removeImages(ctx, CollectImages(variations))

	ctx = s.logg.WithField(ctx, "product_id", product.ID.String())
	s.logg.Info(ctx, "catalog.product.deleted")
	return nil
}

func (s *service) DeleteProducts(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one product id is required")
	}

	var images []string
	for _, id := range ids {
		_, variations, err := s.loadProduct(ctx, id)
		if err != nil {
			return err
		}
		images = append(images, CollectImages(variations)...)
	}

	txErr := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).DeleteProducts(ctx, ids); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete products")
		}
		return nil
	})
	if txErr != nil {
		return txErr
	}

	s.removeImages(ctx, images)
	ctx = s.logg.WithField(ctx, "count", len(ids))
	s.logg.Info(ctx, "catalog.products.deleted")
	return nil
}

func (s *service) ListTrending(ctx context.Context, limit int) ([]ProductDTO, error) {
	products, err := s.repo.ListTrending(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list trending products")
	}
	return toProductDTOs(products), nil
}

func (s *service) ListBestSelling(ctx context.Context, limit int) ([]ProductDTO, error) {
	products, err := s.repo.ListBestSelling(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list best selling products")
	}
	return toProductDTOs(products), nil
}

func (s *service) ListOnSale(ctx context.Context, limit int) ([]ProductDTO, error) {
	products, err := s.repo.ListOnSale(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list on-sale products")
	}
	return toProductDTOs(products), nil
}

func (s *service) ListLatestByCategory(ctx context.Context, category string, limit int) ([]ProductDTO, error) {
	if category == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	products, err := s.repo.ListLatestByCategory(ctx, category, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list latest products")
	}
	return toProductDTOs(products), nil
}

func (s *service) loadProduct(ctx context.Context, productID uuid.UUID) (*models.Product, []models.ProductVariation, error) {
	product, variations, err := s.repo.FindByIDWithVariations(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	return product, variations, nil
}

// saveUploads writes every received file to the image store and returns
// all saved public paths plus the field-keyed map used to stitch paths
// back into the variation tree.
func (s *service) saveUploads(ctx context.Context, uploads map[string][]Upload) ([]string, map[string][]string, error) {
	if len(uploads) == 0 {
		return nil, nil, nil
	}
	var saved []string
	byField := make(map[string][]string, len(uploads))
	for field, files := range uploads {
		for _, file := range files {
			path, err := s.images.Save(ctx, file.Filename, file.Reader)
			if err != nil {
				s.removeImages(ctx, saved)
				return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storage: save image")
			}
			saved = append(saved, path)
			byField[field] = append(byField[field], path)
		}
	}
	return saved, byField, nil
}

// removeImages is best effort: a leaked file on disk is preferable to a
// failed catalog mutation.
func (s *service) removeImages(ctx context.Context, paths []string) {
	for _, path := range paths {
		if err := s.images.Remove(ctx, path); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "path", path), "catalog.image.remove_failed")
		}
	}
}

func applyProductUpdates(product *models.Product, input UpdateProductInput) {
	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.SKU != nil {
		product.SKU = *input.SKU
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.CategoryName != nil {
		product.CategoryName = *input.CategoryName
	}
	if input.Subcategory != nil {
		product.Subcategory = input.Subcategory
	}
	if input.Gender != nil {
		product.Gender = input.Gender
	}
	if input.InStock != nil {
		product.InStock = *input.InStock
	}
	if input.BestSelling != nil {
		product.BestSelling = *input.BestSelling
	}
	if input.Discount != nil {
		product.Discount = input.Discount
	}
	if input.RegularPrice != nil {
		product.RegularPrice = input.RegularPrice
	}
	if input.SalePrice != nil {
		product.SalePrice = input.SalePrice
	}
	if input.Quantity != nil {
		product.Quantity = *input.Quantity
	}
	if input.HasVariations != nil {
		product.HasVariations = *input.HasVariations
	}
}

// orphanedImages returns paths present before the update but absent after.
func orphanedImages(before, after []string) []string {
	keep := make(map[string]bool, len(after))
	for _, path := range after {
		keep[path] = true
	}
	var orphans []string
	for _, path := range before {
		if !keep[path] {
			orphans = append(orphans, path)
		}
	}
	return orphans
}

func toProductDTOs(products []models.Product) []ProductDTO {
	dtos := make([]ProductDTO, 0, len(products))
	for i := range products {
		dtos = append(dtos, *NewProductDTO(&products[i], products[i].Variations))
	}
	return dtos
}
