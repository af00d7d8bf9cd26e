package wishlist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aurelia-jewels/aurelia-backend/pkg/db/models"
	pkgerrors "github.com/aurelia-jewels/aurelia-backend/pkg/errors"
	"github.com/aurelia-jewels/aurelia-backend/pkg/logger"
)

// Service manages saved product selections.
type Service interface {
	Add(ctx context.Context, accountID uuid.UUID, input AddInput) error
	Remove(ctx context.Context, id uuid.UUID) error
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]ItemDTO, error)
	ListAll(ctx context.Context) ([]ItemDTO, error)
}

// AddInput is the selection tuple to save.
type AddInput struct {
	ProductID    uuid.UUID
	Metal        string
	Size         string
	DiamondShape string
	ShankType    string
	Price        *decimal.Decimal
}

// ItemDTO is a wishlist entry enriched with its product snapshot.
type ItemDTO struct {
	ID           uuid.UUID        `json:"id"`
	AccountID    uuid.UUID        `json:"accountId"`
	ProductID    uuid.UUID        `json:"productId"`
	ProductName  string           `json:"productName,omitempty"`
	Metal        string           `json:"metal,omitempty"`
	Size         string           `json:"size,omitempty"`
	DiamondShape string           `json:"diamondShape,omitempty"`
	ShankType    string           `json:"shankType,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
}

type productReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo     *Repository
	products productReader
	logg     *logger.Logger
}

// NewService constructs a wishlist service instance.
func NewService(repo *Repository, products productReader, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("wishlist repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, products: products, logg: logg}, nil
}

func (s *service) Add(ctx context.Context, accountID uuid.UUID, input AddInput) error {
	if input.ProductID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if _, err := s.products.FindByID(ctx, input.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}

	item := &models.WishlistItem{
		AccountID:    accountID,
		ProductID:    input.ProductID,
		Metal:        strings.TrimSpace(input.Metal),
		Size:         strings.TrimSpace(input.Size),
		DiamondShape: strings.TrimSpace(input.DiamondShape),
		ShankType:    strings.TrimSpace(input.ShankType),
		Price:        input.Price,
	}
	affected, err := s.repo.Add(ctx, item)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: add wishlist item")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "Item already in wishlist")
	}

	ctx = s.logg.WithField(ctx, "product_id", input.ProductID.String())
	s.logg.Info(ctx, "wishlist.added")
	return nil
}

func (s *service) Remove(ctx context.Context, id uuid.UUID) error {
	affected, err := s.repo.Remove(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: remove wishlist item")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Wishlist item not found")
	}
	return nil
}

func (s *service) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]ItemDTO, error) {
	items, err := s.repo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list wishlist")
	}
	return s.toDTOs(ctx, items), nil
}

func (s *service) ListAll(ctx context.Context) ([]ItemDTO, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list wishlist")
	}
	return s.toDTOs(ctx, items), nil
}

func (s *service) toDTOs(ctx context.Context, items []models.WishlistItem) []ItemDTO {
	dtos := make([]ItemDTO, 0, len(items))
	names := make(map[uuid.UUID]string)
	for _, item := range items {
		name, ok := names[item.ProductID]
		if !ok {
			if product, err := s.products.FindByID(ctx, item.ProductID); err == nil {
				name = product.Name
			}
			names[item.ProductID] = name
		}
		dtos = append(dtos, ItemDTO{
			ID:           item.ID,
			AccountID:    item.AccountID,
			ProductID:    item.ProductID,
			ProductName:  name,
			Metal:        item.Metal,
			Size:         item.Size,
			DiamondShape: item.DiamondShape,
			ShankType:    item.ShankType,
			Price:        item.Price,
			CreatedAt:    item.CreatedAt,
		})
	}
	return dtos
}
