package reviews

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aurelia-jewels/aurelia-backend/pkg/db/models"
	pkgerrors "github.com/aurelia-jewels/aurelia-backend/pkg/errors"
	"github.com/aurelia-jewels/aurelia-backend/pkg/logger"
	"github.com/aurelia-jewels/aurelia-backend/pkg/types"
)

// Service manages customer product reviews.
type Service interface {
	Create(ctx context.Context, accountID uuid.UUID, input CreateInput) (*models.Review, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Upload is one review photo from the multipart payload.
type Upload struct {
	Filename string
	Reader   io.Reader
}

// CreateInput is the review payload.
type CreateInput struct {
	ProductID uuid.UUID
	Rating    int
	Message   *string
	Images    []Upload
}

type productReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type imageStore interface {
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
	Remove(ctx context.Context, publicPath string) error
}

type service struct {
	repo     *Repository
	products productReader
	images   imageStore
	logg     *logger.Logger
}

// NewService constructs a review service instance.
func NewService(repo *Repository, products productReader, images imageStore, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("review repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	if images == nil {
		return nil, fmt.Errorf("image store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, products: products, images: images, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, accountID uuid.UUID, input CreateInput) (*models.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	if _, err := s.products.FindByID(ctx, input.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}

	var paths types.StringList
	for _, upload := range input.Images {
		path, err := s.images.Save(ctx, upload.Filename, upload.Reader)
		if err != nil {
			s.removeImages(ctx, paths)
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storage: save review image")
		}
		paths = append(paths, path)
	}

	review := &models.Review{
		ProductID: input.ProductID,
		AccountID: accountID,
		Rating:    input.Rating,
		Message:   input.Message,
		Images:    paths,
	}
	created, err := s.repo.Create(ctx, review)
	if err != nil {
		s.removeImages(ctx, paths)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create review")
	}

	ctx = s.logg.WithField(ctx, "product_id", input.ProductID.String())
	s.logg.Info(ctx, "reviews.created")
	return created, nil
}

func (s *service) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Review, error) {
	out, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list reviews")
	}
	return out, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Review not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load review")
	}
	if _, err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete review")
	}
	s.removeImages(ctx, review.Images)
	return nil
}

func (s *service) removeImages(ctx context.Context, paths types.StringList) {
	for _, path := range paths {
		if err := s.images.Remove(ctx, path); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "path", path), "reviews.image.remove_failed")
		}
	}
}
