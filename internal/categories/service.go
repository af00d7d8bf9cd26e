package categories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aurelia-jewels/aurelia-backend/pkg/db"
	"github.com/aurelia-jewels/aurelia-backend/pkg/db/models"
	pkgerrors "github.com/aurelia-jewels/aurelia-backend/pkg/errors"
	"github.com/aurelia-jewels/aurelia-backend/pkg/logger"
	"github.com/aurelia-jewels/aurelia-backend/pkg/types"
)

// Service exposes category management operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Category, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddSubcategory(ctx context.Context, id uuid.UUID, name string) (*models.Category, error)
	RemoveSubcategory(ctx context.Context, id uuid.UUID, subcategoryID string) (*models.Category, error)
	AddStyle(ctx context.Context, id uuid.UUID, input StyleInput) (*models.Category, error)
	RemoveStyle(ctx context.Context, id uuid.UUID, name string) (*models.Category, error)
}

// Upload is one file received with a multipart category payload.
type Upload struct {
	Filename string
	Reader   io.Reader
}

// CreateInput holds the coerced payload to create a category.
type CreateInput struct {
	Name             string
	Image            *Upload
	StylesRaw        string
	SubcategoriesRaw string
}

// UpdateInput holds optional mutation values; a new image replaces and
// purges the stored one.
type UpdateInput struct {
	Name  *string
	Image *Upload
}

// StyleInput adds a named style with an optional swatch upload.
type StyleInput struct {
	Name  string
	Image *Upload
}

type imageStore interface {
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
	Remove(ctx context.Context, publicPath string) error
}

type service struct {
	repo   *Repository
	images imageStore
	logg   *logger.Logger
}

// NewService constructs a category service instance.
func NewService(repo *Repository, images imageStore, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	if images == nil {
		return nil, fmt.Errorf("image store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, images: images, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}

	styles, err := parseStyles(input.StylesRaw)
	if err != nil {
		return nil, err
	}
	subcategories, err := parseSubcategories(input.SubcategoriesRaw)
	if err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:          name,
		Styles:        styles,
		Subcategories: subcategories,
	}

	var savedImage string
	if input.Image != nil {
		path, err := s.images.Save(ctx, input.Image.Filename, input.Image.Reader)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storage: save category image")
		}
		savedImage = path
		category.Image = &path
	}

	created, err := s.repo.Create(ctx, category)
	if err != nil {
		s.removeImage(ctx, savedImage)
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "Category already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create category")
	}

	ctx = s.logg.WithField(ctx, "category_id", created.ID.String())
	s.logg.Info(ctx, "categories.created")
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return s.load(ctx, id)
}

func (s *service) GetByName(ctx context.Context, name string) (*models.Category, error) {
	category, err := s.repo.FindByName(ctx, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load category")
	}
	return category, nil
}

func (s *service) List(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list categories")
	}
	return categories, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Category, error) {
	category, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
		}
		category.Name = name
	}

	var previousImage string
	if input.Image != nil {
		path, err := s.images.Save(ctx, input.Image.Filename, input.Image.Reader)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storage: save category image")
		}
		if category.Image != nil {
			previousImage = *category.Image
		}
		category.Image = &path
	}

	updated, err := s.repo.Update(ctx, category)
	if err != nil {
		if input.Image != nil {
			s.removeImage(ctx, *category.Image)
		}
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "Category already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update category")
	}
	s.removeImage(ctx, previousImage)

	ctx = s.logg.WithField(ctx, "category_id", updated.ID.String())
	s.logg.Info(ctx, "categories.updated")
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	category, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete category")
	}

	if category.Image != nil {
		s.removeImage(ctx, *category.Image)
	}
	for _, style := range category.Styles {
		s.removeImage(ctx, style.Image)
	}

	ctx = s.logg.WithField(ctx, "category_id", id.String())
	s.logg.Info(ctx, "categories.deleted")
	return nil
}

func (s *service) AddSubcategory(ctx context.Context, id uuid.UUID, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subcategory name is required")
	}

	category, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, sub := range category.Subcategories {
		if strings.EqualFold(sub.Name, name) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "Subcategory already exists")
		}
	}

	category.Subcategories = append(category.Subcategories, types.Subcategory{
		ID:   uuid.NewString(),
		Name: name,
	})
	return s.save(ctx, category)
}

func (s *service) RemoveSubcategory(ctx context.Context, id uuid.UUID, subcategoryID string) (*models.Category, error) {
	category, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	kept := make(types.Subcategories, 0, len(category.Subcategories))
	removed := false
	for _, sub := range category.Subcategories {
		if sub.ID == subcategoryID {
			removed = true
			continue
		}
		kept = append(kept, sub)
	}
	if !removed {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Subcategory not found")
	}

	category.Subcategories = kept
	return s.save(ctx, category)
}

func (s *service) AddStyle(ctx context.Context, id uuid.UUID, input StyleInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "style name is required")
	}

	category, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, style := range category.Styles {
		if strings.EqualFold(style.Name, name) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "Style already exists")
		}
	}

	style := types.Style{Name: name}
	if input.Image != nil {
		path, err := s.images.Save(ctx, input.Image.Filename, input.Image.Reader)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storage: save style image")
		}
		style.Image = path
	}

	category.Styles = append(category.Styles, style)
	updated, err := s.save(ctx, category)
	if err != nil {
		s.removeImage(ctx, style.Image)
		return nil, err
	}
	return updated, nil
}

func (s *service) RemoveStyle(ctx context.Context, id uuid.UUID, name string) (*models.Category, error) {
	category, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	kept := make(types.Styles, 0, len(category.Styles))
	var removedImage string
	removed := false
	for _, style := range category.Styles {
		if strings.EqualFold(style.Name, strings.TrimSpace(name)) {
			removed = true
			removedImage = style.Image
			continue
		}
		kept = append(kept, style)
	}
	if !removed {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Style not found")
	}

	category.Styles = kept
	updated, err := s.save(ctx, category)
	if err != nil {
		return nil, err
	}
	s.removeImage(ctx, removedImage)
	return updated, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load category")
	}
	return category, nil
}

func (s *service) save(ctx context.Context, category *models.Category) (*models.Category, error) {
	updated, err := s.repo.Update(ctx, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update category")
	}
	return updated, nil
}

func (s *service) removeImage(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.images.Remove(ctx, path); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "path", path), "categories.image.remove_failed")
	}
}

func parseStyles(raw string) (types.Styles, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return types.Styles{}, nil
	}
	var styles types.Styles
	if err := json.Unmarshal([]byte(raw), &styles); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid styles format")
	}
	return styles, nil
}

func parseSubcategories(raw string) (types.Subcategories, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return types.Subcategories{}, nil
	}
	var subcategories types.Subcategories
	if err := json.Unmarshal([]byte(raw), &subcategories); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid subcategories format")
	}
	for i := range subcategories {
		if strings.TrimSpace(subcategories[i].ID) == "" {
			subcategories[i].ID = uuid.NewString()
		}
	}
	return subcategories, nil
}
