package attributes

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/aurelia-jewels/aurelia-backend/pkg/db"
	"github.com/aurelia-jewels/aurelia-backend/pkg/db/models"
	pkgerrors "github.com/aurelia-jewels/aurelia-backend/pkg/errors"
	"github.com/aurelia-jewels/aurelia-backend/pkg/logger"
)

// Service manages the selectable attributes offered on variation trees.
type Service interface {
	CreateMetal(ctx context.Context, name string) (*models.Metal, error)
	ListMetals(ctx context.Context) ([]models.Metal, error)
	DeleteMetal(ctx context.Context, id uuid.UUID) error

	CreateDiamondShape(ctx context.Context, name string, image *Upload) (*models.DiamondShape, error)
	ListDiamondShapes(ctx context.Context) ([]models.DiamondShape, error)
	DeleteDiamondShape(ctx context.Context, id uuid.UUID) error

	CreateShank(ctx context.Context, name string, image *Upload) (*models.Shank, error)
	ListShanks(ctx context.Context) ([]models.Shank, error)
	DeleteShank(ctx context.Context, id uuid.UUID) error
}

// Upload is one file received with a multipart attribute payload.
type Upload struct {
	Filename string
	Reader   io.Reader
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

// NewService constructs an attribute service instance.
func NewService(repo *Repository, images imageStore, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("attribute repository required")
	}
	if images == nil {
		return nil, fmt.Errorf("image store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, images: images, logg: logg}, nil
}

func (s *service) CreateMetal(ctx context.Context, name string) (*models.Metal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "metal name is required")
	}

	metal, err := s.repo.CreateMetal(ctx, &models.Metal{Name: name})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "Metal already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create metal")
	}
	s.logg.Info(s.logg.WithField(ctx, "metal", name), "attributes.metal.created")
	return metal, nil
}

func (s *service) ListMetals(ctx context.Context) ([]models.Metal, error) {
	metals, err := s.repo.ListMetals(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list metals")
	}
	return metals, nil
}

func (s *service) DeleteMetal(ctx context.Context, id uuid.UUID) error {
	affected, err := s.repo.DeleteMetal(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete metal")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Metal not found")
	}
	return nil
}

func (s *service) CreateDiamondShape(ctx context.Context, name string, image *Upload) (*models.DiamondShape, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "diamond shape name is required")
	}

	shape := &models.DiamondShape{Name: name}
	savedPath, err := s.saveSwatch(ctx, image)
	if err != nil {
		return nil, err
	}
	if savedPath != "" {
		shape.Image = &savedPath
	}

	created, err := s.repo.CreateDiamondShape(ctx, shape)
	if err != nil {
		s.removeImage(ctx, savedPath)
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "Diamond shape already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create diamond shape")
	}
	s.logg.Info(s.logg.WithField(ctx, "diamond_shape", name), "attributes.diamond_shape.created")
	return created, nil
}

func (s *service) ListDiamondShapes(ctx context.Context) ([]models.DiamondShape, error) {
	shapes, err := s.repo.ListDiamondShapes(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list diamond shapes")
	}
	return shapes, nil
}

func (s *service) DeleteDiamondShape(ctx context.Context, id uuid.UUID) error {
	shape, err := s.repo.FindDiamondShape(ctx, id)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Diamond shape not found")
	}
	if _, err := s.repo.DeleteDiamondShape(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete diamond shape")
	}
	if shape.Image != nil {
		s.removeImage(ctx, *shape.Image)
	}
	return nil
}

func (s *service) CreateShank(ctx context.Context, name string, image *Upload) (*models.Shank, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shank name is required")
	}

	shank := &models.Shank{Name: name}
	savedPath, err := s.saveSwatch(ctx, image)
	if err != nil {
		return nil, err
	}
	if savedPath != "" {
		shank.Image = &savedPath
	}

	created, err := s.repo.CreateShank(ctx, shank)
	if err != nil {
		s.removeImage(ctx, savedPath)
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "Shank already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create shank")
	}
	s.logg.Info(s.logg.WithField(ctx, "shank", name), "attributes.shank.created")
	return created, nil
}

func (s *service) ListShanks(ctx context.Context) ([]models.Shank, error) {
	shanks, err := s.repo.ListShanks(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list shanks")
	}
	return shanks, nil
}

func (s *service) DeleteShank(ctx context.Context, id uuid.UUID) error {
	shank, err := s.repo.FindShank(ctx, id)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Shank not found")
	}
	if _, err := s.repo.DeleteShank(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete shank")
	}
	if shank.Image != nil {
		s.removeImage(ctx, *shank.Image)
	}
	return nil
}

func (s *service) saveSwatch(ctx context.Context, image *Upload) (string, error) {
	if image == nil {
		return "", nil
	}
	path, err := s.images.Save(ctx, image.Filename, image.Reader)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storage: save swatch image")
	}
	return path, nil
}

func (s *service) removeImage(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.images.Remove(ctx, path); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "path", path), "attributes.image.remove_failed")
	}
}
