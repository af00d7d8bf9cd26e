package attributes

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	pkgerrors "github.com/aurelia-jewels/aurelia-backend/pkg/errors"
	"github.com/aurelia-jewels/aurelia-backend/pkg/logger"
)

func newAttributeTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:attributes_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE metals (
			id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
			name TEXT NOT NULL UNIQUE,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE diamond_shapes (
			id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
			name TEXT NOT NULL UNIQUE,
			image TEXT,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE shanks (
			id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
			name TEXT NOT NULL UNIQUE,
			image TEXT,
			created_at DATETIME,
			updated_at DATETIME
		)`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

type stubSwatchStore struct {
	saved    []string
	removed  []string
	failSave bool
}

func (s *stubSwatchStore) Save(_ context.Context, originalName string, _ io.Reader) (string, error) {
	if s.failSave {
		return "", errors.New("disk full")
	}
	path := "/images/" + originalName
	s.saved = append(s.saved, path)
	return path, nil
}

func (s *stubSwatchStore) Remove(_ context.Context, publicPath string) error {
	s.removed = append(s.removed, publicPath)
	return nil
}

func newAttributeTestService(t *testing.T) (Service, *stubSwatchStore) {
	t.Helper()

	images := &stubSwatchStore{}
	svc, err := NewService(NewRepository(newAttributeTestDB(t)), images, logger.New(logger.Options{Level: logger.ParseLevel("error")}))
	require.NoError(t, err)
	return svc, images
}

func TestCreateMetalTrimsAndValidates(t *testing.T) {
	svc, _ := newAttributeTestService(t)
	ctx := context.Background()

	metal, err := svc.CreateMetal(ctx, "  Rose Gold  ")
	require.NoError(t, err)
	require.Equal(t, "Rose Gold", metal.Name)

	_, err = svc.CreateMetal(ctx, "   ")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestListMetalsSortedByName(t *testing.T) {
	svc, _ := newAttributeTestService(t)
	ctx := context.Background()

	for _, name := range []string{"Yellow Gold", "Platinum", "Rose Gold"} {
		_, err := svc.CreateMetal(ctx, name)
		require.NoError(t, err)
	}

	metals, err := svc.ListMetals(ctx)
	require.NoError(t, err)
	require.Len(t, metals, 3)
	require.Equal(t, "Platinum", metals[0].Name)
	require.Equal(t, "Yellow Gold", metals[2].Name)
}

func TestDeleteMetalNotFound(t *testing.T) {
	svc, _ := newAttributeTestService(t)

	err := svc.DeleteMetal(context.Background(), uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestCreateDiamondShapeStoresSwatch(t *testing.T) {
	svc, images := newAttributeTestService(t)
	ctx := context.Background()

	shape, err := svc.CreateDiamondShape(ctx, "Round", &Upload{
		Filename: "round.png",
		Reader:   strings.NewReader("img"),
	})
	require.NoError(t, err)
	require.NotNil(t, shape.Image)
	require.Equal(t, "/images/round.png", *shape.Image)
	require.Len(t, images.saved, 1)
}

func TestCreateDiamondShapeSwatchFailure(t *testing.T) {
	svc, images := newAttributeTestService(t)
	images.failSave = true

	_, err := svc.CreateDiamondShape(context.Background(), "Pear", &Upload{
		Filename: "pear.png",
		Reader:   strings.NewReader("img"),
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeDependency, typed.Code())
}

func TestDeleteDiamondShapeRemovesSwatch(t *testing.T) {
	svc, images := newAttributeTestService(t)
	ctx := context.Background()

	shape, err := svc.CreateDiamondShape(ctx, "Oval", &Upload{
		Filename: "oval.png",
		Reader:   strings.NewReader("img"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteDiamondShape(ctx, shape.ID))
	require.Equal(t, []string{"/images/oval.png"}, images.removed)

	shapes, err := svc.ListDiamondShapes(ctx)
	require.NoError(t, err)
	require.Empty(t, shapes)
}

func TestShankLifecycle(t *testing.T) {
	svc, images := newAttributeTestService(t)
	ctx := context.Background()

	shank, err := svc.CreateShank(ctx, "Cathedral", &Upload{
		Filename: "cathedral.png",
		Reader:   strings.NewReader("img"),
	})
	require.NoError(t, err)
	require.NotNil(t, shank.Image)

	plain, err := svc.CreateShank(ctx, "Split", nil)
	require.NoError(t, err)
	require.Nil(t, plain.Image)

	shanks, err := svc.ListShanks(ctx)
	require.NoError(t, err)
	require.Len(t, shanks, 2)

	require.NoError(t, svc.DeleteShank(ctx, shank.ID))
	require.Equal(t, []string{"/images/cathedral.png"}, images.removed)

	err = svc.DeleteShank(ctx, shank.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
