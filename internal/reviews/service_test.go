package reviews

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

	"github.com/aurelia-jewels/aurelia-backend/pkg/db/models"
	pkgerrors "github.com/aurelia-jewels/aurelia-backend/pkg/errors"
	"github.com/aurelia-jewels/aurelia-backend/pkg/logger"
)

func newReviewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:reviews_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	schema := `CREATE TABLE reviews (
		id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
		product_id TEXT NOT NULL,
		account_id TEXT NOT NULL,
		rating INTEGER NOT NULL,
		message TEXT,
		images TEXT NOT NULL DEFAULT '[]',
		created_at DATETIME,
		updated_at DATETIME
	)`
	require.NoError(t, db.Exec(schema).Error)
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

type stubProductReader struct {
	known map[uuid.UUID]bool
}

func (s *stubProductReader) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if !s.known[id] {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.Product{ID: id}, nil
}

type stubPhotoStore struct {
	saved    []string
	removed  []string
	failSave bool
}

func (s *stubPhotoStore) Save(_ context.Context, originalName string, _ io.Reader) (string, error) {
	if s.failSave {
		return "", errors.New("disk full")
	}
	path := "/images/" + originalName
	s.saved = append(s.saved, path)
	return path, nil
}

func (s *stubPhotoStore) Remove(_ context.Context, publicPath string) error {
	s.removed = append(s.removed, publicPath)
	return nil
}

func newReviewTestService(t *testing.T, productID uuid.UUID) (Service, *stubPhotoStore) {
	t.Helper()

	images := &stubPhotoStore{}
	products := &stubProductReader{known: map[uuid.UUID]bool{productID: true}}
	svc, err := NewService(NewRepository(newReviewTestDB(t)), products, images, logger.New(logger.Options{Level: logger.ParseLevel("error")}))
	require.NoError(t, err)
	return svc, images
}

func TestCreateReviewRejectsOutOfRangeRating(t *testing.T) {
	productID := uuid.New()
	svc, _ := newReviewTestService(t, productID)
	ctx := context.Background()

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Create(ctx, uuid.New(), CreateInput{ProductID: productID, Rating: rating})
		require.Error(t, err)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		require.Equal(t, pkgerrors.CodeValidation, typed.Code())
	}
}

func TestCreateReviewUnknownProduct(t *testing.T) {
	svc, _ := newReviewTestService(t, uuid.New())

	_, err := svc.Create(context.Background(), uuid.New(), CreateInput{
		ProductID: uuid.New(),
		Rating:    4,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestCreateReviewStoresPhotos(t *testing.T) {
	productID := uuid.New()
	svc, images := newReviewTestService(t, productID)
	ctx := context.Background()

	message := "sparkles in person"
	review, err := svc.Create(ctx, uuid.New(), CreateInput{
		ProductID: productID,
		Rating:    5,
		Message:   &message,
		Images: []Upload{
			{Filename: "hand.jpg", Reader: strings.NewReader("a")},
			{Filename: "box.jpg", Reader: strings.NewReader("b")},
		},
	})
	require.NoError(t, err)
	require.Len(t, review.Images, 2)
	require.Equal(t, []string{"/images/hand.jpg", "/images/box.jpg"}, images.saved)

	listed, err := svc.ListByProduct(ctx, productID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, 5, listed[0].Rating)
}

func TestCreateReviewPhotoFailureCleansUp(t *testing.T) {
	productID := uuid.New()
	svc, images := newReviewTestService(t, productID)
	images.failSave = true

	_, err := svc.Create(context.Background(), uuid.New(), CreateInput{
		ProductID: productID,
		Rating:    3,
		Images:    []Upload{{Filename: "hand.jpg", Reader: strings.NewReader("a")}},
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeDependency, typed.Code())

	listed, err := svc.ListByProduct(context.Background(), productID)
	require.NoError(t, err)
	require.Empty(t, listed)
}

func TestDeleteReviewRemovesPhotos(t *testing.T) {
	productID := uuid.New()
	svc, images := newReviewTestService(t, productID)
	ctx := context.Background()

	review, err := svc.Create(ctx, uuid.New(), CreateInput{
		ProductID: productID,
		Rating:    2,
		Images:    []Upload{{Filename: "hand.jpg", Reader: strings.NewReader("a")}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, review.ID))
	require.Equal(t, []string{"/images/hand.jpg"}, images.removed)

	err = svc.Delete(ctx, review.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
