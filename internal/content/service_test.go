package content

import (
	"context"
	"errors"
	"fmt"
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

func newContentTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:content_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE about_page (
			id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
			content TEXT NOT NULL,
			image TEXT,
			updated_at DATETIME
		)`,
		`CREATE TABLE custom_jewel_requests (
			id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone TEXT,
			description TEXT NOT NULL,
			budget TEXT,
			image TEXT,
			created_at DATETIME
		)`,
		`CREATE TABLE contact_messages (
			id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone TEXT,
			subject TEXT,
			message TEXT NOT NULL,
			created_at DATETIME
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

type stubImageStore struct {
	saved   []string
	removed []string
	failSave bool
}

func (s *stubImageStore) Save(_ context.Context, originalName string, _ io.Reader) (string, error) {
	if s.failSave {
		return "", errors.New("disk full")
	}
	path := "/images/" + originalName
	s.saved = append(s.saved, path)
	return path, nil
}

func (s *stubImageStore) Remove(_ context.Context, publicPath string) error {
	s.removed = append(s.removed, publicPath)
	return nil
}

type stubContentMailer struct {
	sent []string
	fail bool
}

func (m *stubContentMailer) Send(_ context.Context, toEmail, subject, _ string) error {
	if m.fail {
		return errors.New("sendgrid unavailable")
	}
	m.sent = append(m.sent, fmt.Sprintf("%s|%s", toEmail, subject))
	return nil
}

func newContentTestService(t *testing.T) (Service, *stubImageStore, *stubContentMailer) {
	t.Helper()

	images := &stubImageStore{}
	mail := &stubContentMailer{}
	svc, err := NewService(NewRepository(newContentTestDB(t)), images, mail, logger.New(logger.Options{Level: logger.ParseLevel("error")}))
	require.NoError(t, err)
	return svc, images, mail
}

func TestSaveAboutPageUpserts(t *testing.T) {
	svc, _, _ := newContentTestService(t)
	ctx := context.Background()

	first, err := svc.SaveAboutPage(ctx, AboutInput{Content: "founded in 2019"})
	require.NoError(t, err)

	second, err := svc.SaveAboutPage(ctx, AboutInput{Content: "founded in 2019, rewritten"})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	page, err := svc.GetAboutPage(ctx)
	require.NoError(t, err)
	require.Equal(t, "founded in 2019, rewritten", page.Content)
}

func TestSaveAboutPageReplacesImage(t *testing.T) {
	svc, images, _ := newContentTestService(t)
	ctx := context.Background()

	_, err := svc.SaveAboutPage(ctx, AboutInput{
		Content: "about us",
		Image:   &Upload{Filename: "old.jpg", Reader: strings.NewReader("x")},
	})
	require.NoError(t, err)

	_, err = svc.SaveAboutPage(ctx, AboutInput{
		Content: "about us",
		Image:   &Upload{Filename: "new.jpg", Reader: strings.NewReader("y")},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"/images/old.jpg"}, images.removed)
}

func TestCreateCustomJewelRequestSendsConfirmation(t *testing.T) {
	svc, _, mail := newContentTestService(t)

	created, err := svc.CreateCustomJewelRequest(context.Background(), CustomJewelInput{
		Name:        "Priya",
		Email:       "priya@example.com",
		Description: "emerald pendant with rose gold chain",
	})
	require.NoError(t, err)
	require.Len(t, mail.sent, 1)
	require.Contains(t, mail.sent[0], created.Email)
}

func TestCreateCustomJewelRequestSurvivesMailFailure(t *testing.T) {
	svc, _, mail := newContentTestService(t)
	mail.fail = true

	created, err := svc.CreateCustomJewelRequest(context.Background(), CustomJewelInput{
		Name:        "Priya",
		Email:       "priya@example.com",
		Description: "emerald pendant",
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	listed, err := svc.ListCustomJewelRequests(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
}

func TestCreateContactMessageValidation(t *testing.T) {
	svc, _, _ := newContentTestService(t)

	_, err := svc.CreateContactMessage(context.Background(), ContactInput{Name: "  ", Email: "a@b.c", Message: "hi"})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestDeleteContactMessageMissing(t *testing.T) {
	svc, _, _ := newContentTestService(t)

	created, err := svc.CreateContactMessage(context.Background(), ContactInput{
		Name: "Arun", Email: "arun@example.com", Message: "sizing question",
	})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteContactMessage(context.Background(), created.ID))

	err = svc.DeleteContactMessage(context.Background(), created.ID)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}
