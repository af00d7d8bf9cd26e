package content

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aurelia-jewels/aurelia-backend/internal/repo"
	"github.com/aurelia-jewels/aurelia-backend/pkg/db/models"
)

// Repository persists the storefront content slices. All slices share
// the same access pattern, so the typed methods lean on small generic
// helpers over the shared base.
type Repository struct {
	base repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{base: repo.NewBase(db)}
}

func createRow[T any](ctx context.Context, base repo.Base, row *T) (*T, error) {
	if err := base.DB(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func findRow[T any](ctx context.Context, base repo.Base, id uuid.UUID) (*T, error) {
	var row T
	if err := base.DB(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func listRows[T any](ctx context.Context, base repo.Base, order string) ([]T, error) {
	var rows []T
	if err := base.DB(ctx).Order(order).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func saveRow[T any](ctx context.Context, base repo.Base, row *T) (*T, error) {
	if err := base.DB(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func deleteRow[T any](ctx context.Context, base repo.Base, id uuid.UUID) (int64, error) {
	var row T
	result := base.DB(ctx).Delete(&row, "id = ?", id)
	return result.RowsAffected, result.Error
}

func (r *Repository) CreateBanner(ctx context.Context, banner *models.Banner) (*models.Banner, error) {
	return createRow(ctx, r.base, banner)
}

func (r *Repository) FindBanner(ctx context.Context, id uuid.UUID) (*models.Banner, error) {
	return findRow[models.Banner](ctx, r.base, id)
}

func (r *Repository) ListBanners(ctx context.Context) ([]models.Banner, error) {
	return listRows[models.Banner](ctx, r.base, "created_at DESC")
}

func (r *Repository) UpdateBanner(ctx context.Context, banner *models.Banner) (*models.Banner, error) {
	return saveRow(ctx, r.base, banner)
}

func (r *Repository) DeleteBanner(ctx context.Context, id uuid.UUID) (int64, error) {
	return deleteRow[models.Banner](ctx, r.base, id)
}

func (r *Repository) CreateBlog(ctx context.Context, blog *models.Blog) (*models.Blog, error) {
	return createRow(ctx, r.base, blog)
}

func (r *Repository) FindBlog(ctx context.Context, id uuid.UUID) (*models.Blog, error) {
	return findRow[models.Blog](ctx, r.base, id)
}

func (r *Repository) ListBlogs(ctx context.Context) ([]models.Blog, error) {
	return listRows[models.Blog](ctx, r.base, "created_at DESC")
}

func (r *Repository) UpdateBlog(ctx context.Context, blog *models.Blog) (*models.Blog, error) {
	return saveRow(ctx, r.base, blog)
}

func (r *Repository) DeleteBlog(ctx context.Context, id uuid.UUID) (int64, error) {
	return deleteRow[models.Blog](ctx, r.base, id)
}

func (r *Repository) CreateTestimonial(ctx context.Context, testimonial *models.Testimonial) (*models.Testimonial, error) {
	return createRow(ctx, r.base, testimonial)
}

func (r *Repository) FindTestimonial(ctx context.Context, id uuid.UUID) (*models.Testimonial, error) {
	return findRow[models.Testimonial](ctx, r.base, id)
}

func (r *Repository) ListTestimonials(ctx context.Context) ([]models.Testimonial, error) {
	return listRows[models.Testimonial](ctx, r.base, "created_at DESC")
}

func (r *Repository) UpdateTestimonial(ctx context.Context, testimonial *models.Testimonial) (*models.Testimonial, error) {
	return saveRow(ctx, r.base, testimonial)
}

func (r *Repository) DeleteTestimonial(ctx context.Context, id uuid.UUID) (int64, error) {
	return deleteRow[models.Testimonial](ctx, r.base, id)
}

func (r *Repository) CreateGiftingGuide(ctx context.Context, guide *models.GiftingGuide) (*models.GiftingGuide, error) {
	return createRow(ctx, r.base, guide)
}

func (r *Repository) FindGiftingGuide(ctx context.Context, id uuid.UUID) (*models.GiftingGuide, error) {
	return findRow[models.GiftingGuide](ctx, r.base, id)
}

func (r *Repository) ListGiftingGuides(ctx context.Context) ([]models.GiftingGuide, error) {
	return listRows[models.GiftingGuide](ctx, r.base, "created_at DESC")
}

func (r *Repository) UpdateGiftingGuide(ctx context.Context, guide *models.GiftingGuide) (*models.GiftingGuide, error) {
	return saveRow(ctx, r.base, guide)
}

func (r *Repository) DeleteGiftingGuide(ctx context.Context, id uuid.UUID) (int64, error) {
	return deleteRow[models.GiftingGuide](ctx, r.base, id)
}

func (r *Repository) CreateNewArrival(ctx context.Context, arrival *models.NewArrival) (*models.NewArrival, error) {
	return createRow(ctx, r.base, arrival)
}

func (r *Repository) FindNewArrival(ctx context.Context, id uuid.UUID) (*models.NewArrival, error) {
	return findRow[models.NewArrival](ctx, r.base, id)
}

func (r *Repository) ListNewArrivals(ctx context.Context) ([]models.NewArrival, error) {
	return listRows[models.NewArrival](ctx, r.base, "created_at DESC")
}

func (r *Repository) UpdateNewArrival(ctx context.Context, arrival *models.NewArrival) (*models.NewArrival, error) {
	return saveRow(ctx, r.base, arrival)
}

func (r *Repository) DeleteNewArrival(ctx context.Context, id uuid.UUID) (int64, error) {
	return deleteRow[models.NewArrival](ctx, r.base, id)
}

// GetAboutPage returns the single about-us row if present.
func (r *Repository) GetAboutPage(ctx context.Context) (*models.AboutPage, error) {
	var page models.AboutPage
	if err := r.base.DB(ctx).First(&page).Error; err != nil {
		return nil, err
	}
	return &page, nil
}

// SaveAboutPage creates or replaces the single about-us row.
func (r *Repository) SaveAboutPage(ctx context.Context, page *models.AboutPage) (*models.AboutPage, error) {
	return saveRow(ctx, r.base, page)
}

func (r *Repository) CreateContactMessage(ctx context.Context, message *models.ContactMessage) (*models.ContactMessage, error) {
	return createRow(ctx, r.base, message)
}

func (r *Repository) ListContactMessages(ctx context.Context) ([]models.ContactMessage, error) {
	return listRows[models.ContactMessage](ctx, r.base, "created_at DESC")
}

func (r *Repository) DeleteContactMessage(ctx context.Context, id uuid.UUID) (int64, error) {
	return deleteRow[models.ContactMessage](ctx, r.base, id)
}

func (r *Repository) CreateCustomJewelRequest(ctx context.Context, request *models.CustomJewelRequest) (*models.CustomJewelRequest, error) {
	return createRow(ctx, r.base, request)
}

func (r *Repository) ListCustomJewelRequests(ctx context.Context) ([]models.CustomJewelRequest, error) {
	return listRows[models.CustomJewelRequest](ctx, r.base, "created_at DESC")
}

func (r *Repository) DeleteCustomJewelRequest(ctx context.Context, id uuid.UUID) (int64, error) {
	return deleteRow[models.CustomJewelRequest](ctx, r.base, id)
}
