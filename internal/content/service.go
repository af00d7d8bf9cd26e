package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aurelia-jewels/aurelia-backend/pkg/db/models"
	pkgerrors "github.com/aurelia-jewels/aurelia-backend/pkg/errors"
	"github.com/aurelia-jewels/aurelia-backend/pkg/logger"
)

// Service manages the storefront content slices.
type Service interface {
	CreateBanner(ctx context.Context, input BannerInput) (*models.Banner, error)
	ListBanners(ctx context.Context) ([]models.Banner, error)
	UpdateBanner(ctx context.Context, id uuid.UUID, input BannerInput) (*models.Banner, error)
	DeleteBanner(ctx context.Context, id uuid.UUID) error

	CreateBlog(ctx context.Context, input BlogInput) (*models.Blog, error)
	ListBlogs(ctx context.Context) ([]models.Blog, error)
	UpdateBlog(ctx context.Context, id uuid.UUID, input BlogInput) (*models.Blog, error)
	DeleteBlog(ctx context.Context, id uuid.UUID) error

	CreateTestimonial(ctx context.Context, input TestimonialInput) (*models.Testimonial, error)
	ListTestimonials(ctx context.Context) ([]models.Testimonial, error)
	UpdateTestimonial(ctx context.Context, id uuid.UUID, input TestimonialInput) (*models.Testimonial, error)
	DeleteTestimonial(ctx context.Context, id uuid.UUID) error

	CreateGiftingGuide(ctx context.Context, input TileInput) (*models.GiftingGuide, error)
	ListGiftingGuides(ctx context.Context) ([]models.GiftingGuide, error)
	UpdateGiftingGuide(ctx context.Context, id uuid.UUID, input TileInput) (*models.GiftingGuide, error)
	DeleteGiftingGuide(ctx context.Context, id uuid.UUID) error

	CreateNewArrival(ctx context.Context, input TileInput) (*models.NewArrival, error)
	ListNewArrivals(ctx context.Context) ([]models.NewArrival, error)
	UpdateNewArrival(ctx context.Context, id uuid.UUID, input TileInput) (*models.NewArrival, error)
	DeleteNewArrival(ctx context.Context, id uuid.UUID) error

	GetAboutPage(ctx context.Context) (*models.AboutPage, error)
	SaveAboutPage(ctx context.Context, input AboutInput) (*models.AboutPage, error)

	CreateContactMessage(ctx context.Context, input ContactInput) (*models.ContactMessage, error)
	ListContactMessages(ctx context.Context) ([]models.ContactMessage, error)
	DeleteContactMessage(ctx context.Context, id uuid.UUID) error

	CreateCustomJewelRequest(ctx context.Context, input CustomJewelInput) (*models.CustomJewelRequest, error)
	ListCustomJewelRequests(ctx context.Context) ([]models.CustomJewelRequest, error)
	DeleteCustomJewelRequest(ctx context.Context, id uuid.UUID) error
}

// Upload is one file from a multipart content payload.
type Upload struct {
	Filename string
	Reader   io.Reader
}

type BannerInput struct {
	Image  *Upload
	Link   *string
	Text   *string
	Active *bool
}

type BlogInput struct {
	Title   *string
	Content *string
	Author  *string
	Image   *Upload
}

type TestimonialInput struct {
	Name        *string
	Message     *string
	Designation *string
	Company     *string
	Visible     *bool
	Image       *Upload
}

// TileInput covers the title/image/link slices (gifting guides, new arrivals).
type TileInput struct {
	Title *string
	Link  *string
	Image *Upload
}

type AboutInput struct {
	Content string
	Image   *Upload
}

type ContactInput struct {
	Name    string
	Email   string
	Phone   *string
	Subject *string
	Message string
}

type CustomJewelInput struct {
	Name        string
	Email       string
	Phone       *string
	Description string
	Budget      *string
	Image       *Upload
}

type imageStore interface {
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
	Remove(ctx context.Context, publicPath string) error
}

type mailer interface {
	Send(ctx context.Context, toEmail, subject, body string) error
}

type service struct {
	repo   *Repository
	images imageStore
	mail   mailer
	logg   *logger.Logger
}

// NewService constructs a content service instance.
func NewService(repo *Repository, images imageStore, mail mailer, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("content repository required")
	}
	if images == nil {
		return nil, fmt.Errorf("image store required")
	}
	if mail == nil {
		return nil, fmt.Errorf("mailer required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, images: images, mail: mail, logg: logg}, nil
}

func (s *service) CreateBanner(ctx context.Context, input BannerInput) (*models.Banner, error) {
	if input.Image == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "banner image is required")
	}
	path, err := s.saveImage(ctx, input.Image)
	if err != nil {
		return nil, err
	}

	banner := &models.Banner{Image: path, Link: input.Link, Text: input.Text, Active: true}
	if input.Active != nil {
		banner.Active = *input.Active
	}
	created, err := s.repo.CreateBanner(ctx, banner)
	if err != nil {
		s.removeImage(ctx, path)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create banner")
	}
	return created, nil
}

func (s *service) ListBanners(ctx context.Context) ([]models.Banner, error) {
	out, err := s.repo.ListBanners(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list banners")
	}
	return out, nil
}

func (s *service) UpdateBanner(ctx context.Context, id uuid.UUID, input BannerInput) (*models.Banner, error) {
	banner, err := s.repo.FindBanner(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Banner not found", "db: load banner")
	}

	previous := ""
	if input.Image != nil {
		path, err := s.saveImage(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		previous = banner.Image
		banner.Image = path
	}
	if input.Link != nil {
		banner.Link = input.Link
	}
	if input.Text != nil {
		banner.Text = input.Text
	}
	if input.Active != nil {
		banner.Active = *input.Active
	}

	updated, err := s.repo.UpdateBanner(ctx, banner)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update banner")
	}
	s.removeImage(ctx, previous)
	return updated, nil
}

func (s *service) DeleteBanner(ctx context.Context, id uuid.UUID) error {
	banner, err := s.repo.FindBanner(ctx, id)
	if err != nil {
		return notFoundOr(err, "Banner not found", "db: load banner")
	}
	if _, err := s.repo.DeleteBanner(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete banner")
	}
	s.removeImage(ctx, banner.Image)
	return nil
}

func (s *service) CreateBlog(ctx context.Context, input BlogInput) (*models.Blog, error) {
	if input.Title == nil || strings.TrimSpace(*input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "blog title is required")
	}
	if input.Content == nil || strings.TrimSpace(*input.Content) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "blog content is required")
	}

	blog := &models.Blog{Title: strings.TrimSpace(*input.Title), Content: *input.Content, Author: input.Author}
	if input.Image != nil {
		path, err := s.saveImage(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		blog.Image = &path
	}

	created, err := s.repo.CreateBlog(ctx, blog)
	if err != nil {
		if blog.Image != nil {
			s.removeImage(ctx, *blog.Image)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create blog")
	}
	return created, nil
}

func (s *service) ListBlogs(ctx context.Context) ([]models.Blog, error) {
	out, err := s.repo.ListBlogs(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list blogs")
	}
	return out, nil
}

func (s *service) UpdateBlog(ctx context.Context, id uuid.UUID, input BlogInput) (*models.Blog, error) {
	blog, err := s.repo.FindBlog(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Blog not found", "db: load blog")
	}

	if input.Title != nil {
		blog.Title = strings.TrimSpace(*input.Title)
	}
	if input.Content != nil {
		blog.Content = *input.Content
	}
	if input.Author != nil {
		blog.Author = input.Author
	}
	previous := ""
	if input.Image != nil {
		path, err := s.saveImage(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		if blog.Image != nil {
			previous = *blog.Image
		}
		blog.Image = &path
	}

	updated, err := s.repo.UpdateBlog(ctx, blog)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update blog")
	}
	s.removeImage(ctx, previous)
	return updated, nil
}

func (s *service) DeleteBlog(ctx context.Context, id uuid.UUID) error {
	blog, err := s.repo.FindBlog(ctx, id)
	if err != nil {
		return notFoundOr(err, "Blog not found", "db: load blog")
	}
	if _, err := s.repo.DeleteBlog(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete blog")
	}
	if blog.Image != nil {
		s.removeImage(ctx, *blog.Image)
	}
	return nil
}

func (s *service) CreateTestimonial(ctx context.Context, input TestimonialInput) (*models.Testimonial, error) {
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "testimonial name is required")
	}
	if input.Message == nil || strings.TrimSpace(*input.Message) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "testimonial message is required")
	}

	testimonial := &models.Testimonial{
		Name:        strings.TrimSpace(*input.Name),
		Message:     *input.Message,
		Designation: input.Designation,
		Company:     input.Company,
		Visible:     true,
	}
	if input.Visible != nil {
		testimonial.Visible = *input.Visible
	}
	if input.Image != nil {
		path, err := s.saveImage(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		testimonial.Image = &path
	}

	created, err := s.repo.CreateTestimonial(ctx, testimonial)
	if err != nil {
		if testimonial.Image != nil {
			s.removeImage(ctx, *testimonial.Image)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create testimonial")
	}
	return created, nil
}

func (s *service) ListTestimonials(ctx context.Context) ([]models.Testimonial, error) {
	out, err := s.repo.ListTestimonials(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list testimonials")
	}
	return out, nil
}

func (s *service) UpdateTestimonial(ctx context.Context, id uuid.UUID, input TestimonialInput) (*models.Testimonial, error) {
	testimonial, err := s.repo.FindTestimonial(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Testimonial not found", "db: load testimonial")
	}

	if input.Name != nil {
		testimonial.Name = strings.TrimSpace(*input.Name)
	}
	if input.Message != nil {
		testimonial.Message = *input.Message
	}
	if input.Designation != nil {
		testimonial.Designation = input.Designation
	}
	if input.Company != nil {
		testimonial.Company = input.Company
	}
	if input.Visible != nil {
		testimonial.Visible = *input.Visible
	}
	previous := ""
	if input.Image != nil {
		path, err := s.saveImage(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		if testimonial.Image != nil {
			previous = *testimonial.Image
		}
		testimonial.Image = &path
	}

	updated, err := s.repo.UpdateTestimonial(ctx, testimonial)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update testimonial")
	}
	s.removeImage(ctx, previous)
	return updated, nil
}

func (s *service) DeleteTestimonial(ctx context.Context, id uuid.UUID) error {
	testimonial, err := s.repo.FindTestimonial(ctx, id)
	if err != nil {
		return notFoundOr(err, "Testimonial not found", "db: load testimonial")
	}
	if _, err := s.repo.DeleteTestimonial(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete testimonial")
	}
	if testimonial.Image != nil {
		s.removeImage(ctx, *testimonial.Image)
	}
	return nil
}

func (s *service) CreateGiftingGuide(ctx context.Context, input TileInput) (*models.GiftingGuide, error) {
	title, image, err := s.tileFields(ctx, input)
	if err != nil {
		return nil, err
	}
	guide := &models.GiftingGuide{Title: title, Image: image, Link: input.Link}
	created, err := s.repo.CreateGiftingGuide(ctx, guide)
	if err != nil {
		if image != nil {
			s.removeImage(ctx, *image)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create gifting guide")
	}
	return created, nil
}

func (s *service) ListGiftingGuides(ctx context.Context) ([]models.GiftingGuide, error) {
	out, err := s.repo.ListGiftingGuides(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list gifting guides")
	}
	return out, nil
}

func (s *service) UpdateGiftingGuide(ctx context.Context, id uuid.UUID, input TileInput) (*models.GiftingGuide, error) {
	guide, err := s.repo.FindGiftingGuide(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Gifting guide not found", "db: load gifting guide")
	}
	previous, err := s.applyTileUpdates(ctx, &guide.Title, &guide.Image, &guide.Link, input)
	if err != nil {
		return nil, err
	}
	updated, err := s.repo.UpdateGiftingGuide(ctx, guide)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update gifting guide")
	}
	s.removeImage(ctx, previous)
	return updated, nil
}

func (s *service) DeleteGiftingGuide(ctx context.Context, id uuid.UUID) error {
	guide, err := s.repo.FindGiftingGuide(ctx, id)
	if err != nil {
		return notFoundOr(err, "Gifting guide not found", "db: load gifting guide")
	}
	if _, err := s.repo.DeleteGiftingGuide(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete gifting guide")
	}
	if guide.Image != nil {
		s.removeImage(ctx, *guide.Image)
	}
	return nil
}

func (s *service) CreateNewArrival(ctx context.Context, input TileInput) (*models.NewArrival, error) {
	title, image, err := s.tileFields(ctx, input)
	if err != nil {
		return nil, err
	}
	arrival := &models.NewArrival{Title: title, Image: image, Link: input.Link}
	created, err := s.repo.CreateNewArrival(ctx, arrival)
	if err != nil {
		if image != nil {
			s.removeImage(ctx, *image)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create new arrival")
	}
	return created, nil
}

func (s *service) ListNewArrivals(ctx context.Context) ([]models.NewArrival, error) {
	out, err := s.repo.ListNewArrivals(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list new arrivals")
	}
	return out, nil
}

func (s *service) UpdateNewArrival(ctx context.Context, id uuid.UUID, input TileInput) (*models.NewArrival, error) {
	arrival, err := s.repo.FindNewArrival(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "New arrival not found", "db: load new arrival")
	}
	previous, err := s.applyTileUpdates(ctx, &arrival.Title, &arrival.Image, &arrival.Link, input)
	if err != nil {
		return nil, err
	}
	updated, err := s.repo.UpdateNewArrival(ctx, arrival)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update new arrival")
	}
	s.removeImage(ctx, previous)
	return updated, nil
}

func (s *service) DeleteNewArrival(ctx context.Context, id uuid.UUID) error {
	arrival, err := s.repo.FindNewArrival(ctx, id)
	if err != nil {
		return notFoundOr(err, "New arrival not found", "db: load new arrival")
	}
	if _, err := s.repo.DeleteNewArrival(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete new arrival")
	}
	if arrival.Image != nil {
		s.removeImage(ctx, *arrival.Image)
	}
	return nil
}

func (s *service) GetAboutPage(ctx context.Context) (*models.AboutPage, error) {
	page, err := s.repo.GetAboutPage(ctx)
	if err != nil {
		return nil, notFoundOr(err, "About page not found", "db: load about page")
	}
	return page, nil
}

// SaveAboutPage upserts the single about-us document.
func (s *service) SaveAboutPage(ctx context.Context, input AboutInput) (*models.AboutPage, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "about content is required")
	}

	page, err := s.repo.GetAboutPage(ctx)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load about page")
		}
		page = &models.AboutPage{}
	}

	page.Content = input.Content
	previous := ""
	if input.Image != nil {
		path, err := s.saveImage(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		if page.Image != nil {
			previous = *page.Image
		}
		page.Image = &path
	}

	saved, err := s.repo.SaveAboutPage(ctx, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save about page")
	}
	s.removeImage(ctx, previous)
	return saved, nil
}

func (s *service) CreateContactMessage(ctx context.Context, input ContactInput) (*models.ContactMessage, error) {
	message := &models.ContactMessage{
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.TrimSpace(input.Email),
		Phone:   input.Phone,
		Subject: input.Subject,
		Message: input.Message,
	}
	if message.Name == "" || message.Email == "" || strings.TrimSpace(message.Message) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name, email and message are required")
	}

	created, err := s.repo.CreateContactMessage(ctx, message)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create contact message")
	}
	return created, nil
}

func (s *service) ListContactMessages(ctx context.Context) ([]models.ContactMessage, error) {
	out, err := s.repo.ListContactMessages(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list contact messages")
	}
	return out, nil
}

func (s *service) DeleteContactMessage(ctx context.Context, id uuid.UUID) error {
	affected, err := s.repo.DeleteContactMessage(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete contact message")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Contact message not found")
	}
	return nil
}

func (s *service) CreateCustomJewelRequest(ctx context.Context, input CustomJewelInput) (*models.CustomJewelRequest, error) {
	request := &models.CustomJewelRequest{
		Name:        strings.TrimSpace(input.Name),
		Email:       strings.TrimSpace(input.Email),
		Phone:       input.Phone,
		Description: strings.TrimSpace(input.Description),
		Budget:      input.Budget,
	}
	if request.Name == "" || request.Email == "" || request.Description == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name, email and description are required")
	}
	if input.Image != nil {
		path, err := s.saveImage(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		request.Image = &path
	}

	created, err := s.repo.CreateCustomJewelRequest(ctx, request)
	if err != nil {
		if request.Image != nil {
			s.removeImage(ctx, *request.Image)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create custom jewel request")
	}

	// confirmation is best effort; the request is already stored
	if err := s.mail.Send(ctx, created.Email, "We received your custom jewel request",
		fmt.Sprintf("Hi %s, thank you for your custom design inquiry. Our team will reach out shortly.", created.Name)); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "request_id", created.ID.String()), "content.custom_jewels.email_failed")
	}
	return created, nil
}

func (s *service) ListCustomJewelRequests(ctx context.Context) ([]models.CustomJewelRequest, error) {
	out, err := s.repo.ListCustomJewelRequests(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list custom jewel requests")
	}
	return out, nil
}

func (s *service) DeleteCustomJewelRequest(ctx context.Context, id uuid.UUID) error {
	affected, err := s.repo.DeleteCustomJewelRequest(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete custom jewel request")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Custom jewel request not found")
	}
	return nil
}

func (s *service) tileFields(ctx context.Context, input TileInput) (string, *string, error) {
	if input.Title == nil || strings.TrimSpace(*input.Title) == "" {
		return "", nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	var image *string
	if input.Image != nil {
		path, err := s.saveImage(ctx, input.Image)
		if err != nil {
			return "", nil, err
		}
		image = &path
	}
	return strings.TrimSpace(*input.Title), image, nil
}

// applyTileUpdates mutates a tile in place and returns the replaced image
// path, if any, so the caller can purge it after a successful save.
func (s *service) applyTileUpdates(ctx context.Context, title *string, image **string, link **string, input TileInput) (string, error) {
	if input.Title != nil {
		*title = strings.TrimSpace(*input.Title)
	}
	if input.Link != nil {
		*link = input.Link
	}
	previous := ""
	if input.Image != nil {
		path, err := s.saveImage(ctx, input.Image)
		if err != nil {
			return "", err
		}
		if *image != nil {
			previous = **image
		}
		*image = &path
	}
	return previous, nil
}

func (s *service) saveImage(ctx context.Context, upload *Upload) (string, error) {
	path, err := s.images.Save(ctx, upload.Filename, upload.Reader)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storage: save image")
	}
	return path, nil
}

func (s *service) removeImage(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.images.Remove(ctx, path); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "path", path), "content.image.remove_failed")
	}
}

func notFoundOr(err error, message, wrapMessage string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, message)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, wrapMessage)
}
