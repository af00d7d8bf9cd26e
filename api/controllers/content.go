package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/aurelia-jewels/aurelia-backend/api/responses"
	"github.com/aurelia-jewels/aurelia-backend/api/validators"
	"github.com/aurelia-jewels/aurelia-backend/internal/content"
	"github.com/aurelia-jewels/aurelia-backend/pkg/config"
	pkgerrors "github.com/aurelia-jewels/aurelia-backend/pkg/errors"
	"github.com/aurelia-jewels/aurelia-backend/pkg/logger"
)

// BannerCreate accepts a multipart banner payload.
func BannerCreate(svc content.Service, cfg config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, closeFile, err := bannerInputFromForm(r, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer closeFile()

		banner, err := svc.CreateBanner(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, banner)
	}
}

// BannerList returns every banner.
func BannerList(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		banners, err := svc.ListBanners(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, banners)
	}
}

// BannerUpdate patches banner fields and optionally swaps the image.
func BannerUpdate(svc content.Service, cfg config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "bannerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, closeFile, err := bannerInputFromForm(r, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer closeFile()

		banner, err := svc.UpdateBanner(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, banner)
	}
}

// BannerDelete removes a banner and its image.
func BannerDelete(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "bannerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteBanner(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"message": "Banner deleted"})
	}
}

// BlogCreate accepts a multipart blog post payload.
func BlogCreate(svc content.Service, cfg config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, closeFile, err := blogInputFromForm(r, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer closeFile()

		blog, err := svc.CreateBlog(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, blog)
	}
}

// BlogList returns every blog post.
func BlogList(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogs, err := svc.ListBlogs(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, blogs)
	}
}

// BlogUpdate patches blog fields and optionally swaps the cover image.
func BlogUpdate(svc content.Service, cfg config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "blogId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, closeFile, err := blogInputFromForm(r, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer closeFile()

		blog, err := svc.UpdateBlog(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, blog)
	}
}

// BlogDelete removes a blog post and its cover image.
func BlogDelete(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "blogId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteBlog(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"message": "Blog deleted"})
	}
}

// TestimonialCreate accepts a multipart testimonial payload.
func TestimonialCreate(svc content.Service, cfg config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, closeFile, err := testimonialInputFromForm(r, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer closeFile()

		testimonial, err := svc.CreateTestimonial(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, testimonial)
	}
}

// TestimonialList returns every testimonial.
func TestimonialList(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		testimonials, err := svc.ListTestimonials(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, testimonials)
	}
}

// TestimonialUpdate patches testimonial fields.
func TestimonialUpdate(svc content.Service, cfg config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "testimonialId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, closeFile, err := testimonialInputFromForm(r, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer closeFile()

		testimonial, err := svc.UpdateTestimonial(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, testimonial)
	}
}

// TestimonialDelete removes a testimonial.
func TestimonialDelete(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "testimonialId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteTestimonial(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"message": "Testimonial deleted"})
	}
}

// GiftingGuideCreate accepts a multipart gifting guide tile.
func GiftingGuideCreate(svc content.Service, cfg config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	return tileCreate(cfg, logg, func(r *http.Request, input content.TileInput) (any, error) {
		return svc.CreateGiftingGuide(r.Context(), input)
	})
}

// GiftingGuideList returns every gifting guide tile.
func GiftingGuideList(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guides, err := svc.ListGiftingGuides(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, guides)
	}
}

// GiftingGuideUpdate patches a gifting guide tile.
func GiftingGuideUpdate(svc content.Service, cfg config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	return tileUpdate("guideId", cfg, logg, func(r *http.Request, id uuid.UUID, input content.TileInput) (any, error) {
		return svc.UpdateGiftingGuide(r.Context(), id, input)
	})
}

// GiftingGuideDelete removes a gifting guide tile.
func GiftingGuideDelete(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "guideId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteGiftingGuide(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"message": "Gifting guide deleted"})
	}
}

// NewArrivalCreate accepts a multipart new arrival tile.
func NewArrivalCreate(svc content.Service, cfg config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	return tileCreate(cfg, logg, func(r *http.Request, input content.TileInput) (any, error) {
		return svc.CreateNewArrival(r.Context(), input)
	})
}

// NewArrivalList returns every new arrival tile.
func NewArrivalList(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		arrivals, err := svc.ListNewArrivals(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, arrivals)
	}
}

// NewArrivalUpdate patches a new arrival tile.
func NewArrivalUpdate(svc content.Service, cfg config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	return tileUpdate("arrivalId", cfg, logg, func(r *http.Request, id uuid.UUID, input content.TileInput) (any, error) {
		return svc.UpdateNewArrival(r.Context(), id, input)
	})
}

// NewArrivalDelete removes a new arrival tile.
func NewArrivalDelete(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "arrivalId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteNewArrival(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"message": "New arrival deleted"})
	}
}

// AboutPageGet returns the singleton about page.
func AboutPageGet(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := svc.GetAboutPage(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// AboutPageSave upserts the about page content and image.
func AboutPageSave(svc content.Service, cfg config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := validators.ParseMultipart(r, cfg.MaxUploadMB)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := content.AboutInput{Content: form.Value("content")}
		if input.Content == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "content is required"))
			return
		}

		image, closeFile, err := contentUpload(form)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer closeFile()
		input.Image = image

		page, err := svc.SaveAboutPage(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

type contactRequest struct {
	Name    string  `json:"name" validate:"required"`
	Email   string  `json:"email" validate:"required,email"`
	Phone   *string `json:"phone"`
	Subject *string `json:"subject"`
	Message string  `json:"message" validate:"required"`
}

// ContactMessageCreate stores an inbound contact form submission.
func ContactMessageCreate(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload contactRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		message, err := svc.CreateContactMessage(r.Context(), content.ContactInput{
			Name:    validators.SanitizeString(payload.Name, 200),
			Email:   payload.Email,
			Phone:   payload.Phone,
			Subject: payload.Subject,
			Message: validators.SanitizeString(payload.Message, 5000),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, message)
	}
}

// ContactMessageList returns every stored contact submission.
func ContactMessageList(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListContactMessages(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ContactMessageDelete removes a contact submission.
func ContactMessageDelete(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "messageId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteContactMessage(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"message": "Contact message deleted"})
	}
}

// CustomJewelCreate stores a bespoke jewellery request with a reference image.
func CustomJewelCreate(svc content.Service, cfg config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := validators.ParseMultipart(r, cfg.MaxUploadMB)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := content.CustomJewelInput{
			Name:        form.Value("name"),
			Email:       form.Value("email"),
			Phone:       form.OptionalValue("phone"),
			Description: form.Value("description"),
			Budget:      form.OptionalValue("budget"),
		}

		image, closeFile, err := contentUpload(form)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer closeFile()
		input.Image = image

		request, err := svc.CreateCustomJewelRequest(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, request)
	}
}

// CustomJewelList returns every bespoke request.
func CustomJewelList(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListCustomJewelRequests(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// CustomJewelDelete removes a bespoke request and its image.
func CustomJewelDelete(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteCustomJewelRequest(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"message": "Custom jewel request deleted"})
	}
}

func bannerInputFromForm(r *http.Request, cfg config.UploadsConfig) (content.BannerInput, func(), error) {
	form, err := validators.ParseMultipart(r, cfg.MaxUploadMB)
	if err != nil {
		return content.BannerInput{}, func() {}, err
	}

	active, err := form.OptionalBool("active")
	if err != nil {
		return content.BannerInput{}, func() {}, err
	}

	input := content.BannerInput{
		Link:   form.OptionalValue("link"),
		Text:   form.OptionalValue("text"),
		Active: active,
	}

	image, closeFile, err := contentUpload(form)
	if err != nil {
		return content.BannerInput{}, func() {}, err
	}
	input.Image = image
	return input, closeFile, nil
}

func blogInputFromForm(r *http.Request, cfg config.UploadsConfig) (content.BlogInput, func(), error) {
	form, err := validators.ParseMultipart(r, cfg.MaxUploadMB)
	if err != nil {
		return content.BlogInput{}, func() {}, err
	}

	input := content.BlogInput{
		Title:   form.OptionalValue("title"),
		Content: form.OptionalValue("content"),
		Author:  form.OptionalValue("author"),
	}

	image, closeFile, err := contentUpload(form)
	if err != nil {
		return content.BlogInput{}, func() {}, err
	}
	input.Image = image
	return input, closeFile, nil
}

func testimonialInputFromForm(r *http.Request, cfg config.UploadsConfig) (content.TestimonialInput, func(), error) {
	form, err := validators.ParseMultipart(r, cfg.MaxUploadMB)
	if err != nil {
		return content.TestimonialInput{}, func() {}, err
	}

	visible, err := form.OptionalBool("visible")
	if err != nil {
		return content.TestimonialInput{}, func() {}, err
	}

	input := content.TestimonialInput{
		Name:        form.OptionalValue("name"),
		Message:     form.OptionalValue("message"),
		Designation: form.OptionalValue("designation"),
		Company:     form.OptionalValue("company"),
		Visible:     visible,
	}

	image, closeFile, err := contentUpload(form)
	if err != nil {
		return content.TestimonialInput{}, func() {}, err
	}
	input.Image = image
	return input, closeFile, nil
}

func tileInputFromForm(r *http.Request, cfg config.UploadsConfig) (content.TileInput, func(), error) {
	form, err := validators.ParseMultipart(r, cfg.MaxUploadMB)
	if err != nil {
		return content.TileInput{}, func() {}, err
	}

	input := content.TileInput{
		Title: form.OptionalValue("title"),
		Link:  form.OptionalValue("link"),
	}

	image, closeFile, err := contentUpload(form)
	if err != nil {
		return content.TileInput{}, func() {}, err
	}
	input.Image = image
	return input, closeFile, nil
}

func contentUpload(form *validators.MultipartForm) (*content.Upload, func(), error) {
	headers := form.Files("image")
	if len(headers) == 0 {
		return nil, func() {}, nil
	}
	files, closeFiles, err := openFormFiles(headers[:1])
	if err != nil {
		return nil, func() {}, err
	}
	return &content.Upload{Filename: files[0].Name, Reader: files[0].File}, closeFiles, nil
}

func tileCreate(cfg config.UploadsConfig, logg *logger.Logger, create func(*http.Request, content.TileInput) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, closeFile, err := tileInputFromForm(r, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer closeFile()

		tile, err := create(r, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, tile)
	}
}

func tileUpdate(param string, cfg config.UploadsConfig, logg *logger.Logger, update func(*http.Request, uuid.UUID, content.TileInput) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, param)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, closeFile, err := tileInputFromForm(r, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer closeFile()

		tile, err := update(r, id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tile)
	}
}
