package controllers

import (
	"net/http"

	"github.com/aurelia-jewels/aurelia-backend/api/responses"
	"github.com/aurelia-jewels/aurelia-backend/api/validators"
	"github.com/aurelia-jewels/aurelia-backend/internal/attributes"
	"github.com/aurelia-jewels/aurelia-backend/pkg/config"
	pkgerrors "github.com/aurelia-jewels/aurelia-backend/pkg/errors"
	"github.com/aurelia-jewels/aurelia-backend/pkg/logger"
)

type metalRequest struct {
	Name string `json:"name" validate:"required"`
}

// MetalCreate registers a new metal option.
func MetalCreate(svc attributes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload metalRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		metal, err := svc.CreateMetal(r.Context(), payload.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, metal)
	}
}

// MetalList returns every metal option.
func MetalList(svc attributes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metals, err := svc.ListMetals(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, metals)
	}
}

// MetalDelete removes a metal option.
func MetalDelete(svc attributes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "metalId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteMetal(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"message": "Metal deleted"})
	}
}

// DiamondShapeCreate registers a diamond shape with its swatch image.
func DiamondShapeCreate(svc attributes.Service, cfg config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, image, closeFile, err := attributeForm(r, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer closeFile()

		shape, err := svc.CreateDiamondShape(r.Context(), name, image)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, shape)
	}
}

// DiamondShapeList returns every diamond shape option.
func DiamondShapeList(svc attributes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shapes, err := svc.ListDiamondShapes(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, shapes)
	}
}

// DiamondShapeDelete removes a diamond shape and its image.
func DiamondShapeDelete(svc attributes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "shapeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteDiamondShape(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"message": "Diamond shape deleted"})
	}
}

// ShankCreate registers a shank profile with its swatch image.
func ShankCreate(svc attributes.Service, cfg config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, image, closeFile, err := attributeForm(r, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer closeFile()

		shank, err := svc.CreateShank(r.Context(), name, image)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, shank)
	}
}

// ShankList returns every shank option.
func ShankList(svc attributes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shanks, err := svc.ListShanks(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, shanks)
	}
}

// ShankDelete removes a shank and its image.
func ShankDelete(svc attributes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "shankId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteShank(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"message": "Shank deleted"})
	}
}

func attributeForm(r *http.Request, cfg config.UploadsConfig) (string, *attributes.Upload, func(), error) {
	form, err := validators.ParseMultipart(r, cfg.MaxUploadMB)
	if err != nil {
		return "", nil, func() {}, err
	}

	name := form.Value("name")
	if name == "" {
		return "", nil, func() {}, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	headers := form.Files("image")
	if len(headers) == 0 {
		return name, nil, func() {}, nil
	}
	files, closeFiles, err := openFormFiles(headers[:1])
	if err != nil {
		return "", nil, func() {}, err
	}
	return name, &attributes.Upload{Filename: files[0].Name, Reader: files[0].File}, closeFiles, nil
}
