package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aurelia-jewels/aurelia-backend/api/responses"
	"github.com/aurelia-jewels/aurelia-backend/api/validators"
	"github.com/aurelia-jewels/aurelia-backend/internal/catalog"
	"github.com/aurelia-jewels/aurelia-backend/pkg/config"
	pkgerrors "github.com/aurelia-jewels/aurelia-backend/pkg/errors"
	"github.com/aurelia-jewels/aurelia-backend/pkg/logger"
	"github.com/aurelia-jewels/aurelia-backend/pkg/pagination"
)

// ProductCreate handles the multipart product creation form, including the
// per-metal image fields produced by the variation composer.
func ProductCreate(svc catalog.Service, cfg config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := validators.ParseMultipart(r, cfg.MaxUploadMB)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.CreateProductInput{
			Name:          form.Value("name"),
			SKU:           form.Value("sku"),
			Description:   form.OptionalValue("description"),
			CategoryName:  form.Value("category"),
			Subcategory:   form.OptionalValue("subcategory"),
			Gender:        form.OptionalValue("gender"),
			VariationsRaw: form.Value("variations"),
		}
		if input.Name == "" || input.SKU == "" || input.CategoryName == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "name, sku and category are required"))
			return
		}

		if input.InStock, err = form.Bool("inStock", true); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.BestSelling, err = form.Bool("bestSelling", false); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.HasVariations, err = form.Bool("hasVariations", false); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.Quantity, err = form.Int("quantity", 0); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.Discount, err = form.Decimal("discount"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.RegularPrice, err = form.Decimal("regularPrice"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.SalePrice, err = form.Decimal("salePrice"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		uploads, closeFiles, err := collectUploads(form)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer closeFiles()
		input.Uploads = uploads

		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// ProductUpdate applies a partial multipart update, reconciling variations.
func ProductUpdate(svc catalog.Service, cfg config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		form, err := validators.ParseMultipart(r, cfg.MaxUploadMB)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.UpdateProductInput{
			Name:          form.OptionalValue("name"),
			SKU:           form.OptionalValue("sku"),
			Description:   form.OptionalValue("description"),
			CategoryName:  form.OptionalValue("category"),
			Subcategory:   form.OptionalValue("subcategory"),
			Gender:        form.OptionalValue("gender"),
			VariationsRaw: form.OptionalValue("variations"),
		}
		if input.InStock, err = form.OptionalBool("inStock"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.BestSelling, err = form.OptionalBool("bestSelling"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.HasVariations, err = form.OptionalBool("hasVariations"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.Quantity, err = form.OptionalInt("quantity"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.Discount, err = form.Decimal("discount"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.RegularPrice, err = form.Decimal("regularPrice"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.SalePrice, err = form.Decimal("salePrice"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		uploads, closeFiles, err := collectUploads(form)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer closeFiles()
		input.Uploads = uploads

		product, err := svc.UpdateProduct(r.Context(), productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ProductGet returns one product with derived fields, optionally narrowed to a
// diamond shape and shank selection.
func ProductGet(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), productID, catalog.DetailOptions{
			DiamondShape: strings.TrimSpace(r.URL.Query().Get("diamondShape")),
			ShankType:    strings.TrimSpace(r.URL.Query().Get("shankType")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ProductList applies the catalog filter engine with cursor pagination.
func ProductList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := listFilterFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListProducts(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func listFilterFromQuery(r *http.Request) (catalog.ListFilter, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return catalog.ListFilter{}, err
	}

	filter := catalog.ListFilter{
		Category:      strings.TrimSpace(r.URL.Query().Get("category")),
		Subcategory:   strings.TrimSpace(r.URL.Query().Get("subcategory")),
		Name:          strings.TrimSpace(r.URL.Query().Get("name")),
		Gender:        strings.TrimSpace(r.URL.Query().Get("gender")),
		Metals:        csvParam(r, "metals"),
		DiamondShapes: csvParam(r, "diamondShapes"),
		Cursor:        strings.TrimSpace(r.URL.Query().Get("cursor")),
		Limit:         limit,
	}

	if filter.InStock, err = boolParam(r, "inStock"); err != nil {
		return catalog.ListFilter{}, err
	}
	if filter.BestSelling, err = boolParam(r, "bestSelling"); err != nil {
		return catalog.ListFilter{}, err
	}
	if filter.HasVariations, err = boolParam(r, "hasVariations"); err != nil {
		return catalog.ListFilter{}, err
	}
	if filter.MinSalePrice, err = decimalParam(r, "minPrice"); err != nil {
		return catalog.ListFilter{}, err
	}
	if filter.MaxSalePrice, err = decimalParam(r, "maxPrice"); err != nil {
		return catalog.ListFilter{}, err
	}
	return filter, nil
}

// ProductDelete removes one product, its variations, and their images.
func ProductDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"message": "Product deleted"})
	}
}

type multiDeleteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

// ProductsDelete removes a batch of products in one call.
func ProductsDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload multiDeleteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ids := make([]uuid.UUID, 0, len(payload.IDs))
		for _, raw := range payload.IDs {
			id, err := uuid.Parse(strings.TrimSpace(raw))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
				return
			}
			ids = append(ids, id)
		}

		if err := svc.DeleteProducts(r.Context(), ids); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"message": "Products deleted"})
	}
}

// ProductsTrending lists recently restocked products.
func ProductsTrending(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return simpleProductList(logg, func(r *http.Request, limit int) ([]catalog.ProductDTO, error) {
		return svc.ListTrending(r.Context(), limit)
	})
}

// ProductsBestSelling lists products flagged as best sellers.
func ProductsBestSelling(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return simpleProductList(logg, func(r *http.Request, limit int) ([]catalog.ProductDTO, error) {
		return svc.ListBestSelling(r.Context(), limit)
	})
}

// ProductsOnSale lists discounted products.
func ProductsOnSale(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return simpleProductList(logg, func(r *http.Request, limit int) ([]catalog.ProductDTO, error) {
		return svc.ListOnSale(r.Context(), limit)
	})
}

// ProductsLatestByCategory lists the newest products in one category.
func ProductsLatestByCategory(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := strings.TrimSpace(r.URL.Query().Get("category"))
		if category == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "category is required"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := svc.ListLatestByCategory(r.Context(), category, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, products)
	}
}

func simpleProductList(logg *logger.Logger, fetch func(*http.Request, int) ([]catalog.ProductDTO, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := fetch(r, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, products)
	}
}

func collectUploads(form *validators.MultipartForm) (map[string][]catalog.Upload, func(), error) {
	uploads := map[string][]catalog.Upload{}
	closers := []func(){}
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	for field, headers := range form.FileFields() {
		files, closeFiles, err := openFormFiles(headers)
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		closers = append(closers, closeFiles)
		for _, f := range files {
			uploads[field] = append(uploads[field], catalog.Upload{Filename: f.Name, Reader: f.File})
		}
	}
	return uploads, closeAll, nil
}

func decimalParam(r *http.Request, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	parsed, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a decimal number").WithDetails(map[string]any{"field": key})
	}
	return &parsed, nil
}
