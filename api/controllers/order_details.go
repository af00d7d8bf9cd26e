package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aurelia-jewels/aurelia-backend/api/responses"
	"github.com/aurelia-jewels/aurelia-backend/api/validators"
	"github.com/aurelia-jewels/aurelia-backend/internal/orders"
	pkgerrors "github.com/aurelia-jewels/aurelia-backend/pkg/errors"
	"github.com/aurelia-jewels/aurelia-backend/pkg/logger"
)

type orderDetailRequest struct {
	ProductID    string           `json:"productId" validate:"required,uuid"`
	VariationIDs []string         `json:"variationIds" validate:"omitempty,dive,uuid"`
	Metal        *string          `json:"metal"`
	DiamondShape *string          `json:"diamondShape"`
	ShankType    *string          `json:"shankType"`
	Size         *string          `json:"size"`
	Price        decimal.Decimal  `json:"price" validate:"required"`
	Discount     *decimal.Decimal `json:"discount"`
	Quantity     int              `json:"quantity"`
}

func (req orderDetailRequest) toInput() (orders.DetailInput, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return orders.DetailInput{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id")
	}
	variationIDs := make([]uuid.UUID, 0, len(req.VariationIDs))
	for _, raw := range req.VariationIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return orders.DetailInput{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid variation id")
		}
		variationIDs = append(variationIDs, id)
	}
	return orders.DetailInput{
		ProductID:    productID,
		VariationIDs: variationIDs,
		Metal:        req.Metal,
		DiamondShape: req.DiamondShape,
		ShankType:    req.ShankType,
		Size:         req.Size,
		Price:        req.Price,
		Discount:     req.Discount,
		Quantity:     req.Quantity,
	}, nil
}

// OrderDetailCreate stages a product line against the caller's pending order.
func OrderDetailCreate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, err := contextAccountID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload orderDetailRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.CreateDetail(r.Context(), accountID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, detail)
	}
}

// OrderDetailUpdate replaces the caller's pending line for one product.
func OrderDetailUpdate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, err := contextAccountID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload orderDetailRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.UpdateDetail(r.Context(), accountID, productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// OrderDetailListMine lists the caller's staged lines.
func OrderDetailListMine(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, err := contextAccountID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		details, err := svc.ListPendingDetails(r.Context(), accountID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, details)
	}
}

// OrderDetailListAll lists staged lines across every account.
func OrderDetailListAll(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		details, err := svc.ListAllDetails(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, details)
	}
}

// OrderDetailDelete removes one staged line.
func OrderDetailDelete(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "detailId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteDetail(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"message": "Order detail deleted"})
	}
}
