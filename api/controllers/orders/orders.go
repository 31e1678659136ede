package orders

import (
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sajpos/counter-backend/api/responses"
	"github.com/sajpos/counter-backend/api/validators"
	internalorders "github.com/sajpos/counter-backend/internal/orders"
	"github.com/sajpos/counter-backend/pkg/enums"
	pkgerrors "github.com/sajpos/counter-backend/pkg/errors"
	"github.com/sajpos/counter-backend/pkg/logger"
)

type createOrderItemRequest struct {
	ProductID   int64   `json:"productId" validate:"required,gt=0"`
	Quantity    int     `json:"quantity" validate:"required,min=1"`
	ModifierIDs []int64 `json:"modifierIds"`
	Notes       *string `json:"notes"`
}

type createOrderRequest struct {
	Type     string                   `json:"type" validate:"required,oneof=takeaway delivery dinein"`
	Status   string                   `json:"status" validate:"omitempty,oneof=draft kitchen"`
	Notes    *string                  `json:"notes"`
	Discount decimal.Decimal          `json:"discount"`
	Items    []createOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// Create persists a new order, optionally submitting it to the kitchen in
// the same call.
func Create(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderType, err := enums.ParseOrderType(payload.Type)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order type"))
			return
		}
		status := enums.OrderStatusDraft
		if payload.Status != "" {
			status, err = enums.ParseOrderStatus(payload.Status)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status"))
				return
			}
		}

		input := internalorders.CreateOrderInput{
			Type:     orderType,
			Status:   status,
			Notes:    payload.Notes,
			Discount: payload.Discount,
		}
		for _, item := range payload.Items {
			input.Items = append(input.Items, internalorders.CreateOrderItemInput{
				ProductID:   item.ProductID,
				Quantity:    item.Quantity,
				ModifierIDs: item.ModifierIDs,
				Notes:       item.Notes,
			})
		}

		order, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// List returns orders, newest first, optionally filtered by day, status,
// and type.
func List(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var filters internalorders.Filters
		if raw := strings.TrimSpace(r.URL.Query().Get("date")); raw != "" {
			day, err := time.ParseInLocation("2006-01-02", raw, time.Local)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "date must be formatted YYYY-MM-DD"))
				return
			}
			filters.Date = &day
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseOrderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status"))
				return
			}
			filters.Status = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
			orderType, err := enums.ParseOrderType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order type"))
				return
			}
			filters.Type = &orderType
		}

		orders, err := svc.List(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders)
	}
}

// Get returns one order with its lines and modifiers.
func Get(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := validators.ParseIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetByID(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

type updateOrderRequest struct {
	Type     *string          `json:"type" validate:"omitempty,oneof=takeaway delivery dinein"`
	Notes    *string          `json:"notes"`
	Discount *decimal.Decimal `json:"discount"`
}

// Update patches a draft order. Orders past the draft stage report not
// found rather than exposing which stage they reached.
func Update(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := validators.ParseIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		patch := internalorders.UpdateOrderInput{
			Notes:    payload.Notes,
			Discount: payload.Discount,
		}
		if payload.Type != nil {
			orderType, err := enums.ParseOrderType(*payload.Type)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order type"))
				return
			}
			patch.Type = &orderType
		}

		updated, err := svc.Update(r.Context(), orderID, patch)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !updated {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found or not updatable"))
			return
		}

		order, err := svc.GetByID(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// SendToKitchen submits a draft order, which assigns its order number.
func SendToKitchen(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := validators.ParseIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.SendToKitchen(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// Cancel voids an order that has not yet been settled.
func Cancel(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := validators.ParseIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Cancel(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// Delete removes an order and its lines outright.
func Delete(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := validators.ParseIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), orderID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int64{"id": orderID})
	}
}
