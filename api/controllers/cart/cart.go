package cart

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/sajpos/counter-backend/api/responses"
	"github.com/sajpos/counter-backend/api/validators"
	internalcart "github.com/sajpos/counter-backend/internal/cart"
	"github.com/sajpos/counter-backend/pkg/enums"
	pkgerrors "github.com/sajpos/counter-backend/pkg/errors"
	"github.com/sajpos/counter-backend/pkg/logger"
)

// Fetch returns the terminal's cart with derived totals.
func Fetch(svc internalcart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		terminalID, err := validators.TerminalID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.Get(r.Context(), terminalID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

type addItemRequest struct {
	ProductID   int64   `json:"productId" validate:"required,gt=0"`
	ModifierIDs []int64 `json:"modifierIds"`
	Notes       string  `json:"notes"`
	Quantity    int     `json:"quantity" validate:"omitempty,min=1"`
}

// AddItem appends or merges a line into the terminal's cart.
func AddItem(svc internalcart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		terminalID, err := validators.TerminalID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.Quantity == 0 {
			payload.Quantity = 1
		}

		view, err := svc.AddItem(r.Context(), terminalID, internalcart.AddItemInput{
			ProductID:   payload.ProductID,
			ModifierIDs: payload.ModifierIDs,
			Notes:       payload.Notes,
			Quantity:    payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// IncQty bumps one line's quantity.
func IncQty(svc internalcart.Service, logg *logger.Logger) http.HandlerFunc {
	return mutateLine(svc, logg, internalcart.Service.IncQty)
}

// DecQty lowers one line's quantity, floored at 1.
func DecQty(svc internalcart.Service, logg *logger.Logger) http.HandlerFunc {
	return mutateLine(svc, logg, internalcart.Service.DecQty)
}

// RemoveItem deletes one line.
func RemoveItem(svc internalcart.Service, logg *logger.Logger) http.HandlerFunc {
	return mutateLine(svc, logg, internalcart.Service.RemoveItem)
}

func mutateLine(svc internalcart.Service, logg *logger.Logger, op func(internalcart.Service, context.Context, string, string) (*internalcart.View, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		terminalID, err := validators.TerminalID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		lineID := strings.TrimSpace(chi.URLParam(r, "lineId"))
		if lineID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "line id is required"))
			return
		}
		view, err := op(svc, r.Context(), terminalID, lineID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

type setDiscountRequest struct {
	Kind  string          `json:"kind" validate:"required,oneof=percent fixed"`
	Value decimal.Decimal `json:"value" validate:"required"`
}

// SetDiscount replaces the cart's active discount.
func SetDiscount(svc internalcart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		terminalID, err := validators.TerminalID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setDiscountRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		kind, err := enums.ParseDiscountKind(payload.Kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discount kind"))
			return
		}

		view, err := svc.SetDiscount(r.Context(), terminalID, kind, payload.Value)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// RemoveDiscount clears the cart's discount.
func RemoveDiscount(svc internalcart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		terminalID, err := validators.TerminalID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.RemoveDiscount(r.Context(), terminalID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

type updateMetaRequest struct {
	OrderType   *string                `json:"orderType" validate:"omitempty,oneof=takeaway delivery dinein"`
	Notes       *string                `json:"notes"`
	TableNumber *string                `json:"tableNumber"`
	Customer    *internalcart.Customer `json:"customer"`
}

// UpdateMeta patches order-level cart fields.
func UpdateMeta(svc internalcart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		terminalID, err := validators.TerminalID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateMetaRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := internalcart.MetaInput{
			Notes:       payload.Notes,
			TableNumber: payload.TableNumber,
			Customer:    payload.Customer,
		}
		if payload.OrderType != nil {
			orderType, err := enums.ParseOrderType(*payload.OrderType)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order type"))
				return
			}
			input.OrderType = &orderType
		}

		view, err := svc.UpdateMeta(r.Context(), terminalID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// Clear empties the terminal's cart.
func Clear(svc internalcart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		terminalID, err := validators.TerminalID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Clear(r.Context(), terminalID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nil)
	}
}
