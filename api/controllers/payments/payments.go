package payments

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/sajpos/counter-backend/api/responses"
	"github.com/sajpos/counter-backend/api/validators"
	internalpayments "github.com/sajpos/counter-backend/internal/payments"
	"github.com/sajpos/counter-backend/pkg/enums"
	pkgerrors "github.com/sajpos/counter-backend/pkg/errors"
	"github.com/sajpos/counter-backend/pkg/logger"
)

type createPaymentRequest struct {
	OrderID    int64           `json:"orderId" validate:"required,gt=0"`
	Method     string          `json:"method" validate:"required,oneof=cash card split"`
	Total      decimal.Decimal `json:"total"`
	CashAmount decimal.Decimal `json:"cashAmount"`
	CardAmount decimal.Decimal `json:"cardAmount"`
}

// Create settles an order and returns the recorded payment with any change
// owed to the customer.
func Create(svc internalpayments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		var payload createPaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(payload.Method)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		result, err := svc.Settle(r.Context(), internalpayments.SettleInput{
			OrderID:    payload.OrderID,
			Method:     method,
			Total:      payload.Total,
			CashAmount: payload.CashAmount,
			CardAmount: payload.CardAmount,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// GetByOrder returns the payment recorded against one order.
func GetByOrder(svc internalpayments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		orderID, err := validators.ParseIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payment, err := svc.GetByOrderID(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, payment)
	}
}
