package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	internalpayments "github.com/sajpos/counter-backend/internal/payments"
	"github.com/sajpos/counter-backend/pkg/db/models"
	"github.com/sajpos/counter-backend/pkg/enums"
	pkgerrors "github.com/sajpos/counter-backend/pkg/errors"
)

type stubPaymentsService struct {
	settle       func(ctx context.Context, input internalpayments.SettleInput) (*internalpayments.SettleResult, error)
	getByOrderID func(ctx context.Context, orderID int64) (*models.Payment, error)
}

func (s *stubPaymentsService) Settle(ctx context.Context, input internalpayments.SettleInput) (*internalpayments.SettleResult, error) {
	if s.settle != nil {
		return s.settle(ctx, input)
	}
	return nil, nil
}

func (s *stubPaymentsService) GetByOrderID(ctx context.Context, orderID int64) (*models.Payment, error) {
	if s.getByOrderID != nil {
		return s.getByOrderID(ctx, orderID)
	}
	return nil, nil
}

func withURLParam(req *http.Request, name, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(name, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestCreateReturnsChange(t *testing.T) {
	svc := &stubPaymentsService{
		settle: func(ctx context.Context, input internalpayments.SettleInput) (*internalpayments.SettleResult, error) {
			if input.OrderID != 4 {
				t.Fatalf("unexpected order id %d", input.OrderID)
			}
			if input.Method != enums.PaymentMethodCash {
				t.Fatalf("unexpected method %s", input.Method)
			}
			if !input.CashAmount.Equal(decimal.RequireFromString("10.00")) {
				t.Fatal("cash amount not forwarded")
			}
			return &internalpayments.SettleResult{
				Payment: &models.Payment{ID: 1, OrderID: input.OrderID},
				Order:   &models.Order{ID: input.OrderID, Status: enums.OrderStatusCompleted},
				Change:  decimal.RequireFromString("4.60"),
			}, nil
		},
	}

	body := `{"orderId":4,"method":"cash","total":"5.40","cashAmount":"10.00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/payments", strings.NewReader(body))
	resp := httptest.NewRecorder()
	Create(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			Change decimal.Decimal `json:"change"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Success {
		t.Fatal("expected success envelope")
	}
	if !envelope.Data.Change.Equal(decimal.RequireFromString("4.60")) {
		t.Fatalf("unexpected change %s", envelope.Data.Change)
	}
}

func TestCreateRejectsUnknownMethod(t *testing.T) {
	body := `{"orderId":4,"method":"cheque","total":"5.40"}`
	req := httptest.NewRequest(http.MethodPost, "/api/payments", strings.NewReader(body))
	resp := httptest.NewRecorder()
	Create(&stubPaymentsService{}, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCreateForwardsConflict(t *testing.T) {
	svc := &stubPaymentsService{
		settle: func(ctx context.Context, input internalpayments.SettleInput) (*internalpayments.SettleResult, error) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "order is already settled")
		},
	}

	body := `{"orderId":4,"method":"card","total":"5.40","cardAmount":"5.40"}`
	req := httptest.NewRequest(http.MethodPost, "/api/payments", strings.NewReader(body))
	resp := httptest.NewRecorder()
	Create(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestGetByOrderNotFound(t *testing.T) {
	svc := &stubPaymentsService{
		getByOrderID: func(ctx context.Context, orderID int64) (*models.Payment, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/payments/order/88", nil)
	req = withURLParam(req, "orderId", "88")
	resp := httptest.NewRecorder()
	GetByOrder(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
