package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sajpos/counter-backend/internal/orders"
	"github.com/sajpos/counter-backend/internal/printing"
	"github.com/sajpos/counter-backend/pkg/db"
	"github.com/sajpos/counter-backend/pkg/db/models"
	"github.com/sajpos/counter-backend/pkg/enums"
	pkgerrors "github.com/sajpos/counter-backend/pkg/errors"
	"github.com/sajpos/counter-backend/pkg/logger"
	"github.com/sajpos/counter-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// SettleInput carries one settlement request.
type SettleInput struct {
	OrderID    int64
	Method     enums.PaymentMethod
	Total      decimal.Decimal
	CashAmount decimal.Decimal
	CardAmount decimal.Decimal
}

// SettleResult is the settlement outcome, including the change owed for
// cash payments.
type SettleResult struct {
	Payment *models.Payment `json:"payment"`
	Order   *models.Order   `json:"order"`
	Change  decimal.Decimal `json:"change"`
}

// Service settles orders: one payment row per order, and the order flipped
// to completed in the same transaction.
type Service interface {
	Settle(ctx context.Context, input SettleInput) (*SettleResult, error)
	GetByOrderID(ctx context.Context, orderID int64) (*models.Payment, error)
}

type service struct {
	repo    Repository
	orders  orders.Repository
	tx      txRunner
	printer printing.Printer
	metrics *metrics.POSMetrics
	logg    *logger.Logger
	now     func() time.Time
}

// NewService builds a payments service with the required dependencies.
func NewService(repo Repository, ordersRepo orders.Repository, tx txRunner, printer printing.Printer, posMetrics *metrics.POSMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payments repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if printer == nil {
		return nil, fmt.Errorf("printer required")
	}
	return &service{
		repo:    repo,
		orders:  ordersRepo,
		tx:      tx,
		printer: printer,
		metrics: posMetrics,
		logg:    logg,
		now:     time.Now,
	}, nil
}

func (s *service) Settle(ctx context.Context, input SettleInput) (*SettleResult, error) {
	if input.OrderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !input.Method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if input.Method == enums.PaymentMethodSplit {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "split payments are not supported")
	}

	result := &SettleResult{Change: decimal.Zero}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		paymentsRepo := s.repo.WithTx(tx)
		ordersRepo := s.orders.WithTx(tx)

		order, err := ordersRepo.FindOrderByID(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("order in status %s cannot be settled", order.Status))
		}

		if !input.Total.Equal(order.Total) {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("payment total %s does not match order total %s", input.Total, order.Total))
		}

		switch input.Method {
		case enums.PaymentMethodCash:
			if input.CashAmount.LessThan(order.Total) {
				return pkgerrors.New(pkgerrors.CodeValidation, "cash amount is insufficient")
			}
			result.Change = input.CashAmount.Sub(order.Total)
			input.CardAmount = decimal.Zero
		case enums.PaymentMethodCard:
			if !input.CardAmount.Equal(order.Total) {
				return pkgerrors.New(pkgerrors.CodeValidation, "card amount must equal the order total")
			}
			input.CashAmount = decimal.Zero
		}

		payment := &models.Payment{
			OrderID:    order.ID,
			Method:     input.Method,
			CashAmount: input.CashAmount,
			CardAmount: input.CardAmount,
			Total:      order.Total,
		}
		if _, err := paymentsRepo.CreatePayment(ctx, payment); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "order is already settled")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment")
		}

		paidAt := s.now()
		updates := map[string]any{
			"status":  enums.OrderStatusCompleted,
			"paid_at": paidAt,
		}
		if _, err := ordersRepo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete order")
		}

		order.Status = enums.OrderStatusCompleted
		order.PaidAt = &paidAt
		result.Payment = payment
		result.Order = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncSettlement(input.Method.String())
	s.printReceipt(ctx, result.Order, result.Payment)
	return result, nil
}

func (s *service) GetByOrderID(ctx context.Context, orderID int64) (*models.Payment, error) {
	if orderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	payment, err := s.repo.FindPaymentByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment")
	}
	return payment, nil
}

// printReceipt hands the receipt to the printer. Failures are logged and
// counted but never undo a settlement.
func (s *service) printReceipt(ctx context.Context, order *models.Order, payment *models.Payment) {
	receipt := printing.BuildReceipt(order, payment)
	if err := s.printer.PrintReceipt(ctx, receipt); err != nil {
		s.metrics.IncPrintFailure("receipt")
		if s.logg != nil {
			ctx = s.logg.WithOrderID(ctx, order.ID)
			s.logg.Warn(ctx, "print.receipt.failed")
		}
	}
}
