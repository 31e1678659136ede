package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sajpos/counter-backend/internal/printing"
	"github.com/sajpos/counter-backend/pkg/db/models"
	"github.com/sajpos/counter-backend/pkg/enums"
	pkgerrors "github.com/sajpos/counter-backend/pkg/errors"
	"github.com/sajpos/counter-backend/pkg/logger"
	"github.com/sajpos/counter-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// productFinder is the slice of the catalog used to snapshot prices into
// order lines.
type productFinder interface {
	FindProductByID(ctx context.Context, id int64) (*models.Product, error)
}

// CreateOrderItemInput is one requested line on a new order.
type CreateOrderItemInput struct {
	ProductID   int64
	Quantity    int
	ModifierIDs []int64
	Notes       *string
}

// CreateOrderInput carries everything needed to persist a new order. The
// caller chooses whether the order starts as a draft or goes straight to
// the kitchen.
type CreateOrderInput struct {
	Type     enums.OrderType
	Status   enums.OrderStatus
	Notes    *string
	Discount decimal.Decimal
	Items    []CreateOrderItemInput
}

// UpdateOrderInput patches draft-stage fields; nil pointers leave the
// current value untouched.
type UpdateOrderInput struct {
	Type     *enums.OrderType
	Notes    *string
	Discount *decimal.Decimal
}

// Service defines the order lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	SendToKitchen(ctx context.Context, orderID int64) (*models.Order, error)
	Update(ctx context.Context, orderID int64, patch UpdateOrderInput) (bool, error)
	GetByID(ctx context.Context, orderID int64) (*models.Order, error)
	List(ctx context.Context, filters Filters) ([]models.Order, error)
	Cancel(ctx context.Context, orderID int64) (*models.Order, error)
	Delete(ctx context.Context, orderID int64) error
}

type service struct {
	repo     Repository
	products productFinder
	tx       txRunner
	printer  printing.Printer
	metrics  *metrics.POSMetrics
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds an order service with the required dependencies.
func NewService(repo Repository, products productFinder, tx txRunner, printer printing.Printer, posMetrics *metrics.POSMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if printer == nil {
		return nil, fmt.Errorf("printer required")
	}
	return &service{
		repo:     repo,
		products: products,
		tx:       tx,
		printer:  printer,
		metrics:  posMetrics,
		logg:     logg,
		now:      time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order type")
	}
	if input.Status != enums.OrderStatusDraft && input.Status != enums.OrderStatusKitchen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "new orders must start as draft or kitchen")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	if input.Discount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount must not be negative")
	}

	items, subtotal, err := s.buildOrderItems(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	total := subtotal.Sub(input.Discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	order := &models.Order{
		Type:     input.Type,
		Status:   input.Status,
		Notes:    input.Notes,
		Subtotal: subtotal,
		Discount: input.Discount,
		Total:    total,
		Items:    items,
	}

	// A create that targets the kitchen directly is the submission itself:
	// the number and timestamp are assigned in the same transaction.
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if input.Status == enums.OrderStatusKitchen {
			number, err := s.assignOrderNumber(ctx, repo)
			if err != nil {
				return err
			}
			sentAt := s.now()
			order.OrderNumber = &number
			order.SentToKitchenAt = &sentAt
		}
		if _, err := repo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncOrderCreated(order.Type.String())
	if order.Status == enums.OrderStatusKitchen {
		s.metrics.IncOrderSentToKitchen()
		s.printKitchenTicket(ctx, order)
	}
	return order, nil
}

func (s *service) SendToKitchen(ctx context.Context, orderID int64) (*models.Order, error) {
	if orderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		found, err := repo.FindOrderByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if found.Status != enums.OrderStatusDraft {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("order in status %s cannot be sent to kitchen", found.Status))
		}

		number, err := s.assignOrderNumber(ctx, repo)
		if err != nil {
			return err
		}
		sentAt := s.now()

		updates := map[string]any{
			"order_number":       number,
			"status":             enums.OrderStatusKitchen,
			"sent_to_kitchen_at": sentAt,
		}
		// The update re-checks the status so that two terminals racing on
		// the same draft resolve to a single kitchen ticket.
		rows, err := repo.UpdateOrderFromStatus(ctx, found.ID, enums.OrderStatusDraft, updates)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order left the draft state before submission")
		}

		found.OrderNumber = &number
		found.Status = enums.OrderStatusKitchen
		found.SentToKitchenAt = &sentAt
		order = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncOrderSentToKitchen()
	s.printKitchenTicket(ctx, order)
	return order, nil
}

// Update patches a draft order. It reports false when the order does not
// exist or is past the draft stage.
func (s *service) Update(ctx context.Context, orderID int64, patch UpdateOrderInput) (bool, error) {
	if orderID <= 0 {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if patch.Type != nil && !patch.Type.IsValid() {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "invalid order type")
	}
	if patch.Discount != nil && patch.Discount.IsNegative() {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "discount must not be negative")
	}

	updated := false
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrderByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.Status != enums.OrderStatusDraft {
			return nil
		}

		updates := map[string]any{}
		if patch.Type != nil {
			updates["type"] = *patch.Type
		}
		if patch.Notes != nil {
			updates["notes"] = *patch.Notes
		}
		if patch.Discount != nil {
			total := order.Subtotal.Sub(*patch.Discount)
			if total.IsNegative() {
				total = decimal.Zero
			}
			updates["discount"] = *patch.Discount
			updates["total"] = total
		}
		if len(updates) == 0 {
			updated = true
			return nil
		}

		if _, err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}
		updated = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return updated, nil
}

func (s *service) GetByID(ctx context.Context, orderID int64) (*models.Order, error) {
	if orderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, filters Filters) ([]models.Order, error) {
	orders, err := s.repo.ListOrders(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return orders, nil
}

func (s *service) Cancel(ctx context.Context, orderID int64) (*models.Order, error) {
	if orderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		found, err := repo.FindOrderByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if found.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("order in status %s cannot be cancelled", found.Status))
		}

		rows, err := repo.UpdateOrderFromStatus(ctx, found.ID, found.Status,
			map[string]any{"status": enums.OrderStatusCancelled})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order changed state before it could be cancelled")
		}
		found.Status = enums.OrderStatusCancelled
		order = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Delete removes an order outright; admin cleanup only. Its order number,
// if one was assigned, is never handed out again.
func (s *service) Delete(ctx context.Context, orderID int64) error {
	if orderID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if err := s.repo.DeleteOrder(ctx, orderID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}
	return nil
}

func (s *service) assignOrderNumber(ctx context.Context, repo Repository) (string, error) {
	day := s.now().Format("20060102")
	seq, err := repo.NextOrderNumber(ctx, day)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "draw order number")
	}
	return fmt.Sprintf("%s-%03d", day, seq), nil
}

func (s *service) buildOrderItems(ctx context.Context, inputs []CreateOrderItemInput) ([]models.OrderItem, decimal.Decimal, error) {
	items := make([]models.OrderItem, 0, len(inputs))
	subtotal := decimal.Zero

	for i, in := range inputs {
		if in.ProductID <= 0 {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("item %d: product id required", i))
		}
		if in.Quantity < 1 {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("item %d: quantity must be at least 1", i))
		}

		product, err := s.products.FindProductByID(ctx, in.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("item %d: product %d not found", i, in.ProductID))
			}
			return nil, decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}

		attached := make(map[int64]models.Modifier, len(product.Modifiers))
		for _, m := range product.Modifiers {
			attached[m.ID] = m
		}

		unit := product.Price
		itemModifiers := make([]models.OrderItemModifier, 0, len(in.ModifierIDs))
		seen := make(map[int64]bool, len(in.ModifierIDs))
		for _, modifierID := range in.ModifierIDs {
			if seen[modifierID] {
				return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("item %d: duplicate modifier %d", i, modifierID))
			}
			seen[modifierID] = true
			m, ok := attached[modifierID]
			if !ok {
				return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("item %d: modifier %d is not available for product %d", i, modifierID, in.ProductID))
			}
			unit = unit.Add(m.Price)
			itemModifiers = append(itemModifiers, models.OrderItemModifier{
				ModifierID: m.ID,
				Name:       m.Name,
				NameAr:     m.NameAr,
				Price:      m.Price,
			})
		}

		var notes *string
		if in.Notes != nil && strings.TrimSpace(*in.Notes) != "" {
			notes = in.Notes
		}

		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			NameAr:    product.NameAr,
			Quantity:  in.Quantity,
			Price:     product.Price,
			Notes:     notes,
			Modifiers: itemModifiers,
		})
		subtotal = subtotal.Add(unit.Mul(decimal.NewFromInt(int64(in.Quantity))))
	}

	return items, subtotal, nil
}

// printKitchenTicket hands the ticket to the printer. A printer failure is
// logged and counted but never fails the submission.
func (s *service) printKitchenTicket(ctx context.Context, order *models.Order) {
	ticket := printing.BuildKitchenTicket(order)
	if err := s.printer.PrintKitchenTicket(ctx, ticket); err != nil {
		s.metrics.IncPrintFailure("kitchen_ticket")
		if s.logg != nil {
			ctx = s.logg.WithOrderID(ctx, order.ID)
			s.logg.Warn(ctx, "print.kitchen_ticket.failed")
		}
	}
}
