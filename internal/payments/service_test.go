package payments

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sajpos/counter-backend/internal/orders"
	"github.com/sajpos/counter-backend/internal/printing"
	"github.com/sajpos/counter-backend/pkg/db/models"
	"github.com/sajpos/counter-backend/pkg/enums"
	pkgerrors "github.com/sajpos/counter-backend/pkg/errors"
)

func setupPaymentsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := []string{`
CREATE TABLE IF NOT EXISTS orders (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  order_number TEXT UNIQUE,
  type TEXT NOT NULL DEFAULT 'takeaway',
  status TEXT NOT NULL DEFAULT 'draft',
  notes TEXT,
  subtotal NUMERIC NOT NULL,
  discount NUMERIC NOT NULL DEFAULT 0,
  total NUMERIC NOT NULL,
  sent_to_kitchen_at DATETIME,
  paid_at DATETIME,
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS order_items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  order_id INTEGER NOT NULL,
  product_id INTEGER NOT NULL,
  name TEXT NOT NULL,
  name_ar TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  price NUMERIC NOT NULL,
  notes TEXT
);`, `
CREATE TABLE IF NOT EXISTS order_item_modifiers (
  order_item_id INTEGER NOT NULL,
  modifier_id INTEGER NOT NULL,
  name TEXT NOT NULL,
  name_ar TEXT NOT NULL,
  price NUMERIC NOT NULL,
  PRIMARY KEY (order_item_id, modifier_id)
);`, `
CREATE TABLE IF NOT EXISTS payments (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  order_id INTEGER NOT NULL UNIQUE,
  method TEXT NOT NULL,
  cash_amount NUMERIC NOT NULL DEFAULT 0,
  card_amount NUMERIC NOT NULL DEFAULT 0,
  total NUMERIC NOT NULL,
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS order_counters (
  day TEXT PRIMARY KEY,
  last_seq INTEGER NOT NULL DEFAULT 0
);`}
	for _, stmt := range schema {
		require.NoError(t, gdb.Exec(stmt).Error)
	}
	for _, table := range []string{"payments", "order_item_modifiers", "order_items", "orders", "order_counters"} {
		require.NoError(t, gdb.Exec("DELETE FROM "+table).Error)
	}
	return gdb
}

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type recordingPrinter struct {
	receipts []printing.Receipt
	fail     bool
}

func (p *recordingPrinter) PrintKitchenTicket(ctx context.Context, ticket printing.KitchenTicket) error {
	return nil
}

func (p *recordingPrinter) PrintReceipt(ctx context.Context, receipt printing.Receipt) error {
	if p.fail {
		return errors.New("printer offline")
	}
	p.receipts = append(p.receipts, receipt)
	return nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newTestService(t *testing.T, gdb *gorm.DB, printer *recordingPrinter) (Service, orders.Repository) {
	t.Helper()
	ordersRepo := orders.NewRepository(gdb)
	svc, err := NewService(NewRepository(gdb), ordersRepo, gormTxRunner{db: gdb}, printer, nil, nil)
	require.NoError(t, err)
	return svc, ordersRepo
}

var seededOrders int

func seedKitchenOrder(t *testing.T, repo orders.Repository, total string) *models.Order {
	t.Helper()
	seededOrders++
	number := fmt.Sprintf("20250812-%03d", seededOrders)
	order := &models.Order{
		OrderNumber: &number,
		Type:        enums.OrderTypeTakeaway,
		Status:      enums.OrderStatusKitchen,
		Subtotal:    dec(total),
		Discount:    dec("0"),
		Total:       dec(total),
		Items: []models.OrderItem{{
			ProductID: 1,
			Name:      "Chicken Shawarma",
			NameAr:    "شاورما دجاج",
			Quantity:  1,
			Price:     dec(total),
		}},
	}
	created, err := repo.CreateOrder(context.Background(), order)
	require.NoError(t, err)
	return created
}

func TestSettleCashComputesChangeAndCompletesOrder(t *testing.T) {
	gdb := setupPaymentsTestDB(t)
	printer := &recordingPrinter{}
	svc, ordersRepo := newTestService(t, gdb, printer)
	ctx := context.Background()

	order := seedKitchenOrder(t, ordersRepo, "5.40")

	result, err := svc.Settle(ctx, SettleInput{
		OrderID:    order.ID,
		Method:     enums.PaymentMethodCash,
		Total:      dec("5.40"),
		CashAmount: dec("10.00"),
	})
	require.NoError(t, err)
	require.True(t, result.Change.Equal(dec("4.60")), "change = %s", result.Change)
	require.Equal(t, enums.OrderStatusCompleted, result.Order.Status)
	require.NotNil(t, result.Order.PaidAt)

	stored, err := ordersRepo.FindOrderByID(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, enums.OrderStatusCompleted, stored.Status)
	require.NotNil(t, stored.PaidAt)

	require.Len(t, printer.receipts, 1)
	require.True(t, printer.receipts[0].Change.Equal(dec("4.60")))
}

func TestSettleCashInsufficientIsRejected(t *testing.T) {
	gdb := setupPaymentsTestDB(t)
	svc, ordersRepo := newTestService(t, gdb, &recordingPrinter{})
	ctx := context.Background()

	order := seedKitchenOrder(t, ordersRepo, "5.40")

	_, err := svc.Settle(ctx, SettleInput{
		OrderID:    order.ID,
		Method:     enums.PaymentMethodCash,
		Total:      dec("5.40"),
		CashAmount: dec("5.00"),
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	// All-or-nothing: no payment row, order untouched.
	_, err = svc.GetByOrderID(ctx, order.ID)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
	stored, err := ordersRepo.FindOrderByID(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, enums.OrderStatusKitchen, stored.Status)
	require.Nil(t, stored.PaidAt)
}

func TestSettleCardRequiresExactAmount(t *testing.T) {
	gdb := setupPaymentsTestDB(t)
	svc, ordersRepo := newTestService(t, gdb, &recordingPrinter{})
	ctx := context.Background()

	order := seedKitchenOrder(t, ordersRepo, "7.25")

	_, err := svc.Settle(ctx, SettleInput{
		OrderID:    order.ID,
		Method:     enums.PaymentMethodCard,
		Total:      dec("7.25"),
		CardAmount: dec("7.00"),
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	result, err := svc.Settle(ctx, SettleInput{
		OrderID:    order.ID,
		Method:     enums.PaymentMethodCard,
		Total:      dec("7.25"),
		CardAmount: dec("7.25"),
	})
	require.NoError(t, err)
	require.True(t, result.Change.Equal(decimal.Zero))
	require.Equal(t, enums.PaymentMethodCard, result.Payment.Method)
}

func TestSettleSplitIsNotSupported(t *testing.T) {
	gdb := setupPaymentsTestDB(t)
	svc, ordersRepo := newTestService(t, gdb, &recordingPrinter{})

	order := seedKitchenOrder(t, ordersRepo, "5.40")

	_, err := svc.Settle(context.Background(), SettleInput{
		OrderID:    order.ID,
		Method:     enums.PaymentMethodSplit,
		Total:      dec("5.40"),
		CashAmount: dec("3.00"),
		CardAmount: dec("2.40"),
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestSettleTotalMustMatchOrder(t *testing.T) {
	gdb := setupPaymentsTestDB(t)
	svc, ordersRepo := newTestService(t, gdb, &recordingPrinter{})

	order := seedKitchenOrder(t, ordersRepo, "5.40")

	_, err := svc.Settle(context.Background(), SettleInput{
		OrderID:    order.ID,
		Method:     enums.PaymentMethodCash,
		Total:      dec("9.99"),
		CashAmount: dec("10.00"),
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestSettleTwiceIsRejected(t *testing.T) {
	gdb := setupPaymentsTestDB(t)
	svc, ordersRepo := newTestService(t, gdb, &recordingPrinter{})
	ctx := context.Background()

	order := seedKitchenOrder(t, ordersRepo, "5.40")

	_, err := svc.Settle(ctx, SettleInput{
		OrderID:    order.ID,
		Method:     enums.PaymentMethodCash,
		Total:      dec("5.40"),
		CashAmount: dec("5.40"),
	})
	require.NoError(t, err)

	_, err = svc.Settle(ctx, SettleInput{
		OrderID:    order.ID,
		Method:     enums.PaymentMethodCash,
		Total:      dec("5.40"),
		CashAmount: dec("5.40"),
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestSettleUnknownOrder(t *testing.T) {
	gdb := setupPaymentsTestDB(t)
	svc, _ := newTestService(t, gdb, &recordingPrinter{})

	_, err := svc.Settle(context.Background(), SettleInput{
		OrderID:    404,
		Method:     enums.PaymentMethodCash,
		Total:      dec("5.40"),
		CashAmount: dec("5.40"),
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestSettleReceiptFailureDoesNotUndoSettlement(t *testing.T) {
	gdb := setupPaymentsTestDB(t)
	svc, ordersRepo := newTestService(t, gdb, &recordingPrinter{fail: true})
	ctx := context.Background()

	order := seedKitchenOrder(t, ordersRepo, "5.40")

	result, err := svc.Settle(ctx, SettleInput{
		OrderID:    order.ID,
		Method:     enums.PaymentMethodCash,
		Total:      dec("5.40"),
		CashAmount: dec("5.40"),
	})
	require.NoError(t, err)
	require.Equal(t, enums.OrderStatusCompleted, result.Order.Status)

	payment, err := svc.GetByOrderID(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, order.ID, payment.OrderID)
}
