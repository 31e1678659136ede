package orders

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sajpos/counter-backend/internal/printing"
	"github.com/sajpos/counter-backend/pkg/db/models"
	"github.com/sajpos/counter-backend/pkg/enums"
	pkgerrors "github.com/sajpos/counter-backend/pkg/errors"
)

type stubOrdersRepo struct {
	orders     map[int64]*models.Order
	nextID     int64
	seq        map[string]int64
	failCreate error

	// beforeStatusUpdate runs against the stored order just before a
	// status-guarded update evaluates its guard, standing in for another
	// terminal winning the race.
	beforeStatusUpdate func(order *models.Order)
}

func newStubOrdersRepo() *stubOrdersRepo {
	return &stubOrdersRepo{
		orders: map[int64]*models.Order{},
		seq:    map[string]int64{},
	}
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubOrdersRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if s.failCreate != nil {
		return nil, s.failCreate
	}
	s.nextID++
	order.ID = s.nextID
	copied := *order
	s.orders[order.ID] = &copied
	return order, nil
}

func (s *stubOrdersRepo) FindOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *order
	return &copied, nil
}

func (s *stubOrdersRepo) ListOrders(ctx context.Context, filters Filters) ([]models.Order, error) {
	var out []models.Order
	for _, order := range s.orders {
		if filters.Status != nil && order.Status != *filters.Status {
			continue
		}
		if filters.Type != nil && order.Type != *filters.Type {
			continue
		}
		out = append(out, *order)
	}
	return out, nil
}

func (s *stubOrdersRepo) UpdateOrder(ctx context.Context, id int64, updates map[string]any) (int64, error) {
	order, ok := s.orders[id]
	if !ok {
		return 0, nil
	}
	if v, ok := updates["status"]; ok {
		order.Status = v.(enums.OrderStatus)
	}
	if v, ok := updates["order_number"]; ok {
		number := v.(string)
		order.OrderNumber = &number
	}
	if v, ok := updates["sent_to_kitchen_at"]; ok {
		at := v.(time.Time)
		order.SentToKitchenAt = &at
	}
	if v, ok := updates["type"]; ok {
		order.Type = v.(enums.OrderType)
	}
	if v, ok := updates["notes"]; ok {
		notes := v.(string)
		order.Notes = &notes
	}
	if v, ok := updates["discount"]; ok {
		order.Discount = v.(decimal.Decimal)
	}
	if v, ok := updates["total"]; ok {
		order.Total = v.(decimal.Decimal)
	}
	return 1, nil
}

func (s *stubOrdersRepo) UpdateOrderFromStatus(ctx context.Context, id int64, from enums.OrderStatus, updates map[string]any) (int64, error) {
	order, ok := s.orders[id]
	if !ok {
		return 0, nil
	}
	if s.beforeStatusUpdate != nil {
		s.beforeStatusUpdate(order)
	}
	if order.Status != from {
		return 0, nil
	}
	return s.UpdateOrder(ctx, id, updates)
}

func (s *stubOrdersRepo) DeleteOrder(ctx context.Context, id int64) error {
	delete(s.orders, id)
	return nil
}

func (s *stubOrdersRepo) NextOrderNumber(ctx context.Context, day string) (int64, error) {
	s.seq[day]++
	return s.seq[day], nil
}

type stubProductFinder struct {
	products map[int64]*models.Product
}

func (s *stubProductFinder) FindProductByID(ctx context.Context, id int64) (*models.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type recordingPrinter struct {
	tickets  []printing.KitchenTicket
	receipts []printing.Receipt
	fail     bool
}

func (p *recordingPrinter) PrintKitchenTicket(ctx context.Context, ticket printing.KitchenTicket) error {
	if p.fail {
		return errors.New("printer offline")
	}
	p.tickets = append(p.tickets, ticket)
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

func testProducts() *stubProductFinder {
	return &stubProductFinder{products: map[int64]*models.Product{
		1: {
			ID:       1,
			Name:     "Chicken Shawarma",
			NameAr:   "شاورما دجاج",
			Price:    dec("2.75"),
			IsActive: true,
			Modifiers: []models.Modifier{
				{ID: 7, Name: "Extra Garlic", Price: dec("0.25")},
			},
		},
	}}
}

func newTestService(t *testing.T, repo *stubOrdersRepo, printer *recordingPrinter) Service {
	t.Helper()
	svc, err := NewService(repo, testProducts(), stubTxRunner{}, printer, nil, nil)
	require.NoError(t, err)
	return svc
}

func TestCreateDraftAssignsNoNumber(t *testing.T) {
	repo := newStubOrdersRepo()
	printer := &recordingPrinter{}
	svc := newTestService(t, repo, printer)

	order, err := svc.Create(context.Background(), CreateOrderInput{
		Type:   enums.OrderTypeTakeaway,
		Status: enums.OrderStatusDraft,
		Items:  []CreateOrderItemInput{{ProductID: 1, Quantity: 2, ModifierIDs: []int64{7}}},
	})
	require.NoError(t, err)
	require.NotZero(t, order.ID)
	require.Nil(t, order.OrderNumber)
	require.Nil(t, order.SentToKitchenAt)
	require.True(t, order.Subtotal.Equal(dec("6.00")), "subtotal = %s", order.Subtotal)
	require.True(t, order.Total.Equal(dec("6.00")))
	require.Empty(t, printer.tickets)
}

func TestCreateKitchenAssignsNumberAndPrints(t *testing.T) {
	repo := newStubOrdersRepo()
	printer := &recordingPrinter{}
	svc := newTestService(t, repo, printer)

	order, err := svc.Create(context.Background(), CreateOrderInput{
		Type:   enums.OrderTypeDineIn,
		Status: enums.OrderStatusKitchen,
		Items:  []CreateOrderItemInput{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)
	require.NotNil(t, order.OrderNumber)
	require.NotNil(t, order.SentToKitchenAt)

	day := time.Now().Format("20060102")
	require.Equal(t, fmt.Sprintf("%s-001", day), *order.OrderNumber)

	require.Len(t, printer.tickets, 1)
	require.Equal(t, *order.OrderNumber, printer.tickets[0].OrderNumber)
}

func TestCreateAppliesDiscountFlooredAtZero(t *testing.T) {
	repo := newStubOrdersRepo()
	svc := newTestService(t, repo, &recordingPrinter{})

	order, err := svc.Create(context.Background(), CreateOrderInput{
		Type:     enums.OrderTypeTakeaway,
		Status:   enums.OrderStatusDraft,
		Discount: dec("10"),
		Items:    []CreateOrderItemInput{{ProductID: 1, Quantity: 2, ModifierIDs: []int64{7}}},
	})
	require.NoError(t, err)
	require.True(t, order.Total.Equal(decimal.Zero), "total = %s", order.Total)
	require.True(t, order.Subtotal.Equal(dec("6.00")))
}

func TestCreateValidation(t *testing.T) {
	repo := newStubOrdersRepo()
	svc := newTestService(t, repo, &recordingPrinter{})
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateOrderInput{Type: "brunch", Status: enums.OrderStatusDraft,
		Items: []CreateOrderItemInput{{ProductID: 1, Quantity: 1}}})
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Create(ctx, CreateOrderInput{Type: enums.OrderTypeTakeaway, Status: enums.OrderStatusCompleted,
		Items: []CreateOrderItemInput{{ProductID: 1, Quantity: 1}}})
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Create(ctx, CreateOrderInput{Type: enums.OrderTypeTakeaway, Status: enums.OrderStatusDraft})
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Create(ctx, CreateOrderInput{Type: enums.OrderTypeTakeaway, Status: enums.OrderStatusDraft,
		Items: []CreateOrderItemInput{{ProductID: 99, Quantity: 1}}})
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Create(ctx, CreateOrderInput{Type: enums.OrderTypeTakeaway, Status: enums.OrderStatusDraft,
		Items: []CreateOrderItemInput{{ProductID: 1, Quantity: 1, ModifierIDs: []int64{42}}}})
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	require.Empty(t, repo.orders)
}

func TestCreateRejectsDuplicateModifiers(t *testing.T) {
	repo := newStubOrdersRepo()
	svc := newTestService(t, repo, &recordingPrinter{})

	_, err := svc.Create(context.Background(), CreateOrderInput{
		Type:   enums.OrderTypeTakeaway,
		Status: enums.OrderStatusDraft,
		Items:  []CreateOrderItemInput{{ProductID: 1, Quantity: 1, ModifierIDs: []int64{7, 7}}},
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	require.Empty(t, repo.orders)
}

func TestSendToKitchenTransitionsDraft(t *testing.T) {
	repo := newStubOrdersRepo()
	printer := &recordingPrinter{}
	svc := newTestService(t, repo, printer)
	ctx := context.Background()

	draft, err := svc.Create(ctx, CreateOrderInput{
		Type:   enums.OrderTypeTakeaway,
		Status: enums.OrderStatusDraft,
		Items:  []CreateOrderItemInput{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	sent, err := svc.SendToKitchen(ctx, draft.ID)
	require.NoError(t, err)
	require.Equal(t, enums.OrderStatusKitchen, sent.Status)
	require.NotNil(t, sent.OrderNumber)
	require.NotNil(t, sent.SentToKitchenAt)
	require.Len(t, printer.tickets, 1)

	stored := repo.orders[draft.ID]
	require.Equal(t, enums.OrderStatusKitchen, stored.Status)
	require.NotNil(t, stored.OrderNumber)
}

func TestSendToKitchenRejectsNonDraft(t *testing.T) {
	repo := newStubOrdersRepo()
	printer := &recordingPrinter{}
	svc := newTestService(t, repo, printer)
	ctx := context.Background()

	order, err := svc.Create(ctx, CreateOrderInput{
		Type:   enums.OrderTypeTakeaway,
		Status: enums.OrderStatusKitchen,
		Items:  []CreateOrderItemInput{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)
	numberBefore := *repo.orders[order.ID].OrderNumber

	_, err = svc.SendToKitchen(ctx, order.ID)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())

	// No mutation and no second ticket.
	require.Equal(t, numberBefore, *repo.orders[order.ID].OrderNumber)
	require.Equal(t, enums.OrderStatusKitchen, repo.orders[order.ID].Status)
	require.Len(t, printer.tickets, 1)
}

func TestSendToKitchenLosingRaceKeepsFirstTicket(t *testing.T) {
	repo := newStubOrdersRepo()
	printer := &recordingPrinter{}
	svc := newTestService(t, repo, printer)
	ctx := context.Background()

	draft, err := svc.Create(ctx, CreateOrderInput{
		Type:   enums.OrderTypeTakeaway,
		Status: enums.OrderStatusDraft,
		Items:  []CreateOrderItemInput{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	// Another terminal submits the draft between the read and the write.
	winner := "20250812-001"
	repo.beforeStatusUpdate = func(order *models.Order) {
		order.Status = enums.OrderStatusKitchen
		order.OrderNumber = &winner
	}

	_, err = svc.SendToKitchen(ctx, draft.ID)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())

	stored := repo.orders[draft.ID]
	require.Equal(t, winner, *stored.OrderNumber)
	require.Empty(t, printer.tickets)
}

func TestSendToKitchenNotFound(t *testing.T) {
	svc := newTestService(t, newStubOrdersRepo(), &recordingPrinter{})

	_, err := svc.SendToKitchen(context.Background(), 404)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestSendToKitchenNumbersAreSequentialWithinDay(t *testing.T) {
	repo := newStubOrdersRepo()
	svc := newTestService(t, repo, &recordingPrinter{})
	ctx := context.Background()

	var numbers []string
	for i := 0; i < 3; i++ {
		draft, err := svc.Create(ctx, CreateOrderInput{
			Type:   enums.OrderTypeTakeaway,
			Status: enums.OrderStatusDraft,
			Items:  []CreateOrderItemInput{{ProductID: 1, Quantity: 1}},
		})
		require.NoError(t, err)
		sent, err := svc.SendToKitchen(ctx, draft.ID)
		require.NoError(t, err)
		numbers = append(numbers, *sent.OrderNumber)
	}

	day := time.Now().Format("20060102")
	require.Equal(t, []string{day + "-001", day + "-002", day + "-003"}, numbers)
}

func TestPrinterFailureDoesNotFailSubmission(t *testing.T) {
	repo := newStubOrdersRepo()
	svc := newTestService(t, repo, &recordingPrinter{fail: true})

	order, err := svc.Create(context.Background(), CreateOrderInput{
		Type:   enums.OrderTypeTakeaway,
		Status: enums.OrderStatusKitchen,
		Items:  []CreateOrderItemInput{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)
	require.NotNil(t, order.OrderNumber)
}

func TestUpdatePatchesDraftOnly(t *testing.T) {
	repo := newStubOrdersRepo()
	svc := newTestService(t, repo, &recordingPrinter{})
	ctx := context.Background()

	draft, err := svc.Create(ctx, CreateOrderInput{
		Type:   enums.OrderTypeTakeaway,
		Status: enums.OrderStatusDraft,
		Items:  []CreateOrderItemInput{{ProductID: 1, Quantity: 2}},
	})
	require.NoError(t, err)

	newType := enums.OrderTypeDelivery
	discount := dec("1.50")
	ok, err := svc.Update(ctx, draft.ID, UpdateOrderInput{Type: &newType, Discount: &discount})
	require.NoError(t, err)
	require.True(t, ok)

	stored := repo.orders[draft.ID]
	require.Equal(t, enums.OrderTypeDelivery, stored.Type)
	require.True(t, stored.Total.Equal(dec("4.00")), "total = %s", stored.Total)

	// Missing orders and non-drafts both report false.
	ok, err = svc.Update(ctx, 404, UpdateOrderInput{Type: &newType})
	require.NoError(t, err)
	require.False(t, ok)

	_, err = svc.SendToKitchen(ctx, draft.ID)
	require.NoError(t, err)
	ok, err = svc.Update(ctx, draft.ID, UpdateOrderInput{Type: &newType})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCancelFromDraftAndKitchenOnly(t *testing.T) {
	repo := newStubOrdersRepo()
	svc := newTestService(t, repo, &recordingPrinter{})
	ctx := context.Background()

	order, err := svc.Create(ctx, CreateOrderInput{
		Type:   enums.OrderTypeTakeaway,
		Status: enums.OrderStatusKitchen,
		Items:  []CreateOrderItemInput{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, enums.OrderStatusCancelled, cancelled.Status)

	_, err = svc.Cancel(ctx, order.ID)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestCancelLosingRaceReportsConflict(t *testing.T) {
	repo := newStubOrdersRepo()
	svc := newTestService(t, repo, &recordingPrinter{})
	ctx := context.Background()

	order, err := svc.Create(ctx, CreateOrderInput{
		Type:   enums.OrderTypeTakeaway,
		Status: enums.OrderStatusKitchen,
		Items:  []CreateOrderItemInput{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	// The order completes between the read and the write.
	repo.beforeStatusUpdate = func(o *models.Order) {
		o.Status = enums.OrderStatusCompleted
	}

	_, err = svc.Cancel(ctx, order.ID)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
	require.Equal(t, enums.OrderStatusCompleted, repo.orders[order.ID].Status)
}

func TestDeleteRemovesOrder(t *testing.T) {
	repo := newStubOrdersRepo()
	svc := newTestService(t, repo, &recordingPrinter{})
	ctx := context.Background()

	order, err := svc.Create(ctx, CreateOrderInput{
		Type:   enums.OrderTypeTakeaway,
		Status: enums.OrderStatusDraft,
		Items:  []CreateOrderItemInput{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, order.ID))
	_, err = svc.GetByID(ctx, order.ID)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestCreateRollsBackOnRepoFailure(t *testing.T) {
	repo := newStubOrdersRepo()
	repo.failCreate = errors.New("insert failed")
	svc := newTestService(t, repo, &recordingPrinter{})

	_, err := svc.Create(context.Background(), CreateOrderInput{
		Type:   enums.OrderTypeTakeaway,
		Status: enums.OrderStatusDraft,
		Items:  []CreateOrderItemInput{{ProductID: 1, Quantity: 1}},
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
	require.Empty(t, repo.orders)
}
