package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sajpos/counter-backend/pkg/db/models"
	"github.com/sajpos/counter-backend/pkg/enums"
	pkgerrors "github.com/sajpos/counter-backend/pkg/errors"
	"github.com/sajpos/counter-backend/pkg/metrics"
)

// productFinder is the slice of the catalog the cart needs to snapshot
// prices.
type productFinder interface {
	FindProductByID(ctx context.Context, id int64) (*models.Product, error)
}

// View is the cart plus its derived totals, returned to the terminal after
// every mutation.
type View struct {
	Cart     *Cart           `json:"cart"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// AddItemInput identifies the product, chosen modifiers and notes for a new
// cart line.
type AddItemInput struct {
	ProductID   int64
	ModifierIDs []int64
	Notes       string
	Quantity    int
}

// MetaInput carries order-level fields; nil pointers leave the current value
// untouched.
type MetaInput struct {
	OrderType   *enums.OrderType
	Notes       *string
	TableNumber *string
	Customer    *Customer
}

// Service owns cart state for all terminals.
type Service interface {
	Get(ctx context.Context, terminalID string) (*View, error)
	AddItem(ctx context.Context, terminalID string, input AddItemInput) (*View, error)
	IncQty(ctx context.Context, terminalID, lineID string) (*View, error)
	DecQty(ctx context.Context, terminalID, lineID string) (*View, error)
	RemoveItem(ctx context.Context, terminalID, lineID string) (*View, error)
	SetDiscount(ctx context.Context, terminalID string, kind enums.DiscountKind, value decimal.Decimal) (*View, error)
	RemoveDiscount(ctx context.Context, terminalID string) (*View, error)
	UpdateMeta(ctx context.Context, terminalID string, input MetaInput) (*View, error)
	Clear(ctx context.Context, terminalID string) error
}

type service struct {
	store    *Store
	products productFinder
	metrics  *metrics.POSMetrics
}

// NewService builds a cart service with the required dependencies.
func NewService(store *Store, products productFinder, posMetrics *metrics.POSMetrics) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	return &service{store: store, products: products, metrics: posMetrics}, nil
}

func (s *service) Get(ctx context.Context, terminalID string) (*View, error) {
	c, err := s.load(ctx, terminalID)
	if err != nil {
		return nil, err
	}
	return buildView(c), nil
}

func (s *service) AddItem(ctx context.Context, terminalID string, input AddItemInput) (*View, error) {
	if input.ProductID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.products.FindProductByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}

	modifiers, err := resolveModifiers(product, input.ModifierIDs)
	if err != nil {
		return nil, err
	}

	c, err := s.load(ctx, terminalID)
	if err != nil {
		return nil, err
	}

	c.AddItem(Item{
		ProductID: product.ID,
		Name:      product.Name,
		NameAr:    product.NameAr,
		Price:     product.Price,
		Quantity:  input.Quantity,
		Notes:     strings.TrimSpace(input.Notes),
		Modifiers: modifiers,
	})

	if err := s.save(ctx, terminalID, c); err != nil {
		return nil, err
	}
	s.metrics.IncCartOperation("add_item")
	return buildView(c), nil
}

func (s *service) IncQty(ctx context.Context, terminalID, lineID string) (*View, error) {
	return s.mutateLine(ctx, terminalID, lineID, "inc_qty", (*Cart).IncQty)
}

func (s *service) DecQty(ctx context.Context, terminalID, lineID string) (*View, error) {
	return s.mutateLine(ctx, terminalID, lineID, "dec_qty", (*Cart).DecQty)
}

func (s *service) RemoveItem(ctx context.Context, terminalID, lineID string) (*View, error) {
	return s.mutateLine(ctx, terminalID, lineID, "remove_item", (*Cart).RemoveItem)
}

func (s *service) mutateLine(ctx context.Context, terminalID, lineID, operation string, mutate func(*Cart, string) bool) (*View, error) {
	if lineID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line id required")
	}

	c, err := s.load(ctx, terminalID)
	if err != nil {
		return nil, err
	}
	if !mutate(c, lineID) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	if err := s.save(ctx, terminalID, c); err != nil {
		return nil, err
	}
	s.metrics.IncCartOperation(operation)
	return buildView(c), nil
}

func (s *service) SetDiscount(ctx context.Context, terminalID string, kind enums.DiscountKind, value decimal.Decimal) (*View, error) {
	if !kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount kind must be percent or fixed")
	}
	if value.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount value must not be negative")
	}
	if kind == enums.DiscountKindPercent && value.GreaterThan(decimal.NewFromInt(100)) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "percent discount must be between 0 and 100")
	}

	c, err := s.load(ctx, terminalID)
	if err != nil {
		return nil, err
	}
	c.SetDiscount(kind, value)
	if err := s.save(ctx, terminalID, c); err != nil {
		return nil, err
	}
	s.metrics.IncCartOperation("set_discount")
	return buildView(c), nil
}

func (s *service) RemoveDiscount(ctx context.Context, terminalID string) (*View, error) {
	c, err := s.load(ctx, terminalID)
	if err != nil {
		return nil, err
	}
	c.RemoveDiscount()
	if err := s.save(ctx, terminalID, c); err != nil {
		return nil, err
	}
	s.metrics.IncCartOperation("remove_discount")
	return buildView(c), nil
}

func (s *service) UpdateMeta(ctx context.Context, terminalID string, input MetaInput) (*View, error) {
	if input.OrderType != nil && !input.OrderType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order type")
	}

	c, err := s.load(ctx, terminalID)
	if err != nil {
		return nil, err
	}
	if input.OrderType != nil {
		c.OrderType = *input.OrderType
	}
	if input.Notes != nil {
		c.Notes = *input.Notes
	}
	if input.TableNumber != nil {
		c.TableNumber = *input.TableNumber
	}
	if input.Customer != nil {
		c.Customer = *input.Customer
	}
	if err := s.save(ctx, terminalID, c); err != nil {
		return nil, err
	}
	s.metrics.IncCartOperation("update_meta")
	return buildView(c), nil
}

func (s *service) Clear(ctx context.Context, terminalID string) error {
	if err := validateTerminalID(terminalID); err != nil {
		return err
	}
	if err := s.store.Clear(ctx, terminalID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	s.metrics.IncCartOperation("clear")
	return nil
}

func (s *service) load(ctx context.Context, terminalID string) (*Cart, error) {
	if err := validateTerminalID(terminalID); err != nil {
		return nil, err
	}
	c, err := s.store.Load(ctx, terminalID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return c, nil
}

func (s *service) save(ctx context.Context, terminalID string, c *Cart) error {
	if err := s.store.Save(ctx, terminalID, c); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}

func validateTerminalID(terminalID string) error {
	if strings.TrimSpace(terminalID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "terminal id required")
	}
	return nil
}

// resolveModifiers checks every requested modifier against the product's
// attached set and snapshots its current price.
func resolveModifiers(product *models.Product, modifierIDs []int64) ([]Modifier, error) {
	if len(modifierIDs) == 0 {
		return nil, nil
	}

	attached := make(map[int64]models.Modifier, len(product.Modifiers))
	for _, m := range product.Modifiers {
		attached[m.ID] = m
	}

	seen := make(map[int64]bool, len(modifierIDs))
	modifiers := make([]Modifier, 0, len(modifierIDs))
	for _, id := range modifierIDs {
		if seen[id] {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("modifier %d selected twice", id))
		}
		seen[id] = true

		m, ok := attached[id]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("modifier %d is not available for this product", id))
		}
		modifiers = append(modifiers, Modifier{
			ID:     m.ID,
			Name:   m.Name,
			NameAr: m.NameAr,
			Price:  m.Price,
		})
	}
	return modifiers, nil
}

func buildView(c *Cart) *View {
	return &View{
		Cart:     c,
		Subtotal: c.Subtotal(),
		Discount: c.DiscountAmount(),
		Total:    c.Total(),
	}
}
