package cart

import (
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sajpos/counter-backend/pkg/enums"
)

// Modifier is a snapshotted modifier selection on a cart line.
type Modifier struct {
	ID     int64           `json:"id"`
	Name   string          `json:"name"`
	NameAr string          `json:"nameAr"`
	Price  decimal.Decimal `json:"price"`
}

// Item is one cart line. Name and price are snapshots taken when the line
// was added, so catalog edits do not reprice an open cart.
type Item struct {
	ID        string          `json:"id"`
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	NameAr    string          `json:"nameAr"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Notes     string          `json:"notes"`
	Modifiers []Modifier      `json:"modifiers"`
}

// Discount is an order-level reduction; only one is active at a time.
type Discount struct {
	Kind  enums.DiscountKind `json:"kind"`
	Value decimal.Decimal    `json:"value"`
}

// Customer holds optional contact details collected for delivery orders.
type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Cart is the in-progress order for one terminal. It is confined to a
// single operator; no locking is needed around its mutations.
type Cart struct {
	Items       []Item          `json:"items"`
	Discount    *Discount       `json:"discount"`
	OrderType   enums.OrderType `json:"orderType"`
	Notes       string          `json:"notes"`
	TableNumber string          `json:"tableNumber"`
	Customer    Customer        `json:"customer"`
}

// NewCart returns an empty takeaway cart.
func NewCart() *Cart {
	return &Cart{
		Items:     []Item{},
		OrderType: enums.OrderTypeTakeaway,
	}
}

// lineKey identifies mergeable lines: same product, same notes, same set of
// chosen modifiers.
func lineKey(productID int64, notes string, modifiers []Modifier) string {
	ids := make([]int64, 0, len(modifiers))
	for _, m := range modifiers {
		ids = append(ids, m.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var b strings.Builder
	b.WriteString(strconv.FormatInt(productID, 10))
	b.WriteByte('|')
	b.WriteString(notes)
	for _, id := range ids {
		b.WriteByte('|')
		b.WriteString(strconv.FormatInt(id, 10))
	}
	return b.String()
}

// AddItem merges the addition into an existing identical line or appends a
// new line with a fresh id.
func (c *Cart) AddItem(item Item) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	key := lineKey(item.ProductID, item.Notes, item.Modifiers)
	for i := range c.Items {
		existing := &c.Items[i]
		if lineKey(existing.ProductID, existing.Notes, existing.Modifiers) == key {
			existing.Quantity += item.Quantity
			return
		}
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	c.Items = append(c.Items, item)
}

// IncQty bumps a line's quantity by one. Unknown ids are ignored.
func (c *Cart) IncQty(id string) bool {
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items[i].Quantity++
			return true
		}
	}
	return false
}

// DecQty lowers a line's quantity by one, never below 1. Removal is a
// separate explicit operation.
func (c *Cart) DecQty(id string) bool {
	for i := range c.Items {
		if c.Items[i].ID == id {
			if c.Items[i].Quantity > 1 {
				c.Items[i].Quantity--
			}
			return true
		}
	}
	return false
}

// RemoveItem deletes a line unconditionally.
func (c *Cart) RemoveItem(id string) bool {
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

// SetDiscount replaces any prior discount.
func (c *Cart) SetDiscount(kind enums.DiscountKind, value decimal.Decimal) {
	c.Discount = &Discount{Kind: kind, Value: value}
}

// RemoveDiscount clears the active discount.
func (c *Cart) RemoveDiscount() {
	c.Discount = nil
}

// Subtotal sums (unit price + chosen modifier prices) * quantity over lines.
func (c *Cart) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range c.Items {
		unit := item.Price
		for _, m := range item.Modifiers {
			unit = unit.Add(m.Price)
		}
		subtotal = subtotal.Add(unit.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return subtotal
}

// Total applies the active discount to the subtotal, floored at zero and
// rounded half-up to the cent. Without a discount it equals the subtotal.
func (c *Cart) Total() decimal.Decimal {
	subtotal := c.Subtotal()
	if c.Discount == nil {
		return subtotal
	}

	var total decimal.Decimal
	switch c.Discount.Kind {
	case enums.DiscountKindFixed:
		total = subtotal.Sub(c.Discount.Value)
	case enums.DiscountKindPercent:
		factor := decimal.NewFromInt(100).Sub(c.Discount.Value).Div(decimal.NewFromInt(100))
		total = subtotal.Mul(factor)
	default:
		return subtotal
	}

	if total.IsNegative() {
		return decimal.Zero
	}
	return total.Round(2)
}

// DiscountAmount is the absolute reduction the active discount produces.
func (c *Cart) DiscountAmount() decimal.Decimal {
	return c.Subtotal().Sub(c.Total())
}

// Clear resets items, discount and all order-level metadata; called after a
// successful settlement.
func (c *Cart) Clear() {
	c.Items = []Item{}
	c.Discount = nil
	c.OrderType = enums.OrderTypeTakeaway
	c.Notes = ""
	c.TableNumber = ""
	c.Customer = Customer{}
}
