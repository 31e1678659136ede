package printing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sajpos/counter-backend/pkg/db/models"
	"github.com/sajpos/counter-backend/pkg/enums"
)

// TicketModifier is one chosen modifier on a printed line.
type TicketModifier struct {
	Name   string `json:"name"`
	NameAr string `json:"nameAr"`
}

// TicketItem is one line as it appears on a kitchen ticket or receipt.
type TicketItem struct {
	Name      string           `json:"name"`
	NameAr    string           `json:"nameAr"`
	Quantity  int              `json:"quantity"`
	Notes     string           `json:"notes"`
	Modifiers []TicketModifier `json:"modifiers"`
}

// KitchenTicket is the payload handed to the printing subsystem when an
// order reaches the kitchen. The order number is mandatory; a ticket is
// never printed for an unnumbered draft.
type KitchenTicket struct {
	OrderNumber string          `json:"orderNumber"`
	OrderType   enums.OrderType `json:"orderType"`
	Notes       string          `json:"notes"`
	Items       []TicketItem    `json:"items"`
	SentAt      time.Time       `json:"sentAt"`
}

// Receipt is the customer-facing payload produced at settlement.
type Receipt struct {
	OrderNumber string              `json:"orderNumber"`
	OrderType   enums.OrderType     `json:"orderType"`
	Items       []TicketItem        `json:"items"`
	Subtotal    decimal.Decimal     `json:"subtotal"`
	Discount    decimal.Decimal     `json:"discount"`
	Total       decimal.Decimal     `json:"total"`
	Method      enums.PaymentMethod `json:"method"`
	CashAmount  decimal.Decimal     `json:"cashAmount"`
	Change      decimal.Decimal     `json:"change"`
	PaidAt      time.Time           `json:"paidAt"`
}

// Printer is the boundary to the hard-copy printing subsystem.
type Printer interface {
	PrintKitchenTicket(ctx context.Context, ticket KitchenTicket) error
	PrintReceipt(ctx context.Context, receipt Receipt) error
}

// BuildKitchenTicket assembles the ticket payload from a numbered order.
func BuildKitchenTicket(order *models.Order) KitchenTicket {
	ticket := KitchenTicket{
		OrderType: order.Type,
		Items:     buildItems(order.Items),
	}
	if order.OrderNumber != nil {
		ticket.OrderNumber = *order.OrderNumber
	}
	if order.Notes != nil {
		ticket.Notes = *order.Notes
	}
	if order.SentToKitchenAt != nil {
		ticket.SentAt = *order.SentToKitchenAt
	}
	return ticket
}

// BuildReceipt assembles the receipt payload from a settled order and its
// payment. Change is only meaningful for cash settlements.
func BuildReceipt(order *models.Order, payment *models.Payment) Receipt {
	receipt := Receipt{
		OrderType:  order.Type,
		Items:      buildItems(order.Items),
		Subtotal:   order.Subtotal,
		Discount:   order.Discount,
		Total:      order.Total,
		Method:     payment.Method,
		CashAmount: payment.CashAmount,
		Change:     decimal.Zero,
	}
	if order.OrderNumber != nil {
		receipt.OrderNumber = *order.OrderNumber
	}
	if payment.Method == enums.PaymentMethodCash {
		receipt.Change = payment.CashAmount.Sub(payment.Total)
	}
	if order.PaidAt != nil {
		receipt.PaidAt = *order.PaidAt
	}
	return receipt
}

func buildItems(items []models.OrderItem) []TicketItem {
	out := make([]TicketItem, 0, len(items))
	for _, item := range items {
		ticketItem := TicketItem{
			Name:     item.Name,
			NameAr:   item.NameAr,
			Quantity: item.Quantity,
		}
		if item.Notes != nil {
			ticketItem.Notes = *item.Notes
		}
		for _, m := range item.Modifiers {
			ticketItem.Modifiers = append(ticketItem.Modifiers, TicketModifier{
				Name:   m.Name,
				NameAr: m.NameAr,
			})
		}
		out = append(out, ticketItem)
	}
	return out
}
