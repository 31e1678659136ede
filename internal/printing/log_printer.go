package printing

import (
	"context"

	"github.com/sajpos/counter-backend/pkg/logger"
)

// LogPrinter writes print payloads to the structured log. It stands in for
// the physical printer in dev and in deployments without one attached.
type LogPrinter struct {
	logg *logger.Logger
}

// NewLogPrinter builds the logging printer.
func NewLogPrinter(logg *logger.Logger) *LogPrinter {
	return &LogPrinter{logg: logg}
}

func (p *LogPrinter) PrintKitchenTicket(ctx context.Context, ticket KitchenTicket) error {
	if p.logg == nil {
		return nil
	}
	ctx = p.logg.WithFields(ctx, map[string]any{
		"order_number": ticket.OrderNumber,
		"order_type":   ticket.OrderType,
		"item_count":   len(ticket.Items),
	})
	p.logg.Info(ctx, "print.kitchen_ticket")
	return nil
}

func (p *LogPrinter) PrintReceipt(ctx context.Context, receipt Receipt) error {
	if p.logg == nil {
		return nil
	}
	ctx = p.logg.WithFields(ctx, map[string]any{
		"order_number": receipt.OrderNumber,
		"method":       receipt.Method,
		"total":        receipt.Total,
		"change":       receipt.Change,
	})
	p.logg.Info(ctx, "print.receipt")
	return nil
}
