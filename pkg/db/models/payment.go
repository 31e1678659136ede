package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sajpos/counter-backend/pkg/enums"
)

// Payment settles one order. The unique index on OrderID enforces the
// at-most-one-payment-per-order rule at the storage layer.
type Payment struct {
	ID         int64               `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderID    int64               `gorm:"column:order_id;not null;uniqueIndex" json:"orderId"`
	Method     enums.PaymentMethod `gorm:"column:method;not null" json:"method"`
	CashAmount decimal.Decimal     `gorm:"column:cash_amount;type:numeric(10,2);not null;default:0" json:"cashAmount"`
	CardAmount decimal.Decimal     `gorm:"column:card_amount;type:numeric(10,2);not null;default:0" json:"cardAmount"`
	Total      decimal.Decimal     `gorm:"column:total;type:numeric(10,2);not null" json:"total"`
	CreatedAt  time.Time           `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
