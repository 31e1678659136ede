package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sajpos/counter-backend/pkg/enums"
)

// Order is the persisted counter order. OrderNumber stays NULL until the
// kitchen submission assigns it; it is unique and never reused.
type Order struct {
	ID              int64             `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderNumber     *string           `gorm:"column:order_number;uniqueIndex" json:"orderNumber"`
	Type            enums.OrderType   `gorm:"column:type;not null;default:'takeaway'" json:"type"`
	Status          enums.OrderStatus `gorm:"column:status;not null;default:'draft'" json:"status"`
	Notes           *string           `gorm:"column:notes" json:"notes"`
	Subtotal        decimal.Decimal   `gorm:"column:subtotal;type:numeric(10,2);not null" json:"subtotal"`
	Discount        decimal.Decimal   `gorm:"column:discount;type:numeric(10,2);not null;default:0" json:"discount"`
	Total           decimal.Decimal   `gorm:"column:total;type:numeric(10,2);not null" json:"total"`
	SentToKitchenAt *time.Time        `gorm:"column:sent_to_kitchen_at" json:"sentToKitchenAt"`
	PaidAt          *time.Time        `gorm:"column:paid_at" json:"paidAt"`
	Items           []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
