package models

import (
	"github.com/shopspring/decimal"
)

// OrderItem snapshots one ordered line. Name and price are copied from the
// product so the order survives catalog edits unchanged.
type OrderItem struct {
	ID        int64               `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderID   int64               `gorm:"column:order_id;not null" json:"orderId"`
	ProductID int64               `gorm:"column:product_id;not null" json:"productId"`
	Name      string              `gorm:"column:name;not null" json:"name"`
	NameAr    string              `gorm:"column:name_ar;not null" json:"nameAr"`
	Quantity  int                 `gorm:"column:quantity;not null" json:"quantity"`
	Price     decimal.Decimal     `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
	Notes     *string             `gorm:"column:notes" json:"notes"`
	Modifiers []OrderItemModifier `gorm:"foreignKey:OrderItemID;constraint:OnDelete:CASCADE" json:"modifiers"`
}
