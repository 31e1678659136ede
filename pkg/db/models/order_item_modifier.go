package models

import (
	"github.com/shopspring/decimal"
)

// OrderItemModifier records a modifier chosen for one order line, with the
// price as charged at order time.
type OrderItemModifier struct {
	OrderItemID int64           `gorm:"column:order_item_id;primaryKey" json:"orderItemId"`
	ModifierID  int64           `gorm:"column:modifier_id;primaryKey" json:"modifierId"`
	Name        string          `gorm:"column:name;not null" json:"name"`
	NameAr      string          `gorm:"column:name_ar;not null" json:"nameAr"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
}
