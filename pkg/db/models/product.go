package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable catalog item. Orders copy its price at submission
// time, so later edits never rewrite history.
type Product struct {
	ID           int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CategoryID   int64           `gorm:"column:category_id;not null" json:"categoryId"`
	Name         string          `gorm:"column:name;not null" json:"name"`
	NameAr       string          `gorm:"column:name_ar;not null" json:"nameAr"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
	IsActive     bool            `gorm:"column:is_active;not null;default:true" json:"isActive"`
	DisplayOrder int             `gorm:"column:display_order;not null;default:0" json:"displayOrder"`
	Modifiers    []Modifier      `gorm:"many2many:product_modifiers" json:"modifiers"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
