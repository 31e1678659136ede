package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sajpos/counter-backend/pkg/enums"
)

// Modifier is an add-on or option attached to products through the
// product_modifiers junction table.
type Modifier struct {
	ID        int64              `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name      string             `gorm:"column:name;not null" json:"name"`
	NameAr    string             `gorm:"column:name_ar;not null" json:"nameAr"`
	Price     decimal.Decimal    `gorm:"column:price;type:numeric(10,2);not null;default:0" json:"price"`
	Type      enums.ModifierType `gorm:"column:type;not null;default:'addon'" json:"type"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
