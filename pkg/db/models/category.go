package models

import "time"

// Category groups products on the terminal grid. Names carry the primary
// and secondary display languages.
type Category struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"column:name;not null" json:"name"`
	NameAr       string    `gorm:"column:name_ar;not null" json:"nameAr"`
	DisplayOrder int       `gorm:"column:display_order;not null;default:0" json:"displayOrder"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true" json:"isActive"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
