package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PickupGroup is a pickup station (bar, buffet, ...) that receives its own slip
type PickupGroup struct {
	ID        string `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"not null" json:"name"`
	SortIndex int    `gorm:"column:sort_index;not null;default:0" json:"sort_index"`
}

// TableName returns the table name for the PickupGroup model
func (PickupGroup) TableName() string {
	return "pickup_groups"
}

// Category groups products and carries the default pickup station for them
type Category struct {
	ID             string  `gorm:"primaryKey" json:"id"`
	Name           string  `gorm:"not null" json:"name"`
	SortIndex      int     `gorm:"column:sort_index;not null;default:0" json:"sort_index"`
	DefaultGroupID *string `gorm:"column:default_group_id" json:"default_group_id"`
}

// TableName returns the table name for the Category model
func (Category) TableName() string {
	return "categories"
}

// Product is a sellable catalog entry. GroupID overrides the category default station.
type Product struct {
	ID         string  `gorm:"primaryKey" json:"id"`
	Name       string  `gorm:"not null" json:"name"`
	PriceCents int64   `gorm:"not null" json:"price_cents"`
	CategoryID string  `gorm:"not null;index" json:"category_id"`
	Active     bool    `gorm:"not null" json:"active"`
	SortIndex  int     `gorm:"column:sort_index;not null;default:0" json:"sort_index"`
	GroupID    *string `gorm:"column:group_id" json:"group_id"`
}

// BeforeCreate generates an ID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}
