// Package models contains domain entities and business models for the marketplace
package models

import (
	"time"
)

// Product is a physical item listed by a provider, shown on browse pages.
// Products are not indexed by the search engine; only services are.
type Product struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	ProviderID uint   `gorm:"not null;index:idx_products_provider_id" json:"provider_id"`
	PostedBy   string `gorm:"size:255" json:"posted_by"`

	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Price       string `gorm:"size:100" json:"price"` // free text, same as Service.Price

	IsActive *bool `gorm:"default:true;index:idx_products_is_active" json:"is_active"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_products_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// ProductFilter represents filter criteria for product queries
type ProductFilter struct {
	ID            *uint
	ProviderID    *uint
	IsActive      *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
