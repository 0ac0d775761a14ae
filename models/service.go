// Package models contains domain entities and business models for the marketplace
package models

import (
	"time"
)

// Service is a listing offered by a provider (or by the operator, with
// ProviderID = HouseProviderID). Attribution is carried by the explicit
// ProviderID foreign key; PostedBy is a denormalized display string only and
// must never be used to resolve the owning provider.
type Service struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	ProviderID uint   `gorm:"not null;index:idx_services_provider_id" json:"provider_id"`
	PostedBy   string `gorm:"size:255" json:"posted_by"`

	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`

	// Price is free text ("$40/visit", "from $99"), not a numeric amount.
	Price string `gorm:"size:100" json:"price"`

	IsActive           *bool   `gorm:"default:true;index:idx_services_is_active" json:"is_active"`
	IsCertified        *bool   `gorm:"default:false" json:"is_certified"`
	CertificationProof *string `gorm:"size:255" json:"certification_proof,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_services_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Service) TableName() string {
	return "services"
}

// ServiceFilter represents filter criteria for service queries
type ServiceFilter struct {
	ID            *uint
	ProviderID    *uint
	IsActive      *bool
	IsCertified   *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
