// Package models contains domain entities and business models for the marketplace
package models

import (
	"time"

	"github.com/google/uuid"
)

type Provider struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_providers_uuid;index:idx_providers_uuid" json:"uuid"`

	Email        string `gorm:"size:255;not null;uniqueIndex:idx_providers_email" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"` // Never serialize password hash

	FirstName    string  `gorm:"size:255;not null" json:"first_name"`
	BusinessName string  `gorm:"size:255;not null;index:idx_providers_business_name" json:"business_name"`
	Phone        *string `gorm:"size:20" json:"phone,omitempty"`

	// BaseZip is the provider's primary location, center of their default
	// service radius. Nullable: a provider without a base ZIP relies solely
	// on explicit service areas for eligibility.
	BaseZip *string `gorm:"size:5;index:idx_providers_base_zip" json:"base_zip,omitempty"`

	Address      *string `gorm:"size:255" json:"address,omitempty"`
	About        *string `gorm:"type:text" json:"about,omitempty"`
	WebsiteURL   *string `gorm:"size:255" json:"website_url,omitempty"`
	FacebookURL  *string `gorm:"size:255" json:"facebook_url,omitempty"`
	InstagramURL *string `gorm:"size:255" json:"instagram_url,omitempty"`

	IsActive *bool `gorm:"default:true;index:idx_providers_is_active" json:"is_active"`

	CreatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_providers_created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
	LastLoginAt *time.Time `gorm:"index:idx_providers_last_login_at" json:"last_login_at,omitempty"`

	// Relations
	ServiceAreas []ServiceArea     `gorm:"foreignKey:ProviderID" json:"service_areas,omitempty"`
	Sessions     []ProviderSession `gorm:"foreignKey:ProviderID" json:"-"`
	AuditLogs    []AuditLog        `gorm:"foreignKey:ProviderID" json:"-"`
}

func (Provider) TableName() string {
	return "providers"
}

// HouseProviderID identifies the admin/default operator acting as a provider.
// Leads with provider_id 0 are unassigned and handled by the operator.
const HouseProviderID uint = 0

// ProviderFilter represents filter criteria for provider queries
type ProviderFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	Email         *string
	BusinessName  *string
	BaseZip       *string
	IsActive      *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// HasBaseZip reports whether the provider has a usable base location.
func (p *Provider) HasBaseZip() bool {
	return p.BaseZip != nil && *p.BaseZip != ""
}

// DisplayName returns the name shown on public listings.
func (p *Provider) DisplayName() string {
	if p.FirstName != "" {
		return p.FirstName
	}
	return p.BusinessName
}
