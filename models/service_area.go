// Package models contains domain entities and business models for the marketplace
package models

import (
	"time"
)

// ServiceArea is an explicit (ZIP, radius) pair a provider registers beyond
// their base ZIP. Unique per (provider_id, zip_code); the intake flow caps
// them at MaxServiceAreasPerProvider rows per provider.
type ServiceArea struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	ProviderID uint     `gorm:"not null;index:idx_service_areas_provider_id;uniqueIndex:uk_service_areas_provider_zip" json:"provider_id"`
	Provider   Provider `gorm:"foreignKey:ProviderID;references:ID" json:"-"`

	ZipCode     string  `gorm:"size:5;not null;uniqueIndex:uk_service_areas_provider_zip;index:idx_service_areas_zip_code" json:"zip_code"`
	RadiusMiles float64 `gorm:"not null;default:10" json:"radius_miles"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_service_areas_created_at" json:"created_at"`
}

func (ServiceArea) TableName() string {
	return "service_areas"
}

const (
	// MaxServiceAreasPerProvider caps explicit coverage rows per provider.
	MaxServiceAreasPerProvider = 5

	// DefaultServiceAreaRadiusMiles applies when a service area is added
	// without a radius.
	DefaultServiceAreaRadiusMiles = 10.0

	// DefaultBaseRadiusMiles is the implicit radius around a provider's
	// base ZIP. Intentionally distinct from the service-area default; the
	// two constants are not interchangeable.
	DefaultBaseRadiusMiles = 20.0
)

// ServiceAreaFilter represents filter criteria for service area queries
type ServiceAreaFilter struct {
	ID            *uint
	ProviderID    *uint
	ZipCode       *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
