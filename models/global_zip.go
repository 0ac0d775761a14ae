// Package models contains domain entities and business models for the marketplace
package models

import (
	"time"
)

// GlobalZip is one row of the operator-wide ZIP allowlist used in
// single-operator deployments: the customer ZIP is servable when it matches
// a row exactly or falls within the row's radius of that ZIP.
type GlobalZip struct {
	Zip         string    `gorm:"primaryKey;size:5" json:"zip"`
	RadiusMiles float64   `gorm:"not null;default:20" json:"radius_miles"`
	CreatedAt   time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
}

func (GlobalZip) TableName() string {
	return "zips"
}

// GlobalZipDefaultRadiusMiles applies when an allowlist row is added without
// a radius.
const GlobalZipDefaultRadiusMiles = 20.0

// GlobalZipFilter represents filter criteria for global ZIP queries
type GlobalZipFilter struct {
	Zip           *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
