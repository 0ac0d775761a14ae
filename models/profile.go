// Package models contains domain entities and business models for the marketplace
package models

import (
	"time"
)

// Profile is the operator's public identity, a single row with ID 1. Its
// BaseZip doubles as the house provider's location for eligibility checks
// and its names feed the PostedBy display string on operator listings.
type Profile struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	FirstName    string  `gorm:"size:255" json:"first_name"`
	BusinessName string  `gorm:"size:255" json:"business_name"`
	ContactEmail *string `gorm:"size:255" json:"contact_email,omitempty"`
	Phone        *string `gorm:"size:20" json:"phone,omitempty"`
	BaseZip      *string `gorm:"size:5" json:"base_zip,omitempty"`
	Address      *string `gorm:"size:255" json:"address,omitempty"`
	About        *string `gorm:"type:text" json:"about,omitempty"`

	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Profile) TableName() string {
	return "profile"
}

// OperatorProfileID is the fixed primary key of the single profile row.
const OperatorProfileID uint = 1

// PostedByName returns the display name used on operator-posted listings.
func (p *Profile) PostedByName() string {
	if p.FirstName != "" {
		return p.FirstName
	}
	if p.BusinessName != "" {
		return p.BusinessName
	}
	return "Provider"
}

// HasBaseZip reports whether the operator has a usable base location.
func (p *Profile) HasBaseZip() bool {
	return p.BaseZip != nil && *p.BaseZip != ""
}
