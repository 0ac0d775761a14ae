// Package models contains domain entities and business models for the marketplace
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/localyard/localyard/utils"
)

// Lead captures a customer contact event awaiting provider action.
type Lead struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CorrelationID uuid.UUID `gorm:"type:uuid;not null;index:idx_leads_correlation_id" json:"correlation_id"`

	Name    string  `gorm:"size:255;not null" json:"name"`
	Email   *string `gorm:"size:255" json:"email,omitempty"`
	Phone   *string `gorm:"size:20" json:"phone,omitempty"`
	Zip     string  `gorm:"size:5;not null;index:idx_leads_zip" json:"zip"`
	Address *string `gorm:"size:255" json:"address,omitempty"`
	Message *string `gorm:"type:text" json:"message,omitempty"`

	// ProviderID 0 routes the lead to the operator (house provider).
	ProviderID uint `gorm:"not null;default:0;index:idx_leads_provider_id" json:"provider_id"`

	Status       string     `gorm:"size:20;not null;default:new;index:idx_leads_status" json:"status"`
	Recurring    *bool      `gorm:"default:false;index:idx_leads_recurring" json:"recurring"`
	FollowUpDate *time.Time `json:"follow_up_date,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_leads_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Lead) TableName() string {
	return "leads"
}

// Lead status constants
const (
	LeadStatusNew       = "new"
	LeadStatusScheduled = "scheduled"
	LeadStatusCompleted = "completed"
	LeadStatusRejected  = "rejected"
)

// RecurringMessagePrefix marks the follow-up lead spawned when a recurring
// lead is completed.
const RecurringMessagePrefix = "[RECURRING WEEKLY]"

// RecurringFollowUpInterval is the gap between a completed recurring lead
// and its auto-scheduled successor.
const RecurringFollowUpInterval = 7 * 24 * time.Hour

// LeadFilter represents filter criteria for lead queries
type LeadFilter struct {
	ID            *uint
	CorrelationID *uuid.UUID
	ProviderID    *uint
	Zip           *string
	Status        *string
	Recurring     *bool
	ActiveOnly    *bool // pending leads: status NULL or not in (completed, rejected)
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// IsOpen reports whether the lead still awaits provider action.
func (l *Lead) IsOpen() bool {
	return l.Status != LeadStatusCompleted && l.Status != LeadStatusRejected
}

// IsRecurring reports whether the lead is flagged for weekly re-scheduling.
func (l *Lead) IsRecurring() bool {
	return utils.IsTrue(l.Recurring)
}
