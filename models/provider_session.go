// Package models contains domain entities and business models for the marketplace
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/localyard/localyard/utils"
)

type ProviderSession struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CorrelationID uuid.UUID `gorm:"type:uuid;not null;index:idx_provider_sessions_correlation_id" json:"correlation_id"` // Groups related session records
	ProviderID    uint      `gorm:"not null;index:idx_provider_sessions_provider_id" json:"provider_id"`
	Provider      Provider  `gorm:"foreignKey:ProviderID;references:ID" json:"provider,omitempty"`

	SessionToken string  `gorm:"size:255;not null;uniqueIndex:idx_provider_sessions_session_token" json:"-"` // Never serialize token
	RefreshToken *string `gorm:"size:255;uniqueIndex:idx_provider_sessions_refresh_token" json:"-"`

	IPAddress *string `gorm:"type:inet;index:idx_provider_sessions_ip_address" json:"ip_address,omitempty"`
	UserAgent *string `gorm:"type:text" json:"user_agent,omitempty"`

	IsActive       *bool     `gorm:"default:true;index:idx_provider_sessions_is_active" json:"is_active"`
	CreatedAt      time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	LastAccessedAt time.Time `gorm:"default:CURRENT_TIMESTAMP;index:idx_provider_sessions_last_accessed" json:"last_accessed_at"`
	ExpiresAt      time.Time `gorm:"not null;index:idx_provider_sessions_expires_at" json:"expires_at"`
}

func (ProviderSession) TableName() string {
	return "provider_sessions"
}

// ProviderSessionFilter represents filter criteria for session queries
type ProviderSessionFilter struct {
	ID            *uint
	CorrelationID *uuid.UUID
	ProviderID    *uint
	IsActive      *bool
	IPAddress     *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	ExpiresAfter  *time.Time
	ExpiresBefore *time.Time
	IsExpired     *bool // Helper to filter expired sessions
}

func (s *ProviderSession) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

func (s *ProviderSession) IsValid() bool {
	return utils.IsTrue(s.IsActive) && !s.IsExpired()
}
