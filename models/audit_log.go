// Package models contains domain entities and business models for the marketplace
package models

import (
	"encoding/json"
	"time"
)

type AuditLog struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	ProviderID   *uint           `gorm:"index:idx_audit_provider_id" json:"provider_id,omitempty"`
	Provider     *Provider       `gorm:"foreignKey:ProviderID;references:ID" json:"provider,omitempty"`
	Action       string          `gorm:"size:64;not null;index:idx_audit_action" json:"action"`
	Description  *string         `gorm:"type:text" json:"description,omitempty"`
	IPAddress    *string         `gorm:"type:inet;index:idx_audit_ip_address" json:"ip_address,omitempty"`
	UserAgent    *string         `gorm:"type:text" json:"user_agent,omitempty"`
	RequestID    *string         `gorm:"size:255;index:idx_audit_request_id" json:"request_id,omitempty"`
	Metadata     json.RawMessage `gorm:"type:jsonb" json:"metadata,omitempty"`
	Success      *bool           `gorm:"default:true;index:idx_audit_success" json:"success"`
	ErrorMessage *string         `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time       `gorm:"default:CURRENT_TIMESTAMP;index:idx_audit_created_at" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_log"
}

// Audit action constants
const (
	AuditActionProviderRegistered  = "provider_registered"
	AuditActionLoginSuccess        = "login_success"
	AuditActionLoginFailed         = "login_failed"
	AuditActionLogout              = "logout"
	AuditActionPasswordChanged     = "password_changed"
	AuditActionProfileUpdated      = "profile_updated"
	AuditActionProviderActivated   = "provider_activated"
	AuditActionProviderDeactivated = "provider_deactivated"
	AuditActionSessionCreated      = "session_created"
	AuditActionSessionExpired      = "session_expired"
	AuditActionAdminLoginSuccess   = "admin_login_success"
	AuditActionAdminLoginFailed    = "admin_login_failed"
	AuditActionServiceAreaAdded    = "service_area_added"
	AuditActionServiceAreaRemoved  = "service_area_removed"
	AuditActionLeadCreated         = "lead_created"
	AuditActionLeadRejectedByGate  = "lead_rejected_by_gate"
	AuditActionLeadCompleted       = "lead_completed"
	AuditActionLeadRejected        = "lead_rejected"
	AuditActionLeadScheduled       = "lead_scheduled"
	AuditActionLeadAssigned        = "lead_assigned"
)

// AuditLogFilter represents filter criteria for audit log queries
type AuditLogFilter struct {
	ID            *uint
	ProviderID    *uint
	Action        *string
	Success       *bool
	IPAddress     *string
	RequestID     *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

func (a *AuditLog) IsFailed() bool {
	return a.Success != nil && !*a.Success
}

func (a *AuditLog) IsSecurityEvent() bool {
	securityActions := map[string]bool{
		AuditActionLoginSuccess:        true,
		AuditActionLoginFailed:         true,
		AuditActionAdminLoginSuccess:   true,
		AuditActionAdminLoginFailed:    true,
		AuditActionPasswordChanged:     true,
		AuditActionProviderActivated:   true,
		AuditActionProviderDeactivated: true,
	}
	return securityActions[a.Action]
}
