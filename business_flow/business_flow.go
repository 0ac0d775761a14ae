// Package businessflow contains the business logic for the application.
package businessflow

import (
	"time"

	"github.com/localyard/localyard/app/dto"
	"github.com/localyard/localyard/models"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds all client-related information for audit logging and session tracking
type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	RequestID string `json:"request_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// SetSessionID sets the session ID
func (cm *ClientMetadata) SetSessionID(sessionID string) {
	cm.SessionID = sessionID
}

// ToProviderDTO converts a provider model to its API representation
func ToProviderDTO(provider models.Provider) dto.ProviderDTO {
	return dto.ProviderDTO{
		ID:           provider.ID,
		UUID:         provider.UUID.String(),
		Email:        provider.Email,
		FirstName:    provider.FirstName,
		BusinessName: provider.BusinessName,
		Phone:        provider.Phone,
		BaseZip:      provider.BaseZip,
		Address:      provider.Address,
		About:        provider.About,
		WebsiteURL:   provider.WebsiteURL,
		FacebookURL:  provider.FacebookURL,
		InstagramURL: provider.InstagramURL,
		IsActive:     provider.IsActive,
		CreatedAt:    provider.CreatedAt.Format(time.RFC3339),
	}
}

// ToPublicProviderDTO converts a provider model to its public directory view
func ToPublicProviderDTO(provider models.Provider) dto.PublicProviderDTO {
	return dto.PublicProviderDTO{
		ID:           provider.ID,
		BusinessName: provider.BusinessName,
		FirstName:    provider.FirstName,
		Phone:        provider.Phone,
		BaseZip:      provider.BaseZip,
		About:        provider.About,
		WebsiteURL:   provider.WebsiteURL,
		FacebookURL:  provider.FacebookURL,
		InstagramURL: provider.InstagramURL,
	}
}

// ToServiceDTO converts a service model to its API representation
func ToServiceDTO(service models.Service) dto.ServiceDTO {
	return dto.ServiceDTO{
		ID:          service.ID,
		ProviderID:  service.ProviderID,
		PostedBy:    service.PostedBy,
		Title:       service.Title,
		Description: service.Description,
		Price:       service.Price,
		IsActive:    service.IsActive,
		IsCertified: service.IsCertified,
		CreatedAt:   service.CreatedAt.Format(time.RFC3339),
	}
}

// ToProductDTO converts a product model to its API representation
func ToProductDTO(product models.Product) dto.ProductDTO {
	return dto.ProductDTO{
		ID:          product.ID,
		ProviderID:  product.ProviderID,
		PostedBy:    product.PostedBy,
		Title:       product.Title,
		Description: product.Description,
		Price:       product.Price,
		IsActive:    product.IsActive,
		CreatedAt:   product.CreatedAt.Format(time.RFC3339),
	}
}

// ToLeadDTO converts a lead model to its API representation
func ToLeadDTO(lead models.Lead) dto.LeadDTO {
	out := dto.LeadDTO{
		ID:            lead.ID,
		CorrelationID: lead.CorrelationID.String(),
		Name:          lead.Name,
		Email:         lead.Email,
		Phone:         lead.Phone,
		Zip:           lead.Zip,
		Address:       lead.Address,
		Message:       lead.Message,
		ProviderID:    lead.ProviderID,
		Status:        lead.Status,
		Recurring:     lead.Recurring,
		CreatedAt:     lead.CreatedAt.Format(time.RFC3339),
	}
	if lead.FollowUpDate != nil {
		formatted := lead.FollowUpDate.Format(time.RFC3339)
		out.FollowUpDate = &formatted
	}
	return out
}

// ToServiceAreaDTO converts a service area model to its API representation
func ToServiceAreaDTO(area models.ServiceArea) dto.ServiceAreaDTO {
	return dto.ServiceAreaDTO{
		ID:          area.ID,
		ZipCode:     area.ZipCode,
		RadiusMiles: area.RadiusMiles,
		CreatedAt:   area.CreatedAt.Format(time.RFC3339),
	}
}

// ToGlobalZipDTO converts an allowlist row to its API representation
func ToGlobalZipDTO(entry models.GlobalZip) dto.GlobalZipDTO {
	return dto.GlobalZipDTO{
		Zip:         entry.Zip,
		RadiusMiles: entry.RadiusMiles,
		CreatedAt:   entry.CreatedAt.Format(time.RFC3339),
	}
}

// ToOperatorProfileDTO converts the operator profile row to its API representation
func ToOperatorProfileDTO(profile models.Profile) dto.OperatorProfileDTO {
	return dto.OperatorProfileDTO{
		FirstName:    profile.FirstName,
		BusinessName: profile.BusinessName,
		ContactEmail: profile.ContactEmail,
		Phone:        profile.Phone,
		BaseZip:      profile.BaseZip,
		Address:      profile.Address,
		About:        profile.About,
		UpdatedAt:    profile.UpdatedAt.Format(time.RFC3339),
	}
}
