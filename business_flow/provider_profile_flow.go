// Package businessflow contains the core business logic and use cases for the marketplace
package businessflow

import (
	"context"
	"fmt"

	"github.com/localyard/localyard/app/dto"
	"github.com/localyard/localyard/models"
	"github.com/localyard/localyard/repository"
	"github.com/localyard/localyard/utils"
	"gorm.io/gorm"
)

// ProviderProfileFlow handles the provider's own profile, coverage areas and
// pipeline analytics.
type ProviderProfileFlow interface {
	GetProfile(ctx context.Context, providerID uint) (*dto.ProviderDTO, error)
	UpdateProfile(ctx context.Context, providerID uint, request *dto.UpdateProviderProfileRequest, metadata *ClientMetadata) (*dto.ProviderDTO, error)
	ListServiceAreas(ctx context.Context, providerID uint) (*dto.ServiceAreasResponse, error)
	AddServiceArea(ctx context.Context, providerID uint, request *dto.AddServiceAreaRequest, metadata *ClientMetadata) (*dto.ServiceAreaDTO, error)
	RemoveServiceArea(ctx context.Context, providerID, areaID uint, metadata *ClientMetadata) error
	Analytics(ctx context.Context, providerID uint) (*dto.ProviderAnalyticsResponse, error)
}

// ProviderProfileFlowImpl implements the provider profile business flow
type ProviderProfileFlowImpl struct {
	providerRepo    repository.ProviderRepository
	serviceAreaRepo repository.ServiceAreaRepository
	serviceRepo     repository.ServiceRepository
	leadRepo        repository.LeadRepository
	auditRepo       repository.AuditLogRepository
	db              *gorm.DB
}

// NewProviderProfileFlow creates a new provider profile flow instance
func NewProviderProfileFlow(
	providerRepo repository.ProviderRepository,
	serviceAreaRepo repository.ServiceAreaRepository,
	serviceRepo repository.ServiceRepository,
	leadRepo repository.LeadRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) ProviderProfileFlow {
	return &ProviderProfileFlowImpl{
		providerRepo:    providerRepo,
		serviceAreaRepo: serviceAreaRepo,
		serviceRepo:     serviceRepo,
		leadRepo:        leadRepo,
		auditRepo:       auditRepo,
		db:              db,
	}
}

func (pf *ProviderProfileFlowImpl) GetProfile(ctx context.Context, providerID uint) (*dto.ProviderDTO, error) {
	provider, err := pf.loadProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	result := ToProviderDTO(*provider)
	return &result, nil
}

// UpdateProfile applies partial edits: only non-nil fields change.
func (pf *ProviderProfileFlowImpl) UpdateProfile(ctx context.Context, providerID uint, request *dto.UpdateProviderProfileRequest, metadata *ClientMetadata) (*dto.ProviderDTO, error) {
	provider, err := pf.loadProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}

	if request.FirstName != nil {
		provider.FirstName = *request.FirstName
	}
	if request.BusinessName != nil {
		provider.BusinessName = *request.BusinessName
	}
	if request.Phone != nil {
		provider.Phone = request.Phone
	}
	if request.BaseZip != nil {
		provider.BaseZip = request.BaseZip
	}
	if request.Address != nil {
		provider.Address = request.Address
	}
	if request.About != nil {
		provider.About = request.About
	}
	if request.WebsiteURL != nil {
		provider.WebsiteURL = request.WebsiteURL
	}
	if request.FacebookURL != nil {
		provider.FacebookURL = request.FacebookURL
	}
	if request.InstagramURL != nil {
		provider.InstagramURL = request.InstagramURL
	}
	provider.UpdatedAt = utils.UTCNow()

	if err := pf.providerRepo.Update(ctx, provider); err != nil {
		return nil, NewBusinessError("PROFILE_UPDATE_FAILED", "Failed to update profile", err)
	}

	pf.auditEvent(ctx, providerID, models.AuditActionProfileUpdated, "profile updated", metadata)

	result := ToProviderDTO(*provider)
	return &result, nil
}

func (pf *ProviderProfileFlowImpl) ListServiceAreas(ctx context.Context, providerID uint) (*dto.ServiceAreasResponse, error) {
	areas, err := pf.serviceAreaRepo.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, NewBusinessError("SERVICE_AREA_LIST_FAILED", "Failed to list service areas", err)
	}

	response := &dto.ServiceAreasResponse{ServiceAreas: make([]dto.ServiceAreaDTO, 0, len(areas))}
	for _, area := range areas {
		response.ServiceAreas = append(response.ServiceAreas, ToServiceAreaDTO(*area))
	}
	return response, nil
}

// AddServiceArea registers a new coverage row, enforcing the per-provider
// cap and the one-row-per-ZIP uniqueness.
func (pf *ProviderProfileFlowImpl) AddServiceArea(ctx context.Context, providerID uint, request *dto.AddServiceAreaRequest, metadata *ClientMetadata) (*dto.ServiceAreaDTO, error) {
	radius := request.RadiusMiles
	if radius <= 0 {
		radius = models.DefaultServiceAreaRadiusMiles
	}

	area := &models.ServiceArea{
		ProviderID:  providerID,
		ZipCode:     request.ZipCode,
		RadiusMiles: radius,
		CreatedAt:   utils.UTCNow(),
	}

	err := repository.WithTransaction(ctx, pf.db, func(ctx context.Context) error {
		count, err := pf.serviceAreaRepo.CountByProvider(ctx, providerID)
		if err != nil {
			return err
		}
		if count >= models.MaxServiceAreasPerProvider {
			return ErrServiceAreaLimitReached
		}

		existing, err := pf.serviceAreaRepo.ByProviderAndZip(ctx, providerID, request.ZipCode)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrServiceAreaDuplicate
		}

		if err := pf.serviceAreaRepo.Save(ctx, area); err != nil {
			return err
		}

		pf.auditEvent(ctx, providerID, models.AuditActionServiceAreaAdded, fmt.Sprintf("service area %s (%.0f mi)", area.ZipCode, area.RadiusMiles), metadata)
		return nil
	})
	if err != nil {
		switch {
		case IsServiceAreaLimitReached(err):
			return nil, NewBusinessErrorf("SERVICE_AREA_LIMIT_REACHED", "At most %d service areas are allowed", err, models.MaxServiceAreasPerProvider)
		case IsServiceAreaDuplicate(err):
			return nil, NewBusinessError("SERVICE_AREA_DUPLICATE", "Service area already registered for this zip", err)
		default:
			return nil, NewBusinessError("SERVICE_AREA_ADD_FAILED", "Failed to add service area", err)
		}
	}

	result := ToServiceAreaDTO(*area)
	return &result, nil
}

func (pf *ProviderProfileFlowImpl) RemoveServiceArea(ctx context.Context, providerID, areaID uint, metadata *ClientMetadata) error {
	deleted, err := pf.serviceAreaRepo.DeleteByIDAndProvider(ctx, areaID, providerID)
	if err != nil {
		return NewBusinessError("SERVICE_AREA_REMOVE_FAILED", "Failed to remove service area", err)
	}
	if !deleted {
		return NewBusinessError("SERVICE_AREA_NOT_FOUND", "Service area not found", ErrServiceAreaNotFound)
	}

	pf.auditEvent(ctx, providerID, models.AuditActionServiceAreaRemoved, fmt.Sprintf("service area %d removed", areaID), metadata)
	return nil
}

// Analytics summarizes the provider's lead pipeline by status.
func (pf *ProviderProfileFlowImpl) Analytics(ctx context.Context, providerID uint) (*dto.ProviderAnalyticsResponse, error) {
	response := &dto.ProviderAnalyticsResponse{}

	total, err := pf.leadRepo.Count(ctx, models.LeadFilter{ProviderID: &providerID})
	if err != nil {
		return nil, NewBusinessError("ANALYTICS_FAILED", "Failed to count leads", err)
	}
	response.TotalLeads = total

	counts := []struct {
		status string
		dest   *int64
	}{
		{models.LeadStatusNew, &response.NewLeads},
		{models.LeadStatusScheduled, &response.ScheduledLeads},
		{models.LeadStatusCompleted, &response.CompletedLeads},
		{models.LeadStatusRejected, &response.RejectedLeads},
	}
	for _, c := range counts {
		n, err := pf.leadRepo.CountByProviderAndStatus(ctx, providerID, c.status)
		if err != nil {
			return nil, NewBusinessError("ANALYTICS_FAILED", "Failed to count leads", err)
		}
		*c.dest = n
	}

	recurring, err := pf.leadRepo.CountRecurringByProvider(ctx, providerID)
	if err != nil {
		return nil, NewBusinessError("ANALYTICS_FAILED", "Failed to count recurring leads", err)
	}
	response.RecurringLeads = recurring

	activeServices, err := pf.serviceRepo.Count(ctx, models.ServiceFilter{ProviderID: &providerID, IsActive: utils.ToPtr(true)})
	if err != nil {
		return nil, NewBusinessError("ANALYTICS_FAILED", "Failed to count services", err)
	}
	response.ActiveServices = activeServices

	return response, nil
}

func (pf *ProviderProfileFlowImpl) loadProvider(ctx context.Context, providerID uint) (*models.Provider, error) {
	provider, err := pf.providerRepo.ByID(ctx, providerID)
	if err != nil {
		return nil, NewBusinessError("PROVIDER_LOOKUP_FAILED", "Failed to load provider", err)
	}
	if provider == nil {
		return nil, NewBusinessError("PROVIDER_NOT_FOUND", "Provider not found", ErrProviderNotFound)
	}
	return provider, nil
}

func (pf *ProviderProfileFlowImpl) auditEvent(ctx context.Context, providerID uint, action, description string, metadata *ClientMetadata) {
	entry := &models.AuditLog{
		ProviderID:  &providerID,
		Action:      action,
		Description: &description,
		Success:     utils.ToPtr(true),
		CreatedAt:   utils.UTCNow(),
	}
	if metadata != nil {
		if metadata.IPAddress != "" {
			entry.IPAddress = utils.ToPtr(metadata.IPAddress)
		}
		if metadata.UserAgent != "" {
			entry.UserAgent = utils.ToPtr(metadata.UserAgent)
		}
		if metadata.RequestID != "" {
			entry.RequestID = utils.ToPtr(metadata.RequestID)
		}
	}
	_ = pf.auditRepo.Save(ctx, entry)
}
