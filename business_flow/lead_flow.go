// Package businessflow contains the core business logic and use cases for the marketplace
package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/localyard/localyard/app/dto"
	"github.com/localyard/localyard/models"
	"github.com/localyard/localyard/repository"
	"github.com/localyard/localyard/utils"
	"gorm.io/gorm"
)

// LeadFlow handles the customer contact form and the lead lifecycle.
type LeadFlow interface {
	SubmitContact(ctx context.Context, request *dto.ContactRequest, metadata *ClientMetadata) (*dto.ContactResponse, error)
	ListLeads(ctx context.Context, providerID *uint, view string, page, pageSize int) (*dto.LeadListResponse, error)
	CompleteLead(ctx context.Context, leadID uint, actorProviderID *uint, metadata *ClientMetadata) (*dto.LeadDTO, error)
	RejectLead(ctx context.Context, leadID uint, actorProviderID *uint, metadata *ClientMetadata) (*dto.LeadDTO, error)
	ScheduleLead(ctx context.Context, leadID uint, actorProviderID *uint, metadata *ClientMetadata) (*dto.LeadDTO, error)
	ToggleRecurring(ctx context.Context, leadID uint, actorProviderID *uint) (*dto.LeadDTO, error)
	AssignLead(ctx context.Context, leadID, providerID uint, metadata *ClientMetadata) (*dto.LeadDTO, error)
}

// LeadFlowImpl implements the lead business flow
type LeadFlowImpl struct {
	leadRepo        repository.LeadRepository
	providerRepo    repository.ProviderRepository
	auditRepo       repository.AuditLogRepository
	eligibilityFlow EligibilityFlow
	db              *gorm.DB
}

// NewLeadFlow creates a new lead flow instance
func NewLeadFlow(
	leadRepo repository.LeadRepository,
	providerRepo repository.ProviderRepository,
	auditRepo repository.AuditLogRepository,
	eligibilityFlow EligibilityFlow,
	db *gorm.DB,
) LeadFlow {
	return &LeadFlowImpl{
		leadRepo:        leadRepo,
		providerRepo:    providerRepo,
		auditRepo:       auditRepo,
		eligibilityFlow: eligibilityFlow,
		db:              db,
	}
}

// SubmitContact records a customer contact as a lead. The ZIP must pass the
// eligibility gate first; a non-servable ZIP is acknowledged without
// creating a lead.
func (lf *LeadFlowImpl) SubmitContact(ctx context.Context, request *dto.ContactRequest, metadata *ClientMetadata) (*dto.ContactResponse, error) {
	eligible, err := lf.eligibilityFlow.EligibleProviders(ctx, request.Zip)
	if err != nil {
		return nil, err
	}

	if len(eligible.Providers) == 0 {
		leadsGateRejectedTotal.Inc()
		lf.audit(ctx, nil, models.AuditActionLeadRejectedByGate, fmt.Sprintf("contact from zip %s outside coverage", request.Zip), metadata, true, nil)
		return &dto.ContactResponse{
			Servable: false,
			Message:  "Sorry, we don't serve that area yet.",
		}, nil
	}

	// First eligible provider wins the lead
	targetProviderID := eligible.Providers[0].ProviderID

	lead := &models.Lead{
		CorrelationID: uuid.New(),
		Name:          request.Name,
		Zip:           request.Zip,
		ProviderID:    targetProviderID,
		Status:        models.LeadStatusNew,
		Recurring:     utils.ToPtr(request.Recurring),
		CreatedAt:     utils.UTCNow(),
		UpdatedAt:     utils.UTCNow(),
	}
	if request.Email != "" {
		lead.Email = utils.ToPtr(request.Email)
	}
	if request.Phone != "" {
		lead.Phone = utils.ToPtr(request.Phone)
	}
	if request.Address != "" {
		lead.Address = utils.ToPtr(request.Address)
	}
	if request.Message != "" {
		lead.Message = utils.ToPtr(request.Message)
	}

	err = repository.WithTransaction(ctx, lf.db, func(ctx context.Context) error {
		if err := lf.leadRepo.Save(ctx, lead); err != nil {
			return err
		}
		lf.audit(ctx, &targetProviderID, models.AuditActionLeadCreated, fmt.Sprintf("lead %s from zip %s", lead.CorrelationID, lead.Zip), metadata, true, nil)
		return nil
	})
	if err != nil {
		return nil, NewBusinessError("LEAD_CREATE_FAILED", "Failed to record contact", err)
	}

	leadsCreatedTotal.Inc()

	return &dto.ContactResponse{
		LeadID:        lead.ID,
		CorrelationID: lead.CorrelationID.String(),
		Status:        lead.Status,
		Servable:      true,
		Message:       "Thanks! We'll be in touch shortly.",
	}, nil
}

// ListLeads returns a page of leads, newest first. providerID nil lists all
// leads (admin view); otherwise only that provider's leads. view narrows by
// tab: "active", "completed", "rejected", "recurring", or "" for everything.
func (lf *LeadFlowImpl) ListLeads(ctx context.Context, providerID *uint, view string, page, pageSize int) (*dto.LeadListResponse, error) {
	if page < 1 {
		return nil, NewBusinessError("LEAD_LIST_VALIDATION_FAILED", "Invalid page", ErrInvalidPage)
	}
	if pageSize < 1 || pageSize > 100 {
		return nil, NewBusinessError("LEAD_LIST_VALIDATION_FAILED", "Invalid page size", ErrInvalidPageSize)
	}

	filter := models.LeadFilter{ProviderID: providerID}
	switch view {
	case "":
	case "active":
		filter.ActiveOnly = utils.ToPtr(true)
	case "completed":
		filter.Status = utils.ToPtr(models.LeadStatusCompleted)
	case "rejected":
		filter.Status = utils.ToPtr(models.LeadStatusRejected)
	case "recurring":
		filter.Recurring = utils.ToPtr(true)
	default:
		return nil, NewBusinessError("LEAD_LIST_VALIDATION_FAILED", "Invalid view", ErrInvalidLeadView)
	}
	leads, err := lf.leadRepo.ByFilter(ctx, filter, "created_at DESC", pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("LEAD_LIST_FAILED", "Failed to list leads", err)
	}
	total, err := lf.leadRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("LEAD_LIST_FAILED", "Failed to count leads", err)
	}

	response := &dto.LeadListResponse{Leads: make([]dto.LeadDTO, 0, len(leads)), Total: total}
	for _, lead := range leads {
		response.Leads = append(response.Leads, ToLeadDTO(*lead))
	}
	return response, nil
}

// CompleteLead closes a lead as done. Completing a recurring lead also
// schedules its weekly follow-up in the same transaction: a new lead seven
// days out, already marked scheduled, message prefixed so the provider can
// tell it apart from fresh inquiries.
func (lf *LeadFlowImpl) CompleteLead(ctx context.Context, leadID uint, actorProviderID *uint, metadata *ClientMetadata) (*dto.LeadDTO, error) {
	var updated *models.Lead

	err := repository.WithTransaction(ctx, lf.db, func(ctx context.Context) error {
		lead, err := lf.loadOwnedLead(ctx, leadID, actorProviderID)
		if err != nil {
			return err
		}
		if !lead.IsOpen() {
			return ErrLeadAlreadyClosed
		}

		lead.Status = models.LeadStatusCompleted
		lead.UpdatedAt = utils.UTCNow()
		if err := lf.leadRepo.Update(ctx, lead); err != nil {
			return err
		}

		if lead.IsRecurring() {
			if err := lf.leadRepo.Save(ctx, recurringSuccessor(lead)); err != nil {
				return err
			}
		}

		lf.audit(ctx, &lead.ProviderID, models.AuditActionLeadCompleted, fmt.Sprintf("lead %d completed", lead.ID), metadata, true, nil)
		updated = lead
		return nil
	})
	if err != nil {
		return nil, wrapLeadError(err)
	}

	result := ToLeadDTO(*updated)
	return &result, nil
}

// recurringSuccessor builds the follow-up lead spawned by completing a
// recurring lead.
func recurringSuccessor(lead *models.Lead) *models.Lead {
	message := models.RecurringMessagePrefix
	if lead.Message != nil && *lead.Message != "" {
		message = models.RecurringMessagePrefix + " " + *lead.Message
	}
	followUp := utils.UTCNow().Add(models.RecurringFollowUpInterval)

	return &models.Lead{
		CorrelationID: lead.CorrelationID,
		Name:          lead.Name,
		Email:         lead.Email,
		Phone:         lead.Phone,
		Zip:           lead.Zip,
		Address:       lead.Address,
		Message:       &message,
		ProviderID:    lead.ProviderID,
		Status:        models.LeadStatusScheduled,
		Recurring:     utils.ToPtr(true),
		FollowUpDate:  &followUp,
		CreatedAt:     utils.UTCNow(),
		UpdatedAt:     utils.UTCNow(),
	}
}

// RejectLead closes a lead without service.
func (lf *LeadFlowImpl) RejectLead(ctx context.Context, leadID uint, actorProviderID *uint, metadata *ClientMetadata) (*dto.LeadDTO, error) {
	return lf.transition(ctx, leadID, actorProviderID, models.LeadStatusRejected, models.AuditActionLeadRejected, nil, metadata)
}

// ScheduleLead marks a lead for a visit tomorrow.
func (lf *LeadFlowImpl) ScheduleLead(ctx context.Context, leadID uint, actorProviderID *uint, metadata *ClientMetadata) (*dto.LeadDTO, error) {
	followUp := utils.StartOfTomorrowUTC()
	return lf.transition(ctx, leadID, actorProviderID, models.LeadStatusScheduled, models.AuditActionLeadScheduled, &followUp, metadata)
}

func (lf *LeadFlowImpl) transition(ctx context.Context, leadID uint, actorProviderID *uint, status, auditAction string, followUp *time.Time, metadata *ClientMetadata) (*dto.LeadDTO, error) {
	var updated *models.Lead

	err := repository.WithTransaction(ctx, lf.db, func(ctx context.Context) error {
		lead, err := lf.loadOwnedLead(ctx, leadID, actorProviderID)
		if err != nil {
			return err
		}
		if !lead.IsOpen() {
			return ErrLeadAlreadyClosed
		}

		lead.Status = status
		lead.FollowUpDate = followUp
		lead.UpdatedAt = utils.UTCNow()
		if err := lf.leadRepo.Update(ctx, lead); err != nil {
			return err
		}

		lf.audit(ctx, &lead.ProviderID, auditAction, fmt.Sprintf("lead %d -> %s", lead.ID, status), metadata, true, nil)
		updated = lead
		return nil
	})
	if err != nil {
		return nil, wrapLeadError(err)
	}

	result := ToLeadDTO(*updated)
	return &result, nil
}

// ToggleRecurring flips the weekly re-scheduling flag on an open lead.
func (lf *LeadFlowImpl) ToggleRecurring(ctx context.Context, leadID uint, actorProviderID *uint) (*dto.LeadDTO, error) {
	lead, err := lf.loadOwnedLead(ctx, leadID, actorProviderID)
	if err != nil {
		return nil, wrapLeadError(err)
	}

	lead.Recurring = utils.ToPtr(!lead.IsRecurring())
	lead.UpdatedAt = utils.UTCNow()
	if err := lf.leadRepo.Update(ctx, lead); err != nil {
		return nil, NewBusinessError("LEAD_UPDATE_FAILED", "Failed to update lead", err)
	}

	result := ToLeadDTO(*lead)
	return &result, nil
}

// AssignLead routes a lead to a provider (admin only).
func (lf *LeadFlowImpl) AssignLead(ctx context.Context, leadID, providerID uint, metadata *ClientMetadata) (*dto.LeadDTO, error) {
	lead, err := lf.leadRepo.ByID(ctx, leadID)
	if err != nil {
		return nil, NewBusinessError("LEAD_LOOKUP_FAILED", "Failed to load lead", err)
	}
	if lead == nil {
		return nil, NewBusinessError("LEAD_NOT_FOUND", "Lead not found", ErrLeadNotFound)
	}

	if providerID != models.HouseProviderID {
		provider, err := lf.providerRepo.ByID(ctx, providerID)
		if err != nil {
			return nil, NewBusinessError("LEAD_ASSIGN_FAILED", "Failed to load provider", err)
		}
		if provider == nil {
			return nil, NewBusinessError("PROVIDER_NOT_FOUND", "Assignment target not found", ErrAssignProviderNotFound)
		}
	}

	if err := lf.leadRepo.Assign(ctx, leadID, providerID); err != nil {
		return nil, NewBusinessError("LEAD_ASSIGN_FAILED", "Failed to assign lead", err)
	}
	lf.audit(ctx, &providerID, models.AuditActionLeadAssigned, fmt.Sprintf("lead %d assigned to provider %d", leadID, providerID), metadata, true, nil)

	lead.ProviderID = providerID
	result := ToLeadDTO(*lead)
	return &result, nil
}

// loadOwnedLead fetches a lead and enforces ownership. actorProviderID nil
// means an admin actor, who may touch any lead.
func (lf *LeadFlowImpl) loadOwnedLead(ctx context.Context, leadID uint, actorProviderID *uint) (*models.Lead, error) {
	lead, err := lf.leadRepo.ByID(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, ErrLeadNotFound
	}
	if actorProviderID != nil && lead.ProviderID != *actorProviderID {
		return nil, ErrLeadAccessDenied
	}
	return lead, nil
}

func wrapLeadError(err error) error {
	switch {
	case IsLeadNotFound(err):
		return NewBusinessError("LEAD_NOT_FOUND", "Lead not found", err)
	case IsLeadAccessDenied(err):
		return NewBusinessError("LEAD_ACCESS_DENIED", "Lead access denied", err)
	case IsLeadAlreadyClosed(err):
		return NewBusinessError("LEAD_INVALID_STATUS", "Lead is already closed", err)
	default:
		return NewBusinessError("LEAD_UPDATE_FAILED", "Failed to update lead", err)
	}
}

// audit records an audit log entry; failures are swallowed so auditing never
// breaks the underlying operation.
func (lf *LeadFlowImpl) audit(ctx context.Context, providerID *uint, action, description string, metadata *ClientMetadata, success bool, details map[string]any) {
	entry := &models.AuditLog{
		ProviderID:  providerID,
		Action:      action,
		Description: &description,
		Success:     utils.ToPtr(success),
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
	if details != nil {
		if raw, err := json.Marshal(details); err == nil {
			entry.Metadata = raw
		}
	}
	_ = lf.auditRepo.Save(ctx, entry)
}
