// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/localyard/localyard/models"
	"github.com/localyard/localyard/utils"
	"gorm.io/gorm"
)

// LeadRepositoryImpl implements LeadRepository interface
type LeadRepositoryImpl struct {
	*BaseRepository[models.Lead, models.LeadFilter]
}

// NewLeadRepository creates a new lead repository
func NewLeadRepository(db *gorm.DB) LeadRepository {
	return &LeadRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Lead, models.LeadFilter](db),
	}
}

// CountByProviderAndStatus counts a provider's leads in one status
func (r *LeadRepositoryImpl) CountByProviderAndStatus(ctx context.Context, providerID uint, status string) (int64, error) {
	return r.Count(ctx, models.LeadFilter{ProviderID: &providerID, Status: &status})
}

// CountRecurringByProvider counts a provider's recurring leads
func (r *LeadRepositoryImpl) CountRecurringByProvider(ctx context.Context, providerID uint) (int64, error) {
	return r.Count(ctx, models.LeadFilter{ProviderID: &providerID, Recurring: utils.ToPtr(true)})
}

// UpdateStatus moves a lead to the given status
func (r *LeadRepositoryImpl) UpdateStatus(ctx context.Context, leadID uint, status string) error {
	db := r.getDB(ctx)

	err := db.Model(&models.Lead{}).
		Where("id = ?", leadID).
		Updates(map[string]any{
			"status":     status,
			"updated_at": utils.UTCNow(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update lead status: %w", err)
	}

	return nil
}

// Assign routes a lead to a provider (0 sends it back to the operator)
func (r *LeadRepositoryImpl) Assign(ctx context.Context, leadID, providerID uint) error {
	db := r.getDB(ctx)

	err := db.Model(&models.Lead{}).
		Where("id = ?", leadID).
		Updates(map[string]any{
			"provider_id": providerID,
			"updated_at":  utils.UTCNow(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to assign lead: %w", err)
	}

	return nil
}

// applyFilter applies filter criteria to a GORM query
func (r *LeadRepositoryImpl) applyFilter(query *gorm.DB, filter models.LeadFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.CorrelationID != nil {
		query = query.Where("correlation_id = ?", *filter.CorrelationID)
	}
	if filter.ProviderID != nil {
		query = query.Where("provider_id = ?", *filter.ProviderID)
	}
	if filter.Zip != nil {
		query = query.Where("zip = ?", *filter.Zip)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Recurring != nil {
		query = query.Where("recurring = ?", *filter.Recurring)
	}
	if filter.ActiveOnly != nil && *filter.ActiveOnly {
		query = query.Where("status IS NULL OR status NOT IN (?, ?)",
			models.LeadStatusCompleted, models.LeadStatusRejected)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves leads based on filter criteria
func (r *LeadRepositoryImpl) ByFilter(ctx context.Context, filter models.LeadFilter, orderBy string, limit, offset int) ([]*models.Lead, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Lead{}), filter)

	if orderBy == "" {
		orderBy = "created_at DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var leads []*models.Lead
	if err := query.Find(&leads).Error; err != nil {
		return nil, err
	}

	return leads, nil
}

// Count returns the number of leads matching the filter
func (r *LeadRepositoryImpl) Count(ctx context.Context, filter models.LeadFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Lead{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any lead matching the filter exists
func (r *LeadRepositoryImpl) Exists(ctx context.Context, filter models.LeadFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
