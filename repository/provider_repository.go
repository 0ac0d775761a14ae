// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/localyard/localyard/models"
	"github.com/localyard/localyard/utils"
	"gorm.io/gorm"
)

// ProviderRepositoryImpl implements ProviderRepository interface
type ProviderRepositoryImpl struct {
	*BaseRepository[models.Provider, models.ProviderFilter]
}

// NewProviderRepository creates a new provider repository
func NewProviderRepository(db *gorm.DB) ProviderRepository {
	return &ProviderRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Provider, models.ProviderFilter](db),
	}
}

// ByEmail retrieves a provider by email address
func (r *ProviderRepositoryImpl) ByEmail(ctx context.Context, email string) (*models.Provider, error) {
	filter := models.ProviderFilter{Email: &email}
	providers, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find provider by email: %w", err)
	}

	if len(providers) == 0 {
		return nil, nil
	}

	return providers[0], nil
}

// ByUUID retrieves a provider by UUID
func (r *ProviderRepositoryImpl) ByUUID(ctx context.Context, id string) (*models.Provider, error) {
	parsedUUID, err := utils.ParseUUID(id)
	if err != nil {
		return nil, err
	}

	filter := models.ProviderFilter{UUID: &parsedUUID}
	providers, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find provider by UUID: %w", err)
	}

	if len(providers) == 0 {
		return nil, nil
	}

	return providers[0], nil
}

// ListActiveWithServiceAreas loads every active provider with their service
// areas preloaded, the working set for one multi-provider eligibility check.
func (r *ProviderRepositoryImpl) ListActiveWithServiceAreas(ctx context.Context) ([]*models.Provider, error) {
	db := r.getDB(ctx)

	var providers []*models.Provider
	err := db.Where("is_active = ?", true).
		Preload("ServiceAreas").
		Find(&providers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active providers with service areas: %w", err)
	}

	return providers, nil
}

// ListActiveProviders retrieves active providers ordered by business name
func (r *ProviderRepositoryImpl) ListActiveProviders(ctx context.Context, limit, offset int) ([]*models.Provider, error) {
	db := r.getDB(ctx)

	var providers []*models.Provider
	query := db.Where("is_active = ?", true).Order("business_name ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&providers).Error; err != nil {
		return nil, fmt.Errorf("failed to list active providers: %w", err)
	}

	return providers, nil
}

// UpdatePassword updates a provider's password hash
func (r *ProviderRepositoryImpl) UpdatePassword(ctx context.Context, providerID uint, passwordHash string) error {
	db := r.getDB(ctx)

	err := db.Model(&models.Provider{}).
		Where("id = ?", providerID).
		Updates(map[string]any{
			"password_hash": passwordHash,
			"updated_at":    utils.UTCNow(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update provider password: %w", err)
	}

	return nil
}

// SetActive toggles the provider's soft-delete flag
func (r *ProviderRepositoryImpl) SetActive(ctx context.Context, providerID uint, active bool) error {
	db := r.getDB(ctx)

	err := db.Model(&models.Provider{}).
		Where("id = ?", providerID).
		Updates(map[string]any{
			"is_active":  active,
			"updated_at": utils.UTCNow(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to set provider active flag: %w", err)
	}

	return nil
}

// UpdateLastLogin records a successful login timestamp
func (r *ProviderRepositoryImpl) UpdateLastLogin(ctx context.Context, providerID uint, at time.Time) error {
	db := r.getDB(ctx)

	err := db.Model(&models.Provider{}).
		Where("id = ?", providerID).
		Update("last_login_at", at).Error
	if err != nil {
		return fmt.Errorf("failed to update provider last login: %w", err)
	}

	return nil
}

// applyFilter applies filter criteria to a GORM query
func (r *ProviderRepositoryImpl) applyFilter(query *gorm.DB, filter models.ProviderFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.Email != nil {
		query = query.Where("email = ?", *filter.Email)
	}
	if filter.BusinessName != nil {
		query = query.Where("business_name = ?", *filter.BusinessName)
	}
	if filter.BaseZip != nil {
		query = query.Where("base_zip = ?", *filter.BaseZip)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves providers based on filter criteria
func (r *ProviderRepositoryImpl) ByFilter(ctx context.Context, filter models.ProviderFilter, orderBy string, limit, offset int) ([]*models.Provider, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Provider{}), filter)

	if orderBy == "" {
		orderBy = "id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var providers []*models.Provider
	if err := query.Find(&providers).Error; err != nil {
		return nil, err
	}

	return providers, nil
}

// Count returns the number of providers matching the filter
func (r *ProviderRepositoryImpl) Count(ctx context.Context, filter models.ProviderFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Provider{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any provider matching the filter exists
func (r *ProviderRepositoryImpl) Exists(ctx context.Context, filter models.ProviderFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
