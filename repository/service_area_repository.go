// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/localyard/localyard/models"
	"gorm.io/gorm"
)

// ServiceAreaRepositoryImpl implements ServiceAreaRepository interface
type ServiceAreaRepositoryImpl struct {
	*BaseRepository[models.ServiceArea, models.ServiceAreaFilter]
}

// NewServiceAreaRepository creates a new service area repository
func NewServiceAreaRepository(db *gorm.DB) ServiceAreaRepository {
	return &ServiceAreaRepositoryImpl{
		BaseRepository: NewBaseRepository[models.ServiceArea, models.ServiceAreaFilter](db),
	}
}

// ListByProvider retrieves a provider's service areas, newest first
func (r *ServiceAreaRepositoryImpl) ListByProvider(ctx context.Context, providerID uint) ([]*models.ServiceArea, error) {
	filter := models.ServiceAreaFilter{ProviderID: &providerID}
	areas, err := r.ByFilter(ctx, filter, "created_at DESC", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list service areas: %w", err)
	}

	return areas, nil
}

// CountByProvider counts a provider's service areas (cap enforcement)
func (r *ServiceAreaRepositoryImpl) CountByProvider(ctx context.Context, providerID uint) (int64, error) {
	return r.Count(ctx, models.ServiceAreaFilter{ProviderID: &providerID})
}

// ByProviderAndZip finds the row for (provider, zip), nil when absent
func (r *ServiceAreaRepositoryImpl) ByProviderAndZip(ctx context.Context, providerID uint, zip string) (*models.ServiceArea, error) {
	db := r.getDB(ctx)

	var area models.ServiceArea
	err := db.Where("provider_id = ? AND zip_code = ?", providerID, zip).Last(&area).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find service area: %w", err)
	}

	return &area, nil
}

// DeleteByIDAndProvider removes a service area owned by the provider,
// reporting whether a row was actually deleted.
func (r *ServiceAreaRepositoryImpl) DeleteByIDAndProvider(ctx context.Context, areaID, providerID uint) (bool, error) {
	db := r.getDB(ctx)

	res := db.Where("id = ? AND provider_id = ?", areaID, providerID).Delete(&models.ServiceArea{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete service area: %w", res.Error)
	}

	return res.RowsAffected > 0, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *ServiceAreaRepositoryImpl) applyFilter(query *gorm.DB, filter models.ServiceAreaFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.ProviderID != nil {
		query = query.Where("provider_id = ?", *filter.ProviderID)
	}
	if filter.ZipCode != nil {
		query = query.Where("zip_code = ?", *filter.ZipCode)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves service areas based on filter criteria
func (r *ServiceAreaRepositoryImpl) ByFilter(ctx context.Context, filter models.ServiceAreaFilter, orderBy string, limit, offset int) ([]*models.ServiceArea, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ServiceArea{}), filter)

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

	var areas []*models.ServiceArea
	if err := query.Find(&areas).Error; err != nil {
		return nil, err
	}

	return areas, nil
}

// Count returns the number of service areas matching the filter
func (r *ServiceAreaRepositoryImpl) Count(ctx context.Context, filter models.ServiceAreaFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ServiceArea{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any service area matching the filter exists
func (r *ServiceAreaRepositoryImpl) Exists(ctx context.Context, filter models.ServiceAreaFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
