// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/localyard/localyard/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ServiceRepositoryImpl implements ServiceRepository interface
type ServiceRepositoryImpl struct {
	*BaseRepository[models.Service, models.ServiceFilter]
}

// NewServiceRepository creates a new service repository
func NewServiceRepository(db *gorm.DB) ServiceRepository {
	return &ServiceRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Service, models.ServiceFilter](db),
	}
}

// searchVector is the indexed expression over a service's searchable text.
const searchVector = "to_tsvector('english', coalesce(title, '') || ' ' || coalesce(description, ''))"

// ListActiveByProvider retrieves a provider's active services, newest first
func (r *ServiceRepositoryImpl) ListActiveByProvider(ctx context.Context, providerID uint, limit int) ([]*models.Service, error) {
	db := r.getDB(ctx)

	var services []*models.Service
	query := db.Where("provider_id = ? AND is_active = ?", providerID, true).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&services).Error; err != nil {
		return nil, fmt.Errorf("failed to list services by provider: %w", err)
	}

	return services, nil
}

// SearchFullText runs the ranked full-text query over active services.
// tsQuery is a to_tsquery expression such as "lawn:* | yard:*"; best match
// comes first via ts_rank.
func (r *ServiceRepositoryImpl) SearchFullText(ctx context.Context, tsQuery string) ([]*models.Service, error) {
	db := r.getDB(ctx)

	// Order must go through clause.OrderBy: gorm drops a bare Expr passed
	// to Order, silently emitting no ORDER BY at all.
	rankOrder := clause.OrderBy{Expression: clause.Expr{
		SQL:                "ts_rank(" + searchVector + ", to_tsquery('english', ?)) DESC",
		Vars:               []any{tsQuery},
		WithoutParentheses: true,
	}}

	var services []*models.Service
	err := db.Where("is_active = ?", true).
		Where(searchVector+" @@ to_tsquery('english', ?)", tsQuery).
		Order(rankOrder).
		Find(&services).Error
	if err != nil {
		return nil, fmt.Errorf("full-text search failed: %w", err)
	}

	return services, nil
}

// SearchSubstring is the scan fallback: any expanded token contained in
// title or description, case-insensitively, ordered by recency since no
// relevance score exists on this path.
func (r *ServiceRepositoryImpl) SearchSubstring(ctx context.Context, tokens []string) ([]*models.Service, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	db := r.getDB(ctx)

	conditions := make([]string, 0, len(tokens))
	args := make([]any, 0, len(tokens)*2)
	for _, tok := range tokens {
		conditions = append(conditions, "(title ILIKE ? OR description ILIKE ?)")
		like := "%" + tok + "%"
		args = append(args, like, like)
	}

	var services []*models.Service
	err := db.Where("is_active = ?", true).
		Where(strings.Join(conditions, " OR "), args...).
		Order("created_at DESC").
		Find(&services).Error
	if err != nil {
		return nil, fmt.Errorf("substring search failed: %w", err)
	}

	return services, nil
}

// ProbeFullText checks once at startup whether the database can evaluate the
// full-text expressions the ranked path relies on.
func (r *ServiceRepositoryImpl) ProbeFullText(ctx context.Context) bool {
	db := r.getDB(ctx)

	var ok bool
	err := db.Raw("SELECT to_tsvector('english', 'probe') @@ to_tsquery('english', 'probe:*')").
		Scan(&ok).Error
	return err == nil && ok
}

// DeleteByIDAndProvider removes a service owned by the provider, reporting
// whether a row was actually deleted.
func (r *ServiceRepositoryImpl) DeleteByIDAndProvider(ctx context.Context, serviceID, providerID uint) (bool, error) {
	db := r.getDB(ctx)

	res := db.Where("id = ? AND provider_id = ?", serviceID, providerID).Delete(&models.Service{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete service: %w", res.Error)
	}

	return res.RowsAffected > 0, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *ServiceRepositoryImpl) applyFilter(query *gorm.DB, filter models.ServiceFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.ProviderID != nil {
		query = query.Where("provider_id = ?", *filter.ProviderID)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.IsCertified != nil {
		query = query.Where("is_certified = ?", *filter.IsCertified)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves services based on filter criteria
func (r *ServiceRepositoryImpl) ByFilter(ctx context.Context, filter models.ServiceFilter, orderBy string, limit, offset int) ([]*models.Service, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Service{}), filter)

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

	var services []*models.Service
	if err := query.Find(&services).Error; err != nil {
		return nil, err
	}

	return services, nil
}

// Count returns the number of services matching the filter
func (r *ServiceRepositoryImpl) Count(ctx context.Context, filter models.ServiceFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Service{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any service matching the filter exists
func (r *ServiceRepositoryImpl) Exists(ctx context.Context, filter models.ServiceFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
