// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/localyard/localyard/models"
	"github.com/localyard/localyard/utils"
	"gorm.io/gorm"
)

// ProviderSessionRepositoryImpl implements ProviderSessionRepository interface
type ProviderSessionRepositoryImpl struct {
	*BaseRepository[models.ProviderSession, models.ProviderSessionFilter]
}

// NewProviderSessionRepository creates a new provider session repository
func NewProviderSessionRepository(db *gorm.DB) ProviderSessionRepository {
	return &ProviderSessionRepositoryImpl{
		BaseRepository: NewBaseRepository[models.ProviderSession, models.ProviderSessionFilter](db),
	}
}

// BySessionToken retrieves a session by its access token
func (r *ProviderSessionRepositoryImpl) BySessionToken(ctx context.Context, token string) (*models.ProviderSession, error) {
	db := r.getDB(ctx)

	var session models.ProviderSession
	err := db.Where("session_token = ?", token).Last(&session).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find session by token: %w", err)
	}

	return &session, nil
}

// ByRefreshToken retrieves a session by its refresh token
func (r *ProviderSessionRepositoryImpl) ByRefreshToken(ctx context.Context, token string) (*models.ProviderSession, error) {
	db := r.getDB(ctx)

	var session models.ProviderSession
	err := db.Where("refresh_token = ?", token).Last(&session).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find session by refresh token: %w", err)
	}

	return &session, nil
}

// ExpireSession deactivates a single session
func (r *ProviderSessionRepositoryImpl) ExpireSession(ctx context.Context, sessionID uint) error {
	db := r.getDB(ctx)

	err := db.Model(&models.ProviderSession{}).
		Where("id = ?", sessionID).
		Updates(map[string]any{
			"is_active":  false,
			"expires_at": utils.UTCNow(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to expire session: %w", err)
	}

	return nil
}

// ExpireAllProviderSessions deactivates every active session for a provider
func (r *ProviderSessionRepositoryImpl) ExpireAllProviderSessions(ctx context.Context, providerID uint) error {
	db := r.getDB(ctx)

	err := db.Model(&models.ProviderSession{}).
		Where("provider_id = ? AND is_active = ?", providerID, true).
		Updates(map[string]any{
			"is_active":  false,
			"expires_at": utils.UTCNow(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to expire provider sessions: %w", err)
	}

	return nil
}

// applyFilter applies filter criteria to a GORM query
func (r *ProviderSessionRepositoryImpl) applyFilter(query *gorm.DB, filter models.ProviderSessionFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.CorrelationID != nil {
		query = query.Where("correlation_id = ?", *filter.CorrelationID)
	}
	if filter.ProviderID != nil {
		query = query.Where("provider_id = ?", *filter.ProviderID)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.IPAddress != nil {
		query = query.Where("ip_address = ?", *filter.IPAddress)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	if filter.ExpiresAfter != nil {
		query = query.Where("expires_at > ?", *filter.ExpiresAfter)
	}
	if filter.ExpiresBefore != nil {
		query = query.Where("expires_at < ?", *filter.ExpiresBefore)
	}
	if filter.IsExpired != nil {
		if *filter.IsExpired {
			query = query.Where("expires_at <= ?", utils.UTCNow())
		} else {
			query = query.Where("expires_at > ?", utils.UTCNow())
		}
	}
	return query
}

// ByFilter retrieves sessions based on filter criteria
func (r *ProviderSessionRepositoryImpl) ByFilter(ctx context.Context, filter models.ProviderSessionFilter, orderBy string, limit, offset int) ([]*models.ProviderSession, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ProviderSession{}), filter)

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

	var sessions []*models.ProviderSession
	if err := query.Find(&sessions).Error; err != nil {
		return nil, err
	}

	return sessions, nil
}

// Count returns the number of sessions matching the filter
func (r *ProviderSessionRepositoryImpl) Count(ctx context.Context, filter models.ProviderSessionFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ProviderSession{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any session matching the filter exists
func (r *ProviderSessionRepositoryImpl) Exists(ctx context.Context, filter models.ProviderSessionFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
