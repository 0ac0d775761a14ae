// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/localyard/localyard/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Update(ctx context.Context, entity *T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// ProviderRepository defines operations for provider accounts
type ProviderRepository interface {
	Repository[models.Provider, models.ProviderFilter]
	ByEmail(ctx context.Context, email string) (*models.Provider, error)
	ByUUID(ctx context.Context, uuid string) (*models.Provider, error)
	ListActiveWithServiceAreas(ctx context.Context) ([]*models.Provider, error)
	ListActiveProviders(ctx context.Context, limit, offset int) ([]*models.Provider, error)
	UpdatePassword(ctx context.Context, providerID uint, passwordHash string) error
	SetActive(ctx context.Context, providerID uint, active bool) error
	UpdateLastLogin(ctx context.Context, providerID uint, at time.Time) error
}

// ProviderSessionRepository defines operations for provider sessions
type ProviderSessionRepository interface {
	Repository[models.ProviderSession, models.ProviderSessionFilter]
	BySessionToken(ctx context.Context, token string) (*models.ProviderSession, error)
	ByRefreshToken(ctx context.Context, token string) (*models.ProviderSession, error)
	ExpireSession(ctx context.Context, sessionID uint) error
	ExpireAllProviderSessions(ctx context.Context, providerID uint) error
}

// AdminRepository defines operations for admin accounts
type AdminRepository interface {
	Repository[models.Admin, models.AdminFilter]
	ByUsername(ctx context.Context, username string) (*models.Admin, error)
	UpdatePassword(ctx context.Context, adminID uint, passwordHash string) error
	UpdateLastLogin(ctx context.Context, adminID uint, at time.Time) error
}

// ProfileRepository defines operations for the single operator profile row
type ProfileRepository interface {
	Get(ctx context.Context) (*models.Profile, error)
	Upsert(ctx context.Context, profile *models.Profile) error
}

// ServiceAreaRepository defines operations for provider service areas
type ServiceAreaRepository interface {
	Repository[models.ServiceArea, models.ServiceAreaFilter]
	ListByProvider(ctx context.Context, providerID uint) ([]*models.ServiceArea, error)
	CountByProvider(ctx context.Context, providerID uint) (int64, error)
	ByProviderAndZip(ctx context.Context, providerID uint, zip string) (*models.ServiceArea, error)
	DeleteByIDAndProvider(ctx context.Context, areaID, providerID uint) (bool, error)
}

// GlobalZipRepository defines operations for the operator-wide ZIP allowlist
type GlobalZipRepository interface {
	ListAll(ctx context.Context) ([]*models.GlobalZip, error)
	ByZip(ctx context.Context, zip string) (*models.GlobalZip, error)
	Save(ctx context.Context, entry *models.GlobalZip) error
	Delete(ctx context.Context, zip string) (bool, error)
}

// ServiceRepository defines operations for service listings
type ServiceRepository interface {
	Repository[models.Service, models.ServiceFilter]
	ListActiveByProvider(ctx context.Context, providerID uint, limit int) ([]*models.Service, error)
	// SearchFullText queries the Postgres text index over title+description of
	// active services, best match first. tsQuery is a to_tsquery expression.
	SearchFullText(ctx context.Context, tsQuery string) ([]*models.Service, error)
	// SearchSubstring is the fallback scan: active services whose title or
	// description contains any token case-insensitively, newest first.
	SearchSubstring(ctx context.Context, tokens []string) ([]*models.Service, error)
	// ProbeFullText reports whether the full-text path is usable on this
	// database. Resolved once at startup.
	ProbeFullText(ctx context.Context) bool
	DeleteByIDAndProvider(ctx context.Context, serviceID, providerID uint) (bool, error)
}

// ProductRepository defines operations for product listings
type ProductRepository interface {
	Repository[models.Product, models.ProductFilter]
	ListActiveByProvider(ctx context.Context, providerID uint, limit int) ([]*models.Product, error)
	DeleteByIDAndProvider(ctx context.Context, productID, providerID uint) (bool, error)
}

// LeadRepository defines operations for customer leads
type LeadRepository interface {
	Repository[models.Lead, models.LeadFilter]
	CountByProviderAndStatus(ctx context.Context, providerID uint, status string) (int64, error)
	CountRecurringByProvider(ctx context.Context, providerID uint) (int64, error)
	UpdateStatus(ctx context.Context, leadID uint, status string) error
	Assign(ctx context.Context, leadID, providerID uint) error
}

// ZipCentroidRepository defines operations for ZIP centroid lookups
type ZipCentroidRepository interface {
	ByZips(ctx context.Context, zips []string) ([]*models.ZipCentroid, error)
	Count(ctx context.Context) (int64, error)
	SaveBatch(ctx context.Context, centroids []*models.ZipCentroid) error
}

// AuditLogRepository defines operations for audit logs
type AuditLogRepository interface {
	Repository[models.AuditLog, models.AuditLogFilter]
	ListByProvider(ctx context.Context, providerID uint, limit, offset int) ([]*models.AuditLog, error)
	ListSecurityEvents(ctx context.Context, limit, offset int) ([]*models.AuditLog, error)
}
