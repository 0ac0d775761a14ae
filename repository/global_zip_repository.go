// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/localyard/localyard/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GlobalZipRepositoryImpl implements GlobalZipRepository interface
type GlobalZipRepositoryImpl struct {
	DB *gorm.DB
}

// NewGlobalZipRepository creates a new global ZIP allowlist repository
func NewGlobalZipRepository(db *gorm.DB) GlobalZipRepository {
	return &GlobalZipRepositoryImpl{DB: db}
}

func (r *GlobalZipRepositoryImpl) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.DB
}

// ListAll loads the full allowlist. The table is small by construction
// (a handful of rows per deployment), so the eligibility engine reads it
// whole on every check.
func (r *GlobalZipRepositoryImpl) ListAll(ctx context.Context) ([]*models.GlobalZip, error) {
	db := r.getDB(ctx)

	var entries []*models.GlobalZip
	if err := db.Order("zip ASC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list global zips: %w", err)
	}

	return entries, nil
}

// ByZip retrieves a single allowlist row, nil when absent
func (r *GlobalZipRepositoryImpl) ByZip(ctx context.Context, zip string) (*models.GlobalZip, error) {
	db := r.getDB(ctx)

	var entry models.GlobalZip
	err := db.Where("zip = ?", zip).Last(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find global zip: %w", err)
	}

	return &entry, nil
}

// Save upserts an allowlist row (re-adding a ZIP updates its radius)
func (r *GlobalZipRepositoryImpl) Save(ctx context.Context, entry *models.GlobalZip) error {
	db := r.getDB(ctx)

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "zip"}},
		DoUpdates: clause.AssignmentColumns([]string{"radius_miles"}),
	}).Create(entry).Error
	if err != nil {
		return fmt.Errorf("failed to save global zip: %w", err)
	}

	return nil
}

// Delete removes an allowlist row, reporting whether it existed
func (r *GlobalZipRepositoryImpl) Delete(ctx context.Context, zip string) (bool, error) {
	db := r.getDB(ctx)

	res := db.Where("zip = ?", zip).Delete(&models.GlobalZip{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete global zip: %w", res.Error)
	}

	return res.RowsAffected > 0, nil
}
