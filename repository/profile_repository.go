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

// ProfileRepositoryImpl implements ProfileRepository for the single operator
// profile row (ID models.OperatorProfileID).
type ProfileRepositoryImpl struct {
	DB *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &ProfileRepositoryImpl{DB: db}
}

func (r *ProfileRepositoryImpl) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.DB
}

// Get returns the operator profile, or nil when the row has not been seeded
func (r *ProfileRepositoryImpl) Get(ctx context.Context) (*models.Profile, error) {
	db := r.getDB(ctx)

	var profile models.Profile
	err := db.Where("id = ?", models.OperatorProfileID).Last(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load operator profile: %w", err)
	}

	return &profile, nil
}

// Upsert writes the operator profile row, creating it when absent
func (r *ProfileRepositoryImpl) Upsert(ctx context.Context, profile *models.Profile) error {
	db := r.getDB(ctx)

	profile.ID = models.OperatorProfileID
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(profile).Error
	if err != nil {
		return fmt.Errorf("failed to upsert operator profile: %w", err)
	}

	return nil
}
