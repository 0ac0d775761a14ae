// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/localyard/localyard/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ZipCentroidRepositoryImpl implements ZipCentroidRepository interface
type ZipCentroidRepositoryImpl struct {
	DB *gorm.DB
}

// NewZipCentroidRepository creates a new ZIP centroid repository
func NewZipCentroidRepository(db *gorm.DB) ZipCentroidRepository {
	return &ZipCentroidRepositoryImpl{DB: db}
}

func (r *ZipCentroidRepositoryImpl) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.DB
}

// ByZips fetches centroids for a set of ZIPs in one query. ZIPs absent from
// the dataset are simply missing from the result; callers treat them as
// unknown, not as errors.
func (r *ZipCentroidRepositoryImpl) ByZips(ctx context.Context, zips []string) ([]*models.ZipCentroid, error) {
	if len(zips) == 0 {
		return nil, nil
	}

	db := r.getDB(ctx)

	var centroids []*models.ZipCentroid
	if err := db.Where("zip IN ?", zips).Find(&centroids).Error; err != nil {
		return nil, fmt.Errorf("failed to load zip centroids: %w", err)
	}

	return centroids, nil
}

// Count returns the number of centroid rows; zero means the dataset was
// never seeded and proximity checks are unavailable.
func (r *ZipCentroidRepositoryImpl) Count(ctx context.Context) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	if err := db.Model(&models.ZipCentroid{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count zip centroids: %w", err)
	}

	return count, nil
}

// SaveBatch upserts centroid rows, used by dataset seeding
func (r *ZipCentroidRepositoryImpl) SaveBatch(ctx context.Context, centroids []*models.ZipCentroid) error {
	if len(centroids) == 0 {
		return nil
	}

	db := r.getDB(ctx)

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "zip"}},
		DoUpdates: clause.AssignmentColumns([]string{"latitude", "longitude"}),
	}).CreateInBatches(centroids, 500).Error
	if err != nil {
		return fmt.Errorf("failed to save zip centroids: %w", err)
	}

	return nil
}
