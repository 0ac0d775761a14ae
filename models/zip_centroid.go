// Package models contains domain entities and business models for the marketplace
package models

// ZipCentroid is the geographic center of a ZIP code, used for great-circle
// distance between ZIPs. The table is seeded from a public ZIP dataset and
// is optional: deployments without it run exact-match eligibility only.
type ZipCentroid struct {
	Zip       string  `gorm:"primaryKey;size:5" json:"zip"`
	Latitude  float64 `gorm:"not null" json:"latitude"`
	Longitude float64 `gorm:"not null" json:"longitude"`
}

func (ZipCentroid) TableName() string {
	return "zip_centroids"
}

// ZipCentroidFilter represents filter criteria for centroid queries
type ZipCentroidFilter struct {
	Zip *string
}
