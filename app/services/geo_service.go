// Package services provides external service integrations and technical concerns like geocoding and tokens
package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/localyard/localyard/models"
	"github.com/localyard/localyard/repository"
	"github.com/localyard/localyard/utils"
	"github.com/redis/go-redis/v9"
)

// DistanceService resolves great-circle distances between ZIP codes using
// stored centroid coordinates. The service is optional: when the centroid
// table is empty (or was never loaded) Enabled reports false and callers
// degrade to exact ZIP matching only.
type DistanceService interface {
	// Enabled reports whether centroid data is available for proximity checks
	Enabled() bool
	// Resolve fetches centroids for the given ZIP codes in one round trip and
	// returns a snapshot that answers distance queries without further I/O
	Resolve(ctx context.Context, zips []string) (DistanceSnapshot, error)
}

// DistanceSnapshot answers pairwise distance queries against centroids
// captured by a single Resolve call.
type DistanceSnapshot interface {
	// MilesBetween returns the great-circle distance in miles between two
	// ZIP codes. ok is false when either centroid is unknown or invalid.
	MilesBetween(zipA, zipB string) (float64, bool)
}

type centroid struct {
	lat float64
	lon float64
}

type centroidSnapshot struct {
	centroids map[string]centroid
}

func (s *centroidSnapshot) MilesBetween(zipA, zipB string) (float64, bool) {
	a, okA := s.centroids[zipA]
	b, okB := s.centroids[zipB]
	if !okA || !okB {
		return 0, false
	}
	miles := haversineKm(a.lat, a.lon, b.lat, b.lon) * utils.KmToMiles
	if math.IsNaN(miles) || math.IsInf(miles, 0) {
		return 0, false
	}
	return miles, true
}

// CentroidDistanceService implements DistanceService over the zip_centroids
// table with an optional Redis read-through cache in front of it.
type CentroidDistanceService struct {
	centroidRepo   repository.ZipCentroidRepository
	redisClient    *redis.Client
	cacheTTL       time.Duration
	resolveTimeout time.Duration
	enabled        bool
}

// NewCentroidDistanceService constructs a distance service and probes the
// centroid table once to decide whether proximity checks are available.
// redisClient may be nil, in which case every Resolve hits the database.
// Non-positive cacheTTL and resolveTimeout fall back to defaults.
func NewCentroidDistanceService(ctx context.Context, centroidRepo repository.ZipCentroidRepository, redisClient *redis.Client, cacheTTL, resolveTimeout time.Duration) (*CentroidDistanceService, error) {
	count, err := centroidRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to probe zip centroids: %w", err)
	}
	if cacheTTL <= 0 {
		cacheTTL = 24 * time.Hour
	}
	if resolveTimeout <= 0 {
		resolveTimeout = utils.DistanceResolveTimeout
	}

	return &CentroidDistanceService{
		centroidRepo:   centroidRepo,
		redisClient:    redisClient,
		cacheTTL:       cacheTTL,
		resolveTimeout: resolveTimeout,
		enabled:        count > 0,
	}, nil
}

func (s *CentroidDistanceService) Enabled() bool {
	return s.enabled
}

func (s *CentroidDistanceService) Resolve(ctx context.Context, zips []string) (DistanceSnapshot, error) {
	snapshot := &centroidSnapshot{centroids: make(map[string]centroid, len(zips))}
	if !s.enabled || len(zips) == 0 {
		return snapshot, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.resolveTimeout)
	defer cancel()

	// Deduplicate while preserving only valid 5-digit codes
	unique := make([]string, 0, len(zips))
	seen := make(map[string]struct{}, len(zips))
	for _, zip := range zips {
		if _, dup := seen[zip]; dup || !utils.IsValidZip(zip) {
			continue
		}
		seen[zip] = struct{}{}
		unique = append(unique, zip)
	}
	if len(unique) == 0 {
		return snapshot, nil
	}

	missing := s.fillFromCache(ctx, unique, snapshot)
	if len(missing) == 0 {
		return snapshot, nil
	}

	rows, err := s.centroidRepo.ByZips(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve zip centroids: %w", err)
	}

	fetched := make([]*models.ZipCentroid, 0, len(rows))
	for _, row := range rows {
		if math.IsNaN(row.Latitude) || math.IsNaN(row.Longitude) {
			continue
		}
		snapshot.centroids[row.Zip] = centroid{lat: row.Latitude, lon: row.Longitude}
		fetched = append(fetched, row)
	}
	s.storeInCache(ctx, fetched)

	return snapshot, nil
}

// fillFromCache loads whatever centroids Redis already holds and returns the
// ZIP codes that still need a database lookup. Cache failures are treated as
// misses; the database remains the source of truth.
func (s *CentroidDistanceService) fillFromCache(ctx context.Context, zips []string, snapshot *centroidSnapshot) []string {
	if s.redisClient == nil {
		return zips
	}

	keys := make([]string, len(zips))
	for i, zip := range zips {
		keys[i] = centroidCacheKey(zip)
	}

	values, err := s.redisClient.MGet(ctx, keys...).Result()
	if err != nil {
		return zips
	}

	missing := make([]string, 0, len(zips))
	for i, raw := range values {
		value, ok := raw.(string)
		if !ok {
			missing = append(missing, zips[i])
			continue
		}
		lat, lon, ok := parseCachedCentroid(value)
		if !ok {
			missing = append(missing, zips[i])
			continue
		}
		snapshot.centroids[zips[i]] = centroid{lat: lat, lon: lon}
	}

	return missing
}

func (s *CentroidDistanceService) storeInCache(ctx context.Context, rows []*models.ZipCentroid) {
	if s.redisClient == nil || len(rows) == 0 {
		return
	}

	pipe := s.redisClient.Pipeline()
	for _, row := range rows {
		value := strconv.FormatFloat(row.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(row.Longitude, 'f', -1, 64)
		pipe.Set(ctx, centroidCacheKey(row.Zip), value, s.cacheTTL)
	}
	// Best effort: a failed cache write only costs a future database hit
	_, _ = pipe.Exec(ctx)
}

func centroidCacheKey(zip string) string {
	return "zip_centroid:" + zip
}

func parseCachedCentroid(value string) (lat, lon float64, ok bool) {
	parts := strings.SplitN(value, ",", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	lat, errLat := strconv.ParseFloat(parts[0], 64)
	lon, errLon := strconv.ParseFloat(parts[1], 64)
	if errLat != nil || errLon != nil || math.IsNaN(lat) || math.IsNaN(lon) {
		return 0, 0, false
	}
	return lat, lon, true
}

// haversineKm returns the great-circle distance in kilometers between two
// coordinates on a spherical Earth.
func haversineKm(latA, lonA, latB, lonB float64) float64 {
	const degToRad = math.Pi / 180

	phiA := latA * degToRad
	phiB := latB * degToRad
	dPhi := (latB - latA) * degToRad
	dLambda := (lonB - lonA) * degToRad

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)
	h := sinPhi*sinPhi + math.Cos(phiA)*math.Cos(phiB)*sinLambda*sinLambda

	return 2 * utils.EarthRadiusKm * math.Asin(math.Sqrt(h))
}
