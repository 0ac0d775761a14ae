// Package services provides external service integrations and technical concerns like geocoding and tokens
package services

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/localyard/localyard/repository"
	"github.com/localyard/localyard/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCentroidRepo struct {
	repository.ZipCentroidRepository

	count int64
}

func (f *fakeCentroidRepo) Count(ctx context.Context) (int64, error) {
	return f.count, nil
}

func TestNewCentroidDistanceService(t *testing.T) {
	t.Run("DefaultsWhenUnset", func(t *testing.T) {
		svc, err := NewCentroidDistanceService(context.Background(), &fakeCentroidRepo{count: 10}, nil, 0, 0)
		require.NoError(t, err)
		assert.True(t, svc.Enabled())
		assert.Equal(t, 24*time.Hour, svc.cacheTTL)
		assert.Equal(t, utils.DistanceResolveTimeout, svc.resolveTimeout)
	})

	t.Run("ConfiguredValues", func(t *testing.T) {
		svc, err := NewCentroidDistanceService(context.Background(), &fakeCentroidRepo{count: 10}, nil, time.Hour, 5*time.Second)
		require.NoError(t, err)
		assert.Equal(t, time.Hour, svc.cacheTTL)
		assert.Equal(t, 5*time.Second, svc.resolveTimeout)
	})

	t.Run("EmptyCentroidTableDisables", func(t *testing.T) {
		svc, err := NewCentroidDistanceService(context.Background(), &fakeCentroidRepo{count: 0}, nil, 0, 0)
		require.NoError(t, err)
		assert.False(t, svc.Enabled())
	})
}

func TestHaversineKm(t *testing.T) {
	t.Run("SamePointIsZero", func(t *testing.T) {
		assert.InDelta(t, 0, haversineKm(33.5387, -112.1860, 33.5387, -112.1860), 0.0001)
	})

	t.Run("OneDegreeLongitudeAtEquator", func(t *testing.T) {
		// One degree of longitude on the equator is about 111.19 km
		assert.InDelta(t, 111.19, haversineKm(0, 0, 0, 1), 0.1)
	})

	t.Run("Symmetric", func(t *testing.T) {
		forward := haversineKm(33.5387, -112.1860, 33.5806, -112.1930)
		backward := haversineKm(33.5806, -112.1930, 33.5387, -112.1860)
		assert.InDelta(t, forward, backward, 0.0001)
	})
}

func TestCentroidSnapshotMilesBetween(t *testing.T) {
	snapshot := &centroidSnapshot{centroids: map[string]centroid{
		"85301": {lat: 33.5387, lon: -112.1860},
		"85302": {lat: 33.5806, lon: -112.1930},
		"00000": {lat: math.NaN(), lon: math.NaN()},
	}}

	t.Run("KnownPair", func(t *testing.T) {
		miles, ok := snapshot.MilesBetween("85301", "85302")
		require.True(t, ok)
		// Neighboring Glendale ZIP codes are a few miles apart
		assert.Greater(t, miles, 1.0)
		assert.Less(t, miles, 10.0)
	})

	t.Run("UnknownZip", func(t *testing.T) {
		_, ok := snapshot.MilesBetween("85301", "99999")
		assert.False(t, ok)

		_, ok = snapshot.MilesBetween("99999", "85301")
		assert.False(t, ok)
	})

	t.Run("InvalidCoordinates", func(t *testing.T) {
		_, ok := snapshot.MilesBetween("85301", "00000")
		assert.False(t, ok)
	})
}

func TestParseCachedCentroid(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		lat, lon, ok := parseCachedCentroid("33.5387,-112.186")
		require.True(t, ok)
		assert.InDelta(t, 33.5387, lat, 0.0001)
		assert.InDelta(t, -112.186, lon, 0.0001)
	})

	t.Run("Malformed", func(t *testing.T) {
		for _, value := range []string{"", "33.5387", "a,b", "NaN,1", "1,NaN"} {
			_, _, ok := parseCachedCentroid(value)
			assert.False(t, ok, "value %q should not parse", value)
		}
	})
}
