// Package businessflow contains the core business logic and use cases for the marketplace
package businessflow

import (
	"context"
	"errors"
	"testing"

	"github.com/localyard/localyard/app/services"
	"github.com/localyard/localyard/models"
	"github.com/localyard/localyard/repository"
	"github.com/localyard/localyard/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProviderRepo struct {
	repository.ProviderRepository
	providers []*models.Provider
	err       error
}

func (f *fakeProviderRepo) ListActiveWithServiceAreas(ctx context.Context) ([]*models.Provider, error) {
	return f.providers, f.err
}

type fakeGlobalZipRepo struct {
	entries []*models.GlobalZip
	err     error
}

func (f *fakeGlobalZipRepo) ListAll(ctx context.Context) ([]*models.GlobalZip, error) {
	return f.entries, f.err
}

func (f *fakeGlobalZipRepo) ByZip(ctx context.Context, zip string) (*models.GlobalZip, error) {
	for _, entry := range f.entries {
		if entry.Zip == zip {
			return entry, nil
		}
	}
	return nil, nil
}

func (f *fakeGlobalZipRepo) Save(ctx context.Context, entry *models.GlobalZip) error { return nil }

func (f *fakeGlobalZipRepo) Delete(ctx context.Context, zip string) (bool, error) { return false, nil }

type fakeProfileRepo struct {
	profile *models.Profile
	err     error
}

func (f *fakeProfileRepo) Get(ctx context.Context) (*models.Profile, error) {
	return f.profile, f.err
}

func (f *fakeProfileRepo) Upsert(ctx context.Context, profile *models.Profile) error { return nil }

// fakeSnapshot answers distances from a fixed "zipA|zipB" table.
type fakeSnapshot struct {
	miles map[string]float64
}

func (s *fakeSnapshot) MilesBetween(zipA, zipB string) (float64, bool) {
	value, ok := s.miles[zipA+"|"+zipB]
	return value, ok
}

type fakeDistanceService struct {
	enabled      bool
	snapshot     services.DistanceSnapshot
	resolveErr   error
	resolveCalls int
	lastZips     []string
}

func (f *fakeDistanceService) Enabled() bool { return f.enabled }

func (f *fakeDistanceService) Resolve(ctx context.Context, zips []string) (services.DistanceSnapshot, error) {
	f.resolveCalls++
	f.lastZips = zips
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	return f.snapshot, nil
}

func activeProvider(id uint, businessName, baseZip string, areas ...models.ServiceArea) *models.Provider {
	provider := &models.Provider{
		ID:           id,
		BusinessName: businessName,
		IsActive:     utils.ToPtr(true),
		ServiceAreas: areas,
	}
	if baseZip != "" {
		provider.BaseZip = utils.ToPtr(baseZip)
	}
	return provider
}

func TestEligibilityFlowMode(t *testing.T) {
	providerRepo := &fakeProviderRepo{}
	globalZipRepo := &fakeGlobalZipRepo{}
	profileRepo := &fakeProfileRepo{}

	t.Run("NilDistanceServiceIsExactOnly", func(t *testing.T) {
		flow := NewEligibilityFlow(providerRepo, globalZipRepo, profileRepo, nil)
		assert.Equal(t, EligibilityModeExactOnly, flow.Mode())
	})

	t.Run("DisabledDistanceServiceIsExactOnly", func(t *testing.T) {
		flow := NewEligibilityFlow(providerRepo, globalZipRepo, profileRepo, &fakeDistanceService{enabled: false})
		assert.Equal(t, EligibilityModeExactOnly, flow.Mode())
	})

	t.Run("EnabledDistanceServiceIsExactPlusProximity", func(t *testing.T) {
		flow := NewEligibilityFlow(providerRepo, globalZipRepo, profileRepo, &fakeDistanceService{enabled: true})
		assert.Equal(t, EligibilityModeExactPlusProximity, flow.Mode())
	})
}

func TestIsZipServableMalformedZip(t *testing.T) {
	distanceSvc := &fakeDistanceService{enabled: true}
	flow := NewEligibilityFlow(
		&fakeProviderRepo{providers: []*models.Provider{activeProvider(12, "Glendale Lawn Pros", "85301")}},
		&fakeGlobalZipRepo{},
		&fakeProfileRepo{},
		distanceSvc,
	)

	for _, zip := range []string{"", "1234", "123456", "8530a", "ABCDE", " 85301"} {
		result, err := flow.IsZipServable(context.Background(), zip)
		require.NoError(t, err)
		assert.False(t, result.Servable, "zip %q should not be servable", zip)
		assert.Equal(t, MatchModeNone, result.MatchMode)
		assert.Equal(t, zip, result.Zip)
	}

	// Malformed input never reaches the distance backend
	assert.Zero(t, distanceSvc.resolveCalls)
}

func TestIsZipServableExactMatch(t *testing.T) {
	distanceSvc := &fakeDistanceService{enabled: true}
	flow := NewEligibilityFlow(
		&fakeProviderRepo{providers: []*models.Provider{activeProvider(12, "Glendale Lawn Pros", "85301")}},
		&fakeGlobalZipRepo{},
		&fakeProfileRepo{},
		distanceSvc,
	)

	result, err := flow.IsZipServable(context.Background(), "85301")
	require.NoError(t, err)
	assert.True(t, result.Servable)
	assert.Equal(t, MatchModeExact, result.MatchMode)

	// Exact pass short-circuits before any distance work
	assert.Zero(t, distanceSvc.resolveCalls)
}

func TestIsZipServableProximity(t *testing.T) {
	provider := activeProvider(12, "Glendale Lawn Pros", "85302")

	t.Run("WithinBaseRadius", func(t *testing.T) {
		distanceSvc := &fakeDistanceService{
			enabled:  true,
			snapshot: &fakeSnapshot{miles: map[string]float64{"85301|85302": 6.21}},
		}
		flow := NewEligibilityFlow(&fakeProviderRepo{providers: []*models.Provider{provider}}, &fakeGlobalZipRepo{}, &fakeProfileRepo{}, distanceSvc)

		result, err := flow.IsZipServable(context.Background(), "85301")
		require.NoError(t, err)
		assert.True(t, result.Servable)
		assert.Equal(t, MatchModeProximity, result.MatchMode)
		assert.Equal(t, 1, distanceSvc.resolveCalls)
		assert.Contains(t, distanceSvc.lastZips, "85301")
		assert.Contains(t, distanceSvc.lastZips, "85302")
	})

	t.Run("OutsideBaseRadius", func(t *testing.T) {
		distanceSvc := &fakeDistanceService{
			enabled:  true,
			snapshot: &fakeSnapshot{miles: map[string]float64{"85301|85302": models.DefaultBaseRadiusMiles + 0.5}},
		}
		flow := NewEligibilityFlow(&fakeProviderRepo{providers: []*models.Provider{provider}}, &fakeGlobalZipRepo{}, &fakeProfileRepo{}, distanceSvc)

		result, err := flow.IsZipServable(context.Background(), "85301")
		require.NoError(t, err)
		assert.False(t, result.Servable)
		assert.Equal(t, MatchModeNone, result.MatchMode)
	})

	t.Run("UnknownCentroidIsSkipped", func(t *testing.T) {
		distanceSvc := &fakeDistanceService{
			enabled:  true,
			snapshot: &fakeSnapshot{miles: map[string]float64{}},
		}
		flow := NewEligibilityFlow(&fakeProviderRepo{providers: []*models.Provider{provider}}, &fakeGlobalZipRepo{}, &fakeProfileRepo{}, distanceSvc)

		result, err := flow.IsZipServable(context.Background(), "85301")
		require.NoError(t, err)
		assert.False(t, result.Servable)
	})

	t.Run("ServiceAreaRadiusAppliesPerRow", func(t *testing.T) {
		// Base ZIP misses at 15mi but a 10mi-radius service area row 8mi away hits
		withArea := activeProvider(12, "Glendale Lawn Pros", "85302", models.ServiceArea{
			ProviderID:  12,
			ZipCode:     "85303",
			RadiusMiles: models.DefaultServiceAreaRadiusMiles,
		})
		distanceSvc := &fakeDistanceService{
			enabled: true,
			snapshot: &fakeSnapshot{miles: map[string]float64{
				"85301|85302": models.DefaultBaseRadiusMiles + 1,
				"85301|85303": 8.0,
			}},
		}
		flow := NewEligibilityFlow(&fakeProviderRepo{providers: []*models.Provider{withArea}}, &fakeGlobalZipRepo{}, &fakeProfileRepo{}, distanceSvc)

		result, err := flow.IsZipServable(context.Background(), "85301")
		require.NoError(t, err)
		assert.True(t, result.Servable)
		assert.Equal(t, MatchModeProximity, result.MatchMode)
	})
}

func TestIsZipServableDegradesWhenGeoFails(t *testing.T) {
	provider := activeProvider(12, "Glendale Lawn Pros", "85302")

	t.Run("ResolveErrorFallsBackToExact", func(t *testing.T) {
		distanceSvc := &fakeDistanceService{enabled: true, resolveErr: errors.New("centroid backend down")}
		flow := NewEligibilityFlow(&fakeProviderRepo{providers: []*models.Provider{provider}}, &fakeGlobalZipRepo{}, &fakeProfileRepo{}, distanceSvc)

		result, err := flow.IsZipServable(context.Background(), "85301")
		require.NoError(t, err)
		assert.False(t, result.Servable)

		exact, err := flow.IsZipServable(context.Background(), "85302")
		require.NoError(t, err)
		assert.True(t, exact.Servable)
		assert.Equal(t, MatchModeExact, exact.MatchMode)
	})

	t.Run("DisabledServiceNeverResolves", func(t *testing.T) {
		distanceSvc := &fakeDistanceService{enabled: false}
		flow := NewEligibilityFlow(&fakeProviderRepo{providers: []*models.Provider{provider}}, &fakeGlobalZipRepo{}, &fakeProfileRepo{}, distanceSvc)

		result, err := flow.IsZipServable(context.Background(), "85301")
		require.NoError(t, err)
		assert.False(t, result.Servable)
		assert.Zero(t, distanceSvc.resolveCalls)
	})
}

func TestIsZipServableCoverageError(t *testing.T) {
	flow := NewEligibilityFlow(
		&fakeProviderRepo{},
		&fakeGlobalZipRepo{},
		&fakeProfileRepo{err: errors.New("connection refused")},
		nil,
	)

	result, err := flow.IsZipServable(context.Background(), "85301")
	require.Error(t, err)
	assert.Nil(t, result)

	var businessErr *BusinessError
	require.ErrorAs(t, err, &businessErr)
	assert.Equal(t, "ELIGIBILITY_LOOKUP_FAILED", businessErr.Code)
}

func TestEligibleProvidersGlobalAllowlist(t *testing.T) {
	profile := &models.Profile{
		ID:           models.OperatorProfileID,
		FirstName:    "Sam",
		BusinessName: "Localyard",
	}
	flow := NewEligibilityFlow(
		&fakeProviderRepo{},
		&fakeGlobalZipRepo{entries: []*models.GlobalZip{{Zip: "85301", RadiusMiles: models.GlobalZipDefaultRadiusMiles}}},
		&fakeProfileRepo{profile: profile},
		nil,
	)

	result, err := flow.EligibleProviders(context.Background(), "85301")
	require.NoError(t, err)
	require.Len(t, result.Providers, 1)
	assert.Equal(t, models.HouseProviderID, result.Providers[0].ProviderID)
	assert.Equal(t, "Sam", result.Providers[0].BusinessName)
	assert.Equal(t, MatchModeExact, result.Providers[0].MatchMode)
	assert.Equal(t, EligibilityModeExactOnly, result.Mode)
}

func TestEligibleProvidersDedupe(t *testing.T) {
	t.Run("OneEntryPerProvider", func(t *testing.T) {
		// Base ZIP and a service area both match exactly; the provider
		// appears once.
		provider := activeProvider(12, "Glendale Lawn Pros", "85301", models.ServiceArea{
			ProviderID:  12,
			ZipCode:     "85301",
			RadiusMiles: models.DefaultServiceAreaRadiusMiles,
		})
		flow := NewEligibilityFlow(&fakeProviderRepo{providers: []*models.Provider{provider}}, &fakeGlobalZipRepo{}, &fakeProfileRepo{}, nil)

		result, err := flow.EligibleProviders(context.Background(), "85301")
		require.NoError(t, err)
		require.Len(t, result.Providers, 1)
		assert.Equal(t, uint(12), result.Providers[0].ProviderID)
	})

	t.Run("ExactBeatsEarlierProximity", func(t *testing.T) {
		// The base ZIP matches by proximity first, then a service area
		// matches exactly; the entry must end up exact with no distance.
		provider := activeProvider(12, "Glendale Lawn Pros", "85302", models.ServiceArea{
			ProviderID:  12,
			ZipCode:     "85301",
			RadiusMiles: models.DefaultServiceAreaRadiusMiles,
		})
		distanceSvc := &fakeDistanceService{
			enabled:  true,
			snapshot: &fakeSnapshot{miles: map[string]float64{"85301|85302": 5.0}},
		}
		flow := NewEligibilityFlow(&fakeProviderRepo{providers: []*models.Provider{provider}}, &fakeGlobalZipRepo{}, &fakeProfileRepo{}, distanceSvc)

		result, err := flow.EligibleProviders(context.Background(), "85301")
		require.NoError(t, err)
		require.Len(t, result.Providers, 1)
		assert.Equal(t, MatchModeExact, result.Providers[0].MatchMode)
		assert.Equal(t, "85301", result.Providers[0].MatchedZip)
		assert.Nil(t, result.Providers[0].DistanceMiles)
	})

	t.Run("ProximityReportsDistance", func(t *testing.T) {
		provider := activeProvider(14, "Peoria Handyman", "85345")
		distanceSvc := &fakeDistanceService{
			enabled:  true,
			snapshot: &fakeSnapshot{miles: map[string]float64{"85301|85345": 7.4}},
		}
		flow := NewEligibilityFlow(&fakeProviderRepo{providers: []*models.Provider{provider}}, &fakeGlobalZipRepo{}, &fakeProfileRepo{}, distanceSvc)

		result, err := flow.EligibleProviders(context.Background(), "85301")
		require.NoError(t, err)
		require.Len(t, result.Providers, 1)
		assert.Equal(t, MatchModeProximity, result.Providers[0].MatchMode)
		require.NotNil(t, result.Providers[0].DistanceMiles)
		assert.InDelta(t, 7.4, *result.Providers[0].DistanceMiles, 0.001)
	})
}

func TestEligibleProvidersOrdering(t *testing.T) {
	// Coverage flattens operator rows first, then providers in repository
	// order; results keep first-match order.
	profile := &models.Profile{ID: models.OperatorProfileID, BusinessName: "Localyard", BaseZip: utils.ToPtr("85301")}
	providers := []*models.Provider{
		activeProvider(12, "Glendale Lawn Pros", "85301"),
		activeProvider(14, "Peoria Handyman", "85301"),
	}
	flow := NewEligibilityFlow(&fakeProviderRepo{providers: providers}, &fakeGlobalZipRepo{}, &fakeProfileRepo{profile: profile}, nil)

	result, err := flow.EligibleProviders(context.Background(), "85301")
	require.NoError(t, err)
	require.Len(t, result.Providers, 3)
	assert.Equal(t, models.HouseProviderID, result.Providers[0].ProviderID)
	assert.Equal(t, uint(12), result.Providers[1].ProviderID)
	assert.Equal(t, uint(14), result.Providers[2].ProviderID)
}

func TestEligibleProvidersMalformedZip(t *testing.T) {
	flow := NewEligibilityFlow(
		&fakeProviderRepo{providers: []*models.Provider{activeProvider(12, "Glendale Lawn Pros", "85301")}},
		&fakeGlobalZipRepo{},
		&fakeProfileRepo{},
		nil,
	)

	result, err := flow.EligibleProviders(context.Background(), "not-a-zip")
	require.NoError(t, err)
	assert.Empty(t, result.Providers)
}
