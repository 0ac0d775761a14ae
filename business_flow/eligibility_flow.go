// Package businessflow contains the core business logic and use cases for the marketplace
package businessflow

import (
	"context"

	"github.com/localyard/localyard/app/dto"
	"github.com/localyard/localyard/app/services"
	"github.com/localyard/localyard/models"
	"github.com/localyard/localyard/repository"
	"github.com/localyard/localyard/utils"
)

// Eligibility engine modes. The mode is a deployment capability, decided once
// at startup from the availability of centroid data, never per request.
const (
	EligibilityModeExactOnly          = "exact_only"
	EligibilityModeExactPlusProximity = "exact_plus_proximity"
)

// Match modes reported per result
const (
	MatchModeExact     = "exact"
	MatchModeProximity = "proximity"
	MatchModeNone      = "none"
)

// EligibilityFlow answers whether a customer ZIP code is served and by whom.
//
// A ZIP is served when it exactly matches a coverage row, or when centroid
// data is available and the great-circle distance between the two ZIP codes
// is within the row's radius. Malformed ZIP codes are an ordinary negative
// answer, not an error. A missing or failing geo backend degrades to exact
// matching instead of failing the request.
type EligibilityFlow interface {
	IsZipServable(ctx context.Context, zip string) (*dto.ZipCheckResponse, error)
	EligibleProviders(ctx context.Context, zip string) (*dto.EligibleProvidersResponse, error)
	// Mode reports the engine capability in effect
	Mode() string
}

// coverageRow is one (ZIP, radius) circle a provider serves. Base ZIP rows
// and explicit service areas flatten into the same shape; allowlist rows are
// attributed to the house provider.
type coverageRow struct {
	providerID   uint
	businessName string
	zip          string
	radiusMiles  float64
}

// EligibilityFlowImpl implements the eligibility business flow
type EligibilityFlowImpl struct {
	providerRepo  repository.ProviderRepository
	globalZipRepo repository.GlobalZipRepository
	profileRepo   repository.ProfileRepository
	distanceSvc   services.DistanceService
}

// NewEligibilityFlow creates a new eligibility flow instance. distanceSvc may
// be nil, in which case the engine runs in exact-only mode.
func NewEligibilityFlow(
	providerRepo repository.ProviderRepository,
	globalZipRepo repository.GlobalZipRepository,
	profileRepo repository.ProfileRepository,
	distanceSvc services.DistanceService,
) EligibilityFlow {
	return &EligibilityFlowImpl{
		providerRepo:  providerRepo,
		globalZipRepo: globalZipRepo,
		profileRepo:   profileRepo,
		distanceSvc:   distanceSvc,
	}
}

func (f *EligibilityFlowImpl) Mode() string {
	if f.proximityEnabled() {
		return EligibilityModeExactPlusProximity
	}
	return EligibilityModeExactOnly
}

func (f *EligibilityFlowImpl) proximityEnabled() bool {
	return f.distanceSvc != nil && f.distanceSvc.Enabled()
}

// IsZipServable answers the public "do you serve my area?" check.
func (f *EligibilityFlowImpl) IsZipServable(ctx context.Context, zip string) (*dto.ZipCheckResponse, error) {
	response := &dto.ZipCheckResponse{Zip: zip, MatchMode: MatchModeNone}

	if !utils.IsValidZip(zip) {
		return response, nil
	}

	rows, err := f.collectCoverage(ctx)
	if err != nil {
		return nil, NewBusinessError("ELIGIBILITY_LOOKUP_FAILED", "Failed to load coverage data", err)
	}

	// Exact pass short-circuits before any distance work
	for _, row := range rows {
		if row.zip == zip {
			response.Servable = true
			response.MatchMode = MatchModeExact
			zipChecksTotal.WithLabelValues(MatchModeExact).Inc()
			return response, nil
		}
	}

	snapshot := f.resolveDistances(ctx, zip, rows)
	if snapshot != nil {
		for _, row := range rows {
			miles, ok := snapshot.MilesBetween(zip, row.zip)
			if !ok {
				continue
			}
			if miles <= row.radiusMiles {
				response.Servable = true
				response.MatchMode = MatchModeProximity
				zipChecksTotal.WithLabelValues(MatchModeProximity).Inc()
				return response, nil
			}
		}
	}

	zipChecksTotal.WithLabelValues(MatchModeNone).Inc()
	return response, nil
}

// EligibleProviders lists every provider serving the ZIP, each at most once.
// Per provider the exact match wins over proximity; among proximity rows the
// first within radius wins.
func (f *EligibilityFlowImpl) EligibleProviders(ctx context.Context, zip string) (*dto.EligibleProvidersResponse, error) {
	response := &dto.EligibleProvidersResponse{
		Zip:       zip,
		Mode:      f.Mode(),
		Providers: []dto.EligibleProviderDTO{},
	}

	if !utils.IsValidZip(zip) {
		return response, nil
	}

	rows, err := f.collectCoverage(ctx)
	if err != nil {
		return nil, NewBusinessError("ELIGIBILITY_LOOKUP_FAILED", "Failed to load coverage data", err)
	}

	snapshot := f.resolveDistances(ctx, zip, rows)

	matched := make(map[uint]*dto.EligibleProviderDTO)
	order := make([]uint, 0)

	for _, row := range rows {
		if row.zip == zip {
			if existing, ok := matched[row.providerID]; ok {
				// Exact beats an earlier proximity match for the same provider
				existing.MatchedZip = row.zip
				existing.MatchMode = MatchModeExact
				existing.DistanceMiles = nil
				continue
			}
			matched[row.providerID] = &dto.EligibleProviderDTO{
				ProviderID:   row.providerID,
				BusinessName: row.businessName,
				MatchedZip:   row.zip,
				MatchMode:    MatchModeExact,
			}
			order = append(order, row.providerID)
			continue
		}

		if snapshot == nil {
			continue
		}
		if _, ok := matched[row.providerID]; ok {
			continue
		}
		miles, ok := snapshot.MilesBetween(zip, row.zip)
		if !ok || miles > row.radiusMiles {
			continue
		}
		distance := miles
		matched[row.providerID] = &dto.EligibleProviderDTO{
			ProviderID:    row.providerID,
			BusinessName:  row.businessName,
			MatchedZip:    row.zip,
			MatchMode:     MatchModeProximity,
			DistanceMiles: &distance,
		}
		order = append(order, row.providerID)
	}

	for _, providerID := range order {
		response.Providers = append(response.Providers, *matched[providerID])
	}

	return response, nil
}

// resolveDistances fetches centroids for the query ZIP plus every coverage
// ZIP in one batch. A disabled or failing geo backend yields nil, which
// callers treat as exact-only for this request.
func (f *EligibilityFlowImpl) resolveDistances(ctx context.Context, zip string, rows []coverageRow) services.DistanceSnapshot {
	if !f.proximityEnabled() || len(rows) == 0 {
		return nil
	}

	zips := make([]string, 0, len(rows)+1)
	zips = append(zips, zip)
	for _, row := range rows {
		zips = append(zips, row.zip)
	}

	snapshot, err := f.distanceSvc.Resolve(ctx, zips)
	if err != nil {
		return nil
	}
	return snapshot
}

// collectCoverage flattens every source of coverage into rows: the operator
// profile's base ZIP and the global allowlist (house provider), then each
// active provider's base ZIP and explicit service areas.
func (f *EligibilityFlowImpl) collectCoverage(ctx context.Context) ([]coverageRow, error) {
	rows := make([]coverageRow, 0, 16)

	profile, err := f.profileRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	operatorName := "Provider"
	if profile != nil {
		operatorName = profile.PostedByName()
		if profile.HasBaseZip() {
			rows = append(rows, coverageRow{
				providerID:   models.HouseProviderID,
				businessName: operatorName,
				zip:          *profile.BaseZip,
				radiusMiles:  models.DefaultBaseRadiusMiles,
			})
		}
	}

	allowlist, err := f.globalZipRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, entry := range allowlist {
		rows = append(rows, coverageRow{
			providerID:   models.HouseProviderID,
			businessName: operatorName,
			zip:          entry.Zip,
			radiusMiles:  entry.RadiusMiles,
		})
	}

	providers, err := f.providerRepo.ListActiveWithServiceAreas(ctx)
	if err != nil {
		return nil, err
	}
	for _, provider := range providers {
		if provider.HasBaseZip() {
			rows = append(rows, coverageRow{
				providerID:   provider.ID,
				businessName: provider.BusinessName,
				zip:          *provider.BaseZip,
				radiusMiles:  models.DefaultBaseRadiusMiles,
			})
		}
		for _, area := range provider.ServiceAreas {
			rows = append(rows, coverageRow{
				providerID:   provider.ID,
				businessName: provider.BusinessName,
				zip:          area.ZipCode,
				radiusMiles:  area.RadiusMiles,
			})
		}
	}

	return rows, nil
}
