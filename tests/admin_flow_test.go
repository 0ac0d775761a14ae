package tests

import (
	"context"
	"testing"

	"github.com/localyard/localyard/app/dto"
	"github.com/localyard/localyard/app/services"
	businessflow "github.com/localyard/localyard/business_flow"
	"github.com/localyard/localyard/models"
	"github.com/localyard/localyard/repository"
	testingutil "github.com/localyard/localyard/testing"
	"github.com/localyard/localyard/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminFlow(t *testing.T, testDB *testingutil.TestDB, captchaService services.CaptchaService) businessflow.AdminFlow {
	providerRepo := repository.NewProviderRepository(testDB.DB)
	serviceRepo := repository.NewServiceRepository(testDB.DB)
	globalZipRepo := repository.NewGlobalZipRepository(testDB.DB)
	profileRepo := repository.NewProfileRepository(testDB.DB)

	eligibilityFlow := businessflow.NewEligibilityFlow(providerRepo, globalZipRepo, profileRepo, nil)
	searchFlow := businessflow.NewSearchFlow(context.Background(), serviceRepo, 0)

	return businessflow.NewAdminFlow(
		repository.NewAdminRepository(testDB.DB),
		providerRepo,
		serviceRepo,
		repository.NewProductRepository(testDB.DB),
		repository.NewLeadRepository(testDB.DB),
		globalZipRepo,
		profileRepo,
		repository.NewZipCentroidRepository(testDB.DB),
		repository.NewAuditLogRepository(testDB.DB),
		newTestTokenService(t),
		captchaService,
		eligibilityFlow,
		searchFlow,
		testDB.DB,
	)
}

func TestAdminLogin(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		captcha := services.NewMockCaptchaService()
		adminFlow := newAdminFlow(t, testDB, captcha)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "go-test")

		_, err := fixtures.CreateTestAdmin("admin")
		require.NoError(t, err)

		challenge, err := adminFlow.Captcha(context.Background())
		require.NoError(t, err)
		require.NotEmpty(t, challenge.ChallengeID)

		t.Run("CaptchaCheckedBeforeCredentials", func(t *testing.T) {
			captcha.Reject = true
			defer func() { captcha.Reject = false }()

			// Even valid credentials fail when the captcha does
			_, err := adminFlow.Login(context.Background(), &dto.AdminLoginRequest{
				Username:     "admin",
				Password:     "AdminPass123!",
				ChallengeID:  challenge.ChallengeID,
				CaptchaAngle: 87,
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsCaptchaFailed(err))
		})

		t.Run("SuccessfulLogin", func(t *testing.T) {
			result, err := adminFlow.Login(context.Background(), &dto.AdminLoginRequest{
				Username:     "admin",
				Password:     "AdminPass123!",
				ChallengeID:  challenge.ChallengeID,
				CaptchaAngle: 87,
			}, metadata)
			require.NoError(t, err)
			assert.NotEmpty(t, result.AccessToken)
			assert.Equal(t, "Bearer", result.TokenType)
		})

		t.Run("UnknownUsernameAndWrongPasswordReadTheSame", func(t *testing.T) {
			_, unknownErr := adminFlow.Login(context.Background(), &dto.AdminLoginRequest{
				Username:     "ghost",
				Password:     "AdminPass123!",
				ChallengeID:  challenge.ChallengeID,
				CaptchaAngle: 87,
			}, metadata)
			require.Error(t, unknownErr)

			_, wrongErr := adminFlow.Login(context.Background(), &dto.AdminLoginRequest{
				Username:     "admin",
				Password:     "WrongPass123!",
				ChallengeID:  challenge.ChallengeID,
				CaptchaAngle: 87,
			}, metadata)
			require.Error(t, wrongErr)

			assert.Contains(t, unknownErr.Error(), "Invalid username or password")
			assert.Contains(t, wrongErr.Error(), "Invalid username or password")
		})

		return nil
	})
	require.NoError(t, err)
}

func TestAdminModeration(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		adminFlow := newAdminFlow(t, testDB, services.NewMockCaptchaService())
		metadata := businessflow.NewClientMetadata("127.0.0.1", "go-test")

		providerRepo := repository.NewProviderRepository(testDB.DB)
		serviceRepo := repository.NewServiceRepository(testDB.DB)

		provider, err := fixtures.CreateTestProvider("85301")
		require.NoError(t, err)
		service, err := fixtures.CreateTestService(provider.ID, "Weekly Yard Mowing", "Mowing and edging")
		require.NoError(t, err)

		t.Run("DeactivateProvider", func(t *testing.T) {
			require.NoError(t, adminFlow.SetProviderActive(context.Background(), provider.ID, false, metadata))

			reloaded, err := providerRepo.ByID(context.Background(), provider.ID)
			require.NoError(t, err)
			assert.False(t, utils.IsTrue(reloaded.IsActive))

			require.NoError(t, adminFlow.SetProviderActive(context.Background(), provider.ID, true, metadata))
		})

		t.Run("UnknownProvider", func(t *testing.T) {
			err := adminFlow.SetProviderActive(context.Background(), 999999, false, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsProviderNotFound(err))
		})

		t.Run("CertifyService", func(t *testing.T) {
			require.NoError(t, adminFlow.SetServiceCertified(context.Background(), service.ID, true))

			reloaded, err := serviceRepo.ByID(context.Background(), service.ID)
			require.NoError(t, err)
			assert.True(t, utils.IsTrue(reloaded.IsCertified))

			require.NoError(t, adminFlow.SetServiceCertified(context.Background(), service.ID, false))
		})

		t.Run("ListProviders", func(t *testing.T) {
			providers, err := adminFlow.ListProviders(context.Background(), 1, 20)
			require.NoError(t, err)
			assert.NotEmpty(t, providers)
		})

		t.Run("Dashboard", func(t *testing.T) {
			dashboard, err := adminFlow.Dashboard(context.Background())
			require.NoError(t, err)
			assert.GreaterOrEqual(t, dashboard.TotalProviders, int64(1))
			assert.GreaterOrEqual(t, dashboard.TotalServices, int64(1))
			assert.False(t, dashboard.ProximityEnabled)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestGlobalZipAllowlist(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		adminFlow := newAdminFlow(t, testDB, services.NewMockCaptchaService())

		providerRepo := repository.NewProviderRepository(testDB.DB)
		globalZipRepo := repository.NewGlobalZipRepository(testDB.DB)
		profileRepo := repository.NewProfileRepository(testDB.DB)
		eligibilityFlow := businessflow.NewEligibilityFlow(providerRepo, globalZipRepo, profileRepo, nil)

		t.Run("UpsertWithDefaultRadius", func(t *testing.T) {
			result, err := adminFlow.UpsertGlobalZip(context.Background(), &dto.UpsertGlobalZipRequest{Zip: "85301"})
			require.NoError(t, err)
			assert.Equal(t, "85301", result.Zip)
			assert.InDelta(t, models.GlobalZipDefaultRadiusMiles, result.RadiusMiles, 0.001)
		})

		t.Run("ReaddingUpdatesRadius", func(t *testing.T) {
			result, err := adminFlow.UpsertGlobalZip(context.Background(), &dto.UpsertGlobalZipRequest{Zip: "85301", RadiusMiles: 35})
			require.NoError(t, err)
			assert.InDelta(t, 35, result.RadiusMiles, 0.001)

			listed, err := adminFlow.ListGlobalZips(context.Background())
			require.NoError(t, err)
			require.Len(t, listed.Zips, 1)
			assert.InDelta(t, 35, listed.Zips[0].RadiusMiles, 0.001)
		})

		t.Run("AllowlistedZipIsServable", func(t *testing.T) {
			result, err := eligibilityFlow.IsZipServable(context.Background(), "85301")
			require.NoError(t, err)
			assert.True(t, result.Servable)
		})

		t.Run("Delete", func(t *testing.T) {
			require.NoError(t, adminFlow.DeleteGlobalZip(context.Background(), "85301"))

			err := adminFlow.DeleteGlobalZip(context.Background(), "85301")
			require.Error(t, err)
			assert.True(t, businessflow.IsGlobalZipNotFound(err))

			result, err := eligibilityFlow.IsZipServable(context.Background(), "85301")
			require.NoError(t, err)
			assert.False(t, result.Servable)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestOperatorProfile(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		adminFlow := newAdminFlow(t, testDB, services.NewMockCaptchaService())

		t.Run("EmptyProfileReadsAsDefaults", func(t *testing.T) {
			profile, err := adminFlow.GetOperatorProfile(context.Background())
			require.NoError(t, err)
			assert.Empty(t, profile.FirstName)
		})

		t.Run("UpdateCreatesTheRow", func(t *testing.T) {
			result, err := adminFlow.UpdateOperatorProfile(context.Background(), &dto.UpdateOperatorProfileRequest{
				FirstName:    utils.ToPtr("Alex"),
				BusinessName: utils.ToPtr("Localyard"),
				BaseZip:      utils.ToPtr("85301"),
			})
			require.NoError(t, err)
			assert.Equal(t, "Alex", result.FirstName)

			reloaded, err := adminFlow.GetOperatorProfile(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "Alex", reloaded.FirstName)
			require.NotNil(t, reloaded.BaseZip)
			assert.Equal(t, "85301", *reloaded.BaseZip)
		})

		t.Run("OperatorBaseZipFeedsEligibility", func(t *testing.T) {
			providerRepo := repository.NewProviderRepository(testDB.DB)
			globalZipRepo := repository.NewGlobalZipRepository(testDB.DB)
			profileRepo := repository.NewProfileRepository(testDB.DB)
			eligibilityFlow := businessflow.NewEligibilityFlow(providerRepo, globalZipRepo, profileRepo, nil)

			result, err := eligibilityFlow.EligibleProviders(context.Background(), "85301")
			require.NoError(t, err)
			require.Len(t, result.Providers, 1)
			assert.Equal(t, models.HouseProviderID, result.Providers[0].ProviderID)
			assert.Equal(t, "Alex", result.Providers[0].BusinessName)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestLoadCentroids(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		adminFlow := newAdminFlow(t, testDB, services.NewMockCaptchaService())
		centroidRepo := repository.NewZipCentroidRepository(testDB.DB)

		result, err := adminFlow.LoadCentroids(context.Background(), &dto.LoadCentroidsRequest{
			Centroids: []dto.CentroidRowDTO{
				{Zip: "85301", Latitude: 33.5319, Longitude: -112.1781},
				{Zip: "85302", Latitude: 33.5672, Longitude: -112.1725},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, result.Loaded)

		count, err := centroidRepo.Count(context.Background())
		require.NoError(t, err)
		assert.EqualValues(t, 2, count)

		// Re-loading the same ZIP codes overwrites instead of duplicating
		_, err = adminFlow.LoadCentroids(context.Background(), &dto.LoadCentroidsRequest{
			Centroids: []dto.CentroidRowDTO{
				{Zip: "85301", Latitude: 33.5320, Longitude: -112.1780},
			},
		})
		require.NoError(t, err)

		count, err = centroidRepo.Count(context.Background())
		require.NoError(t, err)
		assert.EqualValues(t, 2, count)

		t.Run("ProximityEndToEnd", func(t *testing.T) {
			provider, err := fixtures.CreateTestProvider("85302")
			require.NoError(t, err)

			distanceSvc, err := services.NewCentroidDistanceService(context.Background(), centroidRepo, nil, 0, 0)
			require.NoError(t, err)
			require.True(t, distanceSvc.Enabled())

			providerRepo := repository.NewProviderRepository(testDB.DB)
			globalZipRepo := repository.NewGlobalZipRepository(testDB.DB)
			profileRepo := repository.NewProfileRepository(testDB.DB)
			eligibilityFlow := businessflow.NewEligibilityFlow(providerRepo, globalZipRepo, profileRepo, distanceSvc)
			assert.Equal(t, businessflow.EligibilityModeExactPlusProximity, eligibilityFlow.Mode())

			// The two Glendale ZIP codes are a few miles apart, well within
			// the base radius
			result, err := eligibilityFlow.IsZipServable(context.Background(), "85301")
			require.NoError(t, err)
			assert.True(t, result.Servable)
			assert.Equal(t, businessflow.MatchModeProximity, result.MatchMode)

			eligible, err := eligibilityFlow.EligibleProviders(context.Background(), "85301")
			require.NoError(t, err)
			require.Len(t, eligible.Providers, 1)
			assert.Equal(t, provider.ID, eligible.Providers[0].ProviderID)
			require.NotNil(t, eligible.Providers[0].DistanceMiles)
			assert.Less(t, *eligible.Providers[0].DistanceMiles, models.DefaultBaseRadiusMiles)
		})

		return nil
	})
	require.NoError(t, err)
}
