package tests

import (
	"context"
	"fmt"
	"testing"

	"github.com/localyard/localyard/app/dto"
	businessflow "github.com/localyard/localyard/business_flow"
	"github.com/localyard/localyard/models"
	"github.com/localyard/localyard/repository"
	testingutil "github.com/localyard/localyard/testing"
	"github.com/localyard/localyard/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfileFlow(testDB *testingutil.TestDB) businessflow.ProviderProfileFlow {
	return businessflow.NewProviderProfileFlow(
		repository.NewProviderRepository(testDB.DB),
		repository.NewServiceAreaRepository(testDB.DB),
		repository.NewServiceRepository(testDB.DB),
		repository.NewLeadRepository(testDB.DB),
		repository.NewAuditLogRepository(testDB.DB),
		testDB.DB,
	)
}

func TestProviderProfile(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		profileFlow := newProfileFlow(testDB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "go-test")

		provider, err := fixtures.CreateTestProvider("85301")
		require.NoError(t, err)

		t.Run("GetProfile", func(t *testing.T) {
			result, err := profileFlow.GetProfile(context.Background(), provider.ID)
			require.NoError(t, err)
			assert.Equal(t, provider.Email, result.Email)
			require.NotNil(t, result.BaseZip)
			assert.Equal(t, "85301", *result.BaseZip)
		})

		t.Run("UnknownProvider", func(t *testing.T) {
			_, err := profileFlow.GetProfile(context.Background(), 999999)
			require.Error(t, err)
			assert.True(t, businessflow.IsProviderNotFound(err))
		})

		t.Run("PartialUpdate", func(t *testing.T) {
			result, err := profileFlow.UpdateProfile(context.Background(), provider.ID, &dto.UpdateProviderProfileRequest{
				About:      utils.ToPtr("Family-owned since 2012"),
				WebsiteURL: utils.ToPtr("https://glendalelawnpros.com"),
			}, metadata)
			require.NoError(t, err)
			require.NotNil(t, result.About)
			assert.Equal(t, "Family-owned since 2012", *result.About)

			// Untouched fields keep their values
			assert.Equal(t, provider.FirstName, result.FirstName)
			assert.Equal(t, provider.BusinessName, result.BusinessName)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestServiceAreas(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		profileFlow := newProfileFlow(testDB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "go-test")

		provider, err := fixtures.CreateTestProvider("85301")
		require.NoError(t, err)
		otherProvider, err := fixtures.CreateTestProvider("85302")
		require.NoError(t, err)

		t.Run("AddWithDefaultRadius", func(t *testing.T) {
			result, err := profileFlow.AddServiceArea(context.Background(), provider.ID, &dto.AddServiceAreaRequest{
				ZipCode: "85303",
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, "85303", result.ZipCode)
			assert.InDelta(t, models.DefaultServiceAreaRadiusMiles, result.RadiusMiles, 0.001)
		})

		t.Run("DuplicateZipRejected", func(t *testing.T) {
			_, err := profileFlow.AddServiceArea(context.Background(), provider.ID, &dto.AddServiceAreaRequest{
				ZipCode:     "85303",
				RadiusMiles: 15,
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsServiceAreaDuplicate(err))
		})

		t.Run("CapEnforced", func(t *testing.T) {
			// One row exists already; fill up to the cap, then one more
			for i := 1; i < models.MaxServiceAreasPerProvider; i++ {
				_, err := profileFlow.AddServiceArea(context.Background(), provider.ID, &dto.AddServiceAreaRequest{
					ZipCode: fmt.Sprintf("853%02d", i+3),
				}, metadata)
				require.NoError(t, err)
			}

			_, err := profileFlow.AddServiceArea(context.Background(), provider.ID, &dto.AddServiceAreaRequest{
				ZipCode: "85399",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsServiceAreaLimitReached(err))

			areas, err := profileFlow.ListServiceAreas(context.Background(), provider.ID)
			require.NoError(t, err)
			assert.Len(t, areas.ServiceAreas, models.MaxServiceAreasPerProvider)
		})

		t.Run("CapIsPerProvider", func(t *testing.T) {
			_, err := profileFlow.AddServiceArea(context.Background(), otherProvider.ID, &dto.AddServiceAreaRequest{
				ZipCode: "85303",
			}, metadata)
			require.NoError(t, err)
		})

		t.Run("RemoveOwnArea", func(t *testing.T) {
			areas, err := profileFlow.ListServiceAreas(context.Background(), provider.ID)
			require.NoError(t, err)
			require.NotEmpty(t, areas.ServiceAreas)

			err = profileFlow.RemoveServiceArea(context.Background(), provider.ID, areas.ServiceAreas[0].ID, metadata)
			require.NoError(t, err)

			remaining, err := profileFlow.ListServiceAreas(context.Background(), provider.ID)
			require.NoError(t, err)
			assert.Len(t, remaining.ServiceAreas, models.MaxServiceAreasPerProvider-1)
		})

		t.Run("CannotRemoveAnotherProvidersArea", func(t *testing.T) {
			areas, err := profileFlow.ListServiceAreas(context.Background(), otherProvider.ID)
			require.NoError(t, err)
			require.NotEmpty(t, areas.ServiceAreas)

			err = profileFlow.RemoveServiceArea(context.Background(), provider.ID, areas.ServiceAreas[0].ID, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsServiceAreaNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestProviderAnalytics(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		profileFlow := newProfileFlow(testDB)

		provider, err := fixtures.CreateTestProvider("85301")
		require.NoError(t, err)

		_, err = fixtures.CreateTestLead(provider.ID, "85301", models.LeadStatusNew, false)
		require.NoError(t, err)
		_, err = fixtures.CreateTestLead(provider.ID, "85301", models.LeadStatusNew, true)
		require.NoError(t, err)
		_, err = fixtures.CreateTestLead(provider.ID, "85301", models.LeadStatusCompleted, false)
		require.NoError(t, err)
		_, err = fixtures.CreateTestLead(provider.ID, "85301", models.LeadStatusRejected, false)
		require.NoError(t, err)
		_, err = fixtures.CreateTestService(provider.ID, "Weekly Yard Mowing", "Mowing and edging")
		require.NoError(t, err)

		result, err := profileFlow.Analytics(context.Background(), provider.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 4, result.TotalLeads)
		assert.EqualValues(t, 2, result.NewLeads)
		assert.EqualValues(t, 1, result.CompletedLeads)
		assert.EqualValues(t, 1, result.RejectedLeads)
		assert.EqualValues(t, 1, result.RecurringLeads)
		assert.EqualValues(t, 1, result.ActiveServices)

		return nil
	})
	require.NoError(t, err)
}
