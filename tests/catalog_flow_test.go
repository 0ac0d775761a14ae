package tests

import (
	"context"
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

func newCatalogFlow(testDB *testingutil.TestDB) businessflow.CatalogFlow {
	return businessflow.NewCatalogFlow(
		repository.NewServiceRepository(testDB.DB),
		repository.NewProductRepository(testDB.DB),
		repository.NewProviderRepository(testDB.DB),
		repository.NewProfileRepository(testDB.DB),
		testDB.DB,
	)
}

func TestServiceListings(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		catalogFlow := newCatalogFlow(testDB)

		provider, err := fixtures.CreateTestProvider("85301")
		require.NoError(t, err)
		otherProvider, err := fixtures.CreateTestProvider("85302")
		require.NoError(t, err)

		t.Run("CreateAttributesOwnership", func(t *testing.T) {
			result, err := catalogFlow.CreateService(context.Background(), provider.ID, &dto.CreateServiceRequest{
				Title:       "Weekly Yard Mowing",
				Description: "Mowing, edging and blowing for standard lots",
				Price:       "$40/visit",
			})
			require.NoError(t, err)
			assert.Equal(t, provider.ID, result.ProviderID)
			assert.Equal(t, provider.FirstName, result.PostedBy)
			assert.True(t, utils.IsTrue(result.IsActive))
			assert.False(t, utils.IsTrue(result.IsCertified))
		})

		t.Run("HouseListingUsesOperatorName", func(t *testing.T) {
			profileRepo := repository.NewProfileRepository(testDB.DB)
			require.NoError(t, profileRepo.Upsert(context.Background(), &models.Profile{
				ID:        models.OperatorProfileID,
				FirstName: "Alex",
			}))

			result, err := catalogFlow.CreateService(context.Background(), models.HouseProviderID, &dto.CreateServiceRequest{
				Title: "Gutter Cleaning",
				Price: "from $99",
			})
			require.NoError(t, err)
			assert.Equal(t, models.HouseProviderID, result.ProviderID)
			assert.Equal(t, "Alex", result.PostedBy)
		})

		t.Run("UpdateOwnListing", func(t *testing.T) {
			created, err := catalogFlow.CreateService(context.Background(), provider.ID, &dto.CreateServiceRequest{
				Title: "Hedge Trimming",
				Price: "$25",
			})
			require.NoError(t, err)

			updated, err := catalogFlow.UpdateService(context.Background(), provider.ID, created.ID, &dto.UpdateServiceRequest{
				Price:    utils.ToPtr("$30"),
				IsActive: utils.ToPtr(false),
			})
			require.NoError(t, err)
			assert.Equal(t, "$30", updated.Price)
			assert.False(t, utils.IsTrue(updated.IsActive))
			// Untouched fields survive the partial update
			assert.Equal(t, "Hedge Trimming", updated.Title)
		})

		t.Run("UpdateSomeoneElsesListingDenied", func(t *testing.T) {
			created, err := catalogFlow.CreateService(context.Background(), provider.ID, &dto.CreateServiceRequest{
				Title: "Tree Removal",
				Price: "quote",
			})
			require.NoError(t, err)

			_, err = catalogFlow.UpdateService(context.Background(), otherProvider.ID, created.ID, &dto.UpdateServiceRequest{
				Price: utils.ToPtr("$1"),
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsListingAccessDenied(err))
		})

		t.Run("DeleteScopedToOwner", func(t *testing.T) {
			created, err := catalogFlow.CreateService(context.Background(), provider.ID, &dto.CreateServiceRequest{
				Title: "Leaf Removal",
				Price: "$60",
			})
			require.NoError(t, err)

			// Another provider deleting it reads as not-found, not as a leak
			err = catalogFlow.DeleteService(context.Background(), otherProvider.ID, created.ID)
			require.Error(t, err)
			assert.True(t, businessflow.IsServiceNotFound(err))

			require.NoError(t, catalogFlow.DeleteService(context.Background(), provider.ID, created.ID))
		})

		t.Run("InactiveServiceHiddenFromPublicDetail", func(t *testing.T) {
			created, err := catalogFlow.CreateService(context.Background(), provider.ID, &dto.CreateServiceRequest{
				Title: "Seasonal Cleanup",
				Price: "$120",
			})
			require.NoError(t, err)

			detail, err := catalogFlow.GetService(context.Background(), created.ID)
			require.NoError(t, err)
			assert.Equal(t, created.ID, detail.ID)

			_, err = catalogFlow.UpdateService(context.Background(), provider.ID, created.ID, &dto.UpdateServiceRequest{
				IsActive: utils.ToPtr(false),
			})
			require.NoError(t, err)

			_, err = catalogFlow.GetService(context.Background(), created.ID)
			require.Error(t, err)
			assert.True(t, businessflow.IsServiceNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestProductListings(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		catalogFlow := newCatalogFlow(testDB)

		provider, err := fixtures.CreateTestProvider("85301")
		require.NoError(t, err)
		otherProvider, err := fixtures.CreateTestProvider("85302")
		require.NoError(t, err)

		created, err := catalogFlow.CreateProduct(context.Background(), provider.ID, &dto.CreateProductRequest{
			Title:       "Organic Lawn Fertilizer 20lb",
			Description: "Slow-release blend, covers 5000 sq ft",
			Price:       "$35",
		})
		require.NoError(t, err)
		assert.Equal(t, provider.ID, created.ProviderID)

		t.Run("UpdateOwn", func(t *testing.T) {
			updated, err := catalogFlow.UpdateProduct(context.Background(), provider.ID, created.ID, &dto.UpdateProductRequest{
				Price: utils.ToPtr("$32"),
			})
			require.NoError(t, err)
			assert.Equal(t, "$32", updated.Price)
		})

		t.Run("UpdateForeignDenied", func(t *testing.T) {
			_, err := catalogFlow.UpdateProduct(context.Background(), otherProvider.ID, created.ID, &dto.UpdateProductRequest{
				Price: utils.ToPtr("$1"),
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsListingAccessDenied(err))
		})

		t.Run("ListScopedToProvider", func(t *testing.T) {
			mine, err := catalogFlow.ListProviderProducts(context.Background(), provider.ID)
			require.NoError(t, err)
			assert.Len(t, mine, 1)

			theirs, err := catalogFlow.ListProviderProducts(context.Background(), otherProvider.ID)
			require.NoError(t, err)
			assert.Empty(t, theirs)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestPublicListings(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		catalogFlow := newCatalogFlow(testDB)

		provider, err := fixtures.CreateTestProvider("85301")
		require.NoError(t, err)

		activeService, err := fixtures.CreateTestService(provider.ID, "Weekly Yard Mowing", "Mowing and edging")
		require.NoError(t, err)
		inactiveService, err := fixtures.CreateTestService(provider.ID, "Retired Offering", "No longer available")
		require.NoError(t, err)
		err = testDB.DB.Model(&models.Service{}).Where("id = ?", inactiveService.ID).Update("is_active", false).Error
		require.NoError(t, err)

		_, err = fixtures.CreateTestProduct(provider.ID, "Organic Lawn Fertilizer 20lb")
		require.NoError(t, err)

		result, err := catalogFlow.PublicListings(context.Background(), 0)
		require.NoError(t, err)
		require.Len(t, result.Services, 1)
		assert.Equal(t, activeService.ID, result.Services[0].ID)
		assert.Len(t, result.Products, 1)

		return nil
	})
	require.NoError(t, err)
}

func TestPublicProviderPages(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		catalogFlow := newCatalogFlow(testDB)

		provider, err := fixtures.CreateTestProvider("85301")
		require.NoError(t, err)
		hiddenProvider, err := fixtures.CreateTestProvider("85302")
		require.NoError(t, err)
		err = testDB.DB.Model(&models.Provider{}).Where("id = ?", hiddenProvider.ID).Update("is_active", false).Error
		require.NoError(t, err)

		activeService, err := fixtures.CreateTestService(provider.ID, "Weekly Yard Mowing", "Mowing and edging")
		require.NoError(t, err)
		inactiveService, err := fixtures.CreateTestService(provider.ID, "Retired Offering", "No longer available")
		require.NoError(t, err)
		err = testDB.DB.Model(&models.Service{}).Where("id = ?", inactiveService.ID).Update("is_active", false).Error
		require.NoError(t, err)
		_, err = fixtures.CreateTestProduct(provider.ID, "Organic Lawn Fertilizer 20lb")
		require.NoError(t, err)

		t.Run("DirectoryListsActiveProvidersOnly", func(t *testing.T) {
			result, err := catalogFlow.ProviderDirectory(context.Background())
			require.NoError(t, err)

			require.Len(t, result.Providers, 1)
			assert.Equal(t, provider.ID, result.Providers[0].ID)
			assert.Equal(t, 1, result.Total)
		})

		t.Run("ProfileShowsActiveListings", func(t *testing.T) {
			result, err := catalogFlow.ProviderProfile(context.Background(), provider.ID)
			require.NoError(t, err)

			assert.Equal(t, provider.BusinessName, result.Provider.BusinessName)
			require.Len(t, result.Services, 1)
			assert.Equal(t, activeService.ID, result.Services[0].ID)
			assert.Len(t, result.Products, 1)
		})

		t.Run("DeactivatedProviderIsHidden", func(t *testing.T) {
			_, err := catalogFlow.ProviderProfile(context.Background(), hiddenProvider.ID)
			require.Error(t, err)
			assert.True(t, businessflow.IsProviderNotFound(err))
		})

		t.Run("UnknownProvider", func(t *testing.T) {
			_, err := catalogFlow.ProviderProfile(context.Background(), 999999)
			require.Error(t, err)
			assert.True(t, businessflow.IsProviderNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}
