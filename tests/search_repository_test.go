package tests

import (
	"context"
	"testing"

	"github.com/localyard/localyard/app/dto"
	businessflow "github.com/localyard/localyard/business_flow"
	"github.com/localyard/localyard/models"
	"github.com/localyard/localyard/repository"
	testingutil "github.com/localyard/localyard/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceSearchQueries(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		serviceRepo := repository.NewServiceRepository(testDB.DB)

		provider, err := fixtures.CreateTestProvider("85301")
		require.NoError(t, err)

		mowing, err := fixtures.CreateTestService(provider.ID, "Weekly Lawn Mowing", "Lawn mowing, edging and blowing for standard lots")
		require.NoError(t, err)
		gutters, err := fixtures.CreateTestService(provider.ID, "Gutter Cleaning", "Cleaning and flushing of residential gutters")
		require.NoError(t, err)
		aeration, err := fixtures.CreateTestService(provider.ID, "Lawn Aeration", "Core aeration for compacted soil")
		require.NoError(t, err)
		err = testDB.DB.Model(&models.Service{}).Where("id = ?", aeration.ID).Update("is_active", false).Error
		require.NoError(t, err)

		t.Run("ProbeFullText", func(t *testing.T) {
			assert.True(t, serviceRepo.ProbeFullText(context.Background()))
		})

		t.Run("FullTextMatchesActiveOnly", func(t *testing.T) {
			results, err := serviceRepo.SearchFullText(context.Background(), "lawn:*")
			require.NoError(t, err)

			require.Len(t, results, 1)
			assert.Equal(t, mowing.ID, results[0].ID)
		})

		t.Run("FullTextOrExpression", func(t *testing.T) {
			results, err := serviceRepo.SearchFullText(context.Background(), "lawn:* | gutter:*")
			require.NoError(t, err)

			require.Len(t, results, 2)
			ids := []uint{results[0].ID, results[1].ID}
			assert.Contains(t, ids, mowing.ID)
			assert.Contains(t, ids, gutters.ID)
		})

		t.Run("FullTextRanksDenserMatchFirst", func(t *testing.T) {
			// The mowing listing matches two of the three terms, the gutter
			// one only matches "cleaning", so ts_rank puts mowing first.
			results, err := serviceRepo.SearchFullText(context.Background(), "lawn:* | mowing:* | cleaning:*")
			require.NoError(t, err)

			require.Len(t, results, 2)
			assert.Equal(t, mowing.ID, results[0].ID)
		})

		t.Run("SubstringMatchesActiveOnly", func(t *testing.T) {
			results, err := serviceRepo.SearchSubstring(context.Background(), []string{"lawn"})
			require.NoError(t, err)

			require.Len(t, results, 1)
			assert.Equal(t, mowing.ID, results[0].ID)
		})

		t.Run("SubstringIsCaseInsensitive", func(t *testing.T) {
			results, err := serviceRepo.SearchSubstring(context.Background(), []string{"GUTTER"})
			require.NoError(t, err)

			require.Len(t, results, 1)
			assert.Equal(t, gutters.ID, results[0].ID)
		})

		t.Run("SubstringOrdersByRecency", func(t *testing.T) {
			edging, err := fixtures.CreateTestService(provider.ID, "Lawn Edging", "Crisp edges along walks and beds")
			require.NoError(t, err)

			results, err := serviceRepo.SearchSubstring(context.Background(), []string{"lawn"})
			require.NoError(t, err)

			require.Len(t, results, 2)
			assert.Equal(t, edging.ID, results[0].ID)
			assert.Equal(t, mowing.ID, results[1].ID)
		})

		t.Run("SubstringWithNoTokens", func(t *testing.T) {
			results, err := serviceRepo.SearchSubstring(context.Background(), nil)
			require.NoError(t, err)
			assert.Empty(t, results)
		})

		t.Run("FlowUsesFullTextAgainstRealDatabase", func(t *testing.T) {
			searchFlow := businessflow.NewSearchFlow(context.Background(), serviceRepo, 0)
			assert.Equal(t, "fulltext", searchFlow.Mode())

			result, err := searchFlow.Search(context.Background(), &dto.SearchRequest{Query: "lawn care"})
			require.NoError(t, err)

			require.NotEmpty(t, result.Services)
			titles := make([]string, 0, len(result.Services))
			for _, svc := range result.Services {
				titles = append(titles, svc.Title)
			}
			assert.Contains(t, titles, "Weekly Lawn Mowing")
			assert.NotContains(t, titles, "Lawn Aeration")
		})

		return nil
	})
	require.NoError(t, err)
}
