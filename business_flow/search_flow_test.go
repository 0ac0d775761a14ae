// Package businessflow contains the core business logic and use cases for the marketplace
package businessflow

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/localyard/localyard/app/dto"
	"github.com/localyard/localyard/models"
	"github.com/localyard/localyard/repository"
	"github.com/localyard/localyard/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeServiceRepo struct {
	repository.ServiceRepository

	fullText bool

	fullTextResults  []*models.Service
	substringResults []*models.Service
	searchErr        error

	fullTextQueries  []string
	substringQueries [][]string
}

func (f *fakeServiceRepo) ProbeFullText(ctx context.Context) bool { return f.fullText }

func (f *fakeServiceRepo) SearchFullText(ctx context.Context, tsQuery string) ([]*models.Service, error) {
	f.fullTextQueries = append(f.fullTextQueries, tsQuery)
	return f.fullTextResults, f.searchErr
}

func (f *fakeServiceRepo) SearchSubstring(ctx context.Context, tokens []string) ([]*models.Service, error) {
	f.substringQueries = append(f.substringQueries, tokens)
	return f.substringResults, f.searchErr
}

func serviceListing(id uint, title string) *models.Service {
	return &models.Service{
		ID:       id,
		Title:    title,
		Price:    "from $49",
		IsActive: utils.ToPtr(true),
	}
}

func TestSearchFlowMode(t *testing.T) {
	t.Run("FullTextProbePasses", func(t *testing.T) {
		flow := NewSearchFlow(context.Background(), &fakeServiceRepo{fullText: true}, 0)
		assert.Equal(t, SearchModeFullText, flow.Mode())
	})

	t.Run("FullTextProbeFails", func(t *testing.T) {
		flow := NewSearchFlow(context.Background(), &fakeServiceRepo{fullText: false}, 0)
		assert.Equal(t, SearchModeSubstring, flow.Mode())
	})
}

func TestSearchEmptyQuery(t *testing.T) {
	repo := &fakeServiceRepo{fullText: true}
	flow := NewSearchFlow(context.Background(), repo, 0)

	for _, query := range []string{"", "   ", "!!!", "---"} {
		result, err := flow.Search(context.Background(), &dto.SearchRequest{Query: query})
		require.NoError(t, err)
		assert.Empty(t, result.Services, "query %q should return nothing", query)
		assert.Equal(t, query, result.Query)
	}

	// No usable tokens means the store is never touched
	assert.Empty(t, repo.fullTextQueries)
	assert.Empty(t, repo.substringQueries)
}

func TestSearchSynonymExpansion(t *testing.T) {
	repo := &fakeServiceRepo{
		fullText:        true,
		fullTextResults: []*models.Service{serviceListing(42, "Weekly Yard Mowing")},
	}
	flow := NewSearchFlow(context.Background(), repo, 0)

	result, err := flow.Search(context.Background(), &dto.SearchRequest{Query: "lawn care"})
	require.NoError(t, err)
	require.Len(t, result.Services, 1)
	assert.Equal(t, "Weekly Yard Mowing", result.Services[0].Title)

	require.Len(t, repo.fullTextQueries, 1)
	tsQuery := repo.fullTextQueries[0]
	assert.Contains(t, tsQuery, "lawn:*")
	assert.Contains(t, tsQuery, "yard:*")
	assert.Contains(t, tsQuery, "mowing:*")
	assert.Contains(t, tsQuery, "care:*")
}

func TestSearchSubstringFallback(t *testing.T) {
	repo := &fakeServiceRepo{
		fullText:         false,
		substringResults: []*models.Service{serviceListing(7, "House Cleaning")},
	}
	flow := NewSearchFlow(context.Background(), repo, 0)

	result, err := flow.Search(context.Background(), &dto.SearchRequest{Query: "clean"})
	require.NoError(t, err)
	assert.Equal(t, SearchModeSubstring, result.Mode)
	require.Len(t, result.Services, 1)

	require.Len(t, repo.substringQueries, 1)
	assert.Contains(t, repo.substringQueries[0], "clean")
	assert.Contains(t, repo.substringQueries[0], "cleaning")
	assert.Contains(t, repo.substringQueries[0], "maid")
	assert.Empty(t, repo.fullTextQueries)
}

func TestSearchLimit(t *testing.T) {
	results := make([]*models.Service, 0, 40)
	for i := 1; i <= 40; i++ {
		results = append(results, serviceListing(uint(i), fmt.Sprintf("Listing %d", i)))
	}
	repo := &fakeServiceRepo{fullText: true, fullTextResults: results}
	flow := NewSearchFlow(context.Background(), repo, 0)

	t.Run("ExplicitLimit", func(t *testing.T) {
		result, err := flow.Search(context.Background(), &dto.SearchRequest{Query: "listing", Limit: 10})
		require.NoError(t, err)
		assert.Len(t, result.Services, 10)
		assert.Equal(t, uint(1), result.Services[0].ID)
	})

	t.Run("DefaultLimit", func(t *testing.T) {
		result, err := flow.Search(context.Background(), &dto.SearchRequest{Query: "listing"})
		require.NoError(t, err)
		assert.Len(t, result.Services, DefaultSearchLimit)
	})

	t.Run("ConfiguredDefaultLimit", func(t *testing.T) {
		configured := NewSearchFlow(context.Background(), repo, 5)
		result, err := configured.Search(context.Background(), &dto.SearchRequest{Query: "listing"})
		require.NoError(t, err)
		assert.Len(t, result.Services, 5)

		// An explicit request limit still wins over the configured default
		result, err = configured.Search(context.Background(), &dto.SearchRequest{Query: "listing", Limit: 3})
		require.NoError(t, err)
		assert.Len(t, result.Services, 3)
	})
}

func TestSearchStoreFailure(t *testing.T) {
	repo := &fakeServiceRepo{fullText: true, searchErr: errors.New("relation does not exist")}
	flow := NewSearchFlow(context.Background(), repo, 0)

	result, err := flow.Search(context.Background(), &dto.SearchRequest{Query: "lawn"})
	require.Error(t, err)
	assert.Nil(t, result)

	var businessErr *BusinessError
	require.ErrorAs(t, err, &businessErr)
	assert.Equal(t, "SEARCH_FAILED", businessErr.Code)
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"lawn", "care"}, tokenize("Lawn Care"))
	assert.Equal(t, []string{"gutter", "cleaning", "2024"}, tokenize("gutter-cleaning 2024!"))
	assert.Empty(t, tokenize("  ...  "))
}

func TestExpandTokensDropsDuplicates(t *testing.T) {
	// "mowing" is both a query token and a synonym of "lawn"
	expanded := expandTokens([]string{"lawn", "mowing"})
	counts := make(map[string]int, len(expanded))
	for _, token := range expanded {
		counts[token]++
	}
	assert.Equal(t, 1, counts["mowing"])
	assert.Equal(t, 1, counts["lawn"])
	assert.Contains(t, expanded, "yard")
}

func TestBuildTsQuery(t *testing.T) {
	assert.Equal(t, "lawn:* | yard:*", buildTsQuery([]string{"lawn", "yard"}))
	assert.Equal(t, "clean:*", buildTsQuery([]string{"clean"}))
}
