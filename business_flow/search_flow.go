// Package businessflow contains the core business logic and use cases for the marketplace
package businessflow

import (
	"context"
	"regexp"
	"strings"

	"github.com/localyard/localyard/app/dto"
	"github.com/localyard/localyard/models"
	"github.com/localyard/localyard/repository"
)

// Search engine modes. Full-text requires Postgres text search; the probe
// runs once at construction and the mode never changes afterwards.
const (
	SearchModeFullText  = "fulltext"
	SearchModeSubstring = "substring"
)

// DefaultSearchLimit caps results when the request does not set a limit.
const DefaultSearchLimit = 25

// synonymGroups expands common household-service terms so "lawn care" also
// finds yard and mowing listings. Keys and values are lowercase tokens.
var synonymGroups = map[string][]string{
	"lawn":   {"yard", "mow", "mowing", "landscape", "landscaping"},
	"clean":  {"cleaning", "housekeeping", "maid"},
	"repair": {"fix", "handyman"},
}

var tokenPattern = regexp.MustCompile(`\w+`)

// SearchFlow runs lexical search over active service listings.
type SearchFlow interface {
	Search(ctx context.Context, request *dto.SearchRequest) (*dto.SearchResponse, error)
	// Mode reports which search path is in effect
	Mode() string
}

// SearchFlowImpl implements the search business flow
type SearchFlowImpl struct {
	serviceRepo  repository.ServiceRepository
	defaultLimit int
	fullText     bool
}

// NewSearchFlow creates a new search flow instance. The full-text capability
// is probed once here; a database without text search support degrades every
// query to the substring scan. A non-positive defaultLimit falls back to
// DefaultSearchLimit.
func NewSearchFlow(ctx context.Context, serviceRepo repository.ServiceRepository, defaultLimit int) SearchFlow {
	if defaultLimit <= 0 {
		defaultLimit = DefaultSearchLimit
	}
	return &SearchFlowImpl{
		serviceRepo:  serviceRepo,
		defaultLimit: defaultLimit,
		fullText:     serviceRepo.ProbeFullText(ctx),
	}
}

func (f *SearchFlowImpl) Mode() string {
	if f.fullText {
		return SearchModeFullText
	}
	return SearchModeSubstring
}

// Search tokenizes the query, expands synonyms, and runs the active search
// path. A query with no usable tokens returns an empty result without
// touching the store.
func (f *SearchFlowImpl) Search(ctx context.Context, request *dto.SearchRequest) (*dto.SearchResponse, error) {
	response := &dto.SearchResponse{
		Query:    request.Query,
		Mode:     f.Mode(),
		Services: []dto.ServiceDTO{},
	}

	tokens := expandTokens(tokenize(request.Query))
	if len(tokens) == 0 {
		return response, nil
	}

	limit := request.Limit
	if limit <= 0 {
		limit = f.defaultLimit
	}

	searchesTotal.WithLabelValues(response.Mode).Inc()

	var results []*models.Service
	var err error
	if f.fullText {
		results, err = f.serviceRepo.SearchFullText(ctx, buildTsQuery(tokens))
	} else {
		results, err = f.serviceRepo.SearchSubstring(ctx, tokens)
	}
	if err != nil {
		return nil, NewBusinessError("SEARCH_FAILED", "Search query failed", err)
	}

	for _, service := range results {
		if len(response.Services) >= limit {
			break
		}
		response.Services = append(response.Services, ToServiceDTO(*service))
	}

	return response, nil
}

// tokenize lowercases the query and extracts word tokens.
func tokenize(query string) []string {
	return tokenPattern.FindAllString(strings.ToLower(query), -1)
}

// expandTokens appends synonyms after each token that has a synonym group,
// preserving order and dropping duplicates.
func expandTokens(tokens []string) []string {
	expanded := make([]string, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))

	appendToken := func(token string) {
		if _, dup := seen[token]; dup {
			return
		}
		seen[token] = struct{}{}
		expanded = append(expanded, token)
	}

	for _, token := range tokens {
		appendToken(token)
		for _, synonym := range synonymGroups[token] {
			appendToken(synonym)
		}
	}

	return expanded
}

// buildTsQuery joins tokens into an OR of prefix terms: "lawn:* | yard:*".
func buildTsQuery(tokens []string) string {
	terms := make([]string, len(tokens))
	for i, token := range tokens {
		terms[i] = token + ":*"
	}
	return strings.Join(terms, " | ")
}
