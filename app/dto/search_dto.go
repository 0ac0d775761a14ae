// Package dto contains Data Transfer Objects for API request and response structures
package dto

// SearchRequest represents a lexical search over active service listings
type SearchRequest struct {
	Query string `json:"query" validate:"max=200" example:"lawn care"`
	Limit int    `json:"limit" validate:"omitempty,min=1,max=100" example:"25"`
}

// SearchResponse carries the ranked search results
type SearchResponse struct {
	Query    string       `json:"query" example:"lawn care"`
	Mode     string       `json:"mode" example:"fulltext"` // "fulltext" or "substring"
	Services []ServiceDTO `json:"services"`
}
