package api

import (
	"github.com/starford/stave/internal/docservice"
	"github.com/starford/stave/internal/index"
	"github.com/starford/stave/internal/validate"
)

// CreateDocumentRequest is the request body for creating a document.
type CreateDocumentRequest struct {
	Path    string `json:"path" example:"albums/track01.jams" validate:"required"`
	Content string `json:"content" example:"{\"file_metadata\":{...}}" validate:"required"`
}

// UpdateDocumentRequest is the request body for updating a document.
type UpdateDocumentRequest struct {
	Content string `json:"content" validate:"required"`
}

// DocumentDetail is the full document response type (aliased from the domain layer).
type DocumentDetail = docservice.DocumentDetail

// DocumentListItem is a lightweight item in a list response (aliased from the domain layer).
type DocumentListItem = docservice.DocumentListItem

// DocumentListResponse wraps paginated document listings.
type DocumentListResponse struct {
	Documents []DocumentListItem `json:"documents" validate:"required"`
	Total     int                `json:"total" example:"42" validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []index.SearchResult `json:"results" validate:"required"`
}

// NamespacesResponse lists registered namespaces with index statistics.
type NamespacesResponse struct {
	Registered []string              `json:"registered" validate:"required"`
	Stats      []index.NamespaceStat `json:"stats" validate:"required"`
}

// ValidateResponse wraps validation problems for an uploaded payload.
type ValidateResponse struct {
	Valid    bool            `json:"valid" validate:"required"`
	Problems validate.Result `json:"problems" validate:"required"`
}

// MediaUploadResponse is returned after a successful media upload.
type MediaUploadResponse struct {
	Filename string `json:"filename" example:"track01.wav" validate:"required"`
	Size     int64  `json:"size" example:"12345" validate:"required"`
	URL      string `json:"url" example:"/media/track01.wav" validate:"required"`
}
