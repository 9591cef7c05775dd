package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/stave/internal/docservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
// vaultRoot is used to resolve the media directory.
func NewRouter(svc *docservice.Service, authEnabled bool, token string, sseHandler http.Handler, vaultRoot string) chi.Router {
	h := NewHandler(svc)
	mh := NewMediaHandler(vaultRoot)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Documents CRUD.
	r.Get("/documents", h.ListDocuments)
	r.Post("/documents", h.CreateDocument)
	r.Get("/documents/*", h.GetDocument)
	r.Put("/documents/*", h.UpdateDocument)
	r.Delete("/documents/*", h.DeleteDocument)

	// Search.
	r.Get("/search", h.Search)

	// Namespaces.
	r.Get("/namespaces", h.Namespaces)
	r.Get("/namespaces/{id}/documents", h.NamespaceDocuments)

	// Validation of arbitrary payloads (nothing is stored).
	r.Post("/validate", h.Validate)

	// Media upload (auth-protected).
	r.Post("/media", mh.Upload)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
