// Copyright (c) 2026 Mogger. All rights reserved.

/*
Package article provides the HTTP interface for blog content.

# Routing Strategy

  - Public: Listing, detail, and rendered views (GET).
  - Authenticated: Publishing and editing, gated through the permission
    checker inside the service.

The handler translates between the REST layer and the [Service] domain.
*/
package article

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/amandag/mogger/internal/platform/request"
	"github.com/amandag/mogger/internal/platform/respond"
	"github.com/amandag/mogger/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for article operations.
type Handler struct {
	service *Service
}

// NewHandler constructs a new article [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with article endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Reading
	router.Get("/", handler.listArticles)
	router.Get("/{identifier}", handler.getArticle)
	router.Get("/{identifier}/render", handler.renderArticle)
	router.Get("/{identifier}/preview", handler.previewArticle)

	// ## Publishing
	router.Post("/", handler.submitArticle)
	router.Put("/{id}", handler.editArticle)
	router.Delete("/{id}", handler.deleteArticle)

	return router
}

// # Read Endpoints

/*
GET /api/v1/articles.

Description: Paginated article listing, newest first. Drafts appear only
for users who could edit them.

Request:
  - limit: int
  - page: int

Response:
  - 200: []Article: Paginated list
*/
func (handler *Handler) listArticles(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	articles, total, err := handler.service.List(
		request.Context(), requestutil.Actor(request),
		paginationParams.Limit, paginationParams.Offset(),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, articles, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
GET /api/v1/articles/{identifier}.

Description: Retrieves an article by numeric id or URL slug, together with
its comment count.

Response:
  - 200: Detail: Article plus comment count
  - 404: ErrNotFound: Missing or draft hidden from this user
*/
func (handler *Handler) getArticle(writer http.ResponseWriter, request *http.Request) {
	identifier := requestutil.Param(request, "identifier")

	detail, err := handler.service.Get(request.Context(), requestutil.Actor(request), identifier)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, detail)
}

/*
GET /api/v1/articles/{identifier}/render.

Description: Returns the full article body rendered to HTML.

Response:
  - 200: text/html markup
  - 404: ErrNotFound: Missing or draft hidden from this user
*/
func (handler *Handler) renderArticle(writer http.ResponseWriter, request *http.Request) {
	identifier := requestutil.Param(request, "identifier")

	detail, err := handler.service.Get(request.Context(), requestutil.Actor(request), identifier)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.HTML(writer, http.StatusOK, detail.HTML())
}

/*
GET /api/v1/articles/{identifier}/preview.

Description: Returns the truncated rendered body used in list views.

Response:
  - 200: text/html markup
  - 404: ErrNotFound: Missing or draft hidden from this user
*/
func (handler *Handler) previewArticle(writer http.ResponseWriter, request *http.Request) {
	identifier := requestutil.Param(request, "identifier")

	detail, err := handler.service.Get(request.Context(), requestutil.Actor(request), identifier)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.HTML(writer, http.StatusOK, detail.Preview())
}

// # Publishing Endpoints

/*
POST /api/v1/articles.

Request (Body):
  - title: string
  - url: string (optional, derived from title when empty)
  - content: string
  - visible: bool (false stores a draft)

Response:
  - 201: Article: The stored article
  - 403: ErrForbidden: Missing create-article permission
*/
func (handler *Handler) submitArticle(writer http.ResponseWriter, request *http.Request) {
	var input SubmitInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.service.Submit(request.Context(), requestutil.Actor(request), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entry)
}

/*
PUT /api/v1/articles/{id}.

Response:
  - 200: Article: The updated article
  - 403: ErrForbidden: Permission gate refused
*/
func (handler *Handler) editArticle(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var changes Changes
	if err := requestutil.DecodeJSON(request, &changes); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.service.Edit(request.Context(), requestutil.Actor(request), id, changes)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entry)
}

/*
DELETE /api/v1/articles/{id}.

Response:
  - 204: Deleted
  - 403: ErrForbidden: Permission gate refused
  - 409: ErrConflict: Comments still reference the article
*/
func (handler *Handler) deleteArticle(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), requestutil.Actor(request), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
