// Copyright (c) 2026 Mogger. All rights reserved.

/*
Package comment provides the HTTP interface for threaded discussions.

# Routing Strategy

  - Public: Tree and context reads (GET), guest submission when enabled.
  - Authenticated: Editing, hiding, restoring, and purging, all gated
    through the permission checker inside the service.

The handler translates between the REST layer and the [Service] domain.
*/
package comment

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/amandag/mogger/internal/platform/apperr"
	requestutil "github.com/amandag/mogger/internal/platform/request"
	"github.com/amandag/mogger/internal/platform/respond"
)

// # Handler Implementation

// Handler implements the HTTP layer for comment operations.
type Handler struct {
	service *Service
}

// NewHandler constructs a new comment [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with comment endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Reading
	router.Get("/article/{articleID}", handler.getTree)
	router.Get("/user/{userID}", handler.listByUser)
	router.Get("/{id}", handler.getComment)
	router.Get("/{id}/context", handler.getContext)
	router.Get("/{id}/render", handler.renderComment)

	// ## Writing
	router.Post("/", handler.submitComment)
	router.Post("/preview", handler.previewComment)
	router.Put("/{id}", handler.editComment)
	router.Post("/{id}/restore", handler.restoreComment)
	router.Delete("/{id}", handler.hideComment)
	router.Delete("/{id}/purge", handler.purgeComment)

	return router
}

// # Read Endpoints

/*
GET /api/v1/comments/article/{articleID}.

Description: Returns the article's discussion as a forest of reply trees,
pruned to what the requesting user may view.

Response:
  - 200: []Node: Reply trees in submission order
*/
func (handler *Handler) getTree(writer http.ResponseWriter, request *http.Request) {
	articleID, err := requestutil.IntParam(request, "articleID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	forest, err := handler.service.GetTree(request.Context(), requestutil.Actor(request), articleID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, forest)
}

/*
GET /api/v1/comments/{id}.

Response:
  - 200: Comment: The comment without its replies
  - 404: ErrNotFound: Missing or hidden from this user
*/
func (handler *Handler) getComment(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.service.GetSingle(request.Context(), requestutil.Actor(request), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entry)
}

/*
GET /api/v1/comments/{id}/context?depth=N.

Description: Ascends N ancestor levels from the comment and returns the
subtree below the ancestor the walk ends on. Depth defaults to 0, which is
the comment's own subtree.

Response:
  - 200: Node: The contextual subtree
  - 404: ErrNotFound: Missing comment or broken ancestor chain
*/
func (handler *Handler) getContext(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	depth := 0
	if raw := request.URL.Query().Get("depth"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respond.Error(writer, request, apperr.ValidationError("Depth must be a non-negative integer"))
			return
		}
		depth = parsed
	}

	node, err := handler.service.GetContext(request.Context(), requestutil.Actor(request), id, depth)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, node)
}

/*
GET /api/v1/comments/user/{userID}.

Response:
  - 200: []Comment: The author's comments viewable by the requester
*/
func (handler *Handler) listByUser(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.Param(request, "userID")

	comments, err := handler.service.ListByUser(request.Context(), requestutil.Actor(request), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comments)
}

/*
GET /api/v1/comments/{id}/render.

Description: Returns the comment's content as sanitized HTML for template
consumers.

Response:
  - 200: text/html markup
  - 404: ErrNotFound: Missing or hidden from this user
*/
func (handler *Handler) renderComment(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.service.GetSingle(request.Context(), requestutil.Actor(request), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.HTML(writer, http.StatusOK, handler.service.RenderHTML(entry.Content))
}

// # Write Endpoints

/*
POST /api/v1/comments.

Request (Body):
  - article: int64
  - parent: int64 (optional)
  - name: string (required for guest submissions)
  - content: string

Response:
  - 201: Comment: The stored comment
  - 401: ErrUnauthorized: Guest comments disabled
  - 422: ErrUnprocessable: Parent missing or on another article
*/
func (handler *Handler) submitComment(writer http.ResponseWriter, request *http.Request) {
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
POST /api/v1/comments/preview.

Description: Renders submitted markdown to sanitized HTML without storing
anything, used for live comment previews.

Response:
  - 200: text/html markup
*/
func (handler *Handler) previewComment(writer http.ResponseWriter, request *http.Request) {
	var input struct {
		Content string `json:"content"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.HTML(writer, http.StatusOK, handler.service.RenderHTML(input.Content))
}

/*
PUT /api/v1/comments/{id}.

Request (Body):
  - name: string (optional guest display name)
  - content: string
  - visible: bool

Response:
  - 200: Comment: The updated comment
  - 403: ErrForbidden: Permission gate refused
*/
func (handler *Handler) editComment(writer http.ResponseWriter, request *http.Request) {
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
DELETE /api/v1/comments/{id}.

Description: Soft delete. The comment is hidden but its row and replies
survive.

Response:
  - 204: Hidden
  - 403: ErrForbidden: Permission gate refused
*/
func (handler *Handler) hideComment(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Hide(request.Context(), requestutil.Actor(request), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
POST /api/v1/comments/{id}/restore.

Response:
  - 204: Visible again
  - 403: ErrForbidden: Permission gate refused
*/
func (handler *Handler) restoreComment(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Restore(request.Context(), requestutil.Actor(request), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
DELETE /api/v1/comments/{id}/purge.

Description: Permanent removal. Refused with 409 while direct replies exist.

Response:
  - 204: Purged
  - 403: ErrForbidden: Permission gate refused
  - 409: HasChildren: Direct replies still present
*/
func (handler *Handler) purgeComment(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Purge(request.Context(), requestutil.Actor(request), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
