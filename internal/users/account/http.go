// Copyright (c) 2026 Mogger. All rights reserved.

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/amandag/mogger/internal/platform/middleware"
	requestutil "github.com/amandag/mogger/internal/platform/request"
	"github.com/amandag/mogger/internal/platform/respond"
	"github.com/amandag/mogger/internal/platform/validate"
	"github.com/amandag/mogger/internal/users/auth"
)

// Handler implements the HTTP layer for account management.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with the account endpoints.
//
// # Endpoints
//   - GET    /{id}          : Public profile.
//   - GET    /me            : Own full profile.
//   - PATCH  /{id}          : Edit profile (own or foreign per gate).
//   - PUT    /{id}/password : Change password.
//   - DELETE /{id}          : Delete account (?purge=true removes content).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public profile discovery
	router.Get("/{id}", handler.getProfile)

	// Protected endpoints. "me" is accepted everywhere {id} is.
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.getMe)
		r.Patch("/{id}", handler.updateProfile)
		r.Put("/{id}/password", handler.changePassword)
		r.Delete("/{id}", handler.deleteAccount)
	})

	return router
}

// # Request Payloads

type updateProfileRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// targetUserID resolves the {id} parameter, treating "me" as the
// authenticated user.
func targetUserID(request *http.Request) (string, error) {
	id := requestutil.Param(request, "id")
	if id == "" || id == "me" {
		return requestutil.RequiredUserID(request)
	}
	return id, nil
}

/*
GetProfile returns the public identity of any user.

GET /api/v1/users/{id}

Response:
  - 200: Profile: Username, display name, and group
  - 404: ErrNotFound: Unknown user
*/
func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.accountService.GetProfile(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Public view only. Email stays private.
	respond.OK(writer, map[string]string{
		"id":    user.ID,
		"name":  user.Name,
		"group": user.Group,
	})
}

/*
GetMe returns the full private profile of the authenticated user.

GET /api/v1/users/me

Response:
  - 200: User: Fully hydrated profile including email
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
UpdateProfile applies partial changes to a user's profile.

PATCH /api/v1/users/{id}

Request:
  - Body: updateProfileRequest (Name, Email; absent fields untouched)

Response:
  - 200: User: Updated profile
  - 403: ErrForbidden: Gate refused the target account
*/
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := targetUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateProfileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if input.Name != nil {
		validator.Required(auth.FieldName, *input.Name)
	}
	if input.Email != nil && *input.Email != "" {
		validator.Email(auth.FieldEmail, *input.Email)
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(
		request.Context(),
		requestutil.Actor(request),
		userID,
		UpdateProfileInput{Name: input.Name, Email: input.Email},
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
ChangePassword rotates a user's password.

PUT /api/v1/users/{id}/password

Request:
  - Body: changePasswordRequest (CurrentPassword, NewPassword)

Response:
  - 200: Success: Password changed, all sessions revoked
  - 401: ErrUnauthorized: Current password incorrect
  - 403: ErrForbidden: Gate refused the target account
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	userID, err := targetUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("new_password", input.NewPassword).
		MinLen("new_password", input.NewPassword, 8)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.accountService.ChangePassword(
		request.Context(),
		requestutil.Actor(request),
		userID,
		input.CurrentPassword,
		input.NewPassword,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		auth.FieldMessage: "Password changed successfully",
	})
}

/*
DeleteAccount removes an account and detaches its comment history.

DELETE /api/v1/users/{id}?purge=true

Description: Comments stay on the site under an anonymous byline unless
purge is set, in which case their content is blanked and hidden.

Response:
  - 204: No Content: Account deleted
  - 403: ErrForbidden: Gate refused the target account
  - 404: ErrNotFound: Unknown user
*/
func (handler *Handler) deleteAccount(writer http.ResponseWriter, request *http.Request) {
	userID, err := targetUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	purge := request.URL.Query().Get("purge") == "true"

	err = handler.accountService.Delete(request.Context(), requestutil.Actor(request), userID, purge)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
