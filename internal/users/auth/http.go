// Copyright (c) 2026 Mogger. All rights reserved.

package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/amandag/mogger/internal/platform/constants"
	"github.com/amandag/mogger/internal/platform/middleware"
	requestutil "github.com/amandag/mogger/internal/platform/request"
	"github.com/amandag/mogger/internal/platform/respond"
	"github.com/amandag/mogger/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages the user lifecycle entry points (signup, login,
// logout, initial setup). Profile management lives in the account package.
type Handler struct {
	authService   *Service
	secureCookies bool
	logger        *slog.Logger
}

// NewHandler constructs a new [Handler] with its service dependency.
// secureCookies should be false only in local development over plain HTTP.
func NewHandler(service *Service, secureCookies bool, logger *slog.Logger) *Handler {
	return &Handler{authService: service, secureCookies: secureCookies, logger: logger}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /signup : Creates a new account.
//   - POST /login  : Authenticates and establishes a session.
//   - POST /logout : Terminates the current session.
//   - POST /setup  : Bootstraps the first administrator account.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/signup", handler.signup)
	router.Post("/login", handler.login)
	router.Post("/logout", handler.logout)
	router.Post("/setup", handler.setup)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout-all", handler.logoutAll)
	})

	return router
}

// # Request Payloads

type signupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Email    string `json:"email"`

	// Phone is a honeypot. The field is invisible to humans, so any value
	// marks the submission as automated spam.
	Phone string `json:"phone"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

/*
Signup handles the creation of a new user account.

POST /api/v1/auth/signup

Description: Validates input, silently swallows honeypot submissions, and
persists a new member account.

Request:
  - Body: signupRequest (Username, Password, Name, Email, Phone)

Response:
  - 201: User: Created user profile
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 403: ErrForbidden: Signups are disabled
  - 409: ErrConflict: Username already exists
*/
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	var input signupRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	// Honeypot tripped: claim success without creating anything, so the
	// bot has no signal to adapt to.
	if input.Phone != "" {
		handler.logger.Info("signup_honeypot_tripped", slog.String("username", input.Username))
		respond.Created(writer, map[string]string{FieldMessage: "Account created"})
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		Username(FieldUsername, input.Username).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 8).
		Required(FieldName, input.Name)

	if input.Email != "" {
		validator.Email(FieldEmail, input.Email)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Username: input.Username,
		Password: input.Password,
		Name:     input.Name,
		Email:    input.Email,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
Login authenticates a user and establishes a session.

POST /api/v1/auth/login

Description: Verifies credentials, injects a session cookie for browser
clients, and returns a JWT access token for API clients.

Request:
  - Body: loginRequest (Username, Password)

Response:
  - 200: Session: Access token and user profile
  - 401: ErrUnauthorized: Invalid credentials
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Username: input.Username,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    session.Session.ID,
		Path:     constants.SessionCookiePath,
		Expires:  session.Session.Expires,
		Secure:   handler.secureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	respond.OK(writer, map[string]any{
		"access_token": session.AccessToken,
		"user":         session.User,
	})
}

/*
Logout terminates the current browser session.

POST /api/v1/auth/logout

Description: Invalidates the session token (if present) and clears the
cookie from the client. Always succeeds.

Response:
  - 204: No Content: Session terminated
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	cookie, err := request.Cookie(constants.SessionCookieName)

	if err == nil && cookie != nil && cookie.Value != "" {
		_ = handler.authService.Logout(request.Context(), cookie.Value)
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     constants.SessionCookiePath,
		MaxAge:   -1,
		Secure:   handler.secureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	respond.NoContent(writer)
}

/*
LogoutAll revokes every active session of the authenticated user.

POST /api/v1/auth/logout-all

Description: Forces re-login on all devices, including the current one.

Response:
  - 204: No Content: All sessions revoked
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) logoutAll(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.LogoutAll(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     constants.SessionCookiePath,
		MaxAge:   -1,
		Secure:   handler.secureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	respond.NoContent(writer)
}

/*
Setup bootstraps the first administrator account.

POST /api/v1/auth/setup

Description: Only available while no accounts exist. Creates an
admin-group user so a fresh deployment can be configured.

Request:
  - Body: signupRequest (Username, Password, Name, Email)

Response:
  - 201: User: Created administrator
  - 403: ErrForbidden: Setup already completed
*/
func (handler *Handler) setup(writer http.ResponseWriter, request *http.Request) {
	var input signupRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		Username(FieldUsername, input.Username).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 8).
		Required(FieldName, input.Name)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.InitialSetup(request.Context(), RegisterInput{
		Username: input.Username,
		Password: input.Password,
		Name:     input.Name,
		Email:    input.Email,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}
