// Copyright (c) 2026 Mogger. All rights reserved.

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/amandag/mogger/internal/platform/apperr"
	"github.com/amandag/mogger/internal/platform/constants"
	"github.com/amandag/mogger/internal/platform/ctxkey"
	"github.com/amandag/mogger/internal/platform/respond"
	"github.com/amandag/mogger/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the `auth` service
// implementation, allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// SessionResolver resolves a browser session token to a user ID.
//
// Sessions complement JWTs: browsers carry a session cookie, API clients
// send a Bearer token. Both funnel into the same [*sec.AuthClaims].
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (string, error)
}

// Authenticate identifies the caller from either credential source.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header, verify via [TokenVerifier].
//  2. Otherwise check for the session cookie, resolve via [SessionResolver].
//  3. If neither is present, the request proceeds as anonymous.
//  4. Inject [*sec.AuthClaims] into the request context for downstream use.
//
// A malformed or expired credential aborts the request with 401 rather than
// downgrading to anonymous, so that clients notice a dead session.
func Authenticate(verifier TokenVerifier, sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")

			// ── 1. Bearer Token Path ──────────────────────────────────────────
			if authHeader != "" {
				parts := strings.Split(authHeader, " ")
				if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
					respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
					return
				}

				claims, err := verifier.VerifyToken(parts[1])
				if err != nil {
					respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
					return
				}

				ctx := context.WithValue(request.Context(), ctxkey.KeyUser, claims)
				next.ServeHTTP(writer, request.WithContext(ctx))
				return
			}

			// ── 2. Session Cookie Path ────────────────────────────────────────
			cookie, err := request.Cookie(constants.SessionCookieName)
			if err != nil || cookie.Value == "" {
				// ── 3. Anonymous Access ───────────────────────────────────────
				next.ServeHTTP(writer, request)
				return
			}

			userID, err := sessions.ResolveSession(request.Context(), cookie.Value)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired session"))
				return
			}

			claims := &sec.AuthClaims{UserID: userID}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := context.WithValue(request.Context(), ctxkey.KeyUser, claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
//
// # Flow
//  1. Check if [*sec.AuthClaims] exists in context.
//  2. If missing, abort with HTTP 401 Unauthorized.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims := GetUser(request.Context())
		if claims == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// GetUser retrieves the [*sec.AuthClaims] from the [context.Context].
//
// # Returns
//   - A pointer to [*sec.AuthClaims] if the user is authenticated.
//   - nil if the user is anonymous.
func GetUser(ctx context.Context) *sec.AuthClaims {
	claims, ok := ctx.Value(ctxkey.KeyUser).(*sec.AuthClaims)
	if !ok {
		return nil
	}
	return claims
}
