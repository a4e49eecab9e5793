// Copyright (c) 2026 Mogger. All rights reserved.

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/amandag/mogger/internal/perm"
	"github.com/amandag/mogger/internal/platform/apperr"
	"github.com/amandag/mogger/internal/platform/ctxutil"
	"github.com/amandag/mogger/internal/platform/sec"
	"github.com/amandag/mogger/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
IntParam retrieves a named URL parameter and parses it as int64.

Returns:
  - int64: Parsed value
  - error: apperr.ValidationError if the parameter is not numeric
*/
func IntParam(request *http.Request, name string) (int64, error) {
	raw := chi.URLParam(request, name)
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.ValidationError("Invalid numeric id: " + raw)
	}
	return value, nil
}

/*
Claims extracts the authenticated user claims from the request context.

Returns nil if the request is not authenticated.
*/
func Claims(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetAuthUser(request.Context())
}

/*
Actor converts the request's auth claims into a [*perm.Actor].

Returns nil for anonymous requests — the permission checker treats a nil
actor as "no permission, without consulting the store".
*/
func Actor(request *http.Request) *perm.Actor {
	claims := ctxutil.GetAuthUser(request.Context())
	if claims == nil {
		return nil
	}
	return &perm.Actor{User: claims.UserID}
}

/*
RequiredActor ensures the request is authenticated and returns the actor.

Returns:
  - *perm.Actor: The authenticated actor
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredActor(request *http.Request) (*perm.Actor, error) {
	actor := Actor(request)
	if actor == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return actor, nil
}

/*
RequiredUserID returns the User ID of the currently logged-in user.

Returns:
  - string: Username
  - error: apperr.Unauthorized if not authenticated
*/
func RequiredUserID(request *http.Request) (string, error) {
	actor, err := RequiredActor(request)
	if err != nil {
		return "", err
	}
	return actor.User, nil
}
