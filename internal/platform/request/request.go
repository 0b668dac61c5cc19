// Copyright (c) 2026 Mindfolio. All rights reserved.

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mindfolio/mindfolio-server/internal/platform/apperr"
	"github.com/mindfolio/mindfolio-server/internal/platform/constants"
	"github.com/mindfolio/mindfolio-server/internal/platform/ctxutil"
	"github.com/mindfolio/mindfolio-server/internal/platform/sec"
	"github.com/mindfolio/mindfolio-server/internal/platform/validate"
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
Claims extracts the authenticated user claims from the request context.

Returns nil if the request is not authenticated.
*/
func Claims(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetAuthUser(request.Context())
}

/*
RequiredUserID returns the User ID of the currently logged-in user.

Every library handler calls this before touching a repository — it is the
source of the ownership scope that every query is bound to.

Returns:
  - string: User ID
  - error: apperr.Unauthorized if not authenticated
*/
func RequiredUserID(request *http.Request) (string, error) {
	claims := ctxutil.GetAuthUser(request.Context())
	if claims == nil {
		return "", apperr.Unauthorized("Authentication required")
	}
	return claims.UserID, nil
}

/*
WantsFragment reports whether the caller asked for a reusable list fragment
instead of the full page payload. The marker is an opaque header set by the
HTMX frontend; its only effect is which envelope the list views return.
*/
func WantsFragment(request *http.Request) bool {
	return request.Header.Get(constants.HeaderRequestFlavor) != ""
}
