package testutil

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/openreuse/donatehub/internal/app/system/auth"
	"github.com/openreuse/donatehub/internal/domain/models"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// AsUser injects a signed-in user into the request context, bypassing
// the session middleware.
func AsUser(r *http.Request, u *models.User) *http.Request {
	return auth.WithUser(r, u)
}
