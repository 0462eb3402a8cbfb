// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/openreuse/donatehub/internal/app/system/auth"
	"github.com/openreuse/donatehub/internal/domain/models"
)

// UserCtx returns the current user's role, name, id, and a found flag.
// If no user is present in context it returns the zero role, "", 0,
// false, so callers can trust that ok=true means an authenticated user.
func UserCtx(r *http.Request) (role models.Role, name string, userID int, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "", "", 0, false
	}
	return user.Role, user.Name, user.ID, true
}

// IsDonor reports whether the current request's user is a donor.
func IsDonor(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleDonor
}

// Decision is the result of a capability check, with a reason suitable
// for a response body when denied.
type Decision struct {
	Allowed bool
	Reason  string
}

// Allow checks whether u may act under the required role. The check is
// independent of any URL structure; route middleware and handlers both
// call it. Unverified NGOs are denied even for the ngo role.
func Allow(u *models.User, required models.Role) Decision {
	if u == nil {
		return Decision{Reason: "not signed in"}
	}
	if u.Role != required {
		return Decision{Reason: "requires " + string(required) + " role"}
	}
	if u.Role == models.RoleNgo && !u.Verified {
		return Decision{Reason: "ngo account is not verified"}
	}
	return Decision{Allowed: true}
}

// RequireRole gates a route on Allow: the signed-in user must be
// allowed under one of the given roles. No user in context is 401; a
// denied decision is 403 with the decision's reason. LoadSessionUser
// refreshes the session user from the store every request, so an NGO
// whose verification is revoked mid-session is denied here on its next
// request.
func RequireRole(allowed ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := auth.CurrentUser(r)
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			denied := Allow(u, allowed[0])
			for _, role := range allowed {
				d := Allow(u, role)
				if d.Allowed {
					next.ServeHTTP(w, r)
					return
				}
				if u.Role == role {
					denied = d
				}
			}
			http.Error(w, denied.Reason, http.StatusForbidden)
		})
	}
}
