package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/openreuse/donatehub/internal/domain/models"
)

const (
	SessionName = "donatehub-session"

	isAuthKey = "is_authenticated"
	userIDKey = "user_id"
)

// UserFetcher resolves a session's user id against current data. The
// user store satisfies it.
type UserFetcher interface {
	Get(ctx context.Context, id int) (*models.User, error)
}

// SessionManager owns the cookie session store and the middlewares
// built on it. Sessions hold only the user id; the record is refreshed
// from the store on every request, so verification revocations and
// deletions take effect on the next request, not the next login.
type SessionManager struct {
	store  *sessions.CookieStore
	users  UserFetcher
	logger *zap.Logger
}

// NewSessionManager builds a SessionManager. The session key must be
// set; 32+ random chars are expected.
//
// In production (secure=true) cookies are Secure + SameSite=None for
// cross-site use over HTTPS. In local dev over http://localhost use
// secure=false so the browser accepts them.
func NewSessionManager(sessionKey, domain string, secure bool, users UserFetcher, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{store: store, users: users, logger: logger}, nil
}

// GetSession returns the request's session. A cookie that fails to
// decode (rotated key, tampering) is treated as a fresh session rather
// than an error.
func (sm *SessionManager) GetSession(r *http.Request) (*sessions.Session, error) {
	sess, err := sm.store.Get(r, SessionName)
	if err != nil {
		if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
			return sess, nil
		}
		return nil, err
	}
	return sess, nil
}

// SignIn binds the session to the user and writes the cookie.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, u *models.User) error {
	sess, err := sm.GetSession(r)
	if err != nil {
		return err
	}
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = u.ID
	return sess.Save(r, w)
}

// SignOut expires the session cookie.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, err := sm.GetSession(r)
	if err != nil {
		return err
	}
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the signed-in user from the request context.
func CurrentUser(r *http.Request) (*models.User, bool) {
	u, ok := r.Context().Value(currentUserKey).(*models.User)
	return u, ok
}

// WithUser injects a user into the request context. Exported for tests.
func WithUser(r *http.Request, u *models.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// LoadSessionUser resolves the session's user id through the fetcher
// and injects the user into the request context. A session whose user
// no longer exists is ignored.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sm.GetSession(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth {
			if id, ok := sess.Values[userIDKey].(int); ok {
				u, err := sm.users.Get(r.Context(), id)
				if err == nil {
					r = WithUser(r, u)
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn is RequireSignedIn as a method, for route wiring.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return RequireSignedIn(next)
}

// RequireSignedIn ensures there is a user in context (set by
// LoadSessionUser); otherwise 401. Role and capability gating lives in
// the authz package, which builds on the user loaded here.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
