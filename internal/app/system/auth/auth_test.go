package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/openreuse/donatehub/internal/app/system/auth"
	"github.com/openreuse/donatehub/internal/domain/models"
)

const sessionKey = "0123456789abcdef0123456789abcdef"

type fakeFetcher struct {
	users map[int]*models.User
}

func (f *fakeFetcher) Get(_ context.Context, id int) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	return u, nil
}

func newManager(t *testing.T, users map[int]*models.User) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(sessionKey, "", false, &fakeFetcher{users: users}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	return sm
}

// signIn runs SignIn through a recorder and returns the session cookies.
func signIn(t *testing.T, sm *auth.SessionManager, u *models.User) []*http.Cookie {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	if err := sm.SignIn(rr, req, u); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	return rr.Result().Cookies()
}

func whoAmI(sm *auth.SessionManager) (http.Handler, *struct {
	user  *models.User
	found bool
}) {
	state := &struct {
		user  *models.User
		found bool
	}{}
	h := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state.user, state.found = auth.CurrentUser(r)
	}))
	return h, state
}

func TestNewSessionManagerRequiresKey(t *testing.T) {
	_, err := auth.NewSessionManager("", "", false, &fakeFetcher{}, zap.NewNop())
	if err == nil {
		t.Fatal("expected error for empty session key")
	}
}

func TestSignInRoundTrip(t *testing.T) {
	donor := &models.User{ID: 2, Name: "Donor User", Role: models.RoleDonor}
	sm := newManager(t, map[int]*models.User{2: donor})

	cookies := signIn(t, sm, donor)
	if len(cookies) == 0 {
		t.Fatal("no session cookie written")
	}

	h, state := whoAmI(sm)
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	h.ServeHTTP(httptest.NewRecorder(), req)

	if !state.found {
		t.Fatal("user not loaded from session")
	}
	if state.user.ID != 2 || state.user.Role != models.RoleDonor {
		t.Errorf("user = %+v", state.user)
	}
}

func TestSessionRefreshesUserEachRequest(t *testing.T) {
	ngo := &models.User{ID: 3, Name: "Helpers", Role: models.RoleNgo, Verified: true}
	fetcherUsers := map[int]*models.User{3: ngo}
	sm := newManager(t, fetcherUsers)
	cookies := signIn(t, sm, ngo)

	// The account changes after sign-in; the next request must see it.
	fetcherUsers[3] = &models.User{ID: 3, Name: "Helpers", Role: models.RoleNgo, Verified: false}

	h, state := whoAmI(sm)
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	h.ServeHTTP(httptest.NewRecorder(), req)

	if !state.found {
		t.Fatal("user not loaded")
	}
	if state.user.Verified {
		t.Error("stale verified flag served from session")
	}
}

func TestDeletedUserTreatedAsSignedOut(t *testing.T) {
	donor := &models.User{ID: 2, Role: models.RoleDonor}
	fetcherUsers := map[int]*models.User{2: donor}
	sm := newManager(t, fetcherUsers)
	cookies := signIn(t, sm, donor)

	delete(fetcherUsers, 2)

	h, state := whoAmI(sm)
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	h.ServeHTTP(httptest.NewRecorder(), req)

	if state.found {
		t.Error("deleted user still signed in")
	}
}

func TestGarbageCookieIgnored(t *testing.T) {
	sm := newManager(t, nil)

	h, state := whoAmI(sm)
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionName, Value: "not-a-valid-session"})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if state.found {
		t.Error("garbage cookie produced a user")
	}
}

func TestSignOut(t *testing.T) {
	donor := &models.User{ID: 2, Role: models.RoleDonor}
	sm := newManager(t, map[int]*models.User{2: donor})
	signIn(t, sm, donor)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	if err := sm.SignOut(rr, req); err != nil {
		t.Fatalf("SignOut: %v", err)
	}

	found := false
	for _, c := range rr.Result().Cookies() {
		if c.Name == auth.SessionName && c.MaxAge < 0 {
			found = true
		}
	}
	if !found {
		t.Error("session cookie not expired")
	}
}

func TestRequireSignedIn(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := auth.RequireSignedIn(next)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/donations", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want 401", rr.Code)
	}

	rr = httptest.NewRecorder()
	req := auth.WithUser(httptest.NewRequest(http.MethodGet, "/donations", nil),
		&models.User{ID: 2, Role: models.RoleDonor})
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Errorf("signed-in status = %d, want 204", rr.Code)
	}
}
