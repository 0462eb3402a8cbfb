package register_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	uierrors "github.com/openreuse/donatehub/internal/app/features/errors"
	"github.com/openreuse/donatehub/internal/app/features/register"
	auditstore "github.com/openreuse/donatehub/internal/app/store/audit"
	"github.com/openreuse/donatehub/internal/app/store/kv"
	userstore "github.com/openreuse/donatehub/internal/app/store/users"
	"github.com/openreuse/donatehub/internal/app/system/identity"
)

type nopRecorder struct{}

func (nopRecorder) RecordLogin(string)             {}
func (nopRecorder) RecordDonationSubmitted(string) {}
func (nopRecorder) RecordTransition(_, _ string)   {}

func newHandler(t *testing.T) (*register.Handler, *userstore.Store) {
	t.Helper()
	logger := zap.NewNop()
	backend := kv.NewMemoryStore()
	users := userstore.New(backend)
	trail := auditstore.New(backend, logger)
	svc := identity.New(users, trail, nopRecorder{}, logger)
	return register.NewHandler(svc, uierrors.NewErrorLogger(logger), logger), users
}

func post(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func TestRegisterDonor(t *testing.T) {
	h, _ := newHandler(t)

	rr := post(t, h.HandleRegister,
		`{"name":"Aarav","email":"aarav@example.com","password":"secret123","role":"donor"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			ID       int  `json:"id"`
			Verified bool `json:"verified"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.Data.ID == 0 || !body.Data.Verified {
		t.Errorf("body = %+v", body)
	}
}

func TestRegisterNgoStartsUnverified(t *testing.T) {
	h, _ := newHandler(t)

	rr := post(t, h.HandleRegister, `{
		"name":"Helpers","email":"helpers@example.com","password":"secret123","role":"ngo",
		"organizationName":"Helpers Org","organizationAddress":"12 Relief Road","organizationPhone":"555-0100"
	}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"verified":false`) {
		t.Errorf("ngo not unverified: %s", rr.Body.String())
	}
}

func TestRegisterStripsMarkup(t *testing.T) {
	h, users := newHandler(t)

	rr := post(t, h.HandleRegister,
		`{"name":"<script>alert(1)</script>Aarav","email":"aarav@example.com","password":"secret123","role":"donor"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	u, err := users.GetByEmail(t.Context(), "aarav@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if strings.Contains(u.Name, "<") {
		t.Errorf("markup stored in name: %q", u.Name)
	}
}

func TestRegisterFailures(t *testing.T) {
	h, _ := newHandler(t)

	// Occupy the email first.
	rr := post(t, h.HandleRegister,
		`{"name":"Aarav","email":"taken@example.com","password":"secret123","role":"donor"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("setup status = %d", rr.Code)
	}

	cases := []struct {
		name string
		body string
		want int
	}{
		{"email taken", `{"name":"B","email":"taken@example.com","password":"secret123","role":"donor"}`, http.StatusConflict},
		{"weak password", `{"name":"B","email":"b@example.com","password":"abc","role":"donor"}`, http.StatusUnprocessableEntity},
		{"ngo missing org", `{"name":"B","email":"b@example.com","password":"secret123","role":"ngo"}`, http.StatusUnprocessableEntity},
		{"admin refused", `{"name":"B","email":"b@example.com","password":"secret123","role":"admin"}`, http.StatusForbidden},
		{"bad body", `not json`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := post(t, h.HandleRegister, tc.body)
			if rr.Code != tc.want {
				t.Errorf("status = %d, want %d (body %s)", rr.Code, tc.want, rr.Body.String())
			}
		})
	}
}
