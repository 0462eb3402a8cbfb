package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/openreuse/donatehub/internal/app/features/health"
	"github.com/openreuse/donatehub/internal/app/store/kv"
)

type downStore struct {
	kv.Store
}

func (d *downStore) Ping(context.Context) error {
	return errors.New("backend unreachable")
}

func TestServeHealthy(t *testing.T) {
	h := health.NewHandler(kv.NewMemoryStore(), zap.NewNop())

	rr := httptest.NewRecorder()
	h.Serve(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" || body["storage"] != "connected" {
		t.Errorf("body = %v", body)
	}
}

func TestServeStorageDown(t *testing.T) {
	h := health.NewHandler(&downStore{Store: kv.NewMemoryStore()}, zap.NewNop())

	rr := httptest.NewRecorder()
	h.Serve(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "error" || body["storage"] != "disconnected" {
		t.Errorf("body = %v", body)
	}
}
