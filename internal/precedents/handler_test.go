package precedents_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/tribunal/internal/decision"
	"github.com/JaimeStill/tribunal/internal/precedents"
	"github.com/JaimeStill/tribunal/pkg/pagination"
)

type mockSystem struct {
	getFn    func(ctx context.Context, auditID string) (*precedents.Entry, error)
	searchFn func(ctx context.Context, page pagination.PageRequest, filters precedents.Filters) (*pagination.PageResult[precedents.Entry], error)
}

func (m *mockSystem) Handler() *precedents.Handler { return nil }

func (m *mockSystem) Record(ctx context.Context, inputDigest string, dec decision.Decision) (*precedents.Entry, error) {
	return nil, precedents.ErrPersistenceFailure
}

func (m *mockSystem) Get(ctx context.Context, auditID string) (*precedents.Entry, error) {
	return m.getFn(ctx, auditID)
}

func (m *mockSystem) Search(ctx context.Context, page pagination.PageRequest, filters precedents.Filters) (*pagination.PageResult[precedents.Entry], error) {
	return m.searchFn(ctx, page, filters)
}

func (m *mockSystem) Count(ctx context.Context) (int, error) {
	return 0, nil
}

func newTestHandler(sys *mockSystem) *precedents.Handler {
	return precedents.NewHandler(
		sys,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
	)
}

func setupMux(h *precedents.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	return mux
}

func TestHandlerGet(t *testing.T) {
	entry := testEntry("AUD-7")

	sys := &mockSystem{
		getFn: func(ctx context.Context, auditID string) (*precedents.Entry, error) {
			if auditID != "AUD-7" {
				t.Errorf("auditID = %q, want AUD-7", auditID)
			}
			return &entry, nil
		},
	}

	mux := setupMux(newTestHandler(sys))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/precedents/AUD-7", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got precedents.Entry
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.AuditID != "AUD-7" || got.Outcome != decision.OutcomeApprove {
		t.Errorf("entry = %+v", got)
	}
}

func TestHandlerGetNotFound(t *testing.T) {
	sys := &mockSystem{
		getFn: func(ctx context.Context, auditID string) (*precedents.Entry, error) {
			return nil, precedents.ErrNotFound
		},
	}

	mux := setupMux(newTestHandler(sys))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/precedents/AUD-missing", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandlerListFilters(t *testing.T) {
	var gotFilters precedents.Filters
	var gotPage pagination.PageRequest

	sys := &mockSystem{
		searchFn: func(ctx context.Context, page pagination.PageRequest, filters precedents.Filters) (*pagination.PageResult[precedents.Entry], error) {
			gotPage = page
			gotFilters = filters
			result := pagination.NewPageResult([]precedents.Entry{testEntry("AUD-1")}, 1, page.Page, page.PageSize)
			return &result, nil
		},
	}

	mux := setupMux(newTestHandler(sys))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(
		"GET", "/precedents?outcome=reject&from=2026-08-01T00:00:00Z&page=2&page_size=10", nil,
	))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotFilters.Outcome == nil || *gotFilters.Outcome != "reject" {
		t.Errorf("outcome filter = %v, want reject", gotFilters.Outcome)
	}
	if gotFilters.From == nil {
		t.Error("from filter not parsed")
	}
	if gotPage.Page != 2 || gotPage.PageSize != 10 {
		t.Errorf("page = %+v, want page 2 size 10", gotPage)
	}
}

func TestHandlerSearch(t *testing.T) {
	sys := &mockSystem{
		searchFn: func(ctx context.Context, page pagination.PageRequest, filters precedents.Filters) (*pagination.PageResult[precedents.Entry], error) {
			if filters.Profile == nil || *filters.Profile != "euai" {
				t.Errorf("profile filter = %v, want euai", filters.Profile)
			}
			result := pagination.NewPageResult([]precedents.Entry{}, 0, page.Page, page.PageSize)
			return &result, nil
		},
	}

	body, _ := json.Marshal(map[string]any{
		"page":     1,
		"page_size": 5,
		"profile":  "euai",
	})

	mux := setupMux(newTestHandler(sys))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/precedents/search", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestHandlerSearchMalformedBody(t *testing.T) {
	mux := setupMux(newTestHandler(&mockSystem{}))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/precedents/search", bytes.NewReader([]byte("{not json")))
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
