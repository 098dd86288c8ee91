package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lifehealth/dietcli/internal/endpoint"
	"github.com/lifehealth/dietcli/internal/transport"
)

func newTestAPI(srv *httptest.Server) *Client {
	r := endpoint.NewResolver(endpoint.Sources{Override: srv.URL}, nil)
	return New(transport.New(r, nil))
}

func TestHealthTriesCandidatesInOrder(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.URL.Path)
		if r.URL.Path == "/health" {
			w.Write([]byte(`{"status":"ok"}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	result, err := newTestAPI(srv).Health()
	if err != nil {
		t.Fatal(err)
	}
	if result.Path != "/health" {
		t.Errorf("responded path = %q, want /health", result.Path)
	}
	want := []string{"/api/v1/status", "/api/v1/health", "/health"}
	if len(seen) != len(want) {
		t.Fatalf("probed %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("probe order %v, want %v", seen, want)
		}
	}
}

func TestHealthAllCandidatesFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := newTestAPI(srv).Health(); err == nil {
		t.Fatal("expected error when no candidate responds")
	}
}

func TestPricePreviewScenario(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/groceries/price_preview" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{
			"items":[{"id":1,"name":"milk","suggested_store":"A","unit_price":3.5,"total_price":7.0}],
			"totals":{"A":7.0},
			"grand_total":7.0
		}`))
	}))
	defer srv.Close()

	preview, err := newTestAPI(srv).PricePreview()
	if err != nil {
		t.Fatal(err)
	}

	qty, ok := preview.Items[0].DerivedQuantity()
	if !ok || qty != 2 {
		t.Errorf("derived quantity = %v (%v), want 2", qty, ok)
	}
	if preview.GrandTotal != 7.0 {
		t.Errorf("grand total = %v, want server value 7.0 verbatim", preview.GrandTotal)
	}
	if !preview.CheckTotals() {
		t.Error("displayed table drifted from server aggregates")
	}
}

func TestSyncFromMealsParameters(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		got = r.URL.RawQuery
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	err := newTestAPI(srv).SyncFromMeals("2026-08-27", "2026-09-02", true, true, false)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"start=2026-08-27", "end=2026-09-02", "persist=true", "clear_existing=true", "seed_if_empty=false"} {
		if !strings.Contains(got, want) {
			t.Errorf("query %q missing %q", got, want)
		}
	}
}

func TestLoginCapturesCookieAndToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/login":
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "s1", Path: "/"})
			w.Write([]byte(`{"access_token":"tok","token_type":"bearer"}`))
		case "/api/v1/auth/me":
			if c, err := r.Cookie("session"); err != nil || c.Value != "s1" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte(`{"id":1,"email":"a@b.c","remaining_seconds":600}`))
		}
	}))
	defer srv.Close()

	c := newTestAPI(srv)
	result, err := c.Login("a@b.c", "hunter22")
	if err != nil {
		t.Fatal(err)
	}
	if result.Token != "tok" {
		t.Errorf("token = %q", result.Token)
	}

	info, err := c.Me()
	if err != nil {
		t.Fatalf("cookie session not usable: %v", err)
	}
	if info.RemainingSeconds == nil || *info.RemainingSeconds != 600 {
		t.Errorf("remaining_seconds = %v", info.RemainingSeconds)
	}
}

func TestLoginWithoutTokenIsNotAFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "s1", Path: "/"})
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	result, err := newTestAPI(srv).Login("a@b.c", "hunter22")
	if err != nil {
		t.Fatal(err)
	}
	if result.Token != "" {
		t.Errorf("token = %q, want empty for cookie-only backend", result.Token)
	}
}
