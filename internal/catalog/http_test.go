package catalog_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"ProductCatalog/internal/auth"
	"ProductCatalog/internal/catalog"
)

const bearer = "Bearer test-token"

func newCatalogTS(t *testing.T) (*httptest.Server, *catalog.MemStore) {
	t.Helper()

	store := catalog.NewMemStore()
	s := &catalog.Server{
		Store: store,
		Log:   zap.NewNop(),
		Auth:  auth.MarkerVerifier{},
	}

	h := catalog.NewHandler(s, catalog.HTTPDeps{
		Log:     zap.NewNop(),
		Service: "catalog",
	})

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts, store
}

type envelope struct {
	Success bool            `json:"success"`
	Count   *int            `json:"count"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

func doJSON(t *testing.T, method, url string, body any, headers map[string]string) (*http.Response, envelope) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	var env envelope
	if len(raw) > 0 && json.Valid(raw) {
		_ = json.Unmarshal(raw, &env)
	}
	return resp, env
}

func authHeader() map[string]string {
	return map[string]string{"Authorization": bearer}
}

func decodeProduct(t *testing.T, raw json.RawMessage) catalog.Product {
	t.Helper()

	var p catalog.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		t.Fatalf("decode product: %v", err)
	}
	return p
}

func storeSize(t *testing.T, store *catalog.MemStore) int {
	t.Helper()

	items, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	return len(items)
}

func TestWelcome(t *testing.T) {
	ts, _ := newCatalogTS(t)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	raw, _ := io.ReadAll(resp.Body)
	if !bytes.Contains(raw, []byte("Welcome")) {
		t.Fatalf("unexpected welcome body: %q", raw)
	}
}

func TestListSeed(t *testing.T) {
	ts, _ := newCatalogTS(t)

	resp, env := doJSON(t, http.MethodGet, ts.URL+"/api/products", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	if !env.Success || env.Count == nil || *env.Count != 3 {
		t.Fatalf("expected success with count 3, got %+v", env)
	}
}

func TestListFilters(t *testing.T) {
	ts, _ := newCatalogTS(t)

	cases := []struct {
		name  string
		query string
		count int
		first string
	}{
		{"price window", "?minPrice=100&maxPrice=900", 1, "Smartphone"},
		{"category exact", "?category=kitchen", 1, "Coffee Maker"},
		{"category case insensitive", "?category=KITCHEN", 1, "Coffee Maker"},
		{"in stock", "?inStock=true", 2, "Laptop"},
		{"out of stock", "?inStock=false", 1, "Coffee Maker"},
		{"name substring", "?name=phone", 1, "Smartphone"},
		{"combined", "?category=electronics&minPrice=1000", 1, "Laptop"},
		{"no match", "?name=zzz", 0, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, env := doJSON(t, http.MethodGet, ts.URL+"/api/products"+tc.query, nil, nil)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status=%d", resp.StatusCode)
			}
			if env.Count == nil || *env.Count != tc.count {
				t.Fatalf("count=%v want %d", env.Count, tc.count)
			}

			var items []catalog.Product
			if err := json.Unmarshal(env.Data, &items); err != nil {
				t.Fatalf("decode data: %v", err)
			}
			if len(items) != tc.count {
				t.Fatalf("len(data)=%d want %d", len(items), tc.count)
			}
			if tc.count > 0 && items[0].Name != tc.first {
				t.Fatalf("first=%q want %q", items[0].Name, tc.first)
			}
		})
	}
}

func TestGetByID(t *testing.T) {
	ts, _ := newCatalogTS(t)

	resp, env := doJSON(t, http.MethodGet, ts.URL+"/api/products/p1", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	if p := decodeProduct(t, env.Data); p.Name != "Laptop" {
		t.Fatalf("name=%q", p.Name)
	}

	resp, env = doJSON(t, http.MethodGet, ts.URL+"/api/products/nope", nil, nil)
	if resp.StatusCode != http.StatusNotFound || env.Code != "NOT_FOUND" {
		t.Fatalf("status=%d code=%q", resp.StatusCode, env.Code)
	}
}

func TestCreate(t *testing.T) {
	ts, _ := newCatalogTS(t)

	resp, env := doJSON(t, http.MethodPost, ts.URL+"/api/products", map[string]any{
		"name":        "Desk Lamp",
		"description": "LED desk lamp",
		"price":       29.5,
		"category":    "office",
	}, authHeader())

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status=%d", resp.StatusCode)
	}

	p := decodeProduct(t, env.Data)
	if p.ID == "" || p.ID == "p1" || p.ID == "p2" || p.ID == "p3" {
		t.Fatalf("bad id %q", p.ID)
	}
	if p.InStock {
		t.Fatalf("inStock should default to false")
	}

	// Round trip: get-by-id returns the submitted fields plus the generated id.
	resp, env = doJSON(t, http.MethodGet, ts.URL+"/api/products/"+p.ID, nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status=%d", resp.StatusCode)
	}
	got := decodeProduct(t, env.Data)
	if got != p {
		t.Fatalf("round trip mismatch: %+v != %+v", got, p)
	}
}

func TestCreateGeneratesDistinctIDs(t *testing.T) {
	ts, _ := newCatalogTS(t)

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		resp, env := doJSON(t, http.MethodPost, ts.URL+"/api/products", map[string]any{
			"name":  "Widget",
			"price": 1.0,
		}, authHeader())
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status=%d", resp.StatusCode)
		}
		p := decodeProduct(t, env.Data)
		if seen[p.ID] {
			t.Fatalf("duplicate id %q", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestCreateValidation(t *testing.T) {
	ts, _ := newCatalogTS(t)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"missing name", map[string]any{"price": 10.0}},
		{"empty name", map[string]any{"name": "", "price": 10.0}},
		{"whitespace name", map[string]any{"name": "   ", "price": 10.0}},
		{"missing price", map[string]any{"name": "X"}},
		{"zero price", map[string]any{"name": "X", "price": 0}},
		{"negative price", map[string]any{"name": "X", "price": -5}},
		{"non numeric price", map[string]any{"name": "X", "price": "abc"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, env := doJSON(t, http.MethodPost, ts.URL+"/api/products", tc.body, authHeader())
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status=%d", resp.StatusCode)
			}
			if env.Code != "VALIDATION_ERROR" {
				t.Fatalf("code=%q", env.Code)
			}
		})
	}
}

func TestAuthRequired(t *testing.T) {
	ts, store := newCatalogTS(t)
	before := storeSize(t, store)

	cases := []struct {
		method, path string
		body         map[string]any
	}{
		{http.MethodPost, "/api/products", map[string]any{"name": "X", "price": 5.0}},
		{http.MethodPut, "/api/products/p1", map[string]any{"name": "X", "price": 5.0}},
		{http.MethodDelete, "/api/products/p1", nil},
	}

	for _, tc := range cases {
		t.Run(tc.method, func(t *testing.T) {
			// No Authorization header at all.
			resp, env := doJSON(t, tc.method, ts.URL+tc.path, tc.body, nil)
			if resp.StatusCode != http.StatusUnauthorized || env.Code != "UNAUTHORIZED" {
				t.Fatalf("status=%d code=%q", resp.StatusCode, env.Code)
			}

			// Wrong scheme.
			resp, env = doJSON(t, tc.method, ts.URL+tc.path, tc.body, map[string]string{
				"Authorization": "Basic abc",
			})
			if resp.StatusCode != http.StatusUnauthorized || env.Code != "UNAUTHORIZED" {
				t.Fatalf("status=%d code=%q", resp.StatusCode, env.Code)
			}
		})
	}

	if after := storeSize(t, store); after != before {
		t.Fatalf("store mutated behind auth gate: %d -> %d", before, after)
	}
}

func TestUpdate(t *testing.T) {
	ts, _ := newCatalogTS(t)

	resp, env := doJSON(t, http.MethodPut, ts.URL+"/api/products/p3", map[string]any{
		"name":    "Coffee Maker Deluxe",
		"price":   59.99,
		"inStock": true,
	}, authHeader())

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}

	p := decodeProduct(t, env.Data)
	if p.ID != "p3" {
		t.Fatalf("id changed: %q", p.ID)
	}
	if p.Name != "Coffee Maker Deluxe" || p.Price != 59.99 || !p.InStock {
		t.Fatalf("merge failed: %+v", p)
	}
	// Fields not supplied keep their stored values.
	if p.Description != "Automatic drip coffee maker" || p.Category != "kitchen" {
		t.Fatalf("unsupplied fields not preserved: %+v", p)
	}
}

func TestUpdateErrors(t *testing.T) {
	ts, _ := newCatalogTS(t)

	resp, env := doJSON(t, http.MethodPut, ts.URL+"/api/products/nope", map[string]any{
		"name": "X", "price": 5.0,
	}, authHeader())
	if resp.StatusCode != http.StatusNotFound || env.Code != "NOT_FOUND" {
		t.Fatalf("status=%d code=%q", resp.StatusCode, env.Code)
	}

	// Validation runs before the lookup.
	resp, env = doJSON(t, http.MethodPut, ts.URL+"/api/products/nope", map[string]any{
		"name": "X",
	}, authHeader())
	if resp.StatusCode != http.StatusBadRequest || env.Code != "VALIDATION_ERROR" {
		t.Fatalf("status=%d code=%q", resp.StatusCode, env.Code)
	}
}

func TestDelete(t *testing.T) {
	ts, _ := newCatalogTS(t)

	resp, env := doJSON(t, http.MethodDelete, ts.URL+"/api/products/p2", nil, authHeader())
	if resp.StatusCode != http.StatusOK || !env.Success {
		t.Fatalf("status=%d env=%+v", resp.StatusCode, env)
	}
	if string(bytes.TrimSpace(env.Data)) != "{}" {
		t.Fatalf("data=%s want {}", env.Data)
	}

	resp, env = doJSON(t, http.MethodGet, ts.URL+"/api/products/p2", nil, nil)
	if resp.StatusCode != http.StatusNotFound || env.Code != "NOT_FOUND" {
		t.Fatalf("get after delete: status=%d code=%q", resp.StatusCode, env.Code)
	}

	// Deleting again reports NOT_FOUND as well.
	resp, env = doJSON(t, http.MethodDelete, ts.URL+"/api/products/p2", nil, authHeader())
	if resp.StatusCode != http.StatusNotFound || env.Code != "NOT_FOUND" {
		t.Fatalf("second delete: status=%d code=%q", resp.StatusCode, env.Code)
	}
}

func TestUnmatchedRoute(t *testing.T) {
	ts, _ := newCatalogTS(t)

	for _, path := range []string{"/api/unknown", "/nope", "/api/products/p1/extra"} {
		resp, env := doJSON(t, http.MethodGet, ts.URL+path, nil, nil)
		if resp.StatusCode != http.StatusNotFound || env.Code != "NOT_FOUND" {
			t.Fatalf("%s: status=%d code=%q", path, resp.StatusCode, env.Code)
		}
	}

	// Unsupported method on a known path.
	resp, env := doJSON(t, http.MethodPatch, ts.URL+"/api/products/p1", nil, nil)
	if resp.StatusCode != http.StatusNotFound || env.Code != "NOT_FOUND" {
		t.Fatalf("patch: status=%d code=%q", resp.StatusCode, env.Code)
	}
}

type failingStore struct{}

var errStore = errors.New("store down")

func (failingStore) Ping(context.Context) error                      { return errStore }
func (failingStore) List(context.Context) ([]catalog.Product, error) { return nil, errStore }
func (failingStore) Get(context.Context, string) (catalog.Product, bool, error) {
	return catalog.Product{}, false, errStore
}
func (failingStore) Insert(context.Context, catalog.Product) error { return errStore }
func (failingStore) Replace(context.Context, string, catalog.Product) (bool, error) {
	return false, errStore
}
func (failingStore) Remove(context.Context, string) (bool, error) { return false, errStore }

func TestStoreFailure(t *testing.T) {
	s := &catalog.Server{
		Store: failingStore{},
		Log:   zap.NewNop(),
		Auth:  auth.MarkerVerifier{},
	}
	ts := httptest.NewServer(catalog.NewHandler(s, catalog.HTTPDeps{Log: zap.NewNop(), Service: "catalog"}))
	t.Cleanup(ts.Close)

	resp, env := doJSON(t, http.MethodGet, ts.URL+"/api/products", nil, nil)
	if resp.StatusCode != http.StatusInternalServerError || env.Code != "SERVER_ERROR" {
		t.Fatalf("status=%d code=%q", resp.StatusCode, env.Code)
	}
	if env.Error != "Internal server error" {
		t.Fatalf("error=%q", env.Error)
	}
}
