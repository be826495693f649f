package price_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"PriceStore/internal/price"
	"PriceStore/pkg/kit"
)

func newPriceTS(t *testing.T, s *price.Server, deps price.HTTPDeps) *httptest.Server {
	t.Helper()

	if s.Log == nil {
		s.Log = zap.NewNop()
	}
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Service == "" {
		deps.Service = "price"
	}

	ts := httptest.NewServer(price.NewHandler(s, deps))
	t.Cleanup(ts.Close)
	return ts
}

func seed(t *testing.T, store price.Store, value uint64) uuid.UUID {
	t.Helper()

	id, err := store.Create(context.Background(), value)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return id
}

func do(t *testing.T, method, url, body string, headers map[string]string) (*http.Response, string) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != "" {
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
	return resp, string(raw)
}

func TestPrice_ListAll(t *testing.T) {
	store := price.NewStore()
	seed(t, store, 14)
	ts := newPriceTS(t, &price.Server{Store: store}, price.HTTPDeps{})

	resp, body := do(t, http.MethodGet, ts.URL+"/price", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.StatusCode, body)
	}
	if body != "[14]" {
		t.Fatalf("body=%q want %q", body, "[14]")
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content-type=%q", ct)
	}
}

func TestPrice_ListAllEmpty(t *testing.T) {
	ts := newPriceTS(t, &price.Server{Store: price.NewStore()}, price.HTTPDeps{})

	resp, body := do(t, http.MethodGet, ts.URL+"/price", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	if body != "[]" {
		t.Fatalf("body=%q want []", body)
	}
}

func TestPrice_GetByIDNotFound(t *testing.T) {
	store := price.NewStore()
	seed(t, store, 14)
	ts := newPriceTS(t, &price.Server{Store: store}, price.HTTPDeps{})

	for _, id := range []string{uuid.NewString(), "not-a-uuid", "12345"} {
		resp, body := do(t, http.MethodGet, ts.URL+"/price/"+id, "", nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("id=%s status=%d", id, resp.StatusCode)
		}
		if body != "" {
			t.Fatalf("id=%s body=%q want empty", id, body)
		}
	}
}

func TestPrice_GetByID(t *testing.T) {
	store := price.NewStore()
	id := seed(t, store, 14)
	ts := newPriceTS(t, &price.Server{Store: store}, price.HTTPDeps{})

	resp, body := do(t, http.MethodGet, ts.URL+"/price/"+id.String(), "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	if body != "14" {
		t.Fatalf("body=%q want 14", body)
	}
}

func TestPrice_Update(t *testing.T) {
	store := price.NewStore()
	id := seed(t, store, 10)
	ts := newPriceTS(t, &price.Server{Store: store}, price.HTTPDeps{})

	resp, body := do(t, http.MethodPatch, ts.URL+"/price/"+id.String(), `{"price": 66}`, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("patch status=%d body=%s", resp.StatusCode, body)
	}
	if body != "" {
		t.Fatalf("patch body=%q want empty", body)
	}

	_, body = do(t, http.MethodGet, ts.URL+"/price/"+id.String(), "", nil)
	if body != "66" {
		t.Fatalf("body=%q want 66", body)
	}
}

func TestPrice_UpdateUnknown(t *testing.T) {
	store := price.NewStore()
	ts := newPriceTS(t, &price.Server{Store: store}, price.HTTPDeps{})

	resp, body := do(t, http.MethodPatch, ts.URL+"/price/"+uuid.NewString(), `{"price": 1}`, nil)
	if resp.StatusCode != http.StatusNotFound || body != "" {
		t.Fatalf("status=%d body=%q", resp.StatusCode, body)
	}
	if n := store.Len(context.Background()); n != 0 {
		t.Fatalf("store grew to %d", n)
	}
}

func TestPrice_Delete(t *testing.T) {
	store := price.NewStore()
	id := seed(t, store, 10)
	ts := newPriceTS(t, &price.Server{Store: store}, price.HTTPDeps{})

	resp, body := do(t, http.MethodDelete, ts.URL+"/price/"+id.String(), "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status=%d body=%s", resp.StatusCode, body)
	}

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		resp, _ := do(t, method, ts.URL+"/price/"+id.String(), "", nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("%s after delete status=%d", method, resp.StatusCode)
		}
	}
	resp, _ = do(t, http.MethodPatch, ts.URL+"/price/"+id.String(), `{"price": 3}`, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("PATCH after delete status=%d", resp.StatusCode)
	}
}

func TestPrice_CreateThenGet(t *testing.T) {
	store := price.NewStore()
	ts := newPriceTS(t, &price.Server{Store: store}, price.HTTPDeps{})

	resp, body := do(t, http.MethodPost, ts.URL+"/price", `{"price": 18446744073709551615}`, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create status=%d body=%s", resp.StatusCode, body)
	}

	id, err := uuid.Parse(body)
	if err != nil {
		t.Fatalf("create body %q is not a uuid: %v", body, err)
	}
	if id.String() != body {
		t.Fatalf("id not in canonical form: %q", body)
	}

	_, body = do(t, http.MethodGet, ts.URL+"/price/"+id.String(), "", nil)
	if body != "18446744073709551615" {
		t.Fatalf("body=%q", body)
	}
}

func TestPrice_BadBody(t *testing.T) {
	store := price.NewStore()
	id := seed(t, store, 1)
	ts := newPriceTS(t, &price.Server{Store: store}, price.HTTPDeps{})

	bodies := []string{
		`{}`,
		`{"price": -1}`,
		`{"price": 1.5}`,
		`{"price": "10"}`,
		`{"price": 18446744073709551616}`,
		`{"price": 1, "currency": "usd"}`,
		`{"price": 1}{"price": 2}`,
		`not json`,
	}

	for _, b := range bodies {
		resp, raw := do(t, http.MethodPost, ts.URL+"/price", b, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("POST %s status=%d body=%s", b, resp.StatusCode, raw)
		}

		resp, raw = do(t, http.MethodPatch, ts.URL+"/price/"+id.String(), b, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("PATCH %s status=%d body=%s", b, resp.StatusCode, raw)
		}
	}

	if n := store.Len(context.Background()); n != 1 {
		t.Fatalf("store len=%d want 1", n)
	}
	if v, _ := store.Get(context.Background(), id); v != 1 {
		t.Fatalf("value changed to %d", v)
	}
}

func TestPrice_WriteRateLimit(t *testing.T) {
	s := &price.Server{
		Store:        price.NewStore(),
		WriteLimiter: kit.NewIPRateLimiter(1, time.Minute),
	}
	ts := newPriceTS(t, s, price.HTTPDeps{})

	resp, _ := do(t, http.MethodPost, ts.URL+"/price", `{"price": 1}`, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("first create status=%d", resp.StatusCode)
	}

	resp, _ = do(t, http.MethodPost, ts.URL+"/price", `{"price": 2}`, nil)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("second create status=%d", resp.StatusCode)
	}

	// reads are never limited
	resp, body := do(t, http.MethodGet, ts.URL+"/price", "", nil)
	if resp.StatusCode != http.StatusOK || body != "[1]" {
		t.Fatalf("list status=%d body=%s", resp.StatusCode, body)
	}
}

func TestPrice_HealthAndReady(t *testing.T) {
	ts := newPriceTS(t, &price.Server{Store: price.NewStore()}, price.HTTPDeps{})

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, _ := do(t, http.MethodGet, ts.URL+path, "", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s status=%d", path, resp.StatusCode)
		}
	}
}

func TestPrice_Metrics(t *testing.T) {
	const token = "scrape-token"

	reg := prometheus.NewRegistry()
	store := price.NewInstrumentedStore(price.NewStore(), reg)
	ts := newPriceTS(t, &price.Server{Store: store}, price.HTTPDeps{
		Registry:       reg,
		MetricsEnabled: true,
		MetricsToken:   token,
	})

	do(t, http.MethodPost, ts.URL+"/price", `{"price": 5}`, nil)
	do(t, http.MethodGet, ts.URL+"/price/"+uuid.NewString(), "", nil)

	resp, _ := do(t, http.MethodGet, ts.URL+"/metrics", "", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("unauthenticated scrape status=%d", resp.StatusCode)
	}

	resp, body := do(t, http.MethodGet, ts.URL+"/metrics", "", map[string]string{
		"Authorization": "Bearer " + token,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("scrape status=%d", resp.StatusCode)
	}

	for _, want := range []string{
		`price_store_operations_total{op="create",result="ok"} 1`,
		`price_store_operations_total{op="get",result="not_found"} 1`,
		`price_store_entries 1`,
		`http_requests_total{method="GET",path="/price/{id}",service="price",status="404"} 1`,
	} {
		if !bytes.Contains([]byte(body), []byte(want)) {
			t.Fatalf("metrics missing %q", want)
		}
	}
}
