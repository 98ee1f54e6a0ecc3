package httpserver_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"

	httpserver "hotelverse/internal/adapters/http_server"
	"hotelverse/internal/app"
	"hotelverse/internal/domain"
	"hotelverse/internal/storage"
)

// ---- in-memory store ----

type memStore struct {
	mu    sync.Mutex
	colls map[string][]map[string]any
	seq   int
}

func newMemStore() *memStore { return &memStore{colls: map[string][]map[string]any{}} }

func (m *memStore) Ready() error   { return nil }
func (m *memStore) Driver() string { return "memory" }

func (m *memStore) Insert(ctx context.Context, coll string, doc any) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertLocked(coll, doc)
}

func (m *memStore) insertLocked(coll string, doc any) (string, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	var obj map[string]any
	if err := json.Unmarshal(b, &obj); err != nil {
		return "", err
	}
	m.seq++
	obj["id"] = fmt.Sprintf("%s-%d", coll, m.seq)
	m.colls[coll] = append(m.colls[coll], obj)
	return obj["id"].(string), nil
}

func (m *memStore) InsertManyIfEmpty(ctx context.Context, coll string, docs []any) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.colls[coll]) > 0 {
		return 0, nil
	}
	for _, d := range docs {
		if _, err := m.insertLocked(coll, d); err != nil {
			return 0, err
		}
	}
	return len(docs), nil
}

func (m *memStore) Count(ctx context.Context, coll string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.colls[coll])), nil
}

func (m *memStore) Find(ctx context.Context, coll string, f domain.Filter, out any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	matched := []map[string]any{}
	for _, obj := range m.colls[coll] {
		ok := true
		for _, c := range f {
			v, present := obj[c.Field]
			switch {
			case !present:
				ok = false
			case c.Op == domain.OpEq:
				ok = ok && fmt.Sprint(v) == fmt.Sprint(c.Value)
			case c.Op == domain.OpGte:
				n, _ := v.(float64)
				ok = ok && n >= float64(c.Value.(int))
			}
		}
		if ok {
			matched = append(matched, obj)
		}
	}
	b, err := json.Marshal(matched)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

func (m *memStore) Collections(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := []string{}
	for k := range m.colls {
		names = append(names, k)
	}
	return names, nil
}

// ---- helpers ----

func newTestServer(st domain.DocumentStore, opts httpserver.Options) http.Handler {
	srv := httpserver.New(opts)
	srv.MountHandlers(&httpserver.Handlers{
		Catalog:         app.NewCatalogService(st, nil, time.Minute),
		Concierge:       app.NewConciergeService(st, nil),
		Quotes:          app.NewQuoteService(st),
		DatabaseURLSet:  true,
		DatabaseNameSet: false,
	})
	return srv.Mux()
}

func do(t *testing.T, h http.Handler, method, path, body string, hdr ...string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type problemBody struct {
	Title  string              `json:"title"`
	Status int                 `json:"status"`
	Detail string              `json:"detail"`
	Errors []domain.FieldError `json:"errors"`
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) problemBody {
	t.Helper()
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("content-type=%q body=%s", ct, rec.Body.String())
	}
	var p problemBody
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode problem: %v", err)
	}
	return p
}

func seeded(t *testing.T) http.Handler {
	t.Helper()
	h := newTestServer(newMemStore(), httpserver.Options{})
	for _, k := range []string{"rooms", "dishes", "experiences"} {
		if rec := do(t, h, http.MethodPost, "/seed/"+k, ""); rec.Code != http.StatusOK {
			t.Fatalf("seed %s: %d %s", k, rec.Code, rec.Body.String())
		}
	}
	return h
}

// ---- tests ----

func TestRootAndHealth(t *testing.T) {
	h := newTestServer(storage.Unconfigured{}, httpserver.Options{})

	rec := do(t, h, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != `{"message":"AR Hotel Universe Backend Running"}` {
		t.Fatalf("root: %d %s", rec.Code, rec.Body.String())
	}
	rec = do(t, h, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz: %d %q", rec.Code, rec.Body.String())
	}
}

func TestUnconfiguredStore_Reports500(t *testing.T) {
	h := newTestServer(storage.Unconfigured{}, httpserver.Options{})

	cases := []struct{ method, path, body string }{
		{http.MethodGet, "/rooms", ""},
		{http.MethodGet, "/menu", ""},
		{http.MethodGet, "/experiences", ""},
		{http.MethodPost, "/seed/rooms", ""},
		{http.MethodPost, "/concierge", `{}`},
		{http.MethodPost, "/booking/quote", `{"check_in":"2024-01-05","check_out":"2024-01-07"}`},
	}
	for _, c := range cases {
		rec := do(t, h, c.method, c.path, c.body)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("%s %s: status %d", c.method, c.path, rec.Code)
		}
		if p := decodeProblem(t, rec); p.Detail != "Database not configured" {
			t.Fatalf("%s %s: detail %q", c.method, c.path, p.Detail)
		}
	}
}

func TestDiagnostics(t *testing.T) {
	h := newTestServer(storage.Unconfigured{}, httpserver.Options{})
	rec := do(t, h, http.MethodGet, "/test", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var d app.Diagnostics
	if err := json.Unmarshal(rec.Body.Bytes(), &d); err != nil {
		t.Fatal(err)
	}
	if d.Database != "❌ Not Available" || d.DatabaseURL != "✅ Set" || d.DatabaseName != "❌ Not Set" {
		t.Fatalf("unexpected diagnostics: %+v", d)
	}
	if d.Collections == nil || len(d.Collections) != 0 {
		t.Fatalf("collections should be an empty list, got %#v", d.Collections)
	}
}

func TestSeed_TwiceAndUnknownKind(t *testing.T) {
	h := newTestServer(newMemStore(), httpserver.Options{})

	rec := do(t, h, http.MethodPost, "/seed/rooms", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != `{"inserted":2}` {
		t.Fatalf("first seed: %d %s", rec.Code, rec.Body.String())
	}
	rec = do(t, h, http.MethodPost, "/seed/rooms", "")
	if strings.TrimSpace(rec.Body.String()) != `{"inserted":0}` {
		t.Fatalf("second seed: %s", rec.Body.String())
	}
	rec = do(t, h, http.MethodPost, "/seed/spaceships", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown kind: %d", rec.Code)
	}
}

func TestListRooms_Filters(t *testing.T) {
	h := seeded(t)

	get := func(path string) []domain.Room {
		rec := do(t, h, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: %d %s", path, rec.Code, rec.Body.String())
		}
		var rooms []domain.Room
		if err := json.Unmarshal(rec.Body.Bytes(), &rooms); err != nil {
			t.Fatal(err)
		}
		return rooms
	}

	if rooms := get("/rooms"); len(rooms) != 2 {
		t.Fatalf("want 2 rooms, got %d", len(rooms))
	}
	rooms := get("/rooms?view=ocean")
	if len(rooms) != 1 || rooms[0].Name != "Ocean Nebula" || rooms[0].ID == "" {
		t.Fatalf("view filter: %+v", rooms)
	}
	if rooms := get("/rooms?capacity=3"); len(rooms) != 1 || rooms[0].Name != "Ocean Nebula" {
		t.Fatalf("capacity filter: %+v", rooms)
	}
	if rooms := get("/rooms?view=garden"); len(rooms) != 0 {
		t.Fatalf("garden should be empty: %+v", rooms)
	}
	rec := do(t, h, http.MethodGet, "/rooms?view=garden", "")
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("empty result must be [], got %s", rec.Body.String())
	}
}

func TestListRooms_BadCapacity(t *testing.T) {
	h := seeded(t)
	rec := do(t, h, http.MethodGet, "/rooms?capacity=lots", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d", rec.Code)
	}
	if p := decodeProblem(t, rec); len(p.Errors) != 1 || p.Errors[0].Field != "capacity" {
		t.Fatalf("errors: %+v", p.Errors)
	}
}

func TestMenu_CategoryAndETag(t *testing.T) {
	h := seeded(t)

	rec := do(t, h, http.MethodGet, "/menu?category=dessert", "")
	var dishes []domain.Dish
	if err := json.Unmarshal(rec.Body.Bytes(), &dishes); err != nil {
		t.Fatal(err)
	}
	if len(dishes) != 1 || dishes[0].Name != "Quantum Mousse" {
		t.Fatalf("category filter: %+v", dishes)
	}

	etag := rec.Header().Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}
	rec = do(t, h, http.MethodGet, "/menu?category=dessert", "", "If-None-Match", etag)
	if rec.Code != http.StatusNotModified {
		t.Fatalf("want 304, got %d", rec.Code)
	}
}

func TestExperiences_Category(t *testing.T) {
	h := seeded(t)
	rec := do(t, h, http.MethodGet, "/experiences?category=sky%20lounge", "")
	var exps []domain.Experience
	if err := json.Unmarshal(rec.Body.Bytes(), &exps); err != nil {
		t.Fatal(err)
	}
	if len(exps) != 1 || exps[0].Title != "Sky Lounge VR Tour" {
		t.Fatalf("got %+v", exps)
	}
}

func TestConcierge(t *testing.T) {
	h := seeded(t)

	rec := do(t, h, http.MethodPost, "/concierge", `{"dietary":["FISH"],"language":"fr"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d %s", rec.Code, rec.Body.String())
	}
	var adv struct {
		Greeting    string `json:"greeting"`
		Suggestions []struct {
			Type  string            `json:"type"`
			Items []json.RawMessage `json:"items"`
		} `json:"suggestions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &adv); err != nil {
		t.Fatal(err)
	}
	if adv.Greeting != "Welcome to the AR Hotel Universe, fr!" {
		t.Fatalf("greeting %q", adv.Greeting)
	}
	if len(adv.Suggestions) != 2 || adv.Suggestions[0].Type != "dish" || adv.Suggestions[1].Type != "experience" {
		t.Fatalf("suggestions: %s", rec.Body.String())
	}
	if len(adv.Suggestions[0].Items) != 1 || !strings.Contains(string(adv.Suggestions[0].Items[0]), "Quantum Mousse") {
		t.Fatalf("dish items: %s", rec.Body.String())
	}
	if len(adv.Suggestions[1].Items) != 2 {
		t.Fatalf("experience items: %s", rec.Body.String())
	}
}

func TestQuote_Golden(t *testing.T) {
	h := newTestServer(newMemStore(), httpserver.Options{})
	g := goldie.New(t, goldie.WithFixtureDir("testdata"), goldie.WithNameSuffix(".golden.json"))

	cases := map[string]string{
		"quote_friday":   `{"check_in":"2024-01-05","check_out":"2024-01-07","addons":["candlelight"]}`,
		"quote_saturday": `{"room_id":"r1","check_in":"2024-01-06","check_out":"2024-01-07","guests":2,"addons":["wine","wine"]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/booking/quote", body)
			if rec.Code != http.StatusOK {
				t.Fatalf("status %d %s", rec.Code, rec.Body.String())
			}
			g.Assert(t, name, rec.Body.Bytes())
		})
	}
}

func TestQuote_Errors(t *testing.T) {
	h := newTestServer(newMemStore(), httpserver.Options{})

	cases := []struct {
		name   string
		body   string
		status int
		field  string
	}{
		{"bad date", `{"check_in":"05/01/2024","check_out":"2024-01-07"}`, http.StatusBadRequest, ""},
		{"missing check_in", `{"check_out":"2024-01-07"}`, http.StatusUnprocessableEntity, "check_in"},
		{"zero guests", `{"check_in":"2024-01-05","check_out":"2024-01-07","guests":0}`, http.StatusUnprocessableEntity, "guests"},
		{"guests wrong type", `{"check_in":"2024-01-05","check_out":"2024-01-07","guests":"two"}`, http.StatusUnprocessableEntity, "guests"},
		{"malformed", `{"check_in":`, http.StatusBadRequest, ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/booking/quote", c.body)
			if rec.Code != c.status {
				t.Fatalf("status %d, want %d: %s", rec.Code, c.status, rec.Body.String())
			}
			p := decodeProblem(t, rec)
			if c.field != "" && (len(p.Errors) == 0 || p.Errors[0].Field != c.field) {
				t.Fatalf("errors: %+v", p.Errors)
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	h := newTestServer(storage.Unconfigured{}, httpserver.Options{RateLimitRPS: 0.001, RateLimitBurst: 1})

	if rec := do(t, h, http.MethodGet, "/", ""); rec.Code != http.StatusOK {
		t.Fatalf("first request: %d", rec.Code)
	}
	rec := do(t, h, http.MethodGet, "/", "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: %d", rec.Code)
	}
	if p := decodeProblem(t, rec); p.Status != http.StatusTooManyRequests {
		t.Fatalf("problem: %+v", p)
	}
}

func TestCORS_Preflight(t *testing.T) {
	h := newTestServer(storage.Unconfigured{}, httpserver.Options{})
	rec := do(t, h, http.MethodOptions, "/booking/quote", "",
		"Origin", "http://localhost:3000",
		"Access-Control-Request-Method", "POST")
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Fatalf("missing CORS header: %v", rec.Header())
	}
}
