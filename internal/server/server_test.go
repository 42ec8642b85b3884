package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/playperu/geohunt/internal/database"
	"github.com/playperu/geohunt/internal/handler/health"
	"github.com/playperu/geohunt/internal/migrations"
	"github.com/playperu/geohunt/internal/store"
	"github.com/playperu/geohunt/internal/verify"
)

const (
	testAdminEmail    = "admin@geohunt.test"
	testAdminPassword = "changeme"
)

var testNow = time.Date(2025, 6, 4, 10, 0, 0, 0, time.UTC)

type fakeClassifier struct {
	result verify.Classification
	err    error
}

func (f fakeClassifier) Classify(context.Context, string, []byte, string) (verify.Classification, error) {
	return f.result, f.err
}

type testEnv struct {
	handler http.Handler
	store   *store.Store
}

// newTestEnv builds the full router over an in-memory store seeded with the
// default questions and one admin. The countdown ticker is disabled.
func newTestEnv(t *testing.T, configure ...func(*Deps)) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, database.Memory)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := migrations.Run(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	st := store.New(db, nil)
	if _, err := st.SeedDefaultQuestions(ctx); err != nil {
		t.Fatalf("seed questions: %v", err)
	}
	if _, err := st.EnsureAdmin(ctx, testAdminEmail, testAdminPassword); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	deps := Deps{
		Store: st,
		Now:   func() time.Time { return testNow },
	}
	for _, fn := range configure {
		fn(&deps)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(":0", logger, deps)
	t.Cleanup(srv.games.Close)

	return &testEnv{handler: srv.srv.Handler, store: st}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response: %v (body %q)", err, w.Body.String())
	}
	return v
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, w.Code, w.Body.String())
	}
}

func expectField(t *testing.T, w *httptest.ResponseRecorder, field string) {
	t.Helper()
	expectStatus(t, w, http.StatusBadRequest)
	resp := decode[ErrorResponse](t, w)
	if resp.Field != field {
		t.Errorf("field = %q, want %q (error %q)", resp.Field, field, resp.Error)
	}
}

func ptr[T any](v T) *T { return &v }

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, func(d *Deps) {
		d.Checks = map[string]health.Checker{"sqlite": okChecker{}}
	})

	w := env.do(t, http.MethodGet, "/healthz", nil)
	expectStatus(t, w, http.StatusOK)
	body := decode[map[string]HealthStatus](t, w)
	if body["sqlite"].Status != "ok" {
		t.Errorf("sqlite status = %q, want ok", body["sqlite"].Status)
	}
}

type okChecker struct{}

func (okChecker) Check(context.Context) error { return nil }

func TestDefaultClockIsUTC(t *testing.T) {
	a := newApp(slog.New(slog.NewTextHandler(io.Discard, nil)), Deps{})
	t.Cleanup(a.games.Close)

	if loc := a.now().Location(); loc != time.UTC {
		t.Errorf("default clock location = %v, want UTC", loc)
	}
}
