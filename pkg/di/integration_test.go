package di

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-user-store/cache"
	"github.com/goliatone/go-user-store/usercache"
	"github.com/goliatone/go-user-store/users"
)

func newIntegrationContainer(t *testing.T) *Container {
	t.Helper()

	c, err := NewContainer(Config{
		Store: sqliteConfig(),
		Cache: cache.Config{Backend: cache.BackendMemory, SnapshotTTL: time.Minute, Codec: "json"},
	}, nil)
	if err != nil {
		t.Fatalf("failed to build container: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func snapshotState(t *testing.T, c *Container) ([]byte, bool) {
	t.Helper()

	raw, ok, err := c.CacheStore().Get(context.Background(), usercache.SnapshotKey)
	if err != nil {
		t.Fatalf("cache probe failed: %v", err)
	}
	return raw, ok
}

// TestEndToEndReadWriteFlow drives the whole stack: HTTP surface,
// coordinator, sqlite store and in-memory cache backend.
func TestEndToEndReadWriteFlow(t *testing.T) {
	c := newIntegrationContainer(t)
	h := c.Handler()

	// Fresh environment provisions its own schema.
	if rec := do(t, h, http.MethodPost, "/admin/bootstrap", ""); rec.Code != http.StatusOK {
		t.Fatalf("bootstrap failed: %d %s", rec.Code, rec.Body.String())
	}

	// Empty store: read returns an empty array and caches it.
	rec := do(t, h, http.MethodGet, "/users", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("read failed: %d %s", rec.Code, rec.Body.String())
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("expected empty array, got %s", body)
	}
	if raw, ok := snapshotState(t, c); !ok || string(raw) != "[]" {
		t.Errorf("expected cached empty snapshot, got ok=%v raw=%s", ok, raw)
	}

	// Write one user: success payload, snapshot invalidated.
	rec = do(t, h, http.MethodPost, "/users",
		`{"id":"1","name":"John","email":"john@x.com","age":30}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("write failed: %d %s", rec.Code, rec.Body.String())
	}
	var writeResp struct {
		Success bool `json:"success"`
		Count   int  `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &writeResp); err != nil {
		t.Fatalf("failed to decode write response: %v", err)
	}
	if !writeResp.Success || writeResp.Count != 1 {
		t.Errorf("expected {success:true,count:1}, got %+v", writeResp)
	}
	if _, ok := snapshotState(t, c); ok {
		t.Error("expected snapshot to be invalidated after the write")
	}

	// Read repopulates the snapshot with the persisted record.
	rec = do(t, h, http.MethodGet, "/users", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("read failed: %d %s", rec.Code, rec.Body.String())
	}
	var got []users.User
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode read response: %v", err)
	}
	if len(got) != 1 || got[0].Name != "John" || got[0].Age != 30 {
		t.Errorf("unexpected collection: %+v", got)
	}
	if _, ok := snapshotState(t, c); !ok {
		t.Error("expected snapshot repopulated after read")
	}
}

// TestCacheHitServesStaleUntilInvalidated proves the hit short-circuit at the
// integration level: rows written behind the coordinator's back stay
// invisible while the snapshot is live.
func TestCacheHitServesStaleUntilInvalidated(t *testing.T) {
	c := newIntegrationContainer(t)
	h := c.Handler()
	ctx := context.Background()

	if rec := do(t, h, http.MethodPost, "/admin/bootstrap", ""); rec.Code != http.StatusOK {
		t.Fatalf("bootstrap failed: %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/users",
		`{"id":"1","name":"John","email":"john@x.com","age":30}`); rec.Code != http.StatusOK {
		t.Fatalf("seed write failed: %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/users", ""); rec.Code != http.StatusOK {
		t.Fatalf("warm-up read failed: %d", rec.Code)
	}

	// Sneak a row in directly, without going through the coordinator.
	err := c.Store().RunInTx(ctx, func(ctx context.Context, tx bun.IDB) error {
		return c.Store().UpsertTx(ctx, tx, users.User{ID: "2", Name: "Sneaky", Email: "s@x.com", Age: 99})
	})
	if err != nil {
		t.Fatalf("direct write failed: %v", err)
	}

	// The live snapshot still answers: one record.
	rec := do(t, h, http.MethodGet, "/users", "")
	var got []users.User
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode read response: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected the cached single-record snapshot, got %d records", len(got))
	}

	// A coordinator write invalidates; the next read sees both rows.
	if rec := do(t, h, http.MethodPost, "/users",
		`{"id":"1","name":"John Updated","email":"j2@x.com","age":31}`); rec.Code != http.StatusOK {
		t.Fatalf("update write failed: %d", rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/users", "")
	got = nil
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode read response: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records after invalidation, got %d", len(got))
	}
	if got[0].ID != "1" || got[0].Name != "John Updated" || got[0].Email != "j2@x.com" || got[0].Age != 31 {
		t.Errorf("updated row mismatch: %+v", got[0])
	}
	if got[1].ID != "2" {
		t.Errorf("expected the direct write to surface, got %+v", got[1])
	}
}
