package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Tyno1/bitescout-api/internal/types"
)

func mediaServer(t *testing.T, hits *int64) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(hits, 1)

		media := types.Media{
			ID:       "media_1",
			URL:      "https://cdn.example.com/media_1",
			Type:     types.MediaTypeImage,
			Verified: strings.HasSuffix(r.URL.Path, "/verify"),
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status": "success",
			"data":   media,
		})
	}))
}

func TestGetMedia_FreshHitSkipsServer(t *testing.T) {
	var hits int64
	srv := mediaServer(t, &hits)
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		media, err := c.GetMedia(ctx, "media_1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if media.ID != "media_1" {
			t.Fatalf("unexpected media: %+v", media)
		}
	}

	if n := atomic.LoadInt64(&hits); n != 1 {
		t.Errorf("expected 1 server hit, got %d", n)
	}
}

func TestGetMedia_StaleServedWhileRefetching(t *testing.T) {
	var hits int64
	srv := mediaServer(t, &hits)
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()

	if _, err := c.GetMedia(ctx, "media_1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Age the entry past the staleness window but inside the grace window.
	now := time.Now()
	c.cache.now = func() time.Time { return now.Add(6 * time.Minute) }

	media, err := c.GetMedia(ctx, "media_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if media.ID != "media_1" {
		t.Fatalf("expected stale value to be served, got %+v", media)
	}

	// The background refetch should land shortly.
	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt64(&hits) < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if n := atomic.LoadInt64(&hits); n != 2 {
		t.Errorf("expected background refetch, got %d hits", n)
	}
}

func TestGetMedia_EvictedAfterGrace(t *testing.T) {
	var hits int64
	srv := mediaServer(t, &hits)
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()

	if _, err := c.GetMedia(ctx, "media_1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	now := time.Now()
	c.cache.now = func() time.Time { return now.Add(11 * time.Minute) }

	if _, err := c.GetMedia(ctx, "media_1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Past the grace window the entry is gone, so this is a synchronous miss.
	if n := atomic.LoadInt64(&hits); n != 2 {
		t.Errorf("expected synchronous refetch after eviction, got %d hits", n)
	}
}

func TestVerifyMedia_InvalidatesDetail(t *testing.T) {
	var hits int64
	srv := mediaServer(t, &hits)
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()

	if _, err := c.GetMedia(ctx, "media_1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := c.VerifyMedia(ctx, "media_1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := c.GetMedia(ctx, "media_1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Three server hits: initial read, verify, fresh read after invalidation.
	if n := atomic.LoadInt64(&hits); n != 3 {
		t.Errorf("expected 3 server hits, got %d", n)
	}
}

func TestAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"status": "error",
			"error":  "media not found",
		})
	}))
	defer srv.Close()

	c := New(srv.URL)

	_, err := c.GetMedia(context.Background(), "missing")
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", apiErr.StatusCode)
	}
	if apiErr.Message != "media not found" {
		t.Errorf("unexpected message: %q", apiErr.Message)
	}
}
