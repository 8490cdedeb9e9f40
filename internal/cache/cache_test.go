package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"

	"github.com/Tyno1/bitescout-api/internal/storage"
	"github.com/Tyno1/bitescout-api/internal/types"
)

// setupTestRedis creates an in-memory Redis server for testing
func setupTestRedis(t *testing.T) (*redis.Client, func()) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
		DB:   0,
	})

	cleanup := func() {
		redisClient.Close()
		mr.Close()
	}

	return redisClient, cleanup
}

// fakeStorage counts reads so cache hits are observable, and lets tests flip
// the stored state between calls.
type fakeStorage struct {
	storage.Storage

	media        types.Media
	getCalls     int
	verifiedPage types.MediaPage
	listCalls    int
}

func (f *fakeStorage) GetMediaByID(ctx context.Context, id string) (types.Media, error) {
	f.getCalls++
	return f.media, nil
}

func (f *fakeStorage) UpdateMedia(ctx context.Context, id string, patch types.UpdateMediaRequest) (types.Media, error) {
	if patch.Title != nil {
		f.media.Title = *patch.Title
	}
	return f.media, nil
}

func (f *fakeStorage) ToggleMediaVerified(ctx context.Context, id string) (types.Media, error) {
	f.media.Verified = !f.media.Verified
	if f.media.Verified {
		f.verifiedPage = types.MediaPage{Items: []types.Media{f.media}}
	} else {
		f.verifiedPage = types.MediaPage{}
	}
	return f.media, nil
}

func (f *fakeStorage) ListVerifiedMedia(ctx context.Context, page, limit int, typeFilter types.AssociationType) (types.MediaPage, error) {
	f.listCalls++
	return f.verifiedPage, nil
}

func testMedia() types.Media {
	return types.Media{
		ID:         "media_1",
		URL:        "https://cdn.example.com/media_1",
		Type:       types.MediaTypeImage,
		UploadedBy: types.Uploader{ID: "user_1"},
	}
}

func TestGetMediaByID_CachesSecondRead(t *testing.T) {
	redisClient, cleanup := setupTestRedis(t)
	defer cleanup()

	fake := &fakeStorage{media: testMedia()}
	svc := NewCacheService(fake, redisClient)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		media, err := svc.GetMediaByID(ctx, "media_1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if media.ID != "media_1" {
			t.Fatalf("unexpected media: %+v", media)
		}
	}

	if fake.getCalls != 1 {
		t.Errorf("expected 1 storage read, got %d", fake.getCalls)
	}
}

func TestUpdateMedia_InvalidatesDetail(t *testing.T) {
	redisClient, cleanup := setupTestRedis(t)
	defer cleanup()

	fake := &fakeStorage{media: testMedia()}
	svc := NewCacheService(fake, redisClient)
	ctx := context.Background()

	// Prime the detail cache.
	if _, err := svc.GetMediaByID(ctx, "media_1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	title := "renamed"
	if _, err := svc.UpdateMedia(ctx, "media_1", types.UpdateMediaRequest{Title: &title}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	media, err := svc.GetMediaByID(ctx, "media_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if media.Title != "renamed" {
		t.Errorf("expected fresh title after invalidation, got %q", media.Title)
	}
}

func TestToggleVerified_InvalidatesVerifiedList(t *testing.T) {
	redisClient, cleanup := setupTestRedis(t)
	defer cleanup()

	fake := &fakeStorage{media: testMedia()}
	svc := NewCacheService(fake, redisClient)
	ctx := context.Background()

	// Prime the verified list cache while the media is unverified.
	page, err := svc.ListVerifiedMedia(ctx, 1, 20, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Items) != 0 {
		t.Fatalf("expected empty verified list, got %d items", len(page.Items))
	}

	if _, err := svc.ToggleMediaVerified(ctx, "media_1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The cached empty page must not be served after the toggle.
	page, err = svc.ListVerifiedMedia(ctx, 1, 20, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Items) != 1 {
		t.Errorf("expected verified list to reflect the toggle, got %d items", len(page.Items))
	}
	if fake.listCalls != 2 {
		t.Errorf("expected 2 storage list reads, got %d", fake.listCalls)
	}
}
