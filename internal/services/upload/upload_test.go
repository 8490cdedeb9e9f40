package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/Tyno1/bitescout-api/internal/hooks"
	"github.com/Tyno1/bitescout-api/internal/services/linker"
	"github.com/Tyno1/bitescout-api/internal/services/objectstore"
	"github.com/Tyno1/bitescout-api/internal/storage"
	"github.com/Tyno1/bitescout-api/internal/types"
)

// failMime marks a file the fake provider rejects.
const failMime = "image/x-fail"

type fakeProvider struct {
	mu          sync.Mutex
	storeCalls  int
	deleteCalls int
}

func (f *fakeProvider) Store(ctx context.Context, r io.Reader, size int64, contentType, folder string) (objectstore.StoredObject, error) {
	f.mu.Lock()
	f.storeCalls++
	f.mu.Unlock()

	if contentType == failMime {
		return objectstore.StoredObject{}, errors.New("provider unavailable")
	}
	return objectstore.StoredObject{
		URL:        "https://cdn.example.com/" + folder + "/object",
		ProviderID: "object_key",
		Provider:   types.ProviderMinIO,
		MimeType:   contentType,
		FileSize:   size,
	}, nil
}

func (f *fakeProvider) Delete(ctx context.Context, objectKey string) error {
	f.mu.Lock()
	f.deleteCalls++
	f.mu.Unlock()
	return nil
}

type fakeStorage struct {
	storage.Storage

	mu          sync.Mutex
	created     []types.Media
	createErr   error
	galleryAdds int
}

func (f *fakeStorage) CreateMedia(ctx context.Context, uploadedBy string, input types.CreateMediaRequest) (types.Media, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return types.Media{}, f.createErr
	}
	media := types.Media{
		ID:             fmt.Sprintf("media_%d", len(f.created)+1),
		URL:            input.URL,
		Type:           input.Type,
		UploadedBy:     types.Uploader{ID: uploadedBy},
		AssociatedWith: input.AssociatedWith,
		MimeType:       input.MimeType,
		FileSize:       input.FileSize,
		Provider:       input.Provider,
		ProviderID:     input.ProviderID,
	}
	f.created = append(f.created, media)
	return media, nil
}

func (f *fakeStorage) AddToRestaurantGallery(ctx context.Context, restaurantID, mediaID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.galleryAdds++
	return nil
}

func newTestOrchestrator(provider *fakeProvider, st *fakeStorage) *Orchestrator {
	runner := hooks.NewRunner(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewOrchestrator(provider, st, linker.New(st), runner)
}

func testFile(contentType string) File {
	return File{
		Reader:      strings.NewReader("payload"),
		Size:        7,
		ContentType: contentType,
		FileName:    "photo.png",
	}
}

func TestUpload_Success(t *testing.T) {
	provider := &fakeProvider{}
	st := &fakeStorage{}
	o := newTestOrchestrator(provider, st)

	media, err := o.Upload(context.Background(), "user_1", testFile("image/png"), Metadata{
		Title:  "lunch",
		Folder: "uploads",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if media.Type != types.MediaTypeImage {
		t.Errorf("expected image type, got %s", media.Type)
	}
	if media.UploadedBy.ID != "user_1" {
		t.Errorf("expected uploader user_1, got %s", media.UploadedBy.ID)
	}
	if len(st.created) != 1 {
		t.Fatalf("expected 1 record, got %d", len(st.created))
	}
}

func TestUpload_NoActor(t *testing.T) {
	provider := &fakeProvider{}
	st := &fakeStorage{}
	o := newTestOrchestrator(provider, st)

	_, err := o.Upload(context.Background(), "", testFile("image/png"), Metadata{})
	if err == nil {
		t.Fatal("expected error")
	}
	if provider.storeCalls != 0 {
		t.Errorf("expected no provider call, got %d", provider.storeCalls)
	}
}

func TestUpload_ProviderFailureIsAtomic(t *testing.T) {
	provider := &fakeProvider{}
	st := &fakeStorage{}
	o := newTestOrchestrator(provider, st)

	_, err := o.Upload(context.Background(), "user_1", testFile(failMime), Metadata{})
	if err == nil {
		t.Fatal("expected error")
	}

	// Provider failure must not leave a media record behind.
	if len(st.created) != 0 {
		t.Errorf("expected no records, got %d", len(st.created))
	}
}

func TestUpload_RecordFailureLeavesBlobAlone(t *testing.T) {
	provider := &fakeProvider{}
	st := &fakeStorage{createErr: errors.New("insert failed")}
	o := newTestOrchestrator(provider, st)

	_, err := o.Upload(context.Background(), "user_1", testFile("image/png"), Metadata{})
	if err == nil {
		t.Fatal("expected error")
	}

	// The stored blob is orphaned; no compensating delete is attempted.
	if provider.deleteCalls != 0 {
		t.Errorf("expected no provider delete, got %d", provider.deleteCalls)
	}
}

func TestUpload_LinksAssociation(t *testing.T) {
	provider := &fakeProvider{}
	st := &fakeStorage{}
	o := newTestOrchestrator(provider, st)

	_, err := o.Upload(context.Background(), "user_1", testFile("image/png"), Metadata{
		AssociatedWith: &types.AssociatedWith{Type: types.AssociationRestaurant, ID: "rest_1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if st.galleryAdds != 1 {
		t.Errorf("expected 1 gallery add, got %d", st.galleryAdds)
	}
}

func TestUploadBatch_PartialFailure(t *testing.T) {
	provider := &fakeProvider{}
	st := &fakeStorage{}
	o := newTestOrchestrator(provider, st)

	files := []File{
		testFile("image/png"),
		testFile(failMime),
		testFile("video/mp4"),
	}

	results := o.UploadBatch(context.Background(), "user_1", files, Metadata{})

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Err != nil {
		t.Errorf("expected file 1 to succeed, got %v", results[0].Err)
	}
	if results[1].Err == nil {
		t.Error("expected file 2 to fail")
	}
	if results[2].Err != nil {
		t.Errorf("expected file 3 to succeed, got %v", results[2].Err)
	}
	if results[2].Media.Type != types.MediaTypeVideo {
		t.Errorf("expected video type for file 3, got %s", results[2].Media.Type)
	}
}
