package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Tyno1/bitescout-api/internal/events"
	"github.com/Tyno1/bitescout-api/internal/hooks"
	"github.com/Tyno1/bitescout-api/internal/http/middleware"
	"github.com/Tyno1/bitescout-api/internal/services/linker"
	"github.com/Tyno1/bitescout-api/internal/storage"
	"github.com/Tyno1/bitescout-api/internal/types"
	"github.com/Tyno1/bitescout-api/internal/types/users"
	"github.com/Tyno1/bitescout-api/internal/utils/apperr"
)

type fakeStorage struct {
	storage.Storage

	media       types.Media
	deleted     []string
	toggled     int
	galleryAdds int
}

func (f *fakeStorage) GetMediaByID(ctx context.Context, id string) (types.Media, error) {
	if id != f.media.ID {
		return types.Media{}, fmt.Errorf("%w: media %s", apperr.ErrNotFound, id)
	}
	return f.media, nil
}

func (f *fakeStorage) UpdateMedia(ctx context.Context, id string, patch types.UpdateMediaRequest) (types.Media, error) {
	if patch.Title != nil {
		f.media.Title = *patch.Title
	}
	if patch.AssociatedWith != nil {
		f.media.AssociatedWith = patch.AssociatedWith
	}
	return f.media, nil
}

func (f *fakeStorage) DeleteMedia(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStorage) ToggleMediaVerified(ctx context.Context, id string) (types.Media, error) {
	f.toggled++
	f.media.Verified = !f.media.Verified
	return f.media, nil
}

func (f *fakeStorage) AddToRestaurantGallery(ctx context.Context, restaurantID, mediaID string) error {
	f.galleryAdds++
	return nil
}

func (f *fakeStorage) ListMediaByUploader(ctx context.Context, userID string, page, limit int) (types.MediaPage, error) {
	return types.MediaPage{
		Items:      []types.Media{f.media},
		Pagination: types.NewPagination(page, limit, 45),
	}, nil
}

// nopPublisher drops every event.
type nopPublisher struct{}

func (nopPublisher) PublishMediaVerified(mediaID, uploaderID, verifierID string, verified bool) error {
	return nil
}
func (nopPublisher) PublishMediaLinked(mediaID, uploaderID, restaurantID string) error { return nil }
func (nopPublisher) PublishPostLiked(postID, ownerID, likerID string) error           { return nil }

var _ events.Publisher = nopPublisher{}

func newTestHandlers(st *fakeStorage) *MediaHandlers {
	runner := hooks.NewRunner(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewMediaHandlers(st, nil, linker.New(st), runner, nopPublisher{})
}

func requestAs(method, target string, body io.Reader, actor middleware.Actor) *http.Request {
	req := httptest.NewRequest(method, target, body)
	ctx := context.WithValue(req.Context(), middleware.ActorKey, actor)
	return req.WithContext(ctx)
}

func ownedMedia() types.Media {
	return types.Media{
		ID:         "media_1",
		URL:        "https://cdn.example.com/media_1",
		Type:       types.MediaTypeImage,
		UploadedBy: types.Uploader{ID: "owner_1"},
	}
}

func TestUpdate_OwnerOnly(t *testing.T) {
	st := &fakeStorage{media: ownedMedia()}
	h := newTestHandlers(st)

	body, _ := json.Marshal(map[string]string{"title": "new title"})
	req := requestAs(http.MethodPatch, "/media/media_1", bytes.NewReader(body),
		middleware.Actor{ID: "someone_else", Role: users.RoleUser})
	req.SetPathValue("id", "media_1")

	rec := httptest.NewRecorder()
	h.Update().ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
	if st.media.Title != "" {
		t.Errorf("expected no update, got title %q", st.media.Title)
	}
}

func TestUpdate_ByOwner(t *testing.T) {
	st := &fakeStorage{media: ownedMedia()}
	h := newTestHandlers(st)

	body, _ := json.Marshal(map[string]string{"title": "new title"})
	req := requestAs(http.MethodPatch, "/media/media_1", bytes.NewReader(body),
		middleware.Actor{ID: "owner_1", Role: users.RoleUser})
	req.SetPathValue("id", "media_1")

	rec := httptest.NewRecorder()
	h.Update().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if st.media.Title != "new title" {
		t.Errorf("expected title update, got %q", st.media.Title)
	}
}

func TestDelete_OwnerOnly(t *testing.T) {
	st := &fakeStorage{media: ownedMedia()}
	h := newTestHandlers(st)

	req := requestAs(http.MethodDelete, "/media/media_1", nil,
		middleware.Actor{ID: "someone_else", Role: users.RoleUser})
	req.SetPathValue("id", "media_1")

	rec := httptest.NewRecorder()
	h.Delete().ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
	if len(st.deleted) != 0 {
		t.Errorf("expected no delete, got %v", st.deleted)
	}
}

func TestToggleVerified_RequiresModeration(t *testing.T) {
	st := &fakeStorage{media: ownedMedia()}
	h := newTestHandlers(st)

	req := requestAs(http.MethodPost, "/media/media_1/verify", nil,
		middleware.Actor{ID: "owner_1", Role: users.RoleUser})
	req.SetPathValue("id", "media_1")

	rec := httptest.NewRecorder()
	h.ToggleVerified().ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for regular user, got %d", rec.Code)
	}
	if st.toggled != 0 {
		t.Errorf("expected no toggle, got %d", st.toggled)
	}
}

func TestToggleVerified_DoubleToggleRestoresState(t *testing.T) {
	st := &fakeStorage{media: ownedMedia()}
	h := newTestHandlers(st)

	moderator := middleware.Actor{ID: "mod_1", Role: users.RoleModerator}

	for i := 0; i < 2; i++ {
		req := requestAs(http.MethodPost, "/media/media_1/verify", nil, moderator)
		req.SetPathValue("id", "media_1")
		rec := httptest.NewRecorder()
		h.ToggleVerified().ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("toggle %d: expected 200, got %d", i+1, rec.Code)
		}
	}

	if st.media.Verified {
		t.Error("expected verified=false after double toggle")
	}
}

func TestListByUploader_PaginationMetadata(t *testing.T) {
	st := &fakeStorage{media: ownedMedia()}
	h := newTestHandlers(st)

	req := httptest.NewRequest(http.MethodGet, "/media/user/owner_1?page=2&limit=20", nil)
	req.SetPathValue("user_id", "owner_1")

	rec := httptest.NewRecorder()
	h.ListByUploader().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var envelope struct {
		Data types.MediaPage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	p := envelope.Data.Pagination
	if p.Page != 2 || p.Total != 45 || p.TotalPages != 3 {
		t.Errorf("unexpected pagination: %+v", p)
	}
	if !p.HasNext || !p.HasPrev {
		t.Errorf("expected has_next and has_prev on middle page, got %+v", p)
	}
}

func TestParsePagination_Defaults(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/media/verified", nil)
	page, limit := parsePagination(req)
	if page != 1 || limit != 20 {
		t.Errorf("expected defaults 1/20, got %d/%d", page, limit)
	}

	req = httptest.NewRequest(http.MethodGet, "/media/verified?page=0&limit=500", nil)
	page, limit = parsePagination(req)
	if page != 1 || limit != 20 {
		t.Errorf("expected out-of-range values to fall back to 1/20, got %d/%d", page, limit)
	}
}
