package posts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/Tyno1/bitescout-api/internal/hooks"
	"github.com/Tyno1/bitescout-api/internal/http/middleware"
	"github.com/Tyno1/bitescout-api/internal/storage"
	"github.com/Tyno1/bitescout-api/internal/types"
	"github.com/Tyno1/bitescout-api/internal/types/users"
	"github.com/Tyno1/bitescout-api/internal/utils/apperr"
)

type fakeStorage struct {
	storage.Storage

	post     types.Post
	upserted []types.TaggedFood
	removed  []string
	liked    bool
}

func (f *fakeStorage) GetPostByID(ctx context.Context, id string) (types.Post, error) {
	if id != f.post.ID {
		return types.Post{}, fmt.Errorf("%w: post %s", apperr.ErrNotFound, id)
	}
	return f.post, nil
}

func (f *fakeStorage) TogglePostLike(ctx context.Context, postID, userID string) (bool, error) {
	f.liked = !f.liked
	return f.liked, nil
}

func (f *fakeStorage) UpsertFoodTag(ctx context.Context, postID string, tag types.TaggedFood) error {
	f.upserted = append(f.upserted, tag)
	return nil
}

func (f *fakeStorage) RemoveFoodTag(ctx context.Context, postID, foodCatalogueID string) error {
	for _, tag := range f.post.TaggedFoods {
		if tag.FoodCatalogueID == foodCatalogueID {
			f.removed = append(f.removed, foodCatalogueID)
			return nil
		}
	}
	return fmt.Errorf("%w: no tag for food %s", apperr.ErrNotFound, foodCatalogueID)
}

type fakeRecomputer struct {
	mu    sync.Mutex
	foods []string
}

func (f *fakeRecomputer) Recompute(ctx context.Context, foodCatalogueID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.foods = append(f.foods, foodCatalogueID)
	return nil
}

type nopPublisher struct{}

func (nopPublisher) PublishMediaVerified(mediaID, ownerID, verifiedBy string, verified bool) error {
	return nil
}
func (nopPublisher) PublishMediaLinked(mediaID, ownerID, restaurantID string) error { return nil }
func (nopPublisher) PublishPostLiked(postID, ownerID, likedBy string) error         { return nil }

func newTestHandlers(st *fakeStorage) (*PostHandlers, *fakeRecomputer) {
	rec := &fakeRecomputer{}
	runner := hooks.NewRunner(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewPostHandlers(st, rec, runner, nopPublisher{}), rec
}

func requestAs(method, target string, body io.Reader, actor middleware.Actor) *http.Request {
	req := httptest.NewRequest(method, target, body)
	ctx := context.WithValue(req.Context(), middleware.ActorKey, actor)
	return req.WithContext(ctx)
}

func taggedPost() types.Post {
	return types.Post{
		ID:     "post_1",
		UserID: "owner_1",
		TaggedFoods: []types.TaggedFood{
			{FoodCatalogueID: "food_1", TagType: types.TagPrimary},
		},
	}
}

func TestTagFood_OwnerOnly(t *testing.T) {
	st := &fakeStorage{post: taggedPost()}
	h, rec := newTestHandlers(st)

	body, _ := json.Marshal(types.TagFoodRequest{FoodCatalogueID: "food_2", TagType: types.TagPrimary})
	req := requestAs(http.MethodPost, "/posts/post_1/tag", bytes.NewReader(body),
		middleware.Actor{ID: "someone_else", Role: users.RoleUser})
	req.SetPathValue("id", "post_1")

	w := httptest.NewRecorder()
	h.TagFood().ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
	if len(st.upserted) != 0 {
		t.Errorf("expected no upsert, got %v", st.upserted)
	}
	if len(rec.foods) != 0 {
		t.Errorf("expected no recompute, got %v", rec.foods)
	}
}

func TestTagFood_TriggersRecompute(t *testing.T) {
	st := &fakeStorage{post: taggedPost()}
	h, rec := newTestHandlers(st)

	body, _ := json.Marshal(types.TagFoodRequest{FoodCatalogueID: "food_2", TagType: types.TagReviewed})
	req := requestAs(http.MethodPost, "/posts/post_1/tag", bytes.NewReader(body),
		middleware.Actor{ID: "owner_1", Role: users.RoleUser})
	req.SetPathValue("id", "post_1")

	w := httptest.NewRecorder()
	h.TagFood().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(st.upserted) != 1 || st.upserted[0].FoodCatalogueID != "food_2" {
		t.Errorf("unexpected upserts: %v", st.upserted)
	}
	if len(rec.foods) != 1 || rec.foods[0] != "food_2" {
		t.Errorf("expected recompute for food_2, got %v", rec.foods)
	}
}

func TestTagFood_InvalidTagType(t *testing.T) {
	st := &fakeStorage{post: taggedPost()}
	h, _ := newTestHandlers(st)

	body, _ := json.Marshal(types.TagFoodRequest{FoodCatalogueID: "food_2", TagType: "favorite"})
	req := requestAs(http.MethodPost, "/posts/post_1/tag", bytes.NewReader(body),
		middleware.Actor{ID: "owner_1", Role: users.RoleUser})
	req.SetPathValue("id", "post_1")

	w := httptest.NewRecorder()
	h.TagFood().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestUntagFood_MissingTagIs404(t *testing.T) {
	st := &fakeStorage{post: taggedPost()}
	h, rec := newTestHandlers(st)

	req := requestAs(http.MethodDelete, "/posts/post_1/tag/food_unknown", nil,
		middleware.Actor{ID: "owner_1", Role: users.RoleUser})
	req.SetPathValue("id", "post_1")
	req.SetPathValue("food_id", "food_unknown")

	w := httptest.NewRecorder()
	h.UntagFood().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if len(rec.foods) != 0 {
		t.Errorf("expected no recompute, got %v", rec.foods)
	}
}

func TestToggleLike_RecomputesTaggedFoods(t *testing.T) {
	st := &fakeStorage{post: taggedPost()}
	h, rec := newTestHandlers(st)

	req := requestAs(http.MethodPost, "/posts/post_1/like", nil,
		middleware.Actor{ID: "liker_1", Role: users.RoleUser})
	req.SetPathValue("id", "post_1")

	w := httptest.NewRecorder()
	h.ToggleLike().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(rec.foods) != 1 || rec.foods[0] != "food_1" {
		t.Errorf("expected recompute for food_1, got %v", rec.foods)
	}
}
