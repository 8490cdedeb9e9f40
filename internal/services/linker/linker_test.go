package linker

import (
	"context"
	"testing"

	"github.com/Tyno1/bitescout-api/internal/storage"
	"github.com/Tyno1/bitescout-api/internal/types"
)

type fakeStorage struct {
	storage.Storage

	galleryAdds [][2]string
}

func (f *fakeStorage) AddToRestaurantGallery(ctx context.Context, restaurantID, mediaID string) error {
	f.galleryAdds = append(f.galleryAdds, [2]string{restaurantID, mediaID})
	return nil
}

func TestLink_Restaurant(t *testing.T) {
	fake := &fakeStorage{}
	lk := New(fake)

	media := types.Media{
		ID:             "media_1",
		AssociatedWith: &types.AssociatedWith{Type: types.AssociationRestaurant, ID: "rest_1"},
	}

	if err := lk.Link(context.Background(), media); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fake.galleryAdds) != 1 {
		t.Fatalf("expected 1 gallery add, got %d", len(fake.galleryAdds))
	}
	if fake.galleryAdds[0] != [2]string{"rest_1", "media_1"} {
		t.Errorf("unexpected gallery add: %v", fake.galleryAdds[0])
	}
}

func TestLink_NonRestaurantTypesAreNoOps(t *testing.T) {
	fake := &fakeStorage{}
	lk := New(fake)

	for _, assocType := range []types.AssociationType{
		types.AssociationPost,
		types.AssociationDish,
		types.AssociationUser,
	} {
		media := types.Media{
			ID:             "media_1",
			AssociatedWith: &types.AssociatedWith{Type: assocType, ID: "entity_1"},
		}
		if err := lk.Link(context.Background(), media); err != nil {
			t.Errorf("expected no error for %s, got %v", assocType, err)
		}
	}

	if len(fake.galleryAdds) != 0 {
		t.Errorf("expected no gallery adds, got %d", len(fake.galleryAdds))
	}
}

func TestLink_Unassociated(t *testing.T) {
	fake := &fakeStorage{}
	lk := New(fake)

	if err := lk.Link(context.Background(), types.Media{ID: "media_1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.galleryAdds) != 0 {
		t.Errorf("expected no gallery adds, got %d", len(fake.galleryAdds))
	}
}

func TestLink_UnknownType(t *testing.T) {
	fake := &fakeStorage{}
	lk := New(fake)

	media := types.Media{
		ID:             "media_1",
		AssociatedWith: &types.AssociatedWith{Type: "venue", ID: "v_1"},
	}

	if err := lk.Link(context.Background(), media); err == nil {
		t.Fatal("expected error for unknown association type")
	}
}
