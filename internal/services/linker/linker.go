// Package linker mirrors a media record's association into the target
// entity's own reference list.
package linker

import (
	"context"
	"fmt"

	"github.com/Tyno1/bitescout-api/internal/storage"
	"github.com/Tyno1/bitescout-api/internal/types"
)

type Linker struct {
	storage storage.Storage
}

func New(st storage.Storage) *Linker {
	return &Linker{storage: st}
}

// Link reflects the media's association into the associated entity. Only the
// restaurant gallery is wired up today; the other association types are
// persisted on the media record but not mirrored anywhere. Linking is
// idempotent: the gallery is a set, so re-linking adds nothing.
func (l *Linker) Link(ctx context.Context, media types.Media) error {
	if media.AssociatedWith == nil || media.AssociatedWith.IsZero() {
		return nil
	}

	switch media.AssociatedWith.Type {
	case types.AssociationRestaurant:
		return l.storage.AddToRestaurantGallery(ctx, media.AssociatedWith.ID, media.ID)
	case types.AssociationPost:
		// Posts own their media list; no reverse link is maintained here.
		return nil
	case types.AssociationDish:
		// Dish pages read media through the association index.
		return nil
	case types.AssociationUser:
		// User avatars are set explicitly on the user record.
		return nil
	default:
		return fmt.Errorf("unknown association type %q", media.AssociatedWith.Type)
	}
}
