package events

import (
	"github.com/Tyno1/bitescout-api/internal/types"
)

// Publisher interface for publishing notification events.
type Publisher interface {
	PublishMediaVerified(mediaID, ownerID, verifiedBy string, verified bool) error
	PublishMediaLinked(mediaID, ownerID, restaurantID string) error
	PublishPostLiked(postID, ownerID, likedBy string) error
}

// WebSocketHub is the subset of the hub the publisher needs.
type WebSocketHub interface {
	BroadcastToUser(userID string, event *types.Event)
	IsUserConnected(userID string) bool
}

// EventPublisher implements the Publisher interface over the WebSocket hub.
type EventPublisher struct {
	hub WebSocketHub
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(hub WebSocketHub) *EventPublisher {
	return &EventPublisher{
		hub: hub,
	}
}

// PublishMediaVerified notifies the uploader about a verification toggle.
func (p *EventPublisher) PublishMediaVerified(mediaID, ownerID, verifiedBy string, verified bool) error {
	if ownerID == verifiedBy {
		return nil
	}
	if !p.hub.IsUserConnected(ownerID) {
		return nil
	}

	event := types.NewEvent(types.EventMediaVerified, &types.MediaVerifiedEvent{
		MediaID:    mediaID,
		Verified:   verified,
		VerifiedBy: verifiedBy,
	})
	p.hub.BroadcastToUser(ownerID, event)

	return nil
}

// PublishMediaLinked notifies the uploader that their media entered a
// restaurant gallery.
func (p *EventPublisher) PublishMediaLinked(mediaID, ownerID, restaurantID string) error {
	if !p.hub.IsUserConnected(ownerID) {
		return nil
	}

	event := types.NewEvent(types.EventMediaLinked, &types.MediaLinkedEvent{
		MediaID:      mediaID,
		RestaurantID: restaurantID,
	})
	p.hub.BroadcastToUser(ownerID, event)

	return nil
}

// PublishPostLiked notifies the post owner about a new like.
func (p *EventPublisher) PublishPostLiked(postID, ownerID, likedBy string) error {
	// Don't notify the owner about their own like.
	if ownerID == likedBy {
		return nil
	}
	if !p.hub.IsUserConnected(ownerID) {
		return nil
	}

	event := types.NewEvent(types.EventPostLiked, &types.PostLikedEvent{
		PostID:  postID,
		LikedBy: likedBy,
	})
	p.hub.BroadcastToUser(ownerID, event)

	return nil
}
