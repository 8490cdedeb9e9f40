package types

import "time"

// EventType represents the type of real-time event
type EventType string

const (
	EventMediaVerified EventType = "media.verified"
	EventMediaLinked   EventType = "media.linked"
	EventPostLiked     EventType = "post.liked"
)

// Event represents a real-time event that can be sent over WebSocket
type Event struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

// MediaVerifiedEvent notifies the uploader that a moderator toggled the
// verification flag on their media.
type MediaVerifiedEvent struct {
	MediaID    string `json:"media_id"`
	Verified   bool   `json:"verified"`
	VerifiedBy string `json:"verified_by"`
}

// MediaLinkedEvent notifies the uploader that their media was mirrored into
// a restaurant gallery.
type MediaLinkedEvent struct {
	MediaID      string `json:"media_id"`
	RestaurantID string `json:"restaurant_id"`
}

// PostLikedEvent notifies a post owner about a new like.
type PostLikedEvent struct {
	PostID  string `json:"post_id"`
	LikedBy string `json:"liked_by"`
}

// NewEvent creates a new event with the current timestamp
func NewEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
