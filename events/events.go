package events

import (
	"context"
	"time"
)

const (
	PostCreated     = "post.created"
	PostUpdated     = "post.updated"
	PostDeactivated = "post.deactivated"
	PostRecovered   = "post.recovered"
	PostDeleted     = "post.deleted"
	PostLiked       = "post.liked"
	PostUnliked     = "post.unliked"
)

// Event is a post lifecycle notification, published after the change commits.
type Event struct {
	Type       string    `json:"type"`
	PostID     uint      `json:"postId"`
	UserID     uint      `json:"userId"`
	OccurredAt time.Time `json:"occurredAt"`
}

func New(eventType string, postID, userID uint) Event {
	return Event{
		Type:       eventType,
		PostID:     postID,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
