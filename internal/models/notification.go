package models

import (
	"fmt"
	"time"
)

// NotificationType categorizes a notification
type NotificationType string

const (
	NotificationReview NotificationType = "review"
	NotificationShare  NotificationType = "share"
	NotificationAlert  NotificationType = "alert"
)

// Notification is addressed to one user; ReadAt nil means unread
type Notification struct {
	ID           string           `json:"id" bson:"_id"`
	UserID       string           `json:"userId" bson:"userId"`
	SenderID     *string          `json:"senderId,omitempty" bson:"senderId,omitempty"`
	CollectionID *string          `json:"collectionId,omitempty" bson:"collectionId,omitempty"`
	WorkID       *string          `json:"workId,omitempty" bson:"workId,omitempty"`
	ShareID      *string          `json:"shareId,omitempty" bson:"shareId,omitempty"`
	Type         NotificationType `json:"type" bson:"type"`
	Message      string           `json:"message" bson:"message"`
	ReadAt       *time.Time       `json:"readAt" bson:"readAt"`
	CreatedAt    time.Time        `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt" bson:"updatedAt"`
}

// NewShareNotification announces a share to its guest
func NewShareNotification(share *Share, collectionName, authorName string) *Notification {
	now := time.Now().UTC()
	sender := share.AuthorID
	collectionID := share.CollectionID
	shareID := share.ID
	return &Notification{
		ID:           NewID(),
		UserID:       share.GuestID,
		SenderID:     &sender,
		CollectionID: &collectionID,
		ShareID:      &shareID,
		Type:         NotificationShare,
		Message:      fmt.Sprintf("%s a partagé la collection \"%s\" avec vous", authorName, collectionName),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsRead reports whether the recipient has read the notification
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}

// MarkRead sets ReadAt once; re-marking keeps the first timestamp
func (n *Notification) MarkRead(at time.Time) {
	if n.ReadAt != nil {
		return
	}
	at = at.UTC()
	n.ReadAt = &at
	n.UpdatedAt = at
}
