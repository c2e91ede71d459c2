package models

import "time"

// ShareRights is the permission an accepted share grants
type ShareRights string

const (
	RightsRead ShareRights = "read"
	RightsEdit ShareRights = "edit"
)

// ShareStatus is the guest's answer to a share invitation
type ShareStatus string

const (
	SharePending  ShareStatus = "pending"
	ShareRefused  ShareStatus = "refused"
	ShareAccepted ShareStatus = "accepted"
)

// IsValidRights checks if a rights value is valid
func IsValidRights(r string) bool {
	return ShareRights(r) == RightsRead || ShareRights(r) == RightsEdit
}

// IsValidShareStatus checks if a status value is valid
func IsValidShareStatus(s string) bool {
	switch ShareStatus(s) {
	case SharePending, ShareRefused, ShareAccepted:
		return true
	}
	return false
}

// Share links a collection to a guest invited by its owner
type Share struct {
	ID           string      `json:"id" bson:"_id"`
	CollectionID string      `json:"collectionId" bson:"collectionId"`
	GuestID      string      `json:"guestId" bson:"guestId"`
	AuthorID     string      `json:"authorId" bson:"authorId"`
	Rights       ShareRights `json:"rights" bson:"rights"`
	Status       ShareStatus `json:"status" bson:"status"`
	CreatedAt    time.Time   `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt" bson:"updatedAt"`
}

// NewShare creates a pending share, read rights unless stated otherwise
func NewShare(collectionID, guestID, authorID string, rights ShareRights) *Share {
	if rights == "" {
		rights = RightsRead
	}
	now := time.Now().UTC()
	return &Share{
		ID:           NewID(),
		CollectionID: collectionID,
		GuestID:      guestID,
		AuthorID:     authorID,
		Rights:       rights,
		Status:       SharePending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// GrantedLevel is the access an accepted share yields
func (s *Share) GrantedLevel() AccessLevel {
	if s.Status != ShareAccepted {
		return AccessNone
	}
	if s.Rights == RightsEdit {
		return AccessEdit
	}
	return AccessRead
}

// ShareWithDetails enriches a share with display fields for listings
type ShareWithDetails struct {
	Share
	CollectionName string `json:"collectionName,omitempty"`
	AuthorUsername string `json:"authorUsername,omitempty"`
}
