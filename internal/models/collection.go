package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	CollectionNameMinLength = 3
	CollectionNameMaxLength = 50
)

// CollectionVisibility represents access levels for a collection
type CollectionVisibility string

const (
	VisibilityPrivate CollectionVisibility = "private" // Only owner can see
	VisibilityPublic  CollectionVisibility = "public"  // Anyone can see
	VisibilityShared  CollectionVisibility = "shared"  // Owner + accepted guests
)

// IsValidVisibility checks if a visibility value is valid
func IsValidVisibility(v string) bool {
	switch CollectionVisibility(v) {
	case VisibilityPrivate, VisibilityPublic, VisibilityShared:
		return true
	}
	return false
}

// Collection is a named, typed set of works owned by one user
type Collection struct {
	ID         string               `json:"id" bson:"_id"`
	Name       string               `json:"name" bson:"name"`
	Type       WorkType             `json:"type" bson:"type"`
	Visibility CollectionVisibility `json:"visibility" bson:"visibility"`
	UserID     string               `json:"userId" bson:"userId"`
	Works      []string             `json:"works" bson:"works"`
	CreatedAt  time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// NewCollection creates a collection with a generated ID and private default visibility
func NewCollection(userID, name string, workType WorkType, visibility CollectionVisibility, works []string) *Collection {
	if visibility == "" {
		visibility = VisibilityPrivate
	}
	if works == nil {
		works = []string{}
	}
	now := time.Now().UTC()
	return &Collection{
		ID:         NewID(),
		Name:       strings.TrimSpace(name),
		Type:       workType,
		Visibility: visibility,
		UserID:     userID,
		Works:      works,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// NormalizeCollectionName trims surrounding whitespace and checks the
// remaining name holds between 3 and 50 characters
func NormalizeCollectionName(name string) (string, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n < CollectionNameMinLength || n > CollectionNameMaxLength {
		return "", ErrInvalidCollectionName
	}
	return name, nil
}

// HasWork reports whether the work is already part of the collection
func (c *Collection) HasWork(workID string) bool {
	return containsString(c.Works, workID)
}

// AddWorks merges ids into the works set and returns how many were new
func (c *Collection) AddWorks(ids []string) int {
	added := 0
	for _, id := range ids {
		if c.HasWork(id) {
			continue
		}
		c.Works = append(c.Works, id)
		added++
	}
	return added
}

// RemoveWorks drops ids from the works set and returns how many were removed
func (c *Collection) RemoveWorks(ids []string) int {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	kept := c.Works[:0]
	for _, id := range c.Works {
		if _, ok := drop[id]; !ok {
			kept = append(kept, id)
		}
	}
	removed := len(c.Works) - len(kept)
	c.Works = kept
	return removed
}

// DedupeIDs removes duplicates while keeping first-seen order
func DedupeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// AccessLevel is the permission a caller holds on a collection
type AccessLevel int

const (
	AccessNone AccessLevel = iota
	AccessRead
	AccessEdit
	AccessOwner
)

// CollectionAccess is the resolved permission of a caller on a collection
type CollectionAccess struct {
	Collection *Collection
	Level      AccessLevel
	IsOwner    bool
}

// Allows reports whether the resolved access satisfies the required level
func (a CollectionAccess) Allows(required AccessLevel) bool {
	return a.Level >= required
}
