package models

import (
	"strings"
	"time"
)

// WorkType is the media type shared by works and the collections holding them
type WorkType string

const (
	WorkTypeBook   WorkType = "book"
	WorkTypeMovie  WorkType = "movie"
	WorkTypeSeries WorkType = "series"
	WorkTypeMusic  WorkType = "music"
	WorkTypeGame   WorkType = "game"
	WorkTypeOther  WorkType = "other"
)

// IsValidWorkType checks if a type value is valid
func IsValidWorkType(t string) bool {
	switch WorkType(t) {
	case WorkTypeBook, WorkTypeMovie, WorkTypeSeries, WorkTypeMusic, WorkTypeGame, WorkTypeOther:
		return true
	}
	return false
}

// Work is a read-only catalog entry
type Work struct {
	ID          string    `json:"id" bson:"_id" toml:"id"`
	Title       string    `json:"title" bson:"title" toml:"title"`
	Author      string    `json:"author" bson:"author" toml:"author"`
	PublishedAt time.Time `json:"publishedAt" bson:"publishedAt" toml:"published_at"`
	Type        WorkType  `json:"type" bson:"type" toml:"type"`
	Genre       []string  `json:"genre" bson:"genre" toml:"genre"`
	Images      []string  `json:"images" bson:"images" toml:"images"`
	Description *string   `json:"description,omitempty" bson:"description,omitempty" toml:"description"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt" toml:"-"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt" toml:"-"`
}

// Normalize fills defaults before a work is stored
func (w *Work) Normalize() {
	now := time.Now().UTC()
	if w.ID == "" {
		w.ID = NewID()
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = now
	}
	w.UpdatedAt = now
	w.PublishedAt = w.PublishedAt.UTC()
	if w.Genre == nil {
		w.Genre = []string{}
	}
	if w.Images == nil {
		w.Images = []string{}
	}
}

// YearBefore1900 is the year filter sentinel for works published before 1900
const YearBefore1900 = "before-1900"

// WorkFilter narrows a catalog query. Zero values mean "no constraint".
type WorkFilter struct {
	Type   WorkType
	Genres []string
	// PublishedFrom is inclusive, PublishedBefore exclusive
	PublishedFrom   *time.Time
	PublishedBefore *time.Time
	Search          string
	Limit           int
}

// Matches reports whether w satisfies every constraint of f, Limit aside
func (f WorkFilter) Matches(w *Work) bool {
	if f.Type != "" && w.Type != f.Type {
		return false
	}
	for _, g := range f.Genres {
		if !containsString(w.Genre, g) {
			return false
		}
	}
	if f.PublishedFrom != nil && w.PublishedAt.Before(*f.PublishedFrom) {
		return false
	}
	if f.PublishedBefore != nil && !w.PublishedAt.Before(*f.PublishedBefore) {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(w.Title), q) && !strings.Contains(strings.ToLower(w.Author), q) {
			return false
		}
	}
	return true
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
