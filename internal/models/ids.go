package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// NewID returns a fresh entity identifier (24 hex chars)
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// IsValidID reports whether id is a syntactically valid entity identifier
func IsValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}
