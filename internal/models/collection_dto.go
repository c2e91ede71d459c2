package models

// CreateCollectionRequest is the request body for creating a collection
type CreateCollectionRequest struct {
	Name       string   `json:"name" validate:"required,min=3,max=50"`
	Type       string   `json:"type" validate:"required,oneof=book movie series music game other"`
	Visibility string   `json:"visibility,omitempty" validate:"omitempty,oneof=private public shared"`
	Works      []string `json:"works,omitempty"`
}

// UpdateCollectionRequest is a partial update; nil fields are left untouched
type UpdateCollectionRequest struct {
	Name       *string   `json:"name,omitempty" validate:"omitempty,min=3,max=50"`
	Type       *string   `json:"type,omitempty" validate:"omitempty,oneof=book movie series music game other"`
	Visibility *string   `json:"visibility,omitempty" validate:"omitempty,oneof=private public shared"`
	Works      *[]string `json:"works,omitempty"`
}

// TouchesOwnerFields reports whether the update changes anything only the owner may change
func (r *UpdateCollectionRequest) TouchesOwnerFields() bool {
	return r.Name != nil || r.Type != nil || r.Visibility != nil
}

// IsEmpty reports whether the update carries no field at all
func (r *UpdateCollectionRequest) IsEmpty() bool {
	return !r.TouchesOwnerFields() && r.Works == nil
}

// WorkIDsRequest adds or removes works from a collection
type WorkIDsRequest struct {
	WorkIDs []string `json:"workIds" validate:"required,min=1"`
}

// AddWorksResult reports how a batch of work ids was partitioned
type AddWorksResult struct {
	AddedCount     int         `json:"addedCount"`
	InvalidIDs     []string    `json:"invalidIds"`
	NonexistentIDs []string    `json:"nonexistentIds"`
	MismatchedIDs  []string    `json:"mismatchedIds"`
	Collection     *Collection `json:"collection"`
}

// RejectedCount is the number of ids that were not eligible
func (r *AddWorksResult) RejectedCount() int {
	return len(r.InvalidIDs) + len(r.NonexistentIDs) + len(r.MismatchedIDs)
}

// CollectionListResponse is returned by GET /collections/me
type CollectionListResponse struct {
	Owned  []*Collection `json:"owned"`
	Shared []*Collection `json:"shared"`
}

// CreateShareRequest is the request body for sharing a collection
type CreateShareRequest struct {
	CollectionID string `json:"collectionId" validate:"required"`
	GuestID      string `json:"guestId" validate:"required"`
	Rights       string `json:"rights,omitempty" validate:"omitempty,oneof=read edit"`
}

// UpdateShareStatusRequest is sent by the guest to answer an invitation
type UpdateShareStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending refused accepted"`
}
