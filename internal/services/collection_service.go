package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gather/server/internal/models"
	"github.com/gather/server/internal/observability"
	"github.com/gather/server/internal/repository"
)

// CollectionService handles collection business logic and access control
type CollectionService struct {
	collections   repository.CollectionRepo
	works         repository.WorkRepo
	users         repository.UserRepo
	shares        repository.ShareRepo
	notifications repository.NotificationRepo
	metrics       *observability.BusinessMetrics
}

// NewCollectionService creates a new CollectionService
func NewCollectionService(store *repository.Store, metrics *observability.BusinessMetrics) *CollectionService {
	return &CollectionService{
		collections:   store.Collections,
		works:         store.Works,
		users:         store.Users,
		shares:        store.Shares,
		notifications: store.Notifications,
		metrics:       metrics,
	}
}

// ResolveAccess determines what callerID (empty for anonymous) may do with
// the collection. Public collections are readable by anyone; otherwise only
// the owner and guests holding an accepted share get in.
func (s *CollectionService) ResolveAccess(ctx context.Context, collectionID, callerID string) (*models.CollectionAccess, error) {
	if !models.IsValidID(collectionID) {
		return nil, models.ErrInvalidCollectionID
	}

	collection, err := s.collections.GetByID(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}
	if collection == nil {
		return nil, models.ErrCollectionNotFound
	}

	access := &models.CollectionAccess{Collection: collection}
	if callerID != "" && callerID == collection.UserID {
		access.Level = models.AccessOwner
		access.IsOwner = true
		return access, nil
	}
	if collection.Visibility == models.VisibilityPublic {
		access.Level = models.AccessRead
	}
	if callerID == "" {
		if access.Level == models.AccessNone {
			return nil, models.ErrAuthRequired
		}
		return access, nil
	}

	share, err := s.shares.GetAccepted(ctx, collection.ID, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check share: %w", err)
	}
	if share != nil && share.GrantedLevel() > access.Level {
		access.Level = share.GrantedLevel()
	}
	if access.Level == models.AccessNone {
		return nil, models.ErrCollectionAccessDenied
	}
	return access, nil
}

// require resolves access and checks it reaches the required level
func (s *CollectionService) require(ctx context.Context, collectionID, callerID string, required models.AccessLevel) (*models.Collection, error) {
	access, err := s.ResolveAccess(ctx, collectionID, callerID)
	if err != nil {
		return nil, err
	}
	if access.Allows(required) {
		return access.Collection, nil
	}
	switch required {
	case models.AccessOwner:
		return nil, models.ErrCollectionOwnerOnly
	case models.AccessEdit:
		return nil, models.ErrCollectionEditDenied
	default:
		return nil, models.ErrCollectionAccessDenied
	}
}

// Create creates a collection owned by ownerID
func (s *CollectionService) Create(ctx context.Context, ownerID string, req *models.CreateCollectionRequest) (collection *models.Collection, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "CollectionService", "Create", observability.UserID(ownerID))
	defer func() { observability.EndSpan(span, err) }()

	if !models.IsValidWorkType(req.Type) {
		return nil, models.ErrInvalidWorkType
	}
	if req.Visibility != "" && !models.IsValidVisibility(req.Visibility) {
		return nil, models.ErrInvalidVisibility
	}
	name, err := models.NormalizeCollectionName(req.Name)
	if err != nil {
		return nil, err
	}

	existing, err := s.collections.GetByOwnerAndName(ctx, ownerID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check collection name: %w", err)
	}
	if existing != nil {
		return nil, models.ErrDuplicateCollectionName
	}

	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get owner: %w", err)
	}
	if owner == nil {
		return nil, models.ErrOwnerNotFound
	}

	works := models.DedupeIDs(req.Works)
	for _, id := range works {
		if !models.IsValidID(id) {
			return nil, models.ErrInvalidWorkID
		}
	}
	workType := models.WorkType(req.Type)
	if err := s.validateWorks(ctx, workType, works); err != nil {
		return nil, err
	}

	collection = models.NewCollection(ownerID, name, workType, models.CollectionVisibility(req.Visibility), works)
	if err := s.collections.Create(ctx, collection); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, models.ErrDuplicateCollectionName
		}
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	s.metrics.RecordCollectionCreated(ctx, req.Type)
	return collection, nil
}

// validateWorks checks every id names an existing work of the given type.
// Ids must already be syntactically valid.
func (s *CollectionService) validateWorks(ctx context.Context, workType models.WorkType, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := s.works.GetByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load works: %w", err)
	}
	byID := make(map[string]*models.Work, len(found))
	for _, w := range found {
		byID[w.ID] = w
	}

	var mismatched []string
	for _, id := range ids {
		w, ok := byID[id]
		if !ok {
			return models.ErrNonexistentWork
		}
		if w.Type != workType {
			mismatched = append(mismatched, id)
		}
	}
	if len(mismatched) > 0 {
		return &models.WorkTypeMismatchError{IDs: mismatched}
	}
	return nil
}

// Get returns a collection the caller may read
func (s *CollectionService) Get(ctx context.Context, collectionID, callerID string) (*models.Collection, error) {
	return s.require(ctx, collectionID, callerID, models.AccessRead)
}

// ListPublic returns every public collection
func (s *CollectionService) ListPublic(ctx context.Context) ([]*models.Collection, error) {
	collections, err := s.collections.GetPublic(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list public collections: %w", err)
	}
	return collections, nil
}

// ListAll returns every collection; only admins and moderators may call it
func (s *CollectionService) ListAll(ctx context.Context, caller *models.User) ([]*models.Collection, error) {
	if caller == nil || !caller.Role.CanListAll() {
		return nil, models.ErrInsufficientRole
	}
	collections, err := s.collections.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	return collections, nil
}

// ListForUser returns the collections the user owns and those shared with
// them through an accepted share
func (s *CollectionService) ListForUser(ctx context.Context, userID string) (*models.CollectionListResponse, error) {
	owned, err := s.collections.GetAllForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owned collections: %w", err)
	}

	shares, err := s.shares.GetByGuest(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}
	var ids []string
	for _, sh := range shares {
		if sh.Status == models.ShareAccepted {
			ids = append(ids, sh.CollectionID)
		}
	}
	shared, err := s.collections.GetByIDs(ctx, models.DedupeIDs(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to list shared collections: %w", err)
	}

	return &models.CollectionListResponse{Owned: owned, Shared: shared}, nil
}

// AddWorks merges the eligible ids into the collection and reports the
// rejected ones. Rejections are part of the result, never an error.
func (s *CollectionService) AddWorks(ctx context.Context, collectionID, callerID string, workIDs []string) (result *models.AddWorksResult, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "CollectionService", "AddWorks", observability.CollectionID(collectionID))
	defer func() { observability.EndSpan(span, err) }()

	collection, err := s.require(ctx, collectionID, callerID, models.AccessEdit)
	if err != nil {
		return nil, err
	}

	result = &models.AddWorksResult{
		InvalidIDs:     []string{},
		NonexistentIDs: []string{},
		MismatchedIDs:  []string{},
	}
	eligible, err := s.partitionWorks(ctx, collection.Type, models.DedupeIDs(workIDs), result)
	if err != nil {
		return nil, err
	}
	result.AddedCount = len(eligible)

	if collection.AddWorks(eligible) > 0 {
		collection.UpdatedAt = time.Now().UTC()
		if err := s.collections.Update(ctx, collection); err != nil {
			return nil, fmt.Errorf("failed to update collection works: %w", err)
		}
	}
	result.Collection = collection

	s.metrics.RecordWorksAdded(ctx, len(eligible))
	return result, nil
}

// partitionWorks sorts ids into the rejection lists of result and returns
// the eligible ones, in input order
func (s *CollectionService) partitionWorks(ctx context.Context, workType models.WorkType, ids []string, result *models.AddWorksResult) ([]string, error) {
	var valid []string
	for _, id := range ids {
		if models.IsValidID(id) {
			valid = append(valid, id)
		} else {
			result.InvalidIDs = append(result.InvalidIDs, id)
		}
	}

	found, err := s.works.GetByIDs(ctx, valid)
	if err != nil {
		return nil, fmt.Errorf("failed to load works: %w", err)
	}
	byID := make(map[string]*models.Work, len(found))
	for _, w := range found {
		byID[w.ID] = w
	}

	eligible := []string{}
	for _, id := range valid {
		w, ok := byID[id]
		switch {
		case !ok:
			result.NonexistentIDs = append(result.NonexistentIDs, id)
		case w.Type != workType:
			result.MismatchedIDs = append(result.MismatchedIDs, id)
		default:
			eligible = append(eligible, id)
		}
	}
	return eligible, nil
}

// RemoveWorks drops the listed works; ids not in the collection are ignored
func (s *CollectionService) RemoveWorks(ctx context.Context, collectionID, callerID string, workIDs []string) (*models.Collection, error) {
	collection, err := s.require(ctx, collectionID, callerID, models.AccessEdit)
	if err != nil {
		return nil, err
	}
	if collection.RemoveWorks(workIDs) > 0 {
		collection.UpdatedAt = time.Now().UTC()
		if err := s.collections.Update(ctx, collection); err != nil {
			return nil, fmt.Errorf("failed to update collection works: %w", err)
		}
	}
	return collection, nil
}

// Update applies a partial update. Name, type and visibility need the owner;
// a works-only update is open to edit collaborators. Leaving the shared
// visibility revokes every share of the collection after the update is saved.
func (s *CollectionService) Update(ctx context.Context, collectionID, callerID string, req *models.UpdateCollectionRequest) (collection *models.Collection, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "CollectionService", "Update", observability.CollectionID(collectionID))
	defer func() { observability.EndSpan(span, err) }()

	if req.IsEmpty() {
		return nil, models.ErrEmptyUpdate
	}
	required := models.AccessEdit
	if req.TouchesOwnerFields() {
		required = models.AccessOwner
	}
	collection, err = s.require(ctx, collectionID, callerID, required)
	if err != nil {
		return nil, err
	}
	previousVisibility := collection.Visibility

	if req.Name != nil {
		name, err := models.NormalizeCollectionName(*req.Name)
		if err != nil {
			return nil, err
		}
		if name != collection.Name {
			existing, err := s.collections.GetByOwnerAndName(ctx, collection.UserID, name)
			if err != nil {
				return nil, fmt.Errorf("failed to check collection name: %w", err)
			}
			if existing != nil && existing.ID != collection.ID {
				return nil, models.ErrDuplicateCollectionName
			}
		}
		collection.Name = name
	}
	if req.Type != nil {
		if !models.IsValidWorkType(*req.Type) {
			return nil, models.ErrInvalidWorkType
		}
		collection.Type = models.WorkType(*req.Type)
	}
	if req.Visibility != nil {
		if !models.IsValidVisibility(*req.Visibility) {
			return nil, models.ErrInvalidVisibility
		}
		collection.Visibility = models.CollectionVisibility(*req.Visibility)
	}
	if req.Works != nil {
		works := models.DedupeIDs(*req.Works)
		for _, id := range works {
			if !models.IsValidID(id) {
				return nil, models.ErrInvalidWorkID
			}
		}
		collection.Works = works
	}
	if req.Type != nil || req.Works != nil {
		if err := s.validateWorks(ctx, collection.Type, collection.Works); err != nil {
			return nil, err
		}
	}

	collection.UpdatedAt = time.Now().UTC()
	if err := s.collections.Update(ctx, collection); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, models.ErrDuplicateCollectionName
		}
		return nil, fmt.Errorf("failed to update collection: %w", err)
	}

	if previousVisibility == models.VisibilityShared && collection.Visibility != models.VisibilityShared {
		if err := s.revokeShares(ctx, collection.ID); err != nil {
			// The update stands; the cascade can be re-run safely
			observability.WithContext(ctx).WithError(err).
				WithField("collection_id", collection.ID).
				Warn("Share cascade after visibility change did not complete")
		}
	}
	return collection, nil
}

// revokeShares deletes the notifications of every share of the collection,
// then the shares themselves. Each step is idempotent; the first failure
// stops the sequence.
func (s *CollectionService) revokeShares(ctx context.Context, collectionID string) error {
	shares, err := s.shares.GetByCollection(ctx, collectionID)
	if err != nil {
		return fmt.Errorf("failed to list shares: %w", err)
	}
	for _, sh := range shares {
		if _, err := s.notifications.DeleteByShare(ctx, sh.ID); err != nil {
			return fmt.Errorf("failed to delete notifications of share %s: %w", sh.ID, err)
		}
	}
	n, err := s.shares.DeleteByCollection(ctx, collectionID)
	if err != nil {
		return fmt.Errorf("failed to delete shares: %w", err)
	}
	observability.WithContext(ctx).WithFields(map[string]interface{}{
		"collection_id": collectionID,
		"shares":        n,
	}).Info("Revoked shares after visibility change")
	return nil
}

// Delete removes a collection; only the owner may. Shares and notifications
// that reference it are kept.
func (s *CollectionService) Delete(ctx context.Context, collectionID, callerID string) (err error) {
	ctx, span := observability.StartServiceSpan(ctx, "CollectionService", "Delete", observability.CollectionID(collectionID))
	defer func() { observability.EndSpan(span, err) }()

	collection, err := s.require(ctx, collectionID, callerID, models.AccessOwner)
	if err != nil {
		return err
	}
	if err := s.collections.Delete(ctx, collection.ID); err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	s.metrics.RecordCollectionDeleted(ctx)
	return nil
}
