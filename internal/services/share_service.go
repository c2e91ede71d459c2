package services

import (
	"context"
	"fmt"
	"time"

	"github.com/gather/server/internal/models"
	"github.com/gather/server/internal/observability"
	"github.com/gather/server/internal/repository"
)

// Notifier pushes a freshly stored notification to its recipient's live
// connections. WebSocketHub implements it.
type Notifier interface {
	NotifyUser(userID string, n *models.Notification)
}

// ShareService handles the share lifecycle
type ShareService struct {
	shares        repository.ShareRepo
	collections   repository.CollectionRepo
	users         repository.UserRepo
	notifications repository.NotificationRepo
	notifier      Notifier
	metrics       *observability.BusinessMetrics
}

// NewShareService creates a new ShareService. notifier may be nil.
func NewShareService(store *repository.Store, notifier Notifier, metrics *observability.BusinessMetrics) *ShareService {
	return &ShareService{
		shares:        store.Shares,
		collections:   store.Collections,
		users:         store.Users,
		notifications: store.Notifications,
		notifier:      notifier,
		metrics:       metrics,
	}
}

// Create shares a collection with a guest on behalf of its owner, then
// notifies the guest
func (s *ShareService) Create(ctx context.Context, authorID string, req *models.CreateShareRequest) (share *models.Share, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "ShareService", "Create",
		observability.UserID(authorID), observability.CollectionID(req.CollectionID))
	defer func() { observability.EndSpan(span, err) }()

	if !models.IsValidID(req.CollectionID) {
		return nil, models.ErrInvalidCollectionID
	}
	if !models.IsValidID(req.GuestID) {
		return nil, models.ErrInvalidUserID
	}
	if req.Rights != "" && !models.IsValidRights(req.Rights) {
		return nil, models.ErrInvalidRights
	}
	if authorID == req.GuestID {
		return nil, models.ErrSelfShare
	}

	collection, err := s.collections.GetByID(ctx, req.CollectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}
	if collection == nil {
		return nil, models.ErrCollectionNotFound
	}

	guest, err := s.users.GetByID(ctx, req.GuestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guest: %w", err)
	}
	if guest == nil {
		return nil, models.ErrGuestNotFound
	}

	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get author: %w", err)
	}
	if author == nil {
		return nil, models.ErrAuthorNotFound
	}
	if collection.UserID != author.ID {
		return nil, models.ErrShareNotOwner
	}

	share = models.NewShare(collection.ID, guest.ID, author.ID, models.ShareRights(req.Rights))
	if err := s.shares.Create(ctx, share); err != nil {
		return nil, fmt.Errorf("failed to create share: %w", err)
	}
	s.metrics.RecordShareCreated(ctx, string(share.Rights))

	notification := models.NewShareNotification(share, collection.Name, author.Username)
	if err := s.notifications.Create(ctx, notification); err != nil {
		return nil, fmt.Errorf("failed to create share notification: %w", err)
	}
	s.metrics.RecordNotificationSent(ctx, string(notification.Type))
	if s.notifier != nil {
		s.notifier.NotifyUser(guest.ID, notification)
	}

	return share, nil
}

// UpdateStatus lets the guest accept, refuse or reset a share. Unread
// notifications of the share are marked read on a best-effort basis.
func (s *ShareService) UpdateStatus(ctx context.Context, shareID, callerID string, status models.ShareStatus) (share *models.Share, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "ShareService", "UpdateStatus", observability.ShareID(shareID))
	defer func() { observability.EndSpan(span, err) }()

	if !models.IsValidID(shareID) {
		return nil, models.ErrInvalidShareID
	}
	if !models.IsValidShareStatus(string(status)) {
		return nil, models.ErrInvalidStatus
	}

	share, err = s.getShare(ctx, shareID)
	if err != nil {
		return nil, err
	}
	if share.GuestID != callerID {
		return nil, models.ErrShareStatusDenied
	}

	now := time.Now().UTC()
	if err := s.shares.UpdateStatus(ctx, share.ID, status, now); err != nil {
		return nil, fmt.Errorf("failed to update share status: %w", err)
	}
	share.Status = status
	share.UpdatedAt = now
	s.metrics.RecordShareStatusChange(ctx, string(status))

	if _, err := s.notifications.MarkReadByShare(ctx, share.ID, now); err != nil {
		observability.WithContext(ctx).WithError(err).WithField("share_id", share.ID).
			Warn("Failed to mark share notifications read")
	}
	return share, nil
}

// Delete removes a share; the author or the guest may. Its notifications go first.
func (s *ShareService) Delete(ctx context.Context, shareID, callerID string) (err error) {
	ctx, span := observability.StartServiceSpan(ctx, "ShareService", "Delete", observability.ShareID(shareID))
	defer func() { observability.EndSpan(span, err) }()

	if !models.IsValidID(shareID) {
		return models.ErrInvalidShareID
	}
	share, err := s.getShare(ctx, shareID)
	if err != nil {
		return err
	}
	if callerID != share.AuthorID && callerID != share.GuestID {
		return models.ErrShareDeleteDenied
	}

	if _, err := s.notifications.DeleteByShare(ctx, share.ID); err != nil {
		return fmt.Errorf("failed to delete share notifications: %w", err)
	}
	if err := s.shares.Delete(ctx, share.ID); err != nil {
		return fmt.Errorf("failed to delete share: %w", err)
	}
	return nil
}

// ListForGuest returns the shares addressed to guestID with the collection
// name and author username filled in when they still exist
func (s *ShareService) ListForGuest(ctx context.Context, guestID string) ([]*models.ShareWithDetails, error) {
	shares, err := s.shares.GetByGuest(ctx, guestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}

	collectionIDs := make([]string, 0, len(shares))
	for _, sh := range shares {
		collectionIDs = append(collectionIDs, sh.CollectionID)
	}
	collections, err := s.collections.GetByIDs(ctx, models.DedupeIDs(collectionIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load shared collections: %w", err)
	}
	names := make(map[string]string, len(collections))
	for _, c := range collections {
		names[c.ID] = c.Name
	}

	authors := make(map[string]string)
	out := make([]*models.ShareWithDetails, 0, len(shares))
	for _, sh := range shares {
		username, ok := authors[sh.AuthorID]
		if !ok {
			author, err := s.users.GetByID(ctx, sh.AuthorID)
			if err != nil {
				return nil, fmt.Errorf("failed to load share author: %w", err)
			}
			if author != nil {
				username = author.Username
			}
			authors[sh.AuthorID] = username
		}
		out = append(out, &models.ShareWithDetails{
			Share:          *sh,
			CollectionName: names[sh.CollectionID],
			AuthorUsername: username,
		})
	}
	return out, nil
}

// ListForCollection returns every share of a collection. Only the existence
// of the collection is checked, not the caller's relation to it.
func (s *ShareService) ListForCollection(ctx context.Context, collectionID string) ([]*models.Share, error) {
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

	shares, err := s.shares.GetByCollection(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}
	return shares, nil
}

func (s *ShareService) getShare(ctx context.Context, id string) (*models.Share, error) {
	share, err := s.shares.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get share: %w", err)
	}
	if share == nil {
		return nil, models.ErrShareNotFound
	}
	return share, nil
}
