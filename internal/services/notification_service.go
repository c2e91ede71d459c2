package services

import (
	"context"
	"fmt"
	"time"

	"github.com/gather/server/internal/models"
	"github.com/gather/server/internal/repository"
)

// NotificationService exposes a user's notifications to that user only
type NotificationService struct {
	notifications repository.NotificationRepo
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notifications repository.NotificationRepo) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// List returns the user's notifications, newest first
func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool) ([]*models.Notification, error) {
	list, err := s.notifications.GetForUser(ctx, userID, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return list, nil
}

// CountUnread returns how many notifications the user has not read
func (s *NotificationService) CountUnread(ctx context.Context, userID string) (int64, error) {
	n, err := s.notifications.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return n, nil
}

// MarkRead marks one notification read. Marking it again keeps the first timestamp.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) (*models.Notification, error) {
	n, err := s.owned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if n.IsRead() {
		return n, nil
	}

	now := time.Now().UTC()
	if err := s.notifications.MarkRead(ctx, n.ID, now); err != nil {
		return nil, fmt.Errorf("failed to mark notification read: %w", err)
	}
	n.MarkRead(now)
	return n, nil
}

// MarkAllRead marks every unread notification of the user read
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	n, err := s.notifications.MarkAllRead(ctx, userID, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return n, nil
}

// Delete removes one notification of the user
func (s *NotificationService) Delete(ctx context.Context, id, userID string) error {
	n, err := s.owned(ctx, id, userID)
	if err != nil {
		return err
	}
	if err := s.notifications.Delete(ctx, n.ID); err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}

func (s *NotificationService) owned(ctx context.Context, id, userID string) (*models.Notification, error) {
	if !models.IsValidID(id) {
		return nil, models.ErrInvalidID
	}
	n, err := s.notifications.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	if n == nil {
		return nil, models.ErrNotificationNotFound
	}
	if n.UserID != userID {
		return nil, models.ErrNotificationAccessDenied
	}
	return n, nil
}
