package repository

import (
	"context"
	"time"

	"github.com/gather/server/internal/models"
)

// Lookups return (nil, nil) when the record does not exist. Writes that break
// a uniqueness constraint return an error matching ErrDuplicate.

// UserRepo defines the interface for user persistence operations
type UserRepo interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetAll(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// WorkRepo defines the interface for the work catalog
type WorkRepo interface {
	Create(ctx context.Context, work *models.Work) error
	Upsert(ctx context.Context, work *models.Work) error
	GetByID(ctx context.Context, id string) (*models.Work, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.Work, error)
	Find(ctx context.Context, filter models.WorkFilter) ([]*models.Work, error)
	Count(ctx context.Context) (int64, error)
}

// CollectionRepo defines the interface for collection persistence operations
type CollectionRepo interface {
	Create(ctx context.Context, collection *models.Collection) error
	GetByID(ctx context.Context, id string) (*models.Collection, error)
	GetByOwnerAndName(ctx context.Context, userID, name string) (*models.Collection, error)
	GetAllForUser(ctx context.Context, userID string) ([]*models.Collection, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.Collection, error)
	GetPublic(ctx context.Context) ([]*models.Collection, error)
	GetAll(ctx context.Context) ([]*models.Collection, error)
	// Update persists name, type, visibility and the works list
	Update(ctx context.Context, collection *models.Collection) error
	Delete(ctx context.Context, id string) error
}

// ShareRepo defines the interface for share persistence operations
type ShareRepo interface {
	Create(ctx context.Context, share *models.Share) error
	GetByID(ctx context.Context, id string) (*models.Share, error)
	GetByGuest(ctx context.Context, guestID string) ([]*models.Share, error)
	GetByCollection(ctx context.Context, collectionID string) ([]*models.Share, error)
	GetAccepted(ctx context.Context, collectionID, guestID string) (*models.Share, error)
	UpdateStatus(ctx context.Context, id string, status models.ShareStatus, at time.Time) error
	Delete(ctx context.Context, id string) error
	DeleteByCollection(ctx context.Context, collectionID string) (int64, error)
}

// NotificationRepo defines the interface for notification persistence operations
type NotificationRepo interface {
	Create(ctx context.Context, n *models.Notification) error
	GetByID(ctx context.Context, id string) (*models.Notification, error)
	GetForUser(ctx context.Context, userID string, unreadOnly bool) ([]*models.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id string, at time.Time) error
	MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, error)
	MarkReadByShare(ctx context.Context, shareID string, at time.Time) (int64, error)
	Delete(ctx context.Context, id string) error
	DeleteByShare(ctx context.Context, shareID string) (int64, error)
}
