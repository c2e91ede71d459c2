package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gather/server/internal/config"
	"github.com/gather/server/internal/models"
	"github.com/gather/server/internal/repository"
)

type testEnv struct {
	store         *repository.Store
	users         *UserService
	collections   *CollectionService
	shares        *ShareService
	notifications *NotificationService
	works         *WorkService
	notifier      *recordingNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := repository.NewSQLiteDB(filepath.Join(t.TempDir(), "gather.db"))
	require.NoError(t, err)
	store := repository.NewSQLStore(db, config.BackendSQLite)
	t.Cleanup(func() { store.Close(context.Background()) })

	notifier := &recordingNotifier{}
	tokens := NewTokenService("test-secret", "gather-test", time.Hour)
	return &testEnv{
		store:         store,
		users:         NewUserService(store.Users, tokens, nil),
		collections:   NewCollectionService(store, nil),
		shares:        NewShareService(store, notifier, nil),
		notifications: NewNotificationService(store.Notifications),
		works:         NewWorkService(store.Works),
		notifier:      notifier,
	}
}

// user inserts an account directly; bcrypt at cost 12 is too slow for fixtures
func (e *testEnv) user(t *testing.T, username string) *models.User {
	t.Helper()
	now := time.Now().UTC()
	u := &models.User{
		ID:           models.NewID(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "unused",
		Role:         models.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, e.store.Users.Create(context.Background(), u))
	return u
}

func (e *testEnv) work(t *testing.T, title string, workType models.WorkType) *models.Work {
	t.Helper()
	w := &models.Work{
		Title:       title,
		Author:      "Someone",
		PublishedAt: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		Type:        workType,
	}
	w.Normalize()
	require.NoError(t, e.store.Works.Create(context.Background(), w))
	return w
}

func (e *testEnv) collection(t *testing.T, owner *models.User, name string, visibility models.CollectionVisibility, works ...string) *models.Collection {
	t.Helper()
	c, err := e.collections.Create(context.Background(), owner.ID, &models.CreateCollectionRequest{
		Name:       name,
		Type:       string(models.WorkTypeBook),
		Visibility: string(visibility),
		Works:      works,
	})
	require.NoError(t, err)
	return c
}

// share creates a share and optionally accepts it as the guest
func (e *testEnv) share(t *testing.T, c *models.Collection, guest *models.User, rights models.ShareRights, accept bool) *models.Share {
	t.Helper()
	ctx := context.Background()
	s, err := e.shares.Create(ctx, c.UserID, &models.CreateShareRequest{
		CollectionID: c.ID,
		GuestID:      guest.ID,
		Rights:       string(rights),
	})
	require.NoError(t, err)
	if accept {
		s, err = e.shares.UpdateStatus(ctx, s.ID, guest.ID, models.ShareAccepted)
		require.NoError(t, err)
	}
	return s
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []*models.Notification
}

func (r *recordingNotifier) NotifyUser(userID string, n *models.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}
