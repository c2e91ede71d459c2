package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gather/server/internal/models"
)

// runStoreSuite exercises every repository contract against one backend.
// Records use fresh IDs so the suite can share a database between subtests.
func runStoreSuite(t *testing.T, store *Store) {
	t.Run("users", func(t *testing.T) { testUsers(t, store) })
	t.Run("works", func(t *testing.T) { testWorks(t, store) })
	t.Run("collections", func(t *testing.T) { testCollections(t, store) })
	t.Run("shares", func(t *testing.T) { testShares(t, store) })
	t.Run("notifications", func(t *testing.T) { testNotifications(t, store) })
}

func newTestUser(t *testing.T, store *Store) *models.User {
	t.Helper()
	id := models.NewID()
	u := &models.User{
		ID:           id,
		Username:     "u" + id[len(id)-12:],
		Email:        id + "@example.com",
		PasswordHash: "hash",
		Role:         models.RoleUser,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	require.NoError(t, store.Users.Create(context.Background(), u))
	return u
}

func newTestWork(t *testing.T, store *Store, title string, workType models.WorkType, year int, genres ...string) *models.Work {
	t.Helper()
	w := &models.Work{
		Title:       title,
		Author:      "Author of " + title,
		PublishedAt: time.Date(year, 6, 15, 0, 0, 0, 0, time.UTC),
		Type:        workType,
		Genre:       genres,
	}
	w.Normalize()
	require.NoError(t, store.Works.Create(context.Background(), w))
	return w
}

func testUsers(t *testing.T, store *Store) {
	ctx := context.Background()
	u := newTestUser(t, store)

	t.Run("get by id and email", func(t *testing.T) {
		got, err := store.Users.GetByID(ctx, u.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, u.Username, got.Username)
		assert.Equal(t, "hash", got.PasswordHash)
		assert.Nil(t, got.ProfilePicture)

		byEmail, err := store.Users.GetByEmail(ctx, "  "+u.Email)
		require.NoError(t, err)
		require.NotNil(t, byEmail)
		assert.Equal(t, u.ID, byEmail.ID)
	})

	t.Run("missing user is nil without error", func(t *testing.T) {
		got, err := store.Users.GetByID(ctx, models.NewID())
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		dup := *u
		dup.ID = models.NewID()
		dup.Username = "other" + dup.ID[:6]
		err := store.Users.Create(ctx, &dup)
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("update persists profile fields", func(t *testing.T) {
		pic := "https://cdn.example.com/a.jpg"
		u.ProfilePicture = &pic
		u.Role = models.RoleModerator
		u.Touch()
		require.NoError(t, store.Users.Update(ctx, u))

		got, err := store.Users.GetByID(ctx, u.ID)
		require.NoError(t, err)
		require.NotNil(t, got.ProfilePicture)
		assert.Equal(t, pic, *got.ProfilePicture)
		assert.Equal(t, models.RoleModerator, got.Role)
	})

	t.Run("get all includes the user", func(t *testing.T) {
		all, err := store.Users.GetAll(ctx)
		require.NoError(t, err)
		var ids []string
		for _, x := range all {
			ids = append(ids, x.ID)
		}
		assert.Contains(t, ids, u.ID)
	})
}

func testWorks(t *testing.T, store *Store) {
	ctx := context.Background()
	// A unique genre scopes the queries to the works created here
	scope := "scope-" + models.NewID()

	dune := newTestWork(t, store, "Dune", models.WorkTypeBook, 1965, scope, "scifi", "classic")
	hyperion := newTestWork(t, store, "Hyperion", models.WorkTypeBook, 1989, scope, "scifi")
	frankenstein := newTestWork(t, store, "Frankenstein", models.WorkTypeBook, 1818, scope, "horror", "classic")
	alien := newTestWork(t, store, "Alien", models.WorkTypeMovie, 1979, scope, "scifi", "horror")

	ids := func(works []*models.Work) []string {
		out := make([]string, len(works))
		for i, w := range works {
			out[i] = w.ID
		}
		return out
	}
	year := func(y int) *time.Time {
		v := time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC)
		return &v
	}

	cases := []struct {
		name   string
		filter models.WorkFilter
		want   []string
	}{
		{"sorted by publication desc", models.WorkFilter{}, []string{hyperion.ID, alien.ID, dune.ID, frankenstein.ID}},
		{"type", models.WorkFilter{Type: models.WorkTypeMovie}, []string{alien.ID}},
		{"genres are and-ed", models.WorkFilter{Genres: []string{"scifi", "classic"}}, []string{dune.ID}},
		{"exact year", models.WorkFilter{PublishedFrom: year(1965), PublishedBefore: year(1966)}, []string{dune.ID}},
		{"before 1900", models.WorkFilter{PublishedBefore: year(1900)}, []string{frankenstein.ID}},
		{"search is case insensitive on title", models.WorkFilter{Search: "hYPer"}, []string{hyperion.ID}},
		{"search matches author", models.WorkFilter{Search: "author of ali"}, []string{alien.ID}},
		{"limit", models.WorkFilter{Limit: 2}, []string{hyperion.ID, alien.ID}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.filter.Genres = append([]string{scope}, tc.filter.Genres...)
			got, err := store.Works.Find(ctx, tc.filter)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ids(got))
		})
	}

	t.Run("get by ids skips unknown ids", func(t *testing.T) {
		got, err := store.Works.GetByIDs(ctx, []string{dune.ID, models.NewID(), alien.ID})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{dune.ID, alien.ID}, ids(got))
	})

	t.Run("round trip keeps lists", func(t *testing.T) {
		got, err := store.Works.GetByID(ctx, dune.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, []string{scope, "scifi", "classic"}, got.Genre)
		assert.Equal(t, []string{}, got.Images)
		assert.True(t, dune.PublishedAt.Equal(got.PublishedAt))
	})

	t.Run("upsert replaces", func(t *testing.T) {
		updated := *dune
		updated.Title = "Dune (revised)"
		updated.Genre = []string{scope, "scifi"}
		require.NoError(t, store.Works.Upsert(ctx, &updated))

		got, err := store.Works.Find(ctx, models.WorkFilter{Genres: []string{scope, "classic"}})
		require.NoError(t, err)
		assert.Equal(t, []string{frankenstein.ID}, ids(got))
	})
}

func testCollections(t *testing.T, store *Store) {
	ctx := context.Background()
	owner := newTestUser(t, store)
	other := newTestUser(t, store)
	w1 := newTestWork(t, store, "One", models.WorkTypeBook, 2001)
	w2 := newTestWork(t, store, "Two", models.WorkTypeBook, 2002)

	c := models.NewCollection(owner.ID, "Shelf", models.WorkTypeBook, models.VisibilityPublic, []string{w2.ID, w1.ID})
	require.NoError(t, store.Collections.Create(ctx, c))

	t.Run("round trip keeps works order", func(t *testing.T) {
		got, err := store.Collections.GetByID(ctx, c.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Shelf", got.Name)
		assert.Equal(t, models.VisibilityPublic, got.Visibility)
		assert.Equal(t, []string{w2.ID, w1.ID}, got.Works)
	})

	t.Run("name is unique per owner", func(t *testing.T) {
		dup := models.NewCollection(owner.ID, "Shelf", models.WorkTypeMovie, "", nil)
		assert.ErrorIs(t, store.Collections.Create(ctx, dup), ErrDuplicate)

		elsewhere := models.NewCollection(other.ID, "Shelf", models.WorkTypeBook, "", nil)
		assert.NoError(t, store.Collections.Create(ctx, elsewhere))
	})

	t.Run("lookup by owner and name", func(t *testing.T) {
		got, err := store.Collections.GetByOwnerAndName(ctx, owner.ID, "Shelf")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, c.ID, got.ID)

		none, err := store.Collections.GetByOwnerAndName(ctx, owner.ID, "shelf")
		require.NoError(t, err)
		assert.Nil(t, none, "names are case sensitive")
	})

	t.Run("update replaces works and fields", func(t *testing.T) {
		c.Name = "Shelf 2"
		c.Visibility = models.VisibilityShared
		c.Works = []string{w1.ID}
		c.UpdatedAt = time.Now().UTC()
		require.NoError(t, store.Collections.Update(ctx, c))

		got, err := store.Collections.GetByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "Shelf 2", got.Name)
		assert.Equal(t, models.VisibilityShared, got.Visibility)
		assert.Equal(t, []string{w1.ID}, got.Works)
	})

	t.Run("listings", func(t *testing.T) {
		mine, err := store.Collections.GetAllForUser(ctx, owner.ID)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, []string{w1.ID}, mine[0].Works)

		byIDs, err := store.Collections.GetByIDs(ctx, []string{c.ID, models.NewID()})
		require.NoError(t, err)
		assert.Len(t, byIDs, 1)

		public, err := store.Collections.GetPublic(ctx)
		require.NoError(t, err)
		for _, p := range public {
			assert.Equal(t, models.VisibilityPublic, p.Visibility)
		}
	})

	t.Run("delete leaves shares in place", func(t *testing.T) {
		share := models.NewShare(c.ID, other.ID, owner.ID, models.RightsRead)
		require.NoError(t, store.Shares.Create(ctx, share))

		require.NoError(t, store.Collections.Delete(ctx, c.ID))

		gone, err := store.Collections.GetByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Nil(t, gone)

		shares, err := store.Shares.GetByCollection(ctx, c.ID)
		require.NoError(t, err)
		assert.Len(t, shares, 1)
	})
}

func testShares(t *testing.T, store *Store) {
	ctx := context.Background()
	owner := newTestUser(t, store)
	guest := newTestUser(t, store)
	c := models.NewCollection(owner.ID, "Shared shelf", models.WorkTypeBook, models.VisibilityShared, nil)
	require.NoError(t, store.Collections.Create(ctx, c))

	share := models.NewShare(c.ID, guest.ID, owner.ID, models.RightsEdit)
	require.NoError(t, store.Shares.Create(ctx, share))

	t.Run("pending share grants nothing", func(t *testing.T) {
		got, err := store.Shares.GetAccepted(ctx, c.ID, guest.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("accepted share is found", func(t *testing.T) {
		require.NoError(t, store.Shares.UpdateStatus(ctx, share.ID, models.ShareAccepted, time.Now()))

		got, err := store.Shares.GetAccepted(ctx, c.ID, guest.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, share.ID, got.ID)
		assert.Equal(t, models.RightsEdit, got.Rights)
	})

	t.Run("listing by guest", func(t *testing.T) {
		got, err := store.Shares.GetByGuest(ctx, guest.ID)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, models.ShareAccepted, got[0].Status)
	})

	t.Run("delete by collection", func(t *testing.T) {
		second := models.NewShare(c.ID, newTestUser(t, store).ID, owner.ID, "")
		require.NoError(t, store.Shares.Create(ctx, second))

		n, err := store.Shares.DeleteByCollection(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		left, err := store.Shares.GetByCollection(ctx, c.ID)
		require.NoError(t, err)
		assert.Empty(t, left)
	})
}

func testNotifications(t *testing.T, store *Store) {
	ctx := context.Background()
	owner := newTestUser(t, store)
	guest := newTestUser(t, store)
	share := models.NewShare(models.NewID(), guest.ID, owner.ID, "")
	require.NoError(t, store.Shares.Create(ctx, share))

	first := models.NewShareNotification(share, "A", owner.Username)
	require.NoError(t, store.Notifications.Create(ctx, first))
	second := models.NewShareNotification(share, "B", owner.Username)
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	require.NoError(t, store.Notifications.Create(ctx, second))

	t.Run("newest first and unread count", func(t *testing.T) {
		all, err := store.Notifications.GetForUser(ctx, guest.ID, false)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, second.ID, all[0].ID)
		assert.Nil(t, all[0].ReadAt)

		count, err := store.Notifications.CountUnread(ctx, guest.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("mark one read", func(t *testing.T) {
		require.NoError(t, store.Notifications.MarkRead(ctx, first.ID, time.Now()))

		got, err := store.Notifications.GetByID(ctx, first.ID)
		require.NoError(t, err)
		require.NotNil(t, got.ReadAt)

		unread, err := store.Notifications.GetForUser(ctx, guest.ID, true)
		require.NoError(t, err)
		require.Len(t, unread, 1)
		assert.Equal(t, second.ID, unread[0].ID)
	})

	t.Run("mark read by share only touches unread", func(t *testing.T) {
		n, err := store.Notifications.MarkReadByShare(ctx, share.ID, time.Now())
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		count, err := store.Notifications.CountUnread(ctx, guest.ID)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("mark all read", func(t *testing.T) {
		extra := models.NewShareNotification(share, "C", owner.Username)
		require.NoError(t, store.Notifications.Create(ctx, extra))

		n, err := store.Notifications.MarkAllRead(ctx, guest.ID, time.Now())
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("delete by share", func(t *testing.T) {
		n, err := store.Notifications.DeleteByShare(ctx, share.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)

		left, err := store.Notifications.GetForUser(ctx, guest.ID, false)
		require.NoError(t, err)
		assert.Empty(t, left)
	})
}
