package repository

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gather/server/internal/config"
	"github.com/gather/server/internal/models"
)

func newSQLiteStore(t *testing.T) *Store {
	t.Helper()
	db, err := NewSQLiteDB(filepath.Join(t.TempDir(), "gather.db"))
	require.NoError(t, err)
	store := NewSQLStore(db, config.BackendSQLite)
	t.Cleanup(func() { store.Close(context.Background()) })
	return store
}

func TestSQLiteStore(t *testing.T) {
	runStoreSuite(t, newSQLiteStore(t))
}

func TestSQLiteMigrations(t *testing.T) {
	db, err := NewSQLiteDB(filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	defer db.Close()

	t.Run("up is idempotent", func(t *testing.T) {
		require.NoError(t, MigrateUp(db, DialectSQLite))

		version, dirty, err := SchemaVersion(db, DialectSQLite)
		require.NoError(t, err)
		assert.False(t, dirty)
		assert.Equal(t, uint(1), version)
	})

	t.Run("down drops the schema", func(t *testing.T) {
		require.NoError(t, MigrateDown(db, DialectSQLite))

		version, _, err := SchemaVersion(db, DialectSQLite)
		require.NoError(t, err)
		assert.Zero(t, version)

		_, err = db.Exec(`SELECT COUNT(*) FROM collections`)
		assert.Error(t, err)
	})

	t.Run("unknown dialect", func(t *testing.T) {
		assert.Error(t, MigrateUp(db, Dialect("oracle")))
	})
}

func TestCollectionNameRace(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()
	owner := newTestUser(t, store)

	const workers = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		created  int
		rejected int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := models.NewCollection(owner.ID, "Same name", models.WorkTypeBook, "", nil)
			err := store.Collections.Create(ctx, c)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				created++
			} else if assert.ErrorIs(t, err, ErrDuplicate) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, workers-1, rejected)
}

func TestStoreBackend(t *testing.T) {
	store := newSQLiteStore(t)
	assert.Equal(t, config.BackendSQLite, store.Backend())
	assert.NoError(t, store.Ping(context.Background()))
}
