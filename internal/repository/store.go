package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/gather/server/internal/config"
)

// Store bundles one repository per record type over a single backend
type Store struct {
	Users         UserRepo
	Works         WorkRepo
	Collections   CollectionRepo
	Shares        ShareRepo
	Notifications NotificationRepo

	backend config.DatabaseBackend
	ping    func(ctx context.Context) error
	close   func(ctx context.Context) error
}

// NewSQLStore builds a Store over an already migrated *sql.DB
func NewSQLStore(db *sql.DB, backend config.DatabaseBackend) *Store {
	return &Store{
		Users:         NewUserRepository(db),
		Works:         NewWorkRepository(db),
		Collections:   NewCollectionRepository(db),
		Shares:        NewShareRepository(db),
		Notifications: NewNotificationRepository(db),
		backend:       backend,
		ping:          db.PingContext,
		close:         func(context.Context) error { return db.Close() },
	}
}

// NewMongoStore builds a Store over a MongoDB database
func NewMongoStore(db *mongo.Database) *Store {
	return &Store{
		Users:         NewMongoUserRepository(db),
		Works:         NewMongoWorkRepository(db),
		Collections:   NewMongoCollectionRepository(db),
		Shares:        NewMongoShareRepository(db),
		Notifications: NewMongoNotificationRepository(db),
		backend:       config.BackendMongo,
		ping:          func(ctx context.Context) error { return db.Client().Ping(ctx, nil) },
		close:         func(ctx context.Context) error { return db.Client().Disconnect(ctx) },
	}
}

// Open connects to the backend selected by cfg and migrates it
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.Backend() {
	case config.BackendMongo:
		db, err := NewMongoDB(ctx, cfg.DatabaseURL, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return NewMongoStore(db), nil
	case config.BackendPostgres:
		db, err := NewPostgresDB(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize PostgreSQL database: %w", err)
		}
		return NewSQLStore(db, config.BackendPostgres), nil
	default:
		db, err := NewSQLiteDB(cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite database: %w", err)
		}
		return NewSQLStore(db, config.BackendSQLite), nil
	}
}

// OpenSQL connects to the SQL backend selected by cfg without migrating it.
// It fails for the document backend, which has no schema versions.
func OpenSQL(cfg *config.Config) (*sql.DB, Dialect, error) {
	switch cfg.Backend() {
	case config.BackendPostgres:
		db, err := OpenPostgres(cfg.DatabaseURL)
		return db, DialectPostgres, err
	case config.BackendSQLite:
		db, err := OpenSQLite(cfg.DatabasePath)
		return db, DialectSQLite, err
	default:
		return nil, "", fmt.Errorf("backend %s has no SQL schema", cfg.Backend())
	}
}

// Backend names the database behind the store
func (s *Store) Backend() config.DatabaseBackend {
	return s.backend
}

// Ping checks the database is reachable
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases the underlying connection
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}
