package repository

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

// NewPostgresDB creates a PostgreSQL connection pool and migrates the schema
func NewPostgresDB(connStr string) (*sql.DB, error) {
	db, err := OpenPostgres(connStr)
	if err != nil {
		return nil, err
	}
	if err := MigrateUp(db, DialectPostgres); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// OpenPostgres creates the connection pool without touching the schema
func OpenPostgres(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
