package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/gather/server/internal/models"
)

// ShareRepository implements ShareRepo for PostgreSQL/SQLite
type ShareRepository struct {
	db *sql.DB
}

// NewShareRepository creates a new ShareRepository
func NewShareRepository(db *sql.DB) *ShareRepository {
	return &ShareRepository{db: db}
}

const shareColumns = `id, collection_id, guest_id, author_id, rights, status, created_at, updated_at`

func scanShare(row interface{ Scan(...interface{}) error }) (*models.Share, error) {
	var s models.Share
	err := row.Scan(&s.ID, &s.CollectionID, &s.GuestID, &s.AuthorID, &s.Rights, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ShareRepository) Create(ctx context.Context, s *models.Share) error {
	query := `INSERT INTO shares (` + shareColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.CollectionID, s.GuestID, s.AuthorID, s.Rights, s.Status, s.CreatedAt, s.UpdatedAt,
	)
	return translateError(err)
}

func (r *ShareRepository) GetByID(ctx context.Context, id string) (*models.Share, error) {
	s, err := scanShare(r.db.QueryRowContext(ctx, `SELECT `+shareColumns+` FROM shares WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

func (r *ShareRepository) GetByGuest(ctx context.Context, guestID string) ([]*models.Share, error) {
	return r.list(ctx, `SELECT `+shareColumns+` FROM shares WHERE guest_id = $1 ORDER BY created_at DESC`, guestID)
}

func (r *ShareRepository) GetByCollection(ctx context.Context, collectionID string) ([]*models.Share, error) {
	return r.list(ctx, `SELECT `+shareColumns+` FROM shares WHERE collection_id = $1 ORDER BY created_at DESC`, collectionID)
}

// GetAccepted returns the accepted share granting guestID access, if any
func (r *ShareRepository) GetAccepted(ctx context.Context, collectionID, guestID string) (*models.Share, error) {
	query := `SELECT ` + shareColumns + ` FROM shares
			  WHERE collection_id = $1 AND guest_id = $2 AND status = $3
			  ORDER BY updated_at DESC LIMIT 1`
	s, err := scanShare(r.db.QueryRowContext(ctx, query, collectionID, guestID, string(models.ShareAccepted)))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

func (r *ShareRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Share, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shares := []*models.Share{}
	for rows.Next() {
		s, err := scanShare(rows)
		if err != nil {
			return nil, err
		}
		shares = append(shares, s)
	}
	return shares, rows.Err()
}

func (r *ShareRepository) UpdateStatus(ctx context.Context, id string, status models.ShareStatus, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE shares SET status = $1, updated_at = $2 WHERE id = $3`, status, at.UTC(), id)
	return err
}

func (r *ShareRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM shares WHERE id = $1`, id)
	return err
}

func (r *ShareRepository) DeleteByCollection(ctx context.Context, collectionID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM shares WHERE collection_id = $1`, collectionID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
