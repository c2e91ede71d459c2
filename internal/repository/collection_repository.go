package repository

import (
	"context"
	"database/sql"

	"github.com/gather/server/internal/models"
)

// CollectionRepository implements CollectionRepo for PostgreSQL/SQLite.
// Works membership lives in collection_works, ordered by insertion position.
type CollectionRepository struct {
	db *sql.DB
}

// NewCollectionRepository creates a new CollectionRepository
func NewCollectionRepository(db *sql.DB) *CollectionRepository {
	return &CollectionRepository{db: db}
}

const collectionColumns = `id, user_id, name, type, visibility, created_at, updated_at`

func scanCollection(row interface{ Scan(...interface{}) error }) (*models.Collection, error) {
	var c models.Collection
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Type, &c.Visibility, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Works = []string{}
	return &c, nil
}

func (r *CollectionRepository) Create(ctx context.Context, c *models.Collection) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO collections (` + collectionColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = tx.ExecContext(ctx, query,
		c.ID, c.UserID, c.Name, c.Type, c.Visibility, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return translateError(err)
	}

	if err := insertWorks(ctx, tx, c.ID, c.Works); err != nil {
		return err
	}
	return tx.Commit()
}

func insertWorks(ctx context.Context, tx *sql.Tx, collectionID string, works []string) error {
	for i, workID := range works {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO collection_works (collection_id, work_id, position) VALUES ($1, $2, $3)`,
			collectionID, workID, i,
		)
		if err != nil {
			return translateError(err)
		}
	}
	return nil
}

func (r *CollectionRepository) GetByID(ctx context.Context, id string) (*models.Collection, error) {
	return r.getOne(ctx, `SELECT `+collectionColumns+` FROM collections WHERE id = $1`, id)
}

func (r *CollectionRepository) GetByOwnerAndName(ctx context.Context, userID, name string) (*models.Collection, error) {
	return r.getOne(ctx, `SELECT `+collectionColumns+` FROM collections WHERE user_id = $1 AND name = $2`, userID, name)
}

func (r *CollectionRepository) getOne(ctx context.Context, query string, args ...interface{}) (*models.Collection, error) {
	c, err := scanCollection(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadWorks(ctx, []*models.Collection{c}); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CollectionRepository) GetAllForUser(ctx context.Context, userID string) ([]*models.Collection, error) {
	return r.list(ctx, `SELECT `+collectionColumns+` FROM collections WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *CollectionRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.Collection, error) {
	if len(ids) == 0 {
		return []*models.Collection{}, nil
	}
	query := `SELECT ` + collectionColumns + ` FROM collections WHERE id IN (` + placeholders(1, len(ids)) + `)
			  ORDER BY created_at DESC`
	return r.list(ctx, query, stringArgs(ids)...)
}

func (r *CollectionRepository) GetPublic(ctx context.Context) ([]*models.Collection, error) {
	return r.list(ctx, `SELECT `+collectionColumns+` FROM collections WHERE visibility = $1 ORDER BY created_at DESC`,
		string(models.VisibilityPublic))
}

func (r *CollectionRepository) GetAll(ctx context.Context) ([]*models.Collection, error) {
	return r.list(ctx, `SELECT `+collectionColumns+` FROM collections ORDER BY created_at DESC`)
}

// list reads every row before loading works so the single sqlite connection
// is free for the second query.
func (r *CollectionRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Collection, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	collections := []*models.Collection{}
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		collections = append(collections, c)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if err := r.loadWorks(ctx, collections); err != nil {
		return nil, err
	}
	return collections, nil
}

func (r *CollectionRepository) loadWorks(ctx context.Context, collections []*models.Collection) error {
	if len(collections) == 0 {
		return nil
	}
	byID := make(map[string]*models.Collection, len(collections))
	ids := make([]string, 0, len(collections))
	for _, c := range collections {
		byID[c.ID] = c
		ids = append(ids, c.ID)
	}

	query := `SELECT collection_id, work_id FROM collection_works
			  WHERE collection_id IN (` + placeholders(1, len(ids)) + `)
			  ORDER BY collection_id, position`
	rows, err := r.db.QueryContext(ctx, query, stringArgs(ids)...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var collectionID, workID string
		if err := rows.Scan(&collectionID, &workID); err != nil {
			return err
		}
		if c, ok := byID[collectionID]; ok {
			c.Works = append(c.Works, workID)
		}
	}
	return rows.Err()
}

func (r *CollectionRepository) Update(ctx context.Context, c *models.Collection) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `UPDATE collections SET name = $1, type = $2, visibility = $3, updated_at = $4 WHERE id = $5`
	if _, err := tx.ExecContext(ctx, query, c.Name, c.Type, c.Visibility, c.UpdatedAt, c.ID); err != nil {
		return translateError(err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM collection_works WHERE collection_id = $1`, c.ID); err != nil {
		return err
	}
	if err := insertWorks(ctx, tx, c.ID, c.Works); err != nil {
		return err
	}

	return tx.Commit()
}

// Delete removes the collection and its works membership. Shares and
// notifications that reference it are left untouched.
func (r *CollectionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM collections WHERE id = $1`, id)
	return err
}
