package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gather/server/internal/models"
)

// WorkRepository implements WorkRepo for PostgreSQL/SQLite. Genres are kept
// twice: as a JSON list on the row and in work_genres for filtering.
type WorkRepository struct {
	db *sql.DB
}

// NewWorkRepository creates a new WorkRepository
func NewWorkRepository(db *sql.DB) *WorkRepository {
	return &WorkRepository{db: db}
}

const workColumns = `id, title, author, published_at, type, genre, images, description, created_at, updated_at`

func scanWork(row interface{ Scan(...interface{}) error }) (*models.Work, error) {
	var (
		w             models.Work
		genre, images string
	)
	err := row.Scan(&w.ID, &w.Title, &w.Author, &w.PublishedAt, &w.Type,
		&genre, &images, &w.Description, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(genre), &w.Genre); err != nil {
		return nil, fmt.Errorf("failed to decode genre of work %s: %w", w.ID, err)
	}
	if err := json.Unmarshal([]byte(images), &w.Images); err != nil {
		return nil, fmt.Errorf("failed to decode images of work %s: %w", w.ID, err)
	}
	return &w, nil
}

func (r *WorkRepository) Create(ctx context.Context, work *models.Work) error {
	return r.write(ctx, work, false)
}

// Upsert inserts the work or replaces the stored one with the same ID
func (r *WorkRepository) Upsert(ctx context.Context, work *models.Work) error {
	return r.write(ctx, work, true)
}

func (r *WorkRepository) write(ctx context.Context, work *models.Work, replace bool) error {
	genre, err := json.Marshal(work.Genre)
	if err != nil {
		return err
	}
	images, err := json.Marshal(work.Images)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO works (` + workColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	if replace {
		query += ` ON CONFLICT (id) DO UPDATE SET title = excluded.title, author = excluded.author,
			  published_at = excluded.published_at, type = excluded.type, genre = excluded.genre,
			  images = excluded.images, description = excluded.description, updated_at = excluded.updated_at`
	}
	_, err = tx.ExecContext(ctx, query,
		work.ID, work.Title, work.Author, work.PublishedAt, work.Type,
		string(genre), string(images), work.Description, work.CreatedAt, work.UpdatedAt,
	)
	if err != nil {
		return translateError(err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM work_genres WHERE work_id = $1`, work.ID); err != nil {
		return err
	}
	for _, g := range models.DedupeIDs(work.Genre) {
		if _, err := tx.ExecContext(ctx, `INSERT INTO work_genres (work_id, genre) VALUES ($1, $2)`, work.ID, g); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *WorkRepository) GetByID(ctx context.Context, id string) (*models.Work, error) {
	query := `SELECT ` + workColumns + ` FROM works WHERE id = $1`
	w, err := scanWork(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return w, err
}

// GetByIDs returns the works that exist among ids, in no particular order
func (r *WorkRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.Work, error) {
	if len(ids) == 0 {
		return []*models.Work{}, nil
	}
	query := `SELECT ` + workColumns + ` FROM works WHERE id IN (` + placeholders(1, len(ids)) + `)`
	return r.query(ctx, query, stringArgs(ids)...)
}

// Find applies the catalog filter, newest publication first
func (r *WorkRepository) Find(ctx context.Context, filter models.WorkFilter) ([]*models.Work, error) {
	var (
		conds []string
		args  []interface{}
	)
	next := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Type != "" {
		conds = append(conds, "w.type = "+next(string(filter.Type)))
	}
	for _, g := range models.DedupeIDs(filter.Genres) {
		conds = append(conds, "EXISTS (SELECT 1 FROM work_genres g WHERE g.work_id = w.id AND g.genre = "+next(g)+")")
	}
	if filter.PublishedFrom != nil {
		conds = append(conds, "w.published_at >= "+next(filter.PublishedFrom.UTC()))
	}
	if filter.PublishedBefore != nil {
		conds = append(conds, "w.published_at < "+next(filter.PublishedBefore.UTC()))
	}
	if filter.Search != "" {
		p := next("%" + escapeLike(strings.ToLower(filter.Search)) + "%")
		conds = append(conds, "(LOWER(w.title) LIKE "+p+" ESCAPE '\\' OR LOWER(w.author) LIKE "+p+" ESCAPE '\\')")
	}

	query := `SELECT ` + prefixColumns("w", workColumns) + ` FROM works w`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY w.published_at DESC, w.id ASC`
	if filter.Limit > 0 {
		query += ` LIMIT ` + next(filter.Limit)
	}

	return r.query(ctx, query, args...)
}

func (r *WorkRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM works`).Scan(&n)
	return n, err
}

func (r *WorkRepository) query(ctx context.Context, query string, args ...interface{}) ([]*models.Work, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	works := []*models.Work{}
	for rows.Next() {
		w, err := scanWork(rows)
		if err != nil {
			return nil, err
		}
		works = append(works, w)
	}
	return works, rows.Err()
}

// placeholders renders "$start, $start+1, ..." for n arguments
func placeholders(start, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", start+i)
	}
	return strings.Join(parts, ", ")
}

func stringArgs(values []string) []interface{} {
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}

func prefixColumns(alias, columns string) string {
	cols := strings.Split(columns, ",")
	for i, c := range cols {
		cols[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
