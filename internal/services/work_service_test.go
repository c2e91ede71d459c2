package services

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gather/server/internal/models"
)

func TestParseWorkFilter(t *testing.T) {
	date := func(y int) *time.Time {
		d := time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC)
		return &d
	}

	tests := []struct {
		name  string
		query string
		want  models.WorkFilter
		err   error
	}{
		{"defaults", "", models.WorkFilter{Limit: 20}, nil},
		{"type", "type=movie", models.WorkFilter{Type: models.WorkTypeMovie, Limit: 20}, nil},
		{"unknown type", "type=podcast", models.WorkFilter{}, models.ErrInvalidWorkType},
		{"repeated and comma genres", "genre=scifi,drama&genre=scifi&genre=+classic+", models.WorkFilter{Genres: []string{"scifi", "drama", "classic"}, Limit: 20}, nil},
		{"exact year", "year=1965", models.WorkFilter{PublishedFrom: date(1965), PublishedBefore: date(1966), Limit: 20}, nil},
		{"before 1900", "year=before-1900", models.WorkFilter{PublishedBefore: date(1900), Limit: 20}, nil},
		{"short year", "year=65", models.WorkFilter{}, models.ErrInvalidYear},
		{"word year", "year=abcd", models.WorkFilter{}, models.ErrInvalidYear},
		{"search is trimmed", "search=+dune+", models.WorkFilter{Search: "dune", Limit: 20}, nil},
		{"limit", "limit=100", models.WorkFilter{Limit: 100}, nil},
		{"limit zero", "limit=0", models.WorkFilter{}, models.ErrInvalidLimit},
		{"limit too large", "limit=101", models.WorkFilter{}, models.ErrInvalidLimit},
		{"limit not a number", "limit=ten", models.WorkFilter{}, models.ErrInvalidLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			got, err := ParseWorkFilter(q)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want.Type, got.Type)
			assert.Equal(t, tt.want.Search, got.Search)
			assert.Equal(t, tt.want.Limit, got.Limit)
			if len(tt.want.Genres) > 0 {
				assert.Equal(t, tt.want.Genres, got.Genres)
			} else {
				assert.Empty(t, got.Genres)
			}
			assert.Equal(t, tt.want.PublishedFrom, got.PublishedFrom)
			assert.Equal(t, tt.want.PublishedBefore, got.PublishedBefore)
		})
	}
}

func TestWorkService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	dune := env.work(t, "Dune", models.WorkTypeBook)
	env.work(t, "Alien", models.WorkTypeMovie)

	t.Run("get", func(t *testing.T) {
		got, err := env.works.Get(ctx, dune.ID)
		require.NoError(t, err)
		assert.Equal(t, "Dune", got.Title)
	})

	t.Run("get invalid id", func(t *testing.T) {
		_, err := env.works.Get(ctx, "dune")
		assert.ErrorIs(t, err, models.ErrInvalidWorkID)
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := env.works.Get(ctx, models.NewID())
		assert.ErrorIs(t, err, models.ErrWorkNotFound)
	})

	t.Run("find by type", func(t *testing.T) {
		works, err := env.works.Find(ctx, models.WorkFilter{Type: models.WorkTypeBook, Limit: 20})
		require.NoError(t, err)
		require.Len(t, works, 1)
		assert.Equal(t, dune.ID, works[0].ID)
	})
}
