package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gather/server/internal/models"
)

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "works.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadWorkSeed(t *testing.T) {
	t.Run("decodes works", func(t *testing.T) {
		path := writeSeed(t, `
[[works]]
id = "65f1c0ffee0000000000a001"
title = " Dune "
author = "Frank Herbert"
published_at = 1965-08-01
type = "book"
genre = ["scifi", "classic"]
description = "Spice."

[[works]]
title = "Alien"
author = "Ridley Scott"
published_at = 1979-05-25
type = "movie"
`)
		works, err := LoadWorkSeed(path)
		require.NoError(t, err)
		require.Len(t, works, 2)

		dune := works[0]
		assert.Equal(t, "65f1c0ffee0000000000a001", dune.ID)
		assert.Equal(t, "Dune", dune.Title)
		assert.Equal(t, []string{"scifi", "classic"}, dune.Genre)
		assert.True(t, dune.PublishedAt.Equal(time.Date(1965, 8, 1, 0, 0, 0, 0, time.UTC)))
		require.NotNil(t, dune.Description)
		assert.Equal(t, "Spice.", *dune.Description)

		alien := works[1]
		assert.True(t, models.IsValidID(alien.ID))
		assert.Equal(t, []string{}, alien.Genre)
		assert.Equal(t, []string{}, alien.Images)
	})

	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "[[works]]\ntitle = \"X\"\ntype = \"book\"\npublished_at = 2000-01-01\nrating = 5\n"},
		{"missing title", "[[works]]\ntype = \"book\"\npublished_at = 2000-01-01\n"},
		{"bad type", "[[works]]\ntitle = \"X\"\ntype = \"podcast\"\npublished_at = 2000-01-01\n"},
		{"bad id", "[[works]]\nid = \"42\"\ntitle = \"X\"\ntype = \"book\"\npublished_at = 2000-01-01\n"},
		{"missing date", "[[works]]\ntitle = \"X\"\ntype = \"book\"\n"},
		{"not toml", "[[works]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadWorkSeed(writeSeed(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestSeedWorks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	path := writeSeed(t, `
[[works]]
id = "65f1c0ffee0000000000a001"
title = "Dune"
published_at = 1965-08-01
type = "book"
`)

	works, err := LoadWorkSeed(path)
	require.NoError(t, err)
	n, err := SeedWorks(ctx, env.store.Works, works)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// seeding twice updates in place
	works, err = LoadWorkSeed(path)
	require.NoError(t, err)
	works[0].Title = "Dune (1965)"
	_, err = SeedWorks(ctx, env.store.Works, works)
	require.NoError(t, err)

	count, err := env.store.Works.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	got, err := env.works.Get(ctx, "65f1c0ffee0000000000a001")
	require.NoError(t, err)
	assert.Equal(t, "Dune (1965)", got.Title)
}
