package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/gather/server/internal/models"
	"github.com/gather/server/internal/observability"
	"github.com/gather/server/internal/repository"
)

// WorkSeedFile is the TOML layout read by `gather seed works`:
//
//	[[works]]
//	id = "65f1c0ffee0000000000a001"   # optional, generated when empty
//	title = "Dune"
//	author = "Frank Herbert"
//	published_at = 1965-08-01
//	type = "book"
//	genre = ["scifi", "classic"]
type WorkSeedFile struct {
	Works []*models.Work `toml:"works"`
}

// LoadWorkSeed decodes and validates a seed file
func LoadWorkSeed(path string) ([]*models.Work, error) {
	var file WorkSeedFile
	meta, err := toml.DecodeFile(path, &file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown keys in %s: %v", path, undecoded)
	}

	for i, w := range file.Works {
		if err := prepareSeedWork(w); err != nil {
			return nil, fmt.Errorf("work #%d: %w", i+1, err)
		}
	}
	return file.Works, nil
}

func prepareSeedWork(w *models.Work) error {
	w.Title = strings.TrimSpace(w.Title)
	w.Author = strings.TrimSpace(w.Author)
	if w.Title == "" {
		return fmt.Errorf("title is required")
	}
	if !models.IsValidWorkType(string(w.Type)) {
		return fmt.Errorf("invalid type %q", w.Type)
	}
	if w.ID != "" && !models.IsValidID(w.ID) {
		return fmt.Errorf("invalid id %q", w.ID)
	}
	if w.PublishedAt.IsZero() {
		return fmt.Errorf("published_at is required")
	}
	// TOML local dates decode in time.Local; keep the calendar date
	y, m, d := w.PublishedAt.Date()
	w.PublishedAt = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	w.Normalize()
	return nil
}

// SeedWorks upserts the works into the catalog and returns how many were written
func SeedWorks(ctx context.Context, repo repository.WorkRepo, works []*models.Work) (int, error) {
	for i, w := range works {
		if err := repo.Upsert(ctx, w); err != nil {
			return i, fmt.Errorf("failed to upsert work %q: %w", w.Title, err)
		}
	}
	observability.Infof("Seeded %d works", len(works))
	return len(works), nil
}
