package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gather/server/internal/models"
	"github.com/gather/server/internal/repository"
)

const (
	defaultWorkLimit = 20
	maxWorkLimit     = 100
)

// WorkService queries the read-only work catalog
type WorkService struct {
	works repository.WorkRepo
}

// NewWorkService creates a new WorkService
func NewWorkService(works repository.WorkRepo) *WorkService {
	return &WorkService{works: works}
}

// ParseWorkFilter reads type, genre, year, search and limit from query
// parameters. Genres may be comma separated and/or repeated.
func ParseWorkFilter(q url.Values) (models.WorkFilter, error) {
	filter := models.WorkFilter{Limit: defaultWorkLimit}

	if t := strings.TrimSpace(q.Get("type")); t != "" {
		if !models.IsValidWorkType(t) {
			return filter, models.ErrInvalidWorkType
		}
		filter.Type = models.WorkType(t)
	}

	for _, raw := range q["genre"] {
		for _, g := range strings.Split(raw, ",") {
			if g = strings.TrimSpace(g); g != "" {
				filter.Genres = append(filter.Genres, g)
			}
		}
	}
	filter.Genres = models.DedupeIDs(filter.Genres)

	if y := strings.TrimSpace(q.Get("year")); y != "" {
		from, before, err := parseYear(y)
		if err != nil {
			return filter, err
		}
		filter.PublishedFrom, filter.PublishedBefore = from, before
	}

	filter.Search = strings.TrimSpace(q.Get("search"))

	if l := strings.TrimSpace(q.Get("limit")); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 1 || n > maxWorkLimit {
			return filter, models.ErrInvalidLimit
		}
		filter.Limit = n
	}
	return filter, nil
}

// parseYear turns "YYYY" into [Jan 1 YYYY, Jan 1 YYYY+1) and "before-1900"
// into (-inf, Jan 1 1900)
func parseYear(y string) (*time.Time, *time.Time, error) {
	if y == models.YearBefore1900 {
		before := time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
		return nil, &before, nil
	}
	if len(y) != 4 {
		return nil, nil, models.ErrInvalidYear
	}
	year, err := strconv.Atoi(y)
	if err != nil || year < 0 {
		return nil, nil, models.ErrInvalidYear
	}
	from := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	before := from.AddDate(1, 0, 0)
	return &from, &before, nil
}

// Find returns the works matching the filter, newest publication first
func (s *WorkService) Find(ctx context.Context, filter models.WorkFilter) ([]*models.Work, error) {
	works, err := s.works.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query works: %w", err)
	}
	return works, nil
}

// Get returns one work
func (s *WorkService) Get(ctx context.Context, id string) (*models.Work, error) {
	if !models.IsValidID(id) {
		return nil, models.ErrInvalidWorkID
	}
	work, err := s.works.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get work: %w", err)
	}
	if work == nil {
		return nil, models.ErrWorkNotFound
	}
	return work, nil
}
