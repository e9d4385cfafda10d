// internal/discovery/service.go

package discovery

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sparkmatch/sparkmatch-backend/internal/geo"
)

var (
	ErrInvalidAgeRange = errors.New("min age cannot exceed max age")

	// ErrStoreUnavailable marks a failed candidate lookup as retryable by
	// the caller; the service itself does not retry.
	ErrStoreUnavailable = errors.New("profile store unavailable")
)

// Options carries discovery tunables from configuration
type Options struct {
	PoolSize int
	MinAge   int
	MaxAge   int
}

// Service defines discovery operations
type Service interface {
	SearchCandidates(ctx context.Context, requesterID int64, q *SearchQuery) ([]*Candidate, error)
	ComputeCompatibility(ctx context.Context, userID, otherID int64) (float64, error)
}

type service struct {
	store ProfileStore
	opts  Options
}

// NewService creates a discovery service
func NewService(store ProfileStore, opts Options) Service {
	if opts.PoolSize == 0 {
		opts.PoolSize = 200
	}
	return &service{store: store, opts: opts}
}

func (s *service) SearchCandidates(ctx context.Context, requesterID int64, q *SearchQuery) ([]*Candidate, error) {
	requester, err := s.store.Get(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	settings := SettingsFromProfile(requester)
	if settings.MinAge == 0 {
		settings.MinAge = s.opts.MinAge
	}
	if settings.MaxAge == 0 {
		settings.MaxAge = s.opts.MaxAge
	}
	if q.MinAge != nil {
		settings.MinAge = *q.MinAge
	}
	if q.MaxAge != nil {
		settings.MaxAge = *q.MaxAge
	}
	if q.MaxDistanceKm != nil {
		settings.MaxDistanceKm = *q.MaxDistanceKm
	}

	if settings.MinAge > settings.MaxAge {
		return nil, ErrInvalidAgeRange
	}
	if settings.MinAge < s.opts.MinAge {
		settings.MinAge = s.opts.MinAge
	}
	if settings.MaxAge > s.opts.MaxAge {
		settings.MaxAge = s.opts.MaxAge
	}

	pool, err := s.store.Search(ctx, requester, settings, s.opts.PoolSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	now := time.Now()
	eligible := FilterCandidates(pool, requester, settings, now)

	candidates := make([]*Candidate, 0, len(eligible))
	for _, c := range eligible {
		cand := &Candidate{
			UserID:      c.UserID,
			DisplayName: c.DisplayName,
			Age:         c.Age(now),
			Gender:      c.Gender,
			City:        c.City,
			Bio:         c.Bio,
			Goal:        c.Goal,
			Interests:   c.Interests,
			Languages:   c.Languages,
			IsVerified:  c.IsVerified,
			Score:       Score(requester, c),
		}
		if requester.HasLocation() && c.HasLocation() {
			dist := geo.Haversine(*requester.Latitude, *requester.Longitude, *c.Latitude, *c.Longitude)
			cand.DistanceKm = &dist
		}
		recordCompatibilityScore(cand.Score)
		candidates = append(candidates, cand)
	}

	// Rank by score, then proximity (unlocated last), then user id for a
	// stable order across pages.
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		switch {
		case a.DistanceKm != nil && b.DistanceKm != nil:
			if *a.DistanceKm != *b.DistanceKm {
				return *a.DistanceKm < *b.DistanceKm
			}
		case a.DistanceKm != nil:
			return true
		case b.DistanceKm != nil:
			return false
		}
		return a.UserID < b.UserID
	})

	// Page after filtering; the store's pool is not a stable pagination
	// surface on its own.
	if q.Offset >= len(candidates) {
		recordSearch(0)
		return []*Candidate{}, nil
	}
	end := q.Offset + q.Limit
	if end > len(candidates) {
		end = len(candidates)
	}
	page := candidates[q.Offset:end]

	if err := s.attachPhotos(ctx, page); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	recordSearch(len(page))
	return page, nil
}

func (s *service) ComputeCompatibility(ctx context.Context, userID, otherID int64) (float64, error) {
	a, err := s.store.Get(ctx, userID)
	if err != nil {
		return 0, err
	}

	b, err := s.store.Get(ctx, otherID)
	if err != nil {
		return 0, err
	}

	score := Score(a, b)
	recordCompatibilityScore(score)
	return score, nil
}

func (s *service) attachPhotos(ctx context.Context, page []*Candidate) error {
	if len(page) == 0 {
		return nil
	}

	ids := make([]int64, len(page))
	for i, c := range page {
		ids[i] = c.UserID
	}

	urls, err := s.store.PrimaryPhotoURLs(ctx, ids)
	if err != nil {
		return err
	}

	for _, c := range page {
		if url, ok := urls[c.UserID]; ok {
			u := url
			c.PhotoURL = &u
		}
	}

	return nil
}
