// internal/discovery/repository.go
// Candidate sourcing. The SQL pre-filter is deliberately coarse (basic
// columns plus an optional geohash-prefix cut) and may over-return;
// FilterCandidates is the authority on eligibility.

package discovery

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"

	"github.com/sparkmatch/sparkmatch-backend/internal/profile"
)

// ProfileStore supplies candidate profiles for discovery
type ProfileStore interface {
	Get(ctx context.Context, userID int64) (*profile.Profile, error)
	Search(ctx context.Context, requester *profile.Profile, settings Settings, limit int) ([]*profile.Profile, error)
	PrimaryPhotoURLs(ctx context.Context, userIDs []int64) (map[int64]string, error)
}

type postgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a Postgres-backed candidate store
func NewPostgresStore(db *sqlx.DB) ProfileStore {
	return &postgresStore{db: db}
}

const profileColumns = `user_id, display_name, birth_date, gender, show_me, city, bio,
	goal, education, interests, languages, latitude, longitude, geohash,
	pref_min_age, pref_max_age, pref_max_distance_km,
	is_visible, is_verified, created_at, updated_at`

func (s *postgresStore) Get(ctx context.Context, userID int64) (*profile.Profile, error) {
	var p profile.Profile
	query := fmt.Sprintf(`SELECT %s FROM profiles WHERE user_id = $1`, profileColumns)

	err := s.db.GetContext(ctx, &p, query, userID)
	if err == sql.ErrNoRows {
		return nil, profile.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &p, nil
}

func (s *postgresStore) Search(ctx context.Context, requester *profile.Profile, settings Settings, limit int) ([]*profile.Profile, error) {
	now := time.Now()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(profileColumns).From("profiles")
	sb.Where(
		sb.NotEqual("user_id", requester.UserID),
		sb.Equal("is_visible", true),
		// age window expressed as a birth-date window
		sb.LessEqualThan("birth_date", now.AddDate(-settings.MinAge, 0, 0)),
		sb.GreaterThan("birth_date", now.AddDate(-settings.MaxAge-1, 0, 0)),
		// already-seen exclusion: one recorded interaction hides a
		// candidate from discovery for good
		fmt.Sprintf("NOT EXISTS (SELECT 1 FROM interactions i WHERE i.actor_id = %s AND i.target_id = profiles.user_id)",
			sb.Args.Add(requester.UserID)),
	)

	// Coarse gender pre-filter in both directions; FilterCandidates
	// re-checks the full predicate.
	if settings.ShowMe != profile.ShowMeAny {
		sb.Where(sb.Equal("gender", settings.ShowMe))
	}
	sb.Where(sb.Or(
		sb.Equal("show_me", profile.ShowMeAny),
		sb.Equal("show_me", requester.Gender),
	))

	// Geohash-prefix cut when the requester has a location. The prefix is
	// short enough that its cell dwarfs the distance ceiling, so boundary
	// neighbors still land in the pool; unlocated candidates are kept.
	if requester.Geohash != nil {
		if prefixLen := geohashPrefixLen(settings.MaxDistanceKm); prefixLen > 0 && len(*requester.Geohash) >= prefixLen {
			prefix := (*requester.Geohash)[:prefixLen]
			sb.Where(sb.Or(
				sb.Like("geohash", prefix+"%"),
				sb.IsNull("geohash"),
			))
		}
	}

	sb.OrderBy("created_at DESC")
	sb.Limit(limit)

	query, args := sb.Build()

	var candidates []*profile.Profile
	if err := s.db.SelectContext(ctx, &candidates, query, args...); err != nil {
		return nil, fmt.Errorf("candidate search failed: %w", err)
	}

	return candidates, nil
}

func (s *postgresStore) PrimaryPhotoURLs(ctx context.Context, userIDs []int64) (map[int64]string, error) {
	if len(userIDs) == 0 {
		return map[int64]string{}, nil
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("DISTINCT ON (user_id) user_id", "url").From("profile_photos")
	sb.Where(sb.In("user_id", sqlbuilder.List(userIDs)))
	sb.OrderBy("user_id", "position")

	query, args := sb.Build()

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch photos: %w", err)
	}
	defer rows.Close()

	urls := make(map[int64]string, len(userIDs))
	for rows.Next() {
		var userID int64
		var url string
		if err := rows.Scan(&userID, &url); err != nil {
			return nil, err
		}
		urls[userID] = url
	}

	return urls, rows.Err()
}

// geohashPrefixLen picks the longest geohash prefix whose cell comfortably
// contains the distance ceiling. Zero disables the cut; a non-positive
// ceiling means no distance rule, so no cut either.
func geohashPrefixLen(maxDistanceKm float64) int {
	if maxDistanceKm <= 0 {
		return 0
	}

	// Approximate minimum cell dimension per precision, in km.
	cells := []float64{5000, 625, 156, 19.5, 4.9}

	best := 0
	for i, dim := range cells {
		if dim >= 4*maxDistanceKm {
			best = i + 1
		}
	}
	return best
}
