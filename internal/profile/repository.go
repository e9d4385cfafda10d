// internal/profile/repository.go

package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists")
	ErrPhotoNotFound   = errors.New("photo not found")
)

// Repository defines the profile repository interface
type Repository interface {
	Create(ctx context.Context, p *Profile) error
	GetByUserID(ctx context.Context, userID int64) (*Profile, error)
	Update(ctx context.Context, userID int64, req *UpdateProfileRequest) (*Profile, error)
	UpdateLocation(ctx context.Context, userID int64, lat, lon float64, geohash string) error
	SetVisibility(ctx context.Context, userID int64, visible bool) error
	Delete(ctx context.Context, userID int64) error

	// Photos
	AddPhoto(ctx context.Context, userID int64, url string) (*Photo, error)
	ListPhotos(ctx context.Context, userID int64) ([]Photo, error)
	CountPhotos(ctx context.Context, userID int64) (int, error)
	DeletePhoto(ctx context.Context, userID, photoID int64) error
}

// postgresRepository implements Repository using PostgreSQL
type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, p *Profile) error {
	query := `
		INSERT INTO profiles (
			user_id, display_name, birth_date, gender, show_me, city, bio,
			goal, education, interests, languages,
			pref_min_age, pref_max_age, pref_max_distance_km, is_visible
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(
		ctx, query,
		p.UserID, p.DisplayName, p.BirthDate, p.Gender, p.ShowMe,
		p.City, p.Bio, p.Goal, p.Education,
		pq.Array([]string(p.Interests)), pq.Array([]string(p.Languages)),
		p.PrefMinAge, p.PrefMaxAge, p.PrefMaxDistanceKm, p.IsVisible,
	).Scan(&p.CreatedAt, &p.UpdatedAt)

	if isUniqueViolation(err) {
		return ErrProfileExists
	}
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByUserID(ctx context.Context, userID int64) (*Profile, error) {
	var p Profile
	query := `
		SELECT user_id, display_name, birth_date, gender, show_me, city, bio,
		       goal, education, interests, languages, latitude, longitude,
		       geohash, pref_min_age, pref_max_age, pref_max_distance_km,
		       is_visible, is_verified, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`

	err := r.db.GetContext(ctx, &p, query, userID)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	photos, err := r.ListPhotos(ctx, userID)
	if err != nil {
		return nil, err
	}
	p.Photos = photos

	return &p, nil
}

func (r *postgresRepository) Update(ctx context.Context, userID int64, req *UpdateProfileRequest) (*Profile, error) {
	query := `
		UPDATE profiles
		SET display_name         = COALESCE($2, display_name),
		    show_me              = COALESCE($3, show_me),
		    city                 = COALESCE($4, city),
		    bio                  = COALESCE($5, bio),
		    goal                 = COALESCE($6, goal),
		    education            = COALESCE($7, education),
		    interests            = COALESCE($8, interests),
		    languages            = COALESCE($9, languages),
		    pref_min_age         = COALESCE($10, pref_min_age),
		    pref_max_age         = COALESCE($11, pref_max_age),
		    pref_max_distance_km = COALESCE($12, pref_max_distance_km),
		    is_visible           = COALESCE($13, is_visible),
		    updated_at           = CURRENT_TIMESTAMP
		WHERE user_id = $1
	`

	var interests, languages interface{}
	if req.Interests != nil {
		interests = pq.Array(req.Interests)
	}
	if req.Languages != nil {
		languages = pq.Array(req.Languages)
	}

	res, err := r.db.ExecContext(
		ctx, query,
		userID, req.DisplayName, req.ShowMe, req.City, req.Bio,
		req.Goal, req.Education, interests, languages,
		req.PrefMinAge, req.PrefMaxAge, req.PrefMaxDistanceKm, req.IsVisible,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrProfileNotFound
	}

	return r.GetByUserID(ctx, userID)
}

func (r *postgresRepository) UpdateLocation(ctx context.Context, userID int64, lat, lon float64, geohash string) error {
	query := `
		UPDATE profiles
		SET latitude = $2, longitude = $3, geohash = $4, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $1
	`

	res, err := r.db.ExecContext(ctx, query, userID, lat, lon, geohash)
	if err != nil {
		return fmt.Errorf("failed to update location: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProfileNotFound
	}

	return nil
}

func (r *postgresRepository) SetVisibility(ctx context.Context, userID int64, visible bool) error {
	query := `
		UPDATE profiles
		SET is_visible = $2, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $1
	`

	res, err := r.db.ExecContext(ctx, query, userID, visible)
	if err != nil {
		return fmt.Errorf("failed to update visibility: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProfileNotFound
	}

	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, userID int64) error {
	// Deleting the users row cascades to profiles, photos, interactions
	// and matches.
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProfileNotFound
	}

	return nil
}

// Photo methods

func (r *postgresRepository) AddPhoto(ctx context.Context, userID int64, url string) (*Photo, error) {
	var photo Photo
	query := `
		INSERT INTO profile_photos (user_id, url, position)
		VALUES ($1, $2, (
			SELECT COALESCE(MAX(position), 0) + 1 FROM profile_photos WHERE user_id = $1
		))
		RETURNING id, user_id, url, position, created_at
	`

	err := r.db.QueryRowxContext(ctx, query, userID, url).StructScan(&photo)
	if err != nil {
		return nil, fmt.Errorf("failed to add photo: %w", err)
	}

	return &photo, nil
}

func (r *postgresRepository) ListPhotos(ctx context.Context, userID int64) ([]Photo, error) {
	var photos []Photo
	query := `
		SELECT id, user_id, url, position, created_at
		FROM profile_photos
		WHERE user_id = $1
		ORDER BY position
	`

	if err := r.db.SelectContext(ctx, &photos, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}

	return photos, nil
}

func (r *postgresRepository) CountPhotos(ctx context.Context, userID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM profile_photos WHERE user_id = $1`

	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("failed to count photos: %w", err)
	}

	return count, nil
}

func (r *postgresRepository) DeletePhoto(ctx context.Context, userID, photoID int64) error {
	res, err := r.db.ExecContext(
		ctx,
		`DELETE FROM profile_photos WHERE id = $1 AND user_id = $2`,
		photoID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPhotoNotFound
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
