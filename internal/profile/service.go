// internal/profile/service.go

package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sparkmatch/sparkmatch-backend/internal/geo"
)

var (
	ErrUnderage       = errors.New("must be at least 18 years old")
	ErrInvalidDate    = errors.New("invalid birth date")
	ErrPhotoLimit     = errors.New("photo limit reached")
	ErrInvalidAgePref = errors.New("preferred minimum age cannot exceed preferred maximum age")
)

// Options carries the tunables the service needs from configuration
type Options struct {
	GeohashPrecision int
	MinAge           int
	MaxAge           int
	DefaultMaxDistKm float64
	MaxPhotos        int
}

// Service defines profile business operations
type Service interface {
	CreateProfile(ctx context.Context, userID int64, req *CreateProfileRequest) (*Profile, error)
	GetProfile(ctx context.Context, userID int64) (*Profile, error)
	UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileRequest) (*Profile, error)
	UpdateLocation(ctx context.Context, userID int64, req *UpdateLocationRequest) (*Profile, error)
	SetVisibility(ctx context.Context, userID int64, visible bool) error
	DeleteAccount(ctx context.Context, userID int64) error

	AddPhoto(ctx context.Context, userID int64, filename, contentType string, body io.Reader, size int64) (*Photo, error)
	DeletePhoto(ctx context.Context, userID, photoID int64) error
}

type service struct {
	repo     Repository
	uploader Uploader
	opts     Options
}

// NewService creates a profile service
func NewService(repo Repository, uploader Uploader, opts Options) Service {
	if opts.GeohashPrecision == 0 {
		opts.GeohashPrecision = geo.DefaultPrecision
	}
	if opts.MaxPhotos == 0 {
		opts.MaxPhotos = 6
	}
	return &service{repo: repo, uploader: uploader, opts: opts}
}

func (s *service) CreateProfile(ctx context.Context, userID int64, req *CreateProfileRequest) (*Profile, error) {
	birthDate, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		return nil, ErrInvalidDate
	}

	p := &Profile{
		UserID:            userID,
		DisplayName:       req.DisplayName,
		BirthDate:         birthDate,
		Gender:            req.Gender,
		ShowMe:            req.ShowMe,
		City:              req.City,
		Bio:               req.Bio,
		Goal:              req.Goal,
		Education:         req.Education,
		Interests:         req.Interests,
		Languages:         req.Languages,
		PrefMinAge:        s.opts.MinAge,
		PrefMaxAge:        s.opts.MaxAge,
		PrefMaxDistanceKm: s.opts.DefaultMaxDistKm,
		IsVisible:         true,
	}

	if age := p.Age(time.Now()); age < s.opts.MinAge {
		return nil, ErrUnderage
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *service) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *service) UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileRequest) (*Profile, error) {
	if req.PrefMinAge != nil && req.PrefMaxAge != nil && *req.PrefMinAge > *req.PrefMaxAge {
		return nil, ErrInvalidAgePref
	}

	return s.repo.Update(ctx, userID, req)
}

func (s *service) UpdateLocation(ctx context.Context, userID int64, req *UpdateLocationRequest) (*Profile, error) {
	lat, lon := *req.Latitude, *req.Longitude

	// Coordinates are never trusted from upstream; re-validate before any
	// encode or store touch.
	if err := geo.ValidateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	geohash := geo.Encode(lat, lon, s.opts.GeohashPrecision)

	if err := s.repo.UpdateLocation(ctx, userID, lat, lon, geohash); err != nil {
		return nil, err
	}

	return s.repo.GetByUserID(ctx, userID)
}

func (s *service) SetVisibility(ctx context.Context, userID int64, visible bool) error {
	return s.repo.SetVisibility(ctx, userID, visible)
}

func (s *service) DeleteAccount(ctx context.Context, userID int64) error {
	return s.repo.Delete(ctx, userID)
}

func (s *service) AddPhoto(ctx context.Context, userID int64, filename, contentType string, body io.Reader, size int64) (*Photo, error) {
	count, err := s.repo.CountPhotos(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count >= s.opts.MaxPhotos {
		return nil, fmt.Errorf("%w: maximum %d photos", ErrPhotoLimit, s.opts.MaxPhotos)
	}

	url, err := s.uploader.Upload(ctx, filename, contentType, body, size)
	if err != nil {
		return nil, fmt.Errorf("failed to store photo: %w", err)
	}

	return s.repo.AddPhoto(ctx, userID, url)
}

func (s *service) DeletePhoto(ctx context.Context, userID, photoID int64) error {
	return s.repo.DeletePhoto(ctx, userID, photoID)
}
