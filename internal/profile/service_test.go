package profile

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	profiles map[int64]*Profile
	photos   map[int64][]Photo
	nextID   int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		profiles: make(map[int64]*Profile),
		photos:   make(map[int64][]Photo),
		nextID:   1,
	}
}

func (f *fakeRepo) Create(ctx context.Context, p *Profile) error {
	if _, ok := f.profiles[p.UserID]; ok {
		return ErrProfileExists
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	f.profiles[p.UserID] = p
	return nil
}

func (f *fakeRepo) GetByUserID(ctx context.Context, userID int64) (*Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	cp := *p
	cp.Photos = f.photos[userID]
	return &cp, nil
}

func (f *fakeRepo) Update(ctx context.Context, userID int64, req *UpdateProfileRequest) (*Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	if req.DisplayName != nil {
		p.DisplayName = *req.DisplayName
	}
	if req.ShowMe != nil {
		p.ShowMe = *req.ShowMe
	}
	if req.IsVisible != nil {
		p.IsVisible = *req.IsVisible
	}
	return f.GetByUserID(ctx, userID)
}

func (f *fakeRepo) UpdateLocation(ctx context.Context, userID int64, lat, lon float64, geohash string) error {
	p, ok := f.profiles[userID]
	if !ok {
		return ErrProfileNotFound
	}
	p.Latitude = &lat
	p.Longitude = &lon
	p.Geohash = &geohash
	return nil
}

func (f *fakeRepo) SetVisibility(ctx context.Context, userID int64, visible bool) error {
	p, ok := f.profiles[userID]
	if !ok {
		return ErrProfileNotFound
	}
	p.IsVisible = visible
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, userID int64) error {
	if _, ok := f.profiles[userID]; !ok {
		return ErrProfileNotFound
	}
	delete(f.profiles, userID)
	delete(f.photos, userID)
	return nil
}

func (f *fakeRepo) AddPhoto(ctx context.Context, userID int64, url string) (*Photo, error) {
	photo := Photo{
		ID:       f.nextID,
		UserID:   userID,
		URL:      url,
		Position: len(f.photos[userID]) + 1,
	}
	f.nextID++
	f.photos[userID] = append(f.photos[userID], photo)
	return &photo, nil
}

func (f *fakeRepo) ListPhotos(ctx context.Context, userID int64) ([]Photo, error) {
	return f.photos[userID], nil
}

func (f *fakeRepo) CountPhotos(ctx context.Context, userID int64) (int, error) {
	return len(f.photos[userID]), nil
}

func (f *fakeRepo) DeletePhoto(ctx context.Context, userID, photoID int64) error {
	photos := f.photos[userID]
	for i, p := range photos {
		if p.ID == photoID {
			f.photos[userID] = append(photos[:i], photos[i+1:]...)
			return nil
		}
	}
	return ErrPhotoNotFound
}

type fakeUploader struct {
	uploads int
}

func (f *fakeUploader) Upload(ctx context.Context, filename, contentType string, body io.Reader, size int64) (string, error) {
	f.uploads++
	return fmt.Sprintf("https://cdn.example.com/%d.jpg", f.uploads), nil
}

func testService(t *testing.T) (Service, *fakeRepo, *fakeUploader) {
	t.Helper()
	repo := newFakeRepo()
	uploader := &fakeUploader{}
	svc := NewService(repo, uploader, Options{
		GeohashPrecision: 5,
		MinAge:           18,
		MaxAge:           100,
		DefaultMaxDistKm: 100,
		MaxPhotos:        3,
	})
	return svc, repo, uploader
}

func birthDateForAge(age int) string {
	return time.Now().AddDate(-age, 0, -1).Format("2006-01-02")
}

func TestCreateProfile(t *testing.T) {
	svc, _, _ := testService(t)

	p, err := svc.CreateProfile(context.Background(), 1, &CreateProfileRequest{
		DisplayName: "Alice",
		BirthDate:   birthDateForAge(25),
		Gender:      GenderFemale,
		ShowMe:      ShowMeMale,
	})
	require.NoError(t, err)
	assert.True(t, p.IsVisible)
	assert.Equal(t, 25, p.Age(time.Now()))
	assert.Equal(t, 18, p.PrefMinAge)
	assert.Equal(t, 100.0, p.PrefMaxDistanceKm)
}

func TestCreateProfileUnderage(t *testing.T) {
	svc, _, _ := testService(t)

	_, err := svc.CreateProfile(context.Background(), 1, &CreateProfileRequest{
		DisplayName: "Kid",
		BirthDate:   birthDateForAge(17),
		Gender:      GenderMale,
		ShowMe:      ShowMeAny,
	})
	assert.ErrorIs(t, err, ErrUnderage)
}

func TestCreateProfileBadDate(t *testing.T) {
	svc, _, _ := testService(t)

	_, err := svc.CreateProfile(context.Background(), 1, &CreateProfileRequest{
		DisplayName: "Bob",
		BirthDate:   "not-a-date",
		Gender:      GenderMale,
		ShowMe:      ShowMeAny,
	})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestAgeBirthdayAdjustment(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	beforeBirthday := &Profile{BirthDate: time.Date(2000, 7, 1, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, 25, beforeBirthday.Age(now))

	afterBirthday := &Profile{BirthDate: time.Date(2000, 6, 1, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, 26, afterBirthday.Age(now))

	onBirthday := &Profile{BirthDate: time.Date(2000, 6, 15, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, 26, onBirthday.Age(now))
}

func TestUpdateLocationDerivesGeohash(t *testing.T) {
	svc, repo, _ := testService(t)

	_, err := svc.CreateProfile(context.Background(), 1, &CreateProfileRequest{
		DisplayName: "Alice",
		BirthDate:   birthDateForAge(25),
		Gender:      GenderFemale,
		ShowMe:      ShowMeMale,
	})
	require.NoError(t, err)

	lat, lon := 55.7558, 37.6173
	p, err := svc.UpdateLocation(context.Background(), 1, &UpdateLocationRequest{
		Latitude:  &lat,
		Longitude: &lon,
	})
	require.NoError(t, err)
	require.NotNil(t, p.Geohash)
	assert.Equal(t, "ucfv0", *p.Geohash)

	stored := repo.profiles[1]
	assert.Equal(t, lat, *stored.Latitude)
	assert.Equal(t, lon, *stored.Longitude)
}

func TestUpdateLocationRejectsInvalidCoordinates(t *testing.T) {
	svc, _, _ := testService(t)

	_, err := svc.CreateProfile(context.Background(), 1, &CreateProfileRequest{
		DisplayName: "Alice",
		BirthDate:   birthDateForAge(25),
		Gender:      GenderFemale,
		ShowMe:      ShowMeMale,
	})
	require.NoError(t, err)

	lat, lon := 91.0, 37.6173
	_, err = svc.UpdateLocation(context.Background(), 1, &UpdateLocationRequest{
		Latitude:  &lat,
		Longitude: &lon,
	})
	assert.Error(t, err)
}

func TestPhotoCapacityBound(t *testing.T) {
	svc, _, _ := testService(t)

	_, err := svc.CreateProfile(context.Background(), 1, &CreateProfileRequest{
		DisplayName: "Alice",
		BirthDate:   birthDateForAge(25),
		Gender:      GenderFemale,
		ShowMe:      ShowMeMale,
	})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := svc.AddPhoto(context.Background(), 1, "p.jpg", "image/jpeg", strings.NewReader("data"), 4)
		require.NoError(t, err)
	}

	_, err = svc.AddPhoto(context.Background(), 1, "p.jpg", "image/jpeg", strings.NewReader("data"), 4)
	assert.ErrorIs(t, err, ErrPhotoLimit)
}
