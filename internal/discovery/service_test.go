package discovery

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparkmatch/sparkmatch-backend/internal/profile"
)

type fakeStore struct {
	profiles  map[int64]*profile.Profile
	photos    map[int64]string
	searchErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		profiles: make(map[int64]*profile.Profile),
		photos:   make(map[int64]string),
	}
}

func (f *fakeStore) Get(ctx context.Context, userID int64) (*profile.Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	return p, nil
}

func (f *fakeStore) Search(ctx context.Context, requester *profile.Profile, settings Settings, limit int) ([]*profile.Profile, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	var out []*profile.Profile
	for _, p := range f.profiles {
		if p.UserID != requester.UserID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) PrimaryPhotoURLs(ctx context.Context, userIDs []int64) (map[int64]string, error) {
	out := make(map[int64]string)
	for _, id := range userIDs {
		if url, ok := f.photos[id]; ok {
			out[id] = url
		}
	}
	return out, nil
}

func discoveryService(store ProfileStore) Service {
	return NewService(store, Options{PoolSize: 100, MinAge: 18, MaxAge: 100})
}

func seedProfile(store *fakeStore, userID int64, age int, gender, showMe string, interests ...string) *profile.Profile {
	p := testProfile(userID, age, gender, showMe)
	p.Interests = interests
	store.profiles[userID] = p
	return p
}

func TestSearchCandidatesRanksByScore(t *testing.T) {
	store := newFakeStore()
	requester := seedProfile(store, 1, 30, profile.GenderFemale, profile.ShowMeAny, "music", "travel", "food")
	goal := "dating"
	requester.Goal = &goal

	seedProfile(store, 2, 30, profile.GenderMale, profile.ShowMeAny, "music")
	best := seedProfile(store, 3, 30, profile.GenderMale, profile.ShowMeAny, "music", "travel", "food")
	best.Goal = &goal
	seedProfile(store, 4, 30, profile.GenderMale, profile.ShowMeAny)

	svc := discoveryService(store)
	got, err := svc.SearchCandidates(context.Background(), 1, &SearchQuery{Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, int64(3), got[0].UserID)
	assert.Equal(t, 44.0, got[0].Score) // 3 interests + goal
	assert.Equal(t, int64(2), got[1].UserID)
	assert.Equal(t, int64(4), got[2].UserID)
}

func TestSearchCandidatesPagination(t *testing.T) {
	store := newFakeStore()
	seedProfile(store, 1, 30, profile.GenderFemale, profile.ShowMeAny)
	for id := int64(2); id <= 6; id++ {
		seedProfile(store, id, 30, profile.GenderMale, profile.ShowMeAny)
	}

	svc := discoveryService(store)

	page1, err := svc.SearchCandidates(context.Background(), 1, &SearchQuery{Limit: 2})
	require.NoError(t, err)
	page2, err := svc.SearchCandidates(context.Background(), 1, &SearchQuery{Limit: 2, Offset: 2})
	require.NoError(t, err)

	require.Len(t, page1, 2)
	require.Len(t, page2, 2)
	assert.NotEqual(t, page1[0].UserID, page2[0].UserID)

	// Offset past the end returns an empty page, not an error.
	empty, err := svc.SearchCandidates(context.Background(), 1, &SearchQuery{Limit: 2, Offset: 100})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSearchCandidatesAttachesPhotos(t *testing.T) {
	store := newFakeStore()
	seedProfile(store, 1, 30, profile.GenderFemale, profile.ShowMeAny)
	seedProfile(store, 2, 30, profile.GenderMale, profile.ShowMeAny)
	store.photos[2] = "https://cdn.example.com/2.jpg"

	svc := discoveryService(store)
	got, err := svc.SearchCandidates(context.Background(), 1, &SearchQuery{Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].PhotoURL)
	assert.Equal(t, "https://cdn.example.com/2.jpg", *got[0].PhotoURL)
}

func TestSearchCandidatesRequesterNotFound(t *testing.T) {
	svc := discoveryService(newFakeStore())

	_, err := svc.SearchCandidates(context.Background(), 99, &SearchQuery{Limit: 10})
	assert.ErrorIs(t, err, profile.ErrProfileNotFound)
}

func TestSearchCandidatesStoreFailureIsRetryable(t *testing.T) {
	store := newFakeStore()
	seedProfile(store, 1, 30, profile.GenderFemale, profile.ShowMeAny)
	store.searchErr = errors.New("connection refused")

	svc := discoveryService(store)
	_, err := svc.SearchCandidates(context.Background(), 1, &SearchQuery{Limit: 10})
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestSearchCandidatesInvalidAgeRange(t *testing.T) {
	store := newFakeStore()
	seedProfile(store, 1, 30, profile.GenderFemale, profile.ShowMeAny)

	svc := discoveryService(store)
	minAge, maxAge := 40, 25
	_, err := svc.SearchCandidates(context.Background(), 1, &SearchQuery{Limit: 10, MinAge: &minAge, MaxAge: &maxAge})
	assert.ErrorIs(t, err, ErrInvalidAgeRange)
}

func TestComputeCompatibility(t *testing.T) {
	store := newFakeStore()
	a := seedProfile(store, 1, 30, profile.GenderFemale, profile.ShowMeAny, "music", "sports", "travel")
	b := seedProfile(store, 2, 30, profile.GenderMale, profile.ShowMeAny, "music", "travel", "food")
	goal := "dating"
	edu := profile.EducationBachelor
	a.Goal, b.Goal = &goal, &goal
	a.Education, b.Education = &edu, &edu
	a.Languages = []string{"en", "ru"}
	b.Languages = []string{"en", "ru"}

	svc := discoveryService(store)

	score, err := svc.ComputeCompatibility(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 76.0, score)

	_, err = svc.ComputeCompatibility(context.Background(), 1, 99)
	assert.ErrorIs(t, err, profile.ErrProfileNotFound)
}
