package interaction

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparkmatch/sparkmatch-backend/internal/profile"
)

type pairKey struct {
	a, b int64
}

type fakeLedger struct {
	interactions map[pairKey]*Interaction
	matches      map[pairKey]*Match
	nextID       int64
	inserts      int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		interactions: make(map[pairKey]*Interaction),
		matches:      make(map[pairKey]*Match),
	}
}

func (f *fakeLedger) UpsertInteraction(ctx context.Context, actorID, targetID int64, action string) (*Interaction, error) {
	key := pairKey{actorID, targetID}
	if in, ok := f.interactions[key]; ok {
		in.Action = action
		in.UpdatedAt = time.Now()
		return in, nil
	}

	f.nextID++
	in := &Interaction{
		ID:        f.nextID,
		ActorID:   actorID,
		TargetID:  targetID,
		Action:    action,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.interactions[key] = in
	return in, nil
}

func (f *fakeLedger) HasMutualLike(ctx context.Context, userA, userB int64) (bool, error) {
	a, okA := f.interactions[pairKey{userA, userB}]
	b, okB := f.interactions[pairKey{userB, userA}]
	return okA && okB && IsLike(a.Action) && IsLike(b.Action), nil
}

func (f *fakeLedger) CreateMatch(ctx context.Context, userA, userB int64) (*Match, bool, error) {
	u1, u2 := canonicalPair(userA, userB)
	key := pairKey{u1, u2}
	if m, ok := f.matches[key]; ok {
		return m, false, nil
	}

	f.nextID++
	f.inserts++
	m := &Match{ID: f.nextID, User1ID: u1, User2ID: u2, CreatedAt: time.Now()}
	f.matches[key] = m
	return m, true, nil
}

func (f *fakeLedger) GetMatch(ctx context.Context, userA, userB int64) (*Match, error) {
	u1, u2 := canonicalPair(userA, userB)
	if m, ok := f.matches[pairKey{u1, u2}]; ok {
		return m, nil
	}
	return nil, ErrMatchNotFound
}

func (f *fakeLedger) ListMatches(ctx context.Context, userID int64, limit, offset int) ([]MatchSummary, error) {
	var out []MatchSummary
	for _, m := range f.matches {
		if m.User1ID == userID || m.User2ID == userID {
			out = append(out, MatchSummary{ID: m.ID, UserID: m.CounterpartID(userID), MatchedAt: m.CreatedAt})
		}
	}
	return out, nil
}

type fakeDirectory struct {
	profiles map[int64]*profile.Profile
}

func (f *fakeDirectory) GetByUserID(ctx context.Context, userID int64) (*profile.Profile, error) {
	if p, ok := f.profiles[userID]; ok {
		return p, nil
	}
	return nil, profile.ErrProfileNotFound
}

type recordingGateway struct {
	fail  bool
	calls []int64
}

func (g *recordingGateway) Notify(ctx context.Context, userID int64, kind string, payload interface{}) bool {
	g.calls = append(g.calls, userID)
	return !g.fail
}

func interactionFixture() (*fakeLedger, *recordingGateway, Service) {
	ledger := newFakeLedger()
	gateway := &recordingGateway{}
	dir := &fakeDirectory{profiles: map[int64]*profile.Profile{
		1: {UserID: 1, DisplayName: "Alice"},
		2: {UserID: 2, DisplayName: "Bob"},
	}}
	return ledger, gateway, NewService(ledger, dir, gateway)
}

func record(t *testing.T, svc Service, actorID, targetID int64, action string) *RecordResult {
	t.Helper()
	res, err := svc.RecordInteraction(context.Background(), actorID, &RecordInteractionRequest{TargetID: targetID, Action: action})
	require.NoError(t, err)
	return res
}

func TestRecordInteractionOneSidedLike(t *testing.T) {
	_, gateway, svc := interactionFixture()

	res := record(t, svc, 1, 2, ActionLike)

	assert.Equal(t, ActionLike, res.Interaction.Action)
	assert.False(t, res.MatchCreated)
	assert.Nil(t, res.Match)
	assert.Empty(t, gateway.calls)
}

func TestRecordInteractionMutualLikeCreatesMatch(t *testing.T) {
	ledger, gateway, svc := interactionFixture()

	record(t, svc, 1, 2, ActionLike)
	res := record(t, svc, 2, 1, ActionLike)

	require.True(t, res.MatchCreated)
	require.NotNil(t, res.Match)
	assert.Equal(t, int64(1), res.Match.User1ID)
	assert.Equal(t, int64(2), res.Match.User2ID)
	assert.True(t, res.Notified)
	assert.Equal(t, 1, ledger.inserts)

	// Both sides are told once each.
	assert.ElementsMatch(t, []int64{1, 2}, gateway.calls)
}

func TestRecordInteractionSuperlikeCountsAsLike(t *testing.T) {
	_, _, svc := interactionFixture()

	record(t, svc, 1, 2, ActionSuperlike)
	res := record(t, svc, 2, 1, ActionLike)

	assert.True(t, res.MatchCreated)
}

func TestRecordInteractionRepeatLikeDoesNotRematch(t *testing.T) {
	ledger, gateway, svc := interactionFixture()

	record(t, svc, 1, 2, ActionLike)
	record(t, svc, 2, 1, ActionLike)
	res := record(t, svc, 1, 2, ActionLike)

	// The pair stays matched but nothing new is created or announced.
	assert.False(t, res.MatchCreated)
	require.NotNil(t, res.Match)
	assert.Equal(t, 1, ledger.inserts)
	assert.Len(t, gateway.calls, 2)
}

func TestRecordInteractionOverwrite(t *testing.T) {
	ledger, _, svc := interactionFixture()

	first := record(t, svc, 1, 2, ActionLike)
	second := record(t, svc, 1, 2, ActionDislike)

	assert.Equal(t, first.Interaction.ID, second.Interaction.ID)
	assert.Equal(t, ActionDislike, second.Interaction.Action)

	// The overwritten like no longer counts toward a match.
	res := record(t, svc, 2, 1, ActionLike)
	assert.False(t, res.MatchCreated)
	assert.Empty(t, ledger.matches)
}

func TestRecordInteractionNotifyFailureKeepsMatch(t *testing.T) {
	ledger, gateway, svc := interactionFixture()
	gateway.fail = true

	record(t, svc, 1, 2, ActionLike)
	res := record(t, svc, 2, 1, ActionLike)

	require.True(t, res.MatchCreated)
	assert.False(t, res.Notified)
	assert.Len(t, ledger.matches, 1)
}

func TestRecordInteractionSelf(t *testing.T) {
	_, _, svc := interactionFixture()

	_, err := svc.RecordInteraction(context.Background(), 1, &RecordInteractionRequest{TargetID: 1, Action: ActionLike})
	assert.ErrorIs(t, err, ErrSelfInteraction)
}

func TestRecordInteractionUnknownTarget(t *testing.T) {
	ledger, _, svc := interactionFixture()

	_, err := svc.RecordInteraction(context.Background(), 1, &RecordInteractionRequest{TargetID: 99, Action: ActionLike})
	assert.ErrorIs(t, err, profile.ErrProfileNotFound)
	assert.Empty(t, ledger.interactions)
}

func TestRecordInteractionActorWithoutProfile(t *testing.T) {
	ledger, _, svc := interactionFixture()

	// User 3 is authenticated but never finished onboarding; nothing
	// may be written on their behalf.
	_, err := svc.RecordInteraction(context.Background(), 3, &RecordInteractionRequest{TargetID: 2, Action: ActionLike})
	assert.ErrorIs(t, err, profile.ErrProfileNotFound)
	assert.Empty(t, ledger.interactions)
}

func TestRecordInteractionInvalidAction(t *testing.T) {
	_, _, svc := interactionFixture()

	_, err := svc.RecordInteraction(context.Background(), 1, &RecordInteractionRequest{TargetID: 2, Action: "wink"})
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestRecordInteractionDislikeSkipsMatchCheck(t *testing.T) {
	ledger, _, svc := interactionFixture()

	// Target already likes the actor, but a dislike can never match.
	record(t, svc, 2, 1, ActionLike)
	res := record(t, svc, 1, 2, ActionDislike)

	assert.False(t, res.MatchCreated)
	assert.Nil(t, res.Match)
	assert.Empty(t, ledger.matches)
}

func TestCanonicalPair(t *testing.T) {
	a, b := canonicalPair(7, 3)
	assert.Equal(t, int64(3), a)
	assert.Equal(t, int64(7), b)

	a, b = canonicalPair(3, 7)
	assert.Equal(t, int64(3), a)
	assert.Equal(t, int64(7), b)
}
