// internal/interaction/service.go

package interaction

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/sparkmatch/sparkmatch-backend/internal/notification"
	"github.com/sparkmatch/sparkmatch-backend/internal/profile"
)

var (
	ErrSelfInteraction = errors.New("cannot interact with yourself")
	ErrInvalidAction   = errors.New("invalid interaction action")
)

// Service defines interaction operations
type Service interface {
	RecordInteraction(ctx context.Context, actorID int64, req *RecordInteractionRequest) (*RecordResult, error)
	ListMatches(ctx context.Context, userID int64, limit, offset int) ([]MatchSummary, error)
}

// ProfileDirectory is the slice of the profile store the service needs
type ProfileDirectory interface {
	GetByUserID(ctx context.Context, userID int64) (*profile.Profile, error)
}

type service struct {
	repo     Repository
	profiles ProfileDirectory
	gateway  notification.Gateway
}

// NewService creates an interaction service
func NewService(repo Repository, profiles ProfileDirectory, gateway notification.Gateway) Service {
	if gateway == nil {
		gateway = notification.NopGateway{}
	}
	return &service{repo: repo, profiles: profiles, gateway: gateway}
}

// RecordInteraction stores the actor's decision and, on a mutual like,
// creates the match for the pair. Match creation is idempotent: the
// uniqueness constraint on the canonical pair guarantees a single match
// row no matter how many swipes or concurrent requests observe the
// mutual like, and only the request that inserted the row notifies.
func (s *service) RecordInteraction(ctx context.Context, actorID int64, req *RecordInteractionRequest) (*RecordResult, error) {
	if req.TargetID == actorID {
		return nil, ErrSelfInteraction
	}

	switch req.Action {
	case ActionLike, ActionSuperlike, ActionDislike:
	default:
		return nil, ErrInvalidAction
	}

	// Both profiles must exist before anything is written; an account
	// that never finished onboarding cannot swipe.
	actor, err := s.profiles.GetByUserID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	target, err := s.profiles.GetByUserID(ctx, req.TargetID)
	if err != nil {
		return nil, err
	}

	in, err := s.repo.UpsertInteraction(ctx, actorID, req.TargetID, req.Action)
	if err != nil {
		return nil, err
	}
	interactionsTotal.WithLabelValues(req.Action).Inc()

	result := &RecordResult{Interaction: in}
	if !IsLike(req.Action) {
		return result, nil
	}

	mutual, err := s.repo.HasMutualLike(ctx, actorID, req.TargetID)
	if err != nil {
		return nil, err
	}
	if !mutual {
		return result, nil
	}

	match, created, err := s.repo.CreateMatch(ctx, actorID, req.TargetID)
	if err != nil {
		return nil, err
	}

	result.Match = match
	result.MatchCreated = created
	if !created {
		return result, nil
	}

	matchesTotal.Inc()

	// Delivery is best-effort: the match stands whether or not either
	// side could be reached.
	result.Notified = s.notifyMatch(ctx, match, actor, target)

	return result, nil
}

func (s *service) ListMatches(ctx context.Context, userID int64, limit, offset int) ([]MatchSummary, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListMatches(ctx, userID, limit, offset)
}

// notifyMatch tells both sides about a new match and reports whether
// every delivery succeeded.
func (s *service) notifyMatch(ctx context.Context, match *Match, actor, target *profile.Profile) bool {
	ok := true
	for _, side := range []struct {
		userID      int64
		counterpart *profile.Profile
	}{
		{actor.UserID, target},
		{target.UserID, actor},
	} {
		payload := notification.MatchPayload{
			MatchID:         match.ID,
			MatchedUserID:   side.counterpart.UserID,
			MatchedUserName: side.counterpart.DisplayName,
			MatchedAt:       match.CreatedAt,
			DedupeKey:       fmt.Sprintf("match:%d:%d", match.ID, side.userID),
		}
		if !s.gateway.Notify(ctx, side.userID, notification.KindNewMatch, payload) {
			log.Printf("match %d: notification to user %d not delivered", match.ID, side.userID)
			matchNotifyFailures.Inc()
			ok = false
		}
	}

	return ok
}
