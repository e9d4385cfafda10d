// internal/interaction/repository.go

package interaction

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound = errors.New("match not found")
)

// Repository defines the interaction ledger and match store
type Repository interface {
	// UpsertInteraction records the actor's latest decision about the
	// target, overwriting any previous one.
	UpsertInteraction(ctx context.Context, actorID, targetID int64, action string) (*Interaction, error)

	// HasMutualLike reports whether both users currently like each
	// other. It reads the ledger fresh; an overwritten like no longer
	// counts.
	HasMutualLike(ctx context.Context, userA, userB int64) (bool, error)

	// CreateMatch inserts the match for a pair if it does not exist.
	// The returned bool is true only for the call that inserted the
	// row; concurrent callers race on the uniqueness constraint and
	// all of them get the same match back.
	CreateMatch(ctx context.Context, userA, userB int64) (*Match, bool, error)

	GetMatch(ctx context.Context, userA, userB int64) (*Match, error)
	ListMatches(ctx context.Context, userID int64, limit, offset int) ([]MatchSummary, error)
}

// postgresRepository implements Repository using PostgreSQL
type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) UpsertInteraction(ctx context.Context, actorID, targetID int64, action string) (*Interaction, error) {
	var in Interaction
	query := `
		INSERT INTO interactions (actor_id, target_id, action)
		VALUES ($1, $2, $3)
		ON CONFLICT (actor_id, target_id)
		DO UPDATE SET action = EXCLUDED.action, updated_at = CURRENT_TIMESTAMP
		RETURNING id, actor_id, target_id, action, created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query, actorID, targetID, action).StructScan(&in)
	if err != nil {
		return nil, fmt.Errorf("failed to record interaction: %w", err)
	}

	return &in, nil
}

func (r *postgresRepository) HasMutualLike(ctx context.Context, userA, userB int64) (bool, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM interactions
		WHERE ((actor_id = $1 AND target_id = $2) OR (actor_id = $2 AND target_id = $1))
		  AND action = ANY($3)
	`

	err := r.db.GetContext(ctx, &count, query, userA, userB, pq.Array([]string{ActionLike, ActionSuperlike}))
	if err != nil {
		return false, fmt.Errorf("failed to check mutual like: %w", err)
	}

	return count == 2, nil
}

func (r *postgresRepository) CreateMatch(ctx context.Context, userA, userB int64) (*Match, bool, error) {
	u1, u2 := canonicalPair(userA, userB)

	var m Match
	query := `
		INSERT INTO matches (user1_id, user2_id)
		VALUES ($1, $2)
		ON CONFLICT (user1_id, user2_id) DO NOTHING
		RETURNING id, user1_id, user2_id, created_at
	`

	err := r.db.QueryRowxContext(ctx, query, u1, u2).StructScan(&m)
	if err == nil {
		return &m, true, nil
	}
	if err != sql.ErrNoRows {
		return nil, false, fmt.Errorf("failed to create match: %w", err)
	}

	// Lost the insert race or the match already existed; fetch it.
	existing, err := r.GetMatch(ctx, u1, u2)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *postgresRepository) GetMatch(ctx context.Context, userA, userB int64) (*Match, error) {
	u1, u2 := canonicalPair(userA, userB)

	var m Match
	query := `
		SELECT id, user1_id, user2_id, created_at
		FROM matches
		WHERE user1_id = $1 AND user2_id = $2
	`

	err := r.db.GetContext(ctx, &m, query, u1, u2)
	if err == sql.ErrNoRows {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	return &m, nil
}

func (r *postgresRepository) ListMatches(ctx context.Context, userID int64, limit, offset int) ([]MatchSummary, error) {
	var matches []MatchSummary
	query := `
		SELECT m.id,
		       p.user_id,
		       p.display_name,
		       p.city,
		       (
		           SELECT url FROM profile_photos
		           WHERE user_id = p.user_id
		           ORDER BY position LIMIT 1
		       ) AS photo_url,
		       m.created_at AS matched_at
		FROM matches m
		JOIN profiles p
		  ON p.user_id = CASE WHEN m.user1_id = $1 THEN m.user2_id ELSE m.user1_id END
		WHERE m.user1_id = $1 OR m.user2_id = $1
		ORDER BY m.created_at DESC
		LIMIT $2 OFFSET $3
	`

	if err := r.db.SelectContext(ctx, &matches, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	return matches, nil
}
