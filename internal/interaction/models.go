// internal/interaction/models.go

package interaction

import (
	"time"
)

// Interaction actions
const (
	ActionLike      = "like"
	ActionSuperlike = "superlike"
	ActionDislike   = "dislike"
)

// Interaction is one user's latest decision about another. A repeat
// swipe overwrites the previous row rather than adding a new one.
type Interaction struct {
	ID        int64     `json:"id" db:"id"`
	ActorID   int64     `json:"actor_id" db:"actor_id"`
	TargetID  int64     `json:"target_id" db:"target_id"`
	Action    string    `json:"action" db:"action"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsLike reports whether the action expresses positive interest
func IsLike(action string) bool {
	return action == ActionLike || action == ActionSuperlike
}

// Match is a mutual like between two users, stored once on the
// canonical (lower id, higher id) pair.
type Match struct {
	ID        int64     `json:"id" db:"id"`
	User1ID   int64     `json:"user1_id" db:"user1_id"`
	User2ID   int64     `json:"user2_id" db:"user2_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CounterpartID returns the other side of the match for a given user
func (m *Match) CounterpartID(userID int64) int64 {
	if m.User1ID == userID {
		return m.User2ID
	}
	return m.User1ID
}

// canonicalPair orders two user ids into the stored (user1, user2) form
func canonicalPair(a, b int64) (int64, int64) {
	if a < b {
		return a, b
	}
	return b, a
}

// MatchSummary is one match as seen by a given user
type MatchSummary struct {
	ID          int64     `json:"id" db:"id"`
	UserID      int64     `json:"user_id" db:"user_id"`
	DisplayName string    `json:"display_name" db:"display_name"`
	City        *string   `json:"city,omitempty" db:"city"`
	PhotoURL    *string   `json:"photo_url,omitempty" db:"photo_url"`
	MatchedAt   time.Time `json:"matched_at" db:"matched_at"`
}

// RecordInteractionRequest is the body of a swipe
type RecordInteractionRequest struct {
	TargetID int64  `json:"target_id" validate:"required,min=1"`
	Action   string `json:"action" validate:"required,oneof=like superlike dislike"`
}

// RecordResult describes what a swipe did. Match is set whenever the
// pair is matched after the swipe; MatchCreated is true only for the
// swipe that created it.
type RecordResult struct {
	Interaction  *Interaction `json:"interaction"`
	MatchCreated bool         `json:"match_created"`
	Match        *Match       `json:"match,omitempty"`
	Notified     bool         `json:"notified"`
}
