// internal/notification/gateway.go

package notification

import (
	"context"
	"time"
)

// Notification kinds
const (
	KindNewMatch = "new_match"
)

// Gateway delivers a notification to a user. Implementations report
// delivery with the returned bool instead of an error: callers treat
// delivery as best-effort and must never fail their own operation
// because a notification did not go out.
type Gateway interface {
	Notify(ctx context.Context, userID int64, kind string, payload interface{}) bool
}

// MatchPayload is the payload sent with a new_match notification. The
// dedupe key identifies the match so retried deliveries collapse to one.
type MatchPayload struct {
	MatchID         int64     `json:"match_id"`
	MatchedUserID   int64     `json:"matched_user_id"`
	MatchedUserName string    `json:"matched_user_name,omitempty"`
	MatchedAt       time.Time `json:"matched_at"`
	DedupeKey       string    `json:"-"`
}

// NopGateway drops every notification and reports success. Used in
// tests and as a fallback when no channels are configured.
type NopGateway struct{}

func (NopGateway) Notify(ctx context.Context, userID int64, kind string, payload interface{}) bool {
	return true
}
