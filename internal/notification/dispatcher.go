// internal/notification/dispatcher.go

package notification

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const dedupeTTL = 24 * time.Hour

var deliveriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "notification_deliveries_total",
		Help: "Notification delivery attempts by channel and outcome",
	},
	[]string{"channel", "outcome"},
)

// Channel is one way of reaching a user
type Channel interface {
	Name() string
	Deliver(ctx context.Context, userID int64, kind string, payload interface{}) error
}

// keyedPayload lets a payload opt into dedupe across retries
type keyedPayload interface {
	dedupeKey() string
}

func (p MatchPayload) dedupeKey() string { return p.DedupeKey }

// dedupeStore is the slice of the Redis API the dispatcher needs
type dedupeStore interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Dispatcher fans a notification out to every configured channel. It
// reports success if at least one channel delivered; a user reachable
// over websocket but with a broken mailbox still counts as notified.
type Dispatcher struct {
	channels []Channel
	dedupe   dedupeStore
}

// NewDispatcher creates a dispatcher. The Redis client is optional;
// without it duplicate suppression is disabled and retried deliveries
// may reach the user more than once.
func NewDispatcher(redisClient *redis.Client, channels ...Channel) *Dispatcher {
	d := &Dispatcher{channels: channels}
	if redisClient != nil {
		d.dedupe = redisClient
	}
	return d
}

func (d *Dispatcher) Notify(ctx context.Context, userID int64, kind string, payload interface{}) bool {
	key, fresh := d.claimDedupe(ctx, payload)
	if !fresh {
		return true
	}

	delivered := false
	for _, ch := range d.channels {
		if err := ch.Deliver(ctx, userID, kind, payload); err != nil {
			deliveriesTotal.WithLabelValues(ch.Name(), "error").Inc()
			log.Printf("notification %s to user %d via %s failed: %v", kind, userID, ch.Name(), err)
			continue
		}
		deliveriesTotal.WithLabelValues(ch.Name(), "ok").Inc()
		delivered = true
	}

	// Nothing was delivered, so the claim must not suppress a retry.
	if !delivered && key != "" {
		d.releaseDedupe(ctx, key)
	}

	return delivered
}

// claimDedupe marks the payload's dedupe key and reports whether this
// dispatch owns the delivery. On Redis failure delivery proceeds; a
// possible duplicate beats a dropped notification.
func (d *Dispatcher) claimDedupe(ctx context.Context, payload interface{}) (string, bool) {
	if d.dedupe == nil {
		return "", true
	}

	kp, ok := payload.(keyedPayload)
	if !ok || kp.dedupeKey() == "" {
		return "", true
	}

	key := fmt.Sprintf("notify:dedupe:%s", kp.dedupeKey())
	set, err := d.dedupe.SetNX(ctx, key, 1, dedupeTTL).Result()
	if err != nil {
		log.Printf("notification dedupe check failed: %v", err)
		return "", true
	}

	return key, set
}

func (d *Dispatcher) releaseDedupe(ctx context.Context, key string) {
	if err := d.dedupe.Del(ctx, key).Err(); err != nil {
		log.Printf("notification dedupe release failed: %v", err)
	}
}
