// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/auxbattle/auxbattle/internal/room"
	"github.com/redis/go-redis/v9"
)

// Rdb is the global Redis client. Connect it once at application startup.
var Rdb *redis.Client

// DefaultQueueName is the Redis list the external stats consumer reads
// battle lifecycle events from.
const DefaultQueueName = "auxbattle_events"

// ConnectRedis initializes the global Redis client and pings the server.
func ConnectRedis(addr string, db int) error {
	Rdb = redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	return nil
}

// Publisher pushes battle lifecycle events onto a Redis list. It implements
// room.EventPublisher.
type Publisher struct {
	Queue string
}

// NewPublisher returns a publisher for the given queue, defaulting to
// DefaultQueueName when queue is empty.
func NewPublisher(queue string) *Publisher {
	if queue == "" {
		queue = DefaultQueueName
	}
	return &Publisher{Queue: queue}
}

// PublishBattleEvent serializes the event and pushes it to the queue. The
// send is a quick RPush; it never blocks room coordination for long.
func (p *Publisher) PublishBattleEvent(ctx context.Context, ev room.BattleEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal battle event: %w", err)
	}
	if err := Rdb.RPush(ctx, p.Queue, data).Err(); err != nil {
		return fmt.Errorf("rpush to %q: %w", p.Queue, err)
	}
	return nil
}
