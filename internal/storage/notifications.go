package storage

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	go_json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/garrettladley/moyo/internal/model"
)

const notificationsLivePrefix = "moyo:notifications:live:"

// NotificationLogWriter persists a notification and returns it with its id.
type NotificationLogWriter interface {
	CreateNotificationLog(ctx context.Context, n model.NotificationLog) (model.NotificationLog, error)
}

// HybridNotificationStore records notifications durably and then fans them
// out to live subscribers.
type HybridNotificationStore struct {
	logs   NotificationLogWriter
	broker Broker
}

func NewHybridNotificationStore(logs NotificationLogWriter, broker Broker) *HybridNotificationStore {
	return &HybridNotificationStore{logs: logs, broker: broker}
}

func (s *HybridNotificationStore) Record(ctx context.Context, n model.NotificationLog) (model.NotificationLog, error) {
	saved, err := s.logs.CreateNotificationLog(ctx, n)
	if err != nil {
		return model.NotificationLog{}, fmt.Errorf("insert notification log: %w", err)
	}

	if err := s.broker.Publish(ctx, saved.UserID, saved); err != nil {
		return saved, fmt.Errorf("publish notification: %w", err)
	}

	return saved, nil
}

func (s *HybridNotificationStore) Subscribe(ctx context.Context, userID int64) (<-chan model.NotificationLog, func(), error) {
	return s.broker.Subscribe(ctx, userID)
}

var _ Broker = (*RedisBroker)(nil)

type RedisBroker struct {
	client *redis.Client
}

func NewRedisBroker(client *redis.Client) *RedisBroker {
	return &RedisBroker{client: client}
}

func liveKey(userID int64) string {
	return notificationsLivePrefix + strconv.FormatInt(userID, 10)
}

func (b *RedisBroker) Publish(ctx context.Context, userID int64, n model.NotificationLog) error {
	data, err := go_json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	if err := b.client.Publish(ctx, liveKey(userID), string(data)).Err(); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}

	return nil
}

func (b *RedisBroker) Subscribe(ctx context.Context, userID int64) (<-chan model.NotificationLog, func(), error) {
	pubsub := b.client.Subscribe(ctx, liveKey(userID))

	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, fmt.Errorf("subscribe: %w", err)
	}

	notifCh := make(chan model.NotificationLog)

	go func() {
		defer close(notifCh)
		ch := pubsub.Channel()

		for msg := range ch {
			var n model.NotificationLog
			if err := go_json.Unmarshal([]byte(msg.Payload), &n); err != nil {
				continue
			}

			select {
			case notifCh <- n:
			case <-ctx.Done():
				return
			}
		}
	}()

	unsubscribe := func() {
		_ = pubsub.Close()
	}

	return notifCh, unsubscribe, nil
}

var _ Broker = (*MemoryBroker)(nil)

// MemoryBroker is an in-process Broker for single-instance deployments.
// Slow subscribers miss notifications rather than block publishers.
type MemoryBroker struct {
	mu     sync.RWMutex
	subs   map[int64]map[chan model.NotificationLog]struct{}
	buffer int
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{
		subs:   make(map[int64]map[chan model.NotificationLog]struct{}),
		buffer: 16,
	}
}

func (b *MemoryBroker) Publish(_ context.Context, userID int64, n model.NotificationLog) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subs[userID] {
		select {
		case ch <- n:
		default:
		}
	}
	return nil
}

func (b *MemoryBroker) Subscribe(_ context.Context, userID int64) (<-chan model.NotificationLog, func(), error) {
	ch := make(chan model.NotificationLog, b.buffer)

	b.mu.Lock()
	if b.subs[userID] == nil {
		b.subs[userID] = make(map[chan model.NotificationLog]struct{})
	}
	b.subs[userID][ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[userID], ch)
			if len(b.subs[userID]) == 0 {
				delete(b.subs, userID)
			}
			b.mu.Unlock()
			close(ch)
		})
	}

	return ch, unsubscribe, nil
}
