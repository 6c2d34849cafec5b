package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/healbridge/consult/internal/domain"
)

const (
	presenceKeyPrefix     = "provider:presence:"
	onlineProvidersKey    = "providers:online"
	scheduledKeyPrefix    = "consultation:scheduled:"
	notificationKeyPrefix = "notifications:"

	// Notification lists are capped so an unread seeker inbox cannot grow
	// without bound.
	maxNotifications = 100
)

// RedisStore implements PresenceMirror and ConsultationStore on a single
// redis client.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) SetReachable(ctx context.Context, providerID domain.ProviderID, connID domain.ConnID) error {
	val, err := json.Marshal(ProviderSummary{ProviderID: providerID, ConnID: connID, Online: true})
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.presenceKey(providerID), val, 0)
		pipe.SAdd(ctx, onlineProvidersKey, string(providerID))
		return nil
	})
	return err
}

func (s *RedisStore) SetUnreachable(ctx context.Context, providerID domain.ProviderID) error {
	// Flag false, connection reference cleared. The record is kept for
	// display surfaces rather than deleted.
	val, err := json.Marshal(ProviderSummary{ProviderID: providerID, Online: false})
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.presenceKey(providerID), val, 0)
		pipe.SRem(ctx, onlineProvidersKey, string(providerID))
		return nil
	})
	return err
}

func (s *RedisStore) FindOneReachableProvider(ctx context.Context) (*ProviderSummary, error) {
	id, err := s.client.SRandMember(ctx, onlineProvidersKey).Result()
	if err == redis.Nil {
		return nil, nil // none online
	}
	if err != nil {
		return nil, err
	}
	val, err := s.client.Get(ctx, s.presenceKey(domain.ProviderID(id))).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var summary ProviderSummary
	if err := json.Unmarshal([]byte(val), &summary); err != nil {
		return nil, fmt.Errorf("decode presence record: %w", err)
	}
	return &summary, nil
}

func (s *RedisStore) CreateScheduledConsultation(ctx context.Context, rec ScheduledConsultation) error {
	rec.CreatedAt = time.Now()
	val, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, scheduledKeyPrefix+rec.ID, val, 0).Err(); err != nil {
		return err
	}
	msg := fmt.Sprintf("Your consultation has been scheduled for %s at %s", rec.Date, rec.Time)
	return s.pushNotification(ctx, rec.SeekerID, Notification{
		Type:      "consultation-scheduled",
		Message:   msg,
		CreatedAt: rec.CreatedAt,
	})
}

func (s *RedisStore) CreateOfflineRequestNotification(ctx context.Context, seekerID domain.SeekerID, message string) error {
	return s.pushNotification(ctx, seekerID, Notification{
		Type:      "message",
		Message:   message,
		CreatedAt: time.Now(),
	})
}

func (s *RedisStore) Notifications(ctx context.Context, seekerID domain.SeekerID) ([]Notification, error) {
	vals, err := s.client.LRange(ctx, s.notificationKey(seekerID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Notification, 0, len(vals))
	for _, v := range vals {
		var n Notification
		if err := json.Unmarshal([]byte(v), &n); err != nil {
			continue // skip corrupt entries, the rest are still readable
		}
		out = append(out, n)
	}
	return out, nil
}

func (s *RedisStore) pushNotification(ctx context.Context, seekerID domain.SeekerID, n Notification) error {
	val, err := json.Marshal(n)
	if err != nil {
		return err
	}
	key := s.notificationKey(seekerID)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, key, val)
		pipe.LTrim(ctx, key, 0, maxNotifications-1)
		return nil
	})
	return err
}

func (s *RedisStore) presenceKey(id domain.ProviderID) string {
	return presenceKeyPrefix + string(id)
}

func (s *RedisStore) notificationKey(id domain.SeekerID) string {
	return notificationKeyPrefix + string(id)
}
