package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"meetlite/internal/core/domain"
	"meetlite/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

// RedisMeetingRepository backs the passcode registry with Redis. Unlike the
// in-memory registry, entries expire after the configured TTL so abandoned
// passcodes do not accumulate (and stay guessable) forever.
type RedisMeetingRepository struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisMeetingRepository(client *redis.Client, ttl time.Duration) ports.MeetingRepository {
	return &RedisMeetingRepository{
		client: client,
		prefix: "meetlite:passcode:",
		ttl:    ttl,
	}
}

func (r *RedisMeetingRepository) passcodeKey(passcode domain.Passcode) string {
	return r.prefix + string(passcode)
}

func (r *RedisMeetingRepository) Create(ctx context.Context, meeting *domain.Meeting) error {
	data, err := json.Marshal(meeting)
	if err != nil {
		return fmt.Errorf("failed to marshal meeting: %w", err)
	}

	// SetNX keeps create add-only: an existing passcode is never remapped.
	key := r.passcodeKey(meeting.Passcode)
	ok, err := r.client.SetNX(ctx, key, data, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to set meeting in Redis: %w", err)
	}
	if !ok {
		return domain.ErrPasscodeTaken
	}

	return nil
}

func (r *RedisMeetingRepository) GetByPasscode(ctx context.Context, passcode domain.Passcode) (*domain.Meeting, error) {
	key := r.passcodeKey(passcode)
	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, domain.ErrPasscodeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get meeting from Redis: %w", err)
	}

	var meeting domain.Meeting
	if err := json.Unmarshal([]byte(data), &meeting); err != nil {
		return nil, fmt.Errorf("failed to unmarshal meeting: %w", err)
	}

	return &meeting, nil
}
