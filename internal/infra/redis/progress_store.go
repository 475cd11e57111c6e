package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"progress-dashboard/internal/domain"
)

// ProgressStore keeps tutorial progress in a Redis hash per user:
// HSET dashboard:tutorial:{userID} currentStep .. dismissed .. completedSteps [..] updatedAt ..
type ProgressStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProgressStore returns a store; a zero ttl keeps progress forever.
func NewProgressStore(client *redis.Client, ttl time.Duration) *ProgressStore {
	return &ProgressStore{client: client, ttl: ttl}
}

func (s *ProgressStore) Load(ctx context.Context, userID string) (domain.TutorialProgress, error) {
	fields, err := s.client.HGetAll(ctx, s.key(userID)).Result()
	if err != nil {
		return domain.TutorialProgress{}, fmt.Errorf("load tutorial progress: %w", err)
	}
	if len(fields) == 0 {
		return domain.TutorialProgress{}, domain.ErrProgressNotFound
	}

	p := domain.TutorialProgress{UserID: userID, CompletedSteps: []string{}}
	if v, err := strconv.Atoi(fields["currentStep"]); err == nil {
		p.CurrentStep = v
	}
	p.Dismissed, _ = strconv.ParseBool(fields["dismissed"])
	if raw := fields["completedSteps"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &p.CompletedSteps); err != nil {
			return domain.TutorialProgress{}, fmt.Errorf("decode completed steps: %w", err)
		}
	}
	if ts, err := time.Parse(time.RFC3339Nano, fields["updatedAt"]); err == nil {
		p.UpdatedAt = ts
	}
	return p, nil
}

func (s *ProgressStore) Save(ctx context.Context, p domain.TutorialProgress) error {
	steps, err := json.Marshal(p.CompletedSteps)
	if err != nil {
		return fmt.Errorf("encode completed steps: %w", err)
	}
	key := s.key(p.UserID)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key,
		"currentStep", p.CurrentStep,
		"dismissed", strconv.FormatBool(p.Dismissed),
		"completedSteps", string(steps),
		"updatedAt", p.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save tutorial progress: %w", err)
	}
	return nil
}

func (s *ProgressStore) key(userID string) string {
	return "dashboard:tutorial:" + userID
}
