package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"progress-dashboard/internal/domain"
)

// AssignmentLoader fetches the assignment snapshot from a backing store (e.g., Postgres).
type AssignmentLoader interface {
	LoadAssignments(ctx context.Context) ([]domain.Assignment, error)
}

// ActivityLoader fetches one student's activity snapshot from a backing store.
type ActivityLoader interface {
	LoadActivity(ctx context.Context, studentID string) (domain.StudentActivity, error)
}

// snapshotCache stores JSON documents under string keys and falls back to a
// loader on miss. Redis errors degrade to a direct load.
type snapshotCache struct {
	client *redis.Client
	ttl    time.Duration
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func newSnapshotCache(client *redis.Client, ttl time.Duration) *snapshotCache {
	return &snapshotCache{
		client: client,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *snapshotCache) get(ctx context.Context, key string, dst any, load func(context.Context) (any, error)) error {
	if ok := c.read(ctx, key, dst); ok {
		return nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", key, err)
		}
		// A non-positive ttl disables caching; Set with 0 would never expire.
		if c.ttl > 0 {
			_ = c.client.Set(ctx, key, data, c.ttlWithJitter()).Err()
		}
		return data, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(result.([]byte), dst)
}

func (c *snapshotCache) read(ctx context.Context, key string, dst any) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) || err != nil {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

func (c *snapshotCache) ttlWithJitter() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

const assignmentsKey = "dashboard:assignments"

// AssignmentRepository caches the assignment snapshot in Redis as one JSON value.
type AssignmentRepository struct {
	cache  *snapshotCache
	loader AssignmentLoader
}

func NewAssignmentRepository(client *redis.Client, loader AssignmentLoader, ttl time.Duration) *AssignmentRepository {
	return &AssignmentRepository{cache: newSnapshotCache(client, ttl), loader: loader}
}

func (r *AssignmentRepository) ListAssignments(ctx context.Context) ([]domain.Assignment, error) {
	var list []domain.Assignment
	err := r.cache.get(ctx, assignmentsKey, &list, func(ctx context.Context) (any, error) {
		return r.loader.LoadAssignments(ctx)
	})
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.Assignment{}
	}
	return list, nil
}

// Invalidate removes the cached snapshot, e.g. after an import.
func (r *AssignmentRepository) Invalidate(ctx context.Context) error {
	return r.cache.client.Del(ctx, assignmentsKey).Err()
}

// ActivityRepository caches activity snapshots per student: dashboard:activity:{studentID}.
type ActivityRepository struct {
	cache  *snapshotCache
	loader ActivityLoader
}

func NewActivityRepository(client *redis.Client, loader ActivityLoader, ttl time.Duration) *ActivityRepository {
	return &ActivityRepository{cache: newSnapshotCache(client, ttl), loader: loader}
}

func (r *ActivityRepository) GetActivity(ctx context.Context, studentID string) (domain.StudentActivity, error) {
	var act domain.StudentActivity
	err := r.cache.get(ctx, activityKey(studentID), &act, func(ctx context.Context) (any, error) {
		return r.loader.LoadActivity(ctx, studentID)
	})
	if err != nil {
		return domain.StudentActivity{}, err
	}
	return act, nil
}

func activityKey(studentID string) string {
	return "dashboard:activity:" + studentID
}
