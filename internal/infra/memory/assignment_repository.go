package memory

import (
	"context"
	"time"

	"progress-dashboard/internal/domain"
)

// AssignmentLoader fetches the assignment snapshot from a backing store.
type AssignmentLoader interface {
	LoadAssignments(ctx context.Context) ([]domain.Assignment, error)
}

// ActivityLoader fetches one student's activity snapshot from a backing store.
type ActivityLoader interface {
	LoadActivity(ctx context.Context, studentID string) (domain.StudentActivity, error)
}

const assignmentsKey = "assignments"

// AssignmentRepository caches the assignment list with TTL to avoid repeated DB hits.
type AssignmentRepository struct {
	loader AssignmentLoader
	cache  *ttlCache[[]domain.Assignment]
}

func NewAssignmentRepository(loader AssignmentLoader, ttl time.Duration) *AssignmentRepository {
	return &AssignmentRepository{loader: loader, cache: newTTLCache[[]domain.Assignment](ttl)}
}

func (r *AssignmentRepository) ListAssignments(ctx context.Context) ([]domain.Assignment, error) {
	return r.cache.get(ctx, assignmentsKey, r.loader.LoadAssignments)
}

// Invalidate drops the cached list so the next read reloads it.
func (r *AssignmentRepository) Invalidate() {
	r.cache.invalidate(assignmentsKey)
}

// ActivityRepository caches activity snapshots per student.
type ActivityRepository struct {
	loader ActivityLoader
	cache  *ttlCache[domain.StudentActivity]
}

func NewActivityRepository(loader ActivityLoader, ttl time.Duration) *ActivityRepository {
	return &ActivityRepository{loader: loader, cache: newTTLCache[domain.StudentActivity](ttl)}
}

func (r *ActivityRepository) GetActivity(ctx context.Context, studentID string) (domain.StudentActivity, error) {
	return r.cache.get(ctx, studentID, func(ctx context.Context) (domain.StudentActivity, error) {
		return r.loader.LoadActivity(ctx, studentID)
	})
}

// StaticLoader is a loader backed by an in-memory snapshot (useful for tests/demos).
type StaticLoader struct {
	assignments []domain.Assignment
	activity    map[string]domain.StudentActivity
}

func NewStaticLoader(snapshot domain.Snapshot) *StaticLoader {
	activity := make(map[string]domain.StudentActivity, len(snapshot.Activity))
	for _, act := range snapshot.Activity {
		activity[act.StudentID] = act
	}
	assignments := snapshot.Assignments
	if assignments == nil {
		assignments = []domain.Assignment{}
	}
	return &StaticLoader{assignments: assignments, activity: activity}
}

func (l *StaticLoader) LoadAssignments(_ context.Context) ([]domain.Assignment, error) {
	return l.assignments, nil
}

func (l *StaticLoader) LoadActivity(_ context.Context, studentID string) (domain.StudentActivity, error) {
	if act, ok := l.activity[studentID]; ok {
		return act, nil
	}
	return domain.StudentActivity{}, domain.ErrStudentNotFound
}
