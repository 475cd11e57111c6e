package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"progress-dashboard/internal/domain"
	"progress-dashboard/internal/infra/memory"
)

func TestAssignmentRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	loader := &countingLoader{StaticLoader: memory.NewStaticLoader(sampleSnapshot())}
	repo := NewAssignmentRepository(client, loader, time.Minute)

	list, err := repo.ListAssignments(context.Background())
	if err != nil {
		t.Fatalf("list assignments: %v", err)
	}
	if len(list) != 1 || list[0].ID != "a1" {
		t.Fatalf("unexpected assignments %+v", list)
	}
	if !mr.Exists(assignmentsKey) {
		t.Fatalf("expected snapshot cached under %s", assignmentsKey)
	}

	// Second call should hit cache, loader not incremented.
	cached, _ := repo.ListAssignments(context.Background())
	if loader.assignmentCalls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.assignmentCalls)
	}
	if !cached[0].DueDate.Equal(list[0].DueDate.Time) {
		t.Fatalf("due date did not survive the cache: %v vs %v", cached[0].DueDate, list[0].DueDate)
	}

	if err := repo.Invalidate(context.Background()); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	_, _ = repo.ListAssignments(context.Background())
	if loader.assignmentCalls != 2 {
		t.Fatalf("expected reload after invalidate, loader calls=%d", loader.assignmentCalls)
	}
}

func TestZeroTTLDisablesRedisCache(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	loader := &countingLoader{StaticLoader: memory.NewStaticLoader(sampleSnapshot())}
	assignments := NewAssignmentRepository(client, loader, 0)
	activity := NewActivityRepository(client, loader, 0)

	for i := 0; i < 2; i++ {
		if _, err := assignments.ListAssignments(context.Background()); err != nil {
			t.Fatalf("list assignments: %v", err)
		}
		if _, err := activity.GetActivity(context.Background(), "s1"); err != nil {
			t.Fatalf("get activity: %v", err)
		}
	}
	if mr.Exists(assignmentsKey) || mr.Exists(activityKey("s1")) {
		t.Fatalf("expected nothing cached with zero ttl, keys=%v", mr.Keys())
	}
	if loader.assignmentCalls != 2 || loader.activityCalls != 2 {
		t.Fatalf("expected every call to load, assignments=%d activity=%d", loader.assignmentCalls, loader.activityCalls)
	}
}

func TestActivityRepositoryCachesPerStudent(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{StaticLoader: memory.NewStaticLoader(sampleSnapshot())}
	repo := NewActivityRepository(newClient(mr), loader, time.Minute)

	act, err := repo.GetActivity(context.Background(), "s1")
	if err != nil {
		t.Fatalf("get activity: %v", err)
	}
	if act.Profile == nil || act.Profile.SolvedProblem != 42 {
		t.Fatalf("unexpected activity %+v", act)
	}
	if !mr.Exists("dashboard:activity:s1") {
		t.Fatalf("expected activity key to be set")
	}
	if ttl := mr.TTL("dashboard:activity:s1"); ttl < time.Minute {
		t.Fatalf("expected ttl of at least a minute, got %v", ttl)
	}

	_, err = repo.GetActivity(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrStudentNotFound) {
		t.Fatalf("expected student not found, got %v", err)
	}
	if mr.Exists("dashboard:activity:ghost") {
		t.Fatalf("misses must not be cached")
	}
}

type countingLoader struct {
	*memory.StaticLoader
	assignmentCalls int
	activityCalls   int
}

func (l *countingLoader) LoadAssignments(ctx context.Context) ([]domain.Assignment, error) {
	l.assignmentCalls++
	return l.StaticLoader.LoadAssignments(ctx)
}

func (l *countingLoader) LoadActivity(ctx context.Context, studentID string) (domain.StudentActivity, error) {
	l.activityCalls++
	return l.StaticLoader.LoadActivity(ctx, studentID)
}

func sampleSnapshot() domain.Snapshot {
	due := domain.NewTimestamp(time.Date(2024, 3, 12, 23, 59, 0, 0, time.UTC))
	return domain.Snapshot{
		Assignments: []domain.Assignment{
			{
				ID: "a1", Title: "Sorting", DueDate: due,
				Class:              domain.ClassRef{ID: "c1", Name: "CS101"},
				StudentSubmissions: []domain.StudentSubmission{{StudentID: "s1", Submitted: true}},
			},
		},
		Activity: []domain.StudentActivity{
			{
				StudentID: "s1",
				Repos:     []domain.Repository{{Name: "api", Commits: []domain.Commit{{Date: due}}}},
				Profile:   &domain.PracticeProfile{SolvedProblem: 42, SubmissionRate: 80},
			},
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
