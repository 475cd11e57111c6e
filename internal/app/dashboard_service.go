package app

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"progress-dashboard/internal/domain"
	"progress-dashboard/internal/metrics"
)

// AssignmentRepository returns the current assignment snapshot (cache or backing store).
type AssignmentRepository interface {
	ListAssignments(ctx context.Context) ([]domain.Assignment, error)
}

// ActivityRepository returns a student's code hosting and practice snapshot.
type ActivityRepository interface {
	GetActivity(ctx context.Context, studentID string) (domain.StudentActivity, error)
}

// ProgressStore persists per-user tutorial progress (in-memory, Redis, etc).
type ProgressStore interface {
	Load(ctx context.Context, userID string) (domain.TutorialProgress, error)
	Save(ctx context.Context, progress domain.TutorialProgress) error
}

// DashboardService derives every dashboard view from freshly loaded snapshots.
// It holds no derived state; each call re-reads "now".
type DashboardService struct {
	assignments AssignmentRepository
	activity    ActivityRepository
	progress    ProgressStore
	now         func() time.Time
	logger      *zap.Logger
}

func NewDashboardService(assignments AssignmentRepository, activity ActivityRepository, progress ProgressStore, logger *zap.Logger) *DashboardService {
	return NewDashboardServiceWithClock(assignments, activity, progress, logger, time.Now)
}

// NewDashboardServiceWithClock is for deterministic tests.
func NewDashboardServiceWithClock(assignments AssignmentRepository, activity ActivityRepository, progress ProgressStore, logger *zap.Logger, now func() time.Time) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		assignments: assignments,
		activity:    activity,
		progress:    progress,
		now:         now,
		logger:      logger,
	}
}

// ListAssignments applies the search, status and class filters.
func (s *DashboardService) ListAssignments(ctx context.Context, q domain.FilterQuery) ([]domain.Assignment, error) {
	list, err := s.loadAssignments(ctx)
	if err != nil {
		return nil, err
	}
	return metrics.Filter(list, q, s.now())
}

// Overview builds the admin aggregate: per-assignment status and submission stats.
func (s *DashboardService) Overview(ctx context.Context) (domain.Overview, error) {
	list, err := s.loadAssignments(ctx)
	if err != nil {
		return domain.Overview{}, err
	}
	now := s.now()

	overview := domain.Overview{
		Assignments:  make([]domain.AssignmentSummary, 0, len(list)),
		AverageRate:  metrics.AverageRate(list),
		StatusCounts: make(map[domain.DerivedStatus]int),
		GeneratedAt:  now,
	}
	for _, a := range list {
		// No viewer here, so no submitted short-circuit.
		status, err := metrics.ClassifyDeadline(a.DueDate.Time, now)
		if err != nil {
			return domain.Overview{}, fmt.Errorf("assignment %s: %w", a.ID, err)
		}
		overview.StatusCounts[status]++
		overview.Assignments = append(overview.Assignments, domain.AssignmentSummary{
			Assignment:  a,
			Status:      status,
			StatusLabel: status.Label(),
			StatusStyle: status.Style(),
			Stats:       metrics.Aggregate(a.StudentSubmissions),
		})
	}
	return overview, nil
}

// StudentAssignments returns every assignment with the student's own submission.
// Assignments the student never touched get a local unsubmitted placeholder.
func (s *DashboardService) StudentAssignments(ctx context.Context, studentID string) ([]domain.StudentAssignment, error) {
	if studentID == "" {
		return nil, fmt.Errorf("student id required: %w", domain.ErrInvalidInput)
	}
	list, err := s.loadAssignments(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()

	out := make([]domain.StudentAssignment, 0, len(list))
	for _, a := range list {
		sub, ok := a.SubmissionFor(studentID)
		if !ok {
			sub = domain.StudentSubmission{StudentID: studentID}
			// Copy before appending; the slice may be shared with a cache.
			a.StudentSubmissions = append(slices.Clip(a.StudentSubmissions), sub)
		}
		status, err := metrics.Classify(a.DueDate.Time, now, sub.Submitted)
		if err != nil {
			return nil, fmt.Errorf("assignment %s: %w", a.ID, err)
		}
		out = append(out, domain.StudentAssignment{
			Assignment:  a,
			Submission:  sub,
			Status:      status,
			StatusLabel: status.Label(),
			StatusStyle: status.Style(),
		})
	}
	return out, nil
}

// StudentActivity scores a student's code hosting and practice activity.
func (s *DashboardService) StudentActivity(ctx context.Context, studentID string) (domain.ActivityScore, error) {
	if studentID == "" {
		return domain.ActivityScore{}, fmt.Errorf("student id required: %w", domain.ErrInvalidInput)
	}
	act, err := s.activity.GetActivity(ctx, studentID)
	if err != nil {
		return domain.ActivityScore{}, err
	}
	repos := act.Repos
	if repos == nil {
		// A snapshot without repos means "no signal", not a caller bug.
		repos = []domain.Repository{}
	}
	return metrics.Score(repos, act.Profile, s.now())
}

// TutorialProgress loads stored progress, starting fresh when nothing was saved yet.
func (s *DashboardService) TutorialProgress(ctx context.Context, userID string) (domain.TutorialProgress, error) {
	if userID == "" {
		return domain.TutorialProgress{}, fmt.Errorf("user id required: %w", domain.ErrInvalidInput)
	}
	progress, err := s.progress.Load(ctx, userID)
	if errors.Is(err, domain.ErrProgressNotFound) {
		return domain.TutorialProgress{UserID: userID, CompletedSteps: []string{}}, nil
	}
	return progress, err
}

// SaveTutorialProgress persists progress on every change.
func (s *DashboardService) SaveTutorialProgress(ctx context.Context, progress domain.TutorialProgress) (domain.TutorialProgress, error) {
	if progress.UserID == "" || progress.CurrentStep < 0 {
		return domain.TutorialProgress{}, fmt.Errorf("tutorial progress: %w", domain.ErrInvalidInput)
	}
	if progress.CompletedSteps == nil {
		progress.CompletedSteps = []string{}
	}
	progress.UpdatedAt = s.now()
	if err := s.progress.Save(ctx, progress); err != nil {
		return domain.TutorialProgress{}, err
	}
	return progress, nil
}

// Snapshot derives the live view for a student, or the admin overview when
// studentID is empty.
func (s *DashboardService) Snapshot(ctx context.Context, studentID string) domain.DashboardSnapshot {
	snap := domain.DashboardSnapshot{StudentID: studentID}
	if studentID == "" {
		overview, err := s.Overview(ctx)
		if err != nil {
			snap.Err = err
			return snap
		}
		snap.Overview = &overview
		return snap
	}

	assignments, err := s.StudentAssignments(ctx, studentID)
	if err != nil {
		snap.Err = err
		return snap
	}
	snap.Assignments = assignments

	score, err := s.StudentActivity(ctx, studentID)
	switch {
	case errors.Is(err, domain.ErrStudentNotFound):
		// Students without an activity snapshot still see their assignments.
	case err != nil:
		snap.Err = err
	default:
		snap.Activity = &score
	}
	return snap
}

// Watch re-derives the snapshot every interval so statuses follow the clock.
// The channel is closed when ctx is done.
func (s *DashboardService) Watch(ctx context.Context, studentID string, interval time.Duration) <-chan domain.DashboardSnapshot {
	ch := make(chan domain.DashboardSnapshot, 1)
	go func() {
		defer close(ch)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			snap := s.Snapshot(ctx, studentID)
			if snap.Err != nil {
				s.logger.Warn("dashboard snapshot failed",
					zap.String("student_id", studentID),
					zap.Error(snap.Err),
				)
			}
			select {
			case ch <- snap:
			case <-ctx.Done():
				return
			}
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

func (s *DashboardService) loadAssignments(ctx context.Context) ([]domain.Assignment, error) {
	list, err := s.assignments.ListAssignments(ctx)
	if err != nil {
		return nil, fmt.Errorf("load assignments: %w", err)
	}
	if list == nil {
		list = []domain.Assignment{}
	}
	return list, nil
}
