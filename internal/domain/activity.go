package domain

import "time"

// Commit is a single commit as reported by the code hosting integration.
type Commit struct {
	Date    Timestamp `json:"date"`
	Author  string    `json:"author"`
	Message string    `json:"message"`
}

// Repository groups the commits of one code hosting repository.
type Repository struct {
	Name    string   `json:"name"`
	Commits []Commit `json:"commits"`
}

// PracticeProfile is a problem-solving practice snapshot. SubmissionRate is a
// percentage in [0, 100].
type PracticeProfile struct {
	SolvedProblem  float64 `json:"solvedProblem" validate:"gte=0"`
	SubmissionRate float64 `json:"submissionRate" validate:"gte=0,lte=100"`
}

// StudentActivity is everything the activity scorer needs for one student. A nil
// Profile means the student has no practice signal.
type StudentActivity struct {
	StudentID string           `json:"studentId" validate:"required"`
	Repos     []Repository     `json:"repos"`
	Profile   *PracticeProfile `json:"completeProfile,omitempty"`
}

// ActivityLevel is the tier label derived from a composite activity score.
type ActivityLevel string

const (
	LevelHighlyActive     ActivityLevel = "Highly Active"
	LevelActive           ActivityLevel = "Active"
	LevelModeratelyActive ActivityLevel = "Moderately Active"
	LevelNeedsImprovement ActivityLevel = "Needs Improvement"
)

// Breakdown metric names.
const (
	MetricRecentCommits = "recentCommits"
	MetricRepoActivity  = "repoActivity"
	MetricCodeQuality   = "codeQuality"
	MetricProblems      = "problems"
	MetricConsistency   = "consistency"
)

// ActivityScore is the composite 0..100 activity score. Subtotals keep full
// precision; Total is rounded.
type ActivityScore struct {
	Total       int                `json:"total"`
	CodeHosting float64            `json:"codeHostingSubtotal"`
	Practice    float64            `json:"practiceSubtotal"`
	Level       ActivityLevel      `json:"level"`
	Breakdown   map[string]float64 `json:"breakdown"`
	ComputedAt  time.Time          `json:"computedAt"`
}

// TutorialProgress is the per-user onboarding state persisted by the dashboard.
type TutorialProgress struct {
	UserID         string    `json:"userId"`
	CompletedSteps []string  `json:"completedSteps"`
	CurrentStep    int       `json:"currentStep"`
	Dismissed      bool      `json:"dismissed"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
