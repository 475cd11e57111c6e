package metrics

import (
	"fmt"
	"math"
	"time"

	"progress-dashboard/internal/domain"
)

const (
	activityWindow = 30 * 24 * time.Hour

	recentCommitsCap    = 20.0
	recentCommitsTarget = 30.0
	repoActivityCap     = 15.0
	codeQualityCap      = 15.0
	activeDaysTarget    = 30.0

	problemsCap      = 30.0
	problemsTarget   = 100.0
	consistencyCap   = 20.0
	codeHostingLimit = 50.0
	practiceLimit    = 50.0
)

// Score combines code hosting activity and practice-profile progress into a
// 0..100 composite. repos must be non-nil; pass an empty slice for "no repositories".
func Score(repos []domain.Repository, profile *domain.PracticeProfile, now time.Time) (domain.ActivityScore, error) {
	if repos == nil {
		return domain.ActivityScore{}, fmt.Errorf("score activity: nil repositories: %w", domain.ErrInvalidInput)
	}
	if now.IsZero() {
		return domain.ActivityScore{}, fmt.Errorf("score activity: %w", domain.ErrInvalidDate)
	}

	recent, quality, activity, err := codeHostingMetrics(repos, now)
	if err != nil {
		return domain.ActivityScore{}, err
	}
	problems, consistency := practiceMetrics(profile)

	codeHosting := math.Min(recent+activity+quality, codeHostingLimit)
	practice := math.Min(problems+consistency, practiceLimit)
	total := int(math.Round(codeHosting + practice))

	return domain.ActivityScore{
		Total:       total,
		CodeHosting: codeHosting,
		Practice:    practice,
		Level:       Level(total),
		Breakdown: map[string]float64{
			domain.MetricRecentCommits: recent,
			domain.MetricRepoActivity:  activity,
			domain.MetricCodeQuality:   quality,
			domain.MetricProblems:      problems,
			domain.MetricConsistency:   consistency,
		},
		ComputedAt: now,
	}, nil
}

// Level maps a composite score to its tier. Thresholds are inclusive lower bounds.
func Level(total int) domain.ActivityLevel {
	switch {
	case total >= 80:
		return domain.LevelHighlyActive
	case total >= 60:
		return domain.LevelActive
	case total >= 40:
		return domain.LevelModeratelyActive
	default:
		return domain.LevelNeedsImprovement
	}
}

func codeHostingMetrics(repos []domain.Repository, now time.Time) (recent, quality, activity float64, err error) {
	cutoff := now.Add(-activityWindow)
	recentCount := 0
	activeRepos := 0
	commitsPerDay := make(map[string]int)

	for _, repo := range repos {
		if len(repo.Commits) > 0 {
			activeRepos++
		}
		for _, commit := range repo.Commits {
			if !commit.Date.Valid() {
				return 0, 0, 0, fmt.Errorf("score activity: commit in %q: %w", repo.Name, domain.ErrInvalidDate)
			}
			if commit.Date.After(cutoff) {
				recentCount++
			}
			commitsPerDay[commit.Date.UTC().Format(time.DateOnly)]++
		}
	}

	recent = math.Min(float64(recentCount)/recentCommitsTarget*recentCommitsCap, recentCommitsCap)
	activity = float64(activeRepos) / float64(max(len(repos), 1)) * repoActivityCap
	// Distinct active days, not raw volume.
	quality = math.Min(float64(len(commitsPerDay))/activeDaysTarget*codeQualityCap, codeQualityCap)
	return recent, quality, activity, nil
}

func practiceMetrics(profile *domain.PracticeProfile) (problems, consistency float64) {
	if profile == nil {
		return 0, 0
	}
	solved := math.Max(profile.SolvedProblem, 0)
	rate := math.Min(math.Max(profile.SubmissionRate, 0), 100)

	problems = math.Min(solved/problemsTarget*problemsCap, problemsCap)
	consistency = rate / 100 * consistencyCap
	return problems, consistency
}
