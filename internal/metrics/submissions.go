package metrics

import "progress-dashboard/internal/domain"

// Aggregate counts hand-ins. An empty list has a rate of zero.
func Aggregate(submissions []domain.StudentSubmission) domain.SubmissionStats {
	stats := domain.SubmissionStats{Total: len(submissions)}
	for _, sub := range submissions {
		if sub.Submitted {
			stats.Submitted++
		}
	}
	if stats.Total == 0 {
		return stats
	}
	stats.Rate = float64(stats.Submitted) / float64(stats.Total) * 100
	return stats
}

// AverageRate is the arithmetic mean of the per-assignment submission rates.
func AverageRate(assignments []domain.Assignment) float64 {
	var sum float64
	for _, a := range assignments {
		sum += Aggregate(a.StudentSubmissions).Rate
	}
	return sum / float64(max(len(assignments), 1))
}
